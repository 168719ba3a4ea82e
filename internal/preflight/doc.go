// Package preflight provides readiness checks for the filesystem paths artref
// reads and writes.
//
// `artref doctor` runs RunAll and renders each Result. Checks never modify
// anything: missing output directories are judged by their nearest existing
// parent, which is where artref would create them.
package preflight
