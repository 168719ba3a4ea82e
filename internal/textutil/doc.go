// Package textutil provides small text helpers shared by the catalog and
// thumbnail commands.
//
// FoldKey produces case-insensitive keys for grouping facet values, and
// SanitizeToken turns arbitrary paths into filesystem-safe tokens for lock
// file names.
package textutil
