// Package main hosts the artref CLI entrypoint and command graph.
//
// The Cobra command tree exposes the catalog export, the thumbnail mirror and
// the configuration and doctor utilities. It resolves configuration once per
// invocation, applies explicitly set flags on top of it and sets up structured
// logging, so each command only wires the internal packages together.
package main
