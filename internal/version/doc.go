// Package version exposes build metadata for the signing binaries.
//
// Version, Commit and BuildTime are injected at build time via -ldflags.
package version
