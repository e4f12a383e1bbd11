// Package signer runs the pass signing pipeline.
//
// A run moves through fixed stages: the source bundle is checked for
// leftovers of an earlier signing (removed first when forced), copied into a
// private workspace, optionally given a new descriptor, digested into
// manifest.json, signed into signature and finally packed into a zip
// archive. The workspace is removed whatever the outcome.
//
// Failures are reported as the error kinds of package errs; the first error
// of a run is the one returned.
package signer
