// Package packager is the local entry point of signpass.
//
// Run signs one bundle into a .pkpass archive and RunBatch signs many.
// Both merge command-line values over the optional settings file before
// loading the signing identity once.
package packager
