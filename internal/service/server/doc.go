// Package server runs the gRPC signing service.
//
// Run loads settings and credentials, then serves SignerService until the
// context is canceled. An optional HTTP listener exposes Prometheus metrics.
package server
