// Package common holds helpers shared by the signing binaries.
//
// It provides a gRPC client for the signing service with per-call timeouts
// and detects the current actor (user@host) sent along with requests.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
