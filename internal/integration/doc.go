// Package integration holds end-to-end tests wiring the signing services
// together through real settings files, listeners and archives.
package integration
