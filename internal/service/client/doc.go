// Package client implements `signpass remote`: it asks a signing server to
// sign a bundle and stores the returned archive locally.
package client
