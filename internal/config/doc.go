// Package config defines the settings shared by signpass and signpass-server
// and provides helpers to load, validate and save them in YAML format.
//
// Validate fills in defaults, so a loaded Config is always complete. The
// identity password may be kept out of the file and supplied through the
// WALLET_PASS_PASSWORD environment variable instead.
package config
