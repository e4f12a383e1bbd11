// Package signature produces the detached signature stored next to the manifest.
//
// A Signer is built once from a password-protected identity bundle (PKCS#12)
// and an intermediate authority certificate (PEM). Sign returns a DER encoded
// PKCS#7 SignedData carrying the signing certificate, the intermediate and the
// signature value, but not the signed content itself.
package signature
