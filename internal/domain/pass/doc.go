// Package pass models the pass.json descriptor stored at the root of a pass bundle.
//
// The types are plain records mirroring the wallet pass format. The signing
// pipeline does not interpret them: it only loads, serializes and, on request,
// checks the descriptor against a structural JSON schema.
package pass
