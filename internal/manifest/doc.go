// Package manifest builds the content digest manifest of a pass workspace.
//
// A Manifest maps every regular file below the workspace root, by its
// slash-separated relative path, to the lowercase hex SHA-1 of its bytes.
// It is written as pretty-printed JSON to manifest.json at the root.
package manifest
