// Package workspace manages the disposable directory a bundle is signed in.
//
// Open allocates a uniquely named temporary directory and mirrors the bundle
// into it; Close removes it. The caller defers Close right after a successful
// Open so the directory is gone on every exit path.
package workspace
