// Package errs defines the terminal error kinds a signing run can end with.
//
// Every failure of the pipeline is one of AlreadySignedError, IOError,
// CredentialError or ArchiveError. None of them is retried: they stem from
// caller input or from the environment.
package errs
