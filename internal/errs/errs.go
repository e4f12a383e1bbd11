package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadySigned matches any *AlreadySignedError.
	ErrAlreadySigned = errors.New("bundle already contains signing artifacts")
	// ErrCredential matches any *CredentialError.
	ErrCredential = errors.New("invalid signing credentials")
	// ErrArchive matches any *ArchiveError.
	ErrArchive = errors.New("archive packing failed")
)

// AlreadySignedError is returned when the source bundle still holds a manifest
// or signature from a previous run and force was not requested.
type AlreadySignedError struct {
	// Bundle is the inspected source directory.
	Bundle string
	// Artifacts lists the offending file names.
	Artifacts []string
}

func (e *AlreadySignedError) Error() string {
	return fmt.Sprintf("%s contains pass signing artifacts (%s) that need to be removed before signing",
		e.Bundle, strings.Join(e.Artifacts, ", "))
}

// Is reports whether target is ErrAlreadySigned.
func (e *AlreadySignedError) Is(target error) bool {
	return target == ErrAlreadySigned
}

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// NewIO wraps err as an *IOError. A nil err yields nil.
func NewIO(op, path string, err error) error {
	if err == nil {
		return nil
	}

	return &IOError{Op: op, Path: path, Err: err}
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}

	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// CredentialKind tells which property of a credential was rejected.
type CredentialKind string

const (
	// CredentialPassword means the identity bundle could not be opened with the password.
	CredentialPassword CredentialKind = "password"
	// CredentialMalformed means the input could not be decoded at all.
	CredentialMalformed CredentialKind = "malformed"
	// CredentialExpired means a certificate is outside its validity window.
	CredentialExpired CredentialKind = "expired"
	// CredentialMismatch means the private key does not belong to the certificate.
	CredentialMismatch CredentialKind = "mismatch"
)

// Credential inputs named in CredentialError.Input.
const (
	InputIdentity     = "identity"
	InputIntermediate = "intermediate"
)

// CredentialError reports a rejected identity bundle or intermediate certificate.
type CredentialError struct {
	// Input names the faulty input: InputIdentity or InputIntermediate.
	Input string
	Kind  CredentialKind
	Err   error
}

// NewCredential builds a *CredentialError.
func NewCredential(input string, kind CredentialKind, err error) error {
	return &CredentialError{Input: input, Kind: kind, Err: err}
}

func (e *CredentialError) Error() string {
	msg := fmt.Sprintf("%s credential rejected (%s)", e.Input, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCredential.
func (e *CredentialError) Is(target error) bool {
	return target == ErrCredential
}

// ArchiveError is returned when the packing target cannot be archived.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return "pack " + e.Path + ": " + e.Err.Error()
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrArchive.
func (e *ArchiveError) Is(target error) bool {
	return target == ErrArchive
}

// CredentialKindOf extracts the credential kind from err, if any.
func CredentialKindOf(err error) (CredentialKind, bool) {
	var credErr *CredentialError
	if errors.As(err, &credErr) {
		return credErr.Kind, true
	}

	return "", false
}
