package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAlreadySignedError_Matching checks Is/As through wrapping layers.
func TestAlreadySignedError_Matching(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("preflight: %w", &AlreadySignedError{
		Bundle:    "Event.pass",
		Artifacts: []string{"manifest.json", "signature"},
	})

	require.ErrorIs(t, err, ErrAlreadySigned)
	require.NotErrorIs(t, err, ErrCredential)

	var signed *AlreadySignedError
	require.ErrorAs(t, err, &signed)
	require.Contains(t, err.Error(), "manifest.json, signature")
}

// TestNewIO verifies nil passthrough and unwrapping to the OS error.
func TestNewIO(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewIO("read", "x", nil))

	err := NewIO("read", "missing.png", os.ErrNotExist)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, "read missing.png: file does not exist", err.Error())
	require.Equal(t, "walk: file does not exist", NewIO("walk", "", os.ErrNotExist).Error())
}

// TestCredentialError_Kind ensures the kind survives wrapping and the input is named.
func TestCredentialError_Kind(t *testing.T) {
	t.Parallel()

	cause := errors.New("pkcs12: decryption password incorrect")
	err := fmt.Errorf("load: %w", NewCredential(InputIdentity, CredentialPassword, cause))

	require.ErrorIs(t, err, ErrCredential)
	require.ErrorIs(t, err, cause)

	kind, ok := CredentialKindOf(err)
	require.True(t, ok)
	require.Equal(t, CredentialPassword, kind)
	require.Contains(t, err.Error(), "identity credential rejected (password)")

	_, ok = CredentialKindOf(cause)
	require.False(t, ok)
}

// TestArchiveError_Is checks sentinel matching for archive failures.
func TestArchiveError_Is(t *testing.T) {
	t.Parallel()

	err := &ArchiveError{Path: "/tmp/ws", Err: errors.New("not a directory")}
	require.ErrorIs(t, err, ErrArchive)
	require.Equal(t, "pack /tmp/ws: not a directory", err.Error())
}
