package signer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"

	"github.com/pixix4/wallet-pass/internal/archive"
	"github.com/pixix4/wallet-pass/internal/domain/pass"
	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/logger"
	"github.com/pixix4/wallet-pass/internal/manifest"
	"github.com/pixix4/wallet-pass/internal/signature"
	"github.com/pixix4/wallet-pass/internal/workspace"
)

var (
	// ErrInvalidDescriptor is returned when descriptor validation is requested and fails.
	ErrInvalidDescriptor = errors.New("invalid pass descriptor")

	errBundleRequired = errors.New("bundle path must be provided")
	errSignerRequired = errors.New("signer is not set")
)

// Options describe a single signing run.
type Options struct {
	// BundlePath is the source bundle directory. It is only modified when Force is set.
	BundlePath string
	// Descriptor, when set, replaces pass.json inside the workspace.
	Descriptor *pass.Pass
	// Force removes manifest.json and signature from the bundle before signing.
	Force bool
	// ValidateDescriptor checks the final pass.json against the structural schema.
	ValidateDescriptor bool
}

// Result summarizes a successful run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string
	// Entries are the archive entry names in write order.
	Entries []string
	// Manifest is the digest manifest that was signed.
	Manifest manifest.Manifest
	// ManifestFingerprint is manifest.Manifest.Fingerprint of Manifest.
	ManifestFingerprint digest.Digest
	// ArchiveDigest is the sha256 of the archive bytes written.
	ArchiveDigest digest.Digest
	// ArchiveSize is the number of archive bytes written.
	ArchiveSize int64
}

// Credentials locate the signing identity on disk.
type Credentials struct {
	// IdentityPath is the password-protected identity bundle (.p12).
	IdentityPath string
	// Password opens the identity bundle.
	Password string
	// IntermediatePath is the PEM encoded intermediate authority certificate.
	IntermediatePath string
}

// Pipeline signs bundles with one identity. It holds no per-run state, so a
// Pipeline may run many bundles concurrently as long as they are distinct.
type Pipeline struct {
	// signer produces the detached signatures.
	signer *signature.Signer
	// workspaceOpts are passed to every workspace.Open call.
	workspaceOpts []workspace.Option
}

// New returns a Pipeline signing with s.
func New(s *signature.Signer, opts ...workspace.Option) *Pipeline {
	return &Pipeline{
		signer:        s,
		workspaceOpts: opts,
	}
}

// Load reads the credentials and returns a Pipeline using them.
func Load(creds Credentials, opts ...workspace.Option) (*Pipeline, error) {
	s, err := signature.Load(creds.IdentityPath, creds.Password, creds.IntermediatePath)
	if err != nil {
		return nil, err
	}

	return New(s, opts...), nil
}

// SignPath loads the credentials and runs one signing into w.
// Credentials are loaded before the bundle is inspected, so a credential
// failure wins over an already signed bundle and a forced run leaves the
// existing artifacts in place when the identity cannot be read.
func SignPath(ctx context.Context, creds Credentials, opts *Options, w io.Writer) (*Result, error) {
	p, err := Load(creds)
	if err != nil {
		return nil, err
	}

	return p.Sign(ctx, opts, w)
}

// run tracks the progress of one Sign call.
type run struct {
	ctx   context.Context //nolint:containedctx // Scoped to a single Sign call.
	id    string
	stage Stage
}

func (r *run) advance(stage Stage) {
	r.stage = stage
	logger.DebugKV(r.ctx, "Pipeline stage reached", "stage", stage.String())
}

// Sign runs the pipeline on opts.BundlePath and streams the archive into w.
// Nothing is written to w unless every stage before packing succeeded.
func (p *Pipeline) Sign(ctx context.Context, opts *Options, w io.Writer) (result *Result, err error) {
	if p == nil || p.signer == nil {
		return nil, errSignerRequired
	}

	if opts == nil || opts.BundlePath == "" {
		return nil, errBundleRequired
	}

	r := &run{id: uuid.NewString()}
	r.ctx = logger.WithKV(ctx, "run_id", r.id, "bundle", opts.BundlePath)

	defer func() {
		if err != nil {
			logger.DebugKV(r.ctx, "Pipeline failed", "stage", r.stage.String(), "error", err)
			r.advance(StageFailed)
		}
	}()

	r.advance(StageStart)

	if err = p.preflight(r, opts); err != nil {
		return nil, err
	}

	ws, err := workspace.Open(r.ctx, opts.BundlePath, p.workspaceOpts...)
	if err != nil {
		return nil, err
	}

	defer func() {
		cerr := ws.Close()

		switch {
		case cerr == nil && err == nil:
			r.advance(StageCleanedUp)
			r.advance(StageDone)
		case cerr == nil:
		case err == nil:
			err = cerr
			result = nil
		default:
			logger.WarnKV(r.ctx, "Failed to remove workspace", "workspace", ws.Root(), "error", cerr)
		}
	}()

	r.advance(StageWorkspaceReady)

	return p.process(r, ws, opts, w)
}

// preflight refuses already signed bundles, or cleans them when forced.
func (p *Pipeline) preflight(r *run, opts *Options) error {
	if opts.Force {
		removed, err := ForceClean(opts.BundlePath)
		if err != nil {
			return err
		}

		if len(removed) > 0 {
			logger.InfoKV(r.ctx, "Removed previous signing artifacts", "files", removed)
		}

		r.advance(StageForceClean)
	}

	if err := CheckUnsigned(opts.BundlePath); err != nil {
		return err
	}

	r.advance(StageValidated)

	return nil
}

// process runs the stages that work inside the workspace.
func (p *Pipeline) process(r *run, ws *workspace.Workspace, opts *Options, w io.Writer) (*Result, error) {
	if err := injectDescriptor(r, ws, opts); err != nil {
		return nil, err
	}

	r.advance(StageDescriptorInjected)

	m, err := manifest.Build(ws.Root())
	if err != nil {
		return nil, err
	}

	manifestPath, err := m.Write(ws.Root())
	if err != nil {
		return nil, err
	}

	fingerprint, err := m.Fingerprint()
	if err != nil {
		return nil, err
	}

	logger.InfoKV(r.ctx, "Manifest written", "entries", len(m), "fingerprint", fingerprint.String())
	r.advance(StageManifestBuilt)

	if _, err = p.signer.SignFile(ws.Root(), manifestPath); err != nil {
		return nil, err
	}

	r.advance(StageSigned)

	digester := digest.Canonical.Digester()
	counter := &countingWriter{}

	entries, err := archive.Pack(ws.Root(), io.MultiWriter(w, digester.Hash(), counter))
	if err != nil {
		return nil, err
	}

	logger.InfoKV(r.ctx, "Pass archive written", "entries", len(entries), "bytes", counter.n)
	r.advance(StagePacked)

	return &Result{
		RunID:               r.id,
		Entries:             entries,
		Manifest:            m,
		ManifestFingerprint: fingerprint,
		ArchiveDigest:       digester.Digest(),
		ArchiveSize:         counter.n,
	}, nil
}

// injectDescriptor writes the caller descriptor into the workspace, drops
// filesystem marker files and, on request, checks the final pass.json.
func injectDescriptor(r *run, ws *workspace.Workspace, opts *Options) error {
	if opts.Descriptor != nil {
		if err := pass.Write(ws.Root(), opts.Descriptor); err != nil {
			return errs.NewIO("write descriptor", ws.Path(pass.Filename), err)
		}

		logger.Debug(r.ctx, "Descriptor replaced in workspace")
	}

	removed, err := ws.RemoveMetadataFiles()
	if err != nil {
		return err
	}

	if len(removed) > 0 {
		logger.DebugKV(r.ctx, "Removed filesystem metadata files", "files", removed)
	}

	descriptorPath := ws.Path(pass.Filename)

	data, err := os.ReadFile(filepath.Clean(descriptorPath))
	if err != nil {
		return errs.NewIO("read descriptor", descriptorPath, err)
	}

	if !opts.ValidateDescriptor {
		return nil
	}

	if err = pass.Validate(data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	return nil
}

// countingWriter counts bytes written through it.
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
