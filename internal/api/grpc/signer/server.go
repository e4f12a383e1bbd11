package signer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/logger"
	"github.com/pixix4/wallet-pass/internal/metrics"
	pipeline "github.com/pixix4/wallet-pass/internal/signer"
)

// Signer abstracts the signing pipeline the transport depends on.
type Signer interface {
	Sign(ctx context.Context, opts *pipeline.Options, w io.Writer) (*pipeline.Result, error)
}

// ErrOutsideRoot is returned for bundles resolving outside the bundle root.
var ErrOutsideRoot = errors.New("bundle is outside the bundle root")

// Server implements SignerService.
type Server struct {
	// signer runs the pipeline.
	signer Signer
	// root confines requested bundles when not empty.
	root string
	// validate turns on descriptor schema validation for every request.
	validate bool
	// metrics observes every request outcome.
	metrics metrics.Metrics
	// locks serializes requests for the same bundle.
	locks *bundleLocks
}

// Option configures a Server.
type Option func(*Server)

// WithBundleRoot confines requests to bundles below root.
func WithBundleRoot(root string) Option {
	return func(s *Server) {
		s.root = root
	}
}

// WithMetrics records request outcomes in m.
func WithMetrics(m metrics.Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithDescriptorValidation checks every final pass.json against the schema.
func WithDescriptorValidation(enabled bool) Option {
	return func(s *Server) {
		s.validate = enabled
	}
}

// NewServer wires signer into a gRPC handler.
func NewServer(signer Signer, opts ...Option) *Server {
	s := &Server{
		signer:  signer,
		metrics: metrics.Noop{},
		locks:   newBundleLocks(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SignBundle signs the requested bundle and returns the archive bytes.
// The manifest fingerprint is sent in the ManifestDigestHeader response header.
func (s *Server) SignBundle(ctx context.Context, in *structpb.Struct) (*wrapperspb.BytesValue, error) {
	started := time.Now()
	ctx = withRequestFields(ctx)

	archive, err := s.signBundle(ctx, in)

	s.metrics.ObserveSignature(outcome(err), time.Since(started))

	if err != nil {
		logger.WarnKV(ctx, "Sign request failed", "error", err)
		return nil, toStatus(err)
	}

	return wrapperspb.Bytes(archive), nil
}

func (s *Server) signBundle(ctx context.Context, in *structpb.Struct) ([]byte, error) {
	req, err := DecodeRequest(in)
	if err != nil {
		return nil, err
	}

	bundle, key, err := s.resolve(req.Bundle)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithKV(ctx, "bundle", bundle)

	unlock := s.locks.lock(key)
	defer unlock()

	var buf bytes.Buffer

	result, err := s.signer.Sign(ctx, &pipeline.Options{
		BundlePath:         bundle,
		Descriptor:         req.Descriptor,
		Force:              req.Force,
		ValidateDescriptor: s.validate,
	}, &buf)
	if err != nil {
		return nil, err
	}

	if err = grpc.SetHeader(ctx, metadata.Pairs(ManifestDigestHeader, result.ManifestFingerprint.String())); err != nil {
		logger.WarnKV(ctx, "Failed to set response header", "error", err)
	}

	logger.InfoKV(ctx, "Bundle signed", "run_id", result.RunID, "bytes", result.ArchiveSize)

	return buf.Bytes(), nil
}

// resolve maps the requested bundle onto the filesystem, refusing paths that
// leave the bundle root lexically or through symlinks. The returned key names
// the bundle after symlink resolution so aliases share one lock.
func (s *Server) resolve(bundle string) (path, key string, err error) {
	if s.root == "" {
		path = filepath.Clean(bundle)

		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return path, lockKey(path), nil //nolint:nilerr // Missing bundles fail later in the pipeline.
		}

		return path, lockKey(resolved), nil
	}

	rel := filepath.FromSlash(bundle)
	if !filepath.IsLocal(rel) {
		return "", "", fmt.Errorf("%w: %s", ErrOutsideRoot, bundle)
	}

	path = filepath.Join(s.root, rel)

	resolved, err := filepath.EvalSymlinks(path)
	if errors.Is(err, os.ErrNotExist) {
		return path, lockKey(path), nil
	}

	if err != nil {
		return "", "", errs.NewIO("resolve bundle", path, err)
	}

	root, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return "", "", errs.NewIO("resolve bundle root", s.root, err)
	}

	inside, err := filepath.Rel(root, resolved)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %s", ErrOutsideRoot, bundle)
	}

	return path, resolved, nil
}

// lockKey makes path absolute when possible.
func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return path
}

// withRequestFields tags the context logger with request metadata, minting
// a request id when the caller sent none.
func withRequestFields(ctx context.Context) context.Context {
	md, _ := metadata.FromIncomingContext(ctx)

	requestID := uuid.NewString()
	if values := md.Get(RequestIDHeader); len(values) > 0 && values[0] != "" {
		requestID = values[0]
	}

	kvs := []any{"request_id", requestID}
	if values := md.Get(ActorHeader); len(values) > 0 {
		kvs = append(kvs, "actor", values[0])
	}

	return logger.WithKV(logger.WithName(ctx, "sign"), kvs...)
}

func invalidArgument(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrOutsideRoot) ||
		errors.Is(err, pipeline.ErrInvalidDescriptor)
}

func notFound(err error) bool {
	var ioErr *errs.IOError

	return errors.As(err, &ioErr) && errors.Is(err, os.ErrNotExist)
}

// toStatus maps pipeline errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, errs.ErrAlreadySigned):
		return status.Error(codes.FailedPrecondition, err.Error())
	case invalidArgument(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case notFound(err):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, errs.ErrAlreadySigned):
		return metrics.StatusAlreadySigned
	case invalidArgument(err):
		return metrics.StatusInvalid
	case notFound(err):
		return metrics.StatusNotFound
	default:
		return metrics.StatusError
	}
}
