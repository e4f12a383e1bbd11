package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pixix4/wallet-pass/internal/config"
	"github.com/pixix4/wallet-pass/internal/domain/pass"
	"github.com/pixix4/wallet-pass/internal/logger"
	"github.com/pixix4/wallet-pass/internal/manifest"
	"github.com/pixix4/wallet-pass/internal/service/common"
	pipeline "github.com/pixix4/wallet-pass/internal/signer"
)

// Options configures a remote signing request.
type Options struct {
	// ConfigPath to YAML settings file, optional.
	ConfigPath string
	// ServerAddress overrides the configured listen address of the server.
	ServerAddress string
	// Bundle is the bundle path as seen by the server.
	Bundle string
	// Output is the local archive path, derived from Bundle when empty.
	Output string
	// Descriptor is an optional local pass.json sent with the request.
	Descriptor string
	// Force re-signs bundles that already hold signing artifacts.
	Force bool
	// Attempts caps tries while the server is unavailable. Zero means one try.
	Attempts int
}

// retryInterval is the delay between attempts while the server is unavailable.
const retryInterval = 1 * time.Second

var (
	// ErrDigestMismatch is returned when the archive manifest does not match the reported digest.
	ErrDigestMismatch = errors.New("archive manifest does not match the reported digest")

	errNoOptions = errors.New("options are not set")
)

// Run sends the request, retrying while the server is unavailable, checks
// the archive against the reported manifest digest and writes it to Output.
func Run(ctx context.Context, opts *Options) error {
	if opts == nil {
		return errNoOptions
	}

	ctx = logger.WithName(ctx, "signpass-remote")

	cfg, err := config.LoadOptional(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	serverAddress := cfg.ListenAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	var descriptor *pass.Pass

	if opts.Descriptor != "" {
		descriptor, err = pass.LoadFile(opts.Descriptor)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.Descriptor, err)
		}
	}

	clientOpts := []common.Option{
		common.WithCallTimeout(cfg.Timeout),
		common.WithMaxMessageSize(cfg.MaxMessageBytes),
	}
	if actor, err := common.DetectActor(); err == nil {
		clientOpts = append(clientOpts, common.WithActor(actor))
	}

	client, err := common.Dial(ctx, serverAddress, clientOpts...)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Requesting remote signature", "server_address", serverAddress, "bundle", opts.Bundle)

	result, err := signWithRetry(ctx, client, opts, descriptor)
	if err != nil {
		return err
	}

	if err = checkManifestDigest(result.Archive, result.ManifestDigest); err != nil {
		return err
	}

	output := opts.Output
	if output == "" {
		output = pipeline.DefaultOutputPath(opts.Bundle)
	}

	err = pipeline.WriteFileAtomic(output, func(w io.Writer) error {
		_, err := w.Write(result.Archive)
		return err
	})
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Pass archive received",
		"output", output,
		"bytes", len(result.Archive),
		"manifest", result.ManifestDigest,
		"request_id", result.RequestID,
	)

	return nil
}

// signWithRetry calls SignBundle until it succeeds, fails with anything but
// Unavailable, runs out of attempts or ctx is canceled.
func signWithRetry(
	ctx context.Context,
	client *common.Client,
	opts *Options,
	descriptor *pass.Pass,
) (*common.SignResult, error) {
	attempts := max(opts.Attempts, 1)

	// attempt tries once and reports whether another try makes sense.
	attempt := func() (*common.SignResult, bool, error) {
		result, err := client.SignBundle(ctx, opts.Bundle, opts.Force, descriptor)
		if err == nil {
			return result, false, nil
		}

		if status.Code(err) == codes.Unavailable {
			logger.WarnKV(ctx, "Signing server unavailable", "error", err)
			return nil, true, err
		}

		return nil, false, err
	}

	result, retry, err := attempt()
	if !retry {
		return result, err
	}

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for try := 1; try < attempts; try++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			result, retry, err = attempt()
			if !retry {
				return result, err
			}
		}
	}

	return nil, err
}

// checkManifestDigest compares the fingerprint of the archived manifest with
// the digest the server reported. An empty digest is not checked.
func checkManifestDigest(archive []byte, want string) error {
	if want == "" {
		return nil
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("open received archive: %w", err)
	}

	rc, err := zr.Open(manifest.Filename)
	if err != nil {
		return fmt.Errorf("open received manifest: %w", err)
	}

	data, err := io.ReadAll(rc)
	_ = rc.Close()

	if err != nil {
		return fmt.Errorf("read received manifest: %w", err)
	}

	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}

	got, err := m.Fingerprint()
	if err != nil {
		return err
	}

	if got.String() != want {
		return fmt.Errorf("%w: got %s, want %s", ErrDigestMismatch, got, want)
	}

	return nil
}
