//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	api "github.com/pixix4/wallet-pass/internal/api/grpc/signer"
	"github.com/pixix4/wallet-pass/internal/config"
	"github.com/pixix4/wallet-pass/internal/domain/pass"
	"github.com/pixix4/wallet-pass/internal/logger"
)

// Client wraps the SignerService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the signing server.
	conn *grpc.ClientConn
	// api is the SignerService client.
	api api.SignerServiceClient
	// actor is sent with every request when set.
	actor string
	// dialOpts are appended to the default dial options.
	dialOpts []grpc.DialOption

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// maxMessageSize bounds sent and received messages.
	maxMessageSize int
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithMaxMessageSize sets the largest archive the client accepts.
func WithMaxMessageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxMessageSize = size
		}
	}
}

// WithActor names the caller in request metadata.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// WithDialOptions appends dial options, e.g. a custom dialer.
func WithDialOptions(dialOpts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOpts = append(c.dialOpts, dialOpts...)
	}
}

// SignResult is the outcome of a remote signing.
type SignResult struct {
	// Archive holds the signed pass archive.
	Archive []byte
	// ManifestDigest is the manifest fingerprint reported by the server.
	ManifestDigest string
	// RequestID correlates the call with server logs.
	RequestID string
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the signing server at address.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout:    config.DefaultTimeout,
		maxMessageSize: config.DefaultMaxMessageBytes,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(client.maxMessageSize),
			grpc.MaxCallSendMsgSize(client.maxMessageSize),
		),
	}, client.dialOpts...)

	conn, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial signing server: %w", err)
	}

	client.conn = conn
	client.api = api.NewSignerServiceClient(conn)

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// SignBundle asks the server to sign bundle. The path is interpreted by the
// server, relative to its bundle root when one is configured.
func (c *Client) SignBundle(ctx context.Context, bundle string, force bool, descriptor *pass.Pass) (*SignResult, error) {
	req, err := api.EncodeRequest(&api.Request{
		Bundle:     bundle,
		Force:      force,
		Descriptor: descriptor,
	})
	if err != nil {
		return nil, fmt.Errorf("sign bundle: %w", err)
	}

	requestID := uuid.NewString()

	pairs := []string{api.RequestIDHeader, requestID}
	if c.actor != "" {
		pairs = append(pairs, api.ActorHeader, c.actor)
	}

	callCtx, cancel := c.callContext(metadata.AppendToOutgoingContext(ctx, pairs...))
	defer cancel()

	var header metadata.MD

	resp, err := c.api.SignBundle(callCtx, req, grpc.Header(&header))
	if err != nil {
		return nil, fmt.Errorf("sign bundle %s: %w", bundle, err)
	}

	result := &SignResult{
		Archive:   resp.GetValue(),
		RequestID: requestID,
	}

	if values := header.Get(api.ManifestDigestHeader); len(values) > 0 {
		result.ManifestDigest = values[0]
	}

	logger.DebugKV(ctx, "Remote bundle signed", "request_id", requestID, "bytes", len(result.Archive))

	return result, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
