package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	api "github.com/pixix4/wallet-pass/internal/api/grpc/signer"
	"github.com/pixix4/wallet-pass/internal/config"
	"github.com/pixix4/wallet-pass/internal/logger"
	"github.com/pixix4/wallet-pass/internal/metrics"
	pipeline "github.com/pixix4/wallet-pass/internal/signer"
)

// Options controls the signpass-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress overrides the configured gRPC listen address.
	ListenAddress string
	// MetricsAddress overrides the configured metrics listen address.
	MetricsAddress string
	// BundleRoot overrides the configured bundle root.
	BundleRoot string
	// LogLevel overrides the configured log level.
	LogLevel string
}

const (
	// metricsNamespace prefixes every exported metric.
	metricsNamespace = "walletpass"
	// shutdownTimeout bounds the metrics server shutdown.
	shutdownTimeout = 5 * time.Second
	// readHeaderTimeout guards the metrics endpoint against slow clients.
	readHeaderTimeout = 5 * time.Second
)

var (
	// ErrNoIdentity indicates missing credential paths in the configuration.
	ErrNoIdentity = errors.New("identity and intermediate must be configured")
	// errNoOptions is returned when Run receives nil options.
	errNoOptions = errors.New("options are not set")
	// errUnknownLogLevel is returned for an unparsable log level override.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Run starts the signing server and blocks until ctx is canceled or the
// server stops. Credentials are loaded before anything listens.
func Run(ctx context.Context, opts *Options) error {
	if opts == nil {
		return errNoOptions
	}

	ctx = logger.WithName(ctx, "signpass-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyOverrides(settings, opts)

	level, ok := logger.ParseLogLevel(settings.LogLevel)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	logger.SetLevel(level)

	if settings.Identity == "" || settings.Intermediate == "" {
		return ErrNoIdentity
	}

	p, err := pipeline.Load(pipeline.Credentials{
		IdentityPath:     settings.Identity,
		Password:         settings.IdentityPassword,
		IntermediatePath: settings.Intermediate,
	})
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", settings.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", settings.ListenAddress, err)
	}

	var (
		m          metrics.Metrics = metrics.Noop{}
		metricsLis net.Listener
		handler    http.Handler
	)

	if settings.MetricsAddress != "" {
		prom, err := metrics.NewProm(metricsNamespace, nil)
		if err != nil {
			_ = lis.Close()
			return fmt.Errorf("register metrics: %w", err)
		}

		metricsLis, err = lc.Listen(ctx, "tcp", settings.MetricsAddress)
		if err != nil {
			_ = lis.Close()
			return fmt.Errorf("listen on %s: %w", settings.MetricsAddress, err)
		}

		m, handler = prom, prom.Handler()
	}

	srv := api.NewServer(p,
		api.WithBundleRoot(settings.BundleRoot),
		api.WithMetrics(m),
		api.WithDescriptorValidation(settings.ValidateDescriptor),
	)

	logger.InfoKV(ctx, "Signing server listening",
		"listen_address", lis.Addr().String(),
		"bundle_root", settings.BundleRoot,
		"metrics_address", settings.MetricsAddress,
	)

	return serve(ctx, lis, srv, settings.MaxMessageBytes, metricsLis, handler)
}

func applyOverrides(settings *config.Config, opts *Options) {
	if opts.ListenAddress != "" {
		settings.ListenAddress = opts.ListenAddress
	}

	if opts.MetricsAddress != "" {
		settings.MetricsAddress = opts.MetricsAddress
	}

	if opts.BundleRoot != "" {
		settings.BundleRoot = opts.BundleRoot
	}

	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}
}

// serve runs the gRPC server on lis and, when metricsLis is set, the metrics
// endpoint next to it. Both stop when ctx is canceled.
func serve(
	ctx context.Context,
	lis net.Listener,
	srv api.SignerServiceServer,
	maxMessageBytes int,
	metricsLis net.Listener,
	metricsHandler http.Handler,
) error {
	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(maxMessageBytes),
		grpc.MaxSendMsgSize(maxMessageBytes),
	)
	api.RegisterSignerServiceServer(grpcServer, srv)

	var httpServer *http.Server

	if metricsLis != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)

		httpServer = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		}

		go func() {
			if err := httpServer.Serve(metricsLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorKV(ctx, "Metrics server failed", "error", err)
			}
		}()
	}

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down signing server")

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.WarnKV(ctx, "Metrics server shutdown failed", "error", err)
			}

			cancel()
		}

		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Signing server stopped")

	return nil
}
