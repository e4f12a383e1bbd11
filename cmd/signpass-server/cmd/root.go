package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pixix4/wallet-pass/internal/config"
	"github.com/pixix4/wallet-pass/internal/service/server"
	"github.com/pixix4/wallet-pass/internal/version"
)

//nolint:gochecknoglobals // Cobra flag bindings.
var (
	// configPath to the configuration YAML file.
	configPath string
	// metricsAddress overrides the configured metrics address.
	metricsAddress string
	// bundleRoot overrides the configured bundle root.
	bundleRoot string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for running the gRPC server.
	rootCmd = &cobra.Command{
		Use:   "signpass-server [listen-address]",
		Short: "Run the gRPC pass signing server.",
		Long: `Starts the gRPC signing server. The identity is loaded once at startup and
every request signs a bundle below the bundle root, returning the archive bytes.

The listen address can be provided as argument to override the settings file.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:     configPath,
				ListenAddress:  listenAddress,
				MetricsAddress: metricsAddress,
				BundleRoot:     bundleRoot,
				LogLevel:       logLevel,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the signpass-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&metricsAddress, "metrics", "m", "", "address for the Prometheus /metrics endpoint")
	rootCmd.Flags().StringVarP(&bundleRoot, "bundle-root", "r", "", "directory requested bundles must live in")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}
