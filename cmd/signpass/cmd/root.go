package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pixix4/wallet-pass/internal/config"
	"github.com/pixix4/wallet-pass/internal/logger"
	"github.com/pixix4/wallet-pass/internal/service/packager"
	"github.com/pixix4/wallet-pass/internal/version"
)

//nolint:gochecknoglobals // Cobra flag bindings.
var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// credentials override the configured identity.
	credentials packager.Credentials
	// force re-signs bundles that already hold signing artifacts.
	force bool
	// validate checks pass.json against the schema.
	validate bool

	// bundle is the bundle directory to sign.
	bundle string
	// output is the archive path.
	output string
	// descriptor is a pass.json injected into the archive.
	descriptor string

	// rootCmd signs a single bundle.
	rootCmd = &cobra.Command{
		Use:   "signpass -p <bundle> [flags]",
		Short: "Sign a wallet pass bundle into a .pkpass archive.",
		Long: `Signs a pass bundle directory into a .pkpass archive.

The bundle is copied to a temporary workspace, a SHA-1 manifest of every file is
written and signed with the identity bundle, and the result is zipped. The source
bundle is never modified unless --force removes a previous manifest and signature.

The identity password may be given with --password, in the settings file or through
the WALLET_PASS_PASSWORD environment variable.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := packager.Run(cmd.Context(), &packager.Options{
				Credentials: credentials,
				ConfigPath:  configPath,
				Bundle:      bundle,
				Output:      output,
				Descriptor:  descriptor,
				Force:       force,
				Validate:    validate,
			})

			return err
		},
	}
)

// Execute runs the signpass CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// setupLogging applies --log-level, falling back to the settings file.
func setupLogging(_ *cobra.Command, _ []string) error {
	level := logLevel

	if level == "" {
		if cfg, err := config.LoadOptional(configPath); err == nil {
			level = cfg.LogLevel
		}
	}

	parsed, ok := logger.ParseLogLevel(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}

	logger.SetLevel(parsed)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVarP(&credentials.Identity, "certificate", "c", "", "path to the identity bundle (.p12)")
	flags.StringVarP(&credentials.Password, "password", "w", "", "password of the identity bundle")
	flags.StringVarP(&credentials.Intermediate, "intermediate", "i", "", "path to the intermediate certificate (PEM)")
	flags.BoolVarP(&force, "force", "f", false, "remove an existing manifest and signature before signing")
	flags.BoolVar(&validate, "validate", false, "check pass.json against the pass schema")

	rootCmd.Flags().StringVarP(&bundle, "pass", "p", "", "path to the pass bundle directory")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output archive (default <bundle name>.pkpass)")
	rootCmd.Flags().StringVarP(&descriptor, "descriptor", "d", "", "pass.json to inject into the archive")
	_ = rootCmd.MarkFlagRequired("pass")

	rootCmd.AddCommand(batchCmd, remoteCmd)
}
