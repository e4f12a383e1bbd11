package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pixix4/wallet-pass/internal/service/packager"
)

//nolint:gochecknoglobals // Cobra flag bindings.
var (
	// outputDir receives the batch archives.
	outputDir string
	// concurrency caps parallel pipelines.
	concurrency int

	// batchCmd signs many bundles.
	batchCmd = &cobra.Command{
		Use:   "batch <bundle>...",
		Short: "Sign several bundles concurrently.",
		Long: `Signs every given bundle into <output-dir>/<bundle name>.pkpass using one identity.
The first failure stops bundles that have not started yet.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := packager.RunBatch(cmd.Context(), &packager.BatchOptions{
				Credentials: credentials,
				ConfigPath:  configPath,
				Bundles:     args,
				OutputDir:   outputDir,
				Concurrency: concurrency,
				Force:       force,
				Validate:    validate,
			})

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	batchCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the archives (default from settings)")
	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "parallel pipelines (default from settings)")
}
