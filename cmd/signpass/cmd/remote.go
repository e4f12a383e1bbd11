package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pixix4/wallet-pass/internal/service/client"
)

//nolint:gochecknoglobals // Cobra flag bindings.
var (
	// serverAddress overrides the configured server address.
	serverAddress string
	// remoteOutput is the local archive path.
	remoteOutput string
	// remoteDescriptor is a local pass.json sent with the request.
	remoteDescriptor string
	// attempts caps tries while the server is unavailable.
	attempts int

	// remoteCmd asks a signing server to sign a bundle.
	remoteCmd = &cobra.Command{
		Use:   "remote <bundle>",
		Short: "Ask a signing server to sign a bundle.",
		Long: `Sends a bundle path to signpass-server and stores the returned archive.
The path is resolved by the server, relative to its bundle root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.Run(cmd.Context(), &client.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Bundle:        args[0],
				Output:        remoteOutput,
				Descriptor:    remoteDescriptor,
				Force:         force,
				Attempts:      attempts,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	remoteCmd.Flags().StringVarP(&serverAddress, "server", "s", "", "signing server address (default from settings)")
	remoteCmd.Flags().StringVarP(&remoteOutput, "output", "o", "", "output archive (default <bundle name>.pkpass)")
	remoteCmd.Flags().StringVarP(&remoteDescriptor, "descriptor", "d", "", "pass.json to inject into the archive")
	remoteCmd.Flags().IntVar(&attempts, "attempts", 3, "tries while the server is unavailable")
}
