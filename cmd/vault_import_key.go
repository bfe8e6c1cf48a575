package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/workflows"
)

var importKeyPath string

func init() {
	importKeyCmd.Flags().StringVarP(&importKeyPath, "key", "k", "", "path to the private key backup file (reads stdin when omitted)")
}

var importKeyCmd = &cobra.Command{
	Use:   "import-key <username>",
	Short: "Re-ingest your private key backup into the local store",
	Long: `Validates a private key backup file and places it in the local custody
store. The key must match the public key registered for the account; a
structurally valid but wrong key file is rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		Logger.Infof("Starting import-key command for %s", username)

		backend, err := openBackend()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
		}

		store, err := openCustody()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open custody store: %v", err)
		}
		defer store.Close()

		opts := workflows.ImportKeyOptions{
			Username: username,
			KeyPath:  importKeyPath,
			Backend:  backend,
			Custody:  store,
		}
		if importKeyPath == "" {
			Logger.Debugf("No key path given, reading private key from stdin")
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read private key from stdin: %v", err)
			}
			opts.KeyData = data
		}

		if _, err := workflows.ImportKey(cmd.Context(), opts); err != nil {
			return Logger.ErrorfAndReturn("Failed to import key: %v", err)
		}

		cmd.Println(color.GreenString("✓") + " Private key verified and stored for " + color.CyanString(username))
		return nil
	},
}
