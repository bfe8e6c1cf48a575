package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/workflows"
)

var addFileCmd = &cobra.Command{
	Use:   "add-file <pattern>...",
	Short: "Encrypt and store files",
	Long: `Encrypts each file matching the glob patterns under its own fresh content
key and uploads the ciphertext. Patterns support doublestar globs, e.g.
"docs/**/*.pdf".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add-file command with %d patterns", len(args))

		sess, err := currentSession()
		if err != nil {
			return Logger.ErrorfAndReturn("Not logged in: run `veil vault register` or `veil vault import-key` first")
		}

		backend, err := openBackend()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
		}

		spinner, cleanup := startSpinner("Encrypting files...", verbose)
		defer cleanup()

		result, err := workflows.AddFiles(cmd.Context(), workflows.AddFilesOptions{
			Owner:    sess.Username,
			Patterns: args,
			Backend:  backend,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to add files: %v", err)
		}

		finalMessage := ""
		for _, f := range result.Files {
			finalMessage += color.GreenString("✓") + " Stored " + color.YellowString(f.Path) +
				" as item " + color.YellowString(f.ItemID) + "\n"
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}
