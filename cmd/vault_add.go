package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/workflows"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <value>",
	Short: "Encrypt and store a text item",
	Long: `Encrypts a key/value item under a fresh content key and uploads the
ciphertext. The content key is wrapped under your public key; the server
stores only opaque blobs.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, value := args[0], args[1]
		Logger.Infof("Starting add command for item %s", name)

		sess, err := currentSession()
		if err != nil {
			return Logger.ErrorfAndReturn("Not logged in: run `veil vault register` or `veil vault import-key` first")
		}

		backend, err := openBackend()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
		}

		spinner, cleanup := startSpinner("Encrypting item...", verbose)
		defer cleanup()

		result, err := workflows.AddText(cmd.Context(), workflows.AddTextOptions{
			Owner:   sess.Username,
			Name:    name,
			Value:   value,
			Backend: backend,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to add item: %v", err)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Stored " + color.CyanString(name) +
			" as item " + color.YellowString(result.ItemID) + "\n"
		return nil
	},
}
