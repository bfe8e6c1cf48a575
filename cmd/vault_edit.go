package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/workflows"
)

var editCmd = &cobra.Command{
	Use:   "edit <item-id> <new-value>",
	Short: "Re-encrypt a text item with a new value",
	Long: `Replaces a text item's value. The existing content key is reused so
grants stay valid, but the encryption always uses a fresh IV.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, newValue := args[0], args[1]
		Logger.Infof("Starting edit command for item %s", itemID)

		sess, err := currentSession()
		if err != nil {
			return Logger.ErrorfAndReturn("Not logged in: run `veil vault register` or `veil vault import-key` first")
		}

		backend, err := openBackend()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
		}

		store, err := openCustody()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open custody store: %v", err)
		}
		defer store.Close()

		if _, err := workflows.Edit(cmd.Context(), workflows.EditOptions{
			ItemID:   itemID,
			Owner:    sess.Username,
			NewValue: newValue,
			Backend:  backend,
			Custody:  store,
		}); err != nil {
			return Logger.ErrorfAndReturn("Failed to edit item: %v", err)
		}

		cmd.Println(color.GreenString("✓") + " Updated item " + color.YellowString(itemID))
		return nil
	},
}
