package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	verrors "github.com/veilbox/veil/internal/errors"
	"github.com/veilbox/veil/internal/ui"
	"github.com/veilbox/veil/internal/workflows"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <item-id>",
	Short: "Delete an item and all keys wrapped for it",
	Long: `Removes an item from the server, including every wrapped key minted for
seekers. Only the owner may delete an item.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		Logger.Infof("Starting delete command for item %s", itemID)

		sess, err := currentSession()
		if err != nil {
			return Logger.ErrorfAndReturn("Not logged in: run `veil vault register` or `veil vault import-key` first")
		}

		backend, err := openBackend()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
		}

		if err := workflows.DeleteItem(cmd.Context(), workflows.DeleteItemOptions{
			ItemID:  itemID,
			Owner:   sess.Username,
			Backend: backend,
		}); err != nil {
			if errors.Is(err, verrors.ErrItemNotFound) {
				return Logger.ErrorfAndReturn("Item %s not found, or you are not its owner", itemID)
			}
			return Logger.ErrorfAndReturn("Failed to delete item: %v", err)
		}

		cmd.Println(ui.Success.Sprint("✓") + " Deleted item " + ui.Muted.Sprint(itemID))
		return nil
	},
}
