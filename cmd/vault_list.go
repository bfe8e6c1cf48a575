package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/ui"
	"github.com/veilbox/veil/internal/workflows"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your stored items",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		sess, err := currentSession()
		if err != nil {
			return Logger.ErrorfAndReturn("Not logged in: run `veil vault register` or `veil vault import-key` first")
		}

		backend, err := openBackend()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
		}

		result, err := workflows.ListItems(cmd.Context(), workflows.ListItemsOptions{
			Owner:   sess.Username,
			Backend: backend,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to list items: %v", err)
		}

		if len(result.Items) == 0 {
			cmd.Println("No items stored")
			return nil
		}

		for _, item := range result.Items {
			cmd.Println(fmt.Sprintf("%s  %s  %s",
				ui.Muted.Sprint(item.ID), ui.Highlight.Sprint(item.Name), string(item.Kind)))
		}
		return nil
	},
}
