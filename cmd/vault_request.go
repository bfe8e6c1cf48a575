package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/workflows"
)

var (
	requestViews int
	requestTTL   time.Duration
)

func init() {
	requestCmd.Flags().IntVar(&requestViews, "views", 0, "maximum number of views (0 = unlimited)")
	requestCmd.Flags().DurationVar(&requestTTL, "ttl", 0, "how long the grant should last (0 = no expiry)")
}

var requestCmd = &cobra.Command{
	Use:   "request <item-id>",
	Short: "Request access to a provider's item",
	Long: `Files a consent request for an item. The request stays pending until the
provider approves or rejects it; approval releases a key wrapped
specifically for you.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		Logger.Infof("Starting request command for item %s", itemID)

		sess, err := currentSession()
		if err != nil {
			return Logger.ErrorfAndReturn("Not logged in: run `veil vault register` or `veil vault import-key` first")
		}

		backend, err := openBackend()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to reach server: %v", err)
		}

		result, err := workflows.RequestAccess(cmd.Context(), workflows.RequestAccessOptions{
			ItemID:       itemID,
			Seeker:       sess.Username,
			AllowedViews: requestViews,
			TTL:          requestTTL,
			Backend:      backend,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to request access: %v", err)
		}

		cmd.Println(color.GreenString("✓") + " Request " + color.YellowString(result.RequestID) + " filed, awaiting the provider's decision")
		return nil
	},
}
