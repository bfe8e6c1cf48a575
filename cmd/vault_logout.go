package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/workflows"
)

var logoutKeepKey bool

func init() {
	logoutCmd.Flags().BoolVar(&logoutKeepKey, "keep-key", false, "keep the private key in the local store")
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the session and remove the local private key",
	Long: `Ends the session. By default the private key is removed from the local
store, so the next login needs the backup file again. Use --keep-key to
leave it in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			cmd.Println("Not logged in")
			return nil
		}

		store, err := openCustody()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open custody store: %v", err)
		}
		defer store.Close()

		result, err := workflows.Logout(cmd.Context(), workflows.LogoutOptions{
			Username: sess.Username,
			KeepKey:  logoutKeepKey,
			Custody:  store,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to log out: %v", err)
		}

		msg := color.GreenString("✓") + " Logged out " + color.CyanString(sess.Username)
		if result.KeyDeleted {
			msg += " (local private key removed)"
		}
		cmd.Println(msg)
		return nil
	},
}
