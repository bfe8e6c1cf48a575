package cmd

import (
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and key custody state",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := currentSession()
		if err != nil {
			cmd.Println(ui.Error.Sprint("✗") + " Not logged in")
			return nil
		}

		cmd.Println(ui.Success.Sprint("✓") + " Logged in as " + ui.Highlight.Sprint(sess.Username) + " (" + string(sess.Role) + ")")

		store, err := openCustody()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open custody store: %v", err)
		}
		defer store.Close()

		pem, err := store.Get(sess.Username)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read custody store: %v", err)
		}
		if pem == "" {
			cmd.Println(ui.Warning.Sprint("!") + " No private key in the local store: run " +
				ui.Code.Sprint("veil vault import-key "+sess.Username+" --key <file>"))
		} else {
			cmd.Println(ui.Success.Sprint("✓") + " Private key present in the local store")
		}
		return nil
	},
}
