package cmd

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	verrors "github.com/veilbox/veil/internal/errors"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/workflows"
)

var viewOutPath string

func init() {
	viewCmd.Flags().StringVarP(&viewOutPath, "out", "o", "", "write a decrypted file item to this path")
}

var viewCmd = &cobra.Command{
	Use:   "view <item-id>",
	Short: "Fetch and decrypt an item",
	Long: `Fetches an item's ciphertext and the key wrapped for you, unwraps it with
your private key from the local store, and decrypts. Works the same whether
you own the item or hold an approved grant for it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID := args[0]
		Logger.Infof("Starting view command for item %s", itemID)

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

		result, err := workflows.View(cmd.Context(), workflows.ViewOptions{
			ItemID:   itemID,
			Username: sess.Username,
			Backend:  backend,
			Custody:  store,
		})
		if err != nil {
			// Each failure class gets its own message so the user can tell
			// "upload your key again" from "corrupted data" from "no access".
			switch {
			case errors.Is(err, verrors.ErrKeyNotFound):
				return Logger.ErrorfAndReturn("Private key not found: re-upload your backup with `veil vault import-key %s --key <file>`", sess.Username)
			case errors.Is(err, verrors.ErrUnwrap):
				return Logger.ErrorfAndReturn("Cannot access this item with your current key")
			case errors.Is(err, verrors.ErrDecryption):
				return Logger.ErrorfAndReturn("This item's data is corrupted and cannot be decrypted")
			case errors.Is(err, verrors.ErrNoGrant):
				return Logger.ErrorfAndReturn("You don't have access to this item yet")
			case errors.Is(err, verrors.ErrGrantRevoked):
				return Logger.ErrorfAndReturn("Your access to this item has ended")
			default:
				return Logger.ErrorfAndReturn("Failed to view item: %v", err)
			}
		}

		if result.Kind == server.KindFile {
			out := viewOutPath
			if out == "" {
				out = result.Name
			}
			if err := os.WriteFile(out, result.File.Data, 0600); err != nil {
				return Logger.ErrorfAndReturn("Failed to write decrypted file: %v", err)
			}
			cmd.Println(color.GreenString("✓") + " Decrypted " + color.CyanString(result.Name) +
				" (" + result.File.MIMEType + ") to " + color.YellowString(out))
			return nil
		}

		cmd.Println(color.CyanString(result.Name) + ": " + result.Plaintext)
		return nil
	},
}
