package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/configs"
	"github.com/veilbox/veil/internal/session"
	"github.com/veilbox/veil/internal/workflows"
)

var (
	registerRole      string
	registerNoBackup  bool
	registerNoCustody bool
)

func init() {
	registerCmd.Flags().StringVarP(&registerRole, "role", "r", "provider", "account role: provider or seeker")
	registerCmd.Flags().BoolVar(&registerNoBackup, "no-backup", false, "skip writing the private key backup file")
	registerCmd.Flags().BoolVar(&registerNoCustody, "no-custody", false, "skip storing the private key locally")
}

// resetRegisterCommandState resets the register command's global state for testing.
func resetRegisterCommandState() {
	registerRole = "provider"
	registerNoBackup = false
	registerNoCustody = false
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create your identity: generate a key pair and publish the public half",
	Long: `Generates an RSA key pair for a new account. The public key is sent to the
server; the private key stays on this machine, in the local custody store
and in a downloadable backup file. The server never sees it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		Logger.Infof("Starting register command for %s", username)

		role := session.Role(registerRole)
		if role != session.RoleProvider && role != session.RoleSeeker {
			return Logger.ErrorfAndReturn("invalid role %q: must be provider or seeker", registerRole)
		}

		if registerNoBackup && registerNoCustody {
			return Logger.ErrorfAndReturn("refusing to discard the private key: drop one of --no-backup / --no-custody")
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

		spinner, cleanup := startSpinner("Generating your key pair...", verbose)
		defer cleanup()

		backupDir := configs.UserVeilSettings.BackupPath
		if registerNoBackup {
			backupDir = ""
		}

		result, err := workflows.Register(cmd.Context(), workflows.RegisterOptions{
			Username:    username,
			Role:        role,
			BackupDir:   backupDir,
			SkipCustody: registerNoCustody,
			Backend:     backend,
			Custody:     store,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to register: %v", err)
		}

		finalMessage := color.GreenString("✓") + " Registered " + color.CyanString(username) + " as " + registerRole + "\n"
		if result.BackupPath != "" {
			finalMessage += color.CyanString("→") + " Private key backup written to " + color.YellowString(result.BackupPath) + "\n" +
				color.YellowString("!") + " Keep this file safe: without it and the local store, your data is unrecoverable\n"
		}
		if result.StoredInCustody {
			finalMessage += fmt.Sprintf("%s Private key stored locally for %s\n", color.GreenString("✓"), color.CyanString(username))
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}
