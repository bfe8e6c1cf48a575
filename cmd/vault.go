package cmd

import (
	logger "github.com/veilbox/veil/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	seal    bool
	Logger  logger.Logger

	VaultCmd = &cobra.Command{
		Use:   "vault",
		Short: "Manage your encrypted personal data vault",
		Long:  `Provides registration, item encryption, consent decisions, and key custody for the Veil personal data vault.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing vault command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	VaultCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	VaultCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	VaultCmd.PersistentFlags().BoolVar(&seal, "seal", false, "protect the local key store with a passphrase")

	VaultCmd.AddCommand(registerCmd)
	VaultCmd.AddCommand(importKeyCmd)
	VaultCmd.AddCommand(addCmd)
	VaultCmd.AddCommand(addFileCmd)
	VaultCmd.AddCommand(listCmd)
	VaultCmd.AddCommand(viewCmd)
	VaultCmd.AddCommand(editCmd)
	VaultCmd.AddCommand(deleteCmd)
	VaultCmd.AddCommand(requestCmd)
	VaultCmd.AddCommand(requestsCmd)
	VaultCmd.AddCommand(approveCmd)
	VaultCmd.AddCommand(rejectCmd)
	VaultCmd.AddCommand(revokeCmd)
	VaultCmd.AddCommand(statusCmd)
	VaultCmd.AddCommand(logoutCmd)
	VaultCmd.AddCommand(configCmd)
}

// Helper functions for testing

// GetVaultCmd returns the VaultCmd for testing.
func GetVaultCmd() *cobra.Command {
	return VaultCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	seal = false
	resetRegisterCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
