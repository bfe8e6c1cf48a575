package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "veil",
	Short: "Veil - A client for the consent-mediated personal data vault.",
	Long: `Veil is the command-line client for a consent-mediated personal data
vault. Providers store encrypted personal data items, seekers request
time- or count-limited access, and every byte leaving this machine is
encrypted under keys only the intended recipients hold.

Features:
  - End-to-end encryption: the server never sees plaintext or private keys
  - Per-recipient key wrapping for consent-based sharing
  - Local private key custody with optional passphrase sealing

Usage:
  veil <command> [flags]

Available Commands:
  vault    Manage your encrypted personal data vault

Run 'veil help <command>' for more details on a specific command.
`,
	Run: func(command *cobra.Command, args []string) {
		figure.NewFigure("Veil", "", true).Print()
		fmt.Println("\nRun 'veil --help' to see available commands.")
	},
}

func main() {
	rootCmd.AddCommand(cmd.VaultCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
