package cmd

import (
	"github.com/spf13/cobra"

	"github.com/veilbox/veil/internal/configs"
	"github.com/veilbox/veil/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
}

func init() {
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configShowCmd)
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server <url>",
	Short: "Set the vault server URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := configs.EnsureClientConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		config.Client.ServerURL = args[0]
		if err := configs.SaveClientConfig(config); err != nil {
			return Logger.ErrorfAndReturn("Failed to save config: %v", err)
		}

		cmd.Println(ui.Success.Sprint("✓") + " Server set to " + ui.Path.Sprint(args[0]))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current client configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := configs.EnsureClientConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		serverURL := config.Client.ServerURL
		if serverURL == "" {
			serverURL = ui.Muted.Sprint("not set")
		}
		cmd.Println("server:  " + serverURL)
		cmd.Println("device:  " + config.Client.DeviceUUID)
		cmd.Println("custody: " + ui.Path.Sprint(configs.UserVeilSettings.CustodyPath))
		return nil
	},
}
