package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pctl/internal/config"
)

var (
	// Variables to hold flag values
	serviceURL   string
	apiKey       string
	snapshotPath string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pctl configuration",
	Long:  "View and update pctl configuration settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get configuration value",
	Long:  "Display a specific configuration value or all configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// If no argument is provided, show all config
		if len(args) == 0 {
			fmt.Println("Current configuration:")
			fmt.Printf("Service URL: %s\n", cfg.ServiceURL)
			if cfg.APIKey != "" {
				fmt.Printf("API Key: %s\n", cfg.APIKey)
			}
			if cfg.SnapshotPath != "" {
				fmt.Printf("Snapshot Path: %s\n", cfg.SnapshotPath)
			}
			return nil
		}

		switch args[0] {
		case "service-url":
			fmt.Println(cfg.ServiceURL)
		case "api-key":
			fmt.Println(cfg.APIKey)
		case "snapshot-path":
			fmt.Println(cfg.SnapshotPath)
		default:
			return fmt.Errorf("unknown configuration key: %s", args[0])
		}

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	Long:  "Update configuration settings like the service URL and API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		configUpdated := false

		if serviceURL != "" {
			oldURL := cfg.ServiceURL
			cfg.ServiceURL = serviceURL
			fmt.Printf("Service URL updated: %s -> %s\n", oldURL, serviceURL)
			configUpdated = true
		}
		if apiKey != "" {
			cfg.APIKey = apiKey
			fmt.Println("API key updated.")
			configUpdated = true
		}
		if snapshotPath != "" {
			cfg.SnapshotPath = snapshotPath
			fmt.Printf("Snapshot path updated: %s\n", snapshotPath)
			configUpdated = true
		}

		if configUpdated {
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Println("Configuration updated successfully.")
		} else {
			fmt.Println("No changes were made to the configuration.")
		}

		return nil
	},
}

func init() {
	configSetCmd.Flags().StringVar(&serviceURL, "service-url", "", "Base URL of the hosted data service")
	configSetCmd.Flags().StringVar(&apiKey, "api-key", "", "Anonymous API key of the data service")
	configSetCmd.Flags().StringVar(&snapshotPath, "snapshot-path", "", "Local snapshot database path")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
