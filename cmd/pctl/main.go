package main

import (
	"fmt"
	"os"
	"path/filepath"

	"pctl/internal/commands"
	"pctl/internal/config"
)

func main() {
	// Create config directory if it doesn't exist
	configDir, err := config.GetConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(filepath.Join(configDir, "config.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Execute root command
	if err := commands.Execute(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
