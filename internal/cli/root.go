package cli

import (
	"marketplace/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Contracts and jobs marketplace API",
	Long: `marketplace serves the contracts/jobs HTTP API, applies database
migrations and mints bearer tokens for profiles.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (defaults to $CONFIG_FILE)")
}

// Execute runs the command selected by os.Args.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}
