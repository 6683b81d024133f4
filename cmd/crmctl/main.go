package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/janhq/jan-crm/internal/config"
	"github.com/janhq/jan-crm/internal/infrastructure/logger"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crmctl",
	Short: "crmctl - operator tool for Jan CRM",
	Long: `crmctl manages a Jan CRM deployment from the command line.

It reads the same environment variables as the server, optionally from
an env file, and talks to the backend selected by BACKEND_MODE.

Examples:
  # Inspect the resolved configuration
  crmctl config show --format yaml

  # Manage the postgres schema
  crmctl migrate up
  crmctl migrate down --yes

  # Create an account and load demo data
  crmctl user create --email ada@example.com --password 'correct horse'
  crmctl seed -f internal/seed/testdata/demo.yaml`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringSlice("env-file", []string{".env"}, "Env files to load before reading configuration")
}

// loadConfig applies the env files named on the command line and parses the
// configuration. Missing files are skipped.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	files, _ := cmd.Flags().GetStringSlice("env-file")
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return config.Load()
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (zerolog.Logger, error) {
	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	return logger.New(level, "console")
}
