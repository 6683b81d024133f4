package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/janhq/jan-crm/internal/bootstrap"
	"github.com/janhq/jan-crm/internal/config"
	"github.com/janhq/jan-crm/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load contacts, conversations, reminders and templates from a YAML file",
	Long: `Load a seed file into one account. The account is signed in with the
credentials in the file and, when account.create is set, signed up first.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "Seed file (YAML)")
	seedCmd.Flags().Bool("dry-run", false, "Validate the file without writing anything")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	file, err := seed.Load(fh)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := file.Validate(cmd.Context()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", path)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.BackendMode == config.BackendMemory {
		return errors.New("the memory backend does not outlive this command; set BACKEND_MODE")
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	remote, err := bootstrap.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer remote.Close()

	summary, err := seed.New(remote.Connector, log).Apply(cmd.Context(), file)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ seeded %s\n", summary)
	return nil
}
