package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janhq/jan-crm/internal/bootstrap"
	"github.com/janhq/jan-crm/internal/config"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Account management",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	Long:  `Sign up a new account on the configured backend. Supabase projects may require email confirmation first.`,
	RunE:  runUserCreate,
}

func init() {
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().String("email", "", "Account email")
	userCreateCmd.Flags().String("password", "", "Account password")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("--email and --password must not be blank")
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

	session, err := remote.Connector.SignUp(cmd.Context(), strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	if session == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s created; check your email to confirm the account\n", email)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s created (user id %s)\n", session.User.Email, session.User.ID)
	return nil
}
