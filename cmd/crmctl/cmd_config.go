package main

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/janhq/jan-crm/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
	Long:  `Validate and inspect the configuration the server would start with.`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the environment",
	RunE:  runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration values",
	Long:  `Display the resolved configuration with secrets masked.`,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().StringP("format", "f", "env", "Output format (env, json, yaml)")
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ configuration is valid (backend %s, flash store %s)\n", cfg.BackendMode, cfg.FlashStore)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	values := envValues(cfg)
	out := cmd.OutOrStdout()

	switch format {
	case "env":
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%s=%s\n", k, values[k])
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	case "yaml":
		return yaml.NewEncoder(out).Encode(values)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

var secretKeys = map[string]bool{
	"SUPABASE_ANON_KEY":       true,
	"JWT_SECRET":              true,
	"DB_POSTGRESQL_WRITE_DSN": true,
	"DB_POSTGRESQL_READ1_DSN": true,
	"REDIS_URL":               true,
}

// envValues flattens cfg into its environment variable names.
func envValues(cfg *config.Config) map[string]string {
	values := make(map[string]string)
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := strings.Split(t.Field(i).Tag.Get("env"), ",")[0]
		if name == "" {
			continue
		}
		value := fmt.Sprint(v.Field(i).Interface())
		if slice, ok := v.Field(i).Interface().([]string); ok {
			value = strings.Join(slice, ",")
		}
		if secretKeys[name] && value != "" {
			value = "********"
		}
		values[name] = value
	}
	return values
}
