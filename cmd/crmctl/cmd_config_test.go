package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/config"
)

func TestEnvValuesMasksSecrets(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:       8190,
		BackendMode:    config.BackendPostgres,
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		DatabaseURL:    "postgres://user:pass@db/crm",
		AllowedOrigins: []string{"http://a", "http://b"},
		SessionTTL:     time.Hour,
	}
	values := envValues(cfg)

	assert.Equal(t, "8190", values["HTTP_PORT"])
	assert.Equal(t, "postgres", values["BACKEND_MODE"])
	assert.Equal(t, "********", values["JWT_SECRET"])
	assert.Equal(t, "********", values["DB_POSTGRESQL_WRITE_DSN"])
	assert.Equal(t, "", values["SUPABASE_ANON_KEY"])
	assert.Equal(t, "http://a,http://b", values["CORS_ALLOWED_ORIGINS"])
	assert.Equal(t, "1h0m0s", values["SESSION_TTL"])
}

func TestSeedDryRun(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"seed", "--dry-run", "-f", "../../internal/seed/testdata/demo.yaml"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "is valid")
}

func TestMigrateDownNeedsConfirmation(t *testing.T) {
	rootCmd.SetArgs([]string{"migrate", "down"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}
