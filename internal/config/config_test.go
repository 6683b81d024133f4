package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_MODE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "jan-crm", cfg.ServiceName)
	assert.Equal(t, ":8190", cfg.Addr())
	assert.Equal(t, "/auth", cfg.AuthRoute)
	assert.Equal(t, FlashMemory, cfg.FlashStore)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			BackendMode:   BackendMemory,
			FlashStore:    FlashMemory,
			AuthRoute:     "/auth",
			FlashCapacity: 10,
			ViewCacheSize: 10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "memory ok", mutate: func(*Config) {}},
		{
			name:    "supabase needs url",
			mutate:  func(c *Config) { c.BackendMode = BackendSupabase; c.SupabaseAnonKey = "anon" },
			wantErr: "SUPABASE_URL",
		},
		{
			name:    "supabase needs anon key",
			mutate:  func(c *Config) { c.BackendMode = BackendSupabase; c.SupabaseURL = "https://x.supabase.co" },
			wantErr: "SUPABASE_ANON_KEY",
		},
		{
			name:    "postgres needs secret",
			mutate:  func(c *Config) { c.BackendMode = BackendPostgres; c.DatabaseURL = "postgres://x"; c.JWTSecret = "short" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.BackendMode = "firebase" },
			wantErr: "BACKEND_MODE",
		},
		{
			name:    "unknown flash store",
			mutate:  func(c *Config) { c.FlashStore = "memcached" },
			wantErr: "FLASH_STORE",
		},
		{
			name:    "relative auth route",
			mutate:  func(c *Config) { c.AuthRoute = "auth" },
			wantErr: "AUTH_ROUTE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
