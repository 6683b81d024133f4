package observability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/config"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"no endpoint", config.Config{EnableTracing: true, EnableMetrics: true}},
		{"nothing enabled", config.Config{OTLPEndpoint: "localhost:4318"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := Setup(context.Background(), &tt.cfg, zerolog.Nop())
			require.NoError(t, err)
			assert.NoError(t, shutdown(context.Background()))
		})
	}
}
