package instrumented

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/infrastructure/backend/memory"
	"github.com/janhq/jan-crm/internal/infrastructure/metrics"
)

func TestWrapDelegatesAndCounts(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	conn := Wrap(store, zerolog.Nop())

	session, err := conn.SignUp(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	c := conn.Connect(session.AccessToken)

	okBefore := testutil.ToFloat64(metrics.BackendOperationsTotal.WithLabelValues("templates", "insert", "ok"))
	require.NoError(t, c.Insert(ctx, backend.TableTemplates, map[string]any{"user_id": session.User.ID, "name": "Hi", "content": "Hello"}))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.BackendOperationsTotal.WithLabelValues("templates", "insert", "ok")))

	boom := errors.New("boom")
	store.SetInterceptor(func(context.Context, memory.Op, backend.Table) error { return boom })
	errBefore := testutil.ToFloat64(metrics.BackendOperationsTotal.WithLabelValues("templates", "count", "error"))
	_, err = c.Count(ctx, backend.TableTemplates)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.BackendOperationsTotal.WithLabelValues("templates", "count", "error")))
}
