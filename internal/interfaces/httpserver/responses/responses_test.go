package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/application/listctl"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

func TestResultStatus(t *testing.T) {
	tests := []struct {
		result listctl.Result
		want   int
	}{
		{listctl.Applied, http.StatusOK},
		{listctl.Skipped, http.StatusOK},
		{listctl.Invalid, http.StatusUnprocessableEntity},
		{listctl.Failed, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.result.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ResultStatus(tt.result))
		})
	}
}

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleError(t *testing.T) {
	t.Run("platform error", func(t *testing.T) {
		c, w := newContext()
		ctx := platformerrors.WithRequestID(context.Background(), "req-7")
		err := platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeConflict, "already registered", nil, "11111111-2222-3333-4444-555555555555")

		HandleError(c, err, "sign up failed")
		assert.Equal(t, http.StatusConflict, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "already registered", body.Error)
		assert.Equal(t, "11111111-2222-3333-4444-555555555555", body.Code)
		assert.Equal(t, "req-7", body.RequestID)
	})

	t.Run("plain error hides details", func(t *testing.T) {
		c, w := newContext()
		HandleError(c, errors.New("pq: connection refused"), "sign in failed")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.Contains(t, w.Body.String(), "sign in failed")
	})
}

func TestPageAlwaysListsNotifications(t *testing.T) {
	c, w := newContext()
	result := listctl.Applied
	Page(c, http.StatusOK, &result, map[string]int{"total": 1}, nil)
	assert.JSONEq(t, `{"result":"applied","view":{"total":1},"notifications":[]}`, w.Body.String())
}
