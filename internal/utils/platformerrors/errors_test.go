package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorCarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	err := NewError(ctx, LayerRepository, ErrorTypeNotFound, "contact not found", nil, "0d7c3e52-0a39-4c61-9f3b-2a6f8f1c1d10")

	assert.Equal(t, "req-42", err.RequestID)
	assert.True(t, IsErrorType(err, ErrorTypeNotFound))
	assert.False(t, IsErrorType(err, ErrorTypeInternal))
}

func TestAsErrorKeepsType(t *testing.T) {
	inner := NewError(context.Background(), LayerInfrastructure, ErrorTypeForbidden, "row level security", nil, "u1")
	wrapped := AsError(context.Background(), LayerRepository, inner, "insert contact")

	assert.Equal(t, ErrorTypeForbidden, wrapped.Type)
	assert.Equal(t, "u1", wrapped.UUID)
	assert.True(t, errors.Is(wrapped, inner))

	plain := AsError(context.Background(), LayerRepository, errors.New("boom"), "insert contact")
	assert.Equal(t, ErrorTypeInternal, plain.Type)
	assert.Nil(t, AsError(context.Background(), LayerRepository, nil, "noop"))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusBadRequest, ErrorTypeValidation},
		{http.StatusUnprocessableEntity, ErrorTypeValidation},
		{http.StatusUnauthorized, ErrorTypeUnauthorized},
		{http.StatusForbidden, ErrorTypeForbidden},
		{http.StatusConflict, ErrorTypeConflict},
		{http.StatusServiceUnavailable, ErrorTypeExternal},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorTypeFromHTTPStatus(tt.status))
		})
	}

	assert.Equal(t, http.StatusBadRequest, ErrorTypeToHTTPStatus(ErrorTypeValidation))
	assert.Equal(t, http.StatusBadGateway, ErrorTypeToHTTPStatus(ErrorTypeExternal))
	assert.Equal(t, http.StatusInternalServerError, ErrorTypeToHTTPStatus(ErrorTypeDatabaseError))
}
