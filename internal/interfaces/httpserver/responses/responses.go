// Package responses shapes the JSON bodies of the HTTP shell.
package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/jan-crm/internal/application/listctl"
	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details.
type ErrorResponse struct {
	Code      string `json:"code,omitempty"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// PageResponse carries a page view, the outcome of the action that produced
// it and the notifications raised since the previous response.
type PageResponse struct {
	Result        *listctl.Result       `json:"result,omitempty"`
	View          any                   `json:"view"`
	Notifications []notify.Notification `json:"notifications"`
}

// HandleError maps err to an HTTP status and writes an ErrorResponse. Only the
// platform error message reaches the client.
func HandleError(c *gin.Context, err error, message string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		msg := platformErr.Message
		if msg == "" {
			msg = message
		}
		c.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(platformErr.Type), ErrorResponse{
			Code:      platformErr.UUID,
			Error:     msg,
			RequestID: platformErr.RequestID,
		})
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:     message,
		RequestID: platformerrors.RequestIDFromContext(c.Request.Context()),
	})
}

// HandleNewError creates a typed error at the handler layer and writes it.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message, uuid string) {
	HandleError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, errorType, message, nil, uuid), message)
}

// ResultStatus is the HTTP status reported for an action outcome. A failed
// remote call is a bad gateway; an invalid draft is unprocessable.
func ResultStatus(r listctl.Result) int {
	switch r {
	case listctl.Failed:
		return http.StatusBadGateway
	case listctl.Invalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}

// Page writes a PageResponse.
func Page(c *gin.Context, status int, result *listctl.Result, view any, notes []notify.Notification) {
	if notes == nil {
		notes = []notify.Notification{}
	}
	c.JSON(status, PageResponse{Result: result, View: view, Notifications: notes})
}
