package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/infinohq/infino-gateway/internal/gateway"
)

// APIResponse is the envelope for the gateway's own endpoints (health etc.).
// Backend replies are relayed raw, not wrapped.
type APIResponse struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path"`
}

// APIError is the envelope for requests the gateway could not translate or
// forward.
type APIError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Status  int    `json:"status"`
}

func pathFromContext(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().URL.Path
}

// OK sends a 200 response with data.
func OK(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, APIResponse{
		Data:    data,
		Status:  http.StatusOK,
		Message: message,
		Path:    pathFromContext(c),
	})
}

// Relay passes a backend body through unchanged.
func Relay(c echo.Context, status int, contentType string, body []byte) error {
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(status, contentType, body)
}

// GatewayError maps a classified gateway error onto its HTTP status and the
// standard error envelope.
func GatewayError(c echo.Context, err error) error {
	kind := gateway.KindOf(err)
	status := kind.HTTPStatus()
	return c.JSON(status, APIError{
		Message: "request could not be completed",
		Error:   err.Error(),
		Kind:    string(kind),
		Path:    pathFromContext(c),
		Status:  status,
	})
}

// Error sends a JSON error response using APIError.
func Error(c echo.Context, status int, message, errDetail string) error {
	return c.JSON(status, APIError{
		Message: message,
		Error:   errDetail,
		Path:    pathFromContext(c),
		Status:  status,
	})
}
