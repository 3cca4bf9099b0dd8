package server

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/infinohq/infino-gateway/internal/dispatch"
	"github.com/infinohq/infino-gateway/internal/gateway"
	"github.com/infinohq/infino-gateway/internal/metrics"
	"github.com/infinohq/infino-gateway/internal/mirror"
	"github.com/infinohq/infino-gateway/internal/response"
)

// GatewayHandler translates inbound calls and relays backend outcomes. All
// translation happens on the request goroutine; only the backend round trip
// and the mirror sync run on the worker pool.
type GatewayHandler struct {
	Translator gateway.Translator
	Dispatcher *dispatch.Dispatcher
	Mirror     *mirror.Synchronizer
	Log        zerolog.Logger
}

// Handle serves routes where the caller supplies the path value directly
// (wildcard routes and the bare index-lifecycle routes).
func (h *GatewayHandler) Handle(c echo.Context) error {
	return h.handle(c, c.Param("*"))
}

// HandleClassed serves the /infino/{class}/{index}/{action} grammar by
// normalizing it to the same "class/action" path value the wildcard routes
// produce.
func (h *GatewayHandler) HandleClassed(class string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.handle(c, class+"/"+c.Param("action"))
	}
}

func (h *GatewayHandler) handle(c echo.Context, pathValue string) error {
	params := map[string]string{}
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	req, err := gateway.ParseRequest(c.Request().Method, c.Param("index"), pathValue, params)
	if err != nil {
		metrics.TranslationErrors.WithLabelValues(string(gateway.KindOf(err))).Inc()
		return response.GatewayError(c, err)
	}

	cmd, err := h.Translator.Translate(req)
	if err != nil {
		metrics.TranslationErrors.WithLabelValues(string(gateway.KindOf(err))).Inc()
		h.Log.Debug().Err(err).Str("path", req.RawPath).Str("index", req.IndexName).Msg("translation rejected")
		return response.GatewayError(c, err)
	}
	metrics.RequestsTranslated.WithLabelValues(string(req.Method), req.IndexType.String()).Inc()

	// Creation-implying commands get a same-named bookkeeping index on the
	// host platform. Fired alongside dispatch, never awaited.
	if req.Method == gateway.MethodPut {
		h.Mirror.EnsureAsync(req.IndexName)
	}

	var body []byte
	if req.Method == gateway.MethodPost {
		body, err = io.ReadAll(c.Request().Body)
		if err != nil {
			return response.GatewayError(c, gateway.WrapErr(gateway.KindInternal, err, "read request body"))
		}
	}

	h.Log.Debug().Str("url", cmd.URL).Str("method", string(cmd.Method)).Msg("forwarding to backend")
	res, err := h.Dispatcher.Dispatch(cmd, body).Wait(c.Request().Context())
	if err != nil {
		return response.GatewayError(c, err)
	}
	// The transport succeeded, so the call is relayed as OK with the
	// backend's body; backend-reported statuses are not remapped.
	return response.Relay(c, http.StatusOK, res.ContentType, res.Body)
}
