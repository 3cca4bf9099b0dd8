package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/infinohq/infino-gateway/internal/config"
	"github.com/infinohq/infino-gateway/internal/dispatch"
	"github.com/infinohq/infino-gateway/internal/gateway"
	"github.com/infinohq/infino-gateway/internal/metastore"
	"github.com/infinohq/infino-gateway/internal/mirror"
	"github.com/infinohq/infino-gateway/internal/response"
	"github.com/infinohq/infino-gateway/internal/upstream"
)

// Server holds the Echo app and the process-wide gateway state: the worker
// pool, the in-flight set and the dispatcher built over them.
type Server struct {
	Echo     *echo.Echo
	Config   *config.Config
	pool     *dispatch.Pool
	inflight *dispatch.InFlightSet
	log      zerolog.Logger
}

// New builds the Echo server, the dispatch plumbing and the routes.
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), middleware.Logger())

	if cfg.Observability.Enabled() {
		app, err := newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.Observability.NewRelicAppName),
			newrelic.ConfigLicense(cfg.Observability.NewRelicLicenseKey),
		)
		if err != nil {
			return nil, err
		}
		e.Use(nrecho.Middleware(app))
		log.Info().Str("app", cfg.Observability.NewRelicAppName).Msg("APM enabled")
	}

	pool := dispatch.NewPool(cfg.ForwardWorkers, cfg.ForwardQueueDepth)
	inflight := dispatch.NewInFlightSet()

	backend := upstream.NewBreakerClient(
		upstream.NewClient(cfg.RequestTimeout(), log),
		log,
	)
	dispatcher := dispatch.NewDispatcher(pool, inflight, backend, log)

	store := metastore.NewClient(cfg.MetadataURL, cfg.RequestTimeout(), log)
	mirrorSync := mirror.NewSynchronizer(store, pool, log)

	h := &GatewayHandler{
		Translator: gateway.Translator{
			Endpoint:     cfg.ServerURL,
			SearchWindow: cfg.SearchWindow(),
		},
		Dispatcher: dispatcher,
		Mirror:     mirrorSync,
		Log:        log,
	}
	registerRoutes(e, h)

	e.GET("/healthz", func(c echo.Context) error {
		return response.OK(c, map[string]any{
			"endpoint": cfg.ServerURL,
			"inflight": inflight.Len(),
		}, "")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{Echo: e, Config: cfg, pool: pool, inflight: inflight, log: log}, nil
}

// registerRoutes mirrors the host platform's route table for the collection
// prefix. Both historical grammars are accepted: class-after-index
// (/infino/{index}/logs/{action}, via the wildcard) and class-before-index
// (/infino/logs/{index}/{action}).
func registerRoutes(e *echo.Echo, h *GatewayHandler) {
	for _, register := range []func(string, echo.HandlerFunc, ...echo.MiddlewareFunc) *echo.Route{e.GET, e.HEAD, e.POST} {
		register("/infino/:index/*", h.Handle)
		register("/infino/logs/:index/:action", h.HandleClassed("logs"))
		register("/infino/metrics/:index/:action", h.HandleClassed("metrics"))
	}

	// Index lifecycle: no path value, translated to the :{index} grammar.
	e.PUT("/infino/:index", h.Handle)
	e.DELETE("/infino/:index", h.Handle)
	e.HEAD("/infino/:index", h.Handle)

	// Routed for parity with the host platform's table; carries no path
	// value, so translation rejects it the same way the original did.
	e.GET("/_cat/infino/:index", h.Handle)
}

// Start runs the HTTP server until ctx is cancelled or the listener fails.
// On cancel it shuts down gracefully, draining in-flight backend calls.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	return s.Echo.Start(":" + s.Config.GatewayPort)
}

// Shutdown stops the listener, waits up to the configured shutdown timeout
// for the in-flight set to drain, then force-stops the worker pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Echo.Shutdown(ctx); err != nil {
		s.log.Warn().Err(err).Msg("listener shutdown")
	}

	drainCtx, cancel := context.WithTimeout(ctx, s.Config.ShutdownTimeout())
	defer cancel()
	if err := s.inflight.Drain(drainCtx); err != nil {
		s.log.Warn().Int("pending", s.inflight.Len()).Msg("shutdown with in-flight operations remaining")
	}
	return s.pool.Shutdown(drainCtx)
}
