// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api assembles the /api router and owns the [http.Server].

Route map:

	GET    /api/health             liveness
	GET    /api/ready              readiness of postgres and redis
	POST   /api/auth/signup        public, credential rate limit
	POST   /api/auth/login         public, credential rate limit
	GET    /api/auth/me            bearer token
	/api/users/...                 bearer token, own profile
	/api/admin/users/...           bearer token, admin role

Authentication is attached per route group, so health and credential routes
stay reachable without a token.
*/
package api

import (
	stdctx "context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/storefront/internal/platform/config"
	"github.com/taibuivan/storefront/internal/platform/constants"
	"github.com/taibuivan/storefront/internal/platform/middleware"
	"github.com/taibuivan/storefront/internal/users/account"
	"github.com/taibuivan/storefront/internal/users/auth"
)

// Server is the configured router plus the listener that serves it.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	log        *slog.Logger
}

// Handlers are the endpoint sets mounted under /api.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc
	Auth      *auth.Handler
	Account   *account.Handler
}

/*
NewServer builds the router and the listener on cfg.ServerPort.

Parameters:
  - context: lifetime of the rate limiter janitors
  - cfg: port, CORS origins, trusted proxies, and rate limits
  - log: base logger for the request log
  - authenticate: bearer-token middleware applied to protected groups
  - h: endpoint handlers
*/
func NewServer(
	context stdctx.Context,
	cfg *config.Config,
	log *slog.Logger,
	authenticate func(http.Handler) http.Handler,
	h Handlers,
) *Server {
	router := chi.NewRouter()
	proxies := middleware.TrustedProxies(cfg.TrustedProxyNetworks())

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(log, proxies),
		middleware.PanicRecovery,
		middleware.CORS(cfg),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(context, middleware.Limit{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst, Proxies: proxies}),
		chimw.CleanPath,
	)

	credentialLimit := middleware.RateLimit(context, middleware.Limit{RPS: cfg.AuthRateLimitRPS, Burst: cfg.AuthRateLimitBurst, Proxies: proxies})

	router.Route("/api", func(routes chi.Router) {
		routes.Get("/health", h.Liveness)
		routes.Get("/ready", h.Readiness)

		routes.Route("/auth", func(credentials chi.Router) {
			credentials.Use(credentialLimit)
			credentials.Mount("/", h.Auth.Routes(authenticate))
		})
		routes.Mount("/users", h.Account.ProfileRoutes(authenticate))
		routes.Mount("/admin/users", h.Account.AdminRoutes(authenticate))
	})

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
		},
	}
}

// Handler exposes the router to httptest.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks until Shutdown or a listener failure.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	drain, cancel := stdctx.WithTimeout(stdctx.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(drain)
}
