package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-exchange-client/app"
	"github.com/jrsteele09/go-exchange-client/internal/config"
	"github.com/jrsteele09/go-exchange-client/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// ModeSource exposes the reconciler's current decision.
type ModeSource interface {
	Status() app.Status
}

// Server is the local read-only status surface of the client.
type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	router     chi.Router
	reconciler ModeSource
	store      *store.Store
	gatherer   prometheus.Gatherer
}

func New(cfg config.EnvConfig, reconciler ModeSource, st *store.Store, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		env:        cfg.GetEnv(),
		router:     chi.NewRouter(),
		reconciler: reconciler,
		store:      st,
		gatherer:   gatherer,
	}
	s.initRoutes()
	return s
}

func (s *Server) initRoutes() {
	s.router.Use(s.RecoverMiddleware, s.LoggingMiddleware)

	s.router.Get(RouteHealth, s.HealthHandler())
	s.router.Get(RouteSession, s.SessionHandler())
	s.router.Get(RouteRouteHistory, s.RouteHistoryHandler())
	if s.gatherer != nil {
		s.router.Handle(RouteMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func logRoute(method, path string, status int) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Int("status", status).Msgf("[%-19s] %s", displayMethod, path)
}
