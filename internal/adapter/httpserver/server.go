// Package httpserver exposes the REST API and the real-time alert WebSocket.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/WilliamTrivedi/Blood-Donation/internal/alert"
	"github.com/WilliamTrivedi/Blood-Donation/internal/auth"
	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	"github.com/WilliamTrivedi/Blood-Donation/internal/platform/config"
)

// HealthCheck is a named health check function.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// alertDispatcher is the surface of the dispatcher the HTTP layer uses.
type alertDispatcher interface {
	Register(conn *websocket.Conn) error
	Unregister(conn *websocket.Conn)
	BindDonor(conn *websocket.Conn, donorID string)
	Notify(request domain.BloodRequest, candidates []domain.Donor) (alert.NotifyResult, error)
	ClientCount() int
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	donors     domain.DonorRepository
	hospitals  domain.HospitalRepository
	requests   domain.RequestRepository
	users      domain.UserRepository
	alerts     domain.AlertRepository
	dispatcher alertDispatcher
	tokens     *auth.TokenService

	connLimits   *ConnectionLimits
	healthChecks []HealthCheck
	startTime    time.Time
}

// Deps bundles the collaborators the server needs.
type Deps struct {
	Donors     domain.DonorRepository
	Hospitals  domain.HospitalRepository
	Requests   domain.RequestRepository
	Users      domain.UserRepository
	Alerts     domain.AlertRepository
	Dispatcher alertDispatcher
	Tokens     *auth.TokenService
	Health     []HealthCheck
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:       e,
		config:     cfg,
		donors:     deps.Donors,
		hospitals:  deps.Hospitals,
		requests:   deps.Requests,
		users:      deps.Users,
		alerts:     deps.Alerts,
		dispatcher: deps.Dispatcher,
		tokens:     deps.Tokens,
		connLimits: NewConnectionLimits(
			cfg.MaxWebSocketConnections,
			cfg.MaxConnectionsPerIP,
			cfg.ConnectionRate,
			cfg.ConnectionBurst,
		),
		healthChecks: deps.Health,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
