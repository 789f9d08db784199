package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(apperrors.Middleware())

	loginLimiter := newRateLimiter(s.config.LoginRate, s.config.LoginBurst)

	api := s.echo.Group("/api")
	api.GET("", s.handleRoot)

	api.POST("/donors", s.handleCreateDonor)
	api.GET("/donors", s.handleListDonors)
	api.GET("/donors/:id", s.handleGetDonor)

	api.POST("/hospitals", s.handleCreateHospital)
	api.GET("/hospitals", s.handleListHospitals)
	api.GET("/hospitals/:id", s.handleGetHospital)

	api.POST("/blood-requests", s.handleCreateRequest, s.requireAuth, s.requireRoles(domain.RoleHospital, domain.RoleAdmin))
	api.GET("/blood-requests", s.handleListRequests)
	api.GET("/blood-requests/:id", s.handleGetRequest)

	api.GET("/match-donors/:id", s.handleMatchDonors)
	api.GET("/stats", s.handleStats)

	api.POST("/auth/register", s.handleRegisterUser, loginLimiter)
	api.POST("/auth/login", s.handleLogin, loginLimiter)

	s.echo.GET("/ws/alerts", s.handleWebSocket)

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Blood Donation App API"})
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}
