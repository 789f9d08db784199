package httpserver

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

const bearerPrefix = "Bearer "

// requireAuth extracts and verifies the bearer token, storing the claims in
// the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			return apperrors.UnauthorizedError("missing bearer token")
		}

		claims, err := s.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return err
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Set("userEmail", claims.Subject)
		return next(c)
	}
}

// requireRoles rejects authenticated users whose role is not in the allow list.
func (s *Server) requireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("userRole").(domain.Role)
			if !ok {
				return apperrors.UnauthorizedError("missing role")
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return apperrors.ForbiddenError("insufficient role").WithField("role", string(role))
		}
	}
}
