package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/WilliamTrivedi/Blood-Donation/internal/auth"
	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

// RegisterUserRequest is the payload for creating an account.
type RegisterUserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	DonorID    string `json:"donor_id,omitempty"`
	HospitalID string `json:"hospital_id,omitempty"`
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the successful login response.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        *domain.User `json:"user"`
}

func (s *Server) handleRegisterUser(c echo.Context) error {
	var req RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		return apperrors.ValidationError("invalid email format")
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return err
	}
	role := domain.Role(req.Role)
	if !role.Valid() {
		return apperrors.ValidationError("invalid role").WithField("role", req.Role)
	}
	if role == domain.RoleAdmin {
		return apperrors.ForbiddenError("admin accounts cannot be self-registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		DonorID:      strings.TrimSpace(req.DonorID),
		HospitalID:   strings.TrimSpace(req.HospitalID),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return apperrors.ConflictError("account with this email already exists")
		}
		return apperrors.InternalError("failed to create account", err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ctx := c.Request().Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return apperrors.UnauthorizedError("invalid email or password")
	}
	if err != nil {
		return apperrors.InternalError("failed to load account", err)
	}
	if !user.IsActive {
		return apperrors.UnauthorizedError("account is disabled")
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return apperrors.UnauthorizedError("invalid email or password")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		return apperrors.InternalError("failed to record login", err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(auth.AccessTokenTTL.Seconds()),
		User:        user,
	})
}
