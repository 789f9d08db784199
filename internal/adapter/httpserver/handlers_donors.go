package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

// DonorCreateRequest is the registration payload for a new donor.
type DonorCreateRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	BloodType string `json:"blood_type"`
	Age       int    `json:"age"`
	City      string `json:"city"`
	State     string `json:"state"`
}

func (r *DonorCreateRequest) validate() (*domain.Donor, error) {
	name := sanitizeText(r.Name)
	if len(name) < 2 || len(name) > maxNameLen {
		return nil, apperrors.ValidationError("name must be between 2 and 100 characters")
	}
	if !validPhone(r.Phone) {
		return nil, apperrors.ValidationError("invalid phone number format")
	}
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if !validEmail(email) {
		return nil, apperrors.ValidationError("invalid email format")
	}
	bloodType, err := domain.ParseBloodType(r.BloodType)
	if err != nil {
		return nil, apperrors.ValidationError("invalid blood type").WithField("blood_type", r.BloodType)
	}
	if r.Age < minAge || r.Age > maxAge {
		return nil, apperrors.ValidationError(fmt.Sprintf("age must be between %d and %d", minAge, maxAge))
	}
	city := sanitizeText(r.City)
	state := sanitizeText(r.State)
	if len(city) < 2 || len(state) < 2 {
		return nil, apperrors.ValidationError("city and state are required")
	}

	now := time.Now().UTC()
	return &domain.Donor{
		ID:          uuid.NewString(),
		Name:        name,
		Phone:       sanitizeText(r.Phone),
		Email:       email,
		BloodType:   bloodType,
		Age:         r.Age,
		City:        city,
		State:       state,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Server) handleCreateDonor(c echo.Context) error {
	var req DonorCreateRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	donor, err := req.validate()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := s.donors.Create(ctx, donor); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return apperrors.ConflictError("donor with this email already exists")
		}
		return apperrors.InternalError("failed to register donor", err)
	}

	return c.JSON(http.StatusCreated, donor)
}

func (s *Server) handleListDonors(c echo.Context) error {
	donors, err := s.donors.ListAvailable(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list donors", err)
	}
	return c.JSON(http.StatusOK, donors)
}

func (s *Server) handleGetDonor(c echo.Context) error {
	donor, err := s.donors.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrDonorNotFound) {
		return apperrors.NotFoundError("donor not found").WithField("donor_id", c.Param("id"))
	}
	if err != nil {
		return apperrors.InternalError("failed to load donor", err)
	}
	return c.JSON(http.StatusOK, donor)
}
