package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

// HospitalCreateRequest is the registration payload for a new hospital.
// New hospitals start as pending until verified.
type HospitalCreateRequest struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	ContactName   string `json:"contact_person_name"`
	ContactTitle  string `json:"contact_person_title"`
}

func (r *HospitalCreateRequest) validate() (*domain.Hospital, error) {
	name := sanitizeText(r.Name)
	if len(name) < 2 {
		return nil, apperrors.ValidationError("hospital name is required")
	}
	license := strings.TrimSpace(r.LicenseNumber)
	if len(license) < 5 || len(license) > 50 {
		return nil, apperrors.ValidationError("license number must be between 5 and 50 characters")
	}
	if !validPhone(r.Phone) {
		return nil, apperrors.ValidationError("invalid phone number format")
	}
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if !validEmail(email) {
		return nil, apperrors.ValidationError("invalid email format")
	}
	address := sanitizeText(r.Address)
	if len(address) < 10 {
		return nil, apperrors.ValidationError("address is too short")
	}
	city := sanitizeText(r.City)
	state := sanitizeText(r.State)
	if len(city) < 2 || len(state) < 2 {
		return nil, apperrors.ValidationError("city and state are required")
	}

	return &domain.Hospital{
		ID:            uuid.NewString(),
		Name:          name,
		LicenseNumber: license,
		Phone:         sanitizeText(r.Phone),
		Email:         email,
		Address:       address,
		City:          city,
		State:         state,
		ZipCode:       sanitizeText(r.ZipCode),
		ContactName:   sanitizeText(r.ContactName),
		ContactTitle:  sanitizeText(r.ContactTitle),
		Status:        domain.HospitalPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

func (s *Server) handleCreateHospital(c echo.Context) error {
	var req HospitalCreateRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	hospital, err := req.validate()
	if err != nil {
		return err
	}

	if err := s.hospitals.Create(c.Request().Context(), hospital); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return apperrors.ConflictError("hospital with this email already exists")
		}
		return apperrors.InternalError("failed to register hospital", err)
	}

	return c.JSON(http.StatusCreated, hospital)
}

func (s *Server) handleGetHospital(c echo.Context) error {
	hospital, err := s.hospitals.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrHospitalNotFound) {
		return apperrors.NotFoundError("hospital not found").WithField("hospital_id", c.Param("id"))
	}
	if err != nil {
		return apperrors.InternalError("failed to load hospital", err)
	}
	return c.JSON(http.StatusOK, hospital)
}

func (s *Server) handleListHospitals(c echo.Context) error {
	hospitals, err := s.hospitals.List(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list hospitals", err)
	}
	return c.JSON(http.StatusOK, hospitals)
}
