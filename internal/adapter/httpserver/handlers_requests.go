package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	"github.com/WilliamTrivedi/Blood-Donation/internal/matching"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

// RequestCreateRequest is the payload for a new blood request.
type RequestCreateRequest struct {
	RequesterName   string `json:"requester_name"`
	PatientName     string `json:"patient_name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	BloodTypeNeeded string `json:"blood_type_needed"`
	Urgency         string `json:"urgency"`
	UnitsNeeded     int    `json:"units_needed"`
	HospitalName    string `json:"hospital_name"`
	City            string `json:"city"`
	State           string `json:"state"`
	Description     string `json:"description"`
}

func (r *RequestCreateRequest) validate() (*domain.BloodRequest, error) {
	requester := sanitizeText(r.RequesterName)
	patient := sanitizeText(r.PatientName)
	if len(requester) < 2 || len(patient) < 2 {
		return nil, apperrors.ValidationError("requester and patient names are required")
	}
	if !validPhone(r.Phone) {
		return nil, apperrors.ValidationError("invalid phone number format")
	}
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if !validEmail(email) {
		return nil, apperrors.ValidationError("invalid email format")
	}
	bloodType, err := domain.ParseBloodType(r.BloodTypeNeeded)
	if err != nil {
		return nil, apperrors.ValidationError("invalid blood type").WithField("blood_type", r.BloodTypeNeeded)
	}
	urgency := domain.Urgency(r.Urgency)
	if !urgency.Valid() {
		return nil, apperrors.ValidationError("invalid urgency level").WithField("urgency", r.Urgency)
	}
	if r.UnitsNeeded < minUnits || r.UnitsNeeded > maxUnits {
		return nil, apperrors.ValidationError(fmt.Sprintf("units needed must be between %d and %d", minUnits, maxUnits))
	}
	hospital := sanitizeText(r.HospitalName)
	city := sanitizeText(r.City)
	state := sanitizeText(r.State)
	if len(hospital) < 2 || len(city) < 2 || len(state) < 2 {
		return nil, apperrors.ValidationError("hospital name, city, and state are required")
	}

	now := time.Now().UTC()
	return &domain.BloodRequest{
		ID:              uuid.NewString(),
		RequesterName:   requester,
		PatientName:     patient,
		Phone:           sanitizeText(r.Phone),
		Email:           email,
		BloodTypeNeeded: bloodType,
		Urgency:         urgency,
		UnitsNeeded:     r.UnitsNeeded,
		HospitalName:    hospital,
		City:            city,
		State:           state,
		Description:     sanitizeText(r.Description),
		Status:          domain.RequestActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// handleCreateRequest stores a new blood request and, for Critical or Urgent
// urgency, triggers the real-time fan-out and records the alert bookkeeping.
func (s *Server) handleCreateRequest(c echo.Context) error {
	var req RequestCreateRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	request, err := req.validate()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := s.requests.Create(ctx, request); err != nil {
		return apperrors.InternalError("failed to store blood request", err)
	}

	// Fan-out only after the request is durably stored.
	if request.Urgency.RequiresAlert() {
		s.notifyDonors(c, request)
	}

	return c.JSON(http.StatusCreated, request)
}

// notifyDonors runs the emergency fan-out and persists the resulting counts.
// Failures here are logged, not surfaced: the request itself was stored.
func (s *Server) notifyDonors(c echo.Context, request *domain.BloodRequest) {
	ctx := c.Request().Context()

	pool, err := s.donors.ListAvailable(ctx)
	if err != nil {
		slog.Error("Failed to load candidate pool", "request_id", request.ID, "error", err)
		return
	}

	result, err := s.dispatcher.Notify(*request, pool)
	if err != nil {
		slog.Error("Emergency fan-out failed", "request_id", request.ID, "error", err)
		return
	}

	alertRecord := &domain.EmergencyAlert{
		ID:              uuid.NewString(),
		BloodRequestID:  request.ID,
		AlertType:       string(request.Urgency),
		DonorsNotified:  result.AlertsSent,
		TotalCompatible: result.TotalCompatible,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.alerts.Create(ctx, alertRecord); err != nil {
		slog.Error("Failed to persist alert record", "request_id", request.ID, "error", err)
	}
	if err := s.requests.IncrementAlertsSent(ctx, request.ID, result.AlertsSent); err != nil {
		slog.Error("Failed to bump alerts_sent", "request_id", request.ID, "error", err)
	}
	request.AlertsSent = result.AlertsSent
}

func (s *Server) handleListRequests(c echo.Context) error {
	requests, err := s.requests.ListActive(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list blood requests", err)
	}
	return c.JSON(http.StatusOK, requests)
}

func (s *Server) handleGetRequest(c echo.Context) error {
	request, err := s.requests.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrRequestNotFound) {
		return apperrors.NotFoundError("blood request not found").WithField("request_id", c.Param("id"))
	}
	if err != nil {
		return apperrors.InternalError("failed to load blood request", err)
	}
	return c.JSON(http.StatusOK, request)
}

// MatchResponse is the ranked matcher output for one blood request.
type MatchResponse struct {
	Request          *domain.BloodRequest `json:"request"`
	CompatibleDonors []MatchEntry         `json:"compatible_donors"`
	TotalMatches     int                  `json:"total_matches"`
}

// MatchEntry is one eligible donor in the matcher output.
type MatchEntry struct {
	Donor         domain.Donor `json:"donor"`
	LocationMatch int          `json:"location_match"`
	Compatibility string       `json:"compatibility"`
}

func (s *Server) handleMatchDonors(c echo.Context) error {
	ctx := c.Request().Context()

	request, err := s.requests.GetByID(ctx, c.Param("id"))
	if errors.Is(err, domain.ErrRequestNotFound) {
		return apperrors.NotFoundError("blood request not found").WithField("request_id", c.Param("id"))
	}
	if err != nil {
		return apperrors.InternalError("failed to load blood request", err)
	}

	pool, err := s.donors.ListAvailable(ctx)
	if err != nil {
		return apperrors.InternalError("failed to load candidate pool", err)
	}

	matches, err := matching.FindCompatible(pool, request.BloodTypeNeeded, request.City, request.State)
	if err != nil {
		return err
	}

	entries := make([]MatchEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, MatchEntry{
			Donor:         m.Donor,
			LocationMatch: m.LocationRank,
			Compatibility: m.Compatibility(),
		})
	}

	return c.JSON(http.StatusOK, MatchResponse{
		Request:          request,
		CompatibleDonors: entries,
		TotalMatches:     len(entries),
	})
}
