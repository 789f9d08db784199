package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

// BloodTypeStats is the per-type slice of the platform statistics.
type BloodTypeStats struct {
	AvailableDonors int64 `json:"available_donors"`
	ActiveRequests  int64 `json:"active_requests"`
}

// StatsResponse summarizes platform activity.
type StatsResponse struct {
	TotalDonors         int64                     `json:"total_donors"`
	TotalActiveRequests int64                     `json:"total_active_requests"`
	ConnectedClients    int                       `json:"connected_clients"`
	BloodTypeBreakdown  map[string]BloodTypeStats `json:"blood_type_breakdown"`
}

func (s *Server) handleStats(c echo.Context) error {
	ctx := c.Request().Context()

	totalDonors, err := s.donors.CountAvailable(ctx)
	if err != nil {
		return apperrors.InternalError("failed to count donors", err)
	}
	totalRequests, err := s.requests.CountActive(ctx)
	if err != nil {
		return apperrors.InternalError("failed to count blood requests", err)
	}

	breakdown := make(map[string]BloodTypeStats, len(domain.BloodTypes))
	for _, bt := range domain.BloodTypes {
		donorCount, err := s.donors.CountAvailableByType(ctx, bt)
		if err != nil {
			return apperrors.InternalError("failed to count donors by blood type", err)
		}
		requestCount, err := s.requests.CountActiveByType(ctx, bt)
		if err != nil {
			return apperrors.InternalError("failed to count requests by blood type", err)
		}
		breakdown[string(bt)] = BloodTypeStats{
			AvailableDonors: donorCount,
			ActiveRequests:  requestCount,
		}
	}

	return c.JSON(http.StatusOK, StatsResponse{
		TotalDonors:         totalDonors,
		TotalActiveRequests: totalRequests,
		ConnectedClients:    s.dispatcher.ClientCount(),
		BloodTypeBreakdown:  breakdown,
	})
}
