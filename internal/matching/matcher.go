package matching

import (
	"sort"
	"strings"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

// Location ranks: same city beats same state beats anything else.
const (
	LocationSameCity  = 2
	LocationSameState = 1
	LocationOther     = 0
)

// Match is one eligible donor together with its ranking keys.
type Match struct {
	Donor        domain.Donor `json:"donor"`
	LocationRank int          `json:"location_match"`
	Direct       bool         `json:"-"`
}

// Compatibility renders the direct-match flag in the wire vocabulary.
func (m Match) Compatibility() string {
	if m.Direct {
		return "Direct"
	}
	return "Compatible"
}

// FindCompatible filters the candidate pool down to donors permitted to
// donate for the requested blood type and ranks them: online donors first,
// then by location rank (city > state > other), then direct matches over
// merely-compatible ones, with donor ID as the deterministic tie-break.
//
// An empty result is not an error. An unrecognized requested blood type is a
// caller contract violation and returns a validation error.
func FindCompatible(candidates []domain.Donor, requested domain.BloodType, city, state string) ([]Match, error) {
	if !requested.Valid() {
		return nil, apperrors.ValidationError("invalid blood type").WithField("blood_type", string(requested))
	}

	matches := make([]Match, 0, len(candidates))
	for _, donor := range candidates {
		if !CanDonate(donor.BloodType, requested) {
			continue
		}
		matches = append(matches, Match{
			Donor:        donor,
			LocationRank: locationRank(donor, city, state),
			Direct:       donor.BloodType == requested,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Donor.IsOnline != b.Donor.IsOnline {
			return a.Donor.IsOnline
		}
		if a.LocationRank != b.LocationRank {
			return a.LocationRank > b.LocationRank
		}
		if a.Direct != b.Direct {
			return a.Direct
		}
		return a.Donor.ID < b.Donor.ID
	})

	return matches, nil
}

func locationRank(donor domain.Donor, city, state string) int {
	if strings.EqualFold(donor.City, city) {
		return LocationSameCity
	}
	if strings.EqualFold(donor.State, state) {
		return LocationSameState
	}
	return LocationOther
}
