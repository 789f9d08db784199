package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
)

func donor(id string, bt domain.BloodType, city, state string, online bool) domain.Donor {
	return domain.Donor{
		ID:          id,
		Name:        "Donor " + id,
		BloodType:   bt,
		City:        city,
		State:       state,
		IsAvailable: true,
		IsOnline:    online,
	}
}

func TestCanDonate_UniversalDonor(t *testing.T) {
	for _, recipient := range domain.BloodTypes {
		assert.True(t, CanDonate(domain.ONeg, recipient), "O- should donate to %s", recipient)
	}
}

func TestCanDonate_UniversalRecipient(t *testing.T) {
	for _, giver := range domain.BloodTypes {
		assert.True(t, CanDonate(giver, domain.ABPos), "%s should donate to AB+", giver)
	}
}

func TestCanDonate_ABPosDonatesOnlyToABPos(t *testing.T) {
	for _, recipient := range domain.BloodTypes {
		want := recipient == domain.ABPos
		assert.Equal(t, want, CanDonate(domain.ABPos, recipient), "AB+ -> %s", recipient)
	}
}

func TestCanDonate_RhNegativeNeverToRhNegativeMismatch(t *testing.T) {
	// A+ carries both A antigen and Rh factor.
	assert.True(t, CanDonate(domain.APos, domain.APos))
	assert.True(t, CanDonate(domain.APos, domain.ABPos))
	assert.False(t, CanDonate(domain.APos, domain.ANeg))
	assert.False(t, CanDonate(domain.APos, domain.OPos))
	assert.False(t, CanDonate(domain.APos, domain.BPos))
}

func TestFindCompatible_InvalidBloodType(t *testing.T) {
	_, err := FindCompatible(nil, domain.BloodType("X+"), "Boston", "MA")
	require.Error(t, err)
}

func TestFindCompatible_EmptyPool(t *testing.T) {
	matches, err := FindCompatible(nil, domain.APos, "Boston", "MA")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindCompatible_FiltersIncompatible(t *testing.T) {
	pool := []domain.Donor{
		donor("a", domain.APos, "Boston", "MA", false),
		donor("b", domain.ABPos, "Boston", "MA", false),
		donor("c", domain.ONeg, "Boston", "MA", false),
	}

	matches, err := FindCompatible(pool, domain.APos, "Boston", "MA")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	ids := []string{matches[0].Donor.ID, matches[1].Donor.ID}
	assert.NotContains(t, ids, "b")
}

func TestFindCompatible_DirectVsCompatible(t *testing.T) {
	pool := []domain.Donor{
		donor("direct", domain.BPos, "Boston", "MA", false),
		donor("universal", domain.ONeg, "Boston", "MA", false),
	}

	matches, err := FindCompatible(pool, domain.BPos, "Boston", "MA")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Same location and presence, so the direct match ranks first.
	assert.Equal(t, "direct", matches[0].Donor.ID)
	assert.Equal(t, "Direct", matches[0].Compatibility())
	assert.Equal(t, "Compatible", matches[1].Compatibility())
}

func TestFindCompatible_LocationRanking(t *testing.T) {
	pool := []domain.Donor{
		donor("far", domain.APos, "Austin", "TX", false),
		donor("state", domain.APos, "Worcester", "MA", false),
		donor("city", domain.APos, "Boston", "MA", false),
	}

	matches, err := FindCompatible(pool, domain.APos, "Boston", "MA")
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "city", matches[0].Donor.ID)
	assert.Equal(t, LocationSameCity, matches[0].LocationRank)
	assert.Equal(t, "state", matches[1].Donor.ID)
	assert.Equal(t, LocationSameState, matches[1].LocationRank)
	assert.Equal(t, "far", matches[2].Donor.ID)
	assert.Equal(t, LocationOther, matches[2].LocationRank)
}

func TestFindCompatible_LocationIsCaseInsensitive(t *testing.T) {
	pool := []domain.Donor{donor("a", domain.APos, "bOsToN", "ma", false)}

	matches, err := FindCompatible(pool, domain.APos, "Boston", "MA")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, LocationSameCity, matches[0].LocationRank)
}

func TestFindCompatible_OnlineBeatsLocation(t *testing.T) {
	pool := []domain.Donor{
		donor("local-offline", domain.APos, "Boston", "MA", false),
		donor("remote-online", domain.APos, "Austin", "TX", true),
	}

	matches, err := FindCompatible(pool, domain.APos, "Boston", "MA")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "remote-online", matches[0].Donor.ID)
}

func TestFindCompatible_DeterministicTieBreak(t *testing.T) {
	pool := []domain.Donor{
		donor("zeta", domain.APos, "Boston", "MA", false),
		donor("alpha", domain.APos, "Boston", "MA", false),
	}

	for range 10 {
		matches, err := FindCompatible(pool, domain.APos, "Boston", "MA")
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "alpha", matches[0].Donor.ID)
		assert.Equal(t, "zeta", matches[1].Donor.ID)
	}
}

func TestFindCompatible_FullOrdering(t *testing.T) {
	pool := []domain.Donor{
		donor("d1", domain.APos, "Austin", "TX", false),
		donor("d2", domain.ONeg, "Boston", "MA", false),
		donor("d3", domain.APos, "Boston", "MA", false),
		donor("d4", domain.ANeg, "Worcester", "MA", true),
		donor("d5", domain.APos, "Worcester", "MA", true),
		donor("d6", domain.ABPos, "Boston", "MA", true),
	}

	matches, err := FindCompatible(pool, domain.APos, "Boston", "MA")
	require.NoError(t, err)
	require.Len(t, matches, 5)

	// Online state-level donors lead (direct before compatible), then the
	// offline city donors (again direct first), then the rest.
	got := make([]string, 0, len(matches))
	for _, m := range matches {
		got = append(got, m.Donor.ID)
	}
	assert.Equal(t, []string{"d5", "d4", "d3", "d2", "d1"}, got)
}
