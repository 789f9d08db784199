package auth

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
)

const testSecret = "test-secret-key-at-least-32-characters!!"

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "hospital@example.com",
		Role:  domain.RoleHospital,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", hash)

	assert.True(t, VerifyPassword("Sup3rSecret", hash))
	assert.False(t, VerifyPassword("wrong-password", hash))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Abcdef12", false},
		{"too short", "Ab1", true},
		{"no upper", "abcdef12", true},
		{"no lower", "ABCDEF12", true},
		{"no digit", "Abcdefgh", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := NewTokenService(testSecret, clock)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleHospital, claims.Role)
	assert.Equal(t, "hospital@example.com", claims.Subject)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := NewTokenService(testSecret, clock)

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	clock.Advance(AccessTokenTTL + time.Minute)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClock()

	token, err := NewTokenService(testSecret, clock).Issue(testUser())
	require.NoError(t, err)

	other := NewTokenService("another-secret-key-32-characters-long!!!", clock)
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_GarbageToken(t *testing.T) {
	svc := NewTokenService(testSecret, clockwork.NewFakeClock())
	_, err := svc.Verify("not-a-token")
	assert.Error(t, err)
}
