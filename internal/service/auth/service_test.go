package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicnexus/clinic-api/internal/config"
	"github.com/clinicnexus/clinic-api/internal/service/auth"
	"github.com/clinicnexus/clinic-api/pkg/security"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)

	return auth.NewService(config.JWTConfig{
		Secret:      "test-signing-key",
		ExpiryHours: 1,
		Issuer:      "clinic-api",
		Clients:     map[string]string{"front-desk": hash},
	}, hasher)
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newService(t)

	token, expiresAt, err := svc.IssueToken("front-desk", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "front-desk", claims.ClientID)
	assert.Equal(t, "clinic-api", claims.Issuer)
}

func TestIssueTokenUnknownClient(t *testing.T) {
	svc := newService(t)

	_, _, err := svc.IssueToken("intruder", "s3cret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown client")
}

func TestIssueTokenWrongSecret(t *testing.T) {
	svc := newService(t)

	_, _, err := svc.IssueToken("front-desk", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := newService(t)

	token, _, err := svc.IssueToken("front-desk", "s3cret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
