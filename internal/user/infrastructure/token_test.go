package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/user/domain"
	"github.com/wyfcoding/storefront/pkg/config"
)

func newTestManager(secret string) *TokenManager {
	return NewTokenManager(config.JWTConfig{Secret: secret, ExpireHours: 1}, "storefront")
}

func testUser() *domain.User {
	u := &domain.User{
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  domain.RoleAdmin,
	}
	u.ID = 42
	return u
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager("test-secret")

	token, expiresAt, err := m.Issue(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	identity, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.UserID)
	assert.Equal(t, "Asha", identity.Name)
	assert.Equal(t, "asha@example.com", identity.Email)
	assert.Equal(t, "admin", identity.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := newTestManager("secret-a").Issue(testUser())
	require.NoError(t, err)

	_, err = newTestManager("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := newTestManager("test-secret").Verify("not.a.token")
	assert.Error(t, err)
}
