// file: utils/jwt_test.go
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstraCTF/models"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret-at-least-16-bytes", time.Hour)

	user := models.User{ID: 42, Username: "alice", Role: models.RoleAdmin}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret-at-least-16-bytes", time.Hour)

	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	InitJWT("test-secret-at-least-16-bytes", time.Hour)
	token, err := GenerateToken(models.User{ID: 1, Username: "bob", Role: models.RoleUser})
	require.NoError(t, err)

	InitJWT("another-secret-16-bytes-long!!", time.Hour)
	_, err = ParseToken(token)
	assert.Error(t, err)
}
