package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_hub/internal/platform/config"
)

func setupJWT(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: 30 * time.Minute,
	}
	InitJWT()
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!pass", hash)

	assert.True(t, CheckPasswordHash("Str0ng!pass", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, CheckPasswordHash("anything", ""))
}

func TestGenerateToken_CarriesIdentity(t *testing.T) {
	setupJWT(t)

	tokenString, err := GenerateToken("user-1", "alice@example.com", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := TokenAuth.Decode(tokenString)
	require.NoError(t, err)
	claims, err := token.AsMap(t.Context())
	require.NoError(t, err)

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	email, err := GetEmailFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	name, err := GetNameFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestClaimsHelpers_Missing(t *testing.T) {
	_, err := GetUserIDFromClaims(map[string]interface{}{})
	assert.Error(t, err)

	_, err = GetUserIDFromClaims(map[string]interface{}{"user_id": ""})
	assert.Error(t, err)

	_, err = GetEmailFromClaims(map[string]interface{}{"email": 42})
	assert.Error(t, err)

	_, err = GetNameFromClaims(map[string]interface{}{})
	assert.Error(t, err)
}
