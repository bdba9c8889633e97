package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_hub/internal/common/security"
	"workshop_hub/internal/platform/config"
)

func setupAuth(t *testing.T) http.Handler {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: 30 * time.Minute,
	}
	security.InitJWT()

	identity := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserIDFromContext(r.Context())
		email, _ := GetUserEmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"user_id": userID, "email": email})
	})
	return jwtauth.Verifier(security.TokenAuth)(Authenticator(identity))
}

func doRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthenticator_MissingHeader(t *testing.T) {
	handler := setupAuth(t)

	rec := doRequest(handler, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
}

func TestAuthenticator_MalformedHeader(t *testing.T) {
	handler := setupAuth(t)

	for _, header := range []string{"token-without-scheme", "Basic abc123", "Bearer "} {
		rec := doRequest(handler, header)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "INVALID_AUTH_HEADER", errorCode(t, rec), header)
	}
}

func TestAuthenticator_InvalidToken(t *testing.T) {
	handler := setupAuth(t)

	rec := doRequest(handler, "Bearer not.a.token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, rec))
}

func TestAuthenticator_WrongSignature(t *testing.T) {
	handler := setupAuth(t)

	other := jwtauth.New("HS256", []byte("some-other-secret"), nil)
	_, token, err := other.Encode(map[string]interface{}{"user_id": "user-1"})
	require.NoError(t, err)

	rec := doRequest(handler, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, rec))
}

func TestAuthenticator_ValidToken(t *testing.T) {
	handler := setupAuth(t)

	token, err := security.GenerateToken("user-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	rec := doRequest(handler, "Bearer "+token)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestOptionalAuth_NoToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: 30 * time.Minute}
	security.InitJWT()

	var sawIdentity bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawIdentity = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := jwtauth.Verifier(security.TokenAuth)(OptionalAuth(inner))

	rec := doRequest(handler, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sawIdentity)
}

func TestOptionalAuth_WithToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: 30 * time.Minute}
	security.InitJWT()

	token, err := security.GenerateToken("user-9", "bob@example.com", "Bob")
	require.NoError(t, err)

	var gotID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := jwtauth.Verifier(security.TokenAuth)(OptionalAuth(inner))

	rec := doRequest(handler, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-9", gotID)
}
