package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicnexus/clinic-api/internal/config"
	authhandler "github.com/clinicnexus/clinic-api/internal/handler/auth"
	authservice "github.com/clinicnexus/clinic-api/internal/service/auth"
	"github.com/clinicnexus/clinic-api/pkg/security"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)

	svc := authservice.NewService(config.JWTConfig{
		Secret:      "test-signing-key",
		ExpiryHours: 1,
		Issuer:      "clinic-api",
		Clients:     map[string]string{"front-desk": hash},
	}, hasher)

	r := gin.New()
	authhandler.NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postToken(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueToken(t *testing.T) {
	r := setupRouter(t)

	w := postToken(t, r, gin.H{"client_id": "front-desk", "client_secret": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Bearer", resp.Data.TokenType)
	assert.NotEmpty(t, resp.Data.AccessToken)
}

func TestIssueTokenBadCredentials(t *testing.T) {
	r := setupRouter(t)

	w := postToken(t, r, gin.H{"client_id": "front-desk", "client_secret": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssueTokenMissingFields(t *testing.T) {
	r := setupRouter(t)

	w := postToken(t, r, gin.H{"client_id": "front-desk"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
