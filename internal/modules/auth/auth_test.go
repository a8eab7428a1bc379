package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/warehouse/internal/apperr"
	"github.com/georgemunganga/warehouse/internal/config"
	"github.com/georgemunganga/warehouse/internal/logger"
)

func operatorConfig(t *testing.T) config.Auth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return config.Auth{JWTSecret: "test-secret", OperatorUser: "operator", OperatorPasswordHash: string(hash)}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := NewService(operatorConfig(t), logger.Discard())

	token, err := svc.Login(context.Background(), "operator", "s3cret")
	require.NoError(t, err)

	sub, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", sub)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(operatorConfig(t), logger.Discard())

	_, err := svc.Login(context.Background(), "operator", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(context.Background(), "someone", "s3cret")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	cfg := operatorConfig(t)
	s := NewService(cfg, logger.Discard()).(*service)
	s.now = func() time.Time { return time.Now().Add(-2 * TokenTTL) }
	expired, err := s.Login(context.Background(), "operator", "s3cret")
	require.NoError(t, err)
	_, err = s.Verify(expired)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.StandardClaims{Subject: "operator"}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = s.Verify(foreign)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGuard(t *testing.T) {
	svc := NewService(operatorConfig(t), logger.Discard())
	token, err := svc.Login(context.Background(), "operator", "s3cret")
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	guarded := svc.Guard(ok)

	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer nonsense", http.StatusUnauthorized},
		{"Basic " + token, http.StatusUnauthorized},
		{"Bearer " + token, http.StatusNoContent},
		{"bearer " + token, http.StatusNoContent},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		assert.Equal(t, c.want, w.Code, c.header)
	}
}

func TestGuardDisabledWithoutPassword(t *testing.T) {
	svc := NewService(config.Auth{}, logger.Discard())
	w := httptest.NewRecorder()
	svc.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err := svc.Login(context.Background(), "operator", "")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLoginHandler(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(NewService(operatorConfig(t), logger.Discard())).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"operator","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token_type":"Bearer"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"operator","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"operator"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
