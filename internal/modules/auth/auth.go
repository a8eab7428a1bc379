// Package auth issues operator tokens and guards mutating routes with them.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/warehouse/internal/apperr"
	"github.com/georgemunganga/warehouse/internal/config"
	"github.com/georgemunganga/warehouse/internal/httpx"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// Service defines operator authentication.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
	// Verify checks a token and returns its subject.
	Verify(token string) (string, error)
	// Guard rejects requests without a valid bearer token. It passes every
	// request through when no operator password is configured.
	Guard(next http.Handler) http.Handler
}

type service struct {
	cfg config.Auth
	log *slog.Logger
	now func() time.Time
}

// NewService creates a new auth service.
func NewService(cfg config.Auth, log *slog.Logger) Service {
	return &service{cfg: cfg, log: log, now: time.Now}
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.cfg.Enabled() {
		return "", fmt.Errorf("operator login is disabled: %w", apperr.ErrUnauthorized)
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.OperatorUser)) == 1
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.OperatorPasswordHash), []byte(password)); err != nil || !userOK {
		s.log.Warn("operator login rejected", slog.String("user", username))
		return "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	now := s.now()
	claims := &jwt.StandardClaims{
		Subject:   username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *service) Verify(raw string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}
	return claims.Subject, nil
}

func (s *service) Guard(next http.Handler) http.Handler {
	if !s.cfg.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearer(r)
		if !ok {
			httpx.Error(w, fmt.Errorf("missing bearer token: %w", apperr.ErrUnauthorized))
			return
		}
		if _, err := s.Verify(raw); err != nil {
			httpx.Error(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return h[len(prefix):], true
}
