// Package auth provides operator authentication.
// The rental office runs with a single operator credential pair configured
// through the environment; successful login yields a signed JWT bearer token.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/appctx"
	"github.com/Juman-Kalita/Slab/pkg/logger"
)

// Config holds authentication configuration.
type Config struct {
	// AdminUser is the operator login name
	AdminUser string

	// AdminPasswordHash is the bcrypt hash of the operator password
	AdminPasswordHash string

	// JWTSecret signs access tokens (HS256)
	JWTSecret []byte

	// TokenTTL is the access token lifetime (default 12h)
	TokenTTL time.Duration
}

// Service issues and validates access tokens.
type Service struct {
	cfg Config
}

// NewService creates a new auth service.
func NewService(cfg Config) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	return &Service{cfg: cfg}
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login verifies the credential pair and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username != s.cfg.AdminUser {
		// Same error for unknown user and wrong password.
		return "", apperror.NewUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		logger.Warn(ctx, "failed login attempt", "username", username)
		return "", apperror.NewUnauthorized("invalid credentials")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	})

	signed, err := token.SignedString(s.cfg.JWTSecret)
	if err != nil {
		return "", apperror.NewInternal(err)
	}

	logger.Info(ctx, "operator logged in", "username", username)
	return signed, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *Service) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.NewUnauthorized("unexpected signing method")
		}
		return s.cfg.JWTSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperror.NewUnauthorized("invalid token")
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, apperror.NewUnauthorized("invalid token claims")
	}

	return &appctx.UserContext{
		UserID:   c.Subject,
		Username: c.Username,
	}, nil
}

// HashPassword produces a bcrypt hash for provisioning.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
