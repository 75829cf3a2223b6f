package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/form3tech-oss/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/thraizz/monopoly-server-go/internal/config"
)

var (
	// ErrAuthDisabled is returned by Issue when no admin password is configured.
	ErrAuthDisabled   = errors.New("token issuance is not configured")
	ErrBadCredentials = errors.New("invalid admin password")
	ErrMissingToken   = errors.New("missing bearer token")
)

// Authenticator issues and checks the HS256 tokens shared by every transport.
type Authenticator struct {
	cfg config.AuthConfig
	now func() time.Time
}

// NewAuthenticator creates an authenticator for cfg.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{cfg: cfg, now: time.Now}
}

// Enabled reports whether callers must present a token.
func (a *Authenticator) Enabled() bool { return a.cfg.Enabled() }

func (a *Authenticator) signingKey() []byte { return []byte(a.cfg.JWTSecret) }

// Issue exchanges the admin password for a signed token.
func (a *Authenticator) Issue(password string) (string, time.Time, error) {
	if !a.Enabled() || a.cfg.AdminPasswordHash == "" {
		return "", time.Time{}, ErrAuthDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrBadCredentials
	}

	now := a.now()
	expires := now.Add(a.cfg.TokenTTL)
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = "admin"
	claims["iat"] = now.Unix()
	claims["exp"] = expires.Unix()

	signed, err := token.SignedString(a.signingKey())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify checks a raw token, with or without its "Bearer " prefix.
func (a *Authenticator) Verify(raw string) error {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return ErrMissingToken
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.signingKey(), nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
