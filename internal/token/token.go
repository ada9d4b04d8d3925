// Package token reads the claims of backend-issued access tokens. Signatures
// are not checked here; the auth middleware confirms each token with the
// backend before any request is served.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired is returned for tokens whose exp claim has passed.
var ErrExpired = errors.New("token expired")

type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Info is what the console needs to know about a token.
type Info struct {
	Subject   string     `json:"subject,omitempty"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// Opaque is set for tokens that are not JWTs.
	Opaque bool `json:"opaque"`
}

// Inspect parses raw without verifying it. Tokens that are not JWTs are
// reported as opaque rather than rejected.
func Inspect(raw string) Info {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Info{Opaque: true}
	}
	info := Info{Subject: claims.Subject, Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		info.ExpiresAt = &t
	}
	return info
}

// Check returns ErrExpired when raw carries an exp claim before now.
func Check(raw string, now time.Time) (Info, error) {
	info := Inspect(raw)
	if info.ExpiresAt != nil && !now.Before(*info.ExpiresAt) {
		return info, fmt.Errorf("%w at %s", ErrExpired, info.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return info, nil
}
