// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 accountd Contributors

// Package token issues signed, time-bounded identity assertions.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken is the sentinel wrapped by every token validation error.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the identity assertion: the account ID travels in the
// registered subject claim, the admin flag in a private claim.
type Claims struct {
	jwt.RegisteredClaims
	Admin bool `json:"adm"`
}

// Issuer mints HS256-signed JWTs. The signing key is process-wide
// configuration loaded once at startup; rotating it invalidates every
// previously issued token.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithNow sets the clock (primarily for testing).
func WithNow(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer creates an Issuer. An empty secret is a configuration error
// and must abort startup, never be deferred to a per-call failure.
func NewIssuer(secret []byte, ttl time.Duration, opts ...IssuerOption) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("signing key is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	i := &Issuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs a self-contained assertion for the account.
func (i *Issuer) Issue(accountID string, admin bool) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Admin: admin,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Parse validates a token against the issuer's key and returns its claims.
// Verification is the external collaborator's job at runtime; Parse exists
// so that collaborator (and tests) share the key and expiry semantics.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").Wrapf(ErrInvalidToken, "parse token: %v", err)
	}
	if !parsed.Valid {
		return nil, oops.Code("TOKEN_INVALID").Wrap(ErrInvalidToken)
	}

	return claims, nil
}
