// Package auth implements the session token codec: it signs a small set of
// identity claims into a time-limited HS256 JWT and validates tokens back
// into typed claims.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultValidity is the lifetime of a session token.
const DefaultValidity = 24 * time.Hour

var ErrEmptySecret = errors.New("empty signing secret")

// Claims is the identity embedded in a session token. The token payload
// itself is tokenClaims.
type Claims struct {
	UserID string
	Name   string
	Role   models.Role
}

// tokenClaims is the wire form of Claims.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Codec encodes and decodes session tokens with a server-held secret.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewCodec builds a Codec. A non-positive validity falls back to
// DefaultValidity.
func NewCodec(secret []byte, validity time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Codec{secret: secret, validity: validity, now: time.Now}, nil
}

// WithClock returns a copy of c that reads the current time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Validity is the token lifetime; the session cookie uses the same value.
func (c *Codec) Validity() time.Duration {
	return c.validity
}

// Encode signs claims into a token expiring Validity() after now.
func (c *Codec) Encode(claims Claims) (string, error) {
	issued := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.validity)),
		},
		UserID: claims.UserID,
		Name:   claims.Name,
		Role:   string(claims.Role),
	})

	return token.SignedString(c.secret)
}

// Decode validates token and returns its claims. Every failure (bad
// signature, foreign secret, wrong algorithm, malformed input, expiry,
// missing subject) yields common.ErrInvalidToken and nothing else.
func (c *Codec) Decode(tokenString string) (Claims, error) {
	tc := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, tc, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid || tc.UserID == "" {
		return Claims{}, common.ErrInvalidToken
	}

	return Claims{UserID: tc.UserID, Name: tc.Name, Role: models.ParseRole(tc.Role)}, nil
}
