// Package auth provides token issuance, password hashing, and the request
// authentication middleware.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. User registers with name/email/password (bcrypt-hashed before storage)
//  2. User logs in → server verifies the hash and issues a signed JWT
//  3. The client sends "Authorization: Bearer <jwt>" on protected routes
//  4. Middleware verifies the token and puts the embedded Identity in the
//     request context; handlers read it with IdentityFromContext
//
// WHY JWT?
// JWT (JSON Web Token) is stateless: the server stores no session data.
// Everything needed to authenticate a request (user id, display name,
// avatar, expiry) travels inside the signed token, and the HMAC signature
// ensures nobody can alter it without the secret key.
//
// STALENESS TRADE-OFF:
// The token embeds the user's display name and avatar, and protected
// handlers trust that payload instead of re-reading the user record. A user
// who changes their name keeps the old one on anything created with an
// older token, for at most the token lifetime. This is a deliberate design
// choice: one signature check instead of a store lookup per request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = time.Hour

const issuer = "devconnect"

// Identity is the verified {user id, name, avatar} triple carried by a
// token. It is everything a protected handler knows about the caller.
type Identity struct {
	UserID    string
	Name      string
	AvatarURL string
}

// TokenService signs and verifies identity tokens.
//
// It holds the HMAC secret used for both operations. The same secret must
// be used to verify a token as was used to sign it; rotate it and every
// outstanding token becomes invalid, which is exactly what you want when a
// secret leaks.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A ttl of zero means DefaultTokenTTL. The secret should be at
// least 32 bytes of random data in production:
//
//	JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims is the JWT payload. RegisteredClaims provides the standard fields
// (Subject, ExpiresAt, IssuedAt, Issuer); we add the display fields so
// protected handlers can render the caller without a store lookup.
type claims struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	jwt.RegisteredClaims
}

// Issue creates and signs a token asserting the given identity.
//
// Signing algorithm: HS256 (HMAC-SHA256). Symmetric, fast, and fine for a
// single-server deployment where issuer and verifier share one secret.
func (s *TokenService) Issue(id Identity) (string, error) {
	return s.IssueWithDuration(id, s.ttl)
}

// IssueWithDuration creates a token with a custom expiry. Used by tests to
// mint already-expired tokens without sleeping.
func (s *TokenService) IssueWithDuration(id Identity, d time.Duration) (string, error) {
	if id.UserID == "" {
		return "", errors.New("auth: identity must have a user ID")
	}

	now := time.Now()
	c := claims{
		Name:   id.Name,
		Avatar: id.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a token string, returning the Identity it
// asserts.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (the payload wasn't tampered with)
//   - Token is not expired
//   - Issuer matches ours (prevents tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks, where an
//     attacker submits a token claiming alg "none" or an RSA variant)
//
// Every failure mode comes back as an error; callers treat all of them as
// one uniform "unauthorized" outcome rather than leaking which check failed.
func (s *TokenService) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: token has no subject")
	}

	return Identity{
		UserID:    c.Subject,
		Name:      c.Name,
		AvatarURL: c.Avatar,
	}, nil
}
