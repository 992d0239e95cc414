// WHY BCRYPT?
// bcrypt is a password hashing function designed to be slow, and that
// slowness is the security feature: it makes brute-force attacks expensive.
// It also generates a random salt per hash and embeds it in the output, so
// two users with the same password get different hashes and no separate
// salt column is needed.
//
// NEVER store passwords in plain text or with fast hashes (MD5, SHA-256);
// those fall to GPU rigs in minutes. The plaintext exists only for the
// duration of Hash/Verify and is never persisted or logged anywhere.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
// Cost 12 takes roughly 250ms on current server hardware: negligible for a
// login, brutal for an attacker hashing billions of guesses.
const DefaultBcryptCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct rather than free functions so the cost can be injected:
// production uses the configured cost, tests use bcrypt.MinCost (4) to keep
// each hashing operation in the microsecond range.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given bcrypt cost.
// A cost of zero (unconfigured) means DefaultBcryptCost.
func NewPasswordService(cost int) *PasswordService {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes a plaintext password. The output is a self-contained string
// like
//
//	$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy
//
// which embeds the version, cost, and salt; store it directly.
//
// bcrypt silently truncates input beyond 72 bytes, so we reject longer
// passwords explicitly rather than surprise callers.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash. Returns
// nil on match. The comparison inside bcrypt is constant-time, so response
// timing doesn't reveal how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
