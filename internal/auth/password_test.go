package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Tests use bcrypt.MinCost (4) so each Hash call takes microseconds
// instead of the ~250ms a production cost would.
func newTestPasswordService(t *testing.T) *PasswordService {
	t.Helper()
	return NewPasswordService(bcrypt.MinCost)
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("Hash() = %q, want a bcrypt hash starting with $2a$", hash)
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, _ := ps.Hash("the-real-password")

	if err := ps.Verify(hash, "a-wrong-guess"); err == nil {
		t.Fatal("Verify() should fail for a wrong password")
	}
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	ps := newTestPasswordService(t)

	// bcrypt salts every hash, so two users with the same password must
	// still get different stored values.
	h1, _ := ps.Hash("shared-password")
	h2, _ := ps.Hash("shared-password")

	if h1 == h2 {
		t.Error("Hash() produced identical hashes for two calls; salting is broken")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := newTestPasswordService(t)

	_, err := ps.Hash(strings.Repeat("x", 73))
	if err == nil {
		t.Fatal("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestNewPasswordService_ZeroCostUsesDefault(t *testing.T) {
	ps := NewPasswordService(0)
	if ps.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", ps.cost, DefaultBcryptCost)
	}
}
