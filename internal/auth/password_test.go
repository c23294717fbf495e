package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt.MinCost keeps the suite fast; production uses DefaultCost.
func newTestPasswordService() *PasswordService {
	return NewPasswordService(bcrypt.MinCost)
}

func TestNewPasswordService_CostFallback(t *testing.T) {
	tests := []struct {
		cost int
		want int
	}{
		{0, DefaultCost},
		{3, DefaultCost},
		{bcrypt.MaxCost + 1, DefaultCost},
		{bcrypt.MinCost, bcrypt.MinCost},
		{10, 10},
	}
	for _, tt := range tests {
		if got := NewPasswordService(tt.cost).cost; got != tt.want {
			t.Errorf("NewPasswordService(%d).cost = %d, want %d", tt.cost, got, tt.want)
		}
	}
}

// =========================================================================
// HASH
// =========================================================================

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password")
	}
}

func TestHash_LengthLimit(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("Hash() should accept a 72-byte password, got error: %v", err)
	}

	_, err := ps.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Hash() error = %v, want ErrPasswordTooLong", err)
	}
}

// =========================================================================
// VERIFY
// =========================================================================

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "correct-horse-battery-staple"); err != nil {
		t.Errorf("Verify() with correct password = %v, want nil", err)
	}
	if err := ps.Verify(hash, "Correct-horse-battery-staple"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() with wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	ps := newTestPasswordService()

	err := ps.Verify("not-a-bcrypt-hash", "whatever")
	if err == nil {
		t.Fatal("Verify() should fail for a malformed hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Error("Verify() reported a mismatch for a malformed hash; want a distinct error")
	}
}
