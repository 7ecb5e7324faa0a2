package crypto

import (
	"strings"
	"testing"
)

// Cheap parameters keep the suite fast; the format is the same.
func testHasher() *PasswordHasher {
	return NewPasswordHasher(HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("HashPassword() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("HashPassword() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("HashPassword() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("HashPassword() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerifyCorrectAndWrong(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("my-secure-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	match, err := h.Verify("my-secure-password", hash)
	if err != nil || !match {
		t.Errorf("Verify() = %v, %v for correct password", match, err)
	}

	match, err = h.Verify("wrong-password", hash)
	if err != nil || match {
		t.Errorf("Verify() = %v, %v for wrong password", match, err)
	}
}

func TestVerifyUsesStoredParams(t *testing.T) {
	hash, err := testHasher().Hash("pw")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	match, err := VerifyPassword("pw", hash)
	if err != nil || !match {
		t.Errorf("VerifyPassword() = %v, %v; want true", match, err)
	}
}

func TestHashIsSalted(t *testing.T) {
	h := testHasher()
	hash1, _ := h.Hash("same-password")
	hash2, _ := h.Hash("same-password")
	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	h := testHasher()
	for _, bad := range []string{
		"invalid-hash-format",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA",
	} {
		if _, err := h.Verify("password", bad); err == nil {
			t.Errorf("Verify(%q) expected error", bad)
		}
	}
}
