package cryptox

import (
	"bytes"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt := HashPassword([]byte("hunter2"))

	if len(hash) != argonKeyLen {
		t.Fatalf("hash length: got %d want %d", len(hash), argonKeyLen)
	}
	if len(salt) != saltSize {
		t.Fatalf("salt length: got %d want %d", len(salt), saltSize)
	}

	if !VerifyPassword([]byte("hunter2"), salt, hash) {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword([]byte("hunter3"), salt, hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	h1, s1 := HashPassword([]byte("same"))
	h2, s2 := HashPassword([]byte("same"))

	if bytes.Equal(s1, s2) {
		t.Fatalf("two hashes produced the same salt")
	}
	if bytes.Equal(h1, h2) {
		t.Fatalf("same password with different salts produced equal hashes")
	}
}
