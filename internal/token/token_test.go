package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkau/buildhub/internal/common"
)

type testClaims struct {
	jwt.RegisteredClaims
	Value string `json:"val"`
}

// setClock pins the package clock and restores it when the test ends.
func setClock(t *testing.T, at time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = old })
}

func TestSignAndVerify_Success(t *testing.T) {
	secret := []byte("super-secret")

	tok, err := Sign(&testClaims{
		RegisteredClaims: StandardClaims(time.Hour),
		Value:            "v-123",
	}, secret)
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	got := &testClaims{}
	if err := Verify(tok, secret, got); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got.Value != "v-123" {
		t.Fatalf("value mismatch: got %q want %q", got.Value, "v-123")
	}
}

func TestVerify_Expired(t *testing.T) {
	secret := []byte("secret")
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	setClock(t, issued)
	tok, err := Sign(&testClaims{RegisteredClaims: StandardClaims(15 * time.Minute)}, secret)
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	// Exactly at exp the token is already expired.
	setClock(t, issued.Add(15*time.Minute))
	err = Verify(tok, secret, &testClaims{})
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_NotYetValid(t *testing.T) {
	secret := []byte("secret")
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	setClock(t, issued)
	tok, err := Sign(&testClaims{RegisteredClaims: StandardClaims(time.Hour)}, secret)
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	setClock(t, issued.Add(-time.Minute))
	err = Verify(tok, secret, &testClaims{})
	if !errors.Is(err, common.ErrTokenNotYetValid) {
		t.Fatalf("expected common.ErrTokenNotYetValid, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := Sign(&testClaims{RegisteredClaims: StandardClaims(time.Hour)}, []byte("right-secret"))
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}

	err = Verify(tok, []byte("wrong-secret"), &testClaims{})
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	err := Verify("not.a.jwt", []byte("k"), &testClaims{})
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestStandardClaims_SecondGranularity(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 789000000, time.UTC)
	setClock(t, at)

	rc := StandardClaims(30 * time.Minute)
	if rc.IssuedAt.Unix() != at.Unix() {
		t.Fatalf("iat: got %d want %d", rc.IssuedAt.Unix(), at.Unix())
	}
	if rc.ExpiresAt.Unix() != at.Add(30*time.Minute).Unix() {
		t.Fatalf("exp: got %d want %d", rc.ExpiresAt.Unix(), at.Add(30*time.Minute).Unix())
	}
}
