package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolkau/buildhub/internal/common"
	"github.com/avolkau/buildhub/internal/server/models"
	"github.com/avolkau/buildhub/internal/token"
)

func TestDeriveSubject_DeterministicAndDistinct(t *testing.T) {
	a1 := DeriveSubject("local|user-a")
	a2 := DeriveSubject("local|user-a")
	b := DeriveSubject("local|user-b")

	if a1 != a2 {
		t.Fatalf("derivation is not deterministic: %q vs %q", a1, a2)
	}
	if a1 == b {
		t.Fatalf("distinct identifiers collided: %q", a1)
	}

	seen := map[string]bool{}
	for _, id := range []string{"a", "b", "ab", "ba", "local|x", "local|y", ""} {
		s := DeriveSubject(id)
		if seen[s] {
			t.Fatalf("collision for %q", id)
		}
		seen[s] = true
	}
}

func TestIssue_Claims(t *testing.T) {
	u := &models.User{ID: "u1", PrimaryID: "local|abc", Email: "a@b.com"}
	cfg := testConfig(t)
	svc := NewStorageTokenService(nil, &fakeRepoManager{u: &fakeUsersRepo{getOut: u}}, cfg)

	signed, err := svc.Issue(context.Background(), &Identity{UserID: "u1", PrimaryID: "local|abc", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims := &StorageClaims{}
	if err := token.Verify(signed, []byte(cfg.StorageSecret), claims); err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	if claims.Subject != DeriveSubject("local|abc") {
		t.Fatalf("subject: got %q want %q", claims.Subject, DeriveSubject("local|abc"))
	}
	if claims.Issuer != StorageTokenIssuer {
		t.Fatalf("issuer: got %q", claims.Issuer)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != StorageTokenAudience {
		t.Fatalf("audience: got %v", claims.Audience)
	}
	if claims.Role != StorageTokenRole {
		t.Fatalf("role: got %q", claims.Role)
	}
	if claims.Email != "a@b.com" || claims.PrimaryID != "local|abc" || claims.RecordID != "u1" {
		t.Fatalf("caller-identity claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("jti must be set")
	}

	gotTTL := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if gotTTL != 30*time.Minute {
		t.Fatalf("expiry: got %v want %v", gotTTL, 30*time.Minute)
	}
}

func TestIssue_UnauthorizedSkipsLookup(t *testing.T) {
	// A nil repository would panic on any lookup, proving the failure is
	// side-effect free.
	svc := NewStorageTokenService(nil, &fakeRepoManager{}, testConfig(t))

	_, err := svc.Issue(context.Background(), nil)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected common.ErrorUnauthorized, got %v", err)
	}
}

func TestIssue_UserNotProvisioned(t *testing.T) {
	svc := NewStorageTokenService(nil, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}}, testConfig(t))

	_, err := svc.Issue(context.Background(), &Identity{PrimaryID: "local|ghost"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestIssue_MissingSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageSecret = ""
	svc := NewStorageTokenService(nil, &fakeRepoManager{u: &fakeUsersRepo{}}, cfg)

	_, err := svc.Issue(context.Background(), &Identity{PrimaryID: "local|abc"})
	if !errors.Is(err, common.ErrorConfiguration) {
		t.Fatalf("expected common.ErrorConfiguration, got %v", err)
	}
}
