package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/kvizarena/api/config"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/model"
)

type fakeVerifier struct {
	claims *GoogleClaims
	err    error
}

func (v *fakeVerifier) Verify(idToken string) (*GoogleClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func authTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.AllowDevLogin = true
	return cfg
}

func TestGoogleLoginProvisionsNewUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	verifier := &fakeVerifier{claims: &GoogleClaims{Sub: "g-123", Email: "ada@example.com", Name: "Ada", Picture: "http://img"}}
	svc := NewAuthService(userRepo, verifier, authTestConfig())

	resp, err := svc.LoginWithGoogle("token")
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a signed token")
	}
	if resp.User.Name != "Ada" || resp.User.Email != "ada@example.com" {
		t.Errorf("user = %+v", resp.User)
	}
	if resp.User.IsAdmin {
		t.Error("google users must not be admins by default")
	}

	stored, err := userRepo.FindByExternalID("g-123")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.Provider != model.ProviderGoogle {
		t.Errorf("provider = %q", stored.Provider)
	}
}

func TestGoogleLoginRefreshesExistingProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	externalID := "g-123"
	existing := &model.User{Provider: model.ProviderGoogle, ExternalID: &externalID, Name: "Old Name"}
	if err := userRepo.Create(existing); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	verifier := &fakeVerifier{claims: &GoogleClaims{Sub: "g-123", Email: "new@example.com", Name: "New Name"}}
	svc := NewAuthService(userRepo, verifier, authTestConfig())

	resp, err := svc.LoginWithGoogle("token")
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}
	if resp.User.ID != existing.ID {
		t.Errorf("user id = %d, want existing %d", resp.User.ID, existing.ID)
	}
	if resp.User.Name != "New Name" {
		t.Errorf("name = %q, want refreshed", resp.User.Name)
	}
}

func TestGoogleLoginRejectsBadToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	verifier := &fakeVerifier{err: apperr.Unauthenticated("Invalid Google ID token")}
	svc := NewAuthService(userRepo, verifier, authTestConfig())

	_, err := svc.LoginWithGoogle("garbage")
	if apperr.KindOf(err) != apperr.KindUnauthenticated {
		t.Fatalf("err = %v, want unauthenticated", err)
	}
	if len(userRepo.users) != 0 {
		t.Error("failed verification must not create a user")
	}
}

func TestDevLoginDisabled(t *testing.T) {
	cfg := authTestConfig()
	cfg.Auth.AllowDevLogin = false
	svc := NewAuthService(newFakeUserRepo(), &fakeVerifier{err: errors.New("unused")}, cfg)

	_, err := svc.DevLogin("alice")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestDevLoginCreatesAdminAndReuses(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo, &fakeVerifier{err: errors.New("unused")}, authTestConfig())

	first, err := svc.DevLogin("alice")
	if err != nil {
		t.Fatalf("DevLogin: %v", err)
	}
	if !first.User.IsAdmin {
		t.Error("dev users should be admins")
	}

	second, err := svc.DevLogin("alice")
	if err != nil {
		t.Fatalf("DevLogin again: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Errorf("second login created a new user: %d vs %d", second.User.ID, first.User.ID)
	}

	// The issued token must parse with the configured secret and carry
	// the identity claims the middleware reads.
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(first.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("token parse: %v", err)
	}
	if uint(claims["user_id"].(float64)) != first.User.ID {
		t.Errorf("token user_id = %v", claims["user_id"])
	}
	if claims["is_admin"] != true {
		t.Errorf("token is_admin = %v", claims["is_admin"])
	}
}

func TestAnonymousLoginMintsFreshGuests(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo, &fakeVerifier{}, authTestConfig())

	first, err := svc.AnonymousLogin("  Kviz Fan  ")
	if err != nil {
		t.Fatalf("AnonymousLogin: %v", err)
	}
	if first.Token == "" {
		t.Error("expected a signed token")
	}
	if first.User.Name != "Kviz Fan" {
		t.Errorf("name = %q, want trimmed nickname", first.User.Name)
	}
	if first.User.IsAdmin {
		t.Error("guests must not be admins")
	}

	stored, err := userRepo.FindByID(first.User.ID)
	if err != nil {
		t.Fatalf("guest not persisted: %v", err)
	}
	if stored.Provider != model.ProviderAnonymous {
		t.Errorf("provider = %q, want %q", stored.Provider, model.ProviderAnonymous)
	}
	if stored.ExternalID != nil {
		t.Error("guests carry no external credential")
	}

	// The same nickname is a new identity every time.
	second, err := svc.AnonymousLogin("Kviz Fan")
	if err != nil {
		t.Fatalf("second AnonymousLogin: %v", err)
	}
	if second.User.ID == first.User.ID {
		t.Error("expected a fresh user per anonymous login")
	}
}

func TestAnonymousLoginRequiresNickname(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo, &fakeVerifier{}, authTestConfig())

	_, err := svc.AnonymousLogin("   ")
	if apperr.KindOf(err) != apperr.KindInvalid {
		t.Fatalf("err = %v, want invalid", err)
	}
	if len(userRepo.users) != 0 {
		t.Error("no user should be created for a blank nickname")
	}
}

func TestCurrentUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := &model.User{Provider: model.ProviderDev, Name: "alice", IsAdmin: true}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	svc := NewAuthService(userRepo, &fakeVerifier{}, authTestConfig())

	got, err := svc.CurrentUser(user.ID)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.Name != "alice" || !got.IsAdmin {
		t.Errorf("user = %+v", got)
	}

	if _, err := svc.CurrentUser(999); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("unknown user err = %v, want not-found", err)
	}
}
