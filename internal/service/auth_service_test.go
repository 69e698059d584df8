package service

import (
	"context"
	"errors"
	"testing"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/models"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockAdminRepo, *mockDeactivator) {
	t.Helper()
	cfg := &config.Config{
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
	repo := newMockAdminRepo()
	deactivator := &mockDeactivator{}
	svc := NewAuthService(cfg, repo, NewTokenService(testSecret), deactivator)
	if _, err := svc.InitDefaultAdmin(context.Background(), "owner", "Secret123"); err != nil {
		t.Fatalf("init default admin failed: %v", err)
	}
	return svc, repo, deactivator
}

func TestLoginSuccessIssuesVerifiableToken(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	admin, token, _, err := svc.Login(context.Background(), " owner ", "Secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := svc.tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify login token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "owner" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	stored, _ := repo.GetByID(context.Background(), admin.ID)
	if stored.LastLoginAt == nil {
		t.Fatalf("last login time should be recorded")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct{ username, password string }{
		{"owner", "wrong"},
		{"nobody", "Secret123"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, _, _, err := svc.Login(ctx, tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("login %q want ErrInvalidCredentials got %v", tc.username, err)
		}
	}
}

func TestLoginSurvivesLastLoginUpdateFailure(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	repo.updateErr = errStoreDown
	if _, _, _, err := svc.Login(context.Background(), "owner", "Secret123"); err != nil {
		t.Fatalf("login should not fail on last login update: %v", err)
	}
}

func TestChangeCredentialsReissuesTokenAndDeactivates(t *testing.T) {
	svc, _, deactivator := newTestAuthService(t)
	ctx := context.Background()
	admin, _, _, err := svc.Login(ctx, "owner", "Secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	updated, token, _, err := svc.ChangeCredentials(ctx, admin.ID, ChangeCredentialsInput{
		CurrentPassword: "Secret123",
		NewUsername:     "curator",
		NewPassword:     "Another456",
	})
	if err != nil {
		t.Fatalf("change credentials failed: %v", err)
	}
	if updated.Username != "curator" {
		t.Fatalf("username want curator got %s", updated.Username)
	}
	claims, err := svc.tokens.Verify(token)
	if err != nil || claims.Username != "curator" {
		t.Fatalf("reissued token should carry new username: %+v %v", claims, err)
	}
	if deactivator.calls != 1 {
		t.Fatalf("credential change should deactivate construction once, got %d", deactivator.calls)
	}
	if _, _, _, err := svc.Login(ctx, "curator", "Another456"); err != nil {
		t.Fatalf("login with new credentials failed: %v", err)
	}
}

func TestChangeCredentialsValidation(t *testing.T) {
	svc, repo, deactivator := newTestAuthService(t)
	ctx := context.Background()
	if err := repo.Create(ctx, &models.Admin{Username: "taken", PasswordHash: "x"}); err != nil {
		t.Fatalf("create second admin failed: %v", err)
	}

	cases := []struct {
		name  string
		input ChangeCredentialsInput
		want  error
	}{
		{"wrong_current", ChangeCredentialsInput{CurrentPassword: "nope", NewPassword: "Another456"}, ErrInvalidPassword},
		{"nothing_to_change", ChangeCredentialsInput{CurrentPassword: "Secret123"}, ErrValidation},
		{"weak_password", ChangeCredentialsInput{CurrentPassword: "Secret123", NewPassword: "short"}, ErrWeakPassword},
		{"invalid_username", ChangeCredentialsInput{CurrentPassword: "Secret123", NewUsername: "a b"}, ErrUsernameInvalid},
		{"taken_username", ChangeCredentialsInput{CurrentPassword: "Secret123", NewUsername: "taken"}, ErrUsernameTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, _, err := svc.ChangeCredentials(ctx, 1, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
		})
	}
	if _, _, _, err := svc.ChangeCredentials(ctx, 99, ChangeCredentialsInput{CurrentPassword: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown admin want ErrNotFound got %v", err)
	}
	if _, _, _, err := svc.ChangeCredentials(ctx, 0, ChangeCredentialsInput{CurrentPassword: "Secret123"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("missing admin id want ErrUnauthenticated got %v", err)
	}
	if deactivator.calls != 0 {
		t.Fatalf("failed changes must not deactivate construction")
	}
}

func TestInitDefaultAdminOnlyOnce(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	created, err := svc.InitDefaultAdmin(context.Background(), "second", "Secret123")
	if err != nil {
		t.Fatalf("init default admin failed: %v", err)
	}
	if created {
		t.Fatalf("default admin should not be created when one exists")
	}
	if count, _ := repo.Count(context.Background()); count != 1 {
		t.Fatalf("admin count want 1 got %d", count)
	}
}

func TestPasswordPolicyErrorKeys(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireNumber: true}
	err := validatePassword(policy, "lowercase1", "")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword got %v", err)
	}
	var keyed interface{ Key() string }
	if !errors.As(err, &keyed) || keyed.Key() != "error.password_require_upper" {
		t.Fatalf("unexpected policy error: %v", err)
	}
	if err := validatePassword(config.PasswordPolicyConfig{}, "x", ""); err != nil {
		t.Fatalf("empty policy should accept any password: %v", err)
	}
	err = validatePassword(config.PasswordPolicyConfig{MinLength: 12}, "short", "")
	if !errors.As(err, &keyed) || keyed.Key() != "error.password_min_length" {
		t.Fatalf("want min length error got %v", err)
	}
	err = validatePassword(config.PasswordPolicyConfig{}, "MyOwner2024!", " owner ")
	if !errors.Is(err, ErrWeakPassword) || !errors.As(err, &keyed) || keyed.Key() != "error.password_contains_username" {
		t.Fatalf("password containing username should be rejected, got %v", err)
	}
}
