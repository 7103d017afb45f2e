package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/repository"
)

func newAuthServiceForTest(t *testing.T) (*serviceTestEnv, *UserAuthService) {
	t.Helper()
	env := setupServiceTest(t)
	svc := NewUserAuthService(env.cfg, repository.NewUserRepository(env.db), NewCaptchaService(config.CaptchaConfig{}), nil)
	return env, svc
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	_, svc := newAuthServiceForTest(t)
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, RegisterInput{Email: " Priya@Example.com ", Password: "secret123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "priya@example.com" || user.RoleType != constants.RoleCustomer {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.FullName == "" {
		t.Fatalf("full name should fall back to email local part")
	}

	authed, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if authed.UserID != user.ID || authed.RoleType != constants.RoleCustomer {
		t.Fatalf("unexpected identity %+v", authed)
	}

	if _, _, _, err := svc.Register(ctx, RegisterInput{Email: "priya@example.com", Password: "secret123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "priya@example.com", "wrong-pass1", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "secret123", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "PRIYA@example.com", "secret123", true); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestLogoutRevokesIssuedTokens(t *testing.T) {
	_, svc := newAuthServiceForTest(t)
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, RegisterInput{Email: "logout@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	_, svc := newAuthServiceForTest(t)
	_, _, _, err := svc.Register(context.Background(), RegisterInput{Email: "weak@example.com", Password: "short"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, _, _, err := svc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "secret123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	env, svc := newAuthServiceForTest(t)
	user := env.createUser(t, "role@example.com")
	ctx := context.Background()

	if _, err := svc.UpdateUserRole(ctx, user.ID, "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	updated, err := svc.UpdateUserRole(ctx, user.ID, "Support")
	if err != nil {
		t.Fatalf("update role failed: %v", err)
	}
	if updated.RoleType != constants.RoleSupport {
		t.Fatalf("expected support role, got %s", updated.RoleType)
	}
}

func TestUpdateProfile(t *testing.T) {
	env, svc := newAuthServiceForTest(t)
	user := env.createUser(t, "profile@example.com")

	if _, err := svc.UpdateProfile(user.ID, nil, nil); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty, got %v", err)
	}
	name := "<b>Meera</b> Iyer"
	updated, err := svc.UpdateProfile(user.ID, &name, nil)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.FullName != "Meera Iyer" {
		t.Fatalf("expected sanitised name, got %q", updated.FullName)
	}
}

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireNumber: true, RequireSpecial: true}
	cases := []struct {
		password string
		key      string
	}{
		{"Ab1!", "error.password_min_length"},
		{"abcdefg1!", "error.password_require_upper"},
		{"Abcdefgh!", "error.password_require_number"},
		{"Abcdefgh1", "error.password_require_special"},
		{"Abcdefg1!", ""},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.key == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.password, err)
			}
			continue
		}
		var policyErr passwordPolicyError
		if !errors.As(err, &policyErr) || policyErr.Key() != tc.key || !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("%s: want %s got %v", tc.password, tc.key, err)
		}
	}
}

func TestCaptchaVerify(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Register: true, Length: 4})
	if !svc.RequiredForRegister() {
		t.Fatalf("register captcha should be required")
	}
	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("unexpected challenge %+v", challenge)
	}
	if err := svc.Verify(challenge.CaptchaID, ""); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}
	answer := svc.imageStore().Get(challenge.CaptchaID, false)
	if err := svc.Verify(challenge.CaptchaID, answer+"x"); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected ErrCaptchaInvalid, got %v", err)
	}

	again, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	answer = svc.imageStore().Get(again.CaptchaID, false)
	if err := svc.Verify(again.CaptchaID, answer); err != nil {
		t.Fatalf("correct answer rejected: %v", err)
	}
	if err := svc.Verify(again.CaptchaID, answer); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("captcha must be single use, got %v", err)
	}
}
