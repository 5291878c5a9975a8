package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	pkgAuth "github.com/polkiloo/solarstore/internal/pkg/auth"
	testhelpers "github.com/polkiloo/solarstore/internal/test"
)

func newAuth() (*AuthUseCase, *testhelpers.UserRepositoryStub, *testhelpers.OutboxRepositoryStub) {
	users := testhelpers.NewUserRepositoryStub()
	outbox := &testhelpers.OutboxRepositoryStub{}
	users.Outbox = outbox
	return NewAuthUseCase(users, outbox, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, time.Minute), users, outbox
}

func registerInput() RegisterInput {
	return RegisterInput{Name: " Asha ", Email: "Asha@Example.com", Password: "secret1", Phone: "9000000000"}
}

func TestAuthUseCaseRegisterQueuesVerification(t *testing.T) {
	uc, users, outbox := newAuth()

	usr, err := uc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usr.Email != "asha@example.com" || usr.Name != "Asha" {
		t.Fatalf("expected normalized user, got %+v", usr)
	}
	if usr.EmailVerified || usr.Role != model.RoleCustomer {
		t.Fatalf("expected unverified customer, got %+v", usr)
	}
	stored, _ := users.GetByEmail(context.Background(), "asha@example.com")
	if stored.PasswordHash != "hash:secret1" {
		t.Fatalf("expected password to be hashed, got %q", stored.PasswordHash)
	}

	msg, ok := outbox.Last(model.TemplateVerifyEmail)
	if !ok {
		t.Fatal("expected verification email")
	}
	if msg.Recipient != "asha@example.com" || len(msg.Payload["otp"]) != 6 {
		t.Fatalf("unexpected verification email %+v", msg)
	}
	if stored.OTPHash != "hash:"+msg.Payload["otp"] {
		t.Fatalf("expected otp hash to be stored")
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc, _, _ := newAuth()

	_, err := uc.Register(context.Background(), RegisterInput{Email: "bad", Password: "123"})
	var vErr *domainErrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(vErr.Fields) != 3 {
		t.Fatalf("expected name, email and password to be reported, got %v", vErr.Fields)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	uc, _, _ := newAuth()
	if _, err := uc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := uc.Register(context.Background(), registerInput()); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestAuthUseCaseVerifyEmail(t *testing.T) {
	uc, users, outbox := newAuth()
	ctx := context.Background()
	if _, err := uc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	msg, _ := outbox.Last(model.TemplateVerifyEmail)

	if _, _, err := uc.VerifyEmail(ctx, "asha@example.com", "000000x"); !errors.Is(err, domainErrors.ErrInvalidOTP) {
		t.Fatalf("expected invalid otp, got %v", err)
	}

	usr, token, err := uc.VerifyEmail(ctx, "ASHA@example.com", msg.Payload["otp"])
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !usr.EmailVerified || token == "" {
		t.Fatalf("expected verified user with token, got %+v %q", usr, token)
	}
	stored, _ := users.GetByEmail(ctx, "asha@example.com")
	if stored.OTPHash != "" {
		t.Fatal("expected otp to be cleared")
	}

	if _, token, err := uc.VerifyEmail(ctx, "asha@example.com", "anything"); !errors.Is(err, domainErrors.ErrInvalidOTP) || token != "" {
		t.Fatalf("verified account must not sign in through verification, got token %q err=%v", token, err)
	}
	if _, token, err := uc.VerifyEmail(ctx, "asha@example.com", msg.Payload["otp"]); !errors.Is(err, domainErrors.ErrInvalidOTP) || token != "" {
		t.Fatalf("used code must not sign in again, got token %q err=%v", token, err)
	}
}

func TestAuthUseCaseVerifyEmailRejectsAdmin(t *testing.T) {
	uc, _, _ := newAuth()
	ctx := context.Background()
	if err := uc.EnsureAdmin(ctx, "admin@solar.test", "admin-pass"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	for _, otp := range []string{"", "000000", "not-the-otp"} {
		if _, token, err := uc.VerifyEmail(ctx, "admin@solar.test", otp); !errors.Is(err, domainErrors.ErrInvalidOTP) || token != "" {
			t.Fatalf("otp %q: expected rejection, got token %q err=%v", otp, token, err)
		}
	}
}

func TestAuthUseCaseVerifyEmailAttemptLimit(t *testing.T) {
	uc, users, outbox := newAuth()
	ctx := context.Background()
	if _, err := uc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	msg, _ := outbox.Last(model.TemplateVerifyEmail)

	for i := 0; i < model.MaxOTPAttempts; i++ {
		if _, _, err := uc.VerifyEmail(ctx, "asha@example.com", "wrong"); !errors.Is(err, domainErrors.ErrInvalidOTP) {
			t.Fatalf("attempt %d: expected invalid otp, got %v", i+1, err)
		}
	}
	stored, _ := users.GetByEmail(ctx, "asha@example.com")
	if stored.OTPHash != "" || stored.OTPAttempts != model.MaxOTPAttempts {
		t.Fatalf("expected code to be burnt, got %+v", stored)
	}
	if _, _, err := uc.VerifyEmail(ctx, "asha@example.com", msg.Payload["otp"]); !errors.Is(err, domainErrors.ErrInvalidOTP) {
		t.Fatalf("expected burnt code to be rejected, got %v", err)
	}

	if err := uc.ResendOTP(ctx, "asha@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	fresh, _ := outbox.Last(model.TemplateVerifyEmail)
	if _, token, err := uc.VerifyEmail(ctx, "asha@example.com", fresh.Payload["otp"]); err != nil || token == "" {
		t.Fatalf("expected fresh code to verify, got token %q err=%v", token, err)
	}
}

func TestAuthUseCaseRegisterRollsBackWithoutEmail(t *testing.T) {
	uc, users, outbox := newAuth()
	ctx := context.Background()
	outbox.Err = errors.New("outbox down")

	if _, err := uc.Register(ctx, registerInput()); err == nil {
		t.Fatal("expected registration to fail")
	}
	if _, err := users.GetByEmail(ctx, "asha@example.com"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected no account without verification email, got %v", err)
	}

	outbox.Err = nil
	if _, err := uc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestAuthUseCaseVerifyEmailExpired(t *testing.T) {
	uc, _, outbox := newAuth()
	ctx := context.Background()
	if _, err := uc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	msg, _ := outbox.Last(model.TemplateVerifyEmail)

	uc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, _, err := uc.VerifyEmail(ctx, "asha@example.com", msg.Payload["otp"]); !errors.Is(err, domainErrors.ErrInvalidOTP) {
		t.Fatalf("expected expired otp, got %v", err)
	}
	if _, _, err := uc.VerifyEmail(ctx, "nobody@example.com", "123456"); !errors.Is(err, domainErrors.ErrInvalidOTP) {
		t.Fatalf("expected unknown email to be invalid otp, got %v", err)
	}
}

func TestAuthUseCaseResendOTP(t *testing.T) {
	uc, users, outbox := newAuth()
	ctx := context.Background()
	if _, err := uc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := uc.ResendOTP(ctx, "asha@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if len(outbox.Messages) != 2 {
		t.Fatalf("expected two verification emails, got %d", len(outbox.Messages))
	}
	latest, _ := outbox.Last(model.TemplateVerifyEmail)
	stored, _ := users.GetByEmail(ctx, "asha@example.com")
	if stored.OTPHash != "hash:"+latest.Payload["otp"] {
		t.Fatal("expected the latest code to replace the previous one")
	}

	verified := users.Add(model.User{Email: "done@example.com", EmailVerified: true})
	if err := uc.ResendOTP(ctx, verified.Email); err != nil {
		t.Fatalf("resend for verified: %v", err)
	}
	if len(outbox.Messages) != 2 {
		t.Fatal("expected no email for verified account")
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	uc, users, _ := newAuth()
	ctx := context.Background()
	users.Add(model.User{Email: "asha@example.com", PasswordHash: "hash:secret1", Role: model.RoleCustomer, EmailVerified: true})
	users.Add(model.User{Email: "new@example.com", PasswordHash: "hash:secret1", Role: model.RoleCustomer})

	usr, token, err := uc.Authenticate(ctx, " ASHA@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	identity, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if identity.UserID != usr.ID || identity.Role != model.RoleCustomer {
		t.Fatalf("unexpected identity %+v", identity)
	}

	cases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"wrong password", "asha@example.com", "nope", domainErrors.ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", "secret1", domainErrors.ErrInvalidCredentials},
		{"empty password", "asha@example.com", "", domainErrors.ErrInvalidCredentials},
		{"unverified", "new@example.com", "secret1", domainErrors.ErrEmailNotVerified},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := uc.Authenticate(ctx, tc.email, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthUseCaseParseTokenEmpty(t *testing.T) {
	uc, _, _ := newAuth()
	if _, err := uc.ParseToken(""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestAuthUseCaseEnsureAdmin(t *testing.T) {
	uc, users, _ := newAuth()
	ctx := context.Background()

	if err := uc.EnsureAdmin(ctx, "", ""); err != nil {
		t.Fatalf("empty email must disable bootstrap: %v", err)
	}
	if err := uc.EnsureAdmin(ctx, "admin@example.com", "123"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if err := uc.EnsureAdmin(ctx, "Admin@Example.com", "admin-pass"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := uc.EnsureAdmin(ctx, "admin@example.com", "other-pass"); err != nil {
		t.Fatalf("second ensure admin: %v", err)
	}

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("expected admin to exist: %v", err)
	}
	if admin.Role != model.RoleAdmin || admin.PasswordHash != "hash:admin-pass" {
		t.Fatalf("unexpected admin %+v", admin)
	}
}
