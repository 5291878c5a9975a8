package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
	"github.com/polkiloo/solarstore/internal/domain/repository"
	pkgAuth "github.com/polkiloo/solarstore/internal/pkg/auth"
)

const minPasswordLength = 6

// RegisterInput is the self-service sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	outbox repository.OutboxRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	otpTTL time.Duration
	now    func() time.Time
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, outbox repository.OutboxRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, otpTTL time.Duration) *AuthUseCase {
	if otpTTL <= 0 {
		otpTTL = 15 * time.Minute
	}
	return &AuthUseCase{users: users, outbox: outbox, hasher: hasher, tokens: strategy, otpTTL: otpTTL, now: time.Now}
}

// Register creates an unverified customer and emails a verification code.
func (u *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	var missing []string
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if !ValidEmail(in.Email) {
		missing = append(missing, "email")
	}
	if len(in.Password) < minPasswordLength || len(in.Password) > pkgAuth.MaxPasswordBytes {
		missing = append(missing, "password")
	}
	if err := domainErrors.NewValidationError(missing...); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	otp, otpHash, expires, err := u.newOTP()
	if err != nil {
		return nil, err
	}

	pending := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
		OTPHash:      otpHash,
		OTPExpiresAt: &expires,
	}
	usr, err := u.users.Register(ctx, pending, verificationEmail(pending, otp))
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return usr, nil
}

// VerifyEmail checks the one-time code of an unverified account and signs the
// user in. Verified accounts sign in with their password only.
func (u *AuthUseCase) VerifyEmail(ctx context.Context, email, otp string) (*model.User, string, error) {
	usr, err := u.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidOTP
		}
		return nil, "", err
	}

	if usr.EmailVerified || usr.OTPHash == "" || usr.OTPExpiresAt == nil || u.now().After(*usr.OTPExpiresAt) {
		return nil, "", domainErrors.ErrInvalidOTP
	}
	if usr.OTPAttempts >= model.MaxOTPAttempts {
		return nil, "", domainErrors.ErrInvalidOTP
	}
	if err := u.hasher.Compare(usr.OTPHash, strings.TrimSpace(otp)); err != nil {
		if err := u.users.RecordOTPFailure(ctx, usr.ID); err != nil {
			return nil, "", err
		}
		return nil, "", domainErrors.ErrInvalidOTP
	}
	if err := u.users.MarkVerified(ctx, usr.ID); err != nil {
		return nil, "", err
	}
	usr.EmailVerified = true
	usr.OTPHash = ""
	usr.OTPExpiresAt = nil
	usr.OTPAttempts = 0

	token, err := u.tokens.IssueToken(model.Identity{UserID: usr.ID, Role: usr.Role})
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ResendOTP issues a fresh verification code. Verified accounts are left alone.
func (u *AuthUseCase) ResendOTP(ctx context.Context, email string) error {
	usr, err := u.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if usr.EmailVerified {
		return nil
	}

	otp, otpHash, expires, err := u.newOTP()
	if err != nil {
		return err
	}
	if err := u.users.SetOTP(ctx, usr.ID, otpHash, expires); err != nil {
		return err
	}
	return u.outbox.Enqueue(ctx, verificationEmail(usr, otp))
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if !usr.EmailVerified {
		return nil, "", domainErrors.ErrEmailNotVerified
	}

	token, err := u.tokens.IssueToken(model.Identity{UserID: usr.ID, Role: usr.Role})
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken resolves the caller identity from a session token.
func (u *AuthUseCase) ParseToken(token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// EnsureAdmin creates a verified admin account unless the email is taken.
// An empty email disables bootstrap.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return nil
	}
	if len(password) < minPasswordLength || len(password) > pkgAuth.MaxPasswordBytes {
		return domainErrors.NewValidationError("adminPassword")
	}

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	_, err = u.users.Create(ctx, &model.User{
		Name:          "Administrator",
		Email:         email,
		PasswordHash:  hash,
		Role:          model.RoleAdmin,
		EmailVerified: true,
	})
	if errors.Is(err, domainErrors.ErrAlreadyExists) {
		return nil
	}
	return err
}

func (u *AuthUseCase) newOTP() (otp, hash string, expires time.Time, err error) {
	otp, err = pkgAuth.GenerateOTP()
	if err != nil {
		return "", "", time.Time{}, err
	}
	hash, err = u.hasher.Hash(otp)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return otp, hash, u.now().Add(u.otpTTL), nil
}

func verificationEmail(usr *model.User, otp string) model.EmailMessage {
	return model.EmailMessage{
		Recipient: usr.Email,
		Template:  model.TemplateVerifyEmail,
		Payload: map[string]string{
			"name": usr.Name,
			"otp":  otp,
		},
	}
}
