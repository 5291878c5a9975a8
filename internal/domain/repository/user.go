package repository

import (
	"context"
	"time"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	// Register creates user and queues its verification email atomically.
	Register(ctx context.Context, user *model.User, verification model.EmailMessage) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	SetOTP(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error
	// RecordOTPFailure counts a wrong code and clears the OTP once
	// model.MaxOTPAttempts is reached.
	RecordOTPFailure(ctx context.Context, id int64) error
	MarkVerified(ctx context.Context, id int64) error
}
