package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

const userColumns = `id, name, email, phone, password_hash, role, email_verified, otp_hash, otp_expires_at, otp_attempts, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.EmailVerified, &u.OTPHash, &u.OTPExpiresAt,
		&u.OTPAttempts, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func insertUser(ctx context.Context, q querier, user *model.User) (*model.User, error) {
	const query = `INSERT INTO users (name, email, phone, password_hash, role, email_verified, otp_hash, otp_expires_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	created := *user
	err := q.QueryRow(ctx, query,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.EmailVerified, user.OTPHash, user.OTPExpiresAt,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	return insertUser(ctx, r.storage.pool, user)
}

// Register inserts the account and its verification email in one transaction.
func (r *userRepository) Register(ctx context.Context, user *model.User, verification model.EmailMessage) (*model.User, error) {
	var created *model.User
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		if created, err = insertUser(ctx, tx, user); err != nil {
			return err
		}
		return enqueueEmail(ctx, tx, verification)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	u, err := scanUser(r.storage.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	u, err := scanUser(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) SetOTP(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error {
	const query = `UPDATE users SET otp_hash=$1, otp_expires_at=$2, otp_attempts=0 WHERE id=$3`
	tag, err := r.storage.pool.Exec(ctx, query, otpHash, expiresAt, id)
	if err != nil {
		return fmt.Errorf("set otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) RecordOTPFailure(ctx context.Context, id int64) error {
	const query = `UPDATE users
                   SET otp_attempts = otp_attempts + 1,
                       otp_hash = CASE WHEN otp_attempts + 1 >= $1 THEN '' ELSE otp_hash END,
                       otp_expires_at = CASE WHEN otp_attempts + 1 >= $1 THEN NULL ELSE otp_expires_at END
                   WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, model.MaxOTPAttempts, id)
	if err != nil {
		return fmt.Errorf("record otp failure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) MarkVerified(ctx context.Context, id int64) error {
	const query = `UPDATE users SET email_verified=TRUE, otp_hash='', otp_expires_at=NULL, otp_attempts=0 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
