package model

import "time"

// Role gates access to administrative endpoints.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User represents a storefront account.
type User struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	PasswordHash  string
	Role          Role
	EmailVerified bool
	OTPHash       string
	OTPExpiresAt  *time.Time
	OTPAttempts   int
	CreatedAt     time.Time
}

// MaxOTPAttempts is how many wrong codes burn the outstanding OTP.
const MaxOTPAttempts = 5

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
