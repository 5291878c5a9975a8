package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPLength is the number of digits in an email verification code.
const OTPLength = 6

var otpBound = big.NewInt(1_000_000)

// GenerateOTP returns a zero-padded random numeric code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpBound)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}
