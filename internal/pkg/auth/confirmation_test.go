package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
)

const testOrderID = "0b6f7c1e-8f1a-4c53-9d8e-5a1f2b3c4d5e"

func TestConfirmationSignerIssueAndVerify(t *testing.T) {
	signer := NewConfirmationSigner("secret", Options{TTL: time.Hour})
	token, digest, expiresAt, err := signer.Issue(testOrderID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" || digest != Digest(token) {
		t.Fatalf("unexpected token/digest pair %q %q", token, digest)
	}
	if time.Until(expiresAt) <= 0 || time.Until(expiresAt) > time.Hour {
		t.Fatalf("unexpected expiry %s", expiresAt)
	}

	got, err := signer.Verify(testOrderID, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != digest {
		t.Fatalf("expected digest %q, got %q", digest, got)
	}
}

func TestConfirmationSignerTokensAreUnique(t *testing.T) {
	signer := NewConfirmationSigner("secret", Options{})
	first, _, _, _ := signer.Issue(testOrderID)
	second, _, _, _ := signer.Issue(testOrderID)
	if first == second {
		t.Fatal("expected distinct tokens for repeated issues")
	}
}

func TestConfirmationSignerRejects(t *testing.T) {
	signer := NewConfirmationSigner("secret", Options{})
	token, _, _, err := signer.Issue(testOrderID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	raw, _ := base64.RawURLEncoding.DecodeString(token)
	tampered := base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(raw), testOrderID, "other-order", 1)))

	expiredSigner := NewConfirmationSigner("secret", Options{})
	expiredSigner.now = func() time.Time { return time.Now().Add(-100 * time.Hour) }
	expired, _, _, _ := expiredSigner.Issue(testOrderID)

	foreign, _, _, _ := NewConfirmationSigner("other", Options{}).Issue(testOrderID)

	cases := []struct {
		name    string
		orderID string
		token   string
	}{
		{"other order", "another-id", token},
		{"tampered", "other-order", tampered},
		{"expired", testOrderID, expired},
		{"foreign secret", testOrderID, foreign},
		{"not base64", testOrderID, "%%%"},
		{"wrong shape", testOrderID, base64.RawURLEncoding.EncodeToString([]byte("a:b"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := signer.Verify(tc.orderID, tc.token); !errors.Is(err, domainErrors.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestConfirmationSignerRejectsBadOrderID(t *testing.T) {
	signer := NewConfirmationSigner("secret", Options{})
	if _, _, _, err := signer.Issue(""); err == nil {
		t.Fatal("expected error for empty order id")
	}
	if _, _, _, err := signer.Issue("a:b"); err == nil {
		t.Fatal("expected error for order id with separator")
	}
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(code) != OTPLength {
		t.Fatalf("expected %d digits, got %q", OTPLength, code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}
}
