package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
)

// ConfirmationSigner issues single-use order confirmation tokens. A token
// encodes order id, a random nonce and its expiry, signed with HMAC-SHA256.
// Single use is enforced by the caller storing and clearing Digest(token).
type ConfirmationSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewConfirmationSigner builds a signer; TTL defaults to 72 hours.
func NewConfirmationSigner(secret string, opts Options) *ConfirmationSigner {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &ConfirmationSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token for orderID together with its digest and expiry.
func (s *ConfirmationSigner) Issue(orderID string) (token, digest string, expiresAt time.Time, err error) {
	if orderID == "" || strings.Contains(orderID, ":") {
		return "", "", time.Time{}, fmt.Errorf("invalid order id %q", orderID)
	}
	expiresAt = s.now().Add(s.ttl).Truncate(time.Second)
	payload := fmt.Sprintf("%s:%s:%d", orderID, uuid.NewString(), expiresAt.Unix())
	raw := payload + ":" + s.sign(payload)
	token = base64.RawURLEncoding.EncodeToString([]byte(raw))
	return token, Digest(token), expiresAt, nil
}

// Verify checks signature, expiry and order binding and returns the digest
// to compare against the stored one.
func (s *ConfirmationSigner) Verify(orderID, token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", domainErrors.ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 {
		return "", domainErrors.ErrInvalidToken
	}

	payload := strings.Join(parts[:3], ":")
	if !hmac.Equal([]byte(s.sign(payload)), []byte(parts[3])) {
		return "", domainErrors.ErrInvalidToken
	}

	if parts[0] != orderID {
		return "", domainErrors.ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", domainErrors.ErrInvalidToken
	}
	if time.Unix(expires, 0).Before(s.now()) {
		return "", domainErrors.ErrInvalidToken
	}

	return Digest(strings.TrimSpace(token)), nil
}

// Digest is the stored fingerprint of a token.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *ConfirmationSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
