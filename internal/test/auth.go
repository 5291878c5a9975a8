package test

import (
	"fmt"

	"github.com/polkiloo/solarstore/internal/domain/model"
	pkgAuth "github.com/polkiloo/solarstore/internal/pkg/auth"
)

const hashPrefix = "hash:"

// HasherStub hashes by prefixing, so stored hashes stay readable in assertions.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

func (h HasherStub) Hash(secret string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(secret)
	}
	return hashPrefix + secret, nil
}

func (h HasherStub) Compare(hash, secret string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, secret)
	}
	if hash != hashPrefix+secret {
		return pkgAuth.ErrPasswordMismatch
	}
	return nil
}

// StrategyStub issues "token-<id>-<role>" session tokens and parses them back
// unless overridden.
type StrategyStub struct {
	IssueFn func(model.Identity) (string, error)
	ParseFn func(string) (model.Identity, error)
}

func (s StrategyStub) IssueToken(identity model.Identity) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(identity)
	}
	return SessionToken(identity), nil
}

func (s StrategyStub) ParseToken(token string) (model.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	var (
		id   int64
		role string
	)
	if _, err := fmt.Sscanf(token, "token-%d-%s", &id, &role); err != nil {
		return model.Identity{}, pkgAuth.ErrInvalidToken
	}
	return model.Identity{UserID: id, Role: model.Role(role)}, nil
}

func (s StrategyStub) Name() string { return "stub" }

// SessionToken renders the token StrategyStub issues for identity.
func SessionToken(identity model.Identity) string {
	return fmt.Sprintf("token-%d-%s", identity.UserID, identity.Role)
}

// TokenParserStub resolves every bearer token to a fixed identity or error.
type TokenParserStub struct {
	Identity model.Identity
	Err      error
}

func (s TokenParserStub) ParseToken(string) (model.Identity, error) {
	if s.Err != nil {
		return model.Identity{}, s.Err
	}
	return s.Identity, nil
}

var (
	_ pkgAuth.PasswordHasher = HasherStub{}
	_ pkgAuth.Strategy       = StrategyStub{}
)
