package auth

import (
	"time"

	"github.com/polkiloo/solarstore/internal/domain/model"
)

// Strategy issues and verifies session bearer tokens.
type Strategy interface {
	IssueToken(identity model.Identity) (string, error)
	ParseToken(token string) (model.Identity, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
