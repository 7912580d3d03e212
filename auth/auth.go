// Package auth defines the credential gate for the network transport. The
// runtime ships a single scheme: a process-wide static bearer token compared
// byte-for-byte against incoming credentials. The token lives exactly as
// long as the process and is never persisted or logged.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
)

// ErrUnauthorized indicates authentication failed or no valid credentials
// were supplied.
var ErrUnauthorized = errors.New("unauthorized")

// Authenticator validates bearer tokens. It returns ErrUnauthorized for
// invalid credentials.
type Authenticator interface {
	CheckAuthentication(ctx context.Context, tok string) error
}

type staticToken struct {
	secret []byte
}

// NewStaticToken builds an Authenticator that accepts exactly one secret.
// Comparison is constant-time.
func NewStaticToken(secret string) Authenticator {
	return &staticToken{secret: []byte(secret)}
}

func (a *staticToken) CheckAuthentication(ctx context.Context, tok string) error {
	if len(a.secret) == 0 {
		return errors.New("no bearer token configured")
	}
	if subtle.ConstantTimeCompare(a.secret, []byte(tok)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

var _ Authenticator = (*staticToken)(nil)
