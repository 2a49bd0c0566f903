package reqctx

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Session identifies the front-desk user behind a request. The BFF holds no
// credentials of its own; the upstream token is forwarded as received.
type Session struct {
	// Token is the upstream API token, without the "Token " scheme.
	Token string

	// Key is a stable, non-reversible id for the token, used to key
	// per-session state such as the scheduler view.
	Key string
}

// NewSession derives the session key from token.
func NewSession(token string) *Session {
	sum := sha256.Sum256([]byte(token))
	return &Session{Token: token, Key: hex.EncodeToString(sum[:16])}
}

// WithSession stores the session in the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, keySession, s)
}

// SessionFromContext returns nil, false for anonymous requests.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(keySession).(*Session)
	return s, ok && s != nil
}

// TokenFromContext returns the upstream token or "".
func TokenFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.Token
	}
	return ""
}
