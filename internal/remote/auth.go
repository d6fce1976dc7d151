package remote

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrAuth marks authentication failures (bad credentials, duplicate signup,
// expired token). Surfaced to the user; never changes session state.
var ErrAuth = errors.New("authentication failed")

// Session describes an established authenticated session.
type Session struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignupAttrs carries the extra attributes collected at signup; they seed the
// paired profile row.
type SignupAttrs struct {
	Name  string
	Phone string
}

// SessionListener is invoked with the new session on sign-in and nil on
// sign-out.
type SessionListener func(sess *Session)

// Auth is the authentication sub-capability of the remote store.
type Auth interface {
	SignIn(ctx context.Context, identifier, secret string) (*Session, error)
	SignUp(ctx context.Context, identifier, secret string, attrs SignupAttrs) (*Session, error)
	SignOut(ctx context.Context) error
	CurrentSession() *Session
	OnSessionChange(fn SessionListener)
}
