// Package auth adapts the session subsystem to the views: it only answers
// "who is making this request".
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/leonardcser/blog-web/internal/logger"
	"github.com/leonardcser/blog-web/internal/store"
)

// SessionCookie names the cookie holding the session token.
const SessionCookie = "sessionid"

// Authenticator resolves the user behind a request.
type Authenticator interface {
	User(r *http.Request) (*store.User, bool)
}

// Sessions looks session tokens up.
type Sessions interface {
	UserBySession(ctx context.Context, token string) (*store.User, error)
}

type SessionAuth struct {
	sessions Sessions
}

func NewSessionAuth(sessions Sessions) *SessionAuth {
	return &SessionAuth{sessions: sessions}
}

func (a *SessionAuth) User(r *http.Request) (*store.User, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}
	u, err := a.sessions.UserBySession(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Errorf("[auth] session lookup failed: %v", err)
		}
		return nil, false
	}
	return u, true
}

// Anonymous treats every request as logged out.
type Anonymous struct{}

func (Anonymous) User(*http.Request) (*store.User, bool) { return nil, false }
