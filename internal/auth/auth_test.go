package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/blog-web/internal/store/storetest"
)

func TestSessionAuth(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	uid, err := s.CreateUser(ctx, "bob", "")
	require.NoError(t, err)
	require.NoError(t, s.CreateSession(ctx, "good", uid, time.Hour))

	a := NewSessionAuth(s)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := a.User(r)
	assert.False(t, ok, "no cookie")

	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bad"})
	_, ok = a.User(r)
	assert.False(t, ok, "unknown token")

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	u, ok := a.User(r)
	require.True(t, ok)
	assert.Equal(t, "bob", u.Username)

	_, ok = Anonymous{}.User(r)
	assert.False(t, ok)
}
