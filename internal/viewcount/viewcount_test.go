package viewcount

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/blog-web/internal/cache"
	"github.com/leonardcser/blog-web/internal/store"
)

type fakeArticles struct {
	articles   map[string]*store.Article
	lookups    int
	increments map[int64]int
	incErr     error
}

func newFakeArticles(slugs ...string) *fakeArticles {
	f := &fakeArticles{articles: map[string]*store.Article{}, increments: map[int64]int{}}
	for i, s := range slugs {
		f.articles[s] = &store.Article{ID: int64(i + 1), Slug: s}
	}
	return f
}

func (f *fakeArticles) ArticleBySlug(_ context.Context, slug string) (*store.Article, error) {
	f.lookups++
	a, ok := f.articles[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (f *fakeArticles) IncrementViewTimes(_ context.Context, id int64) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increments[id]++
	return nil
}

type recordingKV struct {
	*cache.Store
	puts []time.Duration
}

func (r *recordingKV) Put(key string, value []byte, ttl time.Duration) error {
	r.puts = append(r.puts, ttl)
	return r.Store.Put(key, value, ttl)
}

func openKV(t *testing.T) *recordingKV {
	t.Helper()
	s, err := cache.Open(filepath.Join(t.TempDir(), "views.bbolt"), cache.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return &recordingKV{Store: s}
}

func TestRecordCountsOncePerIP(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t)
	arts := newFakeArticles("hello")
	c := New(kv, arts, 0)

	counted, err := c.Record(ctx, "hello", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = c.Record(ctx, "hello", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, counted)

	counted, err = c.Record(ctx, "hello", "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, counted)

	assert.Equal(t, 2, arts.increments[1])
	assert.Equal(t, 2, arts.lookups, "repeat visitors never reach the store")
	assert.Equal(t, []time.Duration{900 * time.Second, 900 * time.Second}, kv.puts)

	raw, err := kv.Get("hello")
	require.NoError(t, err)
	assert.JSONEq(t, `["10.0.0.1","10.0.0.2"]`, string(raw))
}

func TestRecordMissingArticle(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t)
	c := New(kv, newFakeArticles(), time.Minute)

	counted, err := c.Record(ctx, "ghost", "10.0.0.1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, counted)

	raw, err := kv.Get("ghost")
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(raw))
}

func TestRecordIncrementFailureDoesNotRememberIP(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t)
	arts := newFakeArticles("hello")
	arts.incErr = errors.New("disk full")
	c := New(kv, arts, time.Minute)

	_, err := c.Record(ctx, "hello", "10.0.0.1")
	require.Error(t, err)

	arts.incErr = nil
	counted, err := c.Record(ctx, "hello", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, counted)
}

func TestRecordIgnoresMalformedEntry(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t)
	require.NoError(t, kv.Store.Put("hello", []byte("not json"), time.Minute))
	arts := newFakeArticles("hello")

	counted, err := New(kv, arts, time.Minute).Record(ctx, "hello", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, counted)
}

func TestRecordAfterExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	s, err := cache.Open(filepath.Join(t.TempDir(), "views.bbolt"), cache.Options{Now: func() time.Time { return now }})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	arts := newFakeArticles("hello")
	c := New(s, arts, DefaultWindow)

	_, err = c.Record(ctx, "hello", "1.1.1.1")
	require.NoError(t, err)
	now = now.Add(DefaultWindow)
	counted, err := c.Record(ctx, "hello", "1.1.1.1")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 2, arts.increments[1])
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		remote string
		want   string
	}{
		{name: "remote addr", remote: "192.0.2.7:51234", want: "192.0.2.7"},
		{name: "ipv6 remote", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "forwarded", xff: "203.0.113.9", remote: "10.0.0.1:80", want: "203.0.113.9"},
		{name: "forwarded chain", xff: " 203.0.113.9 , 10.1.1.1", remote: "10.0.0.1:80", want: "203.0.113.9"},
		{name: "no port", remote: "192.0.2.7", want: "192.0.2.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/article/x", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
