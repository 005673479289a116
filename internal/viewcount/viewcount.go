// Package viewcount counts article views at most once per visitor IP within
// a sliding window. The visitor list for each article lives in the shared
// key/value cache under the article slug; the counter itself is persisted
// through the Articles store.
package viewcount

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/leonardcser/blog-web/internal/cache"
	"github.com/leonardcser/blog-web/internal/logger"
	"github.com/leonardcser/blog-web/internal/store"
)

// DefaultWindow is how long a visitor IP suppresses further counts.
const DefaultWindow = 15 * time.Minute

// Articles is the subset of the store the counter needs.
type Articles interface {
	ArticleBySlug(ctx context.Context, slug string) (*store.Article, error)
	IncrementViewTimes(ctx context.Context, articleID int64) error
}

type Counter struct {
	kv       cache.KV
	articles Articles
	window   time.Duration
}

func New(kv cache.KV, articles Articles, window time.Duration) *Counter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Counter{kv: kv, articles: articles, window: window}
}

// Record counts a view of slug from ip unless ip was already seen within
// the window. It reports whether the persisted counter was incremented.
// A missing article yields store.ErrNotFound.
func (c *Counter) Record(ctx context.Context, slug, ip string) (bool, error) {
	visited := c.visitors(slug)
	if slices.Contains(visited, ip) {
		return false, nil
	}

	var counted bool
	a, err := c.articles.ArticleBySlug(ctx, slug)
	if err == nil {
		err = c.articles.IncrementViewTimes(ctx, a.ID)
	}
	if err == nil {
		visited = append(visited, ip)
		counted = true
	}

	// The entry is rewritten even when the lookup failed, restarting its window.
	if b, merr := json.Marshal(visited); merr == nil {
		if perr := c.kv.Put(slug, b, c.window); perr != nil {
			logger.Warnf("[viewcount] refresh visitors of %s: %v", slug, perr)
		}
	}
	return counted, err
}

// visitors returns the IPs seen for slug; unreadable entries count as empty.
func (c *Counter) visitors(slug string) []string {
	b, err := c.kv.Get(slug)
	if err != nil {
		return nil
	}
	var ips []string
	if err := json.Unmarshal(b, &ips); err != nil {
		logger.Warnf("[viewcount] discarding malformed visitor list for %s: %v", slug, err)
		return nil
	}
	return ips
}

// ClientIP returns the first X-Forwarded-For hop when the header is set,
// otherwise the host part of the connection's remote address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
