// Package links checks that the blog's friendly links still resolve.
package links

import (
	"context"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/leonardcser/blog-web/internal/store"
)

// Result is the outcome of checking one link.
type Result struct {
	Link   *store.Link
	Status int
	Err    error
}

// OK reports whether the link answered with a 2xx or 3xx status.
func (r Result) OK() bool { return r.Err == nil && r.Status >= 200 && r.Status < 400 }

type Checker struct {
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Checker{timeout: timeout}
}

// Check visits every link in order. It stops early when ctx is done; the
// remaining links are reported with ctx's error.
func (c *Checker) Check(ctx context.Context, links []*store.Link) []Result {
	out := make([]Result, 0, len(links))
	for _, l := range links {
		if err := ctx.Err(); err != nil {
			out = append(out, Result{Link: l, Err: err})
			continue
		}
		res := c.visit(ctx, l, BotUserAgent)
		if res.Status == http.StatusForbidden || res.Status == http.StatusTooManyRequests {
			res = c.visit(ctx, l, nextBrowserAgent())
		}
		out = append(out, res)
	}
	return out
}

func (c *Checker) visit(ctx context.Context, l *store.Link, agent string) Result {
	col := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(agent),
		colly.StdlibContext(ctx),
	)
	col.SetRequestTimeout(c.timeout)
	col.ParseHTTPErrorResponse = true

	res := Result{Link: l}
	col.OnResponse(func(r *colly.Response) {
		res.Status = r.StatusCode
	})
	col.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			res.Status = r.StatusCode
		}
		if res.Status == 0 {
			res.Err = err
		}
	})
	if err := col.Visit(l.URL); err != nil && res.Status == 0 && res.Err == nil {
		res.Err = err
	}
	return res
}
