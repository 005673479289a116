// Package render owns the blog's HTML templates. Every page is the shared
// layout plus one file under templates/pages defining "content" (and
// optionally "title").
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/leonardcser/blog-web/internal/store"
)

//go:embed templates
var files embed.FS

type Renderer struct {
	common *template.Template
	pages  map[string]*template.Template
}

// New parses the embedded template set.
func New() (*Renderer, error) {
	return Load(files)
}

// Load parses a template tree laid out like the embedded one.
func Load(fsys fs.FS) (*Renderer, error) {
	common, err := template.New("").Funcs(Funcs()).ParseFS(fsys, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	names, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{common: common, pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		t, err := template.Must(common.Clone()).ParseFS(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return r, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Page renders a full page. Output is buffered so a failing template
// never leaves a half-written response.
func (r *Renderer) Page(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("render: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Partial renders a shared fragment such as "all_post" to a string.
func (r *Renderer) Partial(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.common.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":    func(t time.Time) string { return t.Format("2006-01-02") },
		"tags":    func(a *store.Article) []string { return a.TagList() },
		"excerpt": Excerpt,
		"safe":    func(s string) template.HTML { return template.HTML(s) },
		"post":    func(a *store.Article) map[string]any { return map[string]any{"Post": a} },
		"add":     func(a, b int) int { return a + b },
		"mul":     func(a, b int) int { return a * b },
		"weeks":   func() []string { return []string{"This week", "Last week", "Two weeks ago", "Three weeks ago"} },
	}
}

// Excerpt returns the visible text of an HTML fragment, whitespace
// collapsed and cut to at most n runes.
func Excerpt(html string, n int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}
