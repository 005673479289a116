package render

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leonardcser/blog-web/internal/store"
)

// Markdown converts an article to a Markdown document headed by its title.
// When conversion fails the plain text of the content is used instead.
func Markdown(a *store.Article) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(a.Title)
	sb.WriteString("\n\n")
	if tags := a.TagList(); len(tags) > 0 {
		sb.WriteString("Tags: ")
		sb.WriteString(strings.Join(tags, ", "))
		sb.WriteString("\n\n")
	}
	body, err := htmltomarkdown.ConvertString(a.Content)
	if err != nil {
		body = Excerpt(a.Content, 0)
	}
	sb.WriteString(strings.TrimSpace(body))
	sb.WriteString("\n")
	return sb.String()
}
