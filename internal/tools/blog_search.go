package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/blog-web/internal/render"
	"github.com/leonardcser/blog-web/internal/store"
)

// Searcher finds published articles.
type Searcher interface {
	SearchArticles(ctx context.Context, q string, offset, limit int) ([]*store.Article, error)
}

// BlogSearchHandler returns the MCP tool handler for the "blog-search" tool.
func BlogSearchHandler(s Searcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := req.GetInt("limit", 10)
		if limit <= 0 || limit > 50 {
			limit = 10
		}
		articles, err := s.SearchArticles(ctx, strings.TrimSpace(q), 0, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatSearchResults(articles)), nil
	}
}

// formatSearchResults renders an ordered list with the slug on its own line.
func formatSearchResults(articles []*store.Article) string {
	if len(articles) == 0 {
		return "No results."
	}
	var sb strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. %s\n   slug: %s", i+1, a.Title, a.Slug)
		summary := a.Summary
		if summary == "" {
			summary = render.Excerpt(a.Content, 200)
		}
		if summary != "" {
			sb.WriteString("\n   ")
			sb.WriteString(summary)
		}
		if i < len(articles)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
