package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/blog-web/internal/render"
	"github.com/leonardcser/blog-web/internal/store"
)

// ArticleGetter loads a single article by slug.
type ArticleGetter interface {
	ArticleBySlug(ctx context.Context, slug string) (*store.Article, error)
}

// BlogArticleHandler returns the MCP tool handler for the "blog-article" tool.
// Reads through this tool are not counted as views.
func BlogArticleHandler(g ArticleGetter) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		slug, err := req.RequireString("slug")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		a, err := g.ArticleBySlug(ctx, slug)
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError("no article with slug " + slug), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(render.Markdown(a)), nil
	}
}
