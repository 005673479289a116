package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leonardcser/blog-web/internal/auth"
	"github.com/leonardcser/blog-web/internal/config"
	"github.com/leonardcser/blog-web/internal/links"
	"github.com/leonardcser/blog-web/internal/logger"
	"github.com/leonardcser/blog-web/internal/render"
	"github.com/leonardcser/blog-web/internal/store"
	"github.com/leonardcser/blog-web/internal/tools"
	"github.com/leonardcser/blog-web/internal/viewcount"
	"github.com/leonardcser/blog-web/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:          "blog-server",
		Short:        "Serve the blog",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to the YAML config (default $"+config.EnvConfig+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), cfgPath)
			},
		},
		&cobra.Command{
			Use:   "mcp",
			Short: "Expose blog search and articles as MCP tools on stdio",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMCP(cfgPath)
			},
		},
		&cobra.Command{
			Use:   "check-links",
			Short: "Report friendly links that no longer resolve",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCheckLinks(cmd, cfgPath)
			},
		},
		newInitDBCmd(&cfgPath),
	)
	return root
}

func newInitDBCmd(cfgPath *string) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create missing tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, st, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			if sample {
				if err := st.SeedSample(cmd.Context()); err != nil {
					return err
				}
			}
			logger.Infof("Database ready")
			return nil
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "insert sample content")
	return cmd
}

// setup loads config, starts logging and opens the database.
func setup(cfgPath string) (*config.Config, *store.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func runServe(parent context.Context, cfgPath string) error {
	cfg, st, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer logger.Close()
	defer st.Close()
	logger.Infof("Starting blog server")

	kv, err := connectOrStartCache(cfg, cfgPath)
	if err != nil {
		return err
	}
	logger.Infof("Successfully connected to cache daemon")

	tmpl, err := render.New()
	if err != nil {
		return err
	}
	views := web.NewServer(st, viewcount.New(kv, st, cfg.Cache.ViewWindow), tmpl,
		web.WithSite(cfg.WebsiteTitle, cfg.WebsiteWelcome),
		web.WithPageNum(cfg.PageNum),
		web.WithAuthenticator(auth.NewSessionAuth(st)),
	)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           views.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Listening on %s", cfg.Listen)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Infof("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runMCP(cfgPath string) error {
	_, st, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer logger.Close()
	defer st.Close()

	s := server.NewMCPServer(
		"Blog MCP",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	toolSearch := mcp.NewTool("blog-search",
		mcp.WithDescription("Searches published blog articles by title, summary and tags and returns title, slug and summary for each match"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10, at most 50)")),
	)
	s.AddTool(toolSearch, tools.BlogSearchHandler(st))
	logger.Infof("Registered blog-search tool")

	toolArticle := mcp.NewTool("blog-article",
		mcp.WithDescription("Returns a blog article as Markdown"),
		mcp.WithString("slug", mcp.Required(), mcp.Description("The article slug as it appears in /article/{slug}")),
	)
	s.AddTool(toolArticle, tools.BlogArticleHandler(st))
	logger.Infof("Registered blog-article tool")

	logger.Infof("Starting MCP server on stdio")
	return server.ServeStdio(s)
}

func runCheckLinks(cmd *cobra.Command, cfgPath string) error {
	_, st, err := setup(cfgPath)
	if err != nil {
		return err
	}
	defer logger.Close()
	defer st.Close()

	ls, err := st.Links(cmd.Context())
	if err != nil {
		return err
	}
	broken := 0
	for _, r := range links.NewChecker(15*time.Second).Check(cmd.Context(), ls) {
		switch {
		case r.OK():
			fmt.Fprintf(cmd.OutOrStdout(), "ok    %d %s\n", r.Status, r.Link.URL)
		case r.Err != nil:
			broken++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL  --- %s (%v)\n", r.Link.URL, r.Err)
		default:
			broken++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %d %s\n", r.Status, r.Link.URL)
		}
	}
	if broken > 0 {
		return fmt.Errorf("%d of %d links failed", broken, len(ls))
	}
	return nil
}
