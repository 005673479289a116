package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/leonardcser/blog-web/internal/cache"
	"github.com/leonardcser/blog-web/internal/config"
	"github.com/leonardcser/blog-web/internal/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Errorf("cache daemon: %v", err)
		_ = logger.Close()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}
	defer logger.Close()
	sock := cfg.Cache.Socket

	// Ensure socket dir exists and remove stale socket
	_ = os.MkdirAll(filepath.Dir(sock), 0o755)
	_ = os.MkdirAll(filepath.Dir(cfg.Cache.DB), 0o755)
	_ = os.Remove(sock)

	l, err := net.Listen("unix", sock)
	if err != nil {
		return err
	}
	_ = os.Chmod(sock, 0o600)

	store, err := cache.Open(cfg.Cache.DB, cache.Options{Bucket: "views", DefaultTTL: cfg.Cache.ViewWindow})
	if err != nil {
		_ = l.Close()
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweep(ctx, store, cfg.Cache.SweepInterval)
	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()

	logger.Infof("Cache daemon listening on %s", sock)
	return cache.Serve(l, store)
}

func sweep(ctx context.Context, s *cache.Store, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := s.Sweep(); err != nil {
				logger.Warnf("cache sweep: %v", err)
			} else if n > 0 {
				logger.Infof("cache sweep removed %d expired entries", n)
			}
		}
	}
}
