package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/leonardcser/blog-web/internal/cache"
	"github.com/leonardcser/blog-web/internal/config"
	"github.com/leonardcser/blog-web/internal/logger"
)

const cacheBinary = "cache-server"

// connectOrStartCache connects to the cache daemon, starting it if needed.
func connectOrStartCache(cfg *config.Config, cfgPath string) (cache.KV, error) {
	sock := cfg.Cache.Socket
	logger.Infof("Attempting to connect to cache daemon at %s", sock)
	client := cache.NewClient(sock)
	err := client.Ping()
	if err == nil {
		return client, nil
	}
	logger.Warnf("Failed to connect to cache daemon: %v, attempting to start daemon", err)
	if startErr := startCacheDaemon(cfg, cfgPath); startErr != nil {
		logger.Errorf("Failed to start cache daemon: %v", startErr)
	} else {
		logger.Infof("Cache daemon started successfully")
	}
	// wait for socket to appear
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err = client.Ping(); err == nil {
			return client, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	logger.Errorf("Failed to connect to cache daemon after startup attempt: %v", err)
	return nil, err
}

func startCacheDaemon(cfg *config.Config, cfgPath string) error {
	path := findCacheBinary()
	if path == "" {
		return exec.ErrNotFound
	}
	return cacheDaemonCommand(path, cfg, cfgPath).Start()
}

// cacheDaemonCommand passes the config file and the resolved cache settings
// to the daemon.
func cacheDaemonCommand(path string, cfg *config.Config, cfgPath string) *exec.Cmd {
	if cfgPath == "" {
		cfgPath = os.Getenv(config.EnvConfig)
	}
	cmd := exec.Command(path)
	cmd.Env = append(os.Environ(),
		config.EnvCacheSock+"="+cfg.Cache.Socket,
		config.EnvCacheDB+"="+cfg.Cache.DB,
	)
	if cfgPath != "" {
		cmd.Env = append(cmd.Env, config.EnvConfig+"="+cfgPath)
	}
	return cmd
}

// findCacheBinary looks next to this executable, then on PATH, then in the
// working directory.
func findCacheBinary() string {
	if exePath, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exePath), cacheBinary)
		if _, err := os.Stat(sibling); err == nil {
			return sibling
		}
	}
	if path, err := exec.LookPath(cacheBinary); err == nil {
		return path
	}
	if _, err := os.Stat("./" + cacheBinary); err == nil {
		return "./" + cacheBinary
	}
	return ""
}
