package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/blog-web/internal/config"
	"github.com/leonardcser/blog-web/internal/store"
)

func TestInitDBWithSample(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "blog.db")
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvDatabase, dbPath)
	t.Setenv(config.EnvLog, filepath.Join(dir, "blog.log"))

	root := newRootCmd()
	root.SetArgs([]string{"init-db", "--sample"})
	require.NoError(t, root.Execute())

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	n, err := st.CountPublished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFindCacheBinaryMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Chdir(t.TempDir())
	assert.Empty(t, findCacheBinary())
}

func TestCacheDaemonCommandCarriesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "blog.yaml")
	yml := "log: " + filepath.Join(dir, "blog.log") + "\n" +
		"cache:\n" +
		"  socket: " + filepath.Join(dir, "cache.sock") + "\n" +
		"  db: " + filepath.Join(dir, "views.bbolt") + "\n" +
		"  view_window: 20m\n" +
		"  sweep_interval: 1m\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yml), 0o600))
	for _, k := range []string{config.EnvConfig, config.EnvCacheSock, config.EnvCacheDB, config.EnvLog} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cmd := cacheDaemonCommand("/bin/true", cfg, cfgPath)
	assert.Contains(t, cmd.Env, config.EnvConfig+"="+cfgPath)
	assert.Contains(t, cmd.Env, config.EnvCacheSock+"="+cfg.Cache.Socket)
	assert.Contains(t, cmd.Env, config.EnvCacheDB+"="+cfg.Cache.DB)

	// The daemon loads its config from the environment it was started with.
	for _, kv := range cmd.Env {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, "BLOG_") {
			t.Setenv(k, v)
		}
	}
	daemonCfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, cfg.Cache, daemonCfg.Cache)
	assert.Equal(t, cfg.Log, daemonCfg.Log)
	assert.Equal(t, 20*time.Minute, daemonCfg.Cache.ViewWindow)
}

func TestCacheDaemonCommandWithoutConfigFile(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	require.NoError(t, os.Unsetenv(config.EnvConfig))
	cfg := config.Default()
	cmd := cacheDaemonCommand("/bin/true", cfg, "")
	for _, kv := range cmd.Env {
		assert.False(t, strings.HasPrefix(kv, config.EnvConfig+"="), kv)
	}
	assert.Contains(t, cmd.Env, config.EnvCacheDB+"="+cfg.Cache.DB)
}
