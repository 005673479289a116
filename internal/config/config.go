// Package config loads the blog server configuration from a YAML file and
// applies environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvConfig      = "BLOG_CONFIG"
	EnvListen      = "BLOG_LISTEN"
	EnvDatabase    = "BLOG_DB"
	EnvCacheSock   = "BLOG_CACHE_SOCK"
	EnvCacheDB     = "BLOG_CACHE_DB"
	EnvLog         = "BLOG_LOG"
	EnvPageNum     = "BLOG_PAGE_NUM"
	EnvSiteTitle   = "BLOG_WEBSITE_TITLE"
	EnvSiteWelcome = "BLOG_WEBSITE_WELCOME"
)

type Config struct {
	WebsiteTitle   string      `yaml:"website_title"`
	WebsiteWelcome string      `yaml:"website_welcome"`
	PageNum        int         `yaml:"page_num"`
	Listen         string      `yaml:"listen"`
	Database       string      `yaml:"database"`
	Log            string      `yaml:"log"`
	Cache          CacheConfig `yaml:"cache"`
}

type CacheConfig struct {
	Socket string `yaml:"socket"`
	DB     string `yaml:"db"`
	// ViewWindow is how long a visitor IP is remembered per article.
	ViewWindow time.Duration `yaml:"view_window"`
	// SweepInterval controls how often the daemon drops expired entries.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	dir := defaultDataDir()
	return &Config{
		WebsiteTitle:   "Blog",
		WebsiteWelcome: "Welcome",
		PageNum:        10,
		Listen:         ":8000",
		Database:       filepath.Join(dir, "blog.db"),
		Log:            filepath.Join(dir, "blog.log"),
		Cache: CacheConfig{
			Socket:        filepath.Join(dir, "cache.sock"),
			DB:            filepath.Join(dir, "cache.bbolt"),
			ViewWindow:    15 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
	}
}

// Load reads path (or $BLOG_CONFIG when path is empty) over the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Listen, EnvListen)
	setString(&c.Database, EnvDatabase)
	setString(&c.Cache.Socket, EnvCacheSock)
	setString(&c.Cache.DB, EnvCacheDB)
	setString(&c.Log, EnvLog)
	setString(&c.WebsiteTitle, EnvSiteTitle)
	setString(&c.WebsiteWelcome, EnvSiteWelcome)
	if v := os.Getenv(EnvPageNum); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageNum, err)
		}
		c.PageNum = n
	}
	return nil
}

// Validate rejects configurations the views cannot serve.
func (c *Config) Validate() error {
	if c.PageNum <= 0 {
		return fmt.Errorf("page_num must be positive, got %d", c.PageNum)
	}
	if c.Database == "" {
		return errors.New("database path is required")
	}
	if c.Cache.ViewWindow <= 0 {
		c.Cache.ViewWindow = 15 * time.Minute
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func defaultDataDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "blog-web")
}
