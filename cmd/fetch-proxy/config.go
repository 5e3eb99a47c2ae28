package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/fetchcache/pkg/cache"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	storeFS    = "fs"
	storeRedis = "redis"
)

// Config holds the proxy configuration.
type Config struct {
	Port            string
	CacheDir        string
	TTL             time.Duration
	Store           string
	RedisAddr       string
	LogLevel        string
	LogPretty       bool
	LogFile         string
	UserAgent       string
	UpstreamTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("cache_dir", cache.DefaultDir)
	v.SetDefault("ttl", "1800")
	v.SetDefault("store", storeFS)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("log_file", "")
	v.SetDefault("user_agent", "fetchcache/0.1.0")
	v.SetDefault("upstream_timeout", "30s")
}

// loadConfig reads the --config flag, FETCHCACHE_* environment variables and
// the optional config file. Environment variables override the file.
func loadConfig(args []string) (Config, error) {
	flags := pflag.NewFlagSet("fetch-proxy", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a config file (yaml, toml or json)")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("FETCHCACHE")
	v.AutomaticEnv()

	path := *configFile
	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	ttl, err := parseDuration(v.GetString("ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ttl: %w", err)
	}

	timeout, err := parseDuration(v.GetString("upstream_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid upstream_timeout: %w", err)
	}

	cfg := Config{
		Port:            v.GetString("port"),
		CacheDir:        v.GetString("cache_dir"),
		TTL:             ttl,
		Store:           strings.ToLower(v.GetString("store")),
		RedisAddr:       v.GetString("redis_addr"),
		LogLevel:        v.GetString("log_level"),
		LogPretty:       v.GetBool("log_pretty"),
		LogFile:         v.GetString("log_file"),
		UserAgent:       v.GetString("user_agent"),
		UpstreamTimeout: timeout,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid combinations.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir is required")
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be >= 0 (got %s)", c.TTL)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream_timeout must be > 0 (got %s)", c.UpstreamTimeout)
	}
	switch c.Store {
	case storeFS:
	case storeRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store %q (want %q or %q)", c.Store, storeFS, storeRedis)
	}
	return nil
}

// parseDuration accepts Go duration strings ("30s", "5m") and plain seconds
// ("1800", "0.5").
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse duration %q", value)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
