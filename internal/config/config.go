package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Feed is one optional RSS/Atom source queried alongside the search terms.
type Feed struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// Config holds both the aggregator (server) and coordinator (client)
// settings. One file configures both roles.
type Config struct {
	// Server side
	ListenAddr   string   `yaml:"listen_addr"`
	NewsAPIKey   string   `yaml:"news_api_key,omitempty"`
	Language     string   `yaml:"language"`
	PageSize     int      `yaml:"page_size"`
	QueryTimeout string   `yaml:"query_timeout"`
	QueryDelay   string   `yaml:"query_delay"`
	Terms        []string `yaml:"terms"`
	Feeds        []Feed   `yaml:"feeds,omitempty"`
	FeedMaxAge   string   `yaml:"feed_max_age,omitempty"`

	// Client side
	Endpoint      string `yaml:"endpoint"`
	FetchTimeout  string `yaml:"fetch_timeout"`
	RetryAttempts int    `yaml:"retry_attempts"`
	RetryBackoff  string `yaml:"retry_backoff"`
	DedupeWindow  string `yaml:"dedupe_window"`
}

// APIKey returns the upstream news API key, preferring the config value
// over the NEWS_API_KEY environment variable.
func (c *Config) APIKey() string {
	if c.NewsAPIKey != "" {
		return c.NewsAPIKey
	}
	return os.Getenv("NEWS_API_KEY")
}

func (c *Config) QueryTimeoutDuration() time.Duration {
	return parseDuration(c.QueryTimeout, 10*time.Second)
}

func (c *Config) QueryDelayDuration() time.Duration {
	return parseDuration(c.QueryDelay, 500*time.Millisecond)
}

func (c *Config) FetchTimeoutDuration() time.Duration {
	return parseDuration(c.FetchTimeout, 60*time.Second)
}

func (c *Config) RetryBackoffDuration() time.Duration {
	return parseDuration(c.RetryBackoff, 2*time.Second)
}

func (c *Config) DedupeWindowDuration() time.Duration {
	return parseDuration(c.DedupeWindow, 2*time.Second)
}

func (c *Config) FeedMaxAgeDuration() time.Duration {
	return parseDuration(c.FeedMaxAge, 7*24*time.Hour)
}

// GetRetryAttempts returns the retry attempt count, defaulting to 3.
func (c *Config) GetRetryAttempts() int {
	if c.RetryAttempts <= 0 {
		return 3
	}
	return c.RetryAttempts
}

// GetPageSize returns the per-term page size, defaulting to 10.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return 10
	}
	return c.PageSize
}

// EnabledFeeds returns the feeds marked enabled.
func (c *Config) EnabledFeeds() []Feed {
	var out []Feed
	for _, f := range c.Feeds {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// parseDuration parses s, supporting "Nd" day syntax, falling back to def.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "musknews", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "musknews", "musknews.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if len(cfg.Terms) == 0 {
		return fmt.Errorf("at least one search term is required")
	}
	for i, term := range cfg.Terms {
		if term == "" {
			return fmt.Errorf("term %d: empty search term", i)
		}
	}
	for _, f := range cfg.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feed with url %q: name is required", f.URL)
		}
		if f.URL == "" {
			return fmt.Errorf("feed %q: url is required", f.Name)
		}
		u, err := url.Parse(f.URL)
		if err != nil {
			return fmt.Errorf("feed %q: invalid url: %w", f.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %q: url scheme must be http or https, got %q", f.Name, u.Scheme)
		}
	}
	return nil
}
