package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Terms) == 0 {
		t.Error("expected at least one default search term")
	}
	if cfg.ListenAddr == "" {
		t.Error("expected listen_addr to be set")
	}
	if cfg.Endpoint == "" {
		t.Error("expected endpoint to be set")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := &Config{
		QueryTimeout: "5s",
		QueryDelay:   "250ms",
		RetryBackoff: "1s",
	}
	if got := cfg.QueryTimeoutDuration(); got != 5*time.Second {
		t.Errorf("QueryTimeoutDuration = %v, want 5s", got)
	}
	if got := cfg.QueryDelayDuration(); got != 250*time.Millisecond {
		t.Errorf("QueryDelayDuration = %v, want 250ms", got)
	}
	if got := cfg.RetryBackoffDuration(); got != time.Second {
		t.Errorf("RetryBackoffDuration = %v, want 1s", got)
	}
}

func TestDurationDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.QueryTimeoutDuration(); got != 10*time.Second {
		t.Errorf("expected 10s default query timeout, got %v", got)
	}
	if got := cfg.QueryDelayDuration(); got != 500*time.Millisecond {
		t.Errorf("expected 500ms default query delay, got %v", got)
	}

	cfg.QueryTimeout = "invalid"
	if got := cfg.QueryTimeoutDuration(); got != 10*time.Second {
		t.Errorf("expected 10s fallback for invalid value, got %v", got)
	}
}

func TestFeedMaxAgeDays(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"7d", 7},
		{"30d", 30},
		{"168h", 7},
		{"", 7},        // default
		{"invalid", 7}, // fallback to default
	}
	for _, tt := range tests {
		cfg := &Config{FeedMaxAge: tt.input}
		got := cfg.FeedMaxAgeDuration()
		wantHours := float64(tt.wantDays * 24)
		if got.Hours() != wantHours {
			t.Errorf("FeedMaxAgeDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestEnabledFeeds(t *testing.T) {
	cfg := &Config{
		Feeds: []Feed{
			{Name: "A", Enabled: true},
			{Name: "B", Enabled: false},
			{Name: "C", Enabled: true},
		},
	}
	enabled := cfg.EnabledFeeds()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled feeds, got %d", len(enabled))
	}
	if enabled[0].Name != "A" || enabled[1].Name != "C" {
		t.Errorf("unexpected enabled feeds: %v", enabled)
	}
}

func TestAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "env-key")

	cfg := &Config{}
	if got := cfg.APIKey(); got != "env-key" {
		t.Errorf("expected env fallback, got %q", got)
	}

	cfg.NewsAPIKey = "file-key"
	if got := cfg.APIKey(); got != "file-key" {
		t.Errorf("config value should win over env, got %q", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `listen_addr: ":9090"
terms:
  - "Tesla"
feeds:
  - name: Test
    url: https://example.com/feed
    enabled: true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.ListenAddr)
	}
	if len(cfg.Terms) != 1 || cfg.Terms[0] != "Tesla" {
		t.Errorf("unexpected terms: %v", cfg.Terms)
	}
}

func TestLoadNonexistentFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Terms) == 0 {
		t.Error("expected default terms when config doesn't exist")
	}
	// First run writes the defaults out for editing.
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestGetPageSizeDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetPageSize(); got != 10 {
		t.Errorf("expected default page size 10, got %d", got)
	}
}

func TestGetRetryAttemptsDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetRetryAttempts(); got != 3 {
		t.Errorf("expected default 3 attempts, got %d", got)
	}
}

func TestValidateNoTerms(t *testing.T) {
	cfg := &Config{}
	if err := validate(cfg); err == nil {
		t.Error("expected error for missing terms")
	}
}

func TestValidateEmptyTerm(t *testing.T) {
	cfg := &Config{Terms: []string{"Tesla", ""}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for empty term")
	}
}

func TestValidateFeedMissingName(t *testing.T) {
	cfg := &Config{Terms: []string{"Tesla"}, Feeds: []Feed{{URL: "https://example.com"}}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for missing feed name")
	}
}

func TestValidateFeedMissingURL(t *testing.T) {
	cfg := &Config{Terms: []string{"Tesla"}, Feeds: []Feed{{Name: "Test"}}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for missing feed URL")
	}
}

func TestValidateFeedInvalidScheme(t *testing.T) {
	cfg := &Config{Terms: []string{"Tesla"}, Feeds: []Feed{{Name: "Test", URL: "file:///etc/passwd"}}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for file:// URL scheme")
	}
}

func TestValidateAcceptsHTTPS(t *testing.T) {
	cfg := &Config{Terms: []string{"Tesla"}, Feeds: []Feed{{Name: "Test", URL: "https://example.com/feed"}}}
	if err := validate(cfg); err != nil {
		t.Errorf("unexpected error for https URL: %v", err)
	}
}
