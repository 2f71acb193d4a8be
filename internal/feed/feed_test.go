package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	// Chinese characters are multi-byte but should truncate by rune
	input := "馬斯克發表火星殖民計畫細節"
	got := truncate(input, 5)
	want := "馬斯..."
	if got != want {
		t.Errorf("truncate(%q, 5) = %q, want %q", input, got, want)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
	}
	for _, tt := range tests {
		got := stripHTML(tt.input)
		if got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFetchNormalizes(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	rss := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Self Reported Name</title>
<item><title>Starship update</title><link>https://a.com/1</link><description>&lt;p&gt;Launch&lt;/p&gt;</description><pubDate>%s</pubDate></item>
<item><title>Old post</title><link>https://a.com/2</link><pubDate>%s</pubDate></item>
</channel></rss>`,
		now.Format(time.RFC1123Z), now.Add(-30*24*time.Hour).Format(time.RFC1123Z))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rss)
	}))
	defer srv.Close()

	f := NewFetcher(7 * 24 * time.Hour)
	articles, err := f.Fetch(context.Background(), "SpaceX Blog", srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 recent article, got %d", len(articles))
	}
	a := articles[0]
	if a.Source != "SpaceX Blog" {
		t.Errorf("expected configured source name, got %q", a.Source)
	}
	if a.Title != "Starship update" {
		t.Errorf("unexpected title %q", a.Title)
	}
	if a.Description != "Launch" {
		t.Errorf("expected stripped description, got %q", a.Description)
	}
	if _, err := time.Parse(time.RFC3339, a.PubDate); err != nil {
		t.Errorf("pubDate not RFC3339: %q", a.PubDate)
	}
}

func TestFetchBadURL(t *testing.T) {
	f := NewFetcher(7 * 24 * time.Hour)
	if _, err := f.Fetch(context.Background(), "X", "http://127.0.0.1:0/feed"); err == nil {
		t.Fatal("expected error for unreachable feed")
	}
}
