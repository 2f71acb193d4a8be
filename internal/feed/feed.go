package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
	"github.com/mmcdole/gofeed"
)

// Fetcher pulls recent items from one RSS/Atom feed and normalizes them
// into the shared article shape.
type Fetcher struct {
	parser *gofeed.Parser
	maxAge time.Duration
	now    func() time.Time
}

// NewFetcher creates a fetcher that skips items older than maxAge.
func NewFetcher(maxAge time.Duration) *Fetcher {
	return &Fetcher{parser: gofeed.NewParser(), maxAge: maxAge, now: time.Now}
}

// Fetch parses the feed at url and returns its recent items. The source
// name overrides whatever the feed self-reports, so dedupe keys stay
// stable across feed rebrands.
func (f *Fetcher) Fetch(ctx context.Context, name, url string) ([]news.Article, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", name, err)
	}

	now := f.now()
	cutoff := now.Add(-f.maxAge)
	articles := make([]news.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}
		if pub.Before(cutoff) {
			continue
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		articles = append(articles, news.Sanitize(news.Article{
			Title:       item.Title,
			Source:      name,
			Link:        item.Link,
			Description: truncate(stripHTML(desc), 300),
			PubDate:     pub.Format(time.RFC3339),
		}))
	}
	return articles, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
