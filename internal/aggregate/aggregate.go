// Package aggregate combines multiple upstream news queries into one
// deduplicated, time-sorted batch.
package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/newsapi"
	"go.uber.org/ratelimit"
)

// Searcher queries one search term against the upstream news API.
type Searcher interface {
	Search(ctx context.Context, term string) ([]news.Article, error)
}

// FeedFetcher pulls articles from one RSS/Atom feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, name, url string) ([]news.Article, error)
}

// FeedSource names one configured feed.
type FeedSource struct {
	Name string
	URL  string
}

// Aggregator runs the configured queries sequentially, paced by a rate
// limiter, and merges the results. It holds no state between runs.
type Aggregator struct {
	search  Searcher
	terms   []string
	feeds   FeedFetcher
	sources []FeedSource
	limiter ratelimit.Limiter
	timeout time.Duration
	log     *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFeeds adds RSS feed sources queried after the search terms.
func WithFeeds(fetcher FeedFetcher, sources []FeedSource) Option {
	return func(a *Aggregator) {
		a.feeds = fetcher
		a.sources = sources
	}
}

// WithLimiter overrides the pacing limiter, mainly for tests.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(a *Aggregator) { a.limiter = l }
}

// WithTimeout bounds each upstream query.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) { a.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.log = l }
}

// New creates an Aggregator over the given search terms. The default
// limiter spaces upstream calls 500ms apart; upstream quotas are the
// reason queries run sequentially rather than in parallel.
func New(search Searcher, terms []string, opts ...Option) *Aggregator {
	a := &Aggregator{
		search:  search,
		terms:   terms,
		limiter: ratelimit.New(1, ratelimit.Per(500*time.Millisecond)),
		timeout: 10 * time.Second,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate queries every configured term and feed in order and returns
// the merged batch. A failure on a single query is logged and contributes
// zero results; only failures not attributable to one query, such as
// missing upstream credentials, are returned as errors.
//
// limit is advisory and currently ignored; the response is always capped
// at news.MaxArticles.
func (a *Aggregator) Aggregate(ctx context.Context, limit int) (news.Response, error) {
	if limit > 0 {
		a.log.Debug("advisory limit ignored", "limit", limit)
	}

	var collected []news.Article
	for _, term := range a.terms {
		a.limiter.Take()

		articles, err := a.queryTerm(ctx, term)
		if err != nil {
			if errors.Is(err, newsapi.ErrMissingAPIKey) || ctx.Err() != nil {
				return news.Response{}, err
			}
			a.log.Warn("term query failed", "term", term, "error", err)
			continue
		}
		a.log.Info("term query done", "term", term, "articles", len(articles))
		collected = append(collected, articles...)
	}

	for _, src := range a.sources {
		a.limiter.Take()

		articles, err := a.queryFeed(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return news.Response{}, err
			}
			a.log.Warn("feed query failed", "feed", src.Name, "error", err)
			continue
		}
		a.log.Info("feed query done", "feed", src.Name, "articles", len(articles))
		collected = append(collected, articles...)
	}

	merged, total := news.Merge(collected, nil)
	return news.Response{
		Articles:   merged,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		TotalFound: total,
	}, nil
}

func (a *Aggregator) queryTerm(ctx context.Context, term string) ([]news.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.search.Search(ctx, term)
}

func (a *Aggregator) queryFeed(ctx context.Context, src FeedSource) ([]news.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.feeds.Fetch(ctx, src.Name, src.URL)
}
