// Package coordinator mediates between a view and the aggregator endpoint,
// serving stale cached articles immediately while refreshing them in the
// background (stale-while-revalidate).
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/retry"
	"golang.org/x/sync/singleflight"
)

// Storage keys for the persisted history envelope. LegacyKey mirrors the
// primary payload for older consumers.
const (
	HistoryKey = "muskNewsHistory"
	LegacyKey  = "muskNewsCache"
)

// ErrNoNewData is the soft failure returned when the aggregator answered
// successfully but contributed nothing; the persisted cache is preserved.
var ErrNoNewData = errors.New("aggregator returned no new articles")

// Client fetches one batch from the aggregator endpoint.
type Client interface {
	FetchNews(ctx context.Context, limit int) (news.Response, error)
}

// CacheStore is the persisted key-value storage the coordinator owns.
type CacheStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Status is the view-facing state snapshot.
type Status struct {
	Data       *news.Cache
	Err        error
	Loading    bool // fetching with no cached data to show
	Validating bool // any fetch in flight
}

// Coordinator wraps aggregator fetches with a persisted cache, a retry
// policy, and request de-duplication. All collaborators are injected; the
// coordinator holds no global state.
type Coordinator struct {
	client Client
	store  CacheStore
	policy retry.Policy
	window time.Duration
	now    func() time.Time
	log    *slog.Logger

	group singleflight.Group

	mu        sync.Mutex
	data      *news.Cache
	err       error
	fetching  int
	lastFetch time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRetryPolicy overrides the default policy (3 attempts, 2s/4s backoff).
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Coordinator) { c.policy = p }
}

// WithDedupeWindow sets how long a completed fetch suppresses new ones.
func WithDedupeWindow(d time.Duration) Option {
	return func(c *Coordinator) { c.window = d }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// New creates a Coordinator and synchronously loads any persisted history
// so the first Status call already carries last-known-good data.
func New(client Client, store CacheStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		client: client,
		store:  store,
		policy: retry.Policy{MaxAttempts: 3, Backoff: retry.Linear(2 * time.Second)},
		window: 2 * time.Second,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.data = c.loadSnapshot()
	return c
}

// loadSnapshot reads the persisted envelope, trying the primary key and
// then the legacy mirror. A corrupt entry is removed and treated as absent.
func (c *Coordinator) loadSnapshot() *news.Cache {
	for _, key := range []string{HistoryKey, LegacyKey} {
		raw, ok, err := c.store.Get(key)
		if err != nil {
			c.log.Warn("reading cache failed", "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}
		var cached news.Cache
		if err := json.Unmarshal(raw, &cached); err != nil {
			c.log.Warn("corrupt cache entry removed", "key", key, "error", err)
			if delErr := c.store.Delete(key); delErr != nil {
				c.log.Warn("removing corrupt entry failed", "key", key, "error", delErr)
			}
			continue
		}
		return &cached
	}
	return nil
}

// Status reports the current view state. Data stays populated with the
// last known good envelope even while a fetch is failing.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Data:       c.data,
		Err:        c.err,
		Loading:    c.fetching > 0 && c.data == nil,
		Validating: c.fetching > 0,
	}
}

// Fetch runs one stale-while-revalidate cycle and returns the resulting
// envelope. Repeated calls within the dedupe window, and concurrent calls,
// collapse into a single network round trip. The returned error is either
// nil, the soft ErrNoNewData, or the transport failure after retries; in
// the latter two cases the returned envelope is the last known good one.
func (c *Coordinator) Fetch(ctx context.Context) (news.Cache, error) {
	c.mu.Lock()
	if !c.lastFetch.IsZero() && c.now().Sub(c.lastFetch) < c.window {
		data, err := c.data, c.err
		c.mu.Unlock()
		if data != nil {
			return *data, err
		}
		return news.Cache{}, err
	}
	c.mu.Unlock()

	type result struct {
		cache news.Cache
		err   error
	}
	v, _, _ := c.group.Do("news", func() (any, error) {
		cache, err := c.fetchOnce(ctx)
		return result{cache, err}, nil
	})
	res := v.(result)
	return res.cache, res.err
}

func (c *Coordinator) fetchOnce(ctx context.Context) (news.Cache, error) {
	c.mu.Lock()
	c.fetching++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.fetching--
		c.lastFetch = c.now()
		c.mu.Unlock()
	}()

	var resp news.Response
	fetchErr := c.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.client.FetchNews(ctx, news.MaxArticles)
		return err
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if fetchErr != nil {
		c.log.Warn("news fetch failed", "error", fetchErr)
		c.err = fetchErr
		if c.data != nil {
			return *c.data, fetchErr
		}
		return news.Cache{}, fetchErr
	}

	if len(resp.Articles) == 0 {
		// Intentionally keep the persisted envelope untouched.
		c.log.Info("news fetch returned nothing new")
		c.err = ErrNoNewData
		if c.data != nil {
			return *c.data, ErrNoNewData
		}
		return news.Cache{}, ErrNoNewData
	}

	var existing []news.Article
	if c.data != nil {
		existing = c.data.Articles
	}
	merged, _ := news.Merge(resp.Articles, existing)

	now := c.now()
	cache := news.Cache{
		Articles:   merged,
		Timestamp:  now.UTC().Format(time.RFC3339),
		Date:       now.Format("2006-01-02"),
		NewCount:   len(resp.Articles),
		TotalCount: len(merged),
		Metadata: map[string]string{
			"totalFound":          strconv.Itoa(resp.TotalFound),
			"aggregatorTimestamp": resp.Timestamp,
		},
	}

	if err := c.persist(cache); err != nil {
		// The fresh data is still served; only persistence degraded.
		c.log.Warn("persisting news cache failed", "error", err)
	}

	c.data = &cache
	c.err = nil
	return cache, nil
}

func (c *Coordinator) persist(cache news.Cache) error {
	raw, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	if err := c.store.Put(HistoryKey, raw); err != nil {
		return err
	}
	return c.store.Put(LegacyKey, raw)
}

// ClearHistory removes the persisted envelope under both keys and resets
// the in-memory snapshot. Diagnostics only; not part of the normal flow.
func (c *Coordinator) ClearHistory() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(HistoryKey); err != nil {
		return err
	}
	if err := c.store.Delete(LegacyKey); err != nil {
		return err
	}
	c.data = nil
	c.err = nil
	return nil
}
