package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
)

// ErrMissingAPIKey reports a client constructed without upstream credentials.
var ErrMissingAPIKey = errors.New("news API key not configured")

// Client queries a NewsAPI-compatible search endpoint for recent articles
// matching a single term.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	pageSize int
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a search client. The timeout bounds each upstream call.
func New(apiKey, language string, pageSize int, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:  "https://newsapi.org/v2/everything",
		apiKey:   apiKey,
		language: language,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wireArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type wireEnvelope struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Articles     []wireArticle `json:"articles"`
	Message      string        `json:"message"`
}

// Search queries the upstream API for one term, newest first, and returns
// normalized articles. Fields the upstream omitted come back as placeholder
// values rather than failing the whole batch.
func (c *Client) Search(ctx context.Context, term string) ([]news.Article, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("q", term)
	q.Set("language", c.language)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprintf("%d", c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %q: %w", term, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", term, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %q: %w", term, err)
	}

	var env wireEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding response for %q: %w", term, err)
	}
	if resp.StatusCode != http.StatusOK || env.Status == "error" {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("upstream error for %q: %s", term, msg)
	}

	articles := make([]news.Article, 0, len(env.Articles))
	for _, w := range env.Articles {
		articles = append(articles, news.Sanitize(news.Article{
			Title:       w.Title,
			Source:      w.Source.Name,
			Link:        w.URL,
			Description: w.Description,
			PubDate:     w.PublishedAt,
		}))
	}
	return articles, nil
}
