package news

import "time"

// MaxArticles is the hard cap on any article collection handed to a view.
const MaxArticles = 15

// Placeholder values substituted for fields an upstream source omitted.
const (
	PlaceholderTitle  = "無標題"
	PlaceholderSource = "未知來源"
	PlaceholderDate   = "未知時間"
)

// Article is a normalized news item. Two articles are considered the same
// when they share both Title and Source.
type Article struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
	PubDate     string `json:"pubDate"`
}

// Key returns the dedupe identity of the article.
func (a Article) Key() string {
	return a.Title + "\x00" + a.Source
}

// Sanitize fills missing required fields with placeholder values so a
// partially populated upstream item never fails normalization.
func Sanitize(a Article) Article {
	if a.Title == "" {
		a.Title = PlaceholderTitle
	}
	if a.Source == "" {
		a.Source = PlaceholderSource
	}
	if a.PubDate == "" {
		a.PubDate = PlaceholderDate
	}
	return a
}

// Response is the envelope returned by the aggregator endpoint.
type Response struct {
	Articles   []Article `json:"articles"`
	Timestamp  string    `json:"timestamp"`
	TotalFound int       `json:"totalFound"`
}

// ErrorResponse is the envelope returned when aggregation fails entirely.
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Cache is the client-persisted envelope holding merged article history.
type Cache struct {
	Articles   []Article         `json:"articles"`
	Timestamp  string            `json:"timestamp"`
	Date       string            `json:"date"`
	NewCount   int               `json:"newCount"`
	TotalCount int               `json:"totalCount"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// dateLayouts covers the formats upstream sources are known to emit.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// PublishedAt parses the article's publish date. Unparseable or missing
// dates yield the zero time rather than an error, so sorting never fails.
func (a Article) PublishedAt() time.Time {
	if a.PubDate == "" || a.PubDate == PlaceholderDate {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, a.PubDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
