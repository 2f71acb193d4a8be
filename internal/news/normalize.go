package news

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownShape reports a response body that matched none of the known
// aggregator payload shapes.
var ErrUnknownShape = errors.New("unrecognized aggregator response shape")

// wireResponse accepts the two payload shapes aggregator deployments have
// used over time: articles under "articles" or under "data".
type wireResponse struct {
	Articles   []Article `json:"articles"`
	Data       []Article `json:"data"`
	Timestamp  string    `json:"timestamp"`
	TotalFound int       `json:"totalFound"`
	Error      string    `json:"error"`
}

// ParseResponse decodes an aggregator response body into the canonical
// envelope. All known upstream shapes are mapped here, at the boundary;
// anything else is a typed error rather than a silently empty result.
func ParseResponse(body []byte) (Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return Response{}, fmt.Errorf("decoding aggregator response: %w", err)
	}

	if wire.Error != "" {
		return Response{}, fmt.Errorf("aggregator error: %s", wire.Error)
	}

	articles := wire.Articles
	if articles == nil {
		articles = wire.Data
	}
	if articles == nil {
		return Response{}, ErrUnknownShape
	}

	for i, a := range articles {
		articles[i] = Sanitize(a)
	}

	total := wire.TotalFound
	if total == 0 {
		total = len(articles)
	}
	return Response{Articles: articles, Timestamp: wire.Timestamp, TotalFound: total}, nil
}
