package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
)

// HTTPClient calls the aggregator endpoint over HTTPS.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

// NewHTTPClient creates a client for the aggregator at endpoint.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type fetchRequest struct {
	Limit int `json:"limit,omitempty"`
}

// FetchNews posts an advisory limit to the aggregator and normalizes the
// response body into the canonical envelope.
func (h *HTTPClient) FetchNews(ctx context.Context, limit int) (news.Response, error) {
	payload, err := json.Marshal(fetchRequest{Limit: limit})
	if err != nil {
		return news.Response{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		return news.Response{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		return news.Response{}, fmt.Errorf("calling aggregator: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return news.Response{}, fmt.Errorf("reading aggregator response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errEnv news.ErrorResponse
		if jsonErr := json.Unmarshal(body, &errEnv); jsonErr == nil && errEnv.Error != "" {
			return news.Response{}, fmt.Errorf("aggregator failed: %s", errEnv.Error)
		}
		return news.Response{}, fmt.Errorf("aggregator failed: %s", resp.Status)
	}

	return news.ParseResponse(body)
}
