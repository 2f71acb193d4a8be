package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
)

type fakeAggregator struct {
	resp     news.Response
	err      error
	gotLimit int
}

func (f *fakeAggregator) Aggregate(ctx context.Context, limit int) (news.Response, error) {
	f.gotLimit = limit
	if f.err != nil {
		return news.Response{}, f.err
	}
	return f.resp, nil
}

func TestFetchNewsSuccess(t *testing.T) {
	agg := &fakeAggregator{resp: news.Response{
		Articles: []news.Article{
			{Title: "T", Source: "S", Link: "https://a.com", PubDate: "2024-01-01T00:00:00Z"},
		},
		Timestamp:  "2024-01-02T00:00:00Z",
		TotalFound: 1,
	}}
	srv := New(agg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/news", strings.NewReader(`{"limit":10}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if agg.gotLimit != 10 {
		t.Errorf("limit = %d, want 10", agg.gotLimit)
	}

	var resp news.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Articles) != 1 || resp.TotalFound != 1 {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	if resp.Timestamp == "" {
		t.Error("expected timestamp in envelope")
	}
}

func TestFetchNewsEmptyBody(t *testing.T) {
	agg := &fakeAggregator{resp: news.Response{Articles: []news.Article{}}}
	srv := New(agg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/news", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("empty body should still aggregate, status = %d", rec.Code)
	}
}

func TestFetchNewsFailure(t *testing.T) {
	agg := &fakeAggregator{err: errors.New("credentials missing")}
	srv := New(agg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/news", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var errEnv news.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errEnv); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if errEnv.Error == "" || errEnv.Timestamp == "" {
		t.Errorf("incomplete error envelope: %+v", errEnv)
	}
	// The user-facing message stays generic.
	if strings.Contains(errEnv.Error, "credentials") {
		t.Errorf("internal detail leaked to client: %q", errEnv.Error)
	}
}

func TestHealthz(t *testing.T) {
	srv := New(&fakeAggregator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestFetchNewsMethodNotAllowed(t *testing.T) {
	srv := New(&fakeAggregator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
