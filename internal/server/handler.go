package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
	"github.com/google/uuid"
)

type fetchRequest struct {
	Limit int `json:"limit"`
}

func (s *Server) handleFetchNews(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	log := s.log.With("request_id", reqID)

	var req fetchRequest
	if r.Body != nil {
		// The limit is advisory; an empty or malformed body means defaults.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	start := time.Now()
	resp, err := s.agg.Aggregate(r.Context(), req.Limit)
	if err != nil {
		log.Error("aggregation failed", "error", err, "elapsed", time.Since(start))
		writeJSON(w, http.StatusInternalServerError, news.ErrorResponse{
			Error:     "聚合新聞失敗，請稍後再試",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	log.Info("aggregation done",
		"articles", len(resp.Articles),
		"total_found", resp.TotalFound,
		"elapsed", time.Since(start))
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
