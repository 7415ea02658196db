package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nexuskb/nexus/internal/store"
)

type cardJSON struct {
	ID         int64   `json:"id"`
	ParentID   int64   `json:"parent_id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	CardType   string  `json:"card_type"`
	Difficulty float64 `json:"difficulty"`
	Stability  float64 `json:"stability"`
	LastReview *int64  `json:"last_review"`
	NextReview *int64  `json:"next_review"`
}

func toCardJSON(c *store.Card) cardJSON {
	return cardJSON{
		ID:         c.ID,
		ParentID:   c.ParentID,
		Question:   c.Question,
		Answer:     c.Answer,
		CardType:   string(c.Type),
		Difficulty: c.Difficulty,
		Stability:  c.Stability,
		LastReview: c.LastReview,
		NextReview: c.NextReview,
	}
}

// handleDueCards returns the cards currently eligible for review.
// Query params: topic (record id), pull_forward (bool), limit (int).
func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	q := store.DueQuery{Now: time.Now()}

	if v := r.URL.Query().Get("topic"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, `{"error":"invalid topic id"}`, http.StatusBadRequest)
			return
		}
		q.TopicID = &id
	}
	if v := r.URL.Query().Get("pull_forward"); v == "true" || v == "1" {
		q.PullForward = true
	}

	cards, err := s.db.DueCards(q)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(cards) {
			cards = cards[:n]
		}
	}

	out := make([]cardJSON, len(cards))
	for i := range cards {
		out[i] = toCardJSON(&cards[i])
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"count": len(out), "cards": out})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid card id"}`, http.StatusBadRequest)
		return
	}

	card, err := s.db.GetCard(id)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if card == nil {
		http.Error(w, `{"error":"card not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toCardJSON(card))
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recordID"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid record id"}`, http.StatusBadRequest)
		return
	}

	rec, err := s.db.GetRecord(id)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, `{"error":"record not found"}`, http.StatusNotFound)
		return
	}

	tags, err := s.db.Tags(id)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":          rec.ID,
		"type":        string(rec.Type),
		"title":       rec.Title,
		"path_url":    rec.PathURL,
		"content_raw": rec.ContentRaw,
		"tags":        tags,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.CollectStats(time.Now())
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	topics := make([]map[string]any, len(stats.ByTopic))
	for i, t := range stats.ByTopic {
		topics[i] = map[string]any{
			"topic_id": t.TopicID,
			"title":    t.Title,
			"due":      t.Due,
			"total":    t.Total,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"records":           stats.Records,
		"cards":             stats.Cards,
		"due":               stats.Due,
		"pending_mutations": stats.Pending,
		"topics":            topics,
	})
}

func (s *Server) handlePendingMutations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.db.PendingMutations()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"count": len(ids), "card_ids": ids})
}
