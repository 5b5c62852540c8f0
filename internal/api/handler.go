// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api exposes the triage pipeline over HTTP: mock data
// generation, inbox processing, email and thread views, and productivity
// metrics.
package api

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/bcem/triage/internal/classify"
	"github.com/bcem/triage/internal/compress"
	"github.com/bcem/triage/internal/mockgen"
	"github.com/bcem/triage/internal/models"
	"github.com/bcem/triage/internal/priority"
	"github.com/bcem/triage/internal/store"
)

// Time-saved estimate per processed email, in seconds. A manual triage
// pass is assumed at 3 minutes per email.
const (
	manualSecondsPerEmail    = 180
	automatedSecondsPerEmail = 5
)

// Handler serves the triage API over a store and the pipeline stages.
type Handler struct {
	store      *store.Store
	classifier *classify.Classifier
	scorer     *priority.Scorer
	compressor *compress.Compressor

	// now and seed are injection points for tests.
	now  func() time.Time
	seed func() int64
}

// NewHandler creates an API handler.
func NewHandler(s *store.Store, c *classify.Classifier, p *priority.Scorer, cm *compress.Compressor) *Handler {
	return &Handler{
		store:      s,
		classifier: c,
		scorer:     p,
		compressor: cm,
		now:        time.Now,
		seed:       func() int64 { return time.Now().UnixNano() },
	}
}

// Routes returns the request multiplexer for all API endpoints.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /api/stats", h.handleStats)
	mux.HandleFunc("POST /api/generate-mock-data", h.handleGenerateMockData)
	mux.HandleFunc("POST /api/process-inbox", h.handleProcessInbox)
	mux.HandleFunc("GET /api/emails", h.handleEmails)
	mux.HandleFunc("GET /api/emails/categorized", h.handleCategorized)
	mux.HandleFunc("GET /api/emails/{id}", h.handleEmailDetail)
	mux.HandleFunc("GET /api/threads", h.handleThreads)
	mux.HandleFunc("GET /api/threads/{id}", h.handleThreadDetail)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
	mux.HandleFunc("POST /api/reset", h.handleReset)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}

func (h *Handler) handleGenerateMockData(w http.ResponseWriter, r *http.Request) {
	count := 100
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid count: "+v)
			return
		}
		count = n
	}

	gen := mockgen.New(h.seed())
	inbox := gen.Inbox(count)
	h.store.AddEmails(inbox.Emails)
	h.store.AddThreads(inbox.Threads)

	st := h.store.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "success",
		"emails_generated":  len(inbox.Emails),
		"threads_generated": len(inbox.Threads),
		"total_emails":      st.TotalEmails,
		"total_threads":     st.TotalThreads,
	})
}

// handleProcessInbox classifies and scores every unprocessed email, then
// compresses every uncompressed thread. A thread that fails to compress
// is logged and skipped without affecting the rest.
func (h *Handler) handleProcessInbox(w http.ResponseWriter, r *http.Request) {
	processed := 0
	for _, id := range h.store.EmailIDs() {
		h.store.UpdateEmail(id, func(e *models.Email, meta store.ThreadMeta) {
			if e.Processed() {
				return
			}
			h.classifier.Classify(e)
			score, level := h.scorer.Score(e, priority.Context{
				Now:                 h.now(),
				ThreadMessageCount:  meta.MessageCount,
				ThreadLastMessageAt: meta.LastMessageAt,
			})
			e.PriorityScore = score
			e.PriorityLevel = level
			processed++
		})
	}

	compressed := 0
	for _, id := range h.store.ThreadIDs() {
		err := h.store.UpdateThread(id, func(t *models.EmailThread) error {
			if t.Compressed() {
				return nil
			}
			if err := h.compressor.Compress(t); err != nil {
				return err
			}
			compressed++
			return nil
		})
		if err != nil {
			slog.Error("thread compression failed", "thread_id", id, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "success",
		"emails_processed":   processed,
		"threads_compressed": compressed,
	})
}

func (h *Handler) handleEmails(w http.ResponseWriter, r *http.Request) {
	f := store.Filter{Limit: 50}

	if v := r.URL.Query().Get("category"); v != "" {
		cat, ok := models.ParseCategory(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid category: "+v)
			return
		}
		f.Category = cat
	}
	if v := r.URL.Query().Get("priority"); v != "" {
		level, ok := models.ParsePriorityLevel(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid priority: "+v)
			return
		}
		f.Priority = level
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit: "+v)
			return
		}
		f.Limit = n
	}

	emails := h.store.Emails(f)
	writeJSON(w, http.StatusOK, map[string]any{
		"total":  len(emails),
		"emails": emails,
	})
}

// emailSummary is the compact listing form used by the categorized view.
type emailSummary struct {
	ID               string               `json:"id"`
	Subject          string               `json:"subject"`
	Sender           string               `json:"sender"`
	PriorityScore    float64              `json:"priority_score"`
	PriorityLevel    models.PriorityLevel `json:"priority_level,omitempty"`
	ReceivedAt       time.Time            `json:"received_at"`
	RequiresResponse bool                 `json:"requires_response"`
}

func (h *Handler) handleCategorized(w http.ResponseWriter, r *http.Request) {
	grouped := make(map[string][]emailSummary)
	for _, e := range h.store.Emails(store.Filter{}) {
		key := "uncategorized"
		if e.Category != "" {
			key = string(e.Category)
		}
		grouped[key] = append(grouped[key], emailSummary{
			ID:               e.ID,
			Subject:          e.Subject,
			Sender:           e.Sender.Address,
			PriorityScore:    e.PriorityScore,
			PriorityLevel:    e.PriorityLevel,
			ReceivedAt:       e.ReceivedAt,
			RequiresResponse: e.RequiresResponse,
		})
	}

	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PriorityScore > group[j].PriorityScore
		})
	}

	writeJSON(w, http.StatusOK, grouped)
}

func (h *Handler) handleEmailDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, ok := h.store.Email(id)
	if !ok {
		writeError(w, http.StatusNotFound, "email not found: "+id)
		return
	}

	resp := map[string]any{"email": e}
	if t, ok := h.store.Thread(e.ThreadID); ok {
		resp["thread"] = map[string]any{
			"thread_id":              t.ThreadID,
			"message_count":          t.MessageCount,
			"compressed_summary":     t.CompressedSummary,
			"key_decisions":          t.KeyDecisions,
			"open_questions":         t.OpenQuestions,
			"action_items_by_person": t.ActionItemsByPerson,
			"compression_ratio":      t.CompressionRatio,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// threadSummary is the compact listing form for the threads index.
type threadSummary struct {
	ThreadID         string                `json:"thread_id"`
	Subject          string                `json:"subject"`
	MessageCount     int                   `json:"message_count"`
	Participants     []models.EmailAddress `json:"participants"`
	FirstMessageAt   time.Time             `json:"first_message_at,omitzero"`
	LastMessageAt    time.Time             `json:"last_message_at,omitzero"`
	CompressionRatio float64               `json:"compression_ratio"`
	Compressed       bool                  `json:"compressed"`
}

func (h *Handler) handleThreads(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit: "+v)
			return
		}
		limit = n
	}

	all := h.store.Threads()
	total := len(all)
	if len(all) > limit {
		all = all[:limit]
	}

	summaries := make([]threadSummary, 0, len(all))
	for _, t := range all {
		summaries = append(summaries, threadSummary{
			ThreadID:         t.ThreadID,
			Subject:          t.Subject,
			MessageCount:     t.MessageCount,
			Participants:     t.Participants,
			FirstMessageAt:   t.FirstMessageAt,
			LastMessageAt:    t.LastMessageAt,
			CompressionRatio: math.Round(t.CompressionRatio*100) / 100,
			Compressed:       t.Compressed(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"threads": summaries,
	})
}

func (h *Handler) handleThreadDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, ok := h.store.Thread(id)
	if !ok {
		writeError(w, http.StatusNotFound, "thread not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	emails := h.store.Emails(store.Filter{})
	threads := h.store.Threads()

	categoryDist := make(map[string]int)
	priorityDist := make(map[string]int)
	processed := 0
	for _, e := range emails {
		cat := "uncategorized"
		if e.Category != "" {
			cat = string(e.Category)
			processed++
		}
		categoryDist[cat]++

		level := "UNASSIGNED"
		if e.PriorityLevel != "" {
			level = string(e.PriorityLevel)
		}
		priorityDist[level]++
	}

	rate := 0.0
	if len(emails) > 0 {
		rate = math.Round(float64(processed)/float64(len(emails))*10000) / 100
	}
	savedHours := float64(processed) * (manualSecondsPerEmail - automatedSecondsPerEmail) / 3600
	savedHours = math.Round(savedHours*100) / 100

	compressedCount := 0
	ratioSum := 0.0
	for _, t := range threads {
		if t.Compressed() {
			compressedCount++
			ratioSum += t.CompressionRatio
		}
	}
	avgRatio := 0.0
	if compressedCount > 0 {
		avgRatio = math.Round(ratioSum/float64(compressedCount)*100) / 100
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_emails":          len(emails),
		"emails_processed":      processed,
		"processing_rate":       rate,
		"time_saved_hours":      savedHours,
		"category_distribution": categoryDist,
		"priority_distribution": priorityDist,
		"threads_compressed":    compressedCount,
		"avg_compression_ratio": avgRatio,
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "store cleared",
	})
}
