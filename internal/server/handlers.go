package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sleuth/internal/research"
	"sleuth/internal/session"
	"sleuth/internal/sqlquery"
)

type queryRequest struct {
	Question string `json:"question"`
}

type researchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// sessionView is the API shape of a session record. List responses
// omit the outcome payload; single-record responses include it.
type sessionView struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	Request         string    `json:"request"`
	CreatedAt       time.Time `json:"created_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Outcome         any       `json:"outcome,omitempty"`
}

func newSessionView(rec session.Record, withOutcome bool) sessionView {
	v := sessionView{
		ID:              rec.ID,
		Kind:            string(rec.Kind),
		Request:         rec.Request,
		CreatedAt:       rec.CreatedAt,
		DurationSeconds: rec.Duration.Seconds(),
	}
	if withOutcome {
		v.Outcome = rec.Outcome
	}
	return v
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	question, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	out := s.queries.Ask(r.Context(), question)
	AddLogField(r.Context(), "run_id", out.RunID)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQueryStream(w http.ResponseWriter, r *http.Request) {
	question, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	s.streamEvents(w, r, s.queries.Stream(r.Context(), question))
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeResearch(w, r)
	if !ok {
		return
	}
	out := s.researcher.Research(r.Context(), req.Query, req.MaxResults)
	AddLogField(r.Context(), "run_id", out.RunID)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResearchStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeResearch(w, r)
	if !ok {
		return
	}
	s.streamEvents(w, r, s.researcher.Stream(r.Context(), req.Query, req.MaxResults))
}

func (s *Server) handleSessionList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.sessions.List(r.Context())
	if err != nil {
		AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	views := make([]sessionView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, newSessionView(rec, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": views,
		"total":    len(views),
	})
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(rec, true))
}

func (s *Server) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	cleared, err := s.sessions.Clear(r.Context())
	if err != nil {
		AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "failed to clear sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": sqlquery.SampleQuestions,
		"queries":   research.SampleQueries,
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"schema": s.schema})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sleuth",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return "", false
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return "", false
	}
	return question, true
}

func decodeResearch(w http.ResponseWriter, r *http.Request) (researchRequest, bool) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
