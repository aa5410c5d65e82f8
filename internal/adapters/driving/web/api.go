package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// answerRequest is the body of POST /api/answer.
type answerRequest struct {
	URL      string `json:"url"`
	Query    string `json:"query"`
	UseCache *bool  `json:"use_cache,omitempty"`
}

// answerResponse is the body returned by POST /api/answer.
type answerResponse struct {
	URL       string `json:"url"`
	Query     string `json:"query"`
	Answer    string `json:"answer"`
	FromCache bool   `json:"from_cache"`
}

// batchRequest is the body of POST /api/batch.
type batchRequest struct {
	URLs  []string `json:"urls"`
	Query string   `json:"query"`
}

// batchResponse is the body returned by POST /api/batch.
type batchResponse struct {
	Query    string             `json:"query"`
	Results  []domain.BatchItem `json:"results"`
	Failures int                `json:"failures"`
}

// invalidateRequest is the body of POST /api/invalidate.
type invalidateRequest struct {
	URL string `json:"url"`
}

// errorResponse is the body of every API failure.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Status: status})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func queryOrDefault(query string) string {
	if strings.TrimSpace(query) == "" {
		return domain.DefaultQuery
	}
	return query
}

func (s *Server) handleAPIAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	useCache := req.UseCache == nil || *req.UseCache
	query := queryOrDefault(req.Query)

	answer, err := s.analysis.AnswerQuery(r.Context(), strings.TrimSpace(req.URL), query, useCache)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		URL:       answer.Source,
		Query:     answer.Query,
		Answer:    answer.Text,
		FromCache: answer.FromCache,
	})
}

func (s *Server) handleAPIBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	query := queryOrDefault(req.Query)
	items, err := s.analysis.BatchAnswerQueries(r.Context(), domain.ParseSourceList(strings.Join(req.URLs, "\n")), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Query:    query,
		Results:  items,
		Failures: domain.CountFailures(items),
	})
}

func (s *Server) handleAPIInvalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	source := strings.TrimSpace(req.URL)
	if source == "" {
		writeError(w, fmt.Errorf("%w: url is required", domain.ErrInvalidInput))
		return
	}

	s.analysis.Invalidate(source)
	writeJSON(w, http.StatusOK, s.analysis.Stats())
}

func (s *Server) handleAPIStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.analysis.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
