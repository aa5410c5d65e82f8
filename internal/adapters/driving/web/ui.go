package web

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// Processing modes offered by the UI.
const (
	modeSingle = "single"
	modeBatch  = "batch"
)

// headerLength is the number of URL characters shown in a batch result header.
const headerLength = 50

// pageData is the view model of the analysis page.
type pageData struct {
	Mode     string
	Query    string
	URL      string
	URLs     string
	UseCache bool

	// Submitted is false until the first analysis request.
	Submitted bool
	Warning   string

	Single *singleResult
	Batch  *batchResult

	MaxDocumentMB int
	MaxPages      int
}

type singleResult struct {
	Source    string
	Text      string
	FromCache bool
	Error     string
}

type batchResult struct {
	Items []batchView
}

type batchView struct {
	Header string
	OK     bool
	Result string
}

// newPageData returns the page in its initial state.
func newPageData() pageData {
	return pageData{
		Mode:          modeSingle,
		Query:         domain.DefaultQuery,
		URL:           domain.DefaultSourceURL,
		UseCache:      true,
		MaxDocumentMB: domain.DefaultMaxDocumentBytes >> 20,
		MaxPages:      domain.DefaultMaxPages,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, newPageData())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	data := newPageData()
	data.Submitted = true
	data.Query = queryOrDefault(r.PostFormValue("query"))
	data.URL = strings.TrimSpace(r.PostFormValue("url"))
	data.URLs = r.PostFormValue("urls")
	data.UseCache = r.PostFormValue("use_cache") != ""
	if r.PostFormValue("mode") == modeBatch {
		data.Mode = modeBatch
	}

	switch data.Mode {
	case modeBatch:
		s.analyzeBatch(r, &data)
	default:
		s.analyzeSingle(r, &data)
	}

	s.render(w, http.StatusOK, data)
}

func (s *Server) analyzeSingle(r *http.Request, data *pageData) {
	if data.URL == "" {
		data.Warning = "Please enter a PDF URL."
		return
	}

	result := &singleResult{Source: data.URL}
	answer, err := s.analysis.AnswerQuery(r.Context(), data.URL, data.Query, data.UseCache)
	if err != nil {
		logger.Warn("Analysis failed [%s]: %v", RequestID(r.Context()), err)
		result.Error = "Error processing PDF: " + err.Error()
	} else {
		result.Text = answer.Text
		result.FromCache = answer.FromCache
	}
	data.Single = result
}

func (s *Server) analyzeBatch(r *http.Request, data *pageData) {
	sources := domain.ParseSourceList(data.URLs)
	if len(sources) == 0 {
		data.Warning = "Please enter at least one PDF URL."
		return
	}

	items, err := s.analysis.BatchAnswerQueries(r.Context(), sources, data.Query)
	if err != nil {
		data.Warning = err.Error()
		return
	}

	result := &batchResult{Items: make([]batchView, len(items))}
	for i, item := range items {
		result.Items[i] = batchView{
			Header: domain.Truncate(item.Source, headerLength),
			OK:     item.OK(),
			Result: item.Result,
		}
	}
	data.Batch = result
}

// render executes the page template into a buffer so a template failure
// still produces a clean error response.
func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		logger.Error("Render page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
