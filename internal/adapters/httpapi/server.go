package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pictag/internal/application"
	"pictag/internal/application/commands"
	"pictag/internal/logging"
)

// Server exposes tag search and lookup over HTTP
type Server struct {
	catalog *application.Guarded
	logger  *slog.Logger
}

// NewServer creates a server over a shared catalog
func NewServer(catalog *application.Guarded, logger *slog.Logger) *Server {
	return &Server{catalog: catalog, logger: logging.OrDiscard(logger)}
}

// Routes returns the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Get("/search", s.handleSearch)
		r.Get("/tags/{name}", s.handleGetTag)
		r.Get("/tags/{name}/descendants", s.handleDescendants)
		r.Post("/index/rebuild", s.handleRebuild)
	})
	return r
}

type searchResponse struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
	Count   int      `json:"count"`
	PIDs    []int64  `json:"pids"`
}

type tagResponse struct {
	Name        string   `json:"name"`
	EnglishName string   `json:"enName,omitempty"`
	Type        string   `json:"type,omitempty"`
	Parents     []string `json:"parents"`
	Children    []string `json:"children"`
	Synonyms    []string `json:"synonyms"`
	Ancestors   []string `json:"ancestors"`
}

type rebuildRequest struct {
	PIDs           []int64 `json:"pids"`
	SkipCompletion bool    `json:"skipCompletion"`
}

type rebuildResponse struct {
	Items        int      `json:"items"`
	Updated      int      `json:"updated"`
	Tags         int      `json:"tags"`
	Entries      int      `json:"entries"`
	Incremental  bool     `json:"incremental"`
	Unrecognized []string `json:"unrecognized"`
	Message      string   `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type pingResponse struct {
	Status string     `json:"status"`
	Index  *indexInfo `json:"index,omitempty"`
}

type indexInfo struct {
	Tags      int        `json:"tags"`
	LastBuilt *time.Time `json:"lastBuilt"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	resp := pingResponse{Status: "ok"}
	err := s.catalog.Do(func(c *application.Catalog) error {
		info, err := c.IndexInfo()
		if err != nil {
			return err
		}
		resp.Index = &indexInfo{Tags: info.Tags}
		if !info.LastBuilt.IsZero() {
			resp.Index.LastBuilt = &info.LastBuilt
		}
		return nil
	})
	if err != nil && !errors.Is(err, application.ErrNoCatalog) {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	include := splitParam(q["include"])
	exclude := splitParam(q["exclude"])

	var result *commands.SearchResult
	err := s.catalog.Do(func(c *application.Catalog) error {
		var err error
		result, err = commands.NewSearchCommand(c, include, exclude).Execute(r.Context())
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	pids := result.PIDs
	if pids == nil {
		pids = []int64{}
	}
	s.writeJSON(w, http.StatusOK, searchResponse{
		Include: include,
		Exclude: orEmpty(exclude),
		Count:   len(pids),
		PIDs:    pids,
	})
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	name := tagParam(r)

	var result *commands.ShowTagResult
	err := s.catalog.Do(func(c *application.Catalog) error {
		var err error
		result, err = commands.NewShowTagCommand(c, name).Execute(r.Context())
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec := result.Tag
	s.writeJSON(w, http.StatusOK, tagResponse{
		Name:        rec.Name,
		EnglishName: rec.EnglishName,
		Type:        rec.Type,
		Parents:     orEmpty(rec.Parents),
		Children:    orEmpty(rec.Children),
		Synonyms:    orEmpty(rec.Synonyms),
		Ancestors:   orEmpty(result.Ancestors),
	})
}

func (s *Server) handleDescendants(w http.ResponseWriter, r *http.Request) {
	name := tagParam(r)
	synonyms := r.URL.Query().Get("synonyms") == "true"

	var names []string
	err := s.catalog.Do(func(c *application.Catalog) error {
		var err error
		names, err = c.Descendants(name, synonyms)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orEmpty(names))
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	var req rebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var result *commands.ReindexResult
	err := s.catalog.Do(func(c *application.Catalog) error {
		cmd := commands.NewReindexCommand(c, req.PIDs)
		cmd.SkipCompletion = req.SkipCompletion
		var err error
		result, err = cmd.Execute(r.Context())
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := rebuildResponse{
		Items:        result.Index.Items,
		Tags:         result.Index.Tags,
		Entries:      result.Index.Entries,
		Incremental:  result.Index.Incremental,
		Unrecognized: []string{},
		Message:      result.Message,
	}
	if result.Completion != nil {
		resp.Updated = result.Completion.Updated
		resp.Unrecognized = orEmpty(result.Completion.Unrecognized)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// writeError maps catalog errors to HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.Is(err, application.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, application.ErrAlreadyExists), errors.Is(err, application.ErrInvalidEdge):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// tagParam returns the decoded {name} path segment. Tag names start with
// '#', so clients send it as %23.
func tagParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	return name
}

// splitParam accepts repeated parameters as well as comma separated lists
func splitParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func orEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
