// cmd/engine-server/server.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/engine"
	"construction-engine/internal/models"
)

const maxBodyBytes = 1 << 20

// providerLister abstracts the catalog store so /api/rank and /api/report can
// default to the stored catalog when the request carries no providers.
type providerLister interface {
	ListProviders(ctx context.Context) ([]models.Provider, error)
}

type providerSearcher interface {
	SearchProviders(ctx context.Context, query string, size int) ([]models.Provider, error)
}

type server struct {
	engine  *engine.Engine
	store   providerLister
	search  providerSearcher
	logger  logger.Logger
	schemas map[string]*gojsonschema.Schema
}

func newServer(eng *engine.Engine, store providerLister, search providerSearcher, log logger.Logger) *server {
	return &server{
		engine:  eng,
		store:   store,
		search:  search,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
		schemas: compileSchemas(),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/estimate", s.requireMethod(http.MethodPost, s.handleEstimate))
	mux.HandleFunc("/api/rank", s.requireMethod(http.MethodPost, s.handleRank))
	mux.HandleFunc("/api/report", s.requireMethod(http.MethodPost, s.handleReport))
	mux.HandleFunc("/api/score", s.requireMethod(http.MethodPost, s.handleScore))
	mux.HandleFunc("/api/predict", s.requireMethod(http.MethodPost, s.handlePredict))
	mux.HandleFunc("/api/providers", s.requireMethod(http.MethodGet, s.handleListProviders))
	mux.HandleFunc("/api/providers/search", s.requireMethod(http.MethodGet, s.handleSearchProviders))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return s.withRequestID(mux)
}

// withRequestID tags every request with an id for log correlation. Caller
// supplied ids are kept so upstream traces line up.
func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(withRequestIDContext(r.Context(), requestID)))

		s.logger.Info("request handled", map[string]interface{}{
			"requestId":  requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

type contextKey string

const requestIDKey contextKey = "requestId"

func withRequestIDContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func (s *server) requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
				"error": "method not allowed",
			})
			return
		}
		h(w, r)
	}
}

type estimateRequest struct {
	Project models.Project `json:"project"`
}

func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !s.decodeAndValidate(w, r, "estimate", &req) {
		return
	}

	result, err := s.engine.Estimate(&req.Project)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type rankRequest struct {
	Project   models.Project    `json:"project"`
	Providers []models.Provider `json:"providers,omitempty"`
	Count     int               `json:"count,omitempty"`
}

func (s *server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if !s.decodeAndValidate(w, r, "rank", &req) {
		return
	}

	providers, ok := s.resolveProviders(w, r, req.Providers)
	if !ok {
		return
	}

	rec, err := s.engine.RankProviders(r.Context(), &req.Project, providers, req.Count)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type reportRequest struct {
	Project   models.Project    `json:"project"`
	Providers []models.Provider `json:"providers,omitempty"`
	TopN      int               `json:"topN,omitempty"`
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !s.decodeAndValidate(w, r, "report", &req) {
		return
	}

	providers, ok := s.resolveProviders(w, r, req.Providers)
	if !ok {
		return
	}

	report, err := s.engine.SynthesizeReport(r.Context(), &req.Project, providers, req.TopN)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type scoreRequest struct {
	Provider models.Provider `json:"provider"`
	Project  models.Project  `json:"project"`
}

type scoreResponse struct {
	ProviderID string  `json:"providerId"`
	Score      float64 `json:"score"`
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !s.decodeAndValidate(w, r, "score", &req) {
		return
	}

	score, err := s.engine.ScoreProvider(&req.Provider, &req.Project)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{ProviderID: req.Provider.ID, Score: score})
}

func (s *server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !s.decodeAndValidate(w, r, "estimate", &req) {
		return
	}

	prediction, err := s.engine.PredictCost(r.Context(), &req.Project)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (s *server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := s.store.ListProviders(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

func (s *server) handleSearchProviders(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "query parameter 'q' is required",
		})
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	providers, err := s.search.SearchProviders(r.Context(), query, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

// resolveProviders substitutes the stored catalog for an empty provider list.
func (s *server) resolveProviders(w http.ResponseWriter, r *http.Request, given []models.Provider) ([]models.Provider, bool) {
	if len(given) > 0 {
		return given, true
	}
	providers, err := s.store.ListProviders(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if len(providers) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "no providers supplied and the catalog is empty",
		})
		return nil, false
	}
	return providers, true
}

// decodeAndValidate reads the body, checks it against the named schema and
// unmarshals into dst. Responds with 400 on any failure.
func (s *server) decodeAndValidate(w http.ResponseWriter, r *http.Request, schemaName string, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return false
	}

	result, err := s.schemas[schemaName].Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body is not valid JSON"})
		return false
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "request failed schema validation",
			"details": details,
		})
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to parse request body"})
		return false
	}
	return true
}

// writeError maps the error taxonomy onto HTTP statuses. Validation errors
// are the caller's fault; everything else is a server side failure.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID, _ := r.Context().Value(requestIDKey).(string)

	status := http.StatusInternalServerError
	var se *commonerrors.StandardError
	if errors.As(err, &se) {
		switch se.Code {
		case commonerrors.ErrCodeInvalidProject, commonerrors.ErrCodeInvalidProvider:
			status = http.StatusBadRequest
		case commonerrors.ErrCodeCatalogQueryFailed:
			status = http.StatusServiceUnavailable
		}
	}

	s.logger.Error("request failed", map[string]interface{}{
		"requestId": requestID,
		"path":      r.URL.Path,
		"status":    status,
		"error":     err.Error(),
	})

	if se != nil {
		writeJSON(w, status, map[string]interface{}{"error": se})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
