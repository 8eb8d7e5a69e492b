package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"granolad/internal/zapier"
)

type HTTPServer struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPServer(service *Service, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{service: service, logger: logger}
}

func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Head("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Head("/ready", s.handleReady)
	r.Post("/jsonrpc", s.handleJSONRPC)
	r.Get("/test", s.handleTest)
	r.Get("/zapier-simple", s.handleZapierSimple)
	r.Post("/zapier-simple", s.handleZapierSimple)

	return r
}

func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"status":  "healthy",
		"message": "Granola digest server is running",
	})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := map[string]any{
		"cache": map[string]any{"status": "ok"},
	}

	if err := s.service.Ping(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["cache"] = map[string]any{
			"status": "error",
			"error":  err.Error(),
		}
	}

	writeJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

// handleTest is a quick diagnostics endpoint: confirms the cache is
// readable and shows a few recent titles.
func (s *HTTPServer) handleTest(w http.ResponseWriter, r *http.Request) {
	total, titles, err := s.service.SampleTitles(r.Context(), 3)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"documents_found": total,
		"sample_data":     titles,
	})
}

// handleZapierSimple returns the digest pre-formatted as plain-text call
// blocks, the shape webhook automations consume directly.
func (s *HTTPServer) handleZapierSimple(w http.ResponseWriter, r *http.Request) {
	daysBack := 0
	if v := r.URL.Query().Get("days_back"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_PARAMS", "days_back must be an integer", nil)
			return
		}
		daysBack = parsed
	}

	d, err := s.service.BuildDigest(r.Context(), daysBack)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zapier.NewPayload(d.Documents))
}

func writeServiceError(w http.ResponseWriter, err error) {
	var derr *DomainError
	if errors.As(err, &derr) {
		writeError(w, derr.Status, derr.Code, derr.Message, derr.Details)
		return
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal error", nil)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}
