// Package httpapi exposes health, metrics, the lookup endpoints and the
// Telegram webhook on one chi router.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	apperrors "unit-lookup/internal/common/errors"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/records"
	interpretcode "unit-lookup/internal/workers/lookup/interpret-code"
	unitlookup "unit-lookup/internal/workers/lookup/unit-lookup"
	"unit-lookup/pkg/registry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxBodyBytes = 16 << 10
	readyTimeout = 5 * time.Second
)

// Looker runs one lookup; satisfied by *unitlookup.Handler.
type Looker interface {
	Execute(ctx context.Context, input *unitlookup.Input) (*unitlookup.Output, error)
}

type Interpreter interface {
	Execute(ctx context.Context, input *interpretcode.Input) (*interpretcode.Output, error)
}

// Deps are the collaborators the router serves. Source is only read by
// /ready when ReadyChecksStore is set; Webhook is mounted at WebhookPath
// when non-nil.
type Deps struct {
	Lookup           Looker
	Interpreter      Interpreter
	Registry         *registry.ActivityRegistry
	Source           records.Source
	ReadyChecksStore bool
	Webhook          http.Handler
	WebhookPath      string
	Logger           logger.Logger
}

type server struct {
	deps   Deps
	logger logger.Logger
}

func NewRouter(deps Deps) http.Handler {
	s := &server{deps: deps, logger: deps.Logger.WithFields(map[string]interface{}{"component": "http"})}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/lookup", s.lookup)
		r.Post("/interpret", s.interpret)
	})

	if deps.Webhook != nil && deps.WebhookPath != "" {
		r.Method(http.MethodPost, deps.WebhookPath, deps.Webhook)
	}
	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request", map[string]interface{}{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"duration":  time.Since(start).String(),
			"requestId": middleware.GetReqID(r.Context()),
		})
	})
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) ready(w http.ResponseWriter, r *http.Request) {
	if !s.deps.ReadyChecksStore || s.deps.Source == nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if _, err := s.deps.Source.FetchAll(ctx); err != nil {
		s.logger.Warn("readiness check failed", map[string]interface{}{"error": err})
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"source": s.deps.Source.Name(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready", "source": s.deps.Source.Name()})
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) {
	var input unitlookup.Input
	if !s.decode(w, r, unitlookup.TaskType, &input) {
		return
	}

	out, err := s.deps.Lookup.Execute(r.Context(), &input)
	if err != nil {
		s.respondStandardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *server) interpret(w http.ResponseWriter, r *http.Request) {
	var input interpretcode.Input
	if !s.decode(w, r, interpretcode.TaskType, &input) {
		return
	}

	out, err := s.deps.Interpreter.Execute(r.Context(), &input)
	if err != nil {
		s.respondStandardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// decode validates the body against the activity's input schema, then
// unmarshals it into v. It writes the 400 itself and reports false on failure.
func (s *server) decode(w http.ResponseWriter, r *http.Request, taskType string, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, apperrors.NewInvalidRequestError("body too large or unreadable"))
		return false
	}

	if s.deps.Registry != nil {
		if activity, err := s.deps.Registry.Find(taskType); err == nil {
			result, err := activity.ValidateInput(body)
			if err != nil {
				respondError(w, http.StatusBadRequest, apperrors.NewInvalidRequestError("malformed JSON"))
				return false
			}
			if !result.Valid {
				stdErr := apperrors.NewInvalidRequestError("input does not match schema")
				stdErr.Metadata = map[string]interface{}{"errors": result.Errors}
				respondError(w, http.StatusBadRequest, stdErr)
				return false
			}
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		respondError(w, http.StatusBadRequest, apperrors.NewInvalidRequestError("malformed JSON"))
		return false
	}
	return true
}

func (s *server) respondStandardError(w http.ResponseWriter, err error) {
	stdErr := apperrors.Normalize(err)
	status := http.StatusInternalServerError
	switch stdErr.Code {
	case apperrors.ErrCodeStoreUnavailable, apperrors.ErrCodeStoreReadFailed:
		status = http.StatusServiceUnavailable
	case apperrors.ErrCodeInvalidRequest:
		status = http.StatusBadRequest
	}
	s.logger.Error("request failed", map[string]interface{}{
		"code":  stdErr.Code,
		"error": err,
	})
	respondError(w, status, stdErr)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, err *apperrors.StandardError) {
	respondJSON(w, status, map[string]interface{}{"error": err})
}
