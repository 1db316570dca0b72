// Package api exposes copilot sessions over JSON/HTTP for a browser front-end.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marigold-copilot/internal/common/errors"
	"marigold-copilot/internal/common/logger"
	"marigold-copilot/internal/common/validation"
	"marigold-copilot/internal/copilot/analyzer"
	"marigold-copilot/internal/copilot/router"
	"marigold-copilot/internal/copilot/session"
	"marigold-copilot/pkg/registry"
)

const maxBodyBytes = 64 << 10

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	manager  *session.Manager
	surfaces session.SurfaceLookup
	log      logger.Logger

	questions *validation.Validator

	mu     sync.RWMutex
	checks map[string]ReadinessCheck
}

func NewServer(manager *session.Manager, surfaces session.SurfaceLookup, log logger.Logger) *Server {
	return &Server{
		manager:   manager,
		surfaces:  surfaces,
		log:       log,
		questions: validation.MustValidator(validation.QuestionSchema),
		checks:    make(map[string]ReadinessCheck),
	}
}

// AddReadinessCheck registers a dependency probed by /ready.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /ready", s.ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /surfaces/{surface}", s.getSurface)
	mux.HandleFunc("POST /analyze", s.analyze)

	mux.HandleFunc("POST /sessions", s.openSession)
	mux.HandleFunc("GET /sessions/{id}", s.getSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.closeSession)
	mux.HandleFunc("POST /sessions/{id}/questions", s.submit)
	mux.HandleFunc("POST /sessions/{id}/history/{index}", s.selectHistory)
	mux.HandleFunc("DELETE /sessions/{id}/history", s.clearHistory)
	mux.HandleFunc("DELETE /sessions/{id}/active", s.clearActive)
	mux.HandleFunc("POST /sessions/{id}/minimize", s.toggleMinimized)

	return mux
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": results})
}

func (s *Server) getSurface(w http.ResponseWriter, r *http.Request) {
	surface, err := s.surfaces.Lookup(r.PathValue("surface"))
	if err != nil {
		s.writeError(w, s.translate(err, r.PathValue("surface")))
		return
	}
	writeJSON(w, http.StatusOK, surface)
}

// analyze answers a question without touching any session.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	question, stdErr := s.readQuestion(r)
	if stdErr != nil {
		s.writeError(w, stdErr)
		return
	}
	topic := router.Topic(question)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"intent": analyzer.Analyze(question),
		"topic":  topic,
	})
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Surface string `json:"surface"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, errors.NewInvalidInputError(err.Error()))
		return
	}
	if body.Surface == "" {
		s.writeError(w, errors.NewInvalidInputError("surface is required"))
		return
	}

	sess, err := s.manager.Open(body.Surface)
	if err != nil {
		s.writeError(w, s.translate(err, body.Surface))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": sess.Snapshot(),
		"surface": sess.Surface(),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		return http.StatusOK, nil
	})
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.manager.Close(id); err != nil {
		s.writeError(w, s.translate(err, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	question, stdErr := s.readQuestion(r)
	if stdErr != nil {
		s.writeError(w, stdErr)
		return
	}
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		return http.StatusAccepted, sess.Submit(question)
	})
}

func (s *Server) selectHistory(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeError(w, errors.NewInvalidInputError("history index must be an integer"))
		return
	}
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		if n := len(sess.Snapshot().History); index < 0 || index >= n {
			return 0, errors.NewHistoryIndexOutOfRangeError(index, n)
		}
		sess.SelectHistoryIndex(index)
		return http.StatusOK, nil
	})
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		sess.ClearHistory()
		return http.StatusOK, nil
	})
}

func (s *Server) clearActive(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		sess.ClearActiveResponse()
		return http.StatusOK, nil
	})
}

func (s *Server) toggleMinimized(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (int, error) {
		sess.ToggleMinimized()
		return http.StatusOK, nil
	})
}

// withSession resolves the {id} path value, runs fn and answers with the
// resulting snapshot.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) (int, error)) {
	id := r.PathValue("id")
	sess, err := s.manager.Get(id)
	if err != nil {
		s.writeError(w, s.translate(err, id))
		return
	}
	status, err := fn(sess)
	if err != nil {
		s.writeError(w, s.translate(err, id))
		return
	}
	writeJSON(w, status, sess.Snapshot())
}

func (s *Server) readQuestion(r *http.Request) (string, *errors.StandardError) {
	var body map[string]interface{}
	if err := decode(r, &body); err != nil {
		return "", errors.NewInvalidInputError(err.Error())
	}
	result, err := s.questions.Validate(body)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	if !result.Valid {
		return "", errors.NewInvalidInputError(result.Summary())
	}
	question := strings.TrimSpace(body["question"].(string))
	if question == "" {
		return "", errors.NewEmptyQuestionError()
	}
	return question, nil
}

// translate maps session and registry sentinels onto StandardErrors.
func (s *Server) translate(err error, id string) *errors.StandardError {
	var stdErr *errors.StandardError
	switch {
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.Is(err, session.ErrResponsePending):
		return errors.NewResponsePendingError(id)
	case stderrors.Is(err, session.ErrSessionClosed):
		return errors.NewSessionClosedError(id)
	case stderrors.Is(err, session.ErrSessionNotFound):
		return errors.NewSessionNotFoundError(id)
	case stderrors.Is(err, session.ErrTooManySessions):
		return errors.NewTooManySessionsError(s.manager.MaxSessions())
	case stderrors.Is(err, registry.ErrSurfaceNotFound):
		return errors.NewSurfaceNotFoundError(id)
	default:
		return errors.NewInternalError(err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, stdErr *errors.StandardError) {
	status := errors.HTTPStatus(stdErr.Code)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}
	writeJSON(w, status, map[string]interface{}{"error": stdErr})
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
