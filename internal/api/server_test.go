package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marigold-copilot/internal/common/logger"
	"marigold-copilot/internal/copilot/router"
	"marigold-copilot/internal/copilot/session"
	"marigold-copilot/internal/models"
	"marigold-copilot/pkg/registry"
)

type openResponse struct {
	Session session.Snapshot `json:"session"`
	Surface models.Surface   `json:"surface"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

func setupServer(t *testing.T, opts session.Options, maxSessions int) (*Server, *session.Manager, http.Handler) {
	t.Helper()
	opts.Logger = logger.NewNoOpLogger()
	reg := registry.Default()
	manager := session.NewManager(reg, router.New(nil), opts, maxSessions)
	t.Cleanup(manager.CloseAll)

	srv := NewServer(manager, reg, logger.NewTestLogger(t))
	return srv, manager, srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func openSession(t *testing.T, h http.Handler, surface string) openResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/sessions", map[string]string{"surface": surface})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out openResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) session.Snapshot {
	t.Helper()
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func waitIdle(t *testing.T, manager *session.Manager, id string) {
	t.Helper()
	sess, err := manager.Get(id)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sess.WaitIdle(ctx))
}

func TestServer_Health(t *testing.T) {
	_, _, h := setupServer(t, session.Options{}, 0)

	rec := do(t, h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestServer_Ready(t *testing.T) {
	srv, _, h := setupServer(t, session.Options{}, 0)
	srv.AddReadinessCheck("redis", func(ctx context.Context) error { return nil })

	rec := do(t, h, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.AddReadinessCheck("postgres", func(ctx context.Context) error { return fmt.Errorf("connection refused") })

	rec = do(t, h, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
}

func TestServer_Metrics(t *testing.T) {
	_, _, h := setupServer(t, session.Options{}, 0)

	rec := do(t, h, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_GetSurface(t *testing.T) {
	_, _, h := setupServer(t, session.Options{}, 0)

	rec := do(t, h, http.MethodGet, "/surfaces/loyalty", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var surface models.Surface
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &surface))
	assert.Equal(t, "Loyalty Program", surface.DisplayName)

	rec = do(t, h, http.MethodGet, "/surfaces/weather", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SURFACE_NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestServer_Analyze(t *testing.T) {
	_, manager, h := setupServer(t, session.Options{}, 0)

	rec := do(t, h, http.MethodPost, "/analyze", map[string]string{"question": "Pause my Summit tier welcome campaign ASAP"})

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Intent models.Intent `json:"intent"`
		Topic  string        `json:"topic"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "campaign", out.Topic)
	assert.Equal(t, models.UrgencyHigh, out.Intent.Urgency)
	assert.Equal(t, models.ActionPause, out.Intent.Action)
	assert.Equal(t, 0, manager.Len())
}

func TestServer_SessionLifecycle(t *testing.T) {
	_, manager, h := setupServer(t, session.Options{}, 0)

	opened := openSession(t, h, "overview")
	assert.Equal(t, "overview", opened.Surface.ID)
	assert.Equal(t, -1, opened.Session.CurrentIndex)
	id := opened.Session.ID

	rec := do(t, h, http.MethodPost, "/sessions/"+id+"/questions", map[string]string{"question": "  What's my revenue?  "})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	waitIdle(t, manager, id)

	rec = do(t, h, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "What's my revenue?", snap.History[0].Question)
	assert.Equal(t, "revenue", snap.History[0].Topic)
	require.NotNil(t, snap.ActiveResponse)
	assert.True(t, snap.IsMinimized)
	assert.False(t, snap.IsAwaitingResponse)

	rec = do(t, h, http.MethodPost, "/sessions/"+id+"/questions", map[string]string{"question": "budget"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	waitIdle(t, manager, id)

	rec = do(t, h, http.MethodPost, "/sessions/"+id+"/history/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decodeSnapshot(t, rec)
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Equal(t, snap.History[0].Response, *snap.ActiveResponse)

	rec = do(t, h, http.MethodPost, "/sessions/"+id+"/minimize", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeSnapshot(t, rec).IsMinimized)

	rec = do(t, h, http.MethodDelete, "/sessions/"+id+"/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decodeSnapshot(t, rec)
	assert.Nil(t, snap.ActiveResponse)
	assert.Len(t, snap.History, 2)

	rec = do(t, h, http.MethodDelete, "/sessions/"+id+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decodeSnapshot(t, rec)
	assert.Empty(t, snap.History)
	assert.Equal(t, -1, snap.CurrentIndex)

	rec = do(t, h, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, manager.Len())

	rec = do(t, h, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Errors(t *testing.T) {
	_, manager, h := setupServer(t, session.Options{MinLatency: time.Hour}, 2)
	id := openSession(t, h, "campaigns").Session.ID

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "blank question",
			method:         http.MethodPost,
			path:           "/sessions/" + id + "/questions",
			body:           map[string]string{"question": "   "},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "EMPTY_QUESTION",
		},
		{
			name:           "question of wrong type",
			method:         http.MethodPost,
			path:           "/sessions/" + id + "/questions",
			body:           map[string]int{"question": 7},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
		{
			name:           "unknown session",
			method:         http.MethodPost,
			path:           "/sessions/nope/questions",
			body:           map[string]string{"question": "roi"},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "SESSION_NOT_FOUND",
		},
		{
			name:           "history index out of range",
			method:         http.MethodPost,
			path:           "/sessions/" + id + "/history/3",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "HISTORY_INDEX_OUT_OF_RANGE",
		},
		{
			name:           "history index not a number",
			method:         http.MethodPost,
			path:           "/sessions/" + id + "/history/latest",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
		{
			name:           "unknown surface",
			method:         http.MethodPost,
			path:           "/sessions",
			body:           map[string]string{"surface": "weather"},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "SURFACE_NOT_FOUND",
		},
		{
			name:           "missing surface",
			method:         http.MethodPost,
			path:           "/sessions",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.expectedCode, decodeError(t, rec).Error.Code)
		})
	}

	assert.Equal(t, 1, manager.Len())
}

func TestServer_RejectsWhileAwaiting(t *testing.T) {
	_, _, h := setupServer(t, session.Options{MinLatency: time.Hour}, 0)
	id := openSession(t, h, "copilot").Session.ID

	rec := do(t, h, http.MethodPost, "/sessions/"+id+"/questions", map[string]string{"question": "roi"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.True(t, snap.IsAwaitingResponse)
	assert.Equal(t, "roi", snap.PendingQuestion)

	rec = do(t, h, http.MethodPost, "/sessions/"+id+"/questions", map[string]string{"question": "budget"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "RESPONSE_PENDING", decodeError(t, rec).Error.Code)
}

func TestServer_TooManySessions(t *testing.T) {
	_, _, h := setupServer(t, session.Options{}, 1)
	openSession(t, h, "overview")

	rec := do(t, h, http.MethodPost, "/sessions", map[string]string{"surface": "loyalty"})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	out := decodeError(t, rec)
	assert.Equal(t, "TOO_MANY_SESSIONS", out.Error.Code)
	assert.Equal(t, "maxSessions: 1", out.Error.Details)
}
