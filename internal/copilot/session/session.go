// Package session holds the per-surface copilot conversation state.
//
// A Session moves between Idle and Awaiting: Submit starts a simulated
// response delay on a background goroutine, and the turn is appended when it
// fires. Minimising and history navigation stay available while awaiting.
// Recommendation cards of a fresh response are revealed one per
// RevealInterval after the turn is appended.
package session

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"marigold-copilot/internal/common/logger"
	"marigold-copilot/internal/common/metrics"
	"marigold-copilot/internal/common/observability"
	"marigold-copilot/internal/copilot/analyzer"
	"marigold-copilot/internal/copilot/catalog"
	"marigold-copilot/internal/copilot/transcript"
	"marigold-copilot/internal/models"
)

var (
	ErrResponsePending = errors.New("RESPONSE_PENDING")
	ErrSessionClosed   = errors.New("SESSION_CLOSED")
)

// Responder answers a question; *router.Router implements it.
type Responder interface {
	Respond(query string) (catalog.Topic, models.Response)
}

type Options struct {
	MinLatency     time.Duration
	MaxLatency     time.Duration
	RevealInterval time.Duration

	Sink        transcript.Sink
	SinkTimeout time.Duration

	Logger        logger.Logger
	Observability *observability.Observability
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.NewNoOpLogger()
	}
	if o.Sink == nil {
		o.Sink = transcript.Discard{}
	}
	if o.SinkTimeout <= 0 {
		o.SinkTimeout = 3 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.MaxLatency < o.MinLatency {
		o.MaxLatency = o.MinLatency
	}
	return o
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID                      string                    `json:"id"`
	SurfaceID               string                    `json:"surfaceId"`
	History                 []models.ConversationTurn `json:"history"`
	CurrentIndex            int                       `json:"currentIndex"`
	ActiveResponse          *models.Response          `json:"activeResponse"`
	RevealedRecommendations int                       `json:"revealedRecommendations"`
	IsMinimized             bool                      `json:"isMinimized"`
	IsAwaitingResponse      bool                      `json:"isAwaitingResponse"`
	PendingQuestion         string                    `json:"pendingQuestion,omitempty"`
	Closed                  bool                      `json:"closed"`
}

type Session struct {
	id        string
	surface   models.Surface
	responder Responder
	opts      Options
	log       logger.Logger

	mu           sync.Mutex
	history      []models.ConversationTurn
	currentIndex int
	active       *models.Response
	revealed     int
	minimized    bool
	awaiting     bool
	pending      string
	closed       bool

	// gen is bumped whenever in-flight work must stop applying results.
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}

	subs    map[int]chan Snapshot
	nextSub int

	// sinkTail is closed when the latest queued transcript write finishes.
	// Writes are queued under mu so the sink sees them in history order.
	sinkTail chan struct{}
}

// New creates an idle session with empty history.
func New(id string, surface models.Surface, responder Responder, opts Options) *Session {
	opts = opts.withDefaults()
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:           id,
		surface:      surface,
		responder:    responder,
		opts:         opts,
		log:          opts.Logger.With(map[string]interface{}{"sessionId": id, "surface": surface.ID}),
		currentIndex: -1,
		subs:         make(map[int]chan Snapshot),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Surface() models.Surface { return s.surface }

// Submit asks question. Blank questions are ignored without error. While a
// previous question is still awaiting its response Submit returns
// ErrResponsePending and changes nothing.
func (s *Session) Submit(question string) error {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		metrics.SubmitsRejected.WithLabelValues("closed").Inc()
		return ErrSessionClosed
	}
	if s.awaiting {
		s.mu.Unlock()
		metrics.SubmitsRejected.WithLabelValues("pending").Inc()
		s.log.Warn("submit rejected, response pending", map[string]interface{}{"question": q})
		return ErrResponsePending
	}

	s.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	gen := s.gen

	s.awaiting = true
	s.pending = q
	s.active = nil
	s.revealed = 0
	s.publishLocked()
	s.mu.Unlock()

	s.log.Info("question submitted", map[string]interface{}{"question": q})
	go s.run(ctx, gen, q, done, s.opts.Now())
	return nil
}

func (s *Session) run(ctx context.Context, gen uint64, question string, done chan struct{}, submittedAt time.Time) {
	defer close(done)

	if !sleep(ctx, s.latencyFor(question)) {
		return
	}

	topic, resp := s.responder.Respond(question)
	turn := models.ConversationTurn{
		ID:        uuid.NewString(),
		Question:  question,
		Topic:     string(topic),
		Response:  resp,
		Timestamp: s.opts.Now(),
	}

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.history = append(s.history, turn)
	s.currentIndex = len(s.history) - 1
	active := turn.Response.Clone()
	s.active = &active
	s.revealed = 0
	if s.opts.RevealInterval <= 0 {
		s.revealed = len(active.Recommendations)
	}
	s.awaiting = false
	s.pending = ""
	s.minimized = true
	index := s.currentIndex
	wait, release := s.queueSinkLocked()
	s.publishLocked()
	s.mu.Unlock()

	took := s.opts.Now().Sub(submittedAt)
	metrics.ResponsesGenerated.WithLabelValues(string(topic)).Inc()
	metrics.ResponseLatency.WithLabelValues(string(topic)).Observe(took.Seconds())
	s.opts.Observability.RecordTurn(ctx, s.surface.ID, string(topic), took)
	s.log.Info("turn appended", map[string]interface{}{
		"turnId": turn.ID,
		"topic":  string(topic),
		"index":  index,
	})

	wait()
	s.archive(turn)
	release()
	s.reveal(ctx, gen, &active)
}

// reveal exposes recommendation cards one at a time. It stops as soon as the
// displayed response changes or the request is superseded.
func (s *Session) reveal(ctx context.Context, gen uint64, active *models.Response) {
	if s.opts.RevealInterval <= 0 {
		return
	}
	for i := 1; i <= len(active.Recommendations); i++ {
		if !sleep(ctx, s.opts.RevealInterval) {
			return
		}
		s.mu.Lock()
		if s.closed || gen != s.gen || s.active != active {
			s.mu.Unlock()
			return
		}
		s.revealed = i
		s.publishLocked()
		s.mu.Unlock()
	}
}

func (s *Session) archive(turn models.ConversationTurn) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SinkTimeout)
	defer cancel()

	rec := transcript.Record{
		TurnID:    turn.ID,
		SessionID: s.id,
		SurfaceID: s.surface.ID,
		Question:  turn.Question,
		Topic:     turn.Topic,
		Intent:    analyzer.Analyze(turn.Question),
		Response:  turn.Response,
		Timestamp: turn.Timestamp,
	}
	if err := s.opts.Sink.Append(ctx, rec); err != nil {
		s.log.Error("transcript append failed", map[string]interface{}{"turnId": turn.ID, "error": err.Error()})
	}
}

// SelectHistoryIndex shows an earlier response. Out-of-range indexes are ignored.
func (s *Session) SelectHistoryIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || i < 0 || i >= len(s.history) {
		return
	}
	s.currentIndex = i
	active := s.history[i].Response.Clone()
	s.active = &active
	s.revealed = len(active.Recommendations)
	s.minimized = true
	s.publishLocked()
}

// ClearActiveResponse returns the surface to its blank state; history is kept.
func (s *Session) ClearActiveResponse() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.active == nil {
		return
	}
	s.active = nil
	s.revealed = 0
	s.publishLocked()
}

// ClearHistory drops every turn and cancels any question still awaiting its
// response.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	s.history = nil
	s.currentIndex = -1
	s.active = nil
	s.revealed = 0
	s.awaiting = false
	s.pending = ""
	s.minimized = false
	wait, release := s.queueSinkLocked()
	s.publishLocked()
	s.mu.Unlock()

	wait()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SinkTimeout)
	defer cancel()
	if err := s.opts.Sink.Clear(ctx, s.id); err != nil {
		s.log.Error("transcript clear failed", map[string]interface{}{"error": err.Error()})
	}
	s.log.Info("history cleared", nil)
}

// queueSinkLocked reserves the next transcript slot. wait blocks until every
// earlier slot is released; release must be called once the write is done.
// Callers hold s.mu.
func (s *Session) queueSinkLocked() (wait func(), release func()) {
	prev := s.sinkTail
	next := make(chan struct{})
	s.sinkTail = next
	wait = func() {
		if prev != nil {
			<-prev
		}
	}
	release = func() { close(next) }
	return wait, release
}

func (s *Session) ToggleMinimized() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.minimized = !s.minimized
	s.publishLocked()
}

// Close disposes the session. Pending work is cancelled and never applied.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.stopLocked()
	s.closed = true
	s.awaiting = false
	s.pending = ""
	s.publishLocked()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.log.Info("session closed", nil)
}

// stopLocked invalidates in-flight work. Callers hold s.mu.
func (s *Session) stopLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// WaitIdle blocks until the current request, including its card reveal, has
// finished or been cancelled.
func (s *Session) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:                      s.id,
		SurfaceID:               s.surface.ID,
		History:                 make([]models.ConversationTurn, len(s.history)),
		CurrentIndex:            s.currentIndex,
		RevealedRecommendations: s.revealed,
		IsMinimized:             s.minimized,
		IsAwaitingResponse:      s.awaiting,
		PendingQuestion:         s.pending,
		Closed:                  s.closed,
	}
	copy(snap.History, s.history)
	if s.active != nil {
		active := s.active.Clone()
		snap.ActiveResponse = &active
	}
	return snap
}

// Subscribe delivers a snapshot after every state change. The channel holds
// only the latest snapshot; slow readers skip intermediate states. The
// returned func unsubscribes.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

func (s *Session) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// latencyFor picks a stable delay in [MinLatency, MaxLatency] from the question text.
func (s *Session) latencyFor(question string) time.Duration {
	span := s.opts.MaxLatency - s.opts.MinLatency
	if span <= 0 {
		return s.opts.MinLatency
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(question))
	return s.opts.MinLatency + time.Duration(uint64(h.Sum32())%uint64(span+1))
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
