// Package transcript copies answered conversation turns to external stores.
//
// Sessions keep their history in memory and remain the source of truth; a
// sink is a write-behind copy used for analytics and search.
package transcript

import (
	"context"
	"errors"
	"time"

	apperrors "marigold-copilot/internal/common/errors"
	"marigold-copilot/internal/common/metrics"
	"marigold-copilot/internal/models"
)

// Record is one answered turn as written to a sink.
type Record struct {
	TurnID    string          `json:"turnId"`
	SessionID string          `json:"sessionId"`
	SurfaceID string          `json:"surfaceId"`
	Question  string          `json:"question"`
	Topic     string          `json:"topic"`
	Intent    models.Intent   `json:"intent"`
	Response  models.Response `json:"response"`
	Timestamp time.Time       `json:"timestamp"`
}

type Sink interface {
	Append(ctx context.Context, rec Record) error
	// Clear drops every record of a session.
	Clear(ctx context.Context, sessionID string) error
}

type namedSink struct {
	name string
	sink Sink
}

// Fanout writes to every registered sink and joins their errors. A failing
// sink does not stop the others.
type Fanout struct {
	sinks []namedSink
}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Add registers sink under name; name labels failure metrics and errors.
func (f *Fanout) Add(name string, sink Sink) *Fanout {
	f.sinks = append(f.sinks, namedSink{name: name, sink: sink})
	return f
}

func (f *Fanout) Len() int { return len(f.sinks) }

func (f *Fanout) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.sink.Append(ctx, rec); err != nil {
			metrics.TranscriptFailures.WithLabelValues(s.name).Inc()
			errs = append(errs, apperrors.NewTranscriptWriteFailedError(s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) Clear(ctx context.Context, sessionID string) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.sink.Clear(ctx, sessionID); err != nil {
			metrics.TranscriptFailures.WithLabelValues(s.name).Inc()
			errs = append(errs, apperrors.NewTranscriptWriteFailedError(s.name, err))
		}
	}
	return errors.Join(errs...)
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Append(context.Context, Record) error { return nil }
func (Discard) Clear(context.Context, string) error  { return nil }
