package upload

import (
	"context"
	"strings"
	"sync"

	"github.com/arloliu/epiload/filereader"
	"go.uber.org/zap"
)

// DefaultMaxErrors is the default capacity of a Session's error list.
const DefaultMaxErrors = 100

// ErrorList is a bounded list of user-facing messages.
// When full, appending drops the oldest entries.
type ErrorList struct {
	limit   int
	items   []string
	dropped int
}

// NewErrorList returns an empty list holding at most limit messages.
// A limit below 1 uses DefaultMaxErrors.
func NewErrorList(limit int) *ErrorList {
	if limit < 1 {
		limit = DefaultMaxErrors
	}

	return &ErrorList{limit: limit}
}

// Append adds msgs in order.
func (l *ErrorList) Append(msgs ...string) {
	l.items = append(l.items, msgs...)
	if over := len(l.items) - l.limit; over > 0 {
		l.items = append(l.items[:0:0], l.items[over:]...)
		l.dropped += over
	}
}

// Reset empties the list and the dropped counter.
func (l *ErrorList) Reset() {
	l.items = nil
	l.dropped = 0
}

// Items returns a copy of the messages, oldest first.
func (l *ErrorList) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)

	return out
}

// Len returns the number of messages held.
func (l *ErrorList) Len() int { return len(l.items) }

// Dropped returns how many messages were discarded since the last Reset.
func (l *ErrorList) Dropped() int { return l.dropped }

// Session owns the visible error list of one open upload dialog.
type Session struct {
	pipeline *Pipeline
	logger   *zap.Logger

	mu     sync.Mutex
	errors *ErrorList
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxErrors bounds the visible error list.
func WithMaxErrors(n int) SessionOption {
	return func(s *Session) {
		s.errors = NewErrorList(n)
	}
}

// WithSessionLogger sets the logger used for failure warnings.
// Default is the pipeline's logger.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a Session driving p.
func NewSession(p *Pipeline, opts ...SessionOption) *Session {
	s := &Session{
		pipeline: p,
		logger:   p.opts.logger,
		errors:   NewErrorList(DefaultMaxErrors),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Drop handles one drop event.
//
// The visible list is cleared, then the pipeline runs. A known failure adds
// its messages to the list and Drop returns nil. A success clears the list
// again. Any other error is returned to the caller and leaves the list empty.
func (s *Session) Drop(ctx context.Context, accepted []filereader.File, rejected []Rejection) error {
	s.reset()

	err := s.pipeline.Process(ctx, accepted, rejected)
	if err == nil {
		s.reset()

		return nil
	}

	ue, ok := AsError(err)
	if !ok {
		s.logger.Error("unexpected upload failure", zap.Error(err))

		return err
	}

	msgs := ue.Messages()
	s.mu.Lock()
	s.errors.Append(msgs...)
	s.mu.Unlock()

	s.logger.Warn("scenario upload failed\n"+dashList(msgs),
		zap.Stringer("kind", ue.Kind),
		zap.Int("messages", len(msgs)),
	)

	return nil
}

// Errors returns the visible messages, oldest first.
func (s *Session) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.errors.Items()
}

// Dropped returns how many messages overflowed the list since the last attempt.
func (s *Session) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.errors.Dropped()
}

// State returns the pipeline state.
func (s *Session) State() State {
	return s.pipeline.State()
}

func (s *Session) reset() {
	s.mu.Lock()
	s.errors.Reset()
	s.mu.Unlock()
}

// dashList renders msgs one per line, each prefixed with "- ".
func dashList(msgs []string) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(m)
	}

	return b.String()
}
