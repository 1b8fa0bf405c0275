// Package notify holds the transient user-facing message queue. At most one
// notice is visible at a time; a new notice replaces the current one and every
// notice auto-dismisses after a fixed interval.
package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Kind classifies a notice for rendering.
type Kind int

const (
	Success Kind = iota
	Error
)

// Notice is a single transient message.
type Notice struct {
	Kind    Kind
	Message string
	posted  time.Time
}

const defaultTTL = 2500 * time.Millisecond

// Sink coordinates concurrent publishers of notices.
type Sink struct {
	mu      sync.Mutex
	current *Notice
	ttl     time.Duration
	now     func() time.Time
}

// NewSink returns a Sink with the default auto-dismiss interval.
func NewSink() *Sink {
	return &Sink{ttl: defaultTTL, now: time.Now}
}

// Publish replaces the visible notice. Empty messages are dropped.
func (s *Sink) Publish(kind Kind, message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Notice{Kind: kind, Message: trimmed, posted: s.now()}
}

// Successf formats and publishes a success notice.
func (s *Sink) Successf(format string, args ...any) {
	s.Publish(Success, fmt.Sprintf(format, args...))
}

// Errorf formats and publishes an error notice.
func (s *Sink) Errorf(format string, args ...any) {
	s.Publish(Error, fmt.Sprintf(format, args...))
}

// Current returns the visible notice, reporting false once it has expired or
// when nothing was published.
func (s *Sink) Current() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Notice{}, false
	}
	if s.now().Sub(s.current.posted) >= s.ttl {
		s.current = nil
		return Notice{}, false
	}
	return *s.current, true
}

// Dismiss clears the visible notice immediately.
func (s *Sink) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
