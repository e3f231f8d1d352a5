package notify

import (
	"errors"
	"sync"

	"github.com/gen2brain/beeep"
)

// ErrDenied is returned by Send when the user has not enabled alerts.
var ErrDenied = errors.New("notifications not enabled")

// Sink delivers one-shot alerts outside the TUI. Send returns ErrDenied
// until Enable has been called, mirroring a permission-gated notification
// capability.
type Sink interface {
	Enabled() bool
	Enable() error
	Send(title, body string) error
}

// DesktopSink posts OS desktop notifications.
type DesktopSink struct {
	mu      sync.Mutex
	enabled bool
}

// NewDesktopSink creates a desktop sink. Alerts stay off until Enable.
func NewDesktopSink() *DesktopSink {
	return &DesktopSink{}
}

// Enabled reports whether alerts may be sent.
func (s *DesktopSink) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Enable turns on alert delivery.
func (s *DesktopSink) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	return nil
}

// Send posts a desktop notification, or ErrDenied when not enabled.
func (s *DesktopSink) Send(title, body string) error {
	if !s.Enabled() {
		return ErrDenied
	}
	return beeep.Notify(title, body, "")
}

// SentAlert records one alert delivered through a MemorySink.
type SentAlert struct {
	Title string
	Body  string
}

// MemorySink records alerts in memory for tests.
type MemorySink struct {
	mu      sync.Mutex
	enabled bool
	sent    []SentAlert
}

// NewMemorySink creates a memory sink, enabled by default.
func NewMemorySink() *MemorySink {
	return &MemorySink{enabled: true}
}

func (s *MemorySink) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *MemorySink) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	return nil
}

// Deny turns delivery off so tests can exercise the denied path.
func (s *MemorySink) Deny() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
}

func (s *MemorySink) Send(title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return ErrDenied
	}
	s.sent = append(s.sent, SentAlert{Title: title, Body: body})
	return nil
}

// Sent returns a copy of the alerts delivered so far.
func (s *MemorySink) Sent() []SentAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentAlert, len(s.sent))
	copy(out, s.sent)
	return out
}
