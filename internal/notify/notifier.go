// Package notify polls the API for projects and raises one-shot reminders
// for deadlines inside the alert window.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/tasktrack/internal/api"
	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/session"
)

// State is the notifier lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePolling
	StateStopped
)

// PollInterval is the default time between fetch cycles.
const PollInterval = 60 * time.Second

// fetchTimeout is the maximum time allowed for a single fetch.
const fetchTimeout = 30 * time.Second

// ProjectLister is the slice of the API client the notifier needs.
type ProjectLister interface {
	ListProjects(ctx context.Context, token string) ([]model.Project, error)
}

// Alert is one dispatched one-shot reminder. Each carries a unique id so
// consumers can tell a re-alert after a deadline change apart from the
// alert it replaces.
type Alert struct {
	ID         string
	ProjectID  int
	Title      string
	Deadline   time.Time
	FiredAt    time.Time
	Supersedes string
}

// ResultMsg is a tea.Msg sent when a poll cycle completes.
type ResultMsg struct {
	// Reminders is the filtered, deadline-ordered, urgency-classified list.
	Reminders []Reminder

	// Alerts holds the one-shot alerts this cycle dispatched.
	Alerts []Alert

	// Err is set when the fetch failed. Polling continues regardless.
	Err error

	// AuthError marks Err as session-invalidating: the owner should clear
	// the session store and stop the notifier.
	AuthError bool
}

// firedRecord marks that a project has already alerted for a given deadline
// value. Process-local only; a changed deadline invalidates the record.
type firedRecord struct {
	id       string
	deadline time.Time
	firedAt  time.Time
}

// Notifier is the long-lived polling process behind the notifications
// screen. All cycles run on a single goroutine, so a slow fetch suppresses
// the next tick rather than overlapping with it.
type Notifier struct {
	client   ProjectLister
	sessions session.Store
	sink     Sink
	interval time.Duration
	now      func() time.Time

	resultCh  chan ResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      sync.Mutex
	state   State
	lastErr error
	fired   map[int]firedRecord
}

// New creates a notifier. An interval of zero uses PollInterval.
func New(client ProjectLister, sessions session.Store, sink Sink, interval time.Duration) *Notifier {
	if interval <= 0 {
		interval = PollInterval
	}
	return &Notifier{
		client:    client,
		sessions:  sessions,
		sink:      sink,
		interval:  interval,
		now:       time.Now,
		resultCh:  make(chan ResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		fired:     make(map[int]firedRecord),
	}
}

// Start transitions Idle -> Polling, runs one cycle immediately, and
// schedules recurring cycles. The returned command subscribes the Bubble
// Tea runtime to cycle results. Starting a notifier that is already
// polling or stopped is a no-op.
func (n *Notifier) Start() tea.Cmd {
	n.mu.Lock()
	if n.state != StateIdle {
		n.mu.Unlock()
		return nil
	}
	n.state = StatePolling
	n.mu.Unlock()

	go n.loop()

	return n.waitForResult()
}

// Stop transitions to Stopped and cancels the pending cycle. Idempotent:
// repeated calls leave the notifier stopped with one cancellation performed.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == StatePolling {
		close(n.stopCh)
	}
	n.state = StateStopped
}

// RefreshNow requests an extra cycle without waiting for the next tick.
func (n *Notifier) RefreshNow() {
	select {
	case n.triggerCh <- struct{}{}:
	default:
		// A refresh is already pending.
	}
}

// State returns the current lifecycle state.
func (n *Notifier) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// LastError returns the error recorded by the most recent cycle, or nil.
func (n *Notifier) LastError() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastErr
}

// loop runs all cycles on one goroutine until Stop.
func (n *Notifier) loop() {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.cycle()

	for {
		select {
		case <-n.stopCh:
			return
		case <-ticker.C:
			n.cycle()
		case <-n.triggerCh:
			n.cycle()
		}
	}
}

// cycle performs one fetch-filter-dispatch pass. Errors are recorded and
// reported but never halt polling.
func (n *Notifier) cycle() {
	// A Stop that landed while a fetch was pending must not produce a
	// late cycle.
	select {
	case <-n.stopCh:
		return
	default:
	}

	sess := n.sessions.Get()
	if !sess.Authenticated() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	projects, err := n.client.ListProjects(ctx, sess.Token)
	if err != nil {
		n.setLastError(err)
		n.sendResult(ResultMsg{Err: err, AuthError: api.IsAuthError(err)})
		return
	}

	now := n.now()
	reminders := UpcomingReminders(projects, now)
	alerts := n.dispatch(reminders, now)

	n.setLastError(nil)
	n.sendResult(ResultMsg{Reminders: reminders, Alerts: alerts})
}

// dispatch sends at most one alert per project per deadline value, for
// projects due within the urgent window.
func (n *Notifier) dispatch(reminders []Reminder, now time.Time) []Alert {
	n.mu.Lock()
	defer n.mu.Unlock()

	var alerts []Alert
	for _, r := range reminders {
		if r.Urgency != UrgencyUrgent {
			continue
		}

		p := r.Project
		deadline := p.Deadline.Time
		supersedes := ""
		if rec, ok := n.fired[p.ID]; ok {
			if rec.deadline.Equal(deadline) {
				continue
			}
			supersedes = rec.id
		}

		body := fmt.Sprintf("%q is due in %d hours", p.Title, int(r.Remaining.Hours()))
		if err := n.sink.Send("Project Deadline Reminder", body); err != nil {
			// Denied or failed delivery leaves no record, so a later
			// permission grant can still alert for this deadline.
			continue
		}

		id := uuid.NewString()
		n.fired[p.ID] = firedRecord{
			id:       id,
			deadline: deadline,
			firedAt:  now,
		}
		alerts = append(alerts, Alert{
			ID:         id,
			ProjectID:  p.ID,
			Title:      p.Title,
			Deadline:   deadline,
			FiredAt:    now,
			Supersedes: supersedes,
		})
	}

	return alerts
}

func (n *Notifier) setLastError(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastErr = err
}

// sendResult sends without blocking; a full channel drops the result
// rather than stalling the poll loop.
func (n *Notifier) sendResult(msg ResultMsg) {
	select {
	case n.resultCh <- msg:
	default:
	}
}

// waitForResult returns a tea.Cmd that waits for the next cycle result.
func (n *Notifier) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-n.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult re-subscribes after a ResultMsg has been processed.
func (n *Notifier) WaitForNextResult() tea.Cmd {
	return n.waitForResult()
}
