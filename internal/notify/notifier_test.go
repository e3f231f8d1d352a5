package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nhle/tasktrack/internal/api"
	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/session"
)

type fakeLister struct {
	mu       sync.Mutex
	projects []model.Project
	err      error
	calls    int
}

func (f *fakeLister) ListProjects(ctx context.Context, token string) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Project, len(f.projects))
	copy(out, f.projects)
	return out, nil
}

func (f *fakeLister) setProjects(projects []model.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = projects
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestNotifier(t *testing.T, lister *fakeLister, sink Sink) *Notifier {
	t.Helper()

	store := session.NewMemoryStore()
	if err := store.Set(session.Session{Token: "t1", User: &model.User{ID: 1}}); err != nil {
		t.Fatalf("seeding session store: %v", err)
	}

	n := New(lister, store, sink, time.Minute)
	n.now = func() time.Time { return testNow }
	return n
}

func lastResult(t *testing.T, n *Notifier) ResultMsg {
	t.Helper()
	select {
	case msg := <-n.resultCh:
		return msg
	default:
		t.Fatalf("no result pending")
		return ResultMsg{}
	}
}

func TestCycleDispatchesWithinUrgentWindow(t *testing.T) {
	lister := &fakeLister{projects: []model.Project{
		projectDueIn(1, 10*time.Hour, testNow),
		projectDueIn(2, 50*time.Hour, testNow),
	}}
	sink := NewMemorySink()
	n := newTestNotifier(t, lister, sink)

	n.cycle()

	msg := lastResult(t, n)
	if msg.Err != nil {
		t.Fatalf("cycle error: %v", msg.Err)
	}
	if len(msg.Reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(msg.Reminders))
	}
	if len(msg.Alerts) != 1 {
		t.Fatalf("only the urgent project should alert, got %d", len(msg.Alerts))
	}
	if sent := sink.Sent(); len(sent) != 1 || sent[0].Title != "Project Deadline Reminder" {
		t.Fatalf("unexpected alerts: %v", sent)
	}
}

func TestRepollWithoutDeadlineChangeAlertsOnce(t *testing.T) {
	lister := &fakeLister{projects: []model.Project{
		projectDueIn(1, 10*time.Hour, testNow),
	}}
	sink := NewMemorySink()
	n := newTestNotifier(t, lister, sink)

	n.cycle()
	n.cycle()
	n.cycle()

	if sent := sink.Sent(); len(sent) != 1 {
		t.Fatalf("expected exactly 1 alert across repeated polls, got %d", len(sent))
	}
}

func TestDeadlineChangeReopensAlert(t *testing.T) {
	lister := &fakeLister{projects: []model.Project{
		projectDueIn(1, 10*time.Hour, testNow),
	}}
	sink := NewMemorySink()
	n := newTestNotifier(t, lister, sink)

	n.cycle()
	if len(sink.Sent()) != 1 {
		t.Fatalf("expected initial alert")
	}

	// The deadline moves but stays inside the urgent window.
	lister.setProjects([]model.Project{projectDueIn(1, 5*time.Hour, testNow)})
	n.cycle()
	n.cycle()

	if sent := sink.Sent(); len(sent) != 2 {
		t.Fatalf("a changed deadline should permit exactly one new alert, got %d total", len(sent))
	}
}

func TestAlertsCarryRecordIdentity(t *testing.T) {
	lister := &fakeLister{projects: []model.Project{
		projectDueIn(1, 10*time.Hour, testNow),
	}}
	sink := NewMemorySink()
	n := newTestNotifier(t, lister, sink)

	n.cycle()
	first := lastResult(t, n)
	if len(first.Alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(first.Alerts))
	}
	a := first.Alerts[0]
	if a.ID == "" {
		t.Fatalf("alert must carry a record id")
	}
	if a.ProjectID != 1 || !a.FiredAt.Equal(testNow) {
		t.Fatalf("unexpected alert record: %+v", a)
	}
	if a.Supersedes != "" {
		t.Fatalf("a first alert supersedes nothing, got %q", a.Supersedes)
	}

	// A moved deadline produces a fresh record that names its predecessor.
	lister.setProjects([]model.Project{projectDueIn(1, 5*time.Hour, testNow)})
	n.cycle()
	second := lastResult(t, n)
	if len(second.Alerts) != 1 {
		t.Fatalf("expected 1 re-alert, got %d", len(second.Alerts))
	}
	b := second.Alerts[0]
	if b.ID == "" || b.ID == a.ID {
		t.Fatalf("re-alert must carry a new record id, got %q then %q", a.ID, b.ID)
	}
	if b.Supersedes != a.ID {
		t.Fatalf("re-alert should supersede %q, got %q", a.ID, b.Supersedes)
	}
}

func TestDisabledProjectNeverAlerts(t *testing.T) {
	p := projectDueIn(1, time.Hour, testNow)
	p.NotificationsEnabled = false

	lister := &fakeLister{projects: []model.Project{p}}
	sink := NewMemorySink()
	n := newTestNotifier(t, lister, sink)

	n.cycle()

	if len(sink.Sent()) != 0 {
		t.Fatalf("disabled project must not alert regardless of proximity")
	}
	msg := lastResult(t, n)
	if len(msg.Reminders) != 0 {
		t.Fatalf("disabled project must not appear in reminders")
	}
}

func TestDeniedSinkLeavesNoRecord(t *testing.T) {
	lister := &fakeLister{projects: []model.Project{
		projectDueIn(1, 10*time.Hour, testNow),
	}}
	sink := NewMemorySink()
	sink.Deny()
	n := newTestNotifier(t, lister, sink)

	n.cycle()
	if len(sink.Sent()) != 0 {
		t.Fatalf("denied sink must not deliver")
	}

	// Granting permission later still produces the alert for this deadline.
	_ = sink.Enable()
	n.cycle()
	if len(sink.Sent()) != 1 {
		t.Fatalf("expected alert after permission grant, got %d", len(sink.Sent()))
	}
}

func TestFailedCycleKeepsPolling(t *testing.T) {
	lister := &fakeLister{err: &api.ServerError{StatusCode: 500, Message: "boom"}}
	sink := NewMemorySink()
	n := newTestNotifier(t, lister, sink)
	n.state = StatePolling

	n.cycle()

	msg := lastResult(t, n)
	if msg.Err == nil {
		t.Fatalf("expected cycle error")
	}
	if msg.AuthError {
		t.Fatalf("a server error is not an auth error")
	}
	if n.State() != StatePolling {
		t.Fatalf("a failed cycle must not stop polling")
	}
	if n.LastError() == nil {
		t.Fatalf("expected last error recorded")
	}

	// The next successful cycle recovers.
	lister.mu.Lock()
	lister.err = nil
	lister.mu.Unlock()
	n.cycle()
	if n.LastError() != nil {
		t.Fatalf("expected last error cleared, got %v", n.LastError())
	}
}

func TestAuthErrorIsFlagged(t *testing.T) {
	lister := &fakeLister{err: &api.AuthError{StatusCode: 401, Message: "expired"}}
	n := newTestNotifier(t, lister, NewMemorySink())

	n.cycle()

	msg := lastResult(t, n)
	if !msg.AuthError {
		t.Fatalf("a 401 must be surfaced as session-invalidating")
	}
}

func TestNoFetchWithoutSession(t *testing.T) {
	lister := &fakeLister{}
	store := session.NewMemoryStore()
	n := New(lister, store, NewMemorySink(), time.Minute)

	n.cycle()

	if lister.callCount() != 0 {
		t.Fatalf("no authenticated call may happen without a token")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	lister := &fakeLister{}
	n := newTestNotifier(t, lister, NewMemorySink())

	if cmd := n.Start(); cmd == nil {
		t.Fatalf("Start from Idle should return a subscription command")
	}
	if n.State() != StatePolling {
		t.Fatalf("expected Polling after Start, got %v", n.State())
	}

	n.Stop()
	n.Stop()

	if n.State() != StateStopped {
		t.Fatalf("expected Stopped, got %v", n.State())
	}
	if cmd := n.Start(); cmd != nil {
		t.Fatalf("a stopped notifier must not restart")
	}
}

func TestStopFromIdle(t *testing.T) {
	n := newTestNotifier(t, &fakeLister{}, NewMemorySink())
	n.Stop()
	if n.State() != StateStopped {
		t.Fatalf("expected Stopped, got %v", n.State())
	}
}
