package session

import (
	"testing"

	"github.com/nhle/tasktrack/internal/model"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()

	if got := store.Get(); got.Authenticated() {
		t.Fatalf("new store should hold no session, got token %q", got.Token)
	}

	sess := Session{
		Token: "t1",
		User:  &model.User{ID: 1, Username: "ana", Role: "home"},
	}
	if err := store.Set(sess); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got := store.Get()
	if got.Token != "t1" {
		t.Fatalf("expected token t1, got %q", got.Token)
	}
	if got.User == nil || got.User.ID != 1 || got.User.Role != "home" {
		t.Fatalf("unexpected user: %+v", got.User)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if got := store.Get(); got.Authenticated() || got.User != nil {
		t.Fatalf("expected empty session after Clear, got %+v", got)
	}
}

func TestSetOverwritesPriorSession(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Set(Session{Token: "old", User: &model.User{ID: 1}})
	_ = store.Set(Session{Token: "new", User: &model.User{ID: 2}})

	got := store.Get()
	if got.Token != "new" || got.User.ID != 2 {
		t.Fatalf("expected overwritten session, got %+v", got)
	}
}

func TestSessionRole(t *testing.T) {
	if role := (Session{}).Role(); role != "" {
		t.Fatalf("expected empty role for absent user, got %q", role)
	}

	sess := Session{Token: "t", User: &model.User{Role: "admin"}}
	if role := sess.Role(); role != "admin" {
		t.Fatalf("expected admin, got %q", role)
	}
}
