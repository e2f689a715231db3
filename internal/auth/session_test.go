// ABOUTME: Tests for the authentication session
// ABOUTME: Covers subscriptions, sign-in failure fallback to guest, logout and restore
package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ujokes/ujokes-go/internal/store"
)

type fakeProvider struct {
	profile  Profile
	err      error
	signOuts int
}

func (f *fakeProvider) SignIn(context.Context) (Profile, error) {
	if f.err != nil {
		return Profile{}, f.err
	}
	return f.profile, nil
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.signOuts++
	return nil
}

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.states))
	for i, s := range r.states {
		out[i] = s.Kind
	}
	return out
}

func newMemStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Options{InMemory: true, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func equalKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSubscribeBeforeStartWaitsForFirstState(t *testing.T) {
	s := NewSession(&fakeProvider{}, nil, zerolog.Nop())
	rec := &recorder{}
	s.Subscribe(rec.record)

	if len(rec.kinds()) != 0 {
		t.Fatal("no state should be delivered before Start")
	}

	s.Start(context.Background())
	if got := rec.kinds(); !equalKinds(got, []Kind{Unauthenticated}) {
		t.Fatalf("unexpected states %v", got)
	}
}

func TestSubscribeAfterStartGetsCurrentState(t *testing.T) {
	s := NewSession(&fakeProvider{}, nil, zerolog.Nop())
	s.Start(context.Background())
	s.EnterGuest()

	rec := &recorder{}
	s.Subscribe(rec.record)
	if got := rec.kinds(); !equalKinds(got, []Kind{Guest}) {
		t.Fatalf("expected immediate guest state, got %v", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := NewSession(&fakeProvider{}, nil, zerolog.Nop())
	s.Start(context.Background())

	rec := &recorder{}
	unsub := s.Subscribe(rec.record)
	unsub()
	unsub() // idempotent

	s.EnterGuest()
	if got := rec.kinds(); len(got) != 1 {
		t.Fatalf("expected only the initial state, got %v", got)
	}
}

func TestCloseDropsSubscribers(t *testing.T) {
	s := NewSession(&fakeProvider{}, nil, zerolog.Nop())
	s.Start(context.Background())
	rec := &recorder{}
	s.Subscribe(rec.record)

	s.Close()
	s.EnterGuest()
	s.Subscribe(rec.record)

	if got := rec.kinds(); len(got) != 1 {
		t.Fatalf("expected no deliveries after Close, got %v", got)
	}
}

func TestSignInSuccess(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	prov := &fakeProvider{profile: Profile{UID: "u1", DisplayName: "Ada", Email: "ada@example.com"}}
	s := NewSession(prov, st, zerolog.Nop())
	s.Start(ctx)

	if err := s.SignIn(ctx); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	state := s.State()
	if state.Kind != Authenticated || state.Profile.UID != "u1" {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.SessionID == "" {
		t.Error("expected a session id")
	}
	if state.Name() != "Ada" {
		t.Errorf("expected name Ada, got %q", state.Name())
	}

	restored := NewSession(prov, st, zerolog.Nop()).Start(ctx)
	if restored.Kind != Authenticated || restored.Profile.DisplayName != "Ada" {
		t.Errorf("expected restored sign-in, got %+v", restored)
	}
}

func TestSignInPopupBlockedThenGuest(t *testing.T) {
	ctx := context.Background()
	prov := &fakeProvider{err: &Error{Code: CodePopupBlocked}}
	s := NewSession(prov, nil, zerolog.Nop())
	s.Start(ctx)

	rec := &recorder{}
	s.Subscribe(rec.record)

	err := s.SignIn(ctx)
	if err == nil {
		t.Fatal("expected sign-in error")
	}
	if b := Describe(err); b.Title != "Popup Blocked!" {
		t.Errorf("expected Popup Blocked! banner, got %q", b.Title)
	}
	if s.State().Kind != Unauthenticated {
		t.Fatalf("state should stay unauthenticated, got %v", s.State().Kind)
	}

	s.EnterGuest()
	if s.State().Kind != Guest {
		t.Fatalf("expected guest, got %v", s.State().Kind)
	}
	if s.State().Name() != "Guest" {
		t.Errorf("unexpected guest name %q", s.State().Name())
	}
	if got := rec.kinds(); !equalKinds(got, []Kind{Unauthenticated, Guest}) {
		t.Errorf("unexpected state sequence %v", got)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	prov := &fakeProvider{profile: Profile{UID: "u1"}}
	s := NewSession(prov, st, zerolog.Nop())
	s.Start(ctx)

	s.EnterGuest()
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if s.State().Kind != Unauthenticated {
		t.Fatalf("expected unauthenticated after guest logout")
	}
	if prov.signOuts != 0 {
		t.Error("guest logout should not call the provider")
	}

	if err := s.SignIn(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if s.State().Kind != Unauthenticated {
		t.Fatalf("expected unauthenticated after logout")
	}
	if prov.signOuts != 1 {
		t.Errorf("expected provider sign-out, got %d", prov.signOuts)
	}
	if _, err := st.Get(ctx, profileKey); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("persisted profile should be cleared, got %v", err)
	}
}

func TestSignInWithoutProvider(t *testing.T) {
	s := NewSession(nil, nil, zerolog.Nop())
	s.Start(context.Background())

	err := s.SignIn(context.Background())
	if CodeOf(err) != CodeOperationNotAllowed {
		t.Fatalf("expected operation-not-allowed, got %v", err)
	}
}
