// ABOUTME: Observable authentication session
// ABOUTME: Drives sign-in, guest entry and logout and notifies subscribers of changes
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ujokes/ujokes-go/internal/store"
)

const profileKey = "auth:profile"

// Provider is the identity provider boundary
type Provider interface {
	SignIn(ctx context.Context) (Profile, error)
	SignOut(ctx context.Context) error
}

// KV persists the signed-in profile between runs
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Session holds the current State and fans changes out to subscribers
type Session struct {
	provider Provider
	kv       KV
	log      zerolog.Logger

	mu      sync.Mutex
	state   State
	ready   bool
	nextID  int
	subs    map[int]func(State)
	closed  bool
	signing bool
}

// NewSession creates a session; kv may be nil to skip persistence
func NewSession(provider Provider, kv KV, log zerolog.Logger) *Session {
	return &Session{
		provider: provider,
		kv:       kv,
		log:      log.With().Str("component", "auth").Logger(),
		subs:     make(map[int]func(State)),
	}
}

// Start restores a persisted sign-in and publishes the first state
func (s *Session) Start(ctx context.Context) State {
	st := State{Kind: Unauthenticated}

	if s.kv != nil {
		raw, err := s.kv.Get(ctx, profileKey)
		switch {
		case err == nil:
			var p Profile
			if err := json.Unmarshal(raw, &p); err == nil && p.UID != "" {
				st = State{Kind: Authenticated, Profile: p, SessionID: uuid.NewString()}
				s.log.Info().Str("uid", p.UID).Msg("restored sign-in")
			}
		case !errors.Is(err, store.ErrNotFound):
			s.log.Warn().Err(err).Msg("failed to restore sign-in")
		}
	}

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	s.publish(st)
	return st
}

// Subscribe registers fn for state changes. If the session has started, fn is
// called immediately with the current state. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	ready, current := s.ready, s.state
	s.mu.Unlock()

	if ready {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SignIn runs the provider flow. On failure the state is left unauthenticated
// and the returned error can be passed to Describe.
func (s *Session) SignIn(ctx context.Context) error {
	s.mu.Lock()
	if s.signing {
		s.mu.Unlock()
		return &Error{Code: CodeInternal, Message: "sign-in already in progress"}
	}
	s.signing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.signing = false
		s.mu.Unlock()
	}()

	if s.provider == nil {
		return &Error{Code: CodeOperationNotAllowed, Message: "no identity provider configured"}
	}

	profile, err := s.provider.SignIn(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("code", CodeOf(err)).Msg("sign-in failed")
		return err
	}

	if s.kv != nil {
		if raw, err := json.Marshal(profile); err == nil {
			if err := s.kv.Set(ctx, profileKey, raw); err != nil {
				s.log.Warn().Err(err).Msg("failed to persist sign-in")
			}
		}
	}

	s.log.Info().Str("uid", profile.UID).Msg("signed in")
	s.publish(State{Kind: Authenticated, Profile: profile, SessionID: uuid.NewString()})
	return nil
}

// EnterGuest switches to guest mode without contacting the provider
func (s *Session) EnterGuest() {
	s.log.Info().Msg("entering guest mode")
	s.publish(State{Kind: Guest, SessionID: uuid.NewString()})
}

// Logout returns to the unauthenticated state from guest or authenticated
func (s *Session) Logout(ctx context.Context) error {
	prev := s.State()

	var err error
	if prev.Kind == Authenticated {
		if s.provider != nil {
			if serr := s.provider.SignOut(ctx); serr != nil {
				err = fmt.Errorf("sign out: %w", serr)
			}
		}
		if s.kv != nil {
			if derr := s.kv.Delete(ctx, profileKey); derr != nil {
				s.log.Warn().Err(derr).Msg("failed to clear persisted sign-in")
			}
		}
	}

	s.log.Info().Str("from", prev.Kind.String()).Msg("logged out")
	s.publish(State{Kind: Unauthenticated})
	return err
}

// Close drops all subscribers
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.subs = make(map[int]func(State))
	s.mu.Unlock()
}

func (s *Session) publish(st State) {
	s.mu.Lock()
	s.state = st
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
