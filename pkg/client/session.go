package client

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Authenticator is the auth provider capability the SessionStore wraps.
type Authenticator interface {
	Session(ctx context.Context) (*Identity, error)
	SignOut(ctx context.Context) error
	Subscribe(fn func(*Identity)) func()
}

// SessionStore holds the current identity. It only changes in response to
// the auth provider's notifications.
type SessionStore struct {
	auth   Authenticator
	cache  *QueryCache
	nav    Navigator
	notify Notifier

	mu          sync.RWMutex
	identity    *Identity
	loading     bool
	unsubscribe func()

	listenerMu sync.Mutex
	listeners  []func(*Identity)
}

func NewSessionStore(auth Authenticator, cache *QueryCache, nav Navigator, notify Notifier) *SessionStore {
	if notify == nil {
		notify = discardNotifier{}
	}
	return &SessionStore{auth: auth, cache: cache, nav: nav, notify: notify, loading: true}
}

// Start resolves any persisted session and subscribes to session changes
// until Close.
func (s *SessionStore) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.unsubscribe == nil {
		s.unsubscribe = s.auth.Subscribe(s.set)
	}
	s.mu.Unlock()

	identity, err := s.auth.Session(ctx)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		s.set(nil)
		return notifyErr(s.notify, err)
	}
	s.set(identity)
	return nil
}

func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *SessionStore) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers fn for identity changes, including the initial
// resolution in Start.
func (s *SessionStore) Subscribe(fn func(*Identity)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SignOut invalidates the remote session first. On failure the identity is
// left as it was and ErrAuth is returned. On success the query cache is
// cleared and the view moves to the login route.
func (s *SessionStore) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		return notifyErr(s.notify, err)
	}

	// Providers that do not notify on sign-out still end up signed out here.
	if s.Identity() != nil {
		s.set(nil)
	}
	if s.cache != nil {
		s.cache.Clear()
	}
	if s.nav != nil {
		s.nav.Navigate(RouteLogin)
	}
	return nil
}

func (s *SessionStore) set(identity *Identity) {
	s.mu.Lock()
	changed := identityID(s.identity) != identityID(identity)
	s.identity = identity
	s.mu.Unlock()

	// Cached queries belong to the identity that issued them.
	if changed && s.cache != nil {
		s.cache.Clear()
	}

	s.listenerMu.Lock()
	listeners := slices.Clone(s.listeners)
	s.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(identity)
	}
}

func identityID(identity *Identity) uuid.UUID {
	if identity == nil {
		return uuid.Nil
	}
	return identity.ID
}
