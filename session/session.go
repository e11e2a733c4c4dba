// Package session ties a logged-in principal to the in-memory state built
// for them. A Session is constructed at login, loading both collections
// from the store, and torn down at logout. The tracker outlives sessions:
// requests are process-scoped so that recipients see requests created
// before they ever logged in.
package session

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/aurigandrea/consentd/external/ipify"
	"github.com/aurigandrea/consentd/ledger"
	"github.com/aurigandrea/consentd/schema"
	"github.com/aurigandrea/consentd/store"
	"github.com/aurigandrea/consentd/tracker"
)

type Session struct {
	Principal schema.Principal
	Ledger    *ledger.Ledger
	Tracker   *tracker.Tracker
}

type Manager struct {
	mu      sync.RWMutex
	store   *store.Store
	tracker *tracker.Tracker
	origin  *ipify.Resolver
	current *Session
}

// NewManager subscribes to the provider's login/logout events and adopts
// an already-authenticated principal if there is one. origin may be nil.
func NewManager(s *store.Store, t *tracker.Tracker, origin *ipify.Resolver, provider Provider) *Manager {
	m := &Manager{
		store:   s,
		tracker: t,
		origin:  origin,
	}

	provider.OnLogin(m.handleLogin)
	provider.OnLogout(m.handleLogout)
	if p := provider.CurrentPrincipal(); p != nil {
		m.handleLogin(*p)
	}

	return m
}

// Current returns the active session, or nil when nobody is logged in.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) handleLogin(principal schema.Principal) {
	m.mu.Lock()
	m.current = &Session{
		Principal: principal,
		Ledger:    ledger.New(m.store, principal),
		Tracker:   m.tracker,
	}
	m.mu.Unlock()

	if m.origin != nil {
		go m.origin.Refresh()
	}

	log.WithField("prefix", "session").WithField("principal", principal.Email).Info("session started")
}

func (m *Manager) handleLogout() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	log.WithField("prefix", "session").Info("session ended")
}
