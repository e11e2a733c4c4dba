package session

import (
	"sync"

	"github.com/aurigandrea/consentd/schema"
)

// Provider is the identity context contract. The actual authentication
// lives outside this service; a provider only has to yield the current
// principal and announce login/logout.
type Provider interface {
	CurrentPrincipal() *schema.Principal
	OnLogin(func(schema.Principal))
	OnLogout(func())
}

// StaticProvider is the built-in provider for the single-user daemon: one
// configured principal, logged in and out programmatically.
type StaticProvider struct {
	mu        sync.Mutex
	principal schema.Principal
	loggedIn  bool
	onLogin   []func(schema.Principal)
	onLogout  []func()
}

func NewStaticProvider(principal schema.Principal) *StaticProvider {
	return &StaticProvider{principal: principal}
}

func (p *StaticProvider) CurrentPrincipal() *schema.Principal {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loggedIn {
		return nil
	}
	principal := p.principal
	return &principal
}

func (p *StaticProvider) OnLogin(fn func(schema.Principal)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onLogin = append(p.onLogin, fn)
}

func (p *StaticProvider) OnLogout(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onLogout = append(p.onLogout, fn)
}

func (p *StaticProvider) Login() {
	p.mu.Lock()
	p.loggedIn = true
	principal := p.principal
	callbacks := append([]func(schema.Principal){}, p.onLogin...)
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(principal)
	}
}

func (p *StaticProvider) Logout() {
	p.mu.Lock()
	p.loggedIn = false
	callbacks := append([]func(){}, p.onLogout...)
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
