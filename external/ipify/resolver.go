package ipify

import (
	"context"
	"sync"
)

// Resolver caches the last known public address so that record creation
// never waits on the network. Refresh runs in the background; until the
// first lookup succeeds, Current reports UnknownOrigin.
type Resolver struct {
	mu      sync.RWMutex
	current string
	client  *Client
}

func NewResolver(endpoint string) *Resolver {
	r := &Resolver{
		current: UnknownOrigin,
		client:  New(endpoint),
	}
	go r.Refresh()
	return r
}

// Refresh re-queries the echo endpoint and keeps the previous value when
// the lookup fails.
func (r *Resolver) Refresh() {
	ip := r.client.PublicIP(context.Background())
	if ip == UnknownOrigin {
		return
	}
	r.mu.Lock()
	r.current = ip
	r.mu.Unlock()
}

func (r *Resolver) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
