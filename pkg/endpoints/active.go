package endpoints

import "sync"

// ActiveTarget holds the currently selected backend url.
//
// It is the only mutable state in the gateway core. It is created once at
// startup and injected into every component that issues backend calls, so
// tests can exercise independent targets without cross-test interference.
// An in-flight request that reads the target before a Set observes the old
// value; the most recent selection wins for subsequently issued calls.
type ActiveTarget struct {
	mu  sync.RWMutex
	url string
}

// NewActiveTarget creates a target store initialized to DefaultEndpoint.
func NewActiveTarget() *ActiveTarget {
	return &ActiveTarget{url: DefaultEndpoint}
}

// Get returns the currently selected backend url.
func (a *ActiveTarget) Get() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.url
}

// Set overwrites the selected backend url unconditionally. No reachability
// or well-formedness validation is performed here; callers that want a
// connectivity check run a probe separately.
func (a *ActiveTarget) Set(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.url = url
}
