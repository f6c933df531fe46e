package asnmap

import (
	"sync"
	"time"

	"github.com/asnmap/asnmap/pkg/types"
)

// SourceReport describes one source after it was applied.
type SourceReport struct {
	Source   types.SourceID
	Priority int
	Entries  int           // ASNs the source supplied
	Total    int           // ASNs accumulated after applying it
	Duration time.Duration // fetch and parse time
}

// Hook function types for resolve events
type (
	// SourceLoadedHook is called after a source is fetched, parsed and applied
	SourceLoadedHook func(report SourceReport)

	// SourceStartedHook is called before a source is fetched
	SourceStartedHook func(source types.SourceID, identifiers []string)
)

// hooks manages event callbacks for a resolve run
type hooks struct {
	mu              sync.RWMutex
	onSourceStarted []SourceStartedHook
	onSourceLoaded  []SourceLoadedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnSourceStarted registers a callback for when a source starts loading
func (h *hooks) OnSourceStarted(fn SourceStartedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSourceStarted = append(h.onSourceStarted, fn)
}

// OnSourceLoaded registers a callback for when a source has been applied
func (h *hooks) OnSourceLoaded(fn SourceLoadedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSourceLoaded = append(h.onSourceLoaded, fn)
}

func (h *hooks) triggerStarted(source types.SourceID, identifiers []string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onSourceStarted {
		hook(source, identifiers)
	}
}

func (h *hooks) triggerLoaded(report SourceReport) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onSourceLoaded {
		hook(report)
	}
}
