package hook

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/autoslack/pkg/domain/model"
)

// Handler is a function tapped into a hook
type Handler[T any] func(ctx context.Context, v T) error

type tap[T any] struct {
	name    string
	handler Handler[T]
}

// AsyncSeries is a hook whose taps run one after another in registration
// order. The caller of Promise waits for all of them.
type AsyncSeries[T any] struct {
	mu   sync.RWMutex
	taps []tap[T]
}

// NewAsyncSeries creates an empty hook
func NewAsyncSeries[T any]() *AsyncSeries[T] {
	return &AsyncSeries[T]{}
}

// Tap registers handler under name
func (h *AsyncSeries[T]) Tap(name string, handler Handler[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, tap[T]{name: name, handler: handler})
}

// Taps returns tap names in registration order
func (h *AsyncSeries[T]) Taps() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.taps))
	for _, t := range h.taps {
		names = append(names, t.name)
	}
	return names
}

// Promise runs every tap with v and stops at the first error.
func (h *AsyncSeries[T]) Promise(ctx context.Context, v T) error {
	h.mu.RLock()
	taps := make([]tap[T], len(h.taps))
	copy(taps, h.taps)
	h.mu.RUnlock()

	for _, t := range taps {
		if err := t.handler(ctx, v); err != nil {
			return goerr.Wrap(err, "hook handler failed", goerr.V("tap", t.name))
		}
	}
	return nil
}

// Hooks is the set of lifecycle hooks a host exposes to plugins
type Hooks struct {
	AfterRelease *AsyncSeries[*model.ReleaseEvent]
}

// New creates a Hooks with every hook initialized
func New() *Hooks {
	return &Hooks{
		AfterRelease: NewAsyncSeries[*model.ReleaseEvent](),
	}
}
