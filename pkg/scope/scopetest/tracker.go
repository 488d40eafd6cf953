// Package scopetest provides an Opener that records every handle
// it hands out, so tests can assert that scoped acquisition
// released them.
package scopetest

import (
	"io"
	"os"
	"sync"

	"digital.vasic.koans/pkg/scope"
)

// Tracker wraps an Opener and counts open handles.
type Tracker struct {
	mu       sync.Mutex
	next     scope.Opener
	opened   int
	closed   int
	closeErr error
}

// NewTracker tracks handles produced by next. A nil next opens
// real files.
func NewTracker(next scope.Opener) *Tracker {
	if next == nil {
		next = scope.OS
	}
	return &Tracker{next: next}
}

// FailClose makes every subsequent Close return err after the
// underlying handle is released.
func (t *Tracker) FailClose(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeErr = err
}

// Open satisfies scope.Opener.
func (t *Tracker) Open(name string) (io.ReadCloser, error) {
	rc, err := t.next(name)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.opened++
	t.mu.Unlock()
	return &handle{ReadCloser: rc, t: t}, nil
}

// Opened returns how many handles were opened.
func (t *Tracker) Opened() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opened
}

// Leaked returns how many handles are still open.
func (t *Tracker) Leaked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opened - t.closed
}

type handle struct {
	io.ReadCloser
	t    *Tracker
	once sync.Once
}

func (h *handle) Close() error {
	err := os.ErrClosed
	h.once.Do(func() {
		err = h.ReadCloser.Close()
		h.t.mu.Lock()
		h.t.closed++
		if h.t.closeErr != nil {
			err = h.t.closeErr
		}
		h.t.mu.Unlock()
	})
	return err
}
