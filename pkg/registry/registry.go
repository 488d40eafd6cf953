// Package registry collects koan suites by topic and resolves
// the order in which a learner walks through them.
package registry

import (
	"fmt"
	"sync"

	"digital.vasic.koans/pkg/koan"
)

// Registry defines the interface for managing koan suites.
type Registry interface {
	// Register adds a suite.
	Register(s *koan.Suite) error

	// Get retrieves a suite by topic.
	Get(topic string) (*koan.Suite, error)

	// List returns all suites in registration order.
	List() []*koan.Suite

	// Topics returns the registered topics in registration
	// order.
	Topics() []string

	// Ordered returns the suites named by topics, in that
	// order. An unknown topic is an error.
	Ordered(topics []string) ([]*koan.Suite, error)

	// Clear removes all suites.
	Clear()

	// Count returns the number of registered suites.
	Count() int
}

// DefaultRegistry is the standard Registry implementation.
// It is safe for concurrent use.
type DefaultRegistry struct {
	mu     sync.RWMutex
	suites map[string]*koan.Suite
	order  []string
}

// NewRegistry creates a new, empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		suites: make(map[string]*koan.Suite),
	}
}

// Register adds a suite to the registry. Returns an error if a
// suite with the same topic is already registered.
func (r *DefaultRegistry) Register(s *koan.Suite) error {
	if s == nil {
		return fmt.Errorf("suite must not be nil")
	}
	if s.Topic == "" {
		return fmt.Errorf("suite topic must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.suites[s.Topic]; exists {
		return fmt.Errorf(
			"suite already registered: %s", s.Topic,
		)
	}

	r.suites[s.Topic] = s
	r.order = append(r.order, s.Topic)
	return nil
}

// Get retrieves a suite by topic.
func (r *DefaultRegistry) Get(topic string) (*koan.Suite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.suites[topic]
	if !exists {
		return nil, fmt.Errorf("suite not found: %s", topic)
	}
	return s, nil
}

// List returns all suites in registration order.
func (r *DefaultRegistry) List() []*koan.Suite {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*koan.Suite, 0, len(r.order))
	for _, topic := range r.order {
		out = append(out, r.suites[topic])
	}
	return out
}

// Topics returns the registered topics in registration order.
func (r *DefaultRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Ordered returns the suites named by topics in the given
// order. Each topic may appear only once.
func (r *DefaultRegistry) Ordered(
	topics []string,
) ([]*koan.Suite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(topics))
	out := make([]*koan.Suite, 0, len(topics))
	for _, topic := range topics {
		if _, dup := seen[topic]; dup {
			return nil, fmt.Errorf(
				"topic listed twice: %s", topic,
			)
		}
		seen[topic] = struct{}{}

		s, exists := r.suites[topic]
		if !exists {
			return nil, fmt.Errorf(
				"suite not found: %s", topic,
			)
		}
		out = append(out, s)
	}
	return out, nil
}

// Clear removes all suites.
func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.suites = make(map[string]*koan.Suite)
	r.order = nil
}

// Count returns the number of registered suites.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.suites)
}
