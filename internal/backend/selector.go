// Package backend holds the process-wide choice of Task Service variant.
package backend

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/smarttask/smarttask-go/internal/model"
	"github.com/smarttask/smarttask-go/internal/service"
)

// Factory builds the Task Service for one backend.
type Factory func(model.Backend) (service.TaskService, error)

// Selector resolves which Task Service handles a request. Switching never
// touches stored tasks; they keep the category and priority they were
// created with.
type Selector struct {
	mu       sync.RWMutex
	active   model.Backend
	services map[model.Backend]service.TaskService
}

// NewSelector builds every variant up front and activates initial.
func NewSelector(initial model.Backend, factory Factory) (*Selector, error) {
	s := &Selector{services: make(map[model.Backend]service.TaskService)}

	for _, b := range []model.Backend{model.BackendLocal, model.BackendClassifying} {
		svc, err := factory(b)
		if err != nil {
			return nil, fmt.Errorf("build %s task service: %w", b, err)
		}
		s.services[b] = svc
	}

	if err := s.Set(initial); err != nil {
		return nil, err
	}
	return s, nil
}

// Active returns the active backend.
func (s *Selector) Active() model.Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Set switches the active backend.
func (s *Selector) Set(b model.Backend) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[b]; !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownBackend, b)
	}
	if s.active != b {
		slog.Info("task backend switched", "from", s.active, "to", b)
	}
	s.active = b
	return nil
}

// Current returns the Task Service of the active backend.
func (s *Selector) Current() service.TaskService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services[s.active]
}
