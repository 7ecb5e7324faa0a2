package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smarttask/smarttask-go/internal/model"
	"github.com/smarttask/smarttask-go/internal/repository"
)

// TaskService is the contract shared by every backend variant.
type TaskService interface {
	ListTasks(ctx context.Context, userID string) ([]model.Todo, error)
	GetTask(ctx context.Context, id string) (model.Todo, error)
	AddTask(ctx context.Context, userID, text string) (model.Todo, error)
	ToggleTask(ctx context.Context, id string) (model.Todo, error)
	DeleteTask(ctx context.Context, id string) error
	UpdateTask(ctx context.Context, id string, patch model.TodoPatch) (model.Todo, error)
}

// TodoStore is the persistence the TodoService needs.
type TodoStore interface {
	Put(ctx context.Context, todo model.Todo) error
	GetByID(ctx context.Context, id string) (*model.Todo, error)
	ListByUser(ctx context.Context, userID string) ([]model.Todo, error)
	Delete(ctx context.Context, id string) error
}

// TodoService implements TaskService. Variants differ only in the Enricher
// that computes priority and category when a task is added.
type TodoService struct {
	repo     TodoStore
	enricher Enricher
	now      func() time.Time
	newID    func() string
}

// NewTodoService creates a TodoService using the given enrichment strategy.
func NewTodoService(repo TodoStore, enricher Enricher) *TodoService {
	return &TodoService{
		repo:     repo,
		enricher: enricher,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// NewTaskService builds the TaskService variant for backend b.
func NewTaskService(b model.Backend, repo TodoStore, classifier Classifier) (*TodoService, error) {
	switch b {
	case model.BackendLocal:
		return NewTodoService(repo, LocalEnricher{}), nil
	case model.BackendClassifying:
		if classifier == nil {
			return nil, fmt.Errorf("backend %s: classifier is required", b)
		}
		return NewTodoService(repo, NewClassifyingEnricher(classifier)), nil
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownBackend, b)
}

// ListTasks returns every task owned by userID in store order.
func (s *TodoService) ListTasks(ctx context.Context, userID string) ([]model.Todo, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetTask returns a single task.
func (s *TodoService) GetTask(ctx context.Context, id string) (model.Todo, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return model.Todo{}, ErrTaskNotFound
		}
		return model.Todo{}, err
	}
	return *todo, nil
}

// AddTask classifies text and stores a new, incomplete task. Nothing is
// written when classification fails.
func (s *TodoService) AddTask(ctx context.Context, userID, text string) (model.Todo, error) {
	if strings.TrimSpace(text) == "" {
		return model.Todo{}, ErrTextRequired
	}

	c, err := s.enricher.Enrich(ctx, text)
	if err != nil {
		return model.Todo{}, err
	}

	todo := model.Todo{
		ID:        s.newID(),
		UserID:    userID,
		Text:      text,
		Completed: false,
		Category:  c.Category,
		Priority:  c.Priority,
		// Stored with millisecond precision.
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Put(ctx, todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// ToggleTask flips the completed flag. Concurrent toggles race; the last
// write wins.
func (s *TodoService) ToggleTask(ctx context.Context, id string) (model.Todo, error) {
	todo, err := s.GetTask(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}

	todo.Completed = !todo.Completed
	if err := s.repo.Put(ctx, todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// DeleteTask removes a task. Unknown IDs are not an error.
func (s *TodoService) DeleteTask(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// UpdateTask merges patch over the stored task. No version check is made.
func (s *TodoService) UpdateTask(ctx context.Context, id string, patch model.TodoPatch) (model.Todo, error) {
	if patch.Text != nil && strings.TrimSpace(*patch.Text) == "" {
		return model.Todo{}, ErrTextRequired
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return model.Todo{}, ErrInvalidPriority
	}

	todo, err := s.GetTask(ctx, id)
	if err != nil {
		return model.Todo{}, err
	}

	updated := patch.Apply(todo)
	if err := s.repo.Put(ctx, updated); err != nil {
		return model.Todo{}, err
	}
	return updated, nil
}
