package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smarttask/smarttask-go/internal/model"
)

// IndexUserID is the non-unique secondary index over todos.user_id.
const IndexUserID = "userId"

var ErrTodoNotFound = errors.New("todo not found")

var todosSchema = Schema[model.Todo]{
	Name:    "todos",
	Key:     "id",
	Columns: []string{"id", "user_id", "text", "completed", "category", "priority", "created_at"},
	Indexes: map[string]Index{
		IndexUserID: {Column: "user_id"},
	},
	KeyOf: func(t model.Todo) string { return t.ID },
	Values: func(t model.Todo) []any {
		return []any{t.ID, t.UserID, t.Text, t.Completed, t.Category, string(t.Priority), t.CreatedAt.UnixMilli()}
	},
	Scan: func(row rowScanner) (model.Todo, error) {
		var (
			t        model.Todo
			priority string
			created  int64
		)
		if err := row.Scan(&t.ID, &t.UserID, &t.Text, &t.Completed, &t.Category, &priority, &created); err != nil {
			return model.Todo{}, err
		}
		t.Priority = model.Priority(priority)
		t.CreatedAt = time.UnixMilli(created).UTC()
		return t, nil
	},
}

// TodoRepository handles task persistence operations.
type TodoRepository struct {
	todos *Collection[model.Todo]
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(s *Store) *TodoRepository {
	return &TodoRepository{todos: s.Todos}
}

// Put inserts or overwrites a task.
func (r *TodoRepository) Put(ctx context.Context, todo model.Todo) error {
	return r.todos.Put(ctx, todo)
}

// GetByID retrieves a task by ID.
func (r *TodoRepository) GetByID(ctx context.Context, id string) (*model.Todo, error) {
	todo, ok, err := r.todos.GetByKey(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTodoNotFound
	}
	return &todo, nil
}

// ListByUser returns every task owned by userID in store order.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	return r.todos.GetByIndex(ctx, IndexUserID, userID)
}

// Delete removes a task; absent IDs are ignored.
func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	return r.todos.DeleteByKey(ctx, id)
}
