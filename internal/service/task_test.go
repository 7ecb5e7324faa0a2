package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttask/smarttask-go/internal/classifier"
	"github.com/smarttask/smarttask-go/internal/model"
	"github.com/smarttask/smarttask-go/internal/repository"
)

type fakeClassifier struct {
	result model.Classification
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(context.Context, string) (model.Classification, error) {
	f.calls++
	return f.result, f.err
}

func newTestTodoRepo(t *testing.T) *repository.TodoRepository {
	t.Helper()
	return repository.NewTodoRepository(openTestStore(t))
}

func TestNewTaskService(t *testing.T) {
	repo := newTestTodoRepo(t)

	_, err := NewTaskService(model.BackendLocal, repo, nil)
	require.NoError(t, err)

	_, err = NewTaskService(model.BackendClassifying, repo, nil)
	require.Error(t, err)

	_, err = NewTaskService(model.BackendClassifying, repo, &fakeClassifier{})
	require.NoError(t, err)

	_, err = NewTaskService("quantum", repo, nil)
	assert.ErrorIs(t, err, model.ErrUnknownBackend)
}

func TestLocalScenario(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	auth := NewAuthService(repository.NewUserRepository(store), testHasher(), "s", time.Hour)
	require.NoError(t, auth.SeedDefaultAccount(ctx))
	demo, err := auth.Login(ctx, model.LoginRequest{Email: "demo@example.com", Password: "password"})
	require.NoError(t, err)

	svc, err := NewTaskService(model.BackendLocal, repository.NewTodoRepository(store), nil)
	require.NoError(t, err)

	todo, err := svc.AddTask(ctx, demo.ID, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, todo.Priority)
	assert.Equal(t, "General", todo.Category)
	assert.False(t, todo.Completed)
	assert.Equal(t, demo.ID, todo.UserID)

	toggled, err := svc.ToggleTask(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	require.NoError(t, svc.DeleteTask(ctx, todo.ID))

	list, err := svc.ListTasks(ctx, demo.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddTask_ThenList(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newTestTodoRepo(t), LocalEnricher{})

	for _, text := range []string{"a", "  padded  ", "Ünïcødé task"} {
		before, err := svc.ListTasks(ctx, "u1")
		require.NoError(t, err)

		todo, err := svc.AddTask(ctx, "u1", text)
		require.NoError(t, err)

		after, err := svc.ListTasks(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, after, len(before)+1)

		var matches int
		for _, td := range after {
			if td.ID == todo.ID {
				matches++
				assert.Equal(t, text, td.Text)
				assert.False(t, td.Completed)
				assert.Equal(t, todo, td)
			}
		}
		assert.Equal(t, 1, matches)
	}

	other, err := svc.ListTasks(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddTask_EmptyText(t *testing.T) {
	f := &fakeClassifier{}
	svc := NewTodoService(newTestTodoRepo(t), NewClassifyingEnricher(f))

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.AddTask(context.Background(), "u1", text)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Zero(t, f.calls)
}

func TestAddTask_Classified(t *testing.T) {
	ctx := context.Background()
	f := &fakeClassifier{result: model.Classification{Priority: model.PriorityHigh, Category: "Shopping"}}
	svc := NewTodoService(newTestTodoRepo(t), NewClassifyingEnricher(f))

	todo, err := svc.AddTask(ctx, "u1", "Buy milk urgently")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, todo.Priority)
	assert.Equal(t, "Shopping", todo.Category)

	stored, err := svc.GetTask(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo, stored)
}

func TestAddTask_MalformedClassificationFallsBack(t *testing.T) {
	f := &fakeClassifier{err: fmt.Errorf("%w: bad json", classifier.ErrMalformedResponse)}
	svc := NewTodoService(newTestTodoRepo(t), NewClassifyingEnricher(f))

	todo, err := svc.AddTask(context.Background(), "u1", "Buy milk urgently")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, todo.Priority)
	assert.Equal(t, "General", todo.Category)
}

func TestAddTask_OutOfRangeClassificationNormalized(t *testing.T) {
	f := &fakeClassifier{result: model.Classification{Priority: "critical"}}
	svc := NewTodoService(newTestTodoRepo(t), NewClassifyingEnricher(f))

	todo, err := svc.AddTask(context.Background(), "u1", "Fix prod")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, todo.Priority)
	assert.Equal(t, "General", todo.Category)
}

func TestAddTask_ClassificationUnavailableWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := &fakeClassifier{err: fmt.Errorf("%w: dial tcp: refused", classifier.ErrUnavailable)}
	svc := NewTodoService(newTestTodoRepo(t), NewClassifyingEnricher(f))

	_, err := svc.AddTask(ctx, "u1", "Buy milk")
	require.ErrorIs(t, err, ErrClassificationUnavailable)

	list, err := svc.ListTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddTask_UsesClock(t *testing.T) {
	svc := NewTodoService(newTestTodoRepo(t), LocalEnricher{})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 678_901_234, time.UTC)
	svc.now = func() time.Time { return fixed }
	svc.newID = func() string { return "fixed-id" }

	todo, err := svc.AddTask(context.Background(), "u1", "x")
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", todo.ID)
	assert.Equal(t, fixed.Truncate(time.Millisecond), todo.CreatedAt)
}

func TestToggleTask_IsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newTestTodoRepo(t), LocalEnricher{})

	todo, err := svc.AddTask(ctx, "u1", "x")
	require.NoError(t, err)

	once, err := svc.ToggleTask(ctx, todo.ID)
	require.NoError(t, err)
	twice, err := svc.ToggleTask(ctx, todo.ID)
	require.NoError(t, err)

	assert.NotEqual(t, todo.Completed, once.Completed)
	assert.Equal(t, todo, twice)
}

func TestToggleTask_NotFound(t *testing.T) {
	svc := NewTodoService(newTestTodoRepo(t), LocalEnricher{})
	_, err := svc.ToggleTask(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newTestTodoRepo(t), LocalEnricher{})

	keep, err := svc.AddTask(ctx, "u1", "keep")
	require.NoError(t, err)
	gone, err := svc.AddTask(ctx, "u1", "gone")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, gone.ID))
	require.NoError(t, svc.DeleteTask(ctx, gone.ID))

	list, err := svc.ListTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []model.Todo{keep}, list)
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newTestTodoRepo(t), LocalEnricher{})

	todo, err := svc.AddTask(ctx, "u1", "draft")
	require.NoError(t, err)

	text := "final"
	low := model.PriorityLow
	cat := "Writing"
	updated, err := svc.UpdateTask(ctx, todo.ID, model.TodoPatch{Text: &text, Priority: &low, Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)
	assert.Equal(t, model.PriorityLow, updated.Priority)
	assert.Equal(t, "Writing", updated.Category)
	assert.Equal(t, todo.ID, updated.ID)
	assert.Equal(t, todo.CreatedAt, updated.CreatedAt)

	stored, err := svc.GetTask(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateTask_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newTestTodoRepo(t), LocalEnricher{})

	todo, err := svc.AddTask(ctx, "u1", "x")
	require.NoError(t, err)

	blank := " "
	bad := model.Priority("asap")

	_, err = svc.UpdateTask(ctx, todo.ID, model.TodoPatch{Text: &blank})
	assert.ErrorIs(t, err, ErrTextRequired)
	_, err = svc.UpdateTask(ctx, todo.ID, model.TodoPatch{Priority: &bad})
	assert.ErrorIs(t, err, ErrInvalidPriority)
	_, err = svc.UpdateTask(ctx, "missing", model.TodoPatch{})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

type failingStore struct {
	TodoStore
}

func (failingStore) Put(context.Context, model.Todo) error {
	return errors.New("disk full")
}

func TestAddTask_StoreErrorSurfaces(t *testing.T) {
	svc := NewTodoService(failingStore{}, LocalEnricher{})
	_, err := svc.AddTask(context.Background(), "u1", "x")
	assert.EqualError(t, err, "disk full")
}

func TestEnricherFunc(t *testing.T) {
	var e Enricher = EnricherFunc(func(context.Context, string) (model.Classification, error) {
		return model.Classification{Priority: model.PriorityLow, Category: "Misc"}, nil
	})
	svc := NewTodoService(newTestTodoRepo(t), e)

	todo, err := svc.AddTask(context.Background(), "u1", "x")
	require.NoError(t, err)
	assert.Equal(t, "Misc", todo.Category)
}
