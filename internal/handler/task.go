package handler

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/smarttask/smarttask-go/internal/backend"
	"github.com/smarttask/smarttask-go/internal/middleware"
	"github.com/smarttask/smarttask-go/internal/model"
	"github.com/smarttask/smarttask-go/internal/service"
)

// TaskHandler serves task operations through whichever backend is active.
type TaskHandler struct {
	selector *backend.Selector
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(sel *backend.Selector) *TaskHandler {
	return &TaskHandler{selector: sel}
}

// HandleList handles GET /api/v1/tasks requests. Tasks are returned newest first.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	todos, err := h.selector.Current().ListTasks(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slices.SortStableFunc(todos, func(a, b model.Todo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	writeJSON(w, http.StatusOK, todos)
}

// HandleCreate handles POST /api/v1/tasks requests.
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.CreateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	todo, err := h.selector.Current().AddTask(r.Context(), userID, req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, todo)
}

// HandleToggle handles POST /api/v1/tasks/{id}/toggle requests.
func (h *TaskHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	svc, id, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	todo, err := svc.ToggleTask(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// HandleUpdate handles PATCH /api/v1/tasks/{id} requests.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	svc, id, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	var patch model.TodoPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	todo, err := svc.UpdateTask(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// HandleDelete handles DELETE /api/v1/tasks/{id} requests.
// Deleting a task that no longer exists succeeds.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	svc := h.selector.Current()
	id := chi.URLParam(r, "id")

	todo, err := svc.GetTask(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		writeServiceError(w, r, err)
		return
	case todo.UserID != userID:
		writeServiceError(w, r, service.ErrTaskNotFound)
		return
	}

	if err := svc.DeleteTask(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedTask resolves the active service and checks the {id} task belongs to
// the caller. Tasks owned by other users are reported as not found.
func (h *TaskHandler) ownedTask(w http.ResponseWriter, r *http.Request) (service.TaskService, string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return nil, "", false
	}

	svc := h.selector.Current()
	id := chi.URLParam(r, "id")

	todo, err := svc.GetTask(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, "", false
	}
	if todo.UserID != userID {
		writeServiceError(w, r, service.ErrTaskNotFound)
		return nil, "", false
	}

	return svc, id, true
}
