package handler

import (
	"net/http"

	"github.com/smarttask/smarttask-go/internal/backend"
	"github.com/smarttask/smarttask-go/internal/model"
)

// BackendHandler exposes the process-wide backend switch.
type BackendHandler struct {
	selector *backend.Selector
}

// NewBackendHandler creates a new BackendHandler.
func NewBackendHandler(sel *backend.Selector) *BackendHandler {
	return &BackendHandler{selector: sel}
}

// HandleGet handles GET /api/v1/backend requests.
func (h *BackendHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.BackendRequest{Backend: string(h.selector.Active())})
}

// HandleSet handles PUT /api/v1/backend requests.
func (h *BackendHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var req model.BackendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := model.ParseBackend(req.Backend)
	if err == nil {
		err = h.selector.Set(b)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.BackendRequest{Backend: string(b)})
}
