package handler

import (
	"context"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tasks-dev/tasks/frontend/internal/session"
	"github.com/tasks-dev/tasks/frontend/internal/state"
	internal_errors "github.com/tasks-dev/tasks/shared/errors"
	"github.com/tasks-dev/tasks/shared/logger"
	"github.com/tasks-dev/tasks/shared/utils"
)

// HealthChecker is implemented by dependencies Ready has to wait for.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	registry *session.Registry
	policy   *bluemonday.Policy
	health   HealthChecker
}

// New builds the handler. health may be nil when nothing external is needed.
func New(registry *session.Registry, health HealthChecker) *Handler {
	return &Handler{
		registry: registry,
		policy:   bluemonday.StrictPolicy(),
		health:   health,
	}
}

// storeFromRequest returns the session's store, writing a 500 when the
// session middleware did not run.
func storeFromRequest(w http.ResponseWriter, r *http.Request) (*state.Store, bool) {
	store, ok := state.FromContext(r.Context())
	if !ok {
		logger.Log.Error("board store missing from request context", "path", r.URL.Path)
		utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: "Session is not initialized", StatusCode: http.StatusInternalServerError})
		return nil, false
	}
	return store, true
}

// rememberPointer persists the current selection; failures only cost the
// selection after the session is evicted.
func (h *Handler) rememberPointer(r *http.Request, store *state.Store) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		return
	}
	if err := h.registry.SavePointer(r.Context(), sessionID, store.Pointer()); err != nil {
		logger.Log.Warn("failed to persist thread pointer", "error", err)
	}
}
