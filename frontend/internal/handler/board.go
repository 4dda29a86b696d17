package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tasks-dev/tasks/frontend/internal/state"
	"github.com/tasks-dev/tasks/shared/api"
	"github.com/tasks-dev/tasks/shared/domain"
	internal_errors "github.com/tasks-dev/tasks/shared/errors"
	"github.com/tasks-dev/tasks/shared/logger"
	"github.com/tasks-dev/tasks/shared/utils"
)

func stateResponse(snap state.Snapshot) api.StateResponse {
	return api.StateResponse{
		Pointer: api.PointerResponse{
			Kind: snap.Pointer.Kind().String(),
			Name: snap.Pointer.Name(),
			Id:   snap.Pointer.Id(),
		},
		Threads:       snap.Threads,
		CurrentThread: snap.CurrentThread,
		Boards:        snap.Boards,
		CurrentBoard:  snap.CurrentBoard,
		Summary: api.SummaryResponse{
			Tasks:     snap.Summary.Tasks,
			Finished:  snap.Summary.Finished,
			Postponed: snap.Summary.Postponed,
			Removed:   snap.Summary.Removed,
		},
	}
}

func writeState(w http.ResponseWriter, store *state.Store) {
	utils.WriteJSON(w, http.StatusOK, stateResponse(store.Snapshot()))
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, state.ErrBoardNotPersisted) {
		utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: "Board is not saved yet", StatusCode: http.StatusConflict})
		return
	}
	utils.WriteErrorAndStatusCode(w, err)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFromRequest(w, r)
	if !ok {
		return
	}
	writeState(w, store)
}

func (h *Handler) InitThreads(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFromRequest(w, r)
	if !ok {
		return
	}
	if err := store.InitThreads(r.Context()); err != nil {
		writeStoreError(w, err)
		return
	}
	writeState(w, store)
}

func (h *Handler) InitBoard(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFromRequest(w, r)
	if !ok {
		return
	}

	var body api.InitBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := store.InitBoard(r.Context(), body.ThreadName); err != nil {
		writeStoreError(w, err)
		return
	}
	h.rememberPointer(r, store)
	writeState(w, store)
}

func (h *Handler) SelectThread(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFromRequest(w, r)
	if !ok {
		return
	}

	threadId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || threadId <= 0 {
		utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: "Invalid thread id", StatusCode: http.StatusBadRequest})
		return
	}

	if err := store.ChangeThread(r.Context(), domain.ThreadId(threadId)); err != nil {
		// the pointer already moved, keep it
		h.rememberPointer(r, store)
		writeStoreError(w, err)
		return
	}
	h.rememberPointer(r, store)
	writeState(w, store)
}

func (h *Handler) ReloadBoards(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFromRequest(w, r)
	if !ok {
		return
	}
	if err := store.ReloadBoards(r.Context()); err != nil {
		writeStoreError(w, err)
		return
	}
	writeState(w, store)
}

func (h *Handler) SaveBoard(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFromRequest(w, r)
	if !ok {
		return
	}

	var body api.SaveBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.sanitizeSaveRequest(&body)

	if err := store.Save(r.Context(), body.Patch()); err != nil {
		logger.Log.Warn("board save failed", "error", err)
		writeStoreError(w, err)
		return
	}
	writeState(w, store)
}

func (h *Handler) CloseBoard(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFromRequest(w, r)
	if !ok {
		return
	}
	if err := store.Close(r.Context()); err != nil {
		logger.Log.Warn("board close failed", "error", err)
		writeStoreError(w, err)
		return
	}
	writeState(w, store)
}
