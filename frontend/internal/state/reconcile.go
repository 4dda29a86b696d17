package state

import (
	"context"
	"errors"

	"github.com/tasks-dev/tasks/shared/api"
	"github.com/tasks-dev/tasks/shared/domain"
)

// ErrBoardNotPersisted is returned by Save and Close for a board without id.
var ErrBoardNotPersisted = errors.New("board is not persisted yet")

// Upsert replaces the entry with board's id in place, or inserts board at the
// front when there is none. The front entry is the current board.
func Upsert(list *api.BoardListResponse, board domain.Board) {
	if i := indexOf(list.Results, board); i >= 0 {
		list.Results[i] = board
	} else {
		list.Results = append([]domain.Board{board}, list.Results...)
	}
	list.Count = len(list.Results)
}

// Remove deletes the entry with board's id, if any.
func Remove(list *api.BoardListResponse, board domain.Board) {
	if i := indexOf(list.Results, board); i >= 0 {
		list.Results = append(list.Results[:i:i], list.Results[i+1:]...)
	}
	list.Count = len(list.Results)
}

func indexOf(results []domain.Board, board domain.Board) int {
	for i := range results {
		if results[i].SameId(board) {
			return i
		}
	}
	return -1
}

func (s *Store) upsertLocked(board domain.Board) {
	if s.boards == nil {
		empty := api.NewListResponse[domain.Board](nil)
		s.boards = &empty
	}
	Upsert(s.boards, board)
}

// Save merges patch into the current board and pushes the result.
//
// Saving unchanged state and focus is a no-op without any request. Otherwise
// the merged board is shown immediately and replaced by the server's copy
// once the PUT succeeds. On failure the optimistic entry is reverted unless a
// newer edit already replaced it. Responses arriving after the board list was
// replaced (thread switch, reload) are dropped.
func (s *Store) Save(ctx context.Context, patch domain.BoardPatch) error {
	s.mu.Lock()
	current := s.currentBoardLocked()
	if patch.Unchanged(current) {
		s.mu.Unlock()
		savesSkipped.Inc()
		return nil
	}
	merged := patch.Apply(current)
	if !merged.HasId() {
		s.mu.Unlock()
		return ErrBoardNotPersisted
	}

	var previous domain.Board
	existed := false
	if s.boards != nil {
		if i := indexOf(s.boards.Results, merged); i >= 0 {
			previous, existed = s.boards.Results[i], true
		}
	}
	s.upsertLocked(merged)
	gen := s.listGen
	s.mu.Unlock()

	saved, err := s.gateway.SaveBoard(ctx, merged.Clone())

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen {
		staleResponses.WithLabelValues("save").Inc()
		s.log.Debug("board list replaced during save, dropping result", "board", *merged.Id)
		return err
	}
	if err != nil {
		s.rollbackLocked(merged, previous, existed)
		return err
	}
	if _, ok := s.ownedLocked(merged); !ok {
		staleResponses.WithLabelValues("save").Inc()
		s.log.Debug("newer edit pending, dropping save confirmation", "board", *merged.Id)
		return nil
	}
	s.upsertLocked(saved)
	return nil
}

// ownedLocked finds the entry written optimistically by a save and reports
// whether it still holds that value. A later edit owns it otherwise.
func (s *Store) ownedLocked(optimistic domain.Board) (int, bool) {
	if s.boards == nil {
		return -1, false
	}
	i := indexOf(s.boards.Results, optimistic)
	if i < 0 || !s.boards.Results[i].Equal(optimistic) {
		return i, false
	}
	return i, true
}

func (s *Store) rollbackLocked(optimistic, previous domain.Board, existed bool) {
	i, ok := s.ownedLocked(optimistic)
	if !ok {
		return
	}
	if existed {
		s.boards.Results[i] = previous
		s.boards.Count = len(s.boards.Results)
	} else {
		Remove(s.boards, optimistic)
	}
	savesRolledBack.Inc()
	s.log.Info("save failed, optimistic update reverted", "board", *optimistic.Id)
}

// Close commits the current board on the server and applies the returned board.
func (s *Store) Close(ctx context.Context) error {
	s.mu.RLock()
	current := s.currentBoardLocked()
	gen := s.listGen
	s.mu.RUnlock()

	if !current.HasId() {
		return ErrBoardNotPersisted
	}

	board, err := s.gateway.CommitBoard(ctx, *current.Id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen {
		staleResponses.WithLabelValues("close").Inc()
		s.log.Debug("board list replaced during close, dropping result", "board", *current.Id)
		return nil
	}
	s.upsertLocked(board)
	return nil
}
