// Package state holds the per-session view of threads and boards and
// reconciles local edits with the tasks API.
package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tasks-dev/tasks/shared/api"
	"github.com/tasks-dev/tasks/shared/domain"
	"github.com/tasks-dev/tasks/shared/logger"
)

// Gateway is the subset of the tasks API the store needs.
type Gateway interface {
	ListThreads(ctx context.Context) (api.ThreadListResponse, error)
	ListBoards(ctx context.Context, threadId domain.ThreadId) (api.BoardListResponse, error)
	SaveBoard(ctx context.Context, board domain.Board) (domain.Board, error)
	CommitBoard(ctx context.Context, boardId domain.BoardId) (domain.Board, error)
}

// Store is the single writer of a session's thread and board lists. Network
// calls run without the lock; results are applied under it, so readers
// always see count == len(results).
type Store struct {
	gateway        Gateway
	defaultPointer ThreadPointer
	log            *slog.Logger

	mu      sync.RWMutex
	threads *api.ThreadListResponse
	boards  *api.BoardListResponse
	pointer ThreadPointer

	threadsGen uint64 // last issued thread fetch
	boardsGen  uint64 // last issued board fetch
	listGen    uint64 // bumped whenever the board list is replaced wholesale
}

func New(gateway Gateway, defaultThread domain.ThreadName) *Store {
	p := ByName(defaultThread)
	return &Store{
		gateway:        gateway,
		defaultPointer: p,
		pointer:        p,
		log:            logger.Component("board_store"),
	}
}

// Reset drops all loaded data and goes back to the default pointer.
// Requests still in flight are discarded when they return.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads = nil
	s.boards = nil
	s.pointer = s.defaultPointer
	s.threadsGen++
	s.boardsGen++
	s.listGen++
}

// === Getters ===

func (s *Store) Pointer() ThreadPointer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pointer
}

// SetPointer replaces the pointer without loading anything, e.g. to restore a
// persisted selection before the first InitThreads.
func (s *Store) SetPointer(p ThreadPointer) {
	s.mu.Lock()
	s.pointer = p
	s.mu.Unlock()
}

func (s *Store) Threads() []domain.Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threadsLocked()
}

func (s *Store) CurrentThread() (domain.Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentThreadLocked()
}

// CurrentThreadId is 0 when no thread resolves.
func (s *Store) CurrentThreadId() domain.ThreadId {
	t, ok := s.CurrentThread()
	if !ok {
		return 0
	}
	return t.Id
}

func (s *Store) Boards() api.BoardListResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boardsLocked()
}

// CurrentBoard is the first board of the list, or an unsaved placeholder.
func (s *Store) CurrentBoard() domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentBoardLocked()
}

func (s *Store) Summary() Summary {
	return Summarize(s.CurrentBoard().State)
}

// Snapshot is every derived value taken under one read lock.
type Snapshot struct {
	Pointer       ThreadPointer
	Threads       []domain.Thread
	CurrentThread *domain.Thread
	Boards        api.BoardListResponse
	CurrentBoard  domain.Board
	Summary       Summary
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Pointer:      s.pointer,
		Threads:      s.threadsLocked(),
		Boards:       s.boardsLocked(),
		CurrentBoard: s.currentBoardLocked(),
	}
	if t, ok := s.currentThreadLocked(); ok {
		snap.CurrentThread = &t
	}
	snap.Summary = Summarize(snap.CurrentBoard.State)
	return snap
}

func (s *Store) threadsLocked() []domain.Thread {
	if s.threads == nil || s.threads.Count == 0 {
		return []domain.Thread{}
	}
	out := make([]domain.Thread, len(s.threads.Results))
	copy(out, s.threads.Results)
	return out
}

func (s *Store) currentThreadLocked() (domain.Thread, bool) {
	if s.threads == nil || s.threads.Count == 0 {
		return domain.Thread{}, false
	}
	return Resolve(s.pointer, s.threads.Results)
}

func (s *Store) boardsLocked() api.BoardListResponse {
	if s.boards == nil {
		return api.NewListResponse[domain.Board](nil)
	}
	results := make([]domain.Board, len(s.boards.Results))
	for i, b := range s.boards.Results {
		results[i] = b.Clone()
	}
	return api.NewListResponse(results)
}

func (s *Store) currentBoardLocked() domain.Board {
	if s.boards == nil || s.boards.Count == 0 {
		return domain.NewBoard()
	}
	return s.boards.Results[0].Clone()
}

// === Load actions ===

// InitThreads fetches the thread list and replaces the held one in full.
func (s *Store) InitThreads(ctx context.Context) error {
	s.mu.Lock()
	s.threadsGen++
	gen := s.threadsGen
	s.mu.Unlock()

	resp, err := s.gateway.ListThreads(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.threadsGen {
		staleResponses.WithLabelValues("threads").Inc()
		s.log.Debug("discarding superseded thread list", "generation", gen, "latest", s.threadsGen)
		return nil
	}
	threads := api.NewListResponse(resp.Results)
	s.threads = &threads
	s.log.Debug("threads replaced", "count", threads.Count)
	return nil
}

// InitBoard loads threads, points at threadName and loads its boards. An
// unknown name leaves the board list untouched.
func (s *Store) InitBoard(ctx context.Context, threadName domain.ThreadName) error {
	if err := s.InitThreads(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.pointer = ByName(threadName)
	thread, ok := s.currentThreadLocked()
	s.mu.Unlock()

	if !ok {
		s.log.Info("thread not found, boards not loaded", "thread", threadName)
		return nil
	}
	return s.LoadBoardsForThread(ctx, thread.Id)
}

// LoadBoardsForThread replaces the board list with threadId's boards. A zero
// id issues no request. Only the latest issued load is applied, whatever
// order the responses arrive in.
func (s *Store) LoadBoardsForThread(ctx context.Context, threadId domain.ThreadId) error {
	if threadId == 0 {
		return nil
	}

	s.mu.Lock()
	s.boardsGen++
	gen := s.boardsGen
	s.mu.Unlock()

	resp, err := s.gateway.ListBoards(ctx, threadId)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.boardsGen {
		staleResponses.WithLabelValues("boards").Inc()
		s.log.Debug("discarding superseded board list",
			"thread", threadId,
			"generation", gen,
			"latest", s.boardsGen)
		return nil
	}
	boards := api.NewListResponse(resp.Results)
	s.boards = &boards
	s.listGen++
	s.log.Debug("boards replaced", "thread", threadId, "count", boards.Count)
	return nil
}

// ReloadBoards refetches boards of the currently resolved thread.
func (s *Store) ReloadBoards(ctx context.Context) error {
	return s.LoadBoardsForThread(ctx, s.CurrentThreadId())
}

// ChangeThread points at threadId before loading, so the new selection is
// visible while the fetch is pending.
func (s *Store) ChangeThread(ctx context.Context, threadId domain.ThreadId) error {
	s.SetPointer(ById(threadId))
	return s.LoadBoardsForThread(ctx, threadId)
}

// === Context ===

type storeContextKey struct{}

func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, s)
}

func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(storeContextKey{}).(*Store)
	return s, ok && s != nil
}
