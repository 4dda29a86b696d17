package state

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tasks-dev/tasks/shared/api"
	"github.com/tasks-dev/tasks/shared/domain"
)

// mockGateway mocks the Gateway interface and counts calls per method.
type mockGateway struct {
	listThreadsFunc func(ctx context.Context) (api.ThreadListResponse, error)
	listBoardsFunc  func(ctx context.Context, threadId domain.ThreadId) (api.BoardListResponse, error)
	saveBoardFunc   func(ctx context.Context, board domain.Board) (domain.Board, error)
	commitBoardFunc func(ctx context.Context, boardId domain.BoardId) (domain.Board, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *mockGateway) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockGateway) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockGateway) ListThreads(ctx context.Context) (api.ThreadListResponse, error) {
	m.record("ListThreads")
	if m.listThreadsFunc != nil {
		return m.listThreadsFunc(ctx)
	}
	return api.NewListResponse[domain.Thread](nil), nil
}

func (m *mockGateway) ListBoards(ctx context.Context, threadId domain.ThreadId) (api.BoardListResponse, error) {
	m.record("ListBoards")
	if m.listBoardsFunc != nil {
		return m.listBoardsFunc(ctx, threadId)
	}
	return api.NewListResponse[domain.Board](nil), nil
}

func (m *mockGateway) SaveBoard(ctx context.Context, board domain.Board) (domain.Board, error) {
	m.record("SaveBoard")
	if m.saveBoardFunc != nil {
		return m.saveBoardFunc(ctx, board)
	}
	return board, nil
}

func (m *mockGateway) CommitBoard(ctx context.Context, boardId domain.BoardId) (domain.Board, error) {
	m.record("CommitBoard")
	if m.commitBoardFunc != nil {
		return m.commitBoardFunc(ctx, boardId)
	}
	return domain.Board{Id: domain.IdPtr(boardId), State: domain.State{}}, nil
}

func threadList(threads ...domain.Thread) api.ThreadListResponse {
	return api.NewListResponse(threads)
}

func boardList(boards ...domain.Board) api.BoardListResponse {
	return api.NewListResponse(boards)
}

func newBoard(id domain.BoardId, focus string, items ...string) domain.Board {
	st := domain.State{}
	for _, text := range items {
		st = append(st, domain.NewTreeItem(text))
	}
	return domain.Board{Id: domain.IdPtr(id), Focus: focus, State: st}
}

func focusPtr(s string) *domain.BoardFocus {
	return &s
}

func statePtr(items ...string) *domain.State {
	st := domain.State{}
	for _, text := range items {
		st = append(st, domain.NewTreeItem(text))
	}
	return &st
}

// loadedStore returns a store holding boards as thread 1's list, with the
// call counters cleared.
func loadedStore(t testing.TB, gw *mockGateway, boards ...domain.Board) *Store {
	t.Helper()
	prev := gw.listBoardsFunc
	gw.listBoardsFunc = func(ctx context.Context, threadId domain.ThreadId) (api.BoardListResponse, error) {
		return boardList(boards...), nil
	}
	s := New(gw, "Daily")
	require.NoError(t, s.LoadBoardsForThread(context.Background(), 1))
	gw.listBoardsFunc = prev
	gw.mu.Lock()
	gw.calls = nil
	gw.mu.Unlock()
	return s
}
