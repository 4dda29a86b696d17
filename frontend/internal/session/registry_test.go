package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasks-dev/tasks/frontend/internal/state"
	"github.com/tasks-dev/tasks/shared/api"
	"github.com/tasks-dev/tasks/shared/domain"
)

type stubGateway struct{}

func (stubGateway) ListThreads(ctx context.Context) (api.ThreadListResponse, error) {
	return api.NewListResponse([]domain.Thread{{Id: 1, Name: "Daily"}}), nil
}

func (stubGateway) ListBoards(ctx context.Context, threadId domain.ThreadId) (api.BoardListResponse, error) {
	return api.NewListResponse([]domain.Board{{Id: domain.IdPtr(10), State: domain.State{}}}), nil
}

func (stubGateway) SaveBoard(ctx context.Context, board domain.Board) (domain.Board, error) {
	return board, nil
}

func (stubGateway) CommitBoard(ctx context.Context, id domain.BoardId) (domain.Board, error) {
	return domain.Board{Id: domain.IdPtr(id), State: domain.State{}}, nil
}

// failingPointerStore saves normally but cannot read pointers back.
type failingPointerStore struct{ *MemoryPointerStore }

func (*failingPointerStore) LoadPointer(context.Context, string) (state.ThreadPointer, bool, error) {
	return state.ThreadPointer{}, false, errors.New("redis down")
}

// fakeClock is advanced manually by tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(pointers PointerStore, idleTTL time.Duration) (*Registry, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(stubGateway{}, "Daily", pointers, idleTTL)
	r.now = clock.Now
	return r, clock
}

func TestRegistryGet(t *testing.T) {
	ctx := context.Background()

	t.Run("same session same store", func(t *testing.T) {
		r, _ := newTestRegistry(nil, time.Hour)

		a := r.Get(ctx, "s1")
		b := r.Get(ctx, "s1")
		c := r.Get(ctx, "s2")

		assert.Same(t, a, b)
		assert.NotSame(t, a, c)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("new store starts at default thread", func(t *testing.T) {
		r, _ := newTestRegistry(nil, time.Hour)
		assert.Equal(t, state.ByName("Daily"), r.Get(ctx, "s1").Pointer())
	})

	t.Run("restores persisted pointer", func(t *testing.T) {
		pointers := NewMemoryPointerStore()
		require.NoError(t, pointers.SavePointer(ctx, "s1", state.ById(7)))
		r, _ := newTestRegistry(pointers, time.Hour)

		assert.Equal(t, state.ById(7), r.Get(ctx, "s1").Pointer())
	})

	t.Run("pointer store failure falls back to default", func(t *testing.T) {
		r, _ := newTestRegistry(&failingPointerStore{NewMemoryPointerStore()}, time.Hour)
		assert.Equal(t, state.ByName("Daily"), r.Get(ctx, "s1").Pointer())
	})

	t.Run("concurrent first use yields one store", func(t *testing.T) {
		r, _ := newTestRegistry(nil, time.Hour)

		var wg sync.WaitGroup
		stores := make([]*state.Store, 16)
		for i := range stores {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				stores[i] = r.Get(ctx, "s1")
			}(i)
		}
		wg.Wait()

		for _, s := range stores {
			assert.Same(t, stores[0], s)
		}
		assert.Equal(t, 1, r.Len())
	})
}

func TestRegistrySweep(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts idle sessions and keeps their pointer", func(t *testing.T) {
		pointers := NewMemoryPointerStore()
		r, clock := newTestRegistry(pointers, time.Hour)

		idle := r.Get(ctx, "idle")
		require.NoError(t, idle.InitBoard(ctx, "Daily"))
		require.NoError(t, r.SavePointer(ctx, "idle", state.ById(1)))

		clock.Advance(30 * time.Minute)
		r.Get(ctx, "active")
		clock.Advance(45 * time.Minute)
		r.Get(ctx, "active")

		assert.Equal(t, 1, r.Sweep())
		assert.Equal(t, 1, r.Len())
		assert.Equal(t, 0, idle.Boards().Count, "evicted store is reset")

		revived := r.Get(ctx, "idle")
		assert.NotSame(t, idle, revived)
		assert.Equal(t, state.ById(1), revived.Pointer())
	})

	t.Run("nothing idle", func(t *testing.T) {
		r, _ := newTestRegistry(nil, time.Hour)
		r.Get(ctx, "s1")
		assert.Equal(t, 0, r.Sweep())
	})
}

func TestRegistryDrop(t *testing.T) {
	ctx := context.Background()
	pointers := NewMemoryPointerStore()
	r, _ := newTestRegistry(pointers, time.Hour)

	r.Get(ctx, "s1")
	require.NoError(t, r.SavePointer(ctx, "s1", state.ById(3)))
	require.NoError(t, r.Drop(ctx, "s1"))

	assert.Equal(t, 0, r.Len())
	_, ok, _ := pointers.LoadPointer(ctx, "s1")
	assert.False(t, ok)
}

func TestStartSweeper(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRegistry(stubGateway{}, "Daily", nil, time.Nanosecond)
	r.Get(ctx, "s1")

	r.StartSweeper(ctx, time.Millisecond)
	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)
}

func TestIDContext(t *testing.T) {
	id, ok := IDFromContext(WithID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = IDFromContext(context.Background())
	assert.False(t, ok)
}
