package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tasks-dev/tasks/frontend/internal/state"
	"github.com/tasks-dev/tasks/shared/domain"
)

// PointerStore persists the selected thread of each session, so a session
// evicted from memory comes back on the same thread.
type PointerStore interface {
	LoadPointer(ctx context.Context, sessionID string) (state.ThreadPointer, bool, error)
	SavePointer(ctx context.Context, sessionID string, p state.ThreadPointer) error
	DeletePointer(ctx context.Context, sessionID string) error
}

type pointerRecord struct {
	Kind string            `json:"kind"`
	Name domain.ThreadName `json:"name,omitempty"`
	Id   domain.ThreadId   `json:"id,omitempty"`
}

func toRecord(p state.ThreadPointer) pointerRecord {
	return pointerRecord{Kind: p.Kind().String(), Name: p.Name(), Id: p.Id()}
}

func (r pointerRecord) pointer() (state.ThreadPointer, bool) {
	switch r.Kind {
	case state.PointerByName.String():
		return state.ByName(r.Name), true
	case state.PointerById.String():
		return state.ById(r.Id), true
	default:
		return state.ThreadPointer{}, false
	}
}

// === Memory ===

type MemoryPointerStore struct {
	mu       sync.RWMutex
	pointers map[string]state.ThreadPointer
}

func NewMemoryPointerStore() *MemoryPointerStore {
	return &MemoryPointerStore{pointers: make(map[string]state.ThreadPointer)}
}

func (m *MemoryPointerStore) LoadPointer(_ context.Context, sessionID string) (state.ThreadPointer, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pointers[sessionID]
	return p, ok, nil
}

func (m *MemoryPointerStore) SavePointer(_ context.Context, sessionID string, p state.ThreadPointer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pointers[sessionID] = p
	return nil
}

func (m *MemoryPointerStore) DeletePointer(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pointers, sessionID)
	return nil
}

// === Redis ===

const redisKeyPrefix = "board_pointer:"

// RedisPointerStore keeps pointers as JSON values expiring after ttl.
type RedisPointerStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisPointerStore(redisURL string, ttl time.Duration) (*RedisPointerStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisPointerStoreWithClient(client, ttl), nil
}

func NewRedisPointerStoreWithClient(client *redis.Client, ttl time.Duration) *RedisPointerStore {
	return &RedisPointerStore{
		client: client,
		prefix: redisKeyPrefix,
		ttl:    ttl,
	}
}

func (s *RedisPointerStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisPointerStore) LoadPointer(ctx context.Context, sessionID string) (state.ThreadPointer, bool, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return state.ThreadPointer{}, false, nil
	}
	if err != nil {
		return state.ThreadPointer{}, false, fmt.Errorf("load pointer: %w", err)
	}

	var rec pointerRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return state.ThreadPointer{}, false, fmt.Errorf("unmarshal pointer: %w", err)
	}
	p, ok := rec.pointer()
	return p, ok, nil
}

func (s *RedisPointerStore) SavePointer(ctx context.Context, sessionID string, p state.ThreadPointer) error {
	raw, err := json.Marshal(toRecord(p))
	if err != nil {
		return fmt.Errorf("marshal pointer: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save pointer: %w", err)
	}
	return nil
}

func (s *RedisPointerStore) DeletePointer(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete pointer: %w", err)
	}
	return nil
}

func (s *RedisPointerStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisPointerStore) Close() error {
	return s.client.Close()
}
