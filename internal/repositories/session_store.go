package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/utils"
	"wakacjecypr/internal/wizard"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists wizard states by session id.
type SessionStore interface {
	Get(ctx context.Context, id string) (wizard.State, error)
	Save(ctx context.Context, id string, s wizard.State) error
	Delete(ctx context.Context, id string) error
}

func sessionNotFound() error {
	return domain.NotFoundError{Resource: "session"}
}

type memoryEntry struct {
	state     wizard.State
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory; entries expire after
// TTL of inactivity.
type MemorySessionStore struct {
	TTL time.Duration
	Now func() time.Time

	mu       sync.Mutex
	sessions map[string]memoryEntry
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{TTL: ttl, Now: utils.NowUTC, sessions: make(map[string]memoryEntry)}
}

func (m *MemorySessionStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return utils.NowUTC()
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (wizard.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return wizard.State{}, sessionNotFound()
	}
	if m.TTL > 0 && !m.now().Before(e.expiresAt) {
		delete(m.sessions, id)
		return wizard.State{}, sessionNotFound()
	}
	return e.state, nil
}

func (m *MemorySessionStore) Save(_ context.Context, id string, s wizard.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = make(map[string]memoryEntry)
	}
	m.sessions[id] = memoryEntry{state: s, expiresAt: m.now().Add(m.TTL)}
	return nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemorySessionStore) Sweep() int {
	if m.TTL <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, e := range m.sessions {
		if !now.Before(e.expiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

const sessionKeyPrefix = "wizard:session:"

func sessionKey(id string) string { return sessionKeyPrefix + id }

// RedisSessionStore stores sessions as JSON with a sliding TTL.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (r RedisSessionStore) Get(ctx context.Context, id string) (wizard.State, error) {
	data, err := r.Client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return wizard.State{}, sessionNotFound()
		}
		return wizard.State{}, err
	}
	var s wizard.State
	if err := json.Unmarshal(data, &s); err != nil {
		return wizard.State{}, err
	}
	return s, nil
}

func (r RedisSessionStore) Save(ctx context.Context, id string, s wizard.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, sessionKey(id), data, r.TTL).Err()
}

func (r RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.Client.Del(ctx, sessionKey(id)).Err()
}
