package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrKeyMissing is returned by KV.Get for absent or expired keys.
var ErrKeyMissing = errors.New("key missing")

// KV is the slice of Redis the service relies on: counters with expiry and
// small cached values.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Del(ctx context.Context, key string) error
}

type redisKV struct {
	client *redis.Client
}

// NewRedisKV adapts a go-redis client.
func NewRedisKV(client *redis.Client) KV {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyMissing
	}
	return v, errors.Wrapf(err, "redis get %s", key)
}

func (r *redisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.Wrapf(r.client.Set(ctx, key, value, ttl).Err(), "redis set %s", key)
}

func (r *redisKV) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	return n, errors.Wrapf(err, "redis incr %s", key)
}

func (r *redisKV) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return errors.Wrapf(r.client.Expire(ctx, key, ttl).Err(), "redis expire %s", key)
}

func (r *redisKV) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := r.client.TTL(ctx, key).Result()
	return d, errors.Wrapf(err, "redis ttl %s", key)
}

func (r *redisKV) Del(ctx context.Context, key string) error {
	return errors.Wrapf(r.client.Del(ctx, key).Err(), "redis del %s", key)
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryKV is a process-local KV for tests and runs without Redis.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: map[string]memoryEntry{}, now: time.Now}
}

// SetClock replaces the clock used for expiry.
func (m *MemoryKV) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryKV) live(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return e, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return e, false
	}
	return e, true
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return "", ErrKeyMissing
	}
	return e.value, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryKV) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	var n int64
	if ok {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "incr %s", key)
		}
		n = parsed
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	m.entries[key] = e
	return n, nil
}

func (m *MemoryKV) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.live(key); ok {
		e.expires = m.now().Add(ttl)
		m.entries[key] = e
	}
	return nil
}

// TTL mirrors Redis: -2s for a missing key, -1s for a key without expiry.
func (m *MemoryKV) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	switch {
	case !ok:
		return -2 * time.Second, nil
	case e.expires.IsZero():
		return -1 * time.Second, nil
	}
	return e.expires.Sub(m.now()), nil
}

func (m *MemoryKV) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
