// internal/sequence/tracker.go
package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Slot is one logical action whose requests are sequenced together.
type Slot string

const (
	SlotIdeas   Slot = "ideas"
	SlotRefine  Slot = "refine"
	SlotDraft   Slot = "draft"
	SlotRewrite Slot = "rewrite"
	SlotContext Slot = "context"
	SlotChat    Slot = "chat"
	SlotInsight Slot = "insight"
	SlotTrend   Slot = "trend"
)

func Slots() []Slot {
	return []Slot{SlotIdeas, SlotRefine, SlotDraft, SlotRewrite, SlotContext, SlotChat, SlotInsight, SlotTrend}
}

// Tracker hands out strictly increasing tokens per slot. A response is
// applied only if its token is still the latest issued for its slot.
type Tracker interface {
	Next(ctx context.Context, slot Slot) (uint64, error)
	Latest(ctx context.Context, slot Slot) (uint64, error)
}

// IsLatest reports whether token is the newest token issued for slot.
func IsLatest(ctx context.Context, t Tracker, slot Slot, token uint64) (bool, uint64, error) {
	latest, err := t.Latest(ctx, slot)
	if err != nil {
		return false, 0, err
	}
	return token == latest, latest, nil
}

type MemoryTracker struct {
	mu     sync.Mutex
	tokens map[Slot]uint64
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{tokens: make(map[Slot]uint64)}
}

func (m *MemoryTracker) Next(_ context.Context, slot Slot) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[slot]++
	return m.tokens[slot], nil
}

func (m *MemoryTracker) Latest(_ context.Context, slot Slot) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[slot], nil
}

// RedisTracker keeps one INCR counter per slot so several API replicas
// serving the same session agree on which response is current.
type RedisTracker struct {
	client redis.Cmdable
	prefix string
}

func NewRedisTracker(client redis.Cmdable, prefix string) *RedisTracker {
	return &RedisTracker{client: client, prefix: prefix}
}

func (r *RedisTracker) key(slot Slot) string {
	return fmt.Sprintf("%s:%s", r.prefix, slot)
}

func (r *RedisTracker) Next(ctx context.Context, slot Slot) (uint64, error) {
	n, err := r.client.Incr(ctx, r.key(slot)).Result()
	if err != nil {
		return 0, fmt.Errorf("sequence incr %s: %w", slot, err)
	}
	return uint64(n), nil
}

func (r *RedisTracker) Latest(ctx context.Context, slot Slot) (uint64, error) {
	val, err := r.client.Get(ctx, r.key(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("sequence get %s: %w", slot, err)
	}
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sequence %s holds %q: %w", slot, val, err)
	}
	return n, nil
}
