package store

import (
	"context"
	"sync"
)

// Memory keeps modes for the lifetime of the process.
type Memory struct {
	mu    sync.RWMutex
	modes map[int64]Mode
}

func NewMemory() *Memory {
	return &Memory{modes: map[int64]Mode{}}
}

func (m *Memory) Get(_ context.Context, userID int64) (Mode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.modes[userID], nil
}

func (m *Memory) Set(_ context.Context, userID int64, mode Mode) error {
	if err := checkMode(mode); err != nil {
		return err
	}

	m.mu.Lock()
	m.modes[userID] = mode
	m.mu.Unlock()

	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Cached serves reads from memory and writes through to the backing store.
type Cached struct {
	cache   *Memory
	backing Store
}

func NewCached(backing Store) *Cached {
	return &Cached{cache: NewMemory(), backing: backing}
}

func (c *Cached) Get(ctx context.Context, userID int64) (Mode, error) {
	if mode, _ := c.cache.Get(ctx, userID); mode != ModeUnset {
		return mode, nil
	}

	mode, err := c.backing.Get(ctx, userID)
	if err != nil {
		return ModeUnset, err
	}

	if mode.Valid() {
		_ = c.cache.Set(ctx, userID, mode)
	}

	return mode, nil
}

func (c *Cached) Set(ctx context.Context, userID int64, mode Mode) error {
	if err := c.backing.Set(ctx, userID, mode); err != nil {
		return err
	}

	return c.cache.Set(ctx, userID, mode)
}

func (c *Cached) Close() error {
	return c.backing.Close()
}
