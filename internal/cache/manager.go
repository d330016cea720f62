package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Manager layers a MemoryCache over an optional DiskCache. Disk hits are
// promoted to memory. A background goroutine expires entries older than
// the configured TTL.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache
	config Config

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewManager builds the cache levels described by config.
func NewManager(config Config) (*Manager, error) {
	m := &Manager{
		memory: NewMemoryCache(config.MemoryCapacity),
		config: config,
		stop:   make(chan struct{}),
	}

	if config.Dir != "" {
		disk, err := NewDiskCache(config.Dir, config.DiskCapacity, config.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk cache: %w", err)
		}
		m.disk = disk
	}

	if config.CleanupInterval > 0 && config.TTL > 0 {
		m.wg.Add(1)
		go m.cleanupLoop()
	}
	return m, nil
}

// Get looks in memory first, then on disk.
func (m *Manager) Get(key string) ([]byte, bool) {
	if data, ok := m.memory.Get(key); ok {
		return data, true
	}
	if m.disk == nil {
		return nil, false
	}
	data, ok := m.disk.Get(key)
	if !ok {
		return nil, false
	}
	if err := m.memory.Put(key, data); err != nil {
		log.Debug("not promoting cache entry", "key", key, "error", err)
	}
	return data, true
}

// Put stores value in every level. Values too large for memory still go
// to disk.
func (m *Manager) Put(key string, value []byte) error {
	if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("memory cache: %w", err)
	}
	if m.disk != nil {
		if err := m.disk.Put(key, value); err != nil {
			return fmt.Errorf("disk cache: %w", err)
		}
	}
	return nil
}

// Delete removes key from every level.
func (m *Manager) Delete(key string) error {
	if err := m.memory.Delete(key); err != nil {
		return err
	}
	if m.disk != nil {
		return m.disk.Delete(key)
	}
	return nil
}

// Clear empties every level.
func (m *Manager) Clear() error {
	if err := m.memory.Clear(); err != nil {
		return err
	}
	if m.disk != nil {
		return m.disk.Clear()
	}
	return nil
}

// Stats returns the combined counters of both levels. Capacity and size
// come from the disk level when it exists.
func (m *Manager) Stats() Stats {
	s := m.memory.Stats()
	if m.disk == nil {
		return s
	}
	d := m.disk.Stats()
	return Stats{
		Capacity:  d.Capacity,
		Size:      d.Size,
		Items:     d.Items,
		Hits:      s.Hits + d.Hits,
		Misses:    d.Misses,
		Evictions: s.Evictions + d.Evictions,
	}
}

// Levels returns the memory and disk statistics separately. The disk
// stats are zero when the disk cache is disabled.
func (m *Manager) Levels() (memory, disk Stats) {
	memory = m.memory.Stats()
	if m.disk != nil {
		disk = m.disk.Stats()
	}
	return memory, disk
}

// Cleanup expires entries older than the TTL and returns how many disk
// entries it removed.
func (m *Manager) Cleanup() int {
	if m.config.TTL <= 0 {
		return 0
	}
	m.memory.Prune(m.config.TTL)
	if m.disk == nil {
		return 0
	}
	removed := m.disk.RemoveOlderThan(time.Now().Add(-m.config.TTL))
	if removed > 0 {
		log.Debug("expired cached speech", "entries", removed)
	}
	return removed
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Cleanup()
		case <-m.stop:
			return
		}
	}
}

// Close stops background cleanup and saves the disk index.
func (m *Manager) Close() error {
	m.once.Do(func() { close(m.stop) })
	m.wg.Wait()

	if m.disk != nil {
		if err := m.disk.Close(); err != nil {
			return fmt.Errorf("failed to close disk cache: %w", err)
		}
	}
	return nil
}

var _ Cache = (*Manager)(nil)
