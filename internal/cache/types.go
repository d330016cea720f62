package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
)

var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity.
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache is closed")
)

// Cache is the interface shared by every cache level.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	Clear() error
	Stats() Stats
}

// Stats holds cache usage counters.
type Stats struct {
	Capacity  int64
	Size      int64
	Items     int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits / (hits + misses), or zero before any lookup.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d items, %s of %s, %.0f%% hits",
		s.Items, humanize.Bytes(uint64(s.Size)), humanize.Bytes(uint64(s.Capacity)), s.HitRate()*100)
}

// Config configures a Manager.
type Config struct {
	MemoryCapacity int64 // bytes

	// Dir is where the disk cache lives. Empty disables the disk cache.
	Dir              string
	DiskCapacity     int64 // bytes, measured after compression
	CompressionLevel int   // zstd level; zero stores raw

	TTL             time.Duration // zero keeps entries forever
	CleanupInterval time.Duration // zero disables background cleanup
}

// DefaultConfig returns a 64MB memory cache and a 512MB disk cache in the
// user's cache directory.
func DefaultConfig() Config {
	dir, err := DefaultDir()
	if err != nil {
		dir = ""
	}
	return Config{
		MemoryCapacity:   64 << 20,
		Dir:              dir,
		DiskCapacity:     512 << 20,
		CompressionLevel: 3,
		TTL:              7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// DefaultDir returns the per-user directory for cached speech.
func DefaultDir() (string, error) {
	scope := gap.NewScope(gap.User, "memegen")
	dir, err := scope.CacheDir()
	if err != nil {
		return "", fmt.Errorf("unable to locate cache directory: %w", err)
	}
	return filepath.Join(dir, "speech"), nil
}

// Key returns the cache key for text spoken by voice.
func Key(engine, voice, text string) string {
	sum := sha256.Sum256([]byte(engine + "\x00" + voice + "\x00" + text))
	return hex.EncodeToString(sum[:16])
}
