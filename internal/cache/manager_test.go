package cache

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"
)

func testConfig(dir string) Config {
	return Config{
		MemoryCapacity:   1024,
		Dir:              dir,
		DiskCapacity:     64 * 1024,
		CompressionLevel: 3,
		TTL:              time.Hour,
	}
}

func TestDiskCache_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	dc, err := NewDiskCache(dir, 64*1024, 3)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}

	// Compressible and larger than the compression threshold.
	value := bytes.Repeat([]byte("meme "), 1000)
	if err := dc.Put("k", value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if s := dc.Stats(); s.Size >= int64(len(value)) {
		t.Errorf("expected compressed size below %d, got %d", len(value), s.Size)
	}
	if err := dc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewDiskCache(dir, 64*1024, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close() //nolint:errcheck

	got, ok := reopened.Get("k")
	if !ok {
		t.Fatal("entry lost after reopen")
	}
	if !bytes.Equal(got, value) {
		t.Error("value changed after reopen")
	}
}

func TestDiskCache_MissingFileIsDropped(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close() //nolint:errcheck

	if err := dc.Put("k", []byte("value")); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(dc.index["k"].File); err != nil {
		t.Fatal(err)
	}

	if _, ok := dc.Get("k"); ok {
		t.Error("expected miss for deleted file")
	}
	if s := dc.Stats(); s.Items != 0 || s.Size != 0 {
		t.Errorf("stale entry not dropped: %+v", s)
	}
}

func TestDiskCache_EvictsAndRejects(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close() //nolint:errcheck

	_ = dc.Put("a", bytes.Repeat([]byte("a"), 10))
	time.Sleep(2 * time.Millisecond)
	_ = dc.Put("b", bytes.Repeat([]byte("b"), 10))
	time.Sleep(2 * time.Millisecond)
	if err := dc.Put("c", bytes.Repeat([]byte("c"), 10)); err != nil {
		t.Fatal(err)
	}

	if _, ok := dc.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if err := dc.Put("huge", bytes.Repeat([]byte("x"), 40)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("Put(huge) = %v, want ErrItemTooLarge", err)
	}
}

func TestDiskCache_PutAfterClose(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = dc.Close()
	if err := dc.Put("k", []byte("v")); !errors.Is(err, ErrClosed) {
		t.Errorf("Put after Close = %v, want ErrClosed", err)
	}
}

func TestManager_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManager(testConfig(dir))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Put("k", []byte("spoken")); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	m, err = NewManager(testConfig(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close() //nolint:errcheck

	got, ok := m.Get("k")
	if !ok || string(got) != "spoken" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	memory, disk := m.Levels()
	if memory.Items != 1 {
		t.Errorf("disk hit not promoted, memory items = %d", memory.Items)
	}
	if disk.Hits != 1 {
		t.Errorf("disk hits = %d, want 1", disk.Hits)
	}

	if _, ok := m.Get("k"); !ok {
		t.Fatal("second Get missed")
	}
	if _, disk = m.Levels(); disk.Hits != 1 {
		t.Errorf("second Get should be served from memory, disk hits = %d", disk.Hits)
	}
}

func TestManager_MemoryOnly(t *testing.T) {
	m, err := NewManager(Config{MemoryCapacity: 16})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close() //nolint:errcheck

	if err := m.Put("big", bytes.Repeat([]byte("x"), 32)); err != nil {
		t.Errorf("oversized value should be skipped, got %v", err)
	}
	if _, ok := m.Get("big"); ok {
		t.Error("oversized value should not be cached without a disk level")
	}

	_ = m.Put("k", []byte("v"))
	if err := m.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get("k"); ok {
		t.Error("key present after Delete")
	}
}

func TestManager_Cleanup(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.TTL = time.Millisecond

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close() //nolint:errcheck

	_ = m.Put("k", []byte("v"))
	time.Sleep(5 * time.Millisecond)

	if removed := m.Cleanup(); removed != 1 {
		t.Errorf("Cleanup removed %d disk entries, want 1", removed)
	}
	if _, ok := m.Get("k"); ok {
		t.Error("expired entry still cached")
	}
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.CleanupInterval = time.Millisecond

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}
