package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errDiskFull = errors.New("disk full")

// memStorage is an in-memory fiber.Storage that can be told to fail writes.
type memStorage struct {
	mu     sync.Mutex
	m      map[string][]byte
	writes int
	fail   bool
}

func newMemStorage() *memStorage {
	return &memStorage{m: map[string][]byte{}}
}

func (m *memStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[key], nil
}

func (m *memStorage) Set(key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errDiskFull
	}
	m.writes++
	m.m[key] = append([]byte(nil), val...)
	return nil
}

func (m *memStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
	return nil
}

func (m *memStorage) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m = map[string][]byte{}
	return nil
}

func (m *memStorage) Close() error { return nil }

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, blobs *memStorage) *Store {
	t.Helper()
	return New(blobs, WithClock(func() time.Time { return fixedNow }), WithLogger(zaptest.NewLogger(t)))
}

func seededStore(t *testing.T) (*Store, *memStorage) {
	t.Helper()
	blobs := newMemStorage()
	s := newTestStore(t, blobs)
	require.NoError(t, s.SeedSampleData())
	return s, blobs
}
