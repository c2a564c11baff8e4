package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockaudit/internal/adapters/sqlite"
	"go.trai.ch/lockaudit/internal/core/domain"
)

func newStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache", "cache.db")
	store := sqlite.NewStore(path)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)
	now := time.Date(2024, 5, 6, 7, 8, 9, 10, time.UTC)
	store.SetClock(func() time.Time { return now })

	rec := domain.VulnerabilityRecord{
		Coordinate: "pkg:gem/rails@7.1.3",
		Reference:  "https://ossindex.sonatype.org/component/pkg:gem/rails@7.1.3",
		Vulnerabilities: []domain.Vulnerability{
			{ID: "abc", Title: "[CVE-2024-0001] XSS", CVSSScore: 6.1, CVE: "CVE-2024-0001"},
		},
	}

	require.NoError(t, store.Put(ctx, rec))

	got, err := store.Get(ctx, rec.Coordinate)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, got.Record)
	assert.Equal(t, now, got.StoredAt)
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	got, err := store.Get(context.Background(), "pkg:gem/missing@1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_PutIsUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	first := domain.VulnerabilityRecord{Coordinate: "pkg:gem/rack@2.2.0", Vulnerabilities: []domain.Vulnerability{{ID: "1"}}}
	second := domain.VulnerabilityRecord{Coordinate: "pkg:gem/rack@2.2.0", Vulnerabilities: []domain.Vulnerability{}}

	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, "pkg:gem/rack@2.2.0")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Record.Vulnerable())
}

func TestStore_GetCorrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record string
	}{
		{name: "not json", record: "{ not json"},
		{name: "empty object", record: "{}"},
		{name: "null", record: "null"},
		{name: "other coordinate", record: `{"coordinates":"pkg:gem/other@1","vulnerabilities":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store, _ := newStore(t)

			require.NoError(t, store.Exec(ctx,
				`INSERT INTO records (coordinate, record, stored_at) VALUES (?, ?, ?)`,
				"pkg:gem/bad@1", tt.record, time.Now().UTC().Format(time.RFC3339Nano)))

			got, err := store.Get(ctx, "pkg:gem/bad@1")
			require.ErrorIs(t, err, domain.ErrCacheRead)
			assert.Nil(t, got)
		})
	}
}

func TestStore_GetCorruptAfterPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Put(ctx, domain.VulnerabilityRecord{Coordinate: "pkg:gem/a@1", Vulnerabilities: []domain.Vulnerability{}}))
	require.NoError(t, store.Exec(ctx, `UPDATE records SET record = '{}'`))

	got, err := store.Get(ctx, "pkg:gem/a@1")
	require.ErrorIs(t, err, domain.ErrCacheRead)
	assert.Nil(t, got)
}

func TestStore_CanceledFirstCallerDoesNotBreakStore(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = store.Get(ctx, "pkg:gem/a@1")

	rec := domain.VulnerabilityRecord{Coordinate: "pkg:gem/a@1", Vulnerabilities: []domain.Vulnerability{}}
	require.NoError(t, store.Put(context.Background(), rec))

	got, err := store.Get(context.Background(), rec.Coordinate)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, got.Record)
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Put(ctx, domain.VulnerabilityRecord{Coordinate: "pkg:gem/a@1"}))
	require.NoError(t, store.Clear(ctx))

	got, err := store.Get(ctx, "pkg:gem/a@1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	rec := domain.VulnerabilityRecord{Coordinate: "pkg:gem/puma@6.4.2", Vulnerabilities: []domain.Vulnerability{}}

	first := sqlite.NewStore(path)
	require.NoError(t, first.Put(ctx, rec))
	require.NoError(t, first.Close())

	second := sqlite.NewStore(path)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Get(ctx, rec.Coordinate)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, got.Record)
}

func TestStore_OpenFailure(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	store := sqlite.NewStore(filepath.Join(blocker, "cache.db"))
	err := store.Put(context.Background(), domain.VulnerabilityRecord{Coordinate: "pkg:gem/a@1"})
	require.ErrorIs(t, err, domain.ErrCacheWrite)
	require.ErrorIs(t, err, domain.ErrCacheCreateFailed)
}

func TestStore_ConcurrentPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coord := domain.Coordinate("pkg:gem/dep@" + string(rune('a'+i)))
			assert.NoError(t, store.Put(ctx, domain.VulnerabilityRecord{Coordinate: coord}))
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "pkg:gem/dep@a")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
