package freshness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

type fakeMetadataStore struct {
	rows map[string]storage.CacheMetadata
	err  error
}

func newFakeMetadataStore() *fakeMetadataStore {
	return &fakeMetadataStore{rows: make(map[string]storage.CacheMetadata)}
}

func (f *fakeMetadataStore) GetCacheMetadata(ctx context.Context, key string) (storage.CacheMetadata, bool, error) {
	if f.err != nil {
		return storage.CacheMetadata{}, false, f.err
	}
	meta, ok := f.rows[key]
	return meta, ok, nil
}

func (f *fakeMetadataStore) PutCacheMetadata(ctx context.Context, meta storage.CacheMetadata) error {
	if f.err != nil {
		return f.err
	}
	f.rows[meta.Key] = meta
	return nil
}

func (f *fakeMetadataStore) DeleteCacheMetadata(ctx context.Context, key string) error {
	delete(f.rows, key)
	return nil
}

func (f *fakeMetadataStore) DeleteCacheMetadataByCategory(ctx context.Context, category string) (int64, error) {
	var deleted int64
	for key, meta := range f.rows {
		if meta.Category == category {
			delete(f.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeMetadataStore) DeleteExpiredCacheMetadata(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for key, meta := range f.rows {
		if meta.Expiry.Before(cutoff) {
			delete(f.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeMetadataStore) ListCacheMetadata(ctx context.Context) ([]storage.CacheMetadata, error) {
	out := make([]storage.CacheMetadata, 0, len(f.rows))
	for _, meta := range f.rows {
		out = append(out, meta)
	}
	return out, nil
}

func newTestPolicy(store storage.MetadataStore, now time.Time) *Policy {
	policy := NewPolicy(store)
	policy.clock = func() time.Time { return now }
	return policy
}

func TestFreshInsideWindow(t *testing.T) {
	store := newFakeMetadataStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := newTestPolicy(store, now)

	if err := policy.Record(context.Background(), "skills", storage.CategoryMechanics, TTLMechanics); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if !policy.Fresh(context.Background(), "skills") {
		t.Error("Fresh() = false immediately after Record, want true")
	}

	policy.clock = func() time.Time { return now.Add(TTLMechanics - time.Second) }
	if !policy.Fresh(context.Background(), "skills") {
		t.Error("Fresh() = false just before expiry, want true")
	}
}

func TestFreshExactlyAtExpiryIsStale(t *testing.T) {
	store := newFakeMetadataStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := newTestPolicy(store, now)

	if err := policy.Record(context.Background(), "world-stats", storage.CategoryStatistics, TTLWorldStats); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	policy.clock = func() time.Time { return now.Add(TTLWorldStats) }
	if policy.Fresh(context.Background(), "world-stats") {
		t.Error("Fresh() = true exactly at expiry, want false")
	}

	policy.clock = func() time.Time { return now.Add(TTLWorldStats + time.Second) }
	if policy.Fresh(context.Background(), "world-stats") {
		t.Error("Fresh() = true past expiry, want false")
	}
}

func TestFreshMissingKeyIsStale(t *testing.T) {
	policy := newTestPolicy(newFakeMetadataStore(), time.Now())
	if policy.Fresh(context.Background(), "never-recorded") {
		t.Error("Fresh() = true for unrecorded key, want false")
	}
}

func TestFreshStoreErrorIsStale(t *testing.T) {
	store := newFakeMetadataStore()
	store.err = errors.New("disk gone")
	policy := newTestPolicy(store, time.Now())

	if policy.Fresh(context.Background(), "skills") {
		t.Error("Fresh() = true when the store errors, want false")
	}
}

func TestRecordValidation(t *testing.T) {
	policy := newTestPolicy(newFakeMetadataStore(), time.Now())

	if err := policy.Record(context.Background(), "  ", storage.CategoryLore, TTLStaticDaily); err == nil {
		t.Error("Record() with blank key error = nil, want error")
	}
	if err := policy.Record(context.Background(), "lore", storage.CategoryLore, 0); err == nil {
		t.Error("Record() with zero ttl error = nil, want error")
	}
}

func TestRecordOverwritesWindow(t *testing.T) {
	store := newFakeMetadataStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := newTestPolicy(store, now)
	ctx := context.Background()

	if err := policy.Record(ctx, "regions", storage.CategoryGeography, TTLGeography); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	later := now.Add(TTLGeography + time.Hour)
	policy.clock = func() time.Time { return later }
	if policy.Fresh(ctx, "regions") {
		t.Fatal("Fresh() = true past expiry, want false")
	}

	if err := policy.Record(ctx, "regions", storage.CategoryGeography, TTLGeography); err != nil {
		t.Fatalf("Record() second pass error = %v", err)
	}
	if !policy.Fresh(ctx, "regions") {
		t.Error("Fresh() = false after re-recording, want true")
	}

	meta := store.rows["regions"]
	if !meta.Timestamp.Equal(later) {
		t.Errorf("Timestamp = %v, want %v", meta.Timestamp, later)
	}
	if !meta.Expiry.Equal(later.Add(TTLGeography)) {
		t.Errorf("Expiry = %v, want %v", meta.Expiry, later.Add(TTLGeography))
	}
}

func TestAge(t *testing.T) {
	store := newFakeMetadataStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := newTestPolicy(store, now)
	ctx := context.Background()

	if _, ok, err := policy.Age(ctx, "skills"); err != nil || ok {
		t.Fatalf("Age() before record = ok %v, err %v; want false, nil", ok, err)
	}

	if err := policy.Record(ctx, "skills", storage.CategoryMechanics, TTLMechanics); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	policy.clock = func() time.Time { return now.Add(90 * time.Minute) }
	age, ok, err := policy.Age(ctx, "skills")
	if err != nil {
		t.Fatalf("Age() error = %v", err)
	}
	if !ok {
		t.Fatal("Age() ok = false, want true")
	}
	if age != 90*time.Minute {
		t.Errorf("Age() = %v, want %v", age, 90*time.Minute)
	}
}
