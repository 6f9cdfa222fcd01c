package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
	"github.com/dusk-meridian/codex-cache/internal/codex/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "codex.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	})
	return store
}

func TestReportEmptyCache(t *testing.T) {
	reporter := NewReporter(newTestStore(t))

	report, err := reporter.Report(context.Background())
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0", report.TotalEntries)
	}
	if report.OldestEntry != nil || report.NewestEntry != nil {
		t.Errorf("Oldest/NewestEntry = %v/%v, want nil for an empty cache", report.OldestEntry, report.NewestEntry)
	}
	if report.DatabaseSize != DatabaseSizeUnavailable {
		t.Errorf("DatabaseSize = %q, want %q", report.DatabaseSize, DatabaseSizeUnavailable)
	}
	if len(report.EntriesByCategory) != len(storage.CodexTables()) {
		t.Errorf("EntriesByCategory has %d tables, want %d", len(report.EntriesByCategory), len(storage.CodexTables()))
	}
}

func TestReportCountsAndTimestamps(t *testing.T) {
	store := newTestStore(t)
	reporter := NewReporter(store)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.BulkPutSkills(ctx, []storage.Skill{
		{ID: 1, Name: "Mining", LastUpdated: now},
		{ID: 2, Name: "Smithing", LastUpdated: now},
		{ID: 3, Name: "Fishing", LastUpdated: now},
	}); err != nil {
		t.Fatalf("BulkPutSkills() error = %v", err)
	}
	if err := store.BulkPutCreatures(ctx, []storage.Creature{
		{ID: "crt-wolf", Name: "Dire Wolf", Zone: "ashlands", LastUpdated: now},
	}); err != nil {
		t.Fatalf("BulkPutCreatures() error = %v", err)
	}

	oldest := now.Add(-3 * time.Hour)
	newest := now.Add(-10 * time.Minute)
	metadata := []storage.CacheMetadata{
		{Key: "skills", Timestamp: oldest, Expiry: now.Add(time.Hour), Category: storage.CategoryMechanics},
		{Key: "creatures", Timestamp: newest, Expiry: now.Add(time.Hour), Category: storage.CategoryCreatures},
		{Key: "regions", Timestamp: now.Add(-time.Hour), Expiry: now.Add(time.Hour), Category: storage.CategoryGeography},
	}
	for _, meta := range metadata {
		if err := store.PutCacheMetadata(ctx, meta); err != nil {
			t.Fatalf("PutCacheMetadata(%q) error = %v", meta.Key, err)
		}
	}

	report, err := reporter.Report(ctx)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.TotalEntries != 4 {
		t.Errorf("TotalEntries = %d, want 4", report.TotalEntries)
	}
	if report.EntriesByCategory[storage.TableSkills] != 3 {
		t.Errorf("skills count = %d, want 3", report.EntriesByCategory[storage.TableSkills])
	}
	if report.EntriesByCategory[storage.TableCreatures] != 1 {
		t.Errorf("creatures count = %d, want 1", report.EntriesByCategory[storage.TableCreatures])
	}
	if report.MetadataEntries != 3 {
		t.Errorf("MetadataEntries = %d, want 3", report.MetadataEntries)
	}
	if report.OldestEntry == nil || !report.OldestEntry.Equal(oldest) {
		t.Errorf("OldestEntry = %v, want %v", report.OldestEntry, oldest)
	}
	if report.NewestEntry == nil || !report.NewestEntry.Equal(newest) {
		t.Errorf("NewestEntry = %v, want %v", report.NewestEntry, newest)
	}
}

func TestReportExcludesBuildingRows(t *testing.T) {
	store := newTestStore(t)
	reporter := NewReporter(store)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.BulkPutSettlementBuildings(ctx, []storage.SettlementBuilding{
		{SettlementID: 42, BuildingID: 1, Name: "Keep", LastUpdated: now},
		{SettlementID: 42, BuildingID: 2, Name: "Forge", LastUpdated: now},
	}); err != nil {
		t.Fatalf("BulkPutSettlementBuildings() error = %v", err)
	}

	report, err := reporter.Report(ctx)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0: building rows stay out of the totals", report.TotalEntries)
	}
	if _, ok := report.EntriesByCategory[storage.TableSettlementBuildings]; ok {
		t.Error("EntriesByCategory contains settlement_buildings, want codex tables only")
	}
}
