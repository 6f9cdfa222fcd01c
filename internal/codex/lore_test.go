package codex

import (
	"context"
	"testing"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

func testLoreEntries() []storage.LoreEntry {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return []storage.LoreEntry{
		{ID: "lore-founding", Title: "The Founding of Ironhold", Category: "history", Content: "Long before the fracture, the Iron Covenant raised its first keep.", Tags: "ironhold,covenant", LastUpdated: now},
		{ID: "lore-tides", Title: "Songs of the Tide", Category: "culture", Content: "Tidewatch sailors keep an old chant.", Summary: "Maritime folklore", Tags: "tidewatch", LastUpdated: now},
		{ID: "lore-wolves", Title: "Dire Wolves of the Ashlands", Category: "bestiary", Content: "Packs roam the ash plains.", Tags: "creatures,ashlands", LastUpdated: now},
	}
}

func TestBulkImportLoreMarksFresh(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if err := service.BulkImportLore(ctx, testLoreEntries()); err != nil {
		t.Fatalf("BulkImportLore() error = %v", err)
	}
	if !service.Fresh(ctx, KeyLore) {
		t.Error("Fresh(lore) = false after import, want true")
	}

	// A fresh dataset is served without invoking the fetch.
	calls := 0
	fetch := func(ctx context.Context) ([]storage.LoreEntry, error) {
		calls++
		return nil, nil
	}
	entries, err := service.Lore(ctx, fetch)
	if err != nil {
		t.Fatalf("Lore() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("fetch calls = %d, want 0", calls)
	}
	if len(entries) != 3 {
		t.Errorf("Lore() returned %d entries, want 3", len(entries))
	}
}

func TestBulkImportLoreEmptyIsNoOp(t *testing.T) {
	service, _ := newTestService(t)
	if err := service.BulkImportLore(context.Background(), nil); err != nil {
		t.Errorf("BulkImportLore(nil) error = %v, want nil", err)
	}
}

func TestStoreLoreEntry(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	entry := storage.LoreEntry{ID: "lore-local", Title: "Local Notes", Category: "history", LastUpdated: time.Now().UTC()}
	if err := service.StoreLoreEntry(ctx, entry); err != nil {
		t.Fatalf("StoreLoreEntry() error = %v", err)
	}

	got, ok, err := store.GetLoreEntry(ctx, "lore-local")
	if err != nil || !ok {
		t.Fatalf("GetLoreEntry() = ok %v, err %v; want true, nil", ok, err)
	}
	if got.Title != "Local Notes" {
		t.Errorf("Title = %q, want %q", got.Title, "Local Notes")
	}
}

func TestSearchLore(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if err := service.BulkImportLore(ctx, testLoreEntries()); err != nil {
		t.Fatalf("BulkImportLore() error = %v", err)
	}

	tests := []struct {
		name     string
		query    string
		category string
		wantIDs  []string
	}{
		{name: "title match", query: "ironhold", wantIDs: []string{"lore-founding"}},
		{name: "content match", query: "ash plains", wantIDs: []string{"lore-wolves"}},
		{name: "summary match", query: "maritime", wantIDs: []string{"lore-tides"}},
		{name: "tag match", query: "ashlands", wantIDs: []string{"lore-wolves"}},
		{name: "case insensitive", query: "TIDEWATCH", wantIDs: []string{"lore-tides"}},
		{name: "category filter excludes", query: "ashlands", category: "history", wantIDs: nil},
		{name: "no matches", query: "dragons", wantIDs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := service.SearchLore(ctx, tt.query, tt.category)
			if err != nil {
				t.Fatalf("SearchLore() error = %v", err)
			}
			if len(entries) != len(tt.wantIDs) {
				t.Fatalf("SearchLore() returned %d entries, want %d", len(entries), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if entries[i].ID != id {
					t.Errorf("entry %d = %q, want %q", i, entries[i].ID, id)
				}
			}
		})
	}

	if _, err := service.SearchLore(ctx, "  ", ""); err == nil {
		t.Error("SearchLore() with blank query error = nil, want error")
	}
}

func TestLoreByCategory(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if err := service.BulkImportLore(ctx, testLoreEntries()); err != nil {
		t.Fatalf("BulkImportLore() error = %v", err)
	}

	entries, err := service.LoreByCategory(ctx, "history")
	if err != nil {
		t.Fatalf("LoreByCategory() error = %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "lore-founding" {
		t.Errorf("LoreByCategory(history) = %+v, want only lore-founding", entries)
	}
}
