package codex

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dusk-meridian/codex-cache/internal/codex/freshness"
	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// Lore returns cached lore entries, fetching when stale.
func (s *Service) Lore(ctx context.Context, fetch FetchFunc[storage.LoreEntry]) ([]storage.LoreEntry, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.LoreEntry]{
		key:      KeyLore,
		category: storage.CategoryLore,
		ttl:      freshness.TTLStaticDaily,
		table:    storage.TableLoreEntries,
		list:     s.store.ListLoreEntries,
		bulkPut:  s.store.BulkPutLoreEntries,
	}, fetch)
}

// StoreLoreEntry writes one lore entry directly into the cache, for locally
// authored or edited articles.
func (s *Service) StoreLoreEntry(ctx context.Context, entry storage.LoreEntry) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("codex service is not configured")
	}
	if err := s.store.PutLoreEntry(ctx, entry); err != nil {
		return fmt.Errorf("store lore entry: %w", err)
	}
	return nil
}

// BulkImportLore loads a batch of lore entries and marks the lore dataset
// fresh, so an import does not trigger an immediate refetch.
func (s *Service) BulkImportLore(ctx context.Context, entries []storage.LoreEntry) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("codex service is not configured")
	}
	if len(entries) == 0 {
		return nil
	}
	if err := s.store.BulkPutLoreEntries(ctx, entries); err != nil {
		return fmt.Errorf("bulk import lore: %w", err)
	}
	if err := s.policy.Record(ctx, KeyLore, storage.CategoryLore, freshness.TTLStaticDaily); err != nil {
		log.Printf("bulk import lore: record freshness: %v", err)
	}
	return nil
}

// LoreByCategory returns cached lore entries in one category.
func (s *Service) LoreByCategory(ctx context.Context, category string) ([]storage.LoreEntry, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	entries, err := s.store.ListLoreEntriesByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("lore by category %s: %w", category, err)
	}
	return entries, nil
}

// SearchLore returns cached lore entries whose title, content, summary, or
// tags contain the query, case-insensitively. An empty category searches
// all entries.
func (s *Service) SearchLore(ctx context.Context, query, category string) ([]storage.LoreEntry, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	var entries []storage.LoreEntry
	var err error
	if category != "" {
		entries, err = s.store.ListLoreEntriesByCategory(ctx, category)
	} else {
		entries, err = s.store.ListLoreEntries(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("search lore: %w", err)
	}

	needle := strings.ToLower(query)
	matched := make([]storage.LoreEntry, 0)
	for _, entry := range entries {
		if loreMatches(entry, needle) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func loreMatches(entry storage.LoreEntry, needle string) bool {
	for _, field := range []string{entry.Title, entry.Content, entry.Summary, entry.Tags} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
