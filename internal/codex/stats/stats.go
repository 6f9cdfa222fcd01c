// Package stats aggregates cache contents for admin and observability
// tooling.
package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// DatabaseSizeUnavailable is reported for every snapshot: the embedded
// store does not expose a portable storage footprint.
const DatabaseSizeUnavailable = "N/A"

// Stats is one read-only snapshot of cache contents. EntriesByCategory is
// keyed by table name.
type Stats struct {
	TotalEntries      int64            `json:"totalEntries"`
	EntriesByCategory map[string]int64 `json:"entriesByCategory"`
	OldestEntry       *time.Time       `json:"oldestEntry"`
	NewestEntry       *time.Time       `json:"newestEntry"`
	DatabaseSize      string           `json:"databaseSize"`
	MetadataEntries   int64            `json:"metadataEntries"`
}

// Store is the persistence surface the reporter reads from.
type Store interface {
	storage.MetadataStore
	storage.MaintenanceStore
}

// Reporter computes cache statistics snapshots.
type Reporter struct {
	store Store
}

// NewReporter creates a statistics reporter over the given store.
func NewReporter(store Store) *Reporter {
	return &Reporter{store: store}
}

// Report counts every codex reference table and scans freshness metadata
// for the oldest and newest recorded entries. Settlement building rows are
// excluded from the totals; their lifecycle is tracked by the map
// fingerprint, not by entry counts.
func (r *Reporter) Report(ctx context.Context) (Stats, error) {
	if r == nil || r.store == nil {
		return Stats{}, fmt.Errorf("stats reporter is not configured")
	}

	tables := storage.CodexTables()
	counts := make([]int64, len(tables))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, table := range tables {
		group.Go(func() error {
			count, err := r.store.CountTable(groupCtx, table)
			if err != nil {
				return err
			}
			counts[i] = count
			return nil
		})
	}

	var metadata []storage.CacheMetadata
	group.Go(func() error {
		rows, err := r.store.ListCacheMetadata(groupCtx)
		if err != nil {
			return err
		}
		metadata = rows
		return nil
	})

	if err := group.Wait(); err != nil {
		return Stats{}, fmt.Errorf("collect cache stats: %w", err)
	}

	result := Stats{
		EntriesByCategory: make(map[string]int64, len(tables)),
		DatabaseSize:    DatabaseSizeUnavailable,
		MetadataEntries: int64(len(metadata)),
	}
	for i, table := range tables {
		result.EntriesByCategory[table] = counts[i]
		result.TotalEntries += counts[i]
	}

	for _, meta := range metadata {
		ts := meta.Timestamp
		if result.OldestEntry == nil || ts.Before(*result.OldestEntry) {
			oldest := ts
			result.OldestEntry = &oldest
		}
		if result.NewestEntry == nil || ts.After(*result.NewestEntry) {
			newest := ts
			result.NewestEntry = &newest
		}
	}
	return result, nil
}
