// Package settlementmap detects changes in settlement building layouts so a
// wholesale fetch can skip rewriting an unchanged cache.
package settlementmap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// ChangesSummary breaks a detected change down by building id.
type ChangesSummary struct {
	Added    int
	Removed  int
	Modified int
}

// ComparisonResult reports whether a freshly fetched building set differs
// from the cached one. Changes is nil when nothing changed.
type ComparisonResult struct {
	HasChanged      bool
	CachedBuildings []storage.SettlementBuilding
	FreshBuildings  []storage.SettlementBuilding
	Changes         *ChangesSummary
}

// Service compares and caches settlement building sets.
type Service struct {
	store storage.BuildingStore
	clock func() time.Time
}

// NewService creates a change-detection service over the given store.
func NewService(store storage.BuildingStore) *Service {
	return &Service{store: store, clock: time.Now}
}

// Compare checks a freshly fetched building set against the cached
// fingerprint for the settlement. Store failures fail open: the result
// reports a change with an empty cached set, so callers proceed with the
// fresh data instead of blocking on the cache layer.
func (s *Service) Compare(ctx context.Context, settlementID int64, fresh []storage.SettlementBuilding) ComparisonResult {
	changed := func(cached []storage.SettlementBuilding, summary *ChangesSummary) ComparisonResult {
		return ComparisonResult{
			HasChanged:      true,
			CachedBuildings: cached,
			FreshBuildings:  fresh,
			Changes:         summary,
		}
	}

	if s == nil || s.store == nil {
		return changed(nil, &ChangesSummary{Added: len(fresh)})
	}

	cached, err := s.store.ListSettlementBuildings(ctx, settlementID)
	if err != nil {
		log.Printf("compare settlement %d buildings: %v", settlementID, err)
		return changed(nil, &ChangesSummary{Added: len(fresh)})
	}
	if len(cached) == 0 {
		return changed(cached, &ChangesSummary{Added: len(fresh)})
	}

	meta, ok, err := s.store.GetSettlementMapMetadata(ctx, settlementID)
	if err != nil {
		log.Printf("compare settlement %d map metadata: %v", settlementID, err)
		return changed(nil, &ChangesSummary{Added: len(fresh)})
	}
	if !ok {
		return changed(cached, &ChangesSummary{Added: len(fresh) - len(cached)})
	}

	if BuildingHash(fresh) == meta.BuildingHash {
		return ComparisonResult{
			HasChanged:      false,
			CachedBuildings: cached,
			FreshBuildings:  fresh,
		}
	}
	return changed(cached, diffBuildings(cached, fresh))
}

// diffBuildings summarizes a hash mismatch by set difference on building id.
// A building counts as modified when its position or status flags differ.
func diffBuildings(cached, fresh []storage.SettlementBuilding) *ChangesSummary {
	cachedByID := make(map[int64]storage.SettlementBuilding, len(cached))
	for _, building := range cached {
		cachedByID[building.BuildingID] = building
	}

	summary := &ChangesSummary{}
	seen := make(map[int64]bool, len(fresh))
	for _, building := range fresh {
		seen[building.BuildingID] = true
		prev, ok := cachedByID[building.BuildingID]
		if !ok {
			summary.Added++
			continue
		}
		if buildingModified(prev, building) {
			summary.Modified++
		}
	}
	for id := range cachedByID {
		if !seen[id] {
			summary.Removed++
		}
	}
	return summary
}

func buildingModified(prev, next storage.SettlementBuilding) bool {
	return prev.X != next.X ||
		prev.Y != next.Y ||
		prev.Z != next.Z ||
		prev.IsDestroyed != next.IsDestroyed ||
		prev.IsDamaged != next.IsDamaged ||
		prev.IsActive != next.IsActive
}

// Cache replaces the settlement's cached building set and stores the
// recomputed fingerprint. Failures are logged and swallowed: the cache is a
// soft layer and the caller already holds the fresh data it needs.
func (s *Service) Cache(ctx context.Context, settlementID int64, buildings []storage.SettlementBuilding) {
	if s == nil || s.store == nil {
		return
	}

	if _, err := s.store.DeleteSettlementBuildings(ctx, settlementID); err != nil {
		log.Printf("cache settlement %d buildings: clear stale rows: %v", settlementID, err)
		return
	}
	if err := s.store.BulkPutSettlementBuildings(ctx, buildings); err != nil {
		log.Printf("cache settlement %d buildings: store rows: %v", settlementID, err)
		return
	}

	meta := storage.SettlementMapMetadata{
		SettlementID: settlementID,
		BuildingHash: BuildingHash(buildings),
		LastUpdated:  s.clock(),
	}
	if err := s.store.PutSettlementMapMetadata(ctx, meta); err != nil {
		log.Printf("cache settlement %d buildings: store fingerprint: %v", settlementID, err)
	}
}

// Cached returns the cached building set for one settlement.
func (s *Service) Cached(ctx context.Context, settlementID int64) ([]storage.SettlementBuilding, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("settlement map service is not configured")
	}
	buildings, err := s.store.ListSettlementBuildings(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("list cached settlement %d buildings: %w", settlementID, err)
	}
	return buildings, nil
}

// HasCached reports whether any building rows are cached for the settlement.
// Store failures read as an empty cache.
func (s *Service) HasCached(ctx context.Context, settlementID int64) bool {
	if s == nil || s.store == nil {
		return false
	}
	count, err := s.store.CountSettlementBuildings(ctx, settlementID)
	if err != nil {
		log.Printf("count settlement %d buildings: %v", settlementID, err)
		return false
	}
	return count > 0
}

// ClearSettlement removes the settlement's cached buildings and fingerprint.
func (s *Service) ClearSettlement(ctx context.Context, settlementID int64) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("settlement map service is not configured")
	}
	if _, err := s.store.DeleteSettlementBuildings(ctx, settlementID); err != nil {
		return fmt.Errorf("clear settlement %d buildings: %w", settlementID, err)
	}
	if err := s.store.DeleteSettlementMapMetadata(ctx, settlementID); err != nil {
		return fmt.Errorf("clear settlement %d fingerprint: %w", settlementID, err)
	}
	return nil
}

// CacheAge returns how long ago the settlement's building set was cached.
// The second return is false when no fingerprint exists.
func (s *Service) CacheAge(ctx context.Context, settlementID int64) (time.Duration, bool, error) {
	if s == nil || s.store == nil {
		return 0, false, fmt.Errorf("settlement map service is not configured")
	}
	meta, ok, err := s.store.GetSettlementMapMetadata(ctx, settlementID)
	if err != nil {
		return 0, false, fmt.Errorf("get settlement %d fingerprint: %w", settlementID, err)
	}
	if !ok {
		return 0, false, nil
	}
	return s.clock().Sub(meta.LastUpdated), true, nil
}
