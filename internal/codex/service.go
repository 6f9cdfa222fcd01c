// Package codex serves game reference data through the offline cache: fresh
// cached data is returned directly, stale data triggers the caller-supplied
// fetch, and fetch failures fall back to whatever is still cached.
package codex

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/freshness"
	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// Cache keys for whole-table datasets. Filtered settlement queries derive
// their own keys via settlementsKey.
const (
	KeyCharacterClasses = "character-classes"
	KeySkills           = "skills"
	KeySpells           = "spells"
	KeyProfessions      = "professions"
	KeyTechnologies     = "technologies"
	KeyContinents       = "continents"
	KeyRegions          = "regions"
	KeyFactions         = "factions"
	KeyResources        = "resources"
	KeyLore             = "lore"
	KeyNFTs             = "nfts"
	KeyCreatures        = "creatures"
	KeyWorldStatistics  = "world-statistics"
)

// FetchFunc supplies fresh records from the remote source. The cache never
// performs network calls itself.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Service is the fetch-through facade over the codex cache.
type Service struct {
	store  storage.Store
	policy *freshness.Policy
}

// NewService creates a codex service over the given store.
func NewService(store storage.Store) *Service {
	return &Service{
		store:  store,
		policy: freshness.NewPolicy(store),
	}
}

// tableOps binds one dataset's cache key to its store operations.
type tableOps[T any] struct {
	key      string
	category string
	ttl      time.Duration
	table    string
	list     func(context.Context) ([]T, error)
	bulkPut  func(context.Context, []T) error
}

// refresh is the fetch-through core. Fresh cached rows are served directly.
// Otherwise the fetch runs and its result replaces the table; a failed
// fetch falls back to stale cached rows when any exist. Cache writes are
// soft: a failed write is logged and the fresh data is returned anyway.
func refresh[T any](ctx context.Context, s *Service, ops tableOps[T], fetch FetchFunc[T]) ([]T, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	if fetch == nil {
		return nil, fmt.Errorf("fetch func is required")
	}

	if s.policy.Fresh(ctx, ops.key) {
		cached, err := ops.list(ctx)
		if err != nil {
			log.Printf("read cached %s: %v", ops.key, err)
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	fresh, err := fetch(ctx)
	if err != nil {
		cached, listErr := ops.list(ctx)
		if listErr == nil && len(cached) > 0 {
			log.Printf("fetch %s: %v (serving stale cache)", ops.key, err)
			return cached, nil
		}
		return nil, fmt.Errorf("fetch %s: %w", ops.key, err)
	}

	if ops.table != "" {
		if err := s.store.ClearTable(ctx, ops.table); err != nil {
			log.Printf("cache %s: clear stale rows: %v", ops.key, err)
			return fresh, nil
		}
	}
	if err := ops.bulkPut(ctx, fresh); err != nil {
		log.Printf("cache %s: store rows: %v", ops.key, err)
		return fresh, nil
	}
	if err := s.policy.Record(ctx, ops.key, ops.category, ops.ttl); err != nil {
		log.Printf("cache %s: record freshness: %v", ops.key, err)
	}
	return fresh, nil
}

// CharacterClasses returns cached character classes, fetching when stale.
func (s *Service) CharacterClasses(ctx context.Context, fetch FetchFunc[storage.CharacterClass]) ([]storage.CharacterClass, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.CharacterClass]{
		key:      KeyCharacterClasses,
		category: storage.CategoryMechanics,
		ttl:      freshness.TTLMechanics,
		table:    storage.TableCharacterClasses,
		list:     s.store.ListCharacterClasses,
		bulkPut:  s.store.BulkPutCharacterClasses,
	}, fetch)
}

// Skills returns cached skills, fetching when stale.
func (s *Service) Skills(ctx context.Context, fetch FetchFunc[storage.Skill]) ([]storage.Skill, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Skill]{
		key:      KeySkills,
		category: storage.CategoryMechanics,
		ttl:      freshness.TTLMechanics,
		table:    storage.TableSkills,
		list:     s.store.ListSkills,
		bulkPut:  s.store.BulkPutSkills,
	}, fetch)
}

// Spells returns cached spells, fetching when stale.
func (s *Service) Spells(ctx context.Context, fetch FetchFunc[storage.Spell]) ([]storage.Spell, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Spell]{
		key:      KeySpells,
		category: storage.CategoryMechanics,
		ttl:      freshness.TTLMechanics,
		table:    storage.TableSpells,
		list:     s.store.ListSpells,
		bulkPut:  s.store.BulkPutSpells,
	}, fetch)
}

// Professions returns cached professions, fetching when stale.
func (s *Service) Professions(ctx context.Context, fetch FetchFunc[storage.Profession]) ([]storage.Profession, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Profession]{
		key:      KeyProfessions,
		category: storage.CategoryMechanics,
		ttl:      freshness.TTLMechanics,
		table:    storage.TableProfessions,
		list:     s.store.ListProfessions,
		bulkPut:  s.store.BulkPutProfessions,
	}, fetch)
}

// Technologies returns cached technologies, fetching when stale.
func (s *Service) Technologies(ctx context.Context, fetch FetchFunc[storage.Technology]) ([]storage.Technology, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Technology]{
		key:      KeyTechnologies,
		category: storage.CategoryMechanics,
		ttl:      freshness.TTLMechanics,
		table:    storage.TableTechnologies,
		list:     s.store.ListTechnologies,
		bulkPut:  s.store.BulkPutTechnologies,
	}, fetch)
}

// Continents returns cached continents, fetching when stale.
func (s *Service) Continents(ctx context.Context, fetch FetchFunc[storage.Continent]) ([]storage.Continent, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Continent]{
		key:      KeyContinents,
		category: storage.CategoryGeography,
		ttl:      freshness.TTLGeography,
		table:    storage.TableContinents,
		list:     s.store.ListContinents,
		bulkPut:  s.store.BulkPutContinents,
	}, fetch)
}

// Regions returns cached regions, fetching when stale.
func (s *Service) Regions(ctx context.Context, fetch FetchFunc[storage.Region]) ([]storage.Region, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Region]{
		key:      KeyRegions,
		category: storage.CategoryGeography,
		ttl:      freshness.TTLGeography,
		table:    storage.TableRegions,
		list:     s.store.ListRegions,
		bulkPut:  s.store.BulkPutRegions,
	}, fetch)
}

// SettlementFilter narrows a settlement query. Zero values mean "all".
type SettlementFilter struct {
	RegionID  int64
	FactionID string
}

// settlementsKey derives the cache key for one filter combination, so a
// filtered fetch never masquerades as the full set.
func settlementsKey(filter SettlementFilter) string {
	region := "all"
	if filter.RegionID != 0 {
		region = fmt.Sprintf("%d", filter.RegionID)
	}
	faction := "all"
	if filter.FactionID != "" {
		faction = filter.FactionID
	}
	return fmt.Sprintf("settlements-%s-%s", region, faction)
}

// Settlements returns cached settlements matching the filter, fetching when
// stale. Filtered results are merged into the table rather than replacing
// it, so narrower queries never evict the broader set.
func (s *Service) Settlements(ctx context.Context, filter SettlementFilter, fetch FetchFunc[storage.Settlement]) ([]storage.Settlement, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	list := func(ctx context.Context) ([]storage.Settlement, error) {
		switch {
		case filter.RegionID != 0 && filter.FactionID != "":
			byRegion, err := s.store.ListSettlementsByRegion(ctx, filter.RegionID)
			if err != nil {
				return nil, err
			}
			matched := make([]storage.Settlement, 0, len(byRegion))
			for _, settlement := range byRegion {
				if settlement.FactionID == filter.FactionID {
					matched = append(matched, settlement)
				}
			}
			return matched, nil
		case filter.RegionID != 0:
			return s.store.ListSettlementsByRegion(ctx, filter.RegionID)
		case filter.FactionID != "":
			return s.store.ListSettlementsByFaction(ctx, filter.FactionID)
		default:
			return s.store.ListSettlements(ctx)
		}
	}

	table := ""
	if filter == (SettlementFilter{}) {
		table = storage.TableSettlements
	}
	return refresh(ctx, s, tableOps[storage.Settlement]{
		key:      settlementsKey(filter),
		category: storage.CategoryGeography,
		ttl:      freshness.TTLGeography,
		table:    table,
		list:     list,
		bulkPut:  s.store.BulkPutSettlements,
	}, fetch)
}

// Factions returns cached factions, fetching when stale.
func (s *Service) Factions(ctx context.Context, fetch FetchFunc[storage.Faction]) ([]storage.Faction, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Faction]{
		key:      KeyFactions,
		category: storage.CategoryFactions,
		ttl:      freshness.TTLStaticDaily,
		table:    storage.TableFactions,
		list:     s.store.ListFactions,
		bulkPut:  s.store.BulkPutFactions,
	}, fetch)
}

// Resources returns cached resources, fetching when stale.
func (s *Service) Resources(ctx context.Context, fetch FetchFunc[storage.Resource]) ([]storage.Resource, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Resource]{
		key:      KeyResources,
		category: storage.CategoryResources,
		ttl:      freshness.TTLStaticDaily,
		table:    storage.TableResources,
		list:     s.store.ListResources,
		bulkPut:  s.store.BulkPutResources,
	}, fetch)
}

// NFTs returns cached NFT catalog entries, fetching when stale.
func (s *Service) NFTs(ctx context.Context, fetch FetchFunc[storage.NFT]) ([]storage.NFT, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.NFT]{
		key:      KeyNFTs,
		category: storage.CategoryNFTs,
		ttl:      freshness.TTLStaticDaily,
		table:    storage.TableNFTs,
		list:     s.store.ListNFTs,
		bulkPut:  s.store.BulkPutNFTs,
	}, fetch)
}

// Creatures returns cached creatures, fetching when stale.
func (s *Service) Creatures(ctx context.Context, fetch FetchFunc[storage.Creature]) ([]storage.Creature, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("codex service is not configured")
	}
	return refresh(ctx, s, tableOps[storage.Creature]{
		key:      KeyCreatures,
		category: storage.CategoryCreatures,
		ttl:      freshness.TTLStaticDaily,
		table:    storage.TableCreatures,
		list:     s.store.ListCreatures,
		bulkPut:  s.store.BulkPutCreatures,
	}, fetch)
}

// WorldStatistics returns the cached world statistics snapshot, fetching
// when stale. Statistics change constantly, so the window is short.
func (s *Service) WorldStatistics(ctx context.Context, fetch func(context.Context) (storage.WorldStatistics, error)) (storage.WorldStatistics, error) {
	if s == nil || s.store == nil {
		return storage.WorldStatistics{}, fmt.Errorf("codex service is not configured")
	}
	if fetch == nil {
		return storage.WorldStatistics{}, fmt.Errorf("fetch func is required")
	}

	if s.policy.Fresh(ctx, KeyWorldStatistics) {
		cached, ok, err := s.store.GetWorldStatistics(ctx)
		if err != nil {
			log.Printf("read cached world statistics: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	fresh, err := fetch(ctx)
	if err != nil {
		cached, ok, getErr := s.store.GetWorldStatistics(ctx)
		if getErr == nil && ok {
			log.Printf("fetch world statistics: %v (serving stale cache)", err)
			return cached, nil
		}
		return storage.WorldStatistics{}, fmt.Errorf("fetch world statistics: %w", err)
	}

	if err := s.store.PutWorldStatistics(ctx, fresh); err != nil {
		log.Printf("cache world statistics: %v", err)
		return fresh, nil
	}
	if err := s.policy.Record(ctx, KeyWorldStatistics, storage.CategoryStatistics, freshness.TTLWorldStats); err != nil {
		log.Printf("cache world statistics: record freshness: %v", err)
	}
	return fresh, nil
}

// ForceRefresh drops the key's freshness metadata so the next read
// refetches regardless of the recorded expiry.
func (s *Service) ForceRefresh(ctx context.Context, key string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("codex service is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cache key is required")
	}
	if err := s.store.DeleteCacheMetadata(ctx, key); err != nil {
		return fmt.Errorf("force refresh %s: %w", key, err)
	}
	return nil
}

// Fresh reports whether the key's cached data is inside its expiry window.
func (s *Service) Fresh(ctx context.Context, key string) bool {
	if s == nil {
		return false
	}
	return s.policy.Fresh(ctx, key)
}

// CacheAge returns how long ago the key's cached data was recorded.
func (s *Service) CacheAge(ctx context.Context, key string) (time.Duration, bool, error) {
	if s == nil {
		return 0, false, fmt.Errorf("codex service is not configured")
	}
	return s.policy.Age(ctx, key)
}
