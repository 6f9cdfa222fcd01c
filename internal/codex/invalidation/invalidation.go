// Package invalidation implements the four cache-clearing scopes: full
// reset, expired sweep, per-category clear, and single-key clear.
package invalidation

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// Store is the persistence surface the controller needs.
type Store interface {
	storage.MetadataStore
	storage.MaintenanceStore
}

// categoryTables maps each invalidation category to the data tables it
// owns. Clearing a category drops these tables plus the matching metadata
// rows.
var categoryTables = map[string][]string{
	storage.CategoryMechanics: {
		storage.TableCharacterClasses,
		storage.TableSkills,
		storage.TableSpells,
		storage.TableProfessions,
		storage.TableTechnologies,
	},
	storage.CategoryGeography: {
		storage.TableContinents,
		storage.TableRegions,
		storage.TableSettlements,
	},
	storage.CategoryFactions:   {storage.TableFactions},
	storage.CategoryResources:  {storage.TableResources},
	storage.CategoryLore:       {storage.TableLoreEntries},
	storage.CategoryNFTs:       {storage.TableNFTs},
	storage.CategoryCreatures:  {storage.TableCreatures},
	storage.CategoryStatistics: {storage.TableWorldStatistics},
}

// Controller executes invalidation operations against one store.
type Controller struct {
	store Store
	clock func() time.Time
}

// NewController creates an invalidation controller. It fails when the
// category mapping references a table outside the declared registry, so a
// schema rename surfaces at construction instead of at first clear.
func NewController(store Store) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	for category, tables := range categoryTables {
		for _, table := range tables {
			if !storage.IsDataTable(table) {
				return nil, fmt.Errorf("category %q maps to %q: %w", category, table, storage.ErrUnknownTable)
			}
		}
	}
	return &Controller{store: store, clock: time.Now}, nil
}

// ClearAll removes every cached data row and all freshness metadata.
func (c *Controller) ClearAll(ctx context.Context) error {
	if c == nil || c.store == nil {
		return fmt.Errorf("invalidation controller is not configured")
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, table := range storage.DataTables() {
		group.Go(func() error {
			return c.store.ClearTable(ctx, table)
		})
	}
	group.Go(func() error {
		return c.store.ClearTable(ctx, storage.TableCacheMetadata)
	})
	if err := group.Wait(); err != nil {
		return fmt.Errorf("clear all cached data: %w", err)
	}
	return nil
}

// ClearExpired removes metadata rows whose expiry has passed and returns
// how many were removed. Data rows are left in place; they are overwritten
// by the next fetch or removed by a full clear. Stale data behind no
// metadata reads as a cache miss, so this sweep is safe to repeat.
func (c *Controller) ClearExpired(ctx context.Context) (int64, error) {
	if c == nil || c.store == nil {
		return 0, fmt.Errorf("invalidation controller is not configured")
	}
	deleted, err := c.store.DeleteExpiredCacheMetadata(ctx, c.clock())
	if err != nil {
		return 0, fmt.Errorf("clear expired cache metadata: %w", err)
	}
	return deleted, nil
}

// ClearCategory removes a category's metadata rows and clears the data
// tables mapped to it. A category with no table mapping still has its
// metadata removed; the mismatch is logged and no data tables are touched.
func (c *Controller) ClearCategory(ctx context.Context, category string) error {
	if c == nil || c.store == nil {
		return fmt.Errorf("invalidation controller is not configured")
	}

	if _, err := c.store.DeleteCacheMetadataByCategory(ctx, category); err != nil {
		return fmt.Errorf("clear category %s metadata: %w", category, err)
	}

	tables, ok := categoryTables[category]
	if !ok {
		log.Printf("clear category %s: no table mapping, metadata removed only", category)
		return nil
	}
	for _, table := range tables {
		if err := c.store.ClearTable(ctx, table); err != nil {
			return fmt.Errorf("clear category %s table %s: %w", category, table, err)
		}
	}
	return nil
}

// ClearKey removes one metadata row, forcing the next read of that key to
// refetch. Data rows keyed by it are left for the refetch to overwrite.
func (c *Controller) ClearKey(ctx context.Context, key string) error {
	if c == nil || c.store == nil {
		return fmt.Errorf("invalidation controller is not configured")
	}
	if err := c.store.DeleteCacheMetadata(ctx, key); err != nil {
		return fmt.Errorf("clear cache key %s: %w", key, err)
	}
	return nil
}

// CategoryTables returns the data tables mapped to one category. The second
// return is false for categories with no mapping.
func CategoryTables(category string) ([]string, bool) {
	tables, ok := categoryTables[category]
	if !ok {
		return nil, false
	}
	return append([]string{}, tables...), true
}
