package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// BulkPutContinents upserts continent records in one transaction.
func (s *Store) BulkPutContinents(ctx context.Context, records []storage.Continent) error {
	return s.bulkUpsert(ctx, "bulk put continents",
		`INSERT INTO continents (id, name, description, climate, major_features, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   climate = excluded.climate,
		   major_features = excluded.major_features,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Description,
				record.Climate,
				record.MajorFeatures,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListContinents returns all cached continents.
func (s *Store) ListContinents(ctx context.Context) ([]storage.Continent, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, description, climate, major_features, last_updated
		 FROM continents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list continents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Continent, 0)
	for rows.Next() {
		var record storage.Continent
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Description,
			&record.Climate,
			&record.MajorFeatures,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan continent: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate continents: %w", err)
	}
	return records, nil
}

// BulkPutRegions upserts region records in one transaction.
func (s *Store) BulkPutRegions(ctx context.Context, records []storage.Region) error {
	return s.bulkUpsert(ctx, "bulk put regions",
		`INSERT INTO regions (id, name, description, continent_id, climate, resources, settlements, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   continent_id = excluded.continent_id,
		   climate = excluded.climate,
		   resources = excluded.resources,
		   settlements = excluded.settlements,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Description,
				record.ContinentID,
				record.Climate,
				record.Resources,
				record.Settlements,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListRegions returns all cached regions.
func (s *Store) ListRegions(ctx context.Context) ([]storage.Region, error) {
	return s.listRegions(ctx,
		`SELECT id, name, description, continent_id, climate, resources, settlements, last_updated
		 FROM regions ORDER BY id`)
}

// ListRegionsByContinent returns cached regions of one continent.
func (s *Store) ListRegionsByContinent(ctx context.Context, continentID int64) ([]storage.Region, error) {
	return s.listRegions(ctx,
		`SELECT id, name, description, continent_id, climate, resources, settlements, last_updated
		 FROM regions WHERE continent_id = ? ORDER BY id`, continentID)
}

func (s *Store) listRegions(ctx context.Context, query string, args ...any) ([]storage.Region, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Region, 0)
	for rows.Next() {
		var record storage.Region
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Description,
			&record.ContinentID,
			&record.Climate,
			&record.Resources,
			&record.Settlements,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return records, nil
}

// BulkPutSettlements upserts settlement records in one transaction.
func (s *Store) BulkPutSettlements(ctx context.Context, records []storage.Settlement) error {
	return s.bulkUpsert(ctx, "bulk put settlements",
		`INSERT INTO settlements (id, name, type, population, faction_id, faction_name, region_id, region_name, description, founded, is_capital, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   type = excluded.type,
		   population = excluded.population,
		   faction_id = excluded.faction_id,
		   faction_name = excluded.faction_name,
		   region_id = excluded.region_id,
		   region_name = excluded.region_name,
		   description = excluded.description,
		   founded = excluded.founded,
		   is_capital = excluded.is_capital,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Type,
				record.Population,
				record.FactionID,
				record.FactionName,
				record.RegionID,
				record.RegionName,
				record.Description,
				timeToUnixMillis(record.Founded),
				boolToInt(record.IsCapital),
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// GetSettlement returns one settlement by id.
func (s *Store) GetSettlement(ctx context.Context, id string) (storage.Settlement, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Settlement{}, false, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Settlement{}, false, fmt.Errorf("settlement id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, type, population, faction_id, faction_name, region_id, region_name, description, founded, is_capital, last_updated
		 FROM settlements WHERE id = ?`, id)

	record, err := scanSettlement(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Settlement{}, false, nil
		}
		return storage.Settlement{}, false, fmt.Errorf("get settlement: %w", err)
	}
	return record, true, nil
}

// ListSettlements returns all cached settlements.
func (s *Store) ListSettlements(ctx context.Context) ([]storage.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, name, type, population, faction_id, faction_name, region_id, region_name, description, founded, is_capital, last_updated
		 FROM settlements ORDER BY id`)
}

// ListSettlementsByFaction returns cached settlements held by one faction.
func (s *Store) ListSettlementsByFaction(ctx context.Context, factionID string) ([]storage.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, name, type, population, faction_id, faction_name, region_id, region_name, description, founded, is_capital, last_updated
		 FROM settlements WHERE faction_id = ? ORDER BY id`, factionID)
}

// ListSettlementsByRegion returns cached settlements inside one region.
func (s *Store) ListSettlementsByRegion(ctx context.Context, regionID int64) ([]storage.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, name, type, population, faction_id, faction_name, region_id, region_name, description, founded, is_capital, last_updated
		 FROM settlements WHERE region_id = ? ORDER BY id`, regionID)
}

// ListSettlementsByType returns cached settlements of one type.
func (s *Store) ListSettlementsByType(ctx context.Context, settlementType string) ([]storage.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, name, type, population, faction_id, faction_name, region_id, region_name, description, founded, is_capital, last_updated
		 FROM settlements WHERE type = ? ORDER BY id`, settlementType)
}

func (s *Store) listSettlements(ctx context.Context, query string, args ...any) ([]storage.Settlement, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Settlement, 0)
	for rows.Next() {
		record, err := scanSettlement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlements: %w", err)
	}
	return records, nil
}

func scanSettlement(scan func(...any) error) (storage.Settlement, error) {
	var record storage.Settlement
	var founded int64
	var isCapital int64
	var lastUpdated int64
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Type,
		&record.Population,
		&record.FactionID,
		&record.FactionName,
		&record.RegionID,
		&record.RegionName,
		&record.Description,
		&founded,
		&isCapital,
		&lastUpdated,
	); err != nil {
		return storage.Settlement{}, err
	}
	record.Founded = unixMillisToTime(founded)
	record.IsCapital = isCapital != 0
	record.LastUpdated = unixMillisToTime(lastUpdated)
	return record, nil
}

// BulkPutResources upserts resource records in one transaction.
func (s *Store) BulkPutResources(ctx context.Context, records []storage.Resource) error {
	return s.bulkUpsert(ctx, "bulk put resources",
		`INSERT INTO resources (id, name, type, description, rarity, locations, uses, value, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   type = excluded.type,
		   description = excluded.description,
		   rarity = excluded.rarity,
		   locations = excluded.locations,
		   uses = excluded.uses,
		   value = excluded.value,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Type,
				record.Description,
				record.Rarity,
				record.Locations,
				record.Uses,
				record.Value,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListResources returns all cached resources.
func (s *Store) ListResources(ctx context.Context) ([]storage.Resource, error) {
	return s.listResources(ctx,
		`SELECT id, name, type, description, rarity, locations, uses, value, last_updated
		 FROM resources ORDER BY id`)
}

// ListResourcesByType returns cached resources of one type.
func (s *Store) ListResourcesByType(ctx context.Context, resourceType string) ([]storage.Resource, error) {
	return s.listResources(ctx,
		`SELECT id, name, type, description, rarity, locations, uses, value, last_updated
		 FROM resources WHERE type = ? ORDER BY id`, resourceType)
}

func (s *Store) listResources(ctx context.Context, query string, args ...any) ([]storage.Resource, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Resource, 0)
	for rows.Next() {
		var record storage.Resource
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Type,
			&record.Description,
			&record.Rarity,
			&record.Locations,
			&record.Uses,
			&record.Value,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return records, nil
}
