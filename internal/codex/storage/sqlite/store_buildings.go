package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// ListSettlementBuildings returns all cached buildings of one settlement.
func (s *Store) ListSettlementBuildings(ctx context.Context, settlementID int64) ([]storage.SettlementBuilding, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, settlement_id, building_id, name, type, x_coordinate, y_coordinate, z_coordinate, is_destroyed, is_damaged, is_active, prefab_path, prefab_name, health, level, workers, last_updated
		 FROM settlement_buildings WHERE settlement_id = ? ORDER BY building_id`, settlementID)
	if err != nil {
		return nil, fmt.Errorf("list settlement buildings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.SettlementBuilding, 0)
	for rows.Next() {
		var record storage.SettlementBuilding
		var destroyed, damaged, active int64
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.SettlementID,
			&record.BuildingID,
			&record.Name,
			&record.Type,
			&record.X,
			&record.Y,
			&record.Z,
			&destroyed,
			&damaged,
			&active,
			&record.PrefabPath,
			&record.PrefabName,
			&record.Health,
			&record.Level,
			&record.Workers,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan settlement building: %w", err)
		}
		record.IsDestroyed = destroyed != 0
		record.IsDamaged = damaged != 0
		record.IsActive = active != 0
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settlement buildings: %w", err)
	}
	return records, nil
}

// BulkPutSettlementBuildings upserts building rows in one transaction. Rows
// with an empty id get the "settlementId-buildingId" composite key.
func (s *Store) BulkPutSettlementBuildings(ctx context.Context, records []storage.SettlementBuilding) error {
	return s.bulkUpsert(ctx, "bulk put settlement buildings",
		`INSERT INTO settlement_buildings (id, settlement_id, building_id, name, type, x_coordinate, y_coordinate, z_coordinate, is_destroyed, is_damaged, is_active, prefab_path, prefab_name, health, level, workers, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   settlement_id = excluded.settlement_id,
		   building_id = excluded.building_id,
		   name = excluded.name,
		   type = excluded.type,
		   x_coordinate = excluded.x_coordinate,
		   y_coordinate = excluded.y_coordinate,
		   z_coordinate = excluded.z_coordinate,
		   is_destroyed = excluded.is_destroyed,
		   is_damaged = excluded.is_damaged,
		   is_active = excluded.is_active,
		   prefab_path = excluded.prefab_path,
		   prefab_name = excluded.prefab_name,
		   health = excluded.health,
		   level = excluded.level,
		   workers = excluded.workers,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			id := strings.TrimSpace(record.ID)
			if id == "" {
				id = fmt.Sprintf("%d-%d", record.SettlementID, record.BuildingID)
			}
			return []any{
				id,
				record.SettlementID,
				record.BuildingID,
				record.Name,
				record.Type,
				record.X,
				record.Y,
				record.Z,
				boolToInt(record.IsDestroyed),
				boolToInt(record.IsDamaged),
				boolToInt(record.IsActive),
				record.PrefabPath,
				record.PrefabName,
				record.Health,
				record.Level,
				record.Workers,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// DeleteSettlementBuildings removes all building rows of one settlement and
// returns the number deleted.
func (s *Store) DeleteSettlementBuildings(ctx context.Context, settlementID int64) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM settlement_buildings WHERE settlement_id = ?`, settlementID)
	if err != nil {
		return 0, fmt.Errorf("delete settlement buildings: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete settlement buildings: %w", err)
	}
	return deleted, nil
}

// CountSettlementBuildings returns the number of cached building rows for one
// settlement.
func (s *Store) CountSettlementBuildings(ctx context.Context, settlementID int64) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var count int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM settlement_buildings WHERE settlement_id = ?`, settlementID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count settlement buildings: %w", err)
	}
	return count, nil
}

// GetSettlementMapMetadata returns the building fingerprint of one settlement.
func (s *Store) GetSettlementMapMetadata(ctx context.Context, settlementID int64) (storage.SettlementMapMetadata, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.SettlementMapMetadata{}, false, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT settlement_id, building_hash, last_updated
		 FROM settlement_map_metadata WHERE settlement_id = ?`, settlementID)

	var meta storage.SettlementMapMetadata
	var lastUpdated int64
	if err := row.Scan(&meta.SettlementID, &meta.BuildingHash, &lastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.SettlementMapMetadata{}, false, nil
		}
		return storage.SettlementMapMetadata{}, false, fmt.Errorf("get settlement map metadata: %w", err)
	}
	meta.LastUpdated = unixMillisToTime(lastUpdated)
	return meta, true, nil
}

// PutSettlementMapMetadata upserts the building fingerprint of one settlement.
func (s *Store) PutSettlementMapMetadata(ctx context.Context, meta storage.SettlementMapMetadata) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(meta.BuildingHash) == "" {
		return fmt.Errorf("building hash is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO settlement_map_metadata (settlement_id, building_hash, last_updated)
		 VALUES (?, ?, ?)
		 ON CONFLICT(settlement_id) DO UPDATE SET
		   building_hash = excluded.building_hash,
		   last_updated = excluded.last_updated`,
		meta.SettlementID,
		meta.BuildingHash,
		timeToUnixMillis(meta.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("put settlement map metadata: %w", err)
	}
	return nil
}

// DeleteSettlementMapMetadata removes the fingerprint of one settlement.
// Deleting an absent row is not an error.
func (s *Store) DeleteSettlementMapMetadata(ctx context.Context, settlementID int64) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM settlement_map_metadata WHERE settlement_id = ?`, settlementID)
	if err != nil {
		return fmt.Errorf("delete settlement map metadata: %w", err)
	}
	return nil
}
