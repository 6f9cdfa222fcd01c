package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// BulkPutFactions upserts faction records in one transaction.
func (s *Store) BulkPutFactions(ctx context.Context, records []storage.Faction) error {
	return s.bulkUpsert(ctx, "bulk put factions",
		`INSERT INTO factions (id, name, description, color, ideology, leader, member_count, settlement_count, territory, allies, enemies, founded, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   color = excluded.color,
		   ideology = excluded.ideology,
		   leader = excluded.leader,
		   member_count = excluded.member_count,
		   settlement_count = excluded.settlement_count,
		   territory = excluded.territory,
		   allies = excluded.allies,
		   enemies = excluded.enemies,
		   founded = excluded.founded,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Description,
				record.Color,
				record.Ideology,
				record.Leader,
				record.MemberCount,
				record.SettlementCount,
				record.Territory,
				record.Allies,
				record.Enemies,
				timeToUnixMillis(record.Founded),
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// GetFaction returns one faction by id.
func (s *Store) GetFaction(ctx context.Context, id string) (storage.Faction, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Faction{}, false, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Faction{}, false, fmt.Errorf("faction id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, description, color, ideology, leader, member_count, settlement_count, territory, allies, enemies, founded, last_updated
		 FROM factions WHERE id = ?`, id)

	record, err := scanFaction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Faction{}, false, nil
		}
		return storage.Faction{}, false, fmt.Errorf("get faction: %w", err)
	}
	return record, true, nil
}

// ListFactions returns all cached factions.
func (s *Store) ListFactions(ctx context.Context) ([]storage.Faction, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, description, color, ideology, leader, member_count, settlement_count, territory, allies, enemies, founded, last_updated
		 FROM factions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list factions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Faction, 0)
	for rows.Next() {
		record, err := scanFaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan faction: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate factions: %w", err)
	}
	return records, nil
}

func scanFaction(scan func(...any) error) (storage.Faction, error) {
	var record storage.Faction
	var founded int64
	var lastUpdated int64
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Description,
		&record.Color,
		&record.Ideology,
		&record.Leader,
		&record.MemberCount,
		&record.SettlementCount,
		&record.Territory,
		&record.Allies,
		&record.Enemies,
		&founded,
		&lastUpdated,
	); err != nil {
		return storage.Faction{}, err
	}
	record.Founded = unixMillisToTime(founded)
	record.LastUpdated = unixMillisToTime(lastUpdated)
	return record, nil
}

// PutLoreEntry upserts one lore entry.
func (s *Store) PutLoreEntry(ctx context.Context, record storage.LoreEntry) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("lore entry id is required")
	}
	if strings.TrimSpace(record.Title) == "" {
		return fmt.Errorf("lore entry title is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO lore_entries (id, title, category, subcategory, content, summary, tags, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   category = excluded.category,
		   subcategory = excluded.subcategory,
		   content = excluded.content,
		   summary = excluded.summary,
		   tags = excluded.tags,
		   last_updated = excluded.last_updated`,
		record.ID,
		record.Title,
		record.Category,
		record.Subcategory,
		record.Content,
		record.Summary,
		record.Tags,
		timeToUnixMillis(record.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("put lore entry: %w", err)
	}
	return nil
}

// BulkPutLoreEntries upserts lore entries in one transaction.
func (s *Store) BulkPutLoreEntries(ctx context.Context, records []storage.LoreEntry) error {
	return s.bulkUpsert(ctx, "bulk put lore entries",
		`INSERT INTO lore_entries (id, title, category, subcategory, content, summary, tags, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   category = excluded.category,
		   subcategory = excluded.subcategory,
		   content = excluded.content,
		   summary = excluded.summary,
		   tags = excluded.tags,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Title,
				record.Category,
				record.Subcategory,
				record.Content,
				record.Summary,
				record.Tags,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// GetLoreEntry returns one lore entry by id.
func (s *Store) GetLoreEntry(ctx context.Context, id string) (storage.LoreEntry, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.LoreEntry{}, false, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.LoreEntry{}, false, fmt.Errorf("lore entry id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, title, category, subcategory, content, summary, tags, last_updated
		 FROM lore_entries WHERE id = ?`, id)

	var record storage.LoreEntry
	var lastUpdated int64
	if err := row.Scan(
		&record.ID,
		&record.Title,
		&record.Category,
		&record.Subcategory,
		&record.Content,
		&record.Summary,
		&record.Tags,
		&lastUpdated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.LoreEntry{}, false, nil
		}
		return storage.LoreEntry{}, false, fmt.Errorf("get lore entry: %w", err)
	}
	record.LastUpdated = unixMillisToTime(lastUpdated)
	return record, true, nil
}

// ListLoreEntries returns all cached lore entries.
func (s *Store) ListLoreEntries(ctx context.Context) ([]storage.LoreEntry, error) {
	return s.listLoreEntries(ctx,
		`SELECT id, title, category, subcategory, content, summary, tags, last_updated
		 FROM lore_entries ORDER BY id`)
}

// ListLoreEntriesByCategory returns cached lore entries in one category.
func (s *Store) ListLoreEntriesByCategory(ctx context.Context, category string) ([]storage.LoreEntry, error) {
	return s.listLoreEntries(ctx,
		`SELECT id, title, category, subcategory, content, summary, tags, last_updated
		 FROM lore_entries WHERE category = ? ORDER BY id`, category)
}

func (s *Store) listLoreEntries(ctx context.Context, query string, args ...any) ([]storage.LoreEntry, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lore entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.LoreEntry, 0)
	for rows.Next() {
		var record storage.LoreEntry
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Title,
			&record.Category,
			&record.Subcategory,
			&record.Content,
			&record.Summary,
			&record.Tags,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan lore entry: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lore entries: %w", err)
	}
	return records, nil
}

// BulkPutNFTs upserts NFT records in one transaction.
func (s *Store) BulkPutNFTs(ctx context.Context, records []storage.NFT) error {
	return s.bulkUpsert(ctx, "bulk put nfts",
		`INSERT INTO nfts (id, tier, name, description, image_path, metadata, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   tier = excluded.tier,
		   name = excluded.name,
		   description = excluded.description,
		   image_path = excluded.image_path,
		   metadata = excluded.metadata,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Tier,
				record.Name,
				record.Description,
				record.ImagePath,
				record.Metadata,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListNFTs returns all cached NFT records.
func (s *Store) ListNFTs(ctx context.Context) ([]storage.NFT, error) {
	return s.listNFTs(ctx,
		`SELECT id, tier, name, description, image_path, metadata, last_updated
		 FROM nfts ORDER BY id`)
}

// ListNFTsByTier returns cached NFT records of one tier.
func (s *Store) ListNFTsByTier(ctx context.Context, tier int64) ([]storage.NFT, error) {
	return s.listNFTs(ctx,
		`SELECT id, tier, name, description, image_path, metadata, last_updated
		 FROM nfts WHERE tier = ? ORDER BY id`, tier)
}

func (s *Store) listNFTs(ctx context.Context, query string, args ...any) ([]storage.NFT, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list nfts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.NFT, 0)
	for rows.Next() {
		var record storage.NFT
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Tier,
			&record.Name,
			&record.Description,
			&record.ImagePath,
			&record.Metadata,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan nft: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nfts: %w", err)
	}
	return records, nil
}

// BulkPutCreatures upserts creature records in one transaction.
func (s *Store) BulkPutCreatures(ctx context.Context, records []storage.Creature) error {
	return s.bulkUpsert(ctx, "bulk put creatures",
		`INSERT INTO creatures (id, name, zone, threat_level, type, level_range, description, size, image_path, lore, abilities, resources, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   zone = excluded.zone,
		   threat_level = excluded.threat_level,
		   type = excluded.type,
		   level_range = excluded.level_range,
		   description = excluded.description,
		   size = excluded.size,
		   image_path = excluded.image_path,
		   lore = excluded.lore,
		   abilities = excluded.abilities,
		   resources = excluded.resources,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Zone,
				record.ThreatLevel,
				record.Type,
				record.LevelRange,
				record.Description,
				record.Size,
				record.ImagePath,
				record.Lore,
				record.Abilities,
				record.Resources,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// GetCreature returns one creature by id.
func (s *Store) GetCreature(ctx context.Context, id string) (storage.Creature, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Creature{}, false, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Creature{}, false, fmt.Errorf("creature id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, zone, threat_level, type, level_range, description, size, image_path, lore, abilities, resources, last_updated
		 FROM creatures WHERE id = ?`, id)

	record, err := scanCreature(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Creature{}, false, nil
		}
		return storage.Creature{}, false, fmt.Errorf("get creature: %w", err)
	}
	return record, true, nil
}

// ListCreatures returns all cached creatures.
func (s *Store) ListCreatures(ctx context.Context) ([]storage.Creature, error) {
	return s.listCreatures(ctx,
		`SELECT id, name, zone, threat_level, type, level_range, description, size, image_path, lore, abilities, resources, last_updated
		 FROM creatures ORDER BY id`)
}

// ListCreaturesByZone returns cached creatures found in one zone.
func (s *Store) ListCreaturesByZone(ctx context.Context, zone string) ([]storage.Creature, error) {
	return s.listCreatures(ctx,
		`SELECT id, name, zone, threat_level, type, level_range, description, size, image_path, lore, abilities, resources, last_updated
		 FROM creatures WHERE zone = ? ORDER BY id`, zone)
}

// ListCreaturesByThreatLevel returns cached creatures of one threat level.
func (s *Store) ListCreaturesByThreatLevel(ctx context.Context, threatLevel string) ([]storage.Creature, error) {
	return s.listCreatures(ctx,
		`SELECT id, name, zone, threat_level, type, level_range, description, size, image_path, lore, abilities, resources, last_updated
		 FROM creatures WHERE threat_level = ? ORDER BY id`, threatLevel)
}

func (s *Store) listCreatures(ctx context.Context, query string, args ...any) ([]storage.Creature, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list creatures: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Creature, 0)
	for rows.Next() {
		record, err := scanCreature(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan creature: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creatures: %w", err)
	}
	return records, nil
}

func scanCreature(scan func(...any) error) (storage.Creature, error) {
	var record storage.Creature
	var lastUpdated int64
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Zone,
		&record.ThreatLevel,
		&record.Type,
		&record.LevelRange,
		&record.Description,
		&record.Size,
		&record.ImagePath,
		&record.Lore,
		&record.Abilities,
		&record.Resources,
		&lastUpdated,
	); err != nil {
		return storage.Creature{}, err
	}
	record.LastUpdated = unixMillisToTime(lastUpdated)
	return record, nil
}

// GetWorldStatistics returns the world statistics singleton row.
func (s *Store) GetWorldStatistics(ctx context.Context) (storage.WorldStatistics, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.WorldStatistics{}, false, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, total_characters, total_classes, online_players, total_settlements, active_battles, total_factions, total_guilds, world_time, server_uptime, last_updated
		 FROM world_statistics WHERE id = ?`, storage.WorldStatisticsID)

	var record storage.WorldStatistics
	var lastUpdated int64
	if err := row.Scan(
		&record.ID,
		&record.TotalCharacters,
		&record.TotalClasses,
		&record.OnlinePlayers,
		&record.TotalSettlements,
		&record.ActiveBattles,
		&record.TotalFactions,
		&record.TotalGuilds,
		&record.WorldTime,
		&record.ServerUptime,
		&lastUpdated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.WorldStatistics{}, false, nil
		}
		return storage.WorldStatistics{}, false, fmt.Errorf("get world statistics: %w", err)
	}
	record.LastUpdated = unixMillisToTime(lastUpdated)
	return record, true, nil
}

// PutWorldStatistics upserts the world statistics singleton row. The row id
// is forced to the singleton key regardless of the input.
func (s *Store) PutWorldStatistics(ctx context.Context, record storage.WorldStatistics) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO world_statistics (id, total_characters, total_classes, online_players, total_settlements, active_battles, total_factions, total_guilds, world_time, server_uptime, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   total_characters = excluded.total_characters,
		   total_classes = excluded.total_classes,
		   online_players = excluded.online_players,
		   total_settlements = excluded.total_settlements,
		   active_battles = excluded.active_battles,
		   total_factions = excluded.total_factions,
		   total_guilds = excluded.total_guilds,
		   world_time = excluded.world_time,
		   server_uptime = excluded.server_uptime,
		   last_updated = excluded.last_updated`,
		storage.WorldStatisticsID,
		record.TotalCharacters,
		record.TotalClasses,
		record.OnlinePlayers,
		record.TotalSettlements,
		record.ActiveBattles,
		record.TotalFactions,
		record.TotalGuilds,
		record.WorldTime,
		record.ServerUptime,
		timeToUnixMillis(record.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("put world statistics: %w", err)
	}
	return nil
}
