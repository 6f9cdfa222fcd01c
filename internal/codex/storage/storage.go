package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownTable indicates a table name outside the declared schema.
	ErrUnknownTable = errors.New("unknown table")
)

// MetadataStore persists per-key cache freshness rows.
type MetadataStore interface {
	GetCacheMetadata(ctx context.Context, key string) (CacheMetadata, bool, error)
	PutCacheMetadata(ctx context.Context, meta CacheMetadata) error
	DeleteCacheMetadata(ctx context.Context, key string) error
	DeleteCacheMetadataByCategory(ctx context.Context, category string) (int64, error)
	DeleteExpiredCacheMetadata(ctx context.Context, cutoff time.Time) (int64, error)
	ListCacheMetadata(ctx context.Context) ([]CacheMetadata, error)
}

// MechanicsStore persists game-mechanics reference tables.
type MechanicsStore interface {
	BulkPutCharacterClasses(ctx context.Context, records []CharacterClass) error
	ListCharacterClasses(ctx context.Context) ([]CharacterClass, error)

	BulkPutSkills(ctx context.Context, records []Skill) error
	ListSkills(ctx context.Context) ([]Skill, error)
	ListSkillsByCategory(ctx context.Context, category string) ([]Skill, error)

	BulkPutSpells(ctx context.Context, records []Spell) error
	ListSpells(ctx context.Context) ([]Spell, error)
	ListSpellsBySchool(ctx context.Context, school string) ([]Spell, error)

	BulkPutProfessions(ctx context.Context, records []Profession) error
	ListProfessions(ctx context.Context) ([]Profession, error)

	BulkPutTechnologies(ctx context.Context, records []Technology) error
	ListTechnologies(ctx context.Context) ([]Technology, error)
	ListTechnologiesByCategory(ctx context.Context, category string) ([]Technology, error)
}

// GeographyStore persists world-geography reference tables.
type GeographyStore interface {
	BulkPutContinents(ctx context.Context, records []Continent) error
	ListContinents(ctx context.Context) ([]Continent, error)

	BulkPutRegions(ctx context.Context, records []Region) error
	ListRegions(ctx context.Context) ([]Region, error)
	ListRegionsByContinent(ctx context.Context, continentID int64) ([]Region, error)

	BulkPutSettlements(ctx context.Context, records []Settlement) error
	GetSettlement(ctx context.Context, id string) (Settlement, bool, error)
	ListSettlements(ctx context.Context) ([]Settlement, error)
	ListSettlementsByFaction(ctx context.Context, factionID string) ([]Settlement, error)
	ListSettlementsByRegion(ctx context.Context, regionID int64) ([]Settlement, error)
	ListSettlementsByType(ctx context.Context, settlementType string) ([]Settlement, error)

	BulkPutResources(ctx context.Context, records []Resource) error
	ListResources(ctx context.Context) ([]Resource, error)
	ListResourcesByType(ctx context.Context, resourceType string) ([]Resource, error)
}

// WorldStore persists faction, lore, NFT, creature, and statistics tables.
type WorldStore interface {
	BulkPutFactions(ctx context.Context, records []Faction) error
	GetFaction(ctx context.Context, id string) (Faction, bool, error)
	ListFactions(ctx context.Context) ([]Faction, error)

	PutLoreEntry(ctx context.Context, record LoreEntry) error
	BulkPutLoreEntries(ctx context.Context, records []LoreEntry) error
	GetLoreEntry(ctx context.Context, id string) (LoreEntry, bool, error)
	ListLoreEntries(ctx context.Context) ([]LoreEntry, error)
	ListLoreEntriesByCategory(ctx context.Context, category string) ([]LoreEntry, error)

	BulkPutNFTs(ctx context.Context, records []NFT) error
	ListNFTs(ctx context.Context) ([]NFT, error)
	ListNFTsByTier(ctx context.Context, tier int64) ([]NFT, error)

	BulkPutCreatures(ctx context.Context, records []Creature) error
	GetCreature(ctx context.Context, id string) (Creature, bool, error)
	ListCreatures(ctx context.Context) ([]Creature, error)
	ListCreaturesByZone(ctx context.Context, zone string) ([]Creature, error)
	ListCreaturesByThreatLevel(ctx context.Context, threatLevel string) ([]Creature, error)

	GetWorldStatistics(ctx context.Context) (WorldStatistics, bool, error)
	PutWorldStatistics(ctx context.Context, record WorldStatistics) error
}

// BuildingStore persists settlement building rows and their map fingerprint.
type BuildingStore interface {
	ListSettlementBuildings(ctx context.Context, settlementID int64) ([]SettlementBuilding, error)
	BulkPutSettlementBuildings(ctx context.Context, records []SettlementBuilding) error
	DeleteSettlementBuildings(ctx context.Context, settlementID int64) (int64, error)
	CountSettlementBuildings(ctx context.Context, settlementID int64) (int64, error)

	GetSettlementMapMetadata(ctx context.Context, settlementID int64) (SettlementMapMetadata, bool, error)
	PutSettlementMapMetadata(ctx context.Context, meta SettlementMapMetadata) error
	DeleteSettlementMapMetadata(ctx context.Context, settlementID int64) error
}

// MaintenanceStore exposes registry-driven bulk primitives used by cache
// invalidation and statistics. Table names must come from the declared
// registry; anything else fails with ErrUnknownTable.
type MaintenanceStore interface {
	CountTable(ctx context.Context, table string) (int64, error)
	ClearTable(ctx context.Context, table string) error
}

// Store is the full persistence contract for the codex cache.
type Store interface {
	Close() error
	MetadataStore
	MechanicsStore
	GeographyStore
	WorldStore
	BuildingStore
	MaintenanceStore
}
