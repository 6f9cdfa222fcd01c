package storage

// Table names of the declared schema. Renaming a table or dropping one of
// its indexes is a breaking change that requires a new migration file.
const (
	TableCacheMetadata         = "cache_metadata"
	TableCharacterClasses      = "character_classes"
	TableSkills                = "skills"
	TableSpells                = "spells"
	TableProfessions           = "professions"
	TableTechnologies          = "technologies"
	TableContinents            = "continents"
	TableRegions               = "regions"
	TableSettlements           = "settlements"
	TableResources             = "resources"
	TableFactions              = "factions"
	TableLoreEntries           = "lore_entries"
	TableNFTs                  = "nfts"
	TableCreatures             = "creatures"
	TableWorldStatistics       = "world_statistics"
	TableSettlementBuildings   = "settlement_buildings"
	TableSettlementMapMetadata = "settlement_map_metadata"
)

// Cache categories shared by freshness metadata and invalidation scopes.
const (
	CategoryMechanics  = "mechanics"
	CategoryGeography  = "geography"
	CategoryFactions   = "factions"
	CategoryResources  = "resources"
	CategoryLore       = "lore"
	CategoryNFTs       = "nfts"
	CategoryCreatures  = "creatures"
	CategoryStatistics = "statistics"
)

var codexTables = []string{
	TableCharacterClasses,
	TableSkills,
	TableSpells,
	TableProfessions,
	TableTechnologies,
	TableContinents,
	TableRegions,
	TableSettlements,
	TableResources,
	TableFactions,
	TableLoreEntries,
	TableNFTs,
	TableCreatures,
	TableWorldStatistics,
}

var dataTables = append(append([]string{}, codexTables...),
	TableSettlementBuildings,
	TableSettlementMapMetadata,
)

// CodexTables returns the reference-data tables counted by cache statistics.
// Settlement building rows are tracked by the map fingerprint instead and
// stay out of the entry totals.
func CodexTables() []string {
	return append([]string{}, codexTables...)
}

// DataTables returns every data table affected by a full cache reset. The
// metadata table is not included; callers clear it explicitly.
func DataTables() []string {
	return append([]string{}, dataTables...)
}

// IsDataTable reports whether name belongs to the declared data tables.
func IsDataTable(name string) bool {
	for _, table := range dataTables {
		if table == name {
			return true
		}
	}
	return false
}
