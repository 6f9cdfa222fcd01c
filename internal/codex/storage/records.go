package storage

import "time"

// CacheMetadata tracks freshness for one logical cache key.
//
// A row is created or overwritten whenever the key's backing data is
// (re)populated. Invariant: Expiry is always after Timestamp.
type CacheMetadata struct {
	Key       string
	Timestamp time.Time
	Expiry    time.Time
	Category  string
}

// CharacterClass stores one playable class definition.
type CharacterClass struct {
	ID           int64
	Name         string
	Description  string
	PrimaryStats string
	Abilities    string
	Count        int64
	LastUpdated  time.Time
}

// Skill stores one learnable skill definition.
type Skill struct {
	ID            int64
	Name          string
	Description   string
	Category      string
	MaxLevel      int64
	Prerequisites string
	LastUpdated   time.Time
}

// Spell stores one spell definition.
type Spell struct {
	ID          int64
	Name        string
	Description string
	School      string
	Level       int64
	Components  string
	CastingTime string
	Range       string
	Duration    string
	Effect      string
	LastUpdated time.Time
}

// Profession stores one profession definition.
type Profession struct {
	ID               int64
	Name             string
	Description      string
	RequiredSkills   string
	Benefits         string
	UnlockConditions string
	LastUpdated      time.Time
}

// Technology stores one researchable technology definition.
type Technology struct {
	ID           int64
	Name         string
	Description  string
	Category     string
	Requirements string
	Unlocks      string
	ResearchCost int64
	LastUpdated  time.Time
}

// Continent stores one continent record.
type Continent struct {
	ID            int64
	Name          string
	Description   string
	Climate       string
	MajorFeatures string
	LastUpdated   time.Time
}

// Region stores one region record.
type Region struct {
	ID          int64
	Name        string
	Description string
	ContinentID int64
	Climate     string
	Resources   string
	Settlements int64
	LastUpdated time.Time
}

// Settlement stores one settlement record with denormalized faction and
// region names for display without cross-table joins.
type Settlement struct {
	ID          string
	Name        string
	Type        string
	Population  int64
	FactionID   string
	FactionName string
	RegionID    int64
	RegionName  string
	Description string
	Founded     time.Time
	IsCapital   bool
	LastUpdated time.Time
}

// Resource stores one harvestable resource definition.
type Resource struct {
	ID          int64
	Name        string
	Type        string
	Description string
	Rarity      string
	Locations   string
	Uses        string
	Value       int64
	LastUpdated time.Time
}

// Faction stores one faction record.
type Faction struct {
	ID              string
	Name            string
	Description     string
	Color           string
	Ideology        string
	Leader          string
	MemberCount     int64
	SettlementCount int64
	Territory       string
	Allies          string
	Enemies         string
	Founded         time.Time
	LastUpdated     time.Time
}

// LoreEntry stores one codex lore article.
type LoreEntry struct {
	ID          string
	Title       string
	Category    string
	Subcategory string
	Content     string
	Summary     string
	Tags        string
	LastUpdated time.Time
}

// NFT stores one cached NFT catalog entry.
type NFT struct {
	ID          string
	Tier        int64
	Name        string
	Description string
	ImagePath   string
	Metadata    string
	LastUpdated time.Time
}

// Creature stores one bestiary record.
type Creature struct {
	ID          string
	Name        string
	Zone        string
	ThreatLevel string
	Type        string
	LevelRange  string
	Description string
	Size        string
	ImagePath   string
	Lore        string
	Abilities   string
	Resources   string
	LastUpdated time.Time
}

// WorldStatisticsID is the fixed primary key of the world statistics
// singleton row.
const WorldStatisticsID int64 = 1

// WorldStatistics stores the world statistics snapshot singleton.
type WorldStatistics struct {
	ID               int64
	TotalCharacters  int64
	TotalClasses     int64
	OnlinePlayers    int64
	TotalSettlements int64
	ActiveBattles    int64
	TotalFactions    int64
	TotalGuilds      int64
	WorldTime        string
	ServerUptime     string
	LastUpdated      time.Time
}

// SettlementBuilding stores one building instance inside one settlement.
// ID is the "settlementId-buildingId" composite key.
type SettlementBuilding struct {
	ID           string
	SettlementID int64
	BuildingID   int64
	Name         string
	Type         string
	X            float64
	Y            float64
	Z            float64
	IsDestroyed  bool
	IsDamaged    bool
	IsActive     bool
	PrefabPath   string
	PrefabName   string
	Health       int64
	Level        int64
	Workers      int64
	LastUpdated  time.Time
}

// SettlementMapMetadata holds the last-known fingerprint of one settlement's
// building set.
type SettlementMapMetadata struct {
	SettlementID int64
	BuildingHash string
	LastUpdated  time.Time
}
