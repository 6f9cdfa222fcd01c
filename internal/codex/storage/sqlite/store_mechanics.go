package sqlite

import (
	"context"
	"fmt"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// BulkPutCharacterClasses upserts character class records in one transaction.
// A zero ID lets SQLite assign the next rowid, matching the auto-increment
// key of the original schema.
func (s *Store) BulkPutCharacterClasses(ctx context.Context, records []storage.CharacterClass) error {
	return s.bulkUpsert(ctx, "bulk put character classes",
		`INSERT INTO character_classes (id, name, description, primary_stats, abilities, count, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   primary_stats = excluded.primary_stats,
		   abilities = excluded.abilities,
		   count = excluded.count,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			var id any
			if record.ID > 0 {
				id = record.ID
			}
			return []any{
				id,
				record.Name,
				record.Description,
				record.PrimaryStats,
				record.Abilities,
				record.Count,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListCharacterClasses returns all cached character classes.
func (s *Store) ListCharacterClasses(ctx context.Context) ([]storage.CharacterClass, error) {
	return s.listCharacterClasses(ctx,
		`SELECT id, name, description, primary_stats, abilities, count, last_updated
		 FROM character_classes ORDER BY id`)
}

func (s *Store) listCharacterClasses(ctx context.Context, query string, args ...any) ([]storage.CharacterClass, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list character classes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.CharacterClass, 0)
	for rows.Next() {
		var record storage.CharacterClass
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Description,
			&record.PrimaryStats,
			&record.Abilities,
			&record.Count,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan character class: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate character classes: %w", err)
	}
	return records, nil
}

// BulkPutSkills upserts skill records in one transaction.
func (s *Store) BulkPutSkills(ctx context.Context, records []storage.Skill) error {
	return s.bulkUpsert(ctx, "bulk put skills",
		`INSERT INTO skills (id, name, description, category, max_level, prerequisites, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   category = excluded.category,
		   max_level = excluded.max_level,
		   prerequisites = excluded.prerequisites,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Description,
				record.Category,
				record.MaxLevel,
				record.Prerequisites,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListSkills returns all cached skills.
func (s *Store) ListSkills(ctx context.Context) ([]storage.Skill, error) {
	return s.listSkills(ctx,
		`SELECT id, name, description, category, max_level, prerequisites, last_updated
		 FROM skills ORDER BY id`)
}

// ListSkillsByCategory returns cached skills matching one category.
func (s *Store) ListSkillsByCategory(ctx context.Context, category string) ([]storage.Skill, error) {
	return s.listSkills(ctx,
		`SELECT id, name, description, category, max_level, prerequisites, last_updated
		 FROM skills WHERE category = ? ORDER BY id`, category)
}

func (s *Store) listSkills(ctx context.Context, query string, args ...any) ([]storage.Skill, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Skill, 0)
	for rows.Next() {
		var record storage.Skill
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Description,
			&record.Category,
			&record.MaxLevel,
			&record.Prerequisites,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}
	return records, nil
}

// BulkPutSpells upserts spell records in one transaction.
func (s *Store) BulkPutSpells(ctx context.Context, records []storage.Spell) error {
	return s.bulkUpsert(ctx, "bulk put spells",
		`INSERT INTO spells (id, name, description, school, level, components, casting_time, "range", duration, effect, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   school = excluded.school,
		   level = excluded.level,
		   components = excluded.components,
		   casting_time = excluded.casting_time,
		   "range" = excluded."range",
		   duration = excluded.duration,
		   effect = excluded.effect,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Description,
				record.School,
				record.Level,
				record.Components,
				record.CastingTime,
				record.Range,
				record.Duration,
				record.Effect,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListSpells returns all cached spells.
func (s *Store) ListSpells(ctx context.Context) ([]storage.Spell, error) {
	return s.listSpells(ctx,
		`SELECT id, name, description, school, level, components, casting_time, "range", duration, effect, last_updated
		 FROM spells ORDER BY id`)
}

// ListSpellsBySchool returns cached spells matching one school.
func (s *Store) ListSpellsBySchool(ctx context.Context, school string) ([]storage.Spell, error) {
	return s.listSpells(ctx,
		`SELECT id, name, description, school, level, components, casting_time, "range", duration, effect, last_updated
		 FROM spells WHERE school = ? ORDER BY id`, school)
}

func (s *Store) listSpells(ctx context.Context, query string, args ...any) ([]storage.Spell, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list spells: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Spell, 0)
	for rows.Next() {
		var record storage.Spell
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Description,
			&record.School,
			&record.Level,
			&record.Components,
			&record.CastingTime,
			&record.Range,
			&record.Duration,
			&record.Effect,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan spell: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spells: %w", err)
	}
	return records, nil
}

// BulkPutProfessions upserts profession records in one transaction.
func (s *Store) BulkPutProfessions(ctx context.Context, records []storage.Profession) error {
	return s.bulkUpsert(ctx, "bulk put professions",
		`INSERT INTO professions (id, name, description, required_skills, benefits, unlock_conditions, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   required_skills = excluded.required_skills,
		   benefits = excluded.benefits,
		   unlock_conditions = excluded.unlock_conditions,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Description,
				record.RequiredSkills,
				record.Benefits,
				record.UnlockConditions,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListProfessions returns all cached professions.
func (s *Store) ListProfessions(ctx context.Context) ([]storage.Profession, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, description, required_skills, benefits, unlock_conditions, last_updated
		 FROM professions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list professions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Profession, 0)
	for rows.Next() {
		var record storage.Profession
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Description,
			&record.RequiredSkills,
			&record.Benefits,
			&record.UnlockConditions,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan profession: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate professions: %w", err)
	}
	return records, nil
}

// BulkPutTechnologies upserts technology records in one transaction.
func (s *Store) BulkPutTechnologies(ctx context.Context, records []storage.Technology) error {
	return s.bulkUpsert(ctx, "bulk put technologies",
		`INSERT INTO technologies (id, name, description, category, requirements, unlocks, research_cost, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   category = excluded.category,
		   requirements = excluded.requirements,
		   unlocks = excluded.unlocks,
		   research_cost = excluded.research_cost,
		   last_updated = excluded.last_updated`,
		len(records),
		func(i int) []any {
			record := records[i]
			return []any{
				record.ID,
				record.Name,
				record.Description,
				record.Category,
				record.Requirements,
				record.Unlocks,
				record.ResearchCost,
				timeToUnixMillis(record.LastUpdated),
			}
		},
	)
}

// ListTechnologies returns all cached technologies.
func (s *Store) ListTechnologies(ctx context.Context) ([]storage.Technology, error) {
	return s.listTechnologies(ctx,
		`SELECT id, name, description, category, requirements, unlocks, research_cost, last_updated
		 FROM technologies ORDER BY id`)
}

// ListTechnologiesByCategory returns cached technologies matching one category.
func (s *Store) ListTechnologiesByCategory(ctx context.Context, category string) ([]storage.Technology, error) {
	return s.listTechnologies(ctx,
		`SELECT id, name, description, category, requirements, unlocks, research_cost, last_updated
		 FROM technologies WHERE category = ? ORDER BY id`, category)
}

func (s *Store) listTechnologies(ctx context.Context, query string, args ...any) ([]storage.Technology, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]storage.Technology, 0)
	for rows.Next() {
		var record storage.Technology
		var lastUpdated int64
		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Description,
			&record.Category,
			&record.Requirements,
			&record.Unlocks,
			&record.ResearchCost,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan technology: %w", err)
		}
		record.LastUpdated = unixMillisToTime(lastUpdated)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate technologies: %w", err)
	}
	return records, nil
}
