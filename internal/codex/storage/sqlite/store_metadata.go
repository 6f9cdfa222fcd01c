package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// GetCacheMetadata loads the freshness row for one cache key.
func (s *Store) GetCacheMetadata(ctx context.Context, key string) (storage.CacheMetadata, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.CacheMetadata{}, false, fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return storage.CacheMetadata{}, false, fmt.Errorf("cache key is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT key, timestamp, expiry, category
		 FROM cache_metadata
		 WHERE key = ?`,
		key,
	)

	var meta storage.CacheMetadata
	var timestamp int64
	var expiry int64
	if err := row.Scan(&meta.Key, &timestamp, &expiry, &meta.Category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CacheMetadata{}, false, nil
		}
		return storage.CacheMetadata{}, false, fmt.Errorf("get cache metadata: %w", err)
	}
	meta.Timestamp = unixMillisToTime(timestamp)
	meta.Expiry = unixMillisToTime(expiry)
	return meta, true, nil
}

// PutCacheMetadata upserts the freshness row for one cache key.
func (s *Store) PutCacheMetadata(ctx context.Context, meta storage.CacheMetadata) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	meta.Key = strings.TrimSpace(meta.Key)
	if meta.Key == "" {
		return fmt.Errorf("cache key is required")
	}
	meta.Category = strings.TrimSpace(meta.Category)
	if meta.Category == "" {
		return fmt.Errorf("cache category is required")
	}
	if !meta.Expiry.After(meta.Timestamp) {
		return fmt.Errorf("cache expiry must be after timestamp")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cache_metadata (key, timestamp, expiry, category)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   timestamp = excluded.timestamp,
		   expiry = excluded.expiry,
		   category = excluded.category`,
		meta.Key,
		timeToUnixMillis(meta.Timestamp),
		timeToUnixMillis(meta.Expiry),
		meta.Category,
	)
	if err != nil {
		return fmt.Errorf("put cache metadata: %w", err)
	}
	return nil
}

// DeleteCacheMetadata removes the freshness row for one cache key. Deleting
// a missing key is a no-op.
func (s *Store) DeleteCacheMetadata(ctx context.Context, key string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cache key is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete cache metadata: %w", err)
	}
	return nil
}

// DeleteCacheMetadataByCategory removes all freshness rows in one category
// and returns how many were deleted.
func (s *Store) DeleteCacheMetadataByCategory(ctx context.Context, category string) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return 0, fmt.Errorf("cache category is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_metadata WHERE category = ?`, category)
	if err != nil {
		return 0, fmt.Errorf("delete cache metadata by category: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete cache metadata by category: rows affected: %w", err)
	}
	return deleted, nil
}

// DeleteExpiredCacheMetadata removes freshness rows whose expiry is strictly
// before cutoff and returns how many were deleted. Data rows keyed by the
// removed entries are left in place; they are superseded on the next fetch.
func (s *Store) DeleteExpiredCacheMetadata(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cache_metadata WHERE expiry < ?`,
		timeToUnixMillis(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired cache metadata: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired cache metadata: rows affected: %w", err)
	}
	return deleted, nil
}

// ListCacheMetadata returns every freshness row.
func (s *Store) ListCacheMetadata(ctx context.Context) ([]storage.CacheMetadata, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT key, timestamp, expiry, category FROM cache_metadata ORDER BY key`,
	)
	if err != nil {
		return nil, fmt.Errorf("list cache metadata: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]storage.CacheMetadata, 0)
	for rows.Next() {
		var meta storage.CacheMetadata
		var timestamp int64
		var expiry int64
		if err := rows.Scan(&meta.Key, &timestamp, &expiry, &meta.Category); err != nil {
			return nil, fmt.Errorf("scan cache metadata: %w", err)
		}
		meta.Timestamp = unixMillisToTime(timestamp)
		meta.Expiry = unixMillisToTime(expiry)
		entries = append(entries, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache metadata: %w", err)
	}
	return entries, nil
}
