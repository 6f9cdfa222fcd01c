// Package freshness decides whether cached codex data can still be served.
//
// Every cached dataset records an expiry when it is written. Freshness is a
// strict comparison against that recorded expiry; the policy never reads the
// data tables themselves.
package freshness

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
)

// Cache durations by data volatility. Callers pick the duration for the key
// they are recording; the policy itself is category-agnostic.
const (
	TTLStaticDaily        = 24 * time.Hour
	TTLMechanics          = 24 * time.Hour
	TTLGeography          = 12 * time.Hour
	TTLPopulation         = 10 * time.Minute
	TTLWorldStats         = 5 * time.Minute
	TTLOnlineStatus       = time.Minute
	TTLCharacterLocations = 30 * time.Second
)

// Policy answers freshness queries against stored cache metadata.
type Policy struct {
	store storage.MetadataStore
	clock func() time.Time
}

// NewPolicy creates a freshness policy backed by the given metadata store.
func NewPolicy(store storage.MetadataStore) *Policy {
	return &Policy{store: store, clock: time.Now}
}

// Fresh reports whether the key's cached data is still inside its recorded
// expiry window. Missing metadata and store failures both read as stale, so
// a broken cache degrades to refetching rather than serving old data.
func (p *Policy) Fresh(ctx context.Context, key string) bool {
	if p == nil || p.store == nil {
		return false
	}

	meta, ok, err := p.store.GetCacheMetadata(ctx, key)
	if err != nil {
		log.Printf("check cache freshness %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	return p.clock().Before(meta.Expiry)
}

// Record marks the key's cached data as freshly populated, valid for ttl
// from now.
func (p *Policy) Record(ctx context.Context, key, category string, ttl time.Duration) error {
	if p == nil || p.store == nil {
		return fmt.Errorf("freshness policy is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cache key is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	now := p.clock()
	meta := storage.CacheMetadata{
		Key:       key,
		Timestamp: now,
		Expiry:    now.Add(ttl),
		Category:  category,
	}
	if err := p.store.PutCacheMetadata(ctx, meta); err != nil {
		return fmt.Errorf("record cache freshness %s: %w", key, err)
	}
	return nil
}

// Age returns how long ago the key's cached data was recorded. The second
// return is false when no metadata exists.
func (p *Policy) Age(ctx context.Context, key string) (time.Duration, bool, error) {
	if p == nil || p.store == nil {
		return 0, false, fmt.Errorf("freshness policy is not configured")
	}

	meta, ok, err := p.store.GetCacheMetadata(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("get cache age %s: %w", key, err)
	}
	if !ok {
		return 0, false, nil
	}
	return p.clock().Sub(meta.Timestamp), true, nil
}
