// Package codexctl implements the codex cache maintenance command.
package codexctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dusk-meridian/codex-cache/internal/codex/invalidation"
	"github.com/dusk-meridian/codex-cache/internal/codex/stats"
	"github.com/dusk-meridian/codex-cache/internal/codex/storage/sqlite"
)

// Config holds codexctl command configuration.
type Config struct {
	DBPath        string        `env:"DUSK_MERIDIAN_CODEX_DB_PATH"`
	Timeout       time.Duration `env:"DUSK_MERIDIAN_CODEXCTL_TIMEOUT" envDefault:"1m"`
	JSONOutput    bool
	Stats         bool
	ClearAll      bool
	ClearExpired  bool
	ClearCategory string
	ClearKey      string
}

// ParseConfig parses env defaults and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "codex-cache.db")
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to codex cache sqlite database (default: DUSK_MERIDIAN_CODEX_DB_PATH or data/codex-cache.db)")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON reports")
	fs.BoolVar(&cfg.Stats, "stats", false, "print cache statistics")
	fs.BoolVar(&cfg.ClearAll, "clear-all", false, "clear every cached table and all freshness metadata")
	fs.BoolVar(&cfg.ClearExpired, "clear-expired", false, "remove freshness metadata past its expiry")
	fs.StringVar(&cfg.ClearCategory, "clear-category", "", "clear one cache category (mechanics|geography|factions|resources|lore|nfts|creatures|statistics)")
	fs.StringVar(&cfg.ClearKey, "clear-key", "", "clear one cache key's freshness metadata")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) operationCount() int {
	count := 0
	for _, selected := range []bool{
		cfg.Stats,
		cfg.ClearAll,
		cfg.ClearExpired,
		cfg.ClearCategory != "",
		cfg.ClearKey != "",
	} {
		if selected {
			count++
		}
	}
	return count
}

// Run executes the codexctl command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	switch cfg.operationCount() {
	case 0:
		return errors.New("no operation selected: use -stats, -clear-all, -clear-expired, -clear-category, or -clear-key")
	case 1:
	default:
		return errors.New("select exactly one operation")
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open codex cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(errOut, "close codex cache: %v\n", err)
		}
	}()

	switch {
	case cfg.Stats:
		return runStats(ctx, store, cfg.JSONOutput, out)
	case cfg.ClearAll:
		return runClearAll(ctx, store, out)
	case cfg.ClearExpired:
		return runClearExpired(ctx, store, out)
	case cfg.ClearCategory != "":
		return runClearCategory(ctx, store, cfg.ClearCategory, out)
	default:
		return runClearKey(ctx, store, cfg.ClearKey, out)
	}
}

func runStats(ctx context.Context, store *sqlite.Store, jsonOutput bool, out io.Writer) error {
	report, err := stats.NewReporter(store).Report(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Fprintf(out, "total entries: %d\n", report.TotalEntries)
	fmt.Fprintf(out, "metadata entries: %d\n", report.MetadataEntries)
	fmt.Fprintf(out, "database size: %s\n", report.DatabaseSize)
	if report.OldestEntry != nil {
		fmt.Fprintf(out, "oldest entry: %s\n", report.OldestEntry.UTC().Format(time.RFC3339))
	}
	if report.NewestEntry != nil {
		fmt.Fprintf(out, "newest entry: %s\n", report.NewestEntry.UTC().Format(time.RFC3339))
	}

	tables := make([]string, 0, len(report.EntriesByCategory))
	for table := range report.EntriesByCategory {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(out, "  %s: %d\n", table, report.EntriesByCategory[table])
	}
	return nil
}

func runClearAll(ctx context.Context, store *sqlite.Store, out io.Writer) error {
	controller, err := invalidation.NewController(store)
	if err != nil {
		return err
	}
	if err := controller.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "cleared all cached data and metadata")
	return nil
}

func runClearExpired(ctx context.Context, store *sqlite.Store, out io.Writer) error {
	controller, err := invalidation.NewController(store)
	if err != nil {
		return err
	}
	deleted, err := controller.ClearExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "cleared %d expired metadata entries\n", deleted)
	return nil
}

func runClearCategory(ctx context.Context, store *sqlite.Store, category string, out io.Writer) error {
	if _, ok := invalidation.CategoryTables(category); !ok {
		return fmt.Errorf("unknown category %q", category)
	}
	controller, err := invalidation.NewController(store)
	if err != nil {
		return err
	}
	if err := controller.ClearCategory(ctx, category); err != nil {
		return err
	}
	fmt.Fprintf(out, "cleared category %s\n", category)
	return nil
}

func runClearKey(ctx context.Context, store *sqlite.Store, key string, out io.Writer) error {
	controller, err := invalidation.NewController(store)
	if err != nil {
		return err
	}
	if err := controller.ClearKey(ctx, key); err != nil {
		return err
	}
	fmt.Fprintf(out, "cleared key %s\n", key)
	return nil
}
