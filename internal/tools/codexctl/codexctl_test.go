package codexctl

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
	"github.com/dusk-meridian/codex-cache/internal/codex/storage/sqlite"
)

func seedDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codex.db")
	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := store.BulkPutSkills(ctx, []storage.Skill{
		{ID: 1, Name: "Mining", LastUpdated: now},
		{ID: 2, Name: "Smithing", LastUpdated: now},
	}); err != nil {
		t.Fatalf("BulkPutSkills() error = %v", err)
	}
	metadata := []storage.CacheMetadata{
		{Key: "skills", Timestamp: now.Add(-2 * time.Hour), Expiry: now.Add(-time.Hour), Category: storage.CategoryMechanics},
		{Key: "regions", Timestamp: now, Expiry: now.Add(time.Hour), Category: storage.CategoryGeography},
	}
	for _, meta := range metadata {
		if err := store.PutCacheMetadata(ctx, meta); err != nil {
			t.Fatalf("PutCacheMetadata(%q) error = %v", meta.Key, err)
		}
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("codexctl", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-stats"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBPath != filepath.Join("data", "codex-cache.db") {
		t.Errorf("DBPath = %q, want the default path", cfg.DBPath)
	}
	if cfg.Timeout != time.Minute {
		t.Errorf("Timeout = %v, want 1m", cfg.Timeout)
	}
	if !cfg.Stats {
		t.Error("Stats = false, want true")
	}
}

func TestParseConfigFlags(t *testing.T) {
	fs := flag.NewFlagSet("codexctl", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-db", "/tmp/other.db",
		"-json",
		"-clear-category", "mechanics",
		"-timeout", "30s",
	})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q, want /tmp/other.db", cfg.DBPath)
	}
	if !cfg.JSONOutput {
		t.Error("JSONOutput = false, want true")
	}
	if cfg.ClearCategory != "mechanics" {
		t.Errorf("ClearCategory = %q, want mechanics", cfg.ClearCategory)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestRunRequiresExactlyOneOperation(t *testing.T) {
	ctx := context.Background()

	if err := Run(ctx, Config{DBPath: seedDB(t)}, nil, nil); err == nil {
		t.Error("Run() with no operation error = nil, want error")
	}
	cfg := Config{DBPath: seedDB(t), Stats: true, ClearAll: true}
	if err := Run(ctx, cfg, nil, nil); err == nil {
		t.Error("Run() with two operations error = nil, want error")
	}
}

func TestRunStatsText(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{DBPath: seedDB(t), Stats: true}

	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{"total entries: 2", "metadata entries: 2", "database size: N/A", "skills: 2"} {
		if !strings.Contains(text, want) {
			t.Errorf("stats output missing %q:\n%s", want, text)
		}
	}
}

func TestRunStatsJSON(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{DBPath: seedDB(t), Stats: true, JSONOutput: true}

	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var report struct {
		TotalEntries      int64            `json:"totalEntries"`
		EntriesByCategory map[string]int64 `json:"entriesByCategory"`
		DatabaseSize      string           `json:"databaseSize"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal stats output: %v\n%s", err, out.String())
	}
	if report.TotalEntries != 2 {
		t.Errorf("totalEntries = %d, want 2", report.TotalEntries)
	}
	if report.EntriesByCategory[storage.TableSkills] != 2 {
		t.Errorf("skills count = %d, want 2", report.EntriesByCategory[storage.TableSkills])
	}
	if report.DatabaseSize != "N/A" {
		t.Errorf("databaseSize = %q, want N/A", report.DatabaseSize)
	}
}

func TestRunClearExpired(t *testing.T) {
	path := seedDB(t)
	var out bytes.Buffer

	if err := Run(context.Background(), Config{DBPath: path, ClearExpired: true}, &out, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "cleared 1 expired metadata entries") {
		t.Errorf("output = %q, want one expired entry cleared", out.String())
	}

	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	defer func() {
		_ = store.Close()
	}()

	if _, ok, err := store.GetCacheMetadata(context.Background(), "skills"); err != nil || ok {
		t.Errorf("GetCacheMetadata(skills) = ok %v, err %v; want false, nil", ok, err)
	}
	if _, ok, err := store.GetCacheMetadata(context.Background(), "regions"); err != nil || !ok {
		t.Errorf("GetCacheMetadata(regions) = ok %v, err %v; want true, nil", ok, err)
	}
}

func TestRunClearAll(t *testing.T) {
	path := seedDB(t)

	if err := Run(context.Background(), Config{DBPath: path, ClearAll: true}, nil, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	defer func() {
		_ = store.Close()
	}()

	count, err := store.CountTable(context.Background(), storage.TableSkills)
	if err != nil {
		t.Fatalf("CountTable() error = %v", err)
	}
	if count != 0 {
		t.Errorf("skills rows after clear-all = %d, want 0", count)
	}
}

func TestRunClearCategoryRejectsUnknown(t *testing.T) {
	cfg := Config{DBPath: seedDB(t), ClearCategory: "nonsense"}
	if err := Run(context.Background(), cfg, nil, nil); err == nil {
		t.Error("Run() with unknown category error = nil, want error")
	}
}

func TestRunClearCategory(t *testing.T) {
	path := seedDB(t)

	cfg := Config{DBPath: path, ClearCategory: storage.CategoryMechanics}
	if err := Run(context.Background(), cfg, nil, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	defer func() {
		_ = store.Close()
	}()

	count, err := store.CountTable(context.Background(), storage.TableSkills)
	if err != nil {
		t.Fatalf("CountTable() error = %v", err)
	}
	if count != 0 {
		t.Errorf("skills rows after category clear = %d, want 0", count)
	}
	if _, ok, err := store.GetCacheMetadata(context.Background(), "regions"); err != nil || !ok {
		t.Errorf("GetCacheMetadata(regions) = ok %v, err %v; want true, nil", ok, err)
	}
}

func TestRunClearKey(t *testing.T) {
	path := seedDB(t)

	if err := Run(context.Background(), Config{DBPath: path, ClearKey: "regions"}, nil, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	defer func() {
		_ = store.Close()
	}()

	if _, ok, err := store.GetCacheMetadata(context.Background(), "regions"); err != nil || ok {
		t.Errorf("GetCacheMetadata(regions) = ok %v, err %v; want false, nil", ok, err)
	}
}
