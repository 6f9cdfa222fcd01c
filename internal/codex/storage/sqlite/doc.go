// Package sqlite provides the codex cache persistence adapter backed by
// SQLite.
//
// The store only contains derived cache state that can be rebuilt from the
// world API; losing the database file costs a re-fetch, never data.
package sqlite
