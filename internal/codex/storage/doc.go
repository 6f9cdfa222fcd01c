// Package storage declares persistence contracts for the codex cache.
//
// The cache is a derived read optimization over the Dusk Meridian world API
// and never becomes the source of truth: every table can be discarded and
// rebuilt from a remote fetch.
package storage
