// Package cache is the on-disk analysis cache `flame check` consults
// before re-running Sema over an unchanged file (SPEC_FULL.md §6.2).
//
// Grounded on vovakirdan-surge's internal/driver/dcache.go: the same
// schema-version-tagged payload struct, msgpack encoding, and
// write-to-temp-then-rename atomic Put. This is a cache only — a
// missing or corrupt entry never changes what `flame check` reports,
// only whether it has to redo the work (SPEC_FULL.md §6.2).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/flamelang/flame/internal/diag"
)

// schemaVersion is bumped whenever CachedDiagnostics' shape changes;
// Get refuses to return a payload written under an older schema.
const schemaVersion uint16 = 1

// CachedDiagnostics is the payload stored per source file, keyed by a
// SHA-256 of its content.
type CachedDiagnostics struct {
	Schema      uint16
	SourceHash  [32]byte
	Diagnostics []diag.Diagnostic
}

// DiskCache stores one CachedDiagnostics file per content hash under
// dir (typically ".flame-cache/" next to the project being checked).
type DiskCache struct {
	dir string
}

// Open returns a DiskCache rooted at dir, creating it if necessary.
func Open(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// HashSource computes the content-addressed key for a source file.
func HashSource(src []byte) [32]byte { return sha256.Sum256(src) }

func (c *DiskCache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes diags under key, writing atomically via a temp file
// and rename — matching dcache.go's Put exactly, so a crash mid-write
// never leaves a half-written cache entry for Get to trip over.
func (c *DiskCache) Put(key [32]byte, diags []diag.Diagnostic) error {
	payload := CachedDiagnostics{Schema: schemaVersion, SourceHash: key, Diagnostics: diags}

	p := c.pathFor(key)
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads back the diagnostics cached for key, reporting whether a
// (schema-matching) entry existed.
func (c *DiskCache) Get(key [32]byte) ([]diag.Diagnostic, bool, error) {
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload CachedDiagnostics
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != schemaVersion || payload.SourceHash != key {
		return nil, false, nil
	}
	return payload.Diagnostics, true, nil
}

// DropAll removes every cached entry, used after a schema bump or an
// explicit "flame check --no-cache" invalidation.
func (c *DiskCache) DropAll() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".mp" {
			if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
