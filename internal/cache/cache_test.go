package cache_test

import (
	"testing"

	"github.com/flamelang/flame/internal/cache"
	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/pkg/token"
)

func TestPutGetRoundTrip(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := cache.HashSource([]byte("let x = 1;"))
	diags := []diag.Diagnostic{
		{Category: diag.CategoryType, Pos: token.Position{Line: 1, Column: 1}, Message: "bad type"},
	}
	if err := c.Put(key, diags); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if len(got) != 1 || got[0].Message != "bad type" {
		t.Fatalf("got %+v", got)
	}
}

func TestGetMissReportsNoEntry(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := cache.HashSource([]byte("nothing written for this key"))
	_, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected a cache miss")
	}
}

func TestHashSourceIsContentAddressed(t *testing.T) {
	a := cache.HashSource([]byte("same"))
	b := cache.HashSource([]byte("same"))
	c := cache.HashSource([]byte("different"))
	if a != b {
		t.Fatalf("expected identical content to hash identically")
	}
	if a == c {
		t.Fatalf("expected different content to hash differently")
	}
}

func TestDropAllRemovesEntries(t *testing.T) {
	dc, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := cache.HashSource([]byte("to be dropped"))
	if err := dc.Put(key, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := dc.Get(key); !ok {
		t.Fatalf("expected entry to exist before DropAll")
	}
	if err := dc.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := dc.Get(key); ok {
		t.Fatalf("expected entry to be gone after DropAll")
	}
}

func TestDropAllOnMissingDirIsNotAnError(t *testing.T) {
	dc, err := cache.Open(t.TempDir() + "/sub")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// Open already created the dir; remove nothing and confirm the
	// not-exist branch is harmless by calling DropAll twice.
	if err := dc.DropAll(); err != nil {
		t.Fatalf("first DropAll: %v", err)
	}
	if err := dc.DropAll(); err != nil {
		t.Fatalf("second DropAll: %v", err)
	}
}
