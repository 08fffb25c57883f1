package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flamelang/flame/internal/project"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadValidManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "demo"

[run]
main = "main.flame"
`)
	cfg, err := project.Load(filepath.Join(dir, project.ManifestName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Package.Name != "demo" || cfg.Run.Main != "main.flame" {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadMissingPackageSection(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[run]
main = "main.flame"
`)
	_, err := project.Load(filepath.Join(dir, project.ManifestName))
	if err == nil || !contains(err.Error(), "missing [package]") {
		t.Fatalf("expected a missing [package] error, got %v", err)
	}
}

func TestLoadMissingPackageName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]

[run]
main = "main.flame"
`)
	_, err := project.Load(filepath.Join(dir, project.ManifestName))
	if err == nil || !contains(err.Error(), "missing [package].name") {
		t.Fatalf("expected a missing [package].name error, got %v", err)
	}
}

func TestLoadBlankPackageNameIsAlsoMissing(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "   "

[run]
main = "main.flame"
`)
	_, err := project.Load(filepath.Join(dir, project.ManifestName))
	if err == nil || !contains(err.Error(), "missing [package].name") {
		t.Fatalf("expected a missing [package].name error for a blank name, got %v", err)
	}
}

func TestLoadMissingRunSection(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "demo"
`)
	_, err := project.Load(filepath.Join(dir, project.ManifestName))
	if err == nil || !contains(err.Error(), "missing [run]") {
		t.Fatalf("expected a missing [run] error, got %v", err)
	}
}

func TestLoadMissingRunMain(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "demo"

[run]
`)
	_, err := project.Load(filepath.Join(dir, project.ManifestName))
	if err == nil || !contains(err.Error(), "missing [run].main") {
		t.Fatalf("expected a missing [run].main error, got %v", err)
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `this is not valid toml === [[[`)
	_, err := project.Load(filepath.Join(dir, project.ManifestName))
	if err == nil || !contains(err.Error(), "failed to parse TOML") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestFindWalksUpToAncestor(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "demo"

[run]
main = "main.flame"
`)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	path, ok, err := project.Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find the manifest in an ancestor directory")
	}
	wantPath, _ := filepath.Abs(filepath.Join(root, project.ManifestName))
	if path != wantPath {
		t.Fatalf("got %q, want %q", path, wantPath)
	}
}

func TestFindReportsNotFound(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := project.Find(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest to be found")
	}
}

func TestLoadManifestAndEntryPath(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "demo"

[run]
main = "src/main.flame"
`)
	m, ok, err := project.LoadManifest(root)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if !ok {
		t.Fatalf("expected the manifest to be found")
	}
	want := filepath.Join(root, "src", "main.flame")
	if got := m.EntryPath(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
