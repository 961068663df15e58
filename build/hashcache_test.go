// ABOUTME: Tests for the hash cache: digest math, change detection, persistence, and directory hashing.
// ABOUTME: Covers corrupt cache recovery, missing directories, and the dirty-flag save gate.
package build

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHashBytesDeterministic(t *testing.T) {
	a := HashBytes([]byte("hello"))
	b := HashBytes([]byte("hello"))
	if a != b {
		t.Errorf("expected deterministic hash, got %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHashStringsBoundaries(t *testing.T) {
	// NUL separators mean ("ab","c") and ("a","bc") must not collide.
	if HashStrings("ab", "c") == HashStrings("a", "bc") {
		t.Error("expected different hashes for different string boundaries")
	}
}

func TestCacheChangedSemantics(t *testing.T) {
	c := LoadHashCache(filepath.Join(t.TempDir(), "cache.json"))
	if !c.Changed("k", "d1") {
		t.Error("absent key must read as changed")
	}
	c.Set("k", "d1", "s1")
	if c.Changed("k", "d1") {
		t.Error("matching digest must read as unchanged")
	}
	if !c.Changed("k", "d2") {
		t.Error("different digest must read as changed")
	}
	if c.Digest("k") != "d1" || c.Stamp("k") != "s1" {
		t.Errorf("unexpected stored entry: %q %q", c.Digest("k"), c.Stamp("k"))
	}
}

func TestCacheSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := LoadHashCache(path)
	c.Set("category:agents", "digest-a", "stamp-a")
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	c2 := LoadHashCache(path)
	if c2.Digest("category:agents") != "digest-a" {
		t.Errorf("expected digest to survive reload, got %q", c2.Digest("category:agents"))
	}
}

func TestCacheSaveSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := LoadHashCache(path)
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no cache file written for a clean cache")
	}
}

func TestCacheSetIdenticalStaysClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := LoadHashCache(path)
	c.Set("k", "d", "s")
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	c.Set("k", "d", "s")
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !before.ModTime().Equal(after.ModTime()) {
		t.Error("expected identical Set to leave the cache clean")
	}
}

func TestLoadHashCacheCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := LoadHashCache(path)
	if !c.Changed("anything", "digest") {
		t.Error("corrupt cache must behave as empty")
	}
}

func TestHashDirMissingIsEmpty(t *testing.T) {
	state, err := HashDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Digest != HashStrings() {
		t.Errorf("missing dir must hash as empty, got %q", state.Digest)
	}
}

func TestHashDirTracksContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item.json")
	if err := os.WriteFile(path, []byte(`{"description": "one"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	before, err := HashDir(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"description": "two"}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	after, err := HashDir(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if before.Digest == after.Digest {
		t.Error("expected digest change after content change")
	}
}

func TestHashDirIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "item.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	before, err := HashDir(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	after, err := HashDir(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if before.Digest != after.Digest {
		t.Error("non-JSON files must not affect the content digest")
	}
}

func TestStampDirMatchesHashDirStamp(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "item.json"), []byte(`{"description": "one"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	stamp, err := StampDir(dir)
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}
	state, err := HashDir(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if stamp != state.Stamp {
		t.Errorf("StampDir = %q, HashDir stamp = %q", stamp, state.Stamp)
	}
}

func TestStampDirTracksTouch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item.json")
	if err := os.WriteFile(path, []byte(`{"description": "one"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	before, err := StampDir(dir)
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}
	digestBefore, err := HashDir(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	// Same content, different mtime: stamp moves, digest stays put.
	later := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	after, err := StampDir(dir)
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}
	digestAfter, err := HashDir(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if before == after {
		t.Error("expected stamp change after touch")
	}
	if digestBefore.Digest != digestAfter.Digest {
		t.Error("touch must not change the content digest")
	}
}

func TestHashGuidesDirCoversMarkdown(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "intro.mdx"), []byte("# Intro"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	state, err := HashGuidesDir(dir)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if state.Digest == HashStrings() {
		t.Error("expected guide file to contribute to digest")
	}
}
