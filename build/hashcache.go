// ABOUTME: Content-hash cache for incremental rebuilds, keyed by artifact and backed by a JSON file.
// ABOUTME: Digests are SHA-256 over sorted file names and content hashes; mtimes gate a fast path.
package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// cacheEntry is one persisted cache record: the content digest and the
// mtime stamp observed when the digest was computed.
type cacheEntry struct {
	Digest string `json:"digest"`
	Stamp  string `json:"stamp,omitempty"`
}

// HashCache maps artifact keys (e.g. "category:agents", "sitemap") to input
// digests, persisted as a JSON file next to the build output. A missing or
// corrupt cache file simply means everything rebuilds.
type HashCache struct {
	path    string
	entries map[string]cacheEntry
	dirty   bool
}

// LoadHashCache reads the cache file at path. Unreadable or malformed files
// yield an empty cache, never an error.
func LoadHashCache(path string) *HashCache {
	c := &HashCache{path: path, entries: make(map[string]cacheEntry)}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var entries map[string]cacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return c
	}
	c.entries = entries
	return c
}

// Digest returns the stored digest for a key, or "" when absent.
func (c *HashCache) Digest(key string) string {
	return c.entries[key].Digest
}

// Changed reports whether the digest for key differs from the cached one.
// An absent key is always a change.
func (c *HashCache) Changed(key, digest string) bool {
	return c.entries[key].Digest != digest
}

// Stamp returns the stored mtime stamp for a key, or "" when absent.
// When the stamp matches the current one, the digest can be reused without
// re-hashing file contents.
func (c *HashCache) Stamp(key string) string {
	return c.entries[key].Stamp
}

// Set records a digest and stamp for a key.
func (c *HashCache) Set(key, digest, stamp string) {
	if e := c.entries[key]; e.Digest == digest && e.Stamp == stamp {
		return
	}
	c.entries[key] = cacheEntry{Digest: digest, Stamp: stamp}
	c.dirty = true
}

// Save writes the cache file if anything changed since load.
func (c *HashCache) Save() error {
	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal hash cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write hash cache: %w", err)
	}
	c.dirty = false
	return nil
}

// HashBytes returns the lowercase hex SHA-256 of the raw bytes.
// No normalization is applied: any byte change produces a different hash.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashStrings returns the SHA-256 over the given strings, each terminated by
// a NUL so concatenation boundaries cannot collide.
func HashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		io.WriteString(h, p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DirState captures the hashable state of a source directory: a content
// digest and an mtime stamp for the fast path.
type DirState struct {
	Digest string
	Stamp  string
}

// HashDir hashes the .json files directly under dir (sorted by name).
// The digest covers file names and content hashes; the stamp covers names,
// sizes, and mtimes. A missing directory hashes as empty, matching a
// category with no content.
func HashDir(dir string) (DirState, error) {
	return hashDirExt(dir, ".json")
}

// HashGuidesDir hashes markdown guide files (.md/.mdx) under dir.
func HashGuidesDir(dir string) (DirState, error) {
	return hashDirExt(dir, ".md", ".mdx")
}

// StampDir computes the mtime/size stamp of the .json files under dir
// without reading any file contents. It matches the Stamp field HashDir
// would produce for the same directory state.
func StampDir(dir string) (string, error) {
	return stampDirExt(dir, ".json")
}

// listExt returns the sorted names of non-directory entries under dir with
// one of the given suffixes. A missing directory lists as empty.
func listExt(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, ext := range exts {
			if strings.HasSuffix(e.Name(), ext) {
				names = append(names, e.Name())
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func stampPart(info os.FileInfo) string {
	return fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano())
}

func stampDirExt(dir string, exts ...string) (string, error) {
	names, err := listExt(dir, exts)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(names)*2)
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		parts = append(parts, name, stampPart(info))
	}
	return HashStrings(parts...), nil
}

func hashDirExt(dir string, exts ...string) (DirState, error) {
	names, err := listExt(dir, exts)
	if err != nil {
		return DirState{}, err
	}

	digestParts := make([]string, 0, len(names)*2)
	stampParts := make([]string, 0, len(names)*2)
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return DirState{}, fmt.Errorf("stat %s: %w", path, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return DirState{}, fmt.Errorf("read %s: %w", path, err)
		}
		digestParts = append(digestParts, name, HashBytes(data))
		stampParts = append(stampParts, name, stampPart(info))
	}
	return DirState{Digest: HashStrings(digestParts...), Stamp: HashStrings(stampParts...)}, nil
}
