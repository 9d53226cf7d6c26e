package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/iMAGRAY/ASTSentinel/internal/rules"
)

// ContentHash returns the hex sha256 digest used as the scan cache key and
// as the parser facade's parse-cache key, so an unchanged file is both
// un-reparsed and un-re-ruled within the same run.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Cache persists a file's issue list on disk, keyed by content hash,
// zstd-compressed — so re-scanning an unchanged tree (the common case in a
// PostToolUse hook firing after a single-file edit) skips rule evaluation
// entirely for every file but the one that changed.
type Cache struct {
	mu      sync.Mutex
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCache opens (creating if needed) a disk cache rooted at dir. Passing an
// empty dir disables the cache — Get always misses, Put is a no-op.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return &Cache{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Cache{dir: dir, encoder: enc, decoder: dec}, nil
}

func (c *Cache) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}

func (c *Cache) path(hash string) string {
	return filepath.Join(c.dir, hash[:2], hash+".zst")
}

// Get returns the cached issue list for hash, or (nil, false) on a miss —
// including when the cache is disabled.
func (c *Cache) Get(hash string) ([]rules.Issue, bool) {
	if c.dir == "" {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := os.ReadFile(c.path(hash))
	if err != nil {
		return nil, false
	}
	decompressed, err := c.decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, false
	}
	var issues []rules.Issue
	if err := json.Unmarshal(decompressed, &issues); err != nil {
		return nil, false
	}
	return issues, true
}

// Put stores issues under hash. Errors are swallowed: the cache is a
// best-effort speedup, never a correctness dependency.
func (c *Cache) Put(hash string, issues []rules.Issue) {
	if c.dir == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := json.Marshal(issues)
	if err != nil {
		return
	}
	compressed := c.encoder.EncodeAll(payload, make([]byte, 0, len(payload)/2))
	p := c.path(hash)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return
	}
	os.Rename(tmp, p)
}
