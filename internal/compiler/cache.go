package compiler

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dtsbundle/dtsbundle/internal/dts"
)

const parseCacheSize = 512

type cacheEntry struct {
	size    int64
	modTime time.Time
	file    *dts.SourceFile
}

// parseCache memoizes parsed source files across loads. Entries are keyed by
// path and revalidated against the file's size and modification time, so a
// file edited between builds is reparsed.
type parseCache struct {
	entries *lru.Cache[string, cacheEntry]
}

func newParseCache(size int) *parseCache {
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		panic(err) // lru.New fails only for non-positive sizes
	}
	return &parseCache{entries: entries}
}

func (c *parseCache) get(path string) (*dts.SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if entry, ok := c.entries.Get(path); ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.file, nil
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := dts.Parse(path, string(text))
	c.entries.Add(path, cacheEntry{size: info.Size(), modTime: info.ModTime(), file: f})
	return f, nil
}
