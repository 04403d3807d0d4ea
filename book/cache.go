package book

import (
	"errors"
	"strings"

	"github.com/corvidchess/corvid/cache"
	"github.com/corvidchess/corvid/config"
)

const cacheKeyPrefix = "book:"

// BookCacheLoadFunc loads the book named by a cache key. The key looks like
// book:/path/to/openings.csv; book: alone is the built-in book.
func BookCacheLoadFunc(cfg *config.Config, key string) (any, error) {
	path, ok := strings.CutPrefix(key, cacheKeyPrefix)
	if !ok {
		return nil, errors.New("bookcacheloadfunc - bad cache key: " + key)
	}
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// FromConfig returns the book set by the book-path key, loading it once per
// process.
func FromConfig(cfg *config.Config) (*Book, error) {
	obj, err := cache.Load(cfg, cacheKeyPrefix+cfg.GetString(config.ConfigBookPath), BookCacheLoadFunc)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*Book)
	if !ok {
		return nil, errors.New("cached object is not an opening book")
	}
	return b, nil
}
