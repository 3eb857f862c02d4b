// Package jsondb provides whole-document persistence for JSON-array
// resources. Each Collection is bound to a single file; the entire array is
// the unit of durability, and every read-modify-write cycle runs under the
// collection's mutex so concurrent writers cannot drop each other's updates.
package jsondb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Collection persists a slice of T as a single JSON array file.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

// NewCollection binds a collection to the given file path. The file is not
// created until the first save.
func NewCollection[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// LoadAll returns every document in the collection. A missing backing file is
// the first-run case and yields an empty slice; any other read or parse
// failure is a genuine fault and propagates.
func (c *Collection[T]) LoadAll() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// SaveAll overwrites the backing file with the given documents.
func (c *Collection[T]) SaveAll(docs []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(docs)
}

// Update runs one load-mutate-save cycle under the collection lock. The
// mutate callback receives the current documents and returns the replacement
// set plus a flag indicating whether anything actually changed; when the flag
// is false the file is left untouched.
func (c *Collection[T]) Update(mutate func(docs []T) ([]T, bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	docs, err := c.loadLocked()
	if err != nil {
		return err
	}

	next, changed, err := mutate(docs)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	return c.saveLocked(next)
}

func (c *Collection[T]) loadLocked() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(c.path), err)
	}

	var docs []T
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(c.path), err)
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

// saveLocked writes to a temp file in the target directory and renames it
// over the destination, so readers never observe a half-written array.
func (c *Collection[T]) saveLocked(docs []T) error {
	if docs == nil {
		docs = []T{}
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(c.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", filepath.Base(c.path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filepath.Base(c.path), err)
	}
	return nil
}
