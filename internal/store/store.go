// Package store persists the checklist document. Reads and writes are
// all-or-nothing: a reader never observes a partially written document.
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"checkline/internal/domain"
)

// Store is the backing store of a single checklist document.
// Read returns (nil, nil) when no document has been written yet.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, doc []byte) error
	Location() string
}

// File keeps the document in a JSON file.
type File struct {
	Path string
}

func NewFile(path string) File { return File{Path: path} }

func (f File) Location() string { return f.Path }

func (f File) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "read", Path: f.Path, Err: err}
	}
	return data, nil
}

// Write replaces the document by writing a sibling temp file and renaming it into place.
func (f File) Write(ctx context.Context, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.StorageError{Op: "write", Path: f.Path, Err: err}
		}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return &domain.StorageError{Op: "write", Path: f.Path, Err: err}
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		_ = os.Remove(tmp)
		return &domain.StorageError{Op: "write", Path: f.Path, Err: err}
	}
	return nil
}

// Memory keeps the document in process memory. Writes counts successful writes.
type Memory struct {
	mu     sync.Mutex
	doc    []byte
	Writes int
	// Fail makes every operation return a storage error when set.
	Fail error
}

func NewMemory(doc []byte) *Memory {
	m := &Memory{}
	if doc != nil {
		m.doc = append([]byte(nil), doc...)
	}
	return m
}

func (m *Memory) Location() string { return "memory" }

func (m *Memory) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, &domain.StorageError{Op: "read", Path: "memory", Err: m.Fail}
	}
	if m.doc == nil {
		return nil, nil
	}
	return append([]byte(nil), m.doc...), nil
}

func (m *Memory) Write(ctx context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return &domain.StorageError{Op: "write", Path: "memory", Err: m.Fail}
	}
	m.doc = append([]byte(nil), doc...)
	m.Writes++
	return nil
}

// Bytes returns the last written document.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.doc...)
}
