package lsp

import (
	"context"
	"sync"

	"github.com/dhamidi/poresolver/completion"
)

// Store holds the text of documents the client has open. It is the live
// buffer state, not a cache of parsed results.
type Store struct {
	mu    sync.RWMutex
	files map[string]*File
}

type File struct {
	Path    string
	Content []byte
	Version int32
}

func NewStore() *Store {
	return &Store{files: make(map[string]*File)}
}

func (s *Store) Update(path string, content []byte, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = &File{Path: path, Content: content, Version: version}
}

func (s *Store) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}

func (s *Store) Get(path string) *File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[path]
}

// overlayLoader prefers unsaved editor buffers over the file on disk.
type overlayLoader struct {
	store *Store
	disk  completion.FileLoader
}

func (l *overlayLoader) Load(ctx context.Context, path string) ([]byte, error) {
	if f := l.store.Get(path); f != nil {
		return f.Content, nil
	}
	return l.disk.Load(ctx, path)
}
