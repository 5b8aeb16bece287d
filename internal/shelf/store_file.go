// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shelf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/internal/platform/apperr"
	"github.com/taibuivan/mangatrack/internal/platform/constants"
)

// FileStore implements [Store] on two JSON files inside a data directory.
//
// users.json holds the ordered username array and data.json maps each username
// to its list. Every operation runs under one mutex and every write goes through
// a temp file followed by a rename, so a crash never leaves a half-written file.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore prepares dir, creating it and the two data files when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file_store_init_failed: %w", err)
	}

	store := &FileStore{dir: dir}

	defaults := map[string]any{
		constants.UsersFileName: []string{},
		constants.ListsFileName: map[string]json.RawMessage{},
	}
	for name, empty := range defaults {
		if _, err := os.Stat(store.path(name)); errors.Is(err, fs.ErrNotExist) {
			if err := store.writeJSON(name, empty); err != nil {
				return nil, err
			}
		}
	}

	return store, nil
}

// ListUsers implements [Store].
func (store *FileStore) ListUsers(_ context.Context) ([]string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.readUsers()
}

// CreateUser implements [Store].
func (store *FileStore) CreateUser(_ context.Context, username string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	users, err := store.readUsers()
	if err != nil {
		return err
	}
	if slices.Contains(users, username) {
		return apperr.Conflict("Username already exists")
	}

	if err := store.writeJSON(constants.UsersFileName, append(users, username)); err != nil {
		return err
	}

	lists, err := store.readLists()
	if err != nil {
		return err
	}
	lists[username] = json.RawMessage("[]")
	return store.writeJSON(constants.ListsFileName, lists)
}

// GetList implements [Store].
func (store *FileStore) GetList(_ context.Context, username string) ([]library.Item, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	lists, err := store.readLists()
	if err != nil {
		return nil, err
	}

	items := []library.Item{}
	raw, ok := lists[username]
	if !ok {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("file_store_decode_list_failed: %w", err)
	}
	if items == nil {
		items = []library.Item{}
	}
	return items, nil
}

// SaveList implements [Store].
func (store *FileStore) SaveList(_ context.Context, username string, items []library.Item) error {
	if items == nil {
		items = []library.Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("file_store_encode_list_failed: %w", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	lists, err := store.readLists()
	if err != nil {
		return err
	}
	lists[username] = payload
	return store.writeJSON(constants.ListsFileName, lists)
}

// Ping implements [Store] by checking the data directory is still accessible.
func (store *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(store.dir)
	if err != nil {
		return fmt.Errorf("file_store_ping_failed: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("file_store_ping_failed: %s is not a directory", store.dir)
	}
	return nil
}

// # File Helpers

func (store *FileStore) path(name string) string {
	return filepath.Join(store.dir, name)
}

func (store *FileStore) readUsers() ([]string, error) {
	users := []string{}
	if err := store.readJSON(constants.UsersFileName, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []string{}
	}
	return users, nil
}

func (store *FileStore) readLists() (map[string]json.RawMessage, error) {
	lists := map[string]json.RawMessage{}
	if err := store.readJSON(constants.ListsFileName, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = map[string]json.RawMessage{}
	}
	return lists, nil
}

// readJSON decodes name into dst. A missing file leaves dst untouched.
func (store *FileStore) readJSON(name string, dst any) error {
	data, err := os.ReadFile(store.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("file_store_read_failed: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("file_store_decode_failed: %s: %w", name, err)
	}
	return nil
}

// writeJSON replaces name atomically with the indented encoding of v.
func (store *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("file_store_encode_failed: %w", err)
	}

	tmp, err := os.CreateTemp(store.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("file_store_write_failed: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file_store_write_failed: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("file_store_write_failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file_store_write_failed: %w", err)
	}

	if err := os.Rename(tmpName, store.path(name)); err != nil {
		return fmt.Errorf("file_store_write_failed: %w", err)
	}
	return nil
}
