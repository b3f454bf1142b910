package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const FileName = "exported_history.json"

var _ Store = (*FileStore)(nil)

// FileStore keeps the history as a JSON array of "title_date" strings.
type FileStore struct {
	fs   afero.Fs
	path string
}

func NewFileStore(fsys afero.Fs, dir string) *FileStore {
	return &FileStore{fs: fsys, path: filepath.Join(dir, FileName)}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*Set, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnreadable, s.path, err)
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnreadable, s.path, err)
	}
	if values == nil {
		return nil, fmt.Errorf("%w: %s holds no key array", ErrUnreadable, s.path)
	}

	set := NewSet()
	for _, value := range values {
		key, ok := ParseKey(value)
		if !ok {
			return nil, fmt.Errorf("%w: malformed entry %q in %s", ErrUnreadable, value, s.path)
		}
		set.Add(key)
	}
	return set, nil
}

// Persist writes and syncs a temporary file before renaming it over the
// previous history, so an interrupted write never truncates it.
func (s *FileStore) Persist(ctx context.Context, set *Set) error {
	data, err := json.Marshal(set.Strings())
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := s.writeSynced(tmp, data); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}

func (s *FileStore) writeSynced(path string, data []byte) error {
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *FileStore) Close() error {
	return nil
}
