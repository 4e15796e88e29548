package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sactel/admin-console/internal/core/domain"
)

const sessionFile = "session.json"

// FileKV stores all keys in a single JSON object on disk. Every call reads
// the file again so several console processes see each other's writes.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// DefaultPath returns ~/.sactel/session.json, or session-<profile>.json for
// a non-default profile.
func DefaultPath(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	name := sessionFile
	if profile != "" && profile != "default" {
		name = "session-" + profile + ".json"
	}
	return filepath.Join(home, ".sactel", name), nil
}

// NewFileKV creates the parent directory of path (0700) and returns a store
// backed by it.
func NewFileKV(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileKV{path: path}, nil
}

// Path returns the backing file.
func (f *FileKV) Path() string { return f.path }

func (f *FileKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	return f.Replace(ctx, map[string]string{key: value})
}

func (f *FileKV) Delete(ctx context.Context, keys ...string) error {
	return f.Replace(ctx, nil, keys...)
}

// Replace applies the update to the decoded file and renames the result into
// place, so readers see either the old object or the new one. A corrupt file
// is replaced wholesale; any other read failure aborts without touching it.
func (f *FileKV) Replace(_ context.Context, set map[string]string, del ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	switch {
	case errors.Is(err, domain.ErrCorruptSession):
		data = map[string]string{}
	case err != nil:
		return err
	}
	for _, k := range del {
		delete(data, k)
	}
	for k, v := range set {
		data[k] = v
	}
	if len(data) == 0 {
		return f.remove()
	}
	return f.write(data)
}

func (f *FileKV) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return data, nil
}

func (f *FileKV) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileKV) remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
