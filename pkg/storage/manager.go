package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manager reads and writes files inside one listing folder. Photo file names
// are unique per task, so concurrent writers never touch the same path.
type Manager struct {
	dir string
}

// NewManager creates dir if needed
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the managed directory
func (m *Manager) Dir() string {
	return m.dir
}

// Path joins name onto the managed directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// Exists reports whether a regular, non-empty file called name is present
func (m *Manager) Exists(name string) bool {
	info, err := os.Stat(m.Path(name))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Save writes data to name atomically and returns the number of bytes
// written
func (m *Manager) Save(name string, data []byte) (int64, error) {
	if err := WriteAtomic(m.Path(name), data, 0644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// Files lists regular files in the directory, skipping temp files
func (m *Manager) Files() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && !strings.HasSuffix(entry.Name(), ".tmp") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// WriteAtomic writes data to a temp file next to path and renames it into
// place, so readers never see a partial file
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", base, err)
	}
	if closeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
