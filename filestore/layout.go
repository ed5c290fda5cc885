package filestore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the suffix of every record file.
const Extension = ".json"

// Layout maps collections and ids to paths below a root directory.
type Layout struct {
	Root string
}

// NewLayout checks that root exists and is a directory.
func NewLayout(root string) (*Layout, error) {

	if root == "" {
		return nil, fmt.Errorf("%w: root path is empty", ErrConfig)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: stat root '%s': %w", ErrConfig, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: root '%s' is not a directory", ErrConfig, root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve root '%s': %w", ErrConfig, root, err)
	}

	return &Layout{Root: abs}, nil
}

func (l *Layout) CollectionDir(collection string) (string, error) {
	if err := ValidateName(collection); err != nil {
		return "", fmt.Errorf("collection: %w", err)
	}
	return filepath.Join(l.Root, collection), nil
}

func (l *Layout) Resolve(collection, id string) (string, error) {
	dir, err := l.CollectionDir(collection)
	if err != nil {
		return "", err
	}
	if err := ValidateName(id); err != nil {
		return "", fmt.Errorf("id: %w", err)
	}
	return filepath.Join(dir, id+Extension), nil
}

// ValidateName rejects anything that is not a single, visible path element.
// Names starting with a dot are reserved for temporary files.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: '%s' starts with a dot", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: '%s' contains a forbidden character", ErrInvalidName, name)
	case filepath.Base(name) != name:
		return fmt.Errorf("%w: '%s' is not a plain file name", ErrInvalidName, name)
	}
	return nil
}

// idFromFilename returns the id stored in a record file name and false if the
// entry is not a record file. The extension is matched exactly, so every id
// returned resolves back to the same file.
func idFromFilename(name string) (string, bool) {
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	id, found := strings.CutSuffix(name, Extension)
	if !found || id == "" {
		return "", false
	}
	return id, true
}

// recordEntry is idFromFilename for a directory entry. Symlinks are followed:
// one pointing to a directory, or to nothing, is not a record.
func recordEntry(dir string, entry fs.DirEntry) (string, bool) {
	id, ok := idFromFilename(entry.Name())
	if !ok {
		return "", false
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return id, !entry.IsDir()
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil || info.IsDir() {
		return "", false
	}
	return id, true
}
