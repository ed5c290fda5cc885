package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0755
	filePerm = 0644

	// a concurrent prune may remove the directory between ensureDir and the
	// creation of the temporary file
	writeAttempts = 3
)

// dirManager creates collection directories on write and removes them once
// their last record is gone.
type dirManager struct {
	mkdirAll   func(path string, perm fs.FileMode) error
	removeDir  func(name string) error
	createTemp func(dir, pattern string) (*os.File, error)
}

func newDirManager() *dirManager {
	return &dirManager{
		mkdirAll:   os.MkdirAll,
		removeDir:  os.Remove,
		createTemp: os.CreateTemp,
	}
}

// ensureDir creates dir and its parents. An existing directory, also one
// created concurrently, is not an error.
func (d *dirManager) ensureDir(dir string) error {
	err := d.mkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("%w: create directory '%s': %w", ErrIO, dir, err)
	}
	return nil
}

// pruneIfEmpty removes dir when it has no entries left. A missing directory
// counts as pruned.
func (d *dirManager) pruneIfEmpty(dir string) error {

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: list '%s': %w", ErrDirectoryCleanup, dir, err)
	}
	if len(entries) > 0 {
		return nil
	}

	err = d.removeDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove '%s': %w", ErrDirectoryCleanup, dir, err)
	}

	return nil
}

// writeFile replaces filename with data through a temporary file in the same
// directory, creating the directory when needed.
func (d *dirManager) writeFile(filename string, data []byte) error {

	dir := filepath.Dir(filename)
	pattern := "." + filepath.Base(filename) + ".*.tmp"

	var f *os.File
	var err error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		err = d.ensureDir(dir)
		if err != nil {
			return err
		}
		f, err = d.createTemp(dir, pattern)
		if !errors.Is(err, fs.ErrNotExist) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%w: create temporary file in '%s': %w", ErrIO, dir, err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Chmod(filePerm)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: write '%s': %w", ErrIO, filename, err)
	}

	err = os.Rename(tmp, filename)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename '%s': %w", ErrIO, filename, err)
	}

	return nil
}
