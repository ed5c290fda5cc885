package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populate(t *testing.T, dir string, n int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for i := 0; i < n; i++ {
		content := fmt.Sprintf(`{"id":"r%03d","n":%d}`, i, i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("r%03d.json", i)), []byte(content), 0644))
	}
}

func recordIDs(records []*Record) []string {
	ids := []string{}
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestBulkReader_MissingDirectory(t *testing.T) {

	b := newBulkReader(JSONCodec{}, 10)

	records, err := b.readAll("person", filepath.Join(t.TempDir(), "person"))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestBulkReader_ReadsEveryRecord(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "person")
	populate(t, dir, 57)

	b := newBulkReader(JSONCodec{}, 10)
	records, err := b.readAll("person", dir)
	require.NoError(t, err)
	require.Len(t, records, 57)

	expected := []string{}
	for i := 0; i < 57; i++ {
		expected = append(expected, fmt.Sprintf("r%03d", i))
	}
	assert.Equal(t, expected, recordIDs(records))

	for _, r := range records {
		assert.Equal(t, "person", r.Collection)
		assert.Equal(t, r.ID, r.Attributes["id"])
	}
}

func TestBulkReader_SkipsForeignEntries(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "person")
	populate(t, dir, 2)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".r000.json.123.tmp"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "upper.JSON"), []byte(`{"id":"upper"}`), 0644))

	b := newBulkReader(JSONCodec{}, 10)
	records, err := b.readAll("person", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"r000", "r001"}, recordIDs(records))
}

func TestBulkReader_FollowsSymlinks(t *testing.T) {

	root := t.TempDir()
	dir := filepath.Join(root, "person")
	populate(t, dir, 1)

	other := filepath.Join(root, "other")
	require.NoError(t, os.Mkdir(other, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(other, "linked.json"), []byte(`{"id":"linked"}`), 0644))

	require.NoError(t, os.Symlink(filepath.Join(other, "linked.json"), filepath.Join(dir, "linked.json")))
	require.NoError(t, os.Symlink(other, filepath.Join(dir, "folder.json")))
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(dir, "dangling.json")))

	b := newBulkReader(JSONCodec{}, 10)
	records, err := b.readAll("person", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"linked", "r000"}, recordIDs(records))
}

func TestBulkReader_BoundedConcurrency(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "person")
	populate(t, dir, 100)

	limit := 4
	inFlight := int64(0)
	maxInFlight := int64(0)

	b := newBulkReader(JSONCodec{}, limit)
	b.readFile = func(name string) ([]byte, error) {
		n := atomic.AddInt64(&inFlight, 1)
		defer atomic.AddInt64(&inFlight, -1)
		for {
			seen := atomic.LoadInt64(&maxInFlight)
			if n <= seen || atomic.CompareAndSwapInt64(&maxInFlight, seen, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		return os.ReadFile(name)
	}

	records, err := b.readAll("person", dir)
	require.NoError(t, err)
	assert.Len(t, records, 100)
	assert.LessOrEqual(t, maxInFlight, int64(limit))
	assert.Greater(t, maxInFlight, int64(1))
}

func TestBulkReader_FailFast(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "person")
	populate(t, dir, 50)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "r000.json"), []byte(`not json`), 0644))

	reads := int64(0)
	b := newBulkReader(JSONCodec{}, 1)
	b.readFile = func(name string) ([]byte, error) {
		atomic.AddInt64(&reads, 1)
		return os.ReadFile(name)
	}

	records, err := b.readAll("person", dir)
	assert.ErrorIs(t, err, ErrParse)
	assert.Nil(t, records)

	// r000 is listed first, with a single slot at most one more read may
	// already be dispatched when the failure is latched
	assert.LessOrEqual(t, atomic.LoadInt64(&reads), int64(2))
}

func TestBulkReader_ReadError(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "person")
	populate(t, dir, 5)

	failure := errors.New("disk on fire")
	b := newBulkReader(JSONCodec{}, 2)
	b.readFile = func(name string) ([]byte, error) {
		if filepath.Base(name) == "r003.json" {
			return nil, failure
		}
		return os.ReadFile(name)
	}

	_, err := b.readAll("person", dir)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, failure)
}

func TestBulkReader_VanishedFile(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "person")
	populate(t, dir, 3)

	b := newBulkReader(JSONCodec{}, 2)
	b.readFile = func(name string) ([]byte, error) {
		if filepath.Base(name) == "r001.json" {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return os.ReadFile(name)
	}

	records, err := b.readAll("person", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"r000", "r002"}, recordIDs(records))
}
