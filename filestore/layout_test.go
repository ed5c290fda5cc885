package filestore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/fulldump/biff"
)

func TestValidateName(t *testing.T) {

	for _, name := range []string{"person", "id-1", "a.b", "Ford Prefect", "ñandú"} {
		AssertNil(ValidateName(name))
	}

	for _, name := range []string{"", ".", "..", ".hidden", "a/b", "../etc", `a\b`, "a\x00b"} {
		AssertTrue(errors.Is(ValidateName(name), ErrInvalidName))
	}
}

func TestLayout_Resolve(t *testing.T) {

	root := t.TempDir()
	l, err := NewLayout(root)
	AssertNil(err)

	filename, err := l.Resolve("person", "arthur")
	AssertNil(err)
	AssertEqual(filename, filepath.Join(l.Root, "person", "arthur.json"))

	_, err = l.Resolve("person", "../../arthur")
	AssertTrue(errors.Is(err, ErrInvalidName))
}

func TestNewLayout_Errors(t *testing.T) {

	_, err := NewLayout("")
	AssertTrue(errors.Is(err, ErrConfig))

	_, err = NewLayout(filepath.Join(t.TempDir(), "missing"))
	AssertTrue(errors.Is(err, ErrConfig))
}

func TestIDFromFilename(t *testing.T) {

	cases := map[string]string{
		"abc.json":       "abc",
		"abc.JSON":       "",
		"abc.Json":       "",
		"a.b.json":       "a.b",
		".abc.json":      "",
		".json":          "",
		"abc.txt":        "",
		"abc.json.1.tmp": "",
	}

	for name, expected := range cases {
		id, _ := idFromFilename(name)
		AssertEqual(id, expected)
	}
}

func TestPruneIfEmpty(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "person")
	d := newDirManager()

	// missing
	AssertNil(d.pruneIfEmpty(dir))

	// not empty
	AssertNil(os.MkdirAll(dir, 0755))
	AssertNil(os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0644))
	AssertNil(d.pruneIfEmpty(dir))
	_, err := os.Stat(dir)
	AssertNil(err)

	// empty
	AssertNil(os.Remove(filepath.Join(dir, "a.json")))
	AssertNil(d.pruneIfEmpty(dir))
	_, err = os.Stat(dir)
	AssertTrue(os.IsNotExist(err))
}

func TestWriteFile_CreatesDirectory(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "a", "b", "c.json")
	d := newDirManager()

	AssertNil(d.writeFile(filename, []byte(`{"x":1}`)))
	AssertNil(d.writeFile(filename, []byte(`{"x":2}`)))

	content, err := os.ReadFile(filename)
	AssertNil(err)
	AssertEqual(string(content), `{"x":2}`)

	entries, err := os.ReadDir(filepath.Dir(filename))
	AssertNil(err)
	AssertEqual(len(entries), 1)
}

func TestJSONCodec(t *testing.T) {

	c := JSONCodec{}

	data, err := c.Encode(map[string]any{"b": 1, "a": "x"})
	AssertNil(err)
	AssertEqual(string(data), `{"a":"x","b":1}`)

	attributes, err := c.Decode([]byte(`{"a":"x","b":1}`))
	AssertNil(err)
	AssertEqual(attributes, map[string]any{"a": "x", "b": float64(1)})

	for _, bad := range []string{``, `null`, `[]`, `{"a":`, `"text"`} {
		_, err := c.Decode([]byte(bad))
		AssertNotNil(err)
	}
}
