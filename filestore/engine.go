// Package filestore stores JSON records as files, one directory per
// collection and one <id>.json file per record:
//
//	<root>/<collection>/<id>.json
//
// The engine keeps no record state in memory. Every operation goes to disk,
// which is the only shared state between concurrent callers: the last Set on
// an id wins.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/panjf2000/ants/v2"

	"github.com/fulldump/filestore/query"
)

type Engine struct {
	config Config
	layout *Layout
	bulk   *bulkReader
	dirs   *dirManager
	pool   *ants.Pool

	// err is set at construction and never cleared
	err error
}

// New builds an engine. It never fails: if the root can not be used, every
// operation returns ErrConfig. See Err.
func New(config *Config) *Engine {

	c := Config{}
	if config != nil {
		c = *config
	}
	c = c.withDefaults()

	e := &Engine{
		config: c,
		bulk:   newBulkReader(c.Codec, c.ConcurrencyLimit),
		dirs:   newDirManager(),
	}

	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		e.err = err
		return e
	}
	e.config.Mode = mode

	e.layout, err = NewLayout(c.Root)
	if err != nil {
		e.err = err
		return e
	}

	if mode == ModeAsync {
		e.pool, err = ants.NewPool(c.AsyncWorkers)
		if err != nil {
			e.err = fmt.Errorf("%w: async pool: %w", ErrConfig, err)
			return e
		}
	}

	return e
}

// Err returns the construction error, if any.
func (e *Engine) Err() error {
	return e.err
}

func (e *Engine) Config() Config {
	return e.config
}

// Close releases the async workers. Operations issued afterwards in async
// mode fail.
func (e *Engine) Close() error {
	if e.pool != nil {
		e.pool.Release()
	}
	return nil
}

// Get returns nil, nil when the record does not exist.
func (e *Engine) Get(collection, id string) (*Record, error) {
	return e.GetAsync(collection, id).Wait()
}

func (e *Engine) GetAsync(collection, id string) *Future[*Record] {
	return run(e, func() (*Record, error) {
		return e.get(collection, id)
	})
}

// Set writes attributes as the whole content of a record, generating an id
// when attributes has none. attributes is not modified.
func (e *Engine) Set(collection string, attributes map[string]any) (*Record, error) {
	return e.SetAsync(collection, attributes).Wait()
}

func (e *Engine) SetAsync(collection string, attributes map[string]any) *Future[*Record] {
	return run(e, func() (*Record, error) {
		return e.set(collection, attributes)
	})
}

// Fetch returns the records of a collection matching predicate, in no
// particular order. A collection that was never written is empty.
func (e *Engine) Fetch(collection string, predicate map[string]any) ([]*Record, error) {
	return e.FetchAsync(collection, predicate).Wait()
}

func (e *Engine) FetchAsync(collection string, predicate map[string]any) *Future[[]*Record] {
	return run(e, func() ([]*Record, error) {
		return e.fetch(collection, predicate)
	})
}

// Destroy removes a record. Removing a missing record is not an error.
func (e *Engine) Destroy(collection, id string) error {
	_, err := e.DestroyAsync(collection, id).Wait()
	return err
}

func (e *Engine) DestroyAsync(collection, id string) *Future[struct{}] {
	return run(e, func() (struct{}, error) {
		return struct{}{}, e.destroy(collection, id)
	})
}

func (e *Engine) get(collection, id string) (*Record, error) {

	filename, err := e.layout.Resolve(collection, id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read '%s': %w", ErrIO, filename, err)
	}

	attributes, err := e.config.Codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode '%s': %w", ErrParse, filename, err)
	}

	return &Record{
		Collection: collection,
		ID:         id,
		Attributes: attributes,
	}, nil
}

func (e *Engine) set(collection string, attributes map[string]any) (*Record, error) {

	stored := make(map[string]any, len(attributes)+1)
	for k, v := range attributes {
		stored[k] = v
	}

	id, err := e.recordID(stored)
	if err != nil {
		return nil, err
	}
	stored[e.config.IDField] = id

	filename, err := e.layout.Resolve(collection, id)
	if err != nil {
		return nil, err
	}

	data, err := e.config.Codec.Encode(stored)
	if err != nil {
		return nil, fmt.Errorf("encode record '%s': %w", id, err)
	}

	err = e.dirs.writeFile(filename, data)
	if err != nil {
		return nil, err
	}

	return &Record{
		Collection: collection,
		ID:         id,
		Attributes: stored,
	}, nil
}

// recordID reads the id field, generating a new id when it is absent or
// empty.
func (e *Engine) recordID(attributes map[string]any) (string, error) {

	value, exists := attributes[e.config.IDField]
	if !exists || value == nil {
		return e.config.IDGenerator.NewID(), nil
	}

	id, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: field '%s' must be a string, got %T", ErrInvalidName, e.config.IDField, value)
	}
	if id == "" {
		return e.config.IDGenerator.NewID(), nil
	}

	return id, nil
}

func (e *Engine) fetch(collection string, predicate map[string]any) ([]*Record, error) {

	q, err := query.Compile(predicate)
	if err != nil {
		return nil, err
	}

	dir, err := e.layout.CollectionDir(collection)
	if err != nil {
		return nil, err
	}

	records, err := e.bulk.readAll(collection, dir)
	if err != nil {
		return nil, err
	}

	return query.Filter(records, (*Record).attributes, q)
}

func (e *Engine) destroy(collection, id string) error {

	filename, err := e.layout.Resolve(collection, id)
	if err != nil {
		return err
	}

	err = os.Remove(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: remove '%s': %w", ErrIO, filename, err)
	}

	err = e.dirs.pruneIfEmpty(filepath.Dir(filename))
	if err != nil {
		e.config.OnCleanupError(err)
	}

	return nil
}

// Collections lists the collections that currently hold records, sorted by
// name.
func (e *Engine) Collections() ([]string, error) {

	if e.err != nil {
		return nil, e.err
	}

	entries, err := os.ReadDir(e.layout.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: list '%s': %w", ErrIO, e.layout.Root, err)
	}

	names := []string{}
	for _, entry := range entries {
		if !entry.IsDir() || ValidateName(entry.Name()) != nil {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// Count returns the number of record files in a collection without reading
// them.
func (e *Engine) Count(collection string) (int, error) {

	if e.err != nil {
		return 0, e.err
	}

	dir, err := e.layout.CollectionDir(collection)
	if err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: list '%s': %w", ErrIO, dir, err)
	}

	n := 0
	for _, entry := range entries {
		if _, ok := recordEntry(dir, entry); ok {
			n++
		}
	}

	return n, nil
}
