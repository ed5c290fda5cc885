package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// bulkReader loads every record of a collection with a bounded number of
// concurrent reads.
type bulkReader struct {
	codec Codec
	limit int

	readFile func(name string) ([]byte, error)
}

func newBulkReader(codec Codec, limit int) *bulkReader {
	return &bulkReader{
		codec:    codec,
		limit:    limit,
		readFile: os.ReadFile,
	}
}

// readAll returns the records stored in dir in completion order. A missing
// dir is an empty collection. The first failure aborts the whole read: no
// reads are started after it and nothing read so far is returned.
func (b *bulkReader) readAll(collection, dir string) ([]*Record, error) {

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []*Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list '%s': %w", ErrIO, dir, err)
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(b.limit)

	records := make([]*Record, 0, len(entries))
	recordsMutex := &sync.Mutex{}

	for _, entry := range entries {
		id, ok := recordEntry(dir, entry)
		if !ok {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		filename := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			attributes, err := b.read(filename)
			if err != nil {
				return err
			}
			if attributes == nil {
				return nil
			}

			recordsMutex.Lock()
			records = append(records, &Record{
				Collection: collection,
				ID:         id,
				Attributes: attributes,
			})
			recordsMutex.Unlock()
			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	return records, nil
}

// read decodes one record file. It returns nil attributes when the file was
// removed after the directory was listed.
func (b *bulkReader) read(filename string) (map[string]any, error) {

	data, err := b.readFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read '%s': %w", ErrIO, filename, err)
	}

	attributes, err := b.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode '%s': %w", ErrParse, filename, err)
	}

	return attributes, nil
}
