package service

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/go-json-experiment/json"

	"github.com/fulldump/filestore/filestore"
)

type Service struct {
	engine *filestore.Engine
}

func NewService(engine *filestore.Engine) *Service {
	return &Service{
		engine: engine,
	}
}

// Status is not nil while the engine can not serve requests.
func (s *Service) Status() error {
	return s.engine.Err()
}

func (s *Service) ListCollections() ([]*Collection, error) {

	names, err := s.engine.Collections()
	if err != nil {
		return nil, err
	}

	result := []*Collection{}
	for _, name := range names {
		total, err := s.engine.Count(name)
		if err != nil {
			return nil, err
		}
		result = append(result, &Collection{
			Name:  name,
			Total: total,
		})
	}

	return result, nil
}

// GetCollection fails with ErrorCollectionNotFound for collections without
// records, they do not exist on disk.
func (s *Service) GetCollection(name string) (*Collection, error) {

	total, err := s.engine.Count(name)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrorCollectionNotFound
	}

	return &Collection{
		Name:  name,
		Total: total,
	}, nil
}

func (s *Service) Insert(collection string, document JSON) (JSON, error) {

	record, err := s.engine.Set(collection, document)
	if err != nil {
		return nil, err
	}

	return record.Attributes, nil
}

func (s *Service) GetDocument(collection, id string) (JSON, error) {

	record, err := s.engine.Get(collection, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrorDocumentNotFound
	}

	return record.Attributes, nil
}

// PutDocument replaces the whole document, the id in the path wins over the
// one in the body.
func (s *Service) PutDocument(collection, id string, document JSON) (JSON, error) {

	if err := filestore.ValidateName(id); err != nil {
		return nil, err
	}

	item := make(JSON, len(document)+1)
	for k, v := range document {
		item[k] = v
	}
	item[s.engine.Config().IDField] = id

	return s.Insert(collection, item)
}

// PatchDocument applies a JSON merge patch (RFC 7386) to a stored document.
// The id can not be patched.
func (s *Service) PatchDocument(collection, id string, patch JSON) (JSON, error) {

	current, err := s.GetDocument(collection, id)
	if err != nil {
		return nil, err
	}

	original, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	patchBytes, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}

	patched, err := jsonpatch.MergePatch(original, patchBytes)
	if err != nil {
		return nil, fmt.Errorf("cannot apply patch: %w", err)
	}

	document := JSON{}
	err = json.Unmarshal(patched, &document)
	if err != nil {
		return nil, fmt.Errorf("unmarshal patched document: %w", err)
	}

	return s.PutDocument(collection, id, document)
}

func (s *Service) DeleteDocument(collection, id string) error {
	return s.engine.Destroy(collection, id)
}

func (s *Service) Find(collection string, options *FindOptions) ([]JSON, error) {

	records, err := s.find(collection, options)
	if err != nil {
		return nil, err
	}

	result := make([]JSON, 0, len(records))
	for _, record := range records {
		result = append(result, record.Attributes)
	}

	return result, nil
}

// Remove destroys every document selected by options and returns them.
func (s *Service) Remove(collection string, options *FindOptions) ([]JSON, error) {

	records, err := s.find(collection, options)
	if err != nil {
		return nil, err
	}

	result := make([]JSON, 0, len(records))
	for _, record := range records {
		err := s.engine.Destroy(collection, record.ID)
		if err != nil {
			return result, fmt.Errorf("remove '%s': %w", record.ID, err)
		}
		result = append(result, record.Attributes)
	}

	return result, nil
}

func (s *Service) find(collection string, options *FindOptions) ([]*filestore.Record, error) {

	if options == nil {
		options = &FindOptions{}
	}

	records, err := s.engine.Fetch(collection, options.Filter)
	if err != nil {
		return nil, err
	}

	if options.Sort != "" {
		records = sortRecords(records, options.Sort)
	}

	return paginate(records, options.Skip, options.Limit), nil
}

func paginate[T any](items []T, skip, limit int64) []T {

	if skip > 0 {
		if skip >= int64(len(items)) {
			return items[:0]
		}
		items = items[skip:]
	}

	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}

	return items
}
