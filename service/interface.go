package service

import (
	"errors"
)

var ErrorCollectionNotFound = errors.New("collection not found")
var ErrorDocumentNotFound = errors.New("document not found")

type JSON = map[string]any

type Collection struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

type FindOptions struct {
	Filter JSON  `json:"filter"`
	Skip   int64 `json:"skip"`
	Limit  int64 `json:"limit"` // zero or negative means no limit

	// Sort is a field name, prefixed with '-' for descending order.
	Sort string `json:"sort"`
}

type Servicer interface {
	Status() error
	ListCollections() ([]*Collection, error)
	GetCollection(name string) (*Collection, error)
	Insert(collection string, document JSON) (JSON, error)
	GetDocument(collection, id string) (JSON, error)
	PutDocument(collection, id string, document JSON) (JSON, error)
	PatchDocument(collection, id string, patch JSON) (JSON, error)
	DeleteDocument(collection, id string) error
	Find(collection string, options *FindOptions) ([]JSON, error)
	Remove(collection string, options *FindOptions) ([]JSON, error)
}
