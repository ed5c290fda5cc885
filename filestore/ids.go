package filestore

import (
	"github.com/google/uuid"
)

// IDGenerator produces ids for records stored without one. Ids must be usable
// as file names.
type IDGenerator interface {
	NewID() string
}

type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string {
	return f()
}

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}
