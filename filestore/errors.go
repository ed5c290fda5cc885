package filestore

import "errors"

var (
	// ErrConfig is returned by every operation of an engine whose root could
	// not be validated at construction time.
	ErrConfig = errors.New("filestore: invalid configuration")

	ErrIO    = errors.New("filestore: io failure")
	ErrParse = errors.New("filestore: malformed record")

	// ErrInvalidName is returned when a collection or id can not be used as a
	// path element below the root.
	ErrInvalidName = errors.New("filestore: invalid name")

	// ErrDirectoryCleanup is never returned to callers, it is only reported
	// to Config.OnCleanupError.
	ErrDirectoryCleanup = errors.New("filestore: directory cleanup failed")
)
