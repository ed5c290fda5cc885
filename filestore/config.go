package filestore

import (
	"fmt"
	"log"
	"strings"
)

type Mode string

const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSync:
		return ModeSync, nil
	case ModeAsync:
		return ModeAsync, nil
	}
	return "", fmt.Errorf("%w: bad mode '%s', must be [sync|async]", ErrConfig, s)
}

const (
	DefaultConcurrencyLimit = 10
	DefaultAsyncWorkers     = 64
	DefaultIDField          = "id"
)

type Config struct {
	// Root is the directory holding one sub directory per collection. It
	// must exist.
	Root string

	// ConcurrencyLimit caps the files read at the same time by Fetch.
	ConcurrencyLimit int

	Mode         Mode
	AsyncWorkers int

	// IDField is the attribute that carries the record id.
	IDField     string
	IDGenerator IDGenerator
	Codec       Codec

	// OnCleanupError receives ErrDirectoryCleanup failures, which never fail
	// the Destroy that caused them.
	OnCleanupError func(err error)
}

func (c Config) withDefaults() Config {
	if c.ConcurrencyLimit <= 0 {
		c.ConcurrencyLimit = DefaultConcurrencyLimit
	}
	if c.Mode == "" {
		c.Mode = ModeSync
	}
	if c.AsyncWorkers <= 0 {
		c.AsyncWorkers = DefaultAsyncWorkers
	}
	if c.IDField == "" {
		c.IDField = DefaultIDField
	}
	if c.IDGenerator == nil {
		c.IDGenerator = UUIDGenerator{}
	}
	if c.Codec == nil {
		c.Codec = JSONCodec{}
	}
	if c.OnCleanupError == nil {
		c.OnCleanupError = func(err error) {
			log.Println("WARNING:", err.Error())
		}
	}
	return c
}
