package filestore

import (
	"fmt"
	"sync/atomic"
	"testing"
)

func sequence(prefix string) IDGenerator {
	n := int64(0)
	return IDGeneratorFunc(func() string {
		return fmt.Sprintf("%s%d", prefix, atomic.AddInt64(&n, 1))
	})
}

// Environment gives f a fresh engine rooted at a temporary directory.
func Environment(t *testing.T, mode Mode, f func(e *Engine, root string)) {
	root := t.TempDir()
	e := New(&Config{
		Root:        root,
		Mode:        mode,
		IDGenerator: sequence("id-"),
	})
	defer e.Close()

	f(e, root)
}
