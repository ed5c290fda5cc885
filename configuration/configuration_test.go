package configuration

import (
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/filestore/filestore"
)

func TestDefault_EngineConfig(t *testing.T) {

	c := Default()
	c.Dir = t.TempDir()

	e := filestore.New(c.EngineConfig())
	defer e.Close()

	AssertNil(e.Err())
	AssertEqual(e.Config().ConcurrencyLimit, 10)
	AssertEqual(e.Config().Mode, filestore.ModeSync)
	AssertEqual(e.Config().IDField, "id")
}

func TestEngineConfig_Async(t *testing.T) {

	c := Default()
	c.Dir = t.TempDir()
	c.Mode = "ASYNC"
	c.ConcurrencyLimit = 3

	e := filestore.New(c.EngineConfig())
	defer e.Close()

	AssertNil(e.Err())
	AssertEqual(e.Config().Mode, filestore.ModeAsync)
	AssertEqual(e.Config().ConcurrencyLimit, 3)
}
