package configuration

import (
	"github.com/fulldump/filestore/filestore"
)

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"data directory, created at startup when missing"`
	ConcurrencyLimit  int    `usage:"max record files read at the same time by a fetch"`
	Mode              string `usage:"execution mode: sync | async"`
	AsyncWorkers      int    `usage:"worker pool size in async mode"`
	IdField           string `usage:"attribute holding the record id"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
	ApiKey            string `usage:"required X-Api-Key header, empty disables authentication"`
	ApiSecret         string `usage:"required X-Api-Secret header"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() *Configuration {
	return &Configuration{
		HttpAddr:          "127.0.0.1:8080",
		Dir:               "data",
		ConcurrencyLimit:  filestore.DefaultConcurrencyLimit,
		Mode:              string(filestore.ModeSync),
		AsyncWorkers:      filestore.DefaultAsyncWorkers,
		IdField:           filestore.DefaultIDField,
		EnableCompression: true,
		ShowBanner:        true,
	}
}

// EngineConfig translates the process configuration into the engine one.
func (c *Configuration) EngineConfig() *filestore.Config {
	return &filestore.Config{
		Root:             c.Dir,
		ConcurrencyLimit: c.ConcurrencyLimit,
		Mode:             filestore.Mode(c.Mode),
		AsyncWorkers:     c.AsyncWorkers,
		IDField:          c.IdField,
	}
}
