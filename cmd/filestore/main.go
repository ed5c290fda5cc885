package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/filestore/bootstrap"
	"github.com/fulldump/filestore/configuration"
)

var VERSION = "dev"

var banner = `
  _____ _ _      ____  _
 |  ___(_) | ___/ ___|| |_ ___  _ __ ___
 | |_  | | |/ _ \___ \| __/ _ \| '__/ _ \
 |  _| | | |  __/___) | || (_) | | |  __/
 |_|   |_|_|\___|____/ \__\___/|_|  \___|
                          version ` + VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	bootstrap.VERSION = VERSION
	start, _ := bootstrap.Bootstrap(c)
	start()
}
