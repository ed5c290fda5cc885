package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test             string `usage:"name of the test: ALL | INSERT | FETCH | REMOVE"`
	Base             string `usage:"base URL, empty starts a local server"`
	N                int64  `usage:"number of documents"`
	Workers          int    `usage:"number of workers"`
	ConcurrencyLimit int    `usage:"max files read at the same time by the engine in FETCH"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:             "fetch",
		Base:             "",
		N:                10_000,
		Workers:          16,
		ConcurrencyLimit: 10,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestInsert(c)
		TestFetch(c)
		TestRemove(c)
	case "INSERT":
		TestInsert(c)
	case "FETCH":
		TestFetch(c)
	case "REMOVE":
		TestRemove(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
