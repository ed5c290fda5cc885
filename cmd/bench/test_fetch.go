package main

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fulldump/filestore/filestore"
)

// TestFetch measures the bulk reader directly on the engine, no HTTP.
func TestFetch(c Config) {

	dir, cleanup := TempDir()
	cleanups = append(cleanups, cleanup)

	engine := filestore.New(&filestore.Config{
		Root:             dir,
		ConcurrencyLimit: c.ConcurrencyLimit,
		Mode:             filestore.ModeAsync,
		AsyncWorkers:     c.Workers,
	})
	defer engine.Close()
	if err := engine.Err(); err != nil {
		fmt.Println("ERROR:", err.Error())
		return
	}

	fmt.Println("Preload documents...")
	next := int64(-1)
	Parallel(c.Workers, func() {
		for {
			i := atomic.AddInt64(&next, 1)
			if i >= c.N {
				return
			}
			_, err := engine.Set("bench", JSON{
				"id":   strconv.FormatInt(i, 10),
				"even": i%2 == 0,
			})
			if err != nil {
				fmt.Println("ERROR: set:", err.Error())
				return
			}
		}
	})

	t0 := time.Now()
	records, err := engine.Fetch("bench", JSON{"even": true})
	if err != nil {
		fmt.Println("ERROR: fetch:", err.Error())
		return
	}

	took := time.Since(t0)
	fmt.Println("read:", c.N, "matched:", len(records))
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())
}
