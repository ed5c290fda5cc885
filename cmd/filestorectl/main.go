package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fulldump/filestore/filestore"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "filestorectl",
		Usage: "Read and write records of a file store directly on disk",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Root directory of the store, must exist",
				Value:   "data",
				EnvVars: []string{"FILESTORE_ROOT"},
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Max record files read at the same time by fetch",
				Value: filestore.DefaultConcurrencyLimit,
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Execution mode (sync, async)",
				Value: string(filestore.ModeSync),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print one record",
				ArgsUsage: "<collection> <id>",
				Action:    getCommand,
			},
			{
				Name:      "set",
				Usage:     "Store a record read from the argument or stdin",
				ArgsUsage: "<collection> [json]",
				Action:    setCommand,
			},
			{
				Name:      "fetch",
				Usage:     "Print every record of a collection matching a filter",
				ArgsUsage: "<collection>",
				Action:    fetchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   `JSON predicate, e.g. {"name":{"equals":"Arthur"}}`,
					},
				},
			},
			{
				Name:      "destroy",
				Usage:     "Remove a record",
				ArgsUsage: "<collection> <id>",
				Action:    destroyCommand,
			},
			{
				Name:   "ls",
				Usage:  "List collections and their record count",
				Action: lsCommand,
			},
		},
	}
}

func openEngine(c *cli.Context) (*filestore.Engine, error) {
	e := filestore.New(&filestore.Config{
		Root:             c.String("root"),
		ConcurrencyLimit: c.Int("concurrency"),
		Mode:             filestore.Mode(c.String("mode")),
	})
	if err := e.Err(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func args(c *cli.Context, min int) ([]string, error) {
	if c.NArg() < min {
		return nil, fmt.Errorf("expected %d arguments, got %d", min, c.NArg())
	}
	return c.Args().Slice(), nil
}

func printJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func getCommand(c *cli.Context) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}

	e, err := openEngine(c)
	if err != nil {
		return err
	}
	defer e.Close()

	record, err := e.Get(a[0], a[1])
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("record '%s' not found in '%s'", a[1], a[0])
	}

	return printJSON(c.App.Writer, record.Attributes)
}

func setCommand(c *cli.Context) error {
	a, err := args(c, 1)
	if err != nil {
		return err
	}

	var body []byte
	if len(a) > 1 {
		body = []byte(a[1])
	} else {
		body, err = io.ReadAll(c.App.Reader)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	attributes := map[string]any{}
	if err := json.Unmarshal(body, &attributes); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	e, err := openEngine(c)
	if err != nil {
		return err
	}
	defer e.Close()

	record, err := e.Set(a[0], attributes)
	if err != nil {
		return err
	}

	return printJSON(c.App.Writer, record.Attributes)
}

func fetchCommand(c *cli.Context) error {
	a, err := args(c, 1)
	if err != nil {
		return err
	}

	var predicate map[string]any
	if filter := c.String("filter"); filter != "" {
		if err := json.Unmarshal([]byte(filter), &predicate); err != nil {
			return fmt.Errorf("decode filter: %w", err)
		}
	}

	e, err := openEngine(c)
	if err != nil {
		return err
	}
	defer e.Close()

	records, err := e.Fetch(a[0], predicate)
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := printJSON(c.App.Writer, record.Attributes); err != nil {
			return err
		}
	}

	return nil
}

func destroyCommand(c *cli.Context) error {
	a, err := args(c, 2)
	if err != nil {
		return err
	}

	e, err := openEngine(c)
	if err != nil {
		return err
	}
	defer e.Close()

	return e.Destroy(a[0], a[1])
}

func lsCommand(c *cli.Context) error {
	e, err := openEngine(c)
	if err != nil {
		return err
	}
	defer e.Close()

	names, err := e.Collections()
	if err != nil {
		return err
	}

	for _, name := range names {
		total, err := e.Count(name)
		if errors.Is(err, filestore.ErrIO) {
			log.Println("WARNING:", err.Error())
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s\t%d\n", name, total)
	}

	return nil
}
