package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	app := newApp()
	app.Writer = out
	app.Reader = strings.NewReader(stdin)

	err := app.Run(append([]string{"filestorectl"}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, "", "--root", root, "set", "people", `{"id":"1","name":"Arthur"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Arthur"}`, out)

	_, err = run(t, `{"id":"2","name":"Ford"}`, "--root", root, "set", "people")
	require.NoError(t, err)

	out, err = run(t, "", "--root", root, "get", "people", "2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"2","name":"Ford"}`, out)

	out, err = run(t, "", "--root", root, "--mode", "async", "fetch", "--filter", `{"name":"Arthur"}`, "people")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Arthur"}`, out)

	out, err = run(t, "", "--root", root, "ls")
	require.NoError(t, err)
	assert.Equal(t, "people\t2\n", out)

	_, err = run(t, "", "--root", root, "destroy", "people", "1")
	require.NoError(t, err)
	_, err = run(t, "", "--root", root, "destroy", "people", "2")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "people"))
	assert.True(t, os.IsNotExist(err))

	_, err = run(t, "", "--root", root, "get", "people", "2")
	assert.ErrorContains(t, err, "not found")
}

func TestMissingRoot(t *testing.T) {
	_, err := run(t, "", "--root", filepath.Join(t.TempDir(), "nope"), "ls")
	require.Error(t, err)
}

func TestMissingArguments(t *testing.T) {
	_, err := run(t, "", "--root", t.TempDir(), "get", "people")
	assert.ErrorContains(t, err, "expected 2 arguments")
}
