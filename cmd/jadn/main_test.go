package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", "-s", "testdata/music.jadn", "testdata/good.json")
	require.NoError(t, err)
	assert.Contains(t, out, "testdata/good.json: ok")

	out, err = run(t, "validate", "-s", "testdata/music.jadn", "-t", "Library", "testdata/good.json", "testdata/bad.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 instances invalid")
	assert.Contains(t, out, "unknown_key at /123456789012/teal")
	assert.NotContains(t, out, "duplicate_value", "unknown keys stop recursion")
}

func TestValidate_NotExported(t *testing.T) {
	out, err := run(t, "validate", "-s", "testdata/music.jadn", "-t", "Album", "testdata/good.json")
	require.Error(t, err)
	assert.Contains(t, out, "not_exported")
}

func TestSimplify(t *testing.T) {
	out, err := run(t, "simplify", "-s", "testdata/music.jadn", "--passes", "multiplicity")
	require.NoError(t, err)
	assert.Contains(t, out, `"Album$tracks"`)
	assert.Contains(t, out, `"Artist$instruments"`)

	_, err = run(t, "simplify", "-s", "testdata/music.jadn", "--passes", "bogus")
	require.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	out, err := run(t, "analyze", "-s", "testdata/music.jadn")
	require.NoError(t, err)
	assert.Contains(t, out, "unreferenced")
	assert.Contains(t, out, "Library")
}

func TestConvert(t *testing.T) {
	out, err := run(t, "convert", "-s", "testdata/music.jadn", "--to", "jsonschema")
	require.NoError(t, err)
	assert.Contains(t, out, `"$defs"`)
	assert.Contains(t, out, `"#/$defs/Library"`)

	out, err = run(t, "convert", "-s", "testdata/music.jadn", "--to", "markdown", "--strip-comments")
	require.NoError(t, err)
	assert.Contains(t, out, "**_Type: Album (Record)_**")
	assert.NotContains(t, out, "model for the album")

	dir := t.TempDir()
	dst := filepath.Join(dir, "music.yaml")
	_, err = run(t, "convert", "-s", "testdata/music.jadn", "--to", "yaml", "-o", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package: http://example.com/music")

	_, err = run(t, "convert", "-s", dst, "--to", "json")
	require.NoError(t, err, "yaml output loads back")

	_, err = run(t, "convert", "-s", "testdata/music.jadn", "--to", "xml")
	require.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("JADN_SCHEMA", "testdata/music.jadn")
	out, err := run(t, "validate", "testdata/good.json")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}
