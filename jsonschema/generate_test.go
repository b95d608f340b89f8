package jsonschema_test

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jadn"
	"github.com/reoring/jadn/jsonschema"
)

const music = `{
  "info": {"package": "http://example.com/music", "title": "Music", "exports": ["Album"]},
  "types": [
    ["Album", "Record", [], "an album", [
      [1, "title", "String", ["{1"], "album title"],
      [2, "tracks", "Track", ["[0", "]0"], ""],
      [3, "cover", "Binary", ["[0", "/x"], ""],
      [4, "media", "Media", [], ""]
    ]],
    ["Track", "Array", [], "", [
      [1, "number", "Integer", ["{1"], ""],
      [2, "name", "String", ["[0"], ""]
    ]],
    ["Media", "Enumerated", [], "", [[1, "cd", ""], [2, "vinyl", ""]]],
    ["Count", "Enumerated", ["="], "", [[1, "one", ""], [2, "two", ""]]],
    ["Rating", "Number", ["y0", "z5"], ""]
  ]
}`

func loadMusic(t *testing.T) *jadn.Schema {
	t.Helper()
	s, err := jadn.Loads([]byte(music))
	require.NoError(t, err)
	return s
}

func TestGenerate(t *testing.T) {
	out, err := jsonschema.Generate(loadMusic(t))
	require.NoError(t, err)

	assert.Equal(t, jsonschema.Draft, out.SchemaURI)
	assert.Equal(t, "http://example.com/music", out.ID)
	assert.Equal(t, "Music", out.Title)
	require.Len(t, out.OneOf, 1)
	assert.Equal(t, "#/$defs/Album", out.OneOf[0].Ref)

	album := out.Defs["Album"]
	require.NotNil(t, album)
	assert.Equal(t, "object", album.Type)
	assert.Equal(t, []string{"media", "title"}, album.Required)
	assert.Equal(t, false, album.AdditionalProperties)
	assert.Equal(t, "#/$defs/Album$tracks", album.Properties["tracks"].Ref)
	assert.Equal(t, "album title", album.Properties["title"].Description)

	tracks := out.Defs["Album$tracks"]
	require.NotNil(t, tracks)
	assert.Equal(t, "array", tracks.Type)
	assert.Equal(t, "#/$defs/Track", tracks.Items.Ref)
	assert.Equal(t, 1, *tracks.MinItems)

	cover := out.Defs["Album$cover"]
	require.NotNil(t, cover)
	assert.Equal(t, "base16", cover.ContentEncoding)

	track := out.Defs["Track"]
	require.Len(t, track.PrefixItems, 2)
	assert.Equal(t, "#/$defs/Track$number", track.PrefixItems[0].Ref)
	assert.Equal(t, "string", track.PrefixItems[1].Type)
	assert.Equal(t, "integer", out.Defs["Track$number"].Type)
	assert.Equal(t, 1.0, *out.Defs["Track$number"].Minimum)
	assert.Equal(t, 1, *track.MinItems)
	assert.Equal(t, 2, *track.MaxItems)

	assert.Equal(t, []any{"cd", "vinyl"}, out.Defs["Media"].Enum)
	assert.Equal(t, "integer", out.Defs["Count"].Type)
	assert.Equal(t, []any{1, 2}, out.Defs["Count"].Enum)

	rating := out.Defs["Rating"]
	assert.Equal(t, 0.0, *rating.Minimum)
	assert.Equal(t, 5.0, *rating.Maximum)
}

func TestGenerate_MapOfEnumKeys(t *testing.T) {
	s, err := jadn.Loads([]byte(`{"types": [
		["Color", "Enumerated", [], "", [[1, "red", ""], [2, "blue", ""]]],
		["ByColor", "MapOf", ["+Color", "*Integer"], ""],
		["Labels", "MapOf", ["+String", "*String"], ""]
	]}`))
	require.NoError(t, err)
	out, err := jsonschema.Generate(s)
	require.NoError(t, err)

	byColor := out.Defs["ByColor"]
	assert.Equal(t, "object", byColor.Type)
	assert.Len(t, byColor.Properties, 2)
	assert.Empty(t, byColor.Required)

	labels := out.Defs["Labels"]
	require.NotNil(t, labels.PropertyNames)
	assert.Equal(t, "string", labels.PropertyNames.Type)
	assert.Len(t, out.OneOf, 3)
}

func TestGenerate_IntegerItemValues(t *testing.T) {
	s, err := jadn.Loads([]byte(`{"types": [["Speed", "Enumerated", [], "", [[1, 33, ""], [2, 45, ""]]]]}`))
	require.NoError(t, err)
	out, err := jsonschema.Generate(s)
	require.NoError(t, err)

	speed := out.Defs["Speed"]
	require.NotNil(t, speed)
	assert.Empty(t, speed.Type)
	assert.Equal(t, []any{33, 45}, speed.Enum)
}

func TestWriter(t *testing.T) {
	s := loadMusic(t)

	var buf bytes.Buffer
	require.NoError(t, jsonschema.Writer{}.Write(&buf, s, jadn.CommentsAll))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, jsonschema.Draft, doc["$schema"])
	assert.Contains(t, doc["$defs"], "Album")
	assert.Contains(t, buf.String(), "an album")

	buf.Reset()
	require.NoError(t, jsonschema.Writer{}.Write(&buf, s, jadn.CommentsNone))
	assert.NotContains(t, buf.String(), "an album")
	assert.NotContains(t, buf.String(), "album title")
	assert.Contains(t, buf.String(), `"title": "Music"`)
}
