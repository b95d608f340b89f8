package markdown_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jadn"
	"github.com/reoring/jadn/markdown"
)

const schema = `{
  "info": {"package": "http://example.com/pets", "title": "Pets", "exports": ["Pet"]},
  "types": [
    ["Pet", "Record", [], "a household pet", [
      [1, "name", "String", ["{1"], "call name"],
      [2, "tags", "String", ["[0", "]0", "q"], ""],
      [3, "kind", "Kind", [], "species"]
    ]],
    ["Kind", "Enumerated", [], "", [[1, "cat", "meows"], [2, "dog", "barks"]]],
    ["Names", "ArrayOf", ["*String", "{1"], ""]
  ]
}`

func render(t *testing.T, level jadn.CommentLevel) string {
	t.Helper()
	s, err := jadn.Loads([]byte(schema))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, markdown.Write(&buf, s, level))
	return buf.String()
}

func TestWrite(t *testing.T) {
	out := render(t, jadn.CommentsAll)

	assert.Contains(t, out, "## Schema")
	assert.Contains(t, out, "http://example.com/pets")
	assert.Contains(t, out, "**_Type: Pet (Record)_**")
	assert.Contains(t, out, "a household pet")
	assert.Contains(t, out, "**_Type: Names (ArrayOf *String {1)_**")
	assert.Contains(t, out, "String {1")
	assert.Contains(t, out, "String q")
	assert.Contains(t, out, "0..*")
	assert.Contains(t, out, "call name")
	assert.Contains(t, out, "meows")
	assert.Regexp(t, `\|\s*ID\s*\|\s*Name\s*\|\s*Type\s*\|\s*#\s*\|\s*Description\s*\|`, out)
	assert.Regexp(t, `\|\s*ID\s*\|\s*Item\s*\|\s*Description\s*\|`, out)
}

func TestWrite_StripComments(t *testing.T) {
	out := render(t, jadn.CommentsNone)

	assert.Contains(t, out, "**_Type: Kind (Enumerated)_**")
	assert.NotContains(t, out, "a household pet")
	assert.NotContains(t, out, "call name")
	assert.NotContains(t, out, "meows")
	assert.NotContains(t, out, "Description")
}

func TestWriter_ImplementsInterface(t *testing.T) {
	s, err := jadn.Loads([]byte(schema))
	require.NoError(t, err)
	var w jadn.Writer = markdown.Writer{}
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, s, jadn.CommentsAll))
	assert.Equal(t, render(t, jadn.CommentsAll), buf.String())
}
