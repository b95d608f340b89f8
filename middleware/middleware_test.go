package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jadn"
	"github.com/reoring/jadn/middleware"
)

const person = `{"info": {"package": "p", "exports": ["Person"]}, "types": [
	["Person", "Record", [], "", [
		[1, "name", "String", [], ""],
		[2, "age", "Integer", ["[0", "{0"], ""]
	]]
]}`

func handler(t *testing.T) http.Handler {
	t.Helper()
	s, err := jadn.Loads([]byte(person))
	require.NoError(t, err)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.InstanceFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "ann", v.(map[string]any)["name"])
		w.WriteHeader(http.StatusNoContent)
	})
	return middleware.Handler(s, "Person", jadn.ValidateOpt{}, next)
}

func serve(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestHandler_Valid(t *testing.T) {
	rec := serve(handler(t), `{"name": "ann", "age": 30}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_Issues(t *testing.T) {
	rec := serve(handler(t), `{"age": -1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Issues []struct {
			Path string `json:"path"`
			Code string `json:"code"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Issues, 2)
	assert.Equal(t, "/name", body.Issues[0].Path)
	assert.Equal(t, jadn.CodeRequired, body.Issues[0].Code)
	assert.Equal(t, jadn.CodeTooSmall, body.Issues[1].Code)
}

func TestHandler_MalformedBody(t *testing.T) {
	rec := serve(handler(t), `{"name": "a", "name": "b"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Contains(t, rec.Body.String(), "duplicate key")
}
