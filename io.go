package jadn

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/reoring/jadn/internal/engine"
)

// CommentLevel controls how much descriptive text a Writer emits.
type CommentLevel int

const (
	// CommentsAll keeps every description.
	CommentsAll CommentLevel = iota
	// CommentsNone strips descriptions.
	CommentsNone
)

// Reader parses a schema document.
type Reader interface {
	Read(r io.Reader, opts ...LoadOpt) (*Schema, error)
}

// Writer renders a schema.
type Writer interface {
	Write(w io.Writer, s *Schema, level CommentLevel) error
}

// JSONReader reads the JSON wire form.
type JSONReader struct{}

func (JSONReader) Read(r io.Reader, opts ...LoadOpt) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read schema")
	}
	return Loads(data, opts...)
}

// YAMLReader reads the YAML rendering of the wire form.
type YAMLReader struct{}

func (YAMLReader) Read(r io.Reader, opts ...LoadOpt) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read schema")
	}
	return LoadsYAML(data, opts...)
}

// JSONWriter writes the indented JSON wire form.
type JSONWriter struct{}

func (JSONWriter) Write(w io.Writer, s *Schema, level CommentLevel) error {
	data, err := Dumps(s, level == CommentsNone)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "write schema")
}

// YAMLWriter writes the wire form as YAML.
type YAMLWriter struct{}

func (YAMLWriter) Write(w io.Writer, s *Schema, level CommentLevel) error {
	data, err := DumpsYAML(s, level == CommentsNone)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "write schema")
}

// Loads parses a JSON schema document. Duplicate object keys are rejected
// with a DuplicateError.
func Loads(data []byte, opts ...LoadOpt) (*Schema, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	doc, err := toDocument(v)
	if err != nil {
		return nil, err
	}
	return New(doc, opts...)
}

// LoadsYAML parses a YAML schema document.
func LoadsYAML(data []byte, opts ...LoadOpt) (*Schema, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &Error{Kind: KindFormat, Message: "malformed YAML", Cause: err}
	}
	doc, err := toDocument(normalizeYAML(v))
	if err != nil {
		return nil, err
	}
	return New(doc, opts...)
}

// Load reads a schema file, choosing the decoder by extension: .yaml/.yml
// are YAML, everything else (.jadn, .json) is JSON.
func Load(path string, opts ...LoadOpt) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read schema %s", path)
	}
	var s *Schema
	if isYAMLPath(path) {
		s, err = LoadsYAML(data, opts...)
	} else {
		s, err = Loads(data, opts...)
	}
	return s, errors.WithMessage(err, path)
}

// Dumps renders the schema as indented JSON.
func Dumps(s *Schema, stripComments bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Wire(stripComments)); err != nil {
		return nil, errors.Wrap(err, "encode schema")
	}
	return buf.Bytes(), nil
}

// DumpsYAML renders the schema as YAML.
func DumpsYAML(s *Schema, stripComments bool) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.Wire(stripComments)); err != nil {
		return nil, errors.Wrap(err, "encode schema")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode schema")
	}
	return buf.Bytes(), nil
}

// Dump writes the schema to path, as YAML for .yaml/.yml and JSON otherwise.
func Dump(s *Schema, path string, stripComments bool) error {
	var (
		data []byte
		err  error
	)
	if isYAMLPath(path) {
		data, err = DumpsYAML(s, stripComments)
	} else {
		data, err = Dumps(s, stripComments)
	}
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write schema %s", path)
}

// DecodeInstance parses a JSON instance for validation. Numbers are kept as
// json.Number; duplicate keys are rejected.
func DecodeInstance(data []byte) (any, error) {
	return decodeJSON(data)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// DecodeInstanceFrom is DecodeInstance for a stream. The reader must hold a
// single JSON value.
func DecodeInstanceFrom(r io.Reader) (any, error) {
	return decodeErr(engine.DecodeFrom(engine.NewReader(r)))
}

func decodeJSON(data []byte) (any, error) {
	return decodeErr(engine.Decode(data))
}

func decodeErr(v any, err error) (any, error) {
	if err != nil {
		var dup *engine.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, &Error{Kind: KindDuplicate, Message: "duplicate key " + dup.Key + " at " + dup.Path, Cause: err}
		}
		return nil, &Error{Kind: KindFormat, Message: "malformed JSON", Cause: err}
	}
	return v, nil
}

// toDocument converts a decoded generic value into a Document.
func toDocument(v any) (Document, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Document{}, formatErrorf("", "", "schema must be an object with info and types")
	}
	for k := range m {
		if k != "info" && k != "types" {
			return Document{}, formatErrorf("", "", "unknown top-level key %q", k)
		}
	}
	var doc Document
	types, ok := m["types"].([]any)
	if !ok {
		return Document{}, formatErrorf("", "", "types must be a list")
	}
	doc.Types = types
	if raw, ok := m["info"]; ok && raw != nil {
		// info is a plain object; round-trip it through JSON onto the tagged struct.
		data, err := json.Marshal(raw)
		if err != nil {
			return Document{}, &Error{Kind: KindFormat, Message: "info is not serializable", Cause: err}
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		var info Info
		if err := dec.Decode(&info); err != nil {
			return Document{}, &Error{Kind: KindFormat, Message: "invalid info", Cause: err}
		}
		doc.Info = &info
	}
	return doc, nil
}

// normalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like values recursively.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeYAML(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeYAML(t[i])
		}
		return arr
	default:
		return v
	}
}
