// Package engine decodes JSON documents into generic values while enforcing
// the constraints the encoding/json family silently relaxes: duplicate object
// keys and trailing data are errors, and numbers keep their text as
// json.Number.
package engine

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents one streaming token.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
}

// ErrTrailingData reports content after the first JSON value.
var ErrTrailingData = errors.New("engine: trailing data after JSON value")

// DuplicateKeyError reports an object key that appears more than once.
type DuplicateKeyError struct {
	Path string // JSON Pointer of the enclosing object
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q at %s", e.Key, e.Path)
}

// Decode builds a generic value (map[string]any, []any, string, bool,
// json.Number or nil) from exactly one JSON value in data.
func Decode(data []byte) (any, error) {
	return DecodeFrom(NewBytes(data))
}

// DecodeFrom builds a generic value from a token source and requires the
// source to be exhausted afterwards.
func DecodeFrom(src TokenSource) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := decodeValue(src, tok, nil)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

func decodeValue(src TokenSource, tok Token, path []string) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src, path)
	case KindBeginArray:
		return decodeArray(src, path)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return j.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObject(src TokenSource, path []string) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		if _, dup := m[tok.String]; dup {
			return nil, &DuplicateKeyError{Path: pointer(path), Key: tok.String}
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		v, err := decodeValue(src, vt, append(path, tok.String))
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func decodeArray(src TokenSource, path []string) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok, append(path, strconv.Itoa(len(arr))))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// pointer renders path segments as an RFC 6901 JSON Pointer.
func pointer(path []string) string {
	if len(path) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, p := range path {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(p, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
