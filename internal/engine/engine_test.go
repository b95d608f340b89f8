package engine_test

import (
	"errors"
	"testing"

	j "github.com/goccy/go-json"

	"github.com/reoring/jadn/internal/engine"
)

func TestDecode_Values(t *testing.T) {
	v, err := engine.Decode([]byte(`{"a":[1,"x",true,null,{"b":2.5}],"c":{}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := v.(map[string]any)
	arr := m["a"].([]any)
	if len(arr) != 5 {
		t.Fatalf("want 5 elements, got %d", len(arr))
	}
	if n, ok := arr[0].(j.Number); !ok || n.String() != "1" {
		t.Fatalf("want json.Number 1, got %#v", arr[0])
	}
	if arr[1] != "x" || arr[2] != true || arr[3] != nil {
		t.Fatalf("unexpected scalars: %#v", arr[:4])
	}
	if n := arr[4].(map[string]any)["b"].(j.Number); n.String() != "2.5" {
		t.Fatalf("want 2.5, got %v", n)
	}
	if len(m["c"].(map[string]any)) != 0 {
		t.Fatalf("want empty object")
	}
}

func TestDecode_DuplicateKeyPath(t *testing.T) {
	_, err := engine.Decode([]byte(`{"types":[["A","Record",[],"",[]],{"k":1,"k":2}]}`))
	var dup *engine.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateKeyError, got %v", err)
	}
	if dup.Key != "k" || dup.Path != "/types/1" {
		t.Fatalf("unexpected duplicate: %+v", dup)
	}
}

func TestDecode_TrailingAndTruncated(t *testing.T) {
	if _, err := engine.Decode([]byte(`{} {}`)); !errors.Is(err, engine.ErrTrailingData) {
		t.Fatalf("want ErrTrailingData, got %v", err)
	}
	if _, err := engine.Decode([]byte(`{"a":[1,2`)); err == nil {
		t.Fatalf("want error for truncated input")
	}
}
