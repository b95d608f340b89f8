package format_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jadn/format"
)

func check(t *testing.T, r *format.Registry, name string, v any) error {
	t.Helper()
	fn, ok := r.Lookup(name)
	require.True(t, ok, "format %s not registered", name)
	return fn(v)
}

func TestDefault_StringFormats(t *testing.T) {
	r := format.Default()
	cases := []struct {
		name string
		ok   []any
		bad  []any
	}{
		{"date-time", []any{"2025-01-01T00:00:00Z", "2025-01-01T10:00:00.5+09:00"}, []any{"2025-01-01", 12}},
		{"date", []any{"2025-02-28"}, []any{"2025-02-30"}},
		{"time", []any{"23:59:59Z", "08:00:00"}, []any{"25:00:00"}},
		{"email", []any{"a@example.com"}, []any{"Alice <a@example.com>", "nope"}},
		{"hostname", []any{"example.com", "a-b.c"}, []any{"-bad.com", "a..b"}},
		{"ipv4", []any{"192.168.0.1"}, []any{"::1", "300.1.1.1"}},
		{"ipv6", []any{"::1"}, []any{"10.0.0.1"}},
		{"uri", []any{"https://example.com/x"}, []any{"/relative"}},
		{"uri-reference", []any{"/relative"}, []any{}},
		{"json-pointer", []any{"", "/a/~0b"}, []any{"a", "/~2"}},
		{"relative-json-pointer", []any{"0#", "1/a"}, []any{"x"}},
		{"regex", []any{"^a+$"}, []any{"("}},
		{"uuid", []any{"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}, []any{"not-a-uuid"}},
	}
	for _, c := range cases {
		for _, v := range c.ok {
			assert.NoError(t, check(t, r, c.name, v), "%s(%v)", c.name, v)
		}
		for _, v := range c.bad {
			assert.Error(t, check(t, r, c.name, v), "%s(%v)", c.name, v)
		}
	}
}

func TestDefault_BinaryAndNetFormats(t *testing.T) {
	r := format.Default()
	assert.NoError(t, check(t, r, "eui", []byte{1, 2, 3, 4, 5, 6}))
	assert.NoError(t, check(t, r, "eui", "00:11:22:33:44:55"))
	assert.Error(t, check(t, r, "eui", []byte{1, 2, 3}))

	assert.NoError(t, check(t, r, "ipv4-addr", []byte{10, 0, 0, 1}))
	assert.NoError(t, check(t, r, "ipv4-addr", "10.0.0.1"))
	assert.Error(t, check(t, r, "ipv4-addr", "::1"))
	assert.NoError(t, check(t, r, "ipv6-addr", "fe80::1"))

	assert.NoError(t, check(t, r, "ipv4-net", []any{"10.0.0.0", json.Number("8")}))
	assert.NoError(t, check(t, r, "ipv4-net", "10.0.0.0/8"))
	assert.Error(t, check(t, r, "ipv4-net", []any{"10.0.0.0", 33}))
	assert.NoError(t, check(t, r, "ipv6-net", []any{"2001:db8::", 32}))

	assert.NoError(t, check(t, r, "x", "deadbeef"))
	assert.Error(t, check(t, r, "x", "DEADBEEF"))
	assert.NoError(t, check(t, r, "X", "DEADBEEF"))
	assert.NoError(t, check(t, r, "b", "aGVsbG8"))
}

func TestIntegerFormats(t *testing.T) {
	r := format.Default()
	assert.NoError(t, check(t, r, "i8", -128))
	assert.Error(t, check(t, r, "i8", 128))
	assert.NoError(t, check(t, r, "i64", json.Number("9223372036854775807")))
	assert.Error(t, check(t, r, "i64", json.Number("9223372036854775808")))

	// u<n> is synthesized on demand with the implied [0, 2^n-1] bound.
	assert.NoError(t, check(t, r, "u8", 255))
	assert.Error(t, check(t, r, "u8", 256))
	assert.Error(t, check(t, r, "u8", -1))
	assert.NoError(t, check(t, r, "u128", json.Number("340282366920938463463374607431768211455")))
	assert.Error(t, check(t, r, "u3", 1.5))

	assert.NoError(t, check(t, r, "f16", 65504.0))
	assert.Error(t, check(t, r, "f16", 70000.0))
}

func TestRegistry_RegisterAndUnsigned(t *testing.T) {
	r := format.New()
	assert.False(t, r.Known("ticker"))
	r.Register("ticker", func(v any) error {
		if s, _ := v.(string); len(s) > 0 && len(s) <= 5 {
			return nil
		}
		return errors.New("bad ticker")
	})
	assert.True(t, r.Known("ticker"))
	assert.Equal(t, []string{"ticker"}, r.Names())
	r.Register("ticker", nil)
	assert.False(t, r.Known("ticker"))

	n, ok := format.Unsigned("u16")
	assert.True(t, ok)
	assert.Equal(t, 16, n)
	_, ok = format.Unsigned("u")
	assert.False(t, ok)
	assert.True(t, r.Known("u7"))
}
