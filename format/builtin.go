package format

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net"
	"net/mail"
	"net/netip"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

func builtins() map[string]Func {
	return map[string]Func{
		// String semantics
		"date-time":             stringFunc("date-time", checkDateTime),
		"date":                  stringFunc("date", checkDate),
		"time":                  stringFunc("time", checkTime),
		"email":                 stringFunc("email", checkEmail),
		"idn-email":             stringFunc("idn-email", checkEmail),
		"hostname":              stringFunc("hostname", checkHostname(false)),
		"idn-hostname":          stringFunc("idn-hostname", checkHostname(true)),
		"ipv4":                  stringFunc("ipv4", checkIPv4),
		"ipv6":                  stringFunc("ipv6", checkIPv6),
		"uri":                   stringFunc("uri", checkURI),
		"iri":                   stringFunc("iri", checkURI),
		"uri-reference":         stringFunc("uri-reference", checkURIReference),
		"iri-reference":         stringFunc("iri-reference", checkURIReference),
		"uri-template":          stringFunc("uri-template", checkURITemplate),
		"json-pointer":          stringFunc("json-pointer", checkJSONPointer),
		"relative-json-pointer": stringFunc("relative-json-pointer", checkRelativeJSONPointer),
		"regex":                 stringFunc("regex", checkRegex),
		"uuid":                  stringFunc("uuid", checkUUID),
		// Binary semantics
		"eui":       checkEUI,
		"ipv4-addr": addrFunc("ipv4-addr", 4),
		"ipv6-addr": addrFunc("ipv6-addr", 16),
		// Binary serialization hints
		"b": encodedFunc("b", decodeBase64),
		"x": encodedFunc("x", hex.DecodeString),
		"X": encodedFunc("X", hex.DecodeString),
		// Array semantics
		"ipv4-net": netFunc("ipv4-net", 4),
		"ipv6-net": netFunc("ipv6-net", 16),
		// Integer and Number sizes
		"i8":  signedFunc(8),
		"i16": signedFunc(16),
		"i32": signedFunc(32),
		"i64": signedFunc(64),
		"f16": floatFunc("f16", 65504),
		"f32": floatFunc("f32", math.MaxFloat32),
	}
}

func stringFunc(name string, check func(string) error) Func {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s: expected string, got %T", name, v)
		}
		if err := check(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

func checkDateTime(s string) error {
	// Accept RFC3339Nano (trailing zeros optional)
	if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
		if _, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return nil
		}
		return err
	}
	return nil
}

func checkDate(s string) error {
	_, err := time.Parse("2006-01-02", s)
	return err
}

var timeLayouts = []string{"15:04:05Z07:00", "15:04:05.999999999Z07:00", "15:04:05", "15:04:05.999999999"}

func checkTime(s string) error {
	for _, l := range timeLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%q is not an RFC 3339 time", s)
}

func checkEmail(s string) error {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return err
	}
	if a.Address != s {
		return fmt.Errorf("%q carries more than an address", s)
	}
	return nil
}

func checkHostname(idn bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSuffix(s, ".")
		if s == "" || len(s) > 253 {
			return errors.New("hostname length must be 1..253")
		}
		for _, label := range strings.Split(s, ".") {
			if label == "" || len(label) > 63 {
				return fmt.Errorf("label %q must be 1..63 characters", label)
			}
			if label[0] == '-' || label[len(label)-1] == '-' {
				return fmt.Errorf("label %q starts or ends with '-'", label)
			}
			for _, r := range label {
				switch {
				case r == '-', r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
				case idn && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)):
				default:
					return fmt.Errorf("label %q contains %q", label, r)
				}
			}
		}
		return nil
	}
}

func checkIPv4(s string) error {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return err
	}
	if !a.Is4() {
		return fmt.Errorf("%q is not an IPv4 address", s)
	}
	return nil
}

func checkIPv6(s string) error {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return err
	}
	if !a.Is6() {
		return fmt.Errorf("%q is not an IPv6 address", s)
	}
	return nil
}

func checkURI(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if !u.IsAbs() {
		return fmt.Errorf("%q has no scheme", s)
	}
	return nil
}

func checkURIReference(s string) error {
	_, err := url.Parse(s)
	return err
}

func checkURITemplate(s string) error {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
			if depth > 1 {
				return errors.New("nested expression")
			}
		case '}':
			depth--
			if depth < 0 {
				return errors.New("unbalanced '}'")
			}
		}
	}
	if depth != 0 {
		return errors.New("unterminated expression")
	}
	return nil
}

func checkJSONPointer(s string) error {
	if s == "" {
		return nil
	}
	if s[0] != '/' {
		return errors.New("must start with '/'")
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '~' && (i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1')) {
			return errors.New("invalid '~' escape")
		}
	}
	return nil
}

var relPointerRe = regexp.MustCompile(`^(0|[1-9][0-9]*)(#|(/.*)?)$`)

func checkRelativeJSONPointer(s string) error {
	m := relPointerRe.FindStringSubmatch(s)
	if m == nil {
		return errors.New("malformed relative pointer")
	}
	if m[2] != "#" {
		return checkJSONPointer(m[2])
	}
	return nil
}

func checkRegex(s string) error {
	_, err := regexp.Compile(s)
	return err
}

func checkUUID(s string) error {
	_, err := uuid.Parse(s)
	return err
}

// octets returns the raw bytes of a Binary value.
func octets(v any) ([]byte, bool) {
	if b, ok := v.([]byte); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, true
	}
	return nil, false
}

func checkEUI(v any) error {
	if b, ok := octets(v); ok {
		if len(b) != 6 && len(b) != 8 {
			return fmt.Errorf("eui: length %d, want 6 or 8", len(b))
		}
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("eui: expected bytes or string, got %T", v)
	}
	hw, err := net.ParseMAC(s)
	if err != nil {
		return fmt.Errorf("eui: %w", err)
	}
	if len(hw) != 6 && len(hw) != 8 {
		return fmt.Errorf("eui: length %d, want 6 or 8", len(hw))
	}
	return nil
}

func parseAddr(v any, size int) (netip.Addr, error) {
	if b, ok := octets(v); ok {
		a, ok := netip.AddrFromSlice(b)
		if !ok || len(b) != size {
			return netip.Addr{}, fmt.Errorf("length %d, want %d", len(b), size)
		}
		return a, nil
	}
	s, ok := v.(string)
	if !ok {
		return netip.Addr{}, fmt.Errorf("expected bytes or string, got %T", v)
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if (size == 4) != a.Is4() {
		return netip.Addr{}, fmt.Errorf("%q has the wrong address family", s)
	}
	return a, nil
}

func addrFunc(name string, size int) Func {
	return func(v any) error {
		if _, err := parseAddr(v, size); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// netFunc validates an address/prefix pair, given as a two element array or
// as CIDR text.
func netFunc(name string, size int) Func {
	maxPrefix := int64(size * 8)
	return func(v any) error {
		if s, ok := v.(string); ok {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if (size == 4) != p.Addr().Is4() {
				return fmt.Errorf("%s: %q has the wrong address family", name, s)
			}
			return nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice || rv.Len() != 2 {
			return fmt.Errorf("%s: expected [address, prefix]", name)
		}
		if _, err := parseAddr(rv.Index(0).Interface(), size); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		n, ok := BigInt(rv.Index(1).Interface())
		if !ok || !n.IsInt64() || n.Int64() < 0 || n.Int64() > maxPrefix {
			return fmt.Errorf("%s: prefix must be an integer in 0..%d", name, maxPrefix)
		}
		return nil
	}
}

func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{base64.RawURLEncoding, base64.URLEncoding, base64.StdEncoding, base64.RawStdEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, errors.New("not base64 encoded")
}

// DecodeBinary returns the octets of a Binary value, decoding text with the
// serialization hinted by format ("x"/"X" hex, base64 otherwise).
func DecodeBinary(v any, format string) ([]byte, error) {
	if b, ok := octets(v); ok {
		return b, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected bytes or string, got %T", v)
	}
	if format == "x" || format == "X" {
		return hex.DecodeString(s)
	}
	return decodeBase64(s)
}

func encodedFunc(name string, decode func(string) ([]byte, error)) Func {
	return func(v any) error {
		if _, ok := octets(v); ok {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s: expected bytes or string, got %T", name, v)
		}
		if name == "X" && strings.ToUpper(s) != s || name == "x" && strings.ToLower(s) != s {
			return fmt.Errorf("%s: wrong hex case", name)
		}
		if _, err := decode(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}
