package jadn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/jadn/i18n"
)

// pathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
type pathRef struct {
	parts []string
}

func rootPath() pathRef { return pathRef{} }

func (p pathRef) Field(name string) pathRef {
	if name == "" {
		return p
	}
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p pathRef) Index(i int) pathRef {
	return pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue at this path. kv is a flat list of parameter
// key/value pairs that also feeds the translated message.
func (p pathRef) Issue(typ, code string, kv ...any) Issue {
	params := map[string]any{}
	data := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		k := fmt.Sprint(kv[i])
		params[k] = kv[i+1]
		data[k] = fmt.Sprint(kv[i+1])
	}
	return Issue{Path: p.Pointer(), Code: code, Type: typ, Message: i18n.T(code, data), Params: params}
}

// prefixPath re-roots an issue path under name.
func prefixPath(name, ptr string) string {
	p := rootPath().Field(name).Pointer()
	if ptr == "/" || ptr == "" {
		return p
	}
	return p + ptr
}
