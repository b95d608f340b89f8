// Package format holds the semantic format validators consulted by JADN
// Definitions that carry the "/" (format) option.
package format

import (
	"regexp"
	"sort"
	"strconv"
	"sync"
)

// Func validates a single value. It returns nil when the value conforms and
// a single error describing the violation otherwise.
type Func func(v any) error

// Registry maps format names onto validators. Reads are safe for concurrent
// use; Register takes a write lock.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Func
}

// New returns an empty registry.
func New() *Registry { return &Registry{m: map[string]Func{}} }

// Default returns a new registry holding every builtin validator.
func Default() *Registry {
	r := New()
	for name, fn := range builtins() {
		r.m[name] = fn
	}
	return r
}

// Register adds or replaces a validator; nil fn removes the name.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.m, name)
		return
	}
	r.m[name] = fn
}

// Lookup returns the validator for name. Unsigned formats (u<n>) are
// synthesized on demand.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	fn, ok := r.m[name]
	r.mu.RUnlock()
	if ok {
		return fn, true
	}
	if bits, ok := Unsigned(name); ok {
		return unsignedFunc(bits), true
	}
	return nil, false
}

// Known reports whether name resolves to a validator.
func (r *Registry) Known(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names lists registered names in sorted order (dynamic u<n> excluded).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var unsignedRe = regexp.MustCompile(`^u(\d+)$`)

// Unsigned parses a u<n> format name and returns n.
func Unsigned(name string) (int, bool) {
	m := unsignedRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
