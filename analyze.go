package jadn

import "sort"

// Analysis summarizes the reference graph of a schema.
type Analysis struct {
	Exports      []string
	Unreferenced []string // declared types not reachable from any root
	Undefined    []string // referenced names that are neither declared nor builtin
	Cycles       [][]string
}

// Dependencies maps every declared type to the declared or unknown types it
// refers to.
func (s *Schema) Dependencies() map[string][]string {
	out := make(map[string][]string, len(s.order))
	for _, name := range s.order {
		out[name] = s.types[name].Dependencies()
	}
	return out
}

// Analyze walks the reference graph from the exports (or, when nothing is
// exported, from every type no other type refers to). Cycles lists the
// strongly connected components of recursive types, self references
// included. Cycles are informational; validation bounds recursion by depth.
func (s *Schema) Analyze() Analysis {
	deps := s.Dependencies()
	a := Analysis{Exports: append([]string(nil), s.Info.Exports...)}

	referenced := map[string]bool{}
	undefined := map[string]bool{}
	for _, name := range s.order {
		for _, dep := range deps[name] {
			referenced[dep] = true
			if _, ok := s.types[dep]; !ok && !isExternal(dep) {
				undefined[dep] = true
			}
		}
	}
	roots := a.Exports
	if len(roots) == 0 {
		for _, name := range s.order {
			if !referenced[name] {
				roots = append(roots, name)
			}
		}
	}

	reached := map[string]bool{}
	stack := append([]string(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[n] {
			continue
		}
		reached[n] = true
		stack = append(stack, deps[n]...)
	}
	for _, name := range s.order {
		if !reached[name] {
			a.Unreferenced = append(a.Unreferenced, name)
		}
	}
	for n := range undefined {
		a.Undefined = append(a.Undefined, n)
	}
	sort.Strings(a.Undefined)
	a.Cycles = s.cycles(deps)
	return a
}

// cycles runs Tarjan's algorithm over the declared types.
func (s *Schema) cycles(deps map[string][]string) [][]string {
	var (
		index   = map[string]int{}
		low     = map[string]int{}
		onStack = map[string]bool{}
		stack   []string
		next    int
		out     [][]string
	)
	var visit func(n string)
	visit = func(n string) {
		index[n], low[n] = next, next
		next++
		stack = append(stack, n)
		onStack[n] = true
		for _, m := range deps[n] {
			if _, ok := s.types[m]; !ok {
				continue
			}
			if _, seen := index[m]; !seen {
				visit(m)
				low[n] = min(low[n], low[m])
			} else if onStack[m] {
				low[n] = min(low[n], index[m])
			}
		}
		if low[n] != index[n] {
			return
		}
		var comp []string
		for {
			m := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[m] = false
			comp = append(comp, m)
			if m == n {
				break
			}
		}
		if len(comp) > 1 || s.selfReferent(n) {
			sort.Strings(comp)
			out = append(out, comp)
		}
	}
	for _, name := range s.order {
		if _, seen := index[name]; !seen {
			visit(name)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func (s *Schema) selfReferent(name string) bool {
	for _, ref := range s.types[name].References() {
		if n, _ := splitRef(ref); n == name {
			return true
		}
	}
	return false
}
