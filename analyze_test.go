package jadn_test

import (
	"reflect"
	"testing"

	"github.com/reoring/jadn"
)

func TestAnalyze_Reachability(t *testing.T) {
	a := load(t, docSchema).Analyze()
	if !reflect.DeepEqual(a.Exports, []string{"Doc"}) {
		t.Fatalf("exports: %v", a.Exports)
	}
	if !reflect.DeepEqual(a.Unreferenced, []string{"Names", "Ptr"}) {
		t.Fatalf("unreferenced: %v", a.Unreferenced)
	}
	if len(a.Undefined) != 0 || len(a.Cycles) != 0 {
		t.Fatalf("unexpected findings: %+v", a)
	}
}

func TestAnalyze_RootsWithoutExports(t *testing.T) {
	a := load(t, `{"types": [
		["Top", "Record", [], "", [[1, "leaf", "Leaf", [], ""]]],
		["Leaf", "String", [], ""],
		["Other", "Integer", [], ""]
	]}`).Analyze()
	if len(a.Unreferenced) != 0 {
		t.Fatalf("types nothing refers to are roots: %v", a.Unreferenced)
	}
}

func TestAnalyze_Cycles(t *testing.T) {
	a := load(t, `{"types": [["Node", "Record", [], "", [
		[1, "next", "Node", ["[0"], ""]
	]]]}`).Analyze()
	if !reflect.DeepEqual(a.Cycles, [][]string{{"Node"}}) {
		t.Fatalf("self cycle: %v", a.Cycles)
	}

	a = load(t, `{"info": {"package": "p", "exports": ["B"]}, "types": [
		["B", "Record", [], "", [[1, "a", "A", ["[0"], ""]]],
		["A", "Choice", [], "", [[1, "b", "B", [], ""], [2, "s", "String", [], ""]]],
		["Z", "ArrayOf", ["*A"], ""]
	]}`).Analyze()
	if !reflect.DeepEqual(a.Cycles, [][]string{{"A", "B"}}) {
		t.Fatalf("mutual cycle: %v", a.Cycles)
	}
	if !reflect.DeepEqual(a.Unreferenced, []string{"Z"}) {
		t.Fatalf("unreferenced: %v", a.Unreferenced)
	}
}

func TestAnalyze_Lenient(t *testing.T) {
	js := `{"types": [["R", "Record", [], "", [
		[1, "m", "Missing", [], ""],
		[2, "x", "ext:Thing", ["[0"], ""]
	]]]}`
	s := load(t, js, jadn.LoadOpt{Lenient: true})
	if a := s.Analyze(); !reflect.DeepEqual(a.Undefined, []string{"Missing"}) {
		t.Fatalf("undefined: %v", a.Undefined)
	}
	wantCodes(t, s.Check(map[string]any{"m": 1}, "R"), jadn.CodeUnresolvedType)
}
