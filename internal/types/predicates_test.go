package types

import (
	"testing"

	"github.com/you-not-fish/codemotion/internal/syntax"
)

func optOf(payload Type) *Enum {
	return NewEnum([]Variant{{Name: "some", Payload: payload}, {Name: "none"}})
}

func TestIdentical(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same basic", Typ[Int], Typ[Int], true},
		{"diff basic", Typ[Int], Typ[Float], false},
		{"same ptr", NewPointer(Typ[Int]), NewPointer(Typ[Int]), true},
		{"diff ptr", NewPointer(Typ[Int]), NewPointer(Typ[Float]), false},
		{"same ref", NewRef(Typ[Int]), NewRef(Typ[Int]), true},
		{"diff ref", NewRef(Typ[Int]), NewRef(Typ[Float]), false},
		{"ptr vs ref", NewPointer(Typ[Int]), NewRef(Typ[Int]), false},
		{"same enum", optOf(Typ[Int]), optOf(Typ[Int]), true},
		{"diff enum payload", optOf(Typ[Int]), optOf(Typ[Bool]), false},
		{"diff enum arity", optOf(Typ[Int]), NewEnum([]Variant{{Name: "some", Payload: Typ[Int]}}), false},
		{"nil vs type", nil, Typ[Int], false},
		{"nil vs nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Identical(tt.a, tt.b); got != tt.want {
				t.Errorf("Identical(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIdenticalNamed(t *testing.T) {
	a := NewNamed(NewTypeName(syntax.Pos{}, "A", nil), Typ[Int])
	b := NewNamed(NewTypeName(syntax.Pos{}, "B", nil), Typ[Int])

	if !Identical(a, a) {
		t.Errorf("Identical(A, A) = false")
	}
	if Identical(a, b) {
		t.Errorf("Identical(A, B) = true, want false (different names)")
	}
	if Identical(a, Typ[Int]) {
		t.Errorf("Identical(A, int) = true, want false")
	}
}

func TestRefPredicates(t *testing.T) {
	node := NewNamed(NewTypeName(syntax.Pos{}, "Node", nil), NewRef(Typ[Int]))
	tests := []struct {
		name       string
		typ        Type
		ref        bool
		ptr        bool
		enum       bool
		refCounted bool
	}{
		{"int", Typ[Int], false, false, false, false},
		{"ptr", NewPointer(Typ[Int]), false, true, false, false},
		{"ref", NewRef(Typ[Int]), true, false, false, true},
		{"named ref", node, true, false, false, true},
		{"enum of ref", optOf(node), false, false, true, true},
		{"enum of int", optOf(Typ[Int]), false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRef(tt.typ); got != tt.ref {
				t.Errorf("IsRef = %v, want %v", got, tt.ref)
			}
			if got := IsPointer(tt.typ); got != tt.ptr {
				t.Errorf("IsPointer = %v, want %v", got, tt.ptr)
			}
			if got := IsEnum(tt.typ); got != tt.enum {
				t.Errorf("IsEnum = %v, want %v", got, tt.enum)
			}
			if got := IsRefCounted(tt.typ); got != tt.refCounted {
				t.Errorf("IsRefCounted = %v, want %v", got, tt.refCounted)
			}
		})
	}
}

func TestMayContain(t *testing.T) {
	node := NewRef(Typ[Int])
	leaf := NewRef(Typ[Bool])
	box := NewRef(optOf(node))

	tests := []struct {
		name         string
		outer, inner Type
		want         bool
	}{
		{"identical", node, node, true},
		{"enum owns payload", optOf(node), node, true},
		{"enum of other", optOf(leaf), node, false},
		{"ref owns referent", box, node, true},
		{"pointer owns nothing", NewPointer(node), node, false},
		{"basic", Typ[Int], node, false},
		{"payload does not own enum", node, optOf(node), false},
		{"unknown", nil, node, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MayContain(tt.outer, tt.inner); got != tt.want {
				t.Errorf("MayContain(%v, %v) = %v, want %v", tt.outer, tt.inner, got, tt.want)
			}
		})
	}
}

func TestMayContainRecursive(t *testing.T) {
	tn := NewTypeName(syntax.Pos{}, "List", nil)
	list := NewNamed(tn, nil)
	list.SetUnderlying(NewEnum([]Variant{
		{Name: "cons", Payload: NewRef(list)},
		{Name: "nil"},
	}))

	if MayContain(list, Typ[Int]) {
		t.Errorf("MayContain(List, int) = true, want false")
	}
	if !MayContain(list, NewRef(list)) {
		t.Errorf("MayContain(List, ref List) = false, want true")
	}
}
