package types

import (
	"testing"

	"github.com/you-not-fish/codemotion/internal/syntax"
)

func TestBasicTypes(t *testing.T) {
	tests := []struct {
		kind BasicKind
		name string
		info BasicInfo
	}{
		{Bool, "bool", IsBoolean},
		{Int, "int", IsInteger},
		{Float, "float", IsFloat},
		{String, "string", IsString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := Typ[tt.kind]
			if typ == nil {
				t.Fatalf("Typ[%d] is nil", tt.kind)
			}
			if typ.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", typ.Kind(), tt.kind)
			}
			if typ.Info() != tt.info {
				t.Errorf("Info() = %v, want %v", typ.Info(), tt.info)
			}
			if typ.String() != tt.name {
				t.Errorf("String() = %q, want %q", typ.String(), tt.name)
			}
			if typ.Underlying() != typ {
				t.Errorf("Underlying() != self")
			}
		})
	}
}

func TestPointerAndRefTypes(t *testing.T) {
	ptr := NewPointer(Typ[Int])
	if ptr.Elem() != Typ[Int] || ptr.String() != "*int" {
		t.Errorf("pointer = %s, want *int", ptr)
	}

	ref := NewRef(Typ[Int])
	if ref.Elem() != Typ[Int] || ref.String() != "ref int" {
		t.Errorf("ref = %s, want ref int", ref)
	}
}

func TestEnumType(t *testing.T) {
	node := NewRef(Typ[Int])
	e := NewEnum([]Variant{{Name: "some", Payload: node}, {Name: "none"}})

	if e.NumVariants() != 2 {
		t.Fatalf("NumVariants() = %d, want 2", e.NumVariants())
	}
	if e.Variant(0).Payload != node {
		t.Errorf("Variant(0).Payload = %v, want %v", e.Variant(0).Payload, node)
	}
	if e.Variant(1).Payload != nil {
		t.Errorf("Variant(1).Payload = %v, want nil", e.Variant(1).Payload)
	}
	if got := e.VariantIndex("none"); got != 1 {
		t.Errorf("VariantIndex(none) = %d, want 1", got)
	}
	if got := e.VariantIndex("other"); got != -1 {
		t.Errorf("VariantIndex(other) = %d, want -1", got)
	}
	if want := "enum { some(ref int), none }"; e.String() != want {
		t.Errorf("String() = %q, want %q", e.String(), want)
	}
}

func TestNamedType(t *testing.T) {
	tn := NewTypeName(syntax.Pos{}, "List", nil)
	list := NewNamed(tn, nil)
	list.SetUnderlying(NewEnum([]Variant{
		{Name: "cons", Payload: NewRef(list)},
		{Name: "nil"},
	}))

	if tn.Type() != list {
		t.Errorf("TypeName.Type() != named type")
	}
	if list.String() != "List" {
		t.Errorf("String() = %q, want List", list.String())
	}
	if !IsEnum(list) {
		t.Errorf("IsEnum(List) = false, want true")
	}
	if !IsRefCounted(list) {
		t.Errorf("IsRefCounted(List) = false, want true")
	}
}
