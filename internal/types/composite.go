package types

import "strings"

// Pointer represents a raw pointer type *T.
// Pointers are not reference counted.
type Pointer struct {
	typ
	base Type
}

// NewPointer creates a new pointer type.
func NewPointer(base Type) *Pointer {
	return &Pointer{base: base}
}

// Elem returns the base type that the pointer points to.
func (p *Pointer) Elem() Type {
	return p.base
}

// Underlying implements Type.
func (p *Pointer) Underlying() Type {
	return p
}

// String implements Type.
func (p *Pointer) String() string {
	return "*" + p.base.String()
}

// Ref represents a reference-counted heap reference ref T.
// Retain and Release operate on values of this type.
type Ref struct {
	typ
	base Type
}

// NewRef creates a new reference type.
func NewRef(base Type) *Ref {
	return &Ref{base: base}
}

// Elem returns the base type that the reference points to.
func (r *Ref) Elem() Type {
	return r.base
}

// Underlying implements Type.
func (r *Ref) Underlying() Type {
	return r
}

// String implements Type.
func (r *Ref) String() string {
	return "ref " + r.base.String()
}

// Variant is one case of an Enum.
type Variant struct {
	Name    string
	Payload Type // nil if the case carries no payload
}

// Enum represents a sum type: a tag selecting one of an ordered list
// of variants, each optionally carrying a payload.
type Enum struct {
	typ
	variants []Variant
}

// NewEnum creates a new enum type with the given variants.
func NewEnum(variants []Variant) *Enum {
	return &Enum{variants: variants}
}

// NumVariants returns the number of variants.
func (e *Enum) NumVariants() int {
	return len(e.variants)
}

// Variant returns the variant at index i.
func (e *Enum) Variant(i int) Variant {
	return e.variants[i]
}

// Variants returns all variants.
func (e *Enum) Variants() []Variant {
	return e.variants
}

// VariantIndex returns the index of the variant with the given name,
// or -1 if there is none.
func (e *Enum) VariantIndex(name string) int {
	for i, v := range e.variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// Underlying implements Type.
func (e *Enum) Underlying() Type {
	return e
}

// String implements Type.
func (e *Enum) String() string {
	var buf strings.Builder
	buf.WriteString("enum { ")
	for i, v := range e.variants {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(v.Name)
		if v.Payload != nil {
			buf.WriteString("(")
			buf.WriteString(v.Payload.String())
			buf.WriteString(")")
		}
	}
	buf.WriteString(" }")
	return buf.String()
}
