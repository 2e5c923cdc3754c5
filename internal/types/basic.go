package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type

	Bool
	Int
	Float
	String
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	IsBoolean BasicInfo = 1 << iota
	IsInteger
	IsFloat
	IsString
	IsNumeric = IsInteger | IsFloat
)

// Basic represents a basic type: bool, int, float, string.
// Values of basic type are trivial: they carry no reference count.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// Underlying implements Type.
func (b *Basic) Underlying() Type {
	return b
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
// Typ[Invalid] is nil, representing an invalid type.
var Typ = []*Basic{
	Invalid: nil,
	Bool:    {kind: Bool, info: IsBoolean, name: "bool"},
	Int:     {kind: Int, info: IsInteger, name: "int"},
	Float:   {kind: Float, info: IsFloat, name: "float"},
	String:  {kind: String, info: IsString, name: "string"},
}
