package types

import "github.com/you-not-fish/codemotion/internal/syntax"

// Object represents a declared entity: a type name or a builtin.
type Object interface {
	Name() string    // object name
	Type() Type      // object type (nil for builtins)
	Pos() syntax.Pos // declaration position
	Parent() *Scope  // enclosing scope

	setParent(*Scope) // internal: set parent scope
	aObject()         // marker method to restrict implementations
}

// object is the base struct for all objects.
type object struct {
	name   string
	typ    Type
	pos    syntax.Pos
	parent *Scope
}

func (o *object) Name() string       { return o.name }
func (o *object) Type() Type         { return o.typ }
func (o *object) Pos() syntax.Pos    { return o.pos }
func (o *object) Parent() *Scope     { return o.parent }
func (o *object) setParent(s *Scope) { o.parent = s }
func (*object) aObject()             {}

// TypeName represents a declared type name.
type TypeName struct {
	object
}

// NewTypeName creates a new type name object.
func NewTypeName(pos syntax.Pos, name string, typ Type) *TypeName {
	return &TypeName{object: object{name: name, typ: typ, pos: pos}}
}

// SetType sets the type associated with the type name.
func (t *TypeName) SetType(typ Type) {
	t.typ = typ
}

// Builtin represents a primitive operation invoked by the Builtin op.
type Builtin struct {
	object
	pure bool
}

// NewBuiltin creates a new builtin object.
// A pure builtin neither reads nor writes memory and never traps.
func NewBuiltin(name string, pure bool) *Builtin {
	return &Builtin{object: object{name: name}, pure: pure}
}

// Pure reports whether calls to the builtin are free of side effects.
func (b *Builtin) Pure() bool {
	return b.pure
}
