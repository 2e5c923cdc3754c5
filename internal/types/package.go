package types

// Package holds the type declarations of one SSA text file.
type Package struct {
	name  string // file or unit name
	scope *Scope // file-level scope
}

// NewPackage creates a new package with the given name.
func NewPackage(name string) *Package {
	return &Package{
		name:  name,
		scope: NewScope(Universe, NoPos, "package "+name),
	}
}

// Name returns the package name.
func (p *Package) Name() string {
	return p.name
}

// Scope returns the package-level scope.
func (p *Package) Scope() *Scope {
	return p.scope
}

// LookupType resolves a type name in the package scope and its parents.
// It returns nil if the name is unknown or does not denote a type.
func (p *Package) LookupType(name string) Type {
	obj, _ := p.scope.LookupParent(name)
	if tn, ok := obj.(*TypeName); ok {
		return tn.Type()
	}
	return nil
}

// String returns the package name.
func (p *Package) String() string {
	return p.name
}
