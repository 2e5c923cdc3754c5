package types

// Identical reports whether x and y are identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	return identical(x, y)
}

func identical(x, y Type) bool {
	// Handle named types
	xn, xNamed := x.(*Named)
	yn, yNamed := y.(*Named)
	if xNamed && yNamed {
		// Two named types are identical only if they are the same named type
		return xn.obj == yn.obj
	}
	if xNamed != yNamed {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Pointer:
		if y, ok := y.(*Pointer); ok {
			return Identical(x.base, y.base)
		}
	case *Ref:
		if y, ok := y.(*Ref); ok {
			return Identical(x.base, y.base)
		}
	case *Enum:
		if y, ok := y.(*Enum); ok {
			return identicalEnums(x, y)
		}
	}
	return false
}

func identicalEnums(x, y *Enum) bool {
	if len(x.variants) != len(y.variants) {
		return false
	}
	for i := range x.variants {
		if x.variants[i].Name != y.variants[i].Name {
			return false
		}
		if !Identical(x.variants[i].Payload, y.variants[i].Payload) {
			return false
		}
	}
	return true
}

// under returns the first non-Named type reachable through Named
// underlying links. A Named type whose underlying is not yet set is
// returned unchanged.
func under(t Type) Type {
	for {
		n, ok := t.(*Named)
		if !ok || n.underlying == nil {
			return t
		}
		t = n.underlying
	}
}

// IsPointer reports whether T is a pointer type (*T).
func IsPointer(T Type) bool {
	_, ok := under(T).(*Pointer)
	return ok
}

// IsRef reports whether T is a reference type (ref T).
func IsRef(T Type) bool {
	_, ok := under(T).(*Ref)
	return ok
}

// IsEnum reports whether T is an enum type.
func IsEnum(T Type) bool {
	return AsEnum(T) != nil
}

// AsEnum returns the enum underlying T, or nil.
func AsEnum(T Type) *Enum {
	if T == nil {
		return nil
	}
	e, _ := under(T).(*Enum)
	return e
}

// IsRefCounted reports whether copying a value of type T requires a
// reference count increment: T is a reference, or an enum with at
// least one variant whose payload is reference counted.
func IsRefCounted(T Type) bool {
	return isRefCounted(T, make(map[*Named]bool))
}

func isRefCounted(T Type, seen map[*Named]bool) bool {
	if n, ok := T.(*Named); ok {
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	switch t := under(T).(type) {
	case *Ref:
		return true
	case *Enum:
		for _, v := range t.variants {
			if v.Payload != nil && isRefCounted(v.Payload, seen) {
				return true
			}
		}
	}
	return false
}

// MayContain reports whether destroying a value of type outer may
// release a value of type inner. A reference owns the object it refers
// to; an enum owns its payloads; a raw pointer owns nothing.
func MayContain(outer, inner Type) bool {
	if outer == nil || inner == nil {
		return true
	}
	return mayContain(outer, inner, make(map[*Named]bool))
}

func mayContain(outer, inner Type, seen map[*Named]bool) bool {
	if Identical(outer, inner) {
		return true
	}
	if n, ok := outer.(*Named); ok {
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	switch t := under(outer).(type) {
	case *Ref:
		return mayContain(t.base, inner, seen)
	case *Enum:
		for _, v := range t.variants {
			if v.Payload != nil && mayContain(v.Payload, inner, seen) {
				return true
			}
		}
	case *Named:
		// Underlying not resolved yet.
		return true
	}
	return false
}
