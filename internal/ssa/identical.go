package ssa

import "github.com/you-not-fish/codemotion/internal/types"

// IsIdenticalTo reports whether v and w compute the same thing: same op,
// identical result type, equal auxiliary data, the same operands and the
// same edges. Positions are not compared. Two distinct block parameters
// are never identical.
func (v *Value) IsIdenticalTo(w *Value) bool {
	if v == w {
		return true
	}
	if v.Op != w.Op || v.Op == OpParam {
		return false
	}
	if v.AuxInt != w.AuxInt || len(v.Args) != len(w.Args) || len(v.Targets) != len(w.Targets) {
		return false
	}
	if !types.Identical(v.Type, w.Type) || !auxEqual(v.Aux, w.Aux) {
		return false
	}
	for i, a := range v.Args {
		if a != w.Args[i] {
			return false
		}
	}
	for i, t := range v.Targets {
		if t != w.Targets[i] {
			return false
		}
	}
	return true
}

func auxEqual(a, b interface{}) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *CaptureInfo:
		b, ok := b.(*CaptureInfo)
		return ok && a.Equal(b)
	case types.Type:
		b, ok := b.(types.Type)
		return ok && types.Identical(a, b)
	}
	return a == b
}
