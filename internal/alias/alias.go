// Package alias answers reference counting queries for the code motion
// passes: may an instruction release a reference reachable from a value?
//
// Reference counts change only through explicit Release/ReleaseValue
// instructions and through calls, whose callees are opaque. The oracle
// combines that with a type-based and allocation-based alias test.
package alias

import (
	"github.com/you-not-fish/codemotion/internal/ssa"
	"github.com/you-not-fish/codemotion/internal/types"
)

// Analysis is the query interface consumed by the sinking passes.
type Analysis interface {
	// MayDecrement reports whether executing inst may decrement the
	// reference count of an object reachable from ptr.
	MayDecrement(inst, ptr *ssa.Value) bool
}

// Oracle is the default Analysis. Answers are cached per function until
// Invalidate is called.
type Oracle struct {
	f     *ssa.Func
	cache map[[2]ssa.ID]bool

	hits, misses int
}

// New returns an empty Oracle.
func New() *Oracle {
	return &Oracle{}
}

// Invalidate drops every cached answer. Call it after instructions have
// been created, moved or erased.
func (o *Oracle) Invalidate() {
	o.f = nil
	o.cache = nil
}

// CacheStats returns the number of cached and computed answers since
// the oracle was created.
func (o *Oracle) CacheStats() (hits, misses int) {
	return o.hits, o.misses
}

// MayDecrement implements Analysis.
func (o *Oracle) MayDecrement(inst, ptr *ssa.Value) bool {
	if f := inst.Func(); f != o.f || o.cache == nil {
		o.f = f
		o.cache = make(map[[2]ssa.ID]bool)
	}
	key := [2]ssa.ID{inst.ID, ptr.ID}
	if r, ok := o.cache[key]; ok {
		o.hits++
		return r
	}
	o.misses++
	r := mayDecrement(inst, ptr)
	o.cache[key] = r
	return r
}

func mayDecrement(inst, ptr *ssa.Value) bool {
	switch inst.Op.RC() {
	case ssa.RCIncrement:
		return false
	case ssa.RCDecrement:
		return MayAlias(inst.Args[0], ptr)
	}

	switch inst.Op {
	case ssa.OpCall:
		// The callee may release anything it can reach.
		return true
	case ssa.OpBuiltin:
		return inst.MayHaveSideEffects()
	}
	return false
}

// MayAlias reports whether releasing a may release an object that is
// also reachable from b.
func MayAlias(a, b *ssa.Value) bool {
	if a == b {
		return true
	}
	if a.Type != nil && b.Type != nil &&
		!types.MayContain(a.Type, b.Type) && !types.MayContain(b.Type, a.Type) {
		return false
	}
	if a.Op == ssa.OpAlloc && b.Op == ssa.OpAlloc {
		return false
	}
	// A fresh allocation is not reachable from the function's arguments.
	if a.Op == ssa.OpAlloc && isArgument(b) || b.Op == ssa.OpAlloc && isArgument(a) {
		return false
	}
	return true
}

func isArgument(v *ssa.Value) bool {
	return v.Op == ssa.OpParam && v.Block == v.Block.Func.Entry
}
