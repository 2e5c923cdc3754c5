package ssa

import (
	"fmt"

	"github.com/you-not-fish/codemotion/internal/syntax"
	"github.com/you-not-fish/codemotion/internal/types"
)

// ID is a unique identifier for Values and Blocks within a Func.
// IDs are never reused, so they can index side tables.
type ID int32

// Value is an instruction or a block parameter.
// Each Value has exactly one definition and may be used by other Values.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// Type is the result type of this value.
	// Nil for void operations (Store, Retain, terminators).
	Type types.Type

	// Args are the operands of this operation. Modify them only through
	// AddArg, SetArg and RemoveArg so that the use lists stay current.
	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	// AuxInt holds an auxiliary integer (constant value, case index, param index).
	AuxInt int64

	// Aux holds arbitrary auxiliary data (string constant, callee name, *CaptureInfo).
	Aux interface{}

	// Targets lists the outgoing edges of a terminator, in successor order.
	// Block arguments for the edges follow the controls in Args.
	Targets []Target

	// Pos is the source position associated with this value.
	// It is debug information only and never affects semantics.
	Pos syntax.Pos
}

// Target is one outgoing edge of a terminator.
type Target struct {
	Block *Block
	Case  int // SwitchTag arm: variant index, or -1 for the default arm
	NArgs int // number of block arguments passed along this edge
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns a detailed string representation including op, type, and args.
func (v *Value) LongString() string {
	return formatValue(v)
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}

// IsTerminator reports whether v ends its block.
func (v *Value) IsTerminator() bool {
	return v.Op.IsTerminator()
}

// MayHaveSideEffects reports whether executing v may be observed other
// than through its result. Builtins are side-effect free only when the
// builtin table says so; unknown builtins are assumed to have effects.
func (v *Value) MayHaveSideEffects() bool {
	if v.Op == OpBuiltin {
		name, _ := v.Aux.(string)
		b := types.LookupBuiltin(name)
		return b == nil || !b.Pure()
	}
	return !v.Op.IsPure()
}

// NumControls returns the number of operands of a terminator that are
// not block arguments.
func (v *Value) NumControls() int {
	if n := v.Op.numControls(); n >= 0 {
		return n
	}
	return len(v.Args)
}

// targetArgStart returns the index in Args of the first argument
// passed along edge t.
func (v *Value) targetArgStart(t int) int {
	i := v.NumControls()
	for k := 0; k < t; k++ {
		i += v.Targets[k].NArgs
	}
	return i
}

// TargetArgs returns the block arguments passed along edge t.
func (v *Value) TargetArgs(t int) []*Value {
	start := v.targetArgStart(t)
	return v.Args[start : start+v.Targets[t].NArgs]
}

// EdgeTo returns the index of the first edge of v leading to b, or -1.
func (v *Value) EdgeTo(b *Block) int {
	for i, t := range v.Targets {
		if t.Block == b {
			return i
		}
	}
	return -1
}

// Func returns the function that owns v, or nil if v has been erased.
func (v *Value) Func() *Func {
	if v.Block == nil {
		return nil
	}
	return v.Block.Func
}
