package passes

import (
	"go.uber.org/zap"

	"github.com/you-not-fish/codemotion/internal/ssa"
	"github.com/you-not-fish/codemotion/internal/types"
)

// sinkRetainToSuccessors moves reference count increments of b across
// its branch into the successors. Every successor must have b as its
// only predecessor, so each path still performs the increment once.
func (cm *CodeMotion) sinkRetainToSuccessors(b *ssa.Block) bool {
	term := b.Terminator()
	if term == nil || (term.Op != ssa.OpCondBr && term.Op != ssa.OpSwitchTag) {
		return false
	}
	for _, s := range b.Succs {
		if s.SinglePred() != b || s == b {
			return false
		}
	}

	changed := false
	// Erasing Values[i] does not move Values[:i].
	for i := len(b.Values) - 2; i >= 0; i-- {
		if cm.tryToSinkRefCount(term, i) {
			changed = true
		}
	}
	return changed
}

// tryToSinkRefCount sinks b.Values[i] across term if it is an increment
// that nothing between it and term may undo.
func (cm *CodeMotion) tryToSinkRefCount(term *ssa.Value, i int) bool {
	b := term.Block
	inst := b.Values[i]
	if inst.Op.RC() != ssa.RCIncrement {
		return false
	}
	ptr := inst.Args[0]
	if ptr.Op == ssa.OpEnumPayload {
		return false
	}

	for _, v := range b.Values[i+1 : len(b.Values)-1] {
		if cm.Alias.MayDecrement(v, ptr) {
			cm.trace("increment blocked", b, inst, zap.String("by", v.LongString()))
			return false
		}
	}

	cm.trace("sink increment", b, inst, zap.Stringer("terminator", term.Op))

	if term.Op == ssa.OpSwitchTag && term.Args[0] == ptr {
		e := types.AsEnum(ptr.Type)
		for _, t := range term.Targets {
			if t.Case < 0 {
				cm.f.NewValueAtFront(t.Block, inst.Op, nil, ptr)
				continue
			}
			cm.retainPayload(t.Block, ptr, e, t.Case)
		}
	} else {
		for _, s := range b.Succs {
			cm.f.NewValueAtFront(s, inst.Op, nil, ptr)
		}
	}

	inst.Erase()
	cm.Stats.Sunk++
	cm.mutated()
	return true
}

// retainPayload emits an increment of the payload of case c of scrut at
// the top of s. Cases without a payload need none.
func (cm *CodeMotion) retainPayload(s *ssa.Block, scrut *ssa.Value, e *types.Enum, c int) {
	payload := e.Variant(c).Payload
	if payload == nil {
		return
	}
	p := cm.f.NewValueAtFront(s, ssa.OpEnumPayload, payload, scrut)
	p.AuxInt = int64(c)
	cm.f.NewValueBefore(s.Values[1], ssa.OpRetainValue, nil, p)
}
