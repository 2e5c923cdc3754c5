package passes

import (
	"go.uber.org/zap"

	"github.com/you-not-fish/codemotion/internal/ssa"
)

// sinkArgumentsFromPredecessors removes parameters of b that every
// predecessor feeds with identical single-use values, moving one copy of
// the value into b.
func (cm *CodeMotion) sinkArgumentsFromPredecessors(b *ssa.Block) bool {
	if len(b.Preds) < 2 || !allPredsJumpOnlyTo(b) {
		return false
	}

	changed := false
	for i := 0; i < len(b.Params); {
		if cm.sinkArgument(b, i) {
			changed = true
			continue // parameter i+1 is now parameter i
		}
		i++
	}
	return changed
}

// incomingArg returns the value p passes to parameter i of b.
func incomingArg(p, b *ssa.Block, i int) *ssa.Value {
	term := p.Terminator()
	return term.TargetArgs(term.EdgeTo(b))[i]
}

func (cm *CodeMotion) sinkArgument(b *ssa.Block, i int) bool {
	param := b.Params[i]
	fsi := incomingArg(b.Preds[0], b, i)

	if fsi.Op == ssa.OpParam || !fsi.HasOneUse() || fsi.MayHaveSideEffects() {
		return false
	}
	if fsi.Block == b {
		return false
	}
	for _, a := range fsi.Args {
		if a.Block == b {
			return false
		}
	}

	clones := make([]*ssa.Value, 0, len(b.Preds)-1)
	for _, p := range b.Preds[1:] {
		switch p.Terminator().Op {
		case ssa.OpBr, ssa.OpCondBr:
		default:
			return false
		}
		v := incomingArg(p, b, i)
		if v.Op == ssa.OpParam || !v.HasOneUse() || !v.IsIdenticalTo(fsi) {
			return false
		}
		clones = append(clones, v)
	}

	cm.trace("sink block argument", b, fsi, zap.Stringer("param", param))

	fsi.MoveToFront(b)
	cm.f.ReplaceUses(param, fsi)
	for _, p := range b.Preds {
		term := p.Terminator()
		term.RemoveTargetArg(term.EdgeTo(b), i)
	}
	b.RemoveParam(i)

	for _, c := range clones {
		deleteDeadChain(c)
	}
	cm.Stats.Sunk++
	cm.mutated()
	return true
}

// deleteDeadChain erases v if it is an unused side-effect-free
// instruction, then does the same for the operands that become unused.
// It returns the number of erased instructions.
func deleteDeadChain(v *ssa.Value) int {
	n := 0
	work := []*ssa.Value{v}
	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]

		if v.Block == nil || v.Op == ssa.OpParam || v.IsTerminator() ||
			v.NumUses() > 0 || v.MayHaveSideEffects() {
			continue
		}
		args := append([]*ssa.Value(nil), v.Args...)
		v.Erase()
		n++
		work = append(work, args...)
	}
	return n
}
