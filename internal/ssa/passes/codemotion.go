package passes

import (
	"go.uber.org/zap"

	"github.com/you-not-fish/codemotion/internal/alias"
	"github.com/you-not-fish/codemotion/internal/ssa"
)

// SinkSearchWindow is the default number of instructions a sinker
// steps over in one block before giving up.
const SinkSearchWindow = 6

// CodeMotion sinks instructions toward the blocks that need them:
//
//   - identical instructions at the tail of every predecessor of a block
//     are replaced by one copy at the top of the block;
//   - a block parameter that every predecessor feeds with an identical
//     single-use value is replaced by one copy of that value;
//   - reference count increments before a branch are moved into the
//     successors, onto the payload for enum dispatch.
//
// Run does one sweep over the blocks; it does not iterate to a fixed point.
type CodeMotion struct {
	// Window is the scan budget per block; 0 means SinkSearchWindow.
	Window int

	// Alias answers reference count queries. If nil, the oracle of
	// Analyses (or a fresh one) is used.
	Alias alias.Analysis

	// Analyses, if set, is told when instructions have changed.
	Analyses *Analyses

	// Stats accumulates across calls to Run.
	Stats Stats

	f *ssa.Func
}

// CodeMotionPass returns the "codemotion" pipeline pass.
func CodeMotionPass(opts Options) Pass {
	return Pass{
		Name: "codemotion",
		Fn: func(f *ssa.Func, am *Analyses) bool {
			cm := &CodeMotion{Window: opts.Window, Analyses: am}
			changed := cm.Run(f)
			if opts.Stats != nil {
				opts.Stats.Add(cm.Stats)
			}
			return changed
		},
	}
}

// Run sinks what it can in f and reports whether f changed.
func (cm *CodeMotion) Run(f *ssa.Func) bool {
	if cm.Window <= 0 {
		cm.Window = SinkSearchWindow
	}
	if cm.Alias == nil {
		if cm.Analyses != nil {
			cm.Alias = cm.Analyses.Alias()
		} else {
			cm.Alias = alias.New()
		}
	}
	cm.f = f

	Logger().Debug("code motion", zap.String("func", f.Name), zap.Int("window", cm.Window))

	changed := false
	for _, b := range f.Blocks {
		if cm.sinkCodeFromPredecessors(b) {
			changed = true
		}
		if cm.sinkArgumentsFromPredecessors(b) {
			changed = true
		}
		if cm.sinkRetainToSuccessors(b) {
			changed = true
		}
	}

	if changed && cm.Analyses != nil {
		cm.Analyses.Invalidate(InvalidateInstructions)
	}
	return changed
}

// mutated drops cached alias answers after an in-place rewrite.
func (cm *CodeMotion) mutated() {
	if inv, ok := cm.Alias.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
}

func (cm *CodeMotion) trace(msg string, b *ssa.Block, v *ssa.Value, fields ...zap.Field) {
	if ce := Logger().Check(zap.DebugLevel, msg); ce != nil {
		fields = append(fields,
			zap.String("func", cm.f.Name),
			zap.Stringer("block", b),
			zap.String("inst", v.LongString()))
		ce.Write(fields...)
	}
}

// canSink reports whether v may be moved to another block: nothing uses
// its result and it does not end its block.
func canSink(v *ssa.Value) bool {
	return v.NumUses() == 0 && !v.IsTerminator()
}

// isBarrier reports whether other instructions may not be moved past v.
func isBarrier(v *ssa.Value) bool {
	if v.IsTerminator() {
		return false
	}
	return v.MayHaveSideEffects()
}

// definedIn reports whether an operand of v other than a parameter is
// defined in b. Such a v cannot move to the top of b.
func definedIn(v *ssa.Value, b *ssa.Block) bool {
	for _, a := range v.Args {
		if a.Block == b && a.Op != ssa.OpParam {
			return true
		}
	}
	return false
}

// allPredsJumpOnlyTo reports whether b is the only successor of each of
// its predecessors.
func allPredsJumpOnlyTo(b *ssa.Block) bool {
	for _, p := range b.Preds {
		if p.SingleSucc() != b {
			return false
		}
	}
	return true
}
