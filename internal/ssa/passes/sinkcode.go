package passes

import (
	"go.uber.org/zap"

	"github.com/you-not-fish/codemotion/internal/ssa"
)

// sinkCodeFromPredecessors moves instructions duplicated at the tail of
// every predecessor of b into b. Each predecessor must have b as its only
// successor, so nothing else observes the tails.
func (cm *CodeMotion) sinkCodeFromPredecessors(b *ssa.Block) bool {
	if len(b.Preds) < 2 || !allPredsJumpOnlyTo(b) {
		return false
	}
	first := b.Preds[0]
	if len(first.Values) < 2 {
		return false
	}

	changed := false
	budget := cm.Window

	// The cursor is an index into first.Values; it is recomputed from
	// the terminator after every move.
	i := len(first.Values) - 1
	for budget > 0 {
		inst := first.Values[i]

		if canSink(inst) && !definedIn(inst, b) {
			if dups := cm.findDuplicates(b, inst); dups != nil {
				cm.trace("sink duplicated instruction", b, inst, zap.Int("copies", len(dups)))
				inst.MoveToFront(b)
				for _, d := range dups {
					cm.f.ReplaceUses(d, inst)
					d.Erase()
					cm.Stats.Sunk++
				}
				cm.mutated()
				changed = true

				i = len(first.Values) - 1
				continue
			}
		}

		if isBarrier(inst) {
			cm.trace("stop at barrier", first, inst)
			break
		}
		if i == 0 {
			break
		}
		budget--
		i--
	}
	return changed
}

// findDuplicates returns, for every predecessor of b but the first, an
// instruction identical to inst, or nil if some predecessor has none.
func (cm *CodeMotion) findDuplicates(b *ssa.Block, inst *ssa.Value) []*ssa.Value {
	dups := make([]*ssa.Value, 0, len(b.Preds)-1)
	for _, p := range b.Preds[1:] {
		d := cm.findIdenticalInBlock(p, inst)
		if d == nil {
			return nil
		}
		dups = append(dups, d)
	}
	return dups
}

// findIdenticalInBlock scans p backward from its terminator for a
// sinkable instruction identical to inst, stopping at barriers.
func (cm *CodeMotion) findIdenticalInBlock(p *ssa.Block, inst *ssa.Value) *ssa.Value {
	budget := cm.Window
	for i := len(p.Values) - 1; i >= 0 && budget > 0; i-- {
		v := p.Values[i]
		if v != inst && canSink(v) && inst.IsIdenticalTo(v) {
			return v
		}
		if isBarrier(v) {
			return nil
		}
		budget--
	}
	return nil
}
