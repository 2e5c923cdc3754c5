package passes

import (
	"go.uber.org/zap"

	"github.com/you-not-fish/codemotion/internal/ssa"
)

// DeadCode erases unused side-effect-free instructions of f, including
// chains that become unused, and returns how many it erased.
func DeadCode(f *ssa.Func) int {
	n := 0
	for _, b := range f.Blocks {
		for i := len(b.Values) - 1; i >= 0; i-- {
			if i >= len(b.Values) {
				// Operands erased by a chain may have shortened b.
				continue
			}
			n += deleteDeadChain(b.Values[i])
		}
	}
	if n > 0 {
		Logger().Debug("dead code removed", zap.String("func", f.Name), zap.Int("count", n))
	}
	return n
}

// DeadCodePass returns the "dce" pipeline pass.
func DeadCodePass(opts Options) Pass {
	return Pass{
		Name: "dce",
		Fn: func(f *ssa.Func, am *Analyses) bool {
			n := DeadCode(f)
			if opts.Stats != nil {
				opts.Stats.Removed += n
			}
			if n > 0 {
				am.Invalidate(InvalidateInstructions)
			}
			return n > 0
		},
	}
}
