package passes

import (
	"github.com/you-not-fish/codemotion/internal/alias"
	"github.com/you-not-fish/codemotion/internal/ssa"
)

// Invalidation says which cached analyses a pass has made stale.
type Invalidation int

const (
	InvalidateNothing Invalidation = iota
	// InvalidateInstructions means instructions were created, moved or
	// erased. Blocks and edges are unchanged.
	InvalidateInstructions
)

// Analyses holds the analyses computed for one function during a
// pipeline run. Passes ask for them lazily and report invalidation.
type Analyses struct {
	f      *ssa.Func
	oracle *alias.Oracle

	invalidations int
}

// NewAnalyses returns an empty analysis cache for f.
func NewAnalyses(f *ssa.Func) *Analyses {
	return &Analyses{f: f}
}

// Func returns the function the analyses describe.
func (am *Analyses) Func() *ssa.Func { return am.f }

// Alias returns the alias oracle for the function.
func (am *Analyses) Alias() *alias.Oracle {
	if am.oracle == nil {
		am.oracle = alias.New()
	}
	return am.oracle
}

// Invalidate drops the analyses made stale by a change of the given kind.
func (am *Analyses) Invalidate(kind Invalidation) {
	if kind == InvalidateNothing {
		return
	}
	am.invalidations++
	if am.oracle != nil {
		am.oracle.Invalidate()
	}
}

// Invalidations returns how many times analyses have been invalidated.
func (am *Analyses) Invalidations() int {
	return am.invalidations
}
