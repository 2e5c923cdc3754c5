package ssa

import "fmt"

// Block represents a basic block in the control flow graph.
// A block takes parameters in place of phi functions, holds an ordered
// list of instructions, and ends with exactly one terminator, which is
// the last entry of Values.
type Block struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Params are the block parameters (OpParam values), bound on entry
	// to the arguments passed along the incoming edge.
	Params []*Value

	// Values is the ordered list of instructions in this block,
	// ending with the terminator.
	Values []*Value

	// Succs lists the successor blocks in terminator target order.
	Succs []*Block

	// Preds lists the predecessor blocks in edge creation order.
	// Preds[0] is the first predecessor.
	Preds []*Block

	// Func is the function containing this block.
	Func *Func

	// Dominance tree fields (populated by ComputeDom).
	Idom     *Block   // immediate dominator
	Dominees []*Block // blocks dominated by this block
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// AddSucc adds a successor block, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// Terminator returns the block's terminator, or nil if the block is not
// yet sealed.
func (b *Block) Terminator() *Value {
	if n := len(b.Values); n > 0 && b.Values[n-1].IsTerminator() {
		return b.Values[n-1]
	}
	return nil
}

// SinglePred returns the only predecessor of b, or nil.
func (b *Block) SinglePred() *Block {
	if len(b.Preds) == 1 {
		return b.Preds[0]
	}
	return nil
}

// SingleSucc returns the only successor of b, or nil.
func (b *Block) SingleSucc() *Block {
	if len(b.Succs) == 1 {
		return b.Succs[0]
	}
	return nil
}

// NumSuccs returns the number of successor blocks.
func (b *Block) NumSuccs() int { return len(b.Succs) }

// NumPreds returns the number of predecessor blocks.
func (b *Block) NumPreds() int { return len(b.Preds) }

// NumValues returns the number of values in this block.
func (b *Block) NumValues() int { return len(b.Values) }

// Index returns the position of v in b.Values, or -1.
func (b *Block) Index(v *Value) int {
	for i, x := range b.Values {
		if x == v {
			return i
		}
	}
	return -1
}

// insertAt inserts v into b.Values at position i.
func (b *Block) insertAt(i int, v *Value) {
	b.Values = append(b.Values, nil)
	copy(b.Values[i+1:], b.Values[i:])
	b.Values[i] = v
	v.Block = b
}

// removeValue removes v from b.Values. v.Block is left unchanged.
func (b *Block) removeValue(v *Value) {
	i := b.Index(v)
	if i < 0 {
		b.Func.Fatalf("%s is not in %s", v, b)
	}
	copy(b.Values[i:], b.Values[i+1:])
	b.Values[len(b.Values)-1] = nil
	b.Values = b.Values[:len(b.Values)-1]
}
