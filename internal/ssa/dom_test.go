package ssa

import (
	"testing"

	"github.com/you-not-fish/codemotion/internal/types"
)

var boolType = types.Typ[types.Bool]

// cond adds a bool parameter to the entry block for use as a branch condition.
func cond(f *Func) *Value {
	return f.NewParam(f.Entry, boolType)
}

// TestDomSingleBlock verifies that a single-block function has Idom=nil.
func TestDomSingleBlock(t *testing.T) {
	f := NewFunc("f")
	f.NewReturn(f.Entry)

	ComputeDom(f)

	if f.Entry.Idom != nil {
		t.Errorf("entry Idom = %v, want nil", f.Entry.Idom)
	}
	if len(f.Entry.Dominees) != 0 {
		t.Errorf("entry Dominees = %d, want 0", len(f.Entry.Dominees))
	}
}

// TestDomLinearChain verifies: b0 → b1 → b2
func TestDomLinearChain(t *testing.T) {
	f := NewFunc("f")
	b0 := f.Entry
	b1 := f.NewBlock()
	b2 := f.NewBlock()

	f.NewBr(b0, b1)
	f.NewBr(b1, b2)
	f.NewReturn(b2)

	ComputeDom(f)

	if b0.Idom != nil {
		t.Errorf("b0.Idom = %v, want nil", b0.Idom)
	}
	if b1.Idom != b0 {
		t.Errorf("b1.Idom = %v, want %v", b1.Idom, b0)
	}
	if b2.Idom != b1 {
		t.Errorf("b2.Idom = %v, want %v", b2.Idom, b1)
	}
}

// TestDomDiamond verifies:
//
//	  b0
//	 /  \
//	b1  b2
//	 \  /
//	  b3
func TestDomDiamond(t *testing.T) {
	f := NewFunc("f")
	c := cond(f)
	b0 := f.Entry
	b1 := f.NewBlock()
	b2 := f.NewBlock()
	b3 := f.NewBlock()

	f.NewCondBr(b0, c, b1, nil, b2, nil)
	f.NewBr(b1, b3)
	f.NewBr(b2, b3)
	f.NewReturn(b3)

	ComputeDom(f)

	for _, b := range []*Block{b1, b2, b3} {
		if b.Idom != b0 {
			t.Errorf("%s.Idom = %v, want %v", b, b.Idom, b0)
		}
	}
	if len(b0.Dominees) != 3 {
		t.Errorf("b0 has %d dominees, want 3", len(b0.Dominees))
	}
	if !Dominates(b0, b3) {
		t.Errorf("b0 should dominate b3")
	}
	if Dominates(b1, b3) {
		t.Errorf("b1 should not dominate b3")
	}
	if !Dominates(b3, b3) {
		t.Errorf("a block should dominate itself")
	}
}

// TestDomLoop verifies: b0 → b1 ⇄ b2, b1 → b3
func TestDomLoop(t *testing.T) {
	f := NewFunc("f")
	c := cond(f)
	b0 := f.Entry
	b1 := f.NewBlock()
	b2 := f.NewBlock()
	b3 := f.NewBlock()

	f.NewBr(b0, b1)
	f.NewCondBr(b1, c, b2, nil, b3, nil)
	f.NewBr(b2, b1)
	f.NewReturn(b3)

	ComputeDom(f)

	if b1.Idom != b0 {
		t.Errorf("b1.Idom = %v, want b0", b1.Idom)
	}
	if b2.Idom != b1 {
		t.Errorf("b2.Idom = %v, want b1", b2.Idom)
	}
	if b3.Idom != b1 {
		t.Errorf("b3.Idom = %v, want b1", b3.Idom)
	}
	if Dominates(b2, b1) {
		t.Errorf("latch b2 should not dominate header b1")
	}
}

// TestRPOOrdering verifies that every block precedes its successors
// except along back edges.
func TestRPOOrdering(t *testing.T) {
	f := NewFunc("f")
	c := cond(f)
	b0 := f.Entry
	b1 := f.NewBlock()
	b2 := f.NewBlock()
	b3 := f.NewBlock()

	f.NewCondBr(b0, c, b2, nil, b1, nil)
	f.NewBr(b1, b3)
	f.NewBr(b2, b3)
	f.NewReturn(b3)

	rpo := ReversePostOrder(f)
	if len(rpo) != 4 {
		t.Fatalf("RPO has %d blocks, want 4", len(rpo))
	}
	if rpo[0] != b0 {
		t.Errorf("RPO[0] = %v, want b0", rpo[0])
	}
	if rpo[3] != b3 {
		t.Errorf("RPO[3] = %v, want b3", rpo[3])
	}
}

// TestDomUnreachable verifies that unreachable blocks are left without
// an Idom and are excluded from RPO.
func TestDomUnreachable(t *testing.T) {
	f := NewFunc("f")
	b0 := f.Entry
	b1 := f.NewBlock()
	dead := f.NewBlock()

	f.NewBr(b0, b1)
	f.NewReturn(b1)
	f.NewBr(dead, b1)

	ComputeDom(f)

	if dead.Idom != nil {
		t.Errorf("unreachable block Idom = %v, want nil", dead.Idom)
	}
	if b1.Idom != b0 {
		t.Errorf("b1.Idom = %v, want b0", b1.Idom)
	}
	for _, b := range ReversePostOrder(f) {
		if b == dead {
			t.Errorf("RPO contains unreachable %s", dead)
		}
	}
}

// TestDomRecompute verifies that ComputeDom clears stale results.
func TestDomRecompute(t *testing.T) {
	f := NewFunc("f")
	c := cond(f)
	b0 := f.Entry
	b1 := f.NewBlock()
	b2 := f.NewBlock()

	f.NewCondBr(b0, c, b1, nil, b2, nil)
	f.NewBr(b1, b2)
	f.NewReturn(b2)

	ComputeDom(f)
	ComputeDom(f)

	if b2.Idom != b0 {
		t.Errorf("b2.Idom = %v, want b0", b2.Idom)
	}
	if len(b0.Dominees) != 2 {
		t.Errorf("b0 has %d dominees after recompute, want 2", len(b0.Dominees))
	}
}
