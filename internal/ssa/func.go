package ssa

import (
	"fmt"

	"github.com/you-not-fish/codemotion/internal/syntax"
	"github.com/you-not-fish/codemotion/internal/types"
)

// Func represents an SSA function.
// It contains a control flow graph of Blocks, each containing Values.
// The parameters of the entry block are the function's arguments.
type Func struct {
	// Name is the function name.
	Name string

	// Blocks is the list of basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block

	// Entry is the entry block (same as Blocks[0]).
	Entry *Block

	// values is the value arena, indexed by ID. Erased values leave nil.
	values []*Value

	// uses is the use-list side table, indexed by value ID.
	uses [][]Use

	// nextBlockID is the next available block ID.
	nextBlockID ID
}

// SwitchCase is one arm of a SwitchTag terminator.
type SwitchCase struct {
	Case  int // variant index, or -1 for the default arm
	Block *Block
}

// NewFunc creates a new SSA function with the given name.
// An entry block is automatically created.
func NewFunc(name string) *Func {
	f := &Func{Name: name}
	f.Entry = f.NewBlock()
	return f
}

// Fatalf reports a violated IR contract. It does not return.
func (f *Func) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf("func %s: %s", f.Name, fmt.Sprintf(format, args...)))
}

// NewBlock creates a new basic block and appends it to the function.
func (f *Func) NewBlock() *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// Value returns the live value with the given ID, or nil.
func (f *Func) Value(id ID) *Value {
	if id < 0 || int(id) >= len(f.values) {
		return nil
	}
	return f.values[id]
}

// allocValue creates a value with the next free ID and registers it
// in the arena.
func (f *Func) allocValue(op Op, typ types.Type) *Value {
	return f.allocValueID(ID(len(f.values)), op, typ)
}

// allocValueID registers a value with a caller-chosen ID. The text
// parser uses it to keep the IDs written in the source.
func (f *Func) allocValueID(id ID, op Op, typ types.Type) *Value {
	for int(id) >= len(f.values) {
		f.values = append(f.values, nil)
		f.uses = append(f.uses, nil)
	}
	if f.values[id] != nil {
		f.Fatalf("value ID %d already in use", id)
	}
	v := &Value{ID: id, Op: op, Type: typ}
	f.values[id] = v
	return v
}

// NewValue creates a new Value at the end of block b.
// If b is already sealed, the value goes just before the terminator.
func (f *Func) NewValue(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := f.allocValue(op, typ)
	v.Block = b
	for _, arg := range args {
		v.AddArg(arg)
	}
	if b.Terminator() != nil {
		b.insertAt(len(b.Values)-1, v)
	} else {
		b.Values = append(b.Values, v)
	}
	return v
}

// NewValuePos creates a new Value with source position in the given block.
func (f *Func) NewValuePos(b *Block, op Op, typ types.Type, pos syntax.Pos, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Pos = pos
	return v
}

// NewValueAtFront creates a new Value at the start of block b,
// before any existing instruction.
func (f *Func) NewValueAtFront(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := f.allocValue(op, typ)
	v.Block = b
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.insertAt(0, v)
	return v
}

// NewValueBefore creates a new Value immediately before at.
func (f *Func) NewValueBefore(at *Value, op Op, typ types.Type, args ...*Value) *Value {
	b := at.Block
	v := f.allocValue(op, typ)
	v.Block = b
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.insertAt(b.Index(at), v)
	return v
}

// NewParam appends a block parameter of type typ to b.
func (f *Func) NewParam(b *Block, typ types.Type) *Value {
	v := f.allocValue(OpParam, typ)
	v.Block = b
	v.AuxInt = int64(len(b.Params))
	b.Params = append(b.Params, v)
	return v
}

// newTerminator seals b with a terminator of the given op.
func (f *Func) newTerminator(b *Block, op Op, controls []*Value, targets []Target, args [][]*Value) *Value {
	if b.Terminator() != nil {
		f.Fatalf("%s already has terminator %s", b, b.Terminator().LongString())
	}
	v := f.NewValue(b, op, nil, controls...)
	for i, t := range targets {
		if i < len(args) {
			t.NArgs = len(args[i])
			for _, a := range args[i] {
				v.AddArg(a)
			}
		}
		v.Targets = append(v.Targets, t)
		b.AddSucc(t.Block)
	}
	return v
}

// NewBr ends b with an unconditional branch to target passing args.
func (f *Func) NewBr(b, target *Block, args ...*Value) *Value {
	return f.newTerminator(b, OpBr, nil,
		[]Target{{Block: target, Case: -1}}, [][]*Value{args})
}

// NewCondBr ends b with a two-way branch on cond.
func (f *Func) NewCondBr(b *Block, cond *Value, then *Block, thenArgs []*Value, els *Block, elsArgs []*Value) *Value {
	return f.newTerminator(b, OpCondBr, []*Value{cond},
		[]Target{{Block: then, Case: -1}, {Block: els, Case: -1}},
		[][]*Value{thenArgs, elsArgs})
}

// NewSwitchTag ends b with a dispatch on the case of the enum value scrut.
// Targets of a SwitchTag take no block arguments.
func (f *Func) NewSwitchTag(b *Block, scrut *Value, cases ...SwitchCase) *Value {
	targets := make([]Target, len(cases))
	for i, c := range cases {
		targets[i] = Target{Block: c.Block, Case: c.Case}
	}
	return f.newTerminator(b, OpSwitchTag, []*Value{scrut}, targets, nil)
}

// NewReturn ends b with a return of results.
func (f *Func) NewReturn(b *Block, results ...*Value) *Value {
	return f.newTerminator(b, OpReturn, results, nil, nil)
}

// NewUnreachable ends b with an unreachable terminator.
func (f *Func) NewUnreachable(b *Block) *Value {
	return f.newTerminator(b, OpUnreachable, nil, nil, nil)
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of instructions and block
// parameters across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Params) + len(b.Values)
	}
	return n
}
