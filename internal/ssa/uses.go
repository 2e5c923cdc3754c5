package ssa

// Use names one operand slot: User.Args[Index].
type Use struct {
	User  *Value
	Index int
}

// The use lists live in Func.uses, indexed by the used value's ID.
// Every operand mutation below keeps them equal to the set of
// (user, index) pairs with user.Args[index] == value.

func (f *Func) addUse(v, user *Value, i int) {
	f.uses[v.ID] = append(f.uses[v.ID], Use{User: user, Index: i})
}

func (f *Func) removeUse(v, user *Value, i int) {
	us := f.uses[v.ID]
	for k, u := range us {
		if u.User == user && u.Index == i {
			us[k] = us[len(us)-1]
			f.uses[v.ID] = us[:len(us)-1]
			return
		}
	}
	f.Fatalf("use list of %s has no entry %s[%d]", v, user, i)
}

func (f *Func) renumberUse(v, user *Value, from, to int) {
	for k, u := range f.uses[v.ID] {
		if u.User == user && u.Index == from {
			f.uses[v.ID][k].Index = to
			return
		}
	}
	f.Fatalf("use list of %s has no entry %s[%d]", v, user, from)
}

// Uses returns the operand slots that refer to v, in no particular order.
// The returned slice must not be modified.
func (v *Value) Uses() []Use {
	return v.Block.Func.uses[v.ID]
}

// NumUses returns the number of operand slots that refer to v.
func (v *Value) NumUses() int {
	return len(v.Block.Func.uses[v.ID])
}

// HasOneUse reports whether v is used by exactly one operand slot.
func (v *Value) HasOneUse() bool {
	return v.NumUses() == 1
}

// AddArg appends an operand.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	v.Block.Func.addUse(arg, v, len(v.Args)-1)
}

// SetArg replaces operand i.
func (v *Value) SetArg(i int, arg *Value) {
	f := v.Block.Func
	if i < 0 || i >= len(v.Args) {
		f.Fatalf("%s: operand index %d out of range [0,%d)", v, i, len(v.Args))
	}
	f.removeUse(v.Args[i], v, i)
	v.Args[i] = arg
	f.addUse(arg, v, i)
}

// RemoveArg deletes operand i, shifting later operands down.
func (v *Value) RemoveArg(i int) {
	f := v.Block.Func
	if i < 0 || i >= len(v.Args) {
		f.Fatalf("%s: operand index %d out of range [0,%d)", v, i, len(v.Args))
	}
	f.removeUse(v.Args[i], v, i)
	for j := i + 1; j < len(v.Args); j++ {
		f.renumberUse(v.Args[j], v, j, j-1)
	}
	copy(v.Args[i:], v.Args[i+1:])
	v.Args[len(v.Args)-1] = nil
	v.Args = v.Args[:len(v.Args)-1]
}

// RemoveTargetArg deletes block argument j of edge t of terminator v.
func (v *Value) RemoveTargetArg(t, j int) {
	f := v.Block.Func
	if t < 0 || t >= len(v.Targets) {
		f.Fatalf("%s: edge index %d out of range [0,%d)", v, t, len(v.Targets))
	}
	if j < 0 || j >= v.Targets[t].NArgs {
		f.Fatalf("%s: argument index %d out of range [0,%d) on edge to %s",
			v, j, v.Targets[t].NArgs, v.Targets[t].Block)
	}
	v.RemoveArg(v.targetArgStart(t) + j)
	v.Targets[t].NArgs--
}

// resetArgs drops all operands of v.
func (v *Value) resetArgs() {
	f := v.Block.Func
	for i, a := range v.Args {
		f.removeUse(a, v, i)
		v.Args[i] = nil
	}
	v.Args = v.Args[:0]
}

// ReplaceUses rewrites every operand slot that refers to old to refer
// to new instead.
func (f *Func) ReplaceUses(old, new *Value) {
	if old == new {
		return
	}
	us := append([]Use(nil), f.uses[old.ID]...)
	for _, u := range us {
		u.User.Args[u.Index] = new
		f.addUse(new, u.User, u.Index)
	}
	f.uses[old.ID] = nil
}

// Erase removes an instruction that has no remaining uses from its
// block and from the function.
func (v *Value) Erase() {
	f := v.Block.Func
	if n := v.NumUses(); n > 0 {
		f.Fatalf("erasing %s with %d uses", v.LongString(), n)
	}
	switch {
	case v.Op == OpParam:
		f.Fatalf("erasing block parameter %s; use RemoveParam", v)
	case v.IsTerminator():
		f.Fatalf("erasing terminator of %s", v.Block)
	}
	v.resetArgs()
	v.Block.removeValue(v)
	f.values[v.ID] = nil
	f.uses[v.ID] = nil
	v.Block = nil
}

// MoveBefore moves instruction v so that it immediately precedes at,
// which may be in another block of the same function.
func (v *Value) MoveBefore(at *Value) {
	f := v.Block.Func
	switch {
	case v == at:
		return
	case v.Op == OpParam || v.IsTerminator():
		f.Fatalf("cannot move %s", v.LongString())
	case at.Op == OpParam:
		f.Fatalf("cannot move %s before block parameter %s", v, at)
	case at.Block.Func != f:
		f.Fatalf("cannot move %s into another function", v)
	}
	v.Block.removeValue(v)
	at.Block.insertAt(at.Block.Index(at), v)
}

// MoveToFront moves instruction v to the start of block b.
func (v *Value) MoveToFront(b *Block) {
	if len(b.Values) == 0 {
		b.Func.Fatalf("cannot move %s into empty block %s", v, b)
	}
	v.MoveBefore(b.Values[0])
}

// RemoveParam deletes parameter i of b, which must have no uses.
// The caller is responsible for removing the matching argument from
// every incoming edge.
func (b *Block) RemoveParam(i int) {
	f := b.Func
	if i < 0 || i >= len(b.Params) {
		f.Fatalf("%s: parameter index %d out of range [0,%d)", b, i, len(b.Params))
	}
	p := b.Params[i]
	if n := p.NumUses(); n > 0 {
		f.Fatalf("removing parameter %s of %s with %d uses", p, b, n)
	}
	copy(b.Params[i:], b.Params[i+1:])
	b.Params[len(b.Params)-1] = nil
	b.Params = b.Params[:len(b.Params)-1]
	for j := i; j < len(b.Params); j++ {
		b.Params[j].AuxInt = int64(j)
	}
	f.values[p.ID] = nil
	f.uses[p.ID] = nil
	p.Block = nil
}
