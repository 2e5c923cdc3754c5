package ssa

import (
	"fmt"
	"strings"

	"tlog.app/go/errors"

	"github.com/you-not-fish/codemotion/internal/types"
)

// Verify checks the structural integrity of an SSA function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil {
		add("func %s: entry block is nil", f.Name)
		return combineErrors(errs)
	}

	if len(f.Blocks) == 0 {
		add("func %s: no blocks", f.Name)
		return combineErrors(errs)
	}

	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}

	// 1. Entry block has no predecessors
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block %s has %d predecessors, want 0",
			f.Name, f.Entry, len(f.Entry.Preds))
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}

	// Expected use lists, rebuilt from the operands.
	want := make(map[Use]*Value)

	for _, b := range f.Blocks {
		// 2. Block's Func pointer matches
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		// 3. Parameters
		for i, p := range b.Params {
			if p.Op != OpParam {
				add("func %s, %s: parameter %d is %s, want Param", f.Name, b, i, p.Op)
			}
			if p.Block != b {
				add("func %s, %s, %s: parameter Block pointer is %s", f.Name, b, p, p.Block)
			}
			if p.AuxInt != int64(i) {
				add("func %s, %s, %s: parameter index is %d, want %d", f.Name, b, p, p.AuxInt, i)
			}
			if p.Type == nil {
				add("func %s, %s, %s: parameter has nil Type", f.Name, b, p)
			}
			if f.Value(p.ID) != p {
				add("func %s, %s, %s: parameter not registered under its ID", f.Name, b, p)
			}
		}

		// 4. Terminator is the last value and only the last
		if b.Terminator() == nil {
			add("func %s, %s: block has no terminator", f.Name, b)
		}
		for i, v := range b.Values {
			if v.IsTerminator() && i != len(b.Values)-1 {
				add("func %s, %s, %s: terminator %s is not the last value", f.Name, b, v, v.Op)
			}
		}

		for _, v := range b.Values {
			// 5. Every Value's Block pointer matches its containing block
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %s, want %s",
					f.Name, b, v, v.Block, b)
			}
			if f.Value(v.ID) != v {
				add("func %s, %s, %s: value not registered under its ID", f.Name, b, v)
			}
			if v.Op == OpParam || v.Op == OpInvalid || v.Op >= opCount {
				add("func %s, %s, %s: invalid op %s in instruction list", f.Name, b, v, v.Op)
			}

			// 6. Non-void values must have non-nil Type
			// Exception: calls may have nil Type for void-returning functions.
			if !v.Op.IsVoid() && v.Type == nil && v.Op != OpCall && v.Op != OpBuiltin {
				add("func %s, %s, %s (%s): non-void value has nil Type",
					f.Name, b, v, v.Op)
			}

			// 7. Args are non-nil and live
			for i, arg := range v.Args {
				if arg == nil {
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
					continue
				}
				if arg.Block == nil || f.Value(arg.ID) != arg {
					add("func %s, %s, %s: arg[%d] (%s) not found in function",
						f.Name, b, v, i, arg)
					continue
				}
				want[Use{User: v, Index: i}] = arg
			}

			verifyValue(f, v, add)
		}

		// 8. Succs match the terminator's targets
		if t := b.Terminator(); t != nil {
			if len(b.Succs) != len(t.Targets) {
				add("func %s, %s: %d succs but terminator has %d targets",
					f.Name, b, len(b.Succs), len(t.Targets))
			} else {
				for i, tgt := range t.Targets {
					if b.Succs[i] != tgt.Block {
						add("func %s, %s: succ[%d] is %s, terminator targets %s",
							f.Name, b, i, b.Succs[i], tgt.Block)
					}
				}
			}
		}

		// 9. Succs/Preds edge consistency
		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
				continue
			}
			if countBlock(succ.Preds, b) != countBlock(b.Succs, succ) {
				add("func %s, %s: successor %s lists %s as predecessor %d times, want %d",
					f.Name, b, succ, b, countBlock(succ.Preds, b), countBlock(b.Succs, succ))
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
				continue
			}
			if !containsBlock(pred.Succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor",
					f.Name, b, pred, b)
			}
		}
	}

	// 10. The use side table matches the operands exactly
	for id, us := range f.uses {
		for _, u := range us {
			v := f.Value(ID(id))
			if want[u] != v || v == nil {
				add("func %s: stale use of v%d by %s[%d]", f.Name, id, u.User, u.Index)
				continue
			}
			delete(want, u)
		}
	}
	for u, v := range want {
		add("func %s: use of %s by %s[%d] missing from use list", f.Name, v, u.User, u.Index)
	}

	return combineErrors(errs)
}

// verifyValue checks the op-specific shape of v.
func verifyValue(f *Func, v *Value, add func(string, ...interface{})) {
	b := v.Block

	if !v.IsTerminator() {
		if len(v.Targets) != 0 {
			add("func %s, %s, %s: non-terminator has targets", f.Name, b, v)
		}
	} else {
		verifyTerminator(f, v, add)
	}

	switch v.Op {
	case OpEnumPayload, OpMakeEnum:
		var e *types.Enum
		if v.Op == OpEnumPayload && len(v.Args) == 1 {
			e = types.AsEnum(v.Args[0].Type)
		} else if v.Op == OpMakeEnum {
			e = types.AsEnum(v.Type)
		}
		if e == nil {
			add("func %s, %s, %s: %s needs an enum type", f.Name, b, v, v.Op)
			break
		}
		if v.AuxInt < 0 || v.AuxInt >= int64(e.NumVariants()) {
			add("func %s, %s, %s: case %d out of range for %s", f.Name, b, v, v.AuxInt, e)
			break
		}
		if v.Op == OpEnumPayload && e.Variant(int(v.AuxInt)).Payload == nil {
			add("func %s, %s, %s: case %s has no payload", f.Name, b, v, e.Variant(int(v.AuxInt)).Name)
		}
	case OpRetain, OpRelease:
		if len(v.Args) != 1 {
			add("func %s, %s, %s: %s has %d args, want 1", f.Name, b, v, v.Op, len(v.Args))
		} else if !types.IsRef(v.Args[0].Type) {
			add("func %s, %s, %s: %s of non-reference %s", f.Name, b, v, v.Op, v.Args[0])
		}
	case OpRetainValue, OpReleaseValue, OpEnumTag, OpNilCheck, OpCondFail, OpLoad:
		if len(v.Args) != 1 {
			add("func %s, %s, %s: %s has %d args, want 1", f.Name, b, v, v.Op, len(v.Args))
		}
	case OpStore:
		if len(v.Args) != 2 {
			add("func %s, %s, %s: Store has %d args, want 2", f.Name, b, v, len(v.Args))
		}
	}
}

func verifyTerminator(f *Func, v *Value, add func(string, ...interface{})) {
	b := v.Block

	nc := v.Op.numControls()
	if nc < 0 {
		nc = len(v.Args)
	}
	want := map[Op]int{OpBr: 1, OpCondBr: 2, OpReturn: 0, OpUnreachable: 0}
	if n, ok := want[v.Op]; ok && len(v.Targets) != n {
		add("func %s, %s: %s has %d targets, want %d", f.Name, b, v.Op, len(v.Targets), n)
	}

	total := nc
	for _, t := range v.Targets {
		total += t.NArgs
	}
	if total != len(v.Args) {
		add("func %s, %s: %s has %d args, controls and edges account for %d",
			f.Name, b, v.Op, len(v.Args), total)
		return
	}

	for i, t := range v.Targets {
		if t.Block == nil {
			add("func %s, %s: target %d is nil", f.Name, b, i)
			continue
		}
		if t.NArgs != len(t.Block.Params) {
			add("func %s, %s: edge to %s passes %d args, %s has %d params",
				f.Name, b, t.Block, t.NArgs, t.Block, len(t.Block.Params))
			continue
		}
		for j, a := range v.TargetArgs(i) {
			p := t.Block.Params[j]
			if a != nil && !types.Identical(a.Type, p.Type) {
				add("func %s, %s: edge to %s passes %s of type %s for %s of type %s",
					f.Name, b, t.Block, a, typeString(a.Type), p, typeString(p.Type))
			}
		}
	}

	if v.Op != OpSwitchTag {
		return
	}
	if len(v.Targets) == 0 {
		add("func %s, %s: SwitchTag has no targets", f.Name, b)
	}
	e := types.AsEnum(v.Args[0].Type)
	if e == nil {
		add("func %s, %s: SwitchTag on non-enum %s", f.Name, b, v.Args[0])
		return
	}
	seen := make(map[int]bool)
	for _, t := range v.Targets {
		if t.Case < -1 || t.Case >= e.NumVariants() {
			add("func %s, %s: SwitchTag case %d out of range for %s", f.Name, b, t.Case, e)
		}
		if seen[t.Case] {
			add("func %s, %s: SwitchTag has duplicate arm %s", f.Name, b, caseName(v, t.Case))
		}
		seen[t.Case] = true
	}
}

// containsBlock checks whether bs contains b.
func containsBlock(bs []*Block, b *Block) bool {
	return countBlock(bs, b) > 0
}

func countBlock(bs []*Block, b *Block) int {
	n := 0
	for _, x := range bs {
		if x == b {
			n++
		}
	}
	return n
}

// VerifyDom checks that every operand is available where it is used.
// It calls Verify and ComputeDom first.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}
	ComputeDom(f)

	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	reachable := make(map[*Block]bool)
	for _, b := range ReversePostOrder(f) {
		reachable[b] = true
	}

	valIdx := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			valIdx[v] = i
		}
	}

	// Block arguments are operands of the terminator, so the rule is
	// the same for every operand: a same-block definition must come
	// first, otherwise the defining block must dominate.
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for _, v := range b.Values {
			for i, arg := range v.Args {
				defBlock := arg.Block
				if defBlock == b {
					if arg.Op != OpParam && valIdx[arg] >= valIdx[v] {
						add("func %s, %s, %s: arg[%d] %s defined at index %d, used at index %d (same block)",
							f.Name, b, v, i, arg, valIdx[arg], valIdx[v])
					}
				} else if !Dominates(defBlock, b) {
					add("func %s, %s, %s: arg[%d] %s defined in %s which does not dominate %s",
						f.Name, b, v, i, arg, defBlock, b)
				}
			}
		}
	}

	return combineErrors(errs)
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New("SSA verification failed:\n  %s", strings.Join(errs, "\n  "))
}
