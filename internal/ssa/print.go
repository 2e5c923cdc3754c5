package ssa

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/you-not-fish/codemotion/internal/types"
)

// Fprint writes the SSA representation of a function to w.
//
// Format:
//
//	func name:
//	  b0(v0 int, v1 Opt): (entry)
//	    v2 = Const64 <int> [42]
//	    v3 = Add64 <int> v0 v2
//	    RetainValue v1
//	    SwitchTag v1 -> some:b1 none:b2
//	  b1: <- b0
//	    Br -> b3(v3)
//
// Parse reads this format back.
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s:\n", f.Name)
	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	params := ""
	if len(b.Params) > 0 {
		ps := make([]string, len(b.Params))
		for i, p := range b.Params {
			ps[i] = fmt.Sprintf("%s %s", p, typeString(p.Type))
		}
		params = "(" + strings.Join(ps, ", ") + ")"
	}

	label := ""
	if b == f.Entry {
		label = " (entry)"
	}

	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s%s:%s%s\n", b, params, label, predsStr)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	// For void ops, don't print "vN = "
	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s", v.ID, v.Op)
	}

	if v.Type != nil {
		fmt.Fprintf(&sb, " <%s>", typeString(v.Type))
	}

	switch v.Op {
	case OpConst64, OpConstBool, OpMakeEnum, OpEnumPayload, OpFieldPtr:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpParam:
	default:
		if v.AuxInt != 0 {
			fmt.Fprintf(&sb, " [%d]", v.AuxInt)
		}
	}

	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%s}", formatAux(v))
	}

	if !v.IsTerminator() {
		for _, arg := range v.Args {
			fmt.Fprintf(&sb, " v%d", arg.ID)
		}
		return sb.String()
	}

	for _, c := range v.Args[:v.NumControls()] {
		fmt.Fprintf(&sb, " v%d", c.ID)
	}
	if len(v.Targets) > 0 {
		sb.WriteString(" ->")
	}
	for i, t := range v.Targets {
		sb.WriteByte(' ')
		if v.Op == OpSwitchTag {
			sb.WriteString(caseName(v, t.Case))
			sb.WriteByte(':')
		}
		sb.WriteString(t.Block.String())
		if args := v.TargetArgs(i); len(args) > 0 {
			as := make([]string, len(args))
			for k, a := range args {
				as[k] = a.String()
			}
			sb.WriteString("(" + strings.Join(as, ", ") + ")")
		}
	}
	return sb.String()
}

// caseName returns the label of a SwitchTag arm.
func caseName(v *Value, c int) string {
	if c < 0 {
		return "default"
	}
	if len(v.Args) > 0 {
		if e := types.AsEnum(v.Args[0].Type); e != nil && c < e.NumVariants() {
			return e.Variant(c).Name
		}
	}
	return fmt.Sprintf("case%d", c)
}

// formatAux formats an Aux value for display.
func formatAux(v *Value) string {
	switch a := v.Aux.(type) {
	case *CaptureInfo:
		return a.String()
	case types.Type:
		return typeString(a)
	case string:
		if v.Op == OpConstString || !isIdent(a) {
			return strconv.Quote(a)
		}
		return a
	default:
		return fmt.Sprintf("%v", a)
	}
}

// typeString formats a type; nil prints as "void".
func typeString(t types.Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// Print writes the SSA representation of a function to stdout.
func Print(f *Func) {
	Fprint(os.Stdout, f)
}

// FprintTypes writes a type declaration for every named type reachable
// from the values of funcs, in order of first appearance.
func FprintTypes(w io.Writer, funcs ...*Func) {
	var order []*types.Named
	seen := make(map[*types.Named]bool)
	var visit func(t types.Type)
	visit = func(t types.Type) {
		switch t := t.(type) {
		case *types.Named:
			if seen[t] {
				return
			}
			seen[t] = true
			order = append(order, t)
			visit(t.Underlying())
		case *types.Ref:
			visit(t.Elem())
		case *types.Pointer:
			visit(t.Elem())
		case *types.Enum:
			for _, v := range t.Variants() {
				if v.Payload != nil {
					visit(v.Payload)
				}
			}
		}
	}
	for _, f := range funcs {
		for _, b := range f.Blocks {
			for _, p := range b.Params {
				visit(p.Type)
			}
			for _, v := range b.Values {
				visit(v.Type)
			}
		}
	}
	for _, n := range order {
		fmt.Fprintf(w, "type %s %s\n", n, typeString(n.Underlying()))
	}
}
