package ssa

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"tlog.app/go/errors"

	"github.com/you-not-fish/codemotion/internal/syntax"
	"github.com/you-not-fish/codemotion/internal/types"
)

// File is the result of parsing SSA text: the declared types and the
// functions, in source order.
type File struct {
	Pkg   *types.Package
	Funcs []*Func
}

// Func returns the function with the given name, or nil.
func (file *File) Func(name string) *Func {
	for _, f := range file.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Parse reads type declarations and functions in the format written by
// FprintTypes and Fprint. Value and block IDs are taken from the text.
// Parse checks syntax and name resolution only; use Verify for the
// structural rules.
func Parse(filename string, src io.Reader) (file *File, err error) {
	p := &parser{
		pkg:     types.NewPackage(filename),
		pending: make(map[string]*types.TypeName),
	}
	p.s = syntax.NewScanner(filename, src, func(line, col uint32, msg string) {
		if p.err == nil {
			p.err = errors.New("%v: %s", syntax.NewPos(filename, line, col), msg)
		}
	})

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			file, err = nil, p.err
		}
	}()

	p.next()
	p.parseFile()

	return &File{Pkg: p.pkg, Funcs: p.funcs}, nil
}

// bailout unwinds the parser after the first error.
type bailout struct{}

type parser struct {
	s   *syntax.Scanner
	err error

	pkg     *types.Package
	pending map[string]*types.TypeName // used before declared
	funcs   []*Func

	// state of the function being parsed
	f      *Func
	blocks []*pblock
	byID   map[ID]*pblock
	vals   map[ID]*Value
	instrs []*pinstr
}

// ref is a use of a value or block name, resolved when the function ends.
type ref struct {
	name string
	pos  syntax.Pos
}

type pblock struct {
	b        *Block
	pos      syntax.Pos
	hasPreds bool
	preds    []ref
}

type pinstr struct {
	id      ID // -1 if the result is unnamed
	op      Op
	typ     types.Type
	auxInt  int64
	aux     interface{}
	pos     syntax.Pos
	block   *pblock
	args    []ref
	arrow   bool
	targets []ptarget
}

type ptarget struct {
	caseName ref // SwitchTag only
	block    ref
	args     []ref
}

func (p *parser) next() {
	p.s.Next()
	if p.err != nil {
		panic(bailout{})
	}
}

func (p *parser) tok() syntax.Token { return p.s.Token() }

func (p *parser) errorf(pos syntax.Pos, format string, args ...interface{}) {
	if p.err == nil {
		p.err = errors.New("%v: %s", pos, fmt.Sprintf(format, args...))
	}
	panic(bailout{})
}

func (p *parser) tokString() string {
	switch p.tok() {
	case syntax.Name, syntax.Literal:
		return fmt.Sprintf("%s %q", p.tok(), p.s.Literal())
	case syntax.Semi:
		return p.s.Literal()
	}
	return p.tok().String()
}

func (p *parser) want(tok syntax.Token) {
	if p.tok() != tok {
		p.errorf(p.s.Pos(), "expected %s, found %s", tok, p.tokString())
	}
	p.next()
}

func (p *parser) name() string {
	if p.tok() != syntax.Name {
		p.errorf(p.s.Pos(), "expected name, found %s", p.tokString())
	}
	lit := p.s.Literal()
	p.next()
	return lit
}

// parseID parses names of the form v12 or b3.
func parseID(prefix byte, s string) (ID, bool) {
	if len(s) < 2 || s[0] != prefix {
		return 0, false
	}
	n, err := strconv.ParseUint(s[1:], 10, 31)
	if err != nil {
		return 0, false
	}
	return ID(n), true
}

func (p *parser) parseFile() {
	for p.tok() != syntax.EOF {
		switch p.tok() {
		case syntax.Type:
			p.typeDecl()
		case syntax.Func:
			p.funcDecl()
		default:
			p.errorf(p.s.Pos(), "expected func or type declaration, found %s", p.tokString())
		}
	}

	if len(p.pending) > 0 {
		names := make([]string, 0, len(p.pending))
		for name := range p.pending {
			names = append(names, name)
		}
		sort.Strings(names)
		tn := p.pending[names[0]]
		p.errorf(tn.Pos(), "undefined type %s", tn.Name())
	}
}

// typeDecl parses: type Name Type
func (p *parser) typeDecl() {
	p.want(syntax.Type)
	pos := p.s.Pos()
	name := p.name()

	scope := p.pkg.Scope()
	var named *types.Named
	if obj := scope.Lookup(name); obj != nil {
		if p.pending[name] == nil {
			p.errorf(pos, "type %s redeclared", name)
		}
		named = obj.Type().(*types.Named)
		delete(p.pending, name)
	} else if _, s := scope.LookupParent(name); s == types.Universe {
		p.errorf(pos, "cannot redeclare predeclared %s", name)
	} else {
		named = types.NewNamed(types.NewTypeName(pos, name, nil), nil)
		scope.Insert(named.Obj())
	}

	named.SetUnderlying(p.parseType())
	p.want(syntax.Semi)
}

func (p *parser) parseType() types.Type {
	switch p.tok() {
	case syntax.Star:
		p.next()
		return types.NewPointer(p.parseType())
	case syntax.Ref:
		p.next()
		return types.NewRef(p.parseType())
	case syntax.Enum:
		p.next()
		p.want(syntax.Lbrace)
		var variants []types.Variant
		for p.tok() != syntax.Rbrace {
			v := types.Variant{Name: p.name()}
			if p.tok() == syntax.Lparen {
				p.next()
				v.Payload = p.parseType()
				p.want(syntax.Rparen)
			}
			variants = append(variants, v)
			if p.tok() != syntax.Comma {
				break
			}
			p.next()
		}
		p.want(syntax.Rbrace)
		return types.NewEnum(variants)
	case syntax.Name:
		pos := p.s.Pos()
		return p.lookupType(p.name(), pos)
	}
	p.errorf(p.s.Pos(), "expected type, found %s", p.tokString())
	return nil
}

// lookupType resolves a type name. Unknown names become placeholders
// that a later type declaration must fill in.
func (p *parser) lookupType(name string, pos syntax.Pos) types.Type {
	obj, _ := p.pkg.Scope().LookupParent(name)
	switch obj := obj.(type) {
	case nil:
		tn := types.NewTypeName(pos, name, nil)
		named := types.NewNamed(tn, nil)
		p.pkg.Scope().Insert(tn)
		p.pending[name] = tn
		return named
	case *types.TypeName:
		return obj.Type()
	}
	p.errorf(pos, "%s is not a type", name)
	return nil
}

// funcDecl parses: func Name ':' followed by blocks.
func (p *parser) funcDecl() {
	p.want(syntax.Func)
	p.f = &Func{Name: p.name()}
	p.want(syntax.Colon)
	p.want(syntax.Semi)

	p.blocks = nil
	p.byID = make(map[ID]*pblock)
	p.vals = make(map[ID]*Value)
	p.instrs = nil

	for p.tok() == syntax.Name {
		if _, ok := parseID('b', p.s.Literal()); ok {
			p.blockHeader()
			continue
		}
		if len(p.blocks) == 0 {
			p.errorf(p.s.Pos(), "instruction outside of a block")
		}
		p.instr()
	}
	p.finishFunc()
	p.funcs = append(p.funcs, p.f)
}

// blockHeader parses: bN ['(' vN Type {',' vN Type} ')'] ':' ['(' entry ')'] ['<-' bN...]
func (p *parser) blockHeader() {
	pos := p.s.Pos()
	id, _ := parseID('b', p.name())
	if p.byID[id] != nil {
		p.errorf(pos, "block b%d redefined", id)
	}
	b := &Block{ID: id, Func: p.f}
	if id >= p.f.nextBlockID {
		p.f.nextBlockID = id + 1
	}
	pb := &pblock{b: b, pos: pos}
	p.byID[id] = pb
	p.blocks = append(p.blocks, pb)
	p.f.Blocks = append(p.f.Blocks, b)

	if p.tok() == syntax.Lparen {
		p.next()
		for p.tok() != syntax.Rparen {
			vpos := p.s.Pos()
			vid := p.valueName()
			v := p.newValue(vid, OpParam, p.parseType(), vpos)
			v.Block = b
			v.AuxInt = int64(len(b.Params))
			b.Params = append(b.Params, v)
			if p.tok() != syntax.Comma {
				break
			}
			p.next()
		}
		p.want(syntax.Rparen)
	}
	p.want(syntax.Colon)

	if p.tok() == syntax.Lparen {
		p.next()
		if lpos, lit := p.s.Pos(), p.name(); lit != "entry" || len(p.blocks) != 1 {
			p.errorf(lpos, "unexpected block label %q", lit)
		}
		p.want(syntax.Rparen)
	}

	if p.tok() == syntax.Larrow {
		p.next()
		pb.hasPreds = true
		for p.tok() == syntax.Name {
			pb.preds = append(pb.preds, ref{p.s.Literal(), p.s.Pos()})
			p.next()
		}
	}
	p.want(syntax.Semi)
}

// valueName parses a value name and checks that it is not yet defined.
func (p *parser) valueName() ID {
	pos := p.s.Pos()
	lit := p.name()
	id, ok := parseID('v', lit)
	if !ok {
		p.errorf(pos, "invalid value name %q", lit)
	}
	if _, dup := p.vals[id]; dup {
		p.errorf(pos, "value v%d redefined", id)
	}
	return id
}

func (p *parser) newValue(id ID, op Op, typ types.Type, pos syntax.Pos) *Value {
	v := p.f.allocValueID(id, op, typ)
	v.Pos = pos
	p.vals[id] = v
	return v
}

// instr parses: [vN '='] Op ['<' Type '>'] ['[' int ']'] ['{' aux '}'] {vN} ['->' targets]
func (p *parser) instr() {
	in := &pinstr{id: -1, pos: p.s.Pos(), block: p.blocks[len(p.blocks)-1]}

	if _, ok := parseID('v', p.s.Literal()); ok {
		in.id = p.valueName()
		p.vals[in.id] = nil
		p.want(syntax.Assign)
	}

	opPos := p.s.Pos()
	opName := p.name()
	in.op = LookupOp(opName)
	switch {
	case in.op == OpInvalid || in.op == OpParam:
		p.errorf(opPos, "unknown op %s", opName)
	case in.id >= 0 && in.op.IsVoid():
		p.errorf(opPos, "%s produces no value", opName)
	case in.id < 0 && !in.op.IsVoid():
		p.errorf(opPos, "result of %s must be named", opName)
	}

	if p.tok() == syntax.Lss {
		p.next()
		in.typ = p.parseType()
		p.want(syntax.Gtr)
	}

	if p.tok() == syntax.Lbrack {
		p.next()
		neg := false
		if p.tok() == syntax.Sub {
			neg = true
			p.next()
		}
		lpos := p.s.Pos()
		if p.tok() != syntax.Literal || p.s.LitKind() != syntax.IntLit {
			p.errorf(lpos, "expected integer, found %s", p.tokString())
		}
		n, err := strconv.ParseInt(p.s.Literal(), 0, 64)
		if err != nil {
			p.errorf(lpos, "invalid integer %s: %v", p.s.Literal(), err)
		}
		if neg {
			n = -n
		}
		in.auxInt = n
		p.next()
		p.want(syntax.Rbrack)
	}

	if p.tok() == syntax.Lbrace {
		p.next()
		in.aux = p.parseAux()
		p.want(syntax.Rbrace)
	}

	for p.tok() == syntax.Name {
		in.args = append(in.args, ref{p.s.Literal(), p.s.Pos()})
		p.next()
	}

	if p.tok() == syntax.Arrow {
		if !in.op.IsTerminator() {
			p.errorf(p.s.Pos(), "%s has no successors", in.op)
		}
		p.next()
		in.arrow = true
		for p.tok() == syntax.Name {
			in.targets = append(in.targets, p.target(in.op))
		}
	}
	p.want(syntax.Semi)

	p.instrs = append(p.instrs, in)
}

func (p *parser) target(op Op) ptarget {
	var t ptarget
	if op == OpSwitchTag {
		t.caseName = ref{p.s.Literal(), p.s.Pos()}
		p.next()
		p.want(syntax.Colon)
	}
	t.block = ref{p.s.Literal(), p.s.Pos()}
	p.name()
	if p.tok() == syntax.Lparen {
		p.next()
		for p.tok() == syntax.Name {
			t.args = append(t.args, ref{p.s.Literal(), p.s.Pos()})
			p.next()
			if p.tok() != syntax.Comma {
				break
			}
			p.next()
		}
		p.want(syntax.Rparen)
	}
	return t
}

func (p *parser) parseAux() interface{} {
	switch p.tok() {
	case syntax.Literal:
		if p.s.LitKind() != syntax.StringLit {
			p.errorf(p.s.Pos(), "expected string, found %s", p.tokString())
		}
		s := p.s.Literal()
		p.next()
		return s
	case syntax.Name:
		name := p.name()
		if name == "captures" && p.tok() == syntax.Assign {
			p.next()
			return p.parseCaptures()
		}
		return name
	}
	p.errorf(p.s.Pos(), "expected aux value, found %s", p.tokString())
	return nil
}

// parseCaptures parses: '(' [['@'] name {',' ['@'] name}] ')'
func (p *parser) parseCaptures() *CaptureInfo {
	ci := &CaptureInfo{}
	p.want(syntax.Lparen)
	for p.tok() != syntax.Rparen {
		c := Capture{Local: true}
		if p.tok() == syntax.At {
			c.Local = false
			p.next()
		}
		c.Name = p.name()
		ci.Captures = append(ci.Captures, c)
		if p.tok() != syntax.Comma {
			break
		}
		p.next()
	}
	p.want(syntax.Rparen)
	return ci
}

func (p *parser) value(r ref) *Value {
	id, ok := parseID('v', r.name)
	if !ok {
		p.errorf(r.pos, "invalid value name %q", r.name)
	}
	v := p.vals[id]
	if v == nil {
		p.errorf(r.pos, "undefined value %s", r.name)
	}
	return v
}

func (p *parser) block(r ref) *Block {
	id, ok := parseID('b', r.name)
	if !ok {
		p.errorf(r.pos, "invalid block name %q", r.name)
	}
	pb := p.byID[id]
	if pb == nil {
		p.errorf(r.pos, "undefined block %s", r.name)
	}
	return pb.b
}

// finishFunc creates the instructions, resolves operands and edges,
// and applies the predecessor order written in the block headers.
func (p *parser) finishFunc() {
	f := p.f
	if len(p.blocks) == 0 {
		p.errorf(p.s.Pos(), "func %s has no blocks", f.Name)
	}
	f.Entry = f.Blocks[0]

	// Named results keep their IDs; the rest are numbered after them.
	vs := make([]*Value, len(p.instrs))
	for i, in := range p.instrs {
		if in.id >= 0 {
			vs[i] = p.newValue(in.id, in.op, in.typ, in.pos)
		}
	}
	for i, in := range p.instrs {
		if in.id < 0 {
			vs[i] = f.allocValue(in.op, in.typ)
			vs[i].Pos = in.pos
		}
		v := vs[i]
		v.AuxInt = in.auxInt
		v.Aux = in.aux
		v.Block = in.block.b
		in.block.b.Values = append(in.block.b.Values, v)
	}

	for i, in := range p.instrs {
		v := vs[i]
		if !in.op.IsTerminator() {
			for _, a := range in.args {
				v.AddArg(p.value(a))
			}
			continue
		}
		p.finishTerminator(v, in)
	}

	for _, pb := range p.blocks {
		p.orderPreds(pb)
	}
}

func (p *parser) finishTerminator(v *Value, in *pinstr) {
	want := map[Op]int{OpBr: 1, OpCondBr: 2, OpReturn: 0, OpUnreachable: 0}
	if n, ok := want[in.op]; ok && len(in.targets) != n {
		p.errorf(in.pos, "%s has %d successors, want %d", in.op, len(in.targets), n)
	}
	if in.op == OpSwitchTag && len(in.targets) == 0 {
		p.errorf(in.pos, "SwitchTag has no successors")
	}
	if n := in.op.numControls(); n >= 0 && len(in.args) != n {
		p.errorf(in.pos, "%s has %d operands, want %d", in.op, len(in.args), n)
	}

	for _, a := range in.args {
		v.AddArg(p.value(a))
	}
	for _, t := range in.targets {
		succ := p.block(t.block)
		tgt := Target{Block: succ, Case: -1, NArgs: len(t.args)}
		if in.op == OpSwitchTag {
			tgt.Case = p.caseIndex(v.Args[0], t.caseName)
			if len(t.args) > 0 {
				p.errorf(t.block.pos, "SwitchTag targets take no arguments")
			}
		}
		for _, a := range t.args {
			v.AddArg(p.value(a))
		}
		v.Targets = append(v.Targets, tgt)
		v.Block.AddSucc(succ)
	}
}

// caseIndex maps a SwitchTag arm label to a variant index.
func (p *parser) caseIndex(scrut *Value, r ref) int {
	if r.name == "default" {
		return -1
	}
	if e := types.AsEnum(scrut.Type); e != nil {
		if i := e.VariantIndex(r.name); i >= 0 {
			return i
		}
	}
	if len(r.name) > 4 && r.name[:4] == "case" {
		if n, err := strconv.Atoi(r.name[4:]); err == nil {
			return n
		}
	}
	p.errorf(r.pos, "%s has no case %s", scrut, r.name)
	return 0
}

// orderPreds reorders b.Preds to the order listed after "<-", which must
// be a permutation of the edges into b.
func (p *parser) orderPreds(pb *pblock) {
	if !pb.hasPreds {
		return
	}
	b := pb.b
	listed := make([]*Block, len(pb.preds))
	for i, r := range pb.preds {
		listed[i] = p.block(r)
	}
	count := make(map[*Block]int)
	for _, x := range b.Preds {
		count[x]++
	}
	for _, x := range listed {
		count[x]--
	}
	for x, n := range count {
		if n != 0 {
			p.errorf(pb.pos, "%s lists predecessors %v, edges come from %v (mismatch at %s)",
				b, listed, b.Preds, x)
		}
	}
	b.Preds = listed
}
