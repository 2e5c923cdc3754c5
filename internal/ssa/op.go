// Package ssa implements a block-argument SSA intermediate representation
// with explicit reference counting operations.
package ssa

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConst64     // integer constant; AuxInt = value
	OpConstBool   // bool constant; AuxInt = 0 or 1
	OpConstString // string constant; Aux = string value
	OpConstNil    // nil reference

	// Integer arithmetic
	OpAdd64 // int + int
	OpSub64 // int - int
	OpMul64 // int * int
	OpNeg64 // -int (unary)

	// Comparison
	OpEq64  // int == int
	OpNeq64 // int != int
	OpLt64  // int < int
	OpLeq64 // int <= int
	OpEqPtr // ref == ref

	// Boolean
	OpNot // !bool

	OpCopy // value copy (identity)

	// Memory
	OpAlloc    // fresh heap object; Type = ref T; refcount starts at 1
	OpLoad     // load from pointer; Args[0] = ptr
	OpStore    // store to pointer; Args[0] = ptr, Args[1] = val; void
	OpFieldPtr // &x.field; Args[0] = ref or ptr; AuxInt = field index

	// Enums
	OpMakeEnum    // build enum value; AuxInt = case; Args = payload (0 or 1)
	OpEnumTag     // case index of Args[0]
	OpEnumPayload // unchecked payload projection of Args[0]; AuxInt = case

	// Calls
	OpCall        // call of unknown function; Aux = callee name; Args = arguments
	OpBuiltin     // primitive operation; Aux = builtin name; Args = operands
	OpMakeClosure // closure allocation; Aux = *CaptureInfo; Args = captured values

	// Checks
	OpNilCheck // traps if Args[0] is nil
	OpCondFail // traps if Args[0] is true; void

	// Reference counting
	OpRetain       // strong increment of ref Args[0]; void
	OpRelease      // strong decrement of ref Args[0]; void
	OpRetainValue  // increment every reference held by value Args[0]; void
	OpReleaseValue // decrement every reference held by value Args[0]; void

	// Block parameter; lives in Block.Params, AuxInt = index
	OpParam

	// Terminators; the last value of every block
	OpBr          // goto Targets[0] passing its args
	OpCondBr      // if Args[0] goto Targets[0] else Targets[1]
	OpSwitchTag   // dispatch on the case of enum Args[0]
	OpReturn      // return Args
	OpUnreachable // control never reaches here

	opCount // sentinel; must be last
)

// RCKind classifies reference counting operations.
type RCKind uint8

const (
	RCNone RCKind = iota
	RCIncrement
	RCDecrement
)

// OpInfo holds metadata about an SSA operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // true if the op has no side effects and can be CSE'd/DCE'd
	IsVoid bool   // true if the op produces no value (Store, Retain, etc.)
	IsTerm bool   // true if the op ends a block
	RC     RCKind // reference count effect on Args[0]
}

// opInfoTable maps each Op to its OpInfo.
// Index by Op value.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst64:     {Name: "Const64", IsPure: true},
	OpConstBool:   {Name: "ConstBool", IsPure: true},
	OpConstString: {Name: "ConstString", IsPure: true},
	OpConstNil:    {Name: "ConstNil", IsPure: true},

	OpAdd64: {Name: "Add64", IsPure: true},
	OpSub64: {Name: "Sub64", IsPure: true},
	OpMul64: {Name: "Mul64", IsPure: true},
	OpNeg64: {Name: "Neg64", IsPure: true},

	OpEq64:  {Name: "Eq64", IsPure: true},
	OpNeq64: {Name: "Neq64", IsPure: true},
	OpLt64:  {Name: "Lt64", IsPure: true},
	OpLeq64: {Name: "Leq64", IsPure: true},
	OpEqPtr: {Name: "EqPtr", IsPure: true},

	OpNot:  {Name: "Not", IsPure: true},
	OpCopy: {Name: "Copy", IsPure: true},

	// Loads are ordered with respect to stores, so they are not pure.
	OpAlloc:    {Name: "Alloc"},
	OpLoad:     {Name: "Load"},
	OpStore:    {Name: "Store", IsVoid: true},
	OpFieldPtr: {Name: "FieldPtr", IsPure: true},

	OpMakeEnum:    {Name: "MakeEnum", IsPure: true},
	OpEnumTag:     {Name: "EnumTag", IsPure: true},
	OpEnumPayload: {Name: "EnumPayload", IsPure: true},

	// Builtin purity depends on the builtin; see Value.MayHaveSideEffects.
	OpCall:        {Name: "Call"},
	OpBuiltin:     {Name: "Builtin"},
	OpMakeClosure: {Name: "MakeClosure"},

	OpNilCheck: {Name: "NilCheck", IsVoid: true},
	OpCondFail: {Name: "CondFail", IsVoid: true},

	OpRetain:       {Name: "Retain", IsVoid: true, RC: RCIncrement},
	OpRelease:      {Name: "Release", IsVoid: true, RC: RCDecrement},
	OpRetainValue:  {Name: "RetainValue", IsVoid: true, RC: RCIncrement},
	OpReleaseValue: {Name: "ReleaseValue", IsVoid: true, RC: RCDecrement},

	OpParam: {Name: "Param", IsPure: true},

	OpBr:          {Name: "Br", IsVoid: true, IsTerm: true},
	OpCondBr:      {Name: "CondBr", IsVoid: true, IsTerm: true},
	OpSwitchTag:   {Name: "SwitchTag", IsVoid: true, IsTerm: true},
	OpReturn:      {Name: "Return", IsVoid: true, IsTerm: true},
	OpUnreachable: {Name: "Unreachable", IsVoid: true, IsTerm: true},
}

// opByName maps op names back to ops for the text parser.
var opByName = func() map[string]Op {
	m := make(map[string]Op, opCount)
	for op := OpInvalid + 1; op < opCount; op++ {
		m[opInfoTable[op].Name] = op
	}
	return m
}()

// LookupOp returns the op with the given name, or OpInvalid.
func LookupOp(name string) Op {
	return opByName[name]
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}

// IsTerminator returns true if this op ends a block.
func (o Op) IsTerminator() bool {
	return o.Info().IsTerm
}

// RC returns the reference count effect of the op.
func (o Op) RC() RCKind {
	return o.Info().RC
}

// numControls returns the number of leading operands of a terminator
// that are not block arguments. Return uses all operands; it reports -1.
func (o Op) numControls() int {
	switch o {
	case OpCondBr, OpSwitchTag:
		return 1
	case OpReturn:
		return -1
	}
	return 0
}
