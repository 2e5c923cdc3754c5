// Package syntax implements lexical analysis for the textual SSA form.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of file
	_Error              // lexical error

	// Literals
	_Name    // identifier: v12, b3, RetainValue, some
	_Literal // literal value (used with LitKind)

	// Operators
	_Assign // =
	_Lss    // <
	_Gtr    // >
	_Arrow  // ->
	_Larrow // <-
	_Sub    // -
	_Star   // *
	_At     // @

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ; or newline
	_Colon  // :

	// Keywords
	_Enum
	_Func
	_Ref
	_Type

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",
	_Lss:    "<",
	_Gtr:    ">",
	_Arrow:  "->",
	_Larrow: "<-",
	_Sub:    "-",
	_Star:   "*",
	_At:     "@",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",

	_Enum: "enum",
	_Func: "func",
	_Ref:  "ref",
	_Type: "type",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Enum && t <= _Type
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _At
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// Exported tokens for the SSA text parser.
const (
	EOF     Token = _EOF
	Name    Token = _Name
	Literal Token = _Literal
	Assign  Token = _Assign
	Lss     Token = _Lss
	Gtr     Token = _Gtr
	Arrow   Token = _Arrow
	Larrow  Token = _Larrow
	Sub     Token = _Sub
	Star    Token = _Star
	At      Token = _At
	Lparen  Token = _Lparen
	Rparen  Token = _Rparen
	Lbrack  Token = _Lbrack
	Rbrack  Token = _Rbrack
	Lbrace  Token = _Lbrace
	Rbrace  Token = _Rbrace
	Comma   Token = _Comma
	Semi    Token = _Semi
	Colon   Token = _Colon
	Enum    Token = _Enum
	Func    Token = _Func
	Ref     Token = _Ref
	Type    Token = _Type
)

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 123, 0x1F
	StringLit                // "hello", "line\n"
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	IntLit:    "int",
	StringLit: "string",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= StringLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// Op names, type names (int, bool, ...) and block/value names are
// scanned as _Name; the parser gives them meaning.
var keywords = map[string]Token{
	"enum": _Enum,
	"func": _Func,
	"ref":  _Ref,
	"type": _Type,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
