package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis on textual SSA.
//
// The text form is line oriented: every non-empty line is one statement,
// so the scanner reports a _Semi token at each newline (and at EOF) that
// follows a token on the same line. Blank lines and comment-only lines
// produce nothing.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token   // token type
	lit    string  // token literal (identifier name, number, string content)
	kind   LitKind // literal kind (only valid when tok == _Literal)
	tokPos Pos     // token start position

	// nlsemi is set once the current line has produced a token.
	nlsemi bool

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{
		source: *newSource(filename, src, errh),
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
	nlsemi := s.nlsemi
	s.nlsemi = false

redo:
	s.skipWhitespace()

	if nlsemi && (s.ch == '\n' || s.ch < 0) {
		s.tokPos = s.pos()
		s.tok = _Semi
		if s.ch == '\n' {
			s.lit = "newline"
			s.nextch()
		} else {
			s.lit = "EOF"
		}
		return
	}

	if s.ch == '\n' {
		s.nextch()
		goto redo
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""
		return

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}

	// An explicit ';' already ends the statement.
	s.nlsemi = s.tok != _Semi
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// skipWhitespace skips space, tab, and carriage return.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}

	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a decimal or hexadecimal integer literal.
// Negative numbers are scanned as _Sub followed by a literal.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.kind = IntLit
	s.tok = _Literal

	if s.ch == '0' {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		if lower(s.ch) == 'x' {
			s.litBuf.WriteRune(s.ch)
			s.nextch()
			if !isHexDigit(s.ch) {
				s.error("invalid hex digit")
			}
			for isHexDigit(s.ch) {
				s.litBuf.WriteRune(s.ch)
				s.nextch()
			}
			s.lit = s.litBuf.String()
			return
		}
	}
	for isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	if isLetter(s.ch) {
		s.error(fmt.Sprintf("invalid character %q in number", s.ch))
	}
	s.lit = s.litBuf.String()
}

// scanString scans a string literal.
// The resulting literal is the decoded string content (escape sequences are interpreted).
func (s *Scanner) scanString() {
	s.nextch() // skip opening "
	var b strings.Builder

	s.tok = _Literal
	s.kind = StringLit
	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = b.String()
			return

		case s.ch == '\\':
			if r, ok := s.scanEscape(); ok {
				b.WriteRune(r)
			}

		case s.ch == '\n' || s.ch < 0:
			s.error("string not terminated")
			s.lit = b.String()
			return

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanEscape scans an escape sequence and returns the decoded rune.
// It accepts the escapes produced by strconv.Quote for ASCII text.
func (s *Scanner) scanEscape() (rune, bool) {
	s.nextch() // skip \

	switch s.ch {
	case 'n':
		s.nextch()
		return '\n', true
	case 't':
		s.nextch()
		return '\t', true
	case 'r':
		s.nextch()
		return '\r', true
	case '\\':
		s.nextch()
		return '\\', true
	case '"':
		s.nextch()
		return '"', true
	case 'x':
		s.nextch()
		return s.scanHexEscape()
	default:
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
		return 0, false
	}
}

// scanHexEscape scans a \xNN escape sequence.
func (s *Scanner) scanHexEscape() (rune, bool) {
	var val rune
	for i := 0; i < 2; i++ {
		if !isHexDigit(s.ch) {
			s.error("invalid hex escape")
			return 0, false
		}
		val = val*16 + hexValue(s.ch)
		s.nextch()
	}
	return val, true
}

// hexValue returns the numeric value of a hex digit.
func hexValue(r rune) rune {
	switch {
	case '0' <= r && r <= '9':
		return r - '0'
	case 'a' <= lower(r) && lower(r) <= 'f':
		return lower(r) - 'a' + 10
	}
	return 0
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '-':
		if s.ch == '>' {
			s.nextch()
			s.tok = _Arrow
			s.lit = "->"
		} else {
			s.tok = _Sub
			s.lit = "-"
		}
	case '<':
		if s.ch == '-' {
			s.nextch()
			s.tok = _Larrow
			s.lit = "<-"
		} else {
			s.tok = _Lss
			s.lit = "<"
		}
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return true
		}
		s.error("unexpected '/'")
		return true
	case '*':
		s.tok = _Star
		s.lit = "*"
	case '@':
		s.tok = _At
		s.lit = "@"
	case '>':
		s.tok = _Gtr
		s.lit = ">"
	case '=':
		s.tok = _Assign
		s.lit = "="
	case ':':
		s.tok = _Colon
		s.lit = ":"
	case '(':
		s.tok = _Lparen
		s.lit = "("
	case ')':
		s.tok = _Rparen
		s.lit = ")"
	case '[':
		s.tok = _Lbrack
		s.lit = "["
	case ']':
		s.tok = _Rbrack
		s.lit = "]"
	case '{':
		s.tok = _Lbrace
		s.lit = "{"
	case '}':
		s.tok = _Rbrace
		s.lit = "}"
	case ',':
		s.tok = _Comma
		s.lit = ","
	case ';':
		s.tok = _Semi
		s.lit = ";"
	}

	return false
}

// skipLineComment skips a line comment (from // to end of line).
// The newline itself is left for Next, which may turn it into a _Semi.
func (s *Scanner) skipLineComment() {
	// Already consumed the first /
	s.nextch()
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
