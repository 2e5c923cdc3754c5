package syntax

import (
	"strings"
	"testing"
)

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
		lits   []string
	}{
		// Identifiers (a statement ends at EOF)
		{"ident", "foo", []Token{_Name, _Semi}, []string{"foo", "EOF"}},
		{"ident_underscore", "_bar", []Token{_Name, _Semi}, []string{"_bar", "EOF"}},
		{"value_name", "v12", []Token{_Name, _Semi}, []string{"v12", "EOF"}},
		{"op_name", "RetainValue", []Token{_Name, _Semi}, []string{"RetainValue", "EOF"}},

		// Keywords
		{"kw_func", "func", []Token{_Func, _Semi}, []string{"func", "EOF"}},
		{"kw_type", "type", []Token{_Type, _Semi}, []string{"type", "EOF"}},
		{"kw_ref", "ref", []Token{_Ref, _Semi}, []string{"ref", "EOF"}},
		{"kw_enum", "enum", []Token{_Enum, _Semi}, []string{"enum", "EOF"}},

		// Integer literals
		{"int_dec", "123", []Token{_Literal, _Semi}, []string{"123", "EOF"}},
		{"int_zero", "0", []Token{_Literal, _Semi}, []string{"0", "EOF"}},
		{"int_hex", "0x1f", []Token{_Literal, _Semi}, []string{"0x1f", "EOF"}},
		{"int_neg", "-7", []Token{_Sub, _Literal, _Semi}, []string{"-", "7", "EOF"}},

		// String literals (decoded content)
		{"string_simple", `"hello"`, []Token{_Literal, _Semi}, []string{"hello", "EOF"}},
		{"string_empty", `""`, []Token{_Literal, _Semi}, []string{"", "EOF"}},
		{"string_escape_n", `"a\nb"`, []Token{_Literal, _Semi}, []string{"a\nb", "EOF"}},
		{"string_escape_quote", `"a\"b"`, []Token{_Literal, _Semi}, []string{"a\"b", "EOF"}},
		{"string_escape_hex", `"\x41\x42"`, []Token{_Literal, _Semi}, []string{"AB", "EOF"}},

		// Operators and delimiters
		{"arrow", "->", []Token{_Arrow, _Semi}, []string{"->", "EOF"}},
		{"larrow", "<-", []Token{_Larrow, _Semi}, []string{"<-", "EOF"}},
		{"type_brackets", "<int>", []Token{_Lss, _Name, _Gtr, _Semi}, []string{"<", "int", ">", "EOF"}},
		{"auxint", "[3]", []Token{_Lbrack, _Literal, _Rbrack, _Semi}, []string{"[", "3", "]", "EOF"}},
		{"aux", "{add}", []Token{_Lbrace, _Name, _Rbrace, _Semi}, []string{"{", "add", "}", "EOF"}},
		{"pointer", "*int", []Token{_Star, _Name, _Semi}, []string{"*", "int", "EOF"}},
		{"global", "@g", []Token{_At, _Name, _Semi}, []string{"@", "g", "EOF"}},
		{"explicit_semi", "a; b", []Token{_Name, _Semi, _Name, _Semi}, []string{"a", ";", "b", "EOF"}},

		// Whitespace and comments
		{"whitespace_mixed", " \t a \t ", []Token{_Name, _Semi}, []string{"a", "EOF"}},
		{"comment_only", "// nothing here", nil, nil},
		{"comment_after", "a // trailing", []Token{_Name, _Semi}, []string{"a", "EOF"}},
		{"blank_lines", "\n\n\na\n\n", []Token{_Name, _Semi}, []string{"a", "newline"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner("test", strings.NewReader(tt.src), nil)
			for i, wantTok := range tt.tokens {
				s.Next()
				if s.Token() != wantTok {
					t.Errorf("token %d: got %v, want %v", i, s.Token(), wantTok)
				}
				if tt.lits != nil && tt.lits[i] != "" {
					if s.Literal() != tt.lits[i] {
						t.Errorf("literal %d: got %q, want %q", i, s.Literal(), tt.lits[i])
					}
				}
			}
			s.Next()
			if !s.Token().IsEOF() {
				t.Errorf("expected EOF, got %v %q", s.Token(), s.Literal())
			}
		})
	}
}

func TestScanLitKind(t *testing.T) {
	tests := []struct {
		src  string
		kind LitKind
	}{
		{"123", IntLit},
		{"0x1F", IntLit},
		{`"hello"`, StringLit},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := NewScanner("test", strings.NewReader(tt.src), nil)
			s.Next()
			if s.Token() != _Literal {
				t.Fatalf("expected _Literal, got %v", s.Token())
			}
			if s.LitKind() != tt.kind {
				t.Errorf("LitKind = %v, want %v", s.LitKind(), tt.kind)
			}
		})
	}
}

func TestStatementEnds(t *testing.T) {
	src := "func f:\n\n  b0: (entry)\n    Return\n"
	want := []Token{
		_Func, _Name, _Colon, _Semi,
		_Name, _Colon, _Lparen, _Name, _Rparen, _Semi,
		_Name, _Semi,
	}

	s := NewScanner("test", strings.NewReader(src), nil)
	for i, wantTok := range want {
		s.Next()
		if s.Token() != wantTok {
			t.Errorf("token %d: got %v, want %v", i, s.Token(), wantTok)
		}
	}
	s.Next()
	if !s.Token().IsEOF() {
		t.Errorf("expected EOF, got %v", s.Token())
	}
}

func TestPosition(t *testing.T) {
	src := `func f:
  b0(v0 int): (entry)
    Return v0`

	expected := []struct {
		tok  Token
		line uint32
		col  uint32
	}{
		{_Func, 1, 1},
		{_Name, 1, 6},   // f
		{_Colon, 1, 7},  // :
		{_Semi, 1, 8},   // newline
		{_Name, 2, 3},   // b0
		{_Lparen, 2, 5}, // (
		{_Name, 2, 6},   // v0
		{_Name, 2, 9},   // int
		{_Rparen, 2, 12},
		{_Colon, 2, 13},
		{_Lparen, 2, 15},
		{_Name, 2, 16}, // entry
		{_Rparen, 2, 21},
		{_Semi, 2, 22},
		{_Name, 3, 5},  // Return
		{_Name, 3, 12}, // v0
		{_Semi, 3, 14}, // EOF
	}

	s := NewScanner("test.ssa", strings.NewReader(src), nil)
	for i, exp := range expected {
		s.Next()
		pos := s.Pos()
		if s.Token() != exp.tok {
			t.Errorf("token %d: got %v, want %v", i, s.Token(), exp.tok)
		}
		if pos.Line() != exp.line || pos.Col() != exp.col {
			t.Errorf("token %d (%v): pos = %d:%d, want %d:%d",
				i, s.Token(), pos.Line(), pos.Col(), exp.line, exp.col)
		}
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"unterminated_string", `"hello`, "string not terminated"},
		{"bad_escape", `"\q"`, "unknown escape sequence"},
		{"bad_hex_escape", `"\xGG"`, "invalid hex escape"},
		{"bad_hex_literal", "0xGG", "invalid hex digit"},
		{"bad_number", "12ab", "invalid character"},
		{"lone_slash", "/", "unexpected '/'"},
		{"bad_char_plus", "+", "unexpected character"},
		{"bad_char_hash", "#", "unexpected character"},
		{"bad_char_dollar", "$", "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errMsg string
			errh := func(line, col uint32, msg string) {
				if errMsg == "" { // capture first error only
					errMsg = msg
				}
			}
			s := NewScanner("test", strings.NewReader(tt.src), errh)
			for {
				s.Next()
				if s.Token().IsEOF() {
					break
				}
			}
			if errMsg == "" {
				t.Errorf("expected error containing %q, got no error", tt.wantErr)
			} else if !strings.Contains(errMsg, tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, errMsg)
			}
		})
	}
}

func TestCompleteFunc(t *testing.T) {
	src := `type Opt enum { some(ref int), none }

func f:
  b0(v0 Opt): (entry)
    RetainValue v0
    SwitchTag v0 -> some:b1 none:b2
`
	expected := []Token{
		_Type, _Name, _Enum, _Lbrace, _Name, _Lparen, _Ref, _Name, _Rparen, _Comma, _Name, _Rbrace, _Semi,
		_Func, _Name, _Colon, _Semi,
		_Name, _Lparen, _Name, _Name, _Rparen, _Colon, _Lparen, _Name, _Rparen, _Semi,
		_Name, _Name, _Semi,
		_Name, _Name, _Arrow, _Name, _Colon, _Name, _Name, _Colon, _Name, _Semi,
		_EOF,
	}

	s := NewScanner("test.ssa", strings.NewReader(src), nil)
	for i, wantTok := range expected {
		s.Next()
		if s.Token() != wantTok {
			t.Errorf("token %d: got %v, want %v", i, s.Token(), wantTok)
		}
	}
}

func FuzzScanner(f *testing.F) {
	seeds := []string{
		"func f:",
		"  b0(v0 int): (entry)",
		"    v2 = Const64 <int> [-1]",
		`    v3 = ConstString <string> {"a b"}`,
		"    CondBr v1 -> b1(v2) b2()",
		"type T enum { a(ref int), b }",
		"// comment\nfoo",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		errh := func(line, col uint32, msg string) {}
		s := NewScanner("fuzz", strings.NewReader(src), errh)
		for i := 0; i < 10000; i++ {
			s.Next()
			if s.Token().IsEOF() {
				break
			}
		}
	})
}
