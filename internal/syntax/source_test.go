package syntax

import (
	"strings"
	"testing"
)

func TestSourceBasic(t *testing.T) {
	src := newSource("test", strings.NewReader("abc"), nil)

	// First character should be 'a'
	if src.ch != 'a' {
		t.Errorf("initial ch = %q, want 'a'", src.ch)
	}
	if src.line != 1 || src.col != 1 {
		t.Errorf("initial pos = %d:%d, want 1:1", src.line, src.col)
	}

	// Next character 'b'
	src.nextch()
	if src.ch != 'b' {
		t.Errorf("ch = %q, want 'b'", src.ch)
	}
	if src.line != 1 || src.col != 2 {
		t.Errorf("pos = %d:%d, want 1:2", src.line, src.col)
	}

	// Next character 'c'
	src.nextch()
	if src.ch != 'c' {
		t.Errorf("ch = %q, want 'c'", src.ch)
	}
	if src.line != 1 || src.col != 3 {
		t.Errorf("pos = %d:%d, want 1:3", src.line, src.col)
	}

	// EOF
	src.nextch()
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

func TestSourceNewline(t *testing.T) {
	src := newSource("test", strings.NewReader("a\nb\nc"), nil)

	// 'a' at 1:1
	if src.ch != 'a' || src.line != 1 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='a' pos=1:1", src.ch, src.line, src.col)
	}

	// '\n' at 1:2
	src.nextch()
	if src.ch != '\n' || src.line != 1 || src.col != 2 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='\\n' pos=1:2", src.ch, src.line, src.col)
	}

	// 'b' at 2:1 (after newline)
	src.nextch()
	if src.ch != 'b' || src.line != 2 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='b' pos=2:1", src.ch, src.line, src.col)
	}

	// '\n' at 2:2
	src.nextch()
	if src.ch != '\n' || src.line != 2 || src.col != 2 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='\\n' pos=2:2", src.ch, src.line, src.col)
	}

	// 'c' at 3:1
	src.nextch()
	if src.ch != 'c' || src.line != 3 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='c' pos=3:1", src.ch, src.line, src.col)
	}
}

func TestSourceUTF8(t *testing.T) {
	// Test multi-byte UTF-8 characters
	src := newSource("test", strings.NewReader("a中b"), nil)

	// 'a' at col 1
	if src.ch != 'a' {
		t.Errorf("ch = %q, want 'a'", src.ch)
	}

	// '中' (3 bytes in UTF-8) at col 2
	src.nextch()
	if src.ch != '中' {
		t.Errorf("ch = %q, want '中'", src.ch)
	}
	if src.col != 2 {
		t.Errorf("col = %d, want 2", src.col)
	}

	// 'b' at col 3 (column is character count, not byte offset)
	src.nextch()
	if src.ch != 'b' {
		t.Errorf("ch = %q, want 'b'", src.ch)
	}
	if src.col != 3 {
		t.Errorf("col = %d, want 3", src.col)
	}
}

func TestSourceEmpty(t *testing.T) {
	src := newSource("test", strings.NewReader(""), nil)

	// Empty source should immediately be at EOF
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

func TestSourcePos(t *testing.T) {
	src := newSource("test.ssa", strings.NewReader("ab"), nil)

	pos := src.pos()
	if pos.Line() != 1 || pos.Col() != 1 || pos.Filename() != "test.ssa" {
		t.Errorf("pos = %v, want test.ssa:1:1", pos)
	}

	src.nextch()
	pos = src.pos()
	if pos.Line() != 1 || pos.Col() != 2 {
		t.Errorf("pos = %v, want 1:2", pos)
	}
}

func TestSourceError(t *testing.T) {
	var errMsg string
	var errLine, errCol uint32

	errh := func(line, col uint32, msg string) {
		errLine = line
		errCol = col
		errMsg = msg
	}

	src := newSource("test", strings.NewReader("a"), errh)
	src.error("test error")

	if errMsg != "test error" {
		t.Errorf("error message = %q, want %q", errMsg, "test error")
	}
	if errLine != 1 || errCol != 1 {
		t.Errorf("error pos = %d:%d, want 1:1", errLine, errCol)
	}
}

func TestSourceErrorNilHandler(t *testing.T) {
	// Should not panic with nil error handler
	src := newSource("test", strings.NewReader("a"), nil)
	src.error("test error") // Should not panic
}

func TestCharClasses(t *testing.T) {
	classes := []struct {
		name string
		fn   func(rune) bool
		yes  string
		no   string
	}{
		{"isLetter", isLetter, "azAZ_", "09 \n+中"},
		{"isDigit", isDigit, "0159", "aZ +"},
		{"isHexDigit", isHexDigit, "09afAF", "gGz +"},
		{"isWhitespace", isWhitespace, " \t\r", "\na0"},
		{"isOperatorStart", isOperatorStart, "-*/@<>=:()[]{},;", "a0 \n+%.#$"},
	}
	for _, c := range classes {
		for _, r := range c.yes {
			if !c.fn(r) {
				t.Errorf("%s(%q) = false, want true", c.name, r)
			}
		}
		for _, r := range c.no {
			if c.fn(r) {
				t.Errorf("%s(%q) = true, want false", c.name, r)
			}
		}
	}

	for in, want := range map[rune]rune{'A': 'a', 'Z': 'z', 'a': 'a', '0': '0'} {
		if got := lower(in); got != want {
			t.Errorf("lower(%q) = %q, want %q", in, got, want)
		}
	}
}
