package syntax

import (
	"io"
	"unicode/utf8"
)

// source reads a whole .ssa file into memory and hands it out one rune
// at a time. (line, col) is the position of ch; col counts bytes.
type source struct {
	buf  []byte
	offs int // offset of the rune after ch

	filename  string
	line, col uint32

	ch rune // -1 at EOF and before the first nextch

	errh func(line, col uint32, msg string) // may be nil
}

func newSource(filename string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		ch:       -1,
		errh:     errh,
	}

	buf, err := io.ReadAll(src)
	if err != nil {
		s.error("error reading source file: " + err.Error())
		return s
	}
	s.buf = buf

	s.nextch()
	return s
}

// nextch advances to the next rune. The position moves past the old ch
// first, so a newline bumps the line of the rune after it.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, w := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && w == 1 {
		s.error("invalid UTF-8 encoding")
	}
	s.ch = r
	s.offs += w
}

func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// error reports msg at the position of ch.
func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

// lower maps an ASCII upper case letter to lower case. The result is
// only meaningful when compared against letters.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// isWhitespace excludes '\n', which ends a statement.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

func isOperatorStart(r rune) bool {
	switch r {
	case '-', '*', '/', '@', '<', '>', '=', ':',
		'(', ')', '[', ']', '{', '}', ',', ';':
		return true
	}
	return false
}
