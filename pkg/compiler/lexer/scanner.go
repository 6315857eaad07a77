package lexer

import (
	"unicode"
	"unicode/utf8"
)

// Scanner performs lexical analysis on bitlogic source.
//
// Scanning is permissive: bytes that start no production are skipped
// without error, and detection of malformed programs is left to the parser.
type Scanner struct {
	source []byte
	cursor int
	line   int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source []byte) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Reset re-initializes the scanner with new source.
func (s *Scanner) Reset(source []byte) {
	s.source = source
	s.cursor = 0
	s.line = 1
}

// Tokenize scans the whole source and returns its tokens in order, without
// the trailing EOF token.
func Tokenize(source []byte) []Token {
	s := NewScanner(source)
	var toks []Token
	for {
		tok := s.Next()
		if tok.Kind == KindEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

var keywords = []string{"fn", "in", "out", "gb", "nor", "rt"}

var operators = []string{"and", "or", "xor", "not", "nand", "nor", "xnor"}

// Next returns the next token from the source.
func (s *Scanner) Next() Token {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]

		switch {
		case ch == '\n':
			s.line++
			s.cursor++
			continue
		case ch == ' ' || ch == '\t' || ch == '\r':
			s.cursor++
			continue
		case ch == '/' && s.peek() == '/':
			s.skipComment()
			continue
		}

		if n := s.match(); n > 0 {
			start := s.cursor
			s.cursor += n
			text := string(s.source[start:s.cursor])
			return Token{Kind: classify(text), Text: text, Line: uint32(s.line)}
		}

		// Nothing starts here; drop the character.
		_, size := utf8.DecodeRune(s.source[s.cursor:])
		s.cursor += size
	}

	return Token{Kind: KindEOF, Line: uint32(s.line)}
}

// match returns the length of the first production matching at the cursor,
// or 0 when none does. Productions are tried in priority order.
func (s *Scanner) match() int {
	if n := s.matchWord(keywords); n > 0 {
		return n
	}
	for _, prefix := range []string{"0x", "fx", "1x"} {
		if n := s.matchPrefixed(prefix); n > 0 {
			return n
		}
	}
	if n := s.matchDigits(); n > 0 {
		return n
	}
	if s.source[s.cursor] == '=' && s.cursor+1 < len(s.source) && s.wordAt(s.cursor+1) {
		return 1
	}
	if n := s.matchWord(operators); n > 0 {
		return n
	}
	switch s.source[s.cursor] {
	case ';', '#', '{', '}':
		return 1
	}
	return 0
}

// matchWord matches one of words delimited by word boundaries on both sides.
func (s *Scanner) matchWord(words []string) int {
	if !s.boundary(s.cursor) {
		return 0
	}
	for _, w := range words {
		end := s.cursor + len(w)
		if end <= len(s.source) && string(s.source[s.cursor:end]) == w && s.boundary(end) {
			return len(w)
		}
	}
	return 0
}

// matchPrefixed matches prefix followed by hex digits ending on a word
// boundary.
func (s *Scanner) matchPrefixed(prefix string) int {
	end := s.cursor + len(prefix)
	if end > len(s.source) || string(s.source[s.cursor:end]) != prefix {
		return 0
	}
	digits := end
	for digits < len(s.source) && isHexDigit(s.source[digits]) {
		digits++
	}
	if digits == end || !s.boundary(digits) {
		return 0
	}
	return digits - s.cursor
}

func (s *Scanner) matchDigits() int {
	end := s.cursor
	for end < len(s.source) && isDigit(s.source[end]) {
		end++
	}
	if end == s.cursor || !s.boundary(end) {
		return 0
	}
	return end - s.cursor
}

// boundary reports whether a word boundary lies before source[i]. Word
// characters are Unicode letters, digits and '_'.
func (s *Scanner) boundary(i int) bool {
	before := false
	if i > 0 {
		r, _ := utf8.DecodeLastRune(s.source[:i])
		before = isWord(r)
	}
	return before != s.wordAt(i)
}

// wordAt reports whether a word character starts at source[i].
func (s *Scanner) wordAt(i int) bool {
	if i >= len(s.source) {
		return false
	}
	r, _ := utf8.DecodeRune(s.source[i:])
	return isWord(r)
}

func (s *Scanner) skipComment() {
	for s.cursor < len(s.source) && s.source[s.cursor] != '\n' {
		s.cursor++
	}
}

func (s *Scanner) peek() byte {
	if s.cursor+1 >= len(s.source) {
		return 0
	}
	return s.source[s.cursor+1]
}

func classify(text string) Kind {
	switch {
	case len(text) > 2 && text[:2] == "0x":
		return KindHex
	case len(text) > 2 && text[:2] == "fx":
		return KindFnName
	case len(text) > 2 && text[:2] == "1x":
		return KindCallName
	}

	switch text {
	case "in":
		return KindInput
	case "out":
		return KindOutput
	case "#":
		return KindEnd
	case "0", "1":
		return KindBit
	case ";":
		return KindSemicolon
	case "{":
		return KindLBrace
	case "}":
		return KindRBrace
	case "fn":
		return KindFnKeyword
	case "gb":
		return KindGlobal
	case "rt":
		return KindReturn
	}

	for _, op := range operators {
		if text == op {
			return KindOperator
		}
	}
	return KindRaw
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
