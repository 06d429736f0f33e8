// Package scan implements the lexical half of the parsing engine: it turns
// SQL source bytes into the token stream consumed by the grammar and by the
// boundary's scan operation.
//
// The scanner follows the server's lexeme rules: case-folded identifiers,
// doubled-quote escapes, extended and dollar-quoted strings, nested block
// comments, radix and underscore-separated numeric literals, and the
// multi-character operator termination rules. Conditions the scanner cannot
// recover from are raised through pgerr and must be caught by the boundary's
// recovery region; non-fatal findings are written to the diagnostic sink.
package scan

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/token"
)

// Identifiers longer than this many bytes are truncated, as the server
// truncates names to NAMEDATALEN-1.
const maxIdentLen = 63

// Scanner tokenizes one SQL text. It is single-use and not safe for
// concurrent access; every call builds its own.
type Scanner struct {
	src  string
	pos  int
	diag io.Writer
}

// New returns a scanner over src. Non-fatal diagnostics are written to
// diag, which may be nil.
func New(src string, diag io.Writer) *Scanner {
	return &Scanner{src: src, diag: diag}
}

// All scans the whole source and returns its tokens in order, comments
// included. The terminating EOF is not part of the result.
func (s *Scanner) All() []token.Token {
	var toks []token.Token
	for {
		tok := s.Next()
		if tok.Type == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// Next returns the next token, or an EOF token at the end of the source.
func (s *Scanner) Next() token.Token {
	s.skipSpace()
	start := s.pos

	c := s.cur()
	switch {
	case c == 0 && s.eof():
		return token.Token{Type: token.EOF, Start: int32(start), End: int32(start)}
	case c == '-' && s.at(1) == '-':
		return s.lineComment(start)
	case c == '/' && s.at(1) == '*':
		return s.blockComment(start)
	case isDigit(c) || (c == '.' && isDigit(s.at(1))):
		return s.number(start)
	case c == '\'':
		return s.standardString(start)
	case (c == 'e' || c == 'E') && s.at(1) == '\'':
		return s.extendedString(start)
	case (c == 'b' || c == 'B') && s.at(1) == '\'':
		return s.bitString(start, token.BConst)
	case (c == 'x' || c == 'X') && s.at(1) == '\'':
		return s.bitString(start, token.XConst)
	case c == '"':
		return s.quotedIdent(start)
	case c == '$':
		return s.dollar(start)
	case isIdentStart(c):
		return s.identifier(start)
	case c == '.':
		if s.at(1) == '.' {
			s.pos += 2
			return s.tok(token.DotDot, start)
		}
		s.pos++
		return s.tok(token.Type('.'), start)
	case c == ':':
		switch s.at(1) {
		case ':':
			s.pos += 2
			return s.tok(token.Typecast, start)
		case '=':
			s.pos += 2
			return s.tok(token.ColonEquals, start)
		}
		s.pos++
		return s.tok(token.Type(':'), start)
	case isOpChar(c):
		return s.operator(start)
	case c == '(' || c == ')' || c == '[' || c == ']' || c == ',' || c == ';':
		s.pos++
		return s.tok(token.Type(c), start)
	default:
		// Unknown byte: hand it to the grammar as a single-character token
		// so the syntax error points at it.
		s.pos++
		return s.tok(token.Type(c), start)
	}
}

func (s *Scanner) tok(t token.Type, start int) token.Token {
	return token.Token{Type: t, Start: int32(start), End: int32(s.pos)}
}

func (s *Scanner) valueTok(t token.Type, start int, value string) token.Token {
	return token.Token{Type: t, Start: int32(start), End: int32(s.pos), Value: value}
}

func (s *Scanner) cur() byte {
	if s.pos < len(s.src) {
		return s.src[s.pos]
	}
	return 0
}

func (s *Scanner) at(off int) byte {
	if i := s.pos + off; i < len(s.src) {
		return s.src[i]
	}
	return 0
}

func (s *Scanner) eof() bool { return s.pos >= len(s.src) }

func (s *Scanner) skipSpace() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			s.pos++
		default:
			return
		}
	}
}

func (s *Scanner) lineComment(start int) token.Token {
	for !s.eof() && s.src[s.pos] != '\n' {
		s.pos++
	}
	return s.tok(token.SQLComment, start)
}

func (s *Scanner) blockComment(start int) token.Token {
	s.pos += 2
	depth := 1
	for depth > 0 {
		if s.pos+1 >= len(s.src) {
			pgerr.ReportAt(start, "unterminated /* comment")
		}
		switch {
		case s.src[s.pos] == '/' && s.src[s.pos+1] == '*':
			depth++
			s.pos += 2
		case s.src[s.pos] == '*' && s.src[s.pos+1] == '/':
			depth--
			s.pos += 2
		default:
			s.pos++
		}
	}
	return s.tok(token.CComment, start)
}

func (s *Scanner) identifier(start int) token.Token {
	for isIdentCont(s.cur()) {
		s.pos++
	}
	word := downcase(s.src[start:s.pos])
	if t, ok := token.Lookup(word); ok {
		return s.valueTok(t, start, word)
	}
	return s.valueTok(token.Ident, start, s.truncateIdent(word))
}

func (s *Scanner) quotedIdent(start int) token.Token {
	s.pos++
	var sb strings.Builder
	for {
		if s.eof() {
			pgerr.ReportAt(start, "unterminated quoted identifier")
		}
		c := s.src[s.pos]
		if c == '"' {
			if s.at(1) == '"' {
				sb.WriteByte('"')
				s.pos += 2
				continue
			}
			s.pos++
			break
		}
		sb.WriteByte(c)
		s.pos++
	}
	if sb.Len() == 0 {
		pgerr.ReportAt(start, "zero-length delimited identifier at or near %q", s.src[start:s.pos])
	}
	return s.valueTok(token.Ident, start, s.truncateIdent(sb.String()))
}

func (s *Scanner) truncateIdent(name string) string {
	if len(name) <= maxIdentLen {
		return name
	}
	trunc := name[:maxIdentLen]
	// Never cut a multi-byte sequence in half.
	for len(trunc) > 0 && !utf8.ValidString(trunc) {
		trunc = trunc[:len(trunc)-1]
	}
	pgerr.Noticef(s.diag, "identifier %q will be truncated to %q", name, trunc)
	return trunc
}

func (s *Scanner) standardString(start int) token.Token {
	s.pos++
	var sb strings.Builder
	warned := false
	for {
		if s.eof() {
			pgerr.ReportAt(start, "unterminated quoted string")
		}
		c := s.src[s.pos]
		switch c {
		case '\'':
			if s.at(1) == '\'' {
				sb.WriteByte('\'')
				s.pos += 2
				continue
			}
			s.pos++
			return s.valueTok(token.SConst, start, sb.String())
		case '\\':
			// With standard-conforming strings a backslash is an ordinary
			// character, but flag it once since the intent is usually an
			// escape.
			if !warned {
				pgerr.Warnf(s.diag, `nonstandard use of \\ in a string literal`)
				warned = true
			}
			sb.WriteByte(c)
			s.pos++
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}
}

func (s *Scanner) extendedString(start int) token.Token {
	s.pos += 2
	var sb strings.Builder
	for {
		if s.eof() {
			pgerr.ReportAt(start, "unterminated quoted string")
		}
		c := s.src[s.pos]
		switch c {
		case '\'':
			if s.at(1) == '\'' {
				sb.WriteByte('\'')
				s.pos += 2
				continue
			}
			s.pos++
			return s.valueTok(token.SConst, start, sb.String())
		case '\\':
			s.escape(&sb, start)
		default:
			sb.WriteByte(c)
			s.pos++
		}
	}
}

// escape consumes one backslash escape inside an extended string.
func (s *Scanner) escape(sb *strings.Builder, start int) {
	s.pos++
	if s.eof() {
		pgerr.ReportAt(start, "unterminated quoted string")
	}
	c := s.src[s.pos]
	switch c {
	case 'b':
		sb.WriteByte('\b')
		s.pos++
	case 'f':
		sb.WriteByte('\f')
		s.pos++
	case 'n':
		sb.WriteByte('\n')
		s.pos++
	case 'r':
		sb.WriteByte('\r')
		s.pos++
	case 't':
		sb.WriteByte('\t')
		s.pos++
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := 0
		for n := 0; n < 3 && isOctDigit(s.cur()); n++ {
			v = v<<3 | int(s.src[s.pos]-'0')
			s.pos++
		}
		sb.WriteByte(byte(v))
	case 'x':
		s.pos++
		v, n := 0, 0
		for ; n < 2 && isHexDigit(s.cur()); n++ {
			v = v<<4 | hexVal(s.src[s.pos])
			s.pos++
		}
		if n == 0 {
			// \x with no digits is a literal x, matching the server.
			sb.WriteByte('x')
			break
		}
		sb.WriteByte(byte(v))
	case 'u', 'U':
		s.unicodeEscape(sb, start)
	default:
		sb.WriteByte(c)
		s.pos++
	}
}

func (s *Scanner) unicodeEscape(sb *strings.Builder, start int) {
	r := s.hexRune(start)
	if utf16IsHighSurrogate(r) {
		if !(s.cur() == '\\' && (s.at(1) == 'u' || s.at(1) == 'U')) {
			pgerr.ReportAt(start, "invalid Unicode surrogate pair")
		}
		s.pos++
		lo := s.hexRune(start)
		if !utf16IsLowSurrogate(lo) {
			pgerr.ReportAt(start, "invalid Unicode surrogate pair")
		}
		r = 0x10000 + (r-0xD800)<<10 + (lo - 0xDC00)
	} else if utf16IsLowSurrogate(r) {
		pgerr.ReportAt(start, "invalid Unicode surrogate pair")
	}
	if !utf8.ValidRune(r) {
		pgerr.ReportAt(start, "invalid Unicode escape value")
	}
	sb.WriteRune(r)
}

// hexRune reads the digits of a \uXXXX or \UXXXXXXXX escape, positioned on
// the u/U.
func (s *Scanner) hexRune(start int) rune {
	width := 4
	if s.src[s.pos] == 'U' {
		width = 8
	}
	s.pos++
	v := rune(0)
	for n := 0; n < width; n++ {
		if !isHexDigit(s.cur()) {
			pgerr.ReportAt(start, "invalid Unicode escape")
		}
		v = v<<4 | rune(hexVal(s.src[s.pos]))
		s.pos++
	}
	return v
}

func utf16IsHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }
func utf16IsLowSurrogate(r rune) bool  { return r >= 0xDC00 && r <= 0xDFFF }

func (s *Scanner) bitString(start int, t token.Type) token.Token {
	s.pos += 2
	bodyStart := s.pos
	for {
		if s.eof() {
			pgerr.ReportAt(start, "unterminated bit string literal")
		}
		if s.src[s.pos] == '\'' {
			break
		}
		s.pos++
	}
	body := s.src[bodyStart:s.pos]
	s.pos++
	for i := 0; i < len(body); i++ {
		c := body[i]
		if t == token.BConst && c != '0' && c != '1' {
			pgerr.ReportAt(start, "%q is not a valid binary digit", string(c))
		}
		if t == token.XConst && !isHexDigit(c) {
			pgerr.ReportAt(start, "%q is not a valid hexadecimal digit", string(c))
		}
	}
	return s.valueTok(t, start, body)
}

func (s *Scanner) dollar(start int) token.Token {
	if isDigit(s.at(1)) {
		s.pos++
		numStart := s.pos
		for isDigit(s.cur()) {
			s.pos++
		}
		return s.valueTok(token.Param, start, s.src[numStart:s.pos])
	}
	// A dollar-quote delimiter is $tag$ where the tag is empty or an
	// identifier-shaped word.
	j := s.pos + 1
	for j < len(s.src) && isIdentCont(s.src[j]) && s.src[j] != '$' {
		j++
	}
	if j < len(s.src) && s.src[j] == '$' && (j == s.pos+1 || isIdentStart(s.src[s.pos+1])) {
		delim := s.src[s.pos : j+1]
		s.pos = j + 1
		end := strings.Index(s.src[s.pos:], delim)
		if end < 0 {
			pgerr.ReportAt(start, "unterminated dollar-quoted string at or near %q", delim)
		}
		body := s.src[s.pos : s.pos+end]
		s.pos += end + len(delim)
		return s.valueTok(token.SConst, start, body)
	}
	s.pos++
	return s.tok(token.Type('$'), start)
}

func (s *Scanner) number(start int) token.Token {
	if s.cur() == '0' {
		switch s.at(1) {
		case 'x', 'X':
			return s.radixNumber(start, isHexDigit, "hexadecimal")
		case 'o', 'O':
			return s.radixNumber(start, isOctDigit, "octal")
		case 'b', 'B':
			return s.radixNumber(start, isBinDigit, "binary")
		}
	}

	isFloat := false
	s.digitRun(start)
	if s.cur() == '.' && s.at(1) != '.' {
		// A second dot means range syntax, which belongs to the grammar.
		isFloat = true
		s.pos++
		if isDigit(s.cur()) {
			s.digitRun(start)
		}
	}
	if c := s.cur(); c == 'e' || c == 'E' {
		mark := s.pos
		s.pos++
		if s.cur() == '+' || s.cur() == '-' {
			s.pos++
		}
		if !isDigit(s.cur()) {
			s.pos = mark
			s.junk(start)
		}
		isFloat = true
		s.digitRun(start)
	}
	if isIdentStart(s.cur()) {
		s.junk(start)
	}

	text := s.src[start:s.pos]
	if isFloat {
		return s.valueTok(token.FConst, start, text)
	}
	return s.valueTok(token.IConst, start, text)
}

// digitRun consumes decimal digits with underscore separators. An
// underscore must sit between two digits.
func (s *Scanner) digitRun(start int) {
	for {
		switch {
		case isDigit(s.cur()):
			s.pos++
		case s.cur() == '_' && isDigit(s.at(1)) && s.pos > start && isDigit(s.src[s.pos-1]):
			s.pos++
		default:
			return
		}
	}
}

func (s *Scanner) radixNumber(start int, valid func(byte) bool, radix string) token.Token {
	s.pos += 2
	digits := 0
	for {
		switch {
		case valid(s.cur()):
			digits++
			s.pos++
		case s.cur() == '_' && valid(s.at(1)) && digits > 0:
			s.pos++
		default:
			if digits == 0 {
				pgerr.ReportAt(start, "invalid %s integer at or near %q", radix, s.src[start:s.pos])
			}
			if isIdentStart(s.cur()) || isDigit(s.cur()) {
				s.junk(start)
			}
			return s.valueTok(token.IConst, start, s.src[start:s.pos])
		}
	}
}

// junk reports a numeric literal with trailing identifier characters.
func (s *Scanner) junk(start int) {
	for isIdentCont(s.cur()) {
		s.pos++
	}
	pgerr.ReportAt(start, "trailing junk after numeric literal at or near %q", s.src[start:s.pos])
}

// Multi-character operator tokens with dedicated types.
var namedOperators = map[string]token.Type{
	"<=": token.LessEquals,
	">=": token.GreaterEquals,
	"<>": token.NotEquals,
	"!=": token.NotEquals,
	"=>": token.EqualsGreater,
}

func (s *Scanner) operator(start int) token.Token {
	j := s.pos
	for j < len(s.src) && isOpChar(s.src[j]) {
		// Comment openers terminate an operator.
		if s.src[j] == '-' && j+1 < len(s.src) && s.src[j+1] == '-' {
			break
		}
		if s.src[j] == '/' && j+1 < len(s.src) && s.src[j+1] == '*' {
			break
		}
		j++
	}

	run := s.src[s.pos:j]
	// A multi-character operator may only end in + or - if it also contains
	// one of the non-SQL operator characters.
	for len(run) > 1 && (run[len(run)-1] == '+' || run[len(run)-1] == '-') {
		if strings.ContainsAny(run, "~!@#^&|`?%") {
			break
		}
		run = run[:len(run)-1]
	}

	s.pos += len(run)
	if len(run) == 1 {
		c := run[0]
		if strings.IndexByte("+-*/%^<>=", c) >= 0 {
			return s.tok(token.Type(c), start)
		}
		return s.valueTok(token.Op, start, run)
	}
	if t, ok := namedOperators[run]; ok {
		return s.tok(t, start)
	}
	return s.valueTok(token.Op, start, run)
}

// downcase folds ASCII upper-case letters; bytes outside ASCII are left
// alone, matching the server's identifier folding.
func downcase(word string) string {
	lower := true
	for i := 0; i < len(word); i++ {
		if word[i] >= 'A' && word[i] <= 'Z' {
			lower = false
			break
		}
	}
	if lower {
		return word
	}
	b := []byte(word)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}

func isOpChar(c byte) bool {
	return strings.IndexByte("~!@#^&|`?+-*/%<>=", c) >= 0
}
