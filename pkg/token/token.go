// Package token defines the lexical vocabulary shared by the scanner, the
// grammar, and the boundary API: token type codes, the process-lifetime
// token-name descriptor, and the PostgreSQL keyword table with its four
// reservation classes.
//
// The descriptor tables are populated once at init and are read-only
// afterwards, so they may be consulted from any number of concurrent calls
// without locking.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies a lexical token. Single-character tokens such as '(' or
// ',' are identified by their byte value; named tokens begin above the
// single-byte range, following the scanner conventions of the PostgreSQL
// family.
type Type int32

// EOF marks the end of the source text.
const EOF Type = 0

// Named non-keyword tokens.
const (
	Ident Type = iota + 258
	IConst
	FConst
	SConst
	BConst
	XConst
	Param
	Op
	Typecast
	DotDot
	ColonEquals
	EqualsGreater
	LessEquals
	GreaterEquals
	NotEquals
	SQLComment
	CComment
)

// tokenNames is the static name descriptor. Keyword and single-character
// entries are filled in by init from the keyword table.
var tokenNames = map[Type]string{
	EOF:           "EOF",
	Ident:         "IDENT",
	IConst:        "ICONST",
	FConst:        "FCONST",
	SConst:        "SCONST",
	BConst:        "BCONST",
	XConst:        "XCONST",
	Param:         "PARAM",
	Op:            "Op",
	Typecast:      "TYPECAST",
	DotDot:        "DOT_DOT",
	ColonEquals:   "COLON_EQUALS",
	EqualsGreater: "EQUALS_GREATER",
	LessEquals:    "LESS_EQUALS",
	GreaterEquals: "GREATER_EQUALS",
	NotEquals:     "NOT_EQUALS",
	SQLComment:    "SQL_COMMENT",
	CComment:      "C_COMMENT",
}

func init() {
	for text, t := range keywords {
		tokenNames[t] = strings.ToUpper(text)
	}
	for _, c := range []byte("()[],;:.+-*/%^<>=") {
		tokenNames[Type(c)] = "ASCII_" + strconv.Itoa(int(c))
	}
}

// String resolves t against the static name descriptor. Names for known
// tokens reference process-lifetime table entries and involve no
// allocation; an unknown code produces a freshly formatted name instead.
func (t Type) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(t))
}

// Token is one scanned lexeme. Start and End are byte offsets into the
// source text, half-open. Value carries the processed literal where one
// exists: identifiers arrive case-folded and unquoted, string constants
// unescaped, numeric constants with their source spelling.
type Token struct {
	Type  Type
	Start int32
	End   int32
	Value string
}

// Keyword returns the reservation class of the token's type.
func (t Token) Keyword() KeywordKind {
	return KeywordOf(t.Type)
}

func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	}
	return t.Type.String()
}
