package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFoldedKeyword(t *testing.T) {
	typ, ok := Lookup("select")
	require.True(t, ok)
	assert.Equal(t, SELECT, typ)

	// Lookup expects pre-folded input; the scanner folds before calling.
	_, ok = Lookup("SELECT")
	assert.False(t, ok)

	_, ok = Lookup("not_a_keyword")
	assert.False(t, ok)
}

func TestKeywordClasses(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want KeywordKind
	}{
		{"first unreserved", ABORT, UnreservedKeyword},
		{"last unreserved", WRITE, UnreservedKeyword},
		{"first col-name", BETWEEN, ColNameKeyword},
		{"last col-name", VARCHAR, ColNameKeyword},
		{"first type-func", AUTHORIZATION, TypeFuncNameKeyword},
		{"last type-func", VERBOSE, TypeFuncNameKeyword},
		{"first reserved", ALL, ReservedKeyword},
		{"last reserved", WITH, ReservedKeyword},
		{"select", SELECT, ReservedKeyword},
		{"ident", Ident, NoKeyword},
		{"integer constant", IConst, NoKeyword},
		{"single char", Type('('), NoKeyword},
		{"eof", EOF, NoKeyword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeywordOf(tt.typ))
		})
	}
}

func TestReservationPredicates(t *testing.T) {
	assert.True(t, IsKeyword(BETWEEN))
	assert.True(t, IsKeyword(JOIN))
	assert.False(t, IsKeyword(Ident))

	assert.True(t, IsReserved(SELECT))
	assert.False(t, IsReserved(BETWEEN))
	assert.False(t, IsReserved(ABORT))
}

func TestStaticNames(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "ICONST", IConst.String())
	assert.Equal(t, "IDENT", Ident.String())
	assert.Equal(t, "ASCII_40", Type('(').String())
	assert.Equal(t, "ASCII_59", Type(';').String())
	assert.Equal(t, "TYPECAST", Typecast.String())
}

func TestUnknownNameIsFormatted(t *testing.T) {
	assert.Equal(t, "UNKNOWN(9999)", Type(9999).String())
}

func TestKeywordTableConsistency(t *testing.T) {
	// Every keyword entry must classify into a keyword class, and its
	// descriptor name must resolve statically.
	for text, typ := range keywords {
		require.NotEqual(t, NoKeyword, KeywordOf(typ), "keyword %q has no class", text)
		require.NotContains(t, typ.String(), "UNKNOWN", "keyword %q missing from descriptor", text)
	}
}

func TestTokenKeywordShortcut(t *testing.T) {
	tok := Token{Type: FROM, Start: 9, End: 13}
	assert.Equal(t, ReservedKeyword, tok.Keyword())
}
