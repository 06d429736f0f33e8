package wire_test

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supabase-community/pg-parser/internal/grammar"
	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/token"
	"github.com/supabase-community/pg-parser/pkg/wire"
)

var corpus = []string{
	"select distinct a, b as c from s.t as u (x, y) where a > 1 group by a having count(*) > 2 order by a desc nulls last limit 10 offset 5",
	"select case when a then 1 else 2 end, coalesce(a, b), greatest(1, 2), array[1, 2], row(1, 'a'), not a between 1 and 2",
	"select sum(x) over (partition by y order by z rows between 1 preceding and current row) from t window w as (order by z)",
	"with recursive r (n) as (select 1 union all select n + 1 from r where n < 10) select * from r",
	"insert into t (a, b) values (1, 2), (3, 4) on conflict (a) where a > 0 do update set b = excluded.b where t.a > 1 returning *",
	"update only t as u set a = 1, b = v.b from v where u.id = v.id returning u.a",
	"delete from t using v where t.id = v.id returning t.*",
	"create temporary table if not exists t (id int not null primary key, name varchar(10) default 'x' check (name <> ''), constraint fk foreign key (ref) references u (id) deferrable initially deferred)",
	"drop table if exists a.b, c cascade",
	"begin; select 1 for update of t nowait; commit",
	"select t.*, f.x from t left join (select 1 as x) as f on true, lateral unnest(xs) with ordinality as u (v, o)",
	"select (select count(*) from t) + 1, x in (select y from u), exists (select 1), 3 = any (array[1, 2, 3])",
	"select a::int, cast(b as numeric(10, 2)), interval '1 day', b'101', x'1f', $1, 1.5e10, 'it''s'",
	"select 1 union select 2 intersect select 3 except (select 4 order by 1) order by 1 limit 2",
	"select a from t where a ilike 'x%' escape '!' and b similar to 'y_' and c is distinct from d and e isnull",
}

// makeEnvelope frames a raw payload the way the encoder does, so tests can
// hand-craft payload bytes behind valid framing.
func makeEnvelope(kind byte, version int32, payload []byte) []byte {
	buf := append([]byte(nil), "PGQT"...)
	buf = append(buf, kind)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(version))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	return binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(payload))
}

func encodeTree(t *testing.T, sql string) []byte {
	t.Helper()
	buf, err := wire.EncodeTree(grammar.Parse(sql, nil))
	require.NoError(t, err)
	return buf
}

func TestTreeRoundTrip(t *testing.T) {
	for _, sql := range corpus {
		tree := grammar.Parse(sql, nil)
		buf, err := wire.EncodeTree(tree)
		require.NoError(t, err, "encode of %q", sql)
		got, err := wire.DecodeTree(buf)
		require.NoError(t, err, "decode of %q", sql)
		assert.Equal(t, tree, got, "round trip of %q", sql)
		assert.Equal(t, ast.Version, got.Version)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	for _, sql := range corpus {
		first := encodeTree(t, sql)
		second := encodeTree(t, sql)
		require.Equal(t, first, second, "two encodes of %q", sql)

		decoded, err := wire.DecodeTree(first)
		require.NoError(t, err)
		again, err := wire.EncodeTree(decoded)
		require.NoError(t, err)
		assert.Equal(t, first, again, "re-encode after decode of %q", sql)
	}
}

func TestNilListElements(t *testing.T) {
	// A bare DISTINCT is a distinct clause holding one nil element, the
	// only place a nil node appears inside a list.
	tree := grammar.Parse("select distinct a from t", nil)
	sel := tree.Stmts[0].Stmt.(*ast.SelectStmt)
	require.Equal(t, []ast.Node{nil}, sel.DistinctClause)

	buf, err := wire.EncodeTree(tree)
	require.NoError(t, err)
	got, err := wire.DecodeTree(buf)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}

func TestNodeRoundTrip(t *testing.T) {
	nodes := []ast.Node{
		&ast.ResTarget{Name: "x", Val: &ast.A_Const{Val: &ast.Integer{Ival: 1}}, Location: 7},
		&ast.TypeName{
			Names:       []ast.Node{&ast.String{Sval: "pg_catalog"}, &ast.String{Sval: "int4"}},
			ArrayBounds: []ast.Node{&ast.Integer{Ival: -1}, &ast.Integer{Ival: 3}},
		},
		&ast.SortBy{
			Node:        &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}},
			SortbyDir:   ast.SortByDesc,
			SortbyNulls: ast.SortByNullsFirst,
		},
		&ast.A_Expr{
			Kind:  ast.AExprOp,
			Name:  []ast.Node{&ast.String{Sval: "+"}},
			Lexpr: &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}},
			Rexpr: &ast.A_Const{Val: &ast.Integer{Ival: 1}},
		},
		&ast.Alias{Aliasname: "u", Colnames: []ast.Node{&ast.String{Sval: "a"}, &ast.String{Sval: "b"}}},
		&ast.RangeVar{Schemaname: "s", Relname: "t", Inh: true, Alias: &ast.Alias{Aliasname: "u"}},
		&ast.WindowDef{Name: "w", FrameOptions: 1058, StartOffset: &ast.A_Const{Val: &ast.Integer{Ival: 2}}},
		&ast.RoleSpec{Roletype: ast.RoleSpecCurrentUser},
		&ast.FunctionParameter{
			Name:    "xs",
			Mode:    ast.FuncParamVariadic,
			ArgType: &ast.TypeName{Names: []ast.Node{&ast.String{Sval: "pg_catalog"}, &ast.String{Sval: "int4"}}},
		},
		&ast.TransactionStmt{Kind: ast.TransStmtBegin},
		&ast.A_Star{},
		&ast.Integer{Ival: -5},
		&ast.Float{Fval: "1.5e10"},
		&ast.Boolean{Boolval: true},
		&ast.BitString{Bsval: "b101"},
		&ast.String{},
		&ast.List{Items: []ast.Node{&ast.String{Sval: "a"}, &ast.Integer{Ival: 2}}},
	}
	for _, n := range nodes {
		buf, err := wire.EncodeNode(n)
		require.NoError(t, err, "encode of %s", ast.KindOf(n))
		got, err := wire.DecodeNode(buf)
		require.NoError(t, err, "decode of %s", ast.KindOf(n))
		assert.Equal(t, n, got, "round trip of %s", ast.KindOf(n))
	}
}

func TestNilNodeRoundTrip(t *testing.T) {
	buf, err := wire.EncodeNode(nil)
	require.NoError(t, err)
	got, err := wire.DecodeNode(buf)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNodeFromParsedTree(t *testing.T) {
	tree := grammar.Parse("select a + 1 as total from t where b is null", nil)
	sel := tree.Stmts[0].Stmt.(*ast.SelectStmt)
	for _, n := range []ast.Node{tree.Stmts[0], sel, sel.TargetList[0], sel.WhereClause} {
		buf, err := wire.EncodeNode(n)
		require.NoError(t, err)
		got, err := wire.DecodeNode(buf)
		require.NoError(t, err)
		assert.Equal(t, n, got, "round trip of %s", ast.KindOf(n))
	}
}

func TestTokensRoundTrip(t *testing.T) {
	toks := []wire.Token{
		{Start: 0, End: 6, Type: token.SELECT, Keyword: token.ReservedKeyword},
		{Start: 7, End: 8, Type: token.IConst, Keyword: token.NoKeyword},
		{Start: 9, End: 14, Type: token.ABORT, Keyword: token.UnreservedKeyword},
		{Start: 15, End: 22, Type: token.BETWEEN, Keyword: token.ColNameKeyword},
		{Start: 23, End: 24, Type: token.Type('+'), Keyword: token.NoKeyword},
	}
	buf := wire.EncodeTokens(toks)
	got, err := wire.DecodeTokens(buf)
	require.NoError(t, err)
	assert.Equal(t, toks, got)

	empty, err := wire.DecodeTokens(wire.EncodeTokens(nil))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEncodeTreeRejectsBadInput(t *testing.T) {
	_, err := wire.EncodeTree(nil)
	var cerr *wire.CodecError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "encode of nil tree", cerr.Msg)

	_, err = wire.EncodeTree(&ast.Tree{Version: ast.Version, Stmts: []*ast.RawStmt{nil}})
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "statement 0 is nil", cerr.Msg)
}

func TestEncodeRejectsNonStringNameList(t *testing.T) {
	_, err := wire.EncodeNode(&ast.A_Expr{
		Kind: ast.AExprOp,
		Name: []ast.Node{&ast.Integer{Ival: 1}},
	})
	var cerr *wire.CodecError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "field 2 of A_Expr must hold String nodes, got Integer", cerr.Msg)
}

func TestUnpackErrors(t *testing.T) {
	valid := encodeTree(t, "select 1")

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'X'

	badKind := append([]byte(nil), valid...)
	badKind[4] = 9

	badLength := append([]byte(nil), valid...)
	badLength[9]++

	badCRC := append([]byte(nil), valid...)
	badCRC[len(badCRC)-1] ^= 0xFF

	cases := map[string][]byte{
		"nil buffer":      nil,
		"short buffer":    []byte("PGQT"),
		"bad magic":       badMagic,
		"unknown kind":    badKind,
		"length mismatch": badLength,
		"truncated":       valid[:len(valid)-1],
		"trailing bytes":  append(append([]byte(nil), valid...), 0),
		"crc mismatch":    badCRC,
	}
	for name, buf := range cases {
		tree, err := wire.DecodeTree(buf)
		assert.Nil(t, tree, name)
		assert.ErrorIs(t, err, wire.ErrUnpack, name)
	}
}

func TestPayloadKindMismatch(t *testing.T) {
	treeBuf := encodeTree(t, "select 1")
	nodeBuf, err := wire.EncodeNode(&ast.Integer{Ival: 7})
	require.NoError(t, err)

	_, err = wire.DecodeTree(nodeBuf)
	var cerr *wire.CodecError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "buffer holds a node payload where a tree payload was expected", cerr.Msg)

	_, err = wire.DecodeNode(treeBuf)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "buffer holds a tree payload where a node payload was expected", cerr.Msg)

	_, err = wire.DecodeTokens(treeBuf)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "buffer holds a tree payload where a token stream payload was expected", cerr.Msg)
}

func TestVersionMismatch(t *testing.T) {
	// The version lives in the header, outside the checksummed payload, so
	// patching it exercises the version check rather than the CRC.
	buf := encodeTree(t, "select 1")
	binary.LittleEndian.PutUint32(buf[5:], uint32(ast.Version+1))

	_, err := wire.DecodeTree(buf)
	var cerr *wire.CodecError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t,
		fmt.Sprintf("schema version %d is not supported (want %d)", ast.Version+1, ast.Version),
		cerr.Msg)
}

func TestPayloadCorruption(t *testing.T) {
	overflow := binary.AppendVarint([]byte{byte(ast.T_ParamRef), 1, 1, 0}, 1<<40)

	cases := []struct {
		name    string
		payload []byte
		msg     string
	}{
		{
			name:    "unknown kind tag",
			payload: []byte{99, 0},
			msg:     "unknown node kind tag 99",
		},
		{
			name:    "unknown field id",
			payload: []byte{byte(ast.T_ParamRef), 1, 9, 0, 4},
			msg:     "unknown field id 9 for ParamRef",
		},
		{
			name:    "wire type mismatch",
			payload: []byte{byte(ast.T_ParamRef), 1, 1, 1},
			msg:     "wire type 1 where a varint was expected",
		},
		{
			name:    "truncated node",
			payload: []byte{byte(ast.T_ResTarget)},
			msg:     "unexpected end of payload",
		},
		{
			name:    "invalid bool",
			payload: []byte{byte(ast.T_Boolean), 1, 1, 4, 2},
			msg:     "invalid bool value 2",
		},
		{
			name:    "int32 overflow",
			payload: overflow,
			msg:     "value 1099511627776 overflows int32",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := makeEnvelope(wire.PayloadNode, ast.Version, tc.payload)
			n, err := wire.DecodeNode(buf)
			assert.Nil(t, n)
			var cerr *wire.CodecError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.msg, cerr.Msg)
		})
	}
}

func TestTrailingPayloadBytes(t *testing.T) {
	good, err := wire.EncodeNode(&ast.Integer{Ival: 7})
	require.NoError(t, err)
	payload := good[13 : len(good)-4]
	buf := makeEnvelope(wire.PayloadNode, ast.Version, append(append([]byte(nil), payload...), 0))

	_, err = wire.DecodeNode(buf)
	var cerr *wire.CodecError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Msg, "trailing data")
}
