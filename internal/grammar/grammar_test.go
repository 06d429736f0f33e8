package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supabase-community/pg-parser/internal/grammar"
	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/ast"
)

func parseSQL(t *testing.T, src string) *ast.Tree {
	t.Helper()
	return grammar.Parse(src, nil)
}

// parseFatal parses expecting a raised condition and returns it.
func parseFatal(t *testing.T, src string) *pgerr.Error {
	t.Helper()
	var caught *pgerr.Error
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected parse of %q to raise", src)
			e, ok := r.(*pgerr.Error)
			require.True(t, ok, "raised value should be *pgerr.Error, got %T", r)
			caught = e
		}()
		grammar.Parse(src, nil)
	}()
	return caught
}

func onlyStmt(t *testing.T, src string) ast.Node {
	t.Helper()
	tree := parseSQL(t, src)
	require.Len(t, tree.Stmts, 1)
	return tree.Stmts[0].Stmt
}

func sel(t *testing.T, src string) *ast.SelectStmt {
	t.Helper()
	s, ok := onlyStmt(t, src).(*ast.SelectStmt)
	require.True(t, ok, "expected SelectStmt")
	return s
}

// firstTarget returns the value of the first output column.
func firstTarget(t *testing.T, src string) ast.Node {
	t.Helper()
	s := sel(t, src)
	require.NotEmpty(t, s.TargetList)
	rt, ok := s.TargetList[0].(*ast.ResTarget)
	require.True(t, ok)
	return rt.Val
}

func TestSelectConstant(t *testing.T) {
	tree := parseSQL(t, "SELECT 1")
	assert.Equal(t, ast.Version, tree.Version)
	require.Len(t, tree.Stmts, 1)

	raw := tree.Stmts[0]
	assert.Equal(t, int32(0), raw.StmtLocation)
	assert.Equal(t, int32(0), raw.StmtLen)

	s, ok := raw.Stmt.(*ast.SelectStmt)
	require.True(t, ok)
	require.Len(t, s.TargetList, 1)

	rt := s.TargetList[0].(*ast.ResTarget)
	assert.Empty(t, rt.Name)
	assert.Equal(t, int32(7), rt.Location)

	c, ok := rt.Val.(*ast.A_Const)
	require.True(t, ok)
	assert.Equal(t, int32(7), c.Location)
	require.IsType(t, &ast.Integer{}, c.Val)
	assert.Equal(t, int32(1), c.Val.(*ast.Integer).Ival)
}

func TestStatementSpans(t *testing.T) {
	tree := parseSQL(t, "SELECT 1; SELECT 2;\nSELECT 3")
	require.Len(t, tree.Stmts, 3)

	assert.Equal(t, int32(0), tree.Stmts[0].StmtLocation)
	assert.Equal(t, int32(8), tree.Stmts[0].StmtLen)

	assert.Equal(t, int32(9), tree.Stmts[1].StmtLocation)
	assert.Equal(t, int32(9), tree.Stmts[1].StmtLen)

	assert.Equal(t, int32(19), tree.Stmts[2].StmtLocation)
	assert.Equal(t, int32(0), tree.Stmts[2].StmtLen)
}

func TestEmptyStatementsSkipped(t *testing.T) {
	tree := parseSQL(t, ";; SELECT 1 ;;")
	require.Len(t, tree.Stmts, 1)
	assert.Equal(t, int32(2), tree.Stmts[0].StmtLocation)
	assert.Equal(t, int32(10), tree.Stmts[0].StmtLen)
}

func TestSelectClauses(t *testing.T) {
	s := sel(t, "SELECT a, b AS c FROM t WHERE x > 1 GROUP BY a HAVING count(*) > 1 ORDER BY a DESC NULLS LAST LIMIT 10 OFFSET 5")

	require.Len(t, s.TargetList, 2)
	assert.Empty(t, s.TargetList[0].(*ast.ResTarget).Name)
	assert.Equal(t, "c", s.TargetList[1].(*ast.ResTarget).Name)

	require.Len(t, s.FromClause, 1)
	rv := s.FromClause[0].(*ast.RangeVar)
	assert.Equal(t, "t", rv.Relname)
	assert.True(t, rv.Inh)
	assert.Equal(t, "p", rv.Relpersistence)

	where := s.WhereClause.(*ast.A_Expr)
	assert.Equal(t, ast.AExprOp, where.Kind)
	assert.Equal(t, ">", where.Name[0].(*ast.String).Sval)

	require.Len(t, s.GroupClause, 1)
	assert.False(t, s.GroupDistinct)

	having := s.HavingClause.(*ast.A_Expr)
	fc := having.Lexpr.(*ast.FuncCall)
	assert.Equal(t, "count", fc.Funcname[0].(*ast.String).Sval)
	assert.True(t, fc.AggStar)

	require.Len(t, s.SortClause, 1)
	sb := s.SortClause[0].(*ast.SortBy)
	assert.Equal(t, ast.SortByDesc, sb.SortbyDir)
	assert.Equal(t, ast.SortByNullsLast, sb.SortbyNulls)

	assert.Equal(t, int32(10), s.LimitCount.(*ast.A_Const).Val.(*ast.Integer).Ival)
	assert.Equal(t, ast.LimitOptionCount, s.LimitOption)
	assert.Equal(t, int32(5), s.LimitOffset.(*ast.A_Const).Val.(*ast.Integer).Ival)
}

func TestBareAliasAndStar(t *testing.T) {
	s := sel(t, "SELECT a b, * FROM t")
	require.Len(t, s.TargetList, 2)
	assert.Equal(t, "b", s.TargetList[0].(*ast.ResTarget).Name)

	star := s.TargetList[1].(*ast.ResTarget).Val.(*ast.ColumnRef)
	require.Len(t, star.Fields, 1)
	assert.IsType(t, &ast.A_Star{}, star.Fields[0])
}

func TestDistinct(t *testing.T) {
	s := sel(t, "SELECT DISTINCT a FROM t")
	require.Len(t, s.DistinctClause, 1)
	assert.Nil(t, s.DistinctClause[0])

	s = sel(t, "SELECT DISTINCT ON (a) b FROM t")
	require.Len(t, s.DistinctClause, 1)
	assert.IsType(t, &ast.ColumnRef{}, s.DistinctClause[0])
}

func TestBoolExprFlattening(t *testing.T) {
	v := firstTarget(t, "SELECT a AND b AND c OR d")
	or := v.(*ast.BoolExpr)
	assert.Equal(t, ast.OrExpr, or.Boolop)
	assert.Equal(t, int32(21), or.Location)
	require.Len(t, or.Args, 2)

	and := or.Args[0].(*ast.BoolExpr)
	assert.Equal(t, ast.AndExpr, and.Boolop)
	assert.Equal(t, int32(9), and.Location)
	assert.Len(t, and.Args, 3)
}

func TestNotExpr(t *testing.T) {
	v := firstTarget(t, "SELECT NOT a")
	not := v.(*ast.BoolExpr)
	assert.Equal(t, ast.NotExpr, not.Boolop)
	require.Len(t, not.Args, 1)
}

func TestComparisonNonAssociative(t *testing.T) {
	e := parseFatal(t, "SELECT a < b < c")
	assert.Equal(t, `syntax error at or near "<"`, e.Message)
	assert.Equal(t, 13, e.Location)
}

func TestInShapes(t *testing.T) {
	v := firstTarget(t, "SELECT x IN (1, 2)")
	in := v.(*ast.A_Expr)
	assert.Equal(t, ast.AExprIn, in.Kind)
	assert.Equal(t, "=", in.Name[0].(*ast.String).Sval)
	assert.Len(t, in.Rexpr.(*ast.List).Items, 2)

	v = firstTarget(t, "SELECT x NOT IN (1)")
	in = v.(*ast.A_Expr)
	assert.Equal(t, ast.AExprIn, in.Kind)
	assert.Equal(t, "<>", in.Name[0].(*ast.String).Sval)

	v = firstTarget(t, "SELECT x IN (SELECT y FROM t)")
	sub := v.(*ast.SubLink)
	assert.Equal(t, ast.AnySublink, sub.SubLinkType)
	assert.Empty(t, sub.OperName)
	assert.IsType(t, &ast.ColumnRef{}, sub.Testexpr)

	v = firstTarget(t, "SELECT x NOT IN (SELECT y FROM t)")
	not := v.(*ast.BoolExpr)
	assert.Equal(t, ast.NotExpr, not.Boolop)
	assert.IsType(t, &ast.SubLink{}, not.Args[0])
}

func TestLikeShapes(t *testing.T) {
	v := firstTarget(t, "SELECT a LIKE b")
	like := v.(*ast.A_Expr)
	assert.Equal(t, ast.AExprLike, like.Kind)
	assert.Equal(t, "~~", like.Name[0].(*ast.String).Sval)

	v = firstTarget(t, "SELECT a NOT ILIKE b")
	like = v.(*ast.A_Expr)
	assert.Equal(t, ast.AExprIlike, like.Kind)
	assert.Equal(t, "!~~*", like.Name[0].(*ast.String).Sval)

	v = firstTarget(t, "SELECT a LIKE b ESCAPE c")
	like = v.(*ast.A_Expr)
	esc := like.Rexpr.(*ast.FuncCall)
	assert.Equal(t, "pg_catalog", esc.Funcname[0].(*ast.String).Sval)
	assert.Equal(t, "like_escape", esc.Funcname[1].(*ast.String).Sval)
	assert.Len(t, esc.Args, 2)

	v = firstTarget(t, "SELECT a SIMILAR TO b")
	sim := v.(*ast.A_Expr)
	assert.Equal(t, ast.AExprSimilar, sim.Kind)
	assert.Equal(t, "~", sim.Name[0].(*ast.String).Sval)
	wrap := sim.Rexpr.(*ast.FuncCall)
	assert.Equal(t, "similar_to_escape", wrap.Funcname[1].(*ast.String).Sval)
	assert.Len(t, wrap.Args, 1)
}

func TestBetween(t *testing.T) {
	v := firstTarget(t, "SELECT a BETWEEN 1 AND 2")
	b := v.(*ast.A_Expr)
	assert.Equal(t, ast.AExprBetween, b.Kind)
	assert.Equal(t, "BETWEEN", b.Name[0].(*ast.String).Sval)
	assert.Len(t, b.Rexpr.(*ast.List).Items, 2)

	v = firstTarget(t, "SELECT a NOT BETWEEN SYMMETRIC 1 AND 2")
	b = v.(*ast.A_Expr)
	assert.Equal(t, ast.AExprNotBetweenSym, b.Kind)
	assert.Equal(t, "NOT BETWEEN SYMMETRIC", b.Name[0].(*ast.String).Sval)
}

func TestIsTests(t *testing.T) {
	nt := firstTarget(t, "SELECT a IS NOT NULL").(*ast.NullTest)
	assert.Equal(t, ast.IsNotNull, nt.Nulltesttype)

	nt = firstTarget(t, "SELECT a ISNULL").(*ast.NullTest)
	assert.Equal(t, ast.IsNull, nt.Nulltesttype)

	bt := firstTarget(t, "SELECT a IS UNKNOWN").(*ast.BooleanTest)
	assert.Equal(t, ast.IsUnknown, bt.Booltesttype)

	bt = firstTarget(t, "SELECT a IS NOT FALSE").(*ast.BooleanTest)
	assert.Equal(t, ast.IsNotFalse, bt.Booltesttype)

	d := firstTarget(t, "SELECT a IS DISTINCT FROM b").(*ast.A_Expr)
	assert.Equal(t, ast.AExprDistinct, d.Kind)
	assert.Equal(t, "=", d.Name[0].(*ast.String).Sval)
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want ast.Node
	}{
		{"negative int", "SELECT -5", &ast.Integer{Ival: -5}},
		{"hex", "SELECT 0x10", &ast.Integer{Ival: 16}},
		{"octal prefix", "SELECT 0o17", &ast.Integer{Ival: 15}},
		{"binary", "SELECT 0b101", &ast.Integer{Ival: 5}},
		{"underscores", "SELECT 1_000_000", &ast.Integer{Ival: 1000000}},
		{"leading zero is decimal", "SELECT 0123", &ast.Integer{Ival: 123}},
		{"float", "SELECT 1.5", &ast.Float{Fval: "1.5"}},
		{"negative float", "SELECT -1.5", &ast.Float{Fval: "-1.5"}},
		{"int32 overflow", "SELECT 3000000000", &ast.Float{Fval: "3000000000"}},
		{"negated overflow", "SELECT -3000000000", &ast.Float{Fval: "-3000000000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := firstTarget(t, tt.sql).(*ast.A_Const)
			assert.Equal(t, tt.want, c.Val)
		})
	}
}

func TestConstants(t *testing.T) {
	c := firstTarget(t, "SELECT 'abc'").(*ast.A_Const)
	assert.Equal(t, "abc", c.Val.(*ast.String).Sval)

	c = firstTarget(t, "SELECT TRUE").(*ast.A_Const)
	assert.True(t, c.Val.(*ast.Boolean).Boolval)

	c = firstTarget(t, "SELECT NULL").(*ast.A_Const)
	assert.True(t, c.Isnull)
	assert.Nil(t, c.Val)

	c = firstTarget(t, "SELECT B'01'").(*ast.A_Const)
	assert.Equal(t, "b01", c.Val.(*ast.BitString).Bsval)

	p := firstTarget(t, "SELECT $2").(*ast.ParamRef)
	assert.Equal(t, int32(2), p.Number)
	assert.Equal(t, int32(7), p.Location)
}

func TestTypedLiteralsAndCasts(t *testing.T) {
	tc := firstTarget(t, "SELECT int '1'").(*ast.TypeCast)
	assert.Equal(t, int32(-1), tc.Location)
	require.Len(t, tc.TypeName.Names, 2)
	assert.Equal(t, "pg_catalog", tc.TypeName.Names[0].(*ast.String).Sval)
	assert.Equal(t, "int4", tc.TypeName.Names[1].(*ast.String).Sval)
	assert.Equal(t, int32(7), tc.TypeName.Location)
	assert.Equal(t, "1", tc.Arg.(*ast.A_Const).Val.(*ast.String).Sval)

	tc = firstTarget(t, "SELECT x::text").(*ast.TypeCast)
	assert.Equal(t, int32(8), tc.Location)
	require.Len(t, tc.TypeName.Names, 1)
	assert.Equal(t, "text", tc.TypeName.Names[0].(*ast.String).Sval)

	tc = firstTarget(t, "SELECT CAST(x AS bigint)").(*ast.TypeCast)
	assert.Equal(t, int32(7), tc.Location)
	assert.Equal(t, "int8", tc.TypeName.Names[1].(*ast.String).Sval)

	tc = firstTarget(t, "SELECT '1'::double precision").(*ast.TypeCast)
	assert.Equal(t, "float8", tc.TypeName.Names[1].(*ast.String).Sval)

	tc = firstTarget(t, "SELECT a::int[]").(*ast.TypeCast)
	require.Len(t, tc.TypeName.ArrayBounds, 1)
	assert.Equal(t, int32(-1), tc.TypeName.ArrayBounds[0].(*ast.Integer).Ival)

	tc = firstTarget(t, "SELECT b::varchar(10)").(*ast.TypeCast)
	require.Len(t, tc.TypeName.Typmods, 1)
	mod := tc.TypeName.Typmods[0].(*ast.A_Const)
	assert.Equal(t, int32(10), mod.Val.(*ast.Integer).Ival)

	tc = firstTarget(t, "SELECT t::timestamp with time zone").(*ast.TypeCast)
	assert.Equal(t, "timestamptz", tc.TypeName.Names[1].(*ast.String).Sval)
}

func TestFloatPrecision(t *testing.T) {
	tc := firstTarget(t, "SELECT x::float(10)").(*ast.TypeCast)
	assert.Equal(t, "float4", tc.TypeName.Names[1].(*ast.String).Sval)

	tc = firstTarget(t, "SELECT x::float(40)").(*ast.TypeCast)
	assert.Equal(t, "float8", tc.TypeName.Names[1].(*ast.String).Sval)

	e := parseFatal(t, "SELECT x::float(0)")
	assert.Equal(t, "precision for type float must be at least 1 bit", e.Message)
	assert.Equal(t, 16, e.Location)

	e = parseFatal(t, "SELECT x::float(54)")
	assert.Equal(t, "precision for type float must be less than 54 bits", e.Message)
}

func TestValueFunctions(t *testing.T) {
	fc := firstTarget(t, "SELECT CURRENT_DATE").(*ast.FuncCall)
	require.Len(t, fc.Funcname, 2)
	assert.Equal(t, "pg_catalog", fc.Funcname[0].(*ast.String).Sval)
	assert.Equal(t, "current_date", fc.Funcname[1].(*ast.String).Sval)
	assert.Empty(t, fc.Args)

	fc = firstTarget(t, "SELECT current_timestamp").(*ast.FuncCall)
	assert.Equal(t, "current_timestamp", fc.Funcname[1].(*ast.String).Sval)
}

func TestFunctionCalls(t *testing.T) {
	fc := firstTarget(t, "SELECT count(DISTINCT x)").(*ast.FuncCall)
	assert.True(t, fc.AggDistinct)
	assert.Len(t, fc.Args, 1)

	fc = firstTarget(t, "SELECT myschema.f(1, 2)").(*ast.FuncCall)
	require.Len(t, fc.Funcname, 2)
	assert.Equal(t, "myschema", fc.Funcname[0].(*ast.String).Sval)
	assert.Equal(t, "f", fc.Funcname[1].(*ast.String).Sval)
	assert.Len(t, fc.Args, 2)

	fc = firstTarget(t, "SELECT sum(x) OVER w").(*ast.FuncCall)
	require.NotNil(t, fc.Over)
	assert.Equal(t, "w", fc.Over.Name)

	fc = firstTarget(t, "SELECT sum(x) OVER (PARTITION BY y)").(*ast.FuncCall)
	require.NotNil(t, fc.Over)
	assert.Len(t, fc.Over.PartitionClause, 1)
	assert.Equal(t, ast.FrameOptionDefaults, fc.Over.FrameOptions)
}

func TestColumnRefs(t *testing.T) {
	cr := firstTarget(t, "SELECT a.b.c").(*ast.ColumnRef)
	require.Len(t, cr.Fields, 3)
	assert.Equal(t, "c", cr.Fields[2].(*ast.String).Sval)

	cr = firstTarget(t, "SELECT t.*").(*ast.ColumnRef)
	require.Len(t, cr.Fields, 2)
	assert.IsType(t, &ast.A_Star{}, cr.Fields[1])

	// A keyword that is not reserved works as a column name.
	cr = firstTarget(t, "SELECT key").(*ast.ColumnRef)
	assert.Equal(t, "key", cr.Fields[0].(*ast.String).Sval)
}

func TestWindowFrame(t *testing.T) {
	fc := firstTarget(t, "SELECT sum(x) OVER (ORDER BY y ROWS BETWEEN 1 PRECEDING AND CURRENT ROW)").(*ast.FuncCall)
	require.NotNil(t, fc.Over)
	want := ast.FrameOptionNondefault | ast.FrameOptionRows | ast.FrameOptionBetween |
		ast.FrameOptionStartOffsetPreceding | ast.FrameOptionEndCurrentRow
	assert.Equal(t, want, fc.Over.FrameOptions)
	assert.Equal(t, int32(1), fc.Over.StartOffset.(*ast.A_Const).Val.(*ast.Integer).Ival)
	assert.Nil(t, fc.Over.EndOffset)

	fc = firstTarget(t, "SELECT sum(x) OVER (RANGE UNBOUNDED PRECEDING)").(*ast.FuncCall)
	want = ast.FrameOptionNondefault | ast.FrameOptionRange |
		ast.FrameOptionStartUnboundedPreceding | ast.FrameOptionEndCurrentRow
	assert.Equal(t, want, fc.Over.FrameOptions)
}

func TestWindowFrameErrors(t *testing.T) {
	e := parseFatal(t, "SELECT sum(x) OVER (ROWS BETWEEN UNBOUNDED FOLLOWING AND CURRENT ROW)")
	assert.Equal(t, "frame start cannot be UNBOUNDED FOLLOWING", e.Message)

	e = parseFatal(t, "SELECT sum(x) OVER (ROWS BETWEEN CURRENT ROW AND UNBOUNDED PRECEDING)")
	assert.Equal(t, "frame end cannot be UNBOUNDED PRECEDING", e.Message)

	e = parseFatal(t, "SELECT sum(x) OVER (ROWS BETWEEN 1 FOLLOWING AND CURRENT ROW)")
	assert.Equal(t, "frame starting from following row cannot end with current row", e.Message)
}

func TestNamedWindows(t *testing.T) {
	s := sel(t, "SELECT sum(x) OVER w FROM t WINDOW w AS (ORDER BY y)")
	require.Len(t, s.WindowClause, 1)
	w := s.WindowClause[0].(*ast.WindowDef)
	assert.Equal(t, "w", w.Name)
	assert.Len(t, w.OrderClause, 1)
}

func TestJoins(t *testing.T) {
	s := sel(t, "SELECT * FROM a JOIN b ON a.id = b.id LEFT OUTER JOIN c USING (id)")
	require.Len(t, s.FromClause, 1)

	outer := s.FromClause[0].(*ast.JoinExpr)
	assert.Equal(t, ast.JoinLeft, outer.Jointype)
	require.Len(t, outer.UsingClause, 1)
	assert.Equal(t, "id", outer.UsingClause[0].(*ast.String).Sval)

	inner := outer.Larg.(*ast.JoinExpr)
	assert.Equal(t, ast.JoinInner, inner.Jointype)
	assert.NotNil(t, inner.Quals)

	s = sel(t, "SELECT * FROM a NATURAL FULL JOIN b")
	j := s.FromClause[0].(*ast.JoinExpr)
	assert.True(t, j.IsNatural)
	assert.Equal(t, ast.JoinFull, j.Jointype)

	s = sel(t, "SELECT * FROM a CROSS JOIN b")
	j = s.FromClause[0].(*ast.JoinExpr)
	assert.Equal(t, ast.JoinInner, j.Jointype)
	assert.Nil(t, j.Quals)
}

func TestFromItems(t *testing.T) {
	s := sel(t, "SELECT * FROM (SELECT 1) sub")
	rs := s.FromClause[0].(*ast.RangeSubselect)
	require.NotNil(t, rs.Alias)
	assert.Equal(t, "sub", rs.Alias.Aliasname)

	s = sel(t, "SELECT * FROM generate_series(1, 3) AS g(n)")
	rf := s.FromClause[0].(*ast.RangeFunction)
	require.Len(t, rf.Functions, 1)
	assert.Equal(t, "generate_series", rf.Functions[0].(*ast.FuncCall).Funcname[0].(*ast.String).Sval)
	require.NotNil(t, rf.Alias)
	assert.Equal(t, "g", rf.Alias.Aliasname)
	assert.Len(t, rf.Alias.Colnames, 1)

	s = sel(t, "SELECT * FROM unnest(a) WITH ORDINALITY u")
	rf = s.FromClause[0].(*ast.RangeFunction)
	assert.True(t, rf.Ordinality)

	s = sel(t, "SELECT * FROM LATERAL (SELECT 1) l")
	assert.True(t, s.FromClause[0].(*ast.RangeSubselect).Lateral)

	s = sel(t, "SELECT * FROM ONLY t")
	assert.False(t, s.FromClause[0].(*ast.RangeVar).Inh)
}

func TestSubqueryExpressions(t *testing.T) {
	sub := firstTarget(t, "SELECT (SELECT 1)").(*ast.SubLink)
	assert.Equal(t, ast.ExprSublink, sub.SubLinkType)

	sub = firstTarget(t, "SELECT EXISTS (SELECT 1)").(*ast.SubLink)
	assert.Equal(t, ast.ExistsSublink, sub.SubLinkType)

	sub = firstTarget(t, "SELECT x = ANY (SELECT y FROM t)").(*ast.SubLink)
	assert.Equal(t, ast.AnySublink, sub.SubLinkType)
	require.Len(t, sub.OperName, 1)
	assert.Equal(t, "=", sub.OperName[0].(*ast.String).Sval)

	arr := firstTarget(t, "SELECT x = ANY (arr)").(*ast.A_Expr)
	assert.Equal(t, ast.AExprOpAny, arr.Kind)

	all := firstTarget(t, "SELECT x <> ALL (arr)").(*ast.A_Expr)
	assert.Equal(t, ast.AExprOpAll, all.Kind)
}

func TestRowAndArray(t *testing.T) {
	row := firstTarget(t, "SELECT (1, 2)").(*ast.RowExpr)
	assert.Len(t, row.Args, 2)

	row = firstTarget(t, "SELECT ROW(1)").(*ast.RowExpr)
	assert.Len(t, row.Args, 1)

	arr := firstTarget(t, "SELECT ARRAY[1, 2, 3]").(*ast.A_ArrayExpr)
	assert.Len(t, arr.Elements, 3)
}

func TestCaseExpr(t *testing.T) {
	c := firstTarget(t, "SELECT CASE WHEN a THEN 1 WHEN b THEN 2 ELSE 3 END").(*ast.CaseExpr)
	assert.Nil(t, c.Arg)
	require.Len(t, c.Args, 2)
	w := c.Args[0].(*ast.CaseWhen)
	assert.NotNil(t, w.Expr)
	assert.NotNil(t, w.Result)
	assert.NotNil(t, c.Defresult)

	c = firstTarget(t, "SELECT CASE x WHEN 1 THEN 'a' END").(*ast.CaseExpr)
	assert.NotNil(t, c.Arg)
	assert.Nil(t, c.Defresult)
}

func TestCoalesceGreatestLeast(t *testing.T) {
	co := firstTarget(t, "SELECT COALESCE(a, b, 0)").(*ast.CoalesceExpr)
	assert.Len(t, co.Args, 3)

	mm := firstTarget(t, "SELECT GREATEST(a, b)").(*ast.MinMaxExpr)
	assert.Equal(t, ast.IsGreatest, mm.Op)

	mm = firstTarget(t, "SELECT LEAST(a, b)").(*ast.MinMaxExpr)
	assert.Equal(t, ast.IsLeast, mm.Op)
}

func TestOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3).
	add := firstTarget(t, "SELECT 1 + 2 * 3").(*ast.A_Expr)
	assert.Equal(t, "+", add.Name[0].(*ast.String).Sval)
	mul := add.Rexpr.(*ast.A_Expr)
	assert.Equal(t, "*", mul.Name[0].(*ast.String).Sval)

	// Comparison binds looser than arithmetic.
	cmp := firstTarget(t, "SELECT a + 1 > b").(*ast.A_Expr)
	assert.Equal(t, ">", cmp.Name[0].(*ast.String).Sval)
	assert.Equal(t, "+", cmp.Lexpr.(*ast.A_Expr).Name[0].(*ast.String).Sval)

	// Named operators bind looser than arithmetic.
	cat := firstTarget(t, "SELECT a || b + 1").(*ast.A_Expr)
	assert.Equal(t, "||", cat.Name[0].(*ast.String).Sval)
}

func TestSetOperations(t *testing.T) {
	s := sel(t, "SELECT 1 UNION SELECT 2 INTERSECT SELECT 3")
	assert.Equal(t, ast.SetOpUnion, s.Op)
	assert.False(t, s.All)
	assert.Equal(t, ast.SetOpNone, s.Larg.Op)
	assert.Equal(t, ast.SetOpIntersect, s.Rarg.Op)

	s = sel(t, "SELECT 1 UNION ALL SELECT 2")
	assert.True(t, s.All)

	// Trailing clauses attach to the whole set operation.
	s = sel(t, "SELECT 1 UNION SELECT 2 ORDER BY 1 LIMIT 5")
	assert.Equal(t, ast.SetOpUnion, s.Op)
	assert.Len(t, s.SortClause, 1)
	assert.NotNil(t, s.LimitCount)
}

func TestLimitVariants(t *testing.T) {
	s := sel(t, "SELECT 1 LIMIT ALL")
	require.NotNil(t, s.LimitCount)
	assert.True(t, s.LimitCount.(*ast.A_Const).Isnull)

	s = sel(t, "SELECT 1 FETCH FIRST 3 ROWS ONLY")
	assert.Equal(t, int32(3), s.LimitCount.(*ast.A_Const).Val.(*ast.Integer).Ival)
	assert.Equal(t, ast.LimitOptionCount, s.LimitOption)

	s = sel(t, "SELECT 1 FETCH NEXT ROW WITH TIES")
	assert.Equal(t, int32(1), s.LimitCount.(*ast.A_Const).Val.(*ast.Integer).Ival)
	assert.Equal(t, ast.LimitOptionWithTies, s.LimitOption)

	e := parseFatal(t, "SELECT 1 LIMIT 1 LIMIT 2")
	assert.Equal(t, "multiple LIMIT clauses not allowed", e.Message)
	assert.Equal(t, 17, e.Location)
}

func TestLockingClauses(t *testing.T) {
	s := sel(t, "SELECT * FROM t FOR UPDATE OF t NOWAIT")
	require.Len(t, s.LockingClause, 1)
	lc := s.LockingClause[0].(*ast.LockingClause)
	assert.Equal(t, ast.LCSForUpdate, lc.Strength)
	assert.Len(t, lc.LockedRels, 1)
	assert.Equal(t, ast.LockWaitError, lc.WaitPolicy)

	s = sel(t, "SELECT * FROM t FOR KEY SHARE SKIP LOCKED")
	lc = s.LockingClause[0].(*ast.LockingClause)
	assert.Equal(t, ast.LCSForKeyShare, lc.Strength)
	assert.Equal(t, ast.LockWaitSkip, lc.WaitPolicy)
}

func TestGroupingSets(t *testing.T) {
	s := sel(t, "SELECT a FROM t GROUP BY ROLLUP (a, b), CUBE (c), GROUPING SETS ((a), ()), d")
	require.Len(t, s.GroupClause, 4)

	rollup := s.GroupClause[0].(*ast.GroupingSet)
	assert.Equal(t, ast.GroupingSetRollup, rollup.Kind)
	assert.Len(t, rollup.Content, 2)

	cube := s.GroupClause[1].(*ast.GroupingSet)
	assert.Equal(t, ast.GroupingSetCube, cube.Kind)

	sets := s.GroupClause[2].(*ast.GroupingSet)
	assert.Equal(t, ast.GroupingSetSets, sets.Kind)
	require.Len(t, sets.Content, 2)
	assert.IsType(t, &ast.ColumnRef{}, sets.Content[0])
	assert.Equal(t, ast.GroupingSetEmpty, sets.Content[1].(*ast.GroupingSet).Kind)

	assert.IsType(t, &ast.ColumnRef{}, s.GroupClause[3])

	s = sel(t, "SELECT a FROM t GROUP BY DISTINCT a")
	assert.True(t, s.GroupDistinct)
}

func TestWithClause(t *testing.T) {
	s := sel(t, "WITH RECURSIVE w (n) AS (SELECT 1) SELECT * FROM w")
	require.NotNil(t, s.WithClause)
	assert.True(t, s.WithClause.Recursive)
	require.Len(t, s.WithClause.Ctes, 1)

	cte := s.WithClause.Ctes[0].(*ast.CommonTableExpr)
	assert.Equal(t, "w", cte.Ctename)
	assert.Len(t, cte.Aliascolnames, 1)
	assert.Equal(t, ast.CTEMaterializeDefault, cte.Ctematerialized)
	assert.IsType(t, &ast.SelectStmt{}, cte.Ctequery)

	s = sel(t, "WITH w AS MATERIALIZED (SELECT 1) SELECT 1")
	cte = s.WithClause.Ctes[0].(*ast.CommonTableExpr)
	assert.Equal(t, ast.CTEMaterializeAlways, cte.Ctematerialized)

	s = sel(t, "WITH w AS NOT MATERIALIZED (SELECT 1) SELECT 1")
	cte = s.WithClause.Ctes[0].(*ast.CommonTableExpr)
	assert.Equal(t, ast.CTEMaterializeNever, cte.Ctematerialized)
}

func TestInsert(t *testing.T) {
	ins := onlyStmt(t, "INSERT INTO t (a, b) VALUES (1, 2), (3, 4)").(*ast.InsertStmt)
	assert.Equal(t, "t", ins.Relation.Relname)
	require.Len(t, ins.Cols, 2)
	assert.Equal(t, "a", ins.Cols[0].(*ast.ResTarget).Name)
	src := ins.SelectStmt.(*ast.SelectStmt)
	require.Len(t, src.ValuesLists, 2)
	assert.Len(t, src.ValuesLists[0].(*ast.List).Items, 2)

	ins = onlyStmt(t, "INSERT INTO t DEFAULT VALUES").(*ast.InsertStmt)
	assert.Nil(t, ins.SelectStmt)

	ins = onlyStmt(t, "INSERT INTO t AS x SELECT * FROM s RETURNING id").(*ast.InsertStmt)
	require.NotNil(t, ins.Relation.Alias)
	assert.Equal(t, "x", ins.Relation.Alias.Aliasname)
	assert.NotNil(t, ins.SelectStmt)
	assert.Len(t, ins.ReturningList, 1)
}

func TestOnConflict(t *testing.T) {
	ins := onlyStmt(t, "INSERT INTO t (a) VALUES (1) ON CONFLICT (a) DO UPDATE SET a = excluded.a WHERE t.b > 0").(*ast.InsertStmt)
	oc := ins.OnConflictClause
	require.NotNil(t, oc)
	assert.Equal(t, ast.OnConflictUpdate, oc.Action)
	require.NotNil(t, oc.Infer)
	require.Len(t, oc.Infer.IndexElems, 1)
	assert.Equal(t, "a", oc.Infer.IndexElems[0].(*ast.IndexElem).Name)
	require.Len(t, oc.TargetList, 1)
	assert.Equal(t, "a", oc.TargetList[0].(*ast.ResTarget).Name)
	assert.NotNil(t, oc.WhereClause)

	ins = onlyStmt(t, "INSERT INTO t (a) VALUES (1) ON CONFLICT DO NOTHING").(*ast.InsertStmt)
	oc = ins.OnConflictClause
	require.NotNil(t, oc)
	assert.Equal(t, ast.OnConflictNothing, oc.Action)
	assert.Nil(t, oc.Infer)

	ins = onlyStmt(t, "INSERT INTO t (a) VALUES (1) ON CONFLICT ON CONSTRAINT t_pkey DO NOTHING").(*ast.InsertStmt)
	require.NotNil(t, ins.OnConflictClause.Infer)
	assert.Equal(t, "t_pkey", ins.OnConflictClause.Infer.Conname)
}

func TestUpdate(t *testing.T) {
	upd := onlyStmt(t, "UPDATE t x SET a = 1, b = c + 1 FROM u WHERE x.id = u.id RETURNING *").(*ast.UpdateStmt)
	require.NotNil(t, upd.Relation.Alias)
	assert.Equal(t, "x", upd.Relation.Alias.Aliasname)
	require.Len(t, upd.TargetList, 2)
	rt := upd.TargetList[0].(*ast.ResTarget)
	assert.Equal(t, "a", rt.Name)
	assert.NotNil(t, rt.Val)
	assert.Len(t, upd.FromClause, 1)
	assert.NotNil(t, upd.WhereClause)
	assert.Len(t, upd.ReturningList, 1)

	upd = onlyStmt(t, "UPDATE ONLY t SET a = 1").(*ast.UpdateStmt)
	assert.False(t, upd.Relation.Inh)
}

func TestDelete(t *testing.T) {
	del := onlyStmt(t, "DELETE FROM t USING u WHERE t.a = u.a RETURNING a").(*ast.DeleteStmt)
	assert.Equal(t, "t", del.Relation.Relname)
	assert.Len(t, del.UsingClause, 1)
	assert.NotNil(t, del.WhereClause)
	assert.Len(t, del.ReturningList, 1)
}

func TestCreateTable(t *testing.T) {
	sql := `CREATE TABLE IF NOT EXISTS s.t (
		id int PRIMARY KEY,
		name text NOT NULL,
		v numeric(10,2) DEFAULT 0,
		ref int CONSTRAINT fk REFERENCES other (id),
		CHECK (id > 0),
		UNIQUE (name),
		FOREIGN KEY (ref) REFERENCES other (id)
	)`
	c := onlyStmt(t, sql).(*ast.CreateStmt)
	assert.True(t, c.IfNotExists)
	assert.Equal(t, "s", c.Relation.Schemaname)
	assert.Equal(t, "t", c.Relation.Relname)
	assert.Equal(t, "p", c.Relation.Relpersistence)
	require.Len(t, c.TableElts, 7)

	id := c.TableElts[0].(*ast.ColumnDef)
	assert.Equal(t, "id", id.Colname)
	assert.Equal(t, "int4", id.TypeName.Names[1].(*ast.String).Sval)
	require.Len(t, id.Constraints, 1)
	assert.Equal(t, ast.ConstrPrimary, id.Constraints[0].(*ast.Constraint).Contype)

	name := c.TableElts[1].(*ast.ColumnDef)
	require.Len(t, name.TypeName.Names, 1)
	assert.Equal(t, "text", name.TypeName.Names[0].(*ast.String).Sval)
	assert.Equal(t, ast.ConstrNotNull, name.Constraints[0].(*ast.Constraint).Contype)

	v := c.TableElts[2].(*ast.ColumnDef)
	require.Len(t, v.TypeName.Typmods, 2)
	def := v.Constraints[0].(*ast.Constraint)
	assert.Equal(t, ast.ConstrDefault, def.Contype)
	assert.NotNil(t, def.RawExpr)

	ref := c.TableElts[3].(*ast.ColumnDef)
	fk := ref.Constraints[0].(*ast.Constraint)
	assert.Equal(t, ast.ConstrForeign, fk.Contype)
	assert.Equal(t, "fk", fk.Conname)
	require.NotNil(t, fk.Pktable)
	assert.Equal(t, "other", fk.Pktable.Relname)
	require.Len(t, fk.PkAttrs, 1)

	check := c.TableElts[4].(*ast.Constraint)
	assert.Equal(t, ast.ConstrCheck, check.Contype)
	assert.NotNil(t, check.RawExpr)

	uq := c.TableElts[5].(*ast.Constraint)
	assert.Equal(t, ast.ConstrUnique, uq.Contype)
	require.Len(t, uq.Keys, 1)
	assert.Equal(t, "name", uq.Keys[0].(*ast.String).Sval)

	tfk := c.TableElts[6].(*ast.Constraint)
	assert.Equal(t, ast.ConstrForeign, tfk.Contype)
	require.Len(t, tfk.FkAttrs, 1)
	assert.Equal(t, "ref", tfk.FkAttrs[0].(*ast.String).Sval)
}

func TestCreateTablePersistence(t *testing.T) {
	c := onlyStmt(t, "CREATE TEMP TABLE t (a int)").(*ast.CreateStmt)
	assert.Equal(t, "t", c.Relation.Relpersistence)

	c = onlyStmt(t, "CREATE GLOBAL TEMPORARY TABLE t (a int)").(*ast.CreateStmt)
	assert.Equal(t, "t", c.Relation.Relpersistence)

	c = onlyStmt(t, "CREATE UNLOGGED TABLE t (a int)").(*ast.CreateStmt)
	assert.Equal(t, "u", c.Relation.Relpersistence)
}

func TestConstraintAttributes(t *testing.T) {
	c := onlyStmt(t, "CREATE TABLE t (a int UNIQUE DEFERRABLE INITIALLY DEFERRED)").(*ast.CreateStmt)
	col := c.TableElts[0].(*ast.ColumnDef)
	require.Len(t, col.Constraints, 1)
	uq := col.Constraints[0].(*ast.Constraint)
	assert.True(t, uq.Deferrable)
	assert.True(t, uq.Initdeferred)

	e := parseFatal(t, "CREATE TABLE t (a int DEFERRABLE)")
	assert.Equal(t, "misplaced DEFERRABLE clause", e.Message)
	assert.Equal(t, 22, e.Location)
}

func TestDropStmt(t *testing.T) {
	d := onlyStmt(t, "DROP TABLE IF EXISTS a.b, c CASCADE").(*ast.DropStmt)
	assert.Equal(t, ast.ObjectTable, d.RemoveType)
	assert.True(t, d.MissingOk)
	assert.Equal(t, ast.DropCascade, d.Behavior)
	require.Len(t, d.Objects, 2)

	first := d.Objects[0].(*ast.List)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "a", first.Items[0].(*ast.String).Sval)
	assert.Equal(t, "b", first.Items[1].(*ast.String).Sval)

	d = onlyStmt(t, "DROP VIEW v").(*ast.DropStmt)
	assert.Equal(t, ast.ObjectView, d.RemoveType)
	assert.Equal(t, ast.DropRestrict, d.Behavior)
	assert.False(t, d.MissingOk)
}

func TestTransactionStatements(t *testing.T) {
	tests := []struct {
		sql  string
		kind ast.TransactionStmtKind
	}{
		{"BEGIN", ast.TransStmtBegin},
		{"BEGIN WORK", ast.TransStmtBegin},
		{"START TRANSACTION", ast.TransStmtStart},
		{"COMMIT", ast.TransStmtCommit},
		{"END", ast.TransStmtCommit},
		{"ROLLBACK", ast.TransStmtRollback},
		{"ABORT", ast.TransStmtRollback},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			ts := onlyStmt(t, tt.sql).(*ast.TransactionStmt)
			assert.Equal(t, tt.kind, ts.Kind)
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		message string
		loc     int
	}{
		{"stray word", "SELECT a FRM t", `syntax error at or near "t"`, 13},
		{"reserved in name position", "SELECT FROM WHERE", `syntax error at or near "WHERE"`, 12},
		{"unclosed paren", "SELECT (1", "syntax error at end of input", 9},
		{"empty input after keyword", "SELECT 1 UNION", "syntax error at end of input", 14},
		{"bad insert", "INSERT t VALUES (1)", `syntax error at or near "t"`, 7},
		{"over-qualified relation", "SELECT * FROM a.b.c.d",
			"improper qualified name (too many dotted names): a.b.c.d", 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseFatal(t, tt.sql)
			assert.Equal(t, tt.message, e.Message)
			assert.Equal(t, tt.loc, e.Location)
		})
	}
}

func TestErrorReportsGrammarSite(t *testing.T) {
	e := parseFatal(t, "SELECT )")
	assert.NotEmpty(t, e.File)
	assert.NotEmpty(t, e.Func)
	assert.Positive(t, e.Line)
}

func TestCommentsIgnored(t *testing.T) {
	tree := parseSQL(t, "SELECT /* c1 */ 1 -- trailing\n; -- done")
	require.Len(t, tree.Stmts, 1)
	s := tree.Stmts[0].Stmt.(*ast.SelectStmt)
	require.Len(t, s.TargetList, 1)
}

func TestQuotedIdentifiers(t *testing.T) {
	s := sel(t, `SELECT "select" FROM "my ""table"""`)
	cr := s.TargetList[0].(*ast.ResTarget).Val.(*ast.ColumnRef)
	assert.Equal(t, "select", cr.Fields[0].(*ast.String).Sval)
	assert.Equal(t, `my "table"`, s.FromClause[0].(*ast.RangeVar).Relname)
}
