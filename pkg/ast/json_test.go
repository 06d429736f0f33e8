package ast_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supabase-community/pg-parser/pkg/ast"
)

func selectOneTree() *ast.Tree {
	return &ast.Tree{
		Version: ast.Version,
		Stmts: []*ast.RawStmt{
			{
				Stmt: &ast.SelectStmt{
					TargetList: []ast.Node{
						&ast.ResTarget{
							Val:      &ast.A_Const{Val: &ast.Integer{Ival: 1}, Location: 7},
							Location: 7,
						},
					},
					LimitOption: ast.LimitOptionDefault,
				},
				StmtLen: 8,
			},
		},
	}
}

func TestTreeRoundTrip(t *testing.T) {
	tree := selectOneTree()

	data, err := ast.MarshalTree(tree)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":170004`)
	assert.Contains(t, string(data), `"SelectStmt"`)

	got, err := ast.UnmarshalTree(data)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}

func TestTreeRoundTripComposite(t *testing.T) {
	// One statement touching most of the clause surface: WITH, joins,
	// grouping, windows, sorting, locking.
	stmt := &ast.SelectStmt{
		WithClause: &ast.WithClause{
			Ctes: []ast.Node{
				&ast.CommonTableExpr{
					Ctename: "t",
					Ctequery: &ast.SelectStmt{
						TargetList: []ast.Node{
							&ast.ResTarget{Val: &ast.ColumnRef{Fields: []ast.Node{&ast.A_Star{}}}},
						},
						FromClause: []ast.Node{&ast.RangeVar{Relname: "src", Inh: true, Relpersistence: "p"}},
					},
				},
			},
		},
		DistinctClause: []ast.Node{&ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}}},
		TargetList: []ast.Node{
			&ast.ResTarget{
				Name: "total",
				Val: &ast.FuncCall{
					Funcname: []ast.Node{&ast.String{Sval: "sum"}},
					Args:     []ast.Node{&ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}}},
					Over:     &ast.WindowDef{Refname: "w", FrameOptions: ast.FrameOptionDefaults},
				},
			},
		},
		FromClause: []ast.Node{
			&ast.JoinExpr{
				Jointype: ast.JoinLeft,
				Larg:     &ast.RangeVar{Relname: "t", Inh: true, Relpersistence: "p"},
				Rarg: &ast.RangeSubselect{
					Subquery: &ast.SelectStmt{
						ValuesLists: []ast.Node{
							&ast.List{Items: []ast.Node{&ast.A_Const{Val: &ast.Integer{Ival: 1}}}},
						},
					},
					Alias: &ast.Alias{Aliasname: "v", Colnames: []ast.Node{&ast.String{Sval: "a"}}},
				},
				Quals: &ast.A_Expr{
					Kind:  ast.AExprOp,
					Name:  []ast.Node{&ast.String{Sval: "="}},
					Lexpr: &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "t"}, &ast.String{Sval: "a"}}},
					Rexpr: &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "v"}, &ast.String{Sval: "a"}}},
				},
			},
		},
		GroupClause: []ast.Node{
			&ast.GroupingSet{
				Kind:    ast.GroupingSetRollup,
				Content: []ast.Node{&ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}}},
			},
		},
		HavingClause: &ast.BoolExpr{
			Boolop: ast.AndExpr,
			Args: []ast.Node{
				&ast.NullTest{Arg: &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}}, Nulltesttype: ast.IsNotNull},
				&ast.SubLink{
					SubLinkType: ast.ExistsSublink,
					Subselect: &ast.SelectStmt{
						TargetList: []ast.Node{&ast.ResTarget{Val: &ast.A_Const{Val: &ast.Integer{Ival: 1}}}},
					},
				},
			},
		},
		WindowClause: []ast.Node{
			&ast.WindowDef{
				Name:            "w",
				PartitionClause: []ast.Node{&ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}}},
				FrameOptions:    ast.FrameOptionDefaults,
			},
		},
		SortClause: []ast.Node{
			&ast.SortBy{
				Node:        &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}},
				SortbyDir:   ast.SortByDesc,
				SortbyNulls: ast.SortByNullsLast,
			},
		},
		LimitCount:  &ast.A_Const{Val: &ast.Integer{Ival: 10}},
		LimitOption: ast.LimitOptionCount,
		LockingClause: []ast.Node{
			&ast.LockingClause{
				LockedRels: []ast.Node{&ast.RangeVar{Relname: "t", Inh: true, Relpersistence: "p"}},
				Strength:   ast.LCSForUpdate,
				WaitPolicy: ast.LockWaitSkip,
			},
		},
	}
	tree := &ast.Tree{Version: ast.Version, Stmts: []*ast.RawStmt{{Stmt: stmt, StmtLen: 99}}}

	data, err := ast.MarshalTree(tree)
	require.NoError(t, err)

	got, err := ast.UnmarshalTree(data)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}

func TestNodeRoundTrip(t *testing.T) {
	nodes := []ast.Node{
		&ast.InsertStmt{
			Relation: &ast.RangeVar{Relname: "t", Inh: true, Relpersistence: "p"},
			Cols:     []ast.Node{&ast.ResTarget{Name: "a"}},
			SelectStmt: &ast.SelectStmt{
				ValuesLists: []ast.Node{
					&ast.List{Items: []ast.Node{&ast.A_Const{Val: &ast.Integer{Ival: 1}}}},
				},
			},
			OnConflictClause: &ast.OnConflictClause{
				Action: ast.OnConflictUpdate,
				Infer:  &ast.InferClause{IndexElems: []ast.Node{&ast.IndexElem{Name: "a"}}},
				TargetList: []ast.Node{
					&ast.ResTarget{Name: "a", Val: &ast.A_Const{Val: &ast.Integer{Ival: 2}}},
				},
			},
		},
		&ast.CreateStmt{
			Relation: &ast.RangeVar{Relname: "t", Inh: true, Relpersistence: "t"},
			TableElts: []ast.Node{
				&ast.ColumnDef{
					Colname:  "id",
					TypeName: &ast.TypeName{Names: []ast.Node{&ast.String{Sval: "pg_catalog"}, &ast.String{Sval: "int4"}}},
					Constraints: []ast.Node{
						&ast.Constraint{Contype: ast.ConstrPrimary},
					},
				},
				&ast.Constraint{
					Contype: ast.ConstrForeign,
					FkAttrs: []ast.Node{&ast.String{Sval: "id"}},
					Pktable: &ast.RangeVar{Relname: "u", Inh: true, Relpersistence: "p"},
					PkAttrs: []ast.Node{&ast.String{Sval: "id"}},
				},
			},
			IfNotExists: true,
		},
		&ast.DropStmt{
			Objects:    []ast.Node{&ast.List{Items: []ast.Node{&ast.String{Sval: "s"}, &ast.String{Sval: "t"}}}},
			RemoveType: ast.ObjectTable,
			Behavior:   ast.DropCascade,
			MissingOk:  true,
		},
		&ast.TransactionStmt{Kind: ast.TransStmtCommit},
		// Bare DISTINCT keeps a single nil entry in its clause list.
		&ast.SelectStmt{
			DistinctClause: []ast.Node{nil},
			TargetList:     []ast.Node{&ast.ResTarget{Val: &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "a"}}}}},
		},
		&ast.CaseExpr{
			Arg: &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "x"}}},
			Args: []ast.Node{
				&ast.CaseWhen{Expr: &ast.A_Const{Val: &ast.Integer{Ival: 1}}, Result: &ast.String{Sval: "one"}},
			},
			Defresult: &ast.A_Const{Isnull: true},
		},
		&ast.TypeCast{
			Arg:      &ast.A_Const{Val: &ast.String{Sval: "1"}},
			TypeName: &ast.TypeName{Names: []ast.Node{&ast.String{Sval: "numeric"}}, Typmods: []ast.Node{&ast.A_Const{Val: &ast.Integer{Ival: 10}}}},
		},
		&ast.MinMaxExpr{Op: ast.IsLeast, Args: []ast.Node{&ast.A_Const{Val: &ast.Integer{Ival: 1}}}},
		&ast.BooleanTest{Arg: &ast.ColumnRef{Fields: []ast.Node{&ast.String{Sval: "b"}}}, Booltesttype: ast.IsNotFalse},
		&ast.ParamRef{Number: 3, Location: 9},
		&ast.A_ArrayExpr{Elements: []ast.Node{&ast.A_Const{Val: &ast.Integer{Ival: 1}}}},
		&ast.RoleSpec{Roletype: ast.RoleSpecCstring, Rolename: "app"},
		&ast.FunctionParameter{Name: "n", ArgType: &ast.TypeName{Names: []ast.Node{&ast.String{Sval: "int4"}}}, Mode: ast.FuncParamIn},
		&ast.BitString{Bsval: "b0101"},
	}

	for _, n := range nodes {
		data, err := ast.MarshalNode(n)
		require.NoError(t, err, "marshal %T", n)

		got, err := ast.UnmarshalNode(data)
		require.NoError(t, err, "unmarshal %T: %s", n, data)
		assert.Equal(t, n, got, "round trip %T", n)
	}
}

func TestMarshalOmitsZeroFields(t *testing.T) {
	data, err := ast.MarshalNode(&ast.SelectStmt{
		TargetList: []ast.Node{&ast.ResTarget{Val: &ast.A_Const{Val: &ast.Integer{Ival: 1}, Location: 7}, Location: 7}},
	})
	require.NoError(t, err)

	var m map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	sel := m["SelectStmt"]
	require.NotNil(t, sel)
	assert.Contains(t, sel, "targetList")
	assert.NotContains(t, sel, "whereClause")
	assert.NotContains(t, sel, "op")
	assert.NotContains(t, sel, "all")

	data, err = ast.MarshalNode(&ast.A_Star{})
	require.NoError(t, err)
	assert.Equal(t, `{"A_Star":{}}`, string(data))
}

func TestUnmarshalNodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not an object", `42`, "expected node object"},
		{"two keys", `{"SelectStmt":{},"RawStmt":{}}`, "exactly one key"},
		{"unknown kind", `{"FancyStmt":{}}`, `unknown node kind "FancyStmt"`},
		{"unknown field", `{"SelectStmt":{"bogus":1}}`, `SelectStmt: unknown field "bogus"`},
		{"bad enum", `{"SelectStmt":{"op":"SETOP_SIDEWAYS"}}`, `unknown value "SETOP_SIDEWAYS"`},
		{"wrong scalar type", `{"ParamRef":{"number":"three"}}`, "expected integer"},
		{"integer overflow", `{"ParamRef":{"number":4294967296}}`, "integer out of range"},
		{"typed field mismatch", `{"InsertStmt":{"relation":{"Alias":{}}}}`, "expected RangeVar node"},
		{"trailing data", `{"A_Star":{}} {}`, "trailing data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ast.UnmarshalNode([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnmarshalTreeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed", `{"version":`, "invalid tree text"},
		{"not an object", `[1,2]`, "not an object"},
		{"missing version", `{"stmts":[]}`, "unsupported tree version 0"},
		{"wrong version", `{"version":160001,"stmts":[]}`, "unsupported tree version 160001"},
		{"unknown top-level field", `{"version":170004,"stmts":[],"extra":1}`, `unknown field "extra"`},
		{"bad stmts", `{"version":170004,"stmts":{}}`, "expected array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ast.UnmarshalTree([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEmptyTree(t *testing.T) {
	data, err := ast.MarshalTree(&ast.Tree{Version: ast.Version})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":170004,"stmts":[]}`, string(data))

	got, err := ast.UnmarshalTree(data)
	require.NoError(t, err)
	assert.Empty(t, got.Stmts)
}

func TestKindNames(t *testing.T) {
	k, ok := ast.KindByName("SelectStmt")
	require.True(t, ok)
	assert.Equal(t, ast.T_SelectStmt, k)
	assert.Equal(t, "A_Const", ast.T_A_Const.String())

	_, ok = ast.KindByName("NoSuchNode")
	assert.False(t, ok)

	assert.Equal(t, ast.T_RangeVar, ast.KindOf(&ast.RangeVar{}))
	assert.Equal(t, ast.T_Invalid, ast.KindOf(nil))
}
