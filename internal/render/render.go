// Package render deparses ast nodes back to SQL text.
//
// Output is canonical rather than faithful to the original spelling:
// single spaces, uppercase keywords, quoted identifiers only where
// required, and parentheses only where precedence demands them. Rendering
// a tree that came from the grammar and reparsing the result yields the
// same tree.
//
// Like the scanner and grammar, the renderer reports failure through
// pgerr fatals rather than error returns.
package render

import (
	"strings"

	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/token"
)

// Tree renders a whole parse tree, separating statements with semicolons.
func Tree(t *ast.Tree) string {
	d := &deparser{}
	for i, raw := range t.Stmts {
		if i > 0 {
			d.text("; ")
		}
		d.stmt(raw.Stmt)
	}
	return d.buf.String()
}

// Node renders a single node in isolation. Statements render as they
// would in a tree, expressions as they would inside a clause, and the
// clause-level nodes in their bespoke spellings. Nodes with no
// standalone rendering (bare values, lists) are reported as fatals.
func Node(n ast.Node) string {
	d := &deparser{}
	d.node(n)
	return d.buf.String()
}

type deparser struct {
	buf strings.Builder
}

func (d *deparser) text(s string) {
	d.buf.WriteString(s)
}

func (d *deparser) space() {
	d.buf.WriteByte(' ')
}

// ident writes a name, quoting it when it is not a safe bare identifier.
// Unreserved keywords stay bare, the other keyword classes are quoted.
func (d *deparser) ident(s string) {
	if identNeedsQuote(s) {
		d.buf.WriteByte('"')
		d.buf.WriteString(strings.ReplaceAll(s, `"`, `""`))
		d.buf.WriteByte('"')
		return
	}
	d.buf.WriteString(s)
}

func identNeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return true
			}
		default:
			return true
		}
	}
	if t, ok := token.Lookup(s); ok {
		return token.KeywordOf(t) != token.UnreservedKeyword
	}
	return false
}

// literal writes a string constant with quote doubling.
func (d *deparser) literal(s string) {
	d.buf.WriteByte('\'')
	d.buf.WriteString(strings.ReplaceAll(s, "'", "''"))
	d.buf.WriteByte('\'')
}

// dotted writes a qualified name from String parts, with A_Star allowed
// as the final part.
func (d *deparser) dotted(parts []ast.Node) {
	for i, part := range parts {
		if i > 0 {
			d.buf.WriteByte('.')
		}
		switch v := part.(type) {
		case *ast.String:
			d.ident(v.Sval)
		case *ast.A_Star:
			d.buf.WriteByte('*')
		default:
			pgerr.Report("unexpected node type %s in name list", ast.KindOf(part))
		}
	}
}

// commaExprs writes a comma-separated expression list.
func (d *deparser) commaExprs(items []ast.Node) {
	for i, it := range items {
		if i > 0 {
			d.text(", ")
		}
		d.expr(it, precOr)
	}
}

// commaIdents writes a comma-separated name list from String nodes.
func (d *deparser) commaIdents(items []ast.Node) {
	for i, it := range items {
		if i > 0 {
			d.text(", ")
		}
		s, ok := it.(*ast.String)
		if !ok {
			pgerr.Report("unexpected node type %s in name list", ast.KindOf(it))
		}
		d.ident(s.Sval)
	}
}

// node dispatches a standalone node to its class renderer.
func (d *deparser) node(n ast.Node) {
	switch v := n.(type) {
	case *ast.RawStmt:
		d.stmt(v.Stmt)
	case *ast.SelectStmt, *ast.InsertStmt, *ast.UpdateStmt, *ast.DeleteStmt,
		*ast.CreateStmt, *ast.DropStmt, *ast.TransactionStmt:
		d.stmt(n)

	case *ast.ResTarget:
		d.resTarget(v)
	case *ast.RangeVar:
		d.rangeVar(v)
	case *ast.TypeName:
		d.typeName(v)
	case *ast.ColumnDef:
		d.columnDef(v)
	case *ast.SortBy:
		d.sortBy(v)
	case *ast.WindowDef:
		d.windowDef(v)
	case *ast.Alias:
		d.alias(v)
	case *ast.JoinExpr:
		d.joinExpr(v)
	case *ast.CommonTableExpr:
		d.commonTableExpr(v)
	case *ast.WithClause:
		d.withClause(v)
	case *ast.RangeSubselect:
		d.rangeSubselect(v)
	case *ast.RangeFunction:
		d.rangeFunction(v)
	case *ast.OnConflictClause:
		d.onConflict(v)
	case *ast.Constraint:
		d.constraint(v)
	case *ast.IndexElem:
		d.indexElem(v)
	case *ast.LockingClause:
		d.lockingClause(v)
	case *ast.GroupingSet:
		d.groupingSet(v)
	case *ast.RoleSpec:
		d.roleSpec(v)
	case *ast.FunctionParameter:
		d.functionParameter(v)
	case *ast.CaseWhen:
		d.caseWhen(v)
	case *ast.InferClause:
		d.inferClause(v)

	case *ast.A_Expr, *ast.BoolExpr, *ast.NullTest, *ast.BooleanTest,
		*ast.CaseExpr, *ast.FuncCall, *ast.TypeCast, *ast.SubLink,
		*ast.CoalesceExpr, *ast.MinMaxExpr, *ast.RowExpr, *ast.A_ArrayExpr,
		*ast.ColumnRef, *ast.ParamRef, *ast.A_Const, *ast.A_Star:
		d.expr(n, precOr)

	default:
		pgerr.Report("cannot deparse node type %s", ast.KindOf(n))
	}
}
