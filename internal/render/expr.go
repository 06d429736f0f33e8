package render

import (
	"strconv"
	"strings"

	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/ast"
)

// Expression precedence tiers, loosest first. These mirror the grammar's
// ladder; a child whose tier is looser than its context is parenthesized.
const (
	precOr = iota
	precAnd
	precNot
	precIs
	precCmp
	precLike
	precOp
	precAdd
	precMul
	precPow
	precUnary
	precPostfix
	precAtom
)

// expr renders n, parenthesizing when its own binding is looser than the
// surrounding context demands.
func (d *deparser) expr(n ast.Node, prec int) {
	if exprPrec(n) < prec {
		d.text("(")
		d.exprInner(n)
		d.text(")")
		return
	}
	d.exprInner(n)
}

// exprString renders an expression to a fresh buffer; used where the
// caller needs to inspect the first character before committing it.
func exprString(n ast.Node, prec int) string {
	sub := &deparser{}
	sub.expr(n, prec)
	return sub.buf.String()
}

func exprPrec(n ast.Node) int {
	switch v := n.(type) {
	case *ast.BoolExpr:
		switch v.Boolop {
		case ast.OrExpr:
			return precOr
		case ast.AndExpr:
			return precAnd
		default:
			return precNot
		}
	case *ast.NullTest, *ast.BooleanTest:
		return precIs
	case *ast.A_Expr:
		return aExprPrec(v)
	case *ast.SubLink:
		switch v.SubLinkType {
		case ast.AnySublink, ast.AllSublink:
			if len(v.OperName) > 0 {
				return precCmp
			}
			if v.Testexpr != nil {
				return precLike // the IN form
			}
			return precAtom
		default:
			return precAtom
		}
	case *ast.TypeCast:
		if constCastForm(v) {
			return precAtom
		}
		return precPostfix
	case *ast.A_Const:
		if negativeConst(v) {
			return precUnary
		}
		return precAtom
	default:
		return precAtom
	}
}

func aExprPrec(e *ast.A_Expr) int {
	switch e.Kind {
	case ast.AExprOp:
		op := opText(e.Name)
		if e.Lexpr == nil {
			if op == "-" || op == "+" {
				return precUnary
			}
			return precOp
		}
		return opPrec(op)
	case ast.AExprOpAny, ast.AExprOpAll:
		return precCmp
	case ast.AExprDistinct, ast.AExprNotDistinct:
		return precIs
	default:
		// IN, LIKE and the BETWEEN family.
		return precLike
	}
}

func opPrec(op string) int {
	switch op {
	case "+", "-":
		return precAdd
	case "*", "/", "%":
		return precMul
	case "^":
		return precPow
	case "<", ">", "=", "<=", ">=", "<>":
		return precCmp
	default:
		return precOp
	}
}

func opText(name []ast.Node) string {
	if len(name) == 0 {
		pgerr.Report("operator name is empty")
	}
	parts := make([]string, len(name))
	for i, n := range name {
		s, ok := n.(*ast.String)
		if !ok {
			pgerr.Report("unexpected node type %s in operator name", ast.KindOf(n))
		}
		parts[i] = s.Sval
	}
	return strings.Join(parts, ".")
}

func negativeConst(c *ast.A_Const) bool {
	switch v := c.Val.(type) {
	case *ast.Integer:
		return v.Ival < 0
	case *ast.Float:
		return strings.HasPrefix(v.Fval, "-")
	}
	return false
}

// constCastForm reports whether a cast renders as "typename 'literal'".
// The grammar marks these with a -1 location.
func constCastForm(tc *ast.TypeCast) bool {
	if tc.Location != -1 {
		return false
	}
	c, ok := tc.Arg.(*ast.A_Const)
	if !ok {
		return false
	}
	_, ok = c.Val.(*ast.String)
	return ok
}

func (d *deparser) exprInner(n ast.Node) {
	switch v := n.(type) {
	case *ast.A_Const:
		d.aConst(v)
	case *ast.ColumnRef:
		d.dotted(v.Fields)
	case *ast.ParamRef:
		d.text("$")
		d.text(strconv.FormatInt(int64(v.Number), 10))
	case *ast.A_Star:
		d.text("*")
	case *ast.A_Expr:
		d.aExpr(v)
	case *ast.BoolExpr:
		d.boolExpr(v)
	case *ast.NullTest:
		d.expr(v.Arg, precIs)
		if v.Nulltesttype == ast.IsNull {
			d.text(" IS NULL")
		} else {
			d.text(" IS NOT NULL")
		}
	case *ast.BooleanTest:
		d.expr(v.Arg, precIs)
		d.text(boolTestText(v.Booltesttype))
	case *ast.CaseExpr:
		d.caseExpr(v)
	case *ast.FuncCall:
		d.funcCall(v)
	case *ast.TypeCast:
		d.typeCast(v)
	case *ast.SubLink:
		d.subLink(v)
	case *ast.CoalesceExpr:
		d.text("COALESCE(")
		d.commaExprs(v.Args)
		d.text(")")
	case *ast.MinMaxExpr:
		if v.Op == ast.IsGreatest {
			d.text("GREATEST(")
		} else {
			d.text("LEAST(")
		}
		d.commaExprs(v.Args)
		d.text(")")
	case *ast.RowExpr:
		d.text("ROW(")
		d.commaExprs(v.Args)
		d.text(")")
	case *ast.A_ArrayExpr:
		d.text("ARRAY[")
		d.commaExprs(v.Elements)
		d.text("]")
	default:
		pgerr.Report("cannot deparse node type %s", ast.KindOf(n))
	}
}

func (d *deparser) aConst(c *ast.A_Const) {
	if c.Isnull {
		d.text("NULL")
		return
	}
	switch v := c.Val.(type) {
	case *ast.Integer:
		d.text(strconv.FormatInt(int64(v.Ival), 10))
	case *ast.Float:
		d.text(v.Fval)
	case *ast.String:
		d.literal(v.Sval)
	case *ast.Boolean:
		if v.Boolval {
			d.text("TRUE")
		} else {
			d.text("FALSE")
		}
	case *ast.BitString:
		// Bsval keeps the source radix prefix as its first byte.
		d.text(v.Bsval[:1])
		d.literal(v.Bsval[1:])
	default:
		pgerr.Report("cannot deparse node type %s as a constant", ast.KindOf(c.Val))
	}
}

func (d *deparser) boolExpr(b *ast.BoolExpr) {
	switch b.Boolop {
	case ast.NotExpr:
		d.text("NOT ")
		d.expr(b.Args[0], precNot)
	case ast.AndExpr:
		for i, arg := range b.Args {
			if i > 0 {
				d.text(" AND ")
			}
			d.expr(arg, precNot)
		}
	default:
		for i, arg := range b.Args {
			if i > 0 {
				d.text(" OR ")
			}
			d.expr(arg, precAnd)
		}
	}
}

func boolTestText(t ast.BoolTestType) string {
	switch t {
	case ast.IsTrue:
		return " IS TRUE"
	case ast.IsNotTrue:
		return " IS NOT TRUE"
	case ast.IsFalse:
		return " IS FALSE"
	case ast.IsNotFalse:
		return " IS NOT FALSE"
	case ast.IsUnknown:
		return " IS UNKNOWN"
	default:
		return " IS NOT UNKNOWN"
	}
}

func (d *deparser) aExpr(e *ast.A_Expr) {
	switch e.Kind {
	case ast.AExprOp:
		d.aExprOp(e)
	case ast.AExprOpAny, ast.AExprOpAll:
		d.expr(e.Lexpr, precLike)
		d.space()
		d.text(opText(e.Name))
		if e.Kind == ast.AExprOpAny {
			d.text(" ANY (")
		} else {
			d.text(" ALL (")
		}
		d.expr(e.Rexpr, precOr)
		d.text(")")
	case ast.AExprDistinct, ast.AExprNotDistinct:
		d.expr(e.Lexpr, precIs)
		if e.Kind == ast.AExprDistinct {
			d.text(" IS DISTINCT FROM ")
		} else {
			d.text(" IS NOT DISTINCT FROM ")
		}
		d.expr(e.Rexpr, precCmp)
	case ast.AExprIn:
		d.expr(e.Lexpr, precOp)
		if opText(e.Name) == "<>" {
			d.text(" NOT IN (")
		} else {
			d.text(" IN (")
		}
		d.commaExprs(d.listItems(e.Rexpr))
		d.text(")")
	case ast.AExprLike:
		d.patternMatch(e, "LIKE", "like_escape")
	case ast.AExprIlike:
		d.patternMatch(e, "ILIKE", "like_escape")
	case ast.AExprSimilar:
		d.patternMatch(e, "SIMILAR TO", "similar_to_escape")
	default:
		// The BETWEEN family; Rexpr is a two-item list of bounds.
		d.expr(e.Lexpr, precOp)
		d.space()
		d.text(betweenText(e.Kind))
		d.space()
		bounds := d.listItems(e.Rexpr)
		if len(bounds) != 2 {
			pgerr.Report("BETWEEN requires two bounds, node has %d", len(bounds))
		}
		d.expr(bounds[0], precOp)
		d.text(" AND ")
		d.expr(bounds[1], precOp)
	}
}

func (d *deparser) aExprOp(e *ast.A_Expr) {
	op := opText(e.Name)
	if e.Lexpr == nil {
		if op == "-" || op == "+" {
			d.text(op)
			inner := exprString(e.Rexpr, precUnary)
			// A sign directly against another sign would lex as one
			// operator (or a comment introducer).
			if strings.HasPrefix(inner, "-") || strings.HasPrefix(inner, "+") {
				d.space()
			}
			d.text(inner)
			return
		}
		d.text(op)
		d.space()
		d.expr(e.Rexpr, precAdd)
		return
	}
	prec := opPrec(op)
	if prec == precCmp {
		// Comparisons do not associate; both sides sit one tier up.
		d.expr(e.Lexpr, precLike)
		d.space()
		d.text(op)
		d.space()
		d.expr(e.Rexpr, precLike)
		return
	}
	d.expr(e.Lexpr, prec)
	d.space()
	d.text(op)
	d.space()
	d.expr(e.Rexpr, prec+1)
}

func betweenText(k ast.AExprKind) string {
	switch k {
	case ast.AExprBetween:
		return "BETWEEN"
	case ast.AExprNotBetween:
		return "NOT BETWEEN"
	case ast.AExprBetweenSym:
		return "BETWEEN SYMMETRIC"
	case ast.AExprNotBetweenSym:
		return "NOT BETWEEN SYMMETRIC"
	default:
		pgerr.Report("unexpected BETWEEN kind %s", k)
		return ""
	}
}

// patternMatch renders LIKE, ILIKE and SIMILAR TO, unwrapping the escape
// translation call the grammar builds around the pattern.
func (d *deparser) patternMatch(e *ast.A_Expr, phrase, escapeFunc string) {
	d.expr(e.Lexpr, precOp)
	d.space()
	if strings.HasPrefix(opText(e.Name), "!") {
		d.text("NOT ")
	}
	d.text(phrase)
	d.space()
	pattern, escape := unwrapEscape(e.Rexpr, escapeFunc)
	d.expr(pattern, precOp)
	if escape != nil {
		d.text(" ESCAPE ")
		d.expr(escape, precOp)
	}
}

func unwrapEscape(n ast.Node, escapeFunc string) (pattern, escape ast.Node) {
	fc, ok := n.(*ast.FuncCall)
	if !ok || !isSystemFunc(fc, escapeFunc) {
		return n, nil
	}
	switch len(fc.Args) {
	case 1:
		return fc.Args[0], nil
	case 2:
		return fc.Args[0], fc.Args[1]
	}
	return n, nil
}

func isSystemFunc(fc *ast.FuncCall, name string) bool {
	if len(fc.Funcname) != 2 || fc.AggStar || fc.AggDistinct || fc.Over != nil {
		return false
	}
	schema, ok := fc.Funcname[0].(*ast.String)
	if !ok || schema.Sval != "pg_catalog" {
		return false
	}
	fn, ok := fc.Funcname[1].(*ast.String)
	return ok && fn.Sval == name
}

// Keyword-spelled functions the grammar lowers to pg_catalog calls.
var valueFuncs = map[string]bool{
	"current_date": true, "current_time": true, "current_timestamp": true,
	"localtime": true, "localtimestamp": true,
	"current_role": true, "current_user": true, "session_user": true,
	"user": true, "current_catalog": true, "current_schema": true,
}

func (d *deparser) funcCall(fc *ast.FuncCall) {
	if len(fc.Funcname) == 2 && len(fc.Args) == 0 && !fc.AggStar && !fc.AggDistinct && fc.Over == nil {
		if schema, ok := fc.Funcname[0].(*ast.String); ok && schema.Sval == "pg_catalog" {
			if fn, ok := fc.Funcname[1].(*ast.String); ok && valueFuncs[fn.Sval] {
				d.text(strings.ToUpper(fn.Sval))
				return
			}
		}
	}
	d.dotted(fc.Funcname)
	d.text("(")
	switch {
	case fc.AggStar:
		d.text("*")
	case fc.AggDistinct:
		d.text("DISTINCT ")
		d.commaExprs(fc.Args)
	default:
		d.commaExprs(fc.Args)
	}
	d.text(")")
	if fc.Over != nil {
		d.text(" OVER ")
		if fc.Over.Name != "" {
			d.ident(fc.Over.Name)
		} else {
			d.windowSpecBody(fc.Over)
		}
	}
}

func (d *deparser) typeCast(tc *ast.TypeCast) {
	if constCastForm(tc) {
		d.typeName(tc.TypeName)
		d.space()
		d.aConst(tc.Arg.(*ast.A_Const))
		return
	}
	d.expr(tc.Arg, precPostfix)
	d.text("::")
	d.typeName(tc.TypeName)
}

func (d *deparser) subLink(s *ast.SubLink) {
	switch s.SubLinkType {
	case ast.ExistsSublink:
		d.text("EXISTS (")
		d.stmt(s.Subselect)
		d.text(")")
	case ast.ExprSublink:
		d.text("(")
		d.stmt(s.Subselect)
		d.text(")")
	case ast.AnySublink:
		if len(s.OperName) == 0 {
			d.expr(s.Testexpr, precOp)
			d.text(" IN (")
			d.stmt(s.Subselect)
			d.text(")")
			return
		}
		d.expr(s.Testexpr, precLike)
		d.space()
		d.text(opText(s.OperName))
		d.text(" ANY (")
		d.stmt(s.Subselect)
		d.text(")")
	default:
		d.expr(s.Testexpr, precLike)
		d.space()
		d.text(opText(s.OperName))
		d.text(" ALL (")
		d.stmt(s.Subselect)
		d.text(")")
	}
}

func (d *deparser) listItems(n ast.Node) []ast.Node {
	l, ok := n.(*ast.List)
	if !ok {
		pgerr.Report("expected a list node, have %s", ast.KindOf(n))
	}
	return l.Items
}

func (d *deparser) caseExpr(c *ast.CaseExpr) {
	d.text("CASE")
	if c.Arg != nil {
		d.space()
		d.expr(c.Arg, precOr)
	}
	for _, arg := range c.Args {
		w, ok := arg.(*ast.CaseWhen)
		if !ok {
			pgerr.Report("unexpected node type %s in CASE", ast.KindOf(arg))
		}
		d.space()
		d.caseWhen(w)
	}
	if c.Defresult != nil {
		d.text(" ELSE ")
		d.expr(c.Defresult, precOr)
	}
	d.text(" END")
}

func (d *deparser) caseWhen(w *ast.CaseWhen) {
	d.text("WHEN ")
	d.expr(w.Expr, precOr)
	d.text(" THEN ")
	d.expr(w.Result, precOr)
}
