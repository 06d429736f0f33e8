package grammar

import (
	"math"
	"strconv"
	"strings"

	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/token"
)

// Expression precedence, loosest first: OR, AND, NOT, IS tests, comparison
// (non-associative), pattern/range/membership, named operators, additive,
// multiplicative, exponent, unary sign, then postfix casts. Each tier is
// one function calling the next.

func (p *parser) expr() ast.Node { return p.exprOr() }

func (p *parser) exprOr() ast.Node {
	n := p.exprAnd()
	for p.is(token.OR) {
		loc := p.cur().Start
		p.pos++
		n = makeBool(ast.OrExpr, n, p.exprAnd(), loc)
	}
	return n
}

func (p *parser) exprAnd() ast.Node {
	n := p.exprNot()
	for p.is(token.AND) {
		loc := p.cur().Start
		p.pos++
		n = makeBool(ast.AndExpr, n, p.exprNot(), loc)
	}
	return n
}

func (p *parser) exprNot() ast.Node {
	if p.is(token.NOT) && !likeFollows(p.peek(1).Type) {
		loc := p.cur().Start
		p.pos++
		return &ast.BoolExpr{Boolop: ast.NotExpr, Args: []ast.Node{p.exprNot()}, Location: loc}
	}
	return p.exprIs()
}

// makeBool flattens runs of the same connective into one node, keeping the
// location of the first operator.
func makeBool(op ast.BoolExprType, l, r ast.Node, loc int32) ast.Node {
	if b, ok := l.(*ast.BoolExpr); ok && b.Boolop == op && op != ast.NotExpr {
		b.Args = append(b.Args, r)
		return b
	}
	return &ast.BoolExpr{Boolop: op, Args: []ast.Node{l, r}, Location: loc}
}

func (p *parser) exprIs() ast.Node {
	n := p.exprCmp()
	for {
		switch p.cur().Type {
		case token.IS:
			loc := p.cur().Start
			p.pos++
			not := p.accept(token.NOT)
			switch {
			case p.accept(token.NULL):
				tt := ast.IsNull
				if not {
					tt = ast.IsNotNull
				}
				n = &ast.NullTest{Arg: n, Nulltesttype: tt, Location: loc}
			case p.accept(token.TRUE):
				n = boolTest(n, not, ast.IsTrue, ast.IsNotTrue, loc)
			case p.accept(token.FALSE):
				n = boolTest(n, not, ast.IsFalse, ast.IsNotFalse, loc)
			case p.accept(token.UNKNOWN):
				n = boolTest(n, not, ast.IsUnknown, ast.IsNotUnknown, loc)
			case p.accept(token.DISTINCT):
				p.expect(token.FROM)
				kind := ast.AExprDistinct
				if not {
					kind = ast.AExprNotDistinct
				}
				n = &ast.A_Expr{Kind: kind, Name: strName("="), Lexpr: n, Rexpr: p.exprCmp(), Location: loc}
			default:
				p.syntaxError()
			}
		case token.ISNULL:
			loc := p.cur().Start
			p.pos++
			n = &ast.NullTest{Arg: n, Nulltesttype: ast.IsNull, Location: loc}
		case token.NOTNULL:
			loc := p.cur().Start
			p.pos++
			n = &ast.NullTest{Arg: n, Nulltesttype: ast.IsNotNull, Location: loc}
		default:
			return n
		}
	}
}

func boolTest(arg ast.Node, not bool, pos, neg ast.BoolTestType, loc int32) ast.Node {
	tt := pos
	if not {
		tt = neg
	}
	return &ast.BooleanTest{Arg: arg, Booltesttype: tt, Location: loc}
}

func cmpOpText(t token.Type) (string, bool) {
	switch t {
	case token.Type('<'):
		return "<", true
	case token.Type('>'):
		return ">", true
	case token.Type('='):
		return "=", true
	case token.LessEquals:
		return "<=", true
	case token.GreaterEquals:
		return ">=", true
	case token.NotEquals:
		return "<>", true
	}
	return "", false
}

func (p *parser) exprCmp() ast.Node {
	n := p.exprLike()
	op, ok := cmpOpText(p.cur().Type)
	if !ok {
		return n
	}
	loc := p.cur().Start
	p.pos++
	if sub := p.subAnyAll(op, n, loc); sub != nil {
		return sub
	}
	return &ast.A_Expr{Kind: ast.AExprOp, Name: strName(op), Lexpr: n, Rexpr: p.exprLike(), Location: loc}
}

// subAnyAll handles "op ANY (...)" and "op ALL (...)": a SubLink when the
// parentheses hold a select, an A_Expr over an array expression otherwise.
func (p *parser) subAnyAll(op string, l ast.Node, loc int32) ast.Node {
	var slt ast.SubLinkType
	var kind ast.AExprKind
	switch p.cur().Type {
	case token.ANY, token.SOME:
		slt, kind = ast.AnySublink, ast.AExprOpAny
	case token.ALL:
		slt, kind = ast.AllSublink, ast.AExprOpAll
	default:
		return nil
	}
	p.pos++
	p.expectByte('(')
	if p.selectStartNext() {
		s := p.selectWithParens()
		p.expectByte(')')
		return &ast.SubLink{SubLinkType: slt, Testexpr: l, OperName: strName(op), Subselect: s, Location: loc}
	}
	e := p.expr()
	p.expectByte(')')
	return &ast.A_Expr{Kind: kind, Name: strName(op), Lexpr: l, Rexpr: e, Location: loc}
}

func (p *parser) selectStartNext() bool {
	switch p.cur().Type {
	case token.SELECT, token.VALUES, token.WITH:
		return true
	}
	return false
}

func likeFollows(t token.Type) bool {
	switch t {
	case token.LIKE, token.ILIKE, token.SIMILAR, token.BETWEEN, token.IN:
		return true
	}
	return false
}

func (p *parser) exprLike() ast.Node {
	n := p.exprOp()
	phrase := p.cur()
	not := false
	if p.is(token.NOT) && likeFollows(p.peek(1).Type) {
		not = true
		p.pos++
	}
	switch p.cur().Type {
	case token.LIKE:
		p.pos++
		r := p.likePattern("like_escape")
		op, kind := "~~", ast.AExprLike
		if not {
			op = "!~~"
		}
		return &ast.A_Expr{Kind: kind, Name: strName(op), Lexpr: n, Rexpr: r, Location: phrase.Start}
	case token.ILIKE:
		p.pos++
		r := p.likePattern("like_escape")
		op, kind := "~~*", ast.AExprIlike
		if not {
			op = "!~~*"
		}
		return &ast.A_Expr{Kind: kind, Name: strName(op), Lexpr: n, Rexpr: r, Location: phrase.Start}
	case token.SIMILAR:
		p.pos++
		p.expect(token.TO)
		// The pattern is always wrapped in the escape-translation call.
		pat := p.exprOp()
		args := []ast.Node{pat}
		if p.accept(token.ESCAPE) {
			args = append(args, p.exprOp())
		}
		r := &ast.FuncCall{Funcname: sysName("similar_to_escape"), Args: args, Location: locationOf(pat)}
		op := "~"
		if not {
			op = "!~"
		}
		return &ast.A_Expr{Kind: ast.AExprSimilar, Name: strName(op), Lexpr: n, Rexpr: r, Location: phrase.Start}
	case token.BETWEEN:
		p.pos++
		sym := false
		if p.accept(token.SYMMETRIC) {
			sym = true
		} else {
			p.accept(token.ASYMMETRIC)
		}
		lo := p.exprOp()
		p.expect(token.AND)
		hi := p.exprOp()
		kind, name := betweenKind(not, sym)
		return &ast.A_Expr{
			Kind:     kind,
			Name:     strName(name),
			Lexpr:    n,
			Rexpr:    &ast.List{Items: []ast.Node{lo, hi}},
			Location: phrase.Start,
		}
	case token.IN:
		p.pos++
		p.expectByte('(')
		if p.selectStartNext() {
			s := p.selectWithParens()
			p.expectByte(')')
			sub := &ast.SubLink{SubLinkType: ast.AnySublink, Testexpr: n, Subselect: s, Location: phrase.Start}
			if not {
				return &ast.BoolExpr{Boolop: ast.NotExpr, Args: []ast.Node{sub}, Location: phrase.Start}
			}
			return sub
		}
		items := p.exprList()
		p.expectByte(')')
		op := "="
		if not {
			op = "<>"
		}
		return &ast.A_Expr{
			Kind:     ast.AExprIn,
			Name:     strName(op),
			Lexpr:    n,
			Rexpr:    &ast.List{Items: items},
			Location: phrase.Start,
		}
	default:
		return n
	}
}

// likePattern parses a pattern with an optional ESCAPE, wrapping the pair
// in the named catalog function when an escape is present.
func (p *parser) likePattern(escapeFunc string) ast.Node {
	pat := p.exprOp()
	if !p.is(token.ESCAPE) {
		return pat
	}
	loc := p.cur().Start
	p.pos++
	esc := p.exprOp()
	return &ast.FuncCall{Funcname: sysName(escapeFunc), Args: []ast.Node{pat, esc}, Location: loc}
}

func betweenKind(not, sym bool) (ast.AExprKind, string) {
	switch {
	case not && sym:
		return ast.AExprNotBetweenSym, "NOT BETWEEN SYMMETRIC"
	case not:
		return ast.AExprNotBetween, "NOT BETWEEN"
	case sym:
		return ast.AExprBetweenSym, "BETWEEN SYMMETRIC"
	default:
		return ast.AExprBetween, "BETWEEN"
	}
}

func (p *parser) exprOp() ast.Node {
	var n ast.Node
	if p.is(token.Op) {
		tok := p.cur()
		p.pos++
		n = &ast.A_Expr{Kind: ast.AExprOp, Name: strName(tok.Value), Rexpr: p.exprAdd(), Location: tok.Start}
	} else {
		n = p.exprAdd()
	}
	for p.is(token.Op) {
		tok := p.cur()
		p.pos++
		n = &ast.A_Expr{Kind: ast.AExprOp, Name: strName(tok.Value), Lexpr: n, Rexpr: p.exprAdd(), Location: tok.Start}
	}
	return n
}

func (p *parser) exprAdd() ast.Node {
	n := p.exprMul()
	for p.at('+') || p.at('-') {
		tok := p.cur()
		p.pos++
		n = &ast.A_Expr{Kind: ast.AExprOp, Name: strName(p.text(tok)), Lexpr: n, Rexpr: p.exprMul(), Location: tok.Start}
	}
	return n
}

func (p *parser) exprMul() ast.Node {
	n := p.exprPow()
	for p.at('*') || p.at('/') || p.at('%') {
		tok := p.cur()
		p.pos++
		n = &ast.A_Expr{Kind: ast.AExprOp, Name: strName(p.text(tok)), Lexpr: n, Rexpr: p.exprPow(), Location: tok.Start}
	}
	return n
}

func (p *parser) exprPow() ast.Node {
	n := p.exprUnary()
	for p.at('^') {
		tok := p.cur()
		p.pos++
		n = &ast.A_Expr{Kind: ast.AExprOp, Name: strName("^"), Lexpr: n, Rexpr: p.exprUnary(), Location: tok.Start}
	}
	return n
}

func (p *parser) exprUnary() ast.Node {
	tok := p.cur()
	switch {
	case p.at('-'):
		p.pos++
		return doNegate(p.exprUnary(), tok.Start)
	case p.at('+'):
		p.pos++
		return &ast.A_Expr{Kind: ast.AExprOp, Name: strName("+"), Rexpr: p.exprUnary(), Location: tok.Start}
	}
	return p.exprPostfix()
}

// doNegate folds a minus into a directly following numeric literal, the
// way the engine keeps -1 a single constant.
func doNegate(n ast.Node, loc int32) ast.Node {
	if c, ok := n.(*ast.A_Const); ok {
		switch v := c.Val.(type) {
		case *ast.Integer:
			v.Ival = -v.Ival
			c.Location = loc
			return c
		case *ast.Float:
			if strings.HasPrefix(v.Fval, "-") {
				v.Fval = v.Fval[1:]
			} else {
				v.Fval = "-" + v.Fval
			}
			c.Location = loc
			return c
		}
	}
	return &ast.A_Expr{Kind: ast.AExprOp, Name: strName("-"), Rexpr: n, Location: loc}
}

func (p *parser) exprPostfix() ast.Node {
	n := p.primary()
	for p.is(token.Typecast) {
		loc := p.cur().Start
		p.pos++
		n = &ast.TypeCast{Arg: n, TypeName: p.typeName(), Location: loc}
	}
	return n
}

func (p *parser) primary() ast.Node {
	tok := p.cur()
	switch tok.Type {
	case token.IConst:
		p.pos++
		return makeIntConst(tok.Value, tok.Start)
	case token.FConst:
		p.pos++
		return &ast.A_Const{Val: &ast.Float{Fval: tok.Value}, Location: tok.Start}
	case token.SConst:
		p.pos++
		return &ast.A_Const{Val: &ast.String{Sval: tok.Value}, Location: tok.Start}
	case token.BConst:
		p.pos++
		return &ast.A_Const{Val: &ast.BitString{Bsval: "b" + tok.Value}, Location: tok.Start}
	case token.XConst:
		p.pos++
		return &ast.A_Const{Val: &ast.BitString{Bsval: "x" + tok.Value}, Location: tok.Start}
	case token.TRUE:
		p.pos++
		return &ast.A_Const{Val: &ast.Boolean{Boolval: true}, Location: tok.Start}
	case token.FALSE:
		p.pos++
		return &ast.A_Const{Val: &ast.Boolean{}, Location: tok.Start}
	case token.NULL:
		p.pos++
		return &ast.A_Const{Isnull: true, Location: tok.Start}
	case token.Param:
		p.pos++
		num, err := strconv.ParseInt(tok.Value, 10, 32)
		if err != nil {
			p.pos--
			p.syntaxError()
		}
		return &ast.ParamRef{Number: int32(num), Location: tok.Start}
	case token.CASE:
		return p.caseExpr()
	case token.CAST:
		p.pos++
		p.expectByte('(')
		arg := p.expr()
		p.expect(token.AS)
		tn := p.typeName()
		p.expectByte(')')
		return &ast.TypeCast{Arg: arg, TypeName: tn, Location: tok.Start}
	case token.COALESCE:
		p.pos++
		p.expectByte('(')
		n := &ast.CoalesceExpr{Args: p.exprList(), Location: tok.Start}
		p.expectByte(')')
		return n
	case token.GREATEST:
		p.pos++
		p.expectByte('(')
		n := &ast.MinMaxExpr{Op: ast.IsGreatest, Args: p.exprList(), Location: tok.Start}
		p.expectByte(')')
		return n
	case token.LEAST:
		p.pos++
		p.expectByte('(')
		n := &ast.MinMaxExpr{Op: ast.IsLeast, Args: p.exprList(), Location: tok.Start}
		p.expectByte(')')
		return n
	case token.EXISTS:
		p.pos++
		p.expectByte('(')
		s := p.selectWithParens()
		p.expectByte(')')
		return &ast.SubLink{SubLinkType: ast.ExistsSublink, Subselect: s, Location: tok.Start}
	case token.ARRAY:
		p.pos++
		p.expectByte('[')
		n := &ast.A_ArrayExpr{Location: tok.Start}
		if !p.at(']') {
			n.Elements = p.exprList()
		}
		p.expectByte(']')
		return n
	case token.ROW:
		p.pos++
		p.expectByte('(')
		n := &ast.RowExpr{Location: tok.Start}
		if !p.at(')') {
			n.Args = p.exprList()
		}
		p.expectByte(')')
		return n
	case token.Type('('):
		p.pos++
		if p.selectStartNext() {
			s := p.selectWithParens()
			p.expectByte(')')
			return &ast.SubLink{SubLinkType: ast.ExprSublink, Subselect: s, Location: tok.Start}
		}
		e := p.expr()
		if p.at(',') {
			// Implicit row constructor.
			row := &ast.RowExpr{Args: []ast.Node{e}, Location: tok.Start}
			for p.acceptByte(',') {
				row.Args = append(row.Args, p.expr())
			}
			p.expectByte(')')
			return row
		}
		p.expectByte(')')
		return e
	case token.CURRENT_DATE, token.CURRENT_TIME, token.CURRENT_TIMESTAMP,
		token.LOCALTIME, token.LOCALTIMESTAMP, token.CURRENT_ROLE,
		token.CURRENT_USER, token.SESSION_USER, token.USER,
		token.CURRENT_CATALOG, token.CURRENT_SCHEMA:
		p.pos++
		return &ast.FuncCall{Funcname: sysName(tok.Value), Location: tok.Start}
	}
	if typeKeyword(tok.Type) ||
		(tok.Type == token.DOUBLE && p.peek(1).Type == token.PRECISION) {
		return p.constTypeCast()
	}
	return p.columnRefOrFunc()
}

func (p *parser) caseExpr() ast.Node {
	start := p.cur().Start
	p.expect(token.CASE)
	c := &ast.CaseExpr{Location: start}
	if !p.is(token.WHEN) {
		c.Arg = p.expr()
	}
	for {
		wLoc := p.expect(token.WHEN).Start
		cond := p.expr()
		p.expect(token.THEN)
		c.Args = append(c.Args, &ast.CaseWhen{Expr: cond, Result: p.expr(), Location: wLoc})
		if !p.is(token.WHEN) {
			break
		}
	}
	if p.accept(token.ELSE) {
		c.Defresult = p.expr()
	}
	p.expect(token.END)
	return c
}

// columnRefOrFunc parses names: a column reference, a function call, or a
// typed string constant ("typename 'literal'").
func (p *parser) columnRefOrFunc() ast.Node {
	tok := p.cur()
	start := tok.Start
	var first string
	switch {
	case tok.Type == token.Ident,
		token.KeywordOf(tok.Type) == token.UnreservedKeyword,
		token.KeywordOf(tok.Type) == token.ColNameKeyword:
		first = tok.Value
		p.pos++
	case token.KeywordOf(tok.Type) == token.TypeFuncNameKeyword:
		// Acceptable only as a function name.
		first = tok.Value
		p.pos++
		if !p.at('(') {
			p.pos--
			p.syntaxError()
		}
	default:
		p.syntaxError()
	}
	parts := []ast.Node{&ast.String{Sval: first}}
	star := false
	for p.at('.') {
		p.pos++
		if p.at('*') {
			p.pos++
			parts = append(parts, &ast.A_Star{})
			star = true
			break
		}
		parts = append(parts, &ast.String{Sval: p.colLabel()})
	}
	if !star {
		if p.at('(') {
			return p.funcCall(parts, start)
		}
		if p.is(token.SConst) {
			strTok := p.cur()
			p.pos++
			return &ast.TypeCast{
				Arg:      &ast.A_Const{Val: &ast.String{Sval: strTok.Value}, Location: strTok.Start},
				TypeName: &ast.TypeName{Names: parts, Location: start},
				Location: -1,
			}
		}
	}
	return &ast.ColumnRef{Fields: parts, Location: start}
}

func (p *parser) funcCall(name []ast.Node, start int32) ast.Node {
	p.expectByte('(')
	fc := &ast.FuncCall{Funcname: name, Location: start}
	switch {
	case p.acceptByte(')'):
	case p.at('*') && p.peek(1).Type == token.Type(')'):
		p.pos += 2
		fc.AggStar = true
	default:
		if p.accept(token.DISTINCT) {
			fc.AggDistinct = true
		} else {
			p.accept(token.ALL)
		}
		fc.Args = p.exprList()
		p.expectByte(')')
	}
	if p.accept(token.OVER) {
		if p.at('(') {
			fc.Over = p.windowSpec("")
		} else {
			nameTok := p.cur()
			fc.Over = &ast.WindowDef{Name: p.colid(), Location: nameTok.Start}
		}
	}
	return fc
}

func makeIntConst(text string, loc int32) ast.Node {
	digits := strings.ReplaceAll(text, "_", "")
	var v int64
	var err error
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			v, err = strconv.ParseInt(digits[2:], 16, 64)
		case 'o', 'O':
			v, err = strconv.ParseInt(digits[2:], 8, 64)
		case 'b', 'B':
			v, err = strconv.ParseInt(digits[2:], 2, 64)
		default:
			v, err = strconv.ParseInt(digits, 10, 64)
		}
	} else {
		v, err = strconv.ParseInt(digits, 10, 64)
	}
	if err != nil || v > math.MaxInt32 || v < math.MinInt32 {
		// Too wide for the integer node; kept textually like the engine
		// keeps oversized literals.
		return &ast.A_Const{Val: &ast.Float{Fval: text}, Location: loc}
	}
	return &ast.A_Const{Val: &ast.Integer{Ival: int32(v)}, Location: loc}
}

func (p *parser) anyOperator() string {
	tok := p.cur()
	if tok.Type == token.Op {
		p.pos++
		return tok.Value
	}
	if s, ok := cmpOpText(tok.Type); ok {
		p.pos++
		return s
	}
	switch tok.Type {
	case token.Type('+'), token.Type('-'), token.Type('*'), token.Type('/'),
		token.Type('%'), token.Type('^'):
		p.pos++
		return p.text(tok)
	}
	p.syntaxError()
	return ""
}

func strName(s string) []ast.Node {
	return []ast.Node{&ast.String{Sval: s}}
}

func sysName(s string) []ast.Node {
	return []ast.Node{&ast.String{Sval: "pg_catalog"}, &ast.String{Sval: s}}
}

// locationOf returns a node's source position when it records one.
func locationOf(n ast.Node) int32 {
	switch v := n.(type) {
	case *ast.A_Const:
		return v.Location
	case *ast.ColumnRef:
		return v.Location
	case *ast.A_Expr:
		return v.Location
	case *ast.FuncCall:
		return v.Location
	case *ast.TypeCast:
		return v.Location
	case *ast.ParamRef:
		return v.Location
	}
	return -1
}
