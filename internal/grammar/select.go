package grammar

import (
	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/token"
)

// selectRest parses a select without a leading WITH: the set-operation
// tree, then the trailing clauses that bind to the whole statement.
func (p *parser) selectRest() *ast.SelectStmt {
	s := p.selectOp()
	p.selectTrailing(s)
	return s
}

// selectOp handles UNION and EXCEPT, which share the lowest set-operation
// tier; INTERSECT binds tighter.
func (p *parser) selectOp() *ast.SelectStmt {
	l := p.selectIntersect()
	for {
		var op ast.SetOp
		switch p.cur().Type {
		case token.UNION:
			op = ast.SetOpUnion
		case token.EXCEPT:
			op = ast.SetOpExcept
		default:
			return l
		}
		p.pos++
		all := p.setQuantifier()
		r := p.selectIntersect()
		l = &ast.SelectStmt{Op: op, All: all, Larg: l, Rarg: r}
	}
}

func (p *parser) selectIntersect() *ast.SelectStmt {
	l := p.selectPrimary()
	for p.accept(token.INTERSECT) {
		all := p.setQuantifier()
		r := p.selectPrimary()
		l = &ast.SelectStmt{Op: ast.SetOpIntersect, All: all, Larg: l, Rarg: r}
	}
	return l
}

func (p *parser) setQuantifier() bool {
	if p.accept(token.ALL) {
		return true
	}
	p.accept(token.DISTINCT)
	return false
}

func (p *parser) selectPrimary() *ast.SelectStmt {
	switch p.cur().Type {
	case token.Type('('):
		p.pos++
		s := p.selectWithParens()
		p.expectByte(')')
		return s
	case token.VALUES:
		return p.valuesClause()
	case token.SELECT:
		return p.simpleSelect()
	default:
		p.syntaxError()
		return nil
	}
}

// selectWithParens parses the body of a parenthesized select, which is a
// complete select including WITH and trailing clauses. The caller consumes
// the parentheses.
func (p *parser) selectWithParens() *ast.SelectStmt {
	if p.is(token.WITH) {
		with := p.withClause()
		s := p.selectRest()
		s.WithClause = with
		return s
	}
	return p.selectRest()
}

func (p *parser) simpleSelect() *ast.SelectStmt {
	p.expect(token.SELECT)
	s := &ast.SelectStmt{}
	switch {
	case p.accept(token.DISTINCT):
		if p.accept(token.ON) {
			p.expectByte('(')
			s.DistinctClause = p.exprList()
			p.expectByte(')')
		} else {
			// Bare DISTINCT is a one-element clause list holding nil.
			s.DistinctClause = []ast.Node{nil}
		}
	case p.accept(token.ALL):
	}
	if p.targetsNext() {
		s.TargetList = p.targetList()
	}
	if p.accept(token.FROM) {
		s.FromClause = p.fromList()
	}
	if p.accept(token.WHERE) {
		s.WhereClause = p.expr()
	}
	if p.accept(token.GROUP) {
		p.expect(token.BY)
		if p.accept(token.DISTINCT) {
			s.GroupDistinct = true
		} else {
			p.accept(token.ALL)
		}
		s.GroupClause = p.groupByList()
	}
	if p.accept(token.HAVING) {
		s.HavingClause = p.expr()
	}
	if p.accept(token.WINDOW) {
		for {
			name := p.colid()
			p.expect(token.AS)
			s.WindowClause = append(s.WindowClause, p.windowSpec(name))
			if !p.acceptByte(',') {
				break
			}
		}
	}
	return s
}

// targetsNext reports whether a target list follows; the list is optional
// and absent when the next token already starts a later clause.
func (p *parser) targetsNext() bool {
	switch p.cur().Type {
	case token.FROM, token.INTO, token.WHERE, token.GROUP, token.HAVING, token.WINDOW,
		token.ORDER, token.LIMIT, token.OFFSET, token.FETCH, token.FOR,
		token.UNION, token.INTERSECT, token.EXCEPT,
		token.Type(')'), token.Type(';'), token.EOF:
		return false
	}
	return true
}

func (p *parser) targetList() []ast.Node {
	var out []ast.Node
	for {
		out = append(out, p.targetEl())
		if !p.acceptByte(',') {
			return out
		}
	}
}

func (p *parser) targetEl() ast.Node {
	tok := p.cur()
	if p.at('*') {
		p.pos++
		star := &ast.ColumnRef{Fields: []ast.Node{&ast.A_Star{}}, Location: tok.Start}
		return &ast.ResTarget{Val: star, Location: tok.Start}
	}
	rt := &ast.ResTarget{Val: p.expr(), Location: tok.Start}
	if p.accept(token.AS) {
		rt.Name = p.colLabel()
	} else if p.bareLabelNext() {
		rt.Name = p.colid()
	}
	return rt
}

// bareLabelNext reports whether the current token can be an AS-less output
// name.
func (p *parser) bareLabelNext() bool {
	return p.colidNext()
}

func (p *parser) exprList() []ast.Node {
	var out []ast.Node
	for {
		out = append(out, p.expr())
		if !p.acceptByte(',') {
			return out
		}
	}
}

func (p *parser) valuesClause() *ast.SelectStmt {
	p.expect(token.VALUES)
	s := &ast.SelectStmt{}
	for {
		p.expectByte('(')
		row := &ast.List{Items: p.exprList()}
		p.expectByte(')')
		s.ValuesLists = append(s.ValuesLists, row)
		if !p.acceptByte(',') {
			return s
		}
	}
}

// selectTrailing parses ORDER BY, the limit clauses, and locking clauses.
// Limit and locking may come in either order.
func (p *parser) selectTrailing(s *ast.SelectStmt) {
	if p.accept(token.ORDER) {
		p.expect(token.BY)
		s.SortClause = p.sortList()
	}
	for {
		switch p.cur().Type {
		case token.LIMIT:
			tok := p.cur()
			p.pos++
			if s.LimitCount != nil || s.LimitOption == ast.LimitOptionWithTies {
				pgerr.ReportAt(int(tok.Start), "multiple LIMIT clauses not allowed")
			}
			if p.accept(token.ALL) {
				s.LimitCount = &ast.A_Const{Isnull: true, Location: p.peekPrevStart()}
			} else {
				s.LimitCount = p.expr()
			}
			s.LimitOption = ast.LimitOptionCount
		case token.OFFSET:
			tok := p.cur()
			p.pos++
			if s.LimitOffset != nil {
				pgerr.ReportAt(int(tok.Start), "multiple OFFSET clauses not allowed")
			}
			s.LimitOffset = p.expr()
			if !p.accept(token.ROW) {
				p.accept(token.ROWS)
			}
		case token.FETCH:
			tok := p.cur()
			p.pos++
			if s.LimitCount != nil || s.LimitOption == ast.LimitOptionWithTies {
				pgerr.ReportAt(int(tok.Start), "multiple LIMIT clauses not allowed")
			}
			if !p.accept(token.FIRST) {
				p.expect(token.NEXT)
			}
			if p.is(token.ROW) || p.is(token.ROWS) {
				s.LimitCount = &ast.A_Const{Val: &ast.Integer{Ival: 1}, Location: -1}
			} else {
				s.LimitCount = p.expr()
			}
			if !p.accept(token.ROW) {
				p.expect(token.ROWS)
			}
			if p.accept(token.ONLY) {
				s.LimitOption = ast.LimitOptionCount
			} else {
				p.expect(token.WITH)
				p.expect(token.TIES)
				s.LimitOption = ast.LimitOptionWithTies
			}
		case token.FOR:
			s.LockingClause = append(s.LockingClause, p.lockingClause())
		default:
			return
		}
	}
}

func (p *parser) peekPrevStart() int32 {
	if p.pos > 0 {
		return p.toks[p.pos-1].Start
	}
	return 0
}

func (p *parser) lockingClause() ast.Node {
	p.expect(token.FOR)
	lc := &ast.LockingClause{}
	switch {
	case p.accept(token.UPDATE):
		lc.Strength = ast.LCSForUpdate
	case p.accept(token.SHARE):
		lc.Strength = ast.LCSForShare
	case p.accept(token.NO):
		p.expect(token.KEY)
		p.expect(token.UPDATE)
		lc.Strength = ast.LCSForNoKeyUpdate
	case p.accept(token.KEY):
		p.expect(token.SHARE)
		lc.Strength = ast.LCSForKeyShare
	default:
		p.syntaxError()
	}
	if p.accept(token.OF) {
		for {
			lc.LockedRels = append(lc.LockedRels, p.qualifiedName())
			if !p.acceptByte(',') {
				break
			}
		}
	}
	switch {
	case p.accept(token.NOWAIT):
		lc.WaitPolicy = ast.LockWaitError
	case p.accept(token.SKIP):
		p.expect(token.LOCKED)
		lc.WaitPolicy = ast.LockWaitSkip
	}
	return lc
}

func (p *parser) sortList() []ast.Node {
	var out []ast.Node
	for {
		out = append(out, p.sortBy())
		if !p.acceptByte(',') {
			return out
		}
	}
}

func (p *parser) sortBy() ast.Node {
	sb := &ast.SortBy{Location: -1}
	sb.Node = p.expr()
	switch {
	case p.accept(token.ASC):
		sb.SortbyDir = ast.SortByAsc
	case p.accept(token.DESC):
		sb.SortbyDir = ast.SortByDesc
	case p.is(token.USING):
		sb.Location = p.cur().Start
		p.pos++
		sb.SortbyDir = ast.SortByUsing
		sb.UseOp = []ast.Node{&ast.String{Sval: p.anyOperator()}}
	}
	if p.accept(token.NULLS) {
		if p.accept(token.FIRST) {
			sb.SortbyNulls = ast.SortByNullsFirst
		} else {
			p.expect(token.LAST)
			sb.SortbyNulls = ast.SortByNullsLast
		}
	}
	return sb
}

func (p *parser) groupByList() []ast.Node {
	var out []ast.Node
	for {
		out = append(out, p.groupByEl())
		if !p.acceptByte(',') {
			return out
		}
	}
}

func (p *parser) groupByEl() ast.Node {
	tok := p.cur()
	switch {
	case p.is(token.ROLLUP) && p.peek(1).Type == token.Type('('):
		p.pos += 2
		gs := &ast.GroupingSet{Kind: ast.GroupingSetRollup, Content: p.exprList(), Location: tok.Start}
		p.expectByte(')')
		return gs
	case p.is(token.CUBE) && p.peek(1).Type == token.Type('('):
		p.pos += 2
		gs := &ast.GroupingSet{Kind: ast.GroupingSetCube, Content: p.exprList(), Location: tok.Start}
		p.expectByte(')')
		return gs
	case p.is(token.GROUPING) && p.peek(1).Type == token.SETS:
		p.pos += 2
		p.expectByte('(')
		gs := &ast.GroupingSet{Kind: ast.GroupingSetSets, Content: p.groupByList(), Location: tok.Start}
		p.expectByte(')')
		return gs
	case p.at('(') && p.peek(1).Type == token.Type(')'):
		p.pos += 2
		return &ast.GroupingSet{Kind: ast.GroupingSetEmpty, Location: tok.Start}
	default:
		return p.expr()
	}
}

// windowSpec parses a window specification body: the parenthesized clause
// after WINDOW name AS or after OVER.
func (p *parser) windowSpec(name string) *ast.WindowDef {
	w := &ast.WindowDef{Name: name, Location: p.cur().Start}
	p.expectByte('(')
	if p.is(token.Ident) {
		w.Refname = p.cur().Value
		p.pos++
	}
	if p.accept(token.PARTITION) {
		p.expect(token.BY)
		w.PartitionClause = p.exprList()
	}
	if p.accept(token.ORDER) {
		p.expect(token.BY)
		w.OrderClause = p.sortList()
	}
	p.windowFrame(w)
	p.expectByte(')')
	return w
}

func (p *parser) windowFrame(w *ast.WindowDef) {
	var mode int32
	switch p.cur().Type {
	case token.RANGE:
		mode = ast.FrameOptionRange
	case token.ROWS:
		mode = ast.FrameOptionRows
	case token.GROUPS:
		mode = ast.FrameOptionGroups
	default:
		w.FrameOptions = ast.FrameOptionDefaults
		return
	}
	p.pos++
	opts := ast.FrameOptionNondefault | mode
	if p.accept(token.BETWEEN) {
		opts |= ast.FrameOptionBetween
		startBits, startOff := p.frameBound(true)
		p.expect(token.AND)
		endLoc := p.cur().Start
		endBits, endOff := p.frameBound(false)
		if startBits == ast.FrameOptionStartCurrentRow && endBits == ast.FrameOptionEndOffsetPreceding {
			pgerr.ReportAt(int(endLoc), "frame starting from current row cannot have preceding rows")
		}
		if startBits == ast.FrameOptionStartOffsetFollowing {
			if endBits == ast.FrameOptionEndCurrentRow {
				pgerr.ReportAt(int(endLoc), "frame starting from following row cannot end with current row")
			}
			if endBits == ast.FrameOptionEndOffsetPreceding {
				pgerr.ReportAt(int(endLoc), "frame starting from following row cannot have preceding rows")
			}
		}
		opts |= startBits | endBits
		w.StartOffset = startOff
		w.EndOffset = endOff
	} else {
		startBits, startOff := p.frameBound(true)
		opts |= startBits | ast.FrameOptionEndCurrentRow
		w.StartOffset = startOff
	}
	switch {
	case p.accept(token.EXCLUDE):
		switch {
		case p.accept(token.CURRENT):
			p.expect(token.ROW)
			opts |= ast.FrameOptionExcludeCurrentRow
		case p.accept(token.GROUP):
			opts |= ast.FrameOptionExcludeGroup
		case p.accept(token.TIES):
			opts |= ast.FrameOptionExcludeTies
		case p.accept(token.NO):
			p.expect(token.OTHERS)
		default:
			p.syntaxError()
		}
	}
	w.FrameOptions = opts
}

func (p *parser) frameBound(isStart bool) (int32, ast.Node) {
	tok := p.cur()
	switch {
	case p.accept(token.UNBOUNDED):
		if p.accept(token.PRECEDING) {
			if !isStart {
				pgerr.ReportAt(int(tok.Start), "frame end cannot be UNBOUNDED PRECEDING")
			}
			return ast.FrameOptionStartUnboundedPreceding, nil
		}
		p.expect(token.FOLLOWING)
		if isStart {
			pgerr.ReportAt(int(tok.Start), "frame start cannot be UNBOUNDED FOLLOWING")
		}
		return ast.FrameOptionEndUnboundedFollowing, nil
	case p.accept(token.CURRENT):
		p.expect(token.ROW)
		if isStart {
			return ast.FrameOptionStartCurrentRow, nil
		}
		return ast.FrameOptionEndCurrentRow, nil
	default:
		// Offsets parse below the boolean tier so the AND separating the
		// two bounds is not consumed.
		off := p.exprOp()
		if p.accept(token.PRECEDING) {
			if isStart {
				return ast.FrameOptionStartOffsetPreceding, off
			}
			return ast.FrameOptionEndOffsetPreceding, off
		}
		p.expect(token.FOLLOWING)
		if isStart {
			return ast.FrameOptionStartOffsetFollowing, off
		}
		return ast.FrameOptionEndOffsetFollowing, off
	}
}

func (p *parser) withClause() *ast.WithClause {
	start := p.cur().Start
	p.expect(token.WITH)
	w := &ast.WithClause{Location: start}
	w.Recursive = p.accept(token.RECURSIVE)
	for {
		w.Ctes = append(w.Ctes, p.commonTableExpr())
		if !p.acceptByte(',') {
			return w
		}
	}
}

func (p *parser) commonTableExpr() ast.Node {
	start := p.cur().Start
	cte := &ast.CommonTableExpr{Ctename: p.colid(), Location: start}
	if p.acceptByte('(') {
		cte.Aliascolnames = p.nameList()
		p.expectByte(')')
	}
	p.expect(token.AS)
	switch {
	case p.accept(token.MATERIALIZED):
		cte.Ctematerialized = ast.CTEMaterializeAlways
	case p.is(token.NOT) && p.peek(1).Type == token.MATERIALIZED:
		p.pos += 2
		cte.Ctematerialized = ast.CTEMaterializeNever
	}
	p.expectByte('(')
	cte.Ctequery = p.preparableStmt()
	p.expectByte(')')
	return cte
}

// FROM items.

func (p *parser) fromList() []ast.Node {
	var out []ast.Node
	for {
		out = append(out, p.tableRef())
		if !p.acceptByte(',') {
			return out
		}
	}
}

func (p *parser) tableRef() ast.Node {
	return p.joinLoop(p.tableRefAtom())
}

func (p *parser) tableRefAtom() ast.Node {
	switch {
	case p.accept(token.LATERAL):
		if p.at('(') {
			return p.rangeSubselect(true)
		}
		return p.rangeFunction(true)
	case p.at('('):
		if p.parenStartsSelect() {
			return p.rangeSubselect(false)
		}
		p.pos++
		inner := p.tableRef()
		p.expectByte(')')
		return inner
	case p.accept(token.ONLY):
		rv := p.qualifiedName()
		rv.Inh = false
		rv.Alias = p.aliasClause(false)
		return rv
	default:
		if p.functionTableNext() {
			return p.rangeFunction(false)
		}
		rv := p.qualifiedName()
		rv.Alias = p.aliasClause(false)
		return rv
	}
}

// parenStartsSelect looks through consecutive opening parentheses for a
// token that starts a select.
func (p *parser) parenStartsSelect() bool {
	i := 0
	for p.peek(i).Type == token.Type('(') {
		i++
	}
	switch p.peek(i).Type {
	case token.SELECT, token.VALUES, token.WITH:
		return i > 0
	}
	return false
}

// functionTableNext distinguishes "f(...)" from a plain relation name.
func (p *parser) functionTableNext() bool {
	i := 0
	if !p.colidNext() {
		return false
	}
	i++
	for p.peek(i).Type == token.Type('.') {
		i += 2
	}
	return p.peek(i).Type == token.Type('(')
}

func (p *parser) rangeSubselect(lateral bool) ast.Node {
	p.expectByte('(')
	s := p.selectWithParens()
	p.expectByte(')')
	return &ast.RangeSubselect{
		Lateral:  lateral,
		Subquery: s,
		Alias:    p.aliasClause(false),
	}
}

func (p *parser) rangeFunction(lateral bool) ast.Node {
	fn := p.columnRefOrFunc()
	if ast.KindOf(fn) != ast.T_FuncCall {
		p.syntaxError()
	}
	rf := &ast.RangeFunction{Lateral: lateral, Functions: []ast.Node{fn}}
	if p.is(token.WITH) && p.peek(1).Type == token.ORDINALITY {
		p.pos += 2
		rf.Ordinality = true
	}
	rf.Alias = p.aliasClause(false)
	return rf
}

// aliasClause parses [AS] name [(colnames)]. With excludeSet, a bare SET
// cannot start an alias, which keeps UPDATE t SET unambiguous.
func (p *parser) aliasClause(excludeSet bool) *ast.Alias {
	var name string
	switch {
	case p.accept(token.AS):
		name = p.colid()
	case p.colidNext() && !(excludeSet && p.is(token.SET)):
		name = p.colid()
	default:
		return nil
	}
	a := &ast.Alias{Aliasname: name}
	if p.acceptByte('(') {
		a.Colnames = p.nameList()
		p.expectByte(')')
	}
	return a
}

func (p *parser) joinLoop(n ast.Node) ast.Node {
	for {
		switch p.cur().Type {
		case token.CROSS:
			p.pos++
			p.expect(token.JOIN)
			n = &ast.JoinExpr{Jointype: ast.JoinInner, Larg: n, Rarg: p.tableRefAtom()}
		case token.NATURAL:
			p.pos++
			jt := p.joinTypeWords()
			p.expect(token.JOIN)
			n = &ast.JoinExpr{Jointype: jt, IsNatural: true, Larg: n, Rarg: p.tableRefAtom()}
		case token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL:
			jt := p.joinTypeWords()
			p.expect(token.JOIN)
			j := &ast.JoinExpr{Jointype: jt, Larg: n, Rarg: p.tableRefAtom()}
			if p.accept(token.USING) {
				p.expectByte('(')
				j.UsingClause = p.nameList()
				p.expectByte(')')
			} else {
				p.expect(token.ON)
				j.Quals = p.expr()
			}
			n = j
		default:
			return n
		}
	}
}

func (p *parser) joinTypeWords() ast.JoinType {
	jt := ast.JoinInner
	switch p.cur().Type {
	case token.INNER:
		p.pos++
	case token.LEFT:
		jt = ast.JoinLeft
		p.pos++
		p.accept(token.OUTER)
	case token.RIGHT:
		jt = ast.JoinRight
		p.pos++
		p.accept(token.OUTER)
	case token.FULL:
		jt = ast.JoinFull
		p.pos++
		p.accept(token.OUTER)
	}
	return jt
}

// INSERT, UPDATE, DELETE.

func (p *parser) insertStmt() *ast.InsertStmt {
	p.expect(token.INSERT)
	p.expect(token.INTO)
	rel := p.qualifiedName()
	if p.accept(token.AS) {
		rel.Alias = &ast.Alias{Aliasname: p.colid()}
	}
	ins := &ast.InsertStmt{Relation: rel}
	if p.is(token.DEFAULT) && p.peek(1).Type == token.VALUES {
		p.pos += 2
	} else {
		if p.at('(') && !p.parenStartsSelect() {
			p.pos++
			ins.Cols = p.insertColumnList()
			p.expectByte(')')
		}
		ins.SelectStmt = p.selectStatement()
	}
	if p.is(token.ON) {
		ins.OnConflictClause = p.onConflictClause()
	}
	if p.accept(token.RETURNING) {
		ins.ReturningList = p.targetList()
	}
	return ins
}

// selectStatement parses the source rows of an INSERT: a select with an
// optional leading WITH.
func (p *parser) selectStatement() *ast.SelectStmt {
	if p.is(token.WITH) {
		with := p.withClause()
		s := p.selectRest()
		s.WithClause = with
		return s
	}
	switch p.cur().Type {
	case token.SELECT, token.VALUES, token.Type('('):
		return p.selectRest()
	default:
		p.syntaxError()
		return nil
	}
}

func (p *parser) insertColumnList() []ast.Node {
	var out []ast.Node
	for {
		tok := p.cur()
		out = append(out, &ast.ResTarget{Name: p.colid(), Location: tok.Start})
		if !p.acceptByte(',') {
			return out
		}
	}
}

func (p *parser) onConflictClause() *ast.OnConflictClause {
	start := p.cur().Start
	p.expect(token.ON)
	p.expect(token.CONFLICT)
	oc := &ast.OnConflictClause{Location: start}
	switch {
	case p.at('('):
		inferStart := p.cur().Start
		p.pos++
		infer := &ast.InferClause{Location: inferStart}
		for {
			infer.IndexElems = append(infer.IndexElems, p.indexElem())
			if !p.acceptByte(',') {
				break
			}
		}
		p.expectByte(')')
		if p.accept(token.WHERE) {
			infer.WhereClause = p.expr()
		}
		oc.Infer = infer
	case p.is(token.ON):
		inferStart := p.cur().Start
		p.pos++
		p.expect(token.CONSTRAINT)
		oc.Infer = &ast.InferClause{Conname: p.colid(), Location: inferStart}
	}
	p.expect(token.DO)
	if p.accept(token.NOTHING) {
		oc.Action = ast.OnConflictNothing
		return oc
	}
	p.expect(token.UPDATE)
	p.expect(token.SET)
	oc.Action = ast.OnConflictUpdate
	oc.TargetList = p.setClauseList()
	if p.accept(token.WHERE) {
		oc.WhereClause = p.expr()
	}
	return oc
}

func (p *parser) indexElem() ast.Node {
	ie := &ast.IndexElem{}
	switch {
	case p.acceptByte('('):
		ie.Expr = p.expr()
		p.expectByte(')')
	case p.colidNext() && p.peek(1).Type != token.Type('(') && p.peek(1).Type != token.Type('.'):
		ie.Name = p.colid()
	default:
		ie.Expr = p.expr()
	}
	switch {
	case p.accept(token.ASC):
		ie.Ordering = ast.SortByAsc
	case p.accept(token.DESC):
		ie.Ordering = ast.SortByDesc
	}
	if p.accept(token.NULLS) {
		if p.accept(token.FIRST) {
			ie.NullsOrdering = ast.SortByNullsFirst
		} else {
			p.expect(token.LAST)
			ie.NullsOrdering = ast.SortByNullsLast
		}
	}
	return ie
}

func (p *parser) setClauseList() []ast.Node {
	var out []ast.Node
	for {
		tok := p.cur()
		name := p.colid()
		p.expectByte('=')
		out = append(out, &ast.ResTarget{Name: name, Val: p.expr(), Location: tok.Start})
		if !p.acceptByte(',') {
			return out
		}
	}
}

func (p *parser) updateStmt() *ast.UpdateStmt {
	p.expect(token.UPDATE)
	rel := p.relationExprOptAlias()
	p.expect(token.SET)
	upd := &ast.UpdateStmt{Relation: rel, TargetList: p.setClauseList()}
	if p.accept(token.FROM) {
		upd.FromClause = p.fromList()
	}
	if p.accept(token.WHERE) {
		upd.WhereClause = p.expr()
	}
	if p.accept(token.RETURNING) {
		upd.ReturningList = p.targetList()
	}
	return upd
}

func (p *parser) deleteStmt() *ast.DeleteStmt {
	p.expect(token.DELETE)
	p.expect(token.FROM)
	del := &ast.DeleteStmt{Relation: p.relationExprOptAlias()}
	if p.accept(token.USING) {
		del.UsingClause = p.fromList()
	}
	if p.accept(token.WHERE) {
		del.WhereClause = p.expr()
	}
	if p.accept(token.RETURNING) {
		del.ReturningList = p.targetList()
	}
	return del
}

func (p *parser) relationExprOptAlias() *ast.RangeVar {
	only := p.accept(token.ONLY)
	rv := p.qualifiedName()
	rv.Inh = !only
	rv.Alias = p.aliasClause(true)
	return rv
}
