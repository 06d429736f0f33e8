package render

import (
	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/ast"
)

func (d *deparser) stmt(n ast.Node) {
	switch v := n.(type) {
	case *ast.SelectStmt:
		d.selectStmt(v)
	case *ast.InsertStmt:
		d.insertStmt(v)
	case *ast.UpdateStmt:
		d.updateStmt(v)
	case *ast.DeleteStmt:
		d.deleteStmt(v)
	case *ast.CreateStmt:
		d.createStmt(v)
	case *ast.DropStmt:
		d.dropStmt(v)
	case *ast.TransactionStmt:
		d.transactionStmt(v)
	case *ast.RawStmt:
		d.stmt(v.Stmt)
	default:
		pgerr.Report("cannot deparse node type %s as a statement", ast.KindOf(n))
	}
}

func (d *deparser) selectStmt(s *ast.SelectStmt) {
	if s.WithClause != nil {
		d.withClause(s.WithClause)
		d.space()
	}
	switch {
	case s.Op != ast.SetOpNone:
		d.setOperand(s.Larg, s.Op, true)
		switch s.Op {
		case ast.SetOpUnion:
			d.text(" UNION ")
		case ast.SetOpIntersect:
			d.text(" INTERSECT ")
		default:
			d.text(" EXCEPT ")
		}
		if s.All {
			d.text("ALL ")
		}
		d.setOperand(s.Rarg, s.Op, false)
	case s.ValuesLists != nil:
		d.text("VALUES ")
		for i, row := range s.ValuesLists {
			if i > 0 {
				d.text(", ")
			}
			d.text("(")
			d.commaExprs(d.listItems(row))
			d.text(")")
		}
	default:
		d.selectCore(s)
	}
	d.selectTrailing(s)
}

func (d *deparser) selectCore(s *ast.SelectStmt) {
	d.text("SELECT")
	if len(s.DistinctClause) > 0 {
		if s.DistinctClause[0] == nil {
			d.text(" DISTINCT")
		} else {
			d.text(" DISTINCT ON (")
			d.commaExprs(s.DistinctClause)
			d.text(")")
		}
	}
	if len(s.TargetList) > 0 {
		d.space()
		d.resTargets(s.TargetList)
	}
	if len(s.FromClause) > 0 {
		d.text(" FROM ")
		d.fromItems(s.FromClause)
	}
	if s.WhereClause != nil {
		d.text(" WHERE ")
		d.expr(s.WhereClause, precOr)
	}
	if len(s.GroupClause) > 0 {
		d.text(" GROUP BY ")
		if s.GroupDistinct {
			d.text("DISTINCT ")
		}
		for i, g := range s.GroupClause {
			if i > 0 {
				d.text(", ")
			}
			d.groupByItem(g)
		}
	}
	if s.HavingClause != nil {
		d.text(" HAVING ")
		d.expr(s.HavingClause, precOr)
	}
	if len(s.WindowClause) > 0 {
		d.text(" WINDOW ")
		for i, w := range s.WindowClause {
			if i > 0 {
				d.text(", ")
			}
			def, ok := w.(*ast.WindowDef)
			if !ok {
				pgerr.Report("unexpected node type %s in WINDOW clause", ast.KindOf(w))
			}
			d.ident(def.Name)
			d.text(" AS ")
			d.windowSpecBody(def)
		}
	}
}

// setOperand renders one side of a set operation, parenthesizing when the
// operand would otherwise bind to the wrong operator or leak its trailing
// clauses onto the whole statement.
func (d *deparser) setOperand(s *ast.SelectStmt, parent ast.SetOp, left bool) {
	if s == nil {
		pgerr.Report("set operation is missing an operand")
	}
	parens := s.WithClause != nil || len(s.SortClause) > 0 ||
		s.LimitCount != nil || s.LimitOffset != nil || len(s.LockingClause) > 0
	if !parens && s.Op != ast.SetOpNone {
		switch {
		case s.Op == ast.SetOpIntersect:
			// INTERSECT binds tighter; it only needs parentheses when
			// right-nested under another INTERSECT.
			parens = parent == ast.SetOpIntersect && !left
		case parent == ast.SetOpIntersect:
			parens = true
		default:
			parens = !left
		}
	}
	if parens {
		d.text("(")
		d.selectStmt(s)
		d.text(")")
		return
	}
	d.selectStmt(s)
}

func (d *deparser) selectTrailing(s *ast.SelectStmt) {
	if len(s.SortClause) > 0 {
		d.text(" ORDER BY ")
		for i, sb := range s.SortClause {
			if i > 0 {
				d.text(", ")
			}
			v, ok := sb.(*ast.SortBy)
			if !ok {
				pgerr.Report("unexpected node type %s in ORDER BY", ast.KindOf(sb))
			}
			d.sortBy(v)
		}
	}
	if s.LimitCount != nil {
		if s.LimitOption == ast.LimitOptionWithTies {
			d.text(" FETCH FIRST ")
			d.expr(s.LimitCount, precOr)
			d.text(" ROWS WITH TIES")
		} else if c, ok := s.LimitCount.(*ast.A_Const); ok && c.Isnull {
			d.text(" LIMIT ALL")
		} else {
			d.text(" LIMIT ")
			d.expr(s.LimitCount, precOr)
		}
	}
	if s.LimitOffset != nil {
		d.text(" OFFSET ")
		d.expr(s.LimitOffset, precOr)
	}
	for _, lc := range s.LockingClause {
		v, ok := lc.(*ast.LockingClause)
		if !ok {
			pgerr.Report("unexpected node type %s in locking clause", ast.KindOf(lc))
		}
		d.space()
		d.lockingClause(v)
	}
}

func (d *deparser) groupByItem(n ast.Node) {
	if gs, ok := n.(*ast.GroupingSet); ok {
		d.groupingSet(gs)
		return
	}
	d.expr(n, precOr)
}

func (d *deparser) insertStmt(s *ast.InsertStmt) {
	if s.WithClause != nil {
		d.withClause(s.WithClause)
		d.space()
	}
	d.text("INSERT INTO ")
	d.rangeVarName(s.Relation)
	if s.Relation.Alias != nil {
		d.text(" AS ")
		d.ident(s.Relation.Alias.Aliasname)
	}
	if len(s.Cols) > 0 {
		d.text(" (")
		d.resTargets(s.Cols)
		d.text(")")
	}
	if s.SelectStmt == nil {
		d.text(" DEFAULT VALUES")
	} else {
		d.space()
		d.stmt(s.SelectStmt)
	}
	if s.OnConflictClause != nil {
		d.space()
		d.onConflict(s.OnConflictClause)
	}
	if len(s.ReturningList) > 0 {
		d.text(" RETURNING ")
		d.resTargets(s.ReturningList)
	}
}

func (d *deparser) updateStmt(s *ast.UpdateStmt) {
	if s.WithClause != nil {
		d.withClause(s.WithClause)
		d.space()
	}
	d.text("UPDATE ")
	d.rangeVar(s.Relation)
	d.text(" SET ")
	d.setClauses(s.TargetList)
	if len(s.FromClause) > 0 {
		d.text(" FROM ")
		d.fromItems(s.FromClause)
	}
	if s.WhereClause != nil {
		d.text(" WHERE ")
		d.expr(s.WhereClause, precOr)
	}
	if len(s.ReturningList) > 0 {
		d.text(" RETURNING ")
		d.resTargets(s.ReturningList)
	}
}

func (d *deparser) deleteStmt(s *ast.DeleteStmt) {
	if s.WithClause != nil {
		d.withClause(s.WithClause)
		d.space()
	}
	d.text("DELETE FROM ")
	d.rangeVar(s.Relation)
	if len(s.UsingClause) > 0 {
		d.text(" USING ")
		d.fromItems(s.UsingClause)
	}
	if s.WhereClause != nil {
		d.text(" WHERE ")
		d.expr(s.WhereClause, precOr)
	}
	if len(s.ReturningList) > 0 {
		d.text(" RETURNING ")
		d.resTargets(s.ReturningList)
	}
}

func (d *deparser) createStmt(s *ast.CreateStmt) {
	d.text("CREATE ")
	switch s.Relation.Relpersistence {
	case "t":
		d.text("TEMPORARY ")
	case "u":
		d.text("UNLOGGED ")
	}
	d.text("TABLE ")
	if s.IfNotExists {
		d.text("IF NOT EXISTS ")
	}
	d.rangeVarName(s.Relation)
	d.text(" (")
	for i, elt := range s.TableElts {
		if i > 0 {
			d.text(", ")
		}
		switch v := elt.(type) {
		case *ast.ColumnDef:
			d.columnDef(v)
		case *ast.Constraint:
			d.constraint(v)
		default:
			pgerr.Report("unexpected node type %s in CREATE TABLE", ast.KindOf(elt))
		}
	}
	d.text(")")
}

func (d *deparser) dropStmt(s *ast.DropStmt) {
	d.text("DROP ")
	switch s.RemoveType {
	case ast.ObjectTable:
		d.text("TABLE")
	case ast.ObjectView:
		d.text("VIEW")
	case ast.ObjectIndex:
		d.text("INDEX")
	default:
		pgerr.Report("cannot deparse DROP of object type %s", s.RemoveType)
	}
	if s.Concurrent {
		d.text(" CONCURRENTLY")
	}
	if s.MissingOk {
		d.text(" IF EXISTS")
	}
	d.space()
	for i, obj := range s.Objects {
		if i > 0 {
			d.text(", ")
		}
		d.dotted(d.listItems(obj))
	}
	if s.Behavior == ast.DropCascade {
		d.text(" CASCADE")
	}
}

func (d *deparser) transactionStmt(s *ast.TransactionStmt) {
	switch s.Kind {
	case ast.TransStmtBegin:
		d.text("BEGIN")
	case ast.TransStmtStart:
		d.text("START TRANSACTION")
	case ast.TransStmtCommit:
		d.text("COMMIT")
	default:
		d.text("ROLLBACK")
	}
}

// resTargets renders a comma-separated ResTarget list.
func (d *deparser) resTargets(items []ast.Node) {
	for i, it := range items {
		if i > 0 {
			d.text(", ")
		}
		rt, ok := it.(*ast.ResTarget)
		if !ok {
			pgerr.Report("unexpected node type %s in target list", ast.KindOf(it))
		}
		d.resTarget(rt)
	}
}

// resTarget renders an output column: its value, the value with an output
// name, or just a name when no value is present (INSERT column lists).
func (d *deparser) resTarget(rt *ast.ResTarget) {
	if rt.Val == nil {
		d.ident(rt.Name)
		return
	}
	d.expr(rt.Val, precOr)
	if rt.Name != "" {
		d.text(" AS ")
		d.ident(rt.Name)
	}
}

// setClauses renders an UPDATE or DO UPDATE assignment list.
func (d *deparser) setClauses(items []ast.Node) {
	for i, it := range items {
		if i > 0 {
			d.text(", ")
		}
		rt, ok := it.(*ast.ResTarget)
		if !ok {
			pgerr.Report("unexpected node type %s in SET clause", ast.KindOf(it))
		}
		d.ident(rt.Name)
		d.text(" = ")
		d.expr(rt.Val, precOr)
	}
}
