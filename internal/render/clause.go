package render

import (
	"strconv"

	"github.com/supabase-community/pg-parser/internal/pgerr"
	"github.com/supabase-community/pg-parser/pkg/ast"
)

func (d *deparser) fromItems(items []ast.Node) {
	for i, it := range items {
		if i > 0 {
			d.text(", ")
		}
		d.fromItem(it)
	}
}

func (d *deparser) fromItem(n ast.Node) {
	switch v := n.(type) {
	case *ast.RangeVar:
		d.rangeVar(v)
	case *ast.JoinExpr:
		d.joinExpr(v)
	case *ast.RangeSubselect:
		d.rangeSubselect(v)
	case *ast.RangeFunction:
		d.rangeFunction(v)
	default:
		pgerr.Report("cannot deparse node type %s as a FROM item", ast.KindOf(n))
	}
}

// rangeVar renders a relation reference as it appears in FROM, UPDATE and
// DELETE: the ONLY marker, the qualified name, and any alias.
func (d *deparser) rangeVar(rv *ast.RangeVar) {
	if !rv.Inh {
		d.text("ONLY ")
	}
	d.rangeVarName(rv)
	d.aliasSuffix(rv.Alias)
}

func (d *deparser) rangeVarName(rv *ast.RangeVar) {
	if rv.Catalogname != "" {
		d.ident(rv.Catalogname)
		d.text(".")
	}
	if rv.Schemaname != "" {
		d.ident(rv.Schemaname)
		d.text(".")
	}
	d.ident(rv.Relname)
}

func (d *deparser) alias(a *ast.Alias) {
	d.ident(a.Aliasname)
	if len(a.Colnames) > 0 {
		d.text(" (")
		d.commaIdents(a.Colnames)
		d.text(")")
	}
}

func (d *deparser) aliasSuffix(a *ast.Alias) {
	if a == nil {
		return
	}
	d.text(" AS ")
	d.alias(a)
}

func (d *deparser) joinExpr(j *ast.JoinExpr) {
	d.fromItem(j.Larg)
	switch {
	case j.IsNatural:
		d.text(" NATURAL ")
		d.text(joinTypeWord(j.Jointype))
		d.space()
	case j.Quals == nil && len(j.UsingClause) == 0 && j.Jointype == ast.JoinInner:
		d.text(" CROSS JOIN ")
	default:
		d.space()
		d.text(joinTypeWord(j.Jointype))
		d.space()
	}
	// A join on the right only arises from explicit parentheses.
	if _, nested := j.Rarg.(*ast.JoinExpr); nested {
		d.text("(")
		d.fromItem(j.Rarg)
		d.text(")")
	} else {
		d.fromItem(j.Rarg)
	}
	if len(j.UsingClause) > 0 {
		d.text(" USING (")
		d.commaIdents(j.UsingClause)
		d.text(")")
	} else if j.Quals != nil {
		d.text(" ON ")
		d.expr(j.Quals, precOr)
	}
}

func joinTypeWord(jt ast.JoinType) string {
	switch jt {
	case ast.JoinInner:
		return "JOIN"
	case ast.JoinLeft:
		return "LEFT JOIN"
	case ast.JoinRight:
		return "RIGHT JOIN"
	case ast.JoinFull:
		return "FULL JOIN"
	}
	pgerr.Report("cannot deparse join type %s", jt)
	return ""
}

func (d *deparser) rangeSubselect(rs *ast.RangeSubselect) {
	if rs.Lateral {
		d.text("LATERAL ")
	}
	d.text("(")
	d.stmt(rs.Subquery)
	d.text(")")
	d.aliasSuffix(rs.Alias)
}

func (d *deparser) rangeFunction(rf *ast.RangeFunction) {
	if rf.Lateral {
		d.text("LATERAL ")
	}
	if len(rf.Functions) == 0 {
		pgerr.Report("function table has no function")
	}
	fn, ok := rf.Functions[0].(*ast.FuncCall)
	if !ok {
		pgerr.Report("unexpected node type %s as a function table", ast.KindOf(rf.Functions[0]))
	}
	d.funcCall(fn)
	if rf.Ordinality {
		d.text(" WITH ORDINALITY")
	}
	d.aliasSuffix(rf.Alias)
}

func (d *deparser) withClause(w *ast.WithClause) {
	d.text("WITH ")
	if w.Recursive {
		d.text("RECURSIVE ")
	}
	for i, cte := range w.Ctes {
		if i > 0 {
			d.text(", ")
		}
		v, ok := cte.(*ast.CommonTableExpr)
		if !ok {
			pgerr.Report("unexpected node type %s in WITH", ast.KindOf(cte))
		}
		d.commonTableExpr(v)
	}
}

func (d *deparser) commonTableExpr(cte *ast.CommonTableExpr) {
	d.ident(cte.Ctename)
	if len(cte.Aliascolnames) > 0 {
		d.text(" (")
		d.commaIdents(cte.Aliascolnames)
		d.text(")")
	}
	d.text(" AS ")
	switch cte.Ctematerialized {
	case ast.CTEMaterializeAlways:
		d.text("MATERIALIZED ")
	case ast.CTEMaterializeNever:
		d.text("NOT MATERIALIZED ")
	}
	d.text("(")
	d.stmt(cte.Ctequery)
	d.text(")")
}

func (d *deparser) sortBy(sb *ast.SortBy) {
	d.expr(sb.Node, precOr)
	switch sb.SortbyDir {
	case ast.SortByAsc:
		d.text(" ASC")
	case ast.SortByDesc:
		d.text(" DESC")
	case ast.SortByUsing:
		d.text(" USING ")
		d.text(opText(sb.UseOp))
	}
	switch sb.SortbyNulls {
	case ast.SortByNullsFirst:
		d.text(" NULLS FIRST")
	case ast.SortByNullsLast:
		d.text(" NULLS LAST")
	}
}

// windowDef renders a standalone window definition: a bare name for a
// reference, otherwise the specification, named when part of a WINDOW
// clause.
func (d *deparser) windowDef(w *ast.WindowDef) {
	if w.Name != "" && emptyWindowBody(w) {
		d.ident(w.Name)
		return
	}
	if w.Name != "" {
		d.ident(w.Name)
		d.text(" AS ")
	}
	d.windowSpecBody(w)
}

func emptyWindowBody(w *ast.WindowDef) bool {
	return w.Refname == "" && len(w.PartitionClause) == 0 && len(w.OrderClause) == 0 &&
		w.FrameOptions&ast.FrameOptionNondefault == 0
}

func (d *deparser) windowSpecBody(w *ast.WindowDef) {
	d.text("(")
	sep := ""
	if w.Refname != "" {
		d.ident(w.Refname)
		sep = " "
	}
	if len(w.PartitionClause) > 0 {
		d.text(sep)
		d.text("PARTITION BY ")
		d.commaExprs(w.PartitionClause)
		sep = " "
	}
	if len(w.OrderClause) > 0 {
		d.text(sep)
		d.text("ORDER BY ")
		for i, sb := range w.OrderClause {
			if i > 0 {
				d.text(", ")
			}
			v, ok := sb.(*ast.SortBy)
			if !ok {
				pgerr.Report("unexpected node type %s in ORDER BY", ast.KindOf(sb))
			}
			d.sortBy(v)
		}
		sep = " "
	}
	if w.FrameOptions&ast.FrameOptionNondefault != 0 {
		d.text(sep)
		d.frameClause(w)
	}
	d.text(")")
}

func (d *deparser) frameClause(w *ast.WindowDef) {
	fo := w.FrameOptions
	switch {
	case fo&ast.FrameOptionRows != 0:
		d.text("ROWS ")
	case fo&ast.FrameOptionGroups != 0:
		d.text("GROUPS ")
	default:
		d.text("RANGE ")
	}
	if fo&ast.FrameOptionBetween != 0 {
		d.text("BETWEEN ")
		d.frameBound(fo, true, w.StartOffset)
		d.text(" AND ")
		d.frameBound(fo, false, w.EndOffset)
	} else {
		d.frameBound(fo, true, w.StartOffset)
	}
	switch {
	case fo&ast.FrameOptionExcludeCurrentRow != 0:
		d.text(" EXCLUDE CURRENT ROW")
	case fo&ast.FrameOptionExcludeGroup != 0:
		d.text(" EXCLUDE GROUP")
	case fo&ast.FrameOptionExcludeTies != 0:
		d.text(" EXCLUDE TIES")
	}
}

func (d *deparser) frameBound(fo int32, isStart bool, offset ast.Node) {
	var unboundedPre, unboundedFol, current, offPre, offFol int32
	if isStart {
		unboundedPre = ast.FrameOptionStartUnboundedPreceding
		unboundedFol = ast.FrameOptionStartUnboundedFollowing
		current = ast.FrameOptionStartCurrentRow
		offPre = ast.FrameOptionStartOffsetPreceding
		offFol = ast.FrameOptionStartOffsetFollowing
	} else {
		unboundedPre = ast.FrameOptionEndUnboundedPreceding
		unboundedFol = ast.FrameOptionEndUnboundedFollowing
		current = ast.FrameOptionEndCurrentRow
		offPre = ast.FrameOptionEndOffsetPreceding
		offFol = ast.FrameOptionEndOffsetFollowing
	}
	switch {
	case fo&unboundedPre != 0:
		d.text("UNBOUNDED PRECEDING")
	case fo&unboundedFol != 0:
		d.text("UNBOUNDED FOLLOWING")
	case fo&current != 0:
		d.text("CURRENT ROW")
	case fo&offPre != 0:
		d.expr(offset, precOp)
		d.text(" PRECEDING")
	case fo&offFol != 0:
		d.expr(offset, precOp)
		d.text(" FOLLOWING")
	default:
		pgerr.Report("window frame has no bound")
	}
}

func (d *deparser) onConflict(oc *ast.OnConflictClause) {
	d.text("ON CONFLICT")
	if oc.Infer != nil {
		d.space()
		d.inferClause(oc.Infer)
	}
	if oc.Action == ast.OnConflictNothing {
		d.text(" DO NOTHING")
		return
	}
	d.text(" DO UPDATE SET ")
	d.setClauses(oc.TargetList)
	if oc.WhereClause != nil {
		d.text(" WHERE ")
		d.expr(oc.WhereClause, precOr)
	}
}

func (d *deparser) inferClause(ic *ast.InferClause) {
	if ic.Conname != "" {
		d.text("ON CONSTRAINT ")
		d.ident(ic.Conname)
		return
	}
	d.text("(")
	for i, el := range ic.IndexElems {
		if i > 0 {
			d.text(", ")
		}
		v, ok := el.(*ast.IndexElem)
		if !ok {
			pgerr.Report("unexpected node type %s as an index element", ast.KindOf(el))
		}
		d.indexElem(v)
	}
	d.text(")")
	if ic.WhereClause != nil {
		d.text(" WHERE ")
		d.expr(ic.WhereClause, precOr)
	}
}

func (d *deparser) indexElem(ie *ast.IndexElem) {
	switch {
	case ie.Name != "":
		d.ident(ie.Name)
	case bareColumn(ie.Expr):
		// A plain column in expression position needs parentheses to stay
		// an expression element on the way back in.
		d.text("(")
		d.expr(ie.Expr, precOr)
		d.text(")")
	default:
		d.expr(ie.Expr, precOr)
	}
	switch ie.Ordering {
	case ast.SortByAsc:
		d.text(" ASC")
	case ast.SortByDesc:
		d.text(" DESC")
	}
	switch ie.NullsOrdering {
	case ast.SortByNullsFirst:
		d.text(" NULLS FIRST")
	case ast.SortByNullsLast:
		d.text(" NULLS LAST")
	}
}

func bareColumn(n ast.Node) bool {
	cr, ok := n.(*ast.ColumnRef)
	if !ok || len(cr.Fields) != 1 {
		return false
	}
	_, ok = cr.Fields[0].(*ast.String)
	return ok
}

func (d *deparser) lockingClause(lc *ast.LockingClause) {
	d.text("FOR ")
	switch lc.Strength {
	case ast.LCSForUpdate:
		d.text("UPDATE")
	case ast.LCSForNoKeyUpdate:
		d.text("NO KEY UPDATE")
	case ast.LCSForShare:
		d.text("SHARE")
	default:
		d.text("KEY SHARE")
	}
	if len(lc.LockedRels) > 0 {
		d.text(" OF ")
		for i, rel := range lc.LockedRels {
			if i > 0 {
				d.text(", ")
			}
			rv, ok := rel.(*ast.RangeVar)
			if !ok {
				pgerr.Report("unexpected node type %s in locking clause", ast.KindOf(rel))
			}
			d.rangeVarName(rv)
		}
	}
	switch lc.WaitPolicy {
	case ast.LockWaitError:
		d.text(" NOWAIT")
	case ast.LockWaitSkip:
		d.text(" SKIP LOCKED")
	}
}

func (d *deparser) groupingSet(gs *ast.GroupingSet) {
	switch gs.Kind {
	case ast.GroupingSetEmpty:
		d.text("()")
	case ast.GroupingSetSimple:
		d.text("(")
		d.commaExprs(gs.Content)
		d.text(")")
	case ast.GroupingSetRollup:
		d.text("ROLLUP (")
		d.commaExprs(gs.Content)
		d.text(")")
	case ast.GroupingSetCube:
		d.text("CUBE (")
		d.commaExprs(gs.Content)
		d.text(")")
	default:
		d.text("GROUPING SETS (")
		for i, item := range gs.Content {
			if i > 0 {
				d.text(", ")
			}
			d.groupByItem(item)
		}
		d.text(")")
	}
}

func (d *deparser) columnDef(col *ast.ColumnDef) {
	d.ident(col.Colname)
	d.space()
	d.typeName(col.TypeName)
	for _, c := range col.Constraints {
		v, ok := c.(*ast.Constraint)
		if !ok {
			pgerr.Report("unexpected node type %s as a column constraint", ast.KindOf(c))
		}
		d.space()
		d.constraint(v)
	}
}

func (d *deparser) constraint(c *ast.Constraint) {
	if c.Conname != "" {
		d.text("CONSTRAINT ")
		d.ident(c.Conname)
		d.space()
	}
	switch c.Contype {
	case ast.ConstrNull:
		d.text("NULL")
	case ast.ConstrNotNull:
		d.text("NOT NULL")
	case ast.ConstrDefault:
		d.text("DEFAULT ")
		d.expr(c.RawExpr, precCmp)
	case ast.ConstrCheck:
		d.text("CHECK (")
		d.expr(c.RawExpr, precOr)
		d.text(")")
	case ast.ConstrPrimary:
		d.text("PRIMARY KEY")
		d.keyColumns(c.Keys)
	case ast.ConstrUnique:
		d.text("UNIQUE")
		d.keyColumns(c.Keys)
	case ast.ConstrForeign:
		if len(c.FkAttrs) > 0 {
			d.text("FOREIGN KEY (")
			d.commaIdents(c.FkAttrs)
			d.text(") ")
		}
		d.text("REFERENCES ")
		d.rangeVarName(c.Pktable)
		d.keyColumns(c.PkAttrs)
	default:
		pgerr.Report("cannot deparse constraint type %s", c.Contype)
	}
	if c.Deferrable {
		d.text(" DEFERRABLE")
	}
	if c.Initdeferred {
		d.text(" INITIALLY DEFERRED")
	}
}

func (d *deparser) keyColumns(keys []ast.Node) {
	if len(keys) == 0 {
		return
	}
	d.text(" (")
	d.commaIdents(keys)
	d.text(")")
}

// System catalog types with a dedicated SQL spelling. The ones missing
// here (timetz, timestamptz) need their modifiers inside the phrase and
// are handled separately.
var systemTypeSpelling = map[string]string{
	"int2":      "smallint",
	"int4":      "int",
	"int8":      "bigint",
	"float4":    "real",
	"float8":    "double precision",
	"numeric":   "numeric",
	"bool":      "boolean",
	"bit":       "bit",
	"varbit":    "bit varying",
	"bpchar":    "char",
	"varchar":   "varchar",
	"time":      "time",
	"timestamp": "timestamp",
	"interval":  "interval",
}

// Spellings that accept a modifier list after the phrase.
var typeModsAfterSpelling = map[string]bool{
	"numeric": true, "bit": true, "varbit": true,
	"bpchar": true, "varchar": true, "time": true, "timestamp": true,
}

func (d *deparser) typeName(tn *ast.TypeName) {
	if tn.Setof {
		d.text("SETOF ")
	}
	if name, ok := systemTypeOf(tn); ok {
		switch name {
		case "timetz":
			d.text("time")
			d.typeMods(tn.Typmods)
			d.text(" with time zone")
			d.arrayBounds(tn.ArrayBounds)
			return
		case "timestamptz":
			d.text("timestamp")
			d.typeMods(tn.Typmods)
			d.text(" with time zone")
			d.arrayBounds(tn.ArrayBounds)
			return
		default:
			if sp, ok := systemTypeSpelling[name]; ok &&
				(len(tn.Typmods) == 0 || typeModsAfterSpelling[name]) {
				d.text(sp)
				d.typeMods(tn.Typmods)
				d.arrayBounds(tn.ArrayBounds)
				return
			}
		}
	}
	d.dotted(tn.Names)
	d.typeMods(tn.Typmods)
	d.arrayBounds(tn.ArrayBounds)
}

func systemTypeOf(tn *ast.TypeName) (string, bool) {
	if len(tn.Names) != 2 {
		return "", false
	}
	schema, ok := tn.Names[0].(*ast.String)
	if !ok || schema.Sval != "pg_catalog" {
		return "", false
	}
	name, ok := tn.Names[1].(*ast.String)
	if !ok {
		return "", false
	}
	return name.Sval, true
}

func (d *deparser) typeMods(mods []ast.Node) {
	if len(mods) == 0 {
		return
	}
	d.text("(")
	d.commaExprs(mods)
	d.text(")")
}

func (d *deparser) arrayBounds(bounds []ast.Node) {
	for _, b := range bounds {
		v, ok := b.(*ast.Integer)
		if !ok {
			pgerr.Report("unexpected node type %s as an array bound", ast.KindOf(b))
		}
		if v.Ival < 0 {
			d.text("[]")
		} else {
			d.text("[")
			d.text(strconv.FormatInt(int64(v.Ival), 10))
			d.text("]")
		}
	}
}

func (d *deparser) roleSpec(rs *ast.RoleSpec) {
	switch rs.Roletype {
	case ast.RoleSpecCstring:
		d.ident(rs.Rolename)
	case ast.RoleSpecCurrentRole:
		d.text("CURRENT_ROLE")
	case ast.RoleSpecCurrentUser:
		d.text("CURRENT_USER")
	case ast.RoleSpecSessionUser:
		d.text("SESSION_USER")
	default:
		d.text("public")
	}
}

func (d *deparser) functionParameter(fp *ast.FunctionParameter) {
	switch fp.Mode {
	case ast.FuncParamOut:
		d.text("OUT ")
	case ast.FuncParamInOut:
		d.text("INOUT ")
	case ast.FuncParamVariadic:
		d.text("VARIADIC ")
	}
	if fp.Name != "" {
		d.ident(fp.Name)
		d.space()
	}
	d.typeName(fp.ArgType)
	if fp.Defexpr != nil {
		d.text(" DEFAULT ")
		d.expr(fp.Defexpr, precOr)
	}
}
