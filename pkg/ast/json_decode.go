package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// UnmarshalTree parses the structured text encoding of a tree. The
// document must carry the schema version this package implements; trees
// from other versions are rejected rather than reinterpreted. Unknown node
// kinds and unknown fields are errors.
func UnmarshalTree(data []byte) (*Tree, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	top, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("ast: tree text is not an object")
	}
	d := &dec{}
	o := d.object(top, "tree")

	ver := o.i32("version")
	if d.err == nil && ver != Version {
		return nil, fmt.Errorf("ast: unsupported tree version %d (want %d)", ver, Version)
	}

	t := &Tree{Version: Version}
	if v, ok := o.take("stmts"); ok && d.err == nil {
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("ast: stmts: expected array")
		}
		t.Stmts = make([]*RawStmt, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("ast: stmts: expected object element")
			}
			so := d.object(m, "RawStmt")
			rs := &RawStmt{
				Stmt:         so.node("stmt"),
				StmtLocation: so.i32("stmt_location"),
				StmtLen:      so.i32("stmt_len"),
			}
			so.done()
			t.Stmts = append(t.Stmts, rs)
		}
	}
	o.done()
	if d.err != nil {
		return nil, d.err
	}
	return t, nil
}

// UnmarshalNode parses a single node in the structured text encoding.
func UnmarshalNode(data []byte) (Node, error) {
	raw, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	d := &dec{}
	n := d.decode(raw)
	if d.err != nil {
		return nil, d.err
	}
	return n, nil
}

func decodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ast: invalid tree text: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("ast: trailing data after tree text")
	}
	return raw, nil
}

type dec struct {
	err error
}

func (d *dec) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("ast: "+format, args...)
	}
}

// obj wraps one node's field object. Getters remove the fields they read;
// done reports anything left over as an unknown field.
type obj struct {
	d    *dec
	kind string
	m    map[string]any
}

func (d *dec) object(m map[string]any, kind string) obj {
	return obj{d: d, kind: kind, m: m}
}

func (o obj) take(key string) (any, bool) {
	v, ok := o.m[key]
	if ok {
		delete(o.m, key)
	}
	return v, ok
}

func (o obj) done() {
	if o.d.err != nil || len(o.m) == 0 {
		return
	}
	keys := make([]string, 0, len(o.m))
	for k := range o.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	o.d.fail("%s: unknown field %q", o.kind, keys[0])
}

func (o obj) str(key string) string {
	v, ok := o.take(key)
	if !ok || o.d.err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		o.d.fail("%s.%s: expected string", o.kind, key)
		return ""
	}
	return s
}

func (o obj) i32(key string) int32 {
	v, ok := o.take(key)
	if !ok || o.d.err != nil {
		return 0
	}
	num, ok := v.(json.Number)
	if !ok {
		o.d.fail("%s.%s: expected integer", o.kind, key)
		return 0
	}
	n, err := strconv.ParseInt(num.String(), 10, 32)
	if err != nil {
		o.d.fail("%s.%s: integer out of range", o.kind, key)
		return 0
	}
	return int32(n)
}

func (o obj) boolean(key string) bool {
	v, ok := o.take(key)
	if !ok || o.d.err != nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		o.d.fail("%s.%s: expected boolean", o.kind, key)
		return false
	}
	return b
}

func (o obj) enum(key string, names []string) int32 {
	v, ok := o.take(key)
	if !ok || o.d.err != nil {
		return 0
	}
	s, ok := v.(string)
	if !ok {
		o.d.fail("%s.%s: expected enum string", o.kind, key)
		return 0
	}
	n, ok := enumValue(names, s)
	if !ok {
		o.d.fail("%s.%s: unknown value %q", o.kind, key, s)
		return 0
	}
	return n
}

func (o obj) node(key string) Node {
	v, ok := o.take(key)
	if !ok || o.d.err != nil {
		return nil
	}
	return o.d.decode(v)
}

func (o obj) list(key string) []Node {
	v, ok := o.take(key)
	if !ok || o.d.err != nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		o.d.fail("%s.%s: expected array", o.kind, key)
		return nil
	}
	out := make([]Node, 0, len(items))
	for _, item := range items {
		n := o.d.decode(item)
		if o.d.err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

// Typed accessors for fields whose schema type is one concrete node kind.

func (o obj) rangeVar(key string) *RangeVar {
	return typedNode[*RangeVar](o, key, "RangeVar")
}

func (o obj) alias(key string) *Alias {
	return typedNode[*Alias](o, key, "Alias")
}

func (o obj) typeName(key string) *TypeName {
	return typedNode[*TypeName](o, key, "TypeName")
}

func (o obj) withClause(key string) *WithClause {
	return typedNode[*WithClause](o, key, "WithClause")
}

func (o obj) windowDef(key string) *WindowDef {
	return typedNode[*WindowDef](o, key, "WindowDef")
}

func (o obj) inferClause(key string) *InferClause {
	return typedNode[*InferClause](o, key, "InferClause")
}

func (o obj) onConflict(key string) *OnConflictClause {
	return typedNode[*OnConflictClause](o, key, "OnConflictClause")
}

func (o obj) selectStmt(key string) *SelectStmt {
	return typedNode[*SelectStmt](o, key, "SelectStmt")
}

func typedNode[T Node](o obj, key, want string) T {
	var zero T
	n := o.node(key)
	if n == nil {
		return zero
	}
	t, ok := n.(T)
	if !ok {
		o.d.fail("%s.%s: expected %s node", o.kind, key, want)
		return zero
	}
	return t
}

// decode turns one {"KindName": {fields}} value into its node.
func (d *dec) decode(v any) Node {
	if d.err != nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.fail("expected node object")
		return nil
	}
	if len(m) == 0 {
		// Empty object is the encoding of a nil list element.
		return nil
	}
	if len(m) != 1 {
		d.fail("node object must have exactly one key")
		return nil
	}
	var name string
	var body any
	for k, b := range m {
		name, body = k, b
	}
	kind, ok := KindByName(name)
	if !ok {
		d.fail("unknown node kind %q", name)
		return nil
	}
	fm, ok := body.(map[string]any)
	if !ok {
		d.fail("%s: expected field object", name)
		return nil
	}
	o := d.object(fm, name)
	n := d.build(kind, o)
	o.done()
	if d.err != nil {
		return nil
	}
	return n
}

func (d *dec) build(kind Kind, o obj) Node {
	switch kind {
	case T_RawStmt:
		return &RawStmt{
			Stmt:         o.node("stmt"),
			StmtLocation: o.i32("stmt_location"),
			StmtLen:      o.i32("stmt_len"),
		}
	case T_SelectStmt:
		return &SelectStmt{
			DistinctClause: o.list("distinctClause"),
			TargetList:     o.list("targetList"),
			FromClause:     o.list("fromClause"),
			WhereClause:    o.node("whereClause"),
			GroupClause:    o.list("groupClause"),
			GroupDistinct:  o.boolean("groupDistinct"),
			HavingClause:   o.node("havingClause"),
			WindowClause:   o.list("windowClause"),
			ValuesLists:    o.list("valuesLists"),
			SortClause:     o.list("sortClause"),
			LimitOffset:    o.node("limitOffset"),
			LimitCount:     o.node("limitCount"),
			LimitOption:    LimitOption(o.enum("limitOption", limitOptionNames)),
			LockingClause:  o.list("lockingClause"),
			WithClause:     o.withClause("withClause"),
			Op:             SetOp(o.enum("op", setOpNames)),
			All:            o.boolean("all"),
			Larg:           o.selectStmt("larg"),
			Rarg:           o.selectStmt("rarg"),
		}
	case T_InsertStmt:
		return &InsertStmt{
			Relation:         o.rangeVar("relation"),
			Cols:             o.list("cols"),
			SelectStmt:       o.node("selectStmt"),
			OnConflictClause: o.onConflict("onConflictClause"),
			ReturningList:    o.list("returningList"),
			WithClause:       o.withClause("withClause"),
		}
	case T_UpdateStmt:
		return &UpdateStmt{
			Relation:      o.rangeVar("relation"),
			TargetList:    o.list("targetList"),
			WhereClause:   o.node("whereClause"),
			FromClause:    o.list("fromClause"),
			ReturningList: o.list("returningList"),
			WithClause:    o.withClause("withClause"),
		}
	case T_DeleteStmt:
		return &DeleteStmt{
			Relation:      o.rangeVar("relation"),
			UsingClause:   o.list("usingClause"),
			WhereClause:   o.node("whereClause"),
			ReturningList: o.list("returningList"),
			WithClause:    o.withClause("withClause"),
		}
	case T_CreateStmt:
		return &CreateStmt{
			Relation:    o.rangeVar("relation"),
			TableElts:   o.list("tableElts"),
			IfNotExists: o.boolean("if_not_exists"),
		}
	case T_DropStmt:
		return &DropStmt{
			Objects:    o.list("objects"),
			RemoveType: ObjectType(o.enum("removeType", objectTypeNames)),
			Behavior:   DropBehavior(o.enum("behavior", dropBehaviorNames)),
			MissingOk:  o.boolean("missing_ok"),
			Concurrent: o.boolean("concurrent"),
		}
	case T_TransactionStmt:
		return &TransactionStmt{
			Kind: TransactionStmtKind(o.enum("kind", transactionStmtKindNames)),
		}
	case T_ResTarget:
		return &ResTarget{
			Name:        o.str("name"),
			Indirection: o.list("indirection"),
			Val:         o.node("val"),
			Location:    o.i32("location"),
		}
	case T_ColumnRef:
		return &ColumnRef{
			Fields:   o.list("fields"),
			Location: o.i32("location"),
		}
	case T_A_Star:
		return &A_Star{}
	case T_A_Const:
		return &A_Const{
			Isnull:   o.boolean("isnull"),
			Val:      o.node("val"),
			Location: o.i32("location"),
		}
	case T_ParamRef:
		return &ParamRef{
			Number:   o.i32("number"),
			Location: o.i32("location"),
		}
	case T_A_Expr:
		return &A_Expr{
			Kind:     AExprKind(o.enum("kind", aExprKindNames)),
			Name:     o.list("name"),
			Lexpr:    o.node("lexpr"),
			Rexpr:    o.node("rexpr"),
			Location: o.i32("location"),
		}
	case T_BoolExpr:
		return &BoolExpr{
			Boolop:   BoolExprType(o.enum("boolop", boolExprTypeNames)),
			Args:     o.list("args"),
			Location: o.i32("location"),
		}
	case T_NullTest:
		return &NullTest{
			Arg:          o.node("arg"),
			Nulltesttype: NullTestType(o.enum("nulltesttype", nullTestTypeNames)),
			Location:     o.i32("location"),
		}
	case T_BooleanTest:
		return &BooleanTest{
			Arg:          o.node("arg"),
			Booltesttype: BoolTestType(o.enum("booltesttype", boolTestTypeNames)),
			Location:     o.i32("location"),
		}
	case T_CaseExpr:
		return &CaseExpr{
			Arg:       o.node("arg"),
			Args:      o.list("args"),
			Defresult: o.node("defresult"),
			Location:  o.i32("location"),
		}
	case T_CaseWhen:
		return &CaseWhen{
			Expr:     o.node("expr"),
			Result:   o.node("result"),
			Location: o.i32("location"),
		}
	case T_FuncCall:
		return &FuncCall{
			Funcname:    o.list("funcname"),
			Args:        o.list("args"),
			AggStar:     o.boolean("agg_star"),
			AggDistinct: o.boolean("agg_distinct"),
			Over:        o.windowDef("over"),
			Location:    o.i32("location"),
		}
	case T_TypeCast:
		return &TypeCast{
			Arg:      o.node("arg"),
			TypeName: o.typeName("typeName"),
			Location: o.i32("location"),
		}
	case T_TypeName:
		return &TypeName{
			Names:       o.list("names"),
			Typmods:     o.list("typmods"),
			ArrayBounds: o.list("arrayBounds"),
			Setof:       o.boolean("setof"),
			Location:    o.i32("location"),
		}
	case T_SubLink:
		return &SubLink{
			SubLinkType: SubLinkType(o.enum("subLinkType", subLinkTypeNames)),
			Testexpr:    o.node("testexpr"),
			OperName:    o.list("operName"),
			Subselect:   o.node("subselect"),
			Location:    o.i32("location"),
		}
	case T_A_ArrayExpr:
		return &A_ArrayExpr{
			Elements: o.list("elements"),
			Location: o.i32("location"),
		}
	case T_CoalesceExpr:
		return &CoalesceExpr{
			Args:     o.list("args"),
			Location: o.i32("location"),
		}
	case T_MinMaxExpr:
		return &MinMaxExpr{
			Op:       MinMaxOp(o.enum("op", minMaxOpNames)),
			Args:     o.list("args"),
			Location: o.i32("location"),
		}
	case T_RowExpr:
		return &RowExpr{
			Args:     o.list("args"),
			Location: o.i32("location"),
		}
	case T_RangeVar:
		return &RangeVar{
			Catalogname:    o.str("catalogname"),
			Schemaname:     o.str("schemaname"),
			Relname:        o.str("relname"),
			Inh:            o.boolean("inh"),
			Relpersistence: o.str("relpersistence"),
			Alias:          o.alias("alias"),
			Location:       o.i32("location"),
		}
	case T_Alias:
		return &Alias{
			Aliasname: o.str("aliasname"),
			Colnames:  o.list("colnames"),
		}
	case T_JoinExpr:
		return &JoinExpr{
			Jointype:    JoinType(o.enum("jointype", joinTypeNames)),
			IsNatural:   o.boolean("isNatural"),
			Larg:        o.node("larg"),
			Rarg:        o.node("rarg"),
			UsingClause: o.list("usingClause"),
			Quals:       o.node("quals"),
		}
	case T_RangeSubselect:
		return &RangeSubselect{
			Lateral:  o.boolean("lateral"),
			Subquery: o.node("subquery"),
			Alias:    o.alias("alias"),
		}
	case T_RangeFunction:
		return &RangeFunction{
			Lateral:    o.boolean("lateral"),
			Ordinality: o.boolean("ordinality"),
			Functions:  o.list("functions"),
			Alias:      o.alias("alias"),
		}
	case T_CommonTableExpr:
		return &CommonTableExpr{
			Ctename:         o.str("ctename"),
			Aliascolnames:   o.list("aliascolnames"),
			Ctematerialized: CTEMaterialize(o.enum("ctematerialized", cteMaterializeNames)),
			Ctequery:        o.node("ctequery"),
			Location:        o.i32("location"),
		}
	case T_WithClause:
		return &WithClause{
			Ctes:      o.list("ctes"),
			Recursive: o.boolean("recursive"),
			Location:  o.i32("location"),
		}
	case T_SortBy:
		return &SortBy{
			Node:        o.node("node"),
			SortbyDir:   SortByDir(o.enum("sortby_dir", sortByDirNames)),
			SortbyNulls: SortByNulls(o.enum("sortby_nulls", sortByNullsNames)),
			UseOp:       o.list("useOp"),
			Location:    o.i32("location"),
		}
	case T_WindowDef:
		return &WindowDef{
			Name:            o.str("name"),
			Refname:         o.str("refname"),
			PartitionClause: o.list("partitionClause"),
			OrderClause:     o.list("orderClause"),
			FrameOptions:    o.i32("frameOptions"),
			StartOffset:     o.node("startOffset"),
			EndOffset:       o.node("endOffset"),
			Location:        o.i32("location"),
		}
	case T_ColumnDef:
		return &ColumnDef{
			Colname:     o.str("colname"),
			TypeName:    o.typeName("typeName"),
			Constraints: o.list("constraints"),
			Location:    o.i32("location"),
		}
	case T_Constraint:
		return &Constraint{
			Contype:      ConstrType(o.enum("contype", constrTypeNames)),
			Conname:      o.str("conname"),
			Deferrable:   o.boolean("deferrable"),
			Initdeferred: o.boolean("initdeferred"),
			RawExpr:      o.node("raw_expr"),
			Keys:         o.list("keys"),
			Pktable:      o.rangeVar("pktable"),
			FkAttrs:      o.list("fk_attrs"),
			PkAttrs:      o.list("pk_attrs"),
			Location:     o.i32("location"),
		}
	case T_IndexElem:
		return &IndexElem{
			Name:          o.str("name"),
			Expr:          o.node("expr"),
			Ordering:      SortByDir(o.enum("ordering", sortByDirNames)),
			NullsOrdering: SortByNulls(o.enum("nulls_ordering", sortByNullsNames)),
		}
	case T_InferClause:
		return &InferClause{
			IndexElems:  o.list("indexElems"),
			WhereClause: o.node("whereClause"),
			Conname:     o.str("conname"),
			Location:    o.i32("location"),
		}
	case T_OnConflictClause:
		return &OnConflictClause{
			Action:      OnConflictAction(o.enum("action", onConflictActionNames)),
			Infer:       o.inferClause("infer"),
			TargetList:  o.list("targetList"),
			WhereClause: o.node("whereClause"),
			Location:    o.i32("location"),
		}
	case T_LockingClause:
		return &LockingClause{
			LockedRels: o.list("lockedRels"),
			Strength:   LockClauseStrength(o.enum("strength", lockClauseStrengthNames)),
			WaitPolicy: LockWaitPolicy(o.enum("waitPolicy", lockWaitPolicyNames)),
		}
	case T_GroupingSet:
		return &GroupingSet{
			Kind:     GroupingSetKind(o.enum("kind", groupingSetKindNames)),
			Content:  o.list("content"),
			Location: o.i32("location"),
		}
	case T_RoleSpec:
		return &RoleSpec{
			Roletype: RoleSpecType(o.enum("roletype", roleSpecTypeNames)),
			Rolename: o.str("rolename"),
			Location: o.i32("location"),
		}
	case T_FunctionParameter:
		return &FunctionParameter{
			Name:    o.str("name"),
			ArgType: o.typeName("argType"),
			Mode:    FunctionParameterMode(o.enum("mode", functionParameterModeNames)),
			Defexpr: o.node("defexpr"),
		}
	case T_List:
		return &List{Items: o.list("items")}
	case T_String:
		return &String{Sval: o.str("sval")}
	case T_Integer:
		return &Integer{Ival: o.i32("ival")}
	case T_Float:
		return &Float{Fval: o.str("fval")}
	case T_Boolean:
		return &Boolean{Boolval: o.boolean("boolval")}
	case T_BitString:
		return &BitString{Bsval: o.str("bsval")}
	default:
		d.fail("cannot decode node kind %q", kind)
		return nil
	}
}
