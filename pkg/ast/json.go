package ast

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The structured text encoding wraps every node as {"KindName": {fields}}.
// Zero-valued fields are omitted, so decoding an encoded tree reproduces
// the original node for node equality even though the text never spells
// out defaults. A tree document adds a top level carrying the schema
// version:
//
//	{"version":170004,"stmts":[{"stmt":{...},"stmt_location":0,"stmt_len":8}]}

// MarshalTree renders a tree in the structured text encoding.
func MarshalTree(t *Tree) ([]byte, error) {
	if t == nil {
		return nil, errors.New("ast: marshal of nil tree")
	}
	e := &enc{}
	stmts := make([]any, 0, len(t.Stmts))
	for i, rs := range t.Stmts {
		if rs == nil {
			e.err = fmt.Errorf("ast: statement %d is nil", i)
			break
		}
		stmts = append(stmts, e.fieldsOf(rs))
	}
	if e.err != nil {
		return nil, e.err
	}
	return json.Marshal(map[string]any{"version": t.Version, "stmts": stmts})
}

// MarshalNode renders a single node in the structured text encoding, with
// no version wrapper.
func MarshalNode(n Node) ([]byte, error) {
	if n == nil {
		return nil, errors.New("ast: marshal of nil node")
	}
	e := &enc{}
	m := e.encode(n)
	if e.err != nil {
		return nil, e.err
	}
	return json.Marshal(m)
}

type enc struct {
	err error
}

type fields map[string]any

func (f fields) str(key, v string) {
	if v != "" {
		f[key] = v
	}
}

func (f fields) i32(key string, v int32) {
	if v != 0 {
		f[key] = v
	}
}

func (f fields) boolean(key string, v bool) {
	if v {
		f[key] = true
	}
}

func (f fields) enum(key string, v int32, names []string) {
	if v != 0 {
		f[key] = enumString(names, v)
	}
}

func (f fields) node(e *enc, key string, n Node) {
	if n != nil {
		f[key] = e.encode(n)
	}
}

// A nil list element encodes as an empty object. The only producer is a
// bare DISTINCT, whose clause list holds one nil entry.
func (f fields) list(e *enc, key string, ns []Node) {
	if len(ns) == 0 {
		return
	}
	out := make([]any, len(ns))
	for i, n := range ns {
		if n == nil {
			out[i] = map[string]any{}
			continue
		}
		out[i] = e.encode(n)
	}
	f[key] = out
}

func (e *enc) encode(n Node) map[string]any {
	if e.err != nil {
		return nil
	}
	return map[string]any{KindOf(n).String(): e.fieldsOf(n)}
}

// fieldsOf builds the field object for one node. Interface-typed fields
// that are nil and zero-valued scalars are left out.
func (e *enc) fieldsOf(n Node) fields {
	f := fields{}
	switch v := n.(type) {
	case *RawStmt:
		f.node(e, "stmt", v.Stmt)
		f.i32("stmt_location", v.StmtLocation)
		f.i32("stmt_len", v.StmtLen)
	case *SelectStmt:
		f.list(e, "distinctClause", v.DistinctClause)
		f.list(e, "targetList", v.TargetList)
		f.list(e, "fromClause", v.FromClause)
		f.node(e, "whereClause", v.WhereClause)
		f.list(e, "groupClause", v.GroupClause)
		f.boolean("groupDistinct", v.GroupDistinct)
		f.node(e, "havingClause", v.HavingClause)
		f.list(e, "windowClause", v.WindowClause)
		f.list(e, "valuesLists", v.ValuesLists)
		f.list(e, "sortClause", v.SortClause)
		f.node(e, "limitOffset", v.LimitOffset)
		f.node(e, "limitCount", v.LimitCount)
		f.enum("limitOption", int32(v.LimitOption), limitOptionNames)
		f.list(e, "lockingClause", v.LockingClause)
		if v.WithClause != nil {
			f.node(e, "withClause", v.WithClause)
		}
		f.enum("op", int32(v.Op), setOpNames)
		f.boolean("all", v.All)
		if v.Larg != nil {
			f.node(e, "larg", v.Larg)
		}
		if v.Rarg != nil {
			f.node(e, "rarg", v.Rarg)
		}
	case *InsertStmt:
		if v.Relation != nil {
			f.node(e, "relation", v.Relation)
		}
		f.list(e, "cols", v.Cols)
		f.node(e, "selectStmt", v.SelectStmt)
		if v.OnConflictClause != nil {
			f.node(e, "onConflictClause", v.OnConflictClause)
		}
		f.list(e, "returningList", v.ReturningList)
		if v.WithClause != nil {
			f.node(e, "withClause", v.WithClause)
		}
	case *UpdateStmt:
		if v.Relation != nil {
			f.node(e, "relation", v.Relation)
		}
		f.list(e, "targetList", v.TargetList)
		f.node(e, "whereClause", v.WhereClause)
		f.list(e, "fromClause", v.FromClause)
		f.list(e, "returningList", v.ReturningList)
		if v.WithClause != nil {
			f.node(e, "withClause", v.WithClause)
		}
	case *DeleteStmt:
		if v.Relation != nil {
			f.node(e, "relation", v.Relation)
		}
		f.list(e, "usingClause", v.UsingClause)
		f.node(e, "whereClause", v.WhereClause)
		f.list(e, "returningList", v.ReturningList)
		if v.WithClause != nil {
			f.node(e, "withClause", v.WithClause)
		}
	case *CreateStmt:
		if v.Relation != nil {
			f.node(e, "relation", v.Relation)
		}
		f.list(e, "tableElts", v.TableElts)
		f.boolean("if_not_exists", v.IfNotExists)
	case *DropStmt:
		f.list(e, "objects", v.Objects)
		f.enum("removeType", int32(v.RemoveType), objectTypeNames)
		f.enum("behavior", int32(v.Behavior), dropBehaviorNames)
		f.boolean("missing_ok", v.MissingOk)
		f.boolean("concurrent", v.Concurrent)
	case *TransactionStmt:
		f.enum("kind", int32(v.Kind), transactionStmtKindNames)
	case *ResTarget:
		f.str("name", v.Name)
		f.list(e, "indirection", v.Indirection)
		f.node(e, "val", v.Val)
		f.i32("location", v.Location)
	case *ColumnRef:
		f.list(e, "fields", v.Fields)
		f.i32("location", v.Location)
	case *A_Star:
		// no fields
	case *A_Const:
		f.boolean("isnull", v.Isnull)
		f.node(e, "val", v.Val)
		f.i32("location", v.Location)
	case *ParamRef:
		f.i32("number", v.Number)
		f.i32("location", v.Location)
	case *A_Expr:
		f.enum("kind", int32(v.Kind), aExprKindNames)
		f.list(e, "name", v.Name)
		f.node(e, "lexpr", v.Lexpr)
		f.node(e, "rexpr", v.Rexpr)
		f.i32("location", v.Location)
	case *BoolExpr:
		f.enum("boolop", int32(v.Boolop), boolExprTypeNames)
		f.list(e, "args", v.Args)
		f.i32("location", v.Location)
	case *NullTest:
		f.node(e, "arg", v.Arg)
		f.enum("nulltesttype", int32(v.Nulltesttype), nullTestTypeNames)
		f.i32("location", v.Location)
	case *BooleanTest:
		f.node(e, "arg", v.Arg)
		f.enum("booltesttype", int32(v.Booltesttype), boolTestTypeNames)
		f.i32("location", v.Location)
	case *CaseExpr:
		f.node(e, "arg", v.Arg)
		f.list(e, "args", v.Args)
		f.node(e, "defresult", v.Defresult)
		f.i32("location", v.Location)
	case *CaseWhen:
		f.node(e, "expr", v.Expr)
		f.node(e, "result", v.Result)
		f.i32("location", v.Location)
	case *FuncCall:
		f.list(e, "funcname", v.Funcname)
		f.list(e, "args", v.Args)
		f.boolean("agg_star", v.AggStar)
		f.boolean("agg_distinct", v.AggDistinct)
		if v.Over != nil {
			f.node(e, "over", v.Over)
		}
		f.i32("location", v.Location)
	case *TypeCast:
		f.node(e, "arg", v.Arg)
		if v.TypeName != nil {
			f.node(e, "typeName", v.TypeName)
		}
		f.i32("location", v.Location)
	case *TypeName:
		f.list(e, "names", v.Names)
		f.list(e, "typmods", v.Typmods)
		f.list(e, "arrayBounds", v.ArrayBounds)
		f.boolean("setof", v.Setof)
		f.i32("location", v.Location)
	case *SubLink:
		f.enum("subLinkType", int32(v.SubLinkType), subLinkTypeNames)
		f.node(e, "testexpr", v.Testexpr)
		f.list(e, "operName", v.OperName)
		f.node(e, "subselect", v.Subselect)
		f.i32("location", v.Location)
	case *A_ArrayExpr:
		f.list(e, "elements", v.Elements)
		f.i32("location", v.Location)
	case *CoalesceExpr:
		f.list(e, "args", v.Args)
		f.i32("location", v.Location)
	case *MinMaxExpr:
		f.enum("op", int32(v.Op), minMaxOpNames)
		f.list(e, "args", v.Args)
		f.i32("location", v.Location)
	case *RowExpr:
		f.list(e, "args", v.Args)
		f.i32("location", v.Location)
	case *RangeVar:
		f.str("catalogname", v.Catalogname)
		f.str("schemaname", v.Schemaname)
		f.str("relname", v.Relname)
		f.boolean("inh", v.Inh)
		f.str("relpersistence", v.Relpersistence)
		if v.Alias != nil {
			f.node(e, "alias", v.Alias)
		}
		f.i32("location", v.Location)
	case *Alias:
		f.str("aliasname", v.Aliasname)
		f.list(e, "colnames", v.Colnames)
	case *JoinExpr:
		f.enum("jointype", int32(v.Jointype), joinTypeNames)
		f.boolean("isNatural", v.IsNatural)
		f.node(e, "larg", v.Larg)
		f.node(e, "rarg", v.Rarg)
		f.list(e, "usingClause", v.UsingClause)
		f.node(e, "quals", v.Quals)
	case *RangeSubselect:
		f.boolean("lateral", v.Lateral)
		f.node(e, "subquery", v.Subquery)
		if v.Alias != nil {
			f.node(e, "alias", v.Alias)
		}
	case *RangeFunction:
		f.boolean("lateral", v.Lateral)
		f.boolean("ordinality", v.Ordinality)
		f.list(e, "functions", v.Functions)
		if v.Alias != nil {
			f.node(e, "alias", v.Alias)
		}
	case *CommonTableExpr:
		f.str("ctename", v.Ctename)
		f.list(e, "aliascolnames", v.Aliascolnames)
		f.enum("ctematerialized", int32(v.Ctematerialized), cteMaterializeNames)
		f.node(e, "ctequery", v.Ctequery)
		f.i32("location", v.Location)
	case *WithClause:
		f.list(e, "ctes", v.Ctes)
		f.boolean("recursive", v.Recursive)
		f.i32("location", v.Location)
	case *SortBy:
		f.node(e, "node", v.Node)
		f.enum("sortby_dir", int32(v.SortbyDir), sortByDirNames)
		f.enum("sortby_nulls", int32(v.SortbyNulls), sortByNullsNames)
		f.list(e, "useOp", v.UseOp)
		f.i32("location", v.Location)
	case *WindowDef:
		f.str("name", v.Name)
		f.str("refname", v.Refname)
		f.list(e, "partitionClause", v.PartitionClause)
		f.list(e, "orderClause", v.OrderClause)
		f.i32("frameOptions", v.FrameOptions)
		f.node(e, "startOffset", v.StartOffset)
		f.node(e, "endOffset", v.EndOffset)
		f.i32("location", v.Location)
	case *ColumnDef:
		f.str("colname", v.Colname)
		if v.TypeName != nil {
			f.node(e, "typeName", v.TypeName)
		}
		f.list(e, "constraints", v.Constraints)
		f.i32("location", v.Location)
	case *Constraint:
		f.enum("contype", int32(v.Contype), constrTypeNames)
		f.str("conname", v.Conname)
		f.boolean("deferrable", v.Deferrable)
		f.boolean("initdeferred", v.Initdeferred)
		f.node(e, "raw_expr", v.RawExpr)
		f.list(e, "keys", v.Keys)
		if v.Pktable != nil {
			f.node(e, "pktable", v.Pktable)
		}
		f.list(e, "fk_attrs", v.FkAttrs)
		f.list(e, "pk_attrs", v.PkAttrs)
		f.i32("location", v.Location)
	case *IndexElem:
		f.str("name", v.Name)
		f.node(e, "expr", v.Expr)
		f.enum("ordering", int32(v.Ordering), sortByDirNames)
		f.enum("nulls_ordering", int32(v.NullsOrdering), sortByNullsNames)
	case *InferClause:
		f.list(e, "indexElems", v.IndexElems)
		f.node(e, "whereClause", v.WhereClause)
		f.str("conname", v.Conname)
		f.i32("location", v.Location)
	case *OnConflictClause:
		f.enum("action", int32(v.Action), onConflictActionNames)
		if v.Infer != nil {
			f.node(e, "infer", v.Infer)
		}
		f.list(e, "targetList", v.TargetList)
		f.node(e, "whereClause", v.WhereClause)
		f.i32("location", v.Location)
	case *LockingClause:
		f.list(e, "lockedRels", v.LockedRels)
		f.enum("strength", int32(v.Strength), lockClauseStrengthNames)
		f.enum("waitPolicy", int32(v.WaitPolicy), lockWaitPolicyNames)
	case *GroupingSet:
		f.enum("kind", int32(v.Kind), groupingSetKindNames)
		f.list(e, "content", v.Content)
		f.i32("location", v.Location)
	case *RoleSpec:
		f.enum("roletype", int32(v.Roletype), roleSpecTypeNames)
		f.str("rolename", v.Rolename)
		f.i32("location", v.Location)
	case *FunctionParameter:
		f.str("name", v.Name)
		if v.ArgType != nil {
			f.node(e, "argType", v.ArgType)
		}
		f.enum("mode", int32(v.Mode), functionParameterModeNames)
		f.node(e, "defexpr", v.Defexpr)
	case *List:
		f.list(e, "items", v.Items)
	case *String:
		f.str("sval", v.Sval)
	case *Integer:
		f.i32("ival", v.Ival)
	case *Float:
		f.str("fval", v.Fval)
	case *Boolean:
		f.boolean("boolval", v.Boolval)
	case *BitString:
		f.str("bsval", v.Bsval)
	default:
		if e.err == nil {
			e.err = fmt.Errorf("ast: cannot encode node kind %v", KindOf(n))
		}
		return nil
	}
	return f
}
