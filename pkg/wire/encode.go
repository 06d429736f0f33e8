package wire

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/supabase-community/pg-parser/pkg/ast"
)

// encoder appends the envelope header, the payload, and finally the CRC
// trailer to one growing buffer. The payload length slot is written as
// zeros by header and patched by seal once the payload size is known.
type encoder struct {
	buf   []byte
	count int
	kind  ast.Kind
	err   error
}

func (e *encoder) header(kind byte, version int32) {
	e.buf = append(e.buf, magic...)
	e.buf = append(e.buf, kind)
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(version))
	e.buf = append(e.buf, 0, 0, 0, 0)
}

func (e *encoder) seal() []byte {
	binary.LittleEndian.PutUint32(e.buf[headerLen-4:], uint32(len(e.buf)-headerLen))
	sum := crc32.ChecksumIEEE(e.buf[headerLen:])
	return binary.LittleEndian.AppendUint32(e.buf, sum)
}

func (e *encoder) fail(format string, args ...any) {
	if e.err == nil {
		e.err = codecErrf(format, args...)
	}
}

func (e *encoder) uvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }
func (e *encoder) svarint(v int64)  { e.buf = binary.AppendVarint(e.buf, v) }

// node writes one node: its kind tag, a field count, and the non-zero
// fields in field id order. A nil node is the single tag byte 0. Every
// kind has fewer than 128 fields, so the count slot reserved here is one
// canonical varint byte patched after the fields are written.
func (e *encoder) node(n ast.Node) {
	if e.err != nil {
		return
	}
	kind := ast.KindOf(n)
	if kind == ast.T_Invalid {
		e.uvarint(0)
		return
	}
	e.uvarint(uint64(kind))
	countAt := len(e.buf)
	e.buf = append(e.buf, 0)
	savedCount, savedKind := e.count, e.kind
	e.count, e.kind = 0, kind
	e.fields(n)
	if e.err == nil {
		e.buf[countAt] = byte(e.count)
	}
	e.count, e.kind = savedCount, savedKind
}

func (e *encoder) field(id uint64, wt byte) {
	e.uvarint(id)
	e.buf = append(e.buf, wt)
	e.count++
}

// Field writers. Zero values are omitted entirely, which keeps the
// encoding deterministic and lets decode rebuild the node by assigning
// only the fields that are present.

func (e *encoder) i32(id uint64, v int32) {
	if v == 0 || e.err != nil {
		return
	}
	e.field(id, wtVarint)
	e.svarint(int64(v))
}

func (e *encoder) str(id uint64, s string) {
	if s == "" || e.err != nil {
		return
	}
	e.field(id, wtBytes)
	e.uvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) boolean(id uint64, v bool) {
	if !v || e.err != nil {
		return
	}
	e.field(id, wtBool)
	e.buf = append(e.buf, 1)
}

func (e *encoder) child(id uint64, n ast.Node) {
	if n == nil || e.err != nil {
		return
	}
	e.field(id, wtNode)
	e.node(n)
}

func (e *encoder) list(id uint64, items []ast.Node) {
	if len(items) == 0 || e.err != nil {
		return
	}
	e.field(id, wtList)
	e.uvarint(uint64(len(items)))
	for _, n := range items {
		e.node(n)
	}
}

// names writes a field whose elements are String nodes by construction
// (name lists and operator names) as bare strings.
func (e *encoder) names(id uint64, items []ast.Node) {
	if len(items) == 0 || e.err != nil {
		return
	}
	e.field(id, wtStrings)
	e.uvarint(uint64(len(items)))
	for _, n := range items {
		s, ok := n.(*ast.String)
		if !ok {
			e.fail("field %d of %s must hold String nodes, got %s", id, e.kind, ast.KindOf(n))
			return
		}
		e.uvarint(uint64(len(s.Sval)))
		e.buf = append(e.buf, s.Sval...)
	}
}

// fields writes the fields of one node. Ids are the 1-based position of
// each field in the structured text encoding's field order for the kind,
// so the two encodings stay id-compatible as the schema grows.
func (e *encoder) fields(n ast.Node) {
	switch v := n.(type) {
	case *ast.RawStmt:
		e.child(1, v.Stmt)
		e.i32(2, v.StmtLocation)
		e.i32(3, v.StmtLen)
	case *ast.SelectStmt:
		e.list(1, v.DistinctClause)
		e.list(2, v.TargetList)
		e.list(3, v.FromClause)
		e.child(4, v.WhereClause)
		e.list(5, v.GroupClause)
		e.boolean(6, v.GroupDistinct)
		e.child(7, v.HavingClause)
		e.list(8, v.WindowClause)
		e.list(9, v.ValuesLists)
		e.list(10, v.SortClause)
		e.child(11, v.LimitOffset)
		e.child(12, v.LimitCount)
		e.i32(13, int32(v.LimitOption))
		e.list(14, v.LockingClause)
		if v.WithClause != nil {
			e.child(15, v.WithClause)
		}
		e.i32(16, int32(v.Op))
		e.boolean(17, v.All)
		if v.Larg != nil {
			e.child(18, v.Larg)
		}
		if v.Rarg != nil {
			e.child(19, v.Rarg)
		}
	case *ast.InsertStmt:
		if v.Relation != nil {
			e.child(1, v.Relation)
		}
		e.list(2, v.Cols)
		e.child(3, v.SelectStmt)
		if v.OnConflictClause != nil {
			e.child(4, v.OnConflictClause)
		}
		e.list(5, v.ReturningList)
		if v.WithClause != nil {
			e.child(6, v.WithClause)
		}
	case *ast.UpdateStmt:
		if v.Relation != nil {
			e.child(1, v.Relation)
		}
		e.list(2, v.TargetList)
		e.child(3, v.WhereClause)
		e.list(4, v.FromClause)
		e.list(5, v.ReturningList)
		if v.WithClause != nil {
			e.child(6, v.WithClause)
		}
	case *ast.DeleteStmt:
		if v.Relation != nil {
			e.child(1, v.Relation)
		}
		e.list(2, v.UsingClause)
		e.child(3, v.WhereClause)
		e.list(4, v.ReturningList)
		if v.WithClause != nil {
			e.child(5, v.WithClause)
		}
	case *ast.CreateStmt:
		if v.Relation != nil {
			e.child(1, v.Relation)
		}
		e.list(2, v.TableElts)
		e.boolean(3, v.IfNotExists)
	case *ast.DropStmt:
		e.list(1, v.Objects)
		e.i32(2, int32(v.RemoveType))
		e.i32(3, int32(v.Behavior))
		e.boolean(4, v.MissingOk)
		e.boolean(5, v.Concurrent)
	case *ast.TransactionStmt:
		e.i32(1, int32(v.Kind))
	case *ast.ResTarget:
		e.str(1, v.Name)
		e.list(2, v.Indirection)
		e.child(3, v.Val)
		e.i32(4, v.Location)
	case *ast.ColumnRef:
		e.list(1, v.Fields)
		e.i32(2, v.Location)
	case *ast.A_Star:
	case *ast.A_Const:
		e.boolean(1, v.Isnull)
		e.child(2, v.Val)
		e.i32(3, v.Location)
	case *ast.ParamRef:
		e.i32(1, v.Number)
		e.i32(2, v.Location)
	case *ast.A_Expr:
		e.i32(1, int32(v.Kind))
		e.names(2, v.Name)
		e.child(3, v.Lexpr)
		e.child(4, v.Rexpr)
		e.i32(5, v.Location)
	case *ast.BoolExpr:
		e.i32(1, int32(v.Boolop))
		e.list(2, v.Args)
		e.i32(3, v.Location)
	case *ast.NullTest:
		e.child(1, v.Arg)
		e.i32(2, int32(v.Nulltesttype))
		e.i32(3, v.Location)
	case *ast.BooleanTest:
		e.child(1, v.Arg)
		e.i32(2, int32(v.Booltesttype))
		e.i32(3, v.Location)
	case *ast.CaseExpr:
		e.child(1, v.Arg)
		e.list(2, v.Args)
		e.child(3, v.Defresult)
		e.i32(4, v.Location)
	case *ast.CaseWhen:
		e.child(1, v.Expr)
		e.child(2, v.Result)
		e.i32(3, v.Location)
	case *ast.FuncCall:
		e.names(1, v.Funcname)
		e.list(2, v.Args)
		e.boolean(3, v.AggStar)
		e.boolean(4, v.AggDistinct)
		if v.Over != nil {
			e.child(5, v.Over)
		}
		e.i32(6, v.Location)
	case *ast.TypeCast:
		e.child(1, v.Arg)
		if v.TypeName != nil {
			e.child(2, v.TypeName)
		}
		e.i32(3, v.Location)
	case *ast.TypeName:
		e.names(1, v.Names)
		e.list(2, v.Typmods)
		e.list(3, v.ArrayBounds)
		e.boolean(4, v.Setof)
		e.i32(5, v.Location)
	case *ast.SubLink:
		e.i32(1, int32(v.SubLinkType))
		e.child(2, v.Testexpr)
		e.names(3, v.OperName)
		e.child(4, v.Subselect)
		e.i32(5, v.Location)
	case *ast.A_ArrayExpr:
		e.list(1, v.Elements)
		e.i32(2, v.Location)
	case *ast.CoalesceExpr:
		e.list(1, v.Args)
		e.i32(2, v.Location)
	case *ast.MinMaxExpr:
		e.i32(1, int32(v.Op))
		e.list(2, v.Args)
		e.i32(3, v.Location)
	case *ast.RowExpr:
		e.list(1, v.Args)
		e.i32(2, v.Location)
	case *ast.RangeVar:
		e.str(1, v.Catalogname)
		e.str(2, v.Schemaname)
		e.str(3, v.Relname)
		e.boolean(4, v.Inh)
		e.str(5, v.Relpersistence)
		if v.Alias != nil {
			e.child(6, v.Alias)
		}
		e.i32(7, v.Location)
	case *ast.Alias:
		e.str(1, v.Aliasname)
		e.names(2, v.Colnames)
	case *ast.JoinExpr:
		e.i32(1, int32(v.Jointype))
		e.boolean(2, v.IsNatural)
		e.child(3, v.Larg)
		e.child(4, v.Rarg)
		e.names(5, v.UsingClause)
		e.child(6, v.Quals)
	case *ast.RangeSubselect:
		e.boolean(1, v.Lateral)
		e.child(2, v.Subquery)
		if v.Alias != nil {
			e.child(3, v.Alias)
		}
	case *ast.RangeFunction:
		e.boolean(1, v.Lateral)
		e.boolean(2, v.Ordinality)
		e.list(3, v.Functions)
		if v.Alias != nil {
			e.child(4, v.Alias)
		}
	case *ast.CommonTableExpr:
		e.str(1, v.Ctename)
		e.names(2, v.Aliascolnames)
		e.i32(3, int32(v.Ctematerialized))
		e.child(4, v.Ctequery)
		e.i32(5, v.Location)
	case *ast.WithClause:
		e.list(1, v.Ctes)
		e.boolean(2, v.Recursive)
		e.i32(3, v.Location)
	case *ast.SortBy:
		e.child(1, v.Node)
		e.i32(2, int32(v.SortbyDir))
		e.i32(3, int32(v.SortbyNulls))
		e.names(4, v.UseOp)
		e.i32(5, v.Location)
	case *ast.WindowDef:
		e.str(1, v.Name)
		e.str(2, v.Refname)
		e.list(3, v.PartitionClause)
		e.list(4, v.OrderClause)
		e.i32(5, v.FrameOptions)
		e.child(6, v.StartOffset)
		e.child(7, v.EndOffset)
		e.i32(8, v.Location)
	case *ast.ColumnDef:
		e.str(1, v.Colname)
		if v.TypeName != nil {
			e.child(2, v.TypeName)
		}
		e.list(3, v.Constraints)
		e.i32(4, v.Location)
	case *ast.Constraint:
		e.i32(1, int32(v.Contype))
		e.str(2, v.Conname)
		e.boolean(3, v.Deferrable)
		e.boolean(4, v.Initdeferred)
		e.child(5, v.RawExpr)
		e.names(6, v.Keys)
		if v.Pktable != nil {
			e.child(7, v.Pktable)
		}
		e.names(8, v.FkAttrs)
		e.names(9, v.PkAttrs)
		e.i32(10, v.Location)
	case *ast.IndexElem:
		e.str(1, v.Name)
		e.child(2, v.Expr)
		e.i32(3, int32(v.Ordering))
		e.i32(4, int32(v.NullsOrdering))
	case *ast.InferClause:
		e.list(1, v.IndexElems)
		e.child(2, v.WhereClause)
		e.str(3, v.Conname)
		e.i32(4, v.Location)
	case *ast.OnConflictClause:
		e.i32(1, int32(v.Action))
		if v.Infer != nil {
			e.child(2, v.Infer)
		}
		e.list(3, v.TargetList)
		e.child(4, v.WhereClause)
		e.i32(5, v.Location)
	case *ast.LockingClause:
		e.list(1, v.LockedRels)
		e.i32(2, int32(v.Strength))
		e.i32(3, int32(v.WaitPolicy))
	case *ast.GroupingSet:
		e.i32(1, int32(v.Kind))
		e.list(2, v.Content)
		e.i32(3, v.Location)
	case *ast.RoleSpec:
		e.i32(1, int32(v.Roletype))
		e.str(2, v.Rolename)
		e.i32(3, v.Location)
	case *ast.FunctionParameter:
		e.str(1, v.Name)
		if v.ArgType != nil {
			e.child(2, v.ArgType)
		}
		e.i32(3, int32(v.Mode))
		e.child(4, v.Defexpr)
	case *ast.List:
		e.list(1, v.Items)
	case *ast.String:
		e.str(1, v.Sval)
	case *ast.Integer:
		e.i32(1, v.Ival)
	case *ast.Float:
		e.str(1, v.Fval)
	case *ast.Boolean:
		e.boolean(1, v.Boolval)
	case *ast.BitString:
		e.str(1, v.Bsval)
	default:
		e.fail("cannot encode node kind %s", ast.KindOf(n))
	}
}
