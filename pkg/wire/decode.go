package wire

import (
	"encoding/binary"
	"math"

	"github.com/supabase-community/pg-parser/pkg/ast"
)

// decoder reads one payload with a sticky error: the first failure is
// kept and every later read becomes a no-op, so call sites can decode a
// whole structure and check the error once.
type decoder struct {
	buf []byte
	pos int
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = codecErrf(format, args...)
	}
}

func (d *decoder) finish() {
	if d.err == nil && d.pos != len(d.buf) {
		d.fail("payload has %d bytes of trailing data", len(d.buf)-d.pos)
	}
}

func (d *decoder) u8() byte {
	if d.err != nil {
		return 0
	}
	if d.pos >= len(d.buf) {
		d.fail("unexpected end of payload")
		return 0
	}
	b := d.buf[d.pos]
	d.pos++
	return b
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.buf[d.pos:])
	if n <= 0 {
		if n == 0 {
			d.fail("unexpected end of payload")
		} else {
			d.fail("malformed varint in payload")
		}
		return 0
	}
	d.pos += n
	return v
}

func (d *decoder) svarint() int64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Varint(d.buf[d.pos:])
	if n <= 0 {
		if n == 0 {
			d.fail("unexpected end of payload")
		} else {
			d.fail("malformed varint in payload")
		}
		return 0
	}
	d.pos += n
	return v
}

func (d *decoder) toI32(v int64) int32 {
	if d.err != nil {
		return 0
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		d.fail("value %d overflows int32", v)
		return 0
	}
	return int32(v)
}

// u32 reads a value the encoder wrote as its uint32 bit pattern.
func (d *decoder) u32() int32 {
	v := d.uvarint()
	if d.err == nil && v > math.MaxUint32 {
		d.fail("value %d overflows uint32", v)
	}
	return int32(uint32(v))
}

// listLen reads a count and bounds it by the remaining payload. Every
// counted element occupies at least one byte, so a count past the bound
// is corruption and must not drive an allocation.
func (d *decoder) listLen() uint64 {
	n := d.uvarint()
	if d.err == nil && n > uint64(len(d.buf)-d.pos) {
		d.fail("count %d exceeds remaining payload", n)
		return 0
	}
	return n
}

func (d *decoder) rawString() string {
	n := d.listLen()
	if d.err != nil {
		return ""
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s
}

// Field readers. Each checks the wire type recorded for the field against
// the type the schema assigns it, then reads the value.

func (d *decoder) i32Field(wt byte) int32 {
	if d.err != nil {
		return 0
	}
	if wt != wtVarint {
		d.fail("wire type %d where a varint was expected", wt)
		return 0
	}
	return d.toI32(d.svarint())
}

func (d *decoder) strField(wt byte) string {
	if d.err != nil {
		return ""
	}
	if wt != wtBytes {
		d.fail("wire type %d where bytes were expected", wt)
		return ""
	}
	return d.rawString()
}

func (d *decoder) boolField(wt byte) bool {
	if d.err != nil {
		return false
	}
	if wt != wtBool {
		d.fail("wire type %d where a bool was expected", wt)
		return false
	}
	b := d.u8()
	if d.err == nil && b > 1 {
		d.fail("invalid bool value %d", b)
	}
	return b == 1
}

func (d *decoder) childField(wt byte) ast.Node {
	if d.err != nil {
		return nil
	}
	if wt != wtNode {
		d.fail("wire type %d where a node was expected", wt)
		return nil
	}
	return d.node()
}

func (d *decoder) listField(wt byte) []ast.Node {
	if d.err != nil {
		return nil
	}
	if wt != wtList {
		d.fail("wire type %d where a node list was expected", wt)
		return nil
	}
	n := d.listLen()
	if d.err != nil {
		return nil
	}
	out := make([]ast.Node, 0, n)
	for i := uint64(0); i < n && d.err == nil; i++ {
		out = append(out, d.node())
	}
	return out
}

func (d *decoder) namesField(wt byte) []ast.Node {
	if d.err != nil {
		return nil
	}
	if wt != wtStrings {
		d.fail("wire type %d where a string list was expected", wt)
		return nil
	}
	n := d.listLen()
	if d.err != nil {
		return nil
	}
	out := make([]ast.Node, 0, n)
	for i := uint64(0); i < n && d.err == nil; i++ {
		out = append(out, &ast.String{Sval: d.rawString()})
	}
	return out
}

// typedChild reads a node field whose schema type is one concrete kind.
func typedChild[T ast.Node](d *decoder, wt byte, want string) T {
	var zero T
	n := d.childField(wt)
	if n == nil {
		return zero
	}
	t, ok := n.(T)
	if !ok {
		d.fail("%s node where %s was expected", ast.KindOf(n), want)
		return zero
	}
	return t
}

// node reads one node: kind tag, field count, fields. Tag 0 is nil.
func (d *decoder) node() ast.Node {
	if d.err != nil {
		return nil
	}
	tag := d.uvarint()
	if d.err != nil || tag == 0 {
		return nil
	}
	if tag > math.MaxInt32 {
		d.fail("unknown node kind tag %d", tag)
		return nil
	}
	nf := d.uvarint()
	if d.err != nil {
		return nil
	}
	n := d.build(tag, nf)
	if d.err != nil {
		return nil
	}
	return n
}

// fields iterates a node's field headers and hands each to set, which
// returns false for an id the kind does not have.
func (d *decoder) fields(kind ast.Kind, nf uint64, set func(id uint64, wt byte) bool) {
	for i := uint64(0); i < nf && d.err == nil; i++ {
		id := d.uvarint()
		wt := d.u8()
		if d.err != nil {
			return
		}
		if !set(id, wt) {
			d.fail("unknown field id %d for %s", id, kind)
			return
		}
	}
}

func (d *decoder) build(tag, nf uint64) ast.Node {
	kind := ast.Kind(tag)
	switch kind {
	case ast.T_RawStmt:
		v := &ast.RawStmt{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Stmt = d.childField(wt)
			case 2:
				v.StmtLocation = d.i32Field(wt)
			case 3:
				v.StmtLen = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_SelectStmt:
		v := &ast.SelectStmt{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.DistinctClause = d.listField(wt)
			case 2:
				v.TargetList = d.listField(wt)
			case 3:
				v.FromClause = d.listField(wt)
			case 4:
				v.WhereClause = d.childField(wt)
			case 5:
				v.GroupClause = d.listField(wt)
			case 6:
				v.GroupDistinct = d.boolField(wt)
			case 7:
				v.HavingClause = d.childField(wt)
			case 8:
				v.WindowClause = d.listField(wt)
			case 9:
				v.ValuesLists = d.listField(wt)
			case 10:
				v.SortClause = d.listField(wt)
			case 11:
				v.LimitOffset = d.childField(wt)
			case 12:
				v.LimitCount = d.childField(wt)
			case 13:
				v.LimitOption = ast.LimitOption(d.i32Field(wt))
			case 14:
				v.LockingClause = d.listField(wt)
			case 15:
				v.WithClause = typedChild[*ast.WithClause](d, wt, "WithClause")
			case 16:
				v.Op = ast.SetOp(d.i32Field(wt))
			case 17:
				v.All = d.boolField(wt)
			case 18:
				v.Larg = typedChild[*ast.SelectStmt](d, wt, "SelectStmt")
			case 19:
				v.Rarg = typedChild[*ast.SelectStmt](d, wt, "SelectStmt")
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_InsertStmt:
		v := &ast.InsertStmt{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Relation = typedChild[*ast.RangeVar](d, wt, "RangeVar")
			case 2:
				v.Cols = d.listField(wt)
			case 3:
				v.SelectStmt = d.childField(wt)
			case 4:
				v.OnConflictClause = typedChild[*ast.OnConflictClause](d, wt, "OnConflictClause")
			case 5:
				v.ReturningList = d.listField(wt)
			case 6:
				v.WithClause = typedChild[*ast.WithClause](d, wt, "WithClause")
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_UpdateStmt:
		v := &ast.UpdateStmt{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Relation = typedChild[*ast.RangeVar](d, wt, "RangeVar")
			case 2:
				v.TargetList = d.listField(wt)
			case 3:
				v.WhereClause = d.childField(wt)
			case 4:
				v.FromClause = d.listField(wt)
			case 5:
				v.ReturningList = d.listField(wt)
			case 6:
				v.WithClause = typedChild[*ast.WithClause](d, wt, "WithClause")
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_DeleteStmt:
		v := &ast.DeleteStmt{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Relation = typedChild[*ast.RangeVar](d, wt, "RangeVar")
			case 2:
				v.UsingClause = d.listField(wt)
			case 3:
				v.WhereClause = d.childField(wt)
			case 4:
				v.ReturningList = d.listField(wt)
			case 5:
				v.WithClause = typedChild[*ast.WithClause](d, wt, "WithClause")
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_CreateStmt:
		v := &ast.CreateStmt{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Relation = typedChild[*ast.RangeVar](d, wt, "RangeVar")
			case 2:
				v.TableElts = d.listField(wt)
			case 3:
				v.IfNotExists = d.boolField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_DropStmt:
		v := &ast.DropStmt{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Objects = d.listField(wt)
			case 2:
				v.RemoveType = ast.ObjectType(d.i32Field(wt))
			case 3:
				v.Behavior = ast.DropBehavior(d.i32Field(wt))
			case 4:
				v.MissingOk = d.boolField(wt)
			case 5:
				v.Concurrent = d.boolField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_TransactionStmt:
		v := &ast.TransactionStmt{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Kind = ast.TransactionStmtKind(d.i32Field(wt))
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_ResTarget:
		v := &ast.ResTarget{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Name = d.strField(wt)
			case 2:
				v.Indirection = d.listField(wt)
			case 3:
				v.Val = d.childField(wt)
			case 4:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_ColumnRef:
		v := &ast.ColumnRef{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Fields = d.listField(wt)
			case 2:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_A_Star:
		v := &ast.A_Star{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			return false
		})
		return v
	case ast.T_A_Const:
		v := &ast.A_Const{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Isnull = d.boolField(wt)
			case 2:
				v.Val = d.childField(wt)
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_ParamRef:
		v := &ast.ParamRef{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Number = d.i32Field(wt)
			case 2:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_A_Expr:
		v := &ast.A_Expr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Kind = ast.AExprKind(d.i32Field(wt))
			case 2:
				v.Name = d.namesField(wt)
			case 3:
				v.Lexpr = d.childField(wt)
			case 4:
				v.Rexpr = d.childField(wt)
			case 5:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_BoolExpr:
		v := &ast.BoolExpr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Boolop = ast.BoolExprType(d.i32Field(wt))
			case 2:
				v.Args = d.listField(wt)
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_NullTest:
		v := &ast.NullTest{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Arg = d.childField(wt)
			case 2:
				v.Nulltesttype = ast.NullTestType(d.i32Field(wt))
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_BooleanTest:
		v := &ast.BooleanTest{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Arg = d.childField(wt)
			case 2:
				v.Booltesttype = ast.BoolTestType(d.i32Field(wt))
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_CaseExpr:
		v := &ast.CaseExpr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Arg = d.childField(wt)
			case 2:
				v.Args = d.listField(wt)
			case 3:
				v.Defresult = d.childField(wt)
			case 4:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_CaseWhen:
		v := &ast.CaseWhen{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Expr = d.childField(wt)
			case 2:
				v.Result = d.childField(wt)
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_FuncCall:
		v := &ast.FuncCall{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Funcname = d.namesField(wt)
			case 2:
				v.Args = d.listField(wt)
			case 3:
				v.AggStar = d.boolField(wt)
			case 4:
				v.AggDistinct = d.boolField(wt)
			case 5:
				v.Over = typedChild[*ast.WindowDef](d, wt, "WindowDef")
			case 6:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_TypeCast:
		v := &ast.TypeCast{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Arg = d.childField(wt)
			case 2:
				v.TypeName = typedChild[*ast.TypeName](d, wt, "TypeName")
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_TypeName:
		v := &ast.TypeName{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Names = d.namesField(wt)
			case 2:
				v.Typmods = d.listField(wt)
			case 3:
				v.ArrayBounds = d.listField(wt)
			case 4:
				v.Setof = d.boolField(wt)
			case 5:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_SubLink:
		v := &ast.SubLink{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.SubLinkType = ast.SubLinkType(d.i32Field(wt))
			case 2:
				v.Testexpr = d.childField(wt)
			case 3:
				v.OperName = d.namesField(wt)
			case 4:
				v.Subselect = d.childField(wt)
			case 5:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_A_ArrayExpr:
		v := &ast.A_ArrayExpr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Elements = d.listField(wt)
			case 2:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_CoalesceExpr:
		v := &ast.CoalesceExpr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Args = d.listField(wt)
			case 2:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_MinMaxExpr:
		v := &ast.MinMaxExpr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Op = ast.MinMaxOp(d.i32Field(wt))
			case 2:
				v.Args = d.listField(wt)
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_RowExpr:
		v := &ast.RowExpr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Args = d.listField(wt)
			case 2:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_RangeVar:
		v := &ast.RangeVar{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Catalogname = d.strField(wt)
			case 2:
				v.Schemaname = d.strField(wt)
			case 3:
				v.Relname = d.strField(wt)
			case 4:
				v.Inh = d.boolField(wt)
			case 5:
				v.Relpersistence = d.strField(wt)
			case 6:
				v.Alias = typedChild[*ast.Alias](d, wt, "Alias")
			case 7:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_Alias:
		v := &ast.Alias{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Aliasname = d.strField(wt)
			case 2:
				v.Colnames = d.namesField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_JoinExpr:
		v := &ast.JoinExpr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Jointype = ast.JoinType(d.i32Field(wt))
			case 2:
				v.IsNatural = d.boolField(wt)
			case 3:
				v.Larg = d.childField(wt)
			case 4:
				v.Rarg = d.childField(wt)
			case 5:
				v.UsingClause = d.namesField(wt)
			case 6:
				v.Quals = d.childField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_RangeSubselect:
		v := &ast.RangeSubselect{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Lateral = d.boolField(wt)
			case 2:
				v.Subquery = d.childField(wt)
			case 3:
				v.Alias = typedChild[*ast.Alias](d, wt, "Alias")
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_RangeFunction:
		v := &ast.RangeFunction{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Lateral = d.boolField(wt)
			case 2:
				v.Ordinality = d.boolField(wt)
			case 3:
				v.Functions = d.listField(wt)
			case 4:
				v.Alias = typedChild[*ast.Alias](d, wt, "Alias")
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_CommonTableExpr:
		v := &ast.CommonTableExpr{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Ctename = d.strField(wt)
			case 2:
				v.Aliascolnames = d.namesField(wt)
			case 3:
				v.Ctematerialized = ast.CTEMaterialize(d.i32Field(wt))
			case 4:
				v.Ctequery = d.childField(wt)
			case 5:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_WithClause:
		v := &ast.WithClause{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Ctes = d.listField(wt)
			case 2:
				v.Recursive = d.boolField(wt)
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_SortBy:
		v := &ast.SortBy{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Node = d.childField(wt)
			case 2:
				v.SortbyDir = ast.SortByDir(d.i32Field(wt))
			case 3:
				v.SortbyNulls = ast.SortByNulls(d.i32Field(wt))
			case 4:
				v.UseOp = d.namesField(wt)
			case 5:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_WindowDef:
		v := &ast.WindowDef{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Name = d.strField(wt)
			case 2:
				v.Refname = d.strField(wt)
			case 3:
				v.PartitionClause = d.listField(wt)
			case 4:
				v.OrderClause = d.listField(wt)
			case 5:
				v.FrameOptions = d.i32Field(wt)
			case 6:
				v.StartOffset = d.childField(wt)
			case 7:
				v.EndOffset = d.childField(wt)
			case 8:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_ColumnDef:
		v := &ast.ColumnDef{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Colname = d.strField(wt)
			case 2:
				v.TypeName = typedChild[*ast.TypeName](d, wt, "TypeName")
			case 3:
				v.Constraints = d.listField(wt)
			case 4:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_Constraint:
		v := &ast.Constraint{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Contype = ast.ConstrType(d.i32Field(wt))
			case 2:
				v.Conname = d.strField(wt)
			case 3:
				v.Deferrable = d.boolField(wt)
			case 4:
				v.Initdeferred = d.boolField(wt)
			case 5:
				v.RawExpr = d.childField(wt)
			case 6:
				v.Keys = d.namesField(wt)
			case 7:
				v.Pktable = typedChild[*ast.RangeVar](d, wt, "RangeVar")
			case 8:
				v.FkAttrs = d.namesField(wt)
			case 9:
				v.PkAttrs = d.namesField(wt)
			case 10:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_IndexElem:
		v := &ast.IndexElem{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Name = d.strField(wt)
			case 2:
				v.Expr = d.childField(wt)
			case 3:
				v.Ordering = ast.SortByDir(d.i32Field(wt))
			case 4:
				v.NullsOrdering = ast.SortByNulls(d.i32Field(wt))
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_InferClause:
		v := &ast.InferClause{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.IndexElems = d.listField(wt)
			case 2:
				v.WhereClause = d.childField(wt)
			case 3:
				v.Conname = d.strField(wt)
			case 4:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_OnConflictClause:
		v := &ast.OnConflictClause{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Action = ast.OnConflictAction(d.i32Field(wt))
			case 2:
				v.Infer = typedChild[*ast.InferClause](d, wt, "InferClause")
			case 3:
				v.TargetList = d.listField(wt)
			case 4:
				v.WhereClause = d.childField(wt)
			case 5:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_LockingClause:
		v := &ast.LockingClause{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.LockedRels = d.listField(wt)
			case 2:
				v.Strength = ast.LockClauseStrength(d.i32Field(wt))
			case 3:
				v.WaitPolicy = ast.LockWaitPolicy(d.i32Field(wt))
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_GroupingSet:
		v := &ast.GroupingSet{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Kind = ast.GroupingSetKind(d.i32Field(wt))
			case 2:
				v.Content = d.listField(wt)
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_RoleSpec:
		v := &ast.RoleSpec{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Roletype = ast.RoleSpecType(d.i32Field(wt))
			case 2:
				v.Rolename = d.strField(wt)
			case 3:
				v.Location = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_FunctionParameter:
		v := &ast.FunctionParameter{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Name = d.strField(wt)
			case 2:
				v.ArgType = typedChild[*ast.TypeName](d, wt, "TypeName")
			case 3:
				v.Mode = ast.FunctionParameterMode(d.i32Field(wt))
			case 4:
				v.Defexpr = d.childField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_List:
		v := &ast.List{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Items = d.listField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_String:
		v := &ast.String{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Sval = d.strField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_Integer:
		v := &ast.Integer{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Ival = d.i32Field(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_Float:
		v := &ast.Float{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Fval = d.strField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_Boolean:
		v := &ast.Boolean{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Boolval = d.boolField(wt)
			default:
				return false
			}
			return true
		})
		return v
	case ast.T_BitString:
		v := &ast.BitString{}
		d.fields(kind, nf, func(id uint64, wt byte) bool {
			switch id {
			case 1:
				v.Bsval = d.strField(wt)
			default:
				return false
			}
			return true
		})
		return v
	}
	d.fail("unknown node kind tag %d", tag)
	return nil
}
