package ast

// ColumnRef is a possibly-qualified column reference. Fields holds String
// parts with an optional trailing A_Star.
type ColumnRef struct {
	Fields   []Node
	Location int32
}

// A_Star is the "*" in SELECT * and count(*).
type A_Star struct{}

// A_Const is a literal. Val is an Integer, Float, String, Boolean or
// BitString value node, or nil when Isnull is set (the NULL literal).
type A_Const struct {
	Isnull   bool
	Val      Node
	Location int32
}

type ParamRef struct {
	Number   int32
	Location int32
}

// A_Expr is an operator invocation. Name holds the operator as String
// parts; Lexpr is nil for unary prefix operators.
type A_Expr struct {
	Kind     AExprKind
	Name     []Node
	Lexpr    Node
	Rexpr    Node
	Location int32
}

type BoolExpr struct {
	Boolop   BoolExprType
	Args     []Node
	Location int32
}

type NullTest struct {
	Arg          Node
	Nulltesttype NullTestType
	Location     int32
}

type BooleanTest struct {
	Arg          Node
	Booltesttype BoolTestType
	Location     int32
}

// CaseExpr is a CASE with Args of CaseWhen nodes. Arg is the implicit
// comparison operand of the simple form, nil in the searched form.
type CaseExpr struct {
	Arg       Node
	Args      []Node
	Defresult Node
	Location  int32
}

type CaseWhen struct {
	Expr     Node
	Result   Node
	Location int32
}

type FuncCall struct {
	Funcname    []Node
	Args        []Node
	AggStar     bool
	AggDistinct bool
	Over        *WindowDef
	Location    int32
}

type TypeCast struct {
	Arg      Node
	TypeName *TypeName
	Location int32
}

// TypeName names a type: String parts, optional modifiers such as the
// precision of numeric(10,2), and array bounds (-1 for an unsized
// dimension).
type TypeName struct {
	Names       []Node
	Typmods     []Node
	ArrayBounds []Node
	Setof       bool
	Location    int32
}

// SubLink is a subquery expression. Testexpr and OperName are set only for
// ANY/ALL comparisons.
type SubLink struct {
	SubLinkType SubLinkType
	Testexpr    Node
	OperName    []Node
	Subselect   Node
	Location    int32
}

type A_ArrayExpr struct {
	Elements []Node
	Location int32
}

type CoalesceExpr struct {
	Args     []Node
	Location int32
}

type MinMaxExpr struct {
	Op       MinMaxOp
	Args     []Node
	Location int32
}

type RowExpr struct {
	Args     []Node
	Location int32
}

// Value nodes. Integer holds what fits a signed 32-bit value; wider
// numeric literals are kept textually as Float. BitString keeps the "b" or
// "x" prefix of the source form.
type (
	String    struct{ Sval string }
	Integer   struct{ Ival int32 }
	Float     struct{ Fval string }
	Boolean   struct{ Boolval bool }
	BitString struct{ Bsval string }
)

func (*ColumnRef) kind() Kind    { return T_ColumnRef }
func (*A_Star) kind() Kind       { return T_A_Star }
func (*A_Const) kind() Kind      { return T_A_Const }
func (*ParamRef) kind() Kind     { return T_ParamRef }
func (*A_Expr) kind() Kind       { return T_A_Expr }
func (*BoolExpr) kind() Kind     { return T_BoolExpr }
func (*NullTest) kind() Kind     { return T_NullTest }
func (*BooleanTest) kind() Kind  { return T_BooleanTest }
func (*CaseExpr) kind() Kind     { return T_CaseExpr }
func (*CaseWhen) kind() Kind     { return T_CaseWhen }
func (*FuncCall) kind() Kind     { return T_FuncCall }
func (*TypeCast) kind() Kind     { return T_TypeCast }
func (*TypeName) kind() Kind     { return T_TypeName }
func (*SubLink) kind() Kind      { return T_SubLink }
func (*A_ArrayExpr) kind() Kind  { return T_A_ArrayExpr }
func (*CoalesceExpr) kind() Kind { return T_CoalesceExpr }
func (*MinMaxExpr) kind() Kind   { return T_MinMaxExpr }
func (*RowExpr) kind() Kind      { return T_RowExpr }
func (*String) kind() Kind       { return T_String }
func (*Integer) kind() Kind      { return T_Integer }
func (*Float) kind() Kind        { return T_Float }
func (*Boolean) kind() Kind      { return T_Boolean }
func (*BitString) kind() Kind    { return T_BitString }
