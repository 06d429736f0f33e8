package ast

// RawStmt wraps one parsed statement with its byte span in the original
// input. StmtLen is zero for the last statement when no terminator follows.
type RawStmt struct {
	Stmt         Node
	StmtLocation int32
	StmtLen      int32
}

// SelectStmt covers plain SELECT, VALUES lists, and set operations. For a
// set operation Op is not SetOpNone and only Larg, Rarg, All and the
// trailing clauses (sort, limit, locking, with) are populated.
type SelectStmt struct {
	DistinctClause []Node
	TargetList     []Node
	FromClause     []Node
	WhereClause    Node
	GroupClause    []Node
	GroupDistinct  bool
	HavingClause   Node
	WindowClause   []Node
	ValuesLists    []Node
	SortClause     []Node
	LimitOffset    Node
	LimitCount     Node
	LimitOption    LimitOption
	LockingClause  []Node
	WithClause     *WithClause
	Op             SetOp
	All            bool
	Larg           *SelectStmt
	Rarg           *SelectStmt
}

// InsertStmt is INSERT INTO. SelectStmt carries the source rows (a VALUES
// or SELECT statement) and is nil for DEFAULT VALUES.
type InsertStmt struct {
	Relation         *RangeVar
	Cols             []Node
	SelectStmt       Node
	OnConflictClause *OnConflictClause
	ReturningList    []Node
	WithClause       *WithClause
}

type UpdateStmt struct {
	Relation      *RangeVar
	TargetList    []Node
	WhereClause   Node
	FromClause    []Node
	ReturningList []Node
	WithClause    *WithClause
}

type DeleteStmt struct {
	Relation      *RangeVar
	UsingClause   []Node
	WhereClause   Node
	ReturningList []Node
	WithClause    *WithClause
}

// CreateStmt is CREATE TABLE. Persistence (temporary, unlogged) lives on
// the relation.
type CreateStmt struct {
	Relation    *RangeVar
	TableElts   []Node
	IfNotExists bool
}

// DropStmt is DROP TABLE/VIEW/INDEX. Each object is a List of String parts
// forming a possibly-qualified name.
type DropStmt struct {
	Objects    []Node
	RemoveType ObjectType
	Behavior   DropBehavior
	MissingOk  bool
	Concurrent bool
}

type TransactionStmt struct {
	Kind TransactionStmtKind
}

// ResTarget is one output column in a SELECT or RETURNING list (Val with an
// optional Name), one SET target in UPDATE (Name with Val), or a bare
// column name in an INSERT column list (Name only).
type ResTarget struct {
	Name        string
	Indirection []Node
	Val         Node
	Location    int32
}

// RangeVar names a relation, optionally qualified and aliased.
// Relpersistence is "p", "t" or "u".
type RangeVar struct {
	Catalogname    string
	Schemaname     string
	Relname        string
	Inh            bool
	Relpersistence string
	Alias          *Alias
	Location       int32
}

type Alias struct {
	Aliasname string
	Colnames  []Node
}

type JoinExpr struct {
	Jointype    JoinType
	IsNatural   bool
	Larg        Node
	Rarg        Node
	UsingClause []Node
	Quals       Node
}

type RangeSubselect struct {
	Lateral  bool
	Subquery Node
	Alias    *Alias
}

type RangeFunction struct {
	Lateral    bool
	Ordinality bool
	Functions  []Node
	Alias      *Alias
}

type CommonTableExpr struct {
	Ctename         string
	Aliascolnames   []Node
	Ctematerialized CTEMaterialize
	Ctequery        Node
	Location        int32
}

type WithClause struct {
	Ctes      []Node
	Recursive bool
	Location  int32
}

type SortBy struct {
	Node        Node
	SortbyDir   SortByDir
	SortbyNulls SortByNulls
	UseOp       []Node
	Location    int32
}

// WindowDef is a window specification, either named in WINDOW or inline in
// OVER. FrameOptions is the FrameOption bit set.
type WindowDef struct {
	Name            string
	Refname         string
	PartitionClause []Node
	OrderClause     []Node
	FrameOptions    int32
	StartOffset     Node
	EndOffset       Node
	Location        int32
}

// ColumnDef is one column in CREATE TABLE. Defaults, NOT NULL and the rest
// arrive as Constraint nodes in Constraints.
type ColumnDef struct {
	Colname  string
	TypeName *TypeName
	Location int32

	Constraints []Node
}

// Constraint is a column or table constraint. Which fields are meaningful
// depends on Contype: RawExpr for CHECK and DEFAULT, Keys for column lists
// of PRIMARY KEY and UNIQUE, Pktable/FkAttrs/PkAttrs for foreign keys.
type Constraint struct {
	Contype      ConstrType
	Conname      string
	Deferrable   bool
	Initdeferred bool
	Location     int32

	RawExpr Node
	Keys    []Node

	Pktable *RangeVar
	FkAttrs []Node
	PkAttrs []Node
}

type IndexElem struct {
	Name          string
	Expr          Node
	Ordering      SortByDir
	NullsOrdering SortByNulls
}

type InferClause struct {
	IndexElems  []Node
	WhereClause Node
	Conname     string
	Location    int32
}

type OnConflictClause struct {
	Action      OnConflictAction
	Infer       *InferClause
	TargetList  []Node
	WhereClause Node
	Location    int32
}

type LockingClause struct {
	LockedRels []Node
	Strength   LockClauseStrength
	WaitPolicy LockWaitPolicy
}

type GroupingSet struct {
	Kind     GroupingSetKind
	Content  []Node
	Location int32
}

type RoleSpec struct {
	Roletype RoleSpecType
	Rolename string
	Location int32
}

type FunctionParameter struct {
	Name    string
	ArgType *TypeName
	Mode    FunctionParameterMode
	Defexpr Node
}

// List is an untyped node sequence, used where the schema nests lists
// inside lists: VALUES rows and DROP object names.
type List struct {
	Items []Node
}

func (*RawStmt) kind() Kind           { return T_RawStmt }
func (*SelectStmt) kind() Kind        { return T_SelectStmt }
func (*InsertStmt) kind() Kind        { return T_InsertStmt }
func (*UpdateStmt) kind() Kind        { return T_UpdateStmt }
func (*DeleteStmt) kind() Kind        { return T_DeleteStmt }
func (*CreateStmt) kind() Kind        { return T_CreateStmt }
func (*DropStmt) kind() Kind          { return T_DropStmt }
func (*TransactionStmt) kind() Kind   { return T_TransactionStmt }
func (*ResTarget) kind() Kind         { return T_ResTarget }
func (*RangeVar) kind() Kind          { return T_RangeVar }
func (*Alias) kind() Kind             { return T_Alias }
func (*JoinExpr) kind() Kind          { return T_JoinExpr }
func (*RangeSubselect) kind() Kind    { return T_RangeSubselect }
func (*RangeFunction) kind() Kind     { return T_RangeFunction }
func (*CommonTableExpr) kind() Kind   { return T_CommonTableExpr }
func (*WithClause) kind() Kind        { return T_WithClause }
func (*SortBy) kind() Kind            { return T_SortBy }
func (*WindowDef) kind() Kind         { return T_WindowDef }
func (*ColumnDef) kind() Kind         { return T_ColumnDef }
func (*Constraint) kind() Kind        { return T_Constraint }
func (*IndexElem) kind() Kind         { return T_IndexElem }
func (*InferClause) kind() Kind       { return T_InferClause }
func (*OnConflictClause) kind() Kind  { return T_OnConflictClause }
func (*LockingClause) kind() Kind     { return T_LockingClause }
func (*GroupingSet) kind() Kind       { return T_GroupingSet }
func (*RoleSpec) kind() Kind          { return T_RoleSpec }
func (*FunctionParameter) kind() Kind { return T_FunctionParameter }
func (*List) kind() Kind              { return T_List }
