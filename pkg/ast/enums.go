package ast

// Enumerated node fields. The structured text encoding stores the name
// strings, so the spellings here are part of the schema.

func enumString(names []string, v int32) string {
	if v >= 0 && int(v) < len(names) {
		return names[v]
	}
	return "UNKNOWN"
}

func enumValue(names []string, name string) (int32, bool) {
	for i, n := range names {
		if n == name {
			return int32(i), true
		}
	}
	return 0, false
}

// SetOp distinguishes a plain SELECT from a set operation.
type SetOp int32

const (
	SetOpNone SetOp = iota
	SetOpUnion
	SetOpIntersect
	SetOpExcept
)

var setOpNames = []string{"SETOP_NONE", "SETOP_UNION", "SETOP_INTERSECT", "SETOP_EXCEPT"}

func (v SetOp) String() string { return enumString(setOpNames, int32(v)) }

// LimitOption records whether a limit was written with WITH TIES.
type LimitOption int32

const (
	LimitOptionDefault LimitOption = iota
	LimitOptionCount
	LimitOptionWithTies
)

var limitOptionNames = []string{"LIMIT_OPTION_DEFAULT", "LIMIT_OPTION_COUNT", "LIMIT_OPTION_WITH_TIES"}

func (v LimitOption) String() string { return enumString(limitOptionNames, int32(v)) }

type BoolExprType int32

const (
	AndExpr BoolExprType = iota
	OrExpr
	NotExpr
)

var boolExprTypeNames = []string{"AND_EXPR", "OR_EXPR", "NOT_EXPR"}

func (v BoolExprType) String() string { return enumString(boolExprTypeNames, int32(v)) }

// AExprKind selects the surface form an A_Expr came from.
type AExprKind int32

const (
	AExprOp AExprKind = iota
	AExprOpAny
	AExprOpAll
	AExprDistinct
	AExprNotDistinct
	AExprIn
	AExprLike
	AExprIlike
	AExprSimilar
	AExprBetween
	AExprNotBetween
	AExprBetweenSym
	AExprNotBetweenSym
)

var aExprKindNames = []string{
	"AEXPR_OP", "AEXPR_OP_ANY", "AEXPR_OP_ALL", "AEXPR_DISTINCT",
	"AEXPR_NOT_DISTINCT", "AEXPR_IN", "AEXPR_LIKE", "AEXPR_ILIKE",
	"AEXPR_SIMILAR", "AEXPR_BETWEEN", "AEXPR_NOT_BETWEEN",
	"AEXPR_BETWEEN_SYM", "AEXPR_NOT_BETWEEN_SYM",
}

func (v AExprKind) String() string { return enumString(aExprKindNames, int32(v)) }

type NullTestType int32

const (
	IsNull NullTestType = iota
	IsNotNull
)

var nullTestTypeNames = []string{"IS_NULL", "IS_NOT_NULL"}

func (v NullTestType) String() string { return enumString(nullTestTypeNames, int32(v)) }

type BoolTestType int32

const (
	IsTrue BoolTestType = iota
	IsNotTrue
	IsFalse
	IsNotFalse
	IsUnknown
	IsNotUnknown
)

var boolTestTypeNames = []string{
	"IS_TRUE", "IS_NOT_TRUE", "IS_FALSE", "IS_NOT_FALSE", "IS_UNKNOWN", "IS_NOT_UNKNOWN",
}

func (v BoolTestType) String() string { return enumString(boolTestTypeNames, int32(v)) }

type SubLinkType int32

const (
	ExistsSublink SubLinkType = iota
	AllSublink
	AnySublink
	ExprSublink
)

var subLinkTypeNames = []string{"EXISTS_SUBLINK", "ALL_SUBLINK", "ANY_SUBLINK", "EXPR_SUBLINK"}

func (v SubLinkType) String() string { return enumString(subLinkTypeNames, int32(v)) }

type MinMaxOp int32

const (
	IsGreatest MinMaxOp = iota
	IsLeast
)

var minMaxOpNames = []string{"IS_GREATEST", "IS_LEAST"}

func (v MinMaxOp) String() string { return enumString(minMaxOpNames, int32(v)) }

type JoinType int32

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinFull
	JoinRight
)

var joinTypeNames = []string{"JOIN_INNER", "JOIN_LEFT", "JOIN_FULL", "JOIN_RIGHT"}

func (v JoinType) String() string { return enumString(joinTypeNames, int32(v)) }

type SortByDir int32

const (
	SortByDefault SortByDir = iota
	SortByAsc
	SortByDesc
	SortByUsing
)

var sortByDirNames = []string{"SORTBY_DEFAULT", "SORTBY_ASC", "SORTBY_DESC", "SORTBY_USING"}

func (v SortByDir) String() string { return enumString(sortByDirNames, int32(v)) }

type SortByNulls int32

const (
	SortByNullsDefault SortByNulls = iota
	SortByNullsFirst
	SortByNullsLast
)

var sortByNullsNames = []string{"SORTBY_NULLS_DEFAULT", "SORTBY_NULLS_FIRST", "SORTBY_NULLS_LAST"}

func (v SortByNulls) String() string { return enumString(sortByNullsNames, int32(v)) }

type CTEMaterialize int32

const (
	CTEMaterializeDefault CTEMaterialize = iota
	CTEMaterializeAlways
	CTEMaterializeNever
)

var cteMaterializeNames = []string{"CTEMaterializeDefault", "CTEMaterializeAlways", "CTEMaterializeNever"}

func (v CTEMaterialize) String() string { return enumString(cteMaterializeNames, int32(v)) }

type ConstrType int32

const (
	ConstrNull ConstrType = iota
	ConstrNotNull
	ConstrDefault
	ConstrCheck
	ConstrPrimary
	ConstrUnique
	ConstrForeign
)

var constrTypeNames = []string{
	"CONSTR_NULL", "CONSTR_NOTNULL", "CONSTR_DEFAULT", "CONSTR_CHECK",
	"CONSTR_PRIMARY", "CONSTR_UNIQUE", "CONSTR_FOREIGN",
}

func (v ConstrType) String() string { return enumString(constrTypeNames, int32(v)) }

type ObjectType int32

const (
	ObjectTable ObjectType = iota
	ObjectView
	ObjectIndex
)

var objectTypeNames = []string{"OBJECT_TABLE", "OBJECT_VIEW", "OBJECT_INDEX"}

func (v ObjectType) String() string { return enumString(objectTypeNames, int32(v)) }

type DropBehavior int32

const (
	DropRestrict DropBehavior = iota
	DropCascade
)

var dropBehaviorNames = []string{"DROP_RESTRICT", "DROP_CASCADE"}

func (v DropBehavior) String() string { return enumString(dropBehaviorNames, int32(v)) }

type TransactionStmtKind int32

const (
	TransStmtBegin TransactionStmtKind = iota
	TransStmtStart
	TransStmtCommit
	TransStmtRollback
)

var transactionStmtKindNames = []string{
	"TRANS_STMT_BEGIN", "TRANS_STMT_START", "TRANS_STMT_COMMIT", "TRANS_STMT_ROLLBACK",
}

func (v TransactionStmtKind) String() string { return enumString(transactionStmtKindNames, int32(v)) }

type OnConflictAction int32

const (
	OnConflictNothing OnConflictAction = iota
	OnConflictUpdate
)

var onConflictActionNames = []string{"ONCONFLICT_NOTHING", "ONCONFLICT_UPDATE"}

func (v OnConflictAction) String() string { return enumString(onConflictActionNames, int32(v)) }

type LockClauseStrength int32

const (
	LCSForKeyShare LockClauseStrength = iota
	LCSForShare
	LCSForNoKeyUpdate
	LCSForUpdate
)

var lockClauseStrengthNames = []string{
	"LCS_FORKEYSHARE", "LCS_FORSHARE", "LCS_FORNOKEYUPDATE", "LCS_FORUPDATE",
}

func (v LockClauseStrength) String() string { return enumString(lockClauseStrengthNames, int32(v)) }

type LockWaitPolicy int32

const (
	LockWaitBlock LockWaitPolicy = iota
	LockWaitSkip
	LockWaitError
)

var lockWaitPolicyNames = []string{"LockWaitBlock", "LockWaitSkip", "LockWaitError"}

func (v LockWaitPolicy) String() string { return enumString(lockWaitPolicyNames, int32(v)) }

type GroupingSetKind int32

const (
	GroupingSetEmpty GroupingSetKind = iota
	GroupingSetSimple
	GroupingSetRollup
	GroupingSetCube
	GroupingSetSets
)

var groupingSetKindNames = []string{
	"GROUPING_SET_EMPTY", "GROUPING_SET_SIMPLE", "GROUPING_SET_ROLLUP",
	"GROUPING_SET_CUBE", "GROUPING_SET_SETS",
}

func (v GroupingSetKind) String() string { return enumString(groupingSetKindNames, int32(v)) }

type RoleSpecType int32

const (
	RoleSpecCstring RoleSpecType = iota
	RoleSpecCurrentRole
	RoleSpecCurrentUser
	RoleSpecSessionUser
	RoleSpecPublic
)

var roleSpecTypeNames = []string{
	"ROLESPEC_CSTRING", "ROLESPEC_CURRENT_ROLE", "ROLESPEC_CURRENT_USER",
	"ROLESPEC_SESSION_USER", "ROLESPEC_PUBLIC",
}

func (v RoleSpecType) String() string { return enumString(roleSpecTypeNames, int32(v)) }

type FunctionParameterMode int32

const (
	FuncParamIn FunctionParameterMode = iota
	FuncParamOut
	FuncParamInOut
	FuncParamVariadic
	FuncParamDefault
)

var functionParameterModeNames = []string{
	"FUNC_PARAM_IN", "FUNC_PARAM_OUT", "FUNC_PARAM_INOUT",
	"FUNC_PARAM_VARIADIC", "FUNC_PARAM_DEFAULT",
}

func (v FunctionParameterMode) String() string { return enumString(functionParameterModeNames, int32(v)) }

// Frame option bits for WindowDef.FrameOptions.
const (
	FrameOptionNondefault               int32 = 1 << iota // any frame clause present
	FrameOptionRange                                      // RANGE
	FrameOptionRows                                       // ROWS
	FrameOptionGroups                                     // GROUPS
	FrameOptionBetween                                    // BETWEEN
	FrameOptionStartUnboundedPreceding                    // start: UNBOUNDED PRECEDING
	FrameOptionEndUnboundedPreceding                      // end: UNBOUNDED PRECEDING
	FrameOptionStartUnboundedFollowing                    // start: UNBOUNDED FOLLOWING
	FrameOptionEndUnboundedFollowing                      // end: UNBOUNDED FOLLOWING
	FrameOptionStartCurrentRow                            // start: CURRENT ROW
	FrameOptionEndCurrentRow                              // end: CURRENT ROW
	FrameOptionStartOffsetPreceding                       // start: <offset> PRECEDING
	FrameOptionEndOffsetPreceding                         // end: <offset> PRECEDING
	FrameOptionStartOffsetFollowing                       // start: <offset> FOLLOWING
	FrameOptionEndOffsetFollowing                         // end: <offset> FOLLOWING
	FrameOptionExcludeCurrentRow                          // EXCLUDE CURRENT ROW
	FrameOptionExcludeGroup                               // EXCLUDE GROUP
	FrameOptionExcludeTies                                // EXCLUDE TIES
)

// FrameOptionDefaults is the implicit frame of a window with no frame
// clause: RANGE UNBOUNDED PRECEDING, which runs to CURRENT ROW.
const FrameOptionDefaults = FrameOptionRange |
	FrameOptionStartUnboundedPreceding | FrameOptionEndCurrentRow

// Composite masks for either direction of an offset bound.
const (
	FrameOptionStartOffset = FrameOptionStartOffsetPreceding | FrameOptionStartOffsetFollowing
	FrameOptionEndOffset   = FrameOptionEndOffsetPreceding | FrameOptionEndOffsetFollowing
)
