// Package ast defines the syntax-tree node schema produced by the parsing
// engine: a closed set of node kinds, the node structs, and the structured
// text (JSON) codec for trees and single nodes.
//
// The schema is versioned. Version is embedded in every serialized form,
// binary and textual, and decoders reject other versions rather than guess.
// The Node interface is sealed: only types in this package can be tree
// nodes, which keeps the kind set closed and lets every codec and renderer
// dispatch exhaustively with an explicit arm for the unexpected.
package ast

// Version identifies the node schema, following the server version whose
// grammar the engine targets.
const Version int32 = 170004

// Kind tags every node with its place in the closed schema. Wire encodings
// store the numeric value, so the order is append-only.
type Kind int32

// Node kinds.
const (
	T_Invalid Kind = iota
	T_RawStmt
	T_SelectStmt
	T_InsertStmt
	T_UpdateStmt
	T_DeleteStmt
	T_CreateStmt
	T_DropStmt
	T_TransactionStmt
	T_ResTarget
	T_ColumnRef
	T_A_Star
	T_A_Const
	T_ParamRef
	T_A_Expr
	T_BoolExpr
	T_NullTest
	T_BooleanTest
	T_CaseExpr
	T_CaseWhen
	T_FuncCall
	T_TypeCast
	T_TypeName
	T_SubLink
	T_A_ArrayExpr
	T_CoalesceExpr
	T_MinMaxExpr
	T_RowExpr
	T_RangeVar
	T_Alias
	T_JoinExpr
	T_RangeSubselect
	T_RangeFunction
	T_CommonTableExpr
	T_WithClause
	T_SortBy
	T_WindowDef
	T_ColumnDef
	T_Constraint
	T_IndexElem
	T_InferClause
	T_OnConflictClause
	T_LockingClause
	T_GroupingSet
	T_RoleSpec
	T_FunctionParameter
	T_List
	T_String
	T_Integer
	T_Float
	T_Boolean
	T_BitString
)

var kindNames = map[Kind]string{
	T_RawStmt:           "RawStmt",
	T_SelectStmt:        "SelectStmt",
	T_InsertStmt:        "InsertStmt",
	T_UpdateStmt:        "UpdateStmt",
	T_DeleteStmt:        "DeleteStmt",
	T_CreateStmt:        "CreateStmt",
	T_DropStmt:          "DropStmt",
	T_TransactionStmt:   "TransactionStmt",
	T_ResTarget:         "ResTarget",
	T_ColumnRef:         "ColumnRef",
	T_A_Star:            "A_Star",
	T_A_Const:           "A_Const",
	T_ParamRef:          "ParamRef",
	T_A_Expr:            "A_Expr",
	T_BoolExpr:          "BoolExpr",
	T_NullTest:          "NullTest",
	T_BooleanTest:       "BooleanTest",
	T_CaseExpr:          "CaseExpr",
	T_CaseWhen:          "CaseWhen",
	T_FuncCall:          "FuncCall",
	T_TypeCast:          "TypeCast",
	T_TypeName:          "TypeName",
	T_SubLink:           "SubLink",
	T_A_ArrayExpr:       "A_ArrayExpr",
	T_CoalesceExpr:      "CoalesceExpr",
	T_MinMaxExpr:        "MinMaxExpr",
	T_RowExpr:           "RowExpr",
	T_RangeVar:          "RangeVar",
	T_Alias:             "Alias",
	T_JoinExpr:          "JoinExpr",
	T_RangeSubselect:    "RangeSubselect",
	T_RangeFunction:     "RangeFunction",
	T_CommonTableExpr:   "CommonTableExpr",
	T_WithClause:        "WithClause",
	T_SortBy:            "SortBy",
	T_WindowDef:         "WindowDef",
	T_ColumnDef:         "ColumnDef",
	T_Constraint:        "Constraint",
	T_IndexElem:         "IndexElem",
	T_InferClause:       "InferClause",
	T_OnConflictClause:  "OnConflictClause",
	T_LockingClause:     "LockingClause",
	T_GroupingSet:       "GroupingSet",
	T_RoleSpec:          "RoleSpec",
	T_FunctionParameter: "FunctionParameter",
	T_List:              "List",
	T_String:            "String",
	T_Integer:           "Integer",
	T_Float:             "Float",
	T_Boolean:           "Boolean",
	T_BitString:         "BitString",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Invalid"
}

// KindByName resolves a schema kind name, as used in the structured text
// encoding.
func KindByName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Node is one syntax-tree node. The interface is sealed.
type Node interface {
	kind() Kind
}

// KindOf returns the kind tag of n, or T_Invalid for a nil node.
func KindOf(n Node) Kind {
	if n == nil {
		return T_Invalid
	}
	return n.kind()
}

// Tree is a parsed statement list together with the schema version it was
// produced under.
type Tree struct {
	Version int32
	Stmts   []*RawStmt
}
