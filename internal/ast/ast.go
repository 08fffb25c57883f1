// Package ast defines the abstract syntax tree node types consumed and
// mutated in place by the semantic checker (spec.md §3.4, §6).
//
// Sema never produces a new tree: it refines Identifier.Resolved and
// MemberAccess.Resolved from "unresolved" to a concrete kind, and
// annotates CallExpr/ReturnStmt with the extra fields it computes.
// After a successful check, no Identifier or MemberAccess node is left
// in the Unresolved state anywhere reachable from the root (spec.md §8
// property 1).
package ast

import (
	"github.com/flamelang/flame/internal/types"
	"github.com/flamelang/flame/pkg/token"
)

// Node is the base interface every AST node implements.
type Node interface {
	Pos() token.Position
	String() string
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action (this includes
// declarations — Function, Class, Enum — which appear inside a
// Block's statement list exactly like any other statement).
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr is a type annotation as written in source: a name plus an
// ordered list of type-parameter annotations, e.g. "vector<int>".
// Sema resolves it to a types.Info via eval_type's TypeName case.
type TypeExpr struct {
	Tok    token.Token
	Name   string
	Params []*TypeExpr
}

func (t *TypeExpr) Pos() token.Position { return t.Tok.Pos }
func (t *TypeExpr) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	s := t.Name + "<"
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ">"
}

// BuiltinFunction is the subset of builtins.Function that ast needs in
// order to hold a resolved candidate without importing the builtins
// package (which itself needs to refer to ast.Argument for
// signatures) — see object.FuncDecl/BuiltinFunc for the same pattern.
type BuiltinFunction interface {
	BuiltinName() string
	ArgTypes() []types.Info
	ResultType() types.Info
	IsVariableArgs() bool
}

// BuiltinMemberVar and BuiltinMemberFunc mirror BuiltinFunction for
// the member built-in tables (spec.md §6).
type BuiltinMemberVar interface {
	MemberVarName() string
	MemberResultType() types.Info
}

type BuiltinMemberFunc interface {
	BuiltinFunction
}
