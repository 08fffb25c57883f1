package ast

import (
	"strings"

	"github.com/flamelang/flame/internal/types"
	"github.com/flamelang/flame/pkg/token"
)

func (*ExprStmt) stmtNode()     {}
func (*VarDef) stmtNode()       {}
func (*Block) stmtNode()        {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*TryCatchStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*ThrowStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*Function) stmtNode()    {}
func (*Class) stmtNode()       {}
func (*Enum) stmtNode()        {}

// ExprStmt is an expression evaluated for its side effect, e.g. a bare
// call "f(x);".
type ExprStmt struct {
	Tok  token.Token
	Expr Expr
}

func (s *ExprStmt) Pos() token.Position { return s.Tok.Pos }
func (s *ExprStmt) String() string      { return s.Expr.String() + ";" }

// VarDef is "let name: Type = init;" or "let name = init;" (type
// omitted, inferred from init). Sema allocates the LocalVar slot and
// fills in ScopeDepth/ScopeIndex.
type VarDef struct {
	Tok         token.Token
	Name        string
	DeclaredTy  *TypeExpr // nil when the type is to be inferred from Init
	Init        Expr
	ScopeDepth  int
	ScopeIndex  int
}

func (v *VarDef) Pos() token.Position { return v.Tok.Pos }
func (v *VarDef) String() string {
	if v.Init == nil {
		return "let " + v.Name + ";"
	}
	return "let " + v.Name + " = " + v.Init.String() + ";"
}

// Block is a brace-delimited statement list. It owns a BlockScope,
// attached by Sema the first time the block is checked (scope.Scope is
// opaque to ast; see internal/scope).
type Block struct {
	Tok   token.Token
	Stmts []Stmt

	// Scope is filled in by the scope builder before type-checking
	// begins (spec.md §3.3: scope construction is independent of, and
	// precedes, type checking). Declared as `any` to avoid an
	// ast -> scope import cycle (scope already depends on ast for
	// Function/Class/Enum handles).
	Scope any
}

func (b *Block) Pos() token.Position { return b.Tok.Pos }
func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// IfStmt is "if (cond) then [else else_]". Else is nil when absent;
// when present it is either a *Block or another *IfStmt ("else if").
type IfStmt struct {
	Tok  token.Token
	Cond Expr
	Then *Block
	Else Stmt
}

func (s *IfStmt) Pos() token.Position { return s.Tok.Pos }
func (s *IfStmt) String() string {
	str := "if (" + s.Cond.String() + ") " + s.Then.String()
	if s.Else != nil {
		str += " else " + s.Else.String()
	}
	return str
}

// WhileStmt is "while (cond) { body }". Evaluated by pushing a loop
// frame the evaluator's break/continue distance counting unwinds
// through (spec.md §5.3).
type WhileStmt struct {
	Tok  token.Token
	Cond Expr
	Body *Block
}

func (s *WhileStmt) Pos() token.Position { return s.Tok.Pos }
func (s *WhileStmt) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// CatchClause is one "catch (name: Type) { body }" arm.
type CatchClause struct {
	Tok        token.Token
	Name       string
	DeclaredTy *TypeExpr
	Ty         types.Info // filled in by Sema from DeclaredTy
	Body       *Block
	ScopeDepth int
	ScopeIndex int
}

// TryCatchStmt is "try { body } catch (e: T) { ... } catch (...) { ... }".
type TryCatchStmt struct {
	Tok     token.Token
	Body    *Block
	Catches []*CatchClause
}

func (s *TryCatchStmt) Pos() token.Position { return s.Tok.Pos }
func (s *TryCatchStmt) String() string {
	str := "try " + s.Body.String()
	for _, c := range s.Catches {
		str += " catch (" + c.Name + ") " + c.Body.String()
	}
	return str
}

// ReturnStmt is "return;" or "return expr;". ScopeDistance is computed
// by Sema: how many enclosing BlockScopes the evaluator must unwind
// through to reach the owning FunctionScope (spec.md §5.3).
type ReturnStmt struct {
	Tok           token.Token
	Value         Expr // nil for a bare "return;"
	ScopeDistance int
}

func (s *ReturnStmt) Pos() token.Position { return s.Tok.Pos }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// ThrowStmt is "throw expr;".
type ThrowStmt struct {
	Tok   token.Token
	Value Expr
}

func (s *ThrowStmt) Pos() token.Position { return s.Tok.Pos }
func (s *ThrowStmt) String() string      { return "throw " + s.Value.String() + ";" }

// BreakStmt and ContinueStmt carry the same ScopeDistance treatment as
// ReturnStmt, but measured to the nearest enclosing loop frame.
type BreakStmt struct {
	Tok           token.Token
	ScopeDistance int
}

func (s *BreakStmt) Pos() token.Position { return s.Tok.Pos }
func (s *BreakStmt) String() string      { return "break;" }

type ContinueStmt struct {
	Tok           token.Token
	ScopeDistance int
}

func (s *ContinueStmt) Pos() token.Position { return s.Tok.Pos }
func (s *ContinueStmt) String() string      { return "continue;" }
