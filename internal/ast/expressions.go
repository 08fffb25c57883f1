package ast

import (
	"strings"

	"github.com/flamelang/flame/internal/types"
	"github.com/flamelang/flame/pkg/token"
)

func (*Identifier) exprNode()    {}
func (*ScopeResol) exprNode()    {}
func (*IntLit) exprNode()        {}
func (*FloatLit) exprNode()      {}
func (*BoolLit) exprNode()       {}
func (*CharLit) exprNode()       {}
func (*StringLit) exprNode()     {}
func (*NoneLit) exprNode()       {}
func (*ArrayLit) exprNode()      {}
func (*BinaryExpr) exprNode()    {}
func (*UnaryExpr) exprNode()     {}
func (*AssignExpr) exprNode()    {}
func (*IndexExpr) exprNode()     {}
func (*MemberAccess) exprNode()  {}
func (*CallExpr) exprNode()      {}

// IdentKind is the refined resolution kind an Identifier settles into.
// "Unresolved" is the zero value: the state every Identifier starts
// in, and the state none may remain in once Sema.CheckFull succeeds.
type IdentKind int

const (
	IdentUnresolved IdentKind = iota
	IdentVariable
	IdentFuncName
	IdentBuiltinFuncName
	IdentClassName
	IdentEnumName
	// IdentMemberVariable / IdentMemberFunction are the bare-name
	// analogues of MemberAccess's MemberVariable/MemberFunction: a name
	// that resolves to nothing in the enclosing scopes falls back to
	// the current method's own class, naming one of its members
	// implicitly (spec.md §3.4 — the same closed set MemberAccess
	// resolves into applies to Identifier as well).
	IdentMemberVariable
	IdentMemberFunction
)

// IdentResolution holds everything Sema computes for an Identifier,
// mutated in place (spec.md §3.4).
type IdentResolution struct {
	Kind IdentKind

	// NameType::Var
	Depth int // frames to walk up from the current frame
	Index int // slot within that frame

	// NameType::Func / NameType::BuiltinFunc
	Candidates        []*Function
	CandidatesBuiltin []BuiltinFunction
	FtRet             types.Info // candidate's resolved return type, once singled out
	FtArgs            []types.Info

	// NameType::Class / NameType::Enum / implicit NameType::MemberVariable
	// (Index doubles as the member's slot; Class names its declaring
	// class) / implicit NameType::MemberFunction (Candidates doubles as
	// the method overload set)
	Class *Class
	Enum  *Enum

	// Explicit template arguments supplied at the call site via
	// "name::<T1, T2>(...)" — positional, matched against the
	// winning candidate's template parameter list (spec.md §4.4.4).
	TemplateArgs []types.Info

	// MustComplete mirrors the original's must_completed: true unless
	// we are inside a CallFunc that can still disambiguate overloads
	// via argument types.
	MustComplete bool
	// AllowAmbiguous mirrors sema_allow_ambigious: set by CallFunc
	// before evaluating its callee, so an overloaded name doesn't
	// error out before argument matching gets a chance to pick one.
	AllowAmbiguous bool
}

// Identifier is a bare name reference. Resolved is refined in place by
// Sema; it starts at the zero value (IdentUnresolved).
type Identifier struct {
	Tok      token.Token
	Name     string
	Resolved IdentResolution

	// ExplicitTemplateArgs holds the raw "::<T1,T2>" type expressions
	// as written, when present; Sema evaluates each into a types.Info
	// and stores the result in Resolved.TemplateArgs.
	ExplicitTemplateArgs []*TypeExpr
}

func (i *Identifier) Pos() token.Position { return i.Tok.Pos }
func (i *Identifier) String() string      { return i.Name }

// ScopeResolKind mirrors IdentKind for the narrower set of things
// "Name::Member" can resolve to.
type ScopeResolKind int

const (
	ScopeResolUnresolved ScopeResolKind = iota
	ScopeResolEnumerator
	ScopeResolMemberFunc
)

// ScopeResolResolution holds Sema's output for a ScopeResol node.
type ScopeResolResolution struct {
	Kind           ScopeResolKind
	Enum           *Enum
	EnumeratorIdx  int
	Candidates     []*Function
	AllowAmbiguous bool
}

// ScopeResol is "Left::Member" — used for enumerator access
// (EnumName::Variant). A "ClassName::method" form parses into the same
// node, but Sema resolves only enumerators and rejects any other left
// side. See spec.md §3.4 (NameType::Enumerator /
// NameType::MemberFunc) and SPEC_FULL.md §4.7 for the surface syntax.
type ScopeResol struct {
	Tok      token.Token
	Left     Expr
	Member   string
	Resolved ScopeResolResolution
}

func (s *ScopeResol) Pos() token.Position { return s.Tok.Pos }
func (s *ScopeResol) String() string      { return s.Left.String() + "::" + s.Member }

// --- literals ---

type IntLit struct {
	Tok   token.Token
	Value int64
}

func (l *IntLit) Pos() token.Position { return l.Tok.Pos }
func (l *IntLit) String() string      { return l.Tok.Literal }

type FloatLit struct {
	Tok   token.Token
	Value float64
}

func (l *FloatLit) Pos() token.Position { return l.Tok.Pos }
func (l *FloatLit) String() string      { return l.Tok.Literal }

type BoolLit struct {
	Tok   token.Token
	Value bool
}

func (l *BoolLit) Pos() token.Position { return l.Tok.Pos }
func (l *BoolLit) String() string      { return l.Tok.Literal }

type CharLit struct {
	Tok   token.Token
	Value rune
}

func (l *CharLit) Pos() token.Position { return l.Tok.Pos }
func (l *CharLit) String() string      { return "'" + string(l.Value) + "'" }

type StringLit struct {
	Tok   token.Token
	Value string
}

func (l *StringLit) Pos() token.Position { return l.Tok.Pos }
func (l *StringLit) String() string      { return `"` + l.Value + `"` }

type NoneLit struct {
	Tok token.Token
}

func (l *NoneLit) Pos() token.Position { return l.Tok.Pos }
func (l *NoneLit) String() string      { return "none" }

// ArrayLit is a "[e1, e2, ...]" literal. ElemType is filled in by
// Sema: either deduced from the first element, or taken from the
// enclosing expected type when empty (spec.md §4.4.3 "Array literal").
type ArrayLit struct {
	Tok      token.Token
	Elements []Expr
	ElemType types.Info
}

func (a *ArrayLit) Pos() token.Position { return a.Tok.Pos }
func (a *ArrayLit) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// BinOp is the closed set of binary operators the evaluator dispatches
// on (spec.md §4.5.2); it mirrors the original's ASTKind arithmetic
// and relational cases plus the two logical operators that are
// deliberately left unimplemented at evaluation time (§9 open
// question (a)).
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	LogAnd
	LogOr
)

var binOpNames = map[BinOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Shl: "<<", Shr: ">>", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	Eq: "==", Ne: "!=", LogAnd: "&&", LogOr: "||",
}

func (o BinOp) String() string { return binOpNames[o] }

type BinaryExpr struct {
	Tok   token.Token
	Op    BinOp
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Pos() token.Position { return b.Tok.Pos }
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// UnaryOp is the closed set of unary operators; only Not survives
// parsing (unary minus is desugared to "0 - x", see SPEC_FULL §4.7).
type UnaryOp int

const (
	Not UnaryOp = iota
)

type UnaryExpr struct {
	Tok     token.Token
	Op      UnaryOp
	Operand Expr
}

func (u *UnaryExpr) Pos() token.Position { return u.Tok.Pos }
func (u *UnaryExpr) String() string      { return "!" + u.Operand.String() }

// AssignExpr is "lhs = rhs"; Sema requires lhs to be writable
// (Variable, IndexExpr, or MemberVariable-resolved MemberAccess).
type AssignExpr struct {
	Tok   token.Token
	Left  Expr
	Right Expr
}

func (a *AssignExpr) Pos() token.Position { return a.Tok.Pos }
func (a *AssignExpr) String() string      { return a.Left.String() + " = " + a.Right.String() }

// IndexExpr is "lhs[index]".
type IndexExpr struct {
	Tok   token.Token
	Left  Expr
	Index Expr
}

func (x *IndexExpr) Pos() token.Position { return x.Tok.Pos }
func (x *IndexExpr) String() string      { return x.Left.String() + "[" + x.Index.String() + "]" }

// MemberKind is the refined resolution kind a MemberAccess settles
// into. Because Go structs can't change concrete type in place, the
// "rewrite to MemberVariable/MemberFunction/..." step from spec.md
// §4.4.3 is modeled as flipping this tag rather than replacing the
// node (see SPEC_FULL.md §3.5).
type MemberKind int

const (
	MemberUnresolved MemberKind = iota
	MemberVariable
	MemberFunction
	BuiltinMemberVariable
	BuiltinMemberFunction
)

// MemberResolution holds Sema's output for a MemberAccess node.
type MemberResolution struct {
	Kind MemberKind

	// MemberVariable
	VarIndex int
	Class    *Class

	// MemberFunction
	Candidates []*Function
	SelfType   types.Info

	// BuiltinMemberVariable / BuiltinMemberFunction
	BuiltinVar   BuiltinMemberVar
	BuiltinFuncs []BuiltinFunction

	AllowAmbiguous bool
}

// MemberAccess is "lhs.name".
type MemberAccess struct {
	Tok      token.Token
	Left     Expr
	Name     string
	Resolved MemberResolution
}

func (m *MemberAccess) Pos() token.Position { return m.Tok.Pos }
func (m *MemberAccess) String() string      { return m.Left.String() + "." + m.Name }

// CallKind distinguishes the four ways a CallExpr can ultimately be
// executed, set by Sema once overload resolution picks a winner.
type CallKind int

const (
	CallUnresolved CallKind = iota
	CallUserFunc
	CallBuiltin
	CallCtor
	CallFunctor
)

// CallExpr is "callee(args...)".
type CallExpr struct {
	Tok    token.Token
	Callee Expr
	Args   []Expr

	Kind          CallKind
	CalleeFunc    *Function        // CallUserFunc / CallFunctor (func case)
	CalleeBuiltin BuiltinFunction  // CallBuiltin / CallFunctor (builtin case)
	Ctor          *Class           // CallCtor
}

func (c *CallExpr) Pos() token.Position { return c.Tok.Pos }
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
