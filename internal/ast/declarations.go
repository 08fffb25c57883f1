package ast

import (
	"strings"

	"github.com/flamelang/flame/internal/types"
	"github.com/flamelang/flame/pkg/token"
)

// Argument is one formal parameter of a Function: a name plus the type
// expression as written (which may reference one of the function's own
// template parameters, e.g. "fn identity<T>(x: T) -> T").
type Argument struct {
	Tok        token.Token
	Name       string
	DeclaredTy *TypeExpr
	Ty         types.Info // resolved by Sema; for a template param, refined per instantiation
	ScopeDepth int
	ScopeIndex int
}

func (a *Argument) Pos() token.Position { return a.Tok.Pos }
func (a *Argument) String() string      { return a.Name + ": " + a.DeclaredTy.String() }

// Function is a top-level or member function declaration. A generic
// function (len(TemplateParams) > 0) is never checked directly: Sema
// enqueues an instantiation request the first time it is referenced
// with concrete argument types, clones the body, and checks the clone
// with the template parameters bound (spec.md §4.4.4, SPEC_FULL §4.4).
type Function struct {
	Tok            token.Token
	Name           string
	TemplateParams []string
	Args           []*Argument
	IsVarArg       bool // trailing "..." free-args parameter
	DeclaredRet    *TypeExpr
	ResultType     types.Info
	Body           *Block

	// MemberOf is non-nil when this Function is a method; Sema uses it
	// to synthesize the implicit "self" receiver type.
	MemberOf *Class

	// IsTemplate reports whether TemplateParams is non-empty; kept as
	// its own field so instantiated clones can be told apart from the
	// template they were cloned from even after TemplateParams is
	// copied onto the clone.
	IsTemplate bool

	// Instantiations collects the concrete clones Sema has already
	// produced for this template, keyed by the string form of their
	// bound argument types, so repeated calls with identical type
	// arguments reuse one instantiation (spec.md §4.4.4 "memoized").
	Instantiations map[string]*Function

	// ReturnStmts is populated by Sema while checking the body, so a
	// missing-return-on-some-path diagnostic (and the evaluator's
	// implicit-none-return fallback) don't need a second tree walk.
	ReturnStmts []*ReturnStmt

	// Scope holds this function's *scope.FunctionScope, opaque to ast
	// for the same reason Block.Scope is (see statements.go).
	Scope any
}

func (f *Function) Pos() token.Position { return f.Tok.Pos }
func (f *Function) FuncName() string    { return f.Name }

func (f *Function) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	s := "fn " + f.Name
	if len(f.TemplateParams) > 0 {
		s += "<" + strings.Join(f.TemplateParams, ", ") + ">"
	}
	s += "(" + strings.Join(parts, ", ") + ")"
	if f.DeclaredRet != nil {
		s += " -> " + f.DeclaredRet.String()
	}
	return s + " " + f.Body.String()
}

// Class is a class declaration: an ordered list of member-variable
// declarations (each resolved as if it were an Argument: name plus
// declared type) and an ordered list of member functions. Construction
// goes through CallFunc_Ctor (spec.md §4.4.3), which evaluates
// constructor arguments positionally against MemberVars.
type Class struct {
	Tok        token.Token
	Name       string
	MemberVars []*Argument
	Methods    []*Function
}

func (c *Class) Pos() token.Position { return c.Tok.Pos }
func (c *Class) ClassName() string   { return c.Name }

func (c *Class) String() string {
	return "class " + c.Name + " { ... }"
}

// MemberIndex returns the declaration-order index of a member variable
// by name, or -1. Used by Sema when resolving MemberAccess to
// MemberVariable.
func (c *Class) MemberIndex(name string) int {
	for i, m := range c.MemberVars {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// Method returns every method in this class (and, in a richer language,
// its base classes) with the given name — plural because the language
// allows overloading by argument type.
func (c *Class) Method(name string) []*Function {
	var out []*Function
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// Enum is an enum declaration: an ordered list of enumerator names.
// Every enumerator is a bare tag: the parser has no struct-variant form
// (an enumerator carrying its own fields), and Sema reports member
// access on enumerator values as unsupported — see DESIGN.md open
// question (c).
type Enum struct {
	Tok         token.Token
	Name        string
	Enumerators []string
}

func (e *Enum) Pos() token.Position { return e.Tok.Pos }
func (e *Enum) EnumName() string    { return e.Name }

// EnumeratorName returns the declared name of the enumerator at index,
// the inverse of Index — used by the evaluator to render an Enumerator
// value back to its source-level name.
func (e *Enum) EnumeratorName(index int) string { return e.Enumerators[index] }

func (e *Enum) String() string {
	return "enum " + e.Name + " { " + strings.Join(e.Enumerators, ", ") + " }"
}

// Index returns the declaration-order index of an enumerator by name,
// or -1.
func (e *Enum) Index(name string) int {
	for i, n := range e.Enumerators {
		if n == name {
			return i
		}
	}
	return -1
}

// Program is the root node: a single top-level block whose statements
// are function/class/enum declarations interleaved with top-level
// executable statements, matching the original's single-translation-
// -unit model (spec.md §9 Non-goals: no cross-file linking).
type Program struct {
	Root *Block
}

func (p *Program) Pos() token.Position { return p.Root.Pos() }
func (p *Program) String() string      { return p.Root.String() }
