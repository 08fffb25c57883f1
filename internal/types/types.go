// Package types implements the type algebra described by the language's
// semantic analyzer: a closed set of kinds, structural equality (except
// for nominal Instance/Enumerator types), and pretty-printing precise
// enough to disambiguate diagnostics.
package types

import "strings"

// Kind is the closed set of type kinds the language recognizes.
type Kind int

const (
	None Kind = iota
	Int
	Float
	Bool
	Char
	String
	Vector
	Tuple
	Dict
	Instance
	Enumerator
	Function
	TypeName
	Module
)

var kindNames = map[Kind]string{
	None: "none", Int: "int", Float: "float", Bool: "bool", Char: "char",
	String: "string", Vector: "vector", Tuple: "tuple", Dict: "dict",
	Instance: "instance", Enumerator: "enumerator", Function: "function",
	TypeName: "type", Module: "module",
}

// NeededParamCount returns how many type parameters a kind requires.
// It is total: every Kind in the closed set has a defined answer.
// Validating an actual parameter count against it is the caller's job
// (typically Sema, while evaluating a TypeName node) — construction
// itself never fails.
func (k Kind) NeededParamCount() int {
	switch k {
	case Vector:
		return 1
	case Dict:
		return 2
	case Tuple:
		return 1 // at least one; Tuple's upper bound is unconstrained
	default:
		return 0
	}
}

// ClassDecl and EnumDecl are the minimal handles TypeInfo needs from
// the AST for nominal (Instance/Enumerator) identity. They are
// satisfied by *ast.Class and *ast.Enum without this package importing
// ast (which would create an import cycle: ast -> types -> ast).
type ClassDecl interface {
	ClassName() string
}

type EnumDecl interface {
	EnumName() string
	EnumeratorName(index int) string
}

// Info is a type: a kind, an ordered parameter list, an optional name,
// optional class/enum identity, and the two function flags described
// in spec.md §3.1.
//
// Invariants: Vector has exactly one parameter, Dict has two, Tuple
// has at least one, Function's parameter list is
// [return_type, arg1, arg2, ...]. These are enforced by Sema at
// construction sites (TypeName resolution), not here.
type Info struct {
	Kind         Kind
	Params       []Info
	Name         string
	Class        ClassDecl
	Enum         EnumDecl
	EnumIndex    int
	HasEnumIndex bool // true when EnumIndex names one concrete enumerator, as opposed to the bare enum type
	IsFreeArgs   bool // function accepts variadic trailing arguments
	IsMemberFunc bool // first parameter is an implicit receiver
}

// New builds a bare type of the given kind with no parameters.
func New(kind Kind) Info { return Info{Kind: kind} }

// NewParam builds a parameterized type (Vector<T>, Dict<K,V>, ...).
func NewParam(kind Kind, params ...Info) Info {
	return Info{Kind: kind, Params: params}
}

// FromClass builds the nominal Instance type of a class declaration.
func FromClass(c ClassDecl) Info {
	return Info{Kind: Instance, Class: c, Name: c.ClassName()}
}

// FromEnum builds the nominal Enumerator type of an enum declaration
// (the type of the enum as a whole, not of one specific enumerator).
func FromEnum(e EnumDecl) Info {
	return Info{Kind: Enumerator, Enum: e, Name: e.EnumName()}
}

// FromEnumerator builds the type of one concrete enumerator value.
func FromEnumerator(e EnumDecl, index int) Info {
	return Info{Kind: Enumerator, Enum: e, Name: e.EnumName(), EnumIndex: index, HasEnumIndex: true}
}

// NeededParamCount is a convenience forwarding to Kind.NeededParamCount.
func (t Info) NeededParamCount() int { return t.Kind.NeededParamCount() }

// Equals implements the structural-except-nominal equality rule:
// Instance and Enumerator compare by declaration identity (and, for
// Enumerator, by which enumerator constant), everything else compares
// structurally (kind + params, recursively).
func (t Info) Equals(other Info) bool {
	if t.Kind != other.Kind {
		return false
	}

	switch t.Kind {
	case Instance:
		return t.Class == other.Class
	case Enumerator:
		if t.Enum != other.Enum {
			return false
		}
		// A bare enum-typed value (HasEnumIndex false, i.e. naming the
		// enum itself rather than one enumerator) compares equal to
		// any enumerator of that enum.
		if !t.HasEnumIndex || !other.HasEnumIndex {
			return true
		}
		return t.EnumIndex == other.EnumIndex
	}

	if len(t.Params) != len(other.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equals(other.Params[i]) {
			return false
		}
	}
	return true
}

// EqualsKind reports whether t's kind matches k, ignoring parameters —
// used for the frequent "is this a Bool" checks Sema performs without
// constructing a comparison Info.
func (t Info) EqualsKind(k Kind) bool { return t.Kind == k }

// String renders a type injectively enough to disambiguate
// diagnostics: "vector<int>", "(int, string) -> bool", "MyClass".
func (t Info) String() string {
	switch t.Kind {
	case Instance, Enumerator:
		return t.Name
	case Vector, Dict, Tuple:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return kindNames[t.Kind] + "<" + strings.Join(parts, ", ") + ">"
	case Function:
		if len(t.Params) == 0 {
			return "() -> none"
		}
		args := make([]string, 0, len(t.Params)-1)
		for _, p := range t.Params[1:] {
			args = append(args, p.String())
		}
		return "(" + strings.Join(args, ", ") + ") -> " + t.Params[0].String()
	default:
		if name, ok := kindNames[t.Kind]; ok {
			return name
		}
		return "?"
	}
}

// Predicates used pervasively by Sema and the evaluator's operator
// dispatch.
func (t Info) IsInt() bool    { return t.Kind == Int }
func (t Info) IsFloat() bool  { return t.Kind == Float }
func (t Info) IsBool() bool   { return t.Kind == Bool }
func (t Info) IsChar() bool   { return t.Kind == Char }
func (t Info) IsString() bool { return t.Kind == String }
func (t Info) IsVector() bool { return t.Kind == Vector }
func (t Info) IsNone() bool   { return t.Kind == None }
