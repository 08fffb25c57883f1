// Package builtins holds the two builtin tables the language exposes:
// free functions (len, print, to_string, ...) and member builtins on
// vector<T> and string (push, size, upper, ...). Both tables are
// consulted by Sema while resolving an unqualified call or a member
// access, and invoked directly by the evaluator once resolved.
//
// Grounded on the teacher's internal/interp/builtins package: one
// function per builtin, Context/Value indirection replaced with this
// language's object.Object, argument-count/type checks reported
// through diag instead of a Value-typed error sentinel.
package builtins

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/flamelang/flame/internal/object"
	"github.com/flamelang/flame/internal/types"
)

// Func is a free function's signature plus its Go implementation.
// ArgTypes/ResultType/IsVariableArgs satisfy ast.BuiltinFunction so
// Sema can hold a *Func as a resolved call candidate without
// internal/ast importing this package.
type Func struct {
	Name       string
	Args       []types.Info
	Result     types.Info
	VarArgs    bool
	Impl       func(args []object.Object) (object.Object, error)
}

func (f *Func) BuiltinName() string       { return f.Name }
func (f *Func) ArgTypes() []types.Info    { return f.Args }
func (f *Func) ResultType() types.Info    { return f.Result }
func (f *Func) IsVariableArgs() bool      { return f.VarArgs }

// MemberVar is a read-only member builtin (e.g. an implicit "length"
// property). None of this language's builtins currently need one —
// size/len are modeled as zero-arg member functions instead, matching
// how the original exposes them as calls, not properties — but the
// type exists so Sema's BuiltinMemberVariable resolution kind has a
// concrete candidate shape to hold.
type MemberVar struct {
	Name   string
	Result types.Info
}

func (v *MemberVar) MemberVarName() string     { return v.Name }
func (v *MemberVar) MemberResultType() types.Info { return v.Result }

// MemberFunc is a member builtin invoked as "receiver.name(args...)".
type MemberFunc struct {
	Name    string
	Args    []types.Info
	Result  types.Info
	VarArgs bool
	Impl    func(self object.Object, args []object.Object) (object.Object, error)
}

func (f *MemberFunc) BuiltinName() string    { return f.Name }
func (f *MemberFunc) ArgTypes() []types.Info { return f.Args }
func (f *MemberFunc) ResultType() types.Info { return f.Result }
func (f *MemberFunc) IsVariableArgs() bool   { return f.VarArgs }

var anyT = types.New(types.None) // placeholder for "accepts whatever Sema already checked"

func wantString(o object.Object, who string) (*object.Iterable, error) {
	s, ok := o.(*object.Iterable)
	if !ok || s.Type().Kind != types.String {
		return nil, fmt.Errorf("%s expects a string receiver, got %s", who, o.Type())
	}
	return s, nil
}

func wantVector(o object.Object, who string) (*object.Iterable, error) {
	v, ok := o.(*object.Iterable)
	if !ok || v.Type().Kind != types.Vector {
		return nil, fmt.Errorf("%s expects a vector receiver, got %s", who, o.Type())
	}
	return v, nil
}

// Free is the table of free functions, matching spec.md §6's short
// list of builtins available without qualification.
var Free = map[string]*Func{}

// StringMembers and VectorMembers are the per-kind member builtin
// tables Sema consults when checking a MemberAccess/CallExpr pair
// against BuiltinMemberFunction.
var StringMembers = map[string]*MemberFunc{}
var VectorMembers = map[string]*MemberFunc{}

func registerFree(f *Func) { Free[f.Name] = f }
func registerString(f *MemberFunc) { StringMembers[f.Name] = f }
func registerVector(f *MemberFunc) { VectorMembers[f.Name] = f }

func init() {
	registerFree(&Func{
		Name:   "len",
		Args:   []types.Info{anyT},
		Result: types.New(types.Int),
		Impl: func(args []object.Object) (object.Object, error) {
			it, ok := args[0].(*object.Iterable)
			if !ok {
				return nil, fmt.Errorf("len() expects a string or vector, got %s", args[0].Type())
			}
			return object.NewInt(int64(it.Len())), nil
		},
	})

	registerFree(&Func{
		Name:    "print",
		Args:    nil,
		Result:  types.New(types.None),
		VarArgs: true,
		Impl: func(args []object.Object) (object.Object, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.String()
			}
			fmt.Println(strings.Join(parts, " "))
			return object.None{}, nil
		},
	})

	registerFree(&Func{
		Name:   "to_string",
		Args:   []types.Info{anyT},
		Result: types.New(types.String),
		Impl: func(args []object.Object) (object.Object, error) {
			return object.NewString(args[0].String()), nil
		},
	})

	registerFree(&Func{
		Name:   "abs",
		Args:   []types.Info{anyT},
		Result: anyT,
		Impl: func(args []object.Object) (object.Object, error) {
			p, ok := args[0].(*object.Primitive)
			if !ok {
				return nil, fmt.Errorf("abs() expects int or float, got %s", args[0].Type())
			}
			switch p.Type().Kind {
			case types.Int:
				v := p.GetVI()
				if v < 0 {
					v = -v
				}
				return object.NewInt(v), nil
			case types.Float:
				v := p.GetVF()
				if v < 0 {
					v = -v
				}
				return object.NewFloat(v), nil
			default:
				return nil, fmt.Errorf("abs() expects int or float, got %s", args[0].Type())
			}
		},
	})

	registerFree(&Func{
		Name:   "int",
		Args:   []types.Info{anyT},
		Result: types.New(types.Int),
		Impl: func(args []object.Object) (object.Object, error) {
			p, ok := args[0].(*object.Primitive)
			if !ok {
				return nil, fmt.Errorf("int() expects int or float, got %s", args[0].Type())
			}
			if p.Type().Kind == types.Float {
				return object.NewInt(int64(p.GetVF())), nil
			}
			return object.NewInt(p.GetVI()), nil
		},
	})

	registerFree(&Func{
		Name:   "float",
		Args:   []types.Info{anyT},
		Result: types.New(types.Float),
		Impl: func(args []object.Object) (object.Object, error) {
			p, ok := args[0].(*object.Primitive)
			if !ok {
				return nil, fmt.Errorf("float() expects int or float, got %s", args[0].Type())
			}
			return object.NewFloat(p.GetVF()), nil
		},
	})

	registerFree(&Func{
		Name:   "string",
		Args:   []types.Info{anyT},
		Result: types.New(types.String),
		Impl: func(args []object.Object) (object.Object, error) {
			return object.NewString(args[0].String()), nil
		},
	})

	registerFree(&Func{
		Name:   "append",
		Args:   []types.Info{anyT, anyT},
		Result: anyT,
		Impl: func(args []object.Object) (object.Object, error) {
			v, err := wantVector(args[0], "append()")
			if err != nil {
				return nil, err
			}
			cp := v.Clone().(*object.Iterable)
			cp.Append(args[1])
			return cp, nil
		},
	})

	// locale_compare(a, b[, locale[, case_sensitive]]) — grounded on
	// the teacher's CompareLocaleStr (strings_compare.go): a
	// collate.Collator over a parsed language.Tag, case-insensitive
	// by default.
	registerFree(&Func{
		Name:    "locale_compare",
		Args:    []types.Info{types.New(types.String), types.New(types.String)},
		Result:  types.New(types.Int),
		VarArgs: true,
		Impl: func(args []object.Object) (object.Object, error) {
			a, err := wantString(args[0], "locale_compare()")
			if err != nil {
				return nil, err
			}
			b, err := wantString(args[1], "locale_compare()")
			if err != nil {
				return nil, err
			}

			locale := "en"
			caseSensitive := false
			if len(args) >= 3 {
				l, err := wantString(args[2], "locale_compare()")
				if err != nil {
					return nil, err
				}
				locale = l.AsGoString()
			}
			if len(args) >= 4 {
				p, ok := args[3].(*object.Primitive)
				if !ok || p.Type().Kind != types.Bool {
					return nil, fmt.Errorf("locale_compare() expects bool as fourth argument")
				}
				caseSensitive = p.GetVB()
			}

			tag, err := language.Parse(locale)
			if err != nil {
				tag = language.English
			}
			var col *collate.Collator
			if caseSensitive {
				col = collate.New(tag)
			} else {
				col = collate.New(tag, collate.IgnoreCase)
			}

			switch r := col.CompareString(a.AsGoString(), b.AsGoString()); {
			case r < 0:
				return object.NewInt(-1), nil
			case r > 0:
				return object.NewInt(1), nil
			default:
				return object.NewInt(0), nil
			}
		},
	})

	registerVector(&MemberFunc{
		Name:   "push",
		Args:   []types.Info{anyT},
		Result: types.New(types.None),
		Impl: func(self object.Object, args []object.Object) (object.Object, error) {
			v, err := wantVector(self, "push()")
			if err != nil {
				return nil, err
			}
			v.Append(args[0])
			return object.None{}, nil
		},
	})

	registerVector(&MemberFunc{
		Name:   "pop",
		Result: anyT,
		Impl: func(self object.Object, args []object.Object) (object.Object, error) {
			v, err := wantVector(self, "pop()")
			if err != nil {
				return nil, err
			}
			if v.Len() == 0 {
				return nil, fmt.Errorf("pop() on empty vector")
			}
			last := v.Index(int64(v.Len() - 1))
			v.Truncate(v.Len() - 1)
			return last, nil
		},
	})

	registerVector(&MemberFunc{
		Name:   "size",
		Result: types.New(types.Int),
		Impl: func(self object.Object, args []object.Object) (object.Object, error) {
			v, err := wantVector(self, "size()")
			if err != nil {
				return nil, err
			}
			return object.NewInt(int64(v.Len())), nil
		},
	})

	registerString(&MemberFunc{
		Name:   "size",
		Result: types.New(types.Int),
		Impl: func(self object.Object, args []object.Object) (object.Object, error) {
			s, err := wantString(self, "size()")
			if err != nil {
				return nil, err
			}
			return object.NewInt(int64(s.Len())), nil
		},
	})

	registerString(&MemberFunc{
		Name:   "upper",
		Result: types.New(types.String),
		Impl: func(self object.Object, args []object.Object) (object.Object, error) {
			s, err := wantString(self, "upper()")
			if err != nil {
				return nil, err
			}
			return object.NewString(strings.ToUpper(s.AsGoString())), nil
		},
	})

	registerString(&MemberFunc{
		Name:   "lower",
		Result: types.New(types.String),
		Impl: func(self object.Object, args []object.Object) (object.Object, error) {
			s, err := wantString(self, "lower()")
			if err != nil {
				return nil, err
			}
			return object.NewString(strings.ToLower(s.AsGoString())), nil
		},
	})

	registerString(&MemberFunc{
		Name:   "char_at",
		Args:   []types.Info{types.New(types.Int)},
		Result: types.New(types.Char),
		Impl: func(self object.Object, args []object.Object) (object.Object, error) {
			s, err := wantString(self, "char_at()")
			if err != nil {
				return nil, err
			}
			p, ok := args[0].(*object.Primitive)
			if !ok || p.Type().Kind != types.Int {
				return nil, fmt.Errorf("char_at() expects an int index")
			}
			i := p.GetVI()
			if i < 0 || i >= int64(s.Len()) {
				return nil, fmt.Errorf("char_at(): index %d out of range", i)
			}
			return s.Index(i), nil
		},
	})

	// normalize([form]) — grounded on the teacher's normalizeUnicode
	// helper (strings.go/strings_advanced.go). form defaults to NFC.
	registerString(&MemberFunc{
		Name:    "normalize",
		Result:  types.New(types.String),
		VarArgs: true,
		Impl: func(self object.Object, args []object.Object) (object.Object, error) {
			s, err := wantString(self, "normalize()")
			if err != nil {
				return nil, err
			}
			form := "NFC"
			if len(args) >= 1 {
				f, err := wantString(args[0], "normalize()")
				if err != nil {
					return nil, err
				}
				form = f.AsGoString()
			}
			var out string
			switch form {
			case "NFD":
				out = norm.NFD.String(s.AsGoString())
			case "NFKC":
				out = norm.NFKC.String(s.AsGoString())
			case "NFKD":
				out = norm.NFKD.String(s.AsGoString())
			default:
				out = norm.NFC.String(s.AsGoString())
			}
			return object.NewString(out), nil
		},
	})
}
