// Package object implements the runtime value model: every value
// carries a types.Info plus one variant payload (primitive, iterable,
// instance, callable, or the None singleton). See spec.md §3.2.
package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flamelang/flame/internal/types"
)

// Object is any runtime value. Cloning is explicit and deep for
// iterables, shallow for everything else.
type Object interface {
	Type() types.Info
	Clone() Object
	String() string
}

// FuncDecl and BuiltinFunc are the minimal handles Callable needs.
// Defined as interfaces here (rather than importing ast/builtins
// directly) to avoid object <-> ast and object <-> builtins import
// cycles; ast.Function and builtins.Function both satisfy FuncDecl's
// and BuiltinFunc's single method respectively via thin wrappers.
type FuncDecl interface {
	FuncName() string
}

type BuiltinFunc interface {
	BuiltinName() string
}

// None is the language's unit value. A single instance is shared
// process-wide, created at evaluator construction (spec.md §5).
type None struct{}

func (None) Type() types.Info { return types.New(types.None) }
func (None) Clone() Object    { return None{} }
func (None) String() string   { return "none" }

// Primitive holds a signed 64-bit integer, an IEEE-754 double, a bool,
// or a 32-bit char — whichever matches its Type().Kind.
type Primitive struct {
	typ types.Info
	I   int64
	F   float64
	B   bool
	C   rune
}

func NewInt(v int64) *Primitive   { return &Primitive{typ: types.New(types.Int), I: v} }
func NewFloat(v float64) *Primitive { return &Primitive{typ: types.New(types.Float), F: v} }
func NewBool(v bool) *Primitive   { return &Primitive{typ: types.New(types.Bool), B: v} }
func NewChar(v rune) *Primitive   { return &Primitive{typ: types.New(types.Char), C: v} }

func (p *Primitive) Type() types.Info { return p.typ }
func (p *Primitive) Clone() Object {
	cp := *p
	return &cp
}

func (p *Primitive) String() string {
	switch p.typ.Kind {
	case types.Int:
		return strconv.FormatInt(p.I, 10)
	case types.Float:
		return strconv.FormatFloat(p.F, 'g', -1, 64)
	case types.Bool:
		return strconv.FormatBool(p.B)
	case types.Char:
		return string(p.C)
	default:
		return "?"
	}
}

// GetVI, GetVF, GetVB, GetVC are the type-cast getters of spec.md
// §4.2. They panic on a kind mismatch: by the time the evaluator reads
// a primitive's payload, Sema has already proven the kind, so a
// mismatch here is a programmer error, never a language error.
func (p *Primitive) GetVI() int64 {
	if p.typ.Kind != types.Int {
		panic(fmt.Sprintf("object: GetVI on non-int %s", p.typ))
	}
	return p.I
}

func (p *Primitive) GetVF() float64 {
	switch p.typ.Kind {
	case types.Float:
		return p.F
	case types.Int:
		return float64(p.I)
	default:
		panic(fmt.Sprintf("object: GetVF on non-numeric %s", p.typ))
	}
}

func (p *Primitive) GetVB() bool {
	if p.typ.Kind != types.Bool {
		panic(fmt.Sprintf("object: GetVB on non-bool %s", p.typ))
	}
	return p.B
}

func (p *Primitive) GetVC() rune {
	if p.typ.Kind != types.Char {
		panic(fmt.Sprintf("object: GetVC on non-char %s", p.typ))
	}
	return p.C
}

// Iterable is an ordered sequence of objects, shared by strings and
// vectors (a string is simply an Iterable of Char). Mutation (Append,
// AppendList) always happens on a freshly Cloned instance, preserving
// value semantics for `+` and `*` (spec.md §4.5.2, §9).
type Iterable struct {
	typ  types.Info
	List []Object
}

// NewIterable allocates an iterable with the declared element type.
// kind must be types.Vector or types.String.
func NewIterable(kind types.Kind, elem types.Info) *Iterable {
	t := types.New(kind)
	if kind == types.Vector {
		t = types.NewParam(types.Vector, elem)
	}
	return &Iterable{typ: t}
}

// NewString builds a string object from Go runes, as a char iterable.
func NewString(s string) *Iterable {
	it := &Iterable{typ: types.New(types.String)}
	for _, r := range s {
		it.List = append(it.List, NewChar(r))
	}
	return it
}

func (it *Iterable) Type() types.Info { return it.typ }

func (it *Iterable) Clone() Object {
	cp := &Iterable{typ: it.typ, List: make([]Object, len(it.List))}
	for i, e := range it.List {
		cp.List[i] = e.Clone()
	}
	return cp
}

func (it *Iterable) String() string {
	if it.typ.Kind == types.String {
		var sb strings.Builder
		for _, e := range it.List {
			sb.WriteString(e.String())
		}
		return sb.String()
	}

	parts := make([]string, len(it.List))
	for i, e := range it.List {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Append adds one element in place. Callers that must preserve value
// semantics (the `+`/`*` operators) clone first.
func (it *Iterable) Append(e Object) { it.List = append(it.List, e) }

// AppendList concatenates another iterable's elements in place.
func (it *Iterable) AppendList(other *Iterable) {
	it.List = append(it.List, other.List...)
}

// Index returns the element at i without bounds checking beyond what
// Go's slice indexing already provides — Sema guarantees i's type is
// Int, the evaluator is responsible for the runtime bounds check.
func (it *Iterable) Index(i int64) Object { return it.List[i] }

func (it *Iterable) Len() int { return len(it.List) }

// Truncate drops it down to the first n elements, used by pop().
func (it *Iterable) Truncate(n int) { it.List = it.List[:n] }

// SetIndex overwrites the element at i, used by index-assignment
// (eval_as_left).
func (it *Iterable) SetIndex(i int64, v Object) { it.List[i] = v }

// AsGoString converts a char-iterable back to a Go string, for
// builtins and diagnostics.
func (it *Iterable) AsGoString() string { return it.String() }

// Instance is a class handle plus an ordered vector of member values,
// indexed the same way as the class's MemberVariables list.
type Instance struct {
	class   types.ClassDecl
	Members []Object
}

func NewInstance(class types.ClassDecl) *Instance {
	return &Instance{class: class}
}

func (i *Instance) Type() types.Info { return types.FromClass(i.class) }

func (i *Instance) Clone() Object {
	cp := &Instance{class: i.class, Members: make([]Object, len(i.Members))}
	for j, m := range i.Members {
		cp.Members[j] = m.Clone()
	}
	return cp
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s{...}", i.Type().Name)
}

// AddMemberVar appends the next constructor argument as a member
// value, in declaration order.
func (i *Instance) AddMemberVar(v Object) { i.Members = append(i.Members, v) }

// GetMVar reads a member value by index.
func (i *Instance) GetMVar(index int) Object { return i.Members[index] }

// SetMVar writes a member value by index, used by member-variable
// assignment (eval_as_left).
func (i *Instance) SetMVar(index int, v Object) { i.Members[index] = v }

// Enumerator is the value of one enum variant. The variant itself
// (which enum, which index) is fully carried by its types.Info, so
// there is no separate payload — matching the original's todo_impl for
// struct-shaped enumerators (DESIGN.md open question (c)): only the
// bare tag is represented, never associated fields.
type Enumerator struct {
	typ types.Info
}

func NewEnumerator(typ types.Info) *Enumerator { return &Enumerator{typ: typ} }

func (e *Enumerator) Type() types.Info { return e.typ }
func (e *Enumerator) Clone() Object    { return &Enumerator{typ: e.typ} }
func (e *Enumerator) String() string {
	if !e.typ.HasEnumIndex {
		return e.typ.Name
	}
	return e.typ.Name + "::" + e.typ.Enum.EnumeratorName(e.typ.EnumIndex)
}

// Callable wraps either a user function or a built-in descriptor, plus
// an optional bound receiver for method calls.
type Callable struct {
	typ      types.Info
	Func     FuncDecl
	Builtin  BuiltinFunc
	SelfObj  Object
	IsMethod bool
}

func NewFuncCallable(fn FuncDecl, typ types.Info) *Callable {
	return &Callable{Func: fn, typ: typ}
}

func NewBuiltinCallable(b BuiltinFunc, typ types.Info) *Callable {
	return &Callable{Builtin: b, typ: typ}
}

func (c *Callable) Type() types.Info { return c.typ }
func (c *Callable) Clone() Object {
	cp := *c
	return &cp
}

func (c *Callable) String() string {
	if c.Func != nil {
		return "<function " + c.Func.FuncName() + ">"
	}
	return "<builtin " + c.Builtin.BuiltinName() + ">"
}

// Dict is a simple ordered association of key/value object pairs.
// Supplemented beyond the original's Dict handling (which is
// `todo_impl` past the type model) since once the type model exists
// the representation costs little — see DESIGN.md.
type Dict struct {
	typ   types.Info
	Keys  []Object
	Vals  []Object
}

func NewDict(keyType, valType types.Info) *Dict {
	return &Dict{typ: types.NewParam(types.Dict, keyType, valType)}
}

func (d *Dict) Type() types.Info { return d.typ }

func (d *Dict) Clone() Object {
	cp := &Dict{typ: d.typ, Keys: make([]Object, len(d.Keys)), Vals: make([]Object, len(d.Vals))}
	for i := range d.Keys {
		cp.Keys[i] = d.Keys[i].Clone()
		cp.Vals[i] = d.Vals[i].Clone()
	}
	return cp
}

func (d *Dict) String() string {
	parts := make([]string, len(d.Keys))
	for i := range d.Keys {
		parts[i] = d.Keys[i].String() + ": " + d.Vals[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) find(key Object) int {
	for i, k := range d.Keys {
		if k.String() == key.String() && k.Type().Equals(key.Type()) {
			return i
		}
	}
	return -1
}

// Get returns the value stored for key, or (nil, false).
func (d *Dict) Get(key Object) (Object, bool) {
	if i := d.find(key); i >= 0 {
		return d.Vals[i], true
	}
	return nil, false
}

// Set inserts or overwrites the value stored for key.
func (d *Dict) Set(key, val Object) {
	if i := d.find(key); i >= 0 {
		d.Vals[i] = val
		return
	}
	d.Keys = append(d.Keys, key)
	d.Vals = append(d.Vals, val)
}

// Tuple is a fixed-size heterogeneous sequence.
type Tuple struct {
	typ  types.Info
	Elems []Object
}

func NewTuple(elems []Object) *Tuple {
	params := make([]types.Info, len(elems))
	for i, e := range elems {
		params[i] = e.Type()
	}
	return &Tuple{typ: types.NewParam(types.Tuple, params...), Elems: elems}
}

func (t *Tuple) Type() types.Info { return t.typ }

func (t *Tuple) Clone() Object {
	cp := make([]Object, len(t.Elems))
	for i, e := range t.Elems {
		cp[i] = e.Clone()
	}
	return &Tuple{typ: t.typ, Elems: cp}
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Tuple) Get(i int) Object { return t.Elems[i] }
