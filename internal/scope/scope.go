// Package scope builds the static scope tree the checker and evaluator
// both use to address variables by depth/index rather than by name.
// The tree is built once, in a single pass over the AST, before any
// type checking happens — it has no notion of types (spec.md §3.3).
//
// Grounded on original_source/src/Sema/SemaScope.cpp (BlockScope,
// FunctionScope, LocalVar, add_var/add_arg, find_var/find_child_scope).
package scope

import (
	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/types"
)

// LocalVar is one addressable slot: a let-binding or a function
// argument. Depth/Index are assigned once, at build time, and never
// change afterward — the evaluator's Frame.Vars is simply a
// []object.Object indexed the same way.
type LocalVar struct {
	Name  string
	Depth int
	Index int

	// Exactly one of VarDef/Arg is set, mirroring the two LocalVar
	// constructors in SemaScope.cpp.
	VarDef *ast.VarDef
	Arg    *ast.Argument

	// DeducedType is filled in later by Sema (evaltype of the
	// declared type or, failing that, of the initializer); scope
	// construction itself never evaluates types.
	DeducedType    types.Info
	IsTypeDeduced  bool
}

// Scope is the common interface of BlockScope and FunctionScope.
type Scope interface {
	Depth() int
	AST() ast.Node
	FindVar(name string) *LocalVar
	FindChildByAST(n ast.Node) Scope
	Parent() Scope
}

// BlockScope owns one Block's local variables plus any nested
// Block/Function scopes declared directly inside it.
type BlockScope struct {
	block  *ast.Block
	depth  int
	parent Scope

	Vars   []*LocalVar
	Childs []Scope
}

// NewBlockScope walks b's statement list exactly once, recursing into
// nested blocks and functions and registering each "let" as the next
// LocalVar slot — mirroring BlockScope::BlockScope's single switch
// over ast->list.
func NewBlockScope(b *ast.Block, depth int, parent Scope) *BlockScope {
	bs := &BlockScope{block: b, depth: depth, parent: parent}
	b.Scope = bs

	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *ast.Block:
			bs.Childs = append(bs.Childs, NewBlockScope(s, depth+1, bs))
		case *ast.Function:
			bs.Childs = append(bs.Childs, NewFunctionScope(s, depth, bs))
		case *ast.VarDef:
			bs.addVar(s)
		case *ast.IfStmt:
			walkIfScopes(s, depth, bs)
		case *ast.WhileStmt:
			bs.Childs = append(bs.Childs, NewBlockScope(s.Body, depth+1, bs))
		case *ast.TryCatchStmt:
			bs.Childs = append(bs.Childs, NewBlockScope(s.Body, depth+1, bs))
			for _, c := range s.Catches {
				child := NewBlockScope(c.Body, depth+1, bs)
				// The catch binding lives one level "outside" the
				// block's own lets, addressed the same way a function
				// argument is: first slot(s) of the block's frame.
				cv := &LocalVar{Name: c.Name, Depth: depth + 1, Index: 0}
				child.Vars = append([]*LocalVar{cv}, child.Vars...)
				reindex(child.Vars)
				c.ScopeDepth = cv.Depth
				c.ScopeIndex = cv.Index
				bs.Childs = append(bs.Childs, child)
			}
		case *ast.Class:
			for _, m := range s.Methods {
				bs.Childs = append(bs.Childs, NewFunctionScope(m, depth, bs))
			}
		case *ast.Enum:
			// Enums introduce no variable slots or nested scopes.
		}
	}

	return bs
}

func walkIfScopes(s *ast.IfStmt, depth int, parent *BlockScope) {
	parent.Childs = append(parent.Childs, NewBlockScope(s.Then, depth+1, parent))
	switch e := s.Else.(type) {
	case *ast.Block:
		parent.Childs = append(parent.Childs, NewBlockScope(e, depth+1, parent))
	case *ast.IfStmt:
		walkIfScopes(e, depth, parent)
	}
}

func reindex(vars []*LocalVar) {
	for i, v := range vars {
		v.Index = i
	}
}

func (bs *BlockScope) addVar(def *ast.VarDef) *LocalVar {
	v := &LocalVar{Name: def.Name, VarDef: def, Depth: bs.depth, Index: len(bs.Vars)}
	bs.Vars = append(bs.Vars, v)
	def.ScopeDepth = v.Depth
	def.ScopeIndex = v.Index
	return v
}

func (bs *BlockScope) Depth() int    { return bs.depth }
func (bs *BlockScope) AST() ast.Node { return bs.block }
func (bs *BlockScope) Parent() Scope { return bs.parent }

func (bs *BlockScope) FindVar(name string) *LocalVar {
	for _, v := range bs.Vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (bs *BlockScope) FindChildByAST(n ast.Node) Scope {
	if bs.block == n {
		return bs
	}
	for _, c := range bs.Childs {
		if s := c.FindChildByAST(n); s != nil {
			return s
		}
	}
	return nil
}

// FunctionScope owns a function's argument slots (depth equal to the
// enclosing block's depth, per FunctionScope::FunctionScope setting
// block->depth = this->depth + 1) plus its body BlockScope.
type FunctionScope struct {
	fn     *ast.Function
	depth  int
	parent Scope

	Args  []*LocalVar
	Block *BlockScope

	// Instantiated holds one FunctionScope per generic instantiation
	// of fn, built lazily by Sema as it drains the instantiation
	// request queue (spec.md §4.4.4).
	Instantiated []*FunctionScope
}

// NewFunctionScope builds the argument slots and, for a non-template
// function, its body scope immediately. Template functions get their
// body scope built per instantiation instead (see NewInstantiation).
func NewFunctionScope(fn *ast.Function, depth int, parent Scope) *FunctionScope {
	fs := &FunctionScope{fn: fn, depth: depth, parent: parent}
	fn.Scope = fs

	for _, a := range fn.Args {
		fs.addArg(a)
	}

	if !fn.IsTemplate {
		fs.Block = NewBlockScope(fn.Body, depth+1, fs)
	}

	return fs
}

// NewInstantiation builds the body scope for one concrete clone of a
// template function, after Sema has cloned fn's body and bound its
// template parameters to concrete types.
func (fs *FunctionScope) NewInstantiation(clone *ast.Function) *FunctionScope {
	inst := &FunctionScope{fn: clone, depth: fs.depth, parent: fs.parent}
	for _, a := range clone.Args {
		inst.addArg(a)
	}
	inst.Block = NewBlockScope(clone.Body, fs.depth+1, inst)
	fs.Instantiated = append(fs.Instantiated, inst)
	return inst
}

func (fs *FunctionScope) addArg(a *ast.Argument) *LocalVar {
	v := &LocalVar{Name: a.Name, Arg: a, Depth: fs.depth, Index: len(fs.Args)}
	fs.Args = append(fs.Args, v)
	a.ScopeDepth = v.Depth
	a.ScopeIndex = v.Index
	return v
}

func (fs *FunctionScope) Depth() int    { return fs.depth }
func (fs *FunctionScope) AST() ast.Node { return fs.fn }
func (fs *FunctionScope) Parent() Scope { return fs.parent }

func (fs *FunctionScope) FindVar(name string) *LocalVar {
	for _, v := range fs.Args {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (fs *FunctionScope) FindChildByAST(n ast.Node) Scope {
	if fs.fn == n {
		return fs
	}
	for _, inst := range fs.Instantiated {
		if s := inst.FindChildByAST(n); s != nil {
			return s
		}
	}
	if fs.Block != nil {
		return fs.Block.FindChildByAST(n)
	}
	return nil
}

// Bookmark captures a location in the scope tree so Sema can save its
// place, go check a deferred instantiation out of order, and come
// back — the Go analogue of the original's scope-location save/restore
// around instantiation checking (spec.md §4.4.4, SPEC_FULL §4.4).
type Bookmark struct {
	Current Scope
	Depth   int
}

// Save captures the current scope as a Bookmark.
func Save(cur Scope) Bookmark { return Bookmark{Current: cur, Depth: cur.Depth()} }

// Restore returns the scope a Bookmark points at, for the caller to
// resume walking from.
func (b Bookmark) Restore() Scope { return b.Current }

// Lookup walks outward from cur, depth by depth, until it finds a
// LocalVar named name — the scope-tree equivalent of the original's
// repeated find_var-then-walk-up-to-parent loop.
func Lookup(cur Scope, name string) (*LocalVar, Scope) {
	for s := cur; s != nil; s = s.Parent() {
		if v := s.FindVar(name); v != nil {
			return v, s
		}
	}
	return nil, nil
}
