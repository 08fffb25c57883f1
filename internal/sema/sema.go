// Package sema is the semantic checker: it walks the AST the parser
// produced, builds the static scope tree (internal/scope), and
// refines every Identifier/MemberAccess/CallExpr in place from its
// unresolved zero value to a concrete resolution (spec.md §3.4, §4.4).
//
// Checker.check mirrors Sema::check (SemaCheck.cpp) statement by
// statement; Checker.evalType mirrors Sema::eval_type
// (SemaEvalType.cpp) expression by expression. Go can't replace an
// AST node's concrete type in place the way the original rewrites
// ast->kind, so both methods type-switch on the node's Go type and
// mutate a Resolved/Kind field instead (SPEC_FULL.md §3.5).
package sema

import (
	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/internal/scope"
	"github.com/flamelang/flame/internal/types"
	"github.com/flamelang/flame/pkg/token"
)

// Checker holds everything mutable about one check pass: its current
// position in the scope tree, the function it's currently inside (for
// Return/type checking), and the stack of enclosing loop depths (for
// Break/Continue distance).
type Checker struct {
	sink *diag.Sink

	cur          scope.Scope
	curFunc      *ast.Function
	curFuncScope *scope.FunctionScope
	loopStack    []int

	// expectedStack is the "expected type" context an enclosing
	// VarDef/argument pushes before evaluating an expression that
	// might be an empty array literal (spec.md §4.4.3 "Array literal").
	expectedStack []types.Info

	// instScopeStack and instQueue implement generic instantiation
	// (spec.md §4.4.4): instScopeStack binds template parameter names
	// while a candidate's formal/return types are evaluated;
	// instQueue accumulates deferred per-instantiation body checks,
	// drained by CheckFull after the rest of the program is checked.
	instScopeStack []map[string]types.Info
	instQueue      []*instRequest
}

var primitiveKinds = map[string]types.Kind{
	"none": types.None, "int": types.Int, "float": types.Float,
	"bool": types.Bool, "char": types.Char, "string": types.String,
	"vector": types.Vector, "tuple": types.Tuple, "dict": types.Dict,
}

// CheckFull builds the scope tree for prog, checks it, then drains the
// instantiation-request queue generic calls enqueued along the way
// (spec.md §4.4.1 check_full), reporting whether the whole pass
// completed without any error-severity diagnostic. A Fatal diagnostic
// unwinds the current check immediately (recovered here via diag.AsFatal, matching
// the original's throw/stop on the first unrecoverable error) rather
// than cascading further nonsense errors.
func CheckFull(prog *ast.Program, sink *diag.Sink) (ok bool) {
	scope.NewBlockScope(prog.Root, 0, nil)

	c := &Checker{sink: sink}
	ok = true
	defer func() {
		if r := recover(); r != nil {
			if _, isFatal := diag.AsFatal(r); !isFatal {
				panic(r)
			}
			ok = false
		}
	}()

	c.cur = prog.Root.Scope.(*scope.BlockScope)
	c.checkBlock(prog.Root)
	c.drainInstantiations()
	ok = ok && !sink.HasErrors()
	return
}

func (c *Checker) checkBlock(b *ast.Block) {
	bs := b.Scope.(*scope.BlockScope)
	prev := c.cur
	c.cur = bs
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
	c.cur = prev
}

// checkStmt mirrors Sema::check's outer switch.
func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		c.evalType(st.Expr)
	case *ast.VarDef:
		c.checkVarDef(st)
	case *ast.Block:
		c.checkBlock(st)
	case *ast.IfStmt:
		c.checkIf(st)
	case *ast.WhileStmt:
		c.checkWhile(st)
	case *ast.TryCatchStmt:
		c.checkTryCatch(st)
	case *ast.ReturnStmt:
		c.checkReturn(st)
	case *ast.ThrowStmt:
		c.evalType(st.Value)
	case *ast.BreakStmt:
		c.checkBreakContinue(st.Pos(), &st.ScopeDistance)
	case *ast.ContinueStmt:
		c.checkBreakContinue(st.Pos(), &st.ScopeDistance)
	case *ast.Function:
		c.checkFunction(st)
	case *ast.Class:
		c.checkClass(st)
	case *ast.Enum:
		// No variable slots, no nested scopes, nothing to check.
	default:
		c.sink.Fatal(s.Pos(), diag.CategoryInternal, "sema: unhandled statement %T", s)
	}
}

func (c *Checker) checkVarDef(v *ast.VarDef) {
	bs, ok := c.cur.(*scope.BlockScope)
	if !ok {
		c.sink.Fatal(v.Pos(), diag.CategoryInternal, "sema: vardef outside a block scope")
	}
	lv := bs.FindVar(v.Name)
	if lv == nil {
		c.sink.Fatal(v.Pos(), diag.CategoryInternal, "sema: %q has no scope slot", v.Name)
	}

	var declared types.Info
	hasDeclared := v.DeclaredTy != nil
	if hasDeclared {
		declared = c.evalTypeExpr(v.DeclaredTy)
	}

	if v.Init == nil {
		if !hasDeclared {
			c.sink.Fatal(v.Pos(), diag.CategoryType, "cannot deduce type of %q without an initializer or a declared type", v.Name)
		}
		lv.DeducedType, lv.IsTypeDeduced = declared, true
		return
	}

	if hasDeclared {
		c.pushExpected(declared)
	}
	initTy := c.evalType(v.Init)
	if hasDeclared {
		c.popExpected()
	}
	if hasDeclared && !declared.Equals(initTy) {
		c.sink.Emit(v.Pos(), diag.CategoryType, "cannot initialize %q of type %s with a value of type %s", v.Name, declared, initTy)
	}
	if hasDeclared {
		lv.DeducedType = declared
	} else {
		lv.DeducedType = initTy
	}
	lv.IsTypeDeduced = true
}

func (c *Checker) checkIf(s *ast.IfStmt) {
	condTy := c.evalType(s.Cond)
	if !condTy.IsBool() {
		c.sink.Emit(s.Cond.Pos(), diag.CategoryType, "if condition must be bool, got %s", condTy)
	}
	c.checkBlock(s.Then)
	switch e := s.Else.(type) {
	case *ast.Block:
		c.checkBlock(e)
	case *ast.IfStmt:
		c.checkIf(e)
	}
}

func (c *Checker) checkWhile(s *ast.WhileStmt) {
	condTy := c.evalType(s.Cond)
	if !condTy.IsBool() {
		c.sink.Emit(s.Cond.Pos(), diag.CategoryType, "while condition must be bool, got %s", condTy)
	}
	bs := s.Body.Scope.(*scope.BlockScope)
	c.loopStack = append(c.loopStack, bs.Depth())
	c.checkBlock(s.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

func (c *Checker) checkBreakContinue(pos token.Position, distance *int) {
	if len(c.loopStack) == 0 {
		c.sink.Emit(pos, diag.CategoryType, "break/continue used outside of a loop")
		return
	}
	loopDepth := c.loopStack[len(c.loopStack)-1]
	*distance = c.cur.Depth() - loopDepth
}

func (c *Checker) checkTryCatch(s *ast.TryCatchStmt) {
	c.checkBlock(s.Body)

	seen := map[string]token.Position{}
	for _, cc := range s.Catches {
		cc.Ty = c.evalTypeExpr(cc.DeclaredTy)

		key := cc.Ty.String()
		if first, dup := seen[key]; dup {
			d := diag.Diagnostic{Severity: diag.SevError, Category: diag.CategoryType,
				Pos: cc.Pos(), Message: "duplicate catch clause for type " + cc.Ty.String()}
			d = d.AddNote(first, "first defined here")
			c.sink.EmitDiagnostic(d)
		}
		seen[key] = cc.Pos()

		if bs, ok := cc.Body.Scope.(*scope.BlockScope); ok && len(bs.Vars) > 0 {
			bs.Vars[0].DeducedType, bs.Vars[0].IsTypeDeduced = cc.Ty, true
		}
		c.checkBlock(cc.Body)
	}
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) {
	var ty types.Info
	if s.Value != nil {
		if c.curFunc != nil {
			c.pushExpected(c.curFunc.ResultType)
			ty = c.evalType(s.Value)
			c.popExpected()
		} else {
			ty = c.evalType(s.Value)
		}
	} else {
		ty = types.New(types.None)
	}

	if c.curFunc == nil {
		c.sink.Emit(s.Pos(), diag.CategoryType, "return used outside of a function")
	} else if !c.curFunc.ResultType.Equals(ty) {
		c.sink.Emit(s.Pos(), diag.CategoryType, "function %q returns %s, but this statement returns %s",
			c.curFunc.Name, c.curFunc.ResultType, ty)
	}

	if c.curFuncScope != nil {
		s.ScopeDistance = c.cur.Depth() - c.curFuncScope.Depth()
	}
}

// checkFunction mirrors Sema::check's Function case: a template is
// left unchecked until instantiate binds its parameters (spec.md
// §4.4.4); everything else has its argument/result types deduced,
// its Return statements collected for the has-a-return validation,
// and its body checked with curFunc/curFuncScope tracking it.
func (c *Checker) checkFunction(fn *ast.Function) {
	if fn.IsTemplate {
		return
	}

	fs, ok := fn.Scope.(*scope.FunctionScope)
	if !ok {
		c.sink.Fatal(fn.Pos(), diag.CategoryInternal, "sema: function %q has no scope", fn.Name)
	}

	for _, a := range fn.Args {
		a.Ty = c.evalTypeExpr(a.DeclaredTy)
	}
	if fn.DeclaredRet != nil {
		fn.ResultType = c.evalTypeExpr(fn.DeclaredRet)
	} else {
		fn.ResultType = types.New(types.None)
	}

	fn.ReturnStmts = collectReturns(fn.Body)
	if !fn.ResultType.IsNone() && len(fn.ReturnStmts) == 0 {
		c.sink.Emit(fn.Pos(), diag.CategoryType, "function %q must return a value of type %s", fn.Name, fn.ResultType)
	} else if !fn.ResultType.IsNone() && !endsInReturn(fn.Body) {
		c.sink.Emit(fn.Pos(), diag.CategoryType, "expected return-statement")
	}

	prevFunc, prevFS := c.curFunc, c.curFuncScope
	c.curFunc, c.curFuncScope = fn, fs
	c.checkBlock(fn.Body)
	c.curFunc, c.curFuncScope = prevFunc, prevFS
}

func (c *Checker) checkClass(cl *ast.Class) {
	seen := map[string]bool{}
	for _, m := range cl.MemberVars {
		if seen[m.Name] {
			c.sink.Emit(m.Pos(), diag.CategoryType, "duplicate member variable %q in class %q", m.Name, cl.Name)
			continue
		}
		seen[m.Name] = true
		m.Ty = c.evalTypeExpr(m.DeclaredTy)
	}
	for _, meth := range cl.Methods {
		c.checkFunction(meth)
	}
}

// evalTypeExpr resolves a TypeExpr as written into a concrete
// types.Info, mirroring eval_type's TypeName case: the closed-set
// primitive names are validated against Kind.NeededParamCount, a
// class/enum name is resolved via find_name exactly like any other
// identifier.
func (c *Checker) evalTypeExpr(te *ast.TypeExpr) types.Info {
	if te == nil {
		return types.New(types.None)
	}

	if kind, ok := primitiveKinds[te.Name]; ok {
		need := kind.NeededParamCount()
		if len(te.Params) < need {
			c.sink.Fatal(te.Pos(), diag.CategoryType, "%s needs %d type parameter(s), got %d", te.Name, need, len(te.Params))
		}
		if need == 0 {
			return types.New(kind)
		}
		params := make([]types.Info, len(te.Params))
		for i, p := range te.Params {
			params[i] = c.evalTypeExpr(p)
		}
		return types.NewParam(kind, params...)
	}

	res := c.resolveName(te.Name)
	switch res.kind {
	case nameClass:
		return types.FromClass(res.class)
	case nameEnum:
		return types.FromEnum(res.enum)
	default:
		c.sink.Fatal(te.Pos(), diag.CategoryUndefined, "unknown type name %q", te.Name)
		return types.Info{}
	}
}

// collectReturns walks a function body for its Return statements
// without descending into nested Function declarations (a nested
// function's returns belong to it, not its enclosing function) —
// mirrors the return_stmt_list collection in Sema::check's Function
// case.
func collectReturns(b *ast.Block) []*ast.ReturnStmt {
	var out []*ast.ReturnStmt
	var walk func(ast.Stmt)
	walk = func(s ast.Stmt) {
		switch st := s.(type) {
		case *ast.ReturnStmt:
			out = append(out, st)
		case *ast.Block:
			for _, c := range st.Stmts {
				walk(c)
			}
		case *ast.IfStmt:
			for _, c := range st.Then.Stmts {
				walk(c)
			}
			switch e := st.Else.(type) {
			case *ast.Block:
				for _, c := range e.Stmts {
					walk(c)
				}
			case *ast.IfStmt:
				walk(e)
			}
		case *ast.WhileStmt:
			for _, c := range st.Body.Stmts {
				walk(c)
			}
		case *ast.TryCatchStmt:
			for _, c := range st.Body.Stmts {
				walk(c)
			}
			for _, cc := range st.Catches {
				for _, c := range cc.Body.Stmts {
					walk(c)
				}
			}
		}
	}
	for _, s := range b.Stmts {
		walk(s)
	}
	return out
}

func numeric(t types.Info) bool { return t.IsInt() || t.IsFloat() }

// endsInReturn reports whether b's final statement is a Return,
// matching spec.md §4.4.2's "expected return-statement" rule: a
// function with a non-None result type must end its body with a
// return, not merely contain one somewhere inside a branch.
func endsInReturn(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	switch last := b.Stmts[len(b.Stmts)-1].(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.Block:
		return endsInReturn(last)
	case *ast.IfStmt:
		if last.Else == nil {
			return false
		}
		if !endsInReturn(last.Then) {
			return false
		}
		switch e := last.Else.(type) {
		case *ast.Block:
			return endsInReturn(e)
		case *ast.IfStmt:
			return endsInReturn(&ast.Block{Stmts: []ast.Stmt{e}})
		}
		return false
	case *ast.TryCatchStmt:
		if !endsInReturn(last.Body) {
			return false
		}
		for _, cc := range last.Catches {
			if !endsInReturn(cc.Body) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
