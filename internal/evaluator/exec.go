package evaluator

import (
	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/object"
	"github.com/flamelang/flame/internal/scope"
)

// execStmt executes one statement. Function/Class/Enum declarations
// are no-ops here: the evaluator never needs to "run" a declaration,
// only to read the *ast.Function/*ast.Class/*ast.Enum a CallExpr
// already points at directly.
func (e *Evaluator) execStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		e.evalExpr(st.Expr)
	case *ast.VarDef:
		e.execVarDef(st)
	case *ast.Block:
		e.execBlock(st)
	case *ast.IfStmt:
		e.execIf(st)
	case *ast.WhileStmt:
		e.execWhile(st)
	case *ast.TryCatchStmt:
		e.execTryCatch(st)
	case *ast.ReturnStmt:
		e.execReturn(st)
	case *ast.ThrowStmt:
		e.execThrow(st)
	case *ast.BreakStmt:
		e.markUnwind(st.ScopeDistance, func(fr *frame) { fr.breaked = true })
	case *ast.ContinueStmt:
		e.markUnwind(st.ScopeDistance, func(fr *frame) { fr.continued = true })
	case *ast.Function, *ast.Class, *ast.Enum:
		// declarations carry no runtime action of their own
	default:
		e.internalErrorf(s.Pos(), "evaluator: unhandled statement %T", s)
	}
}

// execVarDef evaluates the initializer, if any, and stores it in the
// current frame — always the top of the variable-stack, since a
// VarDef's ScopeDepth is by construction the depth of its own
// enclosing block (scope.BlockScope.addVar).
func (e *Evaluator) execVarDef(v *ast.VarDef) {
	if v.Init == nil {
		return
	}
	e.topFrame().vars[v.ScopeIndex] = e.evalExpr(v.Init)
}

// execBlock pushes a frame sized to b's own scope, runs its statements
// in order, and pops the frame before returning — even if a panic
// unwinds through it (a thrown exception), via the deferred pop.
// Matches Evaluator.cpp's Block case: the statement loop only ever
// checks `returned` to stop early, leaving break/continue to be
// consumed by the nearest enclosing loop's own check.
func (e *Evaluator) execBlock(b *ast.Block) {
	bs := b.Scope.(*scope.BlockScope)
	fr := e.pushFrame(len(bs.Vars))
	defer e.popFrame()

	for _, s := range b.Stmts {
		e.execStmt(s)
		if fr.returned || fr.breaked || fr.continued {
			return
		}
	}
}

func (e *Evaluator) execIf(s *ast.IfStmt) {
	if e.evalExpr(s.Cond).(*object.Primitive).GetVB() {
		e.execBlock(s.Then)
		return
	}
	if s.Else != nil {
		e.execStmt(s.Else)
	}
}

// execWhile pushes one frame for the loop body (also the frame
// break/continue target, addressed via WhileStmt's own depth in
// scope.NewBlockScope) and loops until the condition is false or a
// break fires. continued is reset at the top of every iteration: the
// original leaves the flag set after a continue, which would make
// every following iteration stop after its first statement — a bug
// this port does not reproduce.
func (e *Evaluator) execWhile(s *ast.WhileStmt) {
	bs := s.Body.Scope.(*scope.BlockScope)
	fr := e.pushFrame(len(bs.Vars))
	defer e.popFrame()

	e.loopStack = append(e.loopStack, len(e.varStack)-1)
	defer func() { e.loopStack = e.loopStack[:len(e.loopStack)-1] }()

	for e.evalExpr(s.Cond).(*object.Primitive).GetVB() {
		fr.continued = false
		for _, stmt := range s.Body.Stmts {
			e.execStmt(stmt)
			if fr.returned || fr.breaked || fr.continued {
				break
			}
		}
		if fr.returned || fr.breaked {
			return
		}
	}
}

// execReturn evaluates the return value (if any), stores it on the
// owning function's argument frame, and marks every frame from the
// top of the variable-stack down to that frame, inclusive, as
// returned — the cascading unwind Evaluator.cpp's Return case performs
// by walking var_stack down to the call_stack boundary.
func (e *Evaluator) execReturn(s *ast.ReturnStmt) {
	result := e.none
	if s.Value != nil {
		result = e.evalExpr(s.Value)
	}
	e.frameAt(s.ScopeDistance).funcResult = result
	e.markUnwind(s.ScopeDistance, func(fr *frame) { fr.returned = true })
}

// execThrow raises a thrownValue panic; execTryCatch is the only
// intended recovery point.
func (e *Evaluator) execThrow(s *ast.ThrowStmt) {
	val := e.evalExpr(s.Value)
	panic(thrownValue{val: val, typ: val.Type()})
}

// execTryCatch runs Body and, if a thrownValue panic unwinds through
// it, dispatches to the first Catch clause whose declared type equals
// the thrown value's type, binding it at that clause's own
// scope-allocated slot (scope.NewBlockScope folds the exception
// binding into the catch body's own frame, at index 0). An unmatched
// exception is re-panicked for an outer try or, if none, Run's
// top-level recover.
func (e *Evaluator) execTryCatch(s *ast.TryCatchStmt) {
	caught, handled := e.runProtectedBlock(s.Body)
	if !handled {
		return
	}
	for _, cc := range s.Catches {
		if !cc.Ty.Equals(caught.typ) {
			continue
		}
		e.execCatch(cc, caught.val)
		return
	}
	panic(caught)
}

// runProtectedBlock runs b and reports whether a thrownValue panic was
// recovered from it (and, if so, the thrown value) — factored out of
// execTryCatch so the recover() call sits in its own deferred closure.
func (e *Evaluator) runProtectedBlock(b *ast.Block) (caught thrownValue, handled bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		tv, ok := r.(thrownValue)
		if !ok {
			panic(r)
		}
		caught, handled = tv, true
	}()
	e.execBlock(b)
	return thrownValue{}, false
}

func (e *Evaluator) execCatch(cc *ast.CatchClause, val object.Object) {
	bs := cc.Body.Scope.(*scope.BlockScope)
	fr := e.pushFrame(len(bs.Vars))
	defer e.popFrame()
	fr.vars[cc.ScopeIndex] = val

	for _, stmt := range cc.Body.Stmts {
		e.execStmt(stmt)
		if fr.returned || fr.breaked || fr.continued {
			return
		}
	}
}
