package evaluator

import (
	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/object"
	"github.com/flamelang/flame/internal/types"
)

// evalExpr evaluates e to a value. Every case here corresponds to one
// arm of Evaluator.cpp's evaluate()/eval_expr() switch.
func (ev *Evaluator) evalExpr(expr ast.Expr) object.Object {
	switch x := expr.(type) {
	case *ast.IntLit:
		return object.NewInt(x.Value)
	case *ast.FloatLit:
		return object.NewFloat(x.Value)
	case *ast.BoolLit:
		return object.NewBool(x.Value)
	case *ast.CharLit:
		return object.NewChar(x.Value)
	case *ast.StringLit:
		return object.NewString(x.Value)
	case *ast.NoneLit:
		return ev.none
	case *ast.ArrayLit:
		return ev.evalArrayLit(x)
	case *ast.Identifier:
		return ev.evalIdentifier(x)
	case *ast.ScopeResol:
		return ev.evalScopeResol(x)
	case *ast.MemberAccess:
		return ev.evalMemberAccess(x)
	case *ast.IndexExpr:
		return ev.evalIndex(x)
	case *ast.UnaryExpr:
		return ev.evalUnary(x)
	case *ast.BinaryExpr:
		return ev.evalBinary(x)
	case *ast.AssignExpr:
		return ev.evalAssign(x)
	case *ast.CallExpr:
		return ev.evalCall(x)
	default:
		ev.internalErrorf(expr.Pos(), "evaluator: unhandled expression %T", expr)
		return ev.none
	}
}

func (ev *Evaluator) evalArrayLit(x *ast.ArrayLit) object.Object {
	it := object.NewIterable(types.Vector, x.ElemType)
	for _, el := range x.Elements {
		it.Append(ev.evalExpr(el))
	}
	return it
}

// evalIdentifier reads a variable, or builds a first-class function
// value for a bare function name used as a value (not immediately
// called — that path goes through evalCall instead). Reaching
// IdentUnresolved, IdentClassName, or IdentEnumName here means a
// well-formed program never does this: Sema either rewrites the
// enclosing CallExpr/ScopeResol to consume them directly, or rejects
// the program outright — so this is the programmer-error branch of
// spec.md §7, matching Evaluator.cpp's default-case abort in
// evaluate() for Identifier/ScopeResol/MemberAccess.
func (ev *Evaluator) evalIdentifier(id *ast.Identifier) object.Object {
	switch id.Resolved.Kind {
	case ast.IdentVariable:
		return ev.frameAt(id.Resolved.Depth).vars[id.Resolved.Index]
	case ast.IdentFuncName:
		fn := id.Resolved.Candidates[0]
		return object.NewFuncCallable(fn, funcValueType(fn))
	case ast.IdentBuiltinFuncName:
		bf := id.Resolved.CandidatesBuiltin[0]
		return object.NewBuiltinCallable(bf, builtinValueType(bf))
	case ast.IdentMemberVariable:
		self := ev.currentSelf().(*object.Instance)
		return self.GetMVar(id.Resolved.Index)
	case ast.IdentMemberFunction:
		fn := id.Resolved.Candidates[0]
		c := object.NewFuncCallable(fn, funcValueType(fn))
		c.SelfObj = ev.currentSelf()
		c.IsMethod = true
		return c
	default:
		ev.internalErrorf(id.Pos(), "evaluator: unresolved identifier %q reached evaluation", id.Name)
		return ev.none
	}
}

func (ev *Evaluator) evalScopeResol(s *ast.ScopeResol) object.Object {
	switch s.Resolved.Kind {
	case ast.ScopeResolEnumerator:
		return object.NewEnumerator(types.FromEnumerator(s.Resolved.Enum, s.Resolved.EnumeratorIdx))
	case ast.ScopeResolMemberFunc:
		// Parsed but never produced by Sema in practice (DESIGN.md):
		// a qualified member-function reference has no "self" to bind,
		// so there is nothing meaningful to build here.
		ev.internalErrorf(s.Pos(), "evaluator: qualified member-function reference is not a runtime value")
		return ev.none
	default:
		ev.internalErrorf(s.Pos(), "evaluator: unresolved scope resolution %q reached evaluation", s.Member)
		return ev.none
	}
}

// evalMemberAccess reads a.Name as a value (not a call — evalCall
// handles that directly via CalleeFunc/CalleeBuiltin so it never
// revisits this function for the callee of "a.f(...)").
func (ev *Evaluator) evalMemberAccess(m *ast.MemberAccess) object.Object {
	switch m.Resolved.Kind {
	case ast.MemberVariable:
		inst := ev.evalExpr(m.Left).(*object.Instance)
		return inst.GetMVar(m.Resolved.VarIndex)
	case ast.MemberFunction:
		self := ev.evalExpr(m.Left)
		fn := m.Resolved.Candidates[0]
		c := object.NewFuncCallable(fn, funcValueType(fn))
		c.SelfObj = self
		c.IsMethod = true
		return c
	case ast.BuiltinMemberFunction:
		self := ev.evalExpr(m.Left)
		bf := m.Resolved.BuiltinFuncs[0]
		c := object.NewBuiltinCallable(bf, builtinValueType(bf))
		c.SelfObj = self
		c.IsMethod = true
		return c
	default:
		// BuiltinMemberVariable is declared for symmetry with the
		// resolution-kind enum but no builtin registers one (see
		// builtins.MemberVar's doc comment) — unreachable in practice.
		ev.internalErrorf(m.Pos(), "evaluator: unresolved member access %q reached evaluation", m.Name)
		return ev.none
	}
}

func (ev *Evaluator) evalIndex(x *ast.IndexExpr) object.Object {
	left := ev.evalExpr(x.Left)
	idx := ev.evalExpr(x.Index).(*object.Primitive).GetVI()
	switch c := left.(type) {
	case *object.Iterable:
		if idx < 0 || idx >= int64(c.Len()) {
			ev.runtimeErrorf(x.Pos(), "index %d out of range (length %d)", idx, c.Len())
		}
		return c.Index(idx)
	case *object.Tuple:
		if idx < 0 || idx >= int64(len(c.Elems)) {
			ev.runtimeErrorf(x.Pos(), "index %d out of range (length %d)", idx, len(c.Elems))
		}
		return c.Get(int(idx))
	default:
		ev.internalErrorf(x.Pos(), "evaluator: index on non-indexable %s", left.Type())
		return ev.none
	}
}

func (ev *Evaluator) evalUnary(u *ast.UnaryExpr) object.Object {
	v := ev.evalExpr(u.Operand)
	switch u.Op {
	case ast.Not:
		return object.NewBool(!v.(*object.Primitive).GetVB())
	default:
		ev.internalErrorf(u.Pos(), "evaluator: unhandled unary operator")
		return ev.none
	}
}

// evalAssign evaluates the right-hand side, assigns it to the
// left-hand target in place, and yields the assigned value (so
// "x = y = 1" chains the way an expression-statement language
// expects).
func (ev *Evaluator) evalAssign(a *ast.AssignExpr) object.Object {
	val := ev.evalExpr(a.Right)
	ev.assign(a.Left, val)
	return val
}

// assign is the Go-idiomatic replacement for eval_as_left: rather than
// returning a mutable reference, it mutates the target directly. This
// works without an indirection layer because every mutable runtime
// value (Iterable, Instance) is already a Go pointer — the same
// sharing eval_as_left exists to provide in the original.
func (ev *Evaluator) assign(target ast.Expr, val object.Object) {
	switch l := target.(type) {
	case *ast.Identifier:
		if l.Resolved.Kind == ast.IdentMemberVariable {
			ev.currentSelf().(*object.Instance).SetMVar(l.Resolved.Index, val)
			return
		}
		ev.frameAt(l.Resolved.Depth).vars[l.Resolved.Index] = val
	case *ast.IndexExpr:
		container := ev.evalExpr(l.Left)
		idx := ev.evalExpr(l.Index).(*object.Primitive).GetVI()
		it, ok := container.(*object.Iterable)
		if !ok {
			ev.internalErrorf(l.Pos(), "evaluator: index assignment on non-indexable %s", container.Type())
			return
		}
		if idx < 0 || idx >= int64(it.Len()) {
			ev.runtimeErrorf(l.Pos(), "index %d out of range (length %d)", idx, it.Len())
		}
		it.SetIndex(idx, val)
	case *ast.MemberAccess:
		inst := ev.evalExpr(l.Left).(*object.Instance)
		inst.SetMVar(l.Resolved.VarIndex, val)
	default:
		ev.internalErrorf(target.Pos(), "evaluator: invalid assignment target %T", target)
	}
}

// funcValueType and builtinValueType build the Info of a function
// referenced as a plain value (stored in a variable, passed around) —
// needed only for that case, since a direct call dispatches through
// CallExpr.Kind without ever constructing a Callable's type.
func funcValueType(fn *ast.Function) types.Info {
	params := make([]types.Info, 0, len(fn.Args)+1)
	params = append(params, fn.ResultType)
	for _, a := range fn.Args {
		params = append(params, a.Ty)
	}
	return types.Info{Kind: types.Function, Params: params, IsFreeArgs: fn.IsVarArg, IsMemberFunc: fn.MemberOf != nil}
}

func builtinValueType(bf ast.BuiltinFunction) types.Info {
	params := append([]types.Info{bf.ResultType()}, bf.ArgTypes()...)
	return types.Info{Kind: types.Function, Params: params, IsFreeArgs: bf.IsVariableArgs()}
}
