package evaluator

import (
	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/builtins"
	"github.com/flamelang/flame/internal/object"
	"github.com/flamelang/flame/pkg/token"
)

// evalCall dispatches a CallExpr by the kind Sema already settled on
// (spec.md §4.4.3): exactly one of the four ways a call can run.
func (ev *Evaluator) evalCall(ce *ast.CallExpr) object.Object {
	switch ce.Kind {
	case ast.CallUserFunc:
		return ev.callUserFunc(ce)
	case ast.CallBuiltin:
		return ev.callBuiltin(ce)
	case ast.CallCtor:
		return ev.callCtor(ce)
	case ast.CallFunctor:
		return ev.callFunctor(ce)
	default:
		ev.internalErrorf(ce.Pos(), "evaluator: call not resolved")
		return ev.none
	}
}

// evalReceiverIfMember evaluates ce.Callee's receiver when the callee
// is a member access, yielding the instance a user method's bare
// member names resolve against (see callFunction's self parameter). A
// plain Identifier callee has no receiver expression to evaluate here
// — evalCall already has CalleeFunc/CalleeBuiltin/Ctor in hand, so
// re-evaluating the name would be redundant. This departs from
// Evaluator.cpp's CallFunc fast path, which for a resolved
// non-functor call never evaluates the callee expression at all,
// silently dropping any side effects a receiver sub-expression like
// "getInstance().method()" might have; this port always evaluates the
// receiver instead.
func (ev *Evaluator) evalReceiverIfMember(callee ast.Expr) object.Object {
	ma, ok := callee.(*ast.MemberAccess)
	if !ok {
		return nil
	}
	return ev.evalExpr(ma.Left)
}

func (ev *Evaluator) evalArgs(args []ast.Expr) []object.Object {
	out := make([]object.Object, len(args))
	for i, a := range args {
		out[i] = ev.evalExpr(a)
	}
	return out
}

func (ev *Evaluator) callUserFunc(ce *ast.CallExpr) object.Object {
	self := ev.evalReceiverIfMember(ce.Callee)
	if self == nil && ce.CalleeFunc.MemberOf != nil {
		// An implicit same-class call: the bare name resolved to one of
		// the current method's own siblings, so it runs against the
		// same receiver (spec.md §3.4).
		self = ev.currentSelf()
	}
	args := ev.evalArgs(ce.Args)
	return ev.callFunction(ce.CalleeFunc, self, args, ce.Pos())
}

func (ev *Evaluator) callBuiltin(ce *ast.CallExpr) object.Object {
	self := ev.evalReceiverIfMember(ce.Callee)
	args := ev.evalArgs(ce.Args)

	if self != nil {
		mf, ok := ce.CalleeBuiltin.(*builtins.MemberFunc)
		if !ok {
			ev.internalErrorf(ce.Pos(), "evaluator: builtin member call resolved to a non-member builtin")
			return ev.none
		}
		res, err := mf.Impl(self, args)
		if err != nil {
			ev.runtimeErrorf(ce.Pos(), "%s", err)
			return ev.none
		}
		return res
	}

	fn, ok := ce.CalleeBuiltin.(*builtins.Func)
	if !ok {
		ev.internalErrorf(ce.Pos(), "evaluator: builtin call resolved to a non-free builtin")
		return ev.none
	}
	res, err := fn.Impl(args)
	if err != nil {
		ev.runtimeErrorf(ce.Pos(), "%s", err)
		return ev.none
	}
	return res
}

// callCtor allocates a fresh instance and assigns constructor
// arguments to member variables positionally, in declaration order —
// no call-stack frame, matching Evaluator.cpp's CallFunc_Ctor (a
// constructor has no body to run).
func (ev *Evaluator) callCtor(ce *ast.CallExpr) object.Object {
	inst := object.NewInstance(ce.Ctor)
	for _, a := range ce.Args {
		inst.AddMemberVar(ev.evalExpr(a))
	}
	return inst
}

// callFunctor evaluates the callee to a first-class Callable value —
// the one case where the callee expression is always evaluated as an
// ordinary expression, since there is no statically-known
// function/builtin to short-circuit to.
func (ev *Evaluator) callFunctor(ce *ast.CallExpr) object.Object {
	val := ev.evalExpr(ce.Callee)
	callable, ok := val.(*object.Callable)
	if !ok {
		ev.internalErrorf(ce.Pos(), "evaluator: functor call on non-callable %s", val.Type())
		return ev.none
	}
	args := ev.evalArgs(ce.Args)

	if callable.Func != nil {
		fn, ok := callable.Func.(*ast.Function)
		if !ok {
			ev.internalErrorf(ce.Pos(), "evaluator: functor wraps an unrecognized function handle")
			return ev.none
		}
		return ev.callFunction(fn, callable.SelfObj, args, ce.Pos())
	}

	switch bf := callable.Builtin.(type) {
	case *builtins.Func:
		res, err := bf.Impl(args)
		if err != nil {
			ev.runtimeErrorf(ce.Pos(), "%s", err)
			return ev.none
		}
		return res
	case *builtins.MemberFunc:
		res, err := bf.Impl(callable.SelfObj, args)
		if err != nil {
			ev.runtimeErrorf(ce.Pos(), "%s", err)
			return ev.none
		}
		return res
	default:
		ev.internalErrorf(ce.Pos(), "evaluator: functor wraps an unrecognized builtin handle")
		return ev.none
	}
}

// callFunction pushes a single argument frame sized to the actual
// argument count (not the declared parameter count — a variadic
// function's extra arguments occupy slots beyond those the scope
// builder allocated LocalVars for, and are simply unaddressable by
// name, matching Evaluator.cpp's `push_stack(x->args.size())` /
// `stack.var_list = std::move(args)`), runs the function body (which
// pushes its own nested frame for the body's own lets, exactly like
// any other Block), and returns the value Return stored on the
// argument frame, or None if control fell off the end.
func (ev *Evaluator) callFunction(fn *ast.Function, self object.Object, args []object.Object, pos interface{ String() string }) object.Object {
	if len(ev.callStack) >= ev.maxCallDepth {
		ev.runtimeErrorf(fn.Pos(), "stack overflow: maximum call depth (%d) exceeded calling %q", ev.maxCallDepth, fn.Name)
		return ev.none
	}

	argFrame := ev.pushFrame(len(args))
	copy(argFrame.vars, args)
	ev.callStack = append(ev.callStack, len(ev.varStack)-1)
	ev.selfStack = append(ev.selfStack, self)
	defer func() {
		ev.selfStack = ev.selfStack[:len(ev.selfStack)-1]
		ev.callStack = ev.callStack[:len(ev.callStack)-1]
		ev.popFrame()
	}()

	ev.execBlock(fn.Body)

	if argFrame.funcResult == nil {
		return ev.none
	}
	return argFrame.funcResult
}
