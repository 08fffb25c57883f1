package sema

import (
	"strings"

	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/internal/scope"
	"github.com/flamelang/flame/internal/types"
	"github.com/flamelang/flame/pkg/token"
)

// instRequest is a deferred checking task for one concrete clone of a
// generic function, queued the moment a call site's argument-type
// inference succeeds and drained after the rest of the program has
// been checked (spec.md §4.4.4).
type instRequest struct {
	clone    *ast.Function
	bookmark scope.Bookmark
	fnScope  *scope.FunctionScope
	loc      string
}

// funcArgTypes evaluates fn's formal argument types fresh, rather than
// trusting whatever's already cached on fn.Args[i].Ty — a call site
// may be checked before the callee's own Function statement is
// reached by the top-down walk (forward reference within one block),
// so nothing here may assume fn has already been through
// checkFunction.
func (c *Checker) funcArgTypes(fn *ast.Function) []types.Info {
	out := make([]types.Info, len(fn.Args))
	for i, a := range fn.Args {
		out[i] = c.evalTypeExpr(a.DeclaredTy)
	}
	return out
}

func (c *Checker) funcRetType(fn *ast.Function) types.Info {
	if fn.DeclaredRet == nil {
		return types.New(types.None)
	}
	return c.evalTypeExpr(fn.DeclaredRet)
}

// pushInstScope / popInstScope / lookupTemplateParam implement the
// instantiation-scope stack: template parameter names resolve to
// concrete types only while a generic candidate's formal/return types
// are being evaluated under a specific binding (spec.md §4.4.4 steps
// 1-4).
func (c *Checker) pushInstScope(binding map[string]types.Info) {
	c.instScopeStack = append(c.instScopeStack, binding)
}

func (c *Checker) popInstScope() {
	c.instScopeStack = c.instScopeStack[:len(c.instScopeStack)-1]
}

func (c *Checker) lookupTemplateParam(name string) (types.Info, bool) {
	for i := len(c.instScopeStack) - 1; i >= 0; i-- {
		if t, ok := c.instScopeStack[i][name]; ok {
			return t, true
		}
	}
	return types.Info{}, false
}

// isTemplateParamName reports whether te is exactly one of fn's own
// template parameter names with no type arguments of its own — the
// "formal argument whose type is exactly a template-parameter name"
// case spec.md §4.4.4 relies on for one-pass positional inference.
func isTemplateParamName(fn *ast.Function, te *ast.TypeExpr) (string, bool) {
	if te == nil || len(te.Params) != 0 {
		return "", false
	}
	for _, p := range fn.TemplateParams {
		if p == te.Name {
			return p, true
		}
	}
	return "", false
}

// instKey renders a template binding as a stable map key, ordered by
// fn's own template-parameter declaration order so two calls that
// bind the same concrete types always hit the same memoized
// instantiation (spec.md §4.4.4 "memoized", §8 scenario 2).
func instKey(templateParams []string, bound map[string]types.Info) string {
	parts := make([]string, len(templateParams))
	for i, p := range templateParams {
		parts[i] = bound[p].String()
	}
	return strings.Join(parts, ",")
}

// tryInstantiate attempts one generic candidate against a call site's
// actual argument types, implementing spec.md §4.4.4 in full:
// positional binding of explicit template arguments, one-pass
// positional inference from the remaining formals, rejection (not an
// error — the candidate is simply dropped) on any unset parameter or
// inference mismatch, then evaluation of the formal/return types under
// the bound instantiation scope and memoized clone/queue bookkeeping.
//
// Returns ok=false when the candidate does not apply; the caller
// (resolveUserCall) treats that exactly like a non-generic candidate
// that failed argument matching.
func (c *Checker) tryInstantiate(fn *ast.Function, explicit []types.Info, actuals []types.Info, callPos token.Position) (clone *ast.Function, argTypes []types.Info, retType types.Info, ok bool) {
	if len(explicit) > len(fn.TemplateParams) {
		return nil, nil, types.Info{}, false
	}

	bound := map[string]types.Info{}
	for i, t := range explicit {
		bound[fn.TemplateParams[i]] = t
	}

	for i, a := range fn.Args {
		if i >= len(actuals) {
			break
		}
		name, isParam := isTemplateParamName(fn, a.DeclaredTy)
		if !isParam {
			continue
		}
		if existing, has := bound[name]; has {
			if !existing.Equals(actuals[i]) {
				return nil, nil, types.Info{}, false
			}
			continue
		}
		bound[name] = actuals[i]
	}

	for _, p := range fn.TemplateParams {
		if _, has := bound[p]; !has {
			return nil, nil, types.Info{}, false
		}
	}

	key := instKey(fn.TemplateParams, bound)
	if existing, has := fn.Instantiations[key]; has {
		argTypes = make([]types.Info, len(existing.Args))
		for i, a := range existing.Args {
			argTypes[i] = a.Ty
		}
		return existing, argTypes, existing.ResultType, true
	}

	c.pushInstScope(bound)
	argTypes = c.funcArgTypes(fn)
	retType = c.funcRetType(fn)
	c.popInstScope()

	clone = cloneFunction(fn)
	clone.TemplateParams = nil
	clone.IsTemplate = false
	clone.ResultType = retType
	for i := range clone.Args {
		clone.Args[i].Ty = argTypes[i]
	}

	if fn.Instantiations == nil {
		fn.Instantiations = map[string]*ast.Function{}
	}
	fn.Instantiations[key] = clone

	fs, okFS := fn.Scope.(*scope.FunctionScope)
	if !okFS {
		c.sink.Fatal(callPos, diag.CategoryInternal, "sema: generic function %q has no scope", fn.Name)
	}
	instFS := fs.NewInstantiation(clone)

	c.instQueue = append(c.instQueue, &instRequest{
		clone:    clone,
		bookmark: scope.Save(c.cur),
		fnScope:  instFS,
		loc:      instantiationLocation(fn, bound, actuals),
	})

	return clone, argTypes, retType, true
}

// instantiationLocation renders the "in instantiation of
// 'name@<T=int>(string)'" note spec.md §4.4.4/§7 prescribes.
func instantiationLocation(fn *ast.Function, bound map[string]types.Info, actuals []types.Info) string {
	var sb strings.Builder
	sb.WriteString("in instantiation of '")
	sb.WriteString(fn.Name)
	sb.WriteString("@<")
	for i, p := range fn.TemplateParams {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p)
		sb.WriteString("=")
		sb.WriteString(bound[p].String())
	}
	sb.WriteString(">(")
	for i, a := range actuals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")'")
	return sb.String()
}

// drainInstantiations checks every queued instantiation request in
// FIFO order. Checking one instantiation can itself enqueue further
// requests (an instantiated function calling another generic
// function), so the loop re-reads c.instQueue's length each time
// rather than ranging over a snapshot.
func (c *Checker) drainInstantiations() {
	for len(c.instQueue) > 0 {
		req := c.instQueue[0]
		c.instQueue = c.instQueue[1:]
		c.checkInstantiationRequest(req)
	}
}

func (c *Checker) checkInstantiationRequest(req *instRequest) {
	mark := c.sink.Mark()
	defer diag.RecoverInstantiation(c.sink, mark, req.loc)

	prevCur, prevFunc, prevFS := c.cur, c.curFunc, c.curFuncScope
	c.cur = req.bookmark.Restore()
	c.curFunc, c.curFuncScope = req.clone, req.fnScope

	fn := req.clone
	fn.ReturnStmts = collectReturns(fn.Body)
	if !fn.ResultType.IsNone() && len(fn.ReturnStmts) == 0 {
		c.sink.Emit(fn.Pos(), diag.CategoryType, "function %q must return a value of type %s", fn.Name, fn.ResultType)
	} else if !fn.ResultType.IsNone() && !endsInReturn(fn.Body) {
		c.sink.Emit(fn.Pos(), diag.CategoryType, "expected return-statement")
	}
	c.checkBlock(fn.Body)

	c.cur, c.curFunc, c.curFuncScope = prevCur, prevFunc, prevFS
}
