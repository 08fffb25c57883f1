package sema

import (
	"strings"

	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/builtins"
	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/internal/types"
	"github.com/flamelang/flame/pkg/token"
)

// joinTypes renders an actual-argument type list for a "not defined"
// diagnostic, e.g. "int, string" for h(1, "s").
func joinTypes(ts []types.Info) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// evalType is Sema::eval_type's dispatcher (spec.md §4.4.3): it
// returns the type of an expression and, for Identifier/ScopeResol/
// MemberAccess/CallExpr, mutates the node's resolution fields in
// place. mustComplete is always true through this entry point —
// ambiguity is only deferred when a CallExpr evaluates its own callee
// (see evalCalleeAmbiguous).
func (c *Checker) evalType(e ast.Expr) types.Info {
	switch ex := e.(type) {
	case *ast.IntLit:
		return types.New(types.Int)
	case *ast.FloatLit:
		return types.New(types.Float)
	case *ast.BoolLit:
		return types.New(types.Bool)
	case *ast.CharLit:
		return types.New(types.Char)
	case *ast.StringLit:
		return types.New(types.String)
	case *ast.NoneLit:
		return types.New(types.None)
	case *ast.ArrayLit:
		return c.evalArrayLit(ex)
	case *ast.Identifier:
		return c.evalIdentifier(ex, true)
	case *ast.ScopeResol:
		return c.evalScopeResol(ex, true)
	case *ast.CallExpr:
		return c.evalCallExpr(ex)
	case *ast.MemberAccess:
		return c.evalMemberAccess(ex, true)
	case *ast.AssignExpr:
		return c.evalAssign(ex)
	case *ast.IndexExpr:
		return c.evalIndex(ex)
	case *ast.UnaryExpr:
		return c.evalUnary(ex)
	case *ast.BinaryExpr:
		return c.evalBinary(ex)
	default:
		c.sink.Fatal(e.Pos(), diag.CategoryInternal, "sema: unhandled expression %T", e)
		return types.Info{}
	}
}

// evalCalleeAmbiguous evaluates a CallExpr's callee with ambiguity
// allowed: an overloaded/generic name is left as a bare Function
// placeholder rather than erroring, since CallExpr itself can still
// disambiguate via argument-type matching (spec.md §4.4.3
// "must_completed").
func (c *Checker) evalCalleeAmbiguous(e ast.Expr) types.Info {
	switch ex := e.(type) {
	case *ast.Identifier:
		return c.evalIdentifier(ex, false)
	case *ast.ScopeResol:
		return c.evalScopeResol(ex, false)
	case *ast.MemberAccess:
		return c.evalMemberAccess(ex, false)
	default:
		return c.evalType(e)
	}
}

// --- Array literal ---

func (c *Checker) evalArrayLit(a *ast.ArrayLit) types.Info {
	if len(a.Elements) == 0 {
		if exp, ok := c.currentExpected(); ok && exp.Kind == types.Vector {
			a.ElemType = exp.Params[0]
			return exp
		}
		c.sink.Fatal(a.Pos(), diag.CategoryType, "cannot deduce element type of an empty array literal")
	}

	first := c.evalType(a.Elements[0])
	for _, el := range a.Elements[1:] {
		t := c.evalType(el)
		if !t.Equals(first) {
			c.sink.Emit(el.Pos(), diag.CategoryType, "array element has type %s, expected %s", t, first)
		}
	}
	a.ElemType = first
	return types.NewParam(types.Vector, first)
}

func (c *Checker) pushExpected(t types.Info) { c.expectedStack = append(c.expectedStack, t) }
func (c *Checker) popExpected()              { c.expectedStack = c.expectedStack[:len(c.expectedStack)-1] }
func (c *Checker) currentExpected() (types.Info, bool) {
	if len(c.expectedStack) == 0 {
		return types.Info{}, false
	}
	return c.expectedStack[len(c.expectedStack)-1], true
}

// --- Identifier ---

// evalIdentifier is the Identifier half of spec.md §4.4.3's most
// intricate case: it computes an IdentifierInfo (here, the mutation
// written straight onto id.Resolved), consulting the same name
// precedence as resolveName (variable, then user function, then
// class/enum, then builtin function).
func (c *Checker) evalIdentifier(id *ast.Identifier, mustComplete bool) types.Info {
	explicit := make([]types.Info, len(id.ExplicitTemplateArgs))
	for i, te := range id.ExplicitTemplateArgs {
		explicit[i] = c.evalTypeExpr(te)
	}
	id.Resolved.TemplateArgs = explicit
	id.Resolved.MustComplete = mustComplete

	res := c.resolveName(id.Name)
	switch res.kind {
	case nameVar:
		id.Resolved.Kind = ast.IdentVariable
		if !res.lvar.IsTypeDeduced {
			c.sink.Fatal(id.Pos(), diag.CategoryType, "%q used before its type is known", id.Name)
		}
		id.Resolved.Depth = c.cur.Depth() - res.lvar.Depth
		id.Resolved.Index = res.lvar.Index
		return res.lvar.DeducedType

	case nameFunc:
		id.Resolved.Kind = ast.IdentFuncName
		id.Resolved.Candidates = res.funcs

		allGeneric := true
		for _, f := range res.funcs {
			if !f.IsTemplate {
				allGeneric = false
			}
		}
		if allGeneric && len(explicit) == 0 && mustComplete {
			c.sink.Fatal(id.Pos(), diag.CategoryType, "function %q cannot be used without template arguments", id.Name)
		}

		if !mustComplete {
			// Deferred to CallExpr: argument-type matching (and, for
			// generic candidates, inference) will pick the winner.
			return types.New(types.Function)
		}

		if len(res.funcs) > 1 {
			d := diag.Diagnostic{Severity: diag.SevError, Category: diag.CategoryType,
				Pos: id.Pos(), Message: "ambiguous reference to function '" + id.Name + "'"}
			for i, f := range res.funcs {
				if i >= 3 {
					break
				}
				d = d.AddNote(f.Pos(), "candidate: "+f.String())
			}
			c.sink.FatalDiagnostic(d)
		}
		fn := res.funcs[0]
		argTypes := c.funcArgTypes(fn)
		retType := c.funcRetType(fn)
		params := append([]types.Info{retType}, argTypes...)
		return types.Info{Kind: types.Function, Params: params, IsFreeArgs: fn.IsVarArg}

	case nameBuiltinFunc:
		id.Resolved.Kind = ast.IdentBuiltinFuncName
		id.Resolved.CandidatesBuiltin = []ast.BuiltinFunction{res.builtin}
		if !mustComplete {
			return types.New(types.Function)
		}
		params := append([]types.Info{res.builtin.ResultType()}, res.builtin.ArgTypes()...)
		return types.Info{Kind: types.Function, Params: params, IsFreeArgs: res.builtin.IsVariableArgs()}

	case nameClass:
		id.Resolved.Kind = ast.IdentClassName
		id.Resolved.Class = res.class
		return types.FromClass(res.class)

	case nameEnum:
		id.Resolved.Kind = ast.IdentEnumName
		id.Resolved.Enum = res.enum
		return types.FromEnum(res.enum)

	case nameMemberVar:
		id.Resolved.Kind = ast.IdentMemberVariable
		id.Resolved.Class = res.class
		id.Resolved.Index = res.memberIdx
		return res.memberVar.Ty

	case nameMemberFunc:
		id.Resolved.Kind = ast.IdentMemberFunction
		id.Resolved.Class = res.class
		id.Resolved.Candidates = res.funcs

		if !mustComplete {
			return types.New(types.Function)
		}
		if len(res.funcs) > 1 {
			d := diag.Diagnostic{Severity: diag.SevError, Category: diag.CategoryType,
				Pos: id.Pos(), Message: "ambiguous reference to member function '" + id.Name + "'"}
			for i, f := range res.funcs {
				if i >= 3 {
					break
				}
				d = d.AddNote(f.Pos(), "candidate: "+f.String())
			}
			c.sink.FatalDiagnostic(d)
		}
		fn := res.funcs[0]
		argTypes := c.funcArgTypes(fn)
		retType := c.funcRetType(fn)
		params := append([]types.Info{retType}, argTypes...)
		return types.Info{Kind: types.Function, Params: params, IsFreeArgs: fn.IsVarArg}

	default:
		c.sink.Fatal(id.Pos(), diag.CategoryUndefined, "%q is not defined", id.Name)
		return types.Info{}
	}
}

// --- ScopeResol (Name::Member) ---

// evalScopeResol resolves "EnumName::Variant" (spec.md's
// NameType::Enumerator). A qualified static member-function reference
// ("ClassName::method") is parsed into the same node but is not
// exercised by this language's surface grammar — classes have no
// static methods — so ScopeResolMemberFunc is declared but never
// produced; see DESIGN.md.
func (c *Checker) evalScopeResol(sr *ast.ScopeResol, mustComplete bool) types.Info {
	sr.Resolved.AllowAmbiguous = !mustComplete

	id, ok := sr.Left.(*ast.Identifier)
	if !ok {
		c.sink.Fatal(sr.Pos(), diag.CategoryType, "left-hand side of '::' must be a name")
	}

	res := c.resolveName(id.Name)
	if res.kind != nameEnum {
		c.sink.Fatal(sr.Pos(), diag.CategoryUndefined, "%q is not an enum", id.Name)
	}

	idx := res.enum.Index(sr.Member)
	if idx < 0 {
		c.sink.Fatal(sr.Pos(), diag.CategoryUndefined, "enum %q has no enumerator %q", res.enum.Name, sr.Member)
	}

	sr.Resolved.Kind = ast.ScopeResolEnumerator
	sr.Resolved.Enum = res.enum
	sr.Resolved.EnumeratorIdx = idx
	return types.FromEnumerator(res.enum, idx)
}

// --- MemberAccess ---

func (c *Checker) evalMemberAccess(ma *ast.MemberAccess, mustComplete bool) types.Info {
	leftTy := c.evalType(ma.Left)
	ma.Resolved.AllowAmbiguous = !mustComplete

	if leftTy.Kind == types.Instance {
		cls, _ := leftTy.Class.(*ast.Class)
		if idx := cls.MemberIndex(ma.Name); idx >= 0 {
			ma.Resolved.Kind = ast.MemberVariable
			ma.Resolved.VarIndex = idx
			ma.Resolved.Class = cls
			return c.evalTypeExpr(cls.MemberVars[idx].DeclaredTy)
		}

		methods := cls.Method(ma.Name)
		if len(methods) > 0 {
			ma.Resolved.Kind = ast.MemberFunction
			ma.Resolved.Candidates = methods
			ma.Resolved.SelfType = leftTy
			if !mustComplete {
				return types.New(types.Function)
			}
			if len(methods) > 1 {
				c.sink.Fatal(ma.Pos(), diag.CategoryType, "ambiguous reference to method %q", ma.Name)
			}
			fn := methods[0]
			argTypes := c.funcArgTypes(fn)
			retType := c.funcRetType(fn)
			params := append([]types.Info{retType, leftTy}, argTypes...)
			return types.Info{Kind: types.Function, Params: params, IsMemberFunc: true, IsFreeArgs: fn.IsVarArg}
		}

		c.sink.Fatal(ma.Pos(), diag.CategoryUndefined, "%s has no member %q", leftTy, ma.Name)
	}

	if leftTy.Kind == types.Enumerator {
		// Struct-shaped enumerator member access: explicit "not yet
		// supported" per spec.md §9 open question (c) and the
		// original's todo_impl.
		c.sink.Fatal(ma.Pos(), diag.CategoryInternal, "member access on enumerator values is not yet supported")
	}

	switch leftTy.Kind {
	case types.String:
		if mf, ok := builtins.StringMembers[ma.Name]; ok {
			ma.Resolved.Kind = ast.BuiltinMemberFunction
			ma.Resolved.BuiltinFuncs = []ast.BuiltinFunction{mf}
			if !mustComplete {
				return types.New(types.Function)
			}
			params := append([]types.Info{mf.ResultType()}, mf.ArgTypes()...)
			return types.Info{Kind: types.Function, Params: params, IsMemberFunc: true, IsFreeArgs: mf.IsVariableArgs()}
		}
	case types.Vector:
		if mf, ok := builtins.VectorMembers[ma.Name]; ok {
			ma.Resolved.Kind = ast.BuiltinMemberFunction
			ma.Resolved.BuiltinFuncs = []ast.BuiltinFunction{mf}
			if !mustComplete {
				return types.New(types.Function)
			}
			params := append([]types.Info{mf.ResultType()}, mf.ArgTypes()...)
			return types.Info{Kind: types.Function, Params: params, IsMemberFunc: true, IsFreeArgs: mf.IsVariableArgs()}
		}
	}

	c.sink.Fatal(ma.Pos(), diag.CategoryUndefined, "%s has no member %q", leftTy, ma.Name)
	return types.Info{}
}

// --- Assign / Index / Unary / Binary ---

// evalAssign implements spec.md §4.4.3's Assign case. This language's
// surface grammar has no implicit-declaration form ("x = 1;" for an
// undeclared x is a plain undefined-name error, since every local
// comes from an explicit "let") — so the "deduce an as-yet-undeclared
// local's type from RHS" branch the original describes never fires
// here; see DESIGN.md.
func (c *Checker) evalAssign(a *ast.AssignExpr) types.Info {
	rhsTy := c.evalType(a.Right)
	lhsTy := c.evalType(a.Left)

	if !lhsTy.Equals(rhsTy) {
		c.sink.Emit(a.Pos(), diag.CategoryType, "cannot assign value of type %s to %s", rhsTy, lhsTy)
	}

	switch l := a.Left.(type) {
	case *ast.Identifier:
		if l.Resolved.Kind != ast.IdentVariable && l.Resolved.Kind != ast.IdentMemberVariable {
			c.sink.Fatal(a.Pos(), diag.CategoryType, "left-hand side of assignment is not writable")
		}
	case *ast.IndexExpr:
		// always writable
	case *ast.MemberAccess:
		if l.Resolved.Kind != ast.MemberVariable {
			c.sink.Fatal(a.Pos(), diag.CategoryType, "left-hand side of assignment is not writable")
		}
	default:
		c.sink.Fatal(a.Pos(), diag.CategoryType, "left-hand side of assignment is not writable")
	}

	return lhsTy
}

func (c *Checker) evalIndex(x *ast.IndexExpr) types.Info {
	leftTy := c.evalType(x.Left)
	idxTy := c.evalType(x.Index)
	if !idxTy.IsInt() {
		c.sink.Emit(x.Index.Pos(), diag.CategoryType, "index must be int, got %s", idxTy)
	}

	switch leftTy.Kind {
	case types.Vector, types.String:
		if leftTy.Kind == types.String {
			return types.New(types.Char)
		}
		return leftTy.Params[0]
	case types.Dict:
		return leftTy.Params[1]
	default:
		c.sink.Fatal(x.Pos(), diag.CategoryType, "cannot index into %s", leftTy)
		return types.Info{}
	}
}

func (c *Checker) evalUnary(u *ast.UnaryExpr) types.Info {
	operandTy := c.evalType(u.Operand)
	switch u.Op {
	case ast.Not:
		if !operandTy.IsBool() {
			c.sink.Emit(u.Pos(), diag.CategoryType, "operand of '!' must be bool, got %s", operandTy)
		}
		return types.New(types.Bool)
	default:
		c.sink.Fatal(u.Pos(), diag.CategoryInternal, "sema: unhandled unary operator")
		return types.Info{}
	}
}

// evalBinary mirrors the evaluator's operator dispatch (spec.md
// §4.5.2) as a type-only pass: same cases, same open-question
// resolutions, no actual arithmetic performed.
func (c *Checker) evalBinary(b *ast.BinaryExpr) types.Info {
	lt := c.evalType(b.Left)
	rt := c.evalType(b.Right)

	switch b.Op {
	case ast.Add:
		switch {
		case lt.IsString():
			return lt
		case lt.IsVector():
			return lt
		case rt.IsVector() && lt.IsInt():
			// Open question (b): Int + Vector is accepted symmetrically
			// and appends the scalar, matching the original exactly.
			return rt
		case numeric(lt) && numeric(rt):
			if lt.IsFloat() || rt.IsFloat() {
				return types.New(types.Float)
			}
			return types.New(types.Int)
		default:
			c.sink.Fatal(b.Pos(), diag.CategoryType, "operator '+' not defined for %s and %s", lt, rt)
		}

	case ast.Mul:
		switch {
		case (lt.IsString() || lt.IsVector()) && rt.IsInt():
			return lt
		case lt.IsInt() && (rt.IsString() || rt.IsVector()):
			return rt
		case numeric(lt) && numeric(rt):
			if lt.IsFloat() || rt.IsFloat() {
				return types.New(types.Float)
			}
			return types.New(types.Int)
		default:
			c.sink.Fatal(b.Pos(), diag.CategoryType, "operator '*' not defined for %s and %s", lt, rt)
		}

	case ast.Mod, ast.Shl, ast.Shr:
		// Mod is int-only even though Sub/Div accept float: the
		// evaluator's opMod (internal/evaluator/binop.go) only knows
		// how to coerce through Go's int64 '%', unlike the original's
		// get_vi() coercion, so a float operand here must be a Sema
		// error rather than reaching opMod's internal-error path.
		if !lt.IsInt() || !rt.IsInt() {
			c.sink.Fatal(b.Pos(), diag.CategoryType, "operator '%s' requires int operands", b.Op)
		}
		return types.New(types.Int)

	case ast.Sub, ast.Div:
		if !numeric(lt) || !numeric(rt) {
			c.sink.Fatal(b.Pos(), diag.CategoryType, "operator '%s' not defined for %s and %s", b.Op, lt, rt)
		}
		if lt.IsFloat() || rt.IsFloat() {
			return types.New(types.Float)
		}
		return types.New(types.Int)

	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if !orderable(lt) || !orderable(rt) || !lt.EqualsKind(rt.Kind) {
			c.sink.Emit(b.Pos(), diag.CategoryType, "operator '%s' not defined for %s and %s", b.Op, lt, rt)
		}
		return types.New(types.Bool)

	case ast.Eq, ast.Ne:
		if !lt.Equals(rt) {
			c.sink.Emit(b.Pos(), diag.CategoryType, "operator '%s' not defined for %s and %s", b.Op, lt, rt)
		}
		return types.New(types.Bool)

	case ast.LogAnd, ast.LogOr:
		// Open question (a): these type-check as plain bool operators,
		// but fall through to "not implemented" at evaluation time,
		// exactly matching the original's eval_expr default case.
		if !lt.IsBool() || !rt.IsBool() {
			c.sink.Emit(b.Pos(), diag.CategoryType, "operator '%s' requires bool operands", b.Op)
		}
		return types.New(types.Bool)
	}

	c.sink.Fatal(b.Pos(), diag.CategoryInternal, "sema: unhandled binary operator")
	return types.Info{}
}

func orderable(t types.Info) bool { return t.IsInt() || t.IsFloat() || t.IsChar() }

// --- CallExpr ---

// evalCallExpr implements spec.md §4.4.3's CallFunc case: evaluate
// every argument first (their types drive overload resolution and,
// for a generic candidate, template inference), then dispatch on the
// callee's shape to one of the four CallKinds.
func (c *Checker) evalCallExpr(ce *ast.CallExpr) types.Info {
	actuals := make([]types.Info, len(ce.Args))
	for i, a := range ce.Args {
		actuals[i] = c.evalType(a)
	}

	switch callee := ce.Callee.(type) {
	case *ast.Identifier:
		return c.resolveIdentifierCall(ce, callee, actuals)
	case *ast.MemberAccess:
		return c.resolveMemberCall(ce, callee, actuals)
	default:
		calleeTy := c.evalCalleeAmbiguous(ce.Callee)
		return c.resolveFunctorCall(ce, calleeTy, actuals)
	}
}

// resolveIdentifierCall handles "name(args...)": name may be a local
// variable holding a function value, an overload set of user
// functions (possibly generic), a class name (construction), or a
// builtin. The Identifier itself is resolved here with MustComplete
// false — the call's own argument-driven matching is what picks the
// winner, not evalIdentifier's ordinary "exactly one candidate" rule.
func (c *Checker) resolveIdentifierCall(ce *ast.CallExpr, id *ast.Identifier, actuals []types.Info) types.Info {
	explicit := make([]types.Info, len(id.ExplicitTemplateArgs))
	for i, te := range id.ExplicitTemplateArgs {
		explicit[i] = c.evalTypeExpr(te)
	}
	id.Resolved.TemplateArgs = explicit
	id.Resolved.MustComplete = false
	id.Resolved.AllowAmbiguous = true

	res := c.resolveName(id.Name)
	switch res.kind {
	case nameVar:
		id.Resolved.Kind = ast.IdentVariable
		if !res.lvar.IsTypeDeduced {
			c.sink.Fatal(id.Pos(), diag.CategoryType, "%q used before its type is known", id.Name)
		}
		id.Resolved.Depth = c.cur.Depth() - res.lvar.Depth
		id.Resolved.Index = res.lvar.Index
		return c.resolveFunctorCall(ce, res.lvar.DeducedType, actuals)

	case nameFunc:
		id.Resolved.Kind = ast.IdentFuncName
		id.Resolved.Candidates = res.funcs
		return c.resolveUserCall(ce, id.Pos(), id.Name, res.funcs, explicit, actuals)

	case nameBuiltinFunc:
		id.Resolved.Kind = ast.IdentBuiltinFuncName
		id.Resolved.CandidatesBuiltin = []ast.BuiltinFunction{res.builtin}
		return c.resolveBuiltinCall(ce, id.Pos(), id.Resolved.CandidatesBuiltin, actuals)

	case nameClass:
		id.Resolved.Kind = ast.IdentClassName
		id.Resolved.Class = res.class
		return c.resolveCtorCall(ce, res.class, actuals)

	case nameEnum:
		c.sink.Fatal(id.Pos(), diag.CategoryType, "enum %q is not callable", id.Name)
		return types.Info{}

	case nameMemberVar:
		c.sink.Fatal(id.Pos(), diag.CategoryType, "member variable %q is not callable", id.Name)
		return types.Info{}

	case nameMemberFunc:
		id.Resolved.Kind = ast.IdentMemberFunction
		id.Resolved.Class = res.class
		id.Resolved.Candidates = res.funcs
		return c.resolveUserMethodCall(ce, id.Pos(), res.funcs, actuals)

	default:
		c.sink.Fatal(id.Pos(), diag.CategoryUndefined, "%q is not defined", id.Name)
		return types.Info{}
	}
}

// resolveUserCall picks the single user-function overload matching
// actuals, instantiating generic candidates through tryInstantiate
// (spec.md §4.4.4) and matching plain ones through matchArgs (spec.md
// §4.4.5). Zero matches or more than one is an error — this language
// has no implicit conversions to break a tie with.
func (c *Checker) resolveUserCall(ce *ast.CallExpr, pos token.Position, name string, candidates []*ast.Function, explicit []types.Info, actuals []types.Info) types.Info {
	var winner *ast.Function
	var winnerRet types.Info
	matches := 0

	for _, fn := range candidates {
		if fn.IsTemplate {
			clone, _, retType, ok := c.tryInstantiate(fn, explicit, actuals, pos)
			if !ok {
				continue
			}
			matches++
			winner, winnerRet = clone, retType
			continue
		}
		if len(explicit) > 0 {
			continue
		}
		argTypes := c.funcArgTypes(fn)
		if res, _ := matchArgs(argTypes, actuals, fn.IsVarArg); res != matchOk {
			continue
		}
		matches++
		winner, winnerRet = fn, c.funcRetType(fn)
	}

	if matches == 0 {
		c.sink.Fatal(pos, diag.CategoryUndefined, "a function %q(%s) is not defined", name, joinTypes(actuals))
	}
	if matches > 1 {
		c.sink.Fatal(pos, diag.CategoryType, "ambiguous call: multiple overloads match")
	}

	ce.Kind = ast.CallUserFunc
	ce.CalleeFunc = winner
	return winnerRet
}

// resolveUserMethodCall is resolveUserCall's counterpart for methods:
// this language gives methods no template parameters of their own, so
// there is no instantiation step, only ordinary overload matching.
func (c *Checker) resolveUserMethodCall(ce *ast.CallExpr, pos token.Position, candidates []*ast.Function, actuals []types.Info) types.Info {
	var winner *ast.Function
	var winnerRet types.Info
	matches := 0
	for _, fn := range candidates {
		argTypes := c.funcArgTypes(fn)
		if res, _ := matchArgs(argTypes, actuals, fn.IsVarArg); res != matchOk {
			continue
		}
		matches++
		winner, winnerRet = fn, c.funcRetType(fn)
	}
	if matches == 0 {
		c.sink.Fatal(pos, diag.CategoryType, "no matching method overload for call with %d argument(s)", len(actuals))
	}
	if matches > 1 {
		c.sink.Fatal(pos, diag.CategoryType, "ambiguous method call: multiple overloads match")
	}
	ce.Kind = ast.CallUserFunc
	ce.CalleeFunc = winner
	return winnerRet
}

// resolveBuiltinCall implements the builtin tables' "first match
// wins" dispatch rule (spec.md §4.4.3's BuiltinFuncName case).
func (c *Checker) resolveBuiltinCall(ce *ast.CallExpr, pos token.Position, candidates []ast.BuiltinFunction, actuals []types.Info) types.Info {
	for _, bf := range candidates {
		if builtinArgsMatch(bf.ArgTypes(), actuals, bf.IsVariableArgs()) {
			ce.Kind = ast.CallBuiltin
			ce.CalleeBuiltin = bf
			return bf.ResultType()
		}
	}
	c.sink.Fatal(pos, diag.CategoryType, "no matching builtin overload for call with %d argument(s)", len(actuals))
	return types.Info{}
}

// resolveCtorCall matches a class's constructor call against its
// member variables positionally, in declaration order (spec.md
// §4.4.3's CallFunc_Ctor: there is no separate constructor
// declaration, the member-variable list doubles as the signature).
func (c *Checker) resolveCtorCall(ce *ast.CallExpr, cls *ast.Class, actuals []types.Info) types.Info {
	formals := make([]types.Info, len(cls.MemberVars))
	for i, m := range cls.MemberVars {
		formals[i] = c.evalTypeExpr(m.DeclaredTy)
	}
	if res, idx := matchArgs(formals, actuals, false); res != matchOk {
		switch res {
		case matchTooFew:
			c.sink.Fatal(ce.Pos(), diag.CategoryType, "too few arguments to construct %q: expected %d, got %d", cls.Name, len(formals), len(actuals))
		case matchTooMany:
			c.sink.Fatal(ce.Pos(), diag.CategoryType, "too many arguments to construct %q: expected %d, got %d", cls.Name, len(formals), len(actuals))
		default:
			c.sink.Fatal(ce.Pos(), diag.CategoryType, "argument %d to construct %q: expected %s, got %s", idx+1, cls.Name, formals[idx], actuals[idx])
		}
	}
	ce.Kind = ast.CallCtor
	ce.Ctor = cls
	return types.FromClass(cls)
}

// resolveMemberCall handles "recv.name(args...)": a member variable
// holding a function value (called as a functor), a method overload
// set, or a builtin member function on string/vector.
func (c *Checker) resolveMemberCall(ce *ast.CallExpr, ma *ast.MemberAccess, actuals []types.Info) types.Info {
	leftTy := c.evalType(ma.Left)
	ma.Resolved.AllowAmbiguous = true

	if leftTy.Kind == types.Instance {
		cls, _ := leftTy.Class.(*ast.Class)
		if idx := cls.MemberIndex(ma.Name); idx >= 0 {
			ma.Resolved.Kind = ast.MemberVariable
			ma.Resolved.VarIndex = idx
			ma.Resolved.Class = cls
			fieldTy := c.evalTypeExpr(cls.MemberVars[idx].DeclaredTy)
			return c.resolveFunctorCall(ce, fieldTy, actuals)
		}

		methods := cls.Method(ma.Name)
		if len(methods) > 0 {
			ma.Resolved.Kind = ast.MemberFunction
			ma.Resolved.Candidates = methods
			ma.Resolved.SelfType = leftTy
			return c.resolveUserMethodCall(ce, ma.Pos(), methods, actuals)
		}

		c.sink.Fatal(ma.Pos(), diag.CategoryUndefined, "%s has no member %q", leftTy, ma.Name)
	}

	switch leftTy.Kind {
	case types.String:
		if mf, ok := builtins.StringMembers[ma.Name]; ok {
			ma.Resolved.Kind = ast.BuiltinMemberFunction
			ma.Resolved.BuiltinFuncs = []ast.BuiltinFunction{mf}
			return c.resolveBuiltinMemberCall(ce, ma.Pos(), mf, actuals)
		}
	case types.Vector:
		if mf, ok := builtins.VectorMembers[ma.Name]; ok {
			ma.Resolved.Kind = ast.BuiltinMemberFunction
			ma.Resolved.BuiltinFuncs = []ast.BuiltinFunction{mf}
			return c.resolveBuiltinMemberCall(ce, ma.Pos(), mf, actuals)
		}
	case types.Enumerator:
		c.sink.Fatal(ma.Pos(), diag.CategoryInternal, "member access on enumerator values is not yet supported")
	}

	c.sink.Fatal(ma.Pos(), diag.CategoryUndefined, "%s has no member %q", leftTy, ma.Name)
	return types.Info{}
}

func (c *Checker) resolveBuiltinMemberCall(ce *ast.CallExpr, pos token.Position, mf ast.BuiltinFunction, actuals []types.Info) types.Info {
	if !builtinArgsMatch(mf.ArgTypes(), actuals, mf.IsVariableArgs()) {
		c.sink.Fatal(pos, diag.CategoryType, "no matching overload for %q with %d argument(s)", mf.BuiltinName(), len(actuals))
	}
	ce.Kind = ast.CallBuiltin
	ce.CalleeBuiltin = mf
	return mf.ResultType()
}

// resolveFunctorCall handles calling a plain Function-typed value
// (spec.md §4.4.3's CallFunc_FunctionValue): the callee isn't a name
// Sema can overload-resolve, so there's exactly one signature to
// match against, already baked into calleeTy's Params layout
// ([return, (self,) args...]).
func (c *Checker) resolveFunctorCall(ce *ast.CallExpr, calleeTy types.Info, actuals []types.Info) types.Info {
	if calleeTy.Kind != types.Function {
		c.sink.Fatal(ce.Pos(), diag.CategoryType, "%s is not callable", calleeTy)
	}
	formals := calleeTy.Params[1:]
	if calleeTy.IsMemberFunc {
		formals = formals[1:]
	}
	if res, idx := matchArgs(formals, actuals, calleeTy.IsFreeArgs); res != matchOk {
		switch res {
		case matchTooFew:
			c.sink.Fatal(ce.Pos(), diag.CategoryType, "too few arguments: expected %d, got %d", len(formals), len(actuals))
		case matchTooMany:
			c.sink.Fatal(ce.Pos(), diag.CategoryType, "too many arguments: expected %d, got %d", len(formals), len(actuals))
		default:
			c.sink.Fatal(ce.Pos(), diag.CategoryType, "argument %d: expected %s, got %s", idx+1, formals[idx], actuals[idx])
		}
	}
	ce.Kind = ast.CallFunctor
	return calleeTy.Params[0]
}
