package evaluator

import (
	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/object"
	"github.com/flamelang/flame/internal/types"
)

// evalBinary evaluates both operands — always, even for the two
// logical operators that are deliberately left unimplemented — and
// then dispatches on the operator, matching Evaluator.cpp's eval_expr:
// `lhs = evaluate(ast->lhs); rhs = evaluate(ast->rhs);` happens before
// the switch in every case, including the one that falls through to
// "operator not implemented".
func (ev *Evaluator) evalBinary(b *ast.BinaryExpr) object.Object {
	lhs := ev.evalExpr(b.Left)
	rhs := ev.evalExpr(b.Right)

	switch b.Op {
	case ast.Add:
		return ev.opAdd(b, lhs, rhs)
	case ast.Sub:
		return ev.opArith(b, lhs, rhs, func(a, c int64) int64 { return a - c }, func(a, c float64) float64 { return a - c })
	case ast.Mul:
		return ev.opMul(b, lhs, rhs)
	case ast.Div:
		return ev.opDiv(b, lhs, rhs)
	case ast.Mod:
		return ev.opMod(b, lhs, rhs)
	case ast.Shl:
		return object.NewInt(lhs.(*object.Primitive).GetVI() << uint(rhs.(*object.Primitive).GetVI()))
	case ast.Shr:
		return object.NewInt(lhs.(*object.Primitive).GetVI() >> uint(rhs.(*object.Primitive).GetVI()))
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return ev.opCompare(b, lhs, rhs)
	case ast.Eq:
		return object.NewBool(objectsEqual(lhs, rhs))
	case ast.Ne:
		return object.NewBool(!objectsEqual(lhs, rhs))
	default:
		// LogAnd/LogOr fall through here: short-circuit boolean
		// operators are parsed but never implemented at evaluation
		// time (open question (a), DESIGN.md) — matching the
		// original's own default case for Kind::LogAND/LogOR.
		ev.runtimeErrorf(b.Pos(), "operator %q is not implemented", b.Op)
		return ev.none
	}
}

// opAdd implements the one asymmetric-type-pair operator: vector+int
// (and its mirror int+vector) appends a scalar, and string+anything
// appends the right-hand value onto a clone of the left-hand string —
// via AppendList when the right-hand side is itself an iterable
// (string+string concatenation), or a single-element Append otherwise
// (string+char). Grounded on Evaluator.cpp's Add case (add_vec_wrap,
// the String clone-then-AppendList branch).
func (ev *Evaluator) opAdd(b *ast.BinaryExpr, lhs, rhs object.Object) object.Object {
	if lv, ok := lhs.(*object.Iterable); ok && lv.Type().Kind == types.Vector {
		if _, ok := rhs.(*object.Primitive); ok {
			return appendClone(lv, rhs)
		}
	}
	if rv, ok := rhs.(*object.Iterable); ok && rv.Type().Kind == types.Vector {
		if _, ok := lhs.(*object.Primitive); ok {
			return appendClone(rv, lhs)
		}
	}

	switch l := lhs.(type) {
	case *object.Primitive:
		r, ok := rhs.(*object.Primitive)
		if !ok {
			break
		}
		switch l.Type().Kind {
		case types.Int:
			return object.NewInt(l.GetVI() + r.GetVI())
		case types.Float:
			return object.NewFloat(l.GetVF() + r.GetVF())
		}
	case *object.Iterable:
		if l.Type().Kind == types.String {
			cp := l.Clone().(*object.Iterable)
			if rit, ok := rhs.(*object.Iterable); ok {
				cp.AppendList(rit)
			} else {
				cp.Append(rhs)
			}
			return cp
		}
		if l.Type().Kind == types.Vector {
			return appendClone(l, rhs)
		}
	}

	ev.internalErrorf(b.Pos(), "evaluator: '+' not implemented for %s and %s", lhs.Type(), rhs.Type())
	return ev.none
}

func appendClone(it *object.Iterable, elem object.Object) *object.Iterable {
	cp := it.Clone().(*object.Iterable)
	cp.Append(elem)
	return cp
}

// opArith is the common shape of Sub (the only other dyadic numeric
// operator besides Add/Mul that never touches a container): dispatch
// purely on the left operand's kind, matching Evaluator.cpp's
// `switch (ast->lhs->type.kind)` for Sub/Div/Mod.
func (ev *Evaluator) opArith(b *ast.BinaryExpr, lhs, rhs object.Object, ints func(int64, int64) int64, floats func(float64, float64) float64) object.Object {
	l, ok := lhs.(*object.Primitive)
	if !ok {
		ev.internalErrorf(b.Pos(), "evaluator: %q not implemented for %s", b.Op, lhs.Type())
		return ev.none
	}
	r := rhs.(*object.Primitive)
	switch l.Type().Kind {
	case types.Int:
		return object.NewInt(ints(l.GetVI(), r.GetVI()))
	case types.Float:
		return object.NewFloat(floats(l.GetVF(), r.GetVF()))
	default:
		ev.internalErrorf(b.Pos(), "evaluator: %q not implemented for %s", b.Op, lhs.Type())
		return ev.none
	}
}

// opMul implements plain numeric multiplication plus the
// string/vector repeat-concatenation overload: (string|vector) * int
// returns n copies of the left operand concatenated, grounded on
// Evaluator.cpp's multiply_array. Unlike the original, a
// non-positive n yields an empty result instead of looping forever —
// the original's `while (--n)` never terminates for n <= 0, which
// looks like an oversight rather than intended behavior.
func (ev *Evaluator) opMul(b *ast.BinaryExpr, lhs, rhs object.Object) object.Object {
	if it, ok := lhs.(*object.Iterable); ok && (it.Type().Kind == types.String || it.Type().Kind == types.Vector) {
		if p, ok := rhs.(*object.Primitive); ok && p.Type().Kind == types.Int {
			return repeatIterable(it, p.GetVI())
		}
	}
	if it, ok := rhs.(*object.Iterable); ok && (it.Type().Kind == types.String || it.Type().Kind == types.Vector) {
		if p, ok := lhs.(*object.Primitive); ok && p.Type().Kind == types.Int {
			return repeatIterable(it, p.GetVI())
		}
	}

	l, ok := lhs.(*object.Primitive)
	if !ok {
		ev.internalErrorf(b.Pos(), "evaluator: '*' not implemented for %s and %s", lhs.Type(), rhs.Type())
		return ev.none
	}
	r := rhs.(*object.Primitive)
	switch l.Type().Kind {
	case types.Int:
		return object.NewInt(l.GetVI() * r.GetVI())
	case types.Float:
		return object.NewFloat(l.GetVF() * r.GetVF())
	default:
		ev.internalErrorf(b.Pos(), "evaluator: '*' not implemented for %s and %s", lhs.Type(), rhs.Type())
		return ev.none
	}
}

func repeatIterable(it *object.Iterable, n int64) *object.Iterable {
	if n <= 0 {
		empty := it.Clone().(*object.Iterable)
		empty.Truncate(0)
		return empty
	}
	ret := it.Clone().(*object.Iterable)
	for i := int64(1); i < n; i++ {
		ret.AppendList(it)
	}
	return ret
}

// opDiv and opMod both raise a Runtime diagnostic anchored at the
// operator token on division by zero, matching Evaluator.cpp's
// `goto _divided_by_zero` (spec.md §7).
func (ev *Evaluator) opDiv(b *ast.BinaryExpr, lhs, rhs object.Object) object.Object {
	l, ok := lhs.(*object.Primitive)
	if !ok {
		ev.internalErrorf(b.Pos(), "evaluator: '/' not implemented for %s", lhs.Type())
		return ev.none
	}
	r := rhs.(*object.Primitive)
	switch l.Type().Kind {
	case types.Int:
		if r.GetVI() == 0 {
			ev.runtimeErrorf(b.Pos(), "divided by zero")
		}
		return object.NewInt(l.GetVI() / r.GetVI())
	case types.Float:
		if r.GetVF() == 0 {
			ev.runtimeErrorf(b.Pos(), "divided by zero")
		}
		return object.NewFloat(l.GetVF() / r.GetVF())
	default:
		ev.internalErrorf(b.Pos(), "evaluator: '/' not implemented for %s", lhs.Type())
		return ev.none
	}
}

func (ev *Evaluator) opMod(b *ast.BinaryExpr, lhs, rhs object.Object) object.Object {
	l, ok := lhs.(*object.Primitive)
	if !ok || l.Type().Kind != types.Int {
		ev.internalErrorf(b.Pos(), "evaluator: '%%' not implemented for %s", lhs.Type())
		return ev.none
	}
	r := rhs.(*object.Primitive)
	if r.GetVI() == 0 {
		ev.runtimeErrorf(b.Pos(), "divided by zero")
	}
	return object.NewInt(l.GetVI() % r.GetVI())
}

// opCompare implements the four ordering operators over int, float,
// and char, matching Evaluator.cpp's comparison dispatch.
func (ev *Evaluator) opCompare(b *ast.BinaryExpr, lhs, rhs object.Object) object.Object {
	l, ok := lhs.(*object.Primitive)
	if !ok {
		ev.internalErrorf(b.Pos(), "evaluator: %q not implemented for %s", b.Op, lhs.Type())
		return ev.none
	}
	r := rhs.(*object.Primitive)

	var cmp int
	switch l.Type().Kind {
	case types.Int:
		cmp = compareInt(l.GetVI(), r.GetVI())
	case types.Float:
		cmp = compareFloat(l.GetVF(), r.GetVF())
	case types.Char:
		cmp = compareInt(int64(l.GetVC()), int64(r.GetVC()))
	default:
		ev.internalErrorf(b.Pos(), "evaluator: %q not implemented for %s", b.Op, lhs.Type())
		return ev.none
	}

	switch b.Op {
	case ast.Lt:
		return object.NewBool(cmp < 0)
	case ast.Le:
		return object.NewBool(cmp <= 0)
	case ast.Gt:
		return object.NewBool(cmp > 0)
	default: // ast.Ge
		return object.NewBool(cmp >= 0)
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// objectsEqual implements structural equality for Eq/Ne: same kind,
// same payload, recursively for Iterable; Instance compares by
// identity (reference equality, matching class values having no
// structural equality operator of their own).
func objectsEqual(a, b object.Object) bool {
	if !a.Type().Equals(b.Type()) {
		return false
	}
	switch av := a.(type) {
	case *object.Primitive:
		bv := b.(*object.Primitive)
		switch av.Type().Kind {
		case types.Int:
			return av.GetVI() == bv.GetVI()
		case types.Float:
			return av.GetVF() == bv.GetVF()
		case types.Bool:
			return av.GetVB() == bv.GetVB()
		case types.Char:
			return av.GetVC() == bv.GetVC()
		}
		return false
	case *object.Iterable:
		bv := b.(*object.Iterable)
		if av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !objectsEqual(av.Index(int64(i)), bv.Index(int64(i))) {
				return false
			}
		}
		return true
	case *object.Enumerator:
		return true // Type().Equals already compared Enum + EnumIndex
	case object.None:
		return true
	case *object.Instance:
		return av == b.(*object.Instance)
	default:
		return false
	}
}
