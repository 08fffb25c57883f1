package sema

import "github.com/flamelang/flame/internal/types"

// matchResult is the tri-valued outcome of spec.md §4.4.5's argument
// matching. Sema only ever accepts matchOk; the other values exist so
// a future diagnostic could name exactly why a candidate was rejected,
// the way the original's error messages do ("too few arguments",
// "too many arguments", "argument 2: expected X, got Y").
type matchResult int

const (
	matchOk matchResult = iota
	matchTooFew
	matchTooMany
	matchTypeMismatch
)

// matchArgs implements spec.md §4.4.5 exactly: no implicit
// conversions, variadic functions only constrain their first m-1
// arguments, everything past that is unconstrained.
func matchArgs(formals, actuals []types.Info, variadic bool) (matchResult, int) {
	m, n := len(formals), len(actuals)

	if !variadic {
		if n < m {
			return matchTooFew, -1
		}
		if n > m {
			return matchTooMany, -1
		}
	} else if n < m-1 {
		return matchTooFew, -1
	}

	lim := m
	if n < lim {
		lim = n
	}
	for i := 0; i < lim; i++ {
		if !formals[i].Equals(actuals[i]) {
			return matchTypeMismatch, i
		}
	}
	return matchOk, -1
}

// wildcard is the marker builtins.go uses for "accepts whatever Sema
// already checked": the bare None type with no name and no
// parameters. A real None-typed formal parameter never occurs in this
// language (None only appears as a function's absent result type), so
// this collision is deliberate — see DESIGN.md.
func isWildcard(t types.Info) bool {
	return t.Kind == types.None && t.Name == "" && len(t.Params) == 0
}

// builtinArgsMatch implements the builtin tables' own, looser
// dispatch rule from spec.md §4.4.3's CallFunc/BuiltinFuncName case
// ("iterate the built-in overloads, first that matches wins"): a
// wildcard formal matches any actual type, and a variadic builtin's
// trailing arguments are entirely unconstrained.
func builtinArgsMatch(formals, actuals []types.Info, variadic bool) bool {
	m, n := len(formals), len(actuals)
	if variadic {
		if n < m {
			return false
		}
	} else if n != m {
		return false
	}

	for i := 0; i < m; i++ {
		f := formals[i]
		if isWildcard(f) {
			continue
		}
		if !f.Equals(actuals[i]) {
			return false
		}
	}
	return true
}
