package sema

import (
	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/builtins"
	"github.com/flamelang/flame/internal/scope"
)

// nameKind is the Go analogue of the original's NameType enum, as
// returned by find_name.
type nameKind int

const (
	nameUnknown nameKind = iota
	nameVar
	nameFunc
	nameBuiltinFunc
	nameClass
	nameEnum
	nameMemberVar
	nameMemberFunc
)

// nameResult is what resolveName found, tagged by kind; only the
// field(s) matching kind are populated.
type nameResult struct {
	kind       nameKind
	lvar       *scope.LocalVar
	funcs      []*ast.Function
	builtin    *builtins.Func
	class      *ast.Class
	enum       *ast.Enum
	memberIdx  int
	memberVar  *ast.Argument
}

// resolveName is the Go shape of Sema::find_name: a variable in the
// current scope chain shadows a same-named declaration in an
// enclosing block, which shadows a builtin free function. Grounded on
// SemaScope.cpp's find_var/find_name pair and SemaEvalType.cpp's
// Identifier case, which consults exactly this precedence.
func (c *Checker) resolveName(name string) nameResult {
	if lv, s := scope.Lookup(c.cur, name); lv != nil {
		_ = s
		return nameResult{kind: nameVar, lvar: lv}
	}

	for s := c.cur; s != nil; s = s.Parent() {
		blk, ok := s.AST().(*ast.Block)
		if !ok {
			continue
		}

		var funcs []*ast.Function
		var class *ast.Class
		var enum *ast.Enum
		for _, stmt := range blk.Stmts {
			switch d := stmt.(type) {
			case *ast.Function:
				if d.Name == name {
					funcs = append(funcs, d)
				}
			case *ast.Class:
				if d.Name == name {
					class = d
				}
			case *ast.Enum:
				if d.Name == name {
					enum = d
				}
			}
		}
		if len(funcs) > 0 {
			return nameResult{kind: nameFunc, funcs: funcs}
		}
		if class != nil {
			return nameResult{kind: nameClass, class: class}
		}
		if enum != nil {
			return nameResult{kind: nameEnum, enum: enum}
		}
	}

	// Nothing in an enclosing block shadowed the name: if we're
	// checking a method body, fall back to the implicit receiver's own
	// class before reaching for a free builtin. Grounded on spec.md
	// §3.4's closed resolution-kind set, which lists MemberVariable /
	// MemberFunction as refinements of a bare Identifier, not only of
	// MemberAccess — so a method may name its own members unqualified.
	if c.curFunc != nil && c.curFunc.MemberOf != nil {
		cl := c.curFunc.MemberOf
		if idx := cl.MemberIndex(name); idx >= 0 {
			return nameResult{kind: nameMemberVar, class: cl, memberIdx: idx, memberVar: cl.MemberVars[idx]}
		}
		if meths := cl.Method(name); len(meths) > 0 {
			return nameResult{kind: nameMemberFunc, class: cl, funcs: meths}
		}
	}

	if bf, ok := builtins.Free[name]; ok {
		return nameResult{kind: nameBuiltinFunc, builtin: bf}
	}

	return nameResult{kind: nameUnknown}
}
