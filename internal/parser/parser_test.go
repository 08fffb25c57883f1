package parser

import (
	"testing"

	"github.com/flamelang/flame/internal/ast"
	"github.com/flamelang/flame/internal/diag"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	sink := diag.New()
	prog, ok := Parse(src, sink)
	if !ok || sink.HasErrors() {
		t.Fatalf("parse failed for %q: %v", src, sink.Diagnostics())
	}
	return prog
}

func TestParseFunctionAndCall(t *testing.T) {
	prog := mustParse(t, `fn f(x: int) -> int { return x * 2; } f(21);`)

	if len(prog.Root.Stmts) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(prog.Root.Stmts))
	}

	fn, ok := prog.Root.Stmts[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected *ast.Function, got %T", prog.Root.Stmts[0])
	}
	if fn.Name != "f" || len(fn.Args) != 1 || fn.Args[0].Name != "x" {
		t.Fatalf("function signature wrong: %+v", fn)
	}

	stmt, ok := prog.Root.Stmts[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", prog.Root.Stmts[1])
	}
	call, ok := stmt.Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", stmt.Expr)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 call argument, got %d", len(call.Args))
	}
}

func TestParseVarDefAndIf(t *testing.T) {
	prog := mustParse(t, `let x = 1; if (x < 2) { x = 3; } else { x = 4; }`)

	if len(prog.Root.Stmts) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(prog.Root.Stmts))
	}
	v, ok := prog.Root.Stmts[0].(*ast.VarDef)
	if !ok || v.Name != "x" {
		t.Fatalf("vardef wrong: %+v", prog.Root.Stmts[0])
	}
	ifs, ok := prog.Root.Stmts[1].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", prog.Root.Stmts[1])
	}
	if _, ok := ifs.Cond.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected condition to be a binary expr, got %T", ifs.Cond)
	}
	if ifs.Else == nil {
		t.Fatalf("expected else branch")
	}
}

func TestUnaryMinusDesugarsToSubtraction(t *testing.T) {
	prog := mustParse(t, `let x = -5;`)
	v := prog.Root.Stmts[0].(*ast.VarDef)

	bin, ok := v.Init.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.Sub {
		t.Fatalf("expected desugared subtraction, got %+v", v.Init)
	}
	lit, ok := bin.Left.(*ast.IntLit)
	if !ok || lit.Value != 0 {
		t.Fatalf("expected zero literal on the left, got %+v", bin.Left)
	}
}

func TestParseClassAndEnum(t *testing.T) {
	prog := mustParse(t, `
class Point {
	x: int;
	y: int;

	fn sum() -> int { return x + y; }
}

enum Color { Red, Green, Blue }
`)
	if len(prog.Root.Stmts) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(prog.Root.Stmts))
	}
	cls, ok := prog.Root.Stmts[0].(*ast.Class)
	if !ok || len(cls.MemberVars) != 2 || len(cls.Methods) != 1 {
		t.Fatalf("class wrong: %+v", prog.Root.Stmts[0])
	}
	enum, ok := prog.Root.Stmts[1].(*ast.Enum)
	if !ok || len(enum.Enumerators) != 3 {
		t.Fatalf("enum wrong: %+v", prog.Root.Stmts[1])
	}
}

func TestParseMemberAccessAndScopeResol(t *testing.T) {
	prog := mustParse(t, `p.x; Color::Red;`)

	s1 := prog.Root.Stmts[0].(*ast.ExprStmt)
	if _, ok := s1.Expr.(*ast.MemberAccess); !ok {
		t.Fatalf("expected *ast.MemberAccess, got %T", s1.Expr)
	}

	s2 := prog.Root.Stmts[1].(*ast.ExprStmt)
	sr, ok := s2.Expr.(*ast.ScopeResol)
	if !ok || sr.Member != "Red" {
		t.Fatalf("expected ScopeResol naming Red, got %+v", s2.Expr)
	}
}

func TestParseGenericFunctionWithExplicitTemplateArgs(t *testing.T) {
	prog := mustParse(t, `fn identity<T>(x: T) -> T { return x; } identity::<int>(5);`)

	fn := prog.Root.Stmts[0].(*ast.Function)
	if !fn.IsTemplate || len(fn.TemplateParams) != 1 || fn.TemplateParams[0] != "T" {
		t.Fatalf("expected templated function, got %+v", fn)
	}

	stmt := prog.Root.Stmts[1].(*ast.ExprStmt)
	call := stmt.Expr.(*ast.CallExpr)
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok || len(ident.ExplicitTemplateArgs) != 1 || ident.ExplicitTemplateArgs[0].Name != "int" {
		t.Fatalf("expected explicit template arg int, got %+v", call.Callee)
	}
}
