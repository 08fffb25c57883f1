package sema_test

import (
	"testing"

	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/internal/parser"
	"github.com/flamelang/flame/internal/sema"
)

func checkOK(t *testing.T, src string) *diag.Sink {
	t.Helper()
	sink := diag.New()
	prog, ok := parser.Parse(src, sink)
	if !ok || sink.HasErrors() {
		t.Fatalf("parse failed: %v", sink.Diagnostics())
	}
	if !sema.CheckFull(prog, sink) {
		t.Fatalf("expected check to succeed, got: %v", sink.Diagnostics())
	}
	return sink
}

func checkFails(t *testing.T, src, wantSubstr string) {
	t.Helper()
	sink := diag.New()
	prog, ok := parser.Parse(src, sink)
	if !ok {
		assertContains(t, sink, wantSubstr)
		return
	}
	if sema.CheckFull(prog, sink) {
		t.Fatalf("expected check to fail for %q", src)
	}
	assertContains(t, sink, wantSubstr)
}

func assertContains(t *testing.T, sink *diag.Sink, substr string) {
	t.Helper()
	for _, d := range sink.Diagnostics() {
		if indexOf(d.Message, substr) >= 0 {
			return
		}
	}
	t.Fatalf("expected a diagnostic containing %q, got: %v", substr, sink.Diagnostics())
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func TestDuplicateMemberVariableIsAnError(t *testing.T) {
	checkFails(t, `
class Point {
	x: int;
	x: int;
}
`, "duplicate member variable")
}

func TestBreakOutsideLoopIsAnError(t *testing.T) {
	checkFails(t, `break;`, "break/continue used outside of a loop")
}

func TestContinueOutsideLoopIsAnError(t *testing.T) {
	checkFails(t, `continue;`, "break/continue used outside of a loop")
}

func TestDuplicateCatchClauseIsAnError(t *testing.T) {
	checkFails(t, `
try {
	throw 1;
} catch (e: int) {
} catch (e2: int) {
}
`, "duplicate catch clause")
}

func TestReturnOutsideFunctionIsAnError(t *testing.T) {
	checkFails(t, `return 1;`, "return used outside of a function")
}

func TestUndefinedNameIsAnError(t *testing.T) {
	checkFails(t, `nope;`, "not defined")
}

func TestAssignToNonWritableIsAnError(t *testing.T) {
	checkFails(t, `
fn f() -> int { return 1; }
f() = 2;
`, "not writable")
}

func TestGenericFunctionWithoutTemplateArgsIsAnError(t *testing.T) {
	checkFails(t, `
fn id<T>(x: T) -> T { return x; }
let f = id;
`, "cannot be used without template arguments")
}

func TestImplicitMemberFunctionCallResolvesSibling(t *testing.T) {
	checkOK(t, `
class Counter {
	n: int;
	fn bump() -> int {
		n = n + 1;
		return total();
	}
	fn total() -> int { return n; }
}
let c = Counter(0);
c.bump();
`)
}

func TestImplicitMemberVariableUndefinedOutsideMethodStillErrors(t *testing.T) {
	checkFails(t, `
fn f() -> int { return n; }
`, "not defined")
}
