package diag_test

import (
	"testing"

	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/pkg/token"
)

func TestEmitRecordsDiagnostic(t *testing.T) {
	s := diag.New()
	d := s.Emit(token.Position{Line: 1, Column: 2}, diag.CategoryType, "bad type %s", "int")
	if d.Message != "bad type int" {
		t.Fatalf("got message %q", d.Message)
	}
	if !s.HasErrors() {
		t.Fatalf("expected HasErrors after Emit")
	}
	if len(s.Diagnostics()) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(s.Diagnostics()))
	}
}

func TestEmitDiagnosticRecordsPrebuilt(t *testing.T) {
	s := diag.New()
	d := diag.Diagnostic{Category: diag.CategorySyntax, Message: "oops"}
	d = d.AddNote(token.Position{}, "see here")
	s.EmitDiagnostic(d)
	got := s.Diagnostics()
	if len(got) != 1 || len(got[0].Notes) != 1 {
		t.Fatalf("expected 1 diagnostic with 1 note, got %+v", got)
	}
}

func TestFatalPanicsAndRecoverCatchesIt(t *testing.T) {
	s := diag.New()
	caught := false
	func() {
		defer func() {
			caught = diag.Recover()
		}()
		s.Fatal(token.Position{}, diag.CategoryUndefined, "name %q not defined", "x")
	}()
	if !caught {
		t.Fatalf("expected Recover to catch the Fatal unwind")
	}
	if !s.HasErrors() {
		t.Fatalf("expected the fatal diagnostic to still be recorded")
	}
}

func TestRecoverDoesNotSwallowOtherPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected an unrelated panic to propagate")
		}
	}()
	func() {
		defer diag.Recover()
		panic("not a fatalSignal")
	}()
}

func TestAsFatalRoundTrip(t *testing.T) {
	s := diag.New()
	func() {
		defer func() {
			r := recover()
			d, ok := diag.AsFatal(r)
			if !ok {
				t.Fatalf("expected AsFatal to recognize a Fatal panic")
			}
			if d.Message != "boom" {
				t.Fatalf("got message %q", d.Message)
			}
		}()
		s.Fatal(token.Position{}, diag.CategoryRuntime, "boom")
	}()
}

func TestAsFatalRejectsUnrelatedPanic(t *testing.T) {
	if _, ok := diag.AsFatal("some string panic"); ok {
		t.Fatalf("expected AsFatal to reject a non-fatalSignal value")
	}
}

func TestFatalDiagnosticCarriesNotes(t *testing.T) {
	s := diag.New()
	built := diag.Diagnostic{Category: diag.CategoryType, Message: "mismatch"}
	built = built.AddNote(token.Position{}, "declared here")
	func() {
		defer diag.Recover()
		s.FatalDiagnostic(built)
	}()
	got := s.Diagnostics()
	if len(got) != 1 || len(got[0].Notes) != 1 || got[0].Notes[0].Message != "declared here" {
		t.Fatalf("expected the fatal diagnostic and its note to be recorded, got %+v", got)
	}
}

func TestRecoverInstantiationTagsLocationAndRepanics(t *testing.T) {
	s := diag.New()
	mark := s.Mark()
	s.Emit(token.Position{}, diag.CategoryType, "pre-existing, untouched")

	caught := false
	func() {
		defer func() {
			caught = diag.Recover()
		}()
		func() {
			defer diag.RecoverInstantiation(s, mark, "in instantiation of 'id<T=int>'")
			s.Emit(token.Position{}, diag.CategoryType, "inner mismatch")
			s.Fatal(token.Position{}, diag.CategoryType, "fatal inner")
		}()
	}()

	if !caught {
		t.Fatalf("expected the Fatal to re-panic through RecoverInstantiation and be caught outside")
	}
	got := s.Diagnostics()
	if len(got) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(got))
	}
	if got[0].Location != "" {
		t.Fatalf("expected the pre-mark diagnostic to be untouched, got location %q", got[0].Location)
	}
	for _, d := range got[1:] {
		if d.Location != "in instantiation of 'id<T=int>'" {
			t.Fatalf("expected post-mark diagnostics to be tagged, got %q", d.Location)
		}
	}
}

func TestRecoverInstantiationWithoutPanicJustTagsLocation(t *testing.T) {
	s := diag.New()
	mark := s.Mark()
	s.Emit(token.Position{}, diag.CategoryType, "a")
	func() {
		defer diag.RecoverInstantiation(s, mark, "in instantiation of 'f'")
	}()
	got := s.Diagnostics()
	if got[0].Location != "in instantiation of 'f'" {
		t.Fatalf("expected tagged location, got %q", got[0].Location)
	}
}

func TestHasErrorsIgnoresNotes(t *testing.T) {
	s := diag.New()
	d := diag.Diagnostic{Severity: diag.SevNote, Category: diag.CategoryType, Message: "just a note"}
	s.EmitDiagnostic(d)
	if s.HasErrors() {
		t.Fatalf("expected a note-only sink to report no errors")
	}
}

func TestDiagnosticStringRendersCategoryPosMessageAndNotes(t *testing.T) {
	d := diag.Diagnostic{
		Category: diag.CategoryType,
		Pos:      token.Position{Line: 3, Column: 5},
		Message:  "type mismatch",
	}
	d = d.AddNote(token.Position{Line: 1, Column: 1}, "declared here")
	s := d.String()
	if !containsSubstr(s, "Type error") || !containsSubstr(s, "type mismatch") || !containsSubstr(s, "declared here") {
		t.Fatalf("unexpected rendering: %q", s)
	}
}

func TestDiagnosticStringRendersLocationPrefix(t *testing.T) {
	d := diag.Diagnostic{Category: diag.CategoryType, Message: "bad"}
	d = d.InLocation("in instantiation of 'f'")
	s := d.String()
	if !containsSubstr(s, "in instantiation of 'f': ") {
		t.Fatalf("expected location prefix, got %q", s)
	}
}

func containsSubstr(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
