// Package diag is the error sink the checker and evaluator both report
// through. It fuses two things from the corpus: the category/position/
// message shape of the teacher's internal/interp/errors package, and
// the emit-vs-stop, chained-notes, "in instantiation of" behavior of
// original_source/include/Error.h.
//
// Go has no exceptions, and threading an error return through Sema's
// deeply mutually-recursive check/evalType methods (every evalType
// call is itself called from a dozen call sites) would bury the
// control flow in error-check boilerplate that the original doesn't
// have either — it throws. Fatal reproduces "throw" with a private
// sentinel panic, recovered at the one call site that needs to turn it
// back into a normal return (Checker.CheckFull / cmd/flame). Emit
// reproduces ".emit()" without ".stop()": record the diagnostic and
// keep going.
package diag

import (
	"fmt"

	"github.com/flamelang/flame/pkg/token"
)

// Category mirrors the teacher's ErrorCategory, widened with the two
// categories specific to this language's Sema/Evaluator split.
type Category string

const (
	CategorySyntax    Category = "Syntax"
	CategoryType      Category = "Type"
	CategoryRuntime   Category = "Runtime"
	CategoryUndefined Category = "Undefined"
	CategoryInternal  Category = "Internal"
)

// Severity distinguishes a hard error from a chained explanatory note,
// matching Error::ER_Note in Error.h.
type Severity int

const (
	SevError Severity = iota
	SevNote
)

// Diagnostic is one reported problem, with an optional chain of notes
// providing additional context (e.g. "specified here", "first defined
// here") and an optional location prefix used for instantiation
// failures ("in instantiation of 'identity<T=int>(string)'").
type Diagnostic struct {
	Severity Severity
	Category Category
	Pos      token.Position
	Message  string
	Location string
	Notes    []Diagnostic
}

func (d Diagnostic) String() string {
	prefix := ""
	if d.Location != "" {
		prefix = d.Location + ": "
	}
	s := fmt.Sprintf("%s%s error at %s: %s", prefix, d.Category, d.Pos, d.Message)
	for _, n := range d.Notes {
		s += "\n  note: " + n.Message + " (" + n.Pos.String() + ")"
	}
	return s
}

// AddNote appends a chained note, matching Error::AddChain, and
// returns d for call chaining.
func (d Diagnostic) AddNote(pos token.Position, message string) Diagnostic {
	d.Notes = append(d.Notes, Diagnostic{Severity: SevNote, Pos: pos, Message: message})
	return d
}

// InLocation sets d's Location prefix, matching Error::InLocation, and
// returns d for call chaining.
func (d Diagnostic) InLocation(loc string) Diagnostic {
	d.Location = loc
	return d
}

// fatalSignal is the sentinel panic value Fatal raises; Recover only
// recognizes panics of this exact type, so an unrelated programmer-error
// panic (nil dereference, index out of range) still crashes normally
// instead of being silently swallowed as a diagnostic.
type fatalSignal struct {
	d Diagnostic
}

// Sink accumulates diagnostics for one check/eval pass. It is not
// safe for concurrent use — spec.md's Non-goals explicitly exclude
// concurrency (§9), and Sema/Evaluator are both single-threaded.
type Sink struct {
	diags []Diagnostic
}

// New returns an empty Sink.
func New() *Sink { return &Sink{} }

// Emit records a non-fatal diagnostic and continues, matching
// Error::emit().
func (s *Sink) Emit(pos token.Position, cat Category, format string, args ...any) Diagnostic {
	d := Diagnostic{Severity: SevError, Category: cat, Pos: pos, Message: fmt.Sprintf(format, args...)}
	s.diags = append(s.diags, d)
	return d
}

// EmitDiagnostic records a diagnostic built elsewhere (typically one
// already carrying notes via AddNote), matching Error::emit() called
// on a pre-built Error.
func (s *Sink) EmitDiagnostic(d Diagnostic) Diagnostic {
	s.diags = append(s.diags, d)
	return d
}

// Fatal records the diagnostic and unwinds the current check/eval pass
// via panic, matching Error::operator()() (emit().stop()). It is caught
// either by deferring Recover directly or by a deferred closure that
// calls recover() and checks the value with AsFatal.
func (s *Sink) Fatal(pos token.Position, cat Category, format string, args ...any) {
	d := Diagnostic{Severity: SevError, Category: cat, Pos: pos, Message: fmt.Sprintf(format, args...)}
	s.diags = append(s.diags, d)
	panic(fatalSignal{d})
}

// FatalDiagnostic is Fatal's counterpart to EmitDiagnostic: raise a
// diagnostic that was built (and possibly chained/located) elsewhere.
func (s *Sink) FatalDiagnostic(d Diagnostic) {
	s.diags = append(s.diags, d)
	panic(fatalSignal{d})
}

// Recover must be deferred by any caller that wants to turn a Fatal
// unwind back into a normal return. It reports whether a fatalSignal
// was caught; any other panic value is re-raised. Go's recover only
// stops a panic when called directly by the deferred function, so this
// works only as "defer diag.Recover()" itself (which discards the
// result); called from inside a deferred closure it returns false and
// the unwind continues.
func Recover() bool {
	r := recover()
	if r == nil {
		return false
	}
	if _, ok := r.(fatalSignal); ok {
		return true
	}
	panic(r)
}

// Mark returns the current diagnostic count, for a caller that wants
// to tag every diagnostic emitted after this point (see
// RecoverInstantiation).
func (s *Sink) Mark() int { return len(s.diags) }

// RecoverInstantiation should be deferred around checking one generic
// instantiation (spec.md §4.4.4, §7). It tags every diagnostic emitted
// since mark with loc ("in instantiation of '...'") and, if a Fatal
// unwound through here, re-panics so the outer CheckFull recover still
// catches it — the Go analogue of the original's catch/tag/rethrow
// around an instantiation's checking.
func RecoverInstantiation(s *Sink, mark int, loc string) {
	r := recover()
	for i := mark; i < len(s.diags); i++ {
		if s.diags[i].Location == "" {
			s.diags[i].Location = loc
		}
	}
	if r == nil {
		return
	}
	if fs, ok := r.(fatalSignal); ok {
		fs.d.Location = loc
		panic(fs)
	}
	panic(r)
}

// AsFatal reports whether r (a recovered panic value) is a fatalSignal
// raised by Fatal/FatalDiagnostic, returning its Diagnostic if so. This
// is how a caller outside this package (Evaluator.Run, parser.Parse,
// sema.CheckFull) turns
// a caught unwind into its underlying message without reaching into the
// unexported sentinel type itself.
func AsFatal(r any) (Diagnostic, bool) {
	fs, ok := r.(fatalSignal)
	if !ok {
		return Diagnostic{}, false
	}
	return fs.d, true
}

// Diagnostics returns everything recorded so far, in report order.
func (s *Sink) Diagnostics() []Diagnostic { return s.diags }

// HasErrors reports whether any SevError-level diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}
