package builtins_test

import (
	"testing"

	"github.com/flamelang/flame/internal/builtins"
	"github.com/flamelang/flame/internal/object"
	"github.com/flamelang/flame/internal/types"
)

func TestLenOnVectorAndString(t *testing.T) {
	v := object.NewIterable(
		types.Vector,
		types.New(types.Int),
	)
	v.Append(object.NewInt(1))
	v.Append(object.NewInt(2))

	r, err := builtins.Free["len"].Impl([]object.Object{v})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.(*object.Primitive).GetVI() != 2 {
		t.Fatalf("expected len 2, got %s", r.String())
	}

	s := object.NewString("abc")
	r, err = builtins.Free["len"].Impl([]object.Object{s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.(*object.Primitive).GetVI() != 3 {
		t.Fatalf("expected len 3, got %s", r.String())
	}
}

func TestLenRejectsNonIterable(t *testing.T) {
	if _, err := builtins.Free["len"].Impl([]object.Object{object.NewInt(5)}); err == nil {
		t.Fatalf("expected an error for len() on a non-iterable")
	}
}

func TestToStringUsesStringerOutput(t *testing.T) {
	r, err := builtins.Free["to_string"].Impl([]object.Object{object.NewInt(42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.String() != "42" {
		t.Fatalf("expected %q, got %q", "42", r.String())
	}
}

func TestAbsHandlesIntAndFloat(t *testing.T) {
	r, err := builtins.Free["abs"].Impl([]object.Object{object.NewInt(-5)})
	if err != nil || r.(*object.Primitive).GetVI() != 5 {
		t.Fatalf("expected abs(-5) == 5, got %v err=%v", r, err)
	}
	r, err = builtins.Free["abs"].Impl([]object.Object{object.NewFloat(-1.5)})
	if err != nil || r.(*object.Primitive).GetVF() != 1.5 {
		t.Fatalf("expected abs(-1.5) == 1.5, got %v err=%v", r, err)
	}
}

func TestAbsRejectsNonNumeric(t *testing.T) {
	if _, err := builtins.Free["abs"].Impl([]object.Object{object.NewBool(true)}); err == nil {
		t.Fatalf("expected an error for abs() on a bool")
	}
}

func TestIntTruncatesFloat(t *testing.T) {
	r, err := builtins.Free["int"].Impl([]object.Object{object.NewFloat(3.9)})
	if err != nil || r.(*object.Primitive).GetVI() != 3 {
		t.Fatalf("expected int(3.9) == 3, got %v err=%v", r, err)
	}
}

func TestFloatWidensInt(t *testing.T) {
	r, err := builtins.Free["float"].Impl([]object.Object{object.NewInt(3)})
	if err != nil || r.(*object.Primitive).GetVF() != 3.0 {
		t.Fatalf("expected float(3) == 3.0, got %v err=%v", r, err)
	}
}

func TestAppendReturnsFreshVectorLeavingOriginalUntouched(t *testing.T) {
	v := object.NewIterable(types.Vector, types.New(types.Int))
	v.Append(object.NewInt(1))

	r, err := builtins.Free["append"].Impl([]object.Object{v, object.NewInt(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := r.(*object.Iterable)
	if out.Len() != 2 {
		t.Fatalf("expected the result to have 2 elements, got %d", out.Len())
	}
	if v.Len() != 1 {
		t.Fatalf("expected the original vector to remain length 1, got %d", v.Len())
	}
}

func TestAppendRejectsNonVectorReceiver(t *testing.T) {
	if _, err := builtins.Free["append"].Impl([]object.Object{object.NewInt(1), object.NewInt(2)}); err == nil {
		t.Fatalf("expected an error for append() on a non-vector")
	}
}

func TestLocaleCompareDefaultsCaseInsensitive(t *testing.T) {
	r, err := builtins.Free["locale_compare"].Impl([]object.Object{
		object.NewString("abc"), object.NewString("ABC"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.(*object.Primitive).GetVI() != 0 {
		t.Fatalf("expected case-insensitive compare to be equal, got %s", r.String())
	}
}

func TestLocaleCompareCaseSensitiveDiffers(t *testing.T) {
	r, err := builtins.Free["locale_compare"].Impl([]object.Object{
		object.NewString("abc"), object.NewString("ABC"), object.NewString("en"), object.NewBool(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.(*object.Primitive).GetVI() == 0 {
		t.Fatalf("expected case-sensitive compare of abc vs ABC to differ")
	}
}

func TestVectorPushPopSize(t *testing.T) {
	v := object.NewIterable(types.Vector, types.New(types.Int))

	if _, err := builtins.VectorMembers["push"].Impl(v, []object.Object{object.NewInt(10)}); err != nil {
		t.Fatalf("unexpected push error: %v", err)
	}
	if _, err := builtins.VectorMembers["push"].Impl(v, []object.Object{object.NewInt(20)}); err != nil {
		t.Fatalf("unexpected push error: %v", err)
	}

	sz, err := builtins.VectorMembers["size"].Impl(v, nil)
	if err != nil || sz.(*object.Primitive).GetVI() != 2 {
		t.Fatalf("expected size 2, got %v err=%v", sz, err)
	}

	popped, err := builtins.VectorMembers["pop"].Impl(v, nil)
	if err != nil || popped.(*object.Primitive).GetVI() != 20 {
		t.Fatalf("expected pop to return 20, got %v err=%v", popped, err)
	}
	sz, _ = builtins.VectorMembers["size"].Impl(v, nil)
	if sz.(*object.Primitive).GetVI() != 1 {
		t.Fatalf("expected size 1 after pop, got %s", sz.String())
	}
}

func TestVectorPopOnEmptyIsAnError(t *testing.T) {
	v := object.NewIterable(types.Vector, types.New(types.Int))
	if _, err := builtins.VectorMembers["pop"].Impl(v, nil); err == nil {
		t.Fatalf("expected pop() on an empty vector to be an error")
	}
}

func TestStringSizeUpperLowerCharAt(t *testing.T) {
	s := object.NewString("Hi")

	sz, err := builtins.StringMembers["size"].Impl(s, nil)
	if err != nil || sz.(*object.Primitive).GetVI() != 2 {
		t.Fatalf("expected size 2, got %v err=%v", sz, err)
	}

	up, err := builtins.StringMembers["upper"].Impl(s, nil)
	if err != nil || up.String() != "HI" {
		t.Fatalf("expected upper HI, got %v err=%v", up, err)
	}

	lo, err := builtins.StringMembers["lower"].Impl(s, nil)
	if err != nil || lo.String() != "hi" {
		t.Fatalf("expected lower hi, got %v err=%v", lo, err)
	}

	ch, err := builtins.StringMembers["char_at"].Impl(s, []object.Object{object.NewInt(1)})
	if err != nil || ch.(*object.Primitive).GetVC() != 'i' {
		t.Fatalf("expected char_at(1) == 'i', got %v err=%v", ch, err)
	}
}

func TestStringCharAtOutOfRangeIsAnError(t *testing.T) {
	s := object.NewString("Hi")
	if _, err := builtins.StringMembers["char_at"].Impl(s, []object.Object{object.NewInt(5)}); err == nil {
		t.Fatalf("expected an out-of-range error")
	}
}

func TestStringNormalizeDefaultsToNFC(t *testing.T) {
	s := object.NewString("cafe")
	r, err := builtins.StringMembers["normalize"].Impl(s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.String() != "cafe" {
		t.Fatalf("expected cafe unchanged, got %q", r.String())
	}
}

func TestStringNormalizeAcceptsExplicitForm(t *testing.T) {
	s := object.NewString("cafe")
	r, err := builtins.StringMembers["normalize"].Impl(s, []object.Object{object.NewString("NFD")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.String() != "cafe" {
		t.Fatalf("expected an ascii string to be unaffected by NFD, got %q", r.String())
	}
}
