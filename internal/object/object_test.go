package object_test

import (
	"testing"

	"github.com/flamelang/flame/internal/object"
	"github.com/flamelang/flame/internal/types"
)

func TestPrimitiveGetters(t *testing.T) {
	if object.NewInt(5).GetVI() != 5 {
		t.Fatalf("GetVI mismatch")
	}
	if object.NewFloat(1.5).GetVF() != 1.5 {
		t.Fatalf("GetVF mismatch")
	}
	if object.NewInt(3).GetVF() != 3.0 {
		t.Fatalf("GetVF should widen an int")
	}
	if !object.NewBool(true).GetVB() {
		t.Fatalf("GetVB mismatch")
	}
	if object.NewChar('x').GetVC() != 'x' {
		t.Fatalf("GetVC mismatch")
	}
}

func TestPrimitiveGetterPanicsOnKindMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected GetVI on a bool to panic")
		}
	}()
	object.NewBool(true).GetVI()
}

func TestPrimitiveCloneIsIndependent(t *testing.T) {
	p := object.NewInt(1)
	cp := p.Clone().(*object.Primitive)
	if cp.GetVI() != 1 {
		t.Fatalf("clone should copy value")
	}
}

func TestIterableAppendIndexTruncate(t *testing.T) {
	it := object.NewIterable(types.Vector, types.New(types.Int))
	it.Append(object.NewInt(1))
	it.Append(object.NewInt(2))
	it.Append(object.NewInt(3))
	if it.Len() != 3 {
		t.Fatalf("expected length 3, got %d", it.Len())
	}
	if it.Index(1).(*object.Primitive).GetVI() != 2 {
		t.Fatalf("expected element 1 to be 2")
	}
	it.SetIndex(0, object.NewInt(99))
	if it.Index(0).(*object.Primitive).GetVI() != 99 {
		t.Fatalf("SetIndex did not take effect")
	}
	it.Truncate(2)
	if it.Len() != 2 {
		t.Fatalf("expected truncated length 2, got %d", it.Len())
	}
}

// Cloning a vector must be a deep copy: mutating the clone's elements
// must not affect the original (spec.md §9's value-semantics for '+').
func TestIterableCloneIsDeep(t *testing.T) {
	orig := object.NewIterable(types.Vector, types.New(types.Int))
	orig.Append(object.NewInt(1))
	clone := orig.Clone().(*object.Iterable)
	clone.Append(object.NewInt(2))
	if orig.Len() != 1 {
		t.Fatalf("expected original to remain length 1, got %d", orig.Len())
	}
	if clone.Len() != 2 {
		t.Fatalf("expected clone to be length 2, got %d", clone.Len())
	}
}

func TestNewStringRoundTrip(t *testing.T) {
	it := object.NewString("hi")
	if got, want := it.String(), "hi"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if it.Len() != 2 {
		t.Fatalf("expected 2 chars, got %d", it.Len())
	}
}

func TestVectorStringRendering(t *testing.T) {
	it := object.NewIterable(types.Vector, types.New(types.Int))
	it.Append(object.NewInt(1))
	it.Append(object.NewInt(2))
	if got, want := it.String(), "[1, 2]"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

type fakeClass struct{ name string }

func (f *fakeClass) ClassName() string { return f.name }

func TestInstanceMemberVars(t *testing.T) {
	cls := &fakeClass{name: "Point"}
	inst := object.NewInstance(cls)
	inst.AddMemberVar(object.NewInt(3))
	inst.AddMemberVar(object.NewInt(4))
	if inst.GetMVar(0).(*object.Primitive).GetVI() != 3 {
		t.Fatalf("expected member 0 to be 3")
	}
	inst.SetMVar(1, object.NewInt(40))
	if inst.GetMVar(1).(*object.Primitive).GetVI() != 40 {
		t.Fatalf("SetMVar did not take effect")
	}
}

func TestInstanceCloneIsDeep(t *testing.T) {
	cls := &fakeClass{name: "Box"}
	orig := object.NewInstance(cls)
	orig.AddMemberVar(object.NewInt(1))
	clone := orig.Clone().(*object.Instance)
	clone.SetMVar(0, object.NewInt(99))
	if orig.GetMVar(0).(*object.Primitive).GetVI() != 1 {
		t.Fatalf("expected original member untouched, got %d", orig.GetMVar(0).(*object.Primitive).GetVI())
	}
}

func TestDictSetGet(t *testing.T) {
	d := object.NewDict(types.New(types.String), types.New(types.Int))
	d.Set(object.NewString("a"), object.NewInt(1))
	d.Set(object.NewString("b"), object.NewInt(2))
	d.Set(object.NewString("a"), object.NewInt(10))

	v, ok := d.Get(object.NewString("a"))
	if !ok || v.(*object.Primitive).GetVI() != 10 {
		t.Fatalf("expected overwritten value 10 for key a")
	}
	if _, ok := d.Get(object.NewString("missing")); ok {
		t.Fatalf("expected no entry for missing key")
	}
}

func TestTupleGet(t *testing.T) {
	tup := object.NewTuple([]object.Object{object.NewInt(1), object.NewString("x")})
	if tup.Get(0).(*object.Primitive).GetVI() != 1 {
		t.Fatalf("expected element 0 to be 1")
	}
	if got, want := tup.String(), `(1, x)`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEnumeratorString(t *testing.T) {
	en := &fakeEnum{name: "Color", variants: []string{"Red", "Green"}}
	bare := object.NewEnumerator(types.FromEnum(en))
	if got, want := bare.String(), "Color"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	green := object.NewEnumerator(types.FromEnumerator(en, 1))
	if got, want := green.String(), "Color::Green"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

type fakeEnum struct {
	name     string
	variants []string
}

func (f *fakeEnum) EnumName() string               { return f.name }
func (f *fakeEnum) EnumeratorName(index int) string { return f.variants[index] }

func TestCallableString(t *testing.T) {
	c := object.NewFuncCallable(fakeFunc{"sum"}, types.Info{Kind: types.Function})
	if got, want := c.String(), "<function sum>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

type fakeFunc struct{ name string }

func (f fakeFunc) FuncName() string { return f.name }
