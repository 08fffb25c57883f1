package types_test

import (
	"testing"

	"github.com/flamelang/flame/internal/types"
)

type fakeClass struct{ name string }

func (f *fakeClass) ClassName() string { return f.name }

type fakeEnum struct {
	name  string
	variants []string
}

func (f *fakeEnum) EnumName() string                   { return f.name }
func (f *fakeEnum) EnumeratorName(index int) string     { return f.variants[index] }

func TestKindNeededParamCount(t *testing.T) {
	cases := map[types.Kind]int{
		types.None: 0, types.Int: 0, types.Vector: 1, types.Dict: 2, types.Tuple: 1,
	}
	for k, want := range cases {
		if got := k.NeededParamCount(); got != want {
			t.Errorf("%v.NeededParamCount() = %d, want %d", k, got, want)
		}
	}
}

func TestEqualsStructural(t *testing.T) {
	a := types.NewParam(types.Vector, types.New(types.Int))
	b := types.NewParam(types.Vector, types.New(types.Int))
	c := types.NewParam(types.Vector, types.New(types.String))
	if !a.Equals(b) {
		t.Fatalf("expected vector<int> == vector<int>")
	}
	if a.Equals(c) {
		t.Fatalf("expected vector<int> != vector<string>")
	}
}

func TestEqualsNominalInstance(t *testing.T) {
	cls1 := &fakeClass{name: "Point"}
	cls2 := &fakeClass{name: "Point"}
	a := types.FromClass(cls1)
	b := types.FromClass(cls1)
	c := types.FromClass(cls2)
	if !a.Equals(b) {
		t.Fatalf("expected same class declaration to compare equal")
	}
	if a.Equals(c) {
		t.Fatalf("expected distinct class declarations with the same name to compare unequal")
	}
}

func TestEqualsEnumerator(t *testing.T) {
	en := &fakeEnum{name: "Color", variants: []string{"Red", "Green"}}
	bareEnumType := types.FromEnum(en)
	red := types.FromEnumerator(en, 0)
	green := types.FromEnumerator(en, 1)

	if !bareEnumType.Equals(red) {
		t.Fatalf("expected a bare enum type to compare equal to any of its enumerators")
	}
	if red.Equals(green) {
		t.Fatalf("expected Color::Red != Color::Green")
	}
	if !red.Equals(types.FromEnumerator(en, 0)) {
		t.Fatalf("expected Color::Red == Color::Red")
	}
}

func TestStringRendersNested(t *testing.T) {
	v := types.NewParam(types.Vector, types.New(types.Int))
	if got, want := v.String(), "vector<int>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	fn := types.Info{Kind: types.Function, Params: []types.Info{types.New(types.Bool), types.New(types.Int), types.New(types.String)}}
	if got, want := fn.String(), "(int, string) -> bool"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	empty := types.Info{Kind: types.Function}
	if got, want := empty.String(), "() -> none"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPredicates(t *testing.T) {
	if !types.New(types.Int).IsInt() {
		t.Fatalf("expected IsInt")
	}
	if !types.New(types.Vector).IsVector() {
		t.Fatalf("expected IsVector")
	}
	if types.New(types.Int).IsFloat() {
		t.Fatalf("did not expect IsFloat")
	}
}
