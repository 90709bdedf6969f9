package value

import (
	"errors"
	"testing"
)

func TestConstructorsAndKind(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want Kind
	}{
		{"null", NewNull(), Null},
		{"bool", NewBool(true), Bool},
		{"number", NewNumber(3.5), Number},
		{"string", NewString("hi"), String},
		{"array", NewArray(), Array},
		{"object", NewObject(), Object},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.want {
				t.Errorf("Kind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNilValueIsNull(t *testing.T) {
	var v *Value
	if !v.IsNull() {
		t.Errorf("nil *Value should report IsNull")
	}
	if v.Kind() != Null {
		t.Errorf("nil *Value Kind() = %s, want null", v.Kind())
	}
}

func TestAccessorTypeMismatch(t *testing.T) {
	v := NewBool(true)
	_, err := v.AsNumber()
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *TypeMismatchError, got %v", err)
	}
	if mismatch.Want != Number || mismatch.Got != Bool {
		t.Errorf("unexpected mismatch fields: %+v", mismatch)
	}
}

func TestArrayIndexOutOfRange(t *testing.T) {
	v := NewArray()
	v.Push(NewNumber(1))
	if _, err := v.Index(1); err == nil {
		t.Fatalf("expected IndexOutOfRangeError")
	}
	var oor *IndexOutOfRangeError
	_, err := v.Index(-1)
	if !errors.As(err, &oor) {
		t.Fatalf("expected *IndexOutOfRangeError, got %v", err)
	}
}

func TestObjectGetMissingKey(t *testing.T) {
	v := NewObject()
	_, err := v.Get("missing")
	var notFound *KeyNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *KeyNotFoundError, got %v", err)
	}
}

func TestObjectSetInsertsAndOverwrites(t *testing.T) {
	v := NewObject()
	if err := v.SetKey("a", NewNumber(1)); err != nil {
		t.Fatal(err)
	}
	if err := v.SetKey("a", NewNumber(2)); err != nil {
		t.Fatal(err)
	}
	obj, _ := v.AsObject()
	if obj.Len() != 1 {
		t.Fatalf("expected 1 key after overwrite, got %d", obj.Len())
	}
	got, _ := v.Get("a")
	n, _ := got.AsNumber()
	if n != 2 {
		t.Errorf("expected overwritten value 2, got %v", n)
	}
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	v := NewObject()
	v.SetKey("z", NewNumber(1))
	v.SetKey("a", NewNumber(2))
	v.SetKey("m", NewNumber(3))
	obj, _ := v.AsObject()
	got := obj.Keys()
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
	sorted := obj.SortedKeys()
	wantSorted := []string{"a", "m", "z"}
	for i := range wantSorted {
		if sorted[i] != wantSorted[i] {
			t.Fatalf("SortedKeys() = %v, want %v", sorted, wantSorted)
		}
	}
}

func TestEqualArraysElementWise(t *testing.T) {
	a := NewArray()
	a.Push(NewNumber(1))
	a.Push(NewString("x"))

	b := NewArray()
	b.Push(NewNumber(1))
	b.Push(NewString("x"))

	if !a.Equal(b) {
		t.Errorf("expected equal arrays")
	}

	c := NewArray()
	c.Push(NewString("x"))
	c.Push(NewNumber(1))
	if a.Equal(c) {
		t.Errorf("expected order-sensitive arrays to differ")
	}
}

func TestEqualObjectsIgnoreOrder(t *testing.T) {
	a := NewObject()
	a.SetKey("x", NewNumber(1))
	a.SetKey("y", NewNumber(2))

	b := NewObject()
	b.SetKey("y", NewNumber(2))
	b.SetKey("x", NewNumber(1))

	if !a.Equal(b) {
		t.Errorf("expected key-order-insensitive object equality")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewArray()
	inner := NewObject()
	inner.SetKey("a", NewNumber(1))
	orig.Push(inner)

	cloned := orig.Clone()
	innerArr, _ := cloned.AsArray()
	clonedInner, _ := innerArr[0].AsObject()
	clonedInner.Set("a", NewNumber(99))

	origArr, _ := orig.AsArray()
	origInner, _ := origArr[0].AsObject()
	origVal, _ := origInner.Get("a")
	n, _ := origVal.AsNumber()
	if n != 1 {
		t.Errorf("mutating clone leaked into original: got %v", n)
	}
}

func TestPrecisionHintOnlyAppliesToNumber(t *testing.T) {
	n := NewNumber(1.5)
	n.SetPrecisionHint(PrecisionHalf)
	if n.PrecisionHint() != PrecisionHalf {
		t.Errorf("expected hint to stick on Number")
	}

	s := NewString("x")
	s.SetPrecisionHint(PrecisionHalf)
	if s.PrecisionHint() != PrecisionAbsent {
		t.Errorf("expected hint to be ignored on non-Number")
	}
}

func TestNumberEqualityIgnoresPrecisionHint(t *testing.T) {
	a := NewNumberWithHint(2, PrecisionHalf)
	b := NewNumberWithHint(2, PrecisionDouble)
	if !a.Equal(b) {
		t.Errorf("Number equality must ignore precision hints")
	}
}
