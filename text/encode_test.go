package text

import (
	"testing"

	"github.com/bytewisp/condensed/value"
)

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		name string
		v    *value.Value
		want string
	}{
		{"null", value.NewNull(), "null"},
		{"true", value.NewBool(true), "true"},
		{"false", value.NewBool(false), "false"},
		{"integer-looking number", value.NewNumber(3), "3.0"},
		{"fractional number", value.NewNumber(3.5), "3.5"},
		{"negative number", value.NewNumber(-1), "-1.0"},
		{"empty string", value.NewString(""), `""`},
		{"plain string", value.NewString("hello"), `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.v); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeStringQuoteQuirk(t *testing.T) {
	s := value.NewString(`a"b`)
	got := Encode(s)
	want := `"a/"b"`
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeStringBackslashAndNewline(t *testing.T) {
	s := value.NewString("a\\b\nc")
	got := Encode(s)
	want := `"a\\b\nc"`
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeEmptyContainers(t *testing.T) {
	if got := Encode(value.NewArray()); got != "[]" {
		t.Errorf("empty array: got %q", got)
	}
	if got := Encode(value.NewObject()); got != "{}" {
		t.Errorf("empty object: got %q", got)
	}
}

func TestEncodeArrayIndentation(t *testing.T) {
	arr := value.NewArray()
	arr.Push(value.NewNumber(1))
	arr.Push(value.NewNumber(2))
	got := Encode(arr)
	want := "[\n\t1.0,\n\t2.0\n]"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeObjectPreservesInsertionOrder(t *testing.T) {
	obj := value.NewObject()
	obj.SetKey("z", value.NewNumber(1))
	obj.SetKey("a", value.NewNumber(2))
	got := Encode(obj)
	want := "{\n\t\"z\": 1.0,\n\t\"a\": 2.0\n}"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeNestedIndentation(t *testing.T) {
	inner := value.NewArray()
	inner.Push(value.NewNumber(1))
	outer := value.NewObject()
	outer.SetKey("list", inner)
	got := Encode(outer)
	want := "{\n\t\"list\": [\n\t\t1.0\n\t]\n}"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}
