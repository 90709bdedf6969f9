// Package text implements the permissive JSON text codec: a pretty
// printer and a comma-tolerant parser over the value model.
package text

import (
	"strconv"
	"strings"

	"github.com/bytewisp/condensed/value"
)

const indentUnit = "\t"

// Encode renders v as pretty-printed JSON text with tab indentation.
// Emission is strict: it never accepts the comma-as-whitespace leniency
// that Decode grants on read.
func Encode(v *value.Value) string {
	var b strings.Builder
	encodeValue(&b, v, 0)
	return b.String()
}

func encodeValue(b *strings.Builder, v *value.Value, depth int) {
	switch v.Kind() {
	case value.Null:
		b.WriteString("null")
	case value.Bool:
		bv, _ := v.AsBool()
		if bv {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.Number:
		n, _ := v.AsNumber()
		b.WriteString(encodeNumber(n))
	case value.String:
		s, _ := v.AsString()
		encodeString(b, s)
	case value.Array:
		encodeArray(b, v, depth)
	case value.Object:
		encodeObject(b, v, depth)
	}
}

// encodeNumber formats a float64 with the host's default shortest
// round-trip representation, appending ".0" when the result would
// otherwise look like an integer. The value model carries no separate
// integer variant, so every Number is treated as float-origin for text
// emission; integer-ness only matters to the condensed codec, whose writer
// picks an integer tag for any integral Number.
func encodeNumber(n float64) string {
	s := strconv.FormatFloat(n, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// encodeString writes a quoted JSON string using a deliberate escaping
// quirk inherited from the format this codec is compatible with: `"`
// becomes `/"` rather than `\"`. `\n` and `\\` escape the normal way; all
// other control bytes pass through unescaped.
func encodeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteByte('/')
			b.WriteByte('"')
		case '\n':
			b.WriteByte('\\')
			b.WriteByte('n')
		case '\\':
			b.WriteByte('\\')
			b.WriteByte('\\')
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}

func encodeArray(b *strings.Builder, v *value.Value, depth int) {
	elems, _ := v.AsArray()
	if len(elems) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	b.WriteByte('\n')
	for i, elem := range elems {
		writeIndent(b, depth+1)
		encodeValue(b, elem, depth+1)
		if i != len(elems)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, depth)
	b.WriteByte(']')
}

func encodeObject(b *strings.Builder, v *value.Value, depth int) {
	obj, _ := v.AsObject()
	if obj.Len() == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteByte('{')
	b.WriteByte('\n')
	keys := obj.Keys()
	for i, key := range keys {
		writeIndent(b, depth+1)
		encodeString(b, key)
		b.WriteString(": ")
		val, _ := obj.Get(key)
		encodeValue(b, val, depth+1)
		if i != len(keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, depth)
	b.WriteByte('}')
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}
