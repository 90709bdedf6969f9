package condensed

import (
	"encoding/binary"
	"math"

	"github.com/bytewisp/condensed/value"
)

// EncodeCondensed serializes v to the condensed binary format using
// DefaultWriterOptions.
func EncodeCondensed(v *value.Value) ([]byte, error) {
	return EncodeCondensedWithOptions(v, DefaultWriterOptions())
}

// EncodeCondensedWithOptions serializes v to the condensed binary format.
// The shape dictionary is built fresh for this one call and discarded
// afterward; nothing about the encoding is shared across calls.
func EncodeCondensedWithOptions(v *value.Value, opts WriterOptions) ([]byte, error) {
	w := &writer{sr: newShapeRegistry(), opts: opts}
	if err := w.encodeValue(v); err != nil {
		return nil, err
	}
	return w.buf, nil
}

type writer struct {
	buf  []byte
	sr   *shapeRegistry
	opts WriterOptions
}

func (w *writer) encodeValue(v *value.Value) error {
	if v == nil {
		w.buf = append(w.buf, tagNil)
		return nil
	}
	switch v.Kind() {
	case value.Null:
		w.buf = append(w.buf, tagNil)
	case value.Bool:
		b, _ := v.AsBool()
		if b {
			w.buf = append(w.buf, tagTrue)
		} else {
			w.buf = append(w.buf, tagFalse)
		}
	case value.Number:
		n, _ := v.AsNumber()
		return w.encodeNumber(n, v.PrecisionHint())
	case value.String:
		s, _ := v.AsString()
		w.encodeString(s)
	case value.Array:
		elems, _ := v.AsArray()
		return w.encodeArray(elems)
	case value.Object:
		obj, _ := v.AsObject()
		return w.encodeObject(obj)
	}
	return nil
}

// fitsInt64Range reports whether v is safely convertible to int64 without
// relying on Go's implementation-defined behavior for out-of-range
// float-to-int conversions. A naive implementation casts first and
// compares after the fact, which is undefined once the cast itself
// overflows; checking the bounds on the float before converting avoids
// that trap and lets us fail with a clear error instead of silently
// dropping or corrupting the value.
func fitsInt64Range(v float64) bool {
	return v >= -9223372036854775808.0 && v < 9223372036854775808.0
}

func (w *writer) encodeNumber(n float64, hint value.PrecisionHint) error {
	if math.Trunc(n) == n {
		if fitsInt64Range(n) {
			w.encodeInt(int64(n))
			return nil
		}
		return &IntegerOutOfRangeError{Value: n}
	}
	h := hint
	if h == value.PrecisionAbsent {
		h = choosePrecision(n, w.opts.PreferredPrecision)
	}
	switch h {
	case value.PrecisionHalf:
		b0, b1 := encodeHalf(math.Float64bits(n))
		w.buf = append(w.buf, b0, b1)
	case value.PrecisionSingle:
		w.buf = append(w.buf, tagFloat)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(n)))
		w.buf = append(w.buf, b[:]...)
	default:
		w.buf = append(w.buf, tagDouble)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(n))
		w.buf = append(w.buf, b[:]...)
	}
	return nil
}

// encodeInt narrows an exact integer into the smallest tag that holds it,
// replicating the original's tier ladder including its strict (not
// inclusive) type-boundary comparisons: a value exactly at, say, int16's
// maximum does not get SIGNED_SHORT_INTEGER, it falls through to the next
// tier up. Boundary tests in writer_test.go exercise this deliberately.
func (w *writer) encodeInt(iv int64) {
	switch {
	case iv >= -16 && iv <= 15:
		w.buf = append(w.buf, tagMinimalIntBase|byte(int8(iv))&minimalIntMask)
	case iv >= -2048 && iv <= 2047:
		w.buf = append(w.buf, tagVeryShortBase|byte((iv>>8)&veryShortMask), byte(iv))
	case iv > math.MinInt16 && iv < math.MaxInt16:
		w.buf = append(w.buf, tagSignedShortInt)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(int16(iv)))
		w.buf = append(w.buf, b[:]...)
	case iv > 0 && iv < math.MaxUint16:
		w.buf = append(w.buf, tagUnsignedShortInt)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(iv))
		w.buf = append(w.buf, b[:]...)
	case iv > math.MinInt32 && iv < math.MaxInt32:
		w.buf = append(w.buf, tagSignedInteger)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(int32(iv)))
		w.buf = append(w.buf, b[:]...)
	case iv > 0 && iv < math.MaxUint32:
		w.buf = append(w.buf, tagUnsignedInteger)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(iv))
		w.buf = append(w.buf, b[:]...)
	default:
		w.buf = append(w.buf, tagSignedLongInteger)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(iv))
		w.buf = append(w.buf, b[:]...)
	}
}

func (w *writer) encodeString(s string) {
	n := len(s)
	if n < maxShortStringLen {
		w.buf = append(w.buf, tagShortStringBase|byte(n))
	} else {
		w.buf = append(w.buf, tagLongString)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		w.buf = append(w.buf, b[:]...)
	}
	w.buf = append(w.buf, s...)
}

func (w *writer) encodeArray(elems []*value.Value) error {
	n := len(elems)
	if n < maxShortArrayLen {
		w.buf = append(w.buf, tagShortArrayBase|byte(n))
	} else {
		w.buf = append(w.buf, tagLongArray)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		w.buf = append(w.buf, b[:]...)
	}
	for _, e := range elems {
		if err := w.encodeValue(e); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) encodeObject(obj *value.Obj) error {
	keys := obj.SortedKeys()
	if len(keys) == 0 {
		w.buf = append(w.buf, tagSmallUniqueBase)
		return nil
	}
	shapeKey, representable := shapeKeyFor(keys)
	if !representable {
		return w.encodeHashtableObject(obj)
	}
	idx, _, useDict := w.sr.observe(shapeKey, keys)
	if useDict {
		w.writeShapeTag(idx)
		return w.encodeFields(obj, keys)
	}
	return w.encodeUniqueObject(obj, keys, shapeKey)
}

// encodeUniqueObject writes a shape's own descriptor inline: the raw
// high-bit-framed key bytes from shapeKeyFor, with no length-prefixed or
// tagged strings and no separate field-count byte. SMALL_UNIQUE_OBJECT's
// count is already known from the tag, so its descriptor needs no
// terminator; LARGE_UNIQUE_OBJECT's is not, so a TERMINATOR closes it.
func (w *writer) encodeUniqueObject(obj *value.Obj, keys []string, shapeKey string) error {
	n := len(keys)
	if n < maxSmallUniqueLen {
		w.buf = append(w.buf, tagSmallUniqueBase|byte(n))
		w.buf = append(w.buf, shapeKey...)
	} else {
		w.buf = append(w.buf, tagLargeUnique)
		w.buf = append(w.buf, shapeKey...)
		w.buf = append(w.buf, tagTerminator)
	}
	return w.encodeFields(obj, keys)
}

func (w *writer) writeShapeTag(index int) {
	switch {
	case index <= maxCommonObjectID:
		w.buf = append(w.buf, tagCommonObjBase|byte(index))
	case index <= maxUncommonObjectID:
		w.buf = append(w.buf, tagUncommonObj, byte(index-(maxCommonObjectID+1)))
	default:
		off := index - (maxUncommonObjectID + 1)
		w.buf = append(w.buf, tagRareObj, byte(off>>8), byte(off))
	}
}

func (w *writer) encodeFields(obj *value.Obj, keys []string) error {
	for _, k := range keys {
		val, _ := obj.Get(k)
		if err := w.encodeValue(val); err != nil {
			return err
		}
	}
	return nil
}

// encodeHashtableObject writes every nonempty key as its raw bytes
// followed by its own TERMINATOR, then the single TERMINATOR that ends
// the key list. A key of "" can't be framed that way — an empty key
// would vanish into the very terminator that is supposed to mark it — so
// its presence is instead signaled by one extra TERMINATOR pushed ahead
// of the list-ending one, and its value is written last, after every
// nonempty key's value, regardless of where "" fell in iteration order.
// Used for objects whose key bytes collide with the shape-dictionary
// framing bit, or that have "" as a key at all.
func (w *writer) encodeHashtableObject(obj *value.Obj) error {
	w.buf = append(w.buf, tagHashtable)
	var nonEmpty []string
	hasEmpty := false
	for _, k := range obj.Keys() {
		if k == "" {
			hasEmpty = true
			continue
		}
		nonEmpty = append(nonEmpty, k)
	}
	for _, k := range nonEmpty {
		w.buf = append(w.buf, k...)
		w.buf = append(w.buf, tagTerminator)
	}
	if hasEmpty {
		w.buf = append(w.buf, tagTerminator)
	}
	w.buf = append(w.buf, tagTerminator)
	for _, k := range nonEmpty {
		val, _ := obj.Get(k)
		if err := w.encodeValue(val); err != nil {
			return err
		}
	}
	if hasEmpty {
		val, _ := obj.Get("")
		if err := w.encodeValue(val); err != nil {
			return err
		}
	}
	return nil
}

// choosePrecision picks a floating-point width for a Number with no
// PrecisionHint of its own. Transcribed bit-for-bit from the original
// writer's nested range/mantissa checks (original_source/condensed_json.hpp)
// rather than re-derived from a paraphrase, since the two low-bit masks
// below encode a specific, non-obvious tolerance policy that is easy to
// get subtly wrong by re-deriving from English.
func choosePrecision(n float64, preferred value.PrecisionHint) value.PrecisionHint {
	const (
		floatMaxAsDouble       = 3.4028234663852886e+38
		floatSmallestNormal    = 1.1754943508222875e-38
		maxHalfPrecision       = 8.57316e+09
		minHalfPrecisionPosVal = 9.34961e-10
		maskPreferDoubleCheck  = uint64(0x00000000fffffffc)
		maskHalfCheck          = uint64(0x007ffffffffffffc)
	)

	tried := math.Abs(n)
	triedBinary := math.Float64bits(n)

	if tried > floatMaxAsDouble || (tried < floatSmallestNormal && tried > 0) {
		return value.PrecisionDouble
	}

	floatRoundTrips := float64(float32(tried)) == tried
	if preferred != value.PrecisionDouble || floatRoundTrips || (triedBinary&maskPreferDoubleCheck) == 0 {
		if tried > maxHalfPrecision || (tried < minHalfPrecisionPosVal && tried > 0) {
			return value.PrecisionSingle
		}
		if preferred == value.PrecisionHalf || (triedBinary&maskHalfCheck) != 0 {
			return value.PrecisionHalf
		}
		return value.PrecisionSingle
	}
	return value.PrecisionDouble
}
