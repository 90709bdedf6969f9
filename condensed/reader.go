package condensed

import (
	"encoding/binary"
	"math"

	"github.com/bytewisp/condensed/value"
)

// DecodeCondensed parses the condensed binary format into a Value. Every
// Number read from a float tag (half, FLOAT, DOUBLE) carries the matching
// PrecisionHint, so re-encoding without an explicit hint override
// reproduces the same width. Numbers read from integer tags carry no hint;
// the writer's integer ladder does not consult one.
func DecodeCondensed(data []byte) (*value.Value, error) {
	r := &reader{src: data, sr: newShapeRegistry()}
	v, err := r.decodeValue()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// shapeDef is what the reader has learned about a registered shape
// index: the field names, in the order values for that shape are
// written. It is bound the moment a shape's first (always inline)
// occurrence is decoded, so it is already on file by the time any
// dictionary tag can legally reference that index.
type shapeDef struct {
	keys []string
}

type reader struct {
	src    []byte
	pos    int
	sr     *shapeRegistry
	shapes []*shapeDef // indexed by shape index, grown on demand
}

func (r *reader) atEnd() bool {
	return r.pos >= len(r.src)
}

func (r *reader) fail(kind CondensedErrorKind, detail string) error {
	return &MalformedCondensedError{Offset: r.pos, Subkind: kind, Detail: detail}
}

func (r *reader) need(n int) error {
	if len(r.src)-r.pos < n {
		return r.fail(UnexpectedEOF, "")
	}
	return nil
}

func (r *reader) readByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.src[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.src[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) decodeValue() (*value.Value, error) {
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch {
	case tag&tagHalfFloatBit != 0:
		b1, err := r.readByte()
		if err != nil {
			return nil, err
		}
		return value.NewNumberWithHint(decodeHalf(tag, b1), value.PrecisionHalf), nil

	case tag == tagLongString:
		return r.decodeLongString()
	case tag == tagReserved1:
		return nil, &VersionTooLowError{Offset: r.pos - 1, Tag: tag}
	case tag&0xE0 == tagShortStringBase:
		return r.decodeShortString(int(tag & shortStringMask))

	case tag&0xE0 == tagMinimalIntBase:
		return value.NewNumber(float64(signExtend5(tag & minimalIntMask))), nil

	case tag == tagUncommonObj:
		return r.decodeShapeReference(tag)
	case tag == tagRareObj:
		return r.decodeShapeReference(tag)
	case tag&tagCommonObjBase == tagCommonObjBase:
		return r.decodeShapeReference(tag)

	case tag == tagLargeUnique:
		return r.decodeUniqueObject(-1)
	case tag == tagHashtable:
		return r.decodeHashtableObject()
	case tag&0xF0 == tagSmallUniqueBase:
		return r.decodeUniqueObject(int(tag & objectMask))

	case tag == tagLongArray:
		return r.decodeArray(-1)
	case tag&0xF0 == tagShortArrayBase:
		return r.decodeArray(int(tag & shortArrayMask))

	case tag&0xF0 == tagVeryShortBase:
		return r.decodeVeryShortInt(tag)

	case tag == tagDouble:
		return r.decodeDouble()
	case tag == tagFloat:
		return r.decodeFloat()
	case tag == tagSignedLongInteger:
		return r.decodeIntTag(8, true)
	case tag == tagUnsignedLongInt:
		return r.decodeIntTag(8, false)
	case tag == tagSignedInteger:
		return r.decodeIntTag(4, true)
	case tag == tagUnsignedInteger:
		return r.decodeIntTag(4, false)
	case tag == tagSignedShortInt:
		return r.decodeIntTag(2, true)
	case tag == tagUnsignedShortInt:
		return r.decodeIntTag(2, false)
	case tag == tagReserved4:
		return nil, &VersionTooLowError{Offset: r.pos - 1, Tag: tag}
	case tag == tagTrue:
		return value.NewBool(true), nil
	case tag == tagFalse:
		return value.NewBool(false), nil
	case tag == tagNil:
		return value.NewNull(), nil
	case tag == tagTerminator:
		return nil, r.fail(UnknownTag, "unexpected terminator")
	default:
		return nil, r.fail(UnknownTag, "")
	}
}

func signExtend5(v byte) int8 {
	return int8(v<<3) >> 3
}

func (r *reader) decodeVeryShortInt(tag byte) (*value.Value, error) {
	low, err := r.readByte()
	if err != nil {
		return nil, err
	}
	nibble := int32(tag & veryShortMask)
	high12 := nibble<<8 | int32(low)
	if high12 >= 2048 {
		high12 -= 4096
	}
	return value.NewNumber(float64(high12)), nil
}

func (r *reader) decodeIntTag(width int, signed bool) (*value.Value, error) {
	b, err := r.readBytes(width)
	if err != nil {
		return nil, err
	}
	switch width {
	case 2:
		u := binary.LittleEndian.Uint16(b)
		if signed {
			return value.NewNumber(float64(int16(u))), nil
		}
		return value.NewNumber(float64(u)), nil
	case 4:
		u := binary.LittleEndian.Uint32(b)
		if signed {
			return value.NewNumber(float64(int32(u))), nil
		}
		return value.NewNumber(float64(u)), nil
	default:
		u := binary.LittleEndian.Uint64(b)
		if signed {
			return value.NewNumber(float64(int64(u))), nil
		}
		return value.NewNumber(float64(u)), nil
	}
}

func (r *reader) decodeFloat() (*value.Value, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return nil, err
	}
	f := math.Float32frombits(binary.LittleEndian.Uint32(b))
	return value.NewNumberWithHint(float64(f), value.PrecisionSingle), nil
}

func (r *reader) decodeDouble() (*value.Value, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return nil, err
	}
	f := math.Float64frombits(binary.LittleEndian.Uint64(b))
	return value.NewNumberWithHint(f, value.PrecisionDouble), nil
}

func (r *reader) decodeShortString(n int) (*value.Value, error) {
	b, err := r.readBytes(n)
	if err != nil {
		return nil, err
	}
	return value.NewString(string(b)), nil
}

func (r *reader) decodeLongString() (*value.Value, error) {
	lb, err := r.readBytes(4)
	if err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint32(lb))
	b, err := r.readBytes(n)
	if err != nil {
		return nil, err
	}
	return value.NewString(string(b)), nil
}

// readRawKey reads one key from the high-bit-framed byte run shapeKeyFor
// writes: plain bytes accumulate until one arrives with its high bit
// set, which is the key's last byte (masked back to its original value).
// There is no length prefix and no string tag — the framing bit alone
// marks where a key ends.
func (r *reader) readRawKey() (string, error) {
	var buf []byte
	for {
		b, err := r.readByte()
		if err != nil {
			return "", err
		}
		if b&stringFinalBit != 0 {
			buf = append(buf, b&^stringFinalBit)
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

// registerShape reserves a dictionary slot for keys' shape the moment it
// is decoded, mirroring the writer's shapeRegistry so a later dictionary
// tag resolves to the same index without needing any key list of its own.
func (r *reader) registerShape(keys []string) {
	if len(keys) == 0 {
		return // {} is never registered; it always stays a bare SMALL_UNIQUE_OBJECT|0
	}
	shapeKey, ok := shapeKeyFor(keys)
	if !ok {
		return
	}
	idx, usable, _ := r.sr.observe(shapeKey, keys)
	if !usable {
		return
	}
	for len(r.shapes) <= idx {
		r.shapes = append(r.shapes, nil)
	}
	if r.shapes[idx] == nil {
		r.shapes[idx] = &shapeDef{keys: keys}
	}
}

func (r *reader) decodeArray(n int) (*value.Value, error) {
	if n < 0 {
		lb, err := r.readBytes(4)
		if err != nil {
			return nil, err
		}
		n = int(binary.LittleEndian.Uint32(lb))
	}
	arr := value.NewArray()
	for i := 0; i < n; i++ {
		elem, err := r.decodeValue()
		if err != nil {
			return nil, err
		}
		if err := arr.Push(elem); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

// decodeUniqueObject reads a SMALL_UNIQUE_OBJECT (n >= 0, field count
// already known from the tag, descriptor has no terminator) or a
// LARGE_UNIQUE_OBJECT (n == -1, field count not known ahead of time,
// descriptor runs until a TERMINATOR): the raw high-bit-framed key run
// shapeKeyFor writes, followed by the field values in that order. Every
// shape's first occurrence takes this path, which also reserves that
// shape's dictionary slot for any later occurrence to reference bare.
func (r *reader) decodeUniqueObject(n int) (*value.Value, error) {
	var keys []string
	if n < 0 {
		for {
			b, err := r.readByte()
			if err != nil {
				return nil, err
			}
			if b == tagTerminator {
				break
			}
			r.pos--
			k, err := r.readRawKey()
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
		}
	} else {
		keys = make([]string, n)
		for i := range keys {
			k, err := r.readRawKey()
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
	}
	r.registerShape(keys)
	obj := value.NewObject()
	for _, k := range keys {
		val, err := r.decodeValue()
		if err != nil {
			return nil, err
		}
		if err := obj.SetKey(k, val); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// decodeHashtableObject reads the nonempty keys, each raw bytes closed by
// its own TERMINATOR, until the list-ending TERMINATOR. If an extra
// TERMINATOR precedes that one, "" was a key too; its value then comes
// last, after every nonempty key's value, mirroring the writer's order.
func (r *reader) decodeHashtableObject() (*value.Value, error) {
	var keys []string
	for {
		start := r.pos
		var buf []byte
		for {
			b, err := r.readByte()
			if err != nil {
				return nil, err
			}
			if b == tagTerminator {
				break
			}
			buf = append(buf, b)
		}
		if len(buf) == 0 {
			r.pos = start
			break
		}
		keys = append(keys, string(buf))
	}

	if _, err := r.readByte(); err != nil { // consume the list-ending TERMINATOR
		return nil, err
	}
	hasEmpty := false
	second, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if second == tagTerminator {
		hasEmpty = true
	} else {
		r.pos--
	}

	obj := value.NewObject()
	for _, k := range keys {
		val, err := r.decodeValue()
		if err != nil {
			return nil, err
		}
		if err := obj.SetKey(k, val); err != nil {
			return nil, err
		}
	}
	if hasEmpty {
		val, err := r.decodeValue()
		if err != nil {
			return nil, err
		}
		if err := obj.SetKey("", val); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// decodeShapeReference reads a COMMON_OBJECT, UNCOMMON_OBJECT or
// RARE_OBJECT tag: resolves it to a shape index and reuses the key list
// already on file for it. That list is always on file by this point —
// a dictionary tag only ever appears from a shape's second occurrence
// onward, and its first occurrence (decodeUniqueObject) reserved the
// slot. A RARE_OBJECT index is big-endian on the wire.
func (r *reader) decodeShapeReference(tag byte) (*value.Value, error) {
	var index int
	switch {
	case tag == tagUncommonObj:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		index = maxCommonObjectID + 1 + int(b)
	case tag == tagRareObj:
		b, err := r.readBytes(2)
		if err != nil {
			return nil, err
		}
		index = maxUncommonObjectID + 1 + int(binary.BigEndian.Uint16(b))
	default:
		index = int(tag & objectMask)
	}

	if index >= len(r.shapes) || r.shapes[index] == nil {
		return nil, r.fail(InvalidShapeIndex, "shape reference to an undefined index")
	}
	def := r.shapes[index]

	obj := value.NewObject()
	for _, k := range def.keys {
		val, err := r.decodeValue()
		if err != nil {
			return nil, err
		}
		if err := obj.SetKey(k, val); err != nil {
			return nil, err
		}
	}
	return obj, nil
}
