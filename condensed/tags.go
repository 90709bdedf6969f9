package condensed

// Tag bytes for the condensed binary format. RARE_OBJECT carries its own
// tag rather than reusing UNCOMMON_OBJECT's, and its 2-byte shape index is
// big-endian on both the writer and the reader.
//
// COMMON_OBJECT's valid shape-index range is 0..5 (six tags, 0x38..0x3D),
// staying contiguous with UNCOMMON_OBJECT's range of 6..261. Byte 0x3D is
// therefore always COMMON_OBJECT index 5 in this implementation; it is
// never treated as a separate reserved tag (see DESIGN.md).
const (
	tagHalfFloatBit    = 0x80 // high bit set: half-precision float, rest of byte is sign+exponent
	tagShortStringBase = 0x60 // 011xxxxx, low5 = length 0..29
	tagReserved1       = 0x7E
	tagLongString      = 0x7F
	tagMinimalIntBase  = 0x40 // 010xxxxx, low5 = signed 5-bit int
	tagCommonObjBase   = 0x38 // 00111xxx, low3 = shape index 0..5 (0x38..0x3D)
	tagUncommonObj     = 0x3E
	tagRareObj         = 0x3F
	tagSmallUniqueBase = 0x30 // 00110xxx, low3 = field count 0..5 (0x30..0x35)
	tagLargeUnique     = 0x36
	tagHashtable       = 0x37
	tagShortArrayBase  = 0x20 // 0010xxxx, low4 = length 0..14
	tagLongArray       = 0x2F
	tagVeryShortBase   = 0x10 // 0001xxxx, high nibble of a 12-bit signed int

	tagDouble             = 0x0F
	tagFloat              = 0x0E
	tagSignedLongInteger  = 0x0D
	tagUnsignedLongInt    = 0x0C
	tagSignedInteger      = 0x0B
	tagUnsignedInteger    = 0x0A
	tagSignedShortInt     = 0x09
	tagUnsignedShortInt   = 0x08
	tagReserved4          = 0x04
	tagTrue               = 0x03
	tagFalse              = 0x02
	tagNil                = 0x01
	tagTerminator         = 0x00
)

const (
	shortStringMask = 0x1F
	minimalIntMask  = 0x1F
	objectMask      = 0x07
	shortArrayMask  = 0x0F
	veryShortMask   = 0x0F

	maxShortStringLen = 30 // strings shorter than this use SHORT_STRING
	maxShortArrayLen  = 15 // arrays shorter than this use SHORT_ARRAY
	maxSmallUniqueLen = 6  // objects with fewer fields than this are SMALL_UNIQUE

	maxCommonObjectID   = 5      // last index encodable as COMMON_OBJECT
	maxUncommonObjectID = 261    // last index encodable as UNCOMMON_OBJECT
	maxRareObjectID     = 65797  // last index encodable as RARE_OBJECT (65536 values past uncommon)

	stringFinalBit = 0x80 // marks the last byte of a key in a shape-key / unique-object key list
)
