package condensed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEmptyInputFails(t *testing.T) {
	_, err := DecodeCondensed(nil)
	require.Error(t, err)
	var malformed *MalformedCondensedError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, UnexpectedEOF, malformed.Subkind)
}

func TestDecodeTruncatedVeryShortInt(t *testing.T) {
	_, err := DecodeCondensed([]byte{tagVeryShortBase})
	require.Error(t, err)
	var malformed *MalformedCondensedError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, UnexpectedEOF, malformed.Subkind)
}

func TestDecodeTruncatedShortString(t *testing.T) {
	// claims 3 bytes of payload but supplies none
	_, err := DecodeCondensed([]byte{tagShortStringBase | 3})
	require.Error(t, err)
	var malformed *MalformedCondensedError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, UnexpectedEOF, malformed.Subkind)
}

func TestDecodeTruncatedLongStringLength(t *testing.T) {
	_, err := DecodeCondensed([]byte{tagLongString, 0x00, 0x00})
	require.Error(t, err)
	var malformed *MalformedCondensedError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, UnexpectedEOF, malformed.Subkind)
}

func TestDecodeReservedTagsFail(t *testing.T) {
	for _, tag := range []byte{tagReserved1, tagReserved4} {
		_, err := DecodeCondensed([]byte{tag})
		require.Error(t, err)
		var tooLow *VersionTooLowError
		require.ErrorAsf(t, err, &tooLow, "tag 0x%02x", tag)
	}
}

func TestDecodeUnknownTagFails(t *testing.T) {
	for _, tag := range []byte{0x05, 0x06, 0x07} {
		_, err := DecodeCondensed([]byte{tag})
		require.Error(t, err)
		var malformed *MalformedCondensedError
		require.ErrorAsf(t, err, &malformed, "tag 0x%02x", tag)
		require.Equal(t, UnknownTag, malformed.Subkind)
	}
}

func TestDecodeBareTerminatorFails(t *testing.T) {
	_, err := DecodeCondensed([]byte{tagTerminator})
	require.Error(t, err)
	var malformed *MalformedCondensedError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, UnknownTag, malformed.Subkind)
}

func TestDecodeShapeReferenceWithoutDefinitionFails(t *testing.T) {
	// References shape index 0 directly, with no earlier unique-object
	// occurrence in the payload to define it -- a dictionary tag never
	// carries a key list of its own, so this must fail as an invalid
	// shape index rather than synthesize an empty object.
	_, err := DecodeCondensed([]byte{tagCommonObjBase})
	require.Error(t, err)
	var malformed *MalformedCondensedError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, InvalidShapeIndex, malformed.Subkind)
}

func TestDecodeHashtableMissingTerminatorFails(t *testing.T) {
	// key bytes with no TERMINATOR closing the key or the key list
	data := []byte{tagHashtable, tagShortStringBase | 1, 'a', tagMinimalIntBase | 1}
	_, err := DecodeCondensed(data)
	require.Error(t, err)
}
