package condensed

import "github.com/bytewisp/condensed/value"

// WriterOptions controls how CondensedWriter picks a floating-point
// precision when a Number carries no PrecisionHint of its own.
type WriterOptions struct {
	// PreferredPrecision nudges the precision search in choosePrecision:
	// Half is tried first when this is PrecisionHalf, Double is kept
	// without narrowing when this is PrecisionDouble, the value cannot
	// round-trip through float32, and its low mantissa bits are not all
	// clear.
	PreferredPrecision value.PrecisionHint
}

// DefaultWriterOptions returns WriterOptions with PreferredPrecision set
// to Half, the original format's default bias toward the most compact
// representation.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{PreferredPrecision: value.PrecisionHalf}
}
