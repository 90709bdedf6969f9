package condensed

// shapeKeyFor builds the wire framing for an object's field names: the
// sorted key list concatenated byte-for-byte, with the high bit of each
// key's final byte set so concatenated keys stay unambiguous without a
// separator. It reports false when any key is empty or any key byte
// already has its high bit set, since both collide with the framing bit;
// such objects always take the hashtable path instead.
func shapeKeyFor(keys []string) (string, bool) {
	size := 0
	for _, k := range keys {
		size += len(k)
	}
	buf := make([]byte, 0, size)
	for _, k := range keys {
		if len(k) == 0 {
			return "", false
		}
		for i := 0; i < len(k); i++ {
			c := k[i]
			if c >= 0x80 {
				return "", false
			}
			if i == len(k)-1 {
				c |= stringFinalBit
			}
			buf = append(buf, c)
		}
	}
	return string(buf), true
}

// shapeEntry is what the registry remembers about one distinct field-name
// set: its index (reserved the moment the shape is first seen, whether or
// not it ever recurs) and whether that index still fits a tag.
type shapeEntry struct {
	keys   []string
	index  int
	usable bool
}

// shapeRegistry assigns a dictionary index to every distinct shape the
// moment it is first seen, but the index is only ever written to (or read
// from) the wire starting with that shape's SECOND occurrence — the first
// occurrence always carries its own inline key list as a SMALL_UNIQUE_OBJECT
// or LARGE_UNIQUE_OBJECT. This lets a single pass over the value tree,
// run identically on the encode and decode side, agree on index assignment
// without either side needing to look ahead: by the time a dictionary tag
// can legally appear for a shape, both sides already reserved its index
// when they saw that shape's first occurrence.
//
// Running out of index space (past RARE_OBJECT's range) leaves a shape's
// entry permanently unusable rather than erroring: every later occurrence
// of that shape keeps emitting its own inline key list.
type shapeRegistry struct {
	entries map[string]*shapeEntry
	next    int
}

func newShapeRegistry() *shapeRegistry {
	return &shapeRegistry{entries: make(map[string]*shapeEntry)}
}

// observe records one occurrence of shapeKey (with its sorted field
// names). idx and usable describe the shape's reserved slot regardless of
// occurrence count; useDict is true only from the second occurrence
// onward, and only if that slot is still within range.
func (sr *shapeRegistry) observe(shapeKey string, keys []string) (idx int, usable bool, useDict bool) {
	e, ok := sr.entries[shapeKey]
	if !ok {
		idx := sr.next
		sr.next++
		e = &shapeEntry{keys: keys, index: idx, usable: idx <= maxRareObjectID}
		sr.entries[shapeKey] = e
		return e.index, e.usable, false
	}
	return e.index, e.usable, e.usable
}
