package value

import "sort"

// entry is one key/value pair inside an Object, kept in insertion order.
type entry struct {
	key string
	val *Value
}

// Obj is the backing store for an Object value: an insertion-ordered list
// of entries plus a key->slot index for O(1) lookup. Iteration in
// insertion order is what TextCodec emits; SortedKeys is what the
// condensed shape dictionary needs.
type Obj struct {
	entries []entry
	index   map[string]int
}

func newObj() *Obj {
	return &Obj{index: make(map[string]int)}
}

// Len returns the number of keys.
func (o *Obj) Len() int {
	return len(o.entries)
}

// Get looks up a key, reporting whether it was present.
func (o *Obj) Get(key string) (*Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.entries[i].val, true
}

// Set inserts or overwrites a key, preserving the original insertion
// position on overwrite.
func (o *Obj) Set(key string, val *Value) {
	if i, ok := o.index[key]; ok {
		o.entries[i].val = val
		return
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, entry{key: key, val: val})
}

// Delete removes a key if present.
func (o *Obj) Delete(key string) {
	i, ok := o.index[key]
	if !ok {
		return
	}
	o.entries = append(o.entries[:i], o.entries[i+1:]...)
	delete(o.index, key)
	for k, idx := range o.index {
		if idx > i {
			o.index[k] = idx - 1
		}
	}
}

// Range calls fn for every entry in insertion order. fn returning false
// stops iteration early.
func (o *Obj) Range(fn func(key string, val *Value) bool) {
	for _, e := range o.entries {
		if !fn(e.key, e.val) {
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (o *Obj) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.key
	}
	return keys
}

// SortedKeys returns the keys sorted lexicographically by byte value, the
// order used when computing shape keys and emitting shape-encoded object
// bodies on the wire.
func (o *Obj) SortedKeys() []string {
	keys := o.Keys()
	sort.Strings(keys)
	return keys
}

func (o *Obj) clone() *Obj {
	out := &Obj{
		entries: make([]entry, len(o.entries)),
		index:   make(map[string]int, len(o.index)),
	}
	for i, e := range o.entries {
		out.entries[i] = entry{key: e.key, val: e.val.Clone()}
		out.index[e.key] = i
	}
	return out
}

func (o *Obj) equal(other *Obj) bool {
	if o.Len() != other.Len() {
		return false
	}
	for _, e := range o.entries {
		ov, ok := other.Get(e.key)
		if !ok || !e.val.Equal(ov) {
			return false
		}
	}
	return true
}
