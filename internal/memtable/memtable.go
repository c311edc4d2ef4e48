// Package memtable is a minimal sorted in-memory key/value set. It
// exists only to give TwoMergeIterator a second concrete source to
// merge against (spec.md §2's data flow: "(MemtableIterator,
// MergeIterator<SstIter>) -> TwoMergeIterator"); the write-ahead log,
// flush-to-SST, and sequence-number machinery a production memtable
// would carry are out of scope (spec.md §1 Non-goals).
package memtable

import (
	"sort"

	"strata/internal/common"
)

// Memtable is a sorted map of keys to values, supporting Put/Delete
// and a sorted-order Iterator.
type Memtable struct {
	items map[string][]byte
}

// New creates an empty Memtable.
func New() *Memtable {
	return &Memtable{items: make(map[string][]byte)}
}

// Put records or overwrites the value for key.
func (m *Memtable) Put(key common.Key, value []byte) {
	if key.IsEmpty() {
		panic(common.ErrEmptyKey)
	}
	m.items[string(key)] = append([]byte(nil), value...)
}

// Delete removes key. Unlike a production memtable this has no
// tombstone: since there is no underlying SST to shadow, a deleted
// key simply stops existing here.
func (m *Memtable) Delete(key common.Key) {
	delete(m.items, string(key))
}

// Get returns the value for key, if present.
func (m *Memtable) Get(key common.Key) ([]byte, bool) {
	v, ok := m.items[string(key)]
	return v, ok
}

// Len returns the number of entries.
func (m *Memtable) Len() int {
	return len(m.items)
}

func (m *Memtable) sortedKeys() []string {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
