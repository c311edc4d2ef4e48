package block

import "strata/internal/common"

// Iterator positions over a Block's entries. It implements the
// iterators.StorageIterator capability structurally (spec.md §4.3,
// §4.9) without importing that package, avoiding a dependency cycle
// with internal/iterators.
type Iterator struct {
	block *Block
	key   common.Key
	value []byte
	idx   int
}

// NewIterator creates an Iterator over block, positioned before the
// first entry (invalid until SeekToFirst or SeekToKey is called).
func NewIterator(blk *Block) *Iterator {
	return &Iterator{block: blk}
}

// NewIteratorAndSeekToFirst creates an Iterator already positioned at
// the block's first entry.
func NewIteratorAndSeekToFirst(blk *Block) (*Iterator, error) {
	it := NewIterator(blk)
	if err := it.SeekToFirst(); err != nil {
		return nil, err
	}
	return it, nil
}

// NewIteratorAndSeekToKey creates an Iterator positioned at the
// smallest key >= k, or invalid if none.
func NewIteratorAndSeekToKey(blk *Block, k common.Key) (*Iterator, error) {
	it := NewIterator(blk)
	if err := it.SeekToKey(k); err != nil {
		return nil, err
	}
	return it, nil
}

// Key returns the current entry's key. Empty denotes an invalid
// position.
func (it *Iterator) Key() common.Key {
	return it.key
}

// Value returns the current entry's value.
func (it *Iterator) Value() []byte {
	return it.value
}

// IsValid reports whether the iterator is positioned at a real entry.
func (it *Iterator) IsValid() bool {
	return !it.key.IsEmpty()
}

func (it *Iterator) loadAt(idx int) error {
	key, value, _, err := parseEntryAt(it.block.Data, int(it.block.Offsets[idx]))
	if err != nil {
		return err
	}
	it.idx = idx
	it.key = key
	it.value = value
	return nil
}

func (it *Iterator) invalidate() {
	it.key = nil
	it.value = nil
}

// SeekToFirst parses the entry at offset 0 and positions there.
func (it *Iterator) SeekToFirst() error {
	if it.block.NumEntries() == 0 {
		it.invalidate()
		return nil
	}
	return it.loadAt(0)
}

// Next advances to the following entry, or invalidates the iterator
// if it was already at the last one (spec.md §4.3). A no-op on an
// already-invalid iterator.
func (it *Iterator) Next() error {
	if !it.IsValid() {
		return nil
	}
	if it.idx+1 >= it.block.NumEntries() {
		it.invalidate()
		return nil
	}
	return it.loadAt(it.idx + 1)
}

// SeekToKey positions the iterator at the smallest key >= k, or
// invalidates it if no such key exists. Implemented as a binary
// search over the offset directory rather than the linear scan the
// spec describes as equivalent, since the directory already supports
// random access (spec.md §4.3, §9 open question 1 — this revision
// does not copy the source's stale-offset arithmetic either way).
func (it *Iterator) SeekToKey(k common.Key) error {
	n := it.block.NumEntries()
	if n == 0 {
		it.invalidate()
		return nil
	}

	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		key, _, _, err := parseEntryAt(it.block.Data, int(it.block.Offsets[mid]))
		if err != nil {
			return err
		}
		if key.Compare(k) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo >= n {
		it.invalidate()
		return nil
	}
	return it.loadAt(lo)
}
