package sstable

import (
	"strata/internal/block"
	"strata/internal/common"
)

// Iterator holds the table handle, a current block.Iterator, and the
// current block index, streaming across blocks (spec.md §4.6). It
// implements the iterators.StorageIterator capability structurally.
type Iterator struct {
	table     *SsTable
	blockIter *block.Iterator
	blkIdx    int
}

// NewIteratorAndSeekToFirst creates an Iterator positioned at the
// table's first entry.
func NewIteratorAndSeekToFirst(t *SsTable) (*Iterator, error) {
	it := &Iterator{table: t}
	if err := it.SeekToFirst(); err != nil {
		return nil, err
	}
	return it, nil
}

// NewIteratorAndSeekToKey creates an Iterator positioned at the
// smallest key >= k, or invalid if none.
func NewIteratorAndSeekToKey(t *SsTable, k common.Key) (*Iterator, error) {
	it := &Iterator{table: t}
	if err := it.SeekToKey(k); err != nil {
		return nil, err
	}
	return it, nil
}

// Key returns the current entry's key, empty if invalid.
func (it *Iterator) Key() common.Key {
	if it.blockIter == nil {
		return nil
	}
	return it.blockIter.Key()
}

// Value returns the current entry's value.
func (it *Iterator) Value() []byte {
	if it.blockIter == nil {
		return nil
	}
	return it.blockIter.Value()
}

// IsValid reports whether the iterator is positioned at a real entry.
func (it *Iterator) IsValid() bool {
	return it.blockIter != nil && it.blockIter.IsValid()
}

func (it *Iterator) loadBlockSeekFirst(idx int) error {
	blk, err := it.table.ReadBlock(idx)
	if err != nil {
		return err
	}
	bi, err := block.NewIteratorAndSeekToFirst(blk)
	if err != nil {
		return err
	}
	it.blockIter = bi
	it.blkIdx = idx
	return nil
}

// SeekToFirst loads block 0 and seeks the block iterator to first.
func (it *Iterator) SeekToFirst() error {
	if it.table.NumBlocks() == 0 {
		it.blockIter = nil
		return nil
	}
	return it.loadBlockSeekFirst(0)
}

// Next advances the inner iterator; if it becomes invalid and more
// blocks remain, loads the next block and seeks it to first. At the
// last block's end, the table iterator becomes invalid (spec.md §4.6).
func (it *Iterator) Next() error {
	if it.blockIter == nil {
		return nil
	}
	if err := it.blockIter.Next(); err != nil {
		return err
	}
	if it.blockIter.IsValid() {
		return nil
	}

	next := it.blkIdx + 1
	if next >= it.table.NumBlocks() {
		it.blockIter = nil
		return nil
	}
	return it.loadBlockSeekFirst(next)
}

// SeekToKey locates the block that may contain k via the block_meta
// directory, loads it, and seeks to k. If that leaves the block
// iterator invalid (k past the block's last key), it advances to the
// next block and seeks to first (spec.md §4.6).
func (it *Iterator) SeekToKey(k common.Key) error {
	idx := it.table.FindBlockIdx(k)
	blk, err := it.table.ReadBlock(idx)
	if err != nil {
		return err
	}
	bi, err := block.NewIteratorAndSeekToKey(blk, k)
	if err != nil {
		return err
	}
	it.blockIter = bi
	it.blkIdx = idx

	if it.blockIter.IsValid() {
		return nil
	}

	next := idx + 1
	if next >= it.table.NumBlocks() {
		it.blockIter = nil
		return nil
	}
	return it.loadBlockSeekFirst(next)
}
