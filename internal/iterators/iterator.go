// Package iterators implements the merge algebra that lets a read path
// stream keys in sorted order across many sources while honoring
// shadowing rules: a k-way MergeIterator and a 2-way TwoMergeIterator,
// both built on the uniform StorageIterator capability (spec.md §4.9).
package iterators

import "strata/internal/common"

// StorageIterator is the capability every concrete iterator in this
// module (BlockIterator, SsTableIterator, MergeIterator,
// TwoMergeIterator, MemtableIterator) implements, so that any of them
// can be merged with any other. Key and Value must be cheap, pure, and
// borrow from iterator-owned storage valid until the next Next/Seek;
// Next is the only method that can fail, and once it returns an error
// the iterator is terminal (spec.md §4.9, §7).
type StorageIterator interface {
	Key() common.Key
	Value() []byte
	IsValid() bool
	Next() error
}
