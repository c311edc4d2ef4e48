package iterators

import "strata/internal/common"

// sliceIterator is a minimal StorageIterator over an in-memory slice
// of entries, used throughout this package's tests to exercise
// MergeIterator and TwoMergeIterator without needing a real Block or
// SsTable.
type sliceIterator struct {
	entries []common.Entry
	idx     int
}

func newSliceIterator(entries []common.Entry) *sliceIterator {
	return &sliceIterator{entries: entries}
}

var _ StorageIterator = (*sliceIterator)(nil)

func (s *sliceIterator) Key() common.Key {
	if !s.IsValid() {
		return nil
	}
	return s.entries[s.idx].Key
}

func (s *sliceIterator) Value() []byte {
	if !s.IsValid() {
		return nil
	}
	return s.entries[s.idx].Value
}

func (s *sliceIterator) IsValid() bool {
	return s.idx < len(s.entries)
}

func (s *sliceIterator) Next() error {
	if s.IsValid() {
		s.idx++
	}
	return nil
}

func entry(key, value string) common.Entry {
	return common.Entry{Key: common.Key(key), Value: []byte(value)}
}
