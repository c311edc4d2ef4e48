package iterators

import "strata/internal/common"

// TwoMergeIterator merges two iterators of possibly different
// concrete types sharing the same key type. On equal keys it prefers
// A, discarding B's copy of that key (spec.md §4.8).
type TwoMergeIterator[A StorageIterator, B StorageIterator] struct {
	a, b  StorageIterator
	pickA bool
}

// NewTwoMergeIterator builds a TwoMergeIterator over a and b.
func NewTwoMergeIterator[A StorageIterator, B StorageIterator](a A, b B) (*TwoMergeIterator[A, B], error) {
	it := &TwoMergeIterator[A, B]{a: a, b: b}
	if err := it.skipB(); err != nil {
		return nil, err
	}
	it.pickA = shouldChooseA(it.a, it.b)
	return it, nil
}

// skipB advances b past a key it shares with a, so that key is
// emitted exactly once (from a).
func (it *TwoMergeIterator[A, B]) skipB() error {
	if it.a.IsValid() && it.b.IsValid() && it.a.Key().Compare(it.b.Key()) == 0 {
		return it.b.Next()
	}
	return nil
}

func shouldChooseA(a, b StorageIterator) bool {
	if !a.IsValid() {
		return false
	}
	if !b.IsValid() {
		return true
	}
	return a.Key().Compare(b.Key()) < 0
}

// Key returns the current entry's key, from whichever side is picked.
func (it *TwoMergeIterator[A, B]) Key() common.Key {
	if it.pickA {
		return it.a.Key()
	}
	return it.b.Key()
}

// Value returns the current entry's value, from whichever side is picked.
func (it *TwoMergeIterator[A, B]) Value() []byte {
	if it.pickA {
		return it.a.Value()
	}
	return it.b.Value()
}

// IsValid reports the picked side's validity: true unless both sides
// are exhausted.
func (it *TwoMergeIterator[A, B]) IsValid() bool {
	if it.pickA {
		return it.a.IsValid()
	}
	return it.b.IsValid()
}

// Next advances whichever side is currently picked, discards any
// now-duplicate entry on B, and re-picks a side.
func (it *TwoMergeIterator[A, B]) Next() error {
	var err error
	if it.pickA {
		err = it.a.Next()
	} else {
		err = it.b.Next()
	}
	if err != nil {
		return err
	}

	if err := it.skipB(); err != nil {
		return err
	}

	it.pickA = shouldChooseA(it.a, it.b)
	return nil
}
