package iterators

import (
	"container/heap"

	"strata/internal/common"
)

// heapItem pairs a source iterator with its index in the original
// input list, so source priority (smaller index wins on a key tie)
// survives being reordered by the heap.
type heapItem[I StorageIterator] struct {
	index int
	iter  I
}

// less implements the (key asc, source-index asc) composite ordering
// spec.md §4.7 prescribes for the heap.
func less[I StorageIterator](a, b *heapItem[I]) bool {
	if c := a.iter.Key().Compare(b.iter.Key()); c != 0 {
		return c < 0
	}
	return a.index < b.index
}

// mergeHeap is a container/heap min-heap over heapItem, ordered by
// less. Grounded in other_examples' xmh1011-go-lsm merge.go, which
// uses the same container/heap minHeap pattern for exactly this
// purpose.
type mergeHeap[I StorageIterator] []*heapItem[I]

func (h mergeHeap[I]) Len() int            { return len(h) }
func (h mergeHeap[I]) Less(i, j int) bool  { return less(h[i], h[j]) }
func (h mergeHeap[I]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap[I]) Push(x interface{}) { *h = append(*h, x.(*heapItem[I])) }
func (h *mergeHeap[I]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// MergeIterator k-way merges N homogeneous StorageIterators in
// ascending key order. When multiple sources expose the same key, the
// one with the smallest source index wins and shadows the rest for
// that key (spec.md §4.7).
//
// current is kept separate from the heap: it holds the smallest
// element without needing to be re-pushed and re-popped every step,
// and makes the "new smallest wins" swap in Next explicit (spec.md §9).
type MergeIterator[I StorageIterator] struct {
	heap    mergeHeap[I]
	current *heapItem[I]
}

// NewMergeIterator builds a MergeIterator over iters. Already-invalid
// iterators are dropped up front. If every iterator is invalid, the
// result reports IsValid() == false (spec.md §9 open question 3).
func NewMergeIterator[I StorageIterator](iters []I) *MergeIterator[I] {
	h := make(mergeHeap[I], 0, len(iters))
	for i, it := range iters {
		if it.IsValid() {
			h = append(h, &heapItem[I]{index: i, iter: it})
		}
	}
	heap.Init(&h)

	m := &MergeIterator[I]{}
	if h.Len() > 0 {
		m.current = heap.Pop(&h).(*heapItem[I])
	}
	m.heap = h
	return m
}

// Key returns the current entry's key. Returns nil if the iterator is
// invalid.
func (m *MergeIterator[I]) Key() common.Key {
	if m.current == nil {
		return nil
	}
	return m.current.iter.Key()
}

// Value returns the current entry's value.
func (m *MergeIterator[I]) Value() []byte {
	if m.current == nil {
		return nil
	}
	return m.current.iter.Value()
}

// IsValid reports whether the iterator holds a definite entry.
func (m *MergeIterator[I]) IsValid() bool {
	return m.current != nil && m.current.iter.IsValid()
}

// Next implements the critical k-way merge algorithm of spec.md §4.7:
// every iterator currently tied with current on key is a shadowed
// duplicate and gets drained first, then current itself advances, and
// finally current is refilled from whichever of current/heap-top is
// now smallest.
func (m *MergeIterator[I]) Next() error {
	if m.current == nil {
		return nil
	}

	currentKey := m.current.iter.Key()
	for m.heap.Len() > 0 && m.heap[0].iter.Key().Compare(currentKey) == 0 {
		item := heap.Pop(&m.heap).(*heapItem[I])
		if err := item.iter.Next(); err != nil {
			return err
		}
		if item.iter.IsValid() {
			heap.Push(&m.heap, item)
		}
	}

	if err := m.current.iter.Next(); err != nil {
		return err
	}

	if !m.current.iter.IsValid() {
		if m.heap.Len() > 0 {
			m.current = heap.Pop(&m.heap).(*heapItem[I])
		} else {
			m.current = nil
		}
		return nil
	}

	if m.heap.Len() > 0 && less(m.heap[0], m.current) {
		m.heap[0], m.current = m.current, m.heap[0]
		heap.Fix(&m.heap, 0)
	}

	return nil
}
