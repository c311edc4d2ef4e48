package block

import (
	"fmt"

	"strata/internal/common"
)

// Builder accumulates entries up to a target byte budget and emits a
// Block (spec.md §4.2).
type Builder struct {
	offsets   []uint16
	data      []byte
	blockSize int
	firstKey  common.Key
}

// NewBuilder creates a Builder targeting blockSize bytes.
func NewBuilder(blockSize int) *Builder {
	return &Builder{blockSize: blockSize}
}

// IsEmpty reports whether any entry has been added yet.
func (b *Builder) IsEmpty() bool {
	return len(b.offsets) == 0
}

// estimatedSize is the prospective total size after adding one more
// entry: the current data region, the offset table (including the new
// slot), and the trailing count field.
func (b *Builder) estimatedSize(entrySize int) int {
	return len(b.data) + entrySize + 2*(len(b.offsets)+1) + 2
}

// Add appends (key, value) to the block. It rejects empty keys as a
// contract violation (empty keys are reserved to mean "invalid
// iterator"). It returns false, refusing the entry, if admitting it
// would exceed the byte budget — unless the block is currently empty,
// in which case the entry is admitted regardless, so an oversized
// single entry is never unwriteable (spec.md §4.2).
func (b *Builder) Add(key common.Key, value []byte) bool {
	if key.IsEmpty() {
		panic(fmt.Sprintf("strata: %v: block builder Add with empty key", common.ErrEmptyKey))
	}

	size := entrySize(key, value)
	if !b.IsEmpty() && b.estimatedSize(size) > b.blockSize {
		return false
	}

	b.offsets = append(b.offsets, uint16(len(b.data)))
	b.data = appendEntry(b.data, key, value)
	if b.firstKey.IsEmpty() {
		b.firstKey = key.Clone()
	}
	return true
}

// Build consumes the builder, producing a Block.
func (b *Builder) Build() *Block {
	return &Block{Data: b.data, Offsets: b.offsets}
}
