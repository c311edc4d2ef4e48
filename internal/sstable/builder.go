package sstable

import (
	"bytes"
	"fmt"

	"strata/internal/block"
	"strata/internal/block_cache"
	"strata/internal/common"
	"strata/internal/filter"
)

// Builder tracks an embedded block.Builder, the current block's
// first/last key, an accumulated data buffer, and the growing meta
// directory (spec.md §4.5).
type Builder struct {
	builder   *block.Builder
	firstKey  common.Key
	lastKey   common.Key
	data      []byte
	meta      []BlockMeta
	blockSize int
}

// NewBuilder creates a Builder whose data blocks target blockSize
// bytes each.
func NewBuilder(blockSize int) *Builder {
	return &Builder{builder: block.NewBuilder(blockSize), blockSize: blockSize}
}

// Add appends (key, value) in strictly ascending key order; violating
// order silently produces an out-of-order table (spec.md §4.5,
// §4.6 contract).
func (b *Builder) Add(key common.Key, value []byte) {
	if key.IsEmpty() {
		panic(fmt.Sprintf("strata: %v: sstable builder Add with empty key", common.ErrEmptyKey))
	}

	if b.builder.IsEmpty() {
		b.firstKey = key.Clone()
	}

	if b.builder.Add(key, value) {
		b.lastKey = key.Clone()
		return
	}

	b.flushBlock()
	b.builder = block.NewBuilder(b.blockSize)
	if !b.builder.Add(key, value) {
		panic("strata: sstable builder: entry does not fit an empty block")
	}
	b.firstKey = key.Clone()
	b.lastKey = key.Clone()
}

// flushBlock builds the in-progress block, encodes it, appends it to
// data, and records a BlockMeta using the data position from before
// the append (spec.md §4.5).
func (b *Builder) flushBlock() {
	if b.builder.IsEmpty() {
		return
	}
	offset := uint32(len(b.data))
	b.data = append(b.data, b.builder.Build().Encode()...)
	b.meta = append(b.meta, BlockMeta{Offset: offset, FirstKey: b.firstKey, LastKey: b.lastKey})
}

// Build flushes any in-progress block, writes the on-disk layout of
// spec.md §4.4, materializes it through path via common.FileObject,
// and returns the resulting SsTable. bloom may be nil: bloom filter
// construction is an external collaborator's concern (spec.md §1);
// this builder only stores a filter handed to it.
func (b *Builder) Build(id common.FileNo, cache block_cache.BlockCache, path string, bloom filter.Filter) (*SsTable, error) {
	b.flushBlock()
	if len(b.meta) == 0 {
		return nil, fmt.Errorf("strata: build sstable %d: %w: no entries added", id, common.ErrEmptyKey)
	}

	blockMetaOffset := uint32(len(b.data))
	out := bytes.NewBuffer(append([]byte(nil), b.data...))
	out.Write(EncodeBlockMeta(b.meta))
	common.WriteUint32(out, blockMetaOffset)

	file, err := common.CreateFileObject(path, out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("strata: build sstable %d: %w", id, err)
	}

	return &SsTable{
		file:            file,
		id:              id,
		blockMeta:       b.meta,
		blockMetaOffset: blockMetaOffset,
		blockCache:      cache,
		firstKey:        b.meta[0].FirstKey,
		lastKey:         b.meta[len(b.meta)-1].LastKey,
		bloom:           bloom,
	}, nil
}
