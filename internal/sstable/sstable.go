package sstable

import (
	"bytes"
	"fmt"
	"sort"

	"strata/internal/block"
	"strata/internal/block_cache"
	"strata/internal/common"
	"strata/internal/filter"
)

// footerSize is the width of the trailing block_meta_offset:u32 field
// (spec.md §4.4).
const footerSize = 4

// SsTable is an immutable, on-disk sequence of blocks plus a metadata
// directory, opened for random and sequential access. An SST is
// immutable post-build (spec.md §3).
type SsTable struct {
	file            common.FileObject
	id              common.FileNo
	blockMeta       []BlockMeta
	blockMetaOffset uint32
	blockCache      block_cache.BlockCache // nil disables caching
	firstKey        common.Key
	lastKey         common.Key
	bloom           filter.Filter // nil disables filtering
}

// Open reads the footer and block_meta directory of an already
// materialized SSTable file and returns a handle ready for reads.
// cache may be nil.
func Open(id common.FileNo, cache block_cache.BlockCache, file common.FileObject) (*SsTable, error) {
	size := file.Size()
	if size < footerSize {
		return nil, fmt.Errorf("strata: open sstable %d: %w: file too short for footer (%d bytes)", id, common.ErrCorruption, size)
	}

	footer := make([]byte, footerSize)
	if err := file.ReadAt(footer, size-footerSize); err != nil {
		return nil, fmt.Errorf("strata: open sstable %d: %w", id, err)
	}
	blockMetaOffset, _ := common.ReadUint32(bytes.NewReader(footer))

	metaSize := size - footerSize - int64(blockMetaOffset)
	if metaSize < 0 {
		return nil, fmt.Errorf("strata: open sstable %d: %w: block_meta_offset %d exceeds file size %d", id, common.ErrCorruption, blockMetaOffset, size)
	}

	metaBytes := make([]byte, metaSize)
	if err := file.ReadAt(metaBytes, int64(blockMetaOffset)); err != nil {
		return nil, fmt.Errorf("strata: open sstable %d: %w", id, err)
	}

	blockMeta, err := DecodeBlockMeta(metaBytes)
	if err != nil {
		return nil, fmt.Errorf("strata: open sstable %d: %w", id, err)
	}
	if len(blockMeta) == 0 {
		return nil, fmt.Errorf("strata: open sstable %d: %w: empty block_meta directory", id, common.ErrCorruption)
	}

	return &SsTable{
		file:            file,
		id:              id,
		blockMeta:       blockMeta,
		blockMetaOffset: blockMetaOffset,
		blockCache:      cache,
		firstKey:        blockMeta[0].FirstKey,
		lastKey:         blockMeta[len(blockMeta)-1].LastKey,
	}, nil
}

// ID returns the table's identity, the first half of the block cache key.
func (t *SsTable) ID() common.FileNo { return t.id }

// NumBlocks returns the number of data blocks in the table.
func (t *SsTable) NumBlocks() int { return len(t.blockMeta) }

// FirstKey returns block_meta.first().first_key.
func (t *SsTable) FirstKey() common.Key { return t.firstKey }

// LastKey returns block_meta.last().last_key.
func (t *SsTable) LastKey() common.Key { return t.lastKey }

// MayContain reports whether key could be present, per the attached
// filter. Always true when no filter is attached (spec.md §1: filter
// construction is out of scope here, but a prebuilt one may be used).
func (t *SsTable) MayContain(key common.Key) bool {
	if t.bloom == nil {
		return true
	}
	return t.bloom.MayContain(key)
}

// FindBlockIdx returns the index of the block that may contain key:
// the first block with first_key > key, stepped back one unless it
// is the very first block, i.e. the last block whose first_key <= key
// (block 0 when key sorts before every block) (spec.md §4.6). Ported from the binary
// search in original_source/mini-lsm-starter's table iterator, which
// partitions on first_key the same way.
func (t *SsTable) FindBlockIdx(key common.Key) int {
	idx := sort.Search(len(t.blockMeta), func(i int) bool {
		return t.blockMeta[i].FirstKey.Compare(key) > 0
	})
	if idx == 0 {
		return 0
	}
	return idx - 1
}

// ReadBlock loads block idx, routing through the cache when attached
// (spec.md §4.6 "Block loads are routed through the cache...").
func (t *SsTable) ReadBlock(idx int) (*block.Block, error) {
	if idx < 0 || idx >= len(t.blockMeta) {
		return nil, fmt.Errorf("strata: read block: %w: index %d out of range [0, %d)", common.ErrCorruption, idx, len(t.blockMeta))
	}

	load := func() (*block.Block, error) { return t.readBlockUncached(idx) }

	if t.blockCache == nil {
		return load()
	}
	return t.blockCache.GetOrInsertWith(t.id, common.BlockNo(idx), load)
}

func (t *SsTable) readBlockUncached(idx int) (*block.Block, error) {
	start := int64(t.blockMeta[idx].Offset)
	var end int64
	if idx+1 < len(t.blockMeta) {
		end = int64(t.blockMeta[idx+1].Offset)
	} else {
		end = int64(t.blockMetaOffset)
	}

	data := make([]byte, end-start)
	if err := t.file.ReadAt(data, start); err != nil {
		return nil, fmt.Errorf("strata: read block %d of sstable %d: %w", idx, t.id, err)
	}

	blk, err := block.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("strata: parse block %d of sstable %d: %w", idx, t.id, err)
	}
	return blk, nil
}

// Close releases the underlying file handle.
func (t *SsTable) Close() error {
	return t.file.Close()
}
