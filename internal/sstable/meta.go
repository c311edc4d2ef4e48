// Package sstable implements the sorted-string-table format built
// atop internal/block: a sequence of blocks plus a metadata index
// (first/last key per block) plus a footer, and the iterator that
// streams across blocks (spec.md §4.4-§4.6).
package sstable

import (
	"bytes"
	"fmt"

	"strata/internal/common"
)

// BlockMeta describes one block within an SST: its byte offset within
// the table's data region and its key range. The sequence of
// BlockMetas is sorted by offset, equivalently by block order
// (spec.md §3).
type BlockMeta struct {
	Offset   uint32
	FirstKey common.Key
	LastKey  common.Key
}

// EncodeBlockMeta writes the directory as a sequence of
// (offset:u32, first_key_len:u16, first_key, last_key_len:u16,
// last_key) records (spec.md §4.4).
func EncodeBlockMeta(metas []BlockMeta) []byte {
	var buf bytes.Buffer
	for _, m := range metas {
		common.WriteUint32(&buf, m.Offset)
		common.WriteUint16(&buf, uint16(len(m.FirstKey)))
		buf.Write(m.FirstKey)
		common.WriteUint16(&buf, uint16(len(m.LastKey)))
		buf.Write(m.LastKey)
	}
	return buf.Bytes()
}

// DecodeBlockMeta parses the directory written by EncodeBlockMeta.
// Bounds are checked before each common.ReadUint16/ReadUint32 call, so
// their errors never surface; the caller's own truncation errors carry
// the corruption detail instead.
func DecodeBlockMeta(data []byte) ([]BlockMeta, error) {
	var metas []BlockMeta
	pos := 0
	for pos < len(data) {
		if pos+4+2 > len(data) {
			return nil, fmt.Errorf("strata: decode block meta: %w: truncated record header", common.ErrCorruption)
		}
		offsetU32, _ := common.ReadUint32(bytes.NewReader(data[pos : pos+4]))
		pos += 4

		firstKeyLenU16, _ := common.ReadUint16(bytes.NewReader(data[pos : pos+2]))
		firstKeyLen := int(firstKeyLenU16)
		pos += 2
		if pos+firstKeyLen > len(data) {
			return nil, fmt.Errorf("strata: decode block meta: %w: truncated first_key", common.ErrCorruption)
		}
		firstKey := common.Key(data[pos : pos+firstKeyLen])
		pos += firstKeyLen

		if pos+2 > len(data) {
			return nil, fmt.Errorf("strata: decode block meta: %w: truncated last_key_len", common.ErrCorruption)
		}
		lastKeyLenU16, _ := common.ReadUint16(bytes.NewReader(data[pos : pos+2]))
		lastKeyLen := int(lastKeyLenU16)
		pos += 2
		if pos+lastKeyLen > len(data) {
			return nil, fmt.Errorf("strata: decode block meta: %w: truncated last_key", common.ErrCorruption)
		}
		lastKey := common.Key(data[pos : pos+lastKeyLen])
		pos += lastKeyLen

		metas = append(metas, BlockMeta{Offset: offsetU32, FirstKey: firstKey, LastKey: lastKey})
	}
	return metas, nil
}
