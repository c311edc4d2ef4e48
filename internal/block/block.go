// Package block implements the smallest unit of read, cache, and
// checksum in the storage engine: an immutable, sorted batch of
// key/value entries with an offset directory (spec.md §4.1-§4.3).
package block

import (
	"bytes"
	"fmt"

	"strata/internal/common"
)

// DefaultBlockSize is the default byte budget a BlockBuilder targets.
// Grounded on the teacher's BLOCK_SIZE constant, repurposed here as a
// byte budget rather than an entry count (spec.md §4.2).
const DefaultBlockSize = 4096

// Block is a contiguous entry region plus an ordered offset directory
// into it. It holds at least one entry once built (spec.md §3, the
// "always allow first entry" rule).
type Block struct {
	Data    []byte
	Offsets []uint16
}

// Encode serializes the block as:
//
//	[ entry_0 ][ entry_1 ] ... [ entry_{n-1} ]
//	[ off_0:u16 ][ off_1:u16 ] ... [ off_{n-1}:u16 ]
//	[ num_entries:u16 ]
//
// (spec.md §4.1).
func (b *Block) Encode() []byte {
	n := len(b.Offsets)
	buf := bytes.NewBuffer(make([]byte, 0, len(b.Data)+2*n+2))
	buf.Write(b.Data)
	for _, off := range b.Offsets {
		common.WriteUint16(buf, off)
	}
	common.WriteUint16(buf, uint16(n))
	return buf.Bytes()
}

// Decode parses a block previously produced by Encode. The format is
// self-describing given only the byte range: num_entries is read from
// the trailing two bytes, then the offset table, then data is sliced
// out (spec.md §4.1).
func Decode(raw []byte) (*Block, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("strata: decode block: %w: buffer too short (%d bytes)", common.ErrCorruption, len(raw))
	}

	countU16, _ := common.ReadUint16(bytes.NewReader(raw[len(raw)-2:]))
	numEntries := int(countU16)
	offsetsEnd := len(raw) - 2
	offsetsStart := offsetsEnd - 2*numEntries
	if offsetsStart < 0 {
		return nil, fmt.Errorf("strata: decode block: %w: offset table overruns buffer (num_entries=%d)", common.ErrCorruption, numEntries)
	}

	offsetsReader := bytes.NewReader(raw[offsetsStart:offsetsEnd])
	offsets := make([]uint16, numEntries)
	for i := 0; i < numEntries; i++ {
		offsets[i], _ = common.ReadUint16(offsetsReader)
	}

	data := raw[:offsetsStart]
	for i, off := range offsets {
		if int(off) > len(data) {
			return nil, fmt.Errorf("strata: decode block: %w: offset[%d]=%d out of range (data len %d)", common.ErrCorruption, i, off, len(data))
		}
	}

	return &Block{Data: data, Offsets: offsets}, nil
}

// NumEntries returns the number of entries in the block.
func (b *Block) NumEntries() int {
	return len(b.Offsets)
}
