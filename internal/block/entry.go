package block

import (
	"bytes"
	"fmt"

	"strata/internal/common"
)

// entrySize returns the encoded size of a (key, value) entry as it
// would appear in a block's data region: key_len:u16 | key | value_len:u16
// | value (spec.md §3).
func entrySize(key common.Key, value []byte) int {
	return 2 + len(key) + 2 + len(value)
}

// parseEntryAt decodes the entry starting at offset within data,
// returning the key, value, and the offset immediately past it. Bounds
// are checked before each common.ReadUint16 call and each slice, so
// ReadUint16's error (which would only ever be EOF given a slice of
// known length) never surfaces; the truncation errors returned here
// carry the corruption detail instead.
func parseEntryAt(data []byte, offset int) (key common.Key, value []byte, end int, err error) {
	if offset+2 > len(data) {
		return nil, nil, 0, fmt.Errorf("strata: parse entry at %d: %w: truncated key length", offset, common.ErrCorruption)
	}
	keyLenU16, _ := common.ReadUint16(bytes.NewReader(data[offset : offset+2]))
	keyLen := int(keyLenU16)
	pos := offset + 2

	if pos+keyLen > len(data) {
		return nil, nil, 0, fmt.Errorf("strata: parse entry at %d: %w: truncated key", offset, common.ErrCorruption)
	}
	key = common.Key(data[pos : pos+keyLen])
	pos += keyLen

	if pos+2 > len(data) {
		return nil, nil, 0, fmt.Errorf("strata: parse entry at %d: %w: truncated value length", offset, common.ErrCorruption)
	}
	valueLenU16, _ := common.ReadUint16(bytes.NewReader(data[pos : pos+2]))
	valueLen := int(valueLenU16)
	pos += 2

	if pos+valueLen > len(data) {
		return nil, nil, 0, fmt.Errorf("strata: parse entry at %d: %w: truncated value", offset, common.ErrCorruption)
	}
	value = data[pos : pos+valueLen]
	pos += valueLen

	return key, value, pos, nil
}

// appendEntry writes the encoded form of (key, value) to buf.
func appendEntry(buf []byte, key common.Key, value []byte) []byte {
	w := bytes.NewBuffer(buf)
	common.WriteUint16(w, uint16(len(key)))
	w.Write(key)
	common.WriteUint16(w, uint16(len(value)))
	w.Write(value)
	return w.Bytes()
}
