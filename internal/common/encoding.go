package common

import (
	"encoding/binary"
	"io"
)

// All multi-byte integers in the on-disk format are big-endian
// (spec.md §3), unlike the little-endian layout used elsewhere in this
// codebase's ancestry — only the byte order changed, the
// Write/Read-pair shape did not.

// WriteUint16 writes a 16-bit unsigned integer in big-endian format.
// Returns the number of bytes written (always 2) and any error encountered.
func WriteUint16(w io.Writer, v uint16) (int, error) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return w.Write(buf[:])
}

// ReadUint16 reads a 16-bit unsigned integer in big-endian format.
func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// WriteUint32 writes a 32-bit unsigned integer in big-endian format.
// Returns the number of bytes written (always 4) and any error encountered.
func WriteUint32(w io.Writer, v uint32) (int, error) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return w.Write(buf[:])
}

// ReadUint32 reads a 32-bit unsigned integer in big-endian format.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// WriteBytes writes raw bytes to the writer without any length prefix.
// Returns the number of bytes written and any error encountered.
func WriteBytes(w io.Writer, data []byte) (int, error) {
	return w.Write(data)
}

// ReadBytes reads exactly length bytes from the reader.
// Returns nil for length 0, otherwise a byte slice of the requested length.
func ReadBytes(r io.Reader, length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
