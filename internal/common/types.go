package common

// FileNo identifies an SSTable file.
type FileNo uint64

// BlockNo identifies a block within an SSTable, zero-based (spec.md §9
// open question 2 — the source this was ported from used 1-based
// indices; this revision does not).
type BlockNo int
