package common

import "errors"

// ErrCorruption is wrapped by any error produced when on-disk bytes
// fail to parse into the shapes described by spec.md §4 (bad lengths,
// truncated entries, out-of-range offsets). It is non-retriable: the
// caller should surface it, typically alongside the table id and block
// index of the part of the file that didn't parse.
var ErrCorruption = errors.New("corruption")

// ErrNotFound is returned by point lookups that miss.
var ErrNotFound = errors.New("not found")

// ErrEmptyKey is a contract violation: empty keys are reserved to mean
// "invalid iterator position" and may never be added to a Block.
var ErrEmptyKey = errors.New("key must not be empty")
