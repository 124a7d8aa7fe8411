package buffer

import (
	"errors"
	"fmt"

	"github.com/cmarsh/ked/internal/engine/line"
)

// Errors returned by buffer operations.
var (
	ErrIndexOutOfRange = errors.New("line index out of range")
	ErrRangeInvalid    = errors.New("invalid line range")
)

// Buffer is the ordered sequence of line handles forming the current
// document. Positions are 1-based to callers and 0-based internally.
//
// Buffer is not safe for concurrent use: the editor this package serves is
// strictly single-threaded (see the engine package), so no mutex is carried
// here — unlike keystorm's rope-backed Buffer, which is shared across
// rendering and LSP goroutines.
type Buffer struct {
	lines []line.Handle
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// Length returns the current number of lines.
func (b *Buffer) Length() int {
	return len(b.lines)
}

// Get returns the line handle at 1-based position i.
func (b *Buffer) Get(i int) (line.Handle, error) {
	if i < 1 || i > len(b.lines) {
		return nil, fmt.Errorf("get %d: %w", i, ErrIndexOutOfRange)
	}
	return b.lines[i-1], nil
}

// Overwrite replaces the handle at 1-based position i and returns the prior
// handle.
func (b *Buffer) Overwrite(i int, h line.Handle) (line.Handle, error) {
	if i < 1 || i > len(b.lines) {
		return nil, fmt.Errorf("overwrite %d: %w", i, ErrIndexOutOfRange)
	}
	prev := b.lines[i-1]
	b.lines[i-1] = h
	return prev, nil
}

// Append adds a line at position Length()+1.
func (b *Buffer) Append(h line.Handle) {
	b.lines = append(b.lines, h)
}

// WriteRange overwrites 1-based inclusive positions [start, end] with
// handles, extending the buffer with Append when end exceeds the current
// length. len(handles) must equal end-start+1.
func (b *Buffer) WriteRange(start, end int, handles []line.Handle) error {
	if start < 1 || end < start {
		return fmt.Errorf("write range [%d,%d]: %w", start, end, ErrRangeInvalid)
	}
	if len(handles) != end-start+1 {
		return fmt.Errorf("write range [%d,%d]: got %d handles, want %d: %w",
			start, end, len(handles), end-start+1, ErrRangeInvalid)
	}

	length := len(b.lines)
	for i, h := range handles {
		pos := start - 1 + i
		if pos < length {
			b.lines[pos] = h
		} else {
			b.lines = append(b.lines, h)
		}
	}
	return nil
}

// RemoveRange removes 1-based inclusive positions [lo, hi], shifts the tail
// left, and returns the removed handles in order.
func (b *Buffer) RemoveRange(lo, hi int) ([]line.Handle, error) {
	if lo < 1 || hi < lo || hi > len(b.lines) {
		return nil, fmt.Errorf("remove range [%d,%d]: %w", lo, hi, ErrRangeInvalid)
	}

	removed := make([]line.Handle, hi-lo+1)
	copy(removed, b.lines[lo-1:hi])
	b.lines = append(b.lines[:lo-1], b.lines[hi:]...)
	return removed, nil
}

// InsertAt shifts the tail right starting at 0-based index idx and splices
// handles into the gap. Used to undo a delete.
func (b *Buffer) InsertAt(idx int, handles []line.Handle) error {
	if idx < 0 || idx > len(b.lines) {
		return fmt.Errorf("insert at %d: %w", idx, ErrIndexOutOfRange)
	}
	if len(handles) == 0 {
		return nil
	}

	grown := make([]line.Handle, len(b.lines)+len(handles))
	copy(grown, b.lines[:idx])
	copy(grown[idx:], handles)
	copy(grown[idx+len(handles):], b.lines[idx:])
	b.lines = grown
	return nil
}

// SetRange overwrites existing handles at 0-based index idx..idx+len(handles)
// without growing the buffer. Used to undo a change's overwritten prefix.
func (b *Buffer) SetRange(idx int, handles []line.Handle) error {
	if idx < 0 || idx+len(handles) > len(b.lines) {
		return fmt.Errorf("set range at %d len %d: %w", idx, len(handles), ErrRangeInvalid)
	}
	copy(b.lines[idx:], handles)
	return nil
}

// Truncate shrinks the buffer to n lines. Capacity is left untouched:
// shrinking is lazy, matching the buffer's amortized growth policy.
func (b *Buffer) Truncate(n int) error {
	if n < 0 || n > len(b.lines) {
		return fmt.Errorf("truncate to %d: %w", n, ErrRangeInvalid)
	}
	b.lines = b.lines[:n]
	return nil
}

// BulkReplace resets the buffer's full contents, as used when restoring a
// snapshot. The caller's slice is copied; this buffer never aliases a
// Snapshot's backing array.
func (b *Buffer) BulkReplace(handles []line.Handle) {
	b.lines = append(b.lines[:0], handles...)
}

// Reset empties the buffer in O(1) metadata, as used when undoing the
// entire committed history.
func (b *Buffer) Reset() {
	b.lines = b.lines[:0]
}

// Slice returns a copy of the handles in the 0-based half-open range
// [lo, hi). It is used internally to snapshot the portion of the buffer a
// Change command is about to overwrite.
func (b *Buffer) Slice(lo, hi int) []line.Handle {
	out := make([]line.Handle, hi-lo)
	copy(out, b.lines[lo:hi])
	return out
}
