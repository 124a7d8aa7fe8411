// Package snapshot accelerates deep undo/redo by periodically capturing
// the full buffer contents, so the engine can jump to a nearby boundary
// instead of single-stepping through the entire history.
package snapshot

import "github.com/cmarsh/ked/internal/engine/line"

// DefaultInterval is the number of committed mutations between captures,
// carried over unchanged from the source implementation.
const DefaultInterval = 300

// Store holds periodic full-buffer captures, indexed by the committed
// length at which they were taken. Capture i (0-based) corresponds to a
// committed length of (i+1)*K.
//
// Like history.Log, Store trims its trailing captures on DropAbove rather
// than returning them to an explicit free list: a later MaybeCapture at
// the same index simply overwrites, so the observable effect of a reclaim
// pool is preserved without the extra bookkeeping.
type Store struct {
	k         int
	snapshots [][]line.Handle
}

// NewStore creates a Store that captures every k committed mutations. k
// must be positive.
func NewStore(k int) *Store {
	return &Store{k: k}
}

// K returns the configured capture interval.
func (s *Store) K() int {
	return s.k
}

// Count returns the number of captures currently retained.
func (s *Store) Count() int {
	return len(s.snapshots)
}

// MaybeCapture records handles as the buffer's full contents if
// committedLength is a positive multiple of K; otherwise it is a no-op.
// The caller's slice is copied.
func (s *Store) MaybeCapture(committedLength int, handles []line.Handle) {
	if committedLength <= 0 || committedLength%s.k != 0 {
		return
	}

	idx := committedLength/s.k - 1
	capture := make([]line.Handle, len(handles))
	copy(capture, handles)

	switch {
	case idx < len(s.snapshots):
		s.snapshots[idx] = capture
	case idx == len(s.snapshots):
		s.snapshots = append(s.snapshots, capture)
	default:
		for len(s.snapshots) < idx {
			s.snapshots = append(s.snapshots, nil)
		}
		s.snapshots = append(s.snapshots, capture)
	}
}

// At returns the j-th captured boundary (1-based: j=1 is committed length
// K, j=2 is 2K, and so on), along with that boundary's committed length.
// ok is false if no such capture has been made.
func (s *Store) At(j int) (handles []line.Handle, committedLength int, ok bool) {
	idx := j - 1
	if idx < 0 || idx >= len(s.snapshots) || s.snapshots[idx] == nil {
		return nil, 0, false
	}
	return s.snapshots[idx], j * s.k, true
}

// DropAbove discards every capture whose committed length exceeds
// committedLength, as required after a mutation rewrites history beyond
// that point.
func (s *Store) DropAbove(committedLength int) {
	keep := committedLength / s.k
	if keep < len(s.snapshots) {
		s.snapshots = s.snapshots[:keep]
	}
}
