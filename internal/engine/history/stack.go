// Package history records executed buffer mutations as Commands and tracks
// a movable committed frontier over them, giving the engine package an
// undo/redo cursor with an unbounded, collapsible pending count.
//
// A Log never discards a Command outright when a new mutation truncates
// the redo tail; it recycles the slot through a reclaim pool instead, so
// Acquire can hand out a cleared record rather than allocating on
// edit-heavy sessions.
package history

// Log is the append-only record of executed mutations with a movable
// committed frontier, matching keystorm's undo/redo stack shape but
// collapsed into a single slice plus cursor rather than two stacks: the
// spec's snapshot jumps need random access into history by index, which a
// push/pop stack pair cannot offer.
//
// Log is not safe for concurrent use; see the concurrency note on Buffer.
type Log struct {
	commands        []*Command
	reclaimPool     []*Command
	committedLength int
	pendingUndo     int
	disableReclaim  bool
}

// NewLog creates an empty history log.
func NewLog() *Log {
	return &Log{}
}

// Acquire returns a cleared Command ready to be filled in by the caller,
// reusing a reclaimed record when one is available rather than allocating.
func (l *Log) Acquire() *Command {
	if !l.disableReclaim {
		if n := len(l.reclaimPool); n > 0 {
			cmd := l.reclaimPool[n-1]
			l.reclaimPool = l.reclaimPool[:n-1]
			cmd.reset()
			return cmd
		}
	}
	return &Command{}
}

// DisableReclaim turns off the slot-reuse pool: Acquire always allocates a
// fresh Command and DropRedoTail's discards are left for the garbage
// collector instead of being queued for reuse. The source always reuses
// slots; §9 of the spec allows a straightforward per-op allocator as a
// fallback, which this toggles on for profiling or debugging.
func (l *Log) DisableReclaim() {
	l.disableReclaim = true
}

// Push truncates any uncommitted redo tail (its storage becomes
// reclaimable), appends cmd, advances the committed frontier to match, and
// resets the pending undo/redo counter to zero.
func (l *Log) Push(cmd *Command) {
	l.DropRedoTail()
	l.commands = append(l.commands, cmd)
	l.committedLength = len(l.commands)
	l.pendingUndo = 0
}

// DropRedoTail discards every command strictly after the committed
// frontier, moving its storage to the reclaim pool. Push calls this
// itself, but the engine also calls it explicitly during a clearQueue
// drain so the soon-to-be-truncated redo tail is marked reclaimable
// before the mutation that will truncate it is even constructed.
func (l *Log) DropRedoTail() {
	if l.committedLength < len(l.commands) {
		if !l.disableReclaim {
			l.reclaimPool = append(l.reclaimPool, l.commands[l.committedLength:]...)
		}
		l.commands = l.commands[:l.committedLength]
	}
}

// PeekUndo returns the command that would be reverted next, i.e. the last
// committed command, and its 0-based index.
func (l *Log) PeekUndo() (*Command, int, bool) {
	if l.committedLength == 0 {
		return nil, 0, false
	}
	idx := l.committedLength - 1
	return l.commands[idx], idx, true
}

// PeekRedo returns the command that would be re-applied next, i.e. the
// first command past the committed frontier, and its 0-based index.
func (l *Log) PeekRedo() (*Command, int, bool) {
	if l.committedLength >= len(l.commands) {
		return nil, 0, false
	}
	return l.commands[l.committedLength], l.committedLength, true
}

// At returns the command at 0-based index i, regardless of where the
// committed frontier currently sits. The engine's own stepping goes
// through PeekUndo/PeekRedo; At offers indexed access alongside them.
func (l *Log) At(i int) *Command {
	return l.commands[i]
}

// TotalLength returns the number of committed-or-redoable commands
// currently retained (the source's `length`).
func (l *Log) TotalLength() int {
	return len(l.commands)
}

// CommittedLength returns the number of commands currently reflected in
// the buffer.
func (l *Log) CommittedLength() int {
	return l.committedLength
}

// PendingUndo returns the outstanding signed undo/redo counter: positive
// means a net undo of that many commands is owed, negative a net redo.
func (l *Log) PendingUndo() int {
	return l.pendingUndo
}

// AdvanceCommitted moves the committed frontier by delta, as called by the
// engine after it has physically applied a single-step undo (delta = -1)
// or redo (delta = +1), or jumped to a snapshot boundary.
func (l *Log) AdvanceCommitted(delta int) {
	l.committedLength += delta
}

// SetCommitted sets the committed frontier directly, as used after
// restoring a snapshot or resetting the buffer to empty.
func (l *Log) SetCommitted(n int) {
	l.committedLength = n
}

// AdjustPending adds delta to the pending undo/redo counter, then clamps
// it so the net committed position implied by resolving it stays within
// [0, TotalLength()]. This gives "undo N / redo N saturates" behavior
// without ever rejecting input.
func (l *Log) AdjustPending(delta int) {
	l.pendingUndo += delta

	lo := l.committedLength - len(l.commands)
	hi := l.committedLength
	if l.pendingUndo < lo {
		l.pendingUndo = lo
	}
	if l.pendingUndo > hi {
		l.pendingUndo = hi
	}
}

// ResetPending zeroes the pending undo/redo counter after it has been
// fully resolved.
func (l *Log) ResetPending() {
	l.pendingUndo = 0
}
