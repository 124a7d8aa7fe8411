// Package engine orchestrates the line buffer, the undo/redo history log,
// and the snapshot store into the editor's core: apply a change or delete,
// defer undo/redo until the next observable operation, and use snapshots to
// fast-forward deep jumps instead of single-stepping the whole history.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/cmarsh/ked/internal/engine/buffer"
	"github.com/cmarsh/ked/internal/engine/history"
	"github.com/cmarsh/ked/internal/engine/line"
	"github.com/cmarsh/ked/internal/engine/snapshot"
)

// Errors returned by Engine operations. These are the only errors the core
// surfaces; per the spec's error-handling design, out-of-range p/u/r
// arguments and empty-range deletes are defined, silent behaviors rather
// than errors.
var (
	// ErrInvalidRange is returned when start > end for a change, or start
	// is below 1.
	ErrInvalidRange = errors.New("invalid line range")
)

// Engine is the facade the frontend drives: one call per parsed command
// line. It owns exactly one of each collaborator and is not safe for
// concurrent use, matching the single-threaded, synchronous model in §5 of
// the spec this package implements.
type Engine struct {
	lines     *line.Store
	buf       *buffer.Buffer
	log       *history.Log
	snapshots *snapshot.Store
}

// New creates an Engine with a fresh line store, empty buffer, and a
// snapshot interval of k committed mutations. k must be positive; the
// default is snapshot.DefaultInterval (300, carried over from the source).
// reclaimEnabled controls whether the history log reuses discarded Command
// slots (the source's behavior) or allocates a fresh one every time.
func New(k int, reclaimEnabled bool) *Engine {
	log := history.NewLog()
	if !reclaimEnabled {
		log.DisableReclaim()
	}
	return &Engine{
		lines:     line.NewStore(),
		buf:       buffer.New(),
		log:       log,
		snapshots: snapshot.NewStore(k),
	}
}

// Change implements the `<a>,<b>c` command: overwrite positions [start,end]
// with payload, appending past the current end when end exceeds it. payload
// must have exactly end-start+1 entries; the frontend is responsible for
// reading that many lines plus the terminator before calling Change.
//
// When start leaves a gap beyond the current end of the buffer (start >
// length+1), positions [length+1, start-1] are filled with the same ".\n"
// sentinel Print emits for an out-of-range position, rather than rejecting
// the command: S2 exercises exactly this case and expects the gap to read
// back as if it were still out of range, with the payload landing at
// [start, end] regardless.
func (e *Engine) Change(start, end int, payload [][]byte) error {
	if start < 1 || end < start {
		return fmt.Errorf("change %d,%d: %w", start, end, ErrInvalidRange)
	}

	e.drain(true)

	length := e.buf.Length()
	effectiveStart := start
	if effectiveStart > length+1 {
		effectiveStart = length + 1
	}

	indexLostStart := effectiveStart - 1
	var lost []line.Handle
	if effectiveStart <= length {
		hi := end
		if hi > length {
			hi = length
		}
		lost = e.buf.Slice(effectiveStart-1, hi)
	}

	gapCount := start - effectiveStart
	newData := make([]line.Handle, 0, gapCount+len(payload))
	if gapCount > 0 {
		gapLine := e.lines.New(sentinelLine)
		for i := 0; i < gapCount; i++ {
			newData = append(newData, gapLine)
		}
	}
	for _, p := range payload {
		newData = append(newData, e.lines.New(p))
	}

	if err := e.buf.WriteRange(effectiveStart, end, newData); err != nil {
		return fmt.Errorf("change %d,%d: %w", start, end, err)
	}

	cmd := e.log.Acquire()
	cmd.Kind = history.KindChange
	cmd.Start, cmd.End = effectiveStart, end
	cmd.NewData = newData
	cmd.LostData = lost
	cmd.IndexLostStart = indexLostStart
	cmd.LinesLost = len(lost)
	e.commit(cmd)
	return nil
}

// Delete implements the `<a>,<b>d` command. start and end may fall entirely
// or partially outside [1, length]; only the intersection is removed. The
// command is recorded even when nothing is removed, so an undo of a no-op
// delete is itself a no-op rather than reverting the wrong mutation.
func (e *Engine) Delete(start, end int) error {
	e.drain(true)

	length := e.buf.Length()
	lo, hi := start, end
	if lo < 1 {
		lo = 1
	}
	if hi > length {
		hi = length
	}

	var lost []line.Handle
	indexLostStart := 0
	if lo <= hi {
		var err error
		lost, err = e.buf.RemoveRange(lo, hi)
		if err != nil {
			return fmt.Errorf("delete %d,%d: %w", start, end, err)
		}
		indexLostStart = lo - 1
	}

	cmd := e.log.Acquire()
	cmd.Kind = history.KindDelete
	cmd.Start, cmd.End = start, end
	cmd.LostData = lost
	cmd.IndexLostStart = indexLostStart
	cmd.LinesLost = len(lost)
	e.commit(cmd)
	return nil
}

// commit pushes cmd and advances the snapshot bookkeeping, shared by Change
// and Delete after they have already applied the mutation's physical
// effect.
func (e *Engine) commit(cmd *history.Command) {
	e.log.Push(cmd)
	e.snapshots.MaybeCapture(e.log.CommittedLength(), e.buf.Slice(0, e.buf.Length()))
}

// Print implements the `<a>,<b>p` command: emit, for each position from
// start to end inclusive, the stored line verbatim or the two-byte sentinel
// ".\n" when the position is out of range. Print drains pending undo/redo
// but preserves the redo tail (clearQueue=false): a query never forks
// history.
func (e *Engine) Print(start, end int, w io.Writer) error {
	e.drain(false)

	length := e.buf.Length()
	for i := start; i <= end; i++ {
		if i >= 1 && i <= length {
			h, err := e.buf.Get(i)
			if err != nil {
				return err
			}
			if _, err := w.Write(h.Bytes()); err != nil {
				return err
			}
			continue
		}
		if _, err := w.Write(sentinelLine); err != nil {
			return err
		}
	}
	return nil
}

var sentinelLine = []byte(".\n")

// Undo implements the `<n>u` command: adjust the pending counter by +n. No
// physical work happens until the next Change, Delete, or Print drains it.
func (e *Engine) Undo(n int) {
	e.log.AdjustPending(n)
}

// Redo implements the `<n>r` command: adjust the pending counter by -n.
func (e *Engine) Redo(n int) {
	e.log.AdjustPending(-n)
}

// Length reports the current number of lines in the buffer, after draining
// any pending undo/redo. It is a read-only convenience for callers (tests,
// the frontend) that want the post-drain line count without issuing a
// Print.
func (e *Engine) Length() int {
	e.drain(false)
	return e.buf.Length()
}

// drain resolves any pending undo/redo displacement so the buffer reflects
// the effective committed frontier, per §4.5 of the spec. clearQueue is
// true before a mutation (Change/Delete) and false before a query (Print).
func (e *Engine) drain(clearQueue bool) {
	p := e.log.PendingUndo()
	k := e.snapshots.K()

	if p > 0 {
		e.drainUndo(p, k)
	} else if p < 0 {
		e.drainRedo(-p, k)
	}

	e.log.ResetPending()

	if clearQueue {
		e.log.DropRedoTail()
		e.snapshots.DropAbove(e.log.CommittedLength())
	}
}

// drainUndo resolves a net undo of n commands.
func (e *Engine) drainUndo(n, k int) {
	committed := e.log.CommittedLength()
	if n >= committed {
		e.buf.Reset()
		e.log.SetCommitted(0)
		return
	}

	target := committed - n
	j := ceilDiv(target, k)
	if n > k {
		if handles, snapCommitted, ok := e.snapshots.At(j); ok {
			e.buf.BulkReplace(handles)
			e.log.SetCommitted(snapCommitted)
			e.singleStepUndo(snapCommitted - target)
			return
		}
	}
	e.singleStepUndo(n)
}

// drainRedo resolves a net redo of n commands.
func (e *Engine) drainRedo(n, k int) {
	committed := e.log.CommittedLength()
	target := committed + n
	j := target / k
	if n > k {
		if handles, snapCommitted, ok := e.snapshots.At(j); ok && snapCommitted > committed {
			e.buf.BulkReplace(handles)
			e.log.SetCommitted(snapCommitted)
			e.singleStepRedo(target - snapCommitted)
			return
		}
	}
	e.singleStepRedo(n)
}

// ceilDiv returns ceil(a/b) for a >= 0, b > 0.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// singleStepUndo walks backward through n committed commands, one at a
// time, applying each one's inverse.
func (e *Engine) singleStepUndo(n int) {
	for i := 0; i < n; i++ {
		cmd, _, ok := e.log.PeekUndo()
		if !ok {
			return
		}
		e.applyUndo(cmd)
		e.log.AdvanceCommitted(-1)
	}
}

// singleStepRedo walks forward through n not-yet-committed commands, one
// at a time, re-applying each one's original effect.
func (e *Engine) singleStepRedo(n int) {
	for i := 0; i < n; i++ {
		cmd, _, ok := e.log.PeekRedo()
		if !ok {
			return
		}
		e.applyRedo(cmd)
		e.log.AdvanceCommitted(1)
	}
}

// applyUndo reverts a single Command's effect on the buffer.
func (e *Engine) applyUndo(cmd *history.Command) {
	switch cmd.Kind {
	case history.KindChange:
		if cmd.LinesLost > 0 {
			_ = e.buf.SetRange(cmd.IndexLostStart, cmd.LostData)
		}
		if appended := (cmd.End - cmd.Start + 1) - cmd.LinesLost; appended > 0 {
			_ = e.buf.Truncate(e.buf.Length() - appended)
		}
	case history.KindDelete:
		if cmd.LinesLost > 0 {
			_ = e.buf.InsertAt(cmd.IndexLostStart, cmd.LostData)
		}
	}
}

// applyRedo re-applies a single Command's original effect on the buffer.
func (e *Engine) applyRedo(cmd *history.Command) {
	switch cmd.Kind {
	case history.KindChange:
		_ = e.buf.WriteRange(cmd.Start, cmd.End, cmd.NewData)
	case history.KindDelete:
		length := e.buf.Length()
		lo, hi := cmd.Start, cmd.End
		if lo < 1 {
			lo = 1
		}
		if hi > length {
			hi = length
		}
		if lo <= hi {
			_, _ = e.buf.RemoveRange(lo, hi)
		}
	}
}
