package history

import "github.com/cmarsh/ked/internal/engine/line"

// Kind distinguishes the two mutations a Command can record. Unlike
// keystorm's Command interface (one method set per operation), the history
// here is closed to exactly these two shapes, so a tagged union fits better
// than dynamic dispatch.
type Kind int

const (
	// KindChange records a `c` command: zero or more existing lines
	// overwritten and/or new lines appended.
	KindChange Kind = iota
	// KindDelete records a `d` command: zero or more existing lines
	// removed.
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindChange:
		return "change"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Command is one executed mutation, recorded with enough detail to undo and
// redo it exactly.
//
// Start and End are 1-based inclusive buffer positions as given on the
// command line, except that a Change whose start lies past length+1 records
// Start as length+1 and carries the gap's sentinel lines at the front of
// NewData. NewData holds the line handles a Change installs at
// [Start, End]. LostData holds the handles the mutation displaced: for a
// Change, the prefix of positions that existed before the overwrite; for a
// Delete, every handle removed. IndexLostStart is the 0-based buffer index
// at which that loss began, and LinesLost is len(LostData); it may be zero
// (a Change that only appends, or a Delete fully outside the buffer).
type Command struct {
	Kind           Kind
	Start, End     int
	NewData        []line.Handle
	LostData       []line.Handle
	IndexLostStart int
	LinesLost      int
}

// reset clears a Command so it can be handed out by Log.Acquire without
// leaking stale handles from its previous life into a new mutation.
func (c *Command) reset() {
	c.Kind = KindChange
	c.Start, c.End = 0, 0
	c.NewData = nil
	c.LostData = nil
	c.IndexLostStart = 0
	c.LinesLost = 0
}
