// Package line provides the immutable byte-string payloads that make up a
// document, and the arena that keeps them alive for the life of a session.
package line

// Line is an opaque, immutable byte sequence: one raw input line, including
// its terminating newline. Lines are never mutated after creation and are
// safely shared by value-identity between the Buffer, the history log, and
// snapshots.
type Line struct {
	data []byte
}

// Bytes returns the line's raw content, including its terminating newline.
func (l *Line) Bytes() []byte {
	return l.data
}

// Len returns the number of bytes in the line.
func (l *Line) Len() int {
	return len(l.data)
}

// Handle is a reference to a Line. Handles are compared by identity and are
// never nil for a line installed in a Buffer.
type Handle = *Line

// Store is the arena that owns every Line payload for the life of a
// session. It never frees a Line once created: the undo/redo log may
// resurrect any line at any time, so there is no point at which a Line can
// be proven unreachable short of the whole session ending.
type Store struct {
	lines []*Line
}

// NewStore creates an empty line arena.
func NewStore() *Store {
	return &Store{}
}

// New copies data into a freshly allocated, owned Line and returns a handle
// to it. The caller's slice is never retained.
func (s *Store) New(data []byte) Handle {
	owned := make([]byte, len(data))
	copy(owned, data)
	l := &Line{data: owned}
	s.lines = append(s.lines, l)
	return l
}

// Count returns the number of lines ever created in this store, including
// ones no longer reachable from the current buffer.
func (s *Store) Count() int {
	return len(s.lines)
}
