// Package buffer holds the current document as an ordered sequence of line
// handles, addressed 1-based externally and 0-based internally.
//
// Buffer never allocates Lines itself — it only arranges handles obtained
// from a line.Store. Growth is amortized O(1) per append; bulk operations
// (RemoveRange, BulkReplace, Truncate) run in time proportional to the
// number of elements they move, never to the full buffer length.
package buffer
