// Package config loads the handful of tunables the engine calls out as
// "fixed at construction time": the snapshot interval, the maximum payload
// line length, and whether the history log's reclaim pool is enabled. A
// missing file or flag is not an error — built-in defaults apply.
package config
