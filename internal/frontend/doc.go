// Package frontend parses the editor's command grammar from a line-based
// input stream and dispatches each recognized command to an
// internal/engine.Engine, formatting its output back onto a writer.
//
// This is the spec's external collaborator: the engine has no notion of
// text commands, bufio readers, or process exit codes. Frontend owns all of
// that so the engine package stays a pure in-memory data structure.
package frontend
