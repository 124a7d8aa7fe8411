package frontend

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cmarsh/ked/internal/engine"
)

// ErrUnterminatedChange is returned when input ends before a `c` block's
// terminator line is seen.
var ErrUnterminatedChange = errors.New("change block ended without a terminator line")

// ErrLineTooLong is returned when an input line exceeds the configured
// maximum payload length (§6: 1024 bytes plus newline plus NUL, by
// default).
var ErrLineTooLong = errors.New("input line exceeds maximum length")

// Frontend reads one command line at a time from r, dispatches it to an
// Engine, and writes query output to w. It is the external half of the
// spec's Frontend component; the parsing/dispatch logic below is the part
// the distilled spec treats as an interface only.
type Frontend struct {
	eng      *engine.Engine
	r        *bufio.Reader
	w        *bufio.Writer
	maxBytes int
}

// New creates a Frontend wired to eng, reading commands from r and writing
// query output to w. maxLineBytes bounds any single input line (command or
// payload), not counting its terminating newline; it also sizes the input
// buffer.
func New(eng *engine.Engine, r io.Reader, w io.Writer, maxLineBytes int) *Frontend {
	return &Frontend{
		eng:      eng,
		r:        bufio.NewReaderSize(r, maxLineBytes+2),
		w:        bufio.NewWriter(w),
		maxBytes: maxLineBytes,
	}
}

// Run reads and dispatches commands until a `q` command or end of input,
// then flushes buffered output. It returns a non-nil error only for
// malformed input the grammar cannot recover from (an unterminated change
// block, or a line longer than the configured maximum) or an I/O failure;
// unrecognized command characters are silently
// ignored, per the spec's error-handling design.
func (f *Frontend) Run() error {
	defer f.w.Flush()

	for {
		raw, err := f.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		cmd, ok := parseLine(raw)
		if !ok {
			continue
		}

		switch cmd.kind {
		case kindQuit:
			return nil
		case kindChange:
			payload, err := f.readChangePayload(cmd.b - cmd.a + 1)
			if err != nil {
				return err
			}
			// parseLine already rejected start<1 or end<start for a
			// change, so the only remaining error path is defensive;
			// a gap-leaving start is not an error (Engine fills it).
			_ = f.eng.Change(cmd.a, cmd.b, payload)
		case kindDelete:
			_ = f.eng.Delete(cmd.a, cmd.b)
		case kindPrint:
			if err := f.eng.Print(cmd.a, cmd.b, f.w); err != nil {
				return err
			}
		case kindUndo:
			f.eng.Undo(cmd.n)
		case kindRedo:
			f.eng.Redo(cmd.n)
		}
	}
}

// readChangePayload reads exactly n payload lines followed by a terminator
// line (one whose first byte is '.').
func (f *Frontend) readChangePayload(n int) ([][]byte, error) {
	payload := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		raw, err := f.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("reading change payload line %d/%d: %w", i+1, n, ErrUnterminatedChange)
			}
			return nil, err
		}
		payload = append(payload, []byte(raw))
	}

	term, err := f.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrUnterminatedChange
		}
		return nil, err
	}
	if len(term) == 0 || term[0] != '.' {
		return nil, fmt.Errorf("expected terminator line, got %q: %w", term, ErrUnterminatedChange)
	}
	return payload, nil
}

// readLine reads one newline-terminated line, newline included. It
// tolerates a final line with no trailing newline (returning it instead of
// an error) but reports io.EOF once there is truly nothing left to read —
// more forgiving than the source, which indexes the raw buffer by
// strlen(command)-2 and has no such fallback.
func (f *Frontend) readLine() (string, error) {
	line, err := f.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", io.EOF
			}
			return f.checkLength(line)
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return f.checkLength(line)
}

// checkLength rejects a line whose payload (excluding the terminating
// newline) exceeds the configured maximum.
func (f *Frontend) checkLength(line string) (string, error) {
	payloadLen := len(strings.TrimSuffix(line, "\n"))
	if f.maxBytes > 0 && payloadLen > f.maxBytes {
		return "", fmt.Errorf("line of %d bytes exceeds max %d: %w", payloadLen, f.maxBytes, ErrLineTooLong)
	}
	return line, nil
}

type kind int

const (
	kindChange kind = iota
	kindDelete
	kindPrint
	kindUndo
	kindRedo
	kindQuit
)

type command struct {
	kind kind
	a, b int
	n    int
}

// parseLine parses one trimmed input line against the grammar in §4.6. ok
// is false when the line does not match any recognized command, in which
// case it must be silently ignored rather than treated as an error.
func parseLine(raw string) (command, bool) {
	trimmed := strings.TrimRight(raw, "\n")
	if trimmed == "" {
		return command{}, false
	}
	if trimmed == "q" {
		return command{kind: kindQuit}, true
	}

	last := trimmed[len(trimmed)-1]
	rest := trimmed[:len(trimmed)-1]

	switch last {
	case 'c', 'd', 'p':
		a, b, err := parseRange(rest)
		if err != nil {
			return command{}, false
		}
		if last == 'c' && (a < 1 || b < a) {
			// `c` requires 1 <= start <= end (§4.4); everything else
			// (d, p) accepts arbitrary integers and clips internally,
			// so only change is rejected this early.
			return command{}, false
		}
		k := map[byte]kind{'c': kindChange, 'd': kindDelete, 'p': kindPrint}[last]
		return command{kind: k, a: a, b: b}, true
	case 'u', 'r':
		n, err := strconv.Atoi(rest)
		if err != nil {
			return command{}, false
		}
		k := kindUndo
		if last == 'r' {
			k = kindRedo
		}
		return command{kind: k, n: n}, true
	default:
		return command{}, false
	}
}

// parseRange parses "<a>,<b>" into its two integers.
func parseRange(s string) (a, b int, err error) {
	idx := strings.IndexByte(s, ',')
	if idx < 0 {
		return 0, 0, fmt.Errorf("range %q: missing comma", s)
	}
	a, err = strconv.Atoi(s[:idx])
	if err != nil {
		return 0, 0, fmt.Errorf("range %q: %w", s, err)
	}
	b, err = strconv.Atoi(s[idx+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("range %q: %w", s, err)
	}
	return a, b, nil
}
