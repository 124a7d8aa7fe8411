package frontend

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/cmarsh/ked/internal/engine"
)

func run(t *testing.T, k int, input string) string {
	t.Helper()
	eng := engine.New(k, true)
	var out bytes.Buffer
	f := New(eng, strings.NewReader(input), &out, 2048)
	if err := f.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return out.String()
}

func TestScenarioBasicChangeAndPrint(t *testing.T) {
	got := run(t, 300, "1,2c\nalpha\nbeta\n.\n1,3p\nq\n")
	want := "alpha\nbeta\n.\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestScenarioAppendPastEnd(t *testing.T) {
	got := run(t, 300, "1,1c\nA\n.\n3,4c\nC\nD\n.\n1,4p\nq\n")
	want := "A\n.\nC\nD\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestScenarioUndoThenPrint(t *testing.T) {
	got := run(t, 300, "1,2c\nA\nB\n.\n1,2c\nX\nY\n.\n1u\n1,2p\nq\n")
	want := "A\nB\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestScenarioUndoRedoCollapse(t *testing.T) {
	got := run(t, 300, "1,1c\nA\n.\n1,1c\nB\n.\n5u\n3r\n1,1p\nq\n")
	want := "B\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestScenarioDeleteClipping(t *testing.T) {
	got := run(t, 300, "1,2c\nA\nB\n.\n0,5d\n1,2p\nq\n")
	want := ".\n.\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestScenarioSnapshotAssistedDeepUndo(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 601; i++ {
		fmt.Fprintf(&b, "1,1c\nL%d\n.\n", i)
	}
	b.WriteString("600u\n1,1p\nq\n")

	got := run(t, 300, b.String())
	want := "L1\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestUnrecognizedCommandIgnored(t *testing.T) {
	got := run(t, 300, "1,1c\nA\n.\nzzz\n1,1p\nq\n")
	want := "A\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestMissingTrailingNewlineOnLastLine(t *testing.T) {
	eng := engine.New(300, true)
	var out bytes.Buffer
	f := New(eng, strings.NewReader("1,1c\nA\n.\n1,1p\nq"), &out, 2048)
	if err := f.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out.String() != "A\n" {
		t.Errorf("output = %q, want %q", out.String(), "A\n")
	}
}

func TestUnterminatedChangeIsAnError(t *testing.T) {
	eng := engine.New(300, true)
	var out bytes.Buffer
	f := New(eng, strings.NewReader("1,2c\nonly-one-line\n"), &out, 2048)
	if err := f.Run(); err == nil {
		t.Error("Run() with unterminated change = nil error, want ErrUnterminatedChange")
	}
}

func TestGapLeavingChangeFillsSentinel(t *testing.T) {
	got := run(t, 300, "5,6c\nA\nB\n.\n1,6p\nq\n")
	want := ".\n.\n.\n.\nA\nB\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
