package snapshot

import (
	"testing"

	"github.com/cmarsh/ked/internal/engine/line"
)

func makeHandles(s *line.Store, n int) []line.Handle {
	hs := make([]line.Handle, n)
	for i := range hs {
		hs[i] = s.New([]byte("x\n"))
	}
	return hs
}

func TestMaybeCaptureOnlyOnMultiple(t *testing.T) {
	ls := line.NewStore()
	st := NewStore(3)

	st.MaybeCapture(1, makeHandles(ls, 1))
	st.MaybeCapture(2, makeHandles(ls, 2))
	if st.Count() != 0 {
		t.Fatalf("Count() = %d, want 0 before reaching K", st.Count())
	}

	st.MaybeCapture(3, makeHandles(ls, 3))
	if st.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 at K", st.Count())
	}
}

func TestAtReturnsCorrectBoundary(t *testing.T) {
	ls := line.NewStore()
	st := NewStore(3)
	st.MaybeCapture(3, makeHandles(ls, 3))
	st.MaybeCapture(6, makeHandles(ls, 6))

	handles, boundary, ok := st.At(2)
	if !ok {
		t.Fatal("At(2) = !ok, want ok")
	}
	if boundary != 6 {
		t.Errorf("boundary = %d, want 6", boundary)
	}
	if len(handles) != 6 {
		t.Errorf("len(handles) = %d, want 6", len(handles))
	}
}

func TestAtMissingReturnsNotOK(t *testing.T) {
	st := NewStore(3)
	if _, _, ok := st.At(1); ok {
		t.Error("At(1) on empty store = ok, want !ok")
	}
}

func TestDropAboveTrimsTail(t *testing.T) {
	ls := line.NewStore()
	st := NewStore(3)
	st.MaybeCapture(3, makeHandles(ls, 3))
	st.MaybeCapture(6, makeHandles(ls, 6))
	st.MaybeCapture(9, makeHandles(ls, 9))

	st.DropAbove(4)
	if st.Count() != 1 {
		t.Fatalf("Count() after DropAbove(4) = %d, want 1", st.Count())
	}
	if _, _, ok := st.At(2); ok {
		t.Error("At(2) survived DropAbove(4), want dropped")
	}
}

func TestCaptureCopiesSlice(t *testing.T) {
	ls := line.NewStore()
	st := NewStore(2)
	handles := makeHandles(ls, 2)
	st.MaybeCapture(2, handles)

	handles[0] = ls.New([]byte("mutated\n"))
	got, _, _ := st.At(1)
	if got[0] == handles[0] {
		t.Error("Store aliased the caller's slice instead of copying it")
	}
}
