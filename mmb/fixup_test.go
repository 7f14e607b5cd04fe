package mmb_test

import (
	"testing"

	"github.com/mm0-tools/mmbexport/mmb"
)

func TestFixup32CommitValPatchesReservedBytes(t *testing.T) {
	bb := mmb.NewBigBuffer(nil)
	w := mmb.NewWriter(bb)
	reg := &mmb.Registry{}

	f, err := reg.NewFixup32(w)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteU32(0xAAAAAAAA); err != nil {
		t.Fatal(err)
	}
	f.CommitVal(0x11223344)

	if err := reg.Finish(w); err != nil {
		t.Fatal(err)
	}
	got := bb.Bytes()[0:4]
	want := []byte{0x44, 0x33, 0x22, 0x11}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("patched bytes = %x, want %x", got, want)
		}
	}
}

func TestFixup64CancelLeavesZero(t *testing.T) {
	bb := mmb.NewBigBuffer(nil)
	w := mmb.NewWriter(bb)
	reg := &mmb.Registry{}

	f, err := reg.NewFixup64(w)
	if err != nil {
		t.Fatal(err)
	}
	f.Cancel()

	if err := reg.Finish(w); err != nil {
		t.Fatal(err)
	}
	for _, b := range bb.Bytes()[0:8] {
		if b != 0 {
			t.Fatalf("cancelled fixup64 left non-zero bytes: %x", bb.Bytes()[0:8])
		}
	}
}

func TestFinishPanicsOnUncommittedFixup32(t *testing.T) {
	bb := mmb.NewBigBuffer(nil)
	w := mmb.NewWriter(bb)
	reg := &mmb.Registry{}

	if _, err := reg.NewFixup32(w); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected Finish to panic on an uncommitted 32-bit fixup")
		}
	}()
	_ = reg.Finish(w)
}

func TestFixupLargeCommitsWholeBuffer(t *testing.T) {
	bb := mmb.NewBigBuffer(nil)
	w := mmb.NewWriter(bb)
	reg := &mmb.Registry{}

	f, err := reg.NewFixupLarge(w, 4)
	if err != nil {
		t.Fatal(err)
	}
	copy(f.Bytes(), []byte{1, 2, 3, 4})
	f.Commit()

	if err := reg.Finish(w); err != nil {
		t.Fatal(err)
	}
	got := bb.Bytes()[0:4]
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("large fixup bytes = %v, want %v", got, want)
		}
	}
}
