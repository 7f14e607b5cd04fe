package mmb_test

import (
	"testing"

	"github.com/mm0-tools/mmbexport/mmb"
)

func TestWriterTracksPosition(t *testing.T) {
	bb := mmb.NewBigBuffer(nil)
	w := mmb.NewWriter(bb)

	if err := w.WriteU32(1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteU64(2); err != nil {
		t.Fatal(err)
	}
	if got, want := w.Pos(), uint64(12); got != want {
		t.Errorf("Pos() = %d, want %d", got, want)
	}
}

func TestAlignToPadsWithZeros(t *testing.T) {
	bb := mmb.NewBigBuffer(nil)
	w := mmb.NewWriter(bb)

	if err := w.WriteU8(0xFF); err != nil {
		t.Fatal(err)
	}
	pos, err := w.AlignTo(8)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 8 {
		t.Fatalf("AlignTo(8) returned %d, want 8", pos)
	}
	if got := bb.Bytes(); len(got) != 8 || got[0] != 0xFF {
		t.Fatalf("buffer = %x, want [ff 00 00 00 00 00 00 00]", got)
	}
}

func TestAlignToNoopWhenAlreadyAligned(t *testing.T) {
	bb := mmb.NewBigBuffer(nil)
	w := mmb.NewWriter(bb)
	if err := w.WriteU64(0); err != nil {
		t.Fatal(err)
	}
	pos, err := w.AlignTo(8)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 8 || len(bb.Bytes()) != 8 {
		t.Fatalf("AlignTo padded an already-aligned writer: pos=%d len=%d", pos, len(bb.Bytes()))
	}
}
