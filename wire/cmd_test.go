package wire_test

import (
	"bytes"
	"testing"

	"github.com/mm0-tools/mmbexport/wire"
)

func TestWriteCmdBytesEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteCmdBytes(&buf, wire.StmtSort, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.Bytes(); len(got) != 1 || got[0] != wire.StmtSort {
		t.Fatalf("got %x, want single byte %x", got, wire.StmtSort)
	}
}

func TestWriteCmdBytesWithPayload(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xAA, 0xBB, 0xCC}
	if err := wire.WriteCmdBytes(&buf, wire.StmtDef, payload); err != nil {
		t.Fatal(err)
	}
	got := buf.Bytes()
	// cmd byte | width8, then 1-byte length, then payload.
	if got[0] != wire.StmtDef|0x40 {
		t.Errorf("cmd byte = %x, want %x", got[0], wire.StmtDef|0x40)
	}
	if got[1] != 3 {
		t.Errorf("length byte = %d, want 3", got[1])
	}
	if !bytes.Equal(got[2:], payload) {
		t.Errorf("payload = %x, want %x", got[2:], payload)
	}
}

func TestProofRefValueZeroUsesNoExtraBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.ProofRef(&buf, 0); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 1 {
		t.Fatalf("Ref(0) should encode as a single byte, got %d bytes", buf.Len())
	}
}

func TestProofTermSaveDistinctFromTerm(t *testing.T) {
	var a, b bytes.Buffer
	_ = wire.ProofTerm(&a, 5, false)
	_ = wire.ProofTerm(&b, 5, true)
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("Term and TermSave must encode differently")
	}
}
