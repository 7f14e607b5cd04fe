package mmb_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/mm0-tools/mmbexport/environment"
	"github.com/mm0-tools/mmbexport/mmb"
	"github.com/mm0-tools/mmbexport/wire"
)

const headerSize = 44 // magic(8) + version(1) + num_sorts(1) + reserved(2) + num_terms(4) + num_thms(4) + p_terms(4) + p_thms(4) + p_proof(8) + p_index(8)

func export(t *testing.T, env *environment.Environment, index bool) []byte {
	t.Helper()
	bb := mmb.NewBigBuffer(io.Discard)
	exp := mmb.NewExporter("test.mm1", nil, env, bb)
	if err := exp.Run(index); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := exp.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return bb.Bytes()
}

// TestEmptyEnvironment verifies the empty-environment, index-disabled shape
// from the spec's end-to-end scenarios: header, no sort bytes, empty
// tables, a one-byte proof stream terminator, and the four pad bytes that
// stand in for a cancelled index.
func TestEmptyEnvironment(t *testing.T) {
	env, err := environment.NewBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	out := export(t, env, false)

	if string(out[0:4]) != "MM0B" {
		t.Fatalf("magic = %q, want MM0B", out[0:4])
	}
	if out[8] != wire.Version {
		t.Errorf("version = %d, want %d", out[8], wire.Version)
	}
	if out[9] != 0 {
		t.Errorf("num_sorts = %d, want 0", out[9])
	}
	numTerms := binary.LittleEndian.Uint32(out[12:16])
	numThms := binary.LittleEndian.Uint32(out[16:20])
	if numTerms != 0 || numThms != 0 {
		t.Errorf("num_terms=%d num_thms=%d, want 0, 0", numTerms, numThms)
	}
	// Empty tables plus an empty proof stream means the tail is just a
	// one-byte terminator followed by 4 zero pad bytes.
	if got := out[len(out)-5]; got != 0 {
		t.Errorf("proof stream terminator = %d, want 0", got)
	}
	for _, b := range out[len(out)-4:] {
		if b != 0 {
			t.Fatalf("index-disabled padding is not all zero: %x", out[len(out)-4:])
		}
	}
}

// TestOneSortNoDecls checks that a lone sort declaration produces a single
// modifier byte and a bare STMT_SORT command in the proof stream.
func TestOneSortNoDecls(t *testing.T) {
	b := environment.NewBuilder()
	atom := b.Intern("wff")
	b.AddSort(atom, environment.Span{}, 0)
	env, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	out := export(t, env, false)

	if out[9] != 1 {
		t.Fatalf("num_sorts = %d, want 1", out[9])
	}
	if got := out[headerSize]; got != 0 {
		t.Errorf("sort modifier byte = %#x, want 0", got)
	}
	pProof := binary.LittleEndian.Uint64(out[28:36])
	if got := out[pProof]; got != wire.StmtSort {
		t.Errorf("first proof stream command = %#x, want STMT_SORT %#x", got, wire.StmtSort)
	}
	if got := out[pProof+1]; got != 0 {
		t.Errorf("proof stream terminator = %#x, want 0", got)
	}
}

// TestPureTermNoArgs checks a zero-argument abstract term constructor: its
// term table entry carries no def bit and its body is just the return-type
// word followed by a NUL terminator.
func TestPureTermNoArgs(t *testing.T) {
	b := environment.NewBuilder()
	sortAtom := b.Intern("wff")
	sid := b.AddSort(sortAtom, environment.Span{}, 0)
	termAtom := b.Intern("c")
	b.AddTerm(environment.Term{Atom: termAtom, Ret: environment.Reg(sid, 0), Kind: environment.KindTerm})
	env, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	out := export(t, env, false)

	pTerms := binary.LittleEndian.Uint32(out[20:24])
	entry := out[pTerms : pTerms+8]
	nargs := binary.LittleEndian.Uint16(entry[0:2])
	sortByte := entry[2]
	if nargs != 0 {
		t.Errorf("nargs = %d, want 0", nargs)
	}
	if sortByte&0x80 != 0 {
		t.Error("def bit set on an abstract term")
	}
	if sortByte&0x7F != uint8(sid) {
		t.Errorf("sort byte = %#x, want sort id %d", sortByte, sid)
	}
	body := binary.LittleEndian.Uint32(entry[4:8])
	if got := out[body+8]; got != 0 {
		t.Errorf("byte after the return-type word = %#x, want NUL terminator", got)
	}
}

// TestDefinedTermReferencesEarlierTerm checks that a definition's unifier
// emits an unsaved Term reference to a previously declared term.
func TestDefinedTermReferencesEarlierTerm(t *testing.T) {
	b := environment.NewBuilder()
	sortAtom := b.Intern("wff")
	sid := b.AddSort(sortAtom, environment.Span{}, 0)
	cAtom := b.Intern("c")
	cid := b.AddTerm(environment.Term{Atom: cAtom, Ret: environment.Reg(sid, 0), Kind: environment.KindTerm})
	dAtom := b.Intern("d")
	b.AddTerm(environment.Term{
		Atom: dAtom, Ret: environment.Reg(sid, 0), Kind: environment.KindDef,
		Value: &environment.Expr{Head: environment.ExprApp{Term: cid}},
	})
	env, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	out := export(t, env, false)

	pTerms := binary.LittleEndian.Uint32(out[20:24])
	dEntry := out[pTerms+8 : pTerms+16]
	if dEntry[2]&0x80 == 0 {
		t.Fatal("definition's term table entry is missing the def bit")
	}
	// d has no arguments, so its unifier starts right after the return-type
	// word.
	var want bytes.Buffer
	if err := wire.UnifyTerm(&want, cid, false); err != nil {
		t.Fatal(err)
	}
	want.WriteByte(0)
	body := binary.LittleEndian.Uint32(dEntry[4:8])
	if got := out[body+8 : body+8+uint32(want.Len())]; !bytes.Equal(got, want.Bytes()) {
		t.Errorf("unifier = %x, want %x", got, want.Bytes())
	}
}

// TestAxiomWithSharedHypothesis checks that a hypothesis statement shared
// with the conclusion is emitted once and referenced by index thereafter.
func TestAxiomWithSharedHypothesis(t *testing.T) {
	b := environment.NewBuilder()
	sortAtom := b.Intern("wff")
	sid := b.AddSort(sortAtom, environment.Span{}, 0)
	cAtom := b.Intern("c")
	cid := b.AddTerm(environment.Term{Atom: cAtom, Ret: environment.Reg(sid, 0), Kind: environment.KindTerm})

	shared := environment.ExprRef{Index: 0}
	axAtom := b.Intern("ax-c")
	b.AddThm(environment.Thm{
		Atom: axAtom,
		Heap: []environment.ExprNode{environment.ExprApp{Term: cid}},
		Hyps: []environment.Hyp{{Name: b.Intern("h"), Expr: shared}},
		Ret:  shared,
		Kind: environment.KindAxiom,
	})
	env, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	out := export(t, env, false)

	// The hypothesis expands heap slot 0 as a saved Term (index 0), and the
	// conclusion refers back to it with Ref(0).
	var payload bytes.Buffer
	if err := wire.ProofTerm(&payload, cid, true); err != nil {
		t.Fatal(err)
	}
	if err := wire.ProofHyp(&payload); err != nil {
		t.Fatal(err)
	}
	if err := wire.ProofRef(&payload, 0); err != nil {
		t.Fatal(err)
	}
	payload.WriteByte(0)
	var want bytes.Buffer
	if err := wire.WriteCmdBytes(&want, wire.StmtAxiom, payload.Bytes()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, want.Bytes()) {
		t.Errorf("output does not contain the axiom command %x", want.Bytes())
	}
}

// TestTooManyArgsPanics checks the 65536-argument capacity overflow from
// the spec's bounded-capacity-panics property.
func TestTooManyArgsPanics(t *testing.T) {
	b := environment.NewBuilder()
	sortAtom := b.Intern("wff")
	sid := b.AddSort(sortAtom, environment.Span{}, 0)
	args := make([]environment.Binder, 65536)
	for i := range args {
		args[i] = environment.Binder{Ty: environment.Reg(sid, 0)}
	}
	termAtom := b.Intern("c")
	b.AddTerm(environment.Term{Atom: termAtom, Args: args, Ret: environment.Reg(sid, 0), Kind: environment.KindTerm})
	env, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic with more than 65535 arguments")
		}
	}()
	_ = export(t, env, false)
}

// TestAlignedForwardPointers checks that p_terms, p_thms, p_proof, and
// p_index are all 8-byte aligned, and that the term table's own body
// offset is too.
func TestAlignedForwardPointers(t *testing.T) {
	b := environment.NewBuilder()
	sortAtom := b.Intern("wff")
	sid := b.AddSort(sortAtom, environment.Span{}, 0)
	termAtom := b.Intern("c")
	b.AddTerm(environment.Term{Atom: termAtom, Ret: environment.Reg(sid, 0), Kind: environment.KindTerm})
	thmAtom := b.Intern("ax")
	b.AddThm(environment.Thm{Atom: thmAtom, Ret: environment.ExprApp{Term: 0}, Kind: environment.KindAxiom})
	env, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	out := export(t, env, true)

	pTerms := binary.LittleEndian.Uint32(out[20:24])
	pThms := binary.LittleEndian.Uint32(out[24:28])
	pProof := binary.LittleEndian.Uint64(out[28:36])
	pIndex := binary.LittleEndian.Uint64(out[36:44])
	for name, v := range map[string]uint64{
		"p_terms": uint64(pTerms), "p_thms": uint64(pThms),
		"p_proof": pProof, "p_index": pIndex,
	} {
		if v%8 != 0 {
			t.Errorf("%s = %d is not 8-byte aligned", name, v)
		}
	}
	termBodyOffset := binary.LittleEndian.Uint32(out[pTerms+4 : pTerms+8])
	if termBodyOffset%8 != 0 {
		t.Errorf("term body offset %d is not 8-byte aligned", termBodyOffset)
	}
}
