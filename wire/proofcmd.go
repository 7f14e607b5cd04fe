package wire

import (
	"io"

	"github.com/mm0-tools/mmbexport/environment"
)

// Proof/conversion stream opcodes (low 6 bits of the command byte).
const (
	opProofRef uint8 = iota + 1
	opProofDummy
	opProofTerm
	opProofTermSave
	opProofThm
	opProofThmSave
	opProofHyp
	opProofConv
	opProofRefl
	opProofSym
	opProofCong
	opProofUnfold
	opProofSave
	opProofConvCut
	opProofConvRef
	opProofConvSave
)

// ProofRef emits a reference to an already-assigned index.
func ProofRef(w io.Writer, n uint32) error { return writeCmd(w, opProofRef, n) }

// ProofDummy emits a fresh dummy variable of the given sort.
func ProofDummy(w io.Writer, s environment.SortID) error { return writeCmd(w, opProofDummy, uint32(s)) }

// ProofTerm emits a term application; save distinguishes Term from TermSave.
func ProofTerm(w io.Writer, tid environment.TermID, save bool) error {
	if save {
		return writeCmd(w, opProofTermSave, uint32(tid))
	}
	return writeCmd(w, opProofTerm, uint32(tid))
}

// ProofThm emits a theorem application; save distinguishes Thm from ThmSave.
func ProofThm(w io.Writer, tid environment.ThmID, save bool) error {
	if save {
		return writeCmd(w, opProofThmSave, uint32(tid))
	}
	return writeCmd(w, opProofThm, uint32(tid))
}

// ProofHyp introduces a hypothesis whose statement was emitted just before
// it.
func ProofHyp(w io.Writer) error { return writeBareCmd(w, opProofHyp) }

// ProofConv opens a conversion step.
func ProofConv(w io.Writer) error { return writeBareCmd(w, opProofConv) }

// ProofSave marks the preceding proof step as shared.
func ProofSave(w io.Writer) error { return writeBareCmd(w, opProofSave) }

// ConvRefl asserts reflexivity.
func ConvRefl(w io.Writer) error { return writeBareCmd(w, opProofRefl) }

// ConvSym flips a conversion's direction.
func ConvSym(w io.Writer) error { return writeBareCmd(w, opProofSym) }

// ConvCong lifts argument conversions to a conversion of their application.
func ConvCong(w io.Writer) error { return writeBareCmd(w, opProofCong) }

// ConvUnfold records a delta-expansion step.
func ConvUnfold(w io.Writer) error { return writeBareCmd(w, opProofUnfold) }

// ConvCut opens an out-of-line conversion subterm.
func ConvCut(w io.Writer) error { return writeBareCmd(w, opProofConvCut) }

// ConvRef emits a reference to a conversion already saved at index n.
func ConvRef(w io.Writer, n uint32) error { return writeCmd(w, opProofConvRef, n) }

// ConvSave closes an out-of-line conversion subterm, assigning it an index.
func ConvSave(w io.Writer) error { return writeBareCmd(w, opProofConvSave) }
