package wire

import (
	"io"

	"github.com/mm0-tools/mmbexport/environment"
)

// Unify stream opcodes. Deliberately disjoint from the proof-stream opcodes
// even though some names coincide (Ref, Dummy, Term): the two streams are
// never interleaved, but keeping them numerically distinct avoids any
// temptation to share dispatch code between semantically different
// sharing disciplines (see mmb.writeExprUnify vs mmb.writeExprProof).
const (
	opUnifyRef uint8 = iota + opProofConvSave + 1
	opUnifyDummy
	opUnifyTerm
	opUnifyTermSave
	opUnifyHyp
)

// UnifyRef emits a reference to an already-assigned index.
func UnifyRef(w io.Writer, n uint32) error { return writeCmd(w, opUnifyRef, n) }

// UnifyDummy emits a fresh dummy variable of the given sort.
func UnifyDummy(w io.Writer, s environment.SortID) error {
	return writeCmd(w, opUnifyDummy, uint32(s))
}

// UnifyTerm emits a term application; save distinguishes Term from
// TermSave.
func UnifyTerm(w io.Writer, tid environment.TermID, save bool) error {
	if save {
		return writeCmd(w, opUnifyTermSave, uint32(tid))
	}
	return writeCmd(w, opUnifyTerm, uint32(tid))
}

// UnifyHyp announces that a hypothesis unifier follows.
func UnifyHyp(w io.Writer) error { return writeBareCmd(w, opUnifyHyp) }
