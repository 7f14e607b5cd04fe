package mmb

import (
	"io"

	"github.com/mm0-tools/mmbexport/environment"
	"github.com/mm0-tools/mmbexport/invariant"
	"github.com/mm0-tools/mmbexport/wire"
)

// writeExprProof serializes node into the proof-stream expression encoding:
// the one used for a definition's value, and for an axiom's hypotheses and
// conclusion. Sharing is resolved eagerly - the first time a Ref is reached,
// its target is serialized right there and the assigned index is recorded,
// so later Refs to the same slot become a single Ref command.
//
// save controls whether this particular occurrence assigns a fresh output
// index (true) or is a plain subterm that only contributes to its parent
// (false). It returns the output index of node: the index a Ref resolves
// to, the fresh index of a Dummy or of a saved application, or 0 for an
// application written with save false.
func writeExprProof(w io.Writer, heap []environment.ExprNode, reorder *Reorder, node environment.ExprNode, save bool) (uint32, error) {
	switch n := node.(type) {
	case environment.ExprRef:
		if idx, ok := reorder.Get(n.Index); ok {
			if err := wire.ProofRef(w, idx); err != nil {
				return 0, err
			}
			return idx, nil
		}
		invariant.Precondition(int(n.Index) < len(heap), "expr ref %d out of range (heap length %d)", n.Index, len(heap))
		idx, err := writeExprProof(w, heap, reorder, heap[n.Index], true)
		if err != nil {
			return 0, err
		}
		reorder.Set(n.Index, idx)
		return idx, nil

	case environment.ExprDummy:
		if err := wire.ProofDummy(w, n.Sort); err != nil {
			return 0, err
		}
		return reorder.Next(), nil

	case environment.ExprApp:
		for _, c := range n.Children {
			if _, err := writeExprProof(w, heap, reorder, c, false); err != nil {
				return 0, err
			}
		}
		if err := wire.ProofTerm(w, n.Term, save); err != nil {
			return 0, err
		}
		if save {
			return reorder.Next(), nil
		}
		return 0, nil

	default:
		invariant.Invariant(false, "unreachable ExprNode variant %T", node)
		return 0, nil
	}
}
