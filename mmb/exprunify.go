package mmb

import (
	"io"

	"github.com/mm0-tools/mmbexport/environment"
	"github.com/mm0-tools/mmbexport/invariant"
	"github.com/mm0-tools/mmbexport/wire"
)

// writeExprUnify serializes node into the unify-stream expression encoding
// used for a definition's unification procedure. Unlike writeExprProof, an
// index isn't known to need saving until later: when a Ref first reaches an
// unvisited heap slot, that slot's index is pushed onto save and only
// resolved (written back into reorder, against whatever index the slot's
// node is eventually assigned) once something concrete - a Dummy or a Term
// application - actually claims the next output index.
func writeExprUnify(w io.Writer, heap []environment.ExprNode, reorder *Reorder, node environment.ExprNode, save *[]uint32) error {
	switch n := node.(type) {
	case environment.ExprRef:
		if idx, ok := reorder.Get(n.Index); ok {
			drain(reorder, save, idx)
			return wire.UnifyRef(w, idx)
		}
		invariant.Precondition(int(n.Index) < len(heap), "expr ref %d out of range (heap length %d)", n.Index, len(heap))
		*save = append(*save, n.Index)
		return writeExprUnify(w, heap, reorder, heap[n.Index], save)

	case environment.ExprDummy:
		idx := reorder.Next()
		drain(reorder, save, idx)
		return wire.UnifyDummy(w, n.Sort)

	case environment.ExprApp:
		hasSave := len(*save) > 0
		var idx uint32
		if hasSave {
			idx = reorder.Next()
			drain(reorder, save, idx)
		}
		if err := wire.UnifyTerm(w, n.Term, hasSave); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := writeExprUnify(w, heap, reorder, c, save); err != nil {
				return err
			}
		}
		return nil

	default:
		invariant.Invariant(false, "unreachable ExprNode variant %T", node)
		return nil
	}
}

// drain resolves every pending heap slot in save against output index n,
// then empties save.
func drain(reorder *Reorder, save *[]uint32, n uint32) {
	for _, i := range *save {
		reorder.Set(i, n)
	}
	*save = (*save)[:0]
}
