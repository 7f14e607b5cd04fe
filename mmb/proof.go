package mmb

import (
	"io"

	"github.com/mm0-tools/mmbexport/environment"
	"github.com/mm0-tools/mmbexport/invariant"
	"github.com/mm0-tools/mmbexport/wire"
)

// writeProof serializes a proof-tree node: the encoding used for a
// theorem's proof stream proper (as opposed to writeConv, used once a
// conversion subterm has been entered). hyps maps a theorem's hypothesis
// numbers to the output index each was assigned when its ProofHyp node was
// emitted.
func writeProof(env *environment.Environment, w io.Writer, heap []environment.ProofNode, reorder *Reorder, hyps []uint32, node environment.ProofNode, save bool) (uint32, error) {
	switch n := node.(type) {
	case environment.ProofRef:
		if idx, ok := reorder.Get(n.Index); ok {
			if err := wire.ProofRef(w, idx); err != nil {
				return 0, err
			}
			return idx, nil
		}
		invariant.Precondition(int(n.Index) < len(heap), "proof ref %d out of range (heap length %d)", n.Index, len(heap))
		idx, err := writeProof(env, w, heap, reorder, hyps, heap[n.Index], true)
		if err != nil {
			return 0, err
		}
		reorder.Set(n.Index, idx)
		return idx, nil

	case environment.ProofDummy:
		if err := wire.ProofDummy(w, n.Sort); err != nil {
			return 0, err
		}
		return reorder.Next(), nil

	case environment.ProofTerm:
		for _, a := range n.Args {
			if _, err := writeProof(env, w, heap, reorder, hyps, a, false); err != nil {
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

	case environment.ProofHyp:
		invariant.Precondition(int(n.N) < len(hyps), "hypothesis index %d out of range (%d hypotheses)", n.N, len(hyps))
		idx := hyps[n.N]
		if err := wire.ProofRef(w, idx); err != nil {
			return 0, err
		}
		return idx, nil

	case environment.ProofThm:
		thm := env.Thm(n.Thm)
		nargs := len(thm.Args)
		invariant.Precondition(nargs <= len(n.Args), "theorem %s applied with fewer than %d arguments", env.Name(thm.Atom), nargs)
		args, hypProofs := n.Args[:nargs], n.Args[nargs:]
		for _, h := range hypProofs {
			if _, err := writeProof(env, w, heap, reorder, hyps, h, false); err != nil {
				return 0, err
			}
		}
		for _, a := range args {
			if _, err := writeProof(env, w, heap, reorder, hyps, a, false); err != nil {
				return 0, err
			}
		}
		if _, err := writeProof(env, w, heap, reorder, hyps, n.Res, false); err != nil {
			return 0, err
		}
		if err := wire.ProofThm(w, n.Thm, save); err != nil {
			return 0, err
		}
		if save {
			return reorder.Next(), nil
		}
		return 0, nil

	case environment.ProofConv:
		if _, err := writeProof(env, w, heap, reorder, hyps, n.E1, false); err != nil {
			return 0, err
		}
		if _, err := writeProof(env, w, heap, reorder, hyps, n.Proof, false); err != nil {
			return 0, err
		}
		if err := wire.ProofConv(w); err != nil {
			return 0, err
		}
		if err := writeConv(env, w, heap, reorder, hyps, n.Conv); err != nil {
			return 0, err
		}
		if save {
			if err := wire.ProofSave(w); err != nil {
				return 0, err
			}
			return reorder.Next(), nil
		}
		return 0, nil

	default:
		invariant.Invariant(false, "unreachable ProofNode variant %T at proof level - conversions only appear under Conv", node)
		return 0, nil
	}
}

// writeConv serializes a conversion-tree node, reached only through
// ProofConv.Conv (or recursively through Sym/Cong/Unfold). It shares the
// same heap and reorder map as the enclosing writeProof call, but uses the
// conversion-specific opcodes (ConvRef/ConvCut/ConvSave) for sharing rather
// than Ref/TermSave, since a conversion subterm cut out mid-stream is
// resumed with ConvSave rather than a plain save flag.
func writeConv(env *environment.Environment, w io.Writer, heap []environment.ProofNode, reorder *Reorder, hyps []uint32, node environment.ProofNode) error {
	switch n := node.(type) {
	case environment.ProofRef:
		if idx, ok := reorder.Get(n.Index); ok {
			return wire.ConvRef(w, idx)
		}
		invariant.Precondition(int(n.Index) < len(heap), "proof ref %d out of range (heap length %d)", n.Index, len(heap))
		target := heap[n.Index]
		switch target.(type) {
		case environment.ProofRefl, environment.ProofRef:
			return writeConv(env, w, heap, reorder, hyps, target)
		default:
			if err := wire.ConvCut(w); err != nil {
				return err
			}
			if err := writeConv(env, w, heap, reorder, hyps, target); err != nil {
				return err
			}
			if err := wire.ConvSave(w); err != nil {
				return err
			}
			reorder.Set(n.Index, reorder.Next())
			return nil
		}

	case environment.ProofRefl:
		return wire.ConvRefl(w)

	case environment.ProofSym:
		if err := wire.ConvSym(w); err != nil {
			return err
		}
		return writeConv(env, w, heap, reorder, hyps, n.Conv)

	case environment.ProofCong:
		if err := wire.ConvCong(w); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := writeConv(env, w, heap, reorder, hyps, a); err != nil {
				return err
			}
		}
		return nil

	case environment.ProofUnfold:
		if _, err := writeProof(env, w, heap, reorder, hyps, n.L, false); err != nil {
			return err
		}
		if _, err := writeProof(env, w, heap, reorder, hyps, n.L2, false); err != nil {
			return err
		}
		if err := wire.ConvUnfold(w); err != nil {
			return err
		}
		return writeConv(env, w, heap, reorder, hyps, n.Conv)

	default:
		invariant.Invariant(false, "unreachable ProofNode variant %T inside a conversion", node)
		return nil
	}
}
