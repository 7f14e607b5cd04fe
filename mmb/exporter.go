// Package mmb implements the binary proof exporter: it walks a frozen
// environment.Environment and writes the .mmb file format a verifier or
// debugger would consume, one forward pass followed by a fixup replay.
package mmb

import (
	"bytes"
	"math"

	"github.com/mm0-tools/mmbexport/environment"
	"github.com/mm0-tools/mmbexport/invariant"
	"github.com/mm0-tools/mmbexport/wire"
)

// Exporter writes one Environment to one Sink. It is not safe for reuse
// across multiple environments or concurrent use from multiple goroutines:
// the writer's running position and the fixup registry are both mutable
// state specific to a single export pass.
type Exporter struct {
	fileName string
	source   *environment.LineIndex
	env      *environment.Environment
	w        *Writer
	fixups   Registry
	scratch  bytes.Buffer
}

// NewExporter prepares an export of env to sink. source is optional; when
// present, declaration spans from env are translated into the debugging
// index's line/column fields. When absent, the index still records file
// offsets and names, just with a zeroed position.
func NewExporter(fileName string, source *environment.LineIndex, env *environment.Environment, sink Sink) *Exporter {
	invariant.NotNil(env, "env")
	invariant.NotNil(sink, "sink")
	return &Exporter{fileName: fileName, source: source, env: env, w: NewWriter(sink)}
}

// Run writes the file header, sort table, term table, theorem table, proof
// body stream, and - when index is true - the debugging index, in that
// order. It does not resolve fixups; call Finish afterward to do that.
func (e *Exporter) Run(index bool) error {
	sorts := e.env.Sorts()
	terms := e.env.Terms()
	thms := e.env.Thms()

	invariant.Capacity(len(sorts) <= 128, "too many sorts: %d (max 128)", len(sorts))
	invariant.Capacity(uint64(len(terms)) <= math.MaxUint32, "too many terms: %d", len(terms))
	invariant.Capacity(uint64(len(thms)) <= math.MaxUint32, "too many theorems: %d", len(thms))

	if err := e.w.WriteAll(wire.Magic[:]); err != nil {
		return err
	}
	if err := e.w.WriteU8(wire.Version); err != nil {
		return err
	}
	if err := e.w.WriteU8(uint8(len(sorts))); err != nil {
		return err
	}
	if err := e.w.WriteAll([]byte{0, 0}); err != nil {
		return err
	}
	if err := e.w.WriteU32(uint32(len(terms))); err != nil {
		return err
	}
	if err := e.w.WriteU32(uint32(len(thms))); err != nil {
		return err
	}
	pTerms, err := e.fixups.NewFixup32(e.w)
	if err != nil {
		return err
	}
	pThms, err := e.fixups.NewFixup32(e.w)
	if err != nil {
		return err
	}
	pProof, err := e.fixups.NewFixup64(e.w)
	if err != nil {
		return err
	}
	pIndex, err := e.fixups.NewFixup64(e.w)
	if err != nil {
		return err
	}

	mods := make([]byte, len(sorts))
	for i, s := range sorts {
		mods[i] = s.Mods.Bits()
	}
	if err := e.w.WriteAll(mods); err != nil {
		return err
	}

	if err := e.writeTermTable(terms, &pTerms); err != nil {
		return err
	}
	if err := e.writeThmTable(thms, &pThms); err != nil {
		return err
	}

	if _, err := e.w.AlignTo(8); err != nil {
		return err
	}
	pProof.Commit(e.w)
	rows, err := e.writeProofBodyStream(index)
	if err != nil {
		return err
	}

	if index {
		if err := e.buildIndex(rows, len(sorts), len(terms), len(thms), &pIndex); err != nil {
			return err
		}
	} else {
		pIndex.Cancel()
		if err := e.w.WriteAll([]byte{0, 0, 0, 0}); err != nil {
			return err
		}
	}
	return nil
}

// Finish replays every queued fixup against the sink. Call it exactly once,
// after Run has returned successfully.
func (e *Exporter) Finish() error { return e.fixups.Finish(e.w) }

func (e *Exporter) writeTermTable(terms []environment.Term, pTerms *Fixup32) error {
	if _, err := e.w.AlignTo(8); err != nil {
		return err
	}
	pTerms.Commit(e.w)
	header, err := e.fixups.NewFixupLarge(e.w, len(terms)*8)
	if err != nil {
		return err
	}
	for i, t := range terms {
		invariant.Capacity(len(t.Args) <= 0xFFFF, "term %s has more than 65535 arguments", e.env.Name(t.Atom))
		pos, err := e.w.AlignTo(8)
		if err != nil {
			return err
		}
		invariant.Capacity(pos <= math.MaxUint32, "file offset %d too large for term table entry", pos)

		hasDef := t.Kind == environment.KindDef
		writeTermHeader(header.Bytes()[i*8:i*8+8], uint16(len(t.Args)), t.Ret.Sort, hasDef, uint32(pos))

		if err := WriteBinders(e.w, t.Args); err != nil {
			return err
		}
		if err := writeSortDeps(e.w, false, t.Ret.Sort, t.Ret.Deps); err != nil {
			return err
		}
		if hasDef {
			invariant.Precondition(!t.Missing && t.Value != nil, "definition %s has no value", e.env.Name(t.Atom))
			reorder := NewReorder(uint32(len(t.Args)), len(t.Value.Heap), identityReorder)
			save := []uint32{}
			if err := writeExprUnify(e.w, t.Value.Heap, reorder, t.Value.Head, &save); err != nil {
				return err
			}
		}
		if err := e.w.WriteU8(0); err != nil {
			return err
		}
	}
	header.Commit()
	return nil
}

func (e *Exporter) writeThmTable(thms []environment.Thm, pThms *Fixup32) error {
	if _, err := e.w.AlignTo(8); err != nil {
		return err
	}
	pThms.Commit(e.w)
	header, err := e.fixups.NewFixupLarge(e.w, len(thms)*8)
	if err != nil {
		return err
	}
	for i, t := range thms {
		invariant.Capacity(len(t.Args) <= 0xFFFF, "theorem %s has more than 65535 arguments", e.env.Name(t.Atom))
		pos, err := e.w.AlignTo(8)
		if err != nil {
			return err
		}
		invariant.Capacity(pos <= math.MaxUint32, "file offset %d too large for theorem table entry", pos)
		writeThmHeader(header.Bytes()[i*8:i*8+8], uint16(len(t.Args)), uint32(pos))

		if err := WriteBinders(e.w, t.Args); err != nil {
			return err
		}
		reorder := NewReorder(uint32(len(t.Args)), len(t.Heap), identityReorder)
		save := []uint32{}
		if err := writeExprUnify(e.w, t.Heap, reorder, t.Ret, &save); err != nil {
			return err
		}
		for i := len(t.Hyps) - 1; i >= 0; i-- {
			if err := wire.UnifyHyp(e.w); err != nil {
				return err
			}
			if err := writeExprUnify(e.w, t.Heap, reorder, t.Hyps[i].Expr, &save); err != nil {
				return err
			}
		}
		if err := e.w.WriteU8(0); err != nil {
			return err
		}
	}
	header.Commit()
	return nil
}

// writeProofBodyStream walks the declaration trace in source order, writing
// one framed command per sort or declaration. When index is true it also
// records, for each entry, the row the debugging index needs.
func (e *Exporter) writeProofBodyStream(index bool) ([]indexRow, error) {
	var rows []indexRow
	for _, entry := range e.env.Trace() {
		switch entry.Kind {
		case environment.TraceSort:
			pos := e.w.Pos()
			if err := wire.WriteCmdBytes(e.w, wire.StmtSort, nil); err != nil {
				return nil, err
			}
			if index {
				sortID := *e.env.Data(entry.Atom).Sort
				s := e.env.Sort(sortID)
				rows = append(rows, indexRow{
					name: e.env.Name(entry.Atom), isSort: true, id: int(sortID),
					kind: wire.StmtSort, pos: pos, span: s.Span,
				})
			}
		case environment.TraceDecl:
			pos := e.w.Pos()
			decl := e.env.Data(entry.Atom).Decl
			invariant.Precondition(decl != nil, "declaration trace entry for %q is not a term or theorem", e.env.Name(entry.Atom))
			cmd, span, err := e.writeDecl(decl)
			if err != nil {
				return nil, err
			}
			if index {
				id := int(decl.Term)
				if !decl.IsTerm {
					id = int(decl.Thm)
				}
				rows = append(rows, indexRow{
					name: e.env.Name(entry.Atom), isSort: false, isTerm: decl.IsTerm, id: id,
					kind: cmd, pos: pos, span: span,
				})
			}
		case environment.TraceGlobal, environment.TraceOutputString:
			// Not part of the wire format; preserved only in the trace for
			// source-order fidelity.
		default:
			invariant.Invariant(false, "unreachable TraceKind %v", entry.Kind)
		}
	}
	if err := e.w.WriteU8(0); err != nil {
		return nil, err
	}
	return rows, nil
}

func (e *Exporter) writeDecl(decl *environment.DeclKey) (uint8, environment.Span, error) {
	if decl.IsTerm {
		cmd, err := e.writeTermDecl(decl.Term)
		return cmd, e.env.Term(decl.Term).Span, err
	}
	cmd, err := e.writeThmDecl(decl.Thm)
	return cmd, e.env.Thm(decl.Thm).Span, err
}

func (e *Exporter) writeTermDecl(id environment.TermID) (uint8, error) {
	t := e.env.Term(id)
	switch t.Kind {
	case environment.KindTerm:
		cmd := wire.StmtTerm
		return cmd, wire.WriteCmdBytes(e.w, cmd, nil)
	case environment.KindDef:
		invariant.Precondition(!t.Missing && t.Value != nil, "definition %s has no value", e.env.Name(t.Atom))
		e.scratch.Reset()
		reorder := NewReorder(uint32(len(t.Args)), len(t.Value.Heap), identityReorder)
		if _, err := writeExprProof(&e.scratch, t.Value.Heap, reorder, t.Value.Head, false); err != nil {
			return 0, err
		}
		e.scratch.WriteByte(0)
		cmd := e.visCmd(t.Vis, wire.StmtDef)
		return cmd, wire.WriteCmdBytes(e.w, cmd, e.scratch.Bytes())
	default:
		invariant.Invariant(false, "unreachable TermKind %v", t.Kind)
		return 0, nil
	}
}

func (e *Exporter) writeThmDecl(id environment.ThmID) (uint8, error) {
	t := e.env.Thm(id)
	nargs := uint32(len(t.Args))
	e.scratch.Reset()

	switch t.Kind {
	case environment.KindAxiom:
		reorder := NewReorder(nargs, len(t.Heap), identityReorder)
		for _, h := range t.Hyps {
			if _, err := writeExprProof(&e.scratch, t.Heap, reorder, h.Expr, false); err != nil {
				return 0, err
			}
			if err := wire.ProofHyp(&e.scratch); err != nil {
				return 0, err
			}
		}
		if _, err := writeExprProof(&e.scratch, t.Heap, reorder, t.Ret, false); err != nil {
			return 0, err
		}
		e.scratch.WriteByte(0)
		cmd := wire.StmtAxiom
		return cmd, wire.WriteCmdBytes(e.w, cmd, e.scratch.Bytes())

	case environment.KindThm:
		invariant.Precondition(!t.Missing && t.Proof != nil, "theorem %s has no proof", e.env.Name(t.Atom))
		pf := t.Proof
		reorder := NewReorder(nargs, len(pf.Heap), identityReorder)
		hyps := make([]uint32, 0, len(pf.Hyps))
		for _, hi := range pf.Hyps {
			invariant.Precondition(int(hi) < len(pf.Heap), "hypothesis heap index %d out of range", hi)
			hypNode, ok := pf.Heap[hi].(environment.ProofHyp)
			invariant.Precondition(ok, "proof heap slot %d referenced as a hypothesis is not a Hyp node", hi)
			if _, err := writeProof(e.env, &e.scratch, pf.Heap, reorder, hyps, hypNode.Expr, false); err != nil {
				return 0, err
			}
			if err := wire.ProofHyp(&e.scratch); err != nil {
				return 0, err
			}
			hyps = append(hyps, reorder.Next())
		}
		if _, err := writeProof(e.env, &e.scratch, pf.Heap, reorder, hyps, pf.Head, false); err != nil {
			return 0, err
		}
		e.scratch.WriteByte(0)
		cmd := wire.StmtThm
		if t.Vis&environment.ModPub == 0 {
			cmd |= wire.StmtLocal
		}
		return cmd, wire.WriteCmdBytes(e.w, cmd, e.scratch.Bytes())

	default:
		invariant.Invariant(false, "unreachable ThmKind %v", t.Kind)
		return 0, nil
	}
}

func (e *Exporter) visCmd(vis environment.Modifiers, stmt uint8) uint8 {
	if vis&environment.ModLocal != 0 {
		return stmt | wire.StmtLocal
	}
	return stmt
}
