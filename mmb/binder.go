package mmb

import (
	"encoding/binary"

	"github.com/mm0-tools/mmbexport/environment"
	"github.com/mm0-tools/mmbexport/invariant"
)

// boundFlag marks a binder word as introducing a new bound variable rather
// than a regular one, in the top bit of the packed 64-bit word.
const boundFlag uint64 = 1 << 63

// maxBoundVars is the largest number of bound variables a single binder
// list can carry: the dependency mask is 55 bits wide, so a 56th bound
// variable would have no bit left to be depended on by anything after it.
const maxBoundVars = 55

// WriteBinders writes one packed 64-bit word per argument: bound arguments
// get the next bit of the running dependency mask in positional order,
// regular arguments carry their already-resolved dependency mask verbatim.
func WriteBinders(w *Writer, args []environment.Binder) error {
	bv := uint64(1)
	bound := 0
	for _, a := range args {
		switch a.Ty.Kind {
		case environment.TypeBound:
			bound++
			invariant.Capacity(bound <= maxBoundVars, "more than %d bound variables in one binder list", maxBoundVars)
			if err := writeSortDeps(w, true, a.Ty.Sort, bv); err != nil {
				return err
			}
			bv <<= 1
		case environment.TypeReg:
			if err := writeSortDeps(w, false, a.Ty.Sort, a.Ty.Deps); err != nil {
				return err
			}
		default:
			invariant.Invariant(false, "unreachable TypeKind %v", a.Ty.Kind)
		}
	}
	return nil
}

// writeSortDeps packs one binder word: bound flag in bit 63, sort id in
// bits 56-62, dependency mask in the low 56 bits.
func writeSortDeps(w *Writer, bound bool, sort environment.SortID, deps uint64) error {
	word := uint64(sort) << 56
	if bound {
		word |= boundFlag
	}
	word |= deps
	return w.WriteU64(word)
}

// writeTermHeader fills an 8-byte term table entry in place: 2-byte arg
// count, 1-byte return sort (top bit set when the term is a definition),
// 1 reserved byte, then a 4-byte file offset to the term's binder list.
func writeTermHeader(entry []byte, nargs uint16, sort environment.SortID, hasDef bool, pos uint32) {
	invariant.Precondition(len(entry) == 8, "term header entry must be 8 bytes, got %d", len(entry))
	binary.LittleEndian.PutUint16(entry[0:2], nargs)
	s := uint8(sort)
	if hasDef {
		s |= 0x80
	}
	entry[2] = s
	entry[3] = 0
	binary.LittleEndian.PutUint32(entry[4:8], pos)
}

// writeThmHeader fills an 8-byte theorem table entry: 2-byte arg count, 2
// reserved bytes, then a 4-byte file offset to the theorem's binder list.
func writeThmHeader(entry []byte, nargs uint16, pos uint32) {
	invariant.Precondition(len(entry) == 8, "theorem header entry must be 8 bytes, got %d", len(entry))
	binary.LittleEndian.PutUint16(entry[0:2], nargs)
	entry[2] = 0
	entry[3] = 0
	binary.LittleEndian.PutUint32(entry[4:8], pos)
}
