package mmb

import (
	"encoding/binary"
	"sort"

	"github.com/mm0-tools/mmbexport/environment"
	"github.com/mm0-tools/mmbexport/invariant"
)

// indexRow is one declaration's entry in the debugging index, gathered
// while walking the declaration trace during the main export pass.
type indexRow struct {
	name   string
	isSort bool
	isTerm bool // only meaningful when !isSort
	id     int  // sort id, term id, or thm id, per isSort/isTerm
	kind   uint8
	pos    uint64 // file offset of the STMT_* command for this declaration
	span   environment.Span
}

// anchorSlot returns this row's index into the flat anchor table: slot 0 is
// the BST root, then one slot per sort id, then one per term id, then one
// per thm id - so looking a declaration up by its already-known id never
// has to walk the tree at all.
func (r indexRow) anchorSlot(numSorts, numTerms int) int {
	switch {
	case r.isSort:
		return 1 + r.id
	case r.isTerm:
		return 1 + numSorts + r.id
	default:
		return 1 + numSorts + numTerms + r.id
	}
}

// buildIndex writes the flat anchor table and the name-keyed binary search
// tree, then commits the anchor table's own offset to root.
func (e *Exporter) buildIndex(rows []indexRow, numSorts, numTerms, numThms int, root *Fixup64) error {
	if _, err := e.w.AlignTo(8); err != nil {
		return err
	}
	root.Commit(e.w)
	anchor, err := e.fixups.NewFixupLarge(e.w, 8*(1+numSorts+numTerms+numThms))
	if err != nil {
		return err
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	runs := groupByName(rows)

	b := &indexBuilder{exp: e, anchor: anchor.Bytes(), numSorts: numSorts, numTerms: numTerms}
	rootOff, _, err := b.writeRuns(runs)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(anchor.Bytes()[0:8], rootOff)
	anchor.Commit()
	return nil
}

type indexRun struct {
	name  string
	items []indexRow
}

func groupByName(rows []indexRow) []indexRun {
	var runs []indexRun
	for _, r := range rows {
		if n := len(runs); n > 0 && runs[n-1].name == r.name {
			runs[n-1].items = append(runs[n-1].items, r)
			continue
		}
		runs = append(runs, indexRun{name: r.name, items: []indexRow{r}})
	}
	return runs
}

// indexBuilder carries the state threaded through the recursive BST write:
// the exporter, the anchor table being filled in place, and the id-space
// split points needed to compute anchor slots.
type indexBuilder struct {
	exp      *Exporter
	anchor   []byte
	numSorts int
	numTerms int
}

// writeRuns recursively writes a balanced BST over runs, writing every
// subtree before the node that references it so no fixups are needed for
// child pointers. It returns the subtree's root offset and the offset of
// its rightmost node (by name order), so a caller holding an equal-name
// run can graft the run's extra members onto that rightmost node's right
// pointer - "the left chain's terminal tail" - without disturbing the
// fixed 37-byte record layout with an extra field.
func (b *indexBuilder) writeRuns(runs []indexRun) (root uint64, rightmost uint64, err error) {
	if len(runs) == 0 {
		return 0, 0, nil
	}
	mid := len(runs) / 2

	left, leftRightmost, err := b.writeRuns(runs[:mid])
	if err != nil {
		return 0, 0, err
	}
	right, rightRightmost, err := b.writeRuns(runs[mid+1:])
	if err != nil {
		return 0, 0, err
	}

	items := runs[mid].items
	finalLeft := left
	if len(items) > 1 {
		chainHead, err := b.writeChain(items[1:])
		if err != nil {
			return 0, 0, err
		}
		if left == 0 {
			finalLeft = chainHead
		} else if err := b.patchRight(leftRightmost, chainHead); err != nil {
			return 0, 0, err
		}
	}

	nodeOff, err := b.writeNode(items[0], finalLeft, right)
	if err != nil {
		return 0, 0, err
	}

	tail := nodeOff
	if right != 0 {
		tail = rightRightmost
	}
	return nodeOff, tail, nil
}

// writeChain writes a degenerate right-leaning chain of rows that all share
// one name, returning the chain's head offset.
func (b *indexBuilder) writeChain(items []indexRow) (uint64, error) {
	var next uint64
	for i := len(items) - 1; i >= 0; i-- {
		off, err := b.writeNode(items[i], 0, next)
		if err != nil {
			return 0, err
		}
		next = off
	}
	return next, nil
}

func (b *indexBuilder) patchRight(nodeOffset, value uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	return b.exp.w.patchAt(nodeOffset+8, buf[:])
}

// writeNode writes one fixed 37-byte record plus the row's NUL-terminated
// name, fills this row's anchor slot with the record's own offset, and
// returns that offset.
func (b *indexBuilder) writeNode(row indexRow, left, right uint64) (uint64, error) {
	invariant.Invariant(indexOfByte(row.name, 0) < 0, "declaration name %q contains an embedded NUL", row.name)

	pos, err := b.exp.w.AlignTo(8)
	if err != nil {
		return 0, err
	}
	if err := b.exp.w.WriteU64(left); err != nil {
		return 0, err
	}
	if err := b.exp.w.WriteU64(right); err != nil {
		return 0, err
	}
	line, col := uint32(0), uint32(0)
	if b.exp.source != nil && b.exp.source.File() == row.span.File {
		p := b.exp.source.ToPos(row.span.Start)
		line, col = p.Line, p.Character
	}
	if err := b.exp.w.WriteU32(line); err != nil {
		return 0, err
	}
	if err := b.exp.w.WriteU32(col); err != nil {
		return 0, err
	}
	if err := b.exp.w.WriteU64(row.pos); err != nil {
		return 0, err
	}
	if err := b.exp.w.WriteU32(uint32(row.id)); err != nil {
		return 0, err
	}
	if err := b.exp.w.WriteU8(row.kind); err != nil {
		return 0, err
	}
	if err := b.exp.w.WriteAll([]byte(row.name)); err != nil {
		return 0, err
	}
	if err := b.exp.w.WriteU8(0); err != nil {
		return 0, err
	}

	slot := row.anchorSlot(b.numSorts, b.numTerms)
	binary.LittleEndian.PutUint64(b.anchor[slot*8:slot*8+8], pos)
	return pos, nil
}

func indexOfByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
