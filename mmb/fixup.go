package mmb

import (
	"encoding/binary"
	"math"

	"github.com/mm0-tools/mmbexport/invariant"
)

// valueKind tags what a queued fixup patch actually writes.
type valueKind int

const (
	valU32 valueKind = iota
	valU64
	valBuf
)

type patch struct {
	pos uint64
	kind valueKind
	u32 uint32
	u64 uint64
	buf []byte
}

// Registry tracks every fixup issued during the main pass and replays them
// against the sink during finish, in commit order. It also enforces that
// every 32-bit and large fixup was committed before finish: an uncommitted
// must-commit fixup is a programming error, not a recoverable condition.
type Registry struct {
	patches []patch

	issued32, committed32       int
	issuedLarge, committedLarge int
}

// NewFixup32 reserves 4 zero bytes at the writer's current position and
// returns a token that must eventually be committed.
func (r *Registry) NewFixup32(w *Writer) (Fixup32, error) {
	pos := w.Pos()
	if err := w.WriteU32(0); err != nil {
		return Fixup32{}, err
	}
	r.issued32++
	return Fixup32{pos: pos, reg: r}, nil
}

// NewFixup64 reserves 8 zero bytes. Unlike Fixup32 it may be cancelled
// instead of committed, leaving the reserved bytes as zero.
func (r *Registry) NewFixup64(w *Writer) (Fixup64, error) {
	pos := w.Pos()
	if err := w.WriteU64(0); err != nil {
		return Fixup64{}, err
	}
	return Fixup64{pos: pos, reg: r}, nil
}

// NewFixupLarge reserves size zero bytes and hands back a buffer the caller
// fills in place; Commit queues that buffer for the patch pass. size is
// typically a whole table (e.g. the term or theorem header array), built up
// incrementally as each entry's final position becomes known.
func (r *Registry) NewFixupLarge(w *Writer, size int) (*FixupLarge, error) {
	pos := w.Pos()
	if err := w.WriteAll(make([]byte, size)); err != nil {
		return nil, err
	}
	r.issuedLarge++
	return &FixupLarge{pos: pos, reg: r, buf: make([]byte, size)}, nil
}

// Finish asserts every must-commit fixup was committed, then seeks back and
// writes each queued patch in the order it was committed.
func (r *Registry) Finish(w *Writer) error {
	invariant.Postcondition(r.issued32 == r.committed32,
		"not every 32-bit fixup was committed: issued %d, committed %d", r.issued32, r.committed32)
	invariant.Postcondition(r.issuedLarge == r.committedLarge,
		"not every large fixup was committed: issued %d, committed %d", r.issuedLarge, r.committedLarge)
	for _, p := range r.patches {
		var b []byte
		switch p.kind {
		case valU32:
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], p.u32)
			b = buf[:]
		case valU64:
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], p.u64)
			b = buf[:]
		case valBuf:
			b = p.buf
		}
		if err := w.patchAt(p.pos, b); err != nil {
			return err
		}
	}
	return nil
}

// Fixup32 is a must-commit promise for a 4-byte field, almost always a file
// offset.
type Fixup32 struct {
	pos  uint64
	reg  *Registry
	done bool
}

// CommitVal commits an explicit value.
func (f *Fixup32) CommitVal(val uint32) {
	invariant.Precondition(!f.done, "fixup32 at offset %d committed twice", f.pos)
	f.done = true
	f.reg.committed32++
	f.reg.patches = append(f.reg.patches, patch{pos: f.pos, kind: valU32, u32: val})
}

// Commit commits the writer's current position as the value, failing loudly
// if that position doesn't fit in 32 bits.
func (f *Fixup32) Commit(w *Writer) {
	pos := w.Pos()
	invariant.Capacity(pos <= math.MaxUint32, "file offset %d exceeds a 32-bit fixup's range", pos)
	f.CommitVal(uint32(pos))
}

// Fixup64 is a droppable promise for an 8-byte field. Dropping it without
// committing leaves the reserved bytes at zero, which is itself meaningful
// (e.g. "no debugging index was emitted").
type Fixup64 struct {
	pos  uint64
	reg  *Registry
	done bool
}

// CommitVal commits an explicit value.
func (f *Fixup64) CommitVal(val uint64) {
	invariant.Precondition(!f.done, "fixup64 at offset %d committed twice", f.pos)
	f.done = true
	f.reg.patches = append(f.reg.patches, patch{pos: f.pos, kind: valU64, u64: val})
}

// Commit commits the writer's current position as the value.
func (f *Fixup64) Commit(w *Writer) { f.CommitVal(w.Pos()) }

// Cancel drops the fixup, leaving its bytes at zero. Safe to call at most
// once; committing after cancelling (or vice versa) panics.
func (f *Fixup64) Cancel() {
	invariant.Precondition(!f.done, "fixup64 at offset %d already resolved", f.pos)
	f.done = true
}

// FixupLarge is a must-commit promise over a caller-owned buffer, patched in
// as a whole when committed.
type FixupLarge struct {
	pos  uint64
	reg  *Registry
	buf  []byte
	done bool
}

// Bytes returns the reserved buffer for the caller to fill in place before
// committing.
func (f *FixupLarge) Bytes() []byte { return f.buf }

// Commit queues the buffer (as it stands right now) for the patch pass.
func (f *FixupLarge) Commit() {
	invariant.Precondition(!f.done, "large fixup at offset %d committed twice", f.pos)
	f.done = true
	f.reg.committedLarge++
	f.reg.patches = append(f.reg.patches, patch{pos: f.pos, kind: valBuf, buf: f.buf})
}
