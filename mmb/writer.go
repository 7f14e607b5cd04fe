package mmb

import (
	"encoding/binary"
	"io"

	"github.com/mm0-tools/mmbexport/invariant"
)

// Sink is the minimal capability the exporter needs from its destination:
// sequential writes during the main pass, and seeking during finish() to
// patch in fixup values. *os.File and *BigBuffer both satisfy it.
type Sink interface {
	io.Writer
	io.Seeker
}

// Writer is a positioned wrapper around a Sink. It tracks the number of
// bytes written so far so callers never need to ask the underlying sink
// "where am I" (which, for a plain io.Writer, they couldn't).
type Writer struct {
	sink Sink
	pos  uint64
}

// NewWriter wraps sink for positioned writing starting at offset 0. Callers
// must not write to sink by any other path while a Writer wraps it.
func NewWriter(sink Sink) *Writer { return &Writer{sink: sink} }

// Pos reports the number of bytes written so far.
func (w *Writer) Pos() uint64 { return w.pos }

// Write implements io.Writer, so a *Writer can be handed directly to the
// wire package's command encoders.
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := w.sink.Write(p)
	w.pos += uint64(n)
	if err != nil {
		return n, err
	}
	if n != len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteAll writes p in full or returns an error, discarding the byte count.
func (w *Writer) WriteAll(p []byte) error {
	_, err := w.Write(p)
	return err
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(b uint8) error { return w.WriteAll([]byte{b}) }

// WriteU32 writes v as 4 little-endian bytes.
func (w *Writer) WriteU32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return w.WriteAll(buf[:])
}

// WriteU64 writes v as 8 little-endian bytes.
func (w *Writer) WriteU64(v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return w.WriteAll(buf[:])
}

// AlignTo pads with zero bytes until Pos() is a multiple of n, and returns
// the resulting (already-aligned) position. n must be 2, 4 or 8.
func (w *Writer) AlignTo(n uint8) (uint64, error) {
	invariant.Precondition(n == 2 || n == 4 || n == 8, "align_to: n must be 2, 4 or 8, got %d", n)
	pad := (uint64(n) - w.pos%uint64(n)) % uint64(n)
	if pad > 0 {
		if err := w.WriteAll(make([]byte, pad)); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

// patchAt seeks the underlying sink to pos, writes b, then seeks the sink
// back to the writer's running position, which it leaves untouched. Forward
// writing can therefore resume after a patch: finish() patches every fixup
// this way, and the debugging index patches equal-name chains into nodes it
// has already written during the main pass.
func (w *Writer) patchAt(pos uint64, b []byte) error {
	if _, err := w.sink.Seek(int64(pos), io.SeekStart); err != nil {
		return err
	}
	if _, err := w.sink.Write(b); err != nil {
		return err
	}
	_, err := w.sink.Seek(int64(w.pos), io.SeekStart)
	return err
}
