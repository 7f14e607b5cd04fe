package mmb

import (
	"fmt"
	"io"
)

// BigBuffer is an in-memory Sink that accumulates the entire file in RAM and
// flushes it to a real io.Writer in one shot when Finish is called. Unlike a
// plain bytes.Buffer, it supports Seek, which the fixup registry needs to
// patch header fields after the body has been written past them.
//
// Use WithBigBuffer rather than constructing one directly: it guarantees
// Finish runs on every exit path, including a panicking one, the way a
// scoped resource with a destructor would.
type BigBuffer struct {
	buf []byte
	pos int
	out io.Writer
}

// NewBigBuffer returns a BigBuffer that will flush to out on Finish.
func NewBigBuffer(out io.Writer) *BigBuffer { return &BigBuffer{out: out} }

func (b *BigBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.buf) {
		grown := make([]byte, end)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *BigBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(b.pos) + offset
	case io.SeekEnd:
		next = int64(len(b.buf)) + offset
	default:
		return 0, fmt.Errorf("bigbuffer: invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("bigbuffer: negative seek position %d", next)
	}
	b.pos = int(next)
	return next, nil
}

// Bytes exposes the accumulated buffer directly, for callers that need to
// hash or inspect the finished file without a second read pass (e.g. the
// manifest digest in ExportWithManifest).
func (b *BigBuffer) Bytes() []byte { return b.buf }

// Finish flushes the accumulated buffer to the real sink. Safe to call more
// than once; later calls re-flush the same bytes.
func (b *BigBuffer) Finish() error {
	_, err := b.out.Write(b.buf)
	return err
}

// WithBigBuffer runs fn against a fresh BigBuffer targeting out, then flushes
// it to out regardless of how fn exits - normal return, error return, or
// panic. The flush error is only reported when fn itself did not already
// fail, mirroring the real sink write that would otherwise be lost.
func WithBigBuffer(out io.Writer, fn func(*BigBuffer) error) (err error) {
	bb := NewBigBuffer(out)
	defer func() {
		if ferr := bb.Finish(); err == nil {
			err = ferr
		}
	}()
	return fn(bb)
}
