package wire

import (
	"encoding/binary"
	"io"
)

// writeCmd writes one command byte followed by the minimal little-endian
// encoding of value (zero bytes if value is zero).
func writeCmd(w io.Writer, opcode uint8, value uint32) error {
	width := widthFor(value)
	if _, err := w.Write([]byte{opcode | width}); err != nil {
		return err
	}
	switch width {
	case width0:
		return nil
	case width8:
		_, err := w.Write([]byte{uint8(value)})
		return err
	case width16:
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(value))
		_, err := w.Write(buf[:])
		return err
	default: // width32
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], value)
		_, err := w.Write(buf[:])
		return err
	}
}

// writeBareCmd writes a command byte that takes no argument at all.
func writeBareCmd(w io.Writer, opcode uint8) error {
	_, err := w.Write([]byte{opcode})
	return err
}

// WriteCmdBytes frames one declaration's command bytes: the statement
// opcode (which may already carry StmtLocal), the byte length of data
// encoded at minimal width, then data itself.
func WriteCmdBytes(w io.Writer, cmd uint8, data []byte) error {
	if err := writeCmd(w, cmd, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
