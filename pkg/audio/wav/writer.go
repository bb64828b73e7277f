// ABOUTME: Little-endian byte cursor used to lay out WAV containers
// ABOUTME: Tracks the write position over a preallocated backing buffer
package wav

import "encoding/binary"

// writer is a write cursor over a fixed-size buffer
type writer struct {
	buf []byte
	pos int
}

func newWriter(size int) *writer {
	return &writer{buf: make([]byte, size)}
}

func (w *writer) writeU16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

func (w *writer) writeU32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

func (w *writer) writeI16(v int16) {
	w.writeU16(uint16(v))
}

// remaining returns the number of bytes not yet written
func (w *writer) remaining() int {
	return len(w.buf) - w.pos
}

func (w *writer) bytes() []byte {
	return w.buf
}
