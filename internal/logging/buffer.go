package logging

import "fmt"

// lineBuffer is a fixed-capacity append buffer. Every append is clamped to
// the remaining capacity, so the used length can never exceed the backing
// array no matter how long the formatted content is. Oversized content is
// truncated, never an overflow.
type lineBuffer struct {
	data []byte
	used int
}

func newLineBuffer(size int) *lineBuffer {
	return &lineBuffer{data: make([]byte, size)}
}

// appendf formats into the remaining space, truncating to fit.
func (b *lineBuffer) appendf(format string, args ...any) {
	if b.used >= len(b.data) {
		return
	}
	b.used += copy(b.data[b.used:], fmt.Sprintf(format, args...))
}

func (b *lineBuffer) appendString(s string) {
	if b.used >= len(b.data) {
		return
	}
	b.used += copy(b.data[b.used:], s)
}

func (b *lineBuffer) appendByte(c byte) {
	if b.used < len(b.data) {
		b.data[b.used] = c
		b.used++
	}
}

// terminate ends the buffer with a newline. When the buffer is already
// full the last byte is replaced, so the record stays newline-terminated
// within capacity.
func (b *lineBuffer) terminate() {
	if b.used < len(b.data) {
		b.data[b.used] = '\n'
		b.used++
		return
	}
	b.data[b.used-1] = '\n'
}

func (b *lineBuffer) full() bool {
	return b.used >= len(b.data)
}

func (b *lineBuffer) bytes() []byte {
	return b.data[:b.used]
}
