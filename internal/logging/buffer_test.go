package logging

import (
	"strings"
	"testing"
)

func TestLineBufferClampsEveryAppend(t *testing.T) {
	b := newLineBuffer(32)
	b.appendf("%s", strings.Repeat("a", 20))
	if b.used != 20 {
		t.Fatalf("used = %d, want 20", b.used)
	}
	// Crosses the boundary; must clamp, not overflow.
	b.appendf("%s", strings.Repeat("b", 20))
	if b.used != 32 {
		t.Fatalf("used = %d after oversized append, want 32", b.used)
	}
	if !b.full() {
		t.Fatal("buffer not reported full")
	}
	// Appends into a full buffer change nothing.
	b.appendf("ignored")
	b.appendString("ignored")
	b.appendByte('x')
	if b.used != 32 {
		t.Fatalf("used = %d after appends to full buffer, want 32", b.used)
	}
	if got := string(b.bytes()); got != strings.Repeat("a", 20)+strings.Repeat("b", 12) {
		t.Errorf("content wrong: %q", got)
	}
}

func TestLineBufferTerminate(t *testing.T) {
	tests := []struct {
		name    string
		fill    int
		size    int
		wantLen int
	}{
		{"room left", 10, 32, 11},
		{"one byte left", 31, 32, 32},
		{"exactly full", 32, 32, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newLineBuffer(tt.size)
			b.appendString(strings.Repeat("x", tt.fill))
			b.terminate()
			got := b.bytes()
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got[len(got)-1] != '\n' {
				t.Error("buffer not newline-terminated")
			}
		})
	}
}

func TestLineBufferBoundarySweep(t *testing.T) {
	const size = 64
	for n := 0; n <= 2*size; n++ {
		b := newLineBuffer(size)
		b.appendString(strings.Repeat("x", n))
		b.terminate()
		got := b.bytes()
		if len(got) > size {
			t.Fatalf("n=%d: len = %d exceeds capacity %d", n, len(got), size)
		}
		if got[len(got)-1] != '\n' {
			t.Fatalf("n=%d: not newline-terminated", n)
		}
	}
}
