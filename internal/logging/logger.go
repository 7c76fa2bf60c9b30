package logging

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// maxLineLen is the capacity of the buffer a single log record is
// assembled in. Records that would exceed it are truncated to fit.
const (
	maxLineLen    = 256
	stderrBufLen  = 4 * maxLineLen
	hexdumpBufLen = 8 * maxLineLen
)

// Logger writes level-filtered, timestamped text records to a single
// destination: the file it was configured with, or standard error when no
// path is given. Writes are best-effort; a failed write bumps the error
// counter and is otherwise swallowed, so logging can never fail the
// caller's own operation.
//
// A mutex serializes destination access across goroutines. The threshold
// is read atomically so a disabled statement costs one comparison and no
// lock.
type Logger struct {
	mu     sync.Mutex // guards out and path
	out    *os.File   // nil when file logging is disabled
	stderr *os.File
	path   string
	level  atomic.Int32
	nerror atomic.Uint64
}

// New creates a Logger with the given threshold, clamped into
// [Emerg, Pverb]. An empty path selects standard error. A non-empty path
// is opened for append, created with mode 0644 if absent; on failure the
// error is reported on standard error and returned, and the Logger is
// left with file logging disabled rather than unusable: level control and
// Stderrf still work, line logging is a silent no-op.
func New(level Level, path string) (*Logger, error) {
	l := &Logger{stderr: os.Stderr, path: path}
	l.level.Store(int32(level.clamp()))

	if path == "" {
		l.out = os.Stderr
		return l, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		l.Stderrf("opening log file '%s' failed: %v", path, err)
		return l, err
	}
	l.out = f
	return l, nil
}

// Close releases the log file. It does nothing when logging to standard
// error or when the destination is already gone, so calling it twice is
// safe.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil || l.out == os.Stderr {
		return
	}
	l.out.Close()
	l.out = nil
}

// Reopen closes and reopens the configured log file, picking up a
// rotation performed externally (the file renamed out from under the
// process). No-op when logging to standard error. A reopen failure is
// reported on standard error and otherwise ignored: the Logger is left
// with file logging disabled until a future Reopen succeeds. There is no
// automatic retry, to avoid a syscall storm on a persistently broken
// path.
func (l *Logger) Reopen() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.path == "" || l.out == os.Stderr {
		return
	}
	if l.out != nil {
		l.out.Close()
		l.out = nil
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		l.Stderrf("reopening log file '%s' failed, ignored: %v", l.path, err)
		return
	}
	l.out = f
}

// Level returns the current threshold.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel clamps level into [Emerg, Pverb], assigns it and announces the
// new threshold through the normal logging path.
func (l *Logger) SetLevel(level Level) {
	lv := level.clamp()
	l.level.Store(int32(lv))
	l.Output(1, false, "set log level to %d", lv)
}

// LevelUp makes logging one step more verbose. No-op at Pverb.
func (l *Logger) LevelUp() {
	l.mu.Lock()
	lv := Level(l.level.Load())
	if lv >= Pverb {
		l.mu.Unlock()
		return
	}
	lv++
	l.level.Store(int32(lv))
	l.mu.Unlock()
	l.Output(1, false, "up log level to %d", lv)
}

// LevelDown makes logging one step quieter. No-op at Emerg.
func (l *Logger) LevelDown() {
	l.mu.Lock()
	lv := Level(l.level.Load())
	if lv <= Emerg {
		l.mu.Unlock()
		return
	}
	lv--
	l.level.Store(int32(lv))
	l.mu.Unlock()
	l.Output(1, false, "down log level to %d", lv)
}

// Loggable reports whether a message at level would be emitted. Emission
// helpers check it before any formatting work, so a statement below the
// threshold costs a single comparison.
func (l *Logger) Loggable(level Level) bool {
	return level <= Level(l.level.Load())
}

// ErrorCount returns the number of failed write attempts since the Logger
// was created. It is never reset; the embedding process reads it for
// diagnostics.
func (l *Logger) ErrorCount() uint64 {
	return l.nerror.Load()
}

// Output assembles and writes one record:
//
//	[<timestamp>] <file>:<line> <message>\n
//
// calldepth selects the stack frame reported as the origin, 1 being the
// caller of Output. The record is built in a fixed-size buffer and
// truncated to fit; a write failure is counted and swallowed. When fatal
// is set the process is terminated with a non-zero status after the write
// attempt, unconditionally.
func (l *Logger) Output(calldepth int, fatal bool, format string, args ...any) {
	_, file, line, ok := runtime.Caller(calldepth)
	if !ok {
		file, line = "???", 0
	}
	l.emit(filepath.Base(file), line, format, args...)
	if fatal {
		os.Exit(1)
	}
}

func (l *Logger) emit(file string, line int, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return
	}
	b := newLineBuffer(maxLineLen)
	b.appendf("[%s] %s:%d ", time.Now().Format(time.ANSIC), file, line)
	b.appendf(format, args...)
	b.terminate()
	if _, err := l.out.Write(b.bytes()); err != nil {
		l.nerror.Add(1)
	}
}

// Stderrf writes one record to standard error regardless of threshold and
// destination. It is how the Logger reports its own failures, so it stays
// visible even when file logging is broken. The buffer is larger than the
// line-log buffer and there is no fatal mode.
func (l *Logger) Stderrf(format string, args ...any) {
	b := newLineBuffer(stderrBufLen)
	b.appendf(format, args...)
	b.terminate()
	if _, err := l.stderr.Write(b.bytes()); err != nil {
		l.nerror.Add(1)
	}
}

// Hexdump writes data to the destination in the canonical hex+ASCII form
// of hexdump -C: per 16-byte row, an 8-digit hex offset, the byte values
// space-separated with an extra space after the eighth, blank padding in
// a short final row, and the printable-ASCII rendering between pipes.
// Rows stop early when the output buffer nears capacity. No-op when file
// logging is disabled.
func (l *Logger) Hexdump(data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return
	}
	b := newLineBuffer(hexdumpBufLen)
	for off := 0; off < len(data) && !b.full(); off += 16 {
		row := data[off:min(off+16, len(data))]
		b.appendf("%08x  ", off)
		for i := 0; i < 16; i++ {
			sep := " "
			if i == 7 {
				sep = "  "
			}
			if i < len(row) {
				b.appendf("%02x%s", row[i], sep)
			} else {
				b.appendf("  %s", sep)
			}
		}
		b.appendString("  |")
		for _, c := range row {
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			b.appendByte(c)
		}
		b.appendString("|\n")
	}
	if _, err := l.out.Write(b.bytes()); err != nil {
		l.nerror.Add(1)
	}
}
