package logging

import "os"

// std is the process-wide logger. Until Init it logs to standard error at
// the Emerg threshold, so early failures are never lost.
var std = &Logger{stderr: os.Stderr, out: os.Stderr}

// Init configures the process-wide logger. level is clamped into
// [Emerg, Pverb]; an empty path logs to standard error. On a failed file
// open the error is returned and file logging stays disabled — callers
// are expected to treat this as non-fatal unless they choose otherwise.
func Init(level Level, path string) error {
	l, err := New(level, path)
	std = l
	return err
}

// Deinit closes the process-wide logger's file, if any. Idempotent.
func Deinit() {
	std.Close()
}

// Reopen re-acquires the log file after an external rotation.
func Reopen() {
	std.Reopen()
}

// SetLevel sets the threshold of the process-wide logger.
func SetLevel(level Level) {
	std.SetLevel(level)
}

// LevelUp makes the process-wide logger one step more verbose.
func LevelUp() {
	std.LevelUp()
}

// LevelDown makes the process-wide logger one step quieter.
func LevelDown() {
	std.LevelDown()
}

// Loggable reports whether level passes the process-wide threshold.
func Loggable(level Level) bool {
	return std.Loggable(level)
}

// ErrorCount returns the process-wide logger's failed-write count.
func ErrorCount() uint64 {
	return std.ErrorCount()
}

// CurrentLevel returns the process-wide logger's threshold.
func CurrentLevel() Level {
	return std.Level()
}

// Errorf logs at Error level.
func Errorf(format string, args ...any) {
	if std.Loggable(Error) {
		std.Output(2, false, format, args...)
	}
}

// Warnf logs at Warn level.
func Warnf(format string, args ...any) {
	if std.Loggable(Warn) {
		std.Output(2, false, format, args...)
	}
}

// Noticef logs at Notice level.
func Noticef(format string, args ...any) {
	if std.Loggable(Notice) {
		std.Output(2, false, format, args...)
	}
}

// Infof logs at Info level.
func Infof(format string, args ...any) {
	if std.Loggable(Info) {
		std.Output(2, false, format, args...)
	}
}

// Debugf logs at the given level, meant for the Debug..Pverb band where
// the verbosity is chosen per statement.
func Debugf(level Level, format string, args ...any) {
	if std.Loggable(level) {
		std.Output(2, false, format, args...)
	}
}

// Fatalf logs the message and then terminates the process with a non-zero
// status. Termination is unconditional once requested; the message is
// flushed best-effort first. Kept separate from the ordinary helpers so
// nothing terminates the process by accident.
func Fatalf(format string, args ...any) {
	std.Output(2, true, format, args...)
}

// Stderrf writes to standard error regardless of threshold and
// destination.
func Stderrf(format string, args ...any) {
	std.Stderrf(format, args...)
}

// Hexdumpf logs the formatted message at the given level, followed by a
// canonical hex+ASCII dump of data. Both are skipped when level is below
// the threshold.
func Hexdumpf(level Level, data []byte, format string, args ...any) {
	if !std.Loggable(level) {
		return
	}
	std.Output(2, false, format, args...)
	std.Hexdump(data)
}
