// Package logging is the relayd logging core: level-filtered, timestamped,
// line-oriented text logging to a file or standard error, plus a canonical
// hex+ASCII dump for inspecting relayed payloads.
//
// It is written to be callable from connection-handling hot paths. A
// statement below the current threshold costs a single atomic comparison;
// every record is assembled in a fixed-capacity buffer that truncates
// instead of overflowing; and emission never propagates a failure back to
// the caller — failed writes are counted in ErrorCount and otherwise
// swallowed.
//
// # Severity levels
//
// Levels run from Emerg (0) to Pverb (11), lower meaning more severe. A
// message is emitted only when its level is <= the configured threshold,
// so raising the threshold makes logging more verbose:
//
//	logging.Init(logging.Notice, "/var/log/relayd.log")
//	logging.Errorf("upstream %s unreachable", addr)   // emitted
//	logging.Debugf(logging.Vverb, "parsed %d bytes", n) // suppressed
//
// The threshold can be moved at runtime with SetLevel, LevelUp and
// LevelDown; relayd binds SIGTTIN and SIGTTOU to the latter two.
//
// # Rotation
//
// The package never rotates files itself. When an external tool renames
// the log file away, Reopen re-creates it at the configured path; relayd
// binds SIGUSR1 to Reopen. A failed reopen leaves file logging disabled
// (line logs become silent no-ops) until a later Reopen succeeds.
//
// # Record format
//
// One record per line:
//
//	[Mon Jan  2 15:04:05 2006] file.go:123 message
//
// Hexdump emits hexdump -C style rows:
//
//	00000000  68 65 6c 6c 6f 20 77 6f  72 6c 64                 |hello world|
//
// # Failure reporting
//
// The logger reports its own failures (a log file that cannot be opened
// or reopened) through Stderrf, which ignores both the threshold and the
// configured destination, so they stay visible even when file logging is
// broken. Nothing in this package terminates the process except Fatalf,
// which does so unconditionally after writing its message.
package logging
