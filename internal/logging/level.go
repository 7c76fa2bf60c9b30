package logging

import "fmt"

// Level is the severity of a log message. Lower values are more severe:
// a message is emitted only when its level is <= the configured threshold.
type Level int

// Severity levels, from most to least severe. The Debug..Pverb band is
// intended for increasingly chatty diagnostic output; callers pick the
// level per statement via Debugf.
const (
	Emerg Level = iota
	Alert
	Crit
	Error
	Warn
	Notice
	Info
	Debug
	Verb
	Vverb
	Vvverb
	Pverb
)

var levelNames = [...]string{
	"emerg", "alert", "crit", "error", "warn", "notice",
	"info", "debug", "verb", "vverb", "vvverb", "pverb",
}

// String returns the lowercase name of the level, or its numeric form
// when out of range.
func (l Level) String() string {
	if l < Emerg || l > Pverb {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// clamp forces l into the valid [Emerg, Pverb] range.
func (l Level) clamp() Level {
	if l < Emerg {
		return Emerg
	}
	if l > Pverb {
		return Pverb
	}
	return l
}
