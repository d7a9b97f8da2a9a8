package util

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"
)

// Number is the set of types Min works on
type Number interface {
	~int | ~int64 | ~uint64 | ~float64
}

// Min returns the smaller of a and b
func Min[T Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Map[T, U any](mapFunc func(T) U, s []T) (out []U) {
	for _, t := range s {
		out = append(out, mapFunc(t))
	}

	return out
}

type LogVolume int

const (
	Silent LogVolume = 1 << iota
	Quieter
	Quiet
	Normal
	Loud
	Louder
	Loudest
)

var volumes = []LogVolume{Silent, Quieter, Quiet, Normal, Loud, Louder, Loudest}

func (lv LogVolume) String() string {
	switch lv {
	case Silent:
		return "Silent"
	case Quieter:
		return "Quieter"
	case Quiet:
		return "Quiet"
	case Normal:
		return "Normal"
	case Loud:
		return "Loud"
	case Louder:
		return "Louder"
	case Loudest:
		return "Loudest"
	default:
		return fmt.Sprintf("%d", lv)
	}
}

// ParseVolume is the inverse of LogVolume.String, ignoring case
func ParseVolume(s string) (LogVolume, error) {
	for _, lv := range volumes {
		if strings.EqualFold(lv.String(), s) {
			return lv, nil
		}
	}
	return 0, errors.Errorf("unknown log volume %q, want one of %v", s, volumes)
}

// initialise the log level as silent by default
var filterBelow = func(lv LogVolume) *LogVolume { return &lv }(Silent)

// FilterBelow sets the log level below which messages will not be printed
func (lv LogVolume) FilterBelow() LogVolume {
	*filterBelow = lv
	return lv
}

// Logger is a context-aware logger
type Logger struct {
	prefixes []any
	Volume   LogVolume
}

// Ctx returns a copy of the logger with the given prefix added after all pre-existing prefixes
func (l Logger) Ctx(prefix string) Logger {
	prefixes := make([]any, len(l.prefixes), len(l.prefixes)+1)
	copy(prefixes, l.prefixes)
	return Logger{append(prefixes, prefix+":"), l.Volume}
}

// Vol is like a -v option. A Loud logger will print all messages,
// a Silent one will print none
func (l Logger) Vol(v LogVolume) Logger {
	l.Volume = v
	return l
}

// Enabled reports whether Log would print anything at the current threshold
func (l Logger) Enabled() bool {
	return l.Volume >= *filterBelow
}

// Log shares its interface with log.Println
func (l Logger) Log(msgs ...any) {
	if l.Enabled() {
		prefixes := append([]any{fmt.Sprintf("[%s]", l.Volume)}, l.prefixes...)
		log.Println(append(prefixes, msgs...)...)
	}
}
