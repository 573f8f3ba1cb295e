package learning

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned for mode strings outside the closed set and for
// mode/kind combinations that have no template.
var ErrInvalidMode = errors.New("invalid generation mode")

// Mode is the requested output template family.
type Mode uint8

const (
	modeUnknown Mode = iota
	ModeBoard
	ModeCollege
	ModeShort
	ModeMCQ
	ModeEnglish
	ModeTutor
)

var modeNames = map[Mode]string{
	ModeBoard:   "board",
	ModeCollege: "college",
	ModeShort:   "short",
	ModeMCQ:     "mcq",
	ModeEnglish: "english",
	ModeTutor:   "tutor",
}

// ParseMode maps a request value onto a Mode. It never substitutes a default.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == key {
			return m, nil
		}
	}
	return modeUnknown, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}
