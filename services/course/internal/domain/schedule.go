package domain

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrBadClock  = errors.New("time must be HH:MM")
	ErrEmptySlot = errors.New("start_time must be before end_time")
	clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	if !clockPattern.MatchString(s) {
		return 0, ErrBadClock
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return 0, ErrBadClock
	}
	return h*60 + m, nil
}

// Slot is a half-open interval of minutes on one day.
type Slot struct {
	Start, End int
}

func NewSlot(start, end string) (Slot, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Slot{}, err
	}
	if s >= e {
		return Slot{}, ErrEmptySlot
	}
	return Slot{Start: s, End: e}, nil
}

// Overlaps reports whether the two slots share at least one minute. Slots
// that only touch ("08:00-10:00" and "10:00-12:00") do not overlap.
func (a Slot) Overlaps(b Slot) bool {
	return a.Start < b.End && b.Start < a.End
}

// SameKey compares room or day names ignoring case and surrounding spaces.
func SameKey(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
