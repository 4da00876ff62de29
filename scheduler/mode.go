package scheduler

import (
	"time"
)

type Mode int

const (
	Active Mode = iota
	Quiet
)

func (m Mode) String() string {
	switch m {
	case Active:
		return "active"
	case Quiet:
		return "quiet"
	default:
		return "unknown"
	}
}

const (
	QuietStartHour = 1
	QuietEndHour   = 7

	// ActiveInterval is the minimum polling interval TRIAS allows.
	ActiveInterval = 30 * time.Second

	QuietMessage = "Good Night =)"
)

// Decide picks the mode for a local hour (0-23) and how long to sleep
// afterwards. Quiet sleeps are whole hours counted from the start of the
// current hour's number, so a board entering quiet mode at 03:40 wakes at
// 07:40.
func Decide(hour int) (Mode, time.Duration) {
	if QuietStartHour <= hour && hour < QuietEndHour {
		hoursToSleep := 6
		if hour > 1 {
			hoursToSleep = QuietEndHour - hour
		}
		return Quiet, time.Duration(hoursToSleep) * time.Hour
	}

	return Active, ActiveInterval
}
