package model

import (
	"time"
)

// MaxDepartures is the number of rows the board has room for.
const MaxDepartures = 5

const (
	UnknownLine        = "Unknown Line"
	UnknownDestination = "Unknown Destination"
)

// Departure is one ranked departure from the monitored stop
type Departure struct {
	Line          string    `json:"line"`
	Destination   string    `json:"destination"`
	EstimatedTime time.Time `json:"estimatedTime"`
	Minutes       int       `json:"minutes"`
}

// MinutesUntil returns the whole minutes from now to estimated, truncated
// toward zero; 30 seconds in the past is 0, not -1.
func MinutesUntil(estimated time.Time, now time.Time) int {
	return int(estimated.Sub(now) / time.Minute)
}

type ByMinutes []Departure

func (a ByMinutes) Len() int {
	return len(a)
}

func (a ByMinutes) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

func (a ByMinutes) Less(i, j int) bool {
	return a[i].Minutes < a[j].Minutes
}
