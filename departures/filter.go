package departures

import (
	"strings"

	"github.com/lokanidao9991/SmartBusBoard/config"
)

// Filter decides which parsed departures are worth showing.
type Filter struct {
	// Destinations are case-sensitive substrings; "all" or "All" accepts
	// every destination.
	Destinations []string
	// Threshold is the minimum minutes-until-departure. It may be negative
	// to keep showing departures that are already a little late.
	Threshold int
}

func NewFilter(cfg config.Snapshot) Filter {
	return Filter{
		Destinations: cfg.DesiredDestinations,
		Threshold:    cfg.Threshold,
	}
}

func (f Filter) AcceptsDestination(destination string) bool {
	for _, d := range f.Destinations {
		if d == "all" || d == "All" {
			return true
		}
	}

	for _, d := range f.Destinations {
		if strings.Contains(destination, d) {
			return true
		}
	}

	return false
}

func (f Filter) AcceptsMinutes(minutes int) bool {
	return minutes >= f.Threshold
}

func (f Filter) Accepts(destination string, minutes int) bool {
	return f.AcceptsDestination(destination) && f.AcceptsMinutes(minutes)
}
