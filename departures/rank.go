package departures

import (
	"sort"

	"github.com/lokanidao9991/SmartBusBoard/model"
)

// Rank orders departures soonest first, keeping response order for ties, and
// keeps only as many as the board can show. The input is not modified.
func Rank(departures []model.Departure) []model.Departure {
	ranked := make([]model.Departure, len(departures))
	copy(ranked, departures)

	sort.Stable(model.ByMinutes(ranked))

	if len(ranked) > model.MaxDepartures {
		ranked = ranked[:model.MaxDepartures]
	}

	return ranked
}
