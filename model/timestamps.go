package model

import (
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
)

const (
	// StopTimeZone is the regional zone TRIAS expects DepArrTime in.
	StopTimeZone = "Europe/Zurich"

	RequestTimestampLayout = "2006-01-02T15:04:05.000Z"
	DepArrTimeLayout       = "2006-01-02T15:04:05"
)

// Clock is the source of wall-clock time for the board.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// CurrentUTCTimestamp formats now as a UTC request timestamp with
// millisecond precision.
func CurrentUTCTimestamp(now time.Time) string {
	return now.UTC().Format(RequestTimestampLayout)
}

// CurrentLocalDepartureTimestamp formats now in loc with second precision and
// no zone designator, as TRIAS reads DepArrTime as local time at the stop.
func CurrentLocalDepartureTimestamp(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DepArrTimeLayout)
}

func StopLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(StopTimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load time zone `%s`", StopTimeZone)
	}
	return loc, nil
}
