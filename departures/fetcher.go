package departures

import (
	"context"
	"time"

	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/lokanidao9991/SmartBusBoard/model"
	trias_client "github.com/lokanidao9991/SmartBusBoard/trias-client"
	"github.com/pkg/errors"
)

// Fetcher runs the retrieval pipeline for one board cycle: build the
// request, call TRIAS, parse and filter, rank.
type Fetcher struct {
	Logger   *dlog.Logger
	Client   trias_client.TriasClientInterface
	Clock    model.Clock
	Location *time.Location
}

// Fetch always returns a usable list. On a transport or parse failure the
// list is empty and the error says why; there is no retry, the next cycle
// simply tries again.
func (f *Fetcher) Fetch(ctx context.Context, cfg config.Snapshot) ([]model.Departure, error) {
	f.Logger.Debugf("Fetch departures for `%s`", cfg.StopPointRef)

	request := BuildStopEventRequest(cfg, f.Clock.Now(), f.Location)

	body, httpStatus, err := f.Client.Request(ctx, cfg.APIKey, request)
	if err != nil {
		return []model.Departure{}, errors.Wrapf(err, "request to TRIAS failed with status `%d`", httpStatus)
	}

	parser := Parser{Logger: f.Logger}
	departures, err := parser.ParseStopEvents(body, f.Clock.Now(), NewFilter(cfg))
	if err != nil {
		return []model.Departure{}, errors.Wrapf(err, "cannot read departures for `%s`", cfg.StopPointRef)
	}

	return Rank(departures), nil
}
