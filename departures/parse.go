package departures

import (
	"encoding/xml"
	"time"

	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/lokanidao9991/SmartBusBoard/model"
	"github.com/pkg/errors"
)

type Parser struct {
	Logger *dlog.Logger
}

// ParseStopEvents turns a TRIAS StopEventResponse into departures that pass
// filter, in response order. Records without a line or destination get a
// placeholder; records without a real-time estimate are dropped because
// they cannot be ranked. A document that cannot be read at all yields no
// departures and an error.
func (p *Parser) ParseStopEvents(body []byte, now time.Time, filter Filter) ([]model.Departure, error) {
	p.Logger.Debug("ParseStopEvents")

	trias := model.Trias{}
	if err := xml.Unmarshal(body, &trias); err != nil {
		return []model.Departure{}, errors.Wrap(err, "cannot unmarshal TRIAS response")
	}

	response := trias.ServiceDelivery.StopEventResponse
	for _, msg := range response.ErrorMessage {
		text, _ := msg.Text.Value()
		p.Logger.Printf("TRIAS reported `%s`: %s", msg.Code, text)
	}

	p.Logger.Debugf("ParseStopEvents - %d records to filter", len(response.StopEventResult))

	departures := []model.Departure{}
	for _, result := range response.StopEventResult {
		dep, ok := p.departure(result, now)
		if !ok {
			continue
		}

		if !filter.Accepts(dep.Destination, dep.Minutes) {
			p.Logger.Debugf("exclude %s to %s in %d min", dep.Line, dep.Destination, dep.Minutes)
			continue
		}

		departures = append(departures, dep)
	}

	p.Logger.Debugf("ParseStopEvents - %d records remain", len(departures))

	return departures, nil
}

func (p *Parser) departure(result model.TriasStopEventResult, now time.Time) (model.Departure, bool) {
	event := result.StopEvent

	estimated, ok := event.ThisCall.CallAtStop.EstimatedTime()
	if !ok {
		p.Logger.Debugf("skip result %s without an estimated time", result.ResultID)
		return model.Departure{}, false
	}

	estimatedTime, err := time.Parse(time.RFC3339, estimated)
	if err != nil {
		p.Logger.Printf("skip result %s: estimated time `%s` is not RFC 3339", result.ResultID, estimated)
		return model.Departure{}, false
	}

	line, ok := event.Service.PublishedLineName.Value()
	if !ok {
		line = model.UnknownLine
	}

	destination, ok := event.Service.DestinationText.Value()
	if !ok {
		destination = model.UnknownDestination
	}

	return model.Departure{
		Line:          line,
		Destination:   destination,
		EstimatedTime: estimatedTime,
		Minutes:       model.MinutesUntil(estimatedTime, now),
	}, true
}
