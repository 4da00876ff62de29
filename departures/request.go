package departures

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"time"

	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/model"
)

const requestorRef = "API-Explorer"

// BuildStopEventRequest composes the TRIAS StopEventRequest for the stop in
// cfg. The request timestamp is UTC while DepArrTime is local time at the
// stop; TRIAS silently returns the wrong departures if these are swapped.
func BuildStopEventRequest(cfg config.Snapshot, now time.Time, loc *time.Location) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Trias version="1.1" xmlns="http://www.vdv.de/trias" xmlns:siri="http://www.siri.org.uk/siri" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
    <ServiceRequest>
        <siri:RequestTimestamp>` + model.CurrentUTCTimestamp(now) + `</siri:RequestTimestamp>
        <siri:RequestorRef>` + requestorRef + `</siri:RequestorRef>
        <RequestPayload>
            <StopEventRequest>
                <Location>
                    <LocationRef>
                        <StopPointRef>` + escape(cfg.StopPointRef) + `</StopPointRef>
                    </LocationRef>
                    <DepArrTime>` + model.CurrentLocalDepartureTimestamp(now, loc) + `</DepArrTime>
                </Location>
                <Params>
                    <NumberOfResults>` + strconv.Itoa(cfg.NumberOfResults) + `</NumberOfResults>
                    <StopEventType>departure</StopEventType>
                    <IncludePreviousCalls>false</IncludePreviousCalls>
                    <IncludeOnwardCalls>false</IncludeOnwardCalls>
                    <IncludeRealtimeData>true</IncludeRealtimeData>
                </Params>
            </StopEventRequest>
        </RequestPayload>
    </ServiceRequest>
</Trias>`
}

func escape(s string) string {
	var b bytes.Buffer
	// EscapeText only fails if the writer does; bytes.Buffer never does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
