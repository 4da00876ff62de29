package model

import (
	"encoding/xml"
)

const (
	TriasNamespace = "http://www.vdv.de/trias"
	SiriNamespace  = "http://www.siri.org.uk/siri"
)

// Trias a representation of a TRIAS StopEventRequest response document
type Trias struct {
	XMLName         xml.Name             `xml:"http://www.vdv.de/trias Trias"`
	ServiceDelivery TriasServiceDelivery `xml:"ServiceDelivery"`
}

// TriasServiceDelivery a representation of a TRIAS ServiceDelivery item
type TriasServiceDelivery struct {
	ResponseTimestamp string                 `xml:"http://www.siri.org.uk/siri ResponseTimestamp"`
	ProducerRef       string                 `xml:"http://www.siri.org.uk/siri ProducerRef"`
	Status            bool                   `xml:"http://www.siri.org.uk/siri Status"`
	StopEventResponse TriasStopEventResponse `xml:"DeliveryPayload>StopEventResponse"`
}

// TriasStopEventResponse a representation of a TRIAS StopEventResponse item
type TriasStopEventResponse struct {
	ErrorMessage    []TriasErrorMessage    `xml:"ErrorMessage"`
	StopEventResult []TriasStopEventResult `xml:"StopEventResult"`
}

// TriasErrorMessage a representation of a TRIAS ErrorMessage item
type TriasErrorMessage struct {
	Code string             `xml:"Code"`
	Text *InternationalText `xml:"Text"`
}

// TriasStopEventResult a representation of a TRIAS StopEventResult item
type TriasStopEventResult struct {
	ResultID  string         `xml:"ResultId"`
	StopEvent TriasStopEvent `xml:"StopEvent"`
}

// TriasStopEvent a representation of a TRIAS StopEvent item
type TriasStopEvent struct {
	ThisCall TriasThisCall `xml:"ThisCall"`
	Service  TriasService  `xml:"Service"`
}

// TriasThisCall a representation of a TRIAS ThisCall item
type TriasThisCall struct {
	CallAtStop TriasCallAtStop `xml:"CallAtStop"`
}

// TriasCallAtStop a representation of a TRIAS CallAtStop item
type TriasCallAtStop struct {
	StopPointRef     string                 `xml:"StopPointRef"`
	StopPointName    *InternationalText     `xml:"StopPointName"`
	ServiceDeparture *TriasServiceDeparture `xml:"ServiceDeparture"`
}

// TriasServiceDeparture a representation of a TRIAS ServiceDeparture item
type TriasServiceDeparture struct {
	TimetabledTime *string `xml:"TimetabledTime"`
	EstimatedTime  *string `xml:"EstimatedTime"`
}

// TriasService a representation of a TRIAS Service item
type TriasService struct {
	LineRef           string             `xml:"LineRef"`
	PublishedLineName *InternationalText `xml:"PublishedLineName"`
	DestinationText   *InternationalText `xml:"DestinationText"`
}

// InternationalText a representation of a TRIAS text structure with a Text child
type InternationalText struct {
	Text     *string `xml:"Text"`
	Language string  `xml:"Language"`
}

// Value returns the Text child and whether it was present at all.
func (t *InternationalText) Value() (string, bool) {
	if t == nil || t.Text == nil {
		return "", false
	}
	return *t.Text, true
}

// EstimatedTime returns the real-time departure estimate of the call, if any.
func (c TriasCallAtStop) EstimatedTime() (string, bool) {
	if c.ServiceDeparture == nil || c.ServiceDeparture.EstimatedTime == nil {
		return "", false
	}
	return *c.ServiceDeparture.EstimatedTime, true
}
