package schema

import "encoding/xml"

// GLMarketDocument carries generation and load series: actual total load
// (A65), actual generation per production type (A75) and per generation
// unit (A73), plus the related forecast document types.
type GLMarketDocument struct {
	XMLName                             xml.Name       `xml:"GL_MarketDocument" json:"-"`
	MRID                                string         `xml:"mRID" json:"m_rid"`
	RevisionNumber                      string         `xml:"revisionNumber" json:"revision_number,omitempty"`
	Type                                string         `xml:"type" json:"type"`
	ProcessProcessType                  string         `xml:"process.processType" json:"process_process_type,omitempty"`
	SenderMarketParticipantMRID         *CodedID       `xml:"sender_MarketParticipant.mRID" json:"sender_market_participant_m_rid,omitempty"`
	SenderMarketParticipantMarketRole   string         `xml:"sender_MarketParticipant.marketRole.type" json:"sender_market_participant_market_role_type,omitempty"`
	ReceiverMarketParticipantMRID       *CodedID       `xml:"receiver_MarketParticipant.mRID" json:"receiver_market_participant_m_rid,omitempty"`
	ReceiverMarketParticipantMarketRole string         `xml:"receiver_MarketParticipant.marketRole.type" json:"receiver_market_participant_market_role_type,omitempty"`
	CreatedDateTime                     string         `xml:"createdDateTime" json:"created_date_time,omitempty"`
	TimePeriodTimeInterval              *TimeInterval  `xml:"time_Period.timeInterval" json:"time_period_time_interval,omitempty"`
	TimeSeries                          []GLTimeSeries `xml:"TimeSeries" json:"time_series"`
}

func (d *GLMarketDocument) Kind() string { return "GL_MarketDocument" }

// GLTimeSeries is one generation or load series. Generation series carry
// inBiddingZone_Domain, consumption series outBiddingZone_Domain; per-type
// and per-unit series additionally identify the resource via MktPSRType.
type GLTimeSeries struct {
	MRID                     string      `xml:"mRID" json:"m_rid"`
	BusinessType             string      `xml:"businessType" json:"business_type,omitempty"`
	ObjectAggregation        string      `xml:"objectAggregation" json:"object_aggregation,omitempty"`
	InBiddingZoneDomainMRID  *CodedID    `xml:"inBiddingZone_Domain.mRID" json:"in_bidding_zone_domain_m_rid,omitempty"`
	OutBiddingZoneDomainMRID *CodedID    `xml:"outBiddingZone_Domain.mRID" json:"out_bidding_zone_domain_m_rid,omitempty"`
	QuantityMeasureUnitName  string      `xml:"quantity_Measure_Unit.name" json:"quantity_measure_unit_name,omitempty"`
	CurveType                string      `xml:"curveType" json:"curve_type,omitempty"`
	MktPSRType               *MktPSRType `xml:"MktPSRType" json:"mkt_psr_type,omitempty"`
	Period                   []GLPeriod  `xml:"Period" json:"period"`
}

// MktPSRType classifies the power system resource a series belongs to and,
// for per-unit document types, names the individual unit.
type MktPSRType struct {
	PsrType              string                `xml:"psrType" json:"psr_type"`
	PowerSystemResources *PowerSystemResources `xml:"PowerSystemResources" json:"power_system_resources,omitempty"`
}

// PowerSystemResources identifies a single generation unit.
type PowerSystemResources struct {
	MRID *CodedID `xml:"mRID" json:"m_rid,omitempty"`
	Name string   `xml:"name" json:"name,omitempty"`
}

// GLPeriod is one resolution-homogeneous stretch of points.
type GLPeriod struct {
	TimeInterval TimeInterval `xml:"timeInterval" json:"time_interval"`
	Resolution   string       `xml:"resolution" json:"resolution"`
	Point        []GLPoint    `xml:"Point" json:"point"`
}

// GLPoint is a single observation. Position is 1-based within the
// enclosing period.
type GLPoint struct {
	Position int      `xml:"position" json:"position"`
	Quantity *float64 `xml:"quantity" json:"quantity,omitempty"`
}
