package schema

import "encoding/xml"

// BalancingMarketDocument carries balancing market series such as imbalance
// prices (A85) and imbalance volumes (A86).
type BalancingMarketDocument struct {
	XMLName                             xml.Name              `xml:"Balancing_MarketDocument" json:"-"`
	MRID                                string                `xml:"mRID" json:"m_rid"`
	RevisionNumber                      string                `xml:"revisionNumber" json:"revision_number,omitempty"`
	Type                                string                `xml:"type" json:"type"`
	ProcessProcessType                  string                `xml:"process.processType" json:"process_process_type,omitempty"`
	SenderMarketParticipantMRID         *CodedID              `xml:"sender_MarketParticipant.mRID" json:"sender_market_participant_m_rid,omitempty"`
	SenderMarketParticipantMarketRole   string                `xml:"sender_MarketParticipant.marketRole.type" json:"sender_market_participant_market_role_type,omitempty"`
	ReceiverMarketParticipantMRID       *CodedID              `xml:"receiver_MarketParticipant.mRID" json:"receiver_market_participant_m_rid,omitempty"`
	ReceiverMarketParticipantMarketRole string                `xml:"receiver_MarketParticipant.marketRole.type" json:"receiver_market_participant_market_role_type,omitempty"`
	CreatedDateTime                     string                `xml:"createdDateTime" json:"created_date_time,omitempty"`
	AreaDomainMRID                      *CodedID              `xml:"area_Domain.mRID" json:"area_domain_m_rid,omitempty"`
	PeriodTimeInterval                  *TimeInterval         `xml:"period.timeInterval" json:"period_time_interval,omitempty"`
	TimeSeries                          []BalancingTimeSeries `xml:"TimeSeries" json:"time_series"`
}

func (d *BalancingMarketDocument) Kind() string { return "Balancing_MarketDocument" }

// BalancingTimeSeries is one balancing series.
type BalancingTimeSeries struct {
	MRID                   string            `xml:"mRID" json:"m_rid"`
	BusinessType           string            `xml:"businessType" json:"business_type,omitempty"`
	FlowDirectionDirection string            `xml:"flowDirection.direction" json:"flow_direction_direction,omitempty"`
	CurrencyUnitName       string            `xml:"currency_Unit.name" json:"currency_unit_name,omitempty"`
	PriceMeasureUnitName   string            `xml:"price_Measure_Unit.name" json:"price_measure_unit_name,omitempty"`
	QuantityMeasureUnit    string            `xml:"quantity_Measure_Unit.name" json:"quantity_measure_unit_name,omitempty"`
	CurveType              string            `xml:"curveType" json:"curve_type,omitempty"`
	Period                 []BalancingPeriod `xml:"Period" json:"period"`
}

// BalancingPeriod is one resolution-homogeneous stretch of points.
type BalancingPeriod struct {
	TimeInterval TimeInterval     `xml:"timeInterval" json:"time_interval"`
	Resolution   string           `xml:"resolution" json:"resolution"`
	Point        []BalancingPoint `xml:"Point" json:"point"`
}

// BalancingPoint is a single observation. Position is 1-based within the
// enclosing period.
type BalancingPoint struct {
	Position               int      `xml:"position" json:"position"`
	ImbalancePriceAmount   *float64 `xml:"imbalance_Price.amount" json:"imbalance_price_amount,omitempty"`
	ImbalancePriceCategory string   `xml:"imbalance_Price.category" json:"imbalance_price_category,omitempty"`
	Quantity               *float64 `xml:"quantity" json:"quantity,omitempty"`
}
