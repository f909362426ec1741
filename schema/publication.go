package schema

import "encoding/xml"

// PublicationMarketDocument carries market price, allocation and capacity
// series. Document types A44 (price document), A25/A26 (allocation and
// capacity results), A31 (agreed capacity) and A94 all arrive in this shape.
type PublicationMarketDocument struct {
	XMLName                             xml.Name                `xml:"Publication_MarketDocument" json:"-"`
	MRID                                string                  `xml:"mRID" json:"m_rid"`
	RevisionNumber                      string                  `xml:"revisionNumber" json:"revision_number,omitempty"`
	Type                                string                  `xml:"type" json:"type"`
	SenderMarketParticipantMRID         *CodedID                `xml:"sender_MarketParticipant.mRID" json:"sender_market_participant_m_rid,omitempty"`
	SenderMarketParticipantMarketRole   string                  `xml:"sender_MarketParticipant.marketRole.type" json:"sender_market_participant_market_role_type,omitempty"`
	ReceiverMarketParticipantMRID       *CodedID                `xml:"receiver_MarketParticipant.mRID" json:"receiver_market_participant_m_rid,omitempty"`
	ReceiverMarketParticipantMarketRole string                  `xml:"receiver_MarketParticipant.marketRole.type" json:"receiver_market_participant_market_role_type,omitempty"`
	CreatedDateTime                     string                  `xml:"createdDateTime" json:"created_date_time,omitempty"`
	PeriodTimeInterval                  *TimeInterval           `xml:"period.timeInterval" json:"period_time_interval,omitempty"`
	TimeSeries                          []PublicationTimeSeries `xml:"TimeSeries" json:"time_series"`
}

func (d *PublicationMarketDocument) Kind() string { return "Publication_MarketDocument" }

// PublicationTimeSeries is one priced series within a publication document.
type PublicationTimeSeries struct {
	MRID                        string              `xml:"mRID" json:"m_rid"`
	AuctionType                 string              `xml:"auction.type" json:"auction_type,omitempty"`
	BusinessType                string              `xml:"businessType" json:"business_type,omitempty"`
	InDomainMRID                *CodedID            `xml:"in_Domain.mRID" json:"in_domain_m_rid,omitempty"`
	OutDomainMRID               *CodedID            `xml:"out_Domain.mRID" json:"out_domain_m_rid,omitempty"`
	ContractMarketAgreementType string              `xml:"contract_MarketAgreement.type" json:"contract_market_agreement_type,omitempty"`
	CurrencyUnitName            string              `xml:"currency_Unit.name" json:"currency_unit_name,omitempty"`
	PriceMeasureUnitName        string              `xml:"price_Measure_Unit.name" json:"price_measure_unit_name,omitempty"`
	CurveType                   string              `xml:"curveType" json:"curve_type,omitempty"`
	Period                      []PublicationPeriod `xml:"Period" json:"period"`
}

// PublicationPeriod is one resolution-homogeneous stretch of points.
type PublicationPeriod struct {
	TimeInterval TimeInterval       `xml:"timeInterval" json:"time_interval"`
	Resolution   string             `xml:"resolution" json:"resolution"`
	Point        []PublicationPoint `xml:"Point" json:"point"`
}

// PublicationPoint is a single observation. Position is 1-based within the
// enclosing period.
type PublicationPoint struct {
	Position    int      `xml:"position" json:"position"`
	PriceAmount *float64 `xml:"price.amount" json:"price_amount,omitempty"`
	Quantity    *float64 `xml:"quantity" json:"quantity,omitempty"`
}
