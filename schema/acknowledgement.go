package schema

import "encoding/xml"

// AcknowledgementMarketDocument is the platform's way of answering a request
// it will not fulfil: rejected parameters, server-side trouble, or simply
// no data matching the query. The Reason text distinguishes those cases.
type AcknowledgementMarketDocument struct {
	XMLName                               xml.Name `xml:"Acknowledgement_MarketDocument" json:"-"`
	MRID                                  string   `xml:"mRID" json:"m_rid"`
	CreatedDateTime                       string   `xml:"createdDateTime" json:"created_date_time,omitempty"`
	SenderMarketParticipantMRID           *CodedID `xml:"sender_MarketParticipant.mRID" json:"sender_market_participant_m_rid,omitempty"`
	ReceiverMarketParticipantMRID         *CodedID `xml:"receiver_MarketParticipant.mRID" json:"receiver_market_participant_m_rid,omitempty"`
	ReceivedMarketDocumentCreatedDateTime string   `xml:"received_MarketDocument.createdDateTime" json:"received_market_document_created_date_time,omitempty"`
	Reason                                []Reason `xml:"Reason" json:"reason"`
}

func (d *AcknowledgementMarketDocument) Kind() string { return "Acknowledgement_MarketDocument" }

// ReasonText returns the text of the first reason, or "" if the document
// carries none.
func (d *AcknowledgementMarketDocument) ReasonText() string {
	if len(d.Reason) == 0 {
		return ""
	}
	return d.Reason[0].Text
}

// ReasonCode returns the code of the first reason, or "" if the document
// carries none.
func (d *AcknowledgementMarketDocument) ReasonCode() string {
	if len(d.Reason) == 0 {
		return ""
	}
	return d.Reason[0].Code
}

// Reason explains an acknowledgement. Code is a platform reason code
// (999 for free-text errors), Text the human-readable message.
type Reason struct {
	Code string `xml:"code" json:"code"`
	Text string `xml:"text" json:"text"`
}
