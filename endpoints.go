package entsoe

import "time"

// EndpointKind selects which platform data view a query targets.
type EndpointKind string

// The supported data views. The API itself addresses views through
// documentType/processType code pairs; these constants bundle the codes
// with each view's request constraints so callers never touch raw codes.
const (
	DayAheadPrices    EndpointKind = "day_ahead_prices"
	ActualTotalLoad   EndpointKind = "actual_total_load"
	GenerationPerType EndpointKind = "generation_per_type"
	GenerationPerUnit EndpointKind = "generation_per_unit"
	PhysicalFlows     EndpointKind = "physical_flows"
	ImbalancePrices   EndpointKind = "imbalance_prices"
)

// domainRule states how an endpoint's two domain parameters relate.
type domainRule int

const (
	// domainSingle endpoints take one domain; OutDomain must stay empty.
	domainSingle domainRule = iota
	// domainsEqual endpoints take both domains naming the same area.
	domainsEqual
	// domainsDiffer endpoints take both domains naming different areas.
	domainsDiffer
)

// endpointSpec is one data view's request contract: its fixed document
// codes, which query parameters carry the domains, the domain rule, the
// longest period a single request may span, and the page size for offset
// pagination (0 means the view is not paginated).
type endpointSpec struct {
	code            string // platform article reference
	documentType    string
	processType     string
	inParam         string
	outParam        string
	rule            domainRule
	maxSpan         time.Duration
	offsetIncrement int
}

var endpoints = map[EndpointKind]endpointSpec{
	DayAheadPrices: {
		code:            "12.1.D",
		documentType:    "A44",
		inParam:         "in_Domain",
		outParam:        "out_Domain",
		rule:            domainsEqual,
		maxSpan:         365 * 24 * time.Hour,
		offsetIncrement: 100,
	},
	ActualTotalLoad: {
		code:         "6.1.A",
		documentType: "A65",
		processType:  "A16",
		inParam:      "outBiddingZone_Domain",
		rule:         domainSingle,
		maxSpan:      365 * 24 * time.Hour,
	},
	GenerationPerType: {
		code:         "16.1.B&C",
		documentType: "A75",
		processType:  "A16",
		inParam:      "in_Domain",
		rule:         domainSingle,
		maxSpan:      365 * 24 * time.Hour,
	},
	GenerationPerUnit: {
		code:         "16.1.A",
		documentType: "A73",
		processType:  "A16",
		inParam:      "in_Domain",
		rule:         domainSingle,
		// The platform caps this view at one day per request.
		maxSpan: 24 * time.Hour,
	},
	PhysicalFlows: {
		code:         "12.1.G",
		documentType: "A11",
		inParam:      "in_Domain",
		outParam:     "out_Domain",
		rule:         domainsDiffer,
		maxSpan:      365 * 24 * time.Hour,
	},
	ImbalancePrices: {
		code:         "17.1.G",
		documentType: "A85",
		inParam:      "controlArea_Domain",
		rule:         domainSingle,
		maxSpan:      365 * 24 * time.Hour,
	},
}
