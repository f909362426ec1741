// Package schema defines the ENTSO-E Transparency Platform market document
// types and the namespace-driven XML decoder that turns raw API payloads
// into them.
//
// The platform answers every request with an XML market document whose root
// element carries one of a small set of urn:iec62325 namespaces. Decode
// inspects the root namespace and unmarshals the payload into the matching
// Go type. The types here are a hand-maintained subset of the platform's
// published schemas, covering the document families the client queries:
// publication (prices, capacities), generation/load, balancing, and the
// acknowledgement document the API uses to signal errors and empty results.
package schema

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
)

// Document is implemented by every market document type in this package.
type Document interface {
	// Kind returns the document's root element name,
	// e.g. "Publication_MarketDocument".
	Kind() string
}

// ErrUnknownNamespace is returned by Decode when the root element's
// namespace matches none of the registered document families.
var ErrUnknownNamespace = errors.New("no document type registered for namespace")

// documentFactories maps a root element namespace to a constructor for the
// matching document type. Several namespace revisions share one Go type
// because the platform still serves multiple schema versions of the same
// family.
var documentFactories = map[string]func() Document{
	"urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:0":     func() Document { return &PublicationMarketDocument{} },
	"urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:3":     func() Document { return &PublicationMarketDocument{} },
	"urn:iec62325.351:tc57wg16:451-6:generationloaddocument:3:0":  func() Document { return &GLMarketDocument{} },
	"urn:iec62325.351:tc57wg16:451-6:balancingdocument:4:0":       func() Document { return &BalancingMarketDocument{} },
	"urn:iec62325.351:tc57wg16:451-6:balancingdocument:4:1":       func() Document { return &BalancingMarketDocument{} },
	"urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:7:0": func() Document { return &AcknowledgementMarketDocument{} },
	"urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:8:1": func() Document { return &AcknowledgementMarketDocument{} },
}

// Decode unmarshals one XML market document, selecting the Go type by the
// root element's namespace.
func Decode(data []byte) (Document, error) {
	ns, err := rootNamespace(data)
	if err != nil {
		return nil, err
	}

	factory, ok := documentFactories[ns]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}

	doc := factory()
	if err := xml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", doc.Kind(), err)
	}
	return doc, nil
}

// rootNamespace scans the payload for its first start element and returns
// that element's namespace.
func rootNamespace(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("no root element found: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Space == "" {
				return "", errors.New("root element carries no namespace")
			}
			return start.Name.Space, nil
		}
	}
}

// CodedID is an identifier qualified by the coding scheme it belongs to.
// The platform uses the same shape for party, area and resource mRIDs.
type CodedID struct {
	CodingScheme string `xml:"codingScheme,attr" json:"coding_scheme,omitempty"`
	Value        string `xml:",chardata" json:"value"`
}

// TimeInterval bounds a period with start/end instants in the platform's
// minute-precision UTC form, e.g. "2018-09-30T22:00Z".
type TimeInterval struct {
	Start string `xml:"start" json:"start"`
	End   string `xml:"end" json:"end"`
}
