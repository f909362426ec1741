package entsoe

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gridwatch/entsoe-go/internal/eic"
)

// TimeLayout is the wire format for period bounds: minute-precision UTC
// timestamps without separators, e.g. "202101012300".
const TimeLayout = "200601021504"

// Query describes one logical request against a platform data view. The
// period may span far more than a single request is allowed to cover; the
// client splits it into chunks transparently.
type Query struct {
	Endpoint EndpointKind

	// InDomain is the primary area, always required. OutDomain is required
	// or forbidden depending on the endpoint: prices need it equal to
	// InDomain, flows need it different, single-domain views reject it.
	InDomain  string
	OutDomain string

	// PeriodStart and PeriodEnd bound the query half-open: data at
	// PeriodEnd itself is not included.
	PeriodStart time.Time
	PeriodEnd   time.Time

	// Extra carries endpoint-specific parameters passed through verbatim,
	// e.g. "psrType" to narrow generation data to one production type.
	Extra map[string]string
}

// ParsePeriod parses a wire-format period bound as UTC.
func ParsePeriod(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q: want YYYYMMDDHHMM", s)
	}
	return t, nil
}

// FormatPeriod renders t in the wire format, normalized to UTC.
func FormatPeriod(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// validate checks the query against the endpoint's request contract before
// anything is dispatched.
func (q Query) validate(spec endpointSpec) error {
	if !q.PeriodStart.Before(q.PeriodEnd) {
		return fmt.Errorf("%w: start=%s end=%s",
			ErrInvalidPeriod, FormatPeriod(q.PeriodStart), FormatPeriod(q.PeriodEnd))
	}
	if q.InDomain == "" {
		return fmt.Errorf("%w: %s", ErrMissingDomain, spec.inParam)
	}
	if !eic.Known(q.InDomain) {
		return fmt.Errorf("%w: %q", ErrUnknownArea, q.InDomain)
	}

	switch spec.rule {
	case domainSingle:
		if q.OutDomain != "" {
			return fmt.Errorf("%w: %s takes only %s", ErrDomainRule, q.Endpoint, spec.inParam)
		}
	case domainsEqual:
		if q.OutDomain == "" {
			return fmt.Errorf("%w: %s", ErrMissingDomain, spec.outParam)
		}
		if !eic.Known(q.OutDomain) {
			return fmt.Errorf("%w: %q", ErrUnknownArea, q.OutDomain)
		}
		if q.InDomain != q.OutDomain {
			return fmt.Errorf("%w: %s requires %s and %s to match",
				ErrDomainRule, q.Endpoint, spec.inParam, spec.outParam)
		}
	case domainsDiffer:
		if q.OutDomain == "" {
			return fmt.Errorf("%w: %s", ErrMissingDomain, spec.outParam)
		}
		if !eic.Known(q.OutDomain) {
			return fmt.Errorf("%w: %q", ErrUnknownArea, q.OutDomain)
		}
		if q.InDomain == q.OutDomain {
			return fmt.Errorf("%w: %s requires %s and %s to differ",
				ErrDomainRule, q.Endpoint, spec.inParam, spec.outParam)
		}
	}
	return nil
}

// cacheKey canonicalizes the query. Extra keys are sorted so queries that
// differ only in map iteration order collapse to the same key.
func (q Query) cacheKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|%s",
		q.Endpoint, q.InDomain, q.OutDomain,
		FormatPeriod(q.PeriodStart), FormatPeriod(q.PeriodEnd))
	keys := make([]string, 0, len(q.Extra))
	for k := range q.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%s", k, q.Extra[k])
	}
	return b.String()
}
