package entsoe

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// resolutionStep is one entry of the fixed resolution table. Sub-day codes
// advance by wall-clock duration; calendar codes advance by calendar
// arithmetic so monthly and yearly series stay aligned to date boundaries
// regardless of month length and leap years.
type resolutionStep struct {
	duration time.Duration
	days     int
	months   int
	years    int
}

// advance moves t forward by n resolution steps.
func (s resolutionStep) advance(t time.Time, n int) time.Time {
	if s.duration != 0 {
		return t.Add(time.Duration(n) * s.duration)
	}
	return t.AddDate(s.years*n, s.months*n, s.days*n)
}

// resolutionTable is the closed set of resolution codes the deriver
// understands. Codes outside the table fail the record, not the batch.
var resolutionTable = map[string]resolutionStep{
	"PT15M": {duration: 15 * time.Minute},
	"PT30M": {duration: 30 * time.Minute},
	"PT60M": {duration: time.Hour},
	"P1D":   {days: 1},
	"P7D":   {days: 7},
	"P1M":   {months: 1},
	"P1Y":   {years: 1},
}

// DeriveError reports one record the deriver could not timestamp.
type DeriveError struct {
	Index int
	Err   error
}

func (e *DeriveError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *DeriveError) Unwrap() error { return e.Err }

type timestampOptions struct {
	startField      string
	resolutionField string
	positionField   string
	timestampField  string
	intervalEnd     bool
}

// TimestampOption adjusts field lookup and output of AddTimestamps.
type TimestampOption func(*timestampOptions)

// WithStartField changes where the period start is read from.
func WithStartField(name string) TimestampOption {
	return func(o *timestampOptions) { o.startField = name }
}

// WithResolutionField changes where the resolution code is read from.
func WithResolutionField(name string) TimestampOption {
	return func(o *timestampOptions) { o.resolutionField = name }
}

// WithPositionField changes where the 1-based position is read from.
func WithPositionField(name string) TimestampOption {
	return func(o *timestampOptions) { o.positionField = name }
}

// WithTimestampField changes the field the derived instant is stored under.
func WithTimestampField(name string) TimestampOption {
	return func(o *timestampOptions) { o.timestampField = name }
}

// WithIntervalEnd stamps the end of each observation's interval instead of
// its start.
func WithIntervalEnd() TimestampOption {
	return func(o *timestampOptions) { o.intervalEnd = true }
}

// AddTimestamps computes each record's absolute instant from its period
// start, resolution code and 1-based position, and stores it under the
// timestamp field as an RFC 3339 UTC string. Input records are not
// modified; the returned slice holds enriched copies in the same order.
//
// The instant is start plus (position-1) resolution steps. Records missing
// any of the three source fields pass through untouched; records whose
// fields cannot be interpreted are also passed through and reported in the
// returned errors. Running the deriver twice is harmless, the timestamp is
// simply recomputed.
//
// Fields are looked up by exact name first, then by dotted-path suffix, so
// the defaults work both with and without the "time_series" domain prefix.
func AddTimestamps(records []*Record, opts ...TimestampOption) ([]*Record, []*DeriveError) {
	options := timestampOptions{
		startField:      "period.time_interval.start",
		resolutionField: "period.resolution",
		positionField:   "period.point.position",
		timestampField:  "timestamp",
	}
	for _, opt := range opts {
		opt(&options)
	}

	var errs []*DeriveError
	out := make([]*Record, len(records))
	for i, rec := range records {
		enriched := rec.Clone()
		out[i] = enriched

		startKey, okStart := findFieldKey(rec, options.startField)
		resKey, okRes := findFieldKey(rec, options.resolutionField)
		posKey, okPos := findFieldKey(rec, options.positionField)
		if !okStart || !okRes || !okPos {
			// Not a point-bearing record, e.g. a document-level row.
			continue
		}

		instant, err := deriveInstant(rec, startKey, resKey, posKey, options.intervalEnd)
		if err != nil {
			errs = append(errs, &DeriveError{Index: i, Err: err})
			continue
		}
		enriched.Set(options.timestampField, instant.UTC().Format(time.RFC3339))
	}
	return out, errs
}

func deriveInstant(rec *Record, startKey, resKey, posKey string, intervalEnd bool) (time.Time, error) {
	rawStart, _ := rec.Get(startKey)
	start, err := parseInstant(rawStart)
	if err != nil {
		return time.Time{}, err
	}

	rawRes, _ := rec.Get(resKey)
	code, ok := rawRes.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("resolution field %s holds %T, want string", resKey, rawRes)
	}
	step, ok := resolutionTable[code]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownResolution, code)
	}

	rawPos, _ := rec.Get(posKey)
	pos, err := parsePosition(rawPos)
	if err != nil {
		return time.Time{}, err
	}

	steps := pos - 1
	if intervalEnd {
		steps = pos
	}
	return step.advance(start, steps), nil
}

// instantLayouts are the period start shapes the platform emits: minute
// precision with a zone designator, or full RFC 3339.
var instantLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
}

func parseInstant(v interface{}) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("start field holds %T, want string", v)
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized instant %q", s)
}

func parsePosition(v interface{}) (int, error) {
	switch p := v.(type) {
	case int:
		return p, nil
	case int64:
		return int(p), nil
	case float64:
		return int(p), nil
	case string:
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q", p)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("position field holds %T, want integer", v)
	}
}

// findFieldKey locates a field by exact name, then by dotted-path suffix:
// "period.resolution" also matches "time_series.period.resolution".
func findFieldKey(rec *Record, field string) (string, bool) {
	if _, ok := rec.Get(field); ok {
		return field, true
	}
	for _, key := range rec.Keys() {
		if strings.HasSuffix(key, "."+field) {
			return key, true
		}
	}
	return "", false
}
