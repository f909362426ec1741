package entsoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointRecord(start, resolution string, position interface{}) *Record {
	rec := NewRecord()
	rec.Set("time_series.business_type", "A62")
	rec.Set("time_series.period.time_interval.start", start)
	rec.Set("time_series.period.time_interval.end", "ignored")
	rec.Set("time_series.period.resolution", resolution)
	rec.Set("time_series.period.point.position", position)
	return rec
}

func TestAddTimestamps(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		resolution string
		position   interface{}
		want       string
	}{
		{
			name:  "quarter hour position three",
			start: "2018-09-30T22:00Z", resolution: "PT15M", position: 3,
			want: "2018-09-30T22:30:00Z",
		},
		{
			name:  "first position is the period start",
			start: "2018-09-30T22:00Z", resolution: "PT60M", position: 1,
			want: "2018-09-30T22:00:00Z",
		},
		{
			name:  "half hour steps",
			start: "2021-06-01T00:00Z", resolution: "PT30M", position: 4,
			want: "2021-06-01T01:30:00Z",
		},
		{
			name:  "daily resolution",
			start: "2021-01-01T00:00Z", resolution: "P1D", position: 10,
			want: "2021-01-10T00:00:00Z",
		},
		{
			name:  "weekly resolution",
			start: "2021-01-01T00:00Z", resolution: "P7D", position: 3,
			want: "2021-01-15T00:00:00Z",
		},
		{
			name:  "monthly resolution crosses month lengths",
			start: "2021-01-31T00:00Z", resolution: "P1M", position: 2,
			want: "2021-03-03T00:00:00Z",
		},
		{
			name:  "yearly resolution",
			start: "2020-01-01T00:00Z", resolution: "P1Y", position: 3,
			want: "2022-01-01T00:00:00Z",
		},
		{
			name:  "position as string",
			start: "2018-09-30T22:00Z", resolution: "PT15M", position: "3",
			want: "2018-09-30T22:30:00Z",
		},
		{
			name:  "position as float",
			start: "2018-09-30T22:00Z", resolution: "PT15M", position: 3.0,
			want: "2018-09-30T22:30:00Z",
		},
		{
			name:  "full RFC 3339 start",
			start: "2018-09-30T22:00:00Z", resolution: "PT15M", position: 3,
			want: "2018-09-30T22:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errs := AddTimestamps([]*Record{pointRecord(tt.start, tt.resolution, tt.position)})
			require.Empty(t, errs)
			require.Len(t, out, 1)

			ts, ok := out[0].Get("timestamp")
			require.True(t, ok)
			assert.Equal(t, tt.want, ts)
		})
	}
}

func TestAddTimestampsDoesNotModifyInput(t *testing.T) {
	rec := pointRecord("2018-09-30T22:00Z", "PT15M", 3)
	before := rec.Len()

	out, errs := AddTimestamps([]*Record{rec})
	require.Empty(t, errs)

	assert.Equal(t, before, rec.Len(), "input record is untouched")
	assert.Equal(t, before+1, out[0].Len())
}

func TestAddTimestampsSkipsRecordsWithoutPointFields(t *testing.T) {
	plain := NewRecord()
	plain.Set("type", "A44")
	point := pointRecord("2018-09-30T22:00Z", "PT15M", 2)

	out, errs := AddTimestamps([]*Record{plain, point})
	require.Empty(t, errs, "non-point records are not errors")
	require.Len(t, out, 2)

	_, ok := out[0].Get("timestamp")
	assert.False(t, ok)
	ts, ok := out[1].Get("timestamp")
	require.True(t, ok)
	assert.Equal(t, "2018-09-30T22:15:00Z", ts)
}

func TestAddTimestampsReportsBadRecordsAndKeepsGoing(t *testing.T) {
	bad := pointRecord("2018-09-30T22:00Z", "PT13M", 1)
	good := pointRecord("2018-09-30T22:00Z", "PT15M", 1)
	badStart := pointRecord("not a time", "PT15M", 1)

	out, errs := AddTimestamps([]*Record{bad, good, badStart})
	require.Len(t, out, 3, "every record passes through")
	require.Len(t, errs, 2)

	assert.Equal(t, 0, errs[0].Index)
	assert.ErrorIs(t, errs[0], ErrUnknownResolution)
	assert.Equal(t, 2, errs[1].Index)

	_, ok := out[0].Get("timestamp")
	assert.False(t, ok, "failed records carry no timestamp")
	_, ok = out[1].Get("timestamp")
	assert.True(t, ok)
}

func TestAddTimestampsIsIdempotent(t *testing.T) {
	rec := pointRecord("2018-09-30T22:00Z", "PT15M", 3)

	once, errs := AddTimestamps([]*Record{rec})
	require.Empty(t, errs)
	twice, errs := AddTimestamps(once)
	require.Empty(t, errs)

	a, _ := once[0].Get("timestamp")
	b, _ := twice[0].Get("timestamp")
	assert.Equal(t, a, b)
	assert.Equal(t, once[0].Len(), twice[0].Len(), "timestamp is overwritten, not duplicated")
}

func TestAddTimestampsWithDomainStrippedFields(t *testing.T) {
	// Records flattened under WithDomain("time_series") lose the prefix;
	// suffix matching must still find the point fields.
	rec := NewRecord()
	rec.Set("period.time_interval.start", "2018-09-30T22:00Z")
	rec.Set("period.resolution", "PT15M")
	rec.Set("period.point.position", 3)

	out, errs := AddTimestamps([]*Record{rec})
	require.Empty(t, errs)

	ts, ok := out[0].Get("timestamp")
	require.True(t, ok)
	assert.Equal(t, "2018-09-30T22:30:00Z", ts)
}

func TestAddTimestampsOptions(t *testing.T) {
	rec := NewRecord()
	rec.Set("window.begin", "2018-09-30T22:00Z")
	rec.Set("window.step", "PT60M")
	rec.Set("window.index", 2)

	out, errs := AddTimestamps(
		[]*Record{rec},
		WithStartField("window.begin"),
		WithResolutionField("window.step"),
		WithPositionField("window.index"),
		WithTimestampField("observed_at"),
	)
	require.Empty(t, errs)

	ts, ok := out[0].Get("observed_at")
	require.True(t, ok)
	assert.Equal(t, "2018-09-30T23:00:00Z", ts)
}

func TestAddTimestampsIntervalEnd(t *testing.T) {
	rec := pointRecord("2018-09-30T22:00Z", "PT15M", 1)

	out, errs := AddTimestamps([]*Record{rec}, WithIntervalEnd())
	require.Empty(t, errs)

	ts, ok := out[0].Get("timestamp")
	require.True(t, ok)
	assert.Equal(t, "2018-09-30T22:15:00Z", ts, "end of the first interval")
}
