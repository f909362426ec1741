package entsoe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParsePeriod(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := ParsePeriod(s)
	require.NoError(t, err)
	return ts
}

func TestSplitRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		maxSpan time.Duration
		want    int
	}{
		{
			name:    "range within span yields one chunk",
			start:   "202101010000",
			end:     "202101020000",
			maxSpan: 365 * 24 * time.Hour,
			want:    1,
		},
		{
			name:    "exact multiple splits evenly",
			start:   "202101010000",
			end:     "202101040000",
			maxSpan: 24 * time.Hour,
			want:    3,
		},
		{
			name:    "remainder becomes a short final chunk",
			start:   "202101010000",
			end:     "202101031200",
			maxSpan: 24 * time.Hour,
			want:    3,
		},
		{
			name:    "two days across a year boundary at one-day span",
			start:   "202012312300",
			end:     "202101022300",
			maxSpan: 24 * time.Hour,
			want:    2,
		},
		{
			name:    "span equal to range yields one chunk",
			start:   "202101010000",
			end:     "202101020000",
			maxSpan: 24 * time.Hour,
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := mustParsePeriod(t, tt.start)
			end := mustParsePeriod(t, tt.end)

			chunks := splitRange(start, end, tt.maxSpan)
			require.Len(t, chunks, tt.want)

			// The chunks must tile the range exactly.
			assert.True(t, chunks[0].Start.Equal(start))
			assert.True(t, chunks[len(chunks)-1].End.Equal(end))
			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
				assert.True(t, c.Start.Before(c.End))
				if i > 0 {
					assert.True(t, c.Start.Equal(chunks[i-1].End), "chunks must be contiguous")
				}
				if i < len(chunks)-1 {
					assert.Equal(t, tt.maxSpan, c.End.Sub(c.Start), "only the last chunk may be short")
				}
			}
		})
	}
}

func TestSplitRangeBoundaries(t *testing.T) {
	start := mustParsePeriod(t, "202012312300")
	end := mustParsePeriod(t, "202101022300")

	chunks := splitRange(start, end, 24*time.Hour)
	require.Len(t, chunks, 2)

	assert.Equal(t, "202012312300", FormatPeriod(chunks[0].Start))
	assert.Equal(t, "202101012300", FormatPeriod(chunks[0].End))
	assert.Equal(t, "202101012300", FormatPeriod(chunks[1].Start))
	assert.Equal(t, "202101022300", FormatPeriod(chunks[1].End))
}
