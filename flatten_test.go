package entsoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch/entsoe-go/schema"
)

func fp(v float64) *float64 { return &v }

func priceDocument() *schema.PublicationMarketDocument {
	return &schema.PublicationMarketDocument{
		MRID:            "doc-1",
		Type:            "A44",
		CreatedDateTime: "2021-01-01T12:00:00Z",
		TimeSeries: []schema.PublicationTimeSeries{
			{
				MRID:                 "1",
				BusinessType:         "A62",
				CurrencyUnitName:     "EUR",
				PriceMeasureUnitName: "MWH",
				CurveType:            "A01",
				Period: []schema.PublicationPeriod{
					{
						TimeInterval: schema.TimeInterval{
							Start: "2020-12-31T23:00Z",
							End:   "2021-01-01T23:00Z",
						},
						Resolution: "PT60M",
						Point: []schema.PublicationPoint{
							{Position: 1, PriceAmount: fp(50.10)},
							{Position: 2, PriceAmount: fp(48.33)},
							{Position: 3, PriceAmount: fp(47.05)},
						},
					},
				},
			},
		},
	}
}

func TestExtractRecordsBranchesPerPoint(t *testing.T) {
	records, err := ExtractRecords([]schema.Document{priceDocument()})
	require.NoError(t, err)
	require.Len(t, records, 3, "one record per point")

	for i, rec := range records {
		// Ancestor fields repeat on every branched record.
		typ, ok := rec.Get("type")
		require.True(t, ok)
		assert.Equal(t, "A44", typ)

		currency, ok := rec.Get("time_series.currency_unit_name")
		require.True(t, ok)
		assert.Equal(t, "EUR", currency)

		resolution, ok := rec.Get("time_series.period.resolution")
		require.True(t, ok)
		assert.Equal(t, "PT60M", resolution)

		start, ok := rec.Get("time_series.period.time_interval.start")
		require.True(t, ok)
		assert.Equal(t, "2020-12-31T23:00Z", start)

		position, ok := rec.Get("time_series.period.point.position")
		require.True(t, ok)
		assert.Equal(t, i+1, position)

		_, ok = rec.Get("time_series.period.point.price_amount")
		assert.True(t, ok)
	}

	price, _ := records[0].Get("time_series.period.point.price_amount")
	assert.Equal(t, 50.10, price)
}

func TestExtractRecordsIgnoresIdentifiersByDefault(t *testing.T) {
	records, err := ExtractRecords([]schema.Document{priceDocument()})
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for _, rec := range records {
		_, ok := rec.Get("m_rid")
		assert.False(t, ok, "document mRID is ignored by default")
		_, ok = rec.Get("time_series.m_rid")
		assert.False(t, ok, "series mRID is ignored by default")
	}
}

func TestExtractRecordsFieldOrderFollowsDeclaration(t *testing.T) {
	records, err := ExtractRecords([]schema.Document{priceDocument()})
	require.NoError(t, err)
	require.NotEmpty(t, records)

	keys := records[0].Keys()
	indexOf := func(key string) int {
		for i, k := range keys {
			if k == key {
				return i
			}
		}
		t.Fatalf("key %q not in record, have %v", key, keys)
		return -1
	}

	assert.Less(t, indexOf("type"), indexOf("time_series.business_type"))
	assert.Less(t, indexOf("time_series.business_type"), indexOf("time_series.period.resolution"))
	assert.Less(t, indexOf("time_series.period.time_interval.start"), indexOf("time_series.period.point.position"))
}

func TestExtractRecordsCrossProduct(t *testing.T) {
	doc := priceDocument()
	doc.TimeSeries = append(doc.TimeSeries, schema.PublicationTimeSeries{
		MRID:             "2",
		BusinessType:     "A62",
		CurrencyUnitName: "CHF",
		Period: []schema.PublicationPeriod{
			{
				TimeInterval: schema.TimeInterval{Start: "2020-12-31T23:00Z", End: "2021-01-01T23:00Z"},
				Resolution:   "PT60M",
				Point: []schema.PublicationPoint{
					{Position: 1, PriceAmount: fp(12.0)},
				},
			},
		},
	})

	records, err := ExtractRecords([]schema.Document{doc})
	require.NoError(t, err)
	require.Len(t, records, 4, "three points in the first series, one in the second")

	var eur, chf int
	for _, rec := range records {
		currency, ok := rec.Get("time_series.currency_unit_name")
		require.True(t, ok)
		switch currency {
		case "EUR":
			eur++
		case "CHF":
			chf++
		}
	}
	assert.Equal(t, 3, eur)
	assert.Equal(t, 1, chf)
}

func TestExtractRecordsWithDomain(t *testing.T) {
	records, err := ExtractRecords([]schema.Document{priceDocument()}, WithDomain("time_series"))
	require.NoError(t, err)
	require.Len(t, records, 3)

	for _, rec := range records {
		_, ok := rec.Get("type")
		assert.False(t, ok, "document-level fields are outside the domain")

		currency, ok := rec.Get("currency_unit_name")
		require.True(t, ok, "domain prefix is stripped")
		assert.Equal(t, "EUR", currency)

		_, ok = rec.Get("period.point.position")
		assert.True(t, ok)
	}
}

func TestExtractRecordsDomainNotFound(t *testing.T) {
	_, err := ExtractRecords([]schema.Document{priceDocument()}, WithDomain("load_series"))
	assert.ErrorIs(t, err, ErrDomainNotFound)
}

func TestExtractRecordsDeduplication(t *testing.T) {
	docs := []schema.Document{priceDocument(), priceDocument()}

	records, err := ExtractRecords(docs)
	require.NoError(t, err)
	assert.Len(t, records, 3, "identical records collapse")

	kept, err := ExtractRecords(docs, WithoutDeduplication())
	require.NoError(t, err)
	assert.Len(t, kept, 6)
}

func TestExtractRecordsWithIgnoredFields(t *testing.T) {
	records, err := ExtractRecords(
		[]schema.Document{priceDocument()},
		WithIgnoredFields("time_series.period.point.price_amount"),
	)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for _, rec := range records {
		_, ok := rec.Get("time_series.period.point.price_amount")
		assert.False(t, ok)
		// Replacing the ignore list re-admits the defaults.
		_, ok = rec.Get("m_rid")
		assert.True(t, ok)
	}
}

type nullableDoc struct {
	Name     string  `json:"name"`
	Optional *string `json:"optional,omitempty"`
	Nullable *string `json:"nullable"`
}

func (d *nullableDoc) Kind() string { return "test" }

func TestExtractRecordsNullVersusOmitted(t *testing.T) {
	records, err := ExtractRecords([]schema.Document{&nullableDoc{Name: "x"}})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	_, ok := rec.Get("optional")
	assert.False(t, ok, "unset omitempty field stays omitted")

	v, ok := rec.Get("nullable")
	require.True(t, ok, "unset required field is an explicit null")
	assert.Nil(t, v)
}

func TestRecordMarshalJSONKeepsOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set("b", 2)
	rec.Set("a", "one")
	rec.Set("c", nil)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":"one","c":null}`, string(data))
}

func TestRecordSetKeepsFirstPosition(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", 1)
	rec.Set("b", 2)
	rec.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	v, _ := rec.Get("a")
	assert.Equal(t, 3, v)
}
