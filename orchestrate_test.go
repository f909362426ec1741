package entsoe

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch/entsoe-go/internal/config"
	"github.com/gridwatch/entsoe-go/internal/transport"
	"github.com/gridwatch/entsoe-go/schema"
)

// stubTransport serves canned responses while tracking in-flight peaks, so
// tests can assert the pool really bounds concurrency.
type stubTransport struct {
	inFlight int32
	peak     int32
	calls    int32
	handler  func(req *transport.Request) (*transport.Response, error)
}

func (s *stubTransport) Send(_ context.Context, req *transport.Request) (*transport.Response, error) {
	cur := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	atomic.AddInt32(&s.calls, 1)
	for {
		old := atomic.LoadInt32(&s.peak)
		if cur <= old || atomic.CompareAndSwapInt32(&s.peak, old, cur) {
			break
		}
	}
	return s.handler(req)
}

// unitDoc builds a per-unit generation document whose mRID encodes the
// requested periodStart, letting tests trace documents back to chunks.
func unitDoc(periodStart string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<GL_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:generationloaddocument:3:0">
	<mRID>gen-%s</mRID>
	<type>A73</type>
	<process.processType>A16</process.processType>
	<TimeSeries>
		<mRID>1</mRID>
		<businessType>A01</businessType>
		<Period>
			<timeInterval><start>2021-01-01T00:00Z</start><end>2021-01-02T00:00Z</end></timeInterval>
			<resolution>PT60M</resolution>
			<Point><position>1</position><quantity>1020</quantity></Point>
		</Period>
	</TimeSeries>
</GL_MarketDocument>`, periodStart)
}

func newTestClient(workers int, tr transport.Transport) (*Client, *fetcher) {
	c := &Client{cfg: &config.Snapshot{WorkerCount: workers}}
	f := newTestFetcher(tr, 0)
	return c, f
}

func unitQuery(t *testing.T, start, end string) (Query, endpointSpec) {
	t.Helper()
	q := Query{
		Endpoint: GenerationPerUnit, InDomain: areaCZ,
		PeriodStart: mustParsePeriod(t, start),
		PeriodEnd:   mustParsePeriod(t, end),
	}
	return q, endpoints[GenerationPerUnit]
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	stub := &stubTransport{
		handler: func(req *transport.Request) (*transport.Response, error) {
			time.Sleep(20 * time.Millisecond)
			return xmlResponse(http.StatusOK, unitDoc(req.Params.Get("periodStart"))), nil
		},
	}
	c, f := newTestClient(2, stub)

	// Six days at the one-day span limit make six chunks.
	q, spec := unitQuery(t, "202101010000", "202101070000")

	result := c.execute(context.Background(), q, spec, f)
	require.True(t, result.Complete())
	assert.Len(t, result.Documents, 6)
	assert.Equal(t, int32(6), atomic.LoadInt32(&stub.calls))
	assert.LessOrEqual(t, atomic.LoadInt32(&stub.peak), int32(2),
		"no more than WorkerCount fetches in flight")
}

func TestExecuteOrdersDocumentsByChunk(t *testing.T) {
	// The earliest chunk answers slowest, so completion order is reversed.
	delays := map[string]time.Duration{
		"202101010000": 60 * time.Millisecond,
		"202101020000": 30 * time.Millisecond,
		"202101030000": 0,
	}
	stub := &stubTransport{
		handler: func(req *transport.Request) (*transport.Response, error) {
			start := req.Params.Get("periodStart")
			time.Sleep(delays[start])
			return xmlResponse(http.StatusOK, unitDoc(start)), nil
		},
	}
	c, f := newTestClient(3, stub)
	q, spec := unitQuery(t, "202101010000", "202101040000")

	result := c.execute(context.Background(), q, spec, f)
	require.True(t, result.Complete())
	require.Len(t, result.Documents, 3)

	var got []string
	for _, doc := range result.Documents {
		got = append(got, doc.(*schema.GLMarketDocument).MRID)
	}
	assert.Equal(t, []string{"gen-202101010000", "gen-202101020000", "gen-202101030000"}, got,
		"documents follow chunk order, not completion order")
}

func TestExecuteKeepsPartialProgress(t *testing.T) {
	stub := &stubTransport{
		handler: func(req *transport.Request) (*transport.Response, error) {
			if req.Params.Get("periodStart") == "202101020000" {
				return xmlResponse(http.StatusInternalServerError, ""), nil
			}
			return xmlResponse(http.StatusOK, unitDoc(req.Params.Get("periodStart"))), nil
		},
	}
	c, f := newTestClient(2, stub)
	q, spec := unitQuery(t, "202101010000", "202101040000")

	result := c.execute(context.Background(), q, spec, f)
	assert.False(t, result.Complete())
	assert.Len(t, result.Documents, 2, "surviving chunks are kept")

	require.Len(t, result.Failures, 1)
	failure := result.Failures[0]
	assert.Equal(t, 1, failure.Chunk.Index)
	assert.Equal(t, KindTransient, failure.Kind)
	assert.Equal(t, "202101020000", FormatPeriod(failure.Chunk.Start))
}

func TestExecuteCancellationStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stub := &stubTransport{
		handler: func(req *transport.Request) (*transport.Response, error) {
			cancel()
			// Keep the lone worker busy so the dispatcher observes the
			// cancellation before another chunk can be handed over.
			time.Sleep(50 * time.Millisecond)
			return xmlResponse(http.StatusOK, unitDoc(req.Params.Get("periodStart"))), nil
		},
	}
	c, f := newTestClient(1, stub)
	q, spec := unitQuery(t, "202101010000", "202101050000")

	result := c.execute(ctx, q, spec, f)
	assert.False(t, result.Complete())
	assert.Len(t, result.Documents, 1, "the in-flight chunk still lands")
	require.Len(t, result.Failures, 3)

	for i, failure := range result.Failures {
		assert.Equal(t, KindCanceled, failure.Kind)
		assert.Equal(t, i+1, failure.Chunk.Index)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.calls), "no dispatch after cancellation")
}

func TestLogicalResultComplete(t *testing.T) {
	assert.True(t, (&LogicalResult{}).Complete())
	assert.False(t, (&LogicalResult{
		Failures: []ChunkFailure{{Kind: KindTransient}},
	}).Complete())
}
