package entsoe

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridwatch/entsoe-go/internal/metrics"
	"github.com/gridwatch/entsoe-go/internal/transport"
	"github.com/gridwatch/entsoe-go/schema"
)

// maxOffset is the platform's pagination ceiling. Offsets run 0..4800, so
// one chunk of a paginated view yields at most 4900 documents.
const maxOffset = 4800

// Acknowledgement reason texts the platform uses for the two cases that are
// not plain rejections.
const (
	reasonNoData          = "No matching data found"
	reasonUnexpectedError = "Unexpected error occurred"
)

// fetcher executes chunks against the transport, absorbing the platform's
// quirks: transient failures retried with backoff, zip payloads carrying
// several documents, acknowledgement documents standing in for both errors
// and empty results, and offset pagination on the views that use it.
type fetcher struct {
	transport  transport.Transport
	baseURL    string
	apiKey     string
	maxRetries int
	backoff    Backoff
	logger     *logrus.Entry
	metrics    *metrics.Metrics
}

// fetch retrieves every document for one chunk. Documents are returned in
// arrival order; a chunk matching no data at all is a success with zero
// documents. On failure the chunk is lost as a whole, partial pages are
// never reported as progress.
func (f *fetcher) fetch(ctx context.Context, q Query, spec endpointSpec, chunk Chunk) ([]schema.Document, *ChunkFailure) {
	if f.metrics != nil {
		f.metrics.InFlight.Inc()
		defer f.metrics.InFlight.Dec()
	}

	params := f.buildParams(q, spec, chunk)

	if spec.offsetIncrement == 0 {
		return f.fetchPage(ctx, q, chunk, params)
	}

	// Paginated view: walk offsets until a page comes back empty.
	var docs []schema.Document
	for offset := 0; offset <= maxOffset; offset += spec.offsetIncrement {
		params.Set("offset", strconv.Itoa(offset))
		page, failure := f.fetchPage(ctx, q, chunk, params)
		if failure != nil {
			return nil, failure
		}
		if len(page) == 0 {
			break
		}
		docs = append(docs, page...)
	}
	return docs, nil
}

// buildParams assembles the wire query for one chunk of q.
func (f *fetcher) buildParams(q Query, spec endpointSpec, chunk Chunk) url.Values {
	params := url.Values{}
	params.Set("securityToken", f.apiKey)
	params.Set("documentType", spec.documentType)
	if spec.processType != "" {
		params.Set("processType", spec.processType)
	}
	params.Set(spec.inParam, q.InDomain)
	if spec.outParam != "" {
		params.Set(spec.outParam, q.OutDomain)
	}
	params.Set("periodStart", FormatPeriod(chunk.Start))
	params.Set("periodEnd", FormatPeriod(chunk.End))
	for k, v := range q.Extra {
		params.Set(k, v)
	}
	return params
}

// fetchPage performs one request with retries. A page makes at most
// maxRetries+1 attempts; only transient failures are retried.
func (f *fetcher) fetchPage(ctx context.Context, q Query, chunk Chunk, params url.Values) ([]schema.Document, *ChunkFailure) {
	endpoint := string(q.Endpoint)
	log := f.logger.WithFields(logrus.Fields{
		"endpoint":    endpoint,
		"chunk":       chunk.Index,
		"range_start": FormatPeriod(chunk.Start),
		"range_end":   FormatPeriod(chunk.End),
	})

	var lastErr error
	for attempt := 1; attempt <= f.maxRetries+1; attempt++ {
		docs, kind, err := f.attempt(ctx, endpoint, params)
		if err == nil {
			if f.metrics != nil {
				f.metrics.Requests.WithLabelValues(endpoint, "success").Inc()
			}
			log.WithFields(logrus.Fields{
				"attempt":   attempt,
				"documents": len(docs),
			}).Debug("Chunk fetched")
			return docs, nil
		}

		if ctx.Err() != nil {
			return nil, &ChunkFailure{Chunk: chunk, Kind: KindCanceled, Err: ctx.Err()}
		}
		if f.metrics != nil {
			f.metrics.Requests.WithLabelValues(endpoint, kind.String()).Inc()
		}

		if kind != KindTransient {
			log.WithFields(logrus.Fields{
				"attempt": attempt,
				"outcome": kind.String(),
			}).WithError(err).Error("Chunk failed")
			return nil, &ChunkFailure{Chunk: chunk, Kind: kind, Err: err}
		}

		lastErr = err
		if attempt > f.maxRetries {
			break
		}
		if f.metrics != nil {
			f.metrics.Retries.WithLabelValues(endpoint).Inc()
		}
		delay := f.backoff(attempt)
		log.WithFields(logrus.Fields{
			"attempt":  attempt,
			"retry_in": delay.String(),
		}).WithError(err).Warn("Transient failure, retrying")

		select {
		case <-ctx.Done():
			return nil, &ChunkFailure{Chunk: chunk, Kind: KindCanceled, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}

	log.WithField("attempts", f.maxRetries+1).WithError(lastErr).Error("Chunk failed after all retries")
	return nil, &ChunkFailure{Chunk: chunk, Kind: KindTransient, Err: lastErr}
}

// attempt performs a single request and decodes whatever comes back. The
// returned kind classifies err and is meaningless when err is nil.
func (f *fetcher) attempt(ctx context.Context, endpoint string, params url.Values) ([]schema.Document, ErrorKind, error) {
	start := time.Now()
	resp, err := f.transport.Send(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    f.baseURL,
		Params: params,
	})
	if f.metrics != nil {
		f.metrics.Latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, KindTransient, fmt.Errorf("transport: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, KindTransient, fmt.Errorf("server answered %d", resp.StatusCode)
	default:
		return nil, KindClient, clientStatusError(resp)
	}

	payloads, err := splitPayload(resp)
	if err != nil {
		return nil, KindDecode, err
	}

	var docs []schema.Document
	for _, payload := range payloads {
		doc, err := schema.Decode(payload)
		if err != nil {
			return nil, KindDecode, err
		}
		ack, ok := doc.(*schema.AcknowledgementMarketDocument)
		if !ok {
			docs = append(docs, doc)
			continue
		}

		reason := ack.ReasonText()
		switch {
		case strings.Contains(reason, reasonNoData):
			// A well-formed query that matched nothing. Success.
		case strings.Contains(reason, reasonUnexpectedError):
			return nil, KindTransient, &AcknowledgementError{Code: ack.ReasonCode(), Text: reason}
		default:
			return nil, KindClient, &AcknowledgementError{Code: ack.ReasonCode(), Text: reason}
		}
	}
	return docs, KindTransient, nil
}

// clientStatusError surfaces a 4xx with whatever detail the body carries.
// The platform wraps parameter errors in an acknowledgement document served
// with a 400, so try that before falling back to the bare status.
func clientStatusError(resp *transport.Response) error {
	if doc, err := schema.Decode(resp.Body); err == nil {
		if ack, ok := doc.(*schema.AcknowledgementMarketDocument); ok && ack.ReasonText() != "" {
			return &AcknowledgementError{Code: ack.ReasonCode(), Text: ack.ReasonText()}
		}
	}
	return fmt.Errorf("server answered %d", resp.StatusCode)
}

// splitPayload returns the XML documents carried by one response. Views
// that export archives pack one XML file per document.
func splitPayload(resp *transport.Response) ([][]byte, error) {
	if !strings.Contains(resp.ContentType, "application/zip") {
		return [][]byte{resp.Body}, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(resp.Body), int64(len(resp.Body)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip payload: %w", err)
	}
	payloads := make([][]byte, 0, len(zr.File))
	for _, file := range zr.File {
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in zip payload: %w", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from zip payload: %w", file.Name, err)
		}
		payloads = append(payloads, data)
	}
	return payloads, nil
}
