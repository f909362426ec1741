package entsoe

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a chunk failed. The kind decides retry behavior:
// only transient failures are retried, everything else is terminal for the
// chunk that hit it.
type ErrorKind int

const (
	// KindTransient covers network failures, timeouts, 5xx answers and
	// rate-limit rejections. Retried with backoff.
	KindTransient ErrorKind = iota
	// KindClient covers 4xx answers other than 429 and acknowledgement
	// rejections: the request itself is wrong, retrying cannot help.
	KindClient
	// KindDecode marks payloads that failed to decode into a market
	// document. Not retried; the bytes would be the same again.
	KindDecode
	// KindCanceled marks chunks abandoned because the caller canceled
	// the orchestration.
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindClient:
		return "client_error"
	case KindDecode:
		return "decode_error"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

var (
	// ErrMissingAPIKey is returned before dispatch when no key is configured.
	ErrMissingAPIKey = errors.New("api key is required but not set")

	// ErrInvalidAPIKey is returned before dispatch when the configured key
	// is not a UUID, the only shape the platform issues.
	ErrInvalidAPIKey = errors.New("api key must be a valid UUID")

	// ErrUnknownEndpoint is returned for an EndpointKind the client has no
	// request contract for.
	ErrUnknownEndpoint = errors.New("unknown endpoint kind")

	// ErrInvalidPeriod is returned when a query's period bounds are not in
	// strictly ascending order.
	ErrInvalidPeriod = errors.New("period start must precede period end")

	// ErrMissingDomain is returned when a required domain parameter is empty.
	ErrMissingDomain = errors.New("required domain parameter is empty")

	// ErrUnknownArea is returned when a domain parameter is not a known EIC
	// area code.
	ErrUnknownArea = errors.New("unknown EIC area code")

	// ErrDomainRule is returned when the in/out domain combination violates
	// the endpoint's constraint, e.g. day-ahead prices require both domains
	// to name the same bidding zone.
	ErrDomainRule = errors.New("domain combination not allowed for endpoint")

	// ErrUnknownResolution is reported per record when a resolution code is
	// not in the fixed resolution table.
	ErrUnknownResolution = errors.New("unknown resolution code")

	// ErrDomainNotFound is returned by record extraction when no document
	// carries the requested domain field.
	ErrDomainNotFound = errors.New("domain not found in documents")
)

// ChunkFailure records the terminal failure of one chunk: which sub-range
// was lost, how the failure is classified, and the underlying error. The
// range bounds give callers everything needed to retry manually.
type ChunkFailure struct {
	Chunk Chunk
	Kind  ErrorKind
	Err   error
}

func (f ChunkFailure) Error() string {
	return fmt.Sprintf("chunk %d [%s, %s): %s: %v",
		f.Chunk.Index, FormatPeriod(f.Chunk.Start), FormatPeriod(f.Chunk.End), f.Kind, f.Err)
}

func (f ChunkFailure) Unwrap() error { return f.Err }

// AcknowledgementError is a rejection the platform wrapped in an
// acknowledgement document instead of an HTTP status.
type AcknowledgementError struct {
	Code string
	Text string
}

func (e *AcknowledgementError) Error() string {
	return fmt.Sprintf("request rejected by platform: %s", e.Text)
}
