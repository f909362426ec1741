package entsoe

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gridwatch/entsoe-go/schema"
)

// LogicalResult merges every chunk outcome of one query. Documents appear
// in chunk order regardless of fetch completion order; Failures lists the
// chunks that were terminally lost, in chunk order. Partial progress is
// always kept: a result with failures still carries every document that
// did arrive.
type LogicalResult struct {
	Documents []schema.Document
	Failures  []ChunkFailure
}

// Complete reports whether every chunk succeeded.
func (r *LogicalResult) Complete() bool { return len(r.Failures) == 0 }

// Records flattens the result's documents into observation rows. See
// ExtractRecords for the flattening rules and options.
func (r *LogicalResult) Records(opts ...ExtractOption) ([]*Record, error) {
	return ExtractRecords(r.Documents, opts...)
}

// chunkOutcome is one chunk's fetch result. Each slot is written by exactly
// one worker and read only after the pool has drained, so the outcomes
// slice needs no lock.
type chunkOutcome struct {
	docs    []schema.Document
	failure *ChunkFailure
	done    bool
}

// execute splits q's period, runs the chunks through a bounded worker pool
// and assembles the merged result. At most WorkerCount fetches are in
// flight at any moment. Once ctx is canceled no further chunk is
// dispatched; chunks never dispatched are reported as canceled failures so
// the result still accounts for the full range.
func (c *Client) execute(ctx context.Context, q Query, spec endpointSpec, f *fetcher) *LogicalResult {
	chunks := splitRange(q.PeriodStart, q.PeriodEnd, spec.maxSpan)

	workers := c.cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	f.logger.WithFields(logrus.Fields{
		"endpoint": string(q.Endpoint),
		"chunks":   len(chunks),
		"workers":  workers,
	}).Info("Dispatching query")

	jobs := make(chan Chunk)
	outcomes := make([]chunkOutcome, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				docs, failure := f.fetch(ctx, q, spec, chunk)
				outcomes[chunk.Index] = chunkOutcome{docs: docs, failure: failure, done: true}
			}
		}()
	}

dispatch:
	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- chunk:
		}
	}
	close(jobs)
	wg.Wait()

	result := &LogicalResult{}
	for i, chunk := range chunks {
		outcome := outcomes[i]
		switch {
		case outcome.failure != nil:
			result.Failures = append(result.Failures, *outcome.failure)
		case !outcome.done:
			result.Failures = append(result.Failures, ChunkFailure{
				Chunk: chunk,
				Kind:  KindCanceled,
				Err:   ctx.Err(),
			})
		default:
			result.Documents = append(result.Documents, outcome.docs...)
		}
	}

	f.logger.WithFields(logrus.Fields{
		"endpoint":  string(q.Endpoint),
		"documents": len(result.Documents),
		"failures":  len(result.Failures),
	}).Info("Query finished")
	return result
}
