package entsoe

import "time"

// Chunk is one sub-range of a query's period. Chunks are disjoint and
// contiguous, cover the requested range exactly, and keep half-open
// semantics: Start is included, End is not. Index is the chunk's position
// in emission order and fixes where its documents land in the merged
// result.
type Chunk struct {
	Index int
	Start time.Time
	End   time.Time
}

// splitRange cuts [start, end) into chunks no longer than maxSpan. Every
// chunk except possibly the last spans exactly maxSpan; a range already
// within maxSpan yields a single chunk covering it. The caller guarantees
// start < end.
func splitRange(start, end time.Time, maxSpan time.Duration) []Chunk {
	var chunks []Chunk
	for cursor := start; cursor.Before(end); {
		next := cursor.Add(maxSpan)
		if next.After(end) {
			next = end
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Start: cursor, End: next})
		cursor = next
	}
	return chunks
}
