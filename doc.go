// Package entsoe is a client for the ENTSO-E Transparency Platform REST
// API, the central source of European electricity market data.
//
// # Architecture
//
// The client hides the platform's request mechanics behind a single call:
//   - endpoints: each supported data view with its document codes and
//     request constraints
//   - splitting: periods longer than a view's span limit are cut into
//     chunks fetched independently
//   - fetching: retries with backoff, offset pagination, zip payloads and
//     acknowledgement handling
//   - flattening: XML market documents become flat observation records
//     with dotted field names
//   - timestamps: each observation's absolute instant derived from period
//     start, resolution and position
//
// Key Features
//
//   - Large Periods:
//     A query may span years; the client splits it, fetches chunks through
//     a bounded worker pool and reassembles results in order.
//
//   - Partial Results:
//     Failed chunks never discard the rest. The result reports exactly
//     which sub-ranges were lost and why.
//
//   - Shared Budget:
//     One client instance shares its rate limiter, worker pool budget and
//     result cache across all concurrent callers; identical queries are
//     collapsed into one upstream execution.
//
// Example Usage
//
//	client, err := entsoe.NewClient(entsoe.WithAPIKey(token))
//	result, err := client.QueryAPI(ctx, entsoe.Query{
//	    Endpoint:    entsoe.DayAheadPrices,
//	    InDomain:    "10YCZ-CEPS-----N",
//	    OutDomain:   "10YCZ-CEPS-----N",
//	    PeriodStart: start,
//	    PeriodEnd:   end,
//	})
//	records, err := result.Records(entsoe.WithDomain("time_series"))
//	records, derr := entsoe.AddTimestamps(records)
//
// For the schema types behind the records, see the schema package.
package entsoe
