// Package id provides ULID-based identifiers for requests and traces.
//
// IDs are lexicographically sortable and carry a short type prefix so they
// read well in logs (req_*, trace_*, span_*).
package id

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies an API request
type RequestID string

// TraceID identifies a trace spanning several operations
type TraceID string

// SpanID identifies a single traced operation
type SpanID string

const (
	RequestPrefix = "req"
	TracePrefix   = "trace"
	SpanPrefix    = "span"
)

// Monotonic entropy keeps IDs minted within one millisecond ordered. It is
// not safe for concurrent use on its own.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newID(prefix string) string {
	entropyMu.Lock()
	u := ulid.MustNew(ulid.Now(), entropy)
	entropyMu.Unlock()
	return prefix + "_" + u.String()
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(newID(RequestPrefix))
}

// NewTraceID generates a new trace ID
func NewTraceID() TraceID {
	return TraceID(newID(TracePrefix))
}

// NewSpanID generates a new span ID
func NewSpanID() SpanID {
	return SpanID(newID(SpanPrefix))
}

func (id RequestID) String() string { return string(id) }
func (id TraceID) String() string   { return string(id) }
func (id SpanID) String() string    { return string(id) }
