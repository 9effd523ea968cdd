// Package track defines the core types shared across the extraction
// pipeline: tasks, carrier definitions, the extractor contract, and the
// dispatch registry.
package track

import (
	"context"

	"github.com/freightwatch/bltracker/internal/browser"
	"github.com/freightwatch/bltracker/internal/schema"
)

// TaskStatus is the lifecycle state of one task. Succeeded and Failed are
// terminal; there is no retry across the pool layer.
type TaskStatus string

// Task statuses.
const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

// Task is one unit of batch work: a shipment identifier and the extractor
// key that resolves its carrier. Tasks exist only for the duration of a run.
type Task struct {
	ID           string
	ExtractorKey string
}

// Carrier is one row of the carrier registry.
type Carrier struct {
	Code         string
	DisplayName  string
	ExtractorKey string
	TrackingURL  string
	Active       bool
}

// Capabilities declares which schema fields a carrier's extractor can ever
// populate. Any field not declared is forced to null on the final record, so
// swapping an extractor cannot leak stale cross-carrier values.
type Capabilities struct {
	Supports []schema.Field
}

// Extractor is the per-carrier extraction contract. Extract drives the page
// and returns raw scraped fields; it may return a partial or empty map.
// Page-content problems must not surface as errors — they are logged
// internally and yield an empty result. Only an essential failure (initial
// navigation) is returned as an error and fails the task.
type Extractor interface {
	Extract(ctx context.Context, page *browser.Page, trackingURL, shipmentID string) (schema.Fields, error)
	Capabilities() Capabilities
}

// ResultStore is the slice of the persistent store the scheduler writes to.
// UpsertShipment must be safe under concurrent calls from multiple workers.
type ResultStore interface {
	UpsertShipment(ctx context.Context, rec schema.Record) error
}

// CarrierSource resolves active carrier definitions at dispatch time.
// ActiveCarrier returns (nil, nil) when no active carrier has the key.
type CarrierSource interface {
	ActiveCarrier(ctx context.Context, extractorKey string) (*Carrier, error)
}
