// Package progress defines the event stream emitted while a batch run is in
// flight, so observers (logs today, a UI feed tomorrow) can follow per-task
// state without polling the database.
package progress

import (
	"errors"
	"fmt"
	"time"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart  Stage = "RUN_START"
	StageRunDone   Stage = "RUN_DONE"
	StageTaskStart Stage = "TASK_START"
	StageTaskDone  Stage = "TASK_DONE"
	StageTaskError Stage = "TASK_ERROR"
)

// Event captures a single milestone of a batch run.
type Event struct {
	// RunID identifies the batch run the event belongs to.
	RunID string
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle milestone occurred.
	Stage Stage
	// BL scopes task events to one bill of lading.
	BL string
	// Carrier is the extractor key handling the task.
	Carrier string
	// Dur captures task latency on completion events.
	Dur time.Duration
	// Note carries low-volume context such as the failure reason.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == "" {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone:
	case StageTaskStart, StageTaskDone, StageTaskError:
		if e.BL == "" {
			return errors.New("task events require a bill of lading")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}
