// Package sinks holds progress.Sink implementations.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/progress"
)

// LogSink renders run progress as structured logs. It is the default sink;
// richer consumers (a UI feed) can sit beside it on the same hub.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs the event using structured fields.
func (s *LogSink) Consume(_ context.Context, evt progress.Event) error {
	s.logger.Info("progress",
		zap.String("run", evt.RunID),
		zap.String("stage", string(evt.Stage)),
		zap.String("bl", evt.BL),
		zap.String("carrier", evt.Carrier),
		zap.Duration("dur", evt.Dur),
		zap.String("note", evt.Note),
	)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
