// Package runner schedules batch extraction across a fixed worker pool. Each
// worker owns one browser session for its lifetime and pulls tasks off a
// shared cursor, so a slow carrier page never stalls the other workers.
package runner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/freightwatch/bltracker/internal/browser"
	"github.com/freightwatch/bltracker/internal/metrics"
	"github.com/freightwatch/bltracker/internal/progress"
	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/track"
)

// Session is the slice of a browser session the pool drives: a page factory
// and teardown. One session lives per worker.
type Session interface {
	NewPage(ctx context.Context) (*browser.Page, func(), error)
	Close()
}

// SessionFactory mints one session per worker at pool start.
type SessionFactory interface {
	NewSession() Session
}

type browserFactory struct {
	b *browser.Browser
}

func (f browserFactory) NewSession() Session { return f.b.NewSession() }

// Sessions adapts a live browser into a SessionFactory.
func Sessions(b *browser.Browser) SessionFactory {
	return browserFactory{b: b}
}

// Pool runs tracking tasks across workers and persists one record per task,
// success or error.
type Pool struct {
	sessions SessionFactory
	registry *track.Registry
	carriers track.CarrierSource
	store    track.ResultStore
	metrics  *metrics.Metrics
	hub      *progress.Hub
	logger   *zap.Logger
	workers  int
}

// New builds a pool. workers is clamped to at least 1; metrics and hub may
// be nil.
func New(
	sessions SessionFactory,
	registry *track.Registry,
	carriers track.CarrierSource,
	store track.ResultStore,
	m *metrics.Metrics,
	hub *progress.Hub,
	workers int,
	logger *zap.Logger,
) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		sessions: sessions,
		registry: registry,
		carriers: carriers,
		store:    store,
		metrics:  m,
		hub:      hub,
		logger:   logger,
		workers:  workers,
	}
}

// Summary is the outcome tally of one run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Run processes every task exactly once and returns the tally. It fails only
// on context cancellation; per-task problems become error records in the
// store, never a run failure.
func (p *Pool) Run(ctx context.Context, tasks []track.Task) (Summary, error) {
	runID := uuid.NewString()
	start := time.Now()
	workers := p.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}
	p.logger.Info("run started",
		zap.String("run", runID),
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", workers),
	)
	p.hub.Emit(progress.Event{RunID: runID, TS: time.Now().UTC(), Stage: progress.StageRunStart})

	var cursor atomic.Int64
	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		worker := w
		g.Go(func() error {
			session := p.sessions.NewSession()
			defer session.Close()
			log := p.logger.With(zap.String("run", runID), zap.Int("worker", worker))

			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := cursor.Add(1) - 1
				if i >= int64(len(tasks)) {
					return nil
				}
				if p.runTask(gctx, session, runID, tasks[i], log) {
					succeeded.Add(1)
				} else {
					failed.Add(1)
				}
			}
		})
	}

	err := g.Wait()
	sum := Summary{
		Total:     len(tasks),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}
	p.logger.Info("run finished",
		zap.String("run", runID),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
	)
	p.hub.Emit(progress.Event{
		RunID: runID,
		TS:    time.Now().UTC(),
		Stage: progress.StageRunDone,
		Dur:   time.Since(start),
		Note:  fmt.Sprintf("%d succeeded, %d failed", sum.Succeeded, sum.Failed),
	})
	return sum, err
}

// runTask drives one task end to end and reports whether it succeeded. Every
// exit path persists a record.
func (p *Pool) runTask(ctx context.Context, session Session, runID string, task track.Task, log *zap.Logger) (ok bool) {
	start := time.Now()
	if p.metrics != nil {
		p.metrics.IncActiveWorkers()
	}
	defer func() {
		if p.metrics != nil {
			p.metrics.DecActiveWorkers()
			status := "error"
			if ok {
				status = "success"
			}
			p.metrics.ObserveTask(task.ExtractorKey, status, time.Since(start))
		}
		stage := progress.StageTaskError
		if ok {
			stage = progress.StageTaskDone
		}
		p.hub.Emit(progress.Event{
			RunID:   runID,
			TS:      time.Now().UTC(),
			Stage:   stage,
			BL:      task.ID,
			Carrier: task.ExtractorKey,
			Dur:     time.Since(start),
		})
	}()

	// A panicking extractor must not take the worker down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Error("task panicked", zap.String("bl", task.ID), zap.Any("panic", r))
			p.persistError(ctx, task, fmt.Sprintf("panic: %v", r), log)
			ok = false
		}
	}()

	log.Info("task started", zap.String("bl", task.ID), zap.String("carrier", task.ExtractorKey))
	p.hub.Emit(progress.Event{
		RunID:   runID,
		TS:      time.Now().UTC(),
		Stage:   progress.StageTaskStart,
		BL:      task.ID,
		Carrier: task.ExtractorKey,
	})

	extractor, found := p.registry.Lookup(task.ExtractorKey)
	if !found {
		p.persistError(ctx, task, "Scraper not found", log)
		return false
	}

	carrier, err := p.carriers.ActiveCarrier(ctx, task.ExtractorKey)
	if err != nil {
		p.persistError(ctx, task, err.Error(), log)
		return false
	}
	if carrier == nil {
		p.persistError(ctx, task, "Shipping line not found", log)
		return false
	}

	page, closePage, err := session.NewPage(ctx)
	if err != nil {
		p.persistError(ctx, task, err.Error(), log)
		return false
	}
	defer closePage()

	fields, err := extractor.Extract(ctx, page, carrier.TrackingURL, task.ID)
	if err != nil {
		log.Warn("extraction failed", zap.String("bl", task.ID), zap.Error(err))
		p.persistError(ctx, task, err.Error(), log)
		return false
	}

	rec := schema.BuildRecord(task.ID, schema.StatusSuccess, fields)
	schema.ApplyCapabilityMask(&rec, extractor.Capabilities().Supports)
	if err := p.store.UpsertShipment(ctx, rec); err != nil {
		log.Error("persist failed", zap.String("bl", task.ID), zap.Error(err))
		return false
	}

	log.Info("task finished",
		zap.String("bl", task.ID),
		zap.Duration("took", time.Since(start)),
	)
	return true
}

// persistError writes the error record for a task. The failure reason lands
// in the last event column so it is visible in exports; the capability mask
// is not applied, or the reason would be nulled for carriers that do not
// declare the field.
func (p *Pool) persistError(ctx context.Context, task track.Task, reason string, log *zap.Logger) {
	rec := schema.BuildRecord(task.ID, schema.StatusError, nil)
	rec.SetText(schema.FieldLastEvent, reason)
	if err := p.store.UpsertShipment(ctx, rec); err != nil {
		log.Error("persist error record failed", zap.String("bl", task.ID), zap.Error(err))
	}
}
