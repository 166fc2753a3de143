package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"launchscanner/internal/domain"
	"launchscanner/internal/ports"
)

// PipelineDeps wires the store and one annotator into the driver.
type PipelineDeps struct {
	Store     ports.LaunchStore
	Annotator ports.Annotator
	Logger    *slog.Logger
}

// Summary is the per-run accounting printed on every exit path except a
// store-load failure.
type Summary struct {
	Total     int
	Processed int
	Succeeded int
	Skipped   int
}

func (s Summary) String() string {
	return fmt.Sprintf("processed %d, succeeded %d, skipped %d (of %d records)",
		s.Processed, s.Succeeded, s.Skipped, s.Total)
}

// Pipeline drives one incremental enrichment pass: load the full sequence,
// gate each record, annotate and merge in place, checkpoint on the
// annotator's cadence and unconditionally at the end. Interrupts and panics
// trigger a best-effort flush before the run is reported as failed.
type Pipeline struct {
	store     ports.LaunchStore
	annotator ports.Annotator
	logger    *slog.Logger
}

// NewPipeline constructs the driver.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:     deps.Store,
		annotator: deps.Annotator,
		logger:    logger,
	}
}

// Run executes a single pass over the store. One record's annotation failure
// never aborts the run; store failures and cancellation do.
func (p *Pipeline) Run(ctx context.Context) (summary Summary, err error) {
	launches, loadErr := p.store.Load()
	if loadErr != nil {
		return Summary{}, fmt.Errorf("load store: %w", loadErr)
	}

	summary.Total = len(launches)
	p.logger.Info("store loaded", "annotator", p.annotator.Name(), "records", summary.Total)

	defer func() {
		if r := recover(); r != nil {
			p.emergencyFlush(launches)
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	var runErr error

loop:
	for i := range launches {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		default:
		}

		launch := &launches[i]
		if !p.annotator.Needs(*launch) {
			summary.Skipped++
			continue
		}

		annotation, annErr := p.annotator.Annotate(ctx, *launch)
		if annErr != nil {
			if ctx.Err() != nil {
				runErr = ctx.Err()
				break loop
			}
			annotation = p.annotator.Fallback(*launch)
			p.logger.Warn("annotation failed",
				"startup", launch.Startup,
				"reason", failureReason(annErr),
				"error", annErr,
				"fallback", annotation != nil)
			if annotation == nil {
				summary.Processed++
				continue
			}
		}
		if annotation == nil {
			// No usable input on the record; nothing to merge.
			summary.Skipped++
			p.logger.Info("no input for record", "startup", launch.Startup)
			continue
		}

		annotation.ApplyTo(launch)
		summary.Processed++
		summary.Succeeded++
		p.logger.Info("record annotated", "startup", launch.Startup)

		if every := p.annotator.SaveEvery(); every > 0 && summary.Succeeded%every == 0 {
			if saveErr := p.store.Save(launches); saveErr != nil {
				runErr = fmt.Errorf("checkpoint: %w", saveErr)
				break loop
			}
			p.logger.Info("checkpoint written", "succeeded", summary.Succeeded)
		}

		if pause := p.annotator.Pause(); pause > 0 && i < len(launches)-1 {
			if waitErr := sleepCtx(ctx, pause); waitErr != nil {
				runErr = waitErr
				break loop
			}
		}
	}

	if runErr != nil {
		p.emergencyFlush(launches)
		return summary, runErr
	}

	if saveErr := p.store.Save(launches); saveErr != nil {
		return summary, fmt.Errorf("final checkpoint: %w", saveErr)
	}

	p.logger.Info("run complete", "summary", summary.String())
	return summary, nil
}

// emergencyFlush persists whatever was merged so far; its own failure is
// reported but never masks the original error.
func (p *Pipeline) emergencyFlush(launches []domain.Launch) {
	if saveErr := p.store.Save(launches); saveErr != nil {
		p.logger.Error("emergency checkpoint failed", "error", saveErr)
		return
	}
	p.logger.Info("emergency checkpoint written", "records", len(launches))
}

func failureReason(err error) ports.FailureReason {
	var aerr *ports.AnnotatorError
	if errors.As(err, &aerr) {
		return aerr.Reason
	}
	return ports.ReasonUnknown
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
