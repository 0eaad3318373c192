// Package youtube acquires timestamped transcript text for a video from an
// unreliable upstream. Independent strategies implement a common interface;
// the orchestrator walks them in fixed priority order and returns the first
// non-empty result.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ytbrain/ytbrain/internal/domain"
	"github.com/ytbrain/ytbrain/internal/telemetry"
)

// Strategy is one specific method of obtaining timestamped text for a
// video. Fetch either returns a non-empty fragment sequence or an error;
// the orchestrator swallows errors and moves on to the next strategy.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, videoID string) ([]domain.Fragment, error)
}

// DefaultStrategyTimeout bounds a single strategy attempt.
const DefaultStrategyTimeout = 20 * time.Second

// Orchestrator tries an ordered list of acquisition strategies. Switching
// strategies is itself the retry policy: no backoff happens at this layer,
// only inside a strategy's individual network calls.
type Orchestrator struct {
	strategies []Strategy
	timeout    time.Duration
}

// NewOrchestrator creates an Orchestrator over the given strategies, tried
// in order. timeout <= 0 uses DefaultStrategyTimeout per strategy.
func NewOrchestrator(strategies []Strategy, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultStrategyTimeout
	}
	return &Orchestrator{strategies: strategies, timeout: timeout}
}

// Acquire returns the first strategy's non-empty, ordered fragment
// sequence. Every strategy failure is recorded; only if all strategies
// fail does Acquire return domain.ErrAcquisitionExhausted carrying the
// aggregated per-strategy reasons.
func (o *Orchestrator) Acquire(ctx context.Context, videoID string) ([]domain.Fragment, error) {
	if len(o.strategies) == 0 {
		return nil, domain.ErrAcquisitionExhausted
	}

	reasons := make([]string, 0, len(o.strategies))
	for _, s := range o.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		telemetry.AddBreadcrumb(ctx, "acquisition", fmt.Sprintf("trying strategy %s for %s", s.Name(), videoID))

		attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
		fragments, err := s.Fetch(attemptCtx, videoID)
		cancel()

		if err != nil {
			log.Printf("acquire %s: strategy %s failed: %v", videoID, s.Name(), err)
			telemetry.AddBreadcrumb(ctx, "acquisition", fmt.Sprintf("strategy %s failed: %v", s.Name(), err))
			reasons = append(reasons, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		if len(fragments) == 0 {
			log.Printf("acquire %s: strategy %s returned no fragments", videoID, s.Name())
			telemetry.AddBreadcrumb(ctx, "acquisition", fmt.Sprintf("strategy %s returned no fragments", s.Name()))
			reasons = append(reasons, fmt.Sprintf("%s: returned no fragments", s.Name()))
			continue
		}

		log.Printf("acquire %s: strategy %s yielded %d fragments", videoID, s.Name(), len(fragments))
		return fragments, nil
	}

	err := domain.NewDomainErrorWithCause(
		domain.ErrCodeAcquisition,
		"all acquisition strategies failed",
		errors.New(strings.Join(reasons, "; ")),
	)
	telemetry.CaptureError(ctx, err)
	return nil, err
}
