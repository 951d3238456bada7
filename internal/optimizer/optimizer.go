// Package optimizer runs the billet recovery optimization on behalf of a host
// (CLI or HTTP server): it assigns run IDs, logs the outcome and forwards an
// entry to the audit sink when one is configured.
package optimizer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/billet-recovery/internal/audit"
	"github.com/iwvelando/billet-recovery/internal/recovery"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"go.uber.org/zap"
)

// Runner executes optimization runs over a fixed candidate list.
type Runner struct {
	logger     *zap.Logger
	sink       audit.Sink
	candidates []float64
	now        func() time.Time
	newID      func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithAuditSink records every successful run in sink.
func WithAuditSink(sink audit.Sink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithCandidates replaces the stocked billet lengths.
func WithCandidates(candidates []float64) Option {
	return func(r *Runner) {
		r.candidates = append([]float64(nil), candidates...)
	}
}

// WithFixedTime pins the run timestamp, for tests and reproducible reports.
func WithFixedTime(t time.Time) Option {
	return func(r *Runner) {
		r.now = func() time.Time { return t }
	}
}

// Run is the outcome of one optimization.
type Run struct {
	ID        string           `json:"runId"`
	StartedAt time.Time        `json:"startedAt"`
	Duration  time.Duration    `json:"-"`
	Result    *recovery.Result `json:"result"`
}

// NewRunner constructs a Runner. A nil logger is replaced by a no-op logger.
func NewRunner(logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		logger:     logger,
		candidates: constants.DefaultCandidates(),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates returns a copy of the candidate billet lengths.
func (r *Runner) Candidates() []float64 {
	return append([]float64(nil), r.candidates...)
}

// Run optimizes params. Invalid input is returned unchanged so callers can
// match recovery.ErrInvalidInput.
func (r *Runner) Run(params recovery.ProcessParameters) (*Run, error) {
	start := r.now()
	runID := r.newID()

	result, err := recovery.Optimize(params, r.candidates)
	if err != nil {
		r.logger.Warn("optimization rejected",
			zap.String("op", "optimizer.Run"),
			zap.String("runId", runID),
			zap.Error(err),
		)
		return nil, err
	}

	for _, c := range result.Candidates {
		r.logger.Debug(fmt.Sprintf("evaluated billet length %.0f cm", c.BilletLength),
			zap.String("op", "optimizer.Run"),
			zap.String("runId", runID),
			zap.Float64("extrusionLength", c.ExtrusionLength),
			zap.Int("pieces", c.PiecesPerBillet),
			zap.Float64("marginLength", c.MarginLength),
			zap.Float64("recoveryPercent", c.RecoveryPercent),
			zap.Bool("marginEligible", c.MarginEligible),
		)
	}

	fields := []zap.Field{
		zap.String("op", "optimizer.Run"),
		zap.String("runId", runID),
		zap.Float64("cutLength", params.CutLength),
		zap.Int("numHoles", params.NumHoles),
		zap.Float64("kgPerMeter", params.KgPerMeter),
		zap.Bool("causticEtching", params.CausticEtching),
		zap.Float64("buttWeight", params.ButtWeight),
		zap.Int("feasible", len(result.Candidates)),
		zap.Int("excluded", len(result.Excluded)),
	}
	if best, err := result.Optimum(); err == nil {
		r.logger.Info("optimal billet length found", append(fields,
			zap.Float64("billetLength", best.BilletLength),
			zap.Float64("recoveryPercent", best.RecoveryPercent),
			zap.Int("pieces", best.PiecesPerBillet),
		)...)
	} else {
		r.logger.Info("no billet length meets the criteria", fields...)
	}

	if r.sink != nil {
		if err := r.sink.Record(audit.NewEntry(runID, start, result)); err != nil {
			r.logger.Warn("failed to record audit entry",
				zap.String("op", "optimizer.Run"),
				zap.String("runId", runID),
				zap.Error(err),
			)
		}
	}

	return &Run{
		ID:        runID,
		StartedAt: start,
		Duration:  r.now().Sub(start),
		Result:    result,
	}, nil
}
