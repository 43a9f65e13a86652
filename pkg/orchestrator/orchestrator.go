/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cudalis/cudalis/pkg/defaults"
	cuderrors "github.com/cudalis/cudalis/pkg/errors"
	"github.com/cudalis/cudalis/pkg/plan"
)

// CacheContext carries the accumulated cache state the backend needs to
// decide whether a step's layer can be reused. PriorKeys lists the cache
// keys of all preceding steps in order; equal prefixes mean reusable layers.
type CacheContext struct {
	BuildID   string
	StepIndex int // 1-based position in the plan
	PriorKeys []string
}

// StepResult is the backend's report for one applied step.
type StepResult struct {
	// Cached is true when the backend reused an existing layer instead of
	// performing the step.
	Cached bool
	// Output is the backend's diagnostic text for the step, populated on
	// both success and failure.
	Output string
}

// Backend is the external container-build capability the orchestrator
// drives. Implementations perform one step or report failure; they must
// treat equal (step, cacheContext) pairs as the same unit of work so
// retries of an identical plan can reuse prior layers.
type Backend interface {
	ApplyStep(ctx context.Context, step plan.Step, cacheCtx CacheContext) (StepResult, error)
}

// BuildResult is the terminal outcome of executing one plan.
type BuildResult struct {
	BuildID        string        `json:"buildId" yaml:"buildId"`
	Success        bool          `json:"success" yaml:"success"`
	ImageReference string        `json:"imageReference,omitempty" yaml:"imageReference,omitempty"`
	FailedStep     int           `json:"failedStep,omitempty" yaml:"failedStep,omitempty"` // 1-based; 0 when no step failed
	Diagnostic     string        `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
	CachedSteps    []int         `json:"cachedSteps,omitempty" yaml:"cachedSteps,omitempty"` // 1-based indices confirmed cached for retry
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStepTimeout overrides the per-step execution timeout.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.stepTimeout = d
	}
}

// Orchestrator executes build plans strictly in order against a backend.
// It owns the plan exclusively for the duration of Execute; concurrent
// builds need separate Orchestrator values.
type Orchestrator struct {
	backend     Backend
	stepTimeout time.Duration
}

// New creates an Orchestrator driving the given backend.
func New(backend Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:     backend,
		stepTimeout: defaults.BuildStepTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute runs every plan step in order, halting at the first failure.
// Steps that completed before the failure stay recorded in CachedSteps so a
// retry of the same plan resumes from the failed step. Step failures are
// reported through the BuildResult, not the error return; the error is
// non-nil only for invocation-level problems (nil plan, cancellation).
//
// Cancellation is honored at step boundaries only: the context is checked
// between steps, and the in-flight step runs on a detached context so it
// either completes or fails atomically rather than leaving a half-built
// layer. No automatic retries; retry policy belongs to the caller.
func (o *Orchestrator) Execute(ctx context.Context, p *plan.Plan) (*BuildResult, error) {
	if o.backend == nil {
		return nil, cuderrors.New(cuderrors.ErrCodeInternal, "orchestrator has no backend")
	}
	if p == nil || p.Len() == 0 {
		return nil, cuderrors.New(cuderrors.ErrCodeInternal, "plan is empty")
	}

	result := &BuildResult{
		BuildID: uuid.NewString(),
	}
	start := time.Now()

	log := slog.With("buildId", result.BuildID, "image", p.ImageReference, "steps", p.Len())
	log.Info("starting build", "triple", p.Triple.String())

	priorKeys := make([]string, 0, p.Len())
	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			result.Diagnostic = fmt.Sprintf("build cancelled before step %d (%s)", i+1, step.Kind)
			buildsTotal.WithLabelValues(outcomeCancelled).Inc()
			log.Warn("build cancelled at step boundary", "step", i+1)
			return result, err
		}

		index := i + 1
		log.Info("applying step",
			"step", index,
			"kind", string(step.Kind),
			"name", step.Kind.DisplayName(),
		)

		res, err := o.applyStep(ctx, step, CacheContext{
			BuildID:   result.BuildID,
			StepIndex: index,
			PriorKeys: priorKeys,
		})
		if err != nil {
			result.Duration = time.Since(start)
			result.FailedStep = index
			result.Diagnostic = diagnostic(step, err, res.Output)
			buildsTotal.WithLabelValues(outcomeFailure).Inc()
			log.Error("step failed", "step", index, "kind", string(step.Kind), "error", err)
			return result, nil
		}

		if res.Cached {
			stepsCachedTotal.Inc()
			log.Debug("step satisfied from cache", "step", index, "cacheKey", step.CacheKey)
		}
		result.CachedSteps = append(result.CachedSteps, index)
		priorKeys = append(priorKeys, step.CacheKey)
	}

	result.Success = true
	result.ImageReference = p.ImageReference
	result.Duration = time.Since(start)
	buildsTotal.WithLabelValues(outcomeSuccess).Inc()
	buildDuration.Observe(result.Duration.Seconds())
	log.Info("build complete", "duration", result.Duration.String())

	return result, nil
}

// applyStep hands the backend a context detached from the caller's
// cancellation but bounded by the step timeout, so an interrupt cannot
// abandon a layer halfway.
func (o *Orchestrator) applyStep(ctx context.Context, step plan.Step, cacheCtx CacheContext) (StepResult, error) {
	stepCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.stepTimeout)
	defer cancel()

	start := time.Now()
	res, err := o.backend.ApplyStep(stepCtx, step, cacheCtx)
	stepDuration.WithLabelValues(string(step.Kind)).Observe(time.Since(start).Seconds())
	return res, err
}

func diagnostic(step plan.Step, err error, output string) string {
	d := fmt.Sprintf("step %s failed: %v", step.Kind, err)
	if output != "" {
		d += "\n" + output
	}
	return d
}
