/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cudalis/cudalis/pkg/plan"
	"github.com/cudalis/cudalis/pkg/resolver"
	"github.com/cudalis/cudalis/pkg/version"
)

// fakeBackend records applied steps and simulates layer caching across
// repeated executions of the same plan.
type fakeBackend struct {
	mu       sync.Mutex
	applied  []plan.Step
	contexts []CacheContext
	layers   map[string]bool // cache key -> layer exists
	failAt   int             // 1-based step index to fail at; 0 = never
	cancelAt int             // 1-based step index at which to cancel ctx
	cancel   context.CancelFunc
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{layers: map[string]bool{}}
}

func (f *fakeBackend) ApplyStep(ctx context.Context, step plan.Step, cacheCtx CacheContext) (StepResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applied = append(f.applied, step)
	f.contexts = append(f.contexts, cacheCtx)

	if f.cancelAt == cacheCtx.StepIndex && f.cancel != nil {
		f.cancel()
	}
	if f.failAt == cacheCtx.StepIndex {
		return StepResult{Output: "simulated backend failure"}, errors.New("exec failed")
	}

	cached := f.layers[step.CacheKey]
	f.layers[step.CacheKey] = true
	return StepResult{Cached: cached}, nil
}

func testPlan(t *testing.T) *plan.Plan {
	t.Helper()
	cuda := version.MustParse("11.0")
	p, err := plan.New().Generate(resolver.Triple{
		Python: version.MustParse("3.8.5"),
		Torch:  version.MustParse("1.7.1"),
		Cuda:   &cuda,
	})
	require.NoError(t, err)
	return p
}

func TestExecuteAllStepsInOrder(t *testing.T) {
	backend := newFakeBackend()
	p := testPlan(t)

	result, err := New(backend).Execute(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, p.ImageReference, result.ImageReference)
	assert.Zero(t, result.FailedStep)
	assert.NotEmpty(t, result.BuildID)

	require.Len(t, backend.applied, p.Len())
	for i, s := range backend.applied {
		assert.Equal(t, p.Steps[i].Kind, s.Kind)
		assert.Equal(t, i+1, backend.contexts[i].StepIndex)
	}
}

func TestExecutePassesPriorKeys(t *testing.T) {
	backend := newFakeBackend()
	p := testPlan(t)

	_, err := New(backend).Execute(context.Background(), p)
	require.NoError(t, err)

	assert.Empty(t, backend.contexts[0].PriorKeys)
	last := backend.contexts[len(backend.contexts)-1]
	require.Len(t, last.PriorKeys, p.Len()-1)
	for i, key := range last.PriorKeys {
		assert.Equal(t, p.Steps[i].CacheKey, key)
	}
}

func TestExecuteHaltsOnFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failAt = 3
	p := testPlan(t)

	result, err := New(backend).Execute(context.Background(), p)
	require.NoError(t, err, "step failures report through the result, not the error")

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.FailedStep)
	assert.Empty(t, result.ImageReference)
	assert.Contains(t, result.Diagnostic, "exec failed")
	assert.Contains(t, result.Diagnostic, "simulated backend failure")

	// Steps 1-2 completed and stay cached for a retry; nothing past the
	// failure ran.
	assert.Equal(t, []int{1, 2}, result.CachedSteps)
	assert.Len(t, backend.applied, 3)
}

func TestExecuteRetryResumesFromCache(t *testing.T) {
	backend := newFakeBackend()
	backend.failAt = 3
	p := testPlan(t)
	o := New(backend)

	first, err := o.Execute(context.Background(), p)
	require.NoError(t, err)
	require.False(t, first.Success)

	backend.failAt = 0
	second, err := o.Execute(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, second.Success)
	assert.NotEqual(t, first.BuildID, second.BuildID)

	// The retry applies steps 1-2 again but the backend reports them as
	// cache hits (same cache keys as the first attempt).
	retry := backend.applied[3:]
	require.Len(t, retry, p.Len())
	assert.Equal(t, p.Steps[0].CacheKey, retry[0].CacheKey)
}

func TestExecuteCancelledAtStepBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	backend := newFakeBackend()
	backend.cancelAt = 2
	backend.cancel = cancel
	p := testPlan(t)

	result, err := New(backend).Execute(ctx, p)
	require.ErrorIs(t, err, context.Canceled)

	// The in-flight step (2) ran to completion; step 3 never started.
	assert.Len(t, backend.applied, 2)
	assert.Equal(t, []int{1, 2}, result.CachedSteps)
	assert.Contains(t, result.Diagnostic, "cancelled before step 3")
}

func TestExecuteStepContextDetachedFromCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	backend := newFakeBackend()
	backend.cancelAt = 1
	backend.cancel = cancel
	p := testPlan(t)

	// The step that triggers cancellation must still see a live context.
	probe := &ctxProbe{inner: backend}
	result, err := New(probe).Execute(ctx, p)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, probe.sawErr)
	assert.NotNil(t, result)
}

type ctxProbe struct {
	inner  Backend
	sawErr error
}

func (c *ctxProbe) ApplyStep(ctx context.Context, step plan.Step, cacheCtx CacheContext) (StepResult, error) {
	res, err := c.inner.ApplyStep(ctx, step, cacheCtx)
	if cerr := ctx.Err(); cerr != nil && c.sawErr == nil {
		c.sawErr = cerr
	}
	return res, err
}

func TestExecuteNilPlan(t *testing.T) {
	_, err := New(newFakeBackend()).Execute(context.Background(), nil)
	assert.Error(t, err)
}

func TestExecuteNilBackend(t *testing.T) {
	_, err := New(nil).Execute(context.Background(), testPlan(t))
	assert.Error(t, err)
}
