/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cudalis/cudalis/pkg/catalog"
	cuderrors "github.com/cudalis/cudalis/pkg/errors"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.File{
		APIVersion: catalog.SupportedAPIVersion,
		Entries: []catalog.FileEntry{
			{Python: "3.8.5", Torch: "1.7.1", Cuda: "10.2"},
			{Python: "3.8.5", Torch: "1.7.1", Cuda: "11.0"},
			{Python: "3.8.5", Torch: "1.7.1"},
			{Python: "3.9.1", Torch: "1.7.1", Cuda: "11.0"},
			{Python: "3.10.12", Torch: "2.0.1", Cuda: "11.8"},
			{Python: "3.10.12", Torch: "2.0.1"},
			{Python: "3.11.9", Torch: "2.5.1", Cuda: "12.4"},
			{Python: "3.11.9", Torch: "2.5.1"},
		},
	})
	require.NoError(t, err)
	return cat
}

func mustConstraints(t *testing.T, python, torch, cuda string) catalog.Constraints {
	t.Helper()
	p, err := catalog.ParseConstraint(python)
	require.NoError(t, err)
	tc, err := catalog.ParseConstraint(torch)
	require.NoError(t, err)
	c, err := catalog.ParseCudaConstraint(cuda)
	require.NoError(t, err)
	return catalog.Constraints{Python: p, Torch: tc, Cuda: c}
}

func TestResolveExactTriple(t *testing.T) {
	r := New(WithHostOS("linux"))
	got, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "3.8.5", "1.7.1", "10.2"))
	require.NoError(t, err)
	assert.Equal(t, "python=3.8.5 torch=1.7.1 cuda=10.2", got.String())
}

func TestResolvePicksGreatestCuda(t *testing.T) {
	// python and torch pinned, CUDA unspecified: the greatest CUDA wins,
	// and CPU-only never beats a CUDA-enabled entry.
	r := New(WithHostOS("linux"))
	got, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "3.8.5", "1.7.1", ""))
	require.NoError(t, err)
	require.NotNil(t, got.Cuda)
	assert.Equal(t, "11.0", got.Cuda.String())
}

func TestResolveUnconstrainedPicksLatest(t *testing.T) {
	r := New(WithHostOS("linux"))
	got, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "python=3.11.9 torch=2.5.1 cuda=12.4", got.String())
}

func TestResolveLatestKeyword(t *testing.T) {
	r := New(WithHostOS("linux"))
	got, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "latest", "latest", "latest"))
	require.NoError(t, err)
	assert.Equal(t, "python=3.11.9 torch=2.5.1 cuda=12.4", got.String())
}

func TestResolvePartialPrecision(t *testing.T) {
	// "11" matches 11.x at the constraint's own precision.
	r := New(WithHostOS("linux"))
	got, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "3.8.5", "1.7.1", "11"))
	require.NoError(t, err)
	require.NotNil(t, got.Cuda)
	assert.Equal(t, "11.0", got.Cuda.String())
}

func TestResolveCPUOnly(t *testing.T) {
	r := New(WithHostOS("linux"))
	got, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "3.8.5", "1.7.1", "cpu"))
	require.NoError(t, err)
	assert.True(t, got.CPUOnly())
}

func TestResolveUnknownVersion(t *testing.T) {
	r := New(WithHostOS("linux"))
	_, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "2.7.18", "1.7.1", ""))
	require.Error(t, err)
	assert.True(t, cuderrors.HasCode(err, cuderrors.ErrCodeUnknownVersion))
	assert.Contains(t, err.Error(), "python 2.7.18")
}

func TestResolveUnknownCuda(t *testing.T) {
	r := New(WithHostOS("linux"))
	_, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "3.8.5", "1.7.1", "9.0"))
	require.Error(t, err)
	assert.True(t, cuderrors.HasCode(err, cuderrors.ErrCodeUnknownVersion))
	assert.Contains(t, err.Error(), "cuda 9.0")
}

func TestResolveIncompatibleCombination(t *testing.T) {
	// CUDA 12.4 exists in the catalog, but not jointly with torch 1.7.1.
	r := New(WithHostOS("linux"))
	_, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "3.8.5", "1.7.1", "12.4"))
	require.Error(t, err)
	assert.True(t, cuderrors.HasCode(err, cuderrors.ErrCodeNoCompatibleVersion))
	assert.Contains(t, err.Error(), "cuda (12.4)")
}

func TestResolveNamesAllNarrowingConstraints(t *testing.T) {
	// Every pair is individually satisfiable but the full combination is
	// not, so all specified constraints are reported.
	cat, err := catalog.New(catalog.File{
		APIVersion: catalog.SupportedAPIVersion,
		Entries: []catalog.FileEntry{
			{Python: "3.8.5", Torch: "1.7.1", Cuda: "11.0"},
			{Python: "3.9.1", Torch: "2.0.1", Cuda: "11.0"},
			{Python: "3.9.1", Torch: "1.7.1", Cuda: "11.8"},
			{Python: "3.8.5", Torch: "2.0.1", Cuda: "11.8"},
		},
	})
	require.NoError(t, err)

	r := New(WithHostOS("linux"))
	_, rerr := r.Resolve(context.Background(), cat, mustConstraints(t, "3.8.5", "1.7.1", "11.8"))
	require.Error(t, rerr)
	assert.True(t, cuderrors.HasCode(rerr, cuderrors.ErrCodeNoCompatibleVersion))
	assert.Contains(t, rerr.Error(), "python (3.8.5)")
	assert.Contains(t, rerr.Error(), "torch (1.7.1)")
	assert.Contains(t, rerr.Error(), "cuda (11.8)")
}

func TestResolveDarwinDefaultsToCPU(t *testing.T) {
	r := New(WithHostOS("darwin"))
	got, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "3.8.5", "1.7.1", ""))
	require.NoError(t, err)
	assert.True(t, got.CPUOnly())
}

func TestResolveDarwinHonorsExplicitCuda(t *testing.T) {
	// An explicit CUDA request is respected even on hosts without CUDA
	// support; only the unspecified default changes.
	r := New(WithHostOS("darwin"))
	got, err := r.Resolve(context.Background(), testCatalog(t), mustConstraints(t, "3.8.5", "1.7.1", "11.0"))
	require.NoError(t, err)
	require.NotNil(t, got.Cuda)
	assert.Equal(t, "11.0", got.Cuda.String())
}

func TestResolveNilCatalog(t *testing.T) {
	r := New(WithHostOS("linux"))
	_, err := r.Resolve(context.Background(), nil, catalog.Constraints{})
	require.Error(t, err)
	assert.True(t, cuderrors.HasCode(err, cuderrors.ErrCodeInternal))
}

func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(WithHostOS("linux"))
	_, err := r.Resolve(ctx, testCatalog(t), mustConstraints(t, "", "", ""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveDeterministic(t *testing.T) {
	r := New(WithHostOS("linux"))
	cons := mustConstraints(t, "", "2.0.1", "")
	first, err := r.Resolve(context.Background(), testCatalog(t), cons)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.Resolve(context.Background(), testCatalog(t), cons)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
