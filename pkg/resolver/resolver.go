/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/cudalis/cudalis/pkg/catalog"
	cuderrors "github.com/cudalis/cudalis/pkg/errors"
	"github.com/cudalis/cudalis/pkg/version"
)

// Triple is a concrete, catalog-backed (Python, PyTorch, CUDA) combination.
// Cuda is nil for CPU-only builds. A Triple is only ever constructed from a
// catalog entry; the resolver never fabricates untested combinations.
type Triple struct {
	Python version.Version  `json:"python" yaml:"python"`
	Torch  version.Version  `json:"torch" yaml:"torch"`
	Cuda   *version.Version `json:"cuda,omitempty" yaml:"cuda,omitempty"`
}

// CPUOnly reports whether the triple describes a CPU-only build.
func (t Triple) CPUOnly() bool {
	return t.Cuda == nil
}

// String renders the triple as "python=X torch=Y cuda=Z|cpu".
func (t Triple) String() string {
	cuda := "cpu"
	if t.Cuda != nil {
		cuda = t.Cuda.String()
	}
	return fmt.Sprintf("python=%s torch=%s cuda=%s", t.Python, t.Torch, cuda)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHostOS overrides the host operating system used for platform rules.
// Defaults to runtime.GOOS; tests pin it for host-independent behavior.
func WithHostOS(goos string) Option {
	return func(r *Resolver) {
		r.hostOS = goos
	}
}

// Resolver turns user constraints into a single concrete Triple by
// consulting a read-only catalog. A Resolver is stateless apart from its
// options and safe for concurrent use.
type Resolver struct {
	hostOS string
}

// New creates a Resolver with the given options.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		hostOS: runtime.GOOS,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the single concrete triple satisfying the constraints, or
// fails explicitly. The catalog is passed explicitly rather than held as
// hidden state so concurrent invocations share nothing mutable.
//
// Failure modes:
//   - UNKNOWN_VERSION: an exact constraint matches no catalog entry at all
//     for that component.
//   - NO_COMPATIBLE_VERSION: every constrained version exists individually,
//     but the combination has no joint match. The error context names the
//     constraint(s) that over-narrowed the search.
//
// When multiple candidates remain, the lexicographically greatest
// (python, torch, cuda) entry wins; absent CUDA orders below any present
// CUDA. The catalog guarantees this order is total, so resolution is
// deterministic.
func (r *Resolver) Resolve(ctx context.Context, cat *catalog.Catalog, cons catalog.Constraints) (Triple, error) {
	if cat == nil {
		return Triple{}, cuderrors.New(cuderrors.ErrCodeInternal, "catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return Triple{}, err
	}

	start := time.Now()

	// Hosts without CUDA support cannot run GPU images, so an unspecified
	// CUDA constraint defaults to a CPU-only build there.
	if cons.Cuda.Kind == catalog.Unspecified && r.hostOS == "darwin" {
		slog.Debug("host has no CUDA support, defaulting to CPU-only build", "hostOS", r.hostOS)
		cons.Cuda = catalog.Constraint{Kind: catalog.CPUOnly}
	}

	slog.Debug("resolving versions", "constraints", cons.String())

	candidates := cat.Lookup(cons)
	if len(candidates) == 0 {
		resolutionsTotal.WithLabelValues(outcomeFailure).Inc()
		return Triple{}, r.diagnoseEmpty(cat, cons)
	}

	// Lookup returns entries in ascending (python, torch, cuda) order, so
	// the last candidate is the latest supported combination.
	chosen := candidates[len(candidates)-1]

	resolutionsTotal.WithLabelValues(outcomeSuccess).Inc()
	resolveDuration.Observe(time.Since(start).Seconds())

	slog.Info("resolved versions",
		"triple", chosen.String(),
		"candidates", len(candidates),
	)

	return Triple{
		Python: chosen.Python,
		Torch:  chosen.Torch,
		Cuda:   chosen.Cuda,
	}, nil
}

// diagnoseEmpty distinguishes versions that do not exist anywhere in the
// catalog from combinations that do not exist jointly, and names the
// narrowing constraints for the latter.
func (r *Resolver) diagnoseEmpty(cat *catalog.Catalog, cons catalog.Constraints) error {
	var unknown []string
	if !cat.KnowsPython(cons.Python) {
		unknown = append(unknown, fmt.Sprintf("python %s", cons.Python))
	}
	if !cat.KnowsTorch(cons.Torch) {
		unknown = append(unknown, fmt.Sprintf("torch %s", cons.Torch))
	}
	if !cat.KnowsCuda(cons.Cuda) {
		unknown = append(unknown, fmt.Sprintf("cuda %s", cons.Cuda))
	}
	if len(unknown) > 0 {
		return cuderrors.NewWithContext(cuderrors.ErrCodeUnknownVersion,
			fmt.Sprintf("no catalog entry for %s", strings.Join(unknown, ", ")),
			map[string]any{"constraints": cons.String()})
	}

	narrowing := r.findNarrowing(cat, cons)
	return cuderrors.NewWithContext(cuderrors.ErrCodeNoCompatibleVersion,
		fmt.Sprintf("no compatible combination for the given constraints; relaxing %s may help",
			strings.Join(narrowing, " or ")),
		map[string]any{
			"constraints": cons.String(),
			"narrowing":   narrowing,
		})
}

// findNarrowing identifies which specified constraint(s) over-narrowed the
// search: any constraint whose removal yields at least one match. If no
// single constraint is responsible, all specified constraints are reported.
func (r *Resolver) findNarrowing(cat *catalog.Catalog, cons catalog.Constraints) []string {
	unspecified := catalog.Constraint{Kind: catalog.Unspecified}

	var narrowing []string
	if specified(cons.Python) {
		relaxed := cons
		relaxed.Python = unspecified
		if len(cat.Lookup(relaxed)) > 0 {
			narrowing = append(narrowing, fmt.Sprintf("python (%s)", cons.Python))
		}
	}
	if specified(cons.Torch) {
		relaxed := cons
		relaxed.Torch = unspecified
		if len(cat.Lookup(relaxed)) > 0 {
			narrowing = append(narrowing, fmt.Sprintf("torch (%s)", cons.Torch))
		}
	}
	if specified(cons.Cuda) {
		relaxed := cons
		relaxed.Cuda = unspecified
		if len(cat.Lookup(relaxed)) > 0 {
			narrowing = append(narrowing, fmt.Sprintf("cuda (%s)", cons.Cuda))
		}
	}

	if len(narrowing) > 0 {
		return narrowing
	}

	// No single constraint accounts for the empty result; report them all.
	if specified(cons.Python) {
		narrowing = append(narrowing, fmt.Sprintf("python (%s)", cons.Python))
	}
	if specified(cons.Torch) {
		narrowing = append(narrowing, fmt.Sprintf("torch (%s)", cons.Torch))
	}
	if specified(cons.Cuda) {
		narrowing = append(narrowing, fmt.Sprintf("cuda (%s)", cons.Cuda))
	}
	return narrowing
}

func specified(c catalog.Constraint) bool {
	return c.Kind == catalog.Exact || c.Kind == catalog.CPUOnly
}
