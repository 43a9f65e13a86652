/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package catalog

import (
	"fmt"
	"strings"

	"github.com/cudalis/cudalis/pkg/version"
)

// ConstraintKind classifies a user-supplied version restriction.
type ConstraintKind int

const (
	// Unspecified defers entirely to the catalog's "latest supported" rule
	// conditioned on the other constraints.
	Unspecified ConstraintKind = iota
	// Latest explicitly requests the newest supported version.
	// Operationally identical to Unspecified during lookup; the resolver's
	// tie-break picks the newest match either way.
	Latest
	// Exact pins one version, possibly partially specified ("11.0" means
	// any 11.0.x).
	Exact
	// CPUOnly restricts the CUDA component to absent (CPU-only builds).
	// Only meaningful for the CUDA constraint.
	CPUOnly
)

// Constraint restricts one version component of the triple.
type Constraint struct {
	Kind    ConstraintKind
	Version version.Version // set only for Kind == Exact
}

// String renders the constraint the way it would appear on the command line.
func (c Constraint) String() string {
	switch c.Kind {
	case Exact:
		return c.Version.String()
	case Latest:
		return "latest"
	case CPUOnly:
		return "cpu"
	default:
		return "unspecified"
	}
}

// IsExact reports whether the constraint pins a specific version.
func (c Constraint) IsExact() bool {
	return c.Kind == Exact
}

// matchesVersion reports whether a concrete version satisfies the
// constraint. Used for the python and torch components, which are always
// present.
func (c Constraint) matchesVersion(v version.Version) bool {
	switch c.Kind {
	case Exact:
		return c.Version.Matches(v)
	default:
		return true
	}
}

// matchesCuda reports whether an optional CUDA version satisfies the
// constraint. A nil CUDA (CPU-only entry) satisfies Unspecified, Latest, and
// CPUOnly, but never an Exact CUDA pin.
func (c Constraint) matchesCuda(v *version.Version) bool {
	switch c.Kind {
	case Exact:
		return v != nil && c.Version.Matches(*v)
	case CPUOnly:
		return v == nil
	default:
		return true
	}
}

// ParseConstraint converts a CLI flag value into a Constraint.
// An empty string means Unspecified, "latest" means Latest, anything else
// must parse as a (possibly partial) version.
func ParseConstraint(s string) (Constraint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Constraint{Kind: Unspecified}, nil
	case "latest":
		return Constraint{Kind: Latest}, nil
	}

	v, err := version.Parse(strings.TrimSpace(s))
	if err != nil {
		return Constraint{}, fmt.Errorf("invalid version constraint %q: %w", s, err)
	}
	return Constraint{Kind: Exact, Version: v}, nil
}

// ParseCudaConstraint converts a CLI flag value into a CUDA Constraint.
// In addition to the forms accepted by ParseConstraint, "cpu" and "none"
// request a CPU-only build.
func ParseCudaConstraint(s string) (Constraint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu", "none":
		return Constraint{Kind: CPUOnly}, nil
	}
	return ParseConstraint(s)
}

// Constraints bundles the per-component restrictions for one resolution.
type Constraints struct {
	Python Constraint
	Torch  Constraint
	Cuda   Constraint
}

// String renders all three constraints for diagnostics.
func (c Constraints) String() string {
	return fmt.Sprintf("python=%s torch=%s cuda=%s", c.Python, c.Torch, c.Cuda)
}
