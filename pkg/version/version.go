/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version represents a semantic version number with Major, Minor, and Patch
// components. It supports flexible precision (1, 2, or 3 components), so
// "11.0" means "11.0.x" when matched against fully specified versions.
// The Precision field indicates how many components are significant for
// comparisons.
type Version struct {
	Major int
	Minor int
	Patch int

	// Precision indicates how many components are significant (1, 2, or 3)
	Precision int
}

// New creates a new Version with the specified major, minor, and patch values.
// The precision is set to 3 (all components significant). Use Parse for
// version strings with fewer components.
func New(major, minor, patch int) Version {
	return Version{
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Precision: 3,
	}
}

// String returns the string representation of the Version respecting its
// precision: "Major" for precision 1, "Major.Minor" for precision 2, and
// "Major.Minor.Patch" for precision 3.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return fmt.Sprintf("%d", v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// MajorMinor returns the "Major.Minor" form regardless of precision.
// PyTorch wheel variants and CUDA base image families are keyed this way.
func (v Version) MajorMinor() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Parse parses a version string into a Version struct.
// Supported formats: "3", "3.8", "3.8.5", "v3.8.5". The "v" prefix is
// optional and stripped if present. Returns an error if the version string
// is empty, has non-numeric or negative components, or has more than three
// components.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	s = strings.TrimPrefix(s, "v")

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	var v Version
	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}

		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	v.Precision = len(parts)
	return v, nil
}

// MustParse parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests. For user input or runtime
// data, always use Parse and handle errors explicitly.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse: %v", err))
	}
	return v
}

// Compare returns an integer comparing two versions:
// -1 if v < other, 0 if v == other, 1 if v > other.
// The comparison is performed up to the lower precision of the two versions,
// so Compare(Parse("11.0"), Parse("11.0.3")) returns 0. Useful for matching
// partially specified versions against concrete ones.
func (v Version) Compare(other Version) int {
	precision := v.Precision
	if other.Precision < precision {
		precision = other.Precision
	}

	if v.Major < other.Major {
		return -1
	}
	if v.Major > other.Major {
		return 1
	}
	if precision == 1 {
		return 0
	}

	if v.Minor < other.Minor {
		return -1
	}
	if v.Minor > other.Minor {
		return 1
	}
	if precision == 2 {
		return 0
	}

	if v.Patch < other.Patch {
		return -1
	}
	if v.Patch > other.Patch {
		return 1
	}
	return 0
}

// CompareStrict compares all three components regardless of precision,
// treating missing components as zero. This is a total order over concrete
// versions and is used for tie-breaking between distinct catalog entries.
func (v Version) CompareStrict(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// Matches reports whether the concrete version other satisfies v when v is
// interpreted as a (possibly partial) version spec. "11.0" matches "11.0.3"
// but "11.0.3" does not match "11.0.1".
func (v Version) Matches(other Version) bool {
	if v.Major != other.Major {
		return false
	}
	if v.Precision == 1 {
		return true
	}
	if v.Minor != other.Minor {
		return false
	}
	if v.Precision == 2 {
		return true
	}
	return v.Patch == other.Patch
}

// Equals returns true if v exactly equals other (all components match),
// ignoring precision.
func (v Version) Equals(other Version) bool {
	return v.Major == other.Major && v.Minor == other.Minor && v.Patch == other.Patch
}

// IsNewer returns true if v is strictly newer than other, respecting
// precision like Compare.
func (v Version) IsNewer(other Version) bool {
	return v.Compare(other) > 0
}

// IsValid returns true if the version has valid values: all components
// non-negative and precision 1, 2, or 3.
func (v Version) IsValid() bool {
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return false
	}
	return v.Precision >= 1 && v.Precision <= 3
}
