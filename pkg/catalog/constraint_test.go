/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ConstraintKind
		version  string
		wantErr  bool
	}{
		{name: "empty means unspecified", input: "", expected: Unspecified},
		{name: "whitespace means unspecified", input: "  ", expected: Unspecified},
		{name: "latest", input: "latest", expected: Latest},
		{name: "latest mixed case", input: "Latest", expected: Latest},
		{name: "exact full", input: "3.8.5", expected: Exact, version: "3.8.5"},
		{name: "exact partial", input: "11.0", expected: Exact, version: "11.0"},
		{name: "exact major", input: "2", expected: Exact, version: "2"},
		{name: "invalid", input: "not-a-version", wantErr: true},
		{name: "too many components", input: "1.2.3.4", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseConstraint(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, c.Kind)
			if tc.expected == Exact {
				assert.Equal(t, tc.version, c.Version.String())
			}
		})
	}
}

func TestParseCudaConstraint(t *testing.T) {
	for _, s := range []string{"cpu", "CPU", "none", " none "} {
		c, err := ParseCudaConstraint(s)
		require.NoError(t, err)
		assert.Equal(t, CPUOnly, c.Kind, "input %q", s)
	}

	c, err := ParseCudaConstraint("11.0")
	require.NoError(t, err)
	assert.Equal(t, Exact, c.Kind)

	c, err = ParseCudaConstraint("")
	require.NoError(t, err)
	assert.Equal(t, Unspecified, c.Kind)
}

func TestConstraintString(t *testing.T) {
	tests := []struct {
		c        Constraint
		expected string
	}{
		{Constraint{Kind: Unspecified}, "unspecified"},
		{Constraint{Kind: Latest}, "latest"},
		{Constraint{Kind: CPUOnly}, "cpu"},
		{mustCudaString("11.0"), "11.0"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, tc.c.String())
	}
}

func mustCudaString(s string) Constraint {
	c, err := ParseCudaConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}
