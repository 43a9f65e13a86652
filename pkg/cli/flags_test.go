/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/cudalis/cudalis/pkg/catalog"
	"github.com/cudalis/cudalis/pkg/serializer"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantError  bool
	}{
		{
			name:       "yaml",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "json",
			format:     "json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "table",
			format:     "table",
			wantFormat: serializer.FormatTable,
		},
		{
			name:      "unknown format",
			format:    "xml",
			wantError: true,
		},
		{
			name:      "empty format",
			format:    "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := outputFormat(c)
					if (err != nil) != tt.wantError {
						t.Errorf("outputFormat() error = %v, wantError %v", err, tt.wantError)
						return nil
					}
					if !tt.wantError && got != tt.wantFormat {
						t.Errorf("outputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestConstraintsFromCmd(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantError bool
		validate  func(*testing.T, catalog.Constraints)
	}{
		{
			name: "no flags means unconstrained",
			args: []string{"cmd"},
			validate: func(t *testing.T, c catalog.Constraints) {
				if c.Python.Kind != catalog.Unspecified {
					t.Errorf("Python.Kind = %v, want Unspecified", c.Python.Kind)
				}
				if c.Torch.Kind != catalog.Unspecified {
					t.Errorf("Torch.Kind = %v, want Unspecified", c.Torch.Kind)
				}
				if c.Cuda.Kind != catalog.Unspecified {
					t.Errorf("Cuda.Kind = %v, want Unspecified", c.Cuda.Kind)
				}
			},
		},
		{
			name: "full triple",
			args: []string{"cmd", "--python", "3.8.5", "--torch", "1.7.1", "--cuda", "11.0"},
			validate: func(t *testing.T, c catalog.Constraints) {
				if got := c.Python.String(); got != "3.8.5" {
					t.Errorf("Python = %v, want 3.8.5", got)
				}
				if got := c.Torch.String(); got != "1.7.1" {
					t.Errorf("Torch = %v, want 1.7.1", got)
				}
				if got := c.Cuda.String(); got != "11.0" {
					t.Errorf("Cuda = %v, want 11.0", got)
				}
			},
		},
		{
			name: "short aliases",
			args: []string{"cmd", "-p", "3.10", "-t", "2.0.1", "-c", "cpu"},
			validate: func(t *testing.T, c catalog.Constraints) {
				if got := c.Python.String(); got != "3.10" {
					t.Errorf("Python = %v, want 3.10", got)
				}
				if c.Cuda.Kind != catalog.CPUOnly {
					t.Errorf("Cuda.Kind = %v, want CPUOnly", c.Cuda.Kind)
				}
			},
		},
		{
			name: "latest keyword",
			args: []string{"cmd", "--torch", "latest"},
			validate: func(t *testing.T, c catalog.Constraints) {
				if c.Torch.Kind != catalog.Latest {
					t.Errorf("Torch.Kind = %v, want Latest", c.Torch.Kind)
				}
			},
		},
		{
			name:      "invalid python version",
			args:      []string{"cmd", "--python", "not-a-version"},
			wantError: true,
		},
		{
			name:      "invalid cuda version",
			args:      []string{"cmd", "--cuda", "11.x"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					pythonFlag(),
					torchFlag(),
					cudaFlag(),
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := constraintsFromCmd(c)
					if (err != nil) != tt.wantError {
						t.Errorf("constraintsFromCmd() error = %v, wantError %v", err, tt.wantError)
						return nil
					}
					if tt.validate != nil && err == nil {
						tt.validate(t, got)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantError bool
	}{
		{
			name: "embedded catalog",
			args: []string{"cmd"},
		},
		{
			name:      "missing catalog file",
			args:      []string{"cmd", "--catalog", "/nonexistent/catalog.yaml"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{catalogFlag()},
				Action: func(_ context.Context, c *cli.Command) error {
					cat, err := loadCatalog(c)
					if (err != nil) != tt.wantError {
						t.Errorf("loadCatalog() error = %v, wantError %v", err, tt.wantError)
						return nil
					}
					if err == nil && cat.Len() == 0 {
						t.Error("loadCatalog() returned empty catalog")
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}
