/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/cudalis/cudalis/pkg/plan"
	"github.com/cudalis/cudalis/pkg/resolver"
	"github.com/cudalis/cudalis/pkg/serializer"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		EnableShellCompletion: true,
		Usage:                 "Resolve version constraints to a concrete (Python, PyTorch, CUDA) triple",
		Description: `Resolve partial or full version constraints against the compatibility
catalog. Unconstrained components resolve to the latest supported version
compatible with the rest.

Examples:
  cudalis resolve -t 1.7.1
  cudalis resolve -p 3.8 -t 1.7.1 -c 11.0
  cudalis resolve -c cpu --format json`,
		Flags: []cli.Flag{
			pythonFlag(),
			torchFlag(),
			cudaFlag(),
			catalogFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			cons, err := constraintsFromCmd(cmd)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(cmd)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			triple, err := resolver.New().Resolve(ctx, cat, cons)
			if err != nil {
				return err
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)

			return ser.Serialize(struct {
				Triple resolver.Triple `json:"triple" yaml:"triple"`
				Image  string          `json:"image" yaml:"image"`
			}{
				Triple: triple,
				Image:  plan.ImageName(triple),
			})
		},
	}
}

// closeWriter closes an output writer, logging instead of failing since the
// payload has already been written.
func closeWriter(c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close output writer", "error", err)
	}
}
