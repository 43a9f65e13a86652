/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cudalis/cudalis/pkg/serializer"
)

func catalogCmd() *cli.Command {
	return &cli.Command{
		Name:                  "catalog",
		EnableShellCompletion: true,
		Usage:                 "Inspect the compatibility catalog",
		Commands: []*cli.Command{
			catalogListCmd(),
		},
	}
}

func catalogListCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all known (Python, PyTorch, CUDA) combinations",
		Description: `Print every entry of the compatibility catalog in ascending
(python, torch, cuda) order.

Examples:
  cudalis catalog list
  cudalis catalog list --format table
  cudalis catalog list --catalog ./catalog.yaml`,
		Flags: []cli.Flag{
			catalogFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(cmd)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)

			return ser.Serialize(cat.Entries())
		},
	}
}
