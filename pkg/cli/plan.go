/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cudalis/cudalis/pkg/plan"
	"github.com/cudalis/cudalis/pkg/resolver"
	"github.com/cudalis/cudalis/pkg/serializer"
)

func planCmd() *cli.Command {
	return &cli.Command{
		Name:                  "plan",
		EnableShellCompletion: true,
		Usage:                 "Generate the build plan for the resolved versions without building",
		Description: `Resolve versions and print the deterministic build plan: the ordered,
cache-keyed steps a build would execute. Useful for inspecting what a build
will do, and for diffing plans across constraint changes.

Examples:
  cudalis plan -t 1.7.1 -c 11.0
  cudalis plan -c cpu --format json`,
		Flags: []cli.Flag{
			pythonFlag(),
			torchFlag(),
			cudaFlag(),
			catalogFlag(),
			outputFlag(),
			formatFlag(),
			&cli.StringFlag{
				Name:  "name",
				Usage: "Override the derived image name",
			},
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

			var genOpts []plan.Option
			if imgName := cmd.String("name"); imgName != "" {
				genOpts = append(genOpts, plan.WithImageName(imgName))
			}

			p, err := plan.New(genOpts...).Generate(triple)
			if err != nil {
				return err
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)

			return ser.Serialize(p)
		},
	}
}
