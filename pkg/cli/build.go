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

	"github.com/cudalis/cudalis/pkg/backend/docker"
	"github.com/cudalis/cudalis/pkg/orchestrator"
	"github.com/cudalis/cudalis/pkg/plan"
	"github.com/cudalis/cudalis/pkg/resolver"
	"github.com/cudalis/cudalis/pkg/serializer"
)

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:                  "build",
		EnableShellCompletion: true,
		Usage:                 "Resolve versions and build the container image",
		Description: `Run the full pipeline: resolve the version constraints, generate the
build plan, and execute it against the local docker engine. The built image
is named cudalis:<python>-pytorch<torch>-<cuda|cpu> unless --name overrides
it.

Interrupting a build (Ctrl-C) stops at the next step boundary; the in-flight
step completes or fails atomically. Re-running the same build resumes from
the completed steps.

Examples:
  cudalis build -t 1.7.1 -c 11.0
  cudalis build -p 3.10 -c cpu --verbose
  cudalis build -t 2.5.1 --name registry.example.com/ml/torch:2.5.1`,
		Flags: []cli.Flag{
			pythonFlag(),
			torchFlag(),
			cudaFlag(),
			catalogFlag(),
			outputFlag(),
			formatFlag(),
			verboseFlag(),
			&cli.StringFlag{
				Name:  "name",
				Usage: "Override the derived image name",
			},
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "Keep the build container after a failed build for inspection",
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

			backend, err := docker.New(docker.WithVerbose(cmd.Bool("verbose")))
			if err != nil {
				return err
			}

			result, err := orchestrator.New(backend).Execute(ctx, p)
			if result != nil {
				ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
				defer closeWriter(ser)
				if serr := ser.Serialize(result); serr != nil {
					slog.Warn("failed to write build result", "error", serr)
				}
			}
			if err != nil {
				return err
			}

			if !result.Success {
				if !cmd.Bool("keep") {
					if cerr := backend.Cleanup(context.WithoutCancel(ctx)); cerr != nil {
						slog.Warn("failed to clean up build container", "error", cerr)
					}
				}
				return fmt.Errorf("build failed at step %d: %s", result.FailedStep, result.Diagnostic)
			}
			return nil
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Run a container from a previously built image",
		Description: `Start a container from a cudalis image. The image reference defaults to
the one a build with the same constraints would produce.

Examples:
  cudalis run -p 3.8 -t 1.7.1 -c 11.0
  cudalis run --image cudalis:3.8-pytorch1.7.1-11.0 --container torch-dev`,
		Flags: []cli.Flag{
			pythonFlag(),
			torchFlag(),
			cudaFlag(),
			catalogFlag(),
			verboseFlag(),
			&cli.StringFlag{
				Name:  "image",
				Usage: "Image reference to run (overrides constraint-derived name)",
			},
			&cli.StringFlag{
				Name:  "container",
				Usage: "Container name",
				Value: "cudalis",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			image := cmd.String("image")
			if image == "" {
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
				image = plan.ImageName(triple)
			}

			backend, err := docker.New(docker.WithVerbose(cmd.Bool("verbose")))
			if err != nil {
				return err
			}
			return backend.RunImage(ctx, image, cmd.String("container"))
		},
	}
}
