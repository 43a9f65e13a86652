/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cudalis/cudalis/pkg/catalog"
	"github.com/cudalis/cudalis/pkg/serializer"
)

func pythonFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "python",
		Aliases: []string{"p"},
		Usage:   `Python version constraint (e.g., 3.8, 3.8.5, "latest"; omit for latest supported)`,
	}
}

func torchFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "torch",
		Aliases: []string{"t"},
		Usage:   `PyTorch version constraint (e.g., 1.7.1, "latest"; omit for latest supported)`,
	}
}

func cudaFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "cuda",
		Aliases: []string{"c"},
		Usage:   `CUDA version constraint (e.g., 11.0, "latest", "cpu" for a CPU-only build)`,
	}
}

func catalogFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "catalog",
		Usage:   "Path or URL to an external compatibility catalog (defaults to the embedded one)",
		Sources: cli.EnvVars("CUDALIS_CATALOG"),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write output to file (defaults to stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
		Value: string(serializer.FormatYAML),
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Mirror build engine output to stderr",
	}
}

// outputFormat parses and validates the --format flag.
func outputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// loadCatalog loads the embedded catalog, or the one named by --catalog.
func loadCatalog(cmd *cli.Command) (*catalog.Catalog, error) {
	if path := cmd.String("catalog"); path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Load()
}

// constraintsFromCmd parses the -p/-t/-c flags. Missing flags mean
// unconstrained.
func constraintsFromCmd(cmd *cli.Command) (catalog.Constraints, error) {
	python, err := catalog.ParseConstraint(cmd.String("python"))
	if err != nil {
		return catalog.Constraints{}, fmt.Errorf("python: %w", err)
	}
	torch, err := catalog.ParseConstraint(cmd.String("torch"))
	if err != nil {
		return catalog.Constraints{}, fmt.Errorf("torch: %w", err)
	}
	cuda, err := catalog.ParseCudaConstraint(cmd.String("cuda"))
	if err != nil {
		return catalog.Constraints{}, fmt.Errorf("cuda: %w", err)
	}
	return catalog.Constraints{Python: python, Torch: torch, Cuda: cuda}, nil
}
