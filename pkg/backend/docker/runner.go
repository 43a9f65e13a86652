/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Runner executes an engine CLI command and returns its combined output.
// Tests substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// execRunner shells out to the docker CLI.
type execRunner struct {
	binary  string
	verbose bool
}

// NewRunner returns a Runner driving the given engine binary ("docker").
// When verbose is true, command output is mirrored to stderr as it streams.
func NewRunner(binary string, verbose bool) Runner {
	return &execRunner{binary: binary, verbose: verbose}
}

func (r *execRunner) Run(ctx context.Context, args ...string) (string, error) {
	slog.Debug("running engine command", "binary", r.binary, "args", strings.Join(args, " "))

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, args...)
	if r.verbose {
		cmd.Stdout = io.MultiWriter(&buf, os.Stderr)
		cmd.Stderr = io.MultiWriter(&buf, os.Stderr)
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	if err := cmd.Run(); err != nil {
		return buf.String(), fmt.Errorf("%s %s: %w", r.binary, args[0], err)
	}
	return buf.String(), nil
}
