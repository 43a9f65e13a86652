/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package docker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	cuderrors "github.com/cudalis/cudalis/pkg/errors"
	"github.com/cudalis/cudalis/pkg/orchestrator"
	"github.com/cudalis/cudalis/pkg/plan"
	"github.com/cudalis/cudalis/pkg/registry"
	"github.com/cudalis/cudalis/pkg/version"
)

// Option configures a Backend.
type Option func(*Backend)

// WithRunner overrides the engine command runner.
func WithRunner(r Runner) Option {
	return func(b *Backend) {
		b.runner = r
	}
}

// WithRegistryResolver overrides the base image tag resolver.
func WithRegistryResolver(r *registry.Resolver) Option {
	return func(b *Backend) {
		b.registry = r
	}
}

// WithVerbose mirrors engine output to stderr as steps run.
func WithVerbose(verbose bool) Option {
	return func(b *Backend) {
		b.verbose = verbose
	}
}

// Backend builds images by driving the local docker engine: it creates a
// build container from the base image, execs each step's commands inside
// it, and commits the result. Implements orchestrator.Backend.
//
// The build container is named after the plan's base cache key, so a
// retried plan reattaches to the container from the failed attempt. Layer
// caching is per-process: the backend remembers which cache keys were
// applied to which container and skips completed prefixes on retry.
type Backend struct {
	runner   Runner
	registry *registry.Resolver
	verbose  bool

	mu         sync.Mutex
	containers map[string]string // base cache key -> container name
	applied    map[string]bool   // step cache key -> applied
}

// New creates a docker Backend.
func New(opts ...Option) (*Backend, error) {
	b := &Backend{
		containers: map[string]string{},
		applied:    map[string]bool{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.runner == nil {
		b.runner = NewRunner("docker", b.verbose)
	}
	if b.registry == nil {
		r, err := registry.New("docker.io/nvidia/cuda")
		if err != nil {
			return nil, err
		}
		b.registry = r
	}
	return b, nil
}

// baseKey is the cache key of the plan's base image step, which names the
// build container for every step of the same plan.
func baseKey(step plan.Step, cacheCtx orchestrator.CacheContext) string {
	if step.Kind == plan.StepBaseImage {
		return step.CacheKey
	}
	if len(cacheCtx.PriorKeys) > 0 {
		return cacheCtx.PriorKeys[0]
	}
	return ""
}

// ApplyStep performs one build step, or reports a cache hit when the same
// step already ran against the live build container.
func (b *Backend) ApplyStep(ctx context.Context, step plan.Step, cacheCtx orchestrator.CacheContext) (orchestrator.StepResult, error) {
	base := baseKey(step, cacheCtx)
	if base == "" {
		return orchestrator.StepResult{}, cuderrors.New(cuderrors.ErrCodeInternal,
			"step has no base image in its cache context")
	}

	b.mu.Lock()
	_, haveContainer := b.containers[base]
	cached := b.applied[step.CacheKey] && haveContainer && step.Kind != plan.StepImageFreeze
	b.mu.Unlock()
	if cached {
		return orchestrator.StepResult{Cached: true}, nil
	}

	var output string
	var err error
	switch step.Kind {
	case plan.StepBaseImage:
		output, err = b.applyBaseImage(ctx, step)
	case plan.StepOSPackages:
		output, err = b.execStep(ctx, base, fmt.Sprintf(
			"apt-get update && apt-get install -y %s", step.Param("packages")))
	case plan.StepPythonRuntime:
		output, err = b.applyPythonRuntime(ctx, step, base)
	case plan.StepPipBootstrap:
		output, err = b.execStep(ctx, base, fmt.Sprintf(
			"~/.pyenv/shims/pip install --upgrade %s", step.Param("packages")))
	case plan.StepCudaEnv:
		output, err = b.execStep(ctx, base,
			"echo 'export NVIDIA_VISIBLE_DEVICES=all' >> ~/.bashrc && "+
				"echo 'export NVIDIA_DRIVER_CAPABILITIES=compute,utility' >> ~/.bashrc")
	case plan.StepTorchInstall:
		output, err = b.execStep(ctx, base, fmt.Sprintf(
			"~/.pyenv/shims/pip install torch==%s -f %s",
			step.Param("torch"), step.Param("indexURL")))
	case plan.StepImageFreeze:
		output, err = b.applyImageFreeze(ctx, step, base)
	default:
		return orchestrator.StepResult{}, cuderrors.New(cuderrors.ErrCodeInternal,
			fmt.Sprintf("unknown step kind %q", step.Kind))
	}
	if err != nil {
		return orchestrator.StepResult{Output: output}, err
	}

	b.mu.Lock()
	b.applied[step.CacheKey] = true
	b.mu.Unlock()
	return orchestrator.StepResult{Output: output}, nil
}

// applyBaseImage resolves the base image, pulls it, and starts the build
// container every other step execs into.
func (b *Backend) applyBaseImage(ctx context.Context, step plan.Step) (string, error) {
	image := step.Param("image")
	if image == "" {
		cuda, err := version.Parse(step.Param("cudaVersion"))
		if err != nil {
			return "", cuderrors.Wrap(cuderrors.ErrCodeInternal,
				"base image step carries no usable parameters", err)
		}
		image, err = b.registry.ResolveBaseImage(ctx, cuda, step.Param("flavor"))
		if err != nil {
			return "", err
		}
	}

	slog.Info("pulling base image", "image", image)
	if out, err := b.runner.Run(ctx, "pull", image); err != nil {
		return out, err
	}

	name := containerName(step.CacheKey)
	// A leftover container with the same name blocks creation.
	_, _ = b.runner.Run(ctx, "rm", "-f", name)

	out, err := b.runner.Run(ctx, "run", "-d", "-t", "--name", name, image)
	if err != nil {
		return out, err
	}

	b.mu.Lock()
	b.containers[step.CacheKey] = name
	b.mu.Unlock()
	return out, nil
}

func (b *Backend) applyPythonRuntime(ctx context.Context, step plan.Step, base string) (string, error) {
	python := step.Param("python")
	out, err := b.execStep(ctx, base,
		`curl https://pyenv.run | bash && echo 'export PATH="$HOME/.pyenv/bin:$PATH"' >> ~/.bashrc`)
	if err != nil {
		return out, err
	}
	return b.execStep(ctx, base, fmt.Sprintf(
		"~/.pyenv/bin/pyenv install %s && ~/.pyenv/bin/pyenv global %s", python, python))
}

// applyImageFreeze commits the build container and removes it.
func (b *Backend) applyImageFreeze(ctx context.Context, step plan.Step, base string) (string, error) {
	name, err := b.container(base)
	if err != nil {
		return "", err
	}
	image := step.Param("image")

	slog.Info("committing image", "container", name, "image", image)
	out, err := b.runner.Run(ctx, "commit", name, image)
	if err != nil {
		return out, err
	}

	if rmOut, rmErr := b.runner.Run(ctx, "rm", "-f", name); rmErr != nil {
		slog.Warn("failed to remove build container", "container", name, "error", rmErr, "output", rmOut)
	}
	b.mu.Lock()
	delete(b.containers, base)
	b.mu.Unlock()
	return out, nil
}

// execStep runs one bash command inside the build container.
func (b *Backend) execStep(ctx context.Context, base, command string) (string, error) {
	name, err := b.container(base)
	if err != nil {
		return "", err
	}
	slog.Debug("executing build command", "container", name, "command", command)
	return b.runner.Run(ctx, "exec",
		"-e", "DEBIAN_FRONTEND=noninteractive",
		name, "bash", "-c", command)
}

func (b *Backend) container(base string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	name, ok := b.containers[base]
	if !ok {
		return "", cuderrors.New(cuderrors.ErrCodeInternal,
			"no build container for this plan; base image step must run first")
	}
	return name, nil
}

// Cleanup force-removes any build containers this backend started. Called
// after a failed build when the caller does not want the container kept for
// inspection.
func (b *Backend) Cleanup(ctx context.Context) error {
	b.mu.Lock()
	names := make([]string, 0, len(b.containers))
	for _, name := range b.containers {
		names = append(names, name)
	}
	b.containers = map[string]string{}
	b.applied = map[string]bool{}
	b.mu.Unlock()

	for _, name := range names {
		if out, err := b.runner.Run(ctx, "rm", "-f", name); err != nil {
			return fmt.Errorf("failed to remove container %s: %w (%s)", name, err, out)
		}
	}
	return nil
}

// RunImage pulls an image if needed and starts a container from it.
func (b *Backend) RunImage(ctx context.Context, image, name string) error {
	slog.Info("running container", "image", image, "name", name)
	if out, err := b.runner.Run(ctx, "pull", image); err != nil {
		slog.Debug("pull failed, assuming local image", "image", image, "output", out)
	}
	_, _ = b.runner.Run(ctx, "rm", "-f", name)
	if out, err := b.runner.Run(ctx, "run", "-d", "-t", "--name", name, image); err != nil {
		return fmt.Errorf("failed to run %s: %w (%s)", image, err, out)
	}
	return nil
}

func containerName(key string) string {
	if len(key) > 12 {
		key = key[:12]
	}
	return "cudalis-build-" + key
}
