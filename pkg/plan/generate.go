/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package plan

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"

	cuderrors "github.com/cudalis/cudalis/pkg/errors"
	"github.com/cudalis/cudalis/pkg/resolver"
)

const (
	// cpuBaseImage is the base image for CPU-only builds.
	cpuBaseImage = "docker.io/library/ubuntu:22.04"
	// cudaRepository hosts the GPU base images; the concrete tag is resolved
	// against the registry at build time, not at plan time.
	cudaRepository = "docker.io/nvidia/cuda"
	// cudaImageFlavor selects the -devel Ubuntu variants of nvidia/cuda.
	cudaImageFlavor = "devel-ubuntu"

	// wheelIndexBase is the PyTorch wheel index; the accelerator variant is
	// appended ("cpu", "cu110", ...).
	wheelIndexBase = "https://download.pytorch.org/whl"

	// osPackages are the build dependencies installed into the base image.
	// pyenv compiles Python from source, so the list covers its build
	// requirements.
	osPackages = "curl build-essential libffi-dev libssl-dev zlib1g-dev " +
		"liblzma-dev libbz2-dev libreadline-dev libsqlite3-dev libopencv-dev tk-dev git"
)

// Option configures a Generator.
type Option func(*Generator)

// WithPlatform overrides the target image platform. Defaults to linux/amd64,
// the only platform PyTorch publishes GPU wheels for.
func WithPlatform(p ociv1.Platform) Option {
	return func(g *Generator) {
		g.platform = p
	}
}

// WithImageName overrides the derived image reference for the final plan.
func WithImageName(name string) Option {
	return func(g *Generator) {
		g.imageName = name
	}
}

// Generator produces build plans for resolved triples. Generation is a pure
// function of the triple and the generator's options; no I/O occurs.
type Generator struct {
	platform  ociv1.Platform
	imageName string
}

// New creates a Generator with the given options.
func New(opts ...Option) *Generator {
	g := &Generator{
		platform: ociv1.Platform{OS: "linux", Architecture: "amd64"},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate turns a resolved triple into an ordered, cache-keyed build plan.
// Deterministic: equal triples and options always yield step sequences equal
// in order and content. The only failure mode is UNSUPPORTED_PLATFORM, an
// internal-consistency defect meaning the triple has no build recipe for the
// target platform.
func (g *Generator) Generate(triple resolver.Triple) (*Plan, error) {
	if err := g.checkPlatform(triple); err != nil {
		return nil, err
	}

	image := g.imageName
	if image == "" {
		image = ImageName(triple)
	}
	if _, err := reference.ParseDockerRef(image); err != nil {
		return nil, cuderrors.WrapWithContext(cuderrors.ErrCodeInvalidRequest,
			"invalid image reference", err, map[string]any{"image": image})
	}

	variant := wheelVariant(triple)

	p := &Plan{
		Triple:         triple,
		Platform:       g.platform,
		ImageReference: image,
	}

	if triple.CPUOnly() {
		p.append(StepBaseImage, map[string]string{
			"image": cpuBaseImage,
		})
	} else {
		p.append(StepBaseImage, map[string]string{
			"repository":  cudaRepository,
			"cudaVersion": triple.Cuda.MajorMinor(),
			"flavor":      cudaImageFlavor,
		})
	}

	p.append(StepOSPackages, map[string]string{
		"manager":  "apt-get",
		"packages": osPackages,
	})

	p.append(StepPythonRuntime, map[string]string{
		"installer": "pyenv",
		"python":    triple.Python.String(),
	})

	p.append(StepPipBootstrap, map[string]string{
		"python":   triple.Python.String(),
		"packages": "pip setuptools wheel",
	})

	if !triple.CPUOnly() {
		p.append(StepCudaEnv, map[string]string{
			"cudaVersion": triple.Cuda.MajorMinor(),
		})
	}

	p.append(StepTorchInstall, map[string]string{
		"torch":    triple.Torch.String(),
		"variant":  variant,
		"indexURL": fmt.Sprintf("%s/%s", wheelIndexBase, variant),
	})

	p.append(StepImageFreeze, map[string]string{
		"image": image,
	})

	return p, nil
}

// append adds a step with its cache key chained off the previous step.
func (p *Plan) append(kind StepKind, params map[string]string) {
	prev := ""
	if n := len(p.Steps); n > 0 {
		prev = p.Steps[n-1].CacheKey
	}
	p.Steps = append(p.Steps, Step{
		Kind:       kind,
		Parameters: params,
		CacheKey:   chainKey(prev, kind, params),
	})
}

// checkPlatform asserts the triple has a build recipe for the target
// platform. Failures here indicate catalog and recipe sets drifted apart.
func (g *Generator) checkPlatform(triple resolver.Triple) error {
	if !triple.Python.IsValid() || !triple.Torch.IsValid() {
		return cuderrors.NewWithContext(cuderrors.ErrCodeUnsupportedPlatform,
			"triple carries invalid versions", map[string]any{"triple": triple.String()})
	}
	if g.platform.OS != "linux" {
		return cuderrors.NewWithContext(cuderrors.ErrCodeUnsupportedPlatform,
			fmt.Sprintf("no build recipe for OS %q", g.platform.OS),
			map[string]any{"triple": triple.String()})
	}
	if !triple.CPUOnly() && g.platform.Architecture != "amd64" {
		return cuderrors.NewWithContext(cuderrors.ErrCodeUnsupportedPlatform,
			fmt.Sprintf("no GPU build recipe for architecture %q", g.platform.Architecture),
			map[string]any{"triple": triple.String()})
	}
	return nil
}

// ImageName derives the default image reference for a triple:
// cudalis:<python major.minor>-pytorch<torch>-<cuda major.minor|cpu>.
func ImageName(triple resolver.Triple) string {
	accel := "cpu"
	if triple.Cuda != nil {
		accel = triple.Cuda.MajorMinor()
	}
	return fmt.Sprintf("cudalis:%s-pytorch%s-%s",
		triple.Python.MajorMinor(), triple.Torch, accel)
}

// wheelVariant derives the PyTorch wheel index variant for a triple:
// "cpu" for CPU-only builds, "cu<major><minor>" otherwise (11.0 -> cu110).
func wheelVariant(triple resolver.Triple) string {
	if triple.CPUOnly() {
		return "cpu"
	}
	return "cu" + strings.ReplaceAll(triple.Cuda.MajorMinor(), ".", "")
}
