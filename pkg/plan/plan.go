/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cudalis/cudalis/pkg/resolver"
)

// StepKind identifies one atomic, cacheable unit of image construction.
type StepKind string

const (
	// StepBaseImage selects and pulls the base image, keyed by CUDA
	// presence and version.
	StepBaseImage StepKind = "base-image"
	// StepOSPackages installs the OS-level build dependencies.
	StepOSPackages StepKind = "os-packages"
	// StepPythonRuntime installs the pinned Python via pyenv.
	StepPythonRuntime StepKind = "python-runtime"
	// StepPipBootstrap upgrades pip and the packaging toolchain.
	StepPipBootstrap StepKind = "pip-bootstrap"
	// StepCudaEnv configures the CUDA runtime environment. GPU plans only.
	StepCudaEnv StepKind = "cuda-env"
	// StepTorchInstall installs the PyTorch wheel for the resolved variant.
	StepTorchInstall StepKind = "torch-install"
	// StepImageFreeze commits the build container to the final image.
	StepImageFreeze StepKind = "image-freeze"
)

// DisplayName renders the kind for human-facing output ("Base Image").
func (k StepKind) DisplayName() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(k), "-", " "))
}

// Step is one build step. Parameters are declarative; the build backend
// translates them into engine operations. CacheKey is derived from the
// accumulated identities of all prior steps plus this step's own kind and
// parameters, so equal plan prefixes yield equal keys and any divergence
// invalidates every later key.
type Step struct {
	Kind       StepKind          `json:"kind" yaml:"kind"`
	Parameters map[string]string `json:"parameters" yaml:"parameters"`
	CacheKey   string            `json:"cacheKey" yaml:"cacheKey"`
}

// Param returns a parameter value, or "" when absent.
func (s Step) Param(key string) string {
	return s.Parameters[key]
}

// Plan is an ordered build step sequence for one resolved triple.
// Immutable once generated; executing code must not reorder or mutate steps
// since cache keys encode prefix identity.
type Plan struct {
	Triple         resolver.Triple `json:"triple" yaml:"triple"`
	Platform       ociv1.Platform  `json:"platform" yaml:"platform"`
	ImageReference string          `json:"imageReference" yaml:"imageReference"`
	Steps          []Step          `json:"steps" yaml:"steps"`
}

// Len returns the number of steps in the plan.
func (p *Plan) Len() int {
	return len(p.Steps)
}

// chainKey derives a step's cache key from the previous step's key, the
// step kind, and the canonicalized (key-sorted) parameters.
func chainKey(prev string, kind StepKind, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	fmt.Fprintf(h, "%s\n%s\n", prev, kind)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\n", k, params[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
