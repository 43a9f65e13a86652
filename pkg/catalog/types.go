/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package catalog

import (
	"fmt"

	"github.com/cudalis/cudalis/pkg/version"
)

// Entry is one known-good (Python, PyTorch, CUDA) combination. Cuda is nil
// for CPU-only builds. Entries are immutable once the catalog is loaded.
type Entry struct {
	Python version.Version  `json:"python" yaml:"python"`
	Torch  version.Version  `json:"torch" yaml:"torch"`
	Cuda   *version.Version `json:"cuda,omitempty" yaml:"cuda,omitempty"`
}

// CPUOnly reports whether the entry describes a CPU-only build.
func (e Entry) CPUOnly() bool {
	return e.Cuda == nil
}

// String renders the entry as "python=X torch=Y cuda=Z|cpu".
func (e Entry) String() string {
	cuda := "cpu"
	if e.Cuda != nil {
		cuda = e.Cuda.String()
	}
	return fmt.Sprintf("python=%s torch=%s cuda=%s", e.Python, e.Torch, cuda)
}

// key returns a strict identity for duplicate and tie detection. Two entries
// with the same key would be indistinguishable under ordering, which the
// resolver's tie-break forbids, so key collisions are rejected at load time.
func (e Entry) key() string {
	cuda := "cpu"
	if e.Cuda != nil {
		cuda = fmt.Sprintf("%d.%d.%d", e.Cuda.Major, e.Cuda.Minor, e.Cuda.Patch)
	}
	return fmt.Sprintf("%d.%d.%d|%d.%d.%d|%s",
		e.Python.Major, e.Python.Minor, e.Python.Patch,
		e.Torch.Major, e.Torch.Minor, e.Torch.Patch,
		cuda)
}

// Compare orders entries lexicographically by (python, torch, cuda), with an
// absent CUDA version ordering below any present one. This is the total
// order backing "latest supported" resolution.
func (e Entry) Compare(other Entry) int {
	if c := e.Python.CompareStrict(other.Python); c != 0 {
		return c
	}
	if c := e.Torch.CompareStrict(other.Torch); c != 0 {
		return c
	}
	switch {
	case e.Cuda == nil && other.Cuda == nil:
		return 0
	case e.Cuda == nil:
		return -1
	case other.Cuda == nil:
		return 1
	default:
		return e.Cuda.CompareStrict(*other.Cuda)
	}
}

// File is the on-disk catalog document shape, shared by the embedded data
// and external --catalog files.
type File struct {
	// APIVersion guards against incompatible future layouts.
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`

	// Entries lists the known-good version combinations. Versions are
	// strings in the file ("3.8.5") and parsed at load time; cuda is
	// omitted or "cpu" for CPU-only entries.
	Entries []FileEntry `json:"entries" yaml:"entries"`
}

// FileEntry is the raw, pre-validation form of a catalog entry.
type FileEntry struct {
	Python string `json:"python" yaml:"python"`
	Torch  string `json:"torch" yaml:"torch"`
	Cuda   string `json:"cuda,omitempty" yaml:"cuda,omitempty"`
}

// SupportedAPIVersion is the catalog document version this binary reads.
const SupportedAPIVersion = "v1"
