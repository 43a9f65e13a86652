/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package resolver selects a single concrete (Python, PyTorch, CUDA)
// triple from the compatibility catalog given user constraints.
//
// Resolution is deterministic: when multiple catalog entries satisfy the
// constraints, the lexicographically greatest (python, torch, cuda)
// combination wins, so unconstrained components resolve to the latest
// tested versions. An empty result is diagnosed as either an unknown
// version (the constrained version appears nowhere in the catalog) or an
// incompatible combination (each version exists, but not jointly), with
// the over-narrowing constraints named in the error.
package resolver
