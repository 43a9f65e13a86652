/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package plan turns a resolved (Python, PyTorch, CUDA) triple into an
// ordered build plan.
//
// Generation is pure and deterministic. Each step carries a cache key
// chained over all prior steps, so the orchestrator and backend can skip
// already-built prefixes without any risk of semantic drift; reordering
// steps would change every downstream key. CPU-only triples produce plans
// with no CUDA step and the CPU wheel index.
package plan
