/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package orchestrator executes build plans against an external
// container-build backend.
//
// Steps run strictly in plan order because cache keys encode prefix
// identity. The first failure halts the build; completed steps remain
// recorded so a retry of the same plan resumes from the failed step.
// Cancellation applies only at step boundaries so the in-flight step either
// completes or fails atomically.
package orchestrator
