/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package docker adapts the local docker engine to the orchestrator's
// build backend capability. Steps become engine operations: pull and run
// for the base image, exec for each install step, commit for the freeze.
package docker
