/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package server exposes version resolution and plan generation over a
// small HTTP API.
//
// Endpoints:
//
//	GET /v1/resolve  - resolve constraints to a concrete triple
//	GET /v1/plan     - resolve and generate the build plan
//	GET /v1/catalog  - the full compatibility table
//	GET /healthz     - liveness
//	GET /readyz      - readiness
//	GET /metrics     - Prometheus metrics
//
// API routes pass through request ID, panic recovery, rate limit, logging,
// and metrics middleware. Builds are intentionally not exposed; they need a
// local container engine and belong to the CLI.
package server
