/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package defaults

import "time"

// Build timeouts for container build operations.
const (
	// BuildStepTimeout is the maximum duration for a single build step.
	// Installing Python from source inside the build container can take
	// several minutes on slow hosts.
	BuildStepTimeout = 30 * time.Minute

	// ImagePullTimeout is the timeout for pulling the base image.
	ImagePullTimeout = 15 * time.Minute

	// EngineProbeTimeout is the timeout for checking that the container
	// engine is reachable before starting a build.
	EngineProbeTimeout = 10 * time.Second
)

// Registry timeouts for base image tag resolution.
const (
	// RegistryTagListTimeout bounds tag listing against the image registry.
	RegistryTagListTimeout = 30 * time.Second
)

// Server timeouts for the resolver API server.
const (
	// ResolveHandlerTimeout is the timeout for resolve requests.
	ResolveHandlerTimeout = 10 * time.Second

	// PlanHandlerTimeout is the timeout for plan generation requests.
	PlanHandlerTimeout = 10 * time.Second

	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
