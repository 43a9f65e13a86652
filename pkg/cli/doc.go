// Package cli implements the command-line interface for cudalis.
//
// # Overview
//
// The cudalis CLI resolves (Python, PyTorch, CUDA) version constraints
// against the compatibility catalog, generates deterministic container build
// plans, and executes those plans against a local Docker engine. It is
// designed for ML engineers who need a working PyTorch container for a given
// version combination without hand-tuning Dockerfiles.
//
// # Commands
//
// resolve - Resolve constraints to a concrete triple:
//
//	cudalis resolve [-p PYTHON] [-t TORCH] [-c CUDA|cpu] [--format yaml|json|table]
//
// Unconstrained components resolve to the latest supported version compatible
// with the rest; conflicting constraints fail with a diagnostic naming which
// constraint to relax.
//
// plan - Generate a build plan without executing it:
//
//	cudalis plan -t 1.7.1 -c 11.0 [--name IMAGE] [--output plan.yaml]
//
// Produces the ordered step list with chained cache keys and the target
// image reference.
//
// build - Resolve, plan, and build the image:
//
//	cudalis build -p 3.8 -t 1.7.1 [--verbose] [--keep]
//
// Runs each plan step in a build container via the local docker binary.
// Re-running after a failure reuses completed steps through the cache-key
// chain. Requires docker on PATH.
//
// run - Start a container from a built image:
//
//	cudalis run -t 1.7.1 -c 11.0
//	cudalis run --image cudalis:3.8-pytorch1.7.1-11.0
//
// catalog - Inspect the compatibility catalog:
//
//	cudalis catalog list [--format table]
//
// serve - Serve resolution over HTTP:
//
//	cudalis serve [--port 8080] [--rate-limit 100]
//
// # Global Flags
//
//	--log-level    Log verbosity: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
//	LOG_LEVEL        Set logging verbosity
//	CUDALIS_CATALOG  Path to an external compatibility catalog
//	PORT             Listen port for the serve command
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/cudalis/cudalis/pkg/cli.version=1.0.0'"
package cli
