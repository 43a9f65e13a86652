// Package errors provides structured error types shared across cudalis
// components.
//
// Every terminal failure carries an ErrorCode so callers (the CLI and the API
// server) can map it to an exit code or HTTP status without string matching.
// The taxonomy mirrors the resolution pipeline: CATALOG_LOAD for bad catalog
// data at startup, UNKNOWN_VERSION and NO_COMPATIBLE_VERSION for resolution
// failures, UNSUPPORTED_PLATFORM for plan-generation consistency defects, and
// SERVICE_UNAVAILABLE for unreachable external collaborators.
//
// StructuredError supports errors.Is and errors.As via Unwrap, so wrapped
// causes remain inspectable.
package errors
