/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package registry resolves partially specified base image references to
// concrete tags by listing repository tags, with pinned offline fallbacks.
package registry
