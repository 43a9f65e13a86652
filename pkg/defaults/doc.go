// Package defaults centralizes timeout constants shared across cudalis
// components so operational limits live in one place instead of scattered
// magic numbers.
package defaults
