/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sort"

	"gopkg.in/yaml.v3"

	cuderrors "github.com/cudalis/cudalis/pkg/errors"
	"github.com/cudalis/cudalis/pkg/serializer"
	"github.com/cudalis/cudalis/pkg/version"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

// Catalog is the authoritative, read-only set of known-good version triples.
// It is constructed once at startup and safe for concurrent lookups; nothing
// mutates it after New returns. Pass it explicitly to consumers instead of
// relying on package-level state.
type Catalog struct {
	entries []Entry
}

// Load parses and validates the compatibility catalog shipped with the
// binary. Malformed or inconsistent data is a defect in the release, so the
// returned error carries ErrCodeCatalogLoad and should be fatal.
func Load() (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(embeddedCatalog, &f); err != nil {
		return nil, cuderrors.Wrap(cuderrors.ErrCodeCatalogLoad,
			"failed to unmarshal embedded catalog", err)
	}
	return New(f)
}

// LoadFile loads a catalog from a local path or HTTP/HTTPS URL, replacing
// the embedded data. Useful for testing newer compatibility tables without
// rebuilding the binary.
func LoadFile(path string) (*Catalog, error) {
	f, err := serializer.FromFile[File](path)
	if err != nil {
		return nil, cuderrors.Wrap(cuderrors.ErrCodeCatalogLoad,
			fmt.Sprintf("failed to read catalog from %q", path), err)
	}
	return New(*f)
}

// New validates a catalog document and builds the queryable Catalog.
// Rejected eagerly, never surfaced mid-resolution:
//   - unsupported apiVersion
//   - unparseable version strings
//   - duplicate triples (which would make the resolution tie-break ambiguous)
func New(f File) (*Catalog, error) {
	if f.APIVersion != SupportedAPIVersion {
		return nil, cuderrors.NewWithContext(cuderrors.ErrCodeCatalogLoad,
			"unsupported catalog apiVersion", map[string]any{
				"got":       f.APIVersion,
				"supported": SupportedAPIVersion,
			})
	}

	if len(f.Entries) == 0 {
		return nil, cuderrors.New(cuderrors.ErrCodeCatalogLoad, "catalog has no entries")
	}

	entries := make([]Entry, 0, len(f.Entries))
	seen := make(map[string]int, len(f.Entries))

	for i, raw := range f.Entries {
		entry, err := parseEntry(raw)
		if err != nil {
			return nil, cuderrors.WrapWithContext(cuderrors.ErrCodeCatalogLoad,
				"invalid catalog entry", err, map[string]any{"index": i})
		}

		if prev, dup := seen[entry.key()]; dup {
			return nil, cuderrors.NewWithContext(cuderrors.ErrCodeCatalogLoad,
				"duplicate catalog entry", map[string]any{
					"entry":      entry.String(),
					"index":      i,
					"firstIndex": prev,
				})
		}
		seen[entry.key()] = i
		entries = append(entries, entry)
	}

	// Keep entries in ascending resolution order so "latest supported" is
	// always the last match.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Compare(entries[j]) < 0
	})

	slog.Debug("catalog loaded", "entries", len(entries))

	return &Catalog{entries: entries}, nil
}

func parseEntry(raw FileEntry) (Entry, error) {
	py, err := version.Parse(raw.Python)
	if err != nil {
		return Entry{}, fmt.Errorf("python %q: %w", raw.Python, err)
	}
	torch, err := version.Parse(raw.Torch)
	if err != nil {
		return Entry{}, fmt.Errorf("torch %q: %w", raw.Torch, err)
	}

	entry := Entry{Python: py, Torch: torch}

	switch raw.Cuda {
	case "", "cpu", "none":
		// CPU-only entry
	default:
		cuda, err := version.Parse(raw.Cuda)
		if err != nil {
			return Entry{}, fmt.Errorf("cuda %q: %w", raw.Cuda, err)
		}
		entry.Cuda = &cuda
	}

	return entry, nil
}

// Lookup returns all entries matching the given constraints, in ascending
// (python, torch, cuda) order. Exact constraints match at their own
// precision; Unspecified and Latest match everything for that component.
// Safe for concurrent use.
func (c *Catalog) Lookup(cons Constraints) []Entry {
	matches := make([]Entry, 0)
	for _, e := range c.entries {
		if !cons.Python.matchesVersion(e.Python) {
			continue
		}
		if !cons.Torch.matchesVersion(e.Torch) {
			continue
		}
		if !cons.Cuda.matchesCuda(e.Cuda) {
			continue
		}
		matches = append(matches, e)
	}
	return matches
}

// Entries returns a copy of all catalog entries in ascending order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// KnowsPython reports whether any entry carries the given python version.
// Used to distinguish "version does not exist" from "combination does not
// exist" in resolution diagnostics.
func (c *Catalog) KnowsPython(cons Constraint) bool {
	if cons.Kind != Exact {
		return true
	}
	for _, e := range c.entries {
		if cons.Version.Matches(e.Python) {
			return true
		}
	}
	return false
}

// KnowsTorch reports whether any entry carries the given torch version.
func (c *Catalog) KnowsTorch(cons Constraint) bool {
	if cons.Kind != Exact {
		return true
	}
	for _, e := range c.entries {
		if cons.Version.Matches(e.Torch) {
			return true
		}
	}
	return false
}

// KnowsCuda reports whether any entry carries the given CUDA version.
// CPUOnly is known if any CPU-only entry exists.
func (c *Catalog) KnowsCuda(cons Constraint) bool {
	switch cons.Kind {
	case Exact:
		for _, e := range c.entries {
			if e.Cuda != nil && cons.Version.Matches(*e.Cuda) {
				return true
			}
		}
		return false
	case CPUOnly:
		for _, e := range c.entries {
			if e.Cuda == nil {
				return true
			}
		}
		return false
	default:
		return true
	}
}
