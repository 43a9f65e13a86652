// Package catalog owns the compatibility catalog: the authoritative set of
// known-good (Python, PyTorch, CUDA) version triples and the constraint
// types used to query it.
//
// The catalog ships embedded in the binary (data/catalog.yaml) and is loaded
// exactly once at process start. Loading validates eagerly: unparseable
// versions, duplicate triples, and unsupported document versions all fail
// with a CATALOG_LOAD structured error before any resolution can run. After
// that the catalog is immutable and safe for concurrent lookups without
// locking.
//
// An external catalog file or URL can replace the embedded data via
// LoadFile, which applies the same validation.
package catalog
