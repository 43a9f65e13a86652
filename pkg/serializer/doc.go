// Package serializer provides utilities for serializing data to various
// formats and loading structured data from files or URLs.
//
// The package supports three output formats:
//   - JSON: machine-readable structured data with indentation
//   - YAML: human-readable configuration format
//   - Table: human-readable tabular output with flattened keys
//
// Usage:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatJSON, path)
//	defer writer.Close()
//	if err := writer.Serialize(result); err != nil {
//		return err
//	}
//
// Reading supports JSON and YAML from local files and HTTP/HTTPS URLs, which
// is how external compatibility catalogs are loaded:
//
//	entries, err := serializer.FromFile[catalog.File]("./catalog.yaml")
package serializer
