// Package domain defines the core model types for metaresolve.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Object: An ordered JSON object that keeps unknown fields
//   - Document: One namespace's imports and declarations
//   - Models: The model set wrapper resolved as a whole
//   - Import: ImportAll, ImportType or ImportTypes
//   - Run: A recorded resolution of stored models
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
