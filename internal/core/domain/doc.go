// Package domain defines the core entities for typefinder.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Module: A loaded code unit identified by its full name
//   - TypeDescriptor: Runtime metadata about one type in a module
//   - Contract: The closed type or open generic definition a scan looks for
//   - FilterConfig: Skip/restrict patterns and the explicit module list
//   - ScanRecord: The persisted summary of a scan
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
