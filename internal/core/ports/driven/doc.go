// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ModuleHost: Loaded module registry and module loader
//   - TypeIntrospector: Type enumeration and assignability
//   - FileProvider: Directory existence and file listing for plugin directories
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ScanCatalog: Scan record persistence. Without it, scans are not recorded.
//   - ConfigStore: Application configuration. Without it, defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
