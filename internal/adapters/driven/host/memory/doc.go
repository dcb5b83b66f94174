// Package memory provides an in-memory module host and type introspector.
//
// The registry is the fake process-wide module table used by tests, and the
// backing store of the manifest host: modules are defined as data, then loaded
// by name, by file, or preloaded as if compiled into the process.
//
// # Thread Safety
//
// All operations are safe for concurrent use.
package memory
