// Package driving defines the interfaces the CLI uses to run scans,
// record them and manage settings. These are the "driving" ports in
// hexagonal architecture terminology.
//
// Implementations of these interfaces live in internal/core/services.
package driving
