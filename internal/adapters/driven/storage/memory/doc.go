// Package memory provides in-memory implementations of driven storage ports.
// They back tests and the CLI when no catalog database is configured.
package memory
