// Package manifest provides a module host whose module files are declarative
// type tables. A manifest is TOML or YAML:
//
//	[module]
//	path = "github.com/acme/shop"
//	version = "v1.2.0"
//	requires = ["github.com/acme/ledger"]
//
//	[[types]]
//	id = "github.com/acme/shop.CustomerRepository"
//	interfaces = ["github.com/acme/shop.Repository[github.com/acme/shop.Customer]"]
//
// Loaded manifests populate a memory.Registry, which answers type queries.
package manifest
