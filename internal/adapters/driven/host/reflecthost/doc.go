// Package reflecthost provides a module host over Go types registered at
// runtime. Go cannot enumerate the types of a package, so packages register
// them explicitly, usually from init:
//
//	func init() {
//		m := reflecthost.BuildModule("github.com/acme/shop")
//		_ = reflecthost.Default.Register(m,
//			reflecthost.Of[Customer](),
//			reflecthost.Of[Repository[Customer]](),
//			reflecthost.Of[CustomerRepository](),
//		)
//	}
//
// Descriptors are derived with reflect. Interfaces are the registered
// interfaces a type or its pointer implements; the base type is the first
// embedded named struct; generic shape comes from the instantiated name.
package reflecthost
