// Package services implements the driving ports. TypeFinder builds the
// working module set, augments it from plugin directories and matches
// types against contracts; CatalogService and SettingsService persist
// scan records and settings through driven ports.
package services
