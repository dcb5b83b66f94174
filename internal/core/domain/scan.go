package domain

import "time"

// ScanRecord is the persisted summary of one FindTypes or FindDerivedOf call.
type ScanRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// Contract is the text form of the searched contract.
	Contract string

	// ConcreteOnly records whether abstract classes were excluded.
	ConcreteOnly bool

	// StartedAt is when the scan began.
	StartedAt time.Time

	// Duration is how long the scan took.
	Duration time.Duration

	// Modules are the full names of the scanned working set.
	Modules []string

	// Types are the IDs of the matching types in discovery order.
	Types []TypeID

	// Failures holds one attributed message per module that failed enumeration.
	Failures []string
}

// Succeeded reports whether every module yielded its types.
func (r ScanRecord) Succeeded() bool {
	return len(r.Failures) == 0
}
