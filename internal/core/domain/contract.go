package domain

import (
	"fmt"
	"strings"
)

// ContractKind tags how a Contract is matched.
type ContractKind int

const (
	// ContractClosed matches by assignability to a concrete type or interface.
	ContractClosed ContractKind = iota
	// ContractOpenGeneric matches any closed instance of a generic definition.
	ContractOpenGeneric
)

// String returns a human-readable kind name.
func (k ContractKind) String() string {
	switch k {
	case ContractClosed:
		return "closed"
	case ContractOpenGeneric:
		return "open"
	default:
		return "unknown"
	}
}

// openPrefix marks an open generic contract in text form.
const openPrefix = "open:"

// Contract is the type or interface a scan is looking for.
type Contract struct {
	kind ContractKind
	id   TypeID
}

// Closed returns a contract matched by assignability to id.
func Closed(id TypeID) Contract {
	return Contract{kind: ContractClosed, id: id}
}

// OpenGeneric returns a contract matched by generic definition.
// definition must be the unbound name, e.g. "github.com/acme/shop.Repository".
func OpenGeneric(definition TypeID) Contract {
	return Contract{kind: ContractOpenGeneric, id: definition}
}

// ContractFor returns the closed contract for ref.
func ContractFor(ref TypeRef) Contract {
	return Closed(ref.ID)
}

// OpenContractFor returns the open contract for the generic definition of ref.
// It fails with ErrInvalidInput when ref is not a generic instance.
func OpenContractFor(ref TypeRef) (Contract, error) {
	if !ref.IsGeneric() {
		return Contract{}, fmt.Errorf("%w: %s is not a generic type", ErrInvalidInput, ref.ID)
	}
	return OpenGeneric(ref.Definition), nil
}

// ParseContract parses the text form of a contract. "open:pkg.Name" and
// "pkg.Name[]" denote open generic contracts; anything else is closed.
func ParseContract(s string) (Contract, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Contract{}, fmt.Errorf("%w: empty contract", ErrInvalidInput)
	case strings.HasPrefix(s, openPrefix):
		def := strings.TrimSpace(strings.TrimPrefix(s, openPrefix))
		if def == "" || strings.ContainsAny(def, "[]") {
			return Contract{}, fmt.Errorf("%w: invalid open contract %q", ErrInvalidInput, s)
		}
		return OpenGeneric(TypeID(def)), nil
	case strings.HasSuffix(s, "[]"):
		def := strings.TrimSuffix(s, "[]")
		if def == "" || strings.ContainsAny(def, "[]") {
			return Contract{}, fmt.Errorf("%w: invalid open contract %q", ErrInvalidInput, s)
		}
		return OpenGeneric(TypeID(def)), nil
	default:
		return Closed(TypeID(s)), nil
	}
}

// Kind returns the contract tag.
func (c Contract) Kind() ContractKind {
	return c.kind
}

// ID returns the closed type ID or the open generic definition.
func (c Contract) ID() TypeID {
	return c.id
}

// IsOpenGeneric reports whether the contract is an open generic definition.
func (c Contract) IsOpenGeneric() bool {
	return c.kind == ContractOpenGeneric
}

// IsZero reports whether the contract was never set.
func (c Contract) IsZero() bool {
	return c.id == ""
}

// String returns the text form accepted by ParseContract.
func (c Contract) String() string {
	if c.kind == ContractOpenGeneric {
		return openPrefix + string(c.id)
	}
	return string(c.id)
}
