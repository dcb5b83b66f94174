package domain

import "strings"

// TypeID is the fully-qualified name of a type, e.g.
// "github.com/acme/shop.Repository[github.com/acme/shop.Customer]".
type TypeID string

// TypeKind distinguishes classes from interface declarations.
type TypeKind int

const (
	// KindClass is any non-interface type that can carry behaviour.
	KindClass TypeKind = iota
	// KindInterface is an interface declaration.
	KindInterface
)

// String returns a human-readable kind name.
func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// TypeRef references a type by ID. For closed generic instances Definition
// holds the unbound generic definition and Args the bound arguments.
type TypeRef struct {
	ID         TypeID
	Definition TypeID
	Args       []TypeID
}

// IsGeneric reports whether the reference is a closed generic instance.
func (r TypeRef) IsGeneric() bool {
	return r.Definition != ""
}

// ParseTypeRef derives the generic shape of id from its bracket syntax.
// Nested arguments are kept intact: "Pair[a.X,b.Map[c.K,c.V]]" has two args.
// A malformed id is returned as a plain, non-generic reference.
func ParseTypeRef(id TypeID) TypeRef {
	s := string(id)
	open := strings.IndexByte(s, '[')
	if open <= 0 || !strings.HasSuffix(s, "]") {
		return TypeRef{ID: id}
	}

	args, ok := splitTypeArgs(s[open+1 : len(s)-1])
	if !ok || len(args) == 0 {
		return TypeRef{ID: id}
	}
	return TypeRef{ID: id, Definition: TypeID(s[:open]), Args: args}
}

// splitTypeArgs splits a comma-separated argument list at depth zero.
func splitTypeArgs(s string) ([]TypeID, bool) {
	var (
		args  []TypeID
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, false
			}
		case ',':
			if depth == 0 {
				arg := strings.TrimSpace(s[start:i])
				if arg == "" {
					return nil, false
				}
				args = append(args, TypeID(arg))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, false
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		args = append(args, TypeID(last))
	} else if len(args) > 0 {
		return nil, false
	}
	return args, true
}

// TypeDescriptor is runtime metadata about one type. It is owned by its
// module and lives as long as the module does.
type TypeDescriptor struct {
	// ID is the fully-qualified type name.
	ID TypeID

	// Name is the short type name without package path.
	Name string

	// Module is the full name of the declaring module.
	Module string

	// Kind is class or interface.
	Kind TypeKind

	// Abstract marks classes that cannot be instantiated directly.
	Abstract bool

	// Definition is the generic definition for generic types. Empty otherwise.
	Definition TypeID

	// Args are the bound type arguments of a closed generic type.
	Args []TypeID

	// Open marks an unbound generic definition.
	Open bool

	// Base is the direct base type, if any.
	Base *TypeRef

	// Interfaces lists every interface this type implements.
	Interfaces []TypeRef
}

// IsInterface reports whether the descriptor is an interface declaration.
func (d TypeDescriptor) IsInterface() bool {
	return d.Kind == KindInterface
}

// IsClass reports whether the descriptor is a class.
func (d TypeDescriptor) IsClass() bool {
	return d.Kind == KindClass
}

// IsConcrete reports whether the type is an instantiable class.
func (d TypeDescriptor) IsConcrete() bool {
	return d.IsClass() && !d.Abstract
}

// IsGeneric reports whether the type is generic, open or closed.
func (d TypeDescriptor) IsGeneric() bool {
	return d.Definition != "" || d.Open
}

// Ref returns a reference to the descriptor.
func (d TypeDescriptor) Ref() TypeRef {
	return TypeRef{ID: d.ID, Definition: d.Definition, Args: d.Args}
}

// TypeIDs returns the IDs of the given descriptors in order.
func TypeIDs(types []TypeDescriptor) []TypeID {
	ids := make([]TypeID, 0, len(types))
	for _, t := range types {
		ids = append(ids, t.ID)
	}
	return ids
}
