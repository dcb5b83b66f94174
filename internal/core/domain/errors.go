package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent discovery failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Configuration Errors. These are fatal and never retried.

	// ErrInvalidPattern indicates a skip or restrict pattern is not a valid
	// regular expression.
	ErrInvalidPattern = errors.New("invalid module pattern")

	// ErrModuleNotFound indicates the host cannot resolve an explicitly
	// configured module name.
	ErrModuleNotFound = errors.New("module not found")

	// Loader Errors.

	// ErrBadImageFormat indicates a file is not a valid module image.
	// Tolerated during directory scans.
	ErrBadImageFormat = errors.New("not a valid module image")

	// ErrTypeLoad indicates a module's types could not be fully enumerated,
	// typically because a dependency is missing.
	ErrTypeLoad = errors.New("type load failed")
)

// TypeLoadError reports a partial type enumeration failure for one module.
type TypeLoadError struct {
	// Module is the full name of the failing module.
	Module string

	// Messages holds one loader message per type that failed to load.
	Messages []string
}

// Error implements the error interface.
func (e *TypeLoadError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("loading types of %s: %s", e.Module, ErrTypeLoad)
	}
	return fmt.Sprintf("loading types of %s: %s", e.Module, strings.Join(e.Messages, "; "))
}

// Is makes errors.Is(err, ErrTypeLoad) succeed.
func (e *TypeLoadError) Is(target error) bool {
	return target == ErrTypeLoad
}

// ModuleFailure attributes a type enumeration failure to its module.
type ModuleFailure struct {
	Module string
	Err    error
}

// TypeEnumerationError aggregates the failures of every module that could not
// yield its types during one scan.
type TypeEnumerationError struct {
	Failures []ModuleFailure
}

// Error implements the error interface. Every message is attributed to its module.
func (e *TypeEnumerationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "type enumeration failed for %d module(s):", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n  - ")
		b.WriteString(f.Module)
		b.WriteString(": ")
		b.WriteString(failureMessage(f))
	}
	return b.String()
}

// Unwrap exposes the underlying failures to errors.Is and errors.As.
func (e *TypeEnumerationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Modules returns the full names of the failing modules in order.
func (e *TypeEnumerationError) Modules() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Module)
	}
	return names
}

// Messages returns one attributed line per failure.
func (e *TypeEnumerationError) Messages() []string {
	lines := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		lines = append(lines, f.Module+": "+failureMessage(f))
	}
	return lines
}

// failureMessage strips the module prefix a TypeLoadError already carries.
func failureMessage(f ModuleFailure) string {
	var tle *TypeLoadError
	if errors.As(f.Err, &tle) && tle.Module == f.Module && len(tle.Messages) > 0 {
		return strings.Join(tle.Messages, "; ")
	}
	return f.Err.Error()
}
