package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent model authoring failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates an optional adapter that was not provided.
	ErrNotConfigured = errors.New("not configured")

	// ErrInvalidModel indicates a model tree that does not have the expected shape.
	ErrInvalidModel = errors.New("invalid model")

	// Resolution Errors.

	// ErrUnrecognizedImport indicates an import node with an unknown $class.
	ErrUnrecognizedImport = errors.New("unrecognized import")

	// ErrNameNotFound indicates a simple name no declaration or import provides.
	ErrNameNotFound = errors.New("name not found")

	// ErrDeclarationNotFound indicates an import naming a declaration its namespace lacks.
	ErrDeclarationNotFound = errors.New("declaration not found")
)

// UnrecognizedImportError is returned for an import whose tag is not
// ImportAll, ImportType or ImportTypes.
type UnrecognizedImportError struct {
	Class string
}

func (e *UnrecognizedImportError) Error() string {
	return "Unrecognized imports " + e.Class
}

func (e *UnrecognizedImportError) Unwrap() error { return ErrUnrecognizedImport }

// NameNotFoundError is returned when a simple name cannot be bound.
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("Name %s not found", e.Name)
}

func (e *NameNotFoundError) Unwrap() error { return ErrNameNotFound }

// DeclarationNotFoundError is returned when an ImportType or ImportTypes
// names a declaration that its namespace does not declare.
type DeclarationNotFoundError struct {
	Name      string
	Namespace string
}

func (e *DeclarationNotFoundError) Error() string {
	return fmt.Sprintf("Declaration %s in namespace %s not found", e.Name, e.Namespace)
}

func (e *DeclarationNotFoundError) Unwrap() error { return ErrDeclarationNotFound }

// IsResolutionError reports whether err is a model authoring error raised
// by name resolution, as opposed to an I/O or infrastructure failure.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrUnrecognizedImport) ||
		errors.Is(err, ErrNameNotFound) ||
		errors.Is(err, ErrDeclarationNotFound) ||
		errors.Is(err, ErrInvalidModel)
}
