package services

import (
	"strings"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// namespaceSeparator separates a namespace from a simple name.
const namespaceSeparator = "."

// IsQualified reports whether name already carries a namespace.
func IsQualified(name string) bool {
	return strings.Contains(name, namespaceSeparator)
}

// Qualify joins a namespace and a simple name.
func Qualify(namespace, name string) string {
	return namespace + namespaceSeparator + name
}

// referenceResolver binds simple names for one document.
//
// Precedence: local declarations, then imports in declaration order, then
// system types.
type referenceResolver struct {
	locals  *SymbolTable
	imports *ImportIndex
	system  *systemTypes
}

// resolveNamespace returns the namespace simpleName binds to.
func (r *referenceResolver) resolveNamespace(simpleName string) (string, error) {
	if r.locals.Declares(simpleName) {
		return r.locals.Namespace(), nil
	}
	if ns, ok := r.imports.Lookup(simpleName); ok {
		return ns, nil
	}
	if r.system.provides(simpleName) {
		return r.system.namespace, nil
	}
	return "", &domain.NameNotFoundError{Name: simpleName}
}

// resolve returns the fully qualified name for name. Qualified names are
// returned unchanged.
func (r *referenceResolver) resolve(name string) (string, error) {
	if IsQualified(name) {
		return name, nil
	}
	ns, err := r.resolveNamespace(name)
	if err != nil {
		return "", err
	}
	return Qualify(ns, name), nil
}

// systemTypes are names every document may use without importing them.
type systemTypes struct {
	namespace string
	names     map[string]struct{}
}

func newSystemTypes(namespace string, names []string) *systemTypes {
	if namespace == "" || len(names) == 0 {
		return nil
	}
	s := &systemTypes{namespace: namespace, names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

func (s *systemTypes) provides(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}
