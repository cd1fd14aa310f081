package services

import (
	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// wildcardSuffix marks a pattern that matches every name of a namespace.
const wildcardSuffix = ".*"

// ExpandImport returns the fully qualified names an import makes
// available. An ImportAll yields the single pattern "ns.*".
func ExpandImport(imp domain.Import) []string {
	switch v := imp.(type) {
	case *domain.ImportAll:
		return []string{v.Namespace + wildcardSuffix}
	case *domain.ImportType:
		return []string{v.Namespace + "." + v.Name}
	case *domain.ImportTypes:
		names := make([]string, len(v.Types))
		for i, t := range v.Types {
			names[i] = v.Namespace + "." + t
		}
		return names
	default:
		return nil
	}
}

// ImportFullyQualifiedNames expands a raw import node.
// Unknown import classes yield a *domain.UnrecognizedImportError.
func ImportFullyQualifiedNames(node *domain.Object) ([]string, error) {
	imp, err := domain.ParseImport(node)
	if err != nil {
		return nil, err
	}
	return ExpandImport(imp), nil
}

// ExternalImports maps every expanded name of each import that carries a
// uri to that uri. Later imports overwrite earlier ones on equal keys.
func ExternalImports(doc *domain.Document) map[string]string {
	result := make(map[string]string)
	for _, imp := range doc.Imports {
		uri := imp.ImportURI()
		if uri == "" {
			continue
		}
		for _, name := range ExpandImport(imp) {
			result[name] = uri
		}
	}
	return result
}

// ExternalImportsFromNode is ExternalImports over a raw tree that only
// needs an imports list.
func ExternalImportsFromNode(node *domain.Object) (map[string]string, error) {
	doc, err := domain.ParseDocument(node)
	if err != nil {
		return nil, err
	}
	return ExternalImports(doc), nil
}

// importEntry is one import of the document being resolved.
type importEntry struct {
	namespace string

	// names holds the explicitly imported names; nil for a wildcard.
	names map[string]struct{}

	// peer is the symbol table of the imported namespace, or nil when the
	// namespace is not part of the peer set.
	peer *SymbolTable
}

// provides reports whether the entry binds name.
func (e *importEntry) provides(name string) bool {
	if e.names != nil {
		_, ok := e.names[name]
		return ok
	}
	// Wildcards into a known namespace offer what it declares; wildcards
	// into an unknown namespace are optimistic.
	if e.peer != nil {
		return e.peer.Declares(name)
	}
	return true
}

// bind records explicitly imported names, checking each against the
// imported namespace when it is known.
func (e *importEntry) bind(listed []string) error {
	e.names = make(map[string]struct{}, len(listed))
	for _, name := range listed {
		if e.peer != nil && !e.peer.Declares(name) {
			return &domain.DeclarationNotFoundError{Name: name, Namespace: e.namespace}
		}
		e.names[name] = struct{}{}
	}
	return nil
}

// ImportIndex is the normalized import table of one document.
type ImportIndex struct {
	entries []importEntry
}

// newImportIndex builds the import index of doc against the given peer
// tables. Every ImportType and ImportTypes name is checked against its
// namespace when that namespace is in the peer set.
func newImportIndex(doc *domain.Document, peers peerTables) (*ImportIndex, error) {
	ix := &ImportIndex{entries: make([]importEntry, 0, len(doc.Imports))}

	for _, imp := range doc.Imports {
		entry := importEntry{
			namespace: imp.ImportNamespace(),
			peer:      peers[imp.ImportNamespace()],
		}

		var err error
		switch v := imp.(type) {
		case *domain.ImportAll:
			// wildcard, names stay nil
		case *domain.ImportType:
			err = entry.bind([]string{v.Name})
		case *domain.ImportTypes:
			err = entry.bind(v.Types)
		}
		if err != nil {
			return nil, err
		}

		ix.entries = append(ix.entries, entry)
	}

	return ix, nil
}

// Lookup returns the namespace of the first import, in declaration order,
// that provides name.
func (ix *ImportIndex) Lookup(name string) (string, bool) {
	for i := range ix.entries {
		if ix.entries[i].provides(name) {
			return ix.entries[i].namespace, true
		}
	}
	return "", false
}

// Len returns the number of imports.
func (ix *ImportIndex) Len() int {
	return len(ix.entries)
}
