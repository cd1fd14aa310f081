package services

import (
	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/logger"
)

// SymbolTable is the set of simple names a document declares in its own
// namespace.
type SymbolTable struct {
	namespace string
	names     map[string]struct{}
}

// NewSymbolTable builds the symbol table for doc.
func NewSymbolTable(doc *domain.Document) *SymbolTable {
	t := &SymbolTable{
		namespace: doc.Namespace,
		names:     make(map[string]struct{}, len(doc.Declarations)),
	}
	for _, name := range doc.DeclarationNames() {
		t.names[name] = struct{}{}
	}
	return t
}

// Namespace returns the namespace the names are declared in.
func (t *SymbolTable) Namespace() string {
	return t.namespace
}

// Declares reports whether name is declared locally.
func (t *SymbolTable) Declares(name string) bool {
	_, ok := t.names[name]
	return ok
}

// Len returns the number of declared names.
func (t *SymbolTable) Len() int {
	return len(t.names)
}

// peerTables indexes the symbol tables of a peer set by namespace.
// It is built once per resolution call and only read afterwards.
type peerTables map[string]*SymbolTable

func newPeerTables(peers []*domain.Document) peerTables {
	tables := make(peerTables, len(peers))
	for _, peer := range peers {
		if peer == nil {
			continue
		}
		if _, dup := tables[peer.Namespace]; dup {
			logger.Warn("namespace %s appears more than once, using the first", peer.Namespace)
			continue
		}
		tables[peer.Namespace] = NewSymbolTable(peer)
	}
	return tables
}
