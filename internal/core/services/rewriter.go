package services

import (
	"fmt"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
)

// superTypeKey holds a declaration's supertype. It may be a TypeIdentifier
// or a plain name.
const superTypeKey = "superType"

// rewriter rewrites the reference positions of a document's declarations.
//
// A reference position is any TypeIdentifier node, wherever it sits in the
// declaration tree, or a string stored under superType. Everything else is
// copied as is, so declaration kinds need not be known.
type rewriter struct {
	resolver *referenceResolver
}

// rewriteDocument returns a resolved copy of doc. doc is not modified.
func (w *rewriter) rewriteDocument(doc *domain.Document) (*domain.Document, error) {
	node := doc.Node().Clone()

	if decls, ok := node.Get("declarations"); ok {
		if err := w.rewriteValue(decls); err != nil {
			return nil, err
		}
	}

	return domain.ParseDocument(node)
}

// rewriteValue resolves references in v in place. v must be owned by the
// rewriter.
func (w *rewriter) rewriteValue(v any) error {
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if err := w.rewriteValue(item); err != nil {
				return err
			}
		}
	case *domain.Object:
		if domain.ShortClass(val.Class()) == domain.ClassTypeIdentifier {
			return w.rewriteTypeIdentifier(val)
		}
		for _, key := range val.Keys() {
			field, _ := val.Get(key)
			if name, ok := field.(string); ok && key == superTypeKey {
				resolved, err := w.resolver.resolve(name)
				if err != nil {
					return err
				}
				val.Set(key, resolved)
				continue
			}
			if err := w.rewriteValue(field); err != nil {
				return err
			}
		}
	}
	return nil
}

// rewriteTypeIdentifier fills in the namespace of a TypeIdentifier.
// Identifiers that already have one are left alone.
func (w *rewriter) rewriteTypeIdentifier(id *domain.Object) error {
	if id.GetString("namespace") != "" {
		return nil
	}
	name := id.GetString("name")
	if name == "" {
		return fmt.Errorf("%w: type identifier without a name", domain.ErrInvalidModel)
	}
	if IsQualified(name) {
		return nil
	}

	ns, err := w.resolver.resolveNamespace(name)
	if err != nil {
		return err
	}
	id.Set("namespace", ns)
	return nil
}
