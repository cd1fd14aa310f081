package domain

import (
	"encoding/json"
	"fmt"
)

// MetaModelNamespace is the namespace of the metamodel classes used when a
// node has to be synthesised.
const MetaModelNamespace = "concerto.metamodel@1.0.0"

// Metamodel class names, without the metamodel namespace.
const (
	ClassModel          = "Model"
	ClassModels         = "Models"
	ClassTypeIdentifier = "TypeIdentifier"
)

// Document is one namespace's declaration unit.
//
// Namespace, Imports and Declarations are read-only views over the node the
// document was parsed from; the node itself keeps every other field.
type Document struct {
	Namespace    string
	Imports      []Import
	Declarations []*Object
	node         *Object
}

// ParseDocument builds a Document view over node. Missing imports or
// declarations are treated as empty and stay absent when encoded.
func ParseDocument(node *Object) (*Document, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: model is not an object", ErrInvalidModel)
	}
	doc := &Document{
		Namespace: node.GetString("namespace"),
		node:      node,
	}

	imports, err := objectList(node, "imports")
	if err != nil {
		return nil, err
	}
	for _, imp := range imports {
		parsed, err := ParseImport(imp)
		if err != nil {
			return nil, err
		}
		doc.Imports = append(doc.Imports, parsed)
	}

	doc.Declarations, err = objectList(node, "declarations")
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// NewDocument creates a document for namespace with the given declarations.
func NewDocument(namespace string, imports []Import, declarations ...*Object) *Document {
	node := NewObject()
	node.Set(ClassKey, MetaModelNamespace+"."+ClassModel)
	node.Set("namespace", namespace)
	if len(imports) > 0 {
		list := make([]any, len(imports))
		for i, imp := range imports {
			list[i] = imp.Node()
		}
		node.Set("imports", list)
	}
	if len(declarations) > 0 {
		list := make([]any, len(declarations))
		for i, d := range declarations {
			list[i] = d
		}
		node.Set("declarations", list)
	}
	doc, err := ParseDocument(node)
	if err != nil {
		// imports built from typed values always parse
		panic(err)
	}
	return doc
}

// Node returns the underlying tree. Callers must not modify it.
func (d *Document) Node() *Object {
	return d.node
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	doc, err := ParseDocument(d.node.Clone())
	if err != nil {
		// d was already parsed from the same shape
		panic(err)
	}
	return doc
}

// DeclarationNames returns the names of the document's declarations in order.
func (d *Document) DeclarationNames() []string {
	names := make([]string, 0, len(d.Declarations))
	for _, decl := range d.Declarations {
		if name := decl.GetString("name"); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// MarshalJSON encodes the underlying tree.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.node.MarshalJSON()
}

// UnmarshalJSON decodes and parses a model document.
func (d *Document) UnmarshalJSON(data []byte) error {
	node, err := ParseObject(data)
	if err != nil {
		return err
	}
	doc, err := ParseDocument(node)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// Models is the model set wrapper: {"$class": "<ns>.Models", "models": [...]}.
type Models struct {
	Models []*Document
	node   *Object
}

// ParseModels builds a Models view over node.
func ParseModels(node *Object) (*Models, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: models is not an object", ErrInvalidModel)
	}
	list, err := objectList(node, "models")
	if err != nil {
		return nil, err
	}
	m := &Models{node: node}
	for _, item := range list {
		doc, err := ParseDocument(item)
		if err != nil {
			return nil, err
		}
		m.Models = append(m.Models, doc)
	}
	return m, nil
}

// NewModels wraps documents in a Models node.
func NewModels(docs ...*Document) *Models {
	node := NewObject()
	node.Set(ClassKey, MetaModelNamespace+"."+ClassModels)
	node.Set("models", []any{})
	return &Models{Models: docs, node: node}
}

// WithModels returns a copy of the wrapper holding docs instead of m.Models.
// Fields other than "models" are shared with m.
func (m *Models) WithModels(docs []*Document) *Models {
	return &Models{Models: docs, node: m.node}
}

// Namespaces returns the namespace of each document, in order.
func (m *Models) Namespaces() []string {
	out := make([]string, len(m.Models))
	for i, d := range m.Models {
		out[i] = d.Namespace
	}
	return out
}

// Node builds the wrapper tree from the current documents, keeping the
// original key order and any extra fields.
func (m *Models) Node() *Object {
	out := NewObject()
	if m.node != nil {
		for _, k := range m.node.keys {
			if k == "models" {
				out.Set(k, m.modelList())
				continue
			}
			out.Set(k, m.node.fields[k])
		}
	}
	if !out.Has("models") && len(m.Models) > 0 {
		out.Set("models", m.modelList())
	}
	return out
}

func (m *Models) modelList() []any {
	list := make([]any, len(m.Models))
	for i, d := range m.Models {
		list[i] = d.node
	}
	return list
}

// MarshalJSON encodes the wrapper.
func (m *Models) MarshalJSON() ([]byte, error) {
	return m.Node().MarshalJSON()
}

// UnmarshalJSON decodes and parses a Models wrapper.
func (m *Models) UnmarshalJSON(data []byte) error {
	node, err := ParseObject(data)
	if err != nil {
		return err
	}
	parsed, err := ParseModels(node)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// objectList returns the objects stored in the array under key.
// A missing key or null yields nil.
func objectList(node *Object, key string) ([]*Object, error) {
	raw, ok := node.Get(key)
	if !ok || raw == nil {
		return nil, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", ErrInvalidModel, key)
	}
	out := make([]*Object, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(*Object)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not an object", ErrInvalidModel, key, i)
		}
		out = append(out, obj)
	}
	return out, nil
}

// DecodeModels accepts either a Models wrapper or a single Model document and
// returns it as a Models value.
func DecodeModels(data []byte) (*Models, error) {
	node, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	if ShortClass(node.Class()) == ClassModels || node.Has("models") {
		return ParseModels(node)
	}
	doc, err := ParseDocument(node)
	if err != nil {
		return nil, err
	}
	return NewModels(doc), nil
}

var (
	_ json.Marshaler   = (*Object)(nil)
	_ json.Unmarshaler = (*Document)(nil)
	_ json.Unmarshaler = (*Models)(nil)
)
