package domain

import "fmt"

// Import class names, without the metamodel namespace.
const (
	ClassImportAll   = "ImportAll"
	ClassImportType  = "ImportType"
	ClassImportTypes = "ImportTypes"
)

// Import is one entry of a document's imports list.
//
// The set of implementations is closed: *ImportAll, *ImportType and
// *ImportTypes. Code that needs per-kind behaviour uses a type switch over
// those three.
type Import interface {
	// ImportNamespace returns the namespace the import reads from.
	ImportNamespace() string

	// ImportURI returns the external location of the namespace, or "".
	ImportURI() string

	// Node returns the import as it appeared in the document.
	Node() *Object

	isImport()
}

// ImportAll makes every declaration of Namespace available unqualified.
type ImportAll struct {
	Namespace string
	URI       string
	node      *Object
}

// ImportType makes a single declaration available.
type ImportType struct {
	Namespace string
	Name      string
	URI       string
	node      *Object
}

// ImportTypes makes several declarations of one namespace available.
type ImportTypes struct {
	Namespace string
	Types     []string
	URI       string
	node      *Object
}

func (i *ImportAll) ImportNamespace() string   { return i.Namespace }
func (i *ImportType) ImportNamespace() string  { return i.Namespace }
func (i *ImportTypes) ImportNamespace() string { return i.Namespace }

func (i *ImportAll) ImportURI() string   { return i.URI }
func (i *ImportType) ImportURI() string  { return i.URI }
func (i *ImportTypes) ImportURI() string { return i.URI }

func (i *ImportAll) Node() *Object   { return nodeOrBuild(i.node, ClassImportAll, i.Namespace, i.URI, i) }
func (i *ImportType) Node() *Object  { return nodeOrBuild(i.node, ClassImportType, i.Namespace, i.URI, i) }
func (i *ImportTypes) Node() *Object { return nodeOrBuild(i.node, ClassImportTypes, i.Namespace, i.URI, i) }

func (*ImportAll) isImport()   {}
func (*ImportType) isImport()  {}
func (*ImportTypes) isImport() {}

// nodeOrBuild returns the original node, or synthesises one for imports
// constructed in code.
func nodeOrBuild(node *Object, class, namespace, uri string, imp Import) *Object {
	if node != nil {
		return node
	}
	o := NewObject()
	o.Set(ClassKey, MetaModelNamespace+"."+class)
	o.Set("namespace", namespace)
	switch v := imp.(type) {
	case *ImportType:
		o.Set("name", v.Name)
	case *ImportTypes:
		types := make([]any, len(v.Types))
		for i, t := range v.Types {
			types[i] = t
		}
		o.Set("types", types)
	}
	if uri != "" {
		o.Set("uri", uri)
	}
	return o
}

// ParseImport converts an import node into its typed form.
// Unknown tags yield an *UnrecognizedImportError.
func ParseImport(node *Object) (Import, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: import is not an object", ErrInvalidModel)
	}
	class := node.Class()
	namespace := node.GetString("namespace")
	uri := node.GetString("uri")

	switch ShortClass(class) {
	case ClassImportAll:
		return &ImportAll{Namespace: namespace, URI: uri, node: node}, nil
	case ClassImportType:
		return &ImportType{Namespace: namespace, Name: node.GetString("name"), URI: uri, node: node}, nil
	case ClassImportTypes:
		raw, _ := node.Get("types")
		list, ok := raw.([]any)
		if raw != nil && !ok {
			return nil, fmt.Errorf("%w: types of import %s is not an array", ErrInvalidModel, namespace)
		}
		types := make([]string, 0, len(list))
		for _, t := range list {
			name, ok := t.(string)
			if !ok {
				return nil, fmt.Errorf("%w: types of import %s must be strings", ErrInvalidModel, namespace)
			}
			types = append(types, name)
		}
		return &ImportTypes{Namespace: namespace, Types: types, URI: uri, node: node}, nil
	default:
		return nil, &UnrecognizedImportError{Class: class}
	}
}
