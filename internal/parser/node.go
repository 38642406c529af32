package parser

import (
	"errors"

	"github.com/beetlebugorg/aoi/internal/hfa"
)

// Node is the view of the typed node store the engine works against. Field
// paths use the store's addressing scheme ("coords.coords[-2]",
// "xformMatrix.polycoefmtx[3]"); failures are reported as *FieldMissingError,
// *FieldTypeError or *SchemaError.
type Node interface {
	Name() string
	Type() string
	FirstChild() Node
	NextSibling() Node
	// NamedChild returns the direct child with the given name; dotted names
	// descend one level per component.
	NamedChild(name string) Node
	// FindDescendants returns matching nodes anywhere below this one, in
	// document order. Empty name or type matches anything.
	FindDescendants(name, typ string) []Node
	IntField(path string) (int, error)
	DoubleField(path string) (float64, error)
	StringField(path string) (string, error)
}

// entryNode adapts an HFA entry to Node.
type entryNode struct {
	e *hfa.Entry
}

// WrapEntry returns e as a Node, or nil when e is nil.
func WrapEntry(e *hfa.Entry) Node {
	if e == nil {
		return nil
	}
	return entryNode{e: e}
}

func (n entryNode) Name() string { return n.e.Name() }

func (n entryNode) Type() string { return n.e.Type() }

func (n entryNode) FirstChild() Node { return WrapEntry(n.e.Child()) }

func (n entryNode) NextSibling() Node { return WrapEntry(n.e.Next()) }

func (n entryNode) NamedChild(name string) Node { return WrapEntry(n.e.NamedChild(name)) }

func (n entryNode) FindDescendants(name, typ string) []Node {
	found := n.e.FindChildren(name, typ)
	out := make([]Node, len(found))
	for i, e := range found {
		out[i] = entryNode{e: e}
	}
	return out
}

func (n entryNode) IntField(path string) (int, error) {
	v, err := n.e.IntField(path)
	return v, n.fieldError(path, err)
}

func (n entryNode) DoubleField(path string) (float64, error) {
	v, err := n.e.DoubleField(path)
	return v, n.fieldError(path, err)
}

func (n entryNode) StringField(path string) (string, error) {
	v, err := n.e.StringField(path)
	return v, n.fieldError(path, err)
}

func (n entryNode) fieldError(path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hfa.ErrTypeMismatch):
		return &FieldTypeError{NodeType: n.e.Type(), Path: path, Err: err}
	case errors.Is(err, hfa.ErrUnknownType):
		return &SchemaError{NodeType: n.e.Type(), Err: err}
	default:
		return &FieldMissingError{NodeType: n.e.Type(), Path: path, Err: err}
	}
}
