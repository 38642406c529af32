package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAOI indicates the file name does not carry the .aoi extension.
	ErrNotAOI = errors.New("not an AOI file")

	// ErrNoAOINode indicates the container has no AOInode below its root.
	ErrNoAOINode = errors.New("AOI container has no AOInode")
)

// FieldMissingError indicates a field path resolved to nothing
type FieldMissingError struct {
	NodeType string
	Path     string
	Err      error
}

func (e *FieldMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: missing field %q: %v", e.NodeType, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: missing field %q", e.NodeType, e.Path)
}

func (e *FieldMissingError) Unwrap() error { return e.Err }

// FieldTypeError indicates the stored field does not hold the requested scalar type
type FieldTypeError struct {
	NodeType string
	Path     string
	Err      error
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s: field %q has unexpected type", e.NodeType, e.Path)
}

func (e *FieldTypeError) Unwrap() error { return e.Err }

// DimensionError indicates a coordinate array that is not N×2
type DimensionError struct {
	NodeType string
	Path     string
	Count    int
	Width    int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: coordinate array %q is %d×%d, want N×2 with N>0",
		e.NodeType, e.Path, e.Count, e.Width)
}

// SchemaError indicates a node type outside the known schema
type SchemaError struct {
	NodeType string
	Err      error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unrecognized node type %q: %v", e.NodeType, e.Err)
	}
	return fmt.Sprintf("unrecognized node type %q", e.NodeType)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// GeometryError indicates a decoded geometry that downstream consumers will reject
type GeometryError struct {
	Kind   string
	Reason string
}

func (e *GeometryError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("invalid geometry (%s): %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}
