package parser

import (
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// Attribute names of the layer schema.
const (
	AttrName        = "Name"
	AttrDescription = "Description"
)

// Feature is one annotation object: its shapes gathered into a collection
// plus the name and description of its head element.
type Feature struct {
	// ID counts features from 0 in reading order, restarting on reset
	ID int64
	// Geometry holds the decoded shapes in document order, never empty
	Geometry orb.Collection
	// Attributes holds Name and Description when the head element has them
	Attributes map[string]interface{}
}

// Node names of the chain from an annotation object down to its head element.
const (
	antObjectName   = "AOIantObject"
	antInfoName     = "antInfo"
	elementListName = "ElementList"
)

// headElement resolves object → AOIantObject → antInfo → ElementList → first
// child. Any missing link yields nil.
func headElement(obj Node) Node {
	ant := obj.NamedChild(antObjectName)
	if ant == nil {
		return nil
	}
	info := ant.NamedChild(antInfoName)
	if info == nil {
		return nil
	}
	list := info.NamedChild(elementListName)
	if list == nil {
		return nil
	}
	return list.FirstChild()
}

// readAttributes reads the optional name and description of a head element.
func readAttributes(head Node) map[string]interface{} {
	attrs := make(map[string]interface{}, 2)
	if name, err := head.StringField("name"); err == nil {
		attrs[AttrName] = name
	}
	if desc, err := head.StringField("description"); err == nil {
		attrs[AttrDescription] = desc
	}
	return attrs
}

// assemble builds the feature for one annotation object, or returns nil
// when the object has no head element or no decodable shape.
func (l *Layer) assemble(obj Node) *Feature {
	head := headElement(obj)
	if head == nil {
		l.stats.ObjectsSkipped++
		l.logger.Debug("annotation object without element list", zap.String("object", obj.Name()))
		return nil
	}

	var coll orb.Collection
	l.walker.Walk(head, head, &coll)
	if len(coll) == 0 {
		l.stats.ObjectsSkipped++
		l.logger.Debug("annotation object without geometry", zap.String("object", obj.Name()))
		return nil
	}

	f := &Feature{
		ID:         l.nextFID,
		Geometry:   coll,
		Attributes: readAttributes(head),
	}
	l.nextFID++
	return f
}

// accept applies the spatial and attribute filters.
func (l *Layer) accept(f *Feature) bool {
	if l.spatialFilter != nil && !Intersects(f.Geometry, *l.spatialFilter) {
		return false
	}
	if l.attrFilter != nil && !l.attrFilter(f.Attributes) {
		return false
	}
	return true
}

// NextFeature returns the next feature, or nil when the layer is exhausted.
// Objects that yield no geometry and features rejected by a filter are
// skipped; reading only ends when the annotation objects run out.
func (l *Layer) NextFeature() *Feature {
	if !l.passStarted {
		l.stats = Stats{}
		l.passStarted = true
	}
	for {
		obj := l.cursor.next()
		if obj == nil {
			return nil
		}
		f := l.assemble(obj)
		if f == nil {
			continue
		}
		if !l.accept(f) {
			l.stats.FeaturesFiltered++
			continue
		}
		return f
	}
}
