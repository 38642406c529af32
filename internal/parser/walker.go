package parser

import (
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// maxWalkDepth bounds recursion for node stores that cannot promise a tree.
const maxWalkDepth = 512

// Stats counts what the layer decoded and what it dropped during one
// reading pass.
type Stats struct {
	ShapesDecoded    int // shape nodes that produced a geometry
	ShapesSkipped    int // shape nodes dropped as malformed
	ObjectsSkipped   int // annotation objects that yielded no feature
	FeaturesFiltered int // assembled features rejected by a filter
}

// lazyTransform reads a parent's transform the first time a child shape needs it.
type lazyTransform struct {
	node Node
	poly Polynomial
	done bool
}

func (t *lazyTransform) get() Polynomial {
	if !t.done {
		t.poly = ReadTransform(t.node)
		t.done = true
	}
	return t.poly
}

type walker struct {
	ellipseSteps int
	logger       *zap.Logger
	stats        *Stats
}

// Walk decodes every shape in the subtree rooted at node into coll, in
// document order. The transform for a shape comes from its parent, so each
// group element governs the shapes directly below it.
func (w *walker) Walk(node, parent Node, coll *orb.Collection) {
	w.walk(node, &lazyTransform{node: parent}, coll, 0)
}

func (w *walker) walk(node Node, parentXf *lazyTransform, coll *orb.Collection, depth int) {
	if depth > maxWalkDepth {
		w.logger.Warn("shape tree too deep, not descending further",
			zap.String("node", node.Name()), zap.Int("depth", depth))
		return
	}

	if kind := ClassifyShape(node.Type()); kind != ShapeUnknown {
		g, err := decodeShape(kind, node, parentXf.get(), w.ellipseSteps)
		if err != nil {
			w.stats.ShapesSkipped++
			w.logger.Debug("skipping malformed shape",
				zap.String("kind", kind.String()),
				zap.String("node", node.Name()),
				zap.Error(err))
		} else {
			w.stats.ShapesDecoded++
			*coll = append(*coll, g)
		}
	}

	xf := &lazyTransform{node: node}
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		w.walk(c, xf, coll, depth+1)
	}
}
