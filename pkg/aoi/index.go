package aoi

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/beetlebugorg/aoi/internal/parser"
)

// featureIndex is an R-tree over the bounds of every feature of a layer.
type featureIndex struct {
	rtree    *rtreego.Rtree
	features []*Feature
}

type indexedFeature struct {
	feature *Feature
	bound   orb.Bound
}

// Bounds implements rtreego.Spatial. Points and axis-aligned lines get a
// minimal extent since R-tree rectangles need positive lengths.
func (f *indexedFeature) Bounds() rtreego.Rect {
	return boundRect(f.bound)
}

func boundRect(b orb.Bound) rtreego.Rect {
	const epsilon = 1e-9
	width := b.Max[0] - b.Min[0]
	height := b.Max[1] - b.Min[1]
	if width < epsilon {
		width = epsilon
	}
	if height < epsilon {
		height = epsilon
	}
	rect, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{width, height})
	return rect
}

// buildIndex scans the layer once and indexes every feature. The caller
// holds l.mu.
func (l *Layer) buildIndex() *featureIndex {
	if l.index != nil {
		return l.index
	}

	features := l.scanUnfiltered()
	// 2D, 25 to 50 children per node
	rtree := rtreego.NewTree(2, 25, 50)
	var extent orb.Bound
	for i, f := range features {
		b := f.Bound()
		rtree.Insert(&indexedFeature{feature: f, bound: b})
		if i == 0 {
			extent = b
		} else {
			extent = extent.Union(b)
		}
	}

	l.index = &featureIndex{rtree: rtree, features: features}
	l.extent = extent
	return l.index
}

// FeaturesInBounds returns the features whose geometry intersects b, in id
// order. Filters are ignored. The first call reads the whole layer to build
// a spatial index and restarts reading.
func (l *Layer) FeaturesInBounds(b orb.Bound) []*Feature {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.buildIndex()
	spatials := idx.rtree.SearchIntersect(boundRect(b))

	result := make([]*Feature, 0, len(spatials))
	for _, s := range spatials {
		f := s.(*indexedFeature).feature
		// The R-tree only compares boxes.
		if parser.Intersects(f.geometry, b) {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].id < result[j].id })
	return result
}
