package parser

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// memNode is an in-memory Node for engine tests.
type memNode struct {
	name     string
	typ      string
	parent   *memNode
	children []*memNode
	ints     map[string]int
	doubles  map[string]float64
	strs     map[string]string
}

func mem(typ, name string, children ...*memNode) *memNode {
	n := &memNode{
		name:    name,
		typ:     typ,
		ints:    map[string]int{},
		doubles: map[string]float64{},
		strs:    map[string]string{},
	}
	n.add(children...)
	return n
}

func (n *memNode) add(children ...*memNode) *memNode {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *memNode) withInt(path string, v int) *memNode {
	n.ints[path] = v
	return n
}

func (n *memNode) withDouble(path string, v float64) *memNode {
	n.doubles[path] = v
	return n
}

func (n *memNode) withString(path, v string) *memNode {
	n.strs[path] = v
	return n
}

func (n *memNode) Name() string { return n.name }

func (n *memNode) Type() string { return n.typ }

func (n *memNode) FirstChild() Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *memNode) NextSibling() Node {
	if n.parent == nil {
		return nil
	}
	sibs := n.parent.children
	for i, s := range sibs {
		if s == n && i+1 < len(sibs) {
			return sibs[i+1]
		}
	}
	return nil
}

func (n *memNode) NamedChild(name string) Node {
	first, rest, nested := strings.Cut(name, ".")
	for _, c := range n.children {
		if !strings.EqualFold(c.name, first) {
			continue
		}
		if !nested {
			return c
		}
		return c.NamedChild(rest)
	}
	return nil
}

func (n *memNode) FindDescendants(name, typ string) []Node {
	var out []Node
	for _, c := range n.children {
		if (name == "" || strings.EqualFold(c.name, name)) && (typ == "" || strings.EqualFold(c.typ, typ)) {
			out = append(out, c)
		}
		out = append(out, c.FindDescendants(name, typ)...)
	}
	return out
}

func (n *memNode) IntField(path string) (int, error) {
	if v, ok := n.ints[path]; ok {
		return v, nil
	}
	if v, ok := n.doubles[path]; ok {
		return int(v), nil
	}
	if _, ok := n.strs[path]; ok {
		return 0, &FieldTypeError{NodeType: n.typ, Path: path}
	}
	return 0, &FieldMissingError{NodeType: n.typ, Path: path}
}

func (n *memNode) DoubleField(path string) (float64, error) {
	if v, ok := n.doubles[path]; ok {
		return v, nil
	}
	if v, ok := n.ints[path]; ok {
		return float64(v), nil
	}
	if _, ok := n.strs[path]; ok {
		return 0, &FieldTypeError{NodeType: n.typ, Path: path}
	}
	return 0, &FieldMissingError{NodeType: n.typ, Path: path}
}

func (n *memNode) StringField(path string) (string, error) {
	if v, ok := n.strs[path]; ok {
		return v, nil
	}
	return "", &FieldMissingError{NodeType: n.typ, Path: path}
}

// coordsNode builds a shape node holding an N×2 coordinate array at prefix.
func coordsNode(typ, prefix string, pts ...orb.Point) *memNode {
	n := mem(typ, strings.ToLower(typ)).
		withInt(prefix+"[-2]", len(pts)).
		withInt(prefix+"[-1]", 2)
	for i, p := range pts {
		n.withDouble(fmt.Sprintf("%s[%d]", prefix, 2*i), p[0])
		n.withDouble(fmt.Sprintf("%s[%d]", prefix, 2*i+1), p[1])
	}
	return n
}

func polygonNode(pts ...orb.Point) *memNode {
	return coordsNode("Polygon2", shapeCoordsPath, pts...)
}

func polylineNode(pts ...orb.Point) *memNode {
	return coordsNode("Polyline2", shapeCoordsPath, pts...)
}

func pointNode(x, y float64) *memNode {
	return coordsNode("Point2", pointCoordsPath, orb.Point{x, y})
}

func rectangleNode(cx, cy, w, h float64) *memNode {
	return mem("Rectangle2", "rect").
		withDouble(centerXPath, cx).
		withDouble(centerYPath, cy).
		withDouble(widthPath, w).
		withDouble(heightPath, h).
		withDouble("orientation", 0.7)
}

func ellipseNode(cx, cy, a, b float64) *memNode {
	return mem("Ellipse2", "ellipse").
		withDouble(centerXPath, cx).
		withDouble(centerYPath, cy).
		withDouble(semiMajorPath, a).
		withDouble(semiMinorPath, b)
}

// withTransform stores p on n the way element records do.
func (n *memNode) withTransform(p Polynomial) *memNode {
	n.withInt(xformOrderPath, p.Order)
	n.withInt(xformTermsPath, termCount(p.Order))
	for i, c := range p.Coefficients {
		n.withDouble(fmt.Sprintf("%s[%d]", xformMatrixPath, i), c)
	}
	for i, c := range p.Constants {
		n.withDouble(fmt.Sprintf("%s[%d]", xformVectorPath, i), c)
	}
	return n
}

func elementNode(name, description string, children ...*memNode) *memNode {
	n := mem("Element_2_Eant", name, children...)
	if name != "" {
		n.withString("name", name)
	}
	if description != "" {
		n.withString("description", description)
	}
	return n
}

// objectNode wraps element in the annotation object chain.
func objectNode(element *memNode, headerChildren ...*memNode) *memNode {
	list := mem("ElementNode_Eant", elementListName, element)
	header := mem(AntHeaderType, antInfoName, list).add(headerChildren...)
	return mem(AOIObjectType, "object", mem("Eaoi_AntAoiInfo", antObjectName, header))
}

func aoiRoot(objects ...*memNode) *memNode {
	return mem("Eaoi_AreaOfInterest", aoiNodeName, objects...)
}

func translation(dx, dy float64) Polynomial {
	return Polynomial{Order: 1, Coefficients: []float64{1, 0, 0, 1}, Constants: [2]float64{dx, dy}}
}
