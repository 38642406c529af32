package parser

import "strings"

// AOIObjectType is the node type of one annotation object below AOInode.
const AOIObjectType = "Eaoi_AoiObjectType"

// objectCursor walks the direct children of AOInode, yielding annotation
// objects in document order. Once exhausted it stays exhausted until reset.
type objectCursor struct {
	root      Node
	current   Node
	exhausted bool
}

func (c *objectCursor) next() Node {
	if c.exhausted || c.root == nil {
		return nil
	}
	for {
		if c.current == nil {
			c.current = c.root.FirstChild()
		} else {
			c.current = c.current.NextSibling()
		}
		if c.current == nil {
			c.exhausted = true
			return nil
		}
		if strings.EqualFold(c.current.Type(), AOIObjectType) {
			return c.current
		}
	}
}

func (c *objectCursor) reset() {
	c.current = nil
	c.exhausted = false
}
