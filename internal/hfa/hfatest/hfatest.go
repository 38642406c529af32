// Package hfatest builds small HFA containers in memory for tests.
package hfatest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

var le = binary.LittleEndian

const (
	entrySize  = 124
	headerPos  = 20
	headerSize = 18
)

// Node is one entry of the container tree.
type Node struct {
	Name     string
	Type     string
	Data     []byte
	Children []*Node
}

// N is shorthand for a Node literal.
func N(name, typ string, data []byte, children ...*Node) *Node {
	return &Node{Name: name, Type: typ, Data: data, Children: children}
}

// Build lays out an HFA container: tag, header, dictionary, then every entry
// in pre-order with its data block right after its header.
func Build(dictionary string, root *Node) []byte {
	dictPos := headerPos + headerSize
	dict := append([]byte(dictionary), 0)
	first := uint32(dictPos + len(dict))

	pos := map[*Node]uint32{}
	next := first
	var assign func(n *Node)
	assign = func(n *Node) {
		pos[n] = next
		next += entrySize + uint32(len(n.Data))
		for _, c := range n.Children {
			assign(c)
		}
	}
	assign(root)

	out := make([]byte, next)
	copy(out, "EHFA_HEADER_TAG")
	le.PutUint32(out[16:], headerPos)
	h := out[headerPos:]
	le.PutUint32(h[0:], 1)
	le.PutUint32(h[4:], 0)
	le.PutUint32(h[8:], first)
	le.PutUint16(h[12:], entrySize)
	le.PutUint32(h[14:], uint32(dictPos))
	copy(out[dictPos:], dict)

	var write func(n, parent *Node, nextSibling, prevSibling *Node)
	write = func(n, parent *Node, nextSibling, prevSibling *Node) {
		p := pos[n]
		e := out[p:]
		le.PutUint32(e[0:], pos[nextSibling])
		le.PutUint32(e[4:], pos[prevSibling])
		le.PutUint32(e[8:], pos[parent])
		if len(n.Children) > 0 {
			le.PutUint32(e[12:], pos[n.Children[0]])
		}
		if len(n.Data) > 0 {
			le.PutUint32(e[16:], p+entrySize)
			le.PutUint32(e[20:], uint32(len(n.Data)))
			copy(e[entrySize:], n.Data)
		}
		copy(e[24:87], n.Name)
		copy(e[88:119], n.Type)
		for i, c := range n.Children {
			var nx, pv *Node
			if i+1 < len(n.Children) {
				nx = n.Children[i+1]
			}
			if i > 0 {
				pv = n.Children[i-1]
			}
			write(c, n, nx, pv)
		}
	}
	write(root, nil, nil, nil)
	return out
}

// WriteFile writes a built container into a temp dir and returns its path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Encoder appends little-endian field encodings.
type Encoder struct {
	buf bytes.Buffer
}

// Enc starts a new Encoder.
func Enc() *Encoder { return &Encoder{} }

// Bytes returns the encoded data.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

func (e *Encoder) Uint16(v uint16) *Encoder {
	var b [2]byte
	le.PutUint16(b[:], v)
	e.buf.Write(b[:])
	return e
}

func (e *Encoder) Int32(v int32) *Encoder {
	return e.Uint32(uint32(v))
}

func (e *Encoder) Uint32(v uint32) *Encoder {
	var b [4]byte
	le.PutUint32(b[:], v)
	e.buf.Write(b[:])
	return e
}

func (e *Encoder) Float64(v float64) *Encoder {
	var b [8]byte
	le.PutUint64(b[:], math.Float64bits(v))
	e.buf.Write(b[:])
	return e
}

// Raw appends b unchanged.
func (e *Encoder) Raw(b []byte) *Encoder {
	e.buf.Write(b)
	return e
}

// Text appends a pointer character field holding s and its terminator.
func (e *Encoder) Text(s string) *Encoder {
	e.Uint32(uint32(len(s) + 1)).Uint32(1)
	e.buf.WriteString(s)
	e.buf.WriteByte(0)
	return e
}

// Doubles appends a pointer double array.
func (e *Encoder) Doubles(vs ...float64) *Encoder {
	e.Uint32(uint32(len(vs))).Uint32(1)
	for _, v := range vs {
		e.Float64(v)
	}
	return e
}

// Null appends an empty pointer field.
func (e *Encoder) Null() *Encoder {
	return e.Uint32(0).Uint32(0)
}

// Object appends a pointer object field holding one instance.
func (e *Encoder) Object(inner []byte) *Encoder {
	e.Uint32(1).Uint32(1)
	e.buf.Write(inner)
	return e
}

// Basedata appends a pointer basedata field of float64 cells. first and
// second are the two stored dimensions, in storage order.
func (e *Encoder) Basedata(first, second int32, vs ...float64) *Encoder {
	e.Uint32(1).Uint32(1)
	e.Int32(first).Int32(second)
	e.Uint16(10).Uint16(0)
	for _, v := range vs {
		e.Float64(v)
	}
	return e
}
