package hfa

import (
	"bytes"
	"strings"

	"go.uber.org/zap"
)

// Entry is one node of the container tree.
type Entry struct {
	file *File
	pos  uint32

	nextPos   uint32
	prevPos   uint32
	parentPos uint32
	childPos  uint32
	dataPos   uint32
	dataSize  uint32
	name      string
	typ       string

	// Each entry accepts exactly one incoming link (its parent's child pointer
	// or its predecessor's next pointer). A second link is a back-edge.
	linked bool

	child, next         *Entry
	childDone, nextDone bool
	parent              *Entry

	data       []byte
	dataLoaded bool
	dataErr    error
}

// loadEntry reads the entry header at pos. Callers hold f.mu.
func (f *File) loadEntry(pos uint32) *Entry {
	if pos == 0 {
		return nil
	}
	if e, ok := f.entries[pos]; ok {
		if e.linked {
			f.logger.Warn("ignoring back-edge in entry tree", zap.Uint32("offset", pos), zap.String("entry", e.name))
			return nil
		}
		e.linked = true
		return e
	}

	raw, err := f.readAt(pos, entryHeaderSize)
	if err != nil {
		f.logger.Warn("unreadable entry header", zap.Uint32("offset", pos), zap.Error(err))
		return nil
	}
	e := &Entry{
		file:      f,
		pos:       pos,
		nextPos:   le.Uint32(raw[0:]),
		prevPos:   le.Uint32(raw[4:]),
		parentPos: le.Uint32(raw[8:]),
		childPos:  le.Uint32(raw[12:]),
		dataPos:   le.Uint32(raw[16:]),
		dataSize:  le.Uint32(raw[20:]),
		name:      cString(raw[24:88]),
		typ:       cString(raw[88:120]),
		linked:    true,
	}
	f.entries[pos] = e
	return e
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return decodeText(b)
}

// Name returns the entry name.
func (e *Entry) Name() string { return e.name }

// Type returns the dictionary type name of the entry.
func (e *Entry) Type() string { return e.typ }

// Offset returns the file offset of the entry header.
func (e *Entry) Offset() uint32 { return e.pos }

// DataSize returns the size of the entry's data block.
func (e *Entry) DataSize() uint32 { return e.dataSize }

// Child returns the first child, or nil.
func (e *Entry) Child() *Entry {
	e.file.mu.Lock()
	defer e.file.mu.Unlock()
	if !e.childDone {
		e.childDone = true
		e.child = e.file.loadEntry(e.childPos)
		if e.child != nil {
			e.child.parent = e
		}
	}
	return e.child
}

// Next returns the next sibling, or nil.
func (e *Entry) Next() *Entry {
	e.file.mu.Lock()
	defer e.file.mu.Unlock()
	if !e.nextDone {
		e.nextDone = true
		e.next = e.file.loadEntry(e.nextPos)
		if e.next != nil {
			e.next.parent = e.parent
		}
	}
	return e.next
}

// Parent returns the entry this one was reached from, or nil for the root.
func (e *Entry) Parent() *Entry {
	e.file.mu.Lock()
	defer e.file.mu.Unlock()
	return e.parent
}

// Children returns all direct children in order.
func (e *Entry) Children() []*Entry {
	var out []*Entry
	for c := e.Child(); c != nil; c = c.Next() {
		out = append(out, c)
	}
	return out
}

// NamedChild returns the child with the given name. A dotted name such as
// "Projection.Datum" descends one level per component. Names compare
// case-insensitively.
func (e *Entry) NamedChild(path string) *Entry {
	first, rest, nested := strings.Cut(path, ".")
	for c := e.Child(); c != nil; c = c.Next() {
		if !strings.EqualFold(c.name, first) {
			continue
		}
		if !nested {
			return c
		}
		if found := c.NamedChild(rest); found != nil {
			return found
		}
	}
	return nil
}

// FindChildren returns every descendant, in pre-order, whose name and type
// match. An empty name or type matches anything.
func (e *Entry) FindChildren(name, typ string) []*Entry {
	var out []*Entry
	e.findChildren(name, typ, &out)
	return out
}

func (e *Entry) findChildren(name, typ string, out *[]*Entry) {
	for c := e.Child(); c != nil; c = c.Next() {
		if (name == "" || strings.EqualFold(c.name, name)) && (typ == "" || strings.EqualFold(c.typ, typ)) {
			*out = append(*out, c)
		}
		c.findChildren(name, typ, out)
	}
}

// Data returns the raw data block of the entry.
func (e *Entry) Data() ([]byte, error) {
	e.file.mu.Lock()
	defer e.file.mu.Unlock()
	if !e.dataLoaded {
		e.dataLoaded = true
		if e.dataPos != 0 && e.dataSize != 0 {
			e.data, e.dataErr = e.file.readAt(e.dataPos, int(e.dataSize))
		}
	}
	return e.data, e.dataErr
}

func (e *Entry) field(path string, w want) (value, error) {
	t := e.file.dict.Type(e.typ)
	if t == nil {
		return value{}, &FieldError{Entry: e.name, Type: e.typ, Path: path, Err: ErrUnknownType}
	}
	data, err := e.Data()
	if err != nil {
		return value{}, &FieldError{Entry: e.name, Type: e.typ, Path: path, Err: err}
	}
	v, err := t.extract(path, data, w)
	if err != nil {
		return value{}, &FieldError{Entry: e.name, Type: e.typ, Path: path, Err: err}
	}
	return v, nil
}

// IntField reads an integer at path. Floating point values are truncated.
func (e *Entry) IntField(path string) (int, error) {
	v, err := e.field(path, wantInt)
	if err != nil {
		return 0, err
	}
	return int(v.num), nil
}

// DoubleField reads a floating point value at path.
func (e *Entry) DoubleField(path string) (float64, error) {
	v, err := e.field(path, wantDouble)
	if err != nil {
		return 0, err
	}
	return v.num, nil
}

// StringField reads a string at path. Numeric fields are formatted and
// enumerations yield their symbolic name.
func (e *Entry) StringField(path string) (string, error) {
	v, err := e.field(path, wantString)
	if err != nil {
		return "", err
	}
	return v.str, nil
}
