package hfa

import (
	"strconv"
	"strings"
)

// Dictionary is the schema stored in an HFA container. Every entry names one of
// its types, and the type describes how the entry's data bytes are laid out.
//
// Grammar, repeated until a terminating '.':
//
//	{ count:[p|*]itemType[objectType,]fieldName, ... } TypeName,
//
// An inline 'x{...}Name,' item declares a nested type in place and behaves like
// an 'o' item of that type. Enumerations are written 'e<n>:name1,...,name<n>,'.
type Dictionary struct {
	types map[string]*Type
	order []string
}

// Type is one dictionary record definition.
type Type struct {
	Name   string
	Fields []*Field

	size     int // fixed byte size, -1 when variable
	resolved bool
}

// Field is one member of a Type.
type Field struct {
	Name       string
	ItemType   byte
	Pointer    byte // 0, 'p' or '*'
	Count      int
	ObjectType string
	Enums      []string

	objType *Type
	size    int // fixed byte size, -1 when variable
}

// itemSize returns the byte size of one fixed-size item, 0 for variable items.
func itemSize(c byte) int {
	switch c {
	case '1', '2', '4', 'c', 'C':
		return 1
	case 'e', 's', 'S':
		return 2
	case 't', 'l', 'L', 'f':
		return 4
	case 'd', 'm':
		return 8
	case 'M':
		return 16
	}
	return 0
}

// ParseDictionary parses dictionary text.
func ParseDictionary(src string) (*Dictionary, error) {
	d := &Dictionary{types: make(map[string]*Type)}
	p := &dictParser{src: src, dict: d}

	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] == '.' {
			break
		}
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
	}

	for _, name := range d.order {
		if err := d.resolve(d.types[name], map[string]bool{}, map[string]bool{}); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Type returns the named type, or nil.
func (d *Dictionary) Type(name string) *Type {
	if d == nil {
		return nil
	}
	return d.types[name]
}

// Types returns the type names in definition order.
func (d *Dictionary) Types() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Dictionary) add(t *Type) {
	if _, dup := d.types[t.Name]; !dup {
		d.order = append(d.order, t.Name)
	}
	d.types[t.Name] = t
}

// resolve links object fields to their types and computes fixed sizes.
// inline holds the types that contain t by value along the current path; a
// type reached again through that chain would have infinite size.
func (d *Dictionary) resolve(t *Type, visiting, inline map[string]bool) error {
	if t.resolved {
		return nil
	}
	if visiting[t.Name] {
		// reached again through a pointer field
		t.size = -1
		return nil
	}
	visiting[t.Name] = true
	inline[t.Name] = true
	defer delete(inline, t.Name)

	t.size = 0
	for _, f := range t.Fields {
		f.size = -1
		if f.ItemType == 'o' {
			f.objType = d.types[f.ObjectType]
			if f.objType == nil {
				return &SyntaxError{Msg: "type " + t.Name + " field " + f.Name + " references unknown type " + f.ObjectType}
			}
			next := map[string]bool{}
			if f.Pointer == 0 {
				if inline[f.ObjectType] {
					return &SyntaxError{Msg: "type " + t.Name + " field " + f.Name + " contains " + f.ObjectType + " by value in a cycle"}
				}
				next = inline
			}
			if err := d.resolve(f.objType, visiting, next); err != nil {
				return err
			}
		}
		switch {
		case f.Pointer != 0:
		case f.ItemType == 'b':
		case f.ItemType == 'o':
			if f.objType.size >= 0 {
				f.size = f.objType.size * f.Count
			}
		default:
			f.size = itemSize(f.ItemType) * f.Count
		}
		if f.size < 0 || t.size < 0 {
			t.size = -1
		} else {
			t.size += f.size
		}
	}
	t.resolved = true
	return nil
}

// Size returns the fixed byte size of the type, or -1 if instances vary in size.
func (t *Type) Size() int { return t.size }

// Field returns the field with the given name (case-insensitive).
func (t *Type) Field(name string) (*Field, int) {
	for i, f := range t.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, i
		}
	}
	return nil, -1
}

type dictParser struct {
	src  string
	pos  int
	dict *Dictionary
}

func (p *dictParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *dictParser) errorf(msg string) error {
	return &SyntaxError{Offset: p.pos, Msg: msg}
}

func (p *dictParser) expect(c byte) error {
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return p.errorf("expected '" + string(c) + "'")
	}
	p.pos++
	return nil
}

// until returns the text up to the next c and consumes the delimiter.
func (p *dictParser) until(c byte) (string, error) {
	i := strings.IndexByte(p.src[p.pos:], c)
	if i < 0 {
		return "", p.errorf("unterminated token, expected '" + string(c) + "'")
	}
	s := p.src[p.pos : p.pos+i]
	p.pos += i + 1
	return s, nil
}

func (p *dictParser) number(term byte) (int, error) {
	s, err := p.until(term)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, p.errorf("bad count " + strconv.Quote(s))
	}
	return n, nil
}

func (p *dictParser) parseType() (*Type, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	t := &Type{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated type")
		}
		if p.src[p.pos] == '}' {
			p.pos++
			break
		}
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, f)
	}
	name, err := p.until(',')
	if err != nil {
		return nil, err
	}
	t.Name = strings.TrimSpace(name)
	if t.Name == "" {
		return nil, p.errorf("type without name")
	}
	p.dict.add(t)
	return t, nil
}

func (p *dictParser) parseField() (*Field, error) {
	count, err := p.number(':')
	if err != nil {
		return nil, err
	}
	f := &Field{Count: count}

	if p.pos < len(p.src) && (p.src[p.pos] == 'p' || p.src[p.pos] == '*') {
		f.Pointer = p.src[p.pos]
		p.pos++
	}
	if p.pos >= len(p.src) {
		return nil, p.errorf("missing item type")
	}
	f.ItemType = p.src[p.pos]
	p.pos++

	switch {
	case f.ItemType == 'o':
		if f.ObjectType, err = p.until(','); err != nil {
			return nil, err
		}
	case f.ItemType == 'x' && p.pos < len(p.src) && p.src[p.pos] == '{':
		nested, err := p.parseType()
		if err != nil {
			return nil, err
		}
		f.ItemType = 'o'
		f.ObjectType = nested.Name
	case f.ItemType == 'e':
		n, err := p.number(':')
		if err != nil {
			return nil, err
		}
		f.Enums = make([]string, 0, n)
		for i := 0; i < n; i++ {
			name, err := p.until(',')
			if err != nil {
				return nil, err
			}
			f.Enums = append(f.Enums, name)
		}
	case f.ItemType != 'b' && itemSize(f.ItemType) == 0:
		return nil, p.errorf("unknown item type '" + string(f.ItemType) + "'")
	}

	if f.Name, err = p.until(','); err != nil {
		return nil, err
	}
	return f, nil
}
