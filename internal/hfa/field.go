package hfa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var le = binary.LittleEndian

type want int

const (
	wantInt want = iota
	wantDouble
	wantString
)

type value struct {
	num    float64
	str    string
	isText bool
}

// Basedata item types (EPT_*), the element type of a 'b' field.
const (
	baseU1 = iota
	baseU2
	baseU4
	baseU8
	baseS8
	baseU16
	baseS16
	baseU32
	baseS32
	baseF32
	baseF64
	baseC64
	baseC128
)

func baseTypeBits(t int) int {
	switch t {
	case baseU1:
		return 1
	case baseU2:
		return 2
	case baseU4:
		return 4
	case baseU8, baseS8:
		return 8
	case baseU16, baseS16:
		return 16
	case baseU32, baseS32, baseF32:
		return 32
	case baseF64, baseC64:
		return 64
	case baseC128:
		return 128
	}
	return 0
}

// maxNesting bounds how deep pointer fields may nest objects of their own type.
const maxNesting = 64

// instBytes returns the number of bytes one instance of t occupies at the start of data.
func (t *Type) instBytes(data []byte, depth int) (int, error) {
	if depth > maxNesting {
		return 0, ErrCorrupt
	}
	if t.size >= 0 {
		if len(data) < t.size {
			return 0, ErrCorrupt
		}
		return t.size, nil
	}
	total := 0
	for _, f := range t.Fields {
		n, err := f.instBytes(data[total:], depth)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (f *Field) instBytes(data []byte, depth int) (int, error) {
	if f.size >= 0 {
		if len(data) < f.size {
			return 0, ErrCorrupt
		}
		return f.size, nil
	}
	if f.Pointer != 0 {
		if len(data) < 8 {
			return 0, ErrCorrupt
		}
		n, err := f.itemsBytes(data[8:], int(le.Uint32(data)), depth)
		return 8 + n, err
	}
	return f.itemsBytes(data, f.Count, depth)
}

func (f *Field) itemsBytes(data []byte, count int, depth int) (int, error) {
	switch f.ItemType {
	case 'b':
		if len(data) < 12 {
			return 0, ErrCorrupt
		}
		rows := int64(int32(le.Uint32(data)))
		cols := int64(int32(le.Uint32(data[4:])))
		bits := int64(baseTypeBits(int(int16(le.Uint16(data[8:])))))
		if rows < 0 || cols < 0 || bits == 0 {
			return 0, ErrCorrupt
		}
		n := 12 + (bits*rows*cols+7)/8
		if n > int64(len(data)) {
			return 0, ErrCorrupt
		}
		return int(n), nil
	case 'o':
		if f.objType.size == 0 {
			return 0, nil
		}
		total := 0
		for i := 0; i < count; i++ {
			n, err := f.objType.instBytes(data[total:], depth+1)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	default:
		n := int64(itemSize(f.ItemType)) * int64(count)
		if n > int64(len(data)) {
			return 0, ErrCorrupt
		}
		return int(n), nil
	}
}

// instCount returns the number of items stored for f at the start of data.
func (f *Field) instCount(data []byte) (int, error) {
	body := data
	if f.Pointer != 0 {
		if len(data) < 8 {
			return 0, ErrCorrupt
		}
		body = data[8:]
	}
	if f.ItemType == 'b' {
		if len(body) < 8 {
			return 0, ErrCorrupt
		}
		rows := int64(int32(le.Uint32(body)))
		cols := int64(int32(le.Uint32(body[4:])))
		if rows < 0 || cols < 0 || rows*cols > math.MaxInt32 {
			return 0, ErrCorrupt
		}
		return int(rows * cols), nil
	}
	if f.Pointer != 0 {
		return int(le.Uint32(data)), nil
	}
	return f.Count, nil
}

// splitPath splits "name[idx].rest" into its parts.
func splitPath(path string) (name string, index int, rest string, err error) {
	end := strings.IndexAny(path, "[.")
	if end < 0 {
		return path, 0, "", nil
	}
	name = path[:end]
	if path[end] == '.' {
		return name, 0, path[end+1:], nil
	}
	closing := strings.IndexByte(path[end:], ']')
	if closing < 0 {
		return "", 0, "", ErrFieldNotFound
	}
	index, err = strconv.Atoi(path[end+1 : end+closing])
	if err != nil {
		return "", 0, "", ErrFieldNotFound
	}
	after := path[end+closing+1:]
	switch {
	case after == "":
	case after[0] == '.':
		rest = after[1:]
	default:
		return "", 0, "", ErrFieldNotFound
	}
	return name, index, rest, nil
}

// extract resolves path against one instance of t stored in data.
func (t *Type) extract(path string, data []byte, w want) (value, error) {
	name, index, rest, err := splitPath(path)
	if err != nil {
		return value{}, err
	}
	f, fi := t.Field(name)
	if f == nil {
		return value{}, ErrFieldNotFound
	}
	off := 0
	for _, prev := range t.Fields[:fi] {
		n, err := prev.instBytes(data[off:], 0)
		if err != nil {
			return value{}, err
		}
		off += n
	}
	return f.extract(index, rest, data[off:], w)
}

func (f *Field) extract(index int, rest string, data []byte, w want) (value, error) {
	body := data
	if f.Pointer != 0 {
		if len(data) < 8 {
			return value{}, ErrCorrupt
		}
		body = data[8:]
	}

	if f.ItemType == 'c' || f.ItemType == 'C' {
		if w != wantString || rest != "" {
			return value{}, ErrTypeMismatch
		}
		n, err := f.instCount(data)
		if err != nil {
			return value{}, err
		}
		if n > len(body) {
			n = len(body)
		}
		raw := body[:n]
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		return value{str: decodeText(raw), isText: true}, nil
	}

	count, err := f.instCount(data)
	if err != nil {
		return value{}, err
	}
	lower := 0
	if f.ItemType == 'b' {
		lower = -3
	}
	if index < lower || index >= count {
		return value{}, ErrFieldNotFound
	}

	if f.ItemType == 'o' {
		if rest == "" {
			return value{}, ErrTypeMismatch
		}
		off := 0
		for i := 0; i < index; i++ {
			n, err := f.objType.instBytes(body[off:], 0)
			if err != nil {
				return value{}, err
			}
			off += n
		}
		return f.objType.extract(rest, body[off:], w)
	}
	if rest != "" {
		return value{}, ErrFieldNotFound
	}

	var v value
	switch f.ItemType {
	case 'b':
		v.num, err = readBasedata(body, index)
	case 'e':
		var n float64
		if n, err = readItem(body, index, 2, func(b []byte) float64 { return float64(le.Uint16(b)) }); err == nil {
			v.num = n
			if i := int(n); i < len(f.Enums) && w == wantString {
				return value{num: n, str: f.Enums[i], isText: true}, nil
			}
		}
	case '1', '2', '4':
		v.num, err = readItem(body, index, 1, func(b []byte) float64 { return float64(b[0]) })
	case 's':
		v.num, err = readItem(body, index, 2, func(b []byte) float64 { return float64(le.Uint16(b)) })
	case 'S':
		v.num, err = readItem(body, index, 2, func(b []byte) float64 { return float64(int16(le.Uint16(b))) })
	case 't', 'L':
		v.num, err = readItem(body, index, 4, func(b []byte) float64 { return float64(le.Uint32(b)) })
	case 'l':
		v.num, err = readItem(body, index, 4, func(b []byte) float64 { return float64(int32(le.Uint32(b))) })
	case 'f':
		v.num, err = readItem(body, index, 4, func(b []byte) float64 { return float64(math.Float32frombits(le.Uint32(b))) })
	case 'd':
		v.num, err = readItem(body, index, 8, func(b []byte) float64 { return math.Float64frombits(le.Uint64(b)) })
	default:
		return value{}, ErrTypeMismatch
	}
	if err != nil {
		return value{}, err
	}
	if w == wantString {
		v.str = strconv.FormatFloat(v.num, 'g', 14, 64)
		v.isText = true
	}
	return v, nil
}

func readItem(body []byte, index, size int, conv func([]byte) float64) (float64, error) {
	off := index * size
	if off+size > len(body) {
		return 0, ErrCorrupt
	}
	return conv(body[off : off+size]), nil
}

// readBasedata reads element index of a basedata block. Negative indices
// address the block header: -3 the element type, -2 the second stored
// dimension, -1 the first.
func readBasedata(body []byte, index int) (float64, error) {
	if len(body) < 12 {
		return 0, ErrCorrupt
	}
	first := int32(le.Uint32(body))
	second := int32(le.Uint32(body[4:]))
	base := int(int16(le.Uint16(body[8:])))
	switch index {
	case -3:
		return float64(base), nil
	case -2:
		return float64(second), nil
	case -1:
		return float64(first), nil
	}

	cells := body[12:]
	switch base {
	case baseU1:
		return bitsAt(cells, index, 1)
	case baseU2:
		return bitsAt(cells, index, 2)
	case baseU4:
		return bitsAt(cells, index, 4)
	case baseU8:
		return readItem(cells, index, 1, func(b []byte) float64 { return float64(b[0]) })
	case baseS8:
		return readItem(cells, index, 1, func(b []byte) float64 { return float64(int8(b[0])) })
	case baseU16:
		return readItem(cells, index, 2, func(b []byte) float64 { return float64(le.Uint16(b)) })
	case baseS16:
		return readItem(cells, index, 2, func(b []byte) float64 { return float64(int16(le.Uint16(b))) })
	case baseU32:
		return readItem(cells, index, 4, func(b []byte) float64 { return float64(le.Uint32(b)) })
	case baseS32:
		return readItem(cells, index, 4, func(b []byte) float64 { return float64(int32(le.Uint32(b))) })
	case baseF32:
		return readItem(cells, index, 4, func(b []byte) float64 { return float64(math.Float32frombits(le.Uint32(b))) })
	case baseF64:
		return readItem(cells, index, 8, func(b []byte) float64 { return math.Float64frombits(le.Uint64(b)) })
	case baseC64, baseC128:
		return 0, ErrTypeMismatch
	}
	return 0, fmt.Errorf("%w: basedata type %d", ErrCorrupt, base)
}

func bitsAt(cells []byte, index, bits int) (float64, error) {
	perByte := 8 / bits
	i := index / perByte
	if i >= len(cells) {
		return 0, ErrCorrupt
	}
	shift := uint((index % perByte) * bits)
	return float64((cells[i] >> shift) & byte(1<<bits-1)), nil
}
