// Package hfa reads ERDAS HFA containers: a tree of typed entries whose data
// layout is described by a schema dictionary stored in the same file.
//
// The reader is read-only. Entries are loaded lazily and cached, so walking a
// large tree only touches the records that are visited.
package hfa

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/log"
)

// HeaderTag is the magic string at offset 0 of every HFA container.
const HeaderTag = "EHFA_HEADER_TAG"

const (
	entryHeaderSize = 120
	headerSize      = 18
	maxDictionary   = 1 << 20
)

var (
	// maxInflated caps the in-memory size of a decompressed container.
	maxInflated int64 = 1 << 30

	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// File is an open HFA container.
type File struct {
	r      io.ReaderAt
	size   int64
	closer io.Closer
	logger *zap.Logger

	version           int32
	freeList          uint32
	rootPos           uint32
	entryHeaderLength uint16
	dictPos           uint32

	dict *Dictionary

	mu      sync.Mutex
	entries map[uint32]*Entry
	root    *Entry
}

// IsHFA reports whether header starts with the HFA header tag.
func IsHFA(header []byte) bool {
	return bytes.HasPrefix(header, []byte(HeaderTag))
}

// Open opens an HFA container from disk. Gzip and zstd compressed containers
// are inflated into memory first.
func Open(filename string) (*File, error) {
	fh, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	st, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	magic := make([]byte, 4)
	n, _ := fh.ReadAt(magic, 0)
	magic = magic[:n]

	var inflated []byte
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		inflated, err = inflateGzip(fh)
	case bytes.HasPrefix(magic, zstdMagic):
		inflated, err = inflateZstd(fh)
	default:
		f, err := NewFile(fh, st.Size())
		if err != nil {
			fh.Close()
			return nil, err
		}
		f.closer = fh
		return f, nil
	}
	fh.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", filename, err)
	}
	log.Debug("inflated compressed container",
		zap.String("file", filename), zap.Int("bytes", len(inflated)))
	return NewFile(bytes.NewReader(inflated), int64(len(inflated)))
}

func inflateGzip(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return readInflated(zr)
}

func inflateZstd(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return readInflated(dec)
}

func readInflated(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInflated+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxInflated {
		return nil, fmt.Errorf("%w: inflated container exceeds %d bytes", ErrCorrupt, maxInflated)
	}
	return data, nil
}

// NewFile reads the header, dictionary and root entry of the container in r.
func NewFile(r io.ReaderAt, size int64) (*File, error) {
	f := &File{
		r:       r,
		size:    size,
		logger:  log.L(),
		entries: make(map[uint32]*Entry),
	}

	tag, err := f.readAt(0, 20)
	if err != nil || !IsHFA(tag) {
		return nil, ErrNotHFA
	}

	hdr, err := f.readAt(le.Uint32(tag[16:]), headerSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	f.version = int32(le.Uint32(hdr[0:]))
	f.freeList = le.Uint32(hdr[4:])
	f.rootPos = le.Uint32(hdr[8:])
	f.entryHeaderLength = le.Uint16(hdr[12:])
	f.dictPos = le.Uint32(hdr[14:])

	text, err := f.dictionaryText()
	if err != nil {
		return nil, err
	}
	if f.dict, err = ParseDictionary(text); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.root = f.loadEntry(f.rootPos)
	f.mu.Unlock()
	if f.root == nil {
		return nil, fmt.Errorf("%w: unreadable root entry at %d", ErrCorrupt, f.rootPos)
	}
	return f, nil
}

func (f *File) dictionaryText() (string, error) {
	if int64(f.dictPos) >= f.size {
		return "", fmt.Errorf("%w: dictionary offset %d beyond end of file", ErrCorrupt, f.dictPos)
	}
	n := f.size - int64(f.dictPos)
	if n > maxDictionary {
		n = maxDictionary
	}
	raw, err := f.readAt(f.dictPos, int(n))
	if err != nil {
		return "", fmt.Errorf("failed to read dictionary: %w", err)
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if i := bytes.Index(raw, []byte(",.")); i >= 0 {
		raw = raw[:i+2]
	}
	return string(raw), nil
}

func (f *File) readAt(off uint32, n int) ([]byte, error) {
	if n < 0 || int64(off)+int64(n) > f.size {
		return nil, ErrCorrupt
	}
	buf := make([]byte, n)
	if _, err := f.r.ReadAt(buf, int64(off)); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// SetLogger sets the logger used for structural warnings.
func (f *File) SetLogger(l *zap.Logger) { f.logger = log.Or(l) }

// Root returns the root entry.
func (f *File) Root() *Entry { return f.root }

// Dictionary returns the container's schema.
func (f *File) Dictionary() *Dictionary { return f.dict }

// Version returns the header version number.
func (f *File) Version() int32 { return f.version }

// Size returns the container size in bytes.
func (f *File) Size() int64 { return f.size }

// Close releases the underlying file, if any.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}
