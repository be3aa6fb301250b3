package sio

import (
	"io"
	"strings"

	"github.com/rony4d/go-streamio/utils/fast"
)

// Allocator supplies and reclaims ArraySink memory. Allocate must return a
// slice of exactly size bytes.
type Allocator = fast.Allocator

// HeapAllocator is the default Allocator backed by the Go heap.
type HeapAllocator = fast.HeapAllocator

// ArraySource reads from a byte slice without copying it up front.
type ArraySource struct {
	r *fast.Reader
}

func NewArraySource(b []byte) *ArraySource {
	return &ArraySource{r: fast.NewReader(b)}
}

func (a *ArraySource) Read(p []byte) (int, error) {
	if a.r.Empty() {
		return 0, io.EOF
	}
	return a.r.Read(p), nil
}

// Bytes returns the whole underlying slice.
func (a *ArraySource) Bytes() []byte {
	return a.r.Bytes()
}

// Remaining returns the number of unread bytes.
func (a *ArraySource) Remaining() int {
	return a.r.Remaining()
}

// StringSource reads from a string, or from the [from, to) part of it.
type StringSource struct {
	str string
	idx int
	end int
}

func NewStringSource(s string) *StringSource {
	return &StringSource{str: s, end: len(s)}
}

// NewStringSourceRange reads s[from:to]. Bounds are clamped to the string.
func NewStringSourceRange(s string, from, to int) *StringSource {
	if to > len(s) {
		to = len(s)
	}
	if from < 0 {
		from = 0
	}
	if from > to {
		from = to
	}
	return &StringSource{str: s, idx: from, end: to}
}

func (s *StringSource) Read(p []byte) (int, error) {
	if s.idx >= s.end {
		return 0, io.EOF
	}
	n := copy(p, s.str[s.idx:s.end])
	s.idx += n
	return n, nil
}

// String returns the whole underlying string.
func (s *StringSource) String() string {
	return s.str
}

// MemorySink writes into a caller-supplied slice of fixed capacity.
type MemorySink struct {
	dest      []byte
	idx       int
	truncate  bool
	truncated bool
}

// NewMemorySink returns a sink that fails with a capacity error when a write
// does not fit into the rest of dest. Nothing from the failing write is kept.
func NewMemorySink(dest []byte) *MemorySink {
	return &MemorySink{dest: dest}
}

// NewTruncatingMemorySink returns a sink that keeps the part of each write
// that fits, drops the rest and still reports the full length.
func NewTruncatingMemorySink(dest []byte) *MemorySink {
	return &MemorySink{dest: dest, truncate: true}
}

func (m *MemorySink) Write(p []byte) (int, error) {
	avail := len(m.dest) - m.idx
	if len(p) <= avail {
		m.idx += copy(m.dest[m.idx:], p)
		return len(p), nil
	}
	if !m.truncate {
		return 0, capacityError("memory write", "write overflow, req: [%d], avail: [%d]", len(p), avail)
	}
	m.idx += copy(m.dest[m.idx:], p)
	m.truncated = true
	return len(p), nil
}

// Flush is a no-op.
func (m *MemorySink) Flush() error {
	return nil
}

// Bytes returns the written part of the destination.
func (m *MemorySink) Bytes() []byte {
	return m.dest[:m.idx]
}

// Available returns the unused capacity.
func (m *MemorySink) Available() int {
	return len(m.dest) - m.idx
}

// Truncated reports whether a truncating sink has dropped any bytes.
func (m *MemorySink) Truncated() bool {
	return m.truncated
}

// DefaultArrayCapacity is the first allocation of an ArraySink.
const DefaultArrayCapacity = 256

// ArraySink collects writes in a growing array whose memory comes from an
// Allocator. Capacity doubles on growth; existing bytes are copied into the
// new block before the old one is freed.
type ArraySink struct {
	w *fast.Writer
}

// NewArraySink uses the heap allocator and DefaultArrayCapacity.
func NewArraySink() *ArraySink {
	return NewArraySinkAlloc(HeapAllocator{}, DefaultArrayCapacity)
}

// NewArraySinkAlloc uses alloc for every block, starting at initialCapacity.
func NewArraySinkAlloc(alloc Allocator, initialCapacity int) *ArraySink {
	return &ArraySink{w: fast.NewWriter(alloc, initialCapacity)}
}

func (a *ArraySink) Write(p []byte) (int, error) {
	a.w.Write(p)
	return len(p), nil
}

// Flush is a no-op.
func (a *ArraySink) Flush() error {
	return nil
}

// Bytes returns the written bytes. The slice is invalidated by the next Write.
func (a *ArraySink) Bytes() []byte {
	return a.w.Bytes()
}

func (a *ArraySink) Len() int {
	return a.w.Len()
}

func (a *ArraySink) Cap() int {
	return a.w.Cap()
}

// Release hands the written bytes to the caller, who then owns the block, and
// empties the sink.
func (a *ArraySink) Release() ([]byte, error) {
	if a.w.Len() == 0 {
		return nil, ioError("array release", nil, "cannot release empty array sink")
	}
	return a.w.Detach(), nil
}

// Reset returns the block to the allocator and empties the sink.
func (a *ArraySink) Reset() {
	a.w.Reset()
}

// StringSink accumulates writes into a string.
type StringSink struct {
	b strings.Builder
}

func NewStringSink() *StringSink {
	return &StringSink{}
}

func (s *StringSink) Write(p []byte) (int, error) {
	return s.b.Write(p)
}

// Flush is a no-op.
func (s *StringSink) Flush() error {
	return nil
}

func (s *StringSink) String() string {
	return s.b.String()
}

// NullSink discards everything written to it.
type NullSink struct{}

func (NullSink) Write(p []byte) (int, error) {
	return len(p), nil
}

// Flush is a no-op.
func (NullSink) Flush() error {
	return nil
}
