package fast

// buffer.go provides the two byte-slice primitives the stream adapters are built on.
//
// Purpose:
// - Reader is a cursor over a fixed slice. It copies out of the slice and never reads past the end.
// - Writer is a growable slice whose memory comes from a pluggable Allocator, so callers that
//   manage their own pools (or want to count allocations) can plug in instead of the Go heap.
// - Neither type is safe for concurrent use.

// Allocator hands out and takes back the backing arrays of a Writer.
// Allocate must return a slice with len == size.
type Allocator interface {
	Allocate(size int) []byte
	Free(b []byte)
}

// HeapAllocator allocates with make and leaves freeing to the garbage collector.
type HeapAllocator struct{}

// Allocate returns a zeroed slice of the requested size.
func (HeapAllocator) Allocate(size int) []byte {
	return make([]byte, size)
}

// Free is a no-op, the collector reclaims the block.
func (HeapAllocator) Free([]byte) {}

type Reader struct {
	// buf is the underlying data source.
	buf []byte
	// offset tracks the current reading position (cursor).
	offset int
}

type Writer struct {
	// buf holds the written bytes in buf[:size]; len(buf) is the capacity.
	buf  []byte
	size int
	// alloc provides and reclaims the backing array on growth.
	alloc Allocator
	// initial is the capacity of the first allocation.
	initial int
}

// NewReader creates a Reader to consume the provided byte slice.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter creates a Writer that allocates lazily from alloc, starting at
// initialCapacity bytes. A nil alloc means HeapAllocator.
func NewWriter(alloc Allocator, initialCapacity int) *Writer {
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &Writer{
		alloc:   alloc,
		initial: initialCapacity,
	}
}

// Read copies up to len(p) unread bytes into p and advances the cursor.
// It returns 0 once the Reader is empty.
func (b *Reader) Read(p []byte) int {
	n := copy(p, b.buf[b.offset:])
	b.offset += n
	return n
}

// Remaining returns the number of unread bytes.
func (b *Reader) Remaining() int {
	return len(b.buf) - b.offset
}

// Bytes returns the entire underlying buffer of the Reader.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Empty checks if the Reader has reached the end of the buffer.
// Returns true if there are no more bytes to read.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}

// Write appends v, growing the backing array when it does not fit.
func (b *Writer) Write(v []byte) {
	b.grow(len(v))
	b.size += copy(b.buf[b.size:], v)
}

// grow makes room for n more bytes.
//
// Capacity doubles (starting from the initial capacity) until the pending write fits.
// The old contents are copied into the new block before the old block is freed,
// so a growth event never loses written bytes.
func (b *Writer) grow(n int) {
	need := b.size + n
	if need <= len(b.buf) {
		return
	}
	capacity := len(b.buf)
	if capacity == 0 {
		capacity = b.initial
	}
	for capacity < need {
		if capacity == 0 {
			capacity = need
			break
		}
		capacity *= 2
	}
	nbuf := b.alloc.Allocate(capacity)
	copy(nbuf, b.buf[:b.size])
	if b.buf != nil {
		b.alloc.Free(b.buf)
	}
	b.buf = nbuf
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf[:b.size]
}

// Len returns the number of bytes written.
func (b *Writer) Len() int {
	return b.size
}

// Cap returns the size of the current backing array.
func (b *Writer) Cap() int {
	return len(b.buf)
}

// Detach hands the written bytes to the caller and leaves the Writer empty.
// The caller becomes responsible for the returned block; it is not freed.
func (b *Writer) Detach() []byte {
	res := b.buf[:b.size]
	b.buf = nil
	b.size = 0
	return res
}

// Reset frees the backing array and empties the Writer.
func (b *Writer) Reset() {
	if b.buf != nil {
		b.alloc.Free(b.buf)
	}
	b.buf = nil
	b.size = 0
}
