package sio

import "io"

// BufferedSource batches reads from the inner source through a fixed buffer.
type BufferedSource struct {
	src Source
	buf []byte
	// buf[pos:end] holds unread data.
	pos, end int
	// err is the first error (io.EOF included) returned by src; it is reported
	// once the buffer is drained and every time after.
	err error
}

// NewBufferedSource wraps src with a DefaultBufferSize buffer.
func NewBufferedSource(src Source) *BufferedSource {
	return NewBufferedSourceSize(src, DefaultBufferSize)
}

// NewBufferedSourceSize wraps src with a buffer of size bytes.
func NewBufferedSourceSize(src Source, size int) *BufferedSource {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &BufferedSource{
		src: src,
		buf: make([]byte, size),
	}
}

// Read serves buffered bytes first. With an empty buffer it makes one read
// from the inner source: straight into p when p is at least as large as the
// buffer, into the buffer otherwise.
func (b *BufferedSource) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.pos == b.end {
		if b.err != nil {
			return 0, b.err
		}
		if len(p) >= len(b.buf) {
			n, err := b.src.Read(p)
			if n < 0 || n > len(p) {
				return 0, ioError("read", nil, "invalid count returned by underlying read: [%d]", n)
			}
			b.setErr(err)
			if n == 0 && b.err != nil {
				return 0, b.err
			}
			return n, nil
		}
		if err := b.fill(); err != nil {
			return 0, err
		}
		if b.pos == b.end {
			return 0, b.err
		}
	}
	n := copy(p, b.buf[b.pos:b.end])
	b.pos += n
	return n, nil
}

// ReadByte reads a single byte.
func (b *BufferedSource) ReadByte() (byte, error) {
	for empty := 0; b.pos == b.end; empty++ {
		if b.err != nil {
			return 0, b.err
		}
		if empty >= maxEmptyAttempts {
			return 0, ioError("read", io.ErrNoProgress, "no progress after %d attempts", empty)
		}
		if err := b.fill(); err != nil {
			return 0, err
		}
	}
	c := b.buf[b.pos]
	b.pos++
	return c, nil
}

// fill makes one read into the empty buffer.
func (b *BufferedSource) fill() error {
	b.pos, b.end = 0, 0
	n, err := b.src.Read(b.buf)
	if n < 0 || n > len(b.buf) {
		return ioError("read", nil, "invalid count returned by underlying read: [%d]", n)
	}
	b.end = n
	b.setErr(err)
	return nil
}

func (b *BufferedSource) setErr(err error) {
	if err != nil && b.err == nil {
		b.err = err
	}
}

// Buffered returns the number of bytes that can be read without touching the inner source.
func (b *BufferedSource) Buffered() int {
	return b.end - b.pos
}

// Source returns the inner source.
func (b *BufferedSource) Source() Source {
	return b.src
}

// Close closes the inner source.
func (b *BufferedSource) Close() error {
	return Close(b.src)
}

// BufferedSink batches writes to the inner sink through a fixed buffer.
// Pending bytes reach the inner sink when the buffer fills, on Flush and on Close.
type BufferedSink struct {
	sink Sink
	buf  []byte
	n    int
	err  error
}

// NewBufferedSink wraps sink with a DefaultBufferSize buffer.
func NewBufferedSink(sink Sink) *BufferedSink {
	return NewBufferedSinkSize(sink, DefaultBufferSize)
}

// NewBufferedSinkSize wraps sink with a buffer of size bytes.
func NewBufferedSinkSize(sink Sink, size int) *BufferedSink {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &BufferedSink{
		sink: sink,
		buf:  make([]byte, size),
	}
}

// Write buffers p. Writes of at least the buffer size go directly to the
// inner sink once pending bytes are out, and a failure there reports how much
// of p the inner sink took. After an inner failure every Write returns that
// failure.
func (b *BufferedSink) Write(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if len(p) >= len(b.buf) {
		if err := b.flushBuffer(); err != nil {
			return 0, err
		}
		n, err := writeFull(b.sink, p)
		if err != nil {
			b.err = err
		}
		return n, err
	}
	written := 0
	for len(p) > 0 {
		c := copy(b.buf[b.n:], p)
		b.n += c
		written += c
		p = p[c:]
		if b.n == len(b.buf) {
			if err := b.flushBuffer(); err != nil {
				// bytes copied into the failed buffer are accepted but lost
				// together with it; report only what preceded them.
				return written - c, err
			}
		}
	}
	return written, nil
}

// Flush writes pending bytes to the inner sink and flushes it.
func (b *BufferedSink) Flush() error {
	if err := b.flushBuffer(); err != nil {
		return err
	}
	return Flush(b.sink)
}

func (b *BufferedSink) flushBuffer() error {
	if b.err != nil {
		return b.err
	}
	if b.n == 0 {
		return nil
	}
	if err := WriteAll(b.sink, b.buf[:b.n]); err != nil {
		b.err = err
		return err
	}
	b.n = 0
	return nil
}

// Buffered returns the number of pending bytes.
func (b *BufferedSink) Buffered() int {
	return b.n
}

// Sink returns the inner sink.
func (b *BufferedSink) Sink() Sink {
	return b.sink
}

// Close flushes and then closes the inner sink. The inner sink is closed even
// when the flush fails.
func (b *BufferedSink) Close() error {
	ferr := b.Flush()
	cerr := Close(b.sink)
	if ferr != nil {
		return ferr
	}
	return cerr
}

var (
	_ io.ByteReader = (*BufferedSource)(nil)
	_ FlushableSink = (*BufferedSink)(nil)
)
