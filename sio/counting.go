package sio

import "io"

// CountingSource counts the bytes actually read through it.
type CountingSource struct {
	src   Source
	count int64
}

// NewCountingSource wraps src with a zero count.
func NewCountingSource(src Source) *CountingSource {
	return &CountingSource{src: src}
}

func (c *CountingSource) Read(p []byte) (int, error) {
	n, err := c.src.Read(p)
	if n > 0 {
		c.count += int64(n)
	}
	return n, err
}

// Count returns the running total of bytes read.
func (c *CountingSource) Count() int64 {
	return c.count
}

// Source returns the inner source.
func (c *CountingSource) Source() Source {
	return c.src
}

// Close closes the inner source.
func (c *CountingSource) Close() error {
	return Close(c.src)
}

// CountingSink counts the bytes the inner sink actually accepted.
type CountingSink struct {
	sink  Sink
	count int64
}

// NewCountingSink wraps sink with a zero count.
func NewCountingSink(sink Sink) *CountingSink {
	return &CountingSink{sink: sink}
}

func (c *CountingSink) Write(p []byte) (int, error) {
	n, err := c.sink.Write(p)
	if n > 0 {
		c.count += int64(n)
	}
	return n, err
}

// Flush flushes the inner sink.
func (c *CountingSink) Flush() error {
	return Flush(c.sink)
}

// Count returns the running total of bytes written.
func (c *CountingSink) Count() int64 {
	return c.count
}

// Sink returns the inner sink.
func (c *CountingSink) Sink() Sink {
	return c.sink
}

// Close closes the inner sink.
func (c *CountingSink) Close() error {
	return Close(c.sink)
}

// LimitedSource stops yielding bytes once limit bytes have been read,
// whatever the inner source still holds.
type LimitedSource struct {
	src   *CountingSource
	limit int64
	done  bool
}

// NewLimitedSource reads at most limit bytes from src. A limit of zero or
// less yields an empty stream.
func NewLimitedSource(src Source, limit int64) *LimitedSource {
	if limit < 0 {
		limit = 0
	}
	return &LimitedSource{
		src:   NewCountingSource(src),
		limit: limit,
	}
}

// Read clamps p to the remaining allowance and reports io.EOF once it is used up.
func (l *LimitedSource) Read(p []byte) (int, error) {
	remaining := l.limit - l.src.Count()
	if l.done || remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := l.src.Read(p)
	if err == io.EOF {
		l.done = true
		if n > 0 {
			err = nil
		}
	}
	return n, err
}

// Count returns the number of bytes read so far.
func (l *LimitedSource) Count() int64 {
	return l.src.Count()
}

// Limit returns the configured limit.
func (l *LimitedSource) Limit() int64 {
	return l.limit
}

// Source returns the inner source.
func (l *LimitedSource) Source() Source {
	return l.src.Source()
}

// Close closes the inner source.
func (l *LimitedSource) Close() error {
	return Close(l.src.Source())
}
