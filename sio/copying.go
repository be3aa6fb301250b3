package sio

import "go.uber.org/multierr"

// CopyingSource passes reads through and writes every byte read to a sink
// before returning it, like a tee.
type CopyingSource struct {
	src  Source
	sink Sink
}

func NewCopyingSource(src Source, sink Sink) *CopyingSource {
	return &CopyingSource{src: src, sink: sink}
}

func (c *CopyingSource) Read(p []byte) (int, error) {
	n, err := c.src.Read(p)
	if n > 0 {
		if werr := WriteAll(c.sink, p[:n]); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// Flush flushes the sink.
func (c *CopyingSource) Flush() error {
	return Flush(c.sink)
}

func (c *CopyingSource) Source() Source {
	return c.src
}

func (c *CopyingSource) Sink() Sink {
	return c.sink
}

// Close flushes the sink and closes both ends.
func (c *CopyingSource) Close() error {
	return multierr.Combine(Flush(c.sink), Close(c.sink), Close(c.src))
}

// Flushable gives a sink without a Flush method a no-op one.
type Flushable struct {
	sink Sink
}

func NewFlushable(sink Sink) *Flushable {
	return &Flushable{sink: sink}
}

func (f *Flushable) Write(p []byte) (int, error) {
	return f.sink.Write(p)
}

// Flush does nothing.
func (f *Flushable) Flush() error {
	return nil
}

func (f *Flushable) Sink() Sink {
	return f.sink
}

// Close closes the inner sink.
func (f *Flushable) Close() error {
	return Close(f.sink)
}
