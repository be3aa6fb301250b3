package sio

import "io"

// DefaultBufferSize is the buffer size used by buffered adapters and CopyAll.
const DefaultBufferSize = 8192

// maxEmptyAttempts bounds consecutive zero-progress calls before an
// operation gives up on a stream.
const maxEmptyAttempts = 100

// Source yields bytes. Read fills at most len(p) bytes and returns (0, io.EOF)
// at end of stream. It has the shape of io.Reader.
type Source interface {
	Read(p []byte) (n int, err error)
}

// Sink accepts bytes. Write consumes at most len(p) bytes; an inner sink may
// write fewer with a nil error, callers retry the rest with WriteAll.
// It has the shape of io.Writer.
type Sink interface {
	Write(p []byte) (n int, err error)
}

// Flusher is the optional capability of sinks that hold data back.
type Flusher interface {
	Flush() error
}

// FlushableSink is a Sink with the Flush capability.
type FlushableSink interface {
	Sink
	Flusher
}

// Flush flushes v if it is a Flusher.
func Flush(v any) error {
	if f, ok := v.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close closes v if it is an io.Closer.
func Close(v any) error {
	if c, ok := v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
