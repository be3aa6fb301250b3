package sio

import (
	"errors"
	"io"
)

var errBroken = errors.New("broken pipe")

// twoBytesSource hands out at most two bytes per Read, like a slow pipe.
type twoBytesSource struct {
	data []byte
	pos  int
}

func newTwoBytesSource(s string) *twoBytesSource {
	return &twoBytesSource{data: []byte(s)}
}

func (s *twoBytesSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	if len(p) > 2 {
		p = p[:2]
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

// twoBytesSink accepts at most two bytes per Write without reporting an error.
type twoBytesSink struct {
	data    []byte
	flushes int
}

func (s *twoBytesSink) Write(p []byte) (int, error) {
	if len(p) > 2 {
		p = p[:2]
	}
	s.data = append(s.data, p...)
	return len(p), nil
}

func (s *twoBytesSink) Flush() error {
	s.flushes++
	return nil
}

// failingSink accepts limit bytes in total and then fails.
type failingSink struct {
	limit   int
	written []byte
}

func (s *failingSink) Write(p []byte) (int, error) {
	room := s.limit - len(s.written)
	if room <= 0 {
		return 0, errBroken
	}
	if len(p) > room {
		s.written = append(s.written, p[:room]...)
		return room, errBroken
	}
	s.written = append(s.written, p...)
	return len(p), nil
}

// stalledSink never makes progress.
type stalledSink struct{}

func (stalledSink) Write([]byte) (int, error) {
	return 0, nil
}

// failingSource returns its data and then err instead of io.EOF.
type failingSource struct {
	data []byte
	err  error
}

func (s *failingSource) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, s.err
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

// chunkedSource returns one chunk per Read.
type chunkedSource struct {
	chunks []string
}

func (s *chunkedSource) Read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.chunks[0])
	s.chunks[0] = s.chunks[0][n:]
	if s.chunks[0] == "" {
		s.chunks = s.chunks[1:]
	}
	return n, nil
}

// closingSource records Close calls.
type closingSource struct {
	*StringSource
	closes int
	err    error
}

func newClosingSource(s string) *closingSource {
	return &closingSource{StringSource: NewStringSource(s)}
}

func (c *closingSource) Close() error {
	c.closes++
	return c.err
}

// closingSink records Flush and Close calls.
type closingSink struct {
	*StringSink
	flushes int
	closes  int
}

func newClosingSink() *closingSink {
	return &closingSink{StringSink: NewStringSink()}
}

func (c *closingSink) Flush() error {
	c.flushes++
	return nil
}

func (c *closingSink) Close() error {
	c.closes++
	return nil
}

// readInChunks drains src using the given read sizes in rotation.
func readInChunks(src Source, sizes []int) ([]byte, error) {
	var out []byte
	for i := 0; ; i++ {
		size := 1
		if len(sizes) > 0 {
			size = sizes[i%len(sizes)]
		}
		buf := make([]byte, size)
		n, err := src.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
