package sio

import (
	"errors"
	"io"
)

// WriteAll writes the whole of p to sink, retrying after short writes.
func WriteAll(sink Sink, p []byte) error {
	_, err := writeFull(sink, p)
	return err
}

// writeFull is WriteAll that also reports how much of p reached the sink.
func writeFull(sink Sink, p []byte) (int, error) {
	written := 0
	empty := 0
	for written < len(p) {
		n, err := sink.Write(p[written:])
		if n < 0 || n > len(p)-written {
			return written, ioError("write", nil, "invalid count returned by underlying write: [%d]", n)
		}
		written += n
		if err != nil {
			return written, err
		}
		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyAttempts {
			return written, ioError("write", io.ErrShortWrite, "no progress after %d attempts, remaining: [%d]", empty, len(p)-written)
		}
	}
	return written, nil
}

// WriteString writes the whole of s to sink.
func WriteString(sink Sink, s string) error {
	return WriteAll(sink, []byte(s))
}

// ReadAll reads from src until p is full or the stream ends and returns the
// number of bytes read. End of stream is not an error.
func ReadAll(src Source, p []byte) (int, error) {
	read := 0
	empty := 0
	for read < len(p) {
		n, err := src.Read(p[read:])
		if n < 0 || n > len(p)-read {
			return read, ioError("read", nil, "invalid count returned by underlying read: [%d]", n)
		}
		read += n
		if errors.Is(err, io.EOF) {
			return read, nil
		}
		if err != nil {
			return read, err
		}
		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyAttempts {
			return read, ioError("read", io.ErrNoProgress, "no progress after %d attempts", empty)
		}
	}
	return read, nil
}

// ReadExact fills p completely or fails.
func ReadExact(src Source, p []byte) error {
	n, err := ReadAll(src, p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return ioError("read", io.ErrUnexpectedEOF, "read amount: [%d] of expected: [%d]", n, len(p))
	}
	return nil
}

// CopyAll copies src to sink until src is exhausted, using buf as the
// transfer buffer. An empty buf is replaced by one of DefaultBufferSize.
func CopyAll(src Source, sink Sink, buf []byte) (int64, error) {
	if len(buf) == 0 {
		buf = make([]byte, DefaultBufferSize)
	}
	var total int64
	for {
		n, err := ReadAll(src, buf)
		if n > 0 {
			if werr := WriteAll(sink, buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err != nil {
			return total, err
		}
		if n < len(buf) {
			return total, nil
		}
	}
}

// Skip reads and discards exactly n bytes from src.
func Skip(src Source, n int64, buf []byte) error {
	if n < 0 {
		return ioError("skip", nil, "invalid skip length: [%d]", n)
	}
	if len(buf) == 0 {
		buf = make([]byte, DefaultBufferSize)
	}
	for n > 0 {
		chunk := buf
		if int64(len(chunk)) > n {
			chunk = chunk[:n]
		}
		if err := ReadExact(src, chunk); err != nil {
			return err
		}
		n -= int64(len(chunk))
	}
	return nil
}
