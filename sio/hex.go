package sio

import (
	"encoding/hex"
	"errors"
	"io"
)

// hexChunk is the size of the encode/decode scratch buffers, in hex characters.
const hexChunk = 4096

// HexSource decodes hexadecimal text read from the inner source. Digits are
// accepted in either case. Each Read makes one inner read (more only while
// fewer than two characters are at hand), so it returns what a slow pipe has
// delivered instead of waiting for len(p) bytes. An odd trailing character is
// carried over to the next Read.
type HexSource struct {
	src     Source
	scratch []byte
	// carry holds the first character of an incomplete pair when odd is set.
	carry byte
	odd   bool
	err   error
}

func NewHexSource(src Source) *HexSource {
	return &HexSource{
		src:     src,
		scratch: make([]byte, hexChunk),
	}
}

// Read decodes up to len(p) bytes. A non-hex character, or an odd number of
// characters at end of stream, is a decode error; bytes decoded before the
// fault are returned with it and the error repeats on every later call.
func (h *HexSource) Read(p []byte) (int, error) {
	if h.err != nil {
		return 0, h.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	want := 2 * len(p)
	if want > len(h.scratch) {
		want = len(h.scratch)
	}
	m := 0
	if h.odd {
		h.scratch[0] = h.carry
		h.odd = false
		m = 1
	}
	var rerr error
	for empty := 0; m < 2; {
		n, err := h.src.Read(h.scratch[m:want])
		if n < 0 || n > want-m {
			h.err = ioError("hex read", nil, "invalid count returned by underlying read: [%d]", n)
			return 0, h.err
		}
		m += n
		if err != nil {
			rerr = err
			break
		}
		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyAttempts {
			h.err = ioError("hex read", io.ErrNoProgress, "no progress after %d attempts", empty)
			return 0, h.err
		}
	}

	even := m &^ 1
	n, derr := hex.Decode(p, h.scratch[:even])
	switch {
	case derr != nil:
		h.err = decodeError("hex read", "error parsing byte from hex pair: [%s]", h.scratch[2*n:2*n+2])
	case rerr == nil:
		if m != even {
			h.carry, h.odd = h.scratch[even], true
		}
		return n, nil
	case !errors.Is(rerr, io.EOF):
		h.err = rerr
	case m != even:
		h.err = decodeError("hex read", "invalid non-even number of characters in hex source, tail: [%q]", h.scratch[even:m])
	default:
		h.err = io.EOF
		if n > 0 {
			return n, nil
		}
	}
	return n, h.err
}

// Source returns the inner source.
func (h *HexSource) Source() Source {
	return h.src
}

// Close closes the inner source.
func (h *HexSource) Close() error {
	return Close(h.src)
}

// HexSink encodes bytes as lowercase hexadecimal text, two characters per
// byte, and writes them to the inner sink.
type HexSink struct {
	sink    Sink
	scratch []byte
}

func NewHexSink(sink Sink) *HexSink {
	return &HexSink{
		sink:    sink,
		scratch: make([]byte, hexChunk),
	}
}

// Write encodes p. When the inner sink fails, the returned count is the
// number of bytes whose both characters were written.
func (h *HexSink) Write(p []byte) (int, error) {
	done := 0
	for done < len(p) {
		chunk := p[done:]
		if len(chunk) > len(h.scratch)/2 {
			chunk = chunk[:len(h.scratch)/2]
		}
		enc := hex.Encode(h.scratch, chunk)
		w, err := writeFull(h.sink, h.scratch[:enc])
		if err != nil {
			return done + w/2, ioError("hex write", err, "inner sink accepted [%d] of [%d] characters", w, enc)
		}
		done += len(chunk)
	}
	return done, nil
}

// Flush flushes the inner sink.
func (h *HexSink) Flush() error {
	return Flush(h.sink)
}

// Sink returns the inner sink.
func (h *HexSink) Sink() Sink {
	return h.sink
}

// Close closes the inner sink.
func (h *HexSink) Close() error {
	return Close(h.sink)
}
