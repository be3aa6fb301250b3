package sio

import (
	"bytes"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPrefix            = "{{"
	DefaultPostfix           = "}}"
	DefaultMaxPlaceholderLen = 255

	// replaceBatch caps the output prepared by a single Read.
	replaceBatch = 4096
)

// UnknownPolicy decides what replaces a placeholder whose name has no value.
type UnknownPolicy int

const (
	// PassThrough emits the placeholder verbatim, delimiters included.
	PassThrough UnknownPolicy = iota
	// Elide emits nothing in place of the placeholder.
	Elide
)

// ErrorHandler is told about every placeholder that could not be replaced.
// err is ErrUnknownToken, ErrUnclosedToken or ErrTokenTooLong. The handler
// cannot stop the stream.
type ErrorHandler func(token string, err error)

// ReplacerOption configures a ReplacerSource.
type ReplacerOption func(*ReplacerSource)

// WithDelimiters sets the placeholder prefix and postfix. Empty values keep the defaults.
func WithDelimiters(prefix, postfix string) ReplacerOption {
	return func(r *ReplacerSource) {
		if prefix != "" {
			r.prefix = []byte(prefix)
		}
		if postfix != "" {
			r.postfix = []byte(postfix)
		}
	}
}

// WithMaxPlaceholderLen bounds placeholder names; longer ones are emitted verbatim.
func WithMaxPlaceholderLen(n int) ReplacerOption {
	return func(r *ReplacerSource) {
		if n > 0 {
			r.maxLen = n
		}
	}
}

// WithErrorHandler replaces the default handler, which logs a warning per
// unresolved placeholder. A nil fn keeps the default.
func WithErrorHandler(fn ErrorHandler) ReplacerOption {
	return func(r *ReplacerSource) {
		if fn != nil {
			r.onError = fn
		}
	}
}

// WithUnknownPolicy sets what is emitted for placeholders without a value.
func WithUnknownPolicy(p UnknownPolicy) ReplacerOption {
	return func(r *ReplacerSource) {
		r.policy = p
	}
}

// ReplacerSource substitutes prefix+name+postfix placeholders in the inner
// stream with values looked up by name (case-sensitive).
//
// Scanning is greedy, left to right, and never revisits emitted output. When a
// partial prefix match fails, the matched bytes are emitted as text and the
// failing byte is tried again as the start of a prefix.
type ReplacerSource struct {
	src     *BufferedSource
	values  map[string]string
	onError ErrorHandler
	prefix  []byte
	postfix []byte
	maxLen  int
	policy  UnknownPolicy

	out []byte
	pos int
	// matched counts prefix bytes seen while outside a placeholder.
	matched int
	inToken bool
	// name accumulates the placeholder body, postfix bytes included.
	name []byte
	err  error
}

// NewReplacerSource wraps src, reading it through a BufferedSource. A nil
// values map behaves as an empty one.
func NewReplacerSource(src Source, values map[string]string, opts ...ReplacerOption) *ReplacerSource {
	r := &ReplacerSource{
		src:     NewBufferedSource(src),
		values:  values,
		onError: logUnresolved,
		prefix:  []byte(DefaultPrefix),
		postfix: []byte(DefaultPostfix),
		maxLen:  DefaultMaxPlaceholderLen,
		policy:  PassThrough,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.values == nil {
		r.values = map[string]string{}
	}
	return r
}

func logUnresolved(token string, err error) {
	logrus.WithField("token", token).WithError(err).Warn("Placeholder left unresolved")
}

func (r *ReplacerSource) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.pos < len(r.out) {
		return r.copyOut(p), nil
	}
	if r.err != nil {
		return 0, r.err
	}
	r.out = r.out[:0]
	r.pos = 0
	batch := len(p)
	if batch > replaceBatch {
		batch = replaceBatch
	}
	for len(r.out) < batch {
		c, err := r.src.ReadByte()
		if err != nil {
			// a pending prefix or placeholder is only resolved at end of
			// stream; any other failure drops it
			if errors.Is(err, io.EOF) {
				r.finish()
			}
			r.err = err
			break
		}
		if r.inToken {
			r.placeholder(c)
		} else {
			r.text(c)
		}
	}
	if r.pos < len(r.out) {
		return r.copyOut(p), nil
	}
	return 0, r.err
}

func (r *ReplacerSource) copyOut(p []byte) int {
	n := copy(p, r.out[r.pos:])
	r.pos += n
	return n
}

func (r *ReplacerSource) text(c byte) {
	if c == r.prefix[r.matched] {
		r.matched++
		if r.matched == len(r.prefix) {
			r.matched = 0
			r.inToken = true
			r.name = r.name[:0]
		}
		return
	}
	if r.matched > 0 {
		r.out = append(r.out, r.prefix[:r.matched]...)
		r.matched = 0
		r.text(c)
		return
	}
	r.out = append(r.out, c)
}

func (r *ReplacerSource) placeholder(c byte) {
	r.name = append(r.name, c)
	if bytes.HasSuffix(r.name, r.postfix) {
		key := string(r.name[:len(r.name)-len(r.postfix)])
		if v, ok := r.values[key]; ok {
			r.out = append(r.out, v...)
		} else {
			r.onError(key, ErrUnknownToken)
			if r.policy == PassThrough {
				r.emitToken()
			}
		}
		r.inToken = false
		return
	}
	if len(r.name) >= r.maxLen+len(r.postfix) {
		r.onError(string(r.name), ErrTokenTooLong)
		r.emitToken()
		r.inToken = false
	}
}

// finish runs once at end of stream and emits whatever is still pending.
func (r *ReplacerSource) finish() {
	if r.matched > 0 {
		r.out = append(r.out, r.prefix[:r.matched]...)
		r.matched = 0
	}
	if r.inToken {
		r.onError(string(r.name), ErrUnclosedToken)
		r.emitToken()
		r.inToken = false
	}
}

func (r *ReplacerSource) emitToken() {
	r.out = append(r.out, r.prefix...)
	r.out = append(r.out, r.name...)
}

// Values returns the replacement mapping.
func (r *ReplacerSource) Values() map[string]string {
	return r.values
}

// Source returns the inner source.
func (r *ReplacerSource) Source() Source {
	return r.src.Source()
}

// Close closes the inner source.
func (r *ReplacerSource) Close() error {
	return r.src.Close()
}
