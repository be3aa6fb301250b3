package sio

import "sync/atomic"

// Ownership wrappers give a Source or Sink an explicit lifetime discipline
// while keeping the capability interface unchanged:
//
//   - Unique wrappers own the inner value and close it once.
//   - Reference wrappers never close it. The caller must keep the inner value
//     usable for as long as the wrapper is used; this is not checked.
//   - Shared wrappers count handles and close the inner value when the last
//     handle is closed. The count is atomic, Read and Write are not locked.
//     Once the count has reached zero it never goes up again: Share on a
//     finished lifetime returns a closed handle whose operations fail.

// UniqueSource owns src.
type UniqueSource struct {
	src    Source
	closed bool
}

func NewUniqueSource(src Source) *UniqueSource {
	return &UniqueSource{src: src}
}

func (u *UniqueSource) Read(p []byte) (int, error) {
	return u.src.Read(p)
}

func (u *UniqueSource) Source() Source {
	return u.src
}

// Close closes src the first time it is called.
func (u *UniqueSource) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	return Close(u.src)
}

// ReferenceSource borrows src.
type ReferenceSource struct {
	src Source
}

func NewReferenceSource(src Source) *ReferenceSource {
	return &ReferenceSource{src: src}
}

func (r *ReferenceSource) Read(p []byte) (int, error) {
	return r.src.Read(p)
}

func (r *ReferenceSource) Source() Source {
	return r.src
}

// Close leaves src open.
func (r *ReferenceSource) Close() error {
	return nil
}

// refCount closes its target when the count drops to zero.
type refCount struct {
	n      atomic.Int64
	target any
}

func newRefCount(target any) *refCount {
	rc := &refCount{target: target}
	rc.n.Store(1)
	return rc
}

// retain adds a reference unless the target is already released.
func (rc *refCount) retain() bool {
	for {
		n := rc.n.Load()
		if n <= 0 {
			return false
		}
		if rc.n.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func errReleased(op string) error {
	return ioError(op, nil, "shared handle used after the last reference was closed")
}

func (rc *refCount) release() error {
	if rc.n.Add(-1) == 0 {
		return Close(rc.target)
	}
	return nil
}

// SharedSource is one handle on a reference-counted source.
type SharedSource struct {
	src    Source
	rc     *refCount
	closed atomic.Bool
	// err is set on handles shared after the source was closed.
	err error
}

func NewSharedSource(src Source) *SharedSource {
	return &SharedSource{src: src, rc: newRefCount(src)}
}

// Share returns a new handle on the same source. If the last handle has
// already been closed, the returned handle is closed too and Read fails with
// an ErrIO error.
func (s *SharedSource) Share() *SharedSource {
	if !s.rc.retain() {
		h := &SharedSource{src: s.src, rc: s.rc, err: errReleased("shared read")}
		h.closed.Store(true)
		return h
	}
	return &SharedSource{src: s.src, rc: s.rc}
}

func (s *SharedSource) Read(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.src.Read(p)
}

func (s *SharedSource) Source() Source {
	return s.src
}

// Refs returns the number of open handles.
func (s *SharedSource) Refs() int64 {
	return s.rc.n.Load()
}

// Close releases this handle; the last release closes the source.
// Closing a handle twice has no further effect.
func (s *SharedSource) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.rc.release()
}

// UniqueSink owns sink.
type UniqueSink struct {
	sink   Sink
	closed bool
}

func NewUniqueSink(sink Sink) *UniqueSink {
	return &UniqueSink{sink: sink}
}

func (u *UniqueSink) Write(p []byte) (int, error) {
	return u.sink.Write(p)
}

func (u *UniqueSink) Flush() error {
	return Flush(u.sink)
}

func (u *UniqueSink) Sink() Sink {
	return u.sink
}

// Close closes sink the first time it is called.
func (u *UniqueSink) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	return Close(u.sink)
}

// ReferenceSink borrows sink.
type ReferenceSink struct {
	sink Sink
}

func NewReferenceSink(sink Sink) *ReferenceSink {
	return &ReferenceSink{sink: sink}
}

func (r *ReferenceSink) Write(p []byte) (int, error) {
	return r.sink.Write(p)
}

func (r *ReferenceSink) Flush() error {
	return Flush(r.sink)
}

func (r *ReferenceSink) Sink() Sink {
	return r.sink
}

// Close leaves sink open.
func (r *ReferenceSink) Close() error {
	return nil
}

// SharedSink is one handle on a reference-counted sink.
type SharedSink struct {
	sink   Sink
	rc     *refCount
	closed atomic.Bool
	// err is set on handles shared after the sink was closed.
	err error
}

func NewSharedSink(sink Sink) *SharedSink {
	return &SharedSink{sink: sink, rc: newRefCount(sink)}
}

// Share returns a new handle on the same sink. If the last handle has
// already been closed, the returned handle is closed too and Write and Flush
// fail with an ErrIO error.
func (s *SharedSink) Share() *SharedSink {
	if !s.rc.retain() {
		h := &SharedSink{sink: s.sink, rc: s.rc, err: errReleased("shared write")}
		h.closed.Store(true)
		return h
	}
	return &SharedSink{sink: s.sink, rc: s.rc}
}

func (s *SharedSink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.sink.Write(p)
}

func (s *SharedSink) Flush() error {
	if s.err != nil {
		return s.err
	}
	return Flush(s.sink)
}

func (s *SharedSink) Sink() Sink {
	return s.sink
}

// Refs returns the number of open handles.
func (s *SharedSink) Refs() int64 {
	return s.rc.n.Load()
}

// Close releases this handle; the last release closes the sink.
// Closing a handle twice has no further effect.
func (s *SharedSink) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.rc.release()
}
