package sio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyingSource(t *testing.T) {
	tee := NewStringSink()
	src := NewCopyingSource(newTwoBytesSource("hello"), tee)

	out, err := readInChunks(src, []int{3})
	require.NoError(t, err)
	require.Equal(t, "hello", string(out))
	require.Equal(t, "hello", tee.String())
	require.Same(t, tee, src.Sink())
}

func TestCopyingSource_SinkFailure(t *testing.T) {
	src := NewCopyingSource(NewStringSource("abcdef"), &failingSink{limit: 2})
	p := make([]byte, 4)
	n, err := src.Read(p)
	require.Equal(t, 4, n, "the read itself succeeded")
	require.Equal(t, errBroken, err)
}

func TestCopyingSource_Close(t *testing.T) {
	inner := newClosingSource("x")
	tee := newClosingSink()
	src := NewCopyingSource(inner, tee)

	require.NoError(t, src.Close())
	require.Equal(t, 1, tee.flushes)
	require.Equal(t, 1, tee.closes)
	require.Equal(t, 1, inner.closes)

	inner.err = errBroken
	require.ErrorIs(t, NewCopyingSource(inner, NullSink{}).Close(), errBroken)
}

func TestFlushable(t *testing.T) {
	inner := &failingSink{limit: 8}
	sink := NewFlushable(inner)
	var _ FlushableSink = sink

	require.NoError(t, WriteString(sink, "abc"))
	require.NoError(t, sink.Flush())
	require.Equal(t, "abc", string(inner.written))

	closing := newClosingSink()
	require.NoError(t, NewFlushable(closing).Close())
	require.Equal(t, 1, closing.closes)
}
