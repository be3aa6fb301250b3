package sio

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCountingSink(t *testing.T) {
	inner := &twoBytesSink{}
	sink := NewCountingSink(inner)

	n, err := sink.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, int64(2), sink.Count(), "counts what the inner sink took")

	require.NoError(t, WriteString(sink, "llo"))
	require.Equal(t, int64(5), sink.Count())
	require.Equal(t, "hello", string(inner.data))

	require.NoError(t, sink.Flush())
	require.Equal(t, 1, inner.flushes)

	failing := NewCountingSink(&failingSink{limit: 3})
	require.Error(t, WriteString(failing, "abcdef"))
	require.Equal(t, int64(3), failing.Count())
}

func TestCountingSource(t *testing.T) {
	src := NewCountingSource(newTwoBytesSource("hello"))
	out, err := readInChunks(src, []int{3})
	require.NoError(t, err)
	require.Equal(t, "hello", string(out))
	require.Equal(t, int64(5), src.Count())

	cs := newClosingSource("")
	require.NoError(t, NewCountingSource(cs).Close())
	require.Equal(t, 1, cs.closes)
}

func TestLimitedSource(t *testing.T) {
	t.Run("stops at the limit", func(t *testing.T) {
		inner := NewStringSource("hello world")
		src := NewLimitedSource(inner, 5)

		out, err := readInChunks(src, []int{3})
		require.NoError(t, err)
		require.Equal(t, "hello", string(out))
		require.Equal(t, int64(5), src.Count())
		require.Equal(t, int64(5), src.Limit())

		rest, err := readInChunks(inner, []int{16})
		require.NoError(t, err)
		require.Equal(t, " world", string(rest), "bytes past the limit stay in the inner source")
	})

	t.Run("short inner source", func(t *testing.T) {
		src := NewLimitedSource(newTwoBytesSource("abc"), 10)
		out, err := readInChunks(src, []int{8})
		require.NoError(t, err)
		require.Equal(t, "abc", string(out))

		n, err := src.Read(make([]byte, 4))
		require.Equal(t, 0, n)
		require.Equal(t, io.EOF, err)
	})

	t.Run("zero limit", func(t *testing.T) {
		src := NewLimitedSource(NewStringSource("abc"), 0)
		n, err := src.Read(make([]byte, 4))
		require.Equal(t, 0, n)
		require.Equal(t, io.EOF, err)

		require.Equal(t, int64(0), NewLimitedSource(NewStringSource("abc"), -3).Limit())
	})
}

func TestLimitedSource_ReadsMinOfLimitAndData(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		limit := rapid.Int64Range(0, 64).Draw(rt, "limit")
		reads := rapid.SliceOfN(rapid.IntRange(1, 16), 1, 4).Draw(rt, "reads")

		src := NewLimitedSource(&twoBytesSource{data: data}, limit)
		out, err := readInChunks(src, reads)
		if err != nil {
			rt.Fatalf("read: %v", err)
		}
		want := int64(len(data))
		if limit < want {
			want = limit
		}
		if int64(len(out)) != want || src.Count() != want {
			rt.Fatalf("want %d bytes, got %d (count %d)", want, len(out), src.Count())
		}
	})
}
