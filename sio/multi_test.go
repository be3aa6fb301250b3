package sio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"pgregory.net/rapid"
)

func TestMultiSource(t *testing.T) {
	t.Run("concatenates", func(t *testing.T) {
		src := NewMultiSource(
			NewStringSource("ab"),
			NewStringSource(""),
			newTwoBytesSource("cde"),
			NewArraySource([]byte("f")),
		)
		out, err := readInChunks(src, []int{3, 1})
		require.NoError(t, err)
		require.Equal(t, "abcdef", string(out))
		require.Len(t, src.Sources(), 4)

		n, err := src.Read(make([]byte, 2))
		require.Equal(t, 0, n)
		require.Equal(t, io.EOF, err)
	})

	t.Run("no sources", func(t *testing.T) {
		n, err := NewMultiSource().Read(make([]byte, 2))
		require.Equal(t, 0, n)
		require.Equal(t, io.EOF, err)
	})

	t.Run("stops at an error", func(t *testing.T) {
		src := NewMultiSource(
			NewStringSource("a"),
			&failingSource{data: []byte("b"), err: errBroken},
			NewStringSource("c"),
		)
		out, err := readInChunks(src, []int{4})
		require.Equal(t, errBroken, err)
		require.Equal(t, "ab", string(out))
	})

	t.Run("close reports every failure", func(t *testing.T) {
		first, second, third := newClosingSource(""), newClosingSource(""), newClosingSource("")
		first.err = errBroken
		third.err = errors.New("disk gone")

		err := NewMultiSource(first, NewStringSource("x"), second, third).Close()
		require.Len(t, multierr.Errors(err), 2)
		require.ErrorIs(t, err, errBroken)
		require.Equal(t, 1, first.closes)
		require.Equal(t, 1, second.closes)
		require.Equal(t, 1, third.closes)
	})
}

func TestMultiSource_SplitInvariance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		parts := rapid.SliceOfN(rapid.SliceOf(rapid.Byte()), 0, 6).Draw(rt, "parts")
		reads := rapid.SliceOfN(rapid.IntRange(1, 16), 1, 4).Draw(rt, "reads")

		sources := make([]Source, len(parts))
		for i, p := range parts {
			sources[i] = &twoBytesSource{data: p}
		}
		out, err := readInChunks(NewMultiSource(sources...), reads)
		if err != nil {
			rt.Fatalf("read: %v", err)
		}
		if want := bytes.Join(parts, nil); !bytes.Equal(want, out) {
			rt.Fatalf("want %x, got %x", want, out)
		}
	})
}
