package sio

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type unresolved struct {
	token string
	err   error
}

func collectUnresolved(list *[]unresolved) ReplacerOption {
	return WithErrorHandler(func(token string, err error) {
		*list = append(*list, unresolved{token, err})
	})
}

func replaceAll(t *testing.T, input string, values map[string]string, opts ...ReplacerOption) string {
	t.Helper()
	out, err := readInChunks(NewReplacerSource(NewStringSource(input), values, opts...), []int{3})
	require.NoError(t, err)
	return string(out)
}

func TestReplacerSource(t *testing.T) {
	t.Run("small reads", func(t *testing.T) {
		src := NewReplacerSource(NewStringSource("fox{{abc}}42"), map[string]string{"abc": "bar"})
		p := make([]byte, 4)

		n, err := src.Read(p)
		require.NoError(t, err)
		require.Equal(t, "foxb", string(p[:n]))

		n, err = src.Read(p[:2])
		require.NoError(t, err)
		require.Equal(t, "ar", string(p[:n]))

		n, err = src.Read(p[:2])
		require.NoError(t, err)
		require.Equal(t, "42", string(p[:n]))

		rest, err := readInChunks(src, []int{4})
		require.NoError(t, err)
		require.Empty(t, rest)
	})

	t.Run("several placeholders", func(t *testing.T) {
		values := map[string]string{"a": "1", "bb": "", "c": "{{a}}"}
		require.Equal(t, "x1y-z{{a}}", replaceAll(t, "x{{a}}y{{bb}}-z{{c}}", values), "values are not rescanned")
	})

	t.Run("unknown tokens pass through", func(t *testing.T) {
		var errs []unresolved
		out := replaceAll(t, "a{{nope}}b", nil, collectUnresolved(&errs))
		require.Equal(t, "a{{nope}}b", out)
		require.Equal(t, []unresolved{{"nope", ErrUnknownToken}}, errs)
	})

	t.Run("unknown tokens elided", func(t *testing.T) {
		var errs []unresolved
		out := replaceAll(t, "a{{nope}}b", nil, collectUnresolved(&errs), WithUnknownPolicy(Elide))
		require.Equal(t, "ab", out)
		require.Len(t, errs, 1)
	})

	t.Run("unclosed token", func(t *testing.T) {
		var errs []unresolved
		out := replaceAll(t, "x{{abc", map[string]string{"abc": "v"}, collectUnresolved(&errs))
		require.Equal(t, "x{{abc", out)
		require.Equal(t, []unresolved{{"abc", ErrUnclosedToken}}, errs)
	})

	t.Run("inner failure inside token", func(t *testing.T) {
		var errs []unresolved
		src := NewReplacerSource(&failingSource{data: []byte("x {{na"), err: errBroken}, nil, collectUnresolved(&errs))

		out, err := readInChunks(src, []int{8})
		require.Equal(t, errBroken, err)
		require.Equal(t, "x ", string(out), "the half-read token is not emitted")
		require.Empty(t, errs)

		_, err = src.Read(make([]byte, 8))
		require.Equal(t, errBroken, err)
	})

	t.Run("partial prefix", func(t *testing.T) {
		values := map[string]string{"k": "V"}
		require.Equal(t, "a{bV", replaceAll(t, "a{b{{k}}", values))
		require.Equal(t, "end{", replaceAll(t, "end{", values))
		require.Equal(t, "V", replaceAll(t, "{{{k}}", map[string]string{"{k": "V"}), "the first prefix wins")
	})

	t.Run("custom delimiters", func(t *testing.T) {
		values := map[string]string{"HOME": "/root"}
		out := replaceAll(t, "cd ${HOME}/{{HOME}}", values, WithDelimiters("${", "}"))
		require.Equal(t, "cd /root/{{HOME}}", out)
	})

	t.Run("placeholder length", func(t *testing.T) {
		var errs []unresolved
		values := map[string]string{"abc": "v", "abcd": "w"}
		opts := []ReplacerOption{WithMaxPlaceholderLen(3), collectUnresolved(&errs)}

		require.Equal(t, "v", replaceAll(t, "{{abc}}", values, opts...))
		require.Empty(t, errs)

		require.Equal(t, "{{abcd}}!", replaceAll(t, "{{abcd}}!", values, opts...))
		require.Len(t, errs, 1)
		require.Equal(t, ErrTokenTooLong, errs[0].err)
	})

	t.Run("case sensitive", func(t *testing.T) {
		require.Equal(t, "{{ABC}}", replaceAll(t, "{{ABC}}", map[string]string{"abc": "v"}, collectUnresolved(new([]unresolved))))
	})

	t.Run("accessors", func(t *testing.T) {
		inner := newClosingSource("")
		src := NewReplacerSource(inner, nil)
		require.NotNil(t, src.Values())
		require.Same(t, inner, src.Source())
		require.NoError(t, src.Close())
		require.Equal(t, 1, inner.closes)
	})
}

func TestReplacerSource_LogsByDefault(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	out, err := readInChunks(NewReplacerSource(NewStringSource("{{who}}"), nil), []int{8})
	require.NoError(t, err)
	require.Equal(t, "{{who}}", string(out))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, "who", entry.Data["token"])
	require.Equal(t, ErrUnknownToken, entry.Data[logrus.ErrorKey])
}

// Text without the prefix byte comes out unchanged, whatever the read sizes.
func TestReplacerSource_PlainTextUnchanged(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.ByteRange('a', 'z')).Draw(rt, "data")
		reads := rapid.SliceOfN(rapid.IntRange(1, 16), 1, 4).Draw(rt, "reads")

		src := NewReplacerSource(&twoBytesSource{data: data}, map[string]string{"a": "b"})
		out, err := readInChunks(src, reads)
		if err != nil {
			rt.Fatalf("read: %v", err)
		}
		if !bytes.Equal(data, out) {
			rt.Fatalf("want %q, got %q", data, out)
		}
	})
}
