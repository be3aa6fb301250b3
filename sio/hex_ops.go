package sio

import "strings"

// CopyToHex copies src into sink as hex text and returns the number of plain
// bytes copied.
func CopyToHex(src Source, sink Sink) (int64, error) {
	return CopyAll(src, NewHexSink(sink), nil)
}

// CopyFromHex decodes hex text from src into sink and returns the number of
// decoded bytes.
func CopyFromHex(src Source, sink Sink) (int64, error) {
	return CopyAll(NewHexSource(src), sink, nil)
}

// StringToHex encodes s as lowercase hex.
func StringToHex(s string) string {
	if s == "" {
		return ""
	}
	sink := NewStringSink()
	// string sinks do not fail
	_, _ = CopyToHex(NewStringSource(s), sink)
	return sink.String()
}

// StringFromHex decodes hex text, in either case.
func StringFromHex(h string) (string, error) {
	if h == "" {
		return "", nil
	}
	sink := NewStringSink()
	if _, err := CopyFromHex(NewStringSource(h), sink); err != nil {
		return "", err
	}
	return sink.String(), nil
}

// FormatHex renders hex text as space-separated pairs followed by the decoded
// text in brackets, e.g. "66 6f 6f [foo]".
func FormatHex(h string) (string, error) {
	plain, err := StringFromHex(h)
	if err != nil {
		return "", err
	}
	return formatHexAndPlain(h, plain), nil
}

// FormatPlainAsHex is FormatHex for text that is not encoded yet.
func FormatPlainAsHex(s string) string {
	return formatHexAndPlain(StringToHex(s), s)
}

// formatHexAndPlain shows control characters in plain as spaces.
func formatHexAndPlain(h, plain string) string {
	if h == "" || plain == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(h); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(h[i : i+2])
	}
	b.WriteString(" [")
	for i := 0; i < len(plain); i++ {
		c := plain[i]
		if c < 32 {
			b.WriteByte(' ')
		} else {
			b.WriteByte(c)
		}
	}
	b.WriteByte(']')
	return b.String()
}
