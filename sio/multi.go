package sio

import (
	"io"

	"go.uber.org/multierr"
)

// MultiSource reads an ordered list of sources one after another as if they
// were one stream. It moves to the next source only when the current one
// reports io.EOF.
type MultiSource struct {
	sources []Source
	idx     int
}

// NewMultiSource reads sources in order. With no sources it is empty.
func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) Read(p []byte) (int, error) {
	for m.idx < len(m.sources) {
		n, err := m.sources[m.idx].Read(p)
		if err == io.EOF {
			m.idx++
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
	return 0, io.EOF
}

// Sources returns the wrapped sources in read order.
func (m *MultiSource) Sources() []Source {
	return m.sources
}

// Close closes every source and reports all failures together.
func (m *MultiSource) Close() error {
	var err error
	for _, s := range m.sources {
		err = multierr.Append(err, Close(s))
	}
	return err
}
