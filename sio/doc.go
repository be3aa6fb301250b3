// Package sio provides composable byte-stream adapters.
//
// A Source yields bytes and a Sink accepts them. Both are structurally
// identical to io.Reader and io.Writer, so files, sockets and any other
// reader or writer plug in directly. Adapters wrap exactly one inner
// Source or Sink and add one behaviour:
//
//	src := sio.NewLimitedSource(sio.NewHexSource(f), 1024)
//	sink := sio.NewBufferedSink(sio.NewHexSink(os.Stdout))
//	defer sink.Close()
//	_, err := sio.CopyAll(src, sink, nil)
//
// Adapters hold whatever they are given and Close closes it when it is an
// io.Closer. Ownership is chosen by what is passed in: a bare value or
// UniqueSource is owned, ReferenceSource is never closed, SharedSource is
// closed when its last handle closes.
//
// Nothing in this package is safe for concurrent use. Calls block until some
// progress is made or an error occurs.
package sio
