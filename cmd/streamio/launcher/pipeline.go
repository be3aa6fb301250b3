package launcher

import (
	"context"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/rony4d/go-streamio/sio"
)

// Stats reports how many bytes went through both ends of a pipeline run.
type Stats struct {
	// Read counts transformed input bytes, after every source-side stage.
	Read int64
	// Written counts bytes handed to the sink chain, before encoding.
	Written int64
}

// Pipeline connects the inputs to the output through the configured stages.
type Pipeline struct {
	cfg    Config
	stdin  sio.Source
	stdout sio.Sink
	log    *logrus.Entry
}

// NewPipeline creates a pipeline that uses stdin and stdout for "-".
func NewPipeline(cfg Config, stdin sio.Source, stdout sio.Sink) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		stdin:  stdin,
		stdout: stdout,
		log:    logrus.WithField("module", "pipeline"),
	}
}

// Run copies every input to the output. With no inputs it reads stdin.
// Cancelling ctx stops the copy before the next read.
func (p *Pipeline) Run(ctx context.Context, inputs []string) (Stats, error) {
	src, counted, err := p.openSource(ctx, inputs)
	if err != nil {
		return Stats{}, err
	}
	sink, written, err := p.openSink()
	if err != nil {
		return Stats{}, multierr.Append(err, sio.Close(src))
	}

	_, err = sio.CopyAll(src, sink, make([]byte, p.cfg.Pipeline.BufferSize))
	err = multierr.Combine(err, sio.Close(sink), sio.Close(src))

	stats := Stats{Read: counted.Count(), Written: written.Count()}
	p.log.WithFields(logrus.Fields{
		"read":    stats.Read,
		"written": stats.Written,
		"inputs":  len(inputs),
	}).Info("Pipeline finished")
	return stats, err
}

// openSource builds inputs -> zstd -> hex -> replacer -> limit -> counting,
// guarded by ctx.
func (p *Pipeline) openSource(ctx context.Context, inputs []string) (sio.Source, *sio.CountingSource, error) {
	var sources []sio.Source
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, name := range inputs {
		if name == "-" {
			sources = append(sources, sio.NewReferenceSource(p.stdin))
			continue
		}
		f, err := os.Open(resolvePath(name))
		if err != nil {
			return nil, nil, multierr.Append(fmt.Errorf("open input: %w", err), sio.NewMultiSource(sources...).Close())
		}
		sources = append(sources, sio.NewUniqueSource(f))
	}

	var src sio.Source = sio.NewMultiSource(sources...)
	if p.cfg.Pipeline.ZstdDecompress {
		dec, err := newZstdSource(src)
		if err != nil {
			return nil, nil, multierr.Append(err, sio.Close(src))
		}
		src = dec
	}
	if p.cfg.Pipeline.HexDecode {
		src = sio.NewHexSource(src)
	}
	if rc := p.cfg.Replace; rc.Active() {
		policy := sio.PassThrough
		if rc.Elide {
			policy = sio.Elide
		}
		src = sio.NewReplacerSource(src, rc.Values,
			sio.WithDelimiters(rc.Prefix, rc.Postfix),
			sio.WithMaxPlaceholderLen(rc.MaxLen),
			sio.WithUnknownPolicy(policy),
			sio.WithErrorHandler(func(token string, err error) {
				p.log.WithField("token", token).WithError(err).Warn("Placeholder left unresolved")
			}),
		)
	}
	if p.cfg.Pipeline.Limit >= 0 {
		src = sio.NewLimitedSource(src, p.cfg.Pipeline.Limit)
	}
	counted := sio.NewCountingSource(src)
	return &contextSource{ctx: ctx, src: counted}, counted, nil
}

// openSink builds counting -> hex -> zstd -> buffered -> output.
func (p *Pipeline) openSink() (sio.Sink, *sio.CountingSink, error) {
	var out sio.Sink
	if name := p.cfg.Pipeline.Output; name == "" || name == "-" {
		out = sio.NewReferenceSink(p.stdout)
	} else {
		f, err := os.Create(resolvePath(name))
		if err != nil {
			return nil, nil, fmt.Errorf("create output: %w", err)
		}
		out = sio.NewUniqueSink(f)
	}

	var sink sio.Sink = sio.NewBufferedSinkSize(out, p.cfg.Pipeline.BufferSize)
	if p.cfg.Pipeline.ZstdCompress {
		enc, err := newZstdSink(sink, p.cfg.Pipeline.ZstdLevel)
		if err != nil {
			return nil, nil, multierr.Append(err, sio.Close(sink))
		}
		sink = enc
	}
	if p.cfg.Pipeline.HexEncode {
		sink = sio.NewHexSink(sink)
	}
	counted := sio.NewCountingSink(sink)
	return counted, counted, nil
}

// contextSource fails reads once ctx is done. Reads already in progress are
// not interrupted.
type contextSource struct {
	ctx context.Context
	src sio.Source
}

func (c *contextSource) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.src.Read(p)
}

func (c *contextSource) Close() error {
	return sio.Close(c.src)
}

// zstdSource decompresses the inner source. Close releases the decoder and
// closes the inner source.
type zstdSource struct {
	dec *zstd.Decoder
	src sio.Source
}

func newZstdSource(src sio.Source) (*zstdSource, error) {
	dec, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &zstdSource{dec: dec, src: src}, nil
}

func (z *zstdSource) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdSource) Close() error {
	z.dec.Close()
	return sio.Close(z.src)
}

// zstdSink compresses into the inner sink. Close ends the frame before
// closing the inner sink.
type zstdSink struct {
	enc  *zstd.Encoder
	sink sio.Sink
}

func newZstdSink(sink sio.Sink, level int) (*zstdSink, error) {
	enc, err := zstd.NewWriter(sink,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return &zstdSink{enc: enc, sink: sink}, nil
}

func (z *zstdSink) Write(p []byte) (int, error) {
	return z.enc.Write(p)
}

// Flush emits the pending block and flushes the inner sink.
func (z *zstdSink) Flush() error {
	if err := z.enc.Flush(); err != nil {
		return err
	}
	return sio.Flush(z.sink)
}

func (z *zstdSink) Close() error {
	return multierr.Append(z.enc.Close(), sio.Close(z.sink))
}
