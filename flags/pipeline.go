package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// PipelineFlags configures the adapter chain between the inputs and the output.
// Source side: inputs -> zstd decompress -> hex decode -> replace -> limit.
// Sink side: hex encode -> zstd compress -> buffer -> output.

func PipelineFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "Named stage profile (default|hexdump|hexload|archive|unarchive|template); other flags override it",
		},
		cli.IntFlag{
			Name:  "buffer",
			Usage: "Size in bytes of the read and write buffers",
			Value: 8192,
		},
		cli.Int64Flag{
			Name:  "limit",
			Usage: "Stop after this many bytes of transformed input (-1 = no limit)",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Output file (- for stdout)",
			Value: "-",
		},
		cli.BoolFlag{
			Name:  "hex.decode",
			Usage: "Decode hexadecimal input",
		},
		cli.BoolFlag{
			Name:  "hex.encode",
			Usage: "Encode output as lowercase hexadecimal",
		},
		cli.BoolFlag{
			Name:  "zstd.decompress",
			Usage: "Decompress zstd input",
		},
		cli.BoolFlag{
			Name:  "zstd.compress",
			Usage: "Compress output with zstd",
		},
		cli.IntFlag{
			Name:  "zstd.level",
			Usage: "zstd compression level (1-22)",
			Value: 3,
		},
		cli.StringFlag{
			Name:  "replace.values",
			Usage: "YAML file mapping placeholder names to values",
		},
		cli.StringSliceFlag{
			Name:  "replace.set",
			Usage: "Placeholder value as name=value (repeatable)",
		},
		cli.StringFlag{
			Name:  "replace.prefix",
			Usage: "Placeholder opening delimiter",
			Value: "{{",
		},
		cli.StringFlag{
			Name:  "replace.postfix",
			Usage: "Placeholder closing delimiter",
			Value: "}}",
		},
		cli.IntFlag{
			Name:  "replace.maxlen",
			Usage: "Longest placeholder name to look up",
			Value: 255,
		},
		cli.BoolFlag{
			Name:  "replace.elide",
			Usage: "Drop placeholders without a value instead of passing them through",
		},
	}
}
