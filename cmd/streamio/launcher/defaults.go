package launcher

import "github.com/rony4d/go-streamio/sio"

// Defaults bundles the baseline configuration values the launcher will use
// before the config file and flags override them.

type Defaults struct {
	Logging  LoggingDefaults
	Pipeline PipelineDefaults
	Replace  ReplaceDefaults
}

type LoggingDefaults struct {
	Format    string //	text or json.
	Verbosity int    //	0=fatal .. 5=trace.
	Color     bool   //	Force colors in text output even when stderr is not a terminal.
}

// PipelineDefaults captures the adapter chain knobs.
type PipelineDefaults struct {
	BufferSize int   //	Read and write buffer size; also the transfer buffer of the copy loop.
	Limit      int64 //	Bytes of transformed input to copy; negative means everything.
	Output     string
	ZstdLevel  int //	Compression level on the zstd scale, mapped onto the encoder presets.
}

// ReplaceDefaults mirrors the replacer's own defaults.
type ReplaceDefaults struct {
	Prefix  string
	Postfix string
	MaxLen  int
}

// DefaultConfig returns the values used when nothing else is given.
func DefaultConfig() Defaults {
	return Defaults{
		Logging: LoggingDefaults{
			Format:    "text",
			Verbosity: 3,
		},
		Pipeline: PipelineDefaults{
			BufferSize: sio.DefaultBufferSize,
			Limit:      -1,
			Output:     "-",
			ZstdLevel:  3,
		},
		Replace: ReplaceDefaults{
			Prefix:  sio.DefaultPrefix,
			Postfix: sio.DefaultPostfix,
			MaxLen:  sio.DefaultMaxPlaceholderLen,
		},
	}
}
