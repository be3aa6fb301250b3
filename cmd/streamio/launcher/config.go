// This file maps the CLI context and the optional YAML config file onto the Config struct.

package launcher

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/rony4d/go-streamio/integration"
)

// Config aggregates everything the launcher needs to build and run a pipeline.
type Config struct {
	// Preset names an integration profile applied before CLI overrides.
	Preset   string         `yaml:"preset"`
	Logging  LoggingConfig  `yaml:"logging"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Replace  ReplaceConfig  `yaml:"replace"`
}

// LoggingConfig selects the logrus formatter, level and optional Sentry hook.
type LoggingConfig struct {
	Format    string `yaml:"format"`
	Verbosity int    `yaml:"verbosity"`
	Color     bool   `yaml:"color"`
	SentryDSN string `yaml:"sentry"`
}

// PipelineConfig switches the codec stages and sizes the buffers.
type PipelineConfig struct {
	BufferSize     int    `yaml:"buffer"`
	Limit          int64  `yaml:"limit"`
	Output         string `yaml:"out"`
	HexDecode      bool   `yaml:"hex_decode"`
	HexEncode      bool   `yaml:"hex_encode"`
	ZstdDecompress bool   `yaml:"zstd_decompress"`
	ZstdCompress   bool   `yaml:"zstd_compress"`
	ZstdLevel      int    `yaml:"zstd_level"`
}

// ReplaceConfig enables the replacer stage when Values is non-empty or Enabled is set.
type ReplaceConfig struct {
	Enabled    bool              `yaml:"enabled"`
	ValuesFile string            `yaml:"values_file"`
	Values     map[string]string `yaml:"values"`
	Prefix     string            `yaml:"prefix"`
	Postfix    string            `yaml:"postfix"`
	MaxLen     int               `yaml:"max_len"`
	Elide      bool              `yaml:"elide"`
}

// Active reports whether the pipeline needs a replacer stage.
func (c ReplaceConfig) Active() bool {
	return c.Enabled || len(c.Values) > 0
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

//	defaultConfig is built from DefaultConfig in defaults.go so the two stay in sync.

func defaultConfig() Config {
	d := DefaultConfig()
	return Config{
		Logging: LoggingConfig{
			Format:    d.Logging.Format,
			Verbosity: d.Logging.Verbosity,
			Color:     d.Logging.Color,
		},
		Pipeline: PipelineConfig{
			BufferSize: d.Pipeline.BufferSize,
			Limit:      d.Pipeline.Limit,
			Output:     d.Pipeline.Output,
			ZstdLevel:  d.Pipeline.ZstdLevel,
		},
		Replace: ReplaceConfig{
			Values:  map[string]string{},
			Prefix:  d.Replace.Prefix,
			Postfix: d.Replace.Postfix,
			MaxLen:  d.Replace.MaxLen,
		},
	}
}

// MakeAllConfigs merges defaults, config-file values, the replacer values file
// and CLI overrides into a single config struct.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(resolvePath(file), &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	if ctx.IsSet("preset") {
		cfg.Preset = ctx.String("preset")
	}
	if cfg.Preset != "" {
		if err := applyPreset(&cfg, cfg.Preset); err != nil {
			return cfg, err
		}
	}

	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Replace.ValuesFile != "" {
		values, err := loadValuesFile(resolvePath(cfg.Replace.ValuesFile))
		if err != nil {
			return cfg, fmt.Errorf("failed to load replace values %s: %w", cfg.Replace.ValuesFile, err)
		}
		// explicit settings win over the file
		for k, v := range cfg.Replace.Values {
			values[k] = v
		}
		cfg.Replace.Values = values
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Pipeline.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be positive, got %d", c.Pipeline.BufferSize)
	}
	if c.Pipeline.ZstdLevel < 1 || c.Pipeline.ZstdLevel > 22 {
		return fmt.Errorf("zstd level must be within 1-22, got %d", c.Pipeline.ZstdLevel)
	}
	if c.Pipeline.HexDecode && c.Pipeline.HexEncode {
		return fmt.Errorf("hex.decode and hex.encode are mutually exclusive")
	}
	if c.Replace.MaxLen <= 0 {
		return fmt.Errorf("replace max length must be positive, got %d", c.Replace.MaxLen)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Config-file / CLI wiring
// -----------------------------------------------------------------------------

// applyPreset overlays the named integration preset on the pipeline stages.
func applyPreset(cfg *Config, name string) error {
	preset, err := integration.GetPresetByName(name)
	if err != nil {
		return err
	}
	p := &cfg.Pipeline
	current := integration.PresetConfig{
		BufferSize:     p.BufferSize,
		HexDecode:      p.HexDecode,
		HexEncode:      p.HexEncode,
		ZstdDecompress: p.ZstdDecompress,
		ZstdCompress:   p.ZstdCompress,
		ZstdLevel:      p.ZstdLevel,
		Replace:        cfg.Replace.Enabled,
	}
	integration.ApplyPreset(&current, preset)

	p.BufferSize = current.BufferSize
	p.HexDecode = current.HexDecode
	p.HexEncode = current.HexEncode
	p.ZstdDecompress = current.ZstdDecompress
	p.ZstdCompress = current.ZstdCompress
	p.ZstdLevel = current.ZstdLevel
	cfg.Replace.Enabled = current.Replace
	return nil
}

// loadConfigFile decodes YAML into cfg. Keys that are missing keep their
// current values, unknown keys are an error.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// loadValuesFile reads a flat YAML mapping of placeholder names to values.
func loadValuesFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("log.sentry") {
		cfg.Logging.SentryDSN = ctx.String("log.sentry")
	}

	if ctx.IsSet("buffer") {
		cfg.Pipeline.BufferSize = ctx.Int("buffer")
	}
	if ctx.IsSet("limit") {
		cfg.Pipeline.Limit = ctx.Int64("limit")
	}
	if ctx.IsSet("out") {
		cfg.Pipeline.Output = ctx.String("out")
	}
	if ctx.IsSet("hex.decode") {
		cfg.Pipeline.HexDecode = ctx.Bool("hex.decode")
	}
	if ctx.IsSet("hex.encode") {
		cfg.Pipeline.HexEncode = ctx.Bool("hex.encode")
	}
	if ctx.IsSet("zstd.decompress") {
		cfg.Pipeline.ZstdDecompress = ctx.Bool("zstd.decompress")
	}
	if ctx.IsSet("zstd.compress") {
		cfg.Pipeline.ZstdCompress = ctx.Bool("zstd.compress")
	}
	if ctx.IsSet("zstd.level") {
		cfg.Pipeline.ZstdLevel = ctx.Int("zstd.level")
	}

	if ctx.IsSet("replace.values") {
		cfg.Replace.ValuesFile = ctx.String("replace.values")
		cfg.Replace.Enabled = true
	}
	if ctx.IsSet("replace.set") {
		if cfg.Replace.Values == nil {
			cfg.Replace.Values = map[string]string{}
		}
		for _, kv := range ctx.StringSlice("replace.set") {
			name, value, err := splitAssignment(kv)
			if err != nil {
				return err
			}
			cfg.Replace.Values[name] = value
		}
	}
	if ctx.IsSet("replace.prefix") {
		cfg.Replace.Prefix = ctx.String("replace.prefix")
	}
	if ctx.IsSet("replace.postfix") {
		cfg.Replace.Postfix = ctx.String("replace.postfix")
	}
	if ctx.IsSet("replace.maxlen") {
		cfg.Replace.MaxLen = ctx.Int("replace.maxlen")
	}
	if ctx.IsSet("replace.elide") {
		cfg.Replace.Elide = ctx.Bool("replace.elide")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// splitAssignment parses name=value. The value may itself contain '='.
func splitAssignment(raw string) (string, string, error) {
	i := strings.IndexByte(raw, '=')
	if i <= 0 {
		return "", "", fmt.Errorf("invalid replace.set %q, want name=value", raw)
	}
	return strings.TrimSpace(raw[:i]), raw[i+1:], nil
}

func resolvePath(p string) string {
	if p == "-" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
